package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopcart-backend/pkg/db/models"
	"github.com/angelmondragon/shopcart-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/shopcart-backend/pkg/errors"
)

// Service exposes catalog reads and product management.
type Service interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, filters ListFilters) (*ListResult, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Category    enums.ProductCategory
	Image       string
	InStock     *bool
	Stock       int
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Category    *enums.ProductCategory
	Image       *string
	InStock     *bool
	Stock       *int
}

type productStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, filters ListFilters) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type service struct {
	repo productStore
}

// NewService constructs a catalog service instance.
func NewService(repo productStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

// FindProductByID resolves a product for collaborators such as the cart
// engine. A missing product is a typed NOT_FOUND error.
func (s *service) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.FindProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewProductDTO(product), nil
}

func (s *service) ListProducts(ctx context.Context, filters ListFilters) (*ListResult, error) {
	if filters.Category != nil && !filters.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
	}
	if filters.MinPrice != nil && filters.MaxPrice != nil && filters.MinPrice.GreaterThan(*filters.MaxPrice) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "minPrice cannot exceed maxPrice")
	}
	if filters.Sort.Field == "" {
		filters.Sort = enums.DefaultProductSort
	}
	if !filters.Sort.Field.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid sort field")
	}

	products, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	result := &ListResult{Count: len(products), Items: make([]ProductDTO, 0, len(products))}
	for i := range products {
		result.Items = append(result.Items, *NewProductDTO(&products[i]))
	}
	return result, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	product := &models.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		Image:       input.Image,
		InStock:     true,
		Stock:       input.Stock,
	}
	if input.InStock != nil {
		product.InStock = *input.InStock
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert product")
	}
	return NewProductDTO(created), nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.FindProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Image != nil {
		product.Image = *input.Image
	}
	if input.InStock != nil {
		product.InStock = *input.InStock
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return NewProductDTO(updated), nil
}

// DeleteProduct removes the product. Carts that still reference it surface
// an inconsistent reference on their next recomputation.
func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

func validateProduct(product *models.Product) error {
	switch {
	case product.Name == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	case strings.TrimSpace(product.Description) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	case product.Price.IsNegative():
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	case !product.Category.IsValid():
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
	case strings.TrimSpace(product.Image) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "image is required")
	case product.Stock < 0:
		return pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	return nil
}
