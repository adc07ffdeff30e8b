package items

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/shopcart-backend/api/validators"
	"github.com/angelmondragon/shopcart-backend/internal/catalog"
	"github.com/angelmondragon/shopcart-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/shopcart-backend/pkg/errors"
)

const maxSearchLength = 200

type createItemRequest struct {
	Name        string           `json:"name" validate:"required,max=200"`
	Description string           `json:"description" validate:"required,max=5000"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	Category    string           `json:"category" validate:"required"`
	Image       string           `json:"image" validate:"required,max=2048"`
	InStock     *bool            `json:"inStock"`
	Stock       *int             `json:"stock" validate:"omitempty,min=0"`
}

func (r createItemRequest) toInput() (catalog.CreateProductInput, error) {
	category, err := parseCategory(r.Category)
	if err != nil {
		return catalog.CreateProductInput{}, err
	}
	input := catalog.CreateProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       *r.Price,
		Category:    category,
		Image:       r.Image,
		InStock:     r.InStock,
	}
	if r.Stock != nil {
		input.Stock = *r.Stock
	}
	return input, nil
}

type updateItemRequest struct {
	Name        *string          `json:"name" validate:"omitempty,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=5000"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	Image       *string          `json:"image" validate:"omitempty,max=2048"`
	InStock     *bool            `json:"inStock"`
	Stock       *int             `json:"stock" validate:"omitempty,min=0"`
}

func (r updateItemRequest) toInput() (catalog.UpdateProductInput, error) {
	input := catalog.UpdateProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Image:       r.Image,
		InStock:     r.InStock,
		Stock:       r.Stock,
	}
	if r.Category != nil {
		category, err := parseCategory(*r.Category)
		if err != nil {
			return catalog.UpdateProductInput{}, err
		}
		input.Category = &category
	}
	return input, nil
}

func parseCategory(raw string) (enums.ProductCategory, error) {
	category, err := enums.ParseProductCategory(raw)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category").
			WithDetails(map[string]string{"category": "must be one of " + enums.ProductCategoryList()})
	}
	return category, nil
}

// parseListFilters reads category, minPrice, maxPrice, search and sort. An
// empty category means all categories.
func parseListFilters(r *http.Request) (catalog.ListFilters, error) {
	var filters catalog.ListFilters

	if raw := validators.ParseQueryString(r, "category", 64); raw != "" {
		category, err := parseCategory(raw)
		if err != nil {
			return filters, err
		}
		filters.Category = &category
	}

	minPrice, err := validators.ParseQueryDecimal(r, "minPrice")
	if err != nil {
		return filters, err
	}
	maxPrice, err := validators.ParseQueryDecimal(r, "maxPrice")
	if err != nil {
		return filters, err
	}
	filters.MinPrice = minPrice
	filters.MaxPrice = maxPrice

	filters.Search = validators.ParseQueryString(r, "search", maxSearchLength)

	sort, err := enums.ParseProductSort(validators.ParseQueryString(r, "sort", 64))
	if err != nil {
		return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sort").
			WithDetails(map[string]string{"sort": "must be one of createdAt, price, name with optional - prefix"})
	}
	filters.Sort = sort
	return filters, nil
}
