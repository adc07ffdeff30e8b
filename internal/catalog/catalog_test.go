package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopcart-backend/pkg/db/dbtest"
	"github.com/angelmondragon/shopcart-backend/pkg/db/models"
	"github.com/angelmondragon/shopcart-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/shopcart-backend/pkg/errors"
)

func seedProducts(t *testing.T, conn *gorm.DB) []models.Product {
	t.Helper()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	products := []models.Product{
		{Name: "iPhone 15 Pro", Description: "Latest phone with titanium design", Price: decimal.RequireFromString("1599.00"), Category: enums.ProductCategoryElectronics, Image: "a.jpg", InStock: true, Stock: 50, CreatedAt: base},
		{Name: "Yoga Mat", Description: "Non-slip mat for home workouts", Price: decimal.RequireFromString("2.00"), Category: enums.ProductCategorySports, Image: "b.jpg", InStock: true, Stock: 80, CreatedAt: base.Add(time.Minute)},
		{Name: "The Great Gatsby", Description: "Classic American novel", Price: decimal.RequireFromString("4.99"), Category: enums.ProductCategoryBooks, Image: "c.jpg", InStock: true, Stock: 200, CreatedAt: base.Add(2 * time.Minute)},
		{Name: "Wireless Headphones", Description: "Noise cancellation for the HOME office", Price: decimal.RequireFromString("20.00"), Category: enums.ProductCategoryElectronics, Image: "d.jpg", InStock: false, Stock: 0, CreatedAt: base.Add(3 * time.Minute)},
	}
	require.NoError(t, conn.Create(&products).Error)
	return products
}

func names(result *ListResult) []string {
	out := make([]string, 0, len(result.Items))
	for _, item := range result.Items {
		out = append(out, item.Name)
	}
	return out
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := dbtest.Open(t)
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)
	return svc, conn
}

func TestListProductsDefaultsToNewestFirst(t *testing.T) {
	svc, conn := newTestService(t)
	seedProducts(t, conn)

	result, err := svc.ListProducts(context.Background(), ListFilters{})
	require.NoError(t, err)
	assert.Equal(t, 4, result.Count)
	assert.Equal(t, []string{"Wireless Headphones", "The Great Gatsby", "Yoga Mat", "iPhone 15 Pro"}, names(result))
}

func TestListProductsFilters(t *testing.T) {
	svc, conn := newTestService(t)
	seedProducts(t, conn)
	ctx := context.Background()

	electronics := enums.ProductCategoryElectronics
	result, err := svc.ListProducts(ctx, ListFilters{Category: &electronics, Sort: enums.ProductSort{Field: enums.ProductSortPrice}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Wireless Headphones", "iPhone 15 Pro"}, names(result))

	minPrice := decimal.RequireFromString("2.00")
	maxPrice := decimal.RequireFromString("20")
	result, err = svc.ListProducts(ctx, ListFilters{MinPrice: &minPrice, MaxPrice: &maxPrice, Sort: enums.ProductSort{Field: enums.ProductSortPrice}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Yoga Mat", "The Great Gatsby", "Wireless Headphones"}, names(result), "price bounds are inclusive")

	result, err = svc.ListProducts(ctx, ListFilters{Search: "home", Sort: enums.ProductSort{Field: enums.ProductSortName}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Wireless Headphones", "Yoga Mat"}, names(result), "search matches name or description case-insensitively")

	result, err = svc.ListProducts(ctx, ListFilters{Search: "100%"})
	require.NoError(t, err)
	assert.Zero(t, result.Count, "wildcards in the search term are literal")
}

func TestListProductsRejectsInvalidFilters(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	minPrice := decimal.NewFromInt(10)
	maxPrice := decimal.NewFromInt(5)
	_, err := svc.ListProducts(ctx, ListFilters{MinPrice: &minPrice, MaxPrice: &maxPrice})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.ListProducts(ctx, ListFilters{Sort: enums.ProductSort{Field: "rating"}})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	bogus := enums.ProductCategory("Toys")
	_, err = svc.ListProducts(ctx, ListFilters{Category: &bogus})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestFindProductByIDNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.FindProductByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.GetProduct(context.Background(), uuid.Nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestCreateUpdateDeleteProduct(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:        "  Coffee Table ",
		Description: "Modern wooden coffee table",
		Price:       decimal.RequireFromString("29.99"),
		Category:    enums.ProductCategoryHome,
		Image:       "table.jpg",
		Stock:       15,
	})
	require.NoError(t, err)
	assert.Equal(t, "Coffee Table", created.Name)
	assert.True(t, created.InStock, "in stock defaults to true")
	assert.NotEqual(t, uuid.Nil, created.ID)

	newPrice := decimal.RequireFromString("24.50")
	outOfStock := false
	updated, err := svc.UpdateProduct(ctx, created.ID, UpdateProductInput{Price: &newPrice, InStock: &outOfStock})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(newPrice))
	assert.False(t, updated.InStock)

	fetched, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, fetched.Price.Equal(newPrice))
	assert.Equal(t, "Modern wooden coffee table", fetched.Description)

	require.NoError(t, svc.DeleteProduct(ctx, created.ID))
	err = svc.DeleteProduct(ctx, created.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	valid := CreateProductInput{
		Name:        "Jeans",
		Description: "Classic straight-fit jeans",
		Price:       decimal.RequireFromString("9.99"),
		Category:    enums.ProductCategoryClothing,
		Image:       "jeans.jpg",
	}

	cases := map[string]func(in *CreateProductInput){
		"blank name":     func(in *CreateProductInput) { in.Name = "  " },
		"negative price": func(in *CreateProductInput) { in.Price = decimal.NewFromInt(-1) },
		"bad category":   func(in *CreateProductInput) { in.Category = "Toys" },
		"missing image":  func(in *CreateProductInput) { in.Image = "" },
		"negative stock": func(in *CreateProductInput) { in.Stock = -3 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			input := valid
			mutate(&input)
			_, err := svc.CreateProduct(ctx, input)
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)
		})
	}
}

func TestRepositoryFindByName(t *testing.T) {
	conn := dbtest.Open(t)
	seedProducts(t, conn)
	repo := NewRepository(conn)

	product, err := repo.FindByName(context.Background(), "Yoga Mat")
	require.NoError(t, err)
	assert.True(t, product.Price.Equal(decimal.NewFromInt(2)))

	_, err = repo.FindByName(context.Background(), "Nope")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
