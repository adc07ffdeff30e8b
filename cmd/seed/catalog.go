package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopcart-backend/pkg/db/models"
	"github.com/angelmondragon/shopcart-backend/pkg/enums"
)

type productSeeder interface {
	FindByName(ctx context.Context, name string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
}

func sampleProducts() []models.Product {
	return []models.Product{
		{
			Name:        "iPhone 15 Pro",
			Description: "Latest iPhone with A17 Pro chip and titanium design",
			Price:       decimal.NewFromInt(159900),
			Category:    enums.ProductCategoryElectronics,
			Image:       "https://images.unsplash.com/photo-1592750475338-74b7b21085ab?w=400",
			InStock:     true,
			Stock:       50,
		},
		{
			Name:        "MacBook Pro M3",
			Description: "Powerful laptop with M3 chip for professionals",
			Price:       decimal.NewFromInt(169900),
			Category:    enums.ProductCategoryElectronics,
			Image:       "https://images.unsplash.com/photo-1517336714731-489689fd1ca8?w=400",
			InStock:     true,
			Stock:       25,
		},
		{
			Name:        "Nike Air Max 270",
			Description: "Comfortable running shoes with Air Max technology",
			Price:       decimal.NewFromInt(10000),
			Category:    enums.ProductCategorySports,
			Image:       "https://images.unsplash.com/photo-1542291026-7eec264c27ff?w=400",
			InStock:     true,
			Stock:       100,
		},
		{
			Name:        "Levi's 501 Original Jeans",
			Description: "Classic straight-fit jeans",
			Price:       decimal.NewFromInt(999),
			Category:    enums.ProductCategoryClothing,
			Image:       "https://images.unsplash.com/photo-1542272604-787c3835535d?w=400",
			InStock:     true,
			Stock:       75,
		},
		{
			Name:        "The Great Gatsby",
			Description: "Classic American novel by F. Scott Fitzgerald",
			Price:       decimal.NewFromInt(499),
			Category:    enums.ProductCategoryBooks,
			Image:       "https://images.unsplash.com/photo-1544716278-ca5e3f4abd8c?w=400",
			InStock:     true,
			Stock:       200,
		},
		{
			Name:        "Coffee Table",
			Description: "Modern wooden coffee table for living room",
			Price:       decimal.NewFromInt(2999),
			Category:    enums.ProductCategoryHome,
			Image:       "https://images.unsplash.com/photo-1506439773649-6e0eb8cfb237?w=400",
			InStock:     true,
			Stock:       15,
		},
		{
			Name:        "Wireless Headphones",
			Description: "High-quality wireless headphones with noise cancellation",
			Price:       decimal.NewFromInt(2000),
			Category:    enums.ProductCategoryElectronics,
			Image:       "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=400",
			InStock:     false,
			Stock:       0,
		},
		{
			Name:        "Yoga Mat",
			Description: "Non-slip yoga mat for home workouts",
			Price:       decimal.NewFromInt(200),
			Category:    enums.ProductCategorySports,
			Image:       "https://images.unsplash.com/photo-1544367567-0f2fcb009e0b?w=400",
			InStock:     true,
			Stock:       80,
		},
	}
}

// seedCatalog inserts every sample product whose name is not present yet and
// returns how many rows it created. Existing rows are left untouched.
func seedCatalog(ctx context.Context, repo productSeeder, products []models.Product) (int, error) {
	created := 0
	for i := range products {
		product := products[i]
		_, err := repo.FindByName(ctx, product.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, fmt.Errorf("lookup %q: %w", product.Name, err)
		}
		if _, err := repo.Create(ctx, &product); err != nil {
			return created, fmt.Errorf("create %q: %w", product.Name, err)
		}
		created++
	}
	return created, nil
}
