package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopcart-backend/pkg/enums"
)

// Product is a catalog entry. Carts reference it by ID and read its price live.
type Product struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	Name        string                `gorm:"column:name;not null"`
	Description string                `gorm:"column:description;not null"`
	Price       decimal.Decimal       `gorm:"column:price;type:numeric(12,2);not null"`
	Category    enums.ProductCategory `gorm:"column:category;not null"`
	Image       string                `gorm:"column:image;not null"`
	InStock     bool                  `gorm:"column:in_stock;not null"`
	Stock       int                   `gorm:"column:stock;not null"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
