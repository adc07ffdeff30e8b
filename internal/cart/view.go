package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/shopcart-backend/pkg/db/models"
)

// View is the resolved cart returned to callers: line items joined with the
// live product details plus the derived total.
type View struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	Items       []ViewItem      `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ViewItem is one resolved line item.
type ViewItem struct {
	ProductID uuid.UUID      `json:"productId"`
	Quantity  int            `json:"quantity"`
	Product   ProductSummary `json:"product"`
}

// ProductSummary is the product projection embedded in a line item.
type ProductSummary struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Category string          `json:"category"`
}

func newProductSummary(product *models.Product) ProductSummary {
	return ProductSummary{
		Name:     product.Name,
		Price:    product.Price,
		Image:    product.Image,
		Category: product.Category.String(),
	}
}

func newView(cart *models.Cart, items []ViewItem, total decimal.Decimal) *View {
	if items == nil {
		items = []ViewItem{}
	}
	return &View{
		ID:          cart.ID,
		UserID:      cart.UserID,
		Items:       items,
		TotalAmount: total,
		CreatedAt:   cart.CreatedAt,
		UpdatedAt:   cart.UpdatedAt,
	}
}
