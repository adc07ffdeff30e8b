package cart

import (
	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/shopcart-backend/pkg/errors"
)

const defaultAddQuantity = 1

type addItemRequest struct {
	ItemID   string `json:"itemId" validate:"required,uuid"`
	Quantity *int   `json:"quantity" validate:"omitempty,min=1,max=10000"`
}

func (r addItemRequest) productID() (uuid.UUID, error) {
	id, err := uuid.Parse(r.ItemID)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid itemId")
	}
	return id, nil
}

func (r addItemRequest) quantity() int {
	if r.Quantity == nil {
		return defaultAddQuantity
	}
	return *r.Quantity
}

// Quantity is required but may be zero or negative: both remove the line item.
type setQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,max=10000"`
}
