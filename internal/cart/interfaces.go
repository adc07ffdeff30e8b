package cart

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/shopcart-backend/pkg/db/models"
	"github.com/angelmondragon/shopcart-backend/pkg/enums"
)

// ProductFinder resolves catalog products. A missing product must be reported
// as a NOT_FOUND typed error.
type ProductFinder interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Store persists one cart per user.
//
// LoadByUser returns gorm.ErrRecordNotFound when the user has no cart. Save is
// all-or-nothing: it writes the cart row and replaces its line items, failing
// with a CONFLICT typed error when the cart changed since it was loaded.
type Store interface {
	LoadByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) (*models.Cart, error)
}

// Recorder receives per-operation measurements.
type Recorder interface {
	Observe(op enums.CartOperation, outcome string, duration time.Duration)
	IncConflict(op enums.CartOperation)
}
