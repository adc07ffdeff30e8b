package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/shopcart-backend/pkg/db"
	"github.com/angelmondragon/shopcart-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/shopcart-backend/pkg/errors"
)

const userIDConstraint = "user_id"

type txRunner interface {
	DB() *gorm.DB
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Repository stores carts and their line items with an optimistic version.
type Repository struct {
	client txRunner
}

// NewRepository constructs a cart repository bound to the provided client.
func NewRepository(client *db.Client) *Repository {
	return &Repository{client: client}
}

// LoadByUser loads the user's cart with line items in insertion order.
func (r *Repository) LoadByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.client.DB().WithContext(ctx).
		Preload("Items", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position ASC")
		}).
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// Save inserts a new cart (Version 0) or updates an existing one guarded by
// its version, then replaces the line items. On success the returned cart
// carries the new version; on failure the input is left untouched.
func (r *Repository) Save(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	if cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart is required")
	}

	saved := &models.Cart{
		ID:        cart.ID,
		UserID:    cart.UserID,
		Version:   cart.Version + 1,
		CreatedAt: cart.CreatedAt,
	}

	err := r.client.WithTx(ctx, func(tx *gorm.DB) error {
		now := time.Now().UTC()
		if cart.Version == 0 {
			saved.CreatedAt = now
			saved.UpdatedAt = now
			if err := tx.Omit(clause.Associations).Create(saved).Error; err != nil {
				if db.IsUniqueViolation(err, userIDConstraint) {
					return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "cart already exists for user")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert cart")
			}
		} else {
			res := tx.Model(&models.Cart{}).
				Where("id = ? AND version = ?", cart.ID, cart.Version).
				Updates(map[string]any{
					"version":    gorm.Expr("version + 1"),
					"updated_at": now,
				})
			if res.Error != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "update cart")
			}
			if res.RowsAffected == 0 {
				return pkgerrors.New(pkgerrors.CodeConflict, "cart was modified concurrently")
			}
			saved.UpdatedAt = now
		}

		items, err := replaceItems(tx, saved.ID, cart.Items, now)
		if err != nil {
			return err
		}
		saved.Items = items
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return saved, nil
}

func replaceItems(tx *gorm.DB, cartID uuid.UUID, items []models.CartItem, now time.Time) ([]models.CartItem, error) {
	if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart items")
	}
	if len(items) == 0 {
		return []models.CartItem{}, nil
	}

	rows := make([]models.CartItem, len(items))
	for i, item := range items {
		if item.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("line item %s has quantity %d", item.ProductID, item.Quantity))
		}
		rows[i] = models.CartItem{
			ID:        item.ID,
			CartID:    cartID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Position:  i,
			CreatedAt: item.CreatedAt,
			UpdatedAt: now,
		}
		if rows[i].CreatedAt.IsZero() {
			rows[i].CreatedAt = now
		}
	}
	if err := tx.Create(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert cart items")
	}
	return rows, nil
}
