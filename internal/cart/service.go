package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopcart-backend/pkg/db/models"
	"github.com/angelmondragon/shopcart-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/shopcart-backend/pkg/errors"
	"github.com/angelmondragon/shopcart-backend/pkg/logger"
	"github.com/angelmondragon/shopcart-backend/pkg/metrics"
)

// DefaultLookupConcurrency bounds parallel catalog lookups during recomputation.
const DefaultLookupConcurrency = 8

// MaxQuantity caps a single line item. It keeps merged quantities well inside
// the int4 quantity column.
const MaxQuantity = 10000

// Service is the cart aggregation engine. Every operation is scoped to an
// explicit user ID; a cart is created lazily on first use.
type Service interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*View, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*View, error)
	SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*View, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*View, error)
	Clear(ctx context.Context, userID uuid.UUID) error
	Recalculate(ctx context.Context, cart *models.Cart) (*View, error)
}

type service struct {
	store             Store
	products          ProductFinder
	logg              *logger.Logger
	recorder          Recorder
	lookupConcurrency int
}

// NewService builds the cart engine. recorder may be nil.
func NewService(store Store, products ProductFinder, logg *logger.Logger, recorder Recorder, lookupConcurrency int) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if lookupConcurrency <= 0 {
		lookupConcurrency = DefaultLookupConcurrency
	}
	return &service{
		store:             store,
		products:          products,
		logg:              logg,
		recorder:          recorder,
		lookupConcurrency: lookupConcurrency,
	}, nil
}

// GetOrCreate returns the user's cart, creating an empty one when absent. A
// create that loses the race against a concurrent request reloads the winner.
func (s *service) GetOrCreate(ctx context.Context, userID uuid.UUID) (view *View, err error) {
	defer s.observe(enums.CartOperationGet, time.Now(), &err)

	cart, err := s.loadOrNew(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart.Version == 0 {
		saved, saveErr := s.store.Save(ctx, cart)
		switch {
		case saveErr == nil:
			cart = saved
		case pkgerrors.IsCode(saveErr, pkgerrors.CodeConflict):
			if cart, err = s.load(ctx, userID); err != nil {
				return nil, err
			}
		default:
			return nil, asDependency(saveErr, "create cart")
		}
	}
	return s.Recalculate(ctx, cart)
}

// AddItem merges quantity units of the product into the cart. The merged
// quantity may not exceed MaxQuantity.
func (s *service) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (view *View, err error) {
	defer s.observe(enums.CartOperationAddItem, time.Now(), &err)

	if err := checkQuantity(quantity); err != nil {
		return nil, err
	}

	product, err := s.products.FindProductByID(ctx, productID)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "item not found")
		}
		return nil, asDependency(err, "load product")
	}

	cart, err := s.loadOrNew(ctx, userID)
	if err != nil {
		return nil, err
	}

	if idx := indexOf(cart.Items, productID); idx >= 0 {
		merged := cart.Items[idx].Quantity + quantity
		if merged > MaxQuantity {
			return nil, quantityTooLarge(merged)
		}
		cart.Items[idx].Quantity = merged
	} else {
		cart.Items = append(cart.Items, models.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
			Position:  len(cart.Items),
		})
	}

	return s.persist(ctx, cart, map[uuid.UUID]*models.Product{productID: product})
}

// SetQuantity overwrites the quantity of an existing line item. A quantity of
// zero or less removes the item.
func (s *service) SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (view *View, err error) {
	defer s.observe(enums.CartOperationSetQuantity, time.Now(), &err)

	if quantity > MaxQuantity {
		return nil, quantityTooLarge(quantity)
	}

	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := indexOf(cart.Items, productID)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found in cart")
	}
	if quantity <= 0 {
		cart.Items = removeAt(cart.Items, idx)
	} else {
		cart.Items[idx].Quantity = quantity
	}

	return s.persist(ctx, cart, nil)
}

// RemoveItem drops the product's line item. Removing an absent item is a
// no-op that still returns the (lazily created) cart.
func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (view *View, err error) {
	defer s.observe(enums.CartOperationRemoveItem, time.Now(), &err)

	cart, err := s.loadOrNew(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := indexOf(cart.Items, productID)
	if idx < 0 && cart.Version > 0 {
		return s.Recalculate(ctx, cart)
	}
	if idx >= 0 {
		cart.Items = removeAt(cart.Items, idx)
	}
	return s.persist(ctx, cart, nil)
}

// Clear empties the cart. Clearing a missing or empty cart succeeds without
// writing.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) (err error) {
	defer s.observe(enums.CartOperationClear, time.Now(), &err)

	cart, err := s.load(ctx, userID)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return nil
		}
		return err
	}
	if len(cart.Items) == 0 {
		return nil
	}

	cart.Items = nil
	if _, err := s.store.Save(ctx, cart); err != nil {
		return asDependency(err, "save cart")
	}
	return nil
}

// Recalculate resolves every line item against the catalog and derives the
// total from live prices. It never writes. An empty cart totals zero without
// touching the catalog.
func (s *service) Recalculate(ctx context.Context, cart *models.Cart) (*View, error) {
	if cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart is required")
	}
	items, total, err := s.price(ctx, cart, nil)
	if err != nil {
		return nil, err
	}
	return newView(cart, items, total), nil
}

// persist prices the mutated cart before saving it so a dangling product
// reference aborts the write.
func (s *service) persist(ctx context.Context, cart *models.Cart, known map[uuid.UUID]*models.Product) (*View, error) {
	items, total, err := s.price(ctx, cart, known)
	if err != nil {
		return nil, err
	}
	saved, err := s.store.Save(ctx, cart)
	if err != nil {
		return nil, asDependency(err, "save cart")
	}
	return newView(saved, items, total), nil
}

func (s *service) price(ctx context.Context, cart *models.Cart, known map[uuid.UUID]*models.Product) ([]ViewItem, decimal.Decimal, error) {
	if len(cart.Items) == 0 {
		return []ViewItem{}, decimal.Zero, nil
	}

	products := make([]*models.Product, len(cart.Items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.lookupConcurrency)
	for i, item := range cart.Items {
		if product, ok := known[item.ProductID]; ok {
			products[i] = product
			continue
		}
		g.Go(func() error {
			product, err := s.products.FindProductByID(gctx, item.ProductID)
			if err != nil {
				return s.lookupError(ctx, cart, item.ProductID, err)
			}
			products[i] = product
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, decimal.Zero, err
	}

	total := decimal.Zero
	items := make([]ViewItem, len(cart.Items))
	for i, item := range cart.Items {
		product := products[i]
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		items[i] = ViewItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Product:   newProductSummary(product),
		}
	}
	return items, total, nil
}

func (s *service) lookupError(ctx context.Context, cart *models.Cart, productID uuid.UUID, err error) error {
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		return asDependency(err, "load product")
	}
	logCtx := s.logg.WithCartID(ctx, cart.ID.String())
	logCtx = s.logg.WithUserID(logCtx, cart.UserID.String())
	logCtx = s.logg.WithProductID(logCtx, productID.String())
	s.logg.Error(logCtx, "cart references a missing product", err)
	return pkgerrors.Wrap(pkgerrors.CodeInconsistentReference, err, "cart references a missing product").
		WithDetails(map[string]any{"productId": productID})
}

// load returns the user's cart or a NOT_FOUND typed error.
func (s *service) load(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	cart, err := s.store.LoadByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, asDependency(err, "load cart")
	}
	return cart, nil
}

// loadOrNew returns the stored cart or an unsaved empty one (Version 0).
func (s *service) loadOrNew(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.load(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		return &models.Cart{UserID: userID}, nil
	}
	return nil, err
}

func (s *service) observe(op enums.CartOperation, start time.Time, errp *error) {
	if s.recorder == nil {
		return
	}
	outcome := metrics.OutcomeSuccess
	if err := *errp; err != nil {
		outcome = metrics.OutcomeError
		if pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
			outcome = metrics.OutcomeConflict
			s.recorder.IncConflict(op)
		}
	}
	s.recorder.Observe(op, outcome, time.Since(start))
}

func indexOf(items []models.CartItem, productID uuid.UUID) int {
	for i := range items {
		if items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func removeAt(items []models.CartItem, idx int) []models.CartItem {
	out := make([]models.CartItem, 0, len(items)-1)
	out = append(out, items[:idx]...)
	return append(out, items[idx+1:]...)
}

// asDependency keeps typed errors intact and wraps anything else as a
// dependency failure with the cause preserved.
func asDependency(err error, message string) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}

func checkQuantity(quantity int) error {
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").
			WithDetails(map[string]string{"quantity": "must be at least 1"})
	}
	if quantity > MaxQuantity {
		return quantityTooLarge(quantity)
	}
	return nil
}

func quantityTooLarge(quantity int) error {
	return pkgerrors.Newf(pkgerrors.CodeValidation, "quantity %d exceeds the limit of %d", quantity, MaxQuantity).
		WithDetails(map[string]string{"quantity": fmt.Sprintf("must be at most %d", MaxQuantity)})
}
