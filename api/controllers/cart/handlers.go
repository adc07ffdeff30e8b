package cart

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/shopcart-backend/api/middleware"
	"github.com/angelmondragon/shopcart-backend/api/responses"
	"github.com/angelmondragon/shopcart-backend/api/validators"
	cartsvc "github.com/angelmondragon/shopcart-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/shopcart-backend/pkg/errors"
	"github.com/angelmondragon/shopcart-backend/pkg/logger"
	"github.com/angelmondragon/shopcart-backend/pkg/types"
)

const itemIDParam = "itemId"

// CartGet returns the caller's cart, creating an empty one on first access.
func CartGet(svc cartsvc.Service, policy cartsvc.ReplayPolicy, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r, svc, logg)
		if !ok {
			return
		}

		view, err := replay(r.Context(), policy, func(ctx context.Context) (*cartsvc.View, error) {
			return svc.GetOrCreate(ctx, userID)
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// CartAddItem merges { itemId, quantity } into the caller's cart.
func CartAddItem(svc cartsvc.Service, policy cartsvc.ReplayPolicy, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r, svc, logg)
		if !ok {
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := payload.productID()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := replay(r.Context(), policy, func(ctx context.Context) (*cartsvc.View, error) {
			return svc.AddItem(ctx, userID, productID, payload.quantity())
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// CartSetQuantity overwrites the quantity of one line item.
func CartSetQuantity(svc cartsvc.Service, policy cartsvc.ReplayPolicy, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r, svc, logg)
		if !ok {
			return
		}

		productID, err := validators.ParseUUIDParam(r, itemIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := replay(r.Context(), policy, func(ctx context.Context) (*cartsvc.View, error) {
			return svc.SetQuantity(ctx, userID, productID, *payload.Quantity)
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// CartRemoveItem drops a line item; removing an absent product is not an error.
func CartRemoveItem(svc cartsvc.Service, policy cartsvc.ReplayPolicy, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r, svc, logg)
		if !ok {
			return
		}

		productID, err := validators.ParseUUIDParam(r, itemIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := replay(r.Context(), policy, func(ctx context.Context) (*cartsvc.View, error) {
			return svc.RemoveItem(ctx, userID, productID)
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// CartClear empties the caller's cart.
func CartClear(svc cartsvc.Service, policy cartsvc.ReplayPolicy, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r, svc, logg)
		if !ok {
			return
		}

		err := cartsvc.ReplayOnConflict(r.Context(), policy, func(ctx context.Context) error {
			return svc.Clear(ctx, userID)
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.MessageResponse{Message: "cart cleared"})
	}
}

func requireUser(w http.ResponseWriter, r *http.Request, svc cartsvc.Service, logg *logger.Logger) (uuid.UUID, bool) {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
		return uuid.Nil, false
	}
	userID, ok := middleware.UserUUIDFromContext(r.Context())
	if !ok {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
		return uuid.Nil, false
	}
	return userID, true
}

func replay(ctx context.Context, policy cartsvc.ReplayPolicy, op func(context.Context) (*cartsvc.View, error)) (*cartsvc.View, error) {
	var view *cartsvc.View
	err := cartsvc.ReplayOnConflict(ctx, policy, func(ctx context.Context) error {
		v, err := op(ctx)
		if err != nil {
			return err
		}
		view = v
		return nil
	})
	return view, err
}
