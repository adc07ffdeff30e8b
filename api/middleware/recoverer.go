package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/angelmondragon/shopcart-backend/api/responses"
	pkgerrors "github.com/angelmondragon/shopcart-backend/pkg/errors"
	"github.com/angelmondragon/shopcart-backend/pkg/logger"
)

// Recoverer turns a handler panic into a 500 envelope. http.ErrAbortHandler is
// re-raised so net/http can drop the connection.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}
				writePanic(w, r, logg, rec)
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func writePanic(w http.ResponseWriter, r *http.Request, logg *logger.Logger, rec any) {
	cause, ok := rec.(error)
	if !ok {
		cause = fmt.Errorf("%v", rec)
	}
	ctx := r.Context()
	if logg != nil {
		ctx = logg.WithField(ctx, "panic", fmt.Sprint(rec))
	}
	responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, cause, "panic recovered"))
}
