package controllers

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/shopcart-backend/api/responses"
	"github.com/angelmondragon/shopcart-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/shopcart-backend/pkg/errors"
	"github.com/angelmondragon/shopcart-backend/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// Pinger is satisfied by the db and redis clients.
type Pinger interface {
	Ping(context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Shopcart-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every dependency concurrently and reports 503 with the
// failing names when any of them is down.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Shopcart-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		results := make(map[string]string, len(deps))
		names := make([]string, 0, len(deps))
		pingers := make([]Pinger, 0, len(deps))
		for name, p := range deps {
			if p == nil {
				continue
			}
			names = append(names, name)
			pingers = append(pingers, p)
		}
		failures := make([]error, len(pingers))

		var g errgroup.Group
		for i, p := range pingers {
			g.Go(func() error {
				failures[i] = p.Ping(ctx)
				return nil
			})
		}
		_ = g.Wait()

		var first error
		for i, name := range names {
			if failures[i] != nil {
				results[name] = "down"
				if first == nil {
					first = failures[i]
				}
				continue
			}
			results[name] = "up"
		}

		if first != nil {
			err := pkgerrors.Wrap(pkgerrors.CodeDependency, first, "dependency not ready").WithDetails(results)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": results})
	}
}
