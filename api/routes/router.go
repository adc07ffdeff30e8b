package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/shopcart-backend/api/controllers"
	authcontrollers "github.com/angelmondragon/shopcart-backend/api/controllers/auth"
	cartcontrollers "github.com/angelmondragon/shopcart-backend/api/controllers/cart"
	itemcontrollers "github.com/angelmondragon/shopcart-backend/api/controllers/items"
	"github.com/angelmondragon/shopcart-backend/api/middleware"
	"github.com/angelmondragon/shopcart-backend/internal/auth"
	"github.com/angelmondragon/shopcart-backend/internal/cart"
	"github.com/angelmondragon/shopcart-backend/internal/catalog"
	"github.com/angelmondragon/shopcart-backend/pkg/auth/session"
	"github.com/angelmondragon/shopcart-backend/pkg/config"
	"github.com/angelmondragon/shopcart-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/shopcart-backend/pkg/redis"
)

// redisStore is the slice of the redis client the HTTP layer depends on.
type redisStore interface {
	pkgredis.IdempotencyStore
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
	Ping(ctx context.Context) error
}

// Dependencies bundles everything the router wires into handlers.
type Dependencies struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             controllers.Pinger
	Redis          redisStore
	Sessions       session.AccessSessionChecker
	AuthService    auth.Service
	CatalogService catalog.Service
	CartService    cart.Service
	Gatherer       prometheus.Gatherer
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	if cfg.App.TrustProxyHeaders {
		r.Use(chimw.RealIP)
	}
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)
	replayPolicy := cart.ReplayPolicy{
		MaxRetries: uint64(max(cfg.Cart.ConflictRetries, 0)),
		Backoff:    cfg.Cart.ConflictBackoff,
	}

	requireAuth := middleware.Auth(cfg.JWT, deps.Sessions, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readinessChecks(deps)))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", authcontrollers.AuthLogin(deps.AuthService, logg))
			r.With(
				middleware.AuthRateLimit(registerPolicy, deps.Redis, logg),
				middleware.Idempotency(deps.Redis, logg),
			).Post("/register", authcontrollers.AuthRegister(deps.AuthService, logg))

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/me", authcontrollers.AuthMe(deps.AuthService, logg))
				r.Post("/logout", authcontrollers.AuthLogout(deps.AuthService, logg))
			})
		})

		r.Route("/items", func(r chi.Router) {
			r.Get("/", itemcontrollers.ItemsList(deps.CatalogService, logg))
			r.Get("/{itemId}", itemcontrollers.ItemsGet(deps.CatalogService, logg))

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.With(middleware.Idempotency(deps.Redis, logg)).Post("/", itemcontrollers.ItemsCreate(deps.CatalogService, logg))
				r.Put("/{itemId}", itemcontrollers.ItemsUpdate(deps.CatalogService, logg))
				r.Delete("/{itemId}", itemcontrollers.ItemsDelete(deps.CatalogService, logg))
			})
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", cartcontrollers.CartGet(deps.CartService, replayPolicy, logg))
			r.With(middleware.Idempotency(deps.Redis, logg)).Post("/", cartcontrollers.CartAddItem(deps.CartService, replayPolicy, logg))
			r.Delete("/", cartcontrollers.CartClear(deps.CartService, replayPolicy, logg))
			r.Put("/{itemId}", cartcontrollers.CartSetQuantity(deps.CartService, replayPolicy, logg))
			r.Delete("/{itemId}", cartcontrollers.CartRemoveItem(deps.CartService, replayPolicy, logg))
		})
	})

	return r
}

func readinessChecks(deps Dependencies) map[string]controllers.Pinger {
	checks := map[string]controllers.Pinger{}
	if deps.DB != nil {
		checks["database"] = deps.DB
	}
	if deps.Redis != nil {
		checks["redis"] = deps.Redis
	}
	return checks
}
