package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront-backend/api/controllers"
	cartcontrollers "github.com/angelmondragon/storefront-backend/api/controllers/cart"
	ordercontrollers "github.com/angelmondragon/storefront-backend/api/controllers/orders"
	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/favorites"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/internal/products"
	"github.com/angelmondragon/storefront-backend/internal/users"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	pkgredis "github.com/angelmondragon/storefront-backend/pkg/redis"
)

// RedisStore is the slice of the redis client the HTTP layer needs.
type RedisStore interface {
	pkgredis.IdempotencyStore
	pkgredis.Pinger
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	RateLimitKey(parts ...string) string
}

// Services groups everything the router hands to controllers.
type Services struct {
	DB          controllers.Pinger
	Redis       RedisStore
	Products    products.Service
	Carts       cart.Service
	Orders      orders.Service
	Favorites   favorites.Service
	Users       users.Service
	Stock       controllers.SizeReplacer
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, svc Services) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(cfg.App.CORSOrigins),
		middleware.Logging(logg, svc.HTTPMetrics),
	)
	if cfg.App.WriteTimeout > 0 {
		r.Use(chimw.Timeout(cfg.App.WriteTimeout))
	}

	guestPolicy := middleware.NewGuestRateLimitPolicy(
		"cart",
		cfg.Cart.GuestWriteWindow,
		cfg.Cart.GuestIPLimit,
		cfg.Cart.GuestTokenLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, svc.DB, svc.Redis))
	})

	if svc.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(svc.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public/v1", func(r chi.Router) {
		r.Get("/products/{productId}", controllers.PublicGetProduct(svc.Products, logg))
		r.Get("/products/{productId}/availability", controllers.PublicProductAvailability(svc.Products, logg))
	})

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(middleware.OptionalAuth(cfg.JWT, logg))
		r.Use(middleware.GuestToken(logg))
		r.Use(middleware.GuestRateLimit(guestPolicy, svc.Redis, logg))

		r.Get("/", cartcontrollers.CartGet(svc.Carts, logg))
		r.Put("/", cartcontrollers.CartReplace(svc.Carts, logg))
		r.Delete("/", cartcontrollers.CartClear(svc.Carts, logg))
		r.Post("/items", cartcontrollers.CartAddItem(svc.Carts, logg))
		r.Patch("/items", cartcontrollers.CartUpdateItem(svc.Carts, logg))
		r.Delete("/items", cartcontrollers.CartRemoveItem(svc.Carts, logg))
		r.Post("/merge", cartcontrollers.CartMerge(svc.Carts, logg))
	})

	// Auth is scoped per resource so unknown /api/v1 paths still reach NotFound.
	requireUser := middleware.Auth(cfg.JWT, logg)
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/orders", func(r chi.Router) {
			r.Use(requireUser)
			r.With(middleware.Idempotency(svc.Redis, logg, cfg.App.IdempotencyClaimTTL())).Post("/", ordercontrollers.Place(svc.Orders, logg))
			r.Get("/", ordercontrollers.List(svc.Orders, logg))
			r.Get("/{orderId}", ordercontrollers.Detail(svc.Orders, logg))
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Use(requireUser)
			r.Get("/", controllers.FavoritesList(svc.Favorites, logg))
			r.Post("/", controllers.FavoritesAdd(svc.Favorites, logg))
			r.Delete("/", controllers.FavoritesClear(svc.Favorites, logg))
			r.Delete("/{productId}", controllers.FavoritesRemove(svc.Favorites, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(requireUser)
		r.Use(middleware.RequireRole(logg, enums.UserRoleAdmin))

		r.Patch("/orders/{orderId}/status", ordercontrollers.AdminUpdateStatus(svc.Orders, logg))
		r.Post("/orders/{orderId}/pay", ordercontrollers.AdminMarkPaid(svc.Orders, logg))
		r.Put("/products/{productId}/sizes", controllers.AdminReplaceProductSizes(svc.Stock, logg))
		r.Delete("/users/{userId}", controllers.AdminDeleteUser(svc.Users, logg))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), nil, w, pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
	})

	return r
}
