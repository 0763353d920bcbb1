package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/storefront-backend/api/routes"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/favorites"
	"github.com/angelmondragon/storefront-backend/internal/inventory"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/internal/pricing"
	"github.com/angelmondragon/storefront-backend/internal/products"
	"github.com/angelmondragon/storefront-backend/internal/users"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/migrate"
	"github.com/angelmondragon/storefront-backend/pkg/redis"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 15 * time.Second
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, redisClient.Close()) }()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	services, err := wire(cfg, logg, dbClient, redisClient, checkoutMetrics)
	if err != nil {
		return err
	}
	services.HTTPMetrics = metrics.NewHTTPMetrics(registry)
	services.Gatherer = registry

	addr := ":" + cfg.App.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, services),
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      cfg.App.WriteTimeout,
	}

	logCtx := logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "addr": addr})
	logg.Info(logCtx, "starting api server")

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func wire(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client, m *metrics.CheckoutMetrics) (routes.Services, error) {
	policy, err := pricing.PolicyFromConfig(cfg.Pricing)
	if err != nil {
		return routes.Services{}, err
	}

	ledger, err := inventory.NewLedger(dbClient)
	if err != nil {
		return routes.Services{}, err
	}
	productRepo := products.NewRepository(dbClient.DB())
	productService, err := products.NewService(productRepo, ledger)
	if err != nil {
		return routes.Services{}, err
	}

	durable, err := cart.NewDurableStore(dbClient)
	if err != nil {
		return routes.Services{}, err
	}
	guest, err := cart.NewGuestStore(redisClient, cfg.Cart.GuestTTL)
	if err != nil {
		return routes.Services{}, err
	}
	cartService, err := cart.NewService(durable, guest, productRepo, policy, m, logg)
	if err != nil {
		return routes.Services{}, err
	}

	orderService, err := orders.NewService(orders.Deps{
		Tx:       dbClient,
		Repo:     orders.NewRepository(dbClient.DB()),
		Products: productRepo,
		Ledger:   ledger,
		Carts:    cartService,
		Policy:   policy,
		Metrics:  m,
		Logger:   logg,
	})
	if err != nil {
		return routes.Services{}, err
	}

	favoriteService, err := favorites.NewService(favorites.NewRepository(dbClient.DB()), productRepo)
	if err != nil {
		return routes.Services{}, err
	}

	userService, err := users.NewService(users.NewRepository(dbClient.DB()), logg)
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		DB:        dbClient,
		Redis:     redisClient,
		Products:  productService,
		Carts:     cartService,
		Orders:    orderService,
		Favorites: favoriteService,
		Users:     userService,
		Stock:     ledger,
	}, nil
}
