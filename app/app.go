package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"kv-rentals/app/controller"
	"kv-rentals/app/router"
	"kv-rentals/config"
	"kv-rentals/db"
	"kv-rentals/kvstore"
	"kv-rentals/pricing"
	"kv-rentals/service"
)

// App is the wired server: its routes and the resources to release on shutdown.
type App struct {
	Handler http.Handler
	Store   kvstore.Store
	closers []func() error
}

// Close releases the storage connections opened by Initialize
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logrus.WithError(err).Warn("⚠️  Close: error releasing resource")
		}
	}
}

// OpenStore connects the key-value store selected by cfg.StorageBackend
func OpenStore(ctx context.Context, cfg config.Config) (kvstore.Store, []func() error, error) {
	switch cfg.StorageBackend {
	case config.StorageMemory:
		logrus.Warn("⚠️  Using in-memory cart storage; carts are lost on restart")
		return kvstore.NewMemoryStore(), nil, nil

	case config.StorageRedis:
		redisStore, err := kvstore.NewRedisStore(cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		if err := redisStore.Initialize(ctx); err != nil {
			_ = redisStore.Close()
			return nil, nil, fmt.Errorf("failed to initialize redis store: %w", err)
		}
		return redisStore, []func() error{redisStore.Close}, nil

	case config.StoragePostgres, config.StorageSQLite:
		if err := db.InitDB(cfg); err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		dialect := kvstore.DialectPostgres
		if cfg.StorageBackend == config.StorageSQLite {
			dialect = kvstore.DialectSQLite
		}
		sqlStore, err := kvstore.NewSQLStore(db.DB, dialect)
		if err != nil {
			_ = db.CloseDB()
			return nil, nil, err
		}
		if err := sqlStore.EnsureSchema(ctx); err != nil {
			_ = db.CloseDB()
			return nil, nil, fmt.Errorf("failed to create cart table: %w", err)
		}
		return sqlStore, []func() error{db.CloseDB}, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}

// Initialize initializes the application on the given store
func Initialize(cfg config.Config, store kvstore.Store) *App {
	httpClient := service.NewHTTPClient(cfg.HTTPClientTimeout)

	// Initialize services
	cartService := service.NewCartService(store, time.Now)
	productService := service.NewProductService(cfg.BackendURL, httpClient)
	orderService := service.NewOrderService(cfg.BackendURL, httpClient)
	summaryService := service.NewSummaryService(cartService, productService, pricing.NewEngine())
	checkoutService := service.NewCheckoutService(cartService, orderService)
	quoteService := service.NewQuoteService(cfg.BaseURL, cfg.ChromePath, time.Now)
	imageService := service.NewImageService(productService, httpClient, cfg.ImageCacheDir)

	sessions := controller.NewSessionResolver(cfg.SessionCookie, cfg.IsProduction())

	// Create controllers
	controllers := &router.Controllers{
		Health: controller.NewHealthController(cartService),
		Cart:   controller.NewCartController(cartService, summaryService, checkoutService, sessions),
		Quote:  controller.NewQuoteController(summaryService, quoteService, sessions),
		Image:  controller.NewImageController(imageService),
		User:   controller.NewUserController(),
	}

	mux := http.NewServeMux()
	router.SetupRoutes(mux, controllers)

	return &App{Handler: mux, Store: store}
}

// New opens the configured store and wires the application on it
func New(ctx context.Context, cfg config.Config) (*App, error) {
	store, closers, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a := Initialize(cfg, store)
	a.closers = closers
	return a, nil
}
