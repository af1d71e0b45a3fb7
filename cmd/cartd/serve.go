package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cart-service/internal/auth"
	"github.com/nikolayk812/cart-service/internal/cache"
	"github.com/nikolayk812/cart-service/internal/config"
	"github.com/nikolayk812/cart-service/internal/handler"
	"github.com/nikolayk812/cart-service/internal/logger"
	"github.com/nikolayk812/cart-service/internal/middleware"
	"github.com/nikolayk812/cart-service/internal/port"
	"github.com/nikolayk812/cart-service/internal/repository"
	"github.com/nikolayk812/cart-service/internal/repository/memory"
	"github.com/nikolayk812/cart-service/internal/router"
	"github.com/nikolayk812/cart-service/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"net/http"
	"os/signal"
	"syscall"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return fmt.Errorf("logger.New: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	checks := make(map[string]handler.HealthCheck)

	store, err := openStorage(ctx, cfg, checks)
	if err != nil {
		return err
	}
	defer store.close()

	idempotency, closeCache, err := openIdempotencyStore(ctx, cfg, checks)
	if err != nil {
		return err
	}
	defer closeCache()

	productService := service.NewProductService(store.products, cfg.ShopCurrency(), log)
	cartService := service.NewCartService(store.carts, store.products, store.tx, log)

	engine := router.New(log, router.Config{
		MaxBodySize: cfg.HTTP.MaxBodySize,
		Identity: middleware.IdentityConfig{
			Mode:            cfg.Auth.Mode,
			Tokens:          auth.NewTokenService(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.TokenTTL),
			CookieName:      cfg.Auth.CookieName,
			DefaultIdentity: cfg.Auth.DefaultIdentity,
		},
		Idempotency:    idempotency,
		IdempotencyTTL: cfg.Idempotency.TTL,
	}, router.Handlers{
		Cart:    handler.NewCartHandler(cartService),
		Product: handler.NewProductHandler(productService),
		Health:  handler.NewHealthHandler(checks),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Env),
			zap.String("storage", cfg.Storage.Driver),
			zap.String("auth_mode", cfg.Auth.Mode))
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("srv.ListenAndServe: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("srv.Shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}

type storage struct {
	carts    port.CartRepository
	products port.ProductRepository
	// nil for the memory driver
	tx    port.Transactor
	close func()
}

// openStorage registers its health checks in checks.
func openStorage(ctx context.Context, cfg *config.Config, checks map[string]handler.HealthCheck) (storage, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		products := memory.NewProduct()
		return storage{
			carts:    memory.NewCart(products, cfg.ShopCurrency()),
			products: products,
			close:    func() {},
		}, nil
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return storage{}, fmt.Errorf("pgxpool.ParseConfig: %w", err)
	}
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = cfg.Database.MinConns
	poolCfg.MaxConnLifetime = cfg.Database.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return storage{}, fmt.Errorf("pgxpool.NewWithConfig: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return storage{}, fmt.Errorf("pool.Ping: %w", err)
	}

	checks["postgres"] = pool.Ping

	return storage{
		carts:    repository.NewCart(pool, cfg.ShopCurrency()),
		products: repository.NewProduct(pool),
		tx:       repository.NewTransactor(pool, cfg.ShopCurrency()),
		close:    pool.Close,
	}, nil
}

func openIdempotencyStore(ctx context.Context, cfg *config.Config, checks map[string]handler.HealthCheck) (
	port.IdempotencyStore, func(), error) {
	if !cfg.Redis.Enabled {
		store := cache.NewMemoryIdempotencyStore()
		return store, func() { _ = store.Close() }, nil
	}

	client, err := cache.NewRedisClient(ctx, cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("cache.NewRedisClient: %w", err)
	}

	checks["redis"] = func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}

	return cache.NewRedisIdempotencyStore(client, ""), func() { _ = client.Close() }, nil
}
