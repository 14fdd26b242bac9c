package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"smartmedishop-storefront/internal/cache"
	"smartmedishop-storefront/internal/checkout"
	"smartmedishop-storefront/internal/config"
	"smartmedishop-storefront/internal/gateway"
	"smartmedishop-storefront/internal/handler"
	"smartmedishop-storefront/internal/logger"
	"smartmedishop-storefront/internal/metrics"
	"smartmedishop-storefront/internal/middleware"
	"smartmedishop-storefront/internal/repository"
	"smartmedishop-storefront/internal/router"
	"smartmedishop-storefront/internal/service"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.MustLoad()

	log, err := logger.New(cfg.App.Environment, cfg.App.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting storefront",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.String("api_base_url", cfg.Upstream.BaseURL),
	)

	if err := run(cfg, log); err != nil {
		log.Fatal("storefront stopped with error", zap.Error(err))
	}
	log.Info("server stopped")
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx := context.Background()

	c, err := openCache(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer c.Close()

	journal, err := openJournal(ctx, cfg, log)
	if err != nil {
		return err
	}
	if journal != nil {
		defer journal.Close()
	}

	client := gateway.NewClient(gateway.ClientConfig{
		BaseURL:   cfg.Upstream.BaseURL,
		Timeout:   cfg.Upstream.Timeout,
		Tracing:   cfg.Upstream.Tracing,
		RequestID: middleware.GetRequestID,
	}, log)

	m := metrics.New(cfg.App.Name)

	opts := []service.Option{service.WithMetrics(m)}
	if journal != nil {
		opts = append(opts, service.WithJournal(journal))
	}
	store := service.New(client, c, service.Config{
		Checkout: checkout.Config{
			TaxRate:         cfg.Checkout.TaxRate,
			MerchantName:    cfg.Checkout.MerchantName,
			PaymentMethod:   cfg.Checkout.PaymentMethod,
			TransactionType: cfg.Checkout.TransactionType,
			MaxConcurrency:  cfg.Upstream.MaxConcurrency,
		},
		SessionTTL: cfg.Session.TTL,
		CatalogTTL: cfg.Cache.CatalogTTL,
	}, log, opts...)

	cleanup := service.NewCleanupScheduler(store, journal, service.CleanupConfig{
		IdleTimeout: cfg.Session.IdleTimeout,
		Retention:   cfg.Journal.Retention,
		Interval:    cfg.Session.SweepEvery,
	}, log)
	cleanup.Start()
	defer cleanup.Stop()

	// Readiness dependencies
	deps := []handler.Dependency{{Name: "upstream_api", Pinger: client}}
	if p, ok := c.(handler.Pinger); ok {
		deps = append(deps, handler.Dependency{Name: "cache", Pinger: p})
	}
	if p, ok := journal.(handler.Pinger); ok {
		deps = append(deps, handler.Dependency{Name: "journal", Pinger: p})
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, 10*time.Minute)
	}

	r := router.New(router.Config{
		Handler:          handler.New(cfg.App.Name, cfg.App.Version, deps...),
		AuthHandler:      handler.NewAuthHandler(store),
		CatalogHandler:   handler.NewCatalogHandler(store),
		CartHandler:      handler.NewCartHandler(store),
		CheckoutHandler:  handler.NewCheckoutHandler(store),
		HistoryHandler:   handler.NewHistoryHandler(store),
		AdminHandler:     handler.NewAdminHandler(store, cfg.Journal.Type),
		InventoryHandler: handler.NewInventoryHandler(store),
		UserHandler:      handler.NewUserHandler(store),
		FraudHandler:     handler.NewFraudHandler(store),
		Identities:       store,
		Session: middleware.SessionConfig{
			CookieName: cfg.Session.CookieName,
			Secure:     cfg.Session.CookieSecure,
			MaxAge:     cfg.Session.TTL,
		},
		LoginLimiter: limiter,
		Metrics:      m,
		CORSOrigins:  cfg.Server.CORSOrigins,
		Logger:       log,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", cfg.Server.Address()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Info("shutting down server", zap.String("signal", sig.String()))
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func openCache(ctx context.Context, cfg *config.Config, log *zap.Logger) (cache.Cache, error) {
	if cfg.Cache.Type != "redis" {
		log.Info("in-memory cache initialized")
		return cache.NewMemoryCache(), nil
	}

	rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
		Addr:      cfg.Cache.RedisAddress(),
		Password:  cfg.Cache.RedisPassword,
		DB:        cfg.Cache.RedisDB,
		KeyPrefix: cfg.Cache.RedisPrefix,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	log.Info("redis cache initialized", zap.String("addr", cfg.Cache.RedisAddress()))
	return rc, nil
}

// openJournal returns a nil journal when journaling is disabled.
func openJournal(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.CheckoutJournal, error) {
	jc := cfg.Journal
	switch jc.Type {
	case "none":
		log.Info("checkout journal disabled")
		return nil, nil
	case "mongodb":
		j, err := repository.NewMongoCheckoutJournal(ctx, jc.MongoURI, jc.MongoDatabase, jc.MongoCollection, log)
		if err != nil {
			return nil, fmt.Errorf("mongodb journal: %w", err)
		}
		log.Info("MongoDB checkout journal initialized")
		return j, nil
	case "mysql":
		j, err := repository.NewMySQLCheckoutJournal(ctx, jc.MySQLDSN(), log)
		if err != nil {
			return nil, fmt.Errorf("mysql journal: %w", err)
		}
		log.Info("MySQL checkout journal initialized")
		return j, nil
	case "postgres":
		j, err := repository.NewPostgresCheckoutJournal(ctx, jc.PostgresDSN(), log)
		if err != nil {
			return nil, fmt.Errorf("postgres journal: %w", err)
		}
		log.Info("PostgreSQL checkout journal initialized")
		return j, nil
	default: // sqlite
		if dir := filepath.Dir(jc.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("journal directory: %w", err)
			}
		}
		j, err := repository.NewSQLiteCheckoutJournal(ctx, jc.Path, log)
		if err != nil {
			return nil, fmt.Errorf("sqlite journal: %w", err)
		}
		log.Info("SQLite checkout journal initialized", zap.String("path", jc.Path))
		return j, nil
	}
}
