package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/coupon"
	"storefront/internal/database"
	"storefront/internal/handler"
	"storefront/internal/metrics"
	"storefront/internal/pricing"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting storefront API server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	redisClient, err := cache.NewClient(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, variant families will not be cached")
	}
	if redisClient != nil {
		defer redisClient.Close()
	}
	familyCache := cache.NewFamilyCache(redisClient, cfg.Redis.TTL(), logger)

	catalogRepo := repository.NewCatalogRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	// Coupon ledgers come from S3 when enabled, with the local file system as fallback.
	fileLoader := coupon.NewFileLoader(logger)
	couponLoader := fileLoader

	if cfg.S3.Enabled {
		s3Loader, err := coupon.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			couponLoader = coupon.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, true, logger)
		}
	} else {
		logger.Info().Msg("using local file system for coupon ledgers (S3 disabled)")
	}

	registry, err := coupon.NewRegistry(ctx, &coupon.RegistryConfig{
		Ledgers:   cfg.Coupons.Ledgers,
		MinLength: cfg.Coupons.MinLength,
		MaxLength: cfg.Coupons.MaxLength,
	}, couponLoader, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize coupon registry: %w", err)
	}
	defer registry.Close()

	engine := pricing.NewEngine(pricing.Config{
		VATRate:          cfg.Pricing.VATRate,
		CheckoutShipping: cfg.Pricing.CheckoutShipping,
		HistoryShipping:  cfg.Pricing.HistoryShipping,
		TotalPolicy:      pricing.TotalPolicy(cfg.Pricing.TotalPolicy),
	})

	m := metrics.New(prometheus.DefaultRegisterer)

	catalogService := service.NewCatalogService(catalogRepo, familyCache, m, logger)
	checkoutService := service.NewCheckoutService(orderRepo, catalogRepo, registry, engine, familyCache, m, logger)

	catalogHandler := handler.NewCatalogHandler(catalogService, logger)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, logger)

	mux := router.New(catalogHandler, checkoutHandler, m, prometheus.DefaultGatherer, cfg.Auth.APIKey, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
