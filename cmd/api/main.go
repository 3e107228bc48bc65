package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pawcart/internal/config"
	"pawcart/internal/coupon"
	"pawcart/internal/database"
	"pawcart/internal/events"
	"pawcart/internal/handler"
	"pawcart/internal/metrics"
	"pawcart/internal/payment"
	"pawcart/internal/repository"
	"pawcart/internal/router"
	"pawcart/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
)

const couponCacheSize = 1024

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting pawcart API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool (runs migrations when enabled)
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	couponRepo := repository.NewCouponRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	shippingRepo := repository.NewShippingRepository(pool, logger)

	if err := seedCoupons(ctx, cfg, couponRepo, logger); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	publisher := newPublisher(cfg.Kafka, logger)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close event publisher")
		}
	}()

	couponFinder := coupon.NewCachedFinder(couponRepo, couponCacheSize, cfg.Cart.CacheTTL)
	validator := coupon.NewValidator(logger)

	// Initialize services
	productService := service.NewProductService(productRepo, logger)
	shippingService := service.NewShippingService(shippingRepo, cfg.Cart.CacheTTL, logger)
	cartService := service.NewCartService(
		cartRepo,
		productRepo,
		couponFinder,
		validator,
		shippingService,
		m,
		service.CartOptions{
			MaxRetries:     cfg.Cart.MaxRetries,
			RetryBaseDelay: cfg.Cart.RetryBaseDelay,
		},
		logger,
	)
	orderService := service.NewOrderService(
		orderRepo,
		cartRepo,
		shippingService,
		payment.NewDeferredGateway(logger),
		publisher,
		m,
		cfg.Cart.Currency,
		logger,
	)
	couponService := service.NewCouponService(couponRepo, couponFinder, logger)

	// Initialize router
	mux := router.New(router.Handlers{
		Product:  handler.NewProductHandler(productService, logger),
		Cart:     handler.NewCartHandler(cartService, logger),
		Order:    handler.NewOrderHandler(orderService, logger),
		Coupon:   handler.NewCouponHandler(couponService, logger),
		Shipping: handler.NewShippingHandler(shippingService, logger),
	}, router.Keys{
		APIKey:   cfg.Auth.APIKey,
		AdminKey: cfg.Auth.AdminAPIKey,
	}, m, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// seedCoupons imports the configured coupon files, reading from S3 first
// when it is enabled.
func seedCoupons(ctx context.Context, cfg *config.Config, store coupon.Store, logger zerolog.Logger) error {
	if len(cfg.Seed.CouponFiles) == 0 {
		return nil
	}

	var s3Loader coupon.Loader
	if cfg.S3.Enabled {
		l, err := coupon.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			s3Loader = l
		}
	} else {
		logger.Info().Msg("using local file system for coupon files (S3 disabled)")
	}

	loader := coupon.NewFallbackLoader(s3Loader, coupon.NewFileLoader(logger), cfg.S3.Prefix, cfg.S3.Enabled, logger)

	n, err := coupon.NewImporter(loader, store, logger).Import(ctx, cfg.Seed.CouponFiles)
	if err != nil {
		return fmt.Errorf("failed to import coupon seed files: %w", err)
	}
	logger.Info().Int("coupons", n).Msg("coupon seed files imported")
	return nil
}

func newPublisher(cfg config.KafkaConfig, logger zerolog.Logger) events.Publisher {
	if !cfg.Enabled() {
		logger.Info().Msg("no Kafka brokers configured, order events are logged only")
		return events.NewLogPublisher(logger)
	}
	return events.NewKafkaPublisher(cfg.Brokers, cfg.Topic, logger)
}
