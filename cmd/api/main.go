package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"optique-store/internal/backend"
	"optique-store/internal/cache"
	"optique-store/internal/cart"
	"optique-store/internal/catalog"
	"optique-store/internal/checkout"
	"optique-store/internal/config"
	"optique-store/internal/coupon"
	"optique-store/internal/database"
	"optique-store/internal/handler"
	"optique-store/internal/router"
	"optique-store/internal/stock"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present; real deployments use the environment directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting optique-store API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool for cart session persistence
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	cartRepo := cart.NewRepository(pool, logger)
	if err := cartRepo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to ensure cart schema: %w", err)
	}

	// Initialize Redis client for the catalogue cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	logger.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")

	cacheStore := cache.NewRedisStore(redisClient, cfg.Redis.KeyPrefix, logger)

	// Initialize the hosted backend client
	remote := backend.NewClient(
		cfg.Backend.URL,
		cfg.Backend.APIKey,
		time.Duration(cfg.Backend.Timeout)*time.Second,
		logger,
	)

	// Initialize domain services
	cartStore := cart.NewStore(cartRepo, logger)
	couponValidator := coupon.NewValidator(remote, logger)
	catalogService := catalog.NewService(remote, cacheStore, time.Duration(cfg.Redis.TTL)*time.Second, logger)
	submitter := checkout.NewSubmitter(
		remote,
		catalogService,
		cartStore,
		cacheStore,
		cfg.Checkout.DefaultDeliveryFee,
		logger,
	)
	adjuster := stock.NewAdjuster(remote, cacheStore, logger)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(catalogService, logger)
	cartHandler := handler.NewCartHandler(cartStore, logger)
	checkoutHandler := handler.NewCheckoutHandler(cartStore, couponValidator, submitter, logger)
	adminHandler := handler.NewAdminHandler(adjuster, logger)

	// Initialize router
	mux := router.New(
		productHandler,
		cartHandler,
		checkoutHandler,
		adminHandler,
		cfg.Auth.AdminAPIKey,
		logger,
	)

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

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
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
