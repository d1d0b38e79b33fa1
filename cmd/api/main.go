// Command api is the Qahwa Data API server.
//
// Usage:
//
//	qahwa-api
//	API_PORT=8080 qahwa-api

// @title Qahwa Data API
// @version 1.0.0
// @description Café discovery API: nearby café resolution backed by a Postgres cache with bilingual Google Places fallback, plus detail fetches and photo proxying.
// @host localhost:8000
// @BasePath /
// @schemes http https
// @contact.name Qahwa
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/qahwaapp/qahwa-data/internal/api"
	"github.com/qahwaapp/qahwa-data/internal/cache"
	"github.com/qahwaapp/qahwa-data/internal/cafes"
	"github.com/qahwaapp/qahwa-data/internal/config"
	"github.com/qahwaapp/qahwa-data/internal/db"
	"github.com/qahwaapp/qahwa-data/internal/places"

	_ "github.com/qahwaapp/qahwa-data/docs" // swagger docs
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Connect to database
	logger.Info("Connecting to database...")
	pool, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("Database connected",
		"min_conns", cfg.DBPoolMinConns,
		"max_conns", cfg.DBPoolMaxConns)

	// Initialize caches
	appCache := cache.New(cfg.CacheEnabled)
	nearbyMemo := cache.NewNearbyCache(cfg.NearbyMemoTTL)
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	// Discover pipeline: one shared call limiter protects the Places quota.
	limiter := places.NewCallLimiter(cfg.PlacesRateLimitCalls, cfg.PlacesRateLimitWindow)
	fence := places.NewGeofence(cfg.CountryMode, cfg.AllowedCountries)
	placesClient := places.NewClient(places.DefaultBaseURL, cfg.PlacesAPIKey, limiter, fence, logger)
	if cfg.PlacesAPIKey == "" {
		logger.Warn("GOOGLE_PLACES_API_KEY not set; discover will fail on cache misses")
	}

	store := cafes.NewStore(pool.Pool)
	service := cafes.NewService(store, placesClient, nearbyMemo, cfg.SearchRadiusMeters, logger)

	// Create router
	router := api.NewRouter(pool.Pool, appCache, cfg, service, placesClient)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Qahwa Data API",
			"addr", addr,
			"environment", cfg.Environment,
			"country_mode", cfg.CountryMode,
			"radius_m", cfg.SearchRadiusMeters)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
