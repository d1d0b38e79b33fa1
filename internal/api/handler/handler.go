// Package handler provides HTTP handlers for all API endpoints.
package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qahwaapp/qahwa-data/internal/api/respond"
	"github.com/qahwaapp/qahwa-data/internal/cache"
	"github.com/qahwaapp/qahwa-data/internal/cafes"
	"github.com/qahwaapp/qahwa-data/internal/config"
)

// DiscoverService is the discover pipeline surface the handlers consume.
type DiscoverService interface {
	ResolveNearby(ctx context.Context, lat, lng float64, lang string) ([]cafes.DisplayCafe, error)
	CafeDetails(ctx context.Context, placeID, lang string) (cafes.DisplayCafeDetail, error)
	PhotoReference(ctx context.Context, placeID string) (string, error)
}

// PhotoFetcher streams provider photos for the photo proxy.
type PhotoFetcher interface {
	Photo(ctx context.Context, photoReference string, maxWidth int) (io.ReadCloser, string, error)
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	pool    *pgxpool.Pool
	cache   *cache.Cache
	cfg     *config.Config
	service DiscoverService
	photos  PhotoFetcher
}

// New creates a Handler with shared dependencies.
func New(pool *pgxpool.Pool, c *cache.Cache, cfg *config.Config, service DiscoverService, photos PhotoFetcher) *Handler {
	return &Handler{
		pool:    pool,
		cache:   c,
		cfg:     cfg,
		service: service,
		photos:  photos,
	}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, and status.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "Qahwa Data API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Description Verifies Postgres connectivity.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	var n int
	err := h.pool.QueryRow(r.Context(), "health_check").Scan(&n)
	if err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Database connection check failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns in-memory cache statistics (active keys, expired keys).
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
