// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/ingest.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Table names — single source of truth, matches schema.sql
// --------------------------------------------------------------------------

const (
	CafesTable = "cafes"
)

// Country modes for the discover geofence.
const (
	CountryModeGlobal = "global" // no filtering
	CountryModeSingle = "single" // one allowed country
	CountryModeMulti  = "multi"  // several allowed countries
)

// DefaultSearchRadiusMeters is shared by the API and the ingest CLI so both
// compute the same bounding boxes and cache keys.
const DefaultSearchRadiusMeters = 500

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Database
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Inbound rate limiting (per-IP middleware)
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Google Places
	PlacesAPIKey          string
	SearchRadiusMeters    int
	PlacesRateLimitCalls  int
	PlacesRateLimitWindow time.Duration

	// Geofence
	CountryMode      string
	AllowedCountries []string

	// Development coordinate override, used when the request carries no
	// lat/lng (e.g. local frontends without device geolocation).
	DevLat *float64
	DevLng *float64

	// Cache
	CacheEnabled  bool
	NearbyMemoTTL time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	dbURL := envOr("DATABASE_URL", envOr("SUPABASE_DB_URL", ""))
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL or SUPABASE_DB_URL must be set")
	}

	cfg := &Config{
		DatabaseURL:    dbURL,
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		PlacesAPIKey:          envOr("GOOGLE_PLACES_API_KEY", ""),
		SearchRadiusMeters:    envInt("SEARCH_RADIUS_METERS", DefaultSearchRadiusMeters),
		PlacesRateLimitCalls:  envInt("PLACES_RATE_LIMIT_CALLS", 30),
		PlacesRateLimitWindow: time.Duration(envInt("PLACES_RATE_LIMIT_WINDOW", 60)) * time.Second,

		CountryMode: envOr("COUNTRY_MODE", CountryModeSingle),
		AllowedCountries: envList("ALLOWED_COUNTRIES", []string{
			"Saudi Arabia",
		}),

		CacheEnabled:  envBool("CACHE_ENABLED", true),
		NearbyMemoTTL: time.Duration(envInt("NEARBY_MEMO_TTL_HOURS", 24)) * time.Hour,
	}

	switch cfg.CountryMode {
	case CountryModeGlobal, CountryModeSingle, CountryModeMulti:
	default:
		return nil, fmt.Errorf("COUNTRY_MODE must be global, single, or multi (got %q)", cfg.CountryMode)
	}

	if lat, lng, ok := loadDevLocation(); ok {
		cfg.DevLat, cfg.DevLng = &lat, &lng
	}

	return cfg, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// HasDevLocation reports whether a development coordinate override is set.
func (c *Config) HasDevLocation() bool {
	return c.DevLat != nil && c.DevLng != nil
}

// loadDevLocation resolves the development coordinate override, from
// DEV_LAT/DEV_LNG or from a "lat,lng" file named by DEV_LOCATION_FILE.
func loadDevLocation() (lat, lng float64, ok bool) {
	latStr, lngStr := os.Getenv("DEV_LAT"), os.Getenv("DEV_LNG")
	if latStr == "" || lngStr == "" {
		path := os.Getenv("DEV_LOCATION_FILE")
		if path == "" {
			return 0, 0, false
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return 0, 0, false
		}
		parts := strings.SplitN(strings.TrimSpace(string(data)), ",", 2)
		if len(parts) != 2 {
			return 0, 0, false
		}
		latStr, lngStr = strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}

	lat, errLat := strconv.ParseFloat(latStr, 64)
	lng, errLng := strconv.ParseFloat(lngStr, 64)
	if errLat != nil || errLng != nil {
		return 0, 0, false
	}
	return lat, lng, true
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
