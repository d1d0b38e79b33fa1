// Command ingest is the Qahwa data backfill CLI.
//
// Usage:
//
//	qahwa-ingest discover --lat 24.7136 --lng 46.6753
//	qahwa-ingest discover --lat 24.7136 --lng 46.6753 --radius 1000 --lang ar
//	qahwa-ingest details --place-id ChIJN1t_tDeuEmsRUsoyG83frY4
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/qahwaapp/qahwa-data/internal/cache"
	"github.com/qahwaapp/qahwa-data/internal/cafes"
	"github.com/qahwaapp/qahwa-data/internal/config"
	"github.com/qahwaapp/qahwa-data/internal/db"
	"github.com/qahwaapp/qahwa-data/internal/places"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "qahwa-ingest",
		Short: "Qahwa cafe data backfill CLI",
	}

	root.AddCommand(discoverCmd())
	root.AddCommand(detailsCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// discover command
// --------------------------------------------------------------------------

func discoverCmd() *cobra.Command {
	var (
		lat    float64
		lng    float64
		radius int
		lang   string
	)
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Run the discover pipeline for explicit coordinates",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, svc *cafes.Service) error {
				start := time.Now()
				results, err := svc.ResolveNearby(ctx, lat, lng, lang)
				if err != nil {
					return err
				}
				logger.Info("Discover finished",
					"duration", time.Since(start).Round(time.Millisecond),
					"cafes", len(results))
				for _, c := range results {
					logger.Info("cafe", "place_id", c.PlaceID, "name", c.Name,
						"lat", c.Latitude, "lng", c.Longitude)
				}
				return nil
			}, radius)
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "Longitude")
	cmd.Flags().IntVar(&radius, "radius", config.DefaultSearchRadiusMeters, "Search radius in meters")
	cmd.Flags().StringVar(&lang, "lang", cafes.LangEnglish, "Display language (en|ar)")
	cmd.MarkFlagRequired("lat")
	cmd.MarkFlagRequired("lng")
	return cmd
}

// --------------------------------------------------------------------------
// details command
// --------------------------------------------------------------------------

func detailsCmd() *cobra.Command {
	var (
		placeID string
		lang    string
	)
	cmd := &cobra.Command{
		Use:   "details",
		Short: "Backfill detail columns for one cafe",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, svc *cafes.Service) error {
				detail, err := svc.CafeDetails(ctx, placeID, lang)
				if err != nil {
					return err
				}
				logger.Info("Details fetched", "place_id", detail.PlaceID,
					"name", detail.Name, "address", deref(detail.Address))
				return nil
			}, 0)
		},
	}
	cmd.Flags().StringVar(&placeID, "place-id", "", "External place identifier")
	cmd.Flags().StringVar(&lang, "lang", cafes.LangEnglish, "Display language (en|ar)")
	cmd.MarkFlagRequired("place-id")
	return cmd
}

// --------------------------------------------------------------------------
// shared wiring
// --------------------------------------------------------------------------

func run(fn func(ctx context.Context, cfg *config.Config, svc *cafes.Service) error, radiusOverride int) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.PlacesAPIKey == "" {
		return fmt.Errorf("GOOGLE_PLACES_API_KEY is required")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	radius := cfg.SearchRadiusMeters
	if radiusOverride > 0 {
		radius = radiusOverride
	}

	limiter := places.NewCallLimiter(cfg.PlacesRateLimitCalls, cfg.PlacesRateLimitWindow)
	fence := places.NewGeofence(cfg.CountryMode, cfg.AllowedCountries)
	client := places.NewClient(places.DefaultBaseURL, cfg.PlacesAPIKey, limiter, fence, logger)

	store := cafes.NewStore(pool.Pool)
	memo := cache.NewNearbyCache(cfg.NearbyMemoTTL)
	svc := cafes.NewService(store, client, memo, radius, logger)

	return fn(ctx, cfg, svc)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
