// Package db provides a pgxpool-based connection pool with prepared statement
// registration and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qahwaapp/qahwa-data/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// cafeColumns is the column list every cafe read uses, in scan order.
const cafeColumns = `id, place_id, name_en, name_ar, lat, lng, rating, review_count,
	photo_reference, city_en, city_ar, address_en, address_ar, phone, website,
	opening_hours, price_level, details_fetched_at`

// registerPreparedStatements registers all statements the API and ingest
// layers use. Prepared statements eliminate parse overhead on every request.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Discover: bounding-box cache check and verify re-read
		"cafes_in_bounds": `SELECT ` + cafeColumns + `
			FROM ` + config.CafesTable + `
			WHERE lat BETWEEN $1 AND $2 AND lng BETWEEN $3 AND $4
			ORDER BY id`,

		// Discover: capped unbounded read for the verify fallback
		"cafes_recent": `SELECT ` + cafeColumns + `
			FROM ` + config.CafesTable + `
			ORDER BY updated_at DESC
			LIMIT $1`,

		// Details / photo proxy
		"cafe_by_place_id": `SELECT ` + cafeColumns + `
			FROM ` + config.CafesTable + `
			WHERE place_id = $1`,
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
