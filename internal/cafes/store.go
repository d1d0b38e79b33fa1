package cafes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qahwaapp/qahwa-data/internal/config"
	"github.com/qahwaapp/qahwa-data/internal/geo"
	"github.com/qahwaapp/qahwa-data/internal/places"
)

// Store reads and writes café rows in Postgres. Reads go through the
// prepared statements registered in internal/db.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store on the shared connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// CafesInBounds returns the rows inside a bounding box.
func (s *Store) CafesInBounds(ctx context.Context, b geo.Bounds) ([]Row, error) {
	rows, err := s.pool.Query(ctx, "cafes_in_bounds", b.MinLat, b.MaxLat, b.MinLng, b.MaxLng)
	if err != nil {
		return nil, fmt.Errorf("query cafes in bounds: %w", err)
	}
	defer rows.Close()
	return collectRows(rows)
}

// RecentCafes returns up to limit rows ordered by most recently updated.
// Used by the verify step's capped fallback read.
func (s *Store) RecentCafes(ctx context.Context, limit int) ([]Row, error) {
	rows, err := s.pool.Query(ctx, "cafes_recent", limit)
	if err != nil {
		return nil, fmt.Errorf("query recent cafes: %w", err)
	}
	defer rows.Close()
	return collectRows(rows)
}

// CafeByPlaceID returns one row by external place ID. found is false when
// the place is unknown.
func (s *Store) CafeByPlaceID(ctx context.Context, placeID string) (row Row, found bool, err error) {
	err = scanRow(s.pool.QueryRow(ctx, "cafe_by_place_id", placeID), &row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Row{}, false, nil
	}
	if err != nil {
		return Row{}, false, fmt.Errorf("query cafe %s: %w", placeID, err)
	}
	return row, true, nil
}

// UpsertCanonical writes the canonical subset of one café row, keyed on
// place_id. Populated fields win on conflict; absent ones leave the
// existing value untouched. Detail columns are never listed here — the
// detail path owns them.
func (s *Store) UpsertCanonical(ctx context.Context, p CanonicalPlace) error {
	if !p.Valid() {
		return fmt.Errorf("refusing to persist invalid place %q", p.PlaceID)
	}
	t := config.CafesTable
	_, err := s.pool.Exec(ctx, `
		INSERT INTO `+t+` (
			place_id, name_en, name_ar, lat, lng, rating, review_count,
			photo_reference, city_en, city_ar
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (place_id) DO UPDATE SET
			name_en = COALESCE(EXCLUDED.name_en, `+t+`.name_en),
			name_ar = COALESCE(EXCLUDED.name_ar, `+t+`.name_ar),
			lat = EXCLUDED.lat,
			lng = EXCLUDED.lng,
			rating = COALESCE(EXCLUDED.rating, `+t+`.rating),
			review_count = COALESCE(EXCLUDED.review_count, `+t+`.review_count),
			photo_reference = COALESCE(EXCLUDED.photo_reference, `+t+`.photo_reference),
			city_en = COALESCE(EXCLUDED.city_en, `+t+`.city_en),
			city_ar = COALESCE(EXCLUDED.city_ar, `+t+`.city_ar),
			updated_at = NOW()`,
		p.PlaceID, p.NameEn, p.NameAr, p.Lat, p.Lng, p.Rating, p.ReviewCount,
		p.PhotoReference, p.CityEn, p.CityAr,
	)
	return err
}

// FillDetails writes detail columns for one place, filling only columns
// that are currently NULL. The address column is language-specific.
func (s *Store) FillDetails(ctx context.Context, placeID, lang string, d places.Details) error {
	t := config.CafesTable
	addressCol := "address_en"
	if lang == LangArabic {
		addressCol = "address_ar"
	}

	var hours *string
	if len(d.OpeningHours) > 0 {
		joined := strings.Join(d.OpeningHours, "\n")
		hours = &joined
	}

	_, err := s.pool.Exec(ctx, `
		UPDATE `+t+` SET
			`+addressCol+` = COALESCE(`+addressCol+`, $2),
			phone = COALESCE(phone, $3),
			website = COALESCE(website, $4),
			opening_hours = COALESCE(opening_hours, $5),
			price_level = COALESCE(price_level, $6),
			details_fetched_at = COALESCE(details_fetched_at, NOW()),
			updated_at = NOW()
		WHERE place_id = $1`,
		placeID, nilEmpty(d.Address), nilEmpty(d.Phone), nilEmpty(d.Website),
		hours, d.PriceLevel,
	)
	return err
}

// collectRows drains a result set into Row values.
func collectRows(rows pgx.Rows) ([]Row, error) {
	var out []Row
	for rows.Next() {
		var r Row
		if err := scanRow(rows, &r); err != nil {
			return nil, fmt.Errorf("scan cafe row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// scanRow scans one row in the shared column order (see internal/db).
func scanRow(row pgx.Row, r *Row) error {
	return row.Scan(
		&r.ID, &r.PlaceID, &r.NameEn, &r.NameAr, &r.Lat, &r.Lng,
		&r.Rating, &r.ReviewCount, &r.PhotoReference, &r.CityEn, &r.CityAr,
		&r.AddressEn, &r.AddressAr, &r.Phone, &r.Website,
		&r.OpeningHours, &r.PriceLevel, &r.DetailsFetchedAt,
	)
}

// nilEmpty returns nil for empty strings (maps to SQL NULL).
func nilEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
