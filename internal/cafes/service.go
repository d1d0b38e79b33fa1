package cafes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/qahwaapp/qahwa-data/internal/cache"
	"github.com/qahwaapp/qahwa-data/internal/geo"
	"github.com/qahwaapp/qahwa-data/internal/places"
)

// verifyScanLimit caps the verify step's unbounded fallback read so a
// miscalibrated bounding box degrades to "recent rows", not a table scan.
const verifyScanLimit = 100

// ErrNotFound reports an unknown place ID on the detail path.
var ErrNotFound = errors.New("cafes: not found")

// VerificationError is the internal invariant violation "wrote data but
// can't read any of it back". It carries the batch context for diagnosis.
type VerificationError struct {
	Candidates int
	Upserted   int
	RowErrors  []string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("persisted %d of %d candidates but re-reads returned nothing (row errors: %d)",
		e.Upserted, e.Candidates, len(e.RowErrors))
}

// CafeStore is the persistence surface the service needs.
type CafeStore interface {
	CafesInBounds(ctx context.Context, b geo.Bounds) ([]Row, error)
	RecentCafes(ctx context.Context, limit int) ([]Row, error)
	CafeByPlaceID(ctx context.Context, placeID string) (Row, bool, error)
	UpsertCanonical(ctx context.Context, p CanonicalPlace) error
	FillDetails(ctx context.Context, placeID, lang string, d places.Details) error
}

// Searcher is the provider surface the service needs.
type Searcher interface {
	SearchNearby(ctx context.Context, lat, lng float64, radiusMeters int, language string) ([]places.Place, error)
	Fetch(ctx context.Context, placeID, language string) (places.Details, error)
}

// Service resolves nearby cafés: database first, provider fallback in both
// languages, merge, idempotent persist, verified re-read.
type Service struct {
	store  CafeStore
	places Searcher
	memo   *cache.NearbyCache
	radius int
	logger *slog.Logger
}

// NewService wires the discover service.
func NewService(store CafeStore, searcher Searcher, memo *cache.NearbyCache, radiusMeters int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  store,
		places: searcher,
		memo:   memo,
		radius: radiusMeters,
		logger: logger,
	}
}

// ResolveNearby returns display-shaped café records around the point.
//
// Error kinds surfaced to the handler: places.ErrOutOfServiceArea (hard
// business rejection), *places.ProviderError (upstream failure),
// *VerificationError (write path broken). Rate limiting never escapes:
// one throttled language contributes nothing, both throttled means an
// empty — but successful — result.
func (s *Service) ResolveNearby(ctx context.Context, lat, lng float64, lang string) ([]DisplayCafe, error) {
	bounds := geo.BoundsAround(lat, lng, s.radius)

	// CacheCheck: rows already inside the box answer the request outright.
	cached, err := s.store.CafesInBounds(ctx, bounds)
	if err != nil {
		return nil, fmt.Errorf("cache check: %w", err)
	}
	if len(cached) > 0 {
		s.logger.Debug("Discover served from database", "rows", len(cached))
		return displayAll(cached, lang), nil
	}

	// A fresh memo entry means the provider was already asked about this
	// cell and the area has nothing; don't spend quota re-asking.
	cell := geo.Quantize(lat, lng)
	if entry, ok := s.memo.Get(cell, s.radius); ok {
		s.logger.Debug("Discover served from nearby memo",
			"cell", cell.Key(), "known_places", len(entry.PlaceIDs))
		return []DisplayCafe{}, nil
	}

	// Fallback: both languages. English anchors the merge.
	enResults, enErr := s.places.SearchNearby(ctx, lat, lng, s.radius, LangEnglish)
	arResults, arErr := s.places.SearchNearby(ctx, lat, lng, s.radius, LangArabic)

	// Out-of-area and provider failures terminate the request; a
	// rate-limited language just contributes zero results.
	for _, searchErr := range []error{enErr, arErr} {
		if searchErr != nil && !errors.Is(searchErr, places.ErrRateLimited) {
			return nil, searchErr
		}
	}
	if errors.Is(enErr, places.ErrRateLimited) && errors.Is(arErr, places.ErrRateLimited) {
		s.logger.Warn("Both language searches rate limited, serving empty result")
		return []DisplayCafe{}, nil
	}

	candidates := MergePlaces(enResults, arResults, LangEnglish, LangArabic)

	// Persist: per-row upserts; failures accumulate, the batch continues.
	result := PersistResult{Candidates: len(candidates)}
	placeIDs := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if upsertErr := s.store.UpsertCanonical(ctx, c); upsertErr != nil {
			result.AddErrorf("upsert %s: %v", c.PlaceID, upsertErr)
			continue
		}
		result.Upserted++
		placeIDs = append(placeIDs, c.PlaceID)
	}
	if len(result.Errors) > 0 {
		s.logger.Error("Some cafe rows failed to persist",
			"summary", result.Summary(), "errors", result.Errors)
	}

	if len(candidates) == 0 {
		// At least one language answered and the area yielded nothing;
		// that emptiness is worth memoizing for the TTL.
		s.memo.Put(cell, s.radius, placeIDs)
		s.logger.Info("Discover found no cafes for area", "lat", lat, "lng", lng)
		return []DisplayCafe{}, nil
	}

	// Verify: unbounded sanity read first, then the original box.
	recent, err := s.store.RecentCafes(ctx, verifyScanLimit)
	if err != nil {
		return nil, fmt.Errorf("verify read: %w", err)
	}
	bounded, err := s.store.CafesInBounds(ctx, bounds)
	if err != nil {
		return nil, fmt.Errorf("verify bounded read: %w", err)
	}

	if len(bounded) == 0 && len(recent) == 0 {
		// Deliberately no memo entry here: the next request must get
		// another chance at the provider instead of a cached empty answer.
		return nil, &VerificationError{
			Candidates: len(candidates),
			Upserted:   result.Upserted,
			RowErrors:  result.Errors,
		}
	}

	// The writes are readable; only now is the cell's answer trustworthy.
	s.memo.Put(cell, s.radius, placeIDs)

	if len(bounded) == 0 {
		// Better to show something than enforce a possibly-miscalibrated box.
		s.logger.Warn("Bounding-box re-read empty after persist, serving recent rows",
			"candidates", len(candidates), "recent", len(recent))
		return displayAll(recent, lang), nil
	}
	return displayAll(bounded, lang), nil
}

// CafeDetails returns one café with its detail columns, fetching them from
// the provider on first access. Detail writes only fill NULL columns; a
// rate-limited fetch degrades to whatever the row already holds.
func (s *Service) CafeDetails(ctx context.Context, placeID, lang string) (DisplayCafeDetail, error) {
	row, found, err := s.store.CafeByPlaceID(ctx, placeID)
	if err != nil {
		return DisplayCafeDetail{}, err
	}
	if !found {
		return DisplayCafeDetail{}, ErrNotFound
	}

	if row.DetailsFetchedAt == nil {
		if err := s.fetchDetails(ctx, placeID); err != nil {
			return DisplayCafeDetail{}, err
		}
		if refreshed, ok, readErr := s.store.CafeByPlaceID(ctx, placeID); readErr == nil && ok {
			row = refreshed
		}
	}

	return row.DisplayDetail(lang), nil
}

// PhotoReference returns the stored photo reference for a place, empty when
// the place has no photo.
func (s *Service) PhotoReference(ctx context.Context, placeID string) (string, error) {
	row, found, err := s.store.CafeByPlaceID(ctx, placeID)
	if err != nil {
		return "", err
	}
	if !found {
		return "", ErrNotFound
	}
	if row.PhotoReference == nil {
		return "", nil
	}
	return *row.PhotoReference, nil
}

// fetchDetails pulls provider details in both languages and fills the
// row's NULL detail columns. Rate limiting is soft here.
func (s *Service) fetchDetails(ctx context.Context, placeID string) error {
	for _, lang := range []string{LangEnglish, LangArabic} {
		details, err := s.places.Fetch(ctx, placeID, lang)
		if errors.Is(err, places.ErrRateLimited) {
			s.logger.Warn("Details fetch rate limited, serving stored row",
				"place_id", placeID, "language", lang)
			return nil
		}
		if err != nil {
			return err
		}
		if err := s.store.FillDetails(ctx, placeID, lang, details); err != nil {
			return fmt.Errorf("fill details %s: %w", placeID, err)
		}
	}
	return nil
}

func displayAll(rows []Row, lang string) []DisplayCafe {
	out := make([]DisplayCafe, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Display(lang))
	}
	return out
}
