package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qahwaapp/qahwa-data/internal/cache"
	"github.com/qahwaapp/qahwa-data/internal/cafes"
	"github.com/qahwaapp/qahwa-data/internal/config"
	"github.com/qahwaapp/qahwa-data/internal/places"
)

type fakeDiscoverService struct {
	results    []cafes.DisplayCafe
	resolveErr error
	detail     cafes.DisplayCafeDetail
	detailErr  error
	photoRef   string
	photoErr   error

	lastLat, lastLng float64
	lastLang         string
}

func (f *fakeDiscoverService) ResolveNearby(ctx context.Context, lat, lng float64, lang string) ([]cafes.DisplayCafe, error) {
	f.lastLat, f.lastLng, f.lastLang = lat, lng, lang
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	if f.results == nil {
		return []cafes.DisplayCafe{}, nil
	}
	return f.results, nil
}

func (f *fakeDiscoverService) CafeDetails(ctx context.Context, placeID, lang string) (cafes.DisplayCafeDetail, error) {
	return f.detail, f.detailErr
}

func (f *fakeDiscoverService) PhotoReference(ctx context.Context, placeID string) (string, error) {
	return f.photoRef, f.photoErr
}

type fakePhotos struct {
	body        string
	contentType string
	err         error
}

func (f *fakePhotos) Photo(ctx context.Context, ref string, maxWidth int) (io.ReadCloser, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	return io.NopCloser(strings.NewReader(f.body)), f.contentType, nil
}

func testConfig() *config.Config {
	return &config.Config{
		CORSAllowOrigins:   []string{"*"},
		SearchRadiusMeters: config.DefaultSearchRadiusMeters,
	}
}

func doRequest(t *testing.T, svc *fakeDiscoverService, photos *fakePhotos, cfg *config.Config, target string) *httptest.ResponseRecorder {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	if photos == nil {
		photos = &fakePhotos{}
	}
	router := NewRouter(nil, cache.New(false), cfg, svc, photos)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

func TestDiscoverReturnsCafes(t *testing.T) {
	name := "Cafe A"
	svc := &fakeDiscoverService{results: []cafes.DisplayCafe{{
		ID: 1, PlaceID: "p1", Name: "Cafe A", NameEn: &name,
		Latitude: 24.71, Longitude: 46.67,
	}}}

	rec := doRequest(t, svc, nil, nil, "/api/cafes?lat=24.71&lng=46.67")
	require.Equal(t, http.StatusOK, rec.Code)

	var out []cafes.DisplayCafe
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "Cafe A", out[0].Name)
	assert.Equal(t, 24.71, svc.lastLat)
	assert.Equal(t, "en", svc.lastLang)
	assert.NotEmpty(t, rec.Header().Get("ETag"))
}

func TestDiscoverEmptyAreaIsStillOK(t *testing.T) {
	rec := doRequest(t, &fakeDiscoverService{}, nil, nil, "/api/cafes?lat=24.71&lng=46.67")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestDiscoverLangParam(t *testing.T) {
	svc := &fakeDiscoverService{}
	doRequest(t, svc, nil, nil, "/api/cafes?lat=24.71&lng=46.67&lang=ar")
	assert.Equal(t, "ar", svc.lastLang)

	doRequest(t, svc, nil, nil, "/api/cafes?lat=24.71&lng=46.67&lang=fr")
	assert.Equal(t, "en", svc.lastLang, "unknown languages fall back to English")
}

func TestDiscoverNoCoordinatesNoOverride(t *testing.T) {
	rec := doRequest(t, &fakeDiscoverService{}, nil, nil, "/api/cafes")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "CONFIG_ERROR", errorCode(t, rec))
}

func TestDiscoverDevOverride(t *testing.T) {
	cfg := testConfig()
	lat, lng := 24.7136, 46.6753
	cfg.DevLat, cfg.DevLng = &lat, &lng
	svc := &fakeDiscoverService{}

	rec := doRequest(t, svc, nil, cfg, "/api/cafes")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 24.7136, svc.lastLat)
	assert.Equal(t, 46.6753, svc.lastLng)
}

func TestDiscoverMalformedCoordinatesFallThrough(t *testing.T) {
	// Non-numeric params are ignored; with no override configured that
	// leaves no location at all.
	rec := doRequest(t, &fakeDiscoverService{}, nil, nil, "/api/cafes?lat=abc&lng=46.67")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "CONFIG_ERROR", errorCode(t, rec))
}

func TestDiscoverOutOfServiceArea(t *testing.T) {
	svc := &fakeDiscoverService{resolveErr: places.ErrOutOfServiceArea}
	rec := doRequest(t, svc, nil, nil, "/api/cafes?lat=48.85&lng=2.35")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "OUT_OF_SERVICE_AREA", errorCode(t, rec))
}

func TestDiscoverMissingAPIKey(t *testing.T) {
	svc := &fakeDiscoverService{resolveErr: places.ErrMissingAPIKey}
	rec := doRequest(t, svc, nil, nil, "/api/cafes?lat=24.71&lng=46.67")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "CONFIG_ERROR", errorCode(t, rec))
}

func TestDiscoverProviderFailure(t *testing.T) {
	svc := &fakeDiscoverService{resolveErr: &places.ProviderError{StatusCode: 502}}
	rec := doRequest(t, svc, nil, nil, "/api/cafes?lat=24.71&lng=46.67")
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "UPSTREAM_ERROR", errorCode(t, rec))
}

func TestDiscoverVerificationFailure(t *testing.T) {
	svc := &fakeDiscoverService{resolveErr: &cafes.VerificationError{Candidates: 3}}
	rec := doRequest(t, svc, nil, nil, "/api/cafes?lat=24.71&lng=46.67")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "PERSISTENCE_ERROR", errorCode(t, rec))
}

func TestDiscoverETagRoundTrip(t *testing.T) {
	cfg := testConfig()
	svc := &fakeDiscoverService{}
	photos := &fakePhotos{}
	router := NewRouter(nil, cache.New(true), cfg, svc, photos)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cafes?lat=24.71&lng=46.67", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/api/cafes?lat=24.71&lng=46.67", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
}

func TestCafeDetailsNotFound(t *testing.T) {
	svc := &fakeDiscoverService{detailErr: cafes.ErrNotFound}
	rec := doRequest(t, svc, nil, nil, "/api/cafes/unknown")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, rec))
}

func TestCafeDetailsOK(t *testing.T) {
	phone := "+966 11 123 4567"
	svc := &fakeDiscoverService{detail: cafes.DisplayCafeDetail{
		DisplayCafe: cafes.DisplayCafe{ID: 1, PlaceID: "p1", Name: "Cafe A"},
		Phone:       &phone,
	}}
	rec := doRequest(t, svc, nil, nil, "/api/cafes/p1")
	require.Equal(t, http.StatusOK, rec.Code)

	var out cafes.DisplayCafeDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "Cafe A", out.Name)
	require.NotNil(t, out.Phone)
	assert.Equal(t, phone, *out.Phone)
}

func TestCafePhotoStreams(t *testing.T) {
	svc := &fakeDiscoverService{photoRef: "ref-1"}
	photos := &fakePhotos{body: "jpeg-bytes", contentType: "image/jpeg"}

	rec := doRequest(t, svc, photos, nil, "/api/cafes/p1/photo")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, "jpeg-bytes", rec.Body.String())
}

func TestCafePhotoMissingReference(t *testing.T) {
	svc := &fakeDiscoverService{photoRef: ""}
	rec := doRequest(t, svc, nil, nil, "/api/cafes/p1/photo")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NO_PHOTO", errorCode(t, rec))
}

func TestCafePhotoRateLimited(t *testing.T) {
	svc := &fakeDiscoverService{photoRef: "ref-1"}
	photos := &fakePhotos{err: places.ErrRateLimited}

	rec := doRequest(t, svc, photos, nil, "/api/cafes/p1/photo")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "PHOTO_UNAVAILABLE", errorCode(t, rec))
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestCafePhotoUpstreamFailure(t *testing.T) {
	svc := &fakeDiscoverService{photoRef: "ref-1"}
	photos := &fakePhotos{err: &places.ProviderError{StatusCode: 502}}

	rec := doRequest(t, svc, photos, nil, "/api/cafes/p1/photo")
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "UPSTREAM_ERROR", errorCode(t, rec))
}

func TestHealthCheck(t *testing.T) {
	rec := doRequest(t, &fakeDiscoverService{}, nil, nil, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestRateLimitMiddleware(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitEnabled = true
	cfg.RateLimitRequests = 2
	cfg.RateLimitWindow = time.Minute

	router := NewRouter(nil, cache.New(false), cfg, &fakeDiscoverService{}, &fakePhotos{})
	var last int
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		last = rec.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}
