package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/qahwaapp/qahwa-data/internal/api/respond"
	"github.com/qahwaapp/qahwa-data/internal/cache"
	"github.com/qahwaapp/qahwa-data/internal/cafes"
	"github.com/qahwaapp/qahwa-data/internal/geo"
	"github.com/qahwaapp/qahwa-data/internal/places"
)

const photoMaxWidth = 800

// DiscoverCafes resolves nearby cafés for the caller's coordinates.
// @Summary Discover nearby cafés
// @Description Returns cafés near the given coordinates, serving the database cache first and falling back to the Places provider. Results are shaped for the requested display language.
// @Tags cafes
// @Produce json
// @Param lat query number false "Latitude (with lng; falls back to the server's dev override)"
// @Param lng query number false "Longitude"
// @Param lang query string false "Display language" Enums(en, ar)
// @Success 200 {array} cafes.DisplayCafe
// @Failure 422 {object} respond.ErrorResponse "Outside the service area"
// @Failure 500 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse "Provider failure"
// @Router /api/cafes [get]
func (h *Handler) DiscoverCafes(w http.ResponseWriter, r *http.Request) {
	lat, lng, ok := h.resolveCoordinates(r)
	if !ok {
		respond.WriteError(w, http.StatusInternalServerError, "CONFIG_ERROR",
			"No location available: pass lat and lng, or configure a development override")
		return
	}
	lang := displayLang(r)

	cell := geo.Quantize(lat, lng)
	cacheKey := fmt.Sprintf("discover:%s:%d:%s", cell.Key(), h.cfg.SearchRadiusMeters, lang)
	if data, etag, hit := h.cache.Get(cacheKey); hit {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, cache.TTLDiscover, true)
		return
	}

	result, err := h.service.ResolveNearby(r.Context(), lat, lng, lang)
	if err != nil {
		h.writeDiscoverError(w, err)
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to encode response")
		return
	}
	etag := h.cache.Set(cacheKey, data, cache.TTLDiscover)
	respond.WriteJSON(w, data, etag, cache.TTLDiscover, false)
}

// GetCafeDetails returns one café with detail fields, fetching them from
// the provider on first access.
// @Summary Café details
// @Description Returns one café including address, phone, website, opening hours, and price level. Detail fields are fetched from the provider once and only fill empty columns.
// @Tags cafes
// @Produce json
// @Param placeID path string true "External place identifier"
// @Param lang query string false "Display language" Enums(en, ar)
// @Success 200 {object} cafes.DisplayCafeDetail
// @Failure 404 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /api/cafes/{placeID} [get]
func (h *Handler) GetCafeDetails(w http.ResponseWriter, r *http.Request) {
	placeID := chi.URLParam(r, "placeID")
	lang := displayLang(r)

	detail, err := h.service.CafeDetails(r.Context(), placeID, lang)
	if err != nil {
		if errors.Is(err, cafes.ErrNotFound) {
			respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Unknown cafe")
			return
		}
		h.writeDiscoverError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, detail)
}

// GetCafePhoto streams the café's provider photo. The provider key stays
// server-side; clients only ever see this proxy URL.
// @Summary Café photo
// @Description Streams the café's photo from the provider.
// @Tags cafes
// @Produce image/jpeg
// @Param placeID path string true "External place identifier"
// @Success 200 {file} binary
// @Failure 404 {object} respond.ErrorResponse
// @Failure 503 {object} respond.ErrorResponse
// @Router /api/cafes/{placeID}/photo [get]
func (h *Handler) GetCafePhoto(w http.ResponseWriter, r *http.Request) {
	placeID := chi.URLParam(r, "placeID")

	ref, err := h.service.PhotoReference(r.Context(), placeID)
	if err != nil {
		if errors.Is(err, cafes.ErrNotFound) {
			respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Unknown cafe")
			return
		}
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to look up photo")
		return
	}
	if ref == "" {
		respond.WriteError(w, http.StatusNotFound, "NO_PHOTO", "Cafe has no photo")
		return
	}

	body, contentType, err := h.photos.Photo(r.Context(), ref, photoMaxWidth)
	if err != nil {
		if errors.Is(err, places.ErrRateLimited) {
			w.Header().Set("Retry-After", "60")
			respond.WriteError(w, http.StatusServiceUnavailable, "PHOTO_UNAVAILABLE", "Photo temporarily unavailable")
			return
		}
		respond.WriteError(w, http.StatusBadGateway, "UPSTREAM_ERROR", "Photo fetch failed")
		return
	}
	defer body.Close()

	if contentType == "" {
		contentType = "image/jpeg"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	io.Copy(w, body)
}

// resolveCoordinates picks the effective coordinates: explicit query params
// when both are present and numeric, else the configured dev override.
// There is no silent default location.
func (h *Handler) resolveCoordinates(r *http.Request) (lat, lng float64, ok bool) {
	q := r.URL.Query()
	latStr, lngStr := q.Get("lat"), q.Get("lng")
	if latStr != "" && lngStr != "" {
		lat, errLat := strconv.ParseFloat(latStr, 64)
		lng, errLng := strconv.ParseFloat(lngStr, 64)
		if errLat == nil && errLng == nil {
			return lat, lng, true
		}
	}
	if h.cfg.HasDevLocation() {
		return *h.cfg.DevLat, *h.cfg.DevLng, true
	}
	return 0, 0, false
}

// displayLang normalizes the lang query param; English is the default.
func displayLang(r *http.Request) string {
	if r.URL.Query().Get("lang") == cafes.LangArabic {
		return cafes.LangArabic
	}
	return cafes.LangEnglish
}

// writeDiscoverError maps pipeline error kinds to status codes. Internal
// detail is logged upstream; clients get generic messages.
func (h *Handler) writeDiscoverError(w http.ResponseWriter, err error) {
	var provErr *places.ProviderError
	var verifyErr *cafes.VerificationError

	switch {
	case errors.Is(err, places.ErrOutOfServiceArea):
		respond.WriteError(w, http.StatusUnprocessableEntity, "OUT_OF_SERVICE_AREA",
			"Service is not available in your region")
	case errors.Is(err, places.ErrMissingAPIKey):
		respond.WriteError(w, http.StatusInternalServerError, "CONFIG_ERROR",
			"Discover is not configured on this server")
	case errors.As(err, &provErr):
		respond.WriteError(w, http.StatusBadGateway, "UPSTREAM_ERROR",
			"Places provider request failed")
	case errors.As(err, &verifyErr):
		respond.WriteError(w, http.StatusInternalServerError, "PERSISTENCE_ERROR",
			"Failed to store discovered cafes")
	default:
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"Unexpected error")
	}
}
