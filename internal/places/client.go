// Package places provides the Google Places client used by the discover
// pipeline: rate-limited nearby search per language, place details, and
// photo streaming.
//
// Every outbound call goes through a shared CallLimiter so a burst of
// cache-miss requests cannot burn the API quota.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultBaseURL is the production Places API root.
const DefaultBaseURL = "https://maps.googleapis.com/maps/api/place"

// Provider status strings with special handling.
const (
	statusOK            = "OK"
	statusZeroResults   = "ZERO_RESULTS"
	statusUnknownError  = "UNKNOWN_ERROR"
	statusRequestDenied = "REQUEST_DENIED"
)

// searchType restricts nearby searches to cafés.
const searchType = "cafe"

// ErrMissingAPIKey reports that no provider key is configured. The discover
// feature degrades to errors without one.
var ErrMissingAPIKey = &ProviderError{Message: "GOOGLE_PLACES_API_KEY is not configured"}

// Client is the rate-limited HTTP client for the Places API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *CallLimiter
	fence      *Geofence
	logger     *slog.Logger
}

// NewClient creates a Places client. limiter and fence are required; they
// are injected so tests and the ingest CLI can construct isolated instances.
func NewClient(baseURL, apiKey string, limiter *CallLimiter, fence *Geofence, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		limiter:    limiter,
		fence:      fence,
		logger:     logger,
	}
}

// SearchNearby runs one nearby search for the given language and returns
// the geofenced per-language results.
//
// Failure kinds:
//   - ErrRateLimited: the call budget is exhausted, transport not attempted.
//   - ErrOutOfServiceArea: results came back but none inside an allowed country.
//   - *ProviderError: HTTP failure, undecodable payload, or a hard provider
//     status such as REQUEST_DENIED.
//
// An empty result set (including provider status UNKNOWN_ERROR) is a soft
// outcome: empty slice, nil error.
func (c *Client) SearchNearby(ctx context.Context, lat, lng float64, radiusMeters int, language string) ([]Place, error) {
	params := url.Values{}
	params.Set("location", fmt.Sprintf("%.6f,%.6f", lat, lng))
	params.Set("radius", strconv.Itoa(radiusMeters))
	params.Set("type", searchType)
	params.Set("language", language)

	body, err := c.get(ctx, "/nearbysearch/json", params)
	if err != nil {
		return nil, err
	}

	var resp nearbySearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ProviderError{Message: fmt.Sprintf("decode nearby search response: %v", err)}
	}
	if err := checkProviderStatus(resp.Status, resp.ErrorMessage); err != nil {
		return nil, err
	}
	if resp.Status == statusUnknownError {
		c.logger.Warn("Provider returned UNKNOWN_ERROR, treating as empty", "language", language)
		return []Place{}, nil
	}
	if len(resp.Results) == 0 {
		return []Place{}, nil
	}

	mapped := make([]Place, 0, len(resp.Results))
	for _, raw := range resp.Results {
		mapped = append(mapped, mapResult(raw))
	}

	// Hard geofence: results exist but none resolves to an allowed country.
	allowed := mapped[:0]
	for _, p := range mapped {
		if c.fence.Match(p.Vicinity, p.Address, p.CompoundCode) {
			allowed = append(allowed, p)
		}
	}
	if len(allowed) == 0 {
		return nil, ErrOutOfServiceArea
	}

	c.logger.Debug("Nearby search completed",
		"language", language, "results", len(resp.Results), "in_area", len(allowed))
	return allowed, nil
}

// Fetch retrieves place details for one place in the given language.
func (c *Client) Fetch(ctx context.Context, placeID, language string) (Details, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("language", language)
	params.Set("fields", "formatted_address,international_phone_number,website,opening_hours,price_level")

	body, err := c.get(ctx, "/details/json", params)
	if err != nil {
		return Details{}, err
	}

	var resp detailsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Details{}, &ProviderError{Message: fmt.Sprintf("decode details response: %v", err)}
	}
	if err := checkProviderStatus(resp.Status, resp.ErrorMessage); err != nil {
		return Details{}, err
	}

	d := Details{
		Address:    resp.Result.FormattedAddress,
		Phone:      resp.Result.FormattedPhone,
		Website:    resp.Result.Website,
		PriceLevel: resp.Result.PriceLevel,
	}
	if resp.Result.OpeningHours != nil {
		d.OpeningHours = resp.Result.OpeningHours.WeekdayText
	}
	return d, nil
}

// Photo streams the provider photo for a stored photo reference. The caller
// must close the returned body. Keeping this server-side keeps the API key
// out of client-visible URLs.
func (c *Client) Photo(ctx context.Context, photoReference string, maxWidth int) (body io.ReadCloser, contentType string, err error) {
	if c.apiKey == "" {
		return nil, "", ErrMissingAPIKey
	}
	if !c.limiter.Allow() {
		return nil, "", ErrRateLimited
	}

	params := url.Values{}
	params.Set("photo_reference", photoReference)
	params.Set("maxwidth", strconv.Itoa(maxWidth))
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/photo?"+params.Encode(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("create photo request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", &ProviderError{Message: fmt.Sprintf("photo request: %v", err)}
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, "", &ProviderError{StatusCode: resp.StatusCode, Message: truncate(b, 200)}
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}

// get performs one rate-limited GET against a Places endpoint. The API key
// is appended here so it never appears at call sites.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if !c.limiter.Allow() {
		return nil, ErrRateLimited
	}

	params.Set("key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport failure after the call was attempted: treated as a
		// provider failure, never as rate limiting.
		return nil, &ProviderError{Message: fmt.Sprintf("http request %s: %v", path, err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProviderError{Message: fmt.Sprintf("read response body: %v", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{StatusCode: resp.StatusCode, Message: truncate(body, 200)}
	}
	return body, nil
}

// checkProviderStatus translates a provider status string into an error
// kind. OK, ZERO_RESULTS, and UNKNOWN_ERROR are non-errors here; the caller
// decides what an empty result set means.
func checkProviderStatus(status, errorMessage string) error {
	switch status {
	case statusOK, statusZeroResults, statusUnknownError, "":
		return nil
	case statusRequestDenied:
		return &ProviderError{ProviderStatus: status, Message: errorMessage}
	default:
		return &ProviderError{ProviderStatus: status, Message: errorMessage}
	}
}

// mapResult narrows one raw provider record to the fields the pipeline uses.
func mapResult(raw nearbyResult) Place {
	p := Place{
		PlaceID:     raw.PlaceID,
		Name:        raw.Name,
		Rating:      raw.Rating,
		ReviewCount: raw.UserRatingsTotal,
		Vicinity:    raw.Vicinity,
		Address:     raw.FormattedAddress,
	}
	if raw.Geometry != nil {
		p.Lat = raw.Geometry.Location.Lat
		p.Lng = raw.Geometry.Location.Lng
		p.HasLocation = true
	}
	if len(raw.Photos) > 0 {
		p.PhotoReference = raw.Photos[0].PhotoReference
	}
	if raw.PlusCode != nil {
		p.CompoundCode = raw.PlusCode.CompoundCode
	}
	return p
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
