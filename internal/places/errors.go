package places

import (
	"errors"
	"fmt"
)

// ErrRateLimited reports that the outbound call budget is exhausted. The
// transport was never attempted. Callers degrade to cached or empty data;
// this never becomes a user-facing error.
var ErrRateLimited = errors.New("places: call budget exhausted")

// ErrOutOfServiceArea reports that the provider returned results but none
// of them resolved to an allowed country. This is a hard business-rule
// rejection: the whole request fails with a distinct status.
var ErrOutOfServiceArea = errors.New("places: no results inside the service area")

// ProviderError is an upstream HTTP or payload failure: non-2xx status,
// undecodable body, or a hard provider status such as REQUEST_DENIED.
type ProviderError struct {
	StatusCode     int    // HTTP status, 0 when the failure is payload-level
	ProviderStatus string // provider status string, if any
	Message        string
}

func (e *ProviderError) Error() string {
	if e.ProviderStatus != "" {
		return fmt.Sprintf("places: provider status %s: %s", e.ProviderStatus, e.Message)
	}
	return fmt.Sprintf("places: provider returned %d: %s", e.StatusCode, e.Message)
}
