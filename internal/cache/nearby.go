package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/qahwaapp/qahwa-data/internal/geo"
)

// NearbyEntry records one successful external lookup for a cell+radius:
// which place IDs it yielded and when. Entries are overwritten, never
// merged, on the next successful lookup for the same key.
type NearbyEntry struct {
	Cell      geo.Cell
	Radius    int
	PlaceIDs  []string
	FetchedAt time.Time
}

// NearbyCache is the in-process memo of recent nearby-search lookups. Its
// job is purely quota protection: a fresh entry means the provider was
// already consulted for this cell, so an empty database is an answer, not
// a reason to call out again.
type NearbyCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]NearbyEntry

	now func() time.Time // test seam
}

// NewNearbyCache creates a memo whose entries expire ttl after FetchedAt.
func NewNearbyCache(ttl time.Duration) *NearbyCache {
	return &NearbyCache{
		ttl:     ttl,
		entries: make(map[string]NearbyEntry),
		now:     time.Now,
	}
}

// Get returns the entry for a cell+radius if one exists and is still fresh.
// Stale entries are evicted on access.
func (c *NearbyCache) Get(cell geo.Cell, radius int) (NearbyEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := nearbyKey(cell, radius)
	e, ok := c.entries[key]
	if !ok {
		return NearbyEntry{}, false
	}
	if c.now().Sub(e.FetchedAt) > c.ttl {
		delete(c.entries, key)
		return NearbyEntry{}, false
	}
	return e, true
}

// Put records a successful lookup, replacing any previous entry.
func (c *NearbyCache) Put(cell geo.Cell, radius int, placeIDs []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[nearbyKey(cell, radius)] = NearbyEntry{
		Cell:      cell,
		Radius:    radius,
		PlaceIDs:  placeIDs,
		FetchedAt: c.now(),
	}
}

func nearbyKey(cell geo.Cell, radius int) string {
	return fmt.Sprintf("%s:%d", cell.Key(), radius)
}
