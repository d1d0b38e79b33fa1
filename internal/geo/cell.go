// Package geo holds the coordinate math used by the discover pipeline:
// coarse cell quantization for cache keys and bounding boxes for the
// database cache check.
package geo

import (
	"fmt"
	"math"
)

// metersPerDegreeLat is the approximate length of one degree of latitude.
const metersPerDegreeLat = 111000.0

// cellScale rounds coordinates to 3 decimal places, an ~110m grid.
const cellScale = 1000.0

// Cell is a coarse grid cell derived from raw coordinates. It is only a
// cache/dedup key — recomputed per request, never persisted.
type Cell struct {
	LatCell float64
	LngCell float64
}

// Quantize rounds the coordinate pair to 3 decimal places. Rounding is
// half-up (toward +inf at exact midpoints, so -0.0005 lands in cell 0.000),
// not math.Round's half-away-from-zero.
func Quantize(lat, lng float64) Cell {
	return Cell{
		LatCell: roundHalfUp(lat),
		LngCell: roundHalfUp(lng),
	}
}

func roundHalfUp(v float64) float64 {
	return math.Floor(v*cellScale+0.5) / cellScale
}

// Key renders a stable map key for the cell.
func (c Cell) Key() string {
	return fmt.Sprintf("%.3f,%.3f", c.LatCell, c.LngCell)
}

// Bounds is a lat/lng bounding box.
type Bounds struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// BoundsAround computes a bounding box of radiusMeters around the point.
// The longitude delta widens with latitude to keep the box roughly square
// on the ground.
func BoundsAround(lat, lng float64, radiusMeters int) Bounds {
	latDelta := float64(radiusMeters) / metersPerDegreeLat

	cosLat := math.Cos(lat * math.Pi / 180)
	// Degenerate near the poles; clamp so the box stays finite.
	if math.Abs(cosLat) < 1e-6 {
		cosLat = 1e-6
	}
	lngDelta := float64(radiusMeters) / (metersPerDegreeLat * math.Abs(cosLat))

	return Bounds{
		MinLat: lat - latDelta,
		MaxLat: lat + latDelta,
		MinLng: lng - lngDelta,
		MaxLng: lng + lngDelta,
	}
}

// Contains reports whether the point lies inside the box.
func (b Bounds) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// IsFinite reports whether both coordinates are real, finite numbers.
func IsFinite(lat, lng float64) bool {
	return !math.IsNaN(lat) && !math.IsInf(lat, 0) &&
		!math.IsNaN(lng) && !math.IsInf(lng, 0)
}
