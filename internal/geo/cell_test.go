package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantizeRoundsToThreeDecimals(t *testing.T) {
	c := Quantize(24.713612, 46.675298)
	assert.Equal(t, 24.714, c.LatCell)
	assert.Equal(t, 46.675, c.LngCell)
}

func TestQuantizeMidpointRoundsTowardPositive(t *testing.T) {
	// Exact .0005 midpoints round half up, so the negative midpoint lands
	// in the higher cell rather than away from zero.
	c := Quantize(-0.0005, 0.0005)
	assert.Equal(t, 0.0, c.LatCell)
	assert.Equal(t, 0.001, c.LngCell)
}

func TestQuantizeIdempotent(t *testing.T) {
	coords := [][2]float64{
		{24.7136, 46.6753},
		{-33.8688, 151.2093},
		{0.0004999, -0.0004999},
		{89.9999, -179.9999},
	}
	for _, pair := range coords {
		first := Quantize(pair[0], pair[1])
		second := Quantize(first.LatCell, first.LngCell)
		assert.Equal(t, first, second, "quantize must be idempotent for %v", pair)
	}
}

func TestQuantizeSameCellForNearbyPoints(t *testing.T) {
	// Two points within the same ~110m cell share a key.
	a := Quantize(24.71361, 46.67531)
	b := Quantize(24.71399, 46.67529)
	assert.Equal(t, a.Key(), b.Key())

	// A point a full cell away does not.
	c := Quantize(24.71561, 46.67531)
	assert.NotEqual(t, a.Key(), c.Key())
}

func TestBoundsAroundLatitudeDelta(t *testing.T) {
	b := BoundsAround(24.7136, 46.6753, 500)

	latDelta := 500.0 / 111000.0
	assert.InDelta(t, 24.7136-latDelta, b.MinLat, 1e-9)
	assert.InDelta(t, 24.7136+latDelta, b.MaxLat, 1e-9)

	// Longitude delta must be wider than latitude delta away from the equator.
	require.Greater(t, b.MaxLng-b.MinLng, b.MaxLat-b.MinLat)
}

func TestBoundsAroundContains(t *testing.T) {
	b := BoundsAround(24.7136, 46.6753, 500)
	assert.True(t, b.Contains(24.7136, 46.6753))
	assert.True(t, b.Contains(24.7150, 46.6760))
	assert.False(t, b.Contains(24.80, 46.6753))
	assert.False(t, b.Contains(24.7136, 46.80))
}

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFinite(24.7, 46.6))
	assert.True(t, IsFinite(0, 0))

	assert.False(t, IsFinite(math.NaN(), 46.6))
	assert.False(t, IsFinite(24.7, math.Inf(1)))
	assert.False(t, IsFinite(math.Inf(-1), 46.6))
}
