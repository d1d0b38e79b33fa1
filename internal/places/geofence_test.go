package places

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeofenceMatchesCountryName(t *testing.T) {
	g := NewGeofence("single", []string{"Saudi Arabia"})

	assert.True(t, g.Match("King Fahd Rd, Riyadh, Saudi Arabia"))
	assert.True(t, g.Match("king fahd rd, riyadh, SAUDI ARABIA"))
	assert.False(t, g.Match("Sheikh Zayed Rd, Dubai, United Arab Emirates"))
}

func TestGeofenceMatchesArabicAlias(t *testing.T) {
	g := NewGeofence("single", []string{"Saudi Arabia"})

	assert.True(t, g.Match("طريق الملك فهد، الرياض السعودية"))
	assert.True(t, g.Match("الرياض المملكة العربية السعودية"))
}

func TestGeofencePlusCodeFallback(t *testing.T) {
	g := NewGeofence("single", []string{"Saudi Arabia"})

	// Vicinity omits the country; the compound code carries it.
	assert.True(t, g.Match("Al Olaya, Riyadh", "", "PG5F+2M Riyadh, Saudi Arabia"))
	assert.False(t, g.Match("Al Olaya", "", "PG5F+2M Manama, Bahrain"))
}

func TestGeofenceGlobalMode(t *testing.T) {
	g := NewGeofence("global", []string{"Saudi Arabia"})

	assert.True(t, g.AllowsAll())
	assert.True(t, g.Match("anywhere at all"))
	assert.True(t, g.Match())
}

func TestGeofenceMultiMode(t *testing.T) {
	g := NewGeofence("multi", []string{"Saudi Arabia", "Kuwait"})

	assert.True(t, g.Match("Salmiya, Kuwait"))
	assert.True(t, g.Match("Riyadh, Saudi Arabia"))
	assert.False(t, g.Match("Doha, Qatar"))
}

func TestGeofenceEmptyText(t *testing.T) {
	g := NewGeofence("single", []string{"Saudi Arabia"})
	assert.False(t, g.Match("", "", ""))
}
