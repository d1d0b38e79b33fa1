package places

import "strings"

// countryAliases maps a lowercase country name to additional strings that
// identify it in provider address text. Arabic-language searches return
// Arabic address text, so the primary market needs non-Latin literals.
var countryAliases = map[string][]string{
	"saudi arabia": {
		"السعودية",
		"المملكة العربية السعودية",
	},
}

// Geofence is the business rule restricting discover results to an allowed
// set of countries.
type Geofence struct {
	mode    string
	markers []string // lowercase substrings matched against address text
}

// NewGeofence builds a geofence for the configured mode and country list.
// mode "global" disables filtering regardless of the list.
func NewGeofence(mode string, countries []string) *Geofence {
	g := &Geofence{mode: mode}
	for _, country := range countries {
		name := strings.ToLower(strings.TrimSpace(country))
		if name == "" {
			continue
		}
		g.markers = append(g.markers, name)
		for _, alias := range countryAliases[name] {
			g.markers = append(g.markers, strings.ToLower(alias))
		}
	}
	return g
}

// AllowsAll reports whether filtering is disabled.
func (g *Geofence) AllowsAll() bool {
	return g.mode == "global"
}

// Match reports whether any of the text fragments mentions an allowed
// country. Matching is case-insensitive substring containment; the compound
// plus code is the usual fallback when vicinity omits the country.
func (g *Geofence) Match(texts ...string) bool {
	if g.AllowsAll() {
		return true
	}
	for _, text := range texts {
		if text == "" {
			continue
		}
		lower := strings.ToLower(text)
		for _, marker := range g.markers {
			if strings.Contains(lower, marker) {
				return true
			}
		}
	}
	return false
}
