package cafes

import (
	"github.com/qahwaapp/qahwa-data/internal/geo"
	"github.com/qahwaapp/qahwa-data/internal/places"
)

// candidate is a partially built canonical record keyed by place ID.
// Coordinates stay optional until the final validation pass so an overlay
// item can backfill an anchor that somehow lacked them.
type candidate struct {
	placeID        string
	lat            *float64
	lng            *float64
	nameEn         *string
	nameAr         *string
	rating         *float64
	reviewCount    *int
	photoReference *string
	cityEn         *string
	cityAr         *string
}

// MergePlaces combines two language-specific result sets into canonical,
// deduplicated records. The anchor language seeds identity and coordinates;
// the overlay language only fills fields that are still unset — once a
// field is populated it is never overwritten, even by a more complete
// overlay value. Overlay-only entries are admitted only when they carry
// valid coordinates of their own.
//
// Every output record has a non-empty place ID and finite coordinates; a
// final validation pass guards against partial construction.
func MergePlaces(anchor, overlay []places.Place, anchorLang, overlayLang string) []CanonicalPlace {
	entries := make(map[string]*candidate, len(anchor))
	order := make([]string, 0, len(anchor))

	// Anchor pass: identity and coordinates must both be present.
	for _, p := range anchor {
		if p.PlaceID == "" || !p.HasLocation || !geo.IsFinite(p.Lat, p.Lng) {
			continue
		}
		if _, exists := entries[p.PlaceID]; exists {
			continue // provider duplicate
		}
		c := &candidate{placeID: p.PlaceID}
		lat, lng := p.Lat, p.Lng
		c.lat, c.lng = &lat, &lng
		fillFromPlace(c, p, anchorLang)
		entries[p.PlaceID] = c
		order = append(order, p.PlaceID)
	}

	// Overlay pass: fill gaps, never overwrite.
	for _, p := range overlay {
		if p.PlaceID == "" {
			continue
		}
		c, exists := entries[p.PlaceID]
		if !exists {
			if !p.HasLocation || !geo.IsFinite(p.Lat, p.Lng) {
				continue
			}
			c = &candidate{placeID: p.PlaceID}
			lat, lng := p.Lat, p.Lng
			c.lat, c.lng = &lat, &lng
			fillFromPlace(c, p, overlayLang)
			entries[p.PlaceID] = c
			order = append(order, p.PlaceID)
			continue
		}
		if c.lat == nil && p.HasLocation && geo.IsFinite(p.Lat, p.Lng) {
			lat, lng := p.Lat, p.Lng
			c.lat, c.lng = &lat, &lng
		}
		fillFromPlace(c, p, overlayLang)
	}

	// Final filter: only fully valid records cross into persistence.
	out := make([]CanonicalPlace, 0, len(order))
	for _, id := range order {
		c := entries[id]
		if c.placeID == "" || c.lat == nil || c.lng == nil || !geo.IsFinite(*c.lat, *c.lng) {
			continue
		}
		out = append(out, CanonicalPlace{
			PlaceID:        c.placeID,
			Lat:            *c.lat,
			Lng:            *c.lng,
			NameEn:         c.nameEn,
			NameAr:         c.nameAr,
			Rating:         c.rating,
			ReviewCount:    c.reviewCount,
			PhotoReference: c.photoReference,
			CityEn:         c.cityEn,
			CityAr:         c.cityAr,
		})
	}
	return out
}

// fillFromPlace sets the candidate's language-specific and shared fields
// from one provider item, touching only fields that are currently unset.
func fillFromPlace(c *candidate, p places.Place, lang string) {
	name := c.langName(lang)
	if *name == nil && p.Name != "" {
		v := p.Name
		*name = &v
	}
	city := c.langCity(lang)
	if *city == nil {
		if v := extractCity(p.Vicinity); v != "" {
			*city = &v
		}
	}
	if c.photoReference == nil && p.PhotoReference != "" {
		v := p.PhotoReference
		c.photoReference = &v
	}
	if c.rating == nil && p.Rating != nil {
		c.rating = p.Rating
	}
	if c.reviewCount == nil && p.ReviewCount != nil {
		c.reviewCount = p.ReviewCount
	}
}

func (c *candidate) langName(lang string) **string {
	if lang == LangArabic {
		return &c.nameAr
	}
	return &c.nameEn
}

func (c *candidate) langCity(lang string) **string {
	if lang == LangArabic {
		return &c.cityAr
	}
	return &c.cityEn
}
