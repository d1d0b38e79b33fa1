// Package cafes owns the discover pipeline's domain model: canonical place
// records, the bilingual merge, and the cache-check → provider-fallback →
// persist → verify flow that resolves nearby cafés.
package cafes

import (
	"strings"
	"time"

	"github.com/qahwaapp/qahwa-data/internal/geo"
)

// Display languages. English anchors the bilingual merge; Arabic overlays.
const (
	LangEnglish = "en"
	LangArabic  = "ar"
)

// CanonicalPlace is the only shape allowed to cross into persistent
// storage. It is valid iff PlaceID is non-empty and both coordinates are
// finite; invalid candidates are dropped before merge output and never
// partially written.
type CanonicalPlace struct {
	PlaceID        string
	Lat            float64
	Lng            float64
	NameEn         *string
	NameAr         *string
	Rating         *float64
	ReviewCount    *int
	PhotoReference *string
	CityEn         *string
	CityAr         *string
}

// Valid reports whether the record may be persisted.
func (p CanonicalPlace) Valid() bool {
	return p.PlaceID != "" && geo.IsFinite(p.Lat, p.Lng)
}

// Row is a persisted café row. The canonical subset is owned by the
// discover pipeline; the detail columns are owned by the detail-fetch path
// and are only ever filled when NULL.
type Row struct {
	ID               int64
	PlaceID          string
	NameEn           *string
	NameAr           *string
	Lat              float64
	Lng              float64
	Rating           *float64
	ReviewCount      *int
	PhotoReference   *string
	CityEn           *string
	CityAr           *string
	AddressEn        *string
	AddressAr        *string
	Phone            *string
	Website          *string
	OpeningHours     *string
	PriceLevel       *int
	DetailsFetchedAt *time.Time
}

// DisplayCafe is the JSON shape returned to clients. The unsuffixed
// name/address/city fields are resolved for the requested language with
// fallback to the other language.
type DisplayCafe struct {
	ID        int64    `json:"id"`
	PlaceID   string   `json:"placeId"`
	NameEn    *string  `json:"nameEn"`
	Name      string   `json:"name"`
	NameAr    *string  `json:"nameAr"`
	AddressEn *string  `json:"addressEn"`
	Address   *string  `json:"address"`
	AddressAr *string  `json:"addressAr"`
	CityEn    *string  `json:"cityEn"`
	City      *string  `json:"city"`
	CityAr    *string  `json:"cityAr"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Rating    *float64 `json:"rating"`
	Reviews   *int     `json:"reviews"`
	PhotoURL  *string  `json:"photoUrl"`
}

// DisplayCafeDetail extends DisplayCafe with the detail-path columns.
type DisplayCafeDetail struct {
	DisplayCafe
	Phone        *string `json:"phone"`
	Website      *string `json:"website"`
	OpeningHours *string `json:"openingHours"`
	PriceLevel   *int    `json:"priceLevel"`
}

// Display shapes a row for the requested language. The photo URL points at
// the in-service photo proxy; provider keys never reach the payload.
func (r Row) Display(lang string) DisplayCafe {
	primaryFirst := lang != LangArabic

	d := DisplayCafe{
		ID:        r.ID,
		PlaceID:   r.PlaceID,
		NameEn:    r.NameEn,
		NameAr:    r.NameAr,
		AddressEn: r.AddressEn,
		AddressAr: r.AddressAr,
		CityEn:    r.CityEn,
		CityAr:    r.CityAr,
		Latitude:  r.Lat,
		Longitude: r.Lng,
		Rating:    r.Rating,
		Reviews:   r.ReviewCount,
	}
	d.Name = derefOr(pickLang(r.NameEn, r.NameAr, primaryFirst), "")
	d.Address = pickLang(r.AddressEn, r.AddressAr, primaryFirst)
	d.City = pickLang(r.CityEn, r.CityAr, primaryFirst)

	if r.PhotoReference != nil && *r.PhotoReference != "" {
		url := "/api/cafes/" + r.PlaceID + "/photo"
		d.PhotoURL = &url
	}
	return d
}

// DisplayDetail shapes a row including the detail columns.
func (r Row) DisplayDetail(lang string) DisplayCafeDetail {
	return DisplayCafeDetail{
		DisplayCafe:  r.Display(lang),
		Phone:        r.Phone,
		Website:      r.Website,
		OpeningHours: r.OpeningHours,
		PriceLevel:   r.PriceLevel,
	}
}

// pickLang returns the preferred language's value, falling back to the
// other language when the preferred one is absent.
func pickLang(en, ar *string, primaryFirst bool) *string {
	first, second := en, ar
	if !primaryFirst {
		first, second = ar, en
	}
	if first != nil && *first != "" {
		return first
	}
	if second != nil && *second != "" {
		return second
	}
	return nil
}

func derefOr(s *string, fallback string) string {
	if s != nil {
		return *s
	}
	return fallback
}

// extractCity pulls a city name out of provider address text. Vicinity is
// typically "Street, District, City"; the last segment is the locality.
// Arabic results use the Arabic comma.
func extractCity(vicinity string) string {
	parts := strings.FieldsFunc(vicinity, func(r rune) bool {
		return r == ',' || r == '،'
	})
	for i := len(parts) - 1; i >= 0; i-- {
		if city := strings.TrimSpace(parts[i]); city != "" {
			return city
		}
	}
	return ""
}
