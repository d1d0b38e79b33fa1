package cafes

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qahwaapp/qahwa-data/internal/places"
)

func enPlace(id, name string, lat, lng float64) places.Place {
	return places.Place{
		PlaceID:     id,
		Name:        name,
		Lat:         lat,
		Lng:         lng,
		HasLocation: true,
		Vicinity:    "Al Olaya, Riyadh",
	}
}

func TestMergeOutputAlwaysValid(t *testing.T) {
	anchor := []places.Place{
		enPlace("p1", "Cafe A", 24.71, 46.67),
		{PlaceID: "", Name: "No ID", Lat: 24.7, Lng: 46.6, HasLocation: true},
		{PlaceID: "p2", Name: "No location"},
		{PlaceID: "p3", Name: "NaN", Lat: math.NaN(), Lng: 46.6, HasLocation: true},
	}
	out := MergePlaces(anchor, nil, LangEnglish, LangArabic)

	require.Len(t, out, 1)
	for _, p := range out {
		assert.True(t, p.Valid())
		assert.NotEmpty(t, p.PlaceID)
		assert.False(t, math.IsNaN(p.Lat))
		assert.False(t, math.IsNaN(p.Lng))
	}
}

func TestMergeAnchorFieldWins(t *testing.T) {
	anchor := []places.Place{enPlace("p1", "Cafe A", 24.71, 46.67)}
	overlay := []places.Place{enPlace("p1", "مقهى أ", 24.99, 46.99)}

	out := MergePlaces(anchor, overlay, LangEnglish, LangArabic)
	require.Len(t, out, 1)

	// Anchor coordinates survive; the overlay only fills its own language.
	assert.Equal(t, 24.71, out[0].Lat)
	assert.Equal(t, 46.67, out[0].Lng)
	require.NotNil(t, out[0].NameEn)
	assert.Equal(t, "Cafe A", *out[0].NameEn)
	require.NotNil(t, out[0].NameAr)
	assert.Equal(t, "مقهى أ", *out[0].NameAr)
}

func TestMergeSameLanguageFieldNeverOverwritten(t *testing.T) {
	// Two overlay items under one id: the first writer wins per field.
	anchor := []places.Place{enPlace("p1", "Cafe A", 24.71, 46.67)}
	overlay := []places.Place{
		{PlaceID: "p1", Name: "مقهى أول", Lat: 24.71, Lng: 46.67, HasLocation: true},
		{PlaceID: "p1", Name: "مقهى ثانٍ", Lat: 24.71, Lng: 46.67, HasLocation: true},
	}

	out := MergePlaces(anchor, overlay, LangEnglish, LangArabic)
	require.Len(t, out, 1)
	require.NotNil(t, out[0].NameAr)
	assert.Equal(t, "مقهى أول", *out[0].NameAr)
}

func TestMergeOverlayOnlyNeedsCoordinates(t *testing.T) {
	overlay := []places.Place{
		{PlaceID: "only-no-coords", Name: "مقهى بلا موقع"},
		{PlaceID: "only-with-coords", Name: "مقهى كامل", Lat: 24.72, Lng: 46.68, HasLocation: true},
	}

	out := MergePlaces(nil, overlay, LangEnglish, LangArabic)
	require.Len(t, out, 1)
	assert.Equal(t, "only-with-coords", out[0].PlaceID)
	require.NotNil(t, out[0].NameAr)
	assert.Equal(t, "مقهى كامل", *out[0].NameAr)
}

func TestMergeOverlayFillsPhotoAndCounts(t *testing.T) {
	rating := 4.2
	reviews := 57
	anchor := []places.Place{{
		PlaceID: "p1", Name: "Cafe A", Lat: 24.71, Lng: 46.67, HasLocation: true,
	}}
	overlay := []places.Place{{
		PlaceID: "p1", Name: "مقهى أ", Lat: 24.71, Lng: 46.67, HasLocation: true,
		PhotoReference: "ref-ar", Rating: &rating, ReviewCount: &reviews,
	}}

	out := MergePlaces(anchor, overlay, LangEnglish, LangArabic)
	require.Len(t, out, 1)
	require.NotNil(t, out[0].PhotoReference)
	assert.Equal(t, "ref-ar", *out[0].PhotoReference)
	require.NotNil(t, out[0].Rating)
	assert.Equal(t, 4.2, *out[0].Rating)
	require.NotNil(t, out[0].ReviewCount)
	assert.Equal(t, 57, *out[0].ReviewCount)
}

func TestMergePhotoNotOverwritten(t *testing.T) {
	anchor := []places.Place{{
		PlaceID: "p1", Name: "Cafe A", Lat: 24.71, Lng: 46.67, HasLocation: true,
		PhotoReference: "ref-en",
	}}
	overlay := []places.Place{{
		PlaceID: "p1", Lat: 24.71, Lng: 46.67, HasLocation: true,
		PhotoReference: "ref-ar",
	}}

	out := MergePlaces(anchor, overlay, LangEnglish, LangArabic)
	require.Len(t, out, 1)
	require.NotNil(t, out[0].PhotoReference)
	assert.Equal(t, "ref-en", *out[0].PhotoReference)
}

func TestMergeDeduplicatesProviderRepeats(t *testing.T) {
	anchor := []places.Place{
		enPlace("p1", "Cafe A", 24.71, 46.67),
		enPlace("p1", "Cafe A Again", 24.99, 46.99),
	}
	out := MergePlaces(anchor, nil, LangEnglish, LangArabic)
	require.Len(t, out, 1)
	require.NotNil(t, out[0].NameEn)
	assert.Equal(t, "Cafe A", *out[0].NameEn)
}

func TestMergeExtractsCityFromVicinity(t *testing.T) {
	anchor := []places.Place{{
		PlaceID: "p1", Name: "Cafe A", Lat: 24.71, Lng: 46.67, HasLocation: true,
		Vicinity: "King Fahd Rd, Al Olaya, Riyadh",
	}}
	overlay := []places.Place{{
		PlaceID: "p1", Lat: 24.71, Lng: 46.67, HasLocation: true,
		Vicinity: "طريق الملك فهد، الرياض",
	}}

	out := MergePlaces(anchor, overlay, LangEnglish, LangArabic)
	require.Len(t, out, 1)
	require.NotNil(t, out[0].CityEn)
	assert.Equal(t, "Riyadh", *out[0].CityEn)
	require.NotNil(t, out[0].CityAr)
	assert.Equal(t, "الرياض", *out[0].CityAr)
}

func TestMergeEmptyInputs(t *testing.T) {
	assert.Empty(t, MergePlaces(nil, nil, LangEnglish, LangArabic))
	assert.Empty(t, MergePlaces([]places.Place{}, []places.Place{}, LangEnglish, LangArabic))
}
