package places

// Wire shapes for the Google Places REST API. Only the fields the discover
// pipeline reads are declared; everything else in the provider payload is
// ignored by encoding/json.

type nearbySearchResponse struct {
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message,omitempty"`
	Results      []nearbyResult `json:"results"`
}

type nearbyResult struct {
	PlaceID          string    `json:"place_id"`
	Name             string    `json:"name"`
	Geometry         *geometry `json:"geometry,omitempty"`
	Photos           []photo   `json:"photos,omitempty"`
	Rating           *float64  `json:"rating,omitempty"`
	UserRatingsTotal *int      `json:"user_ratings_total,omitempty"`
	Vicinity         string    `json:"vicinity,omitempty"`
	FormattedAddress string    `json:"formatted_address,omitempty"`
	PlusCode         *plusCode `json:"plus_code,omitempty"`
}

type geometry struct {
	Location location `json:"location"`
}

type location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type photo struct {
	PhotoReference string `json:"photo_reference"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
}

type plusCode struct {
	CompoundCode string `json:"compound_code"`
	GlobalCode   string `json:"global_code"`
}

type detailsResponse struct {
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message,omitempty"`
	Result       detailsResult `json:"result"`
}

type detailsResult struct {
	FormattedAddress string        `json:"formatted_address,omitempty"`
	FormattedPhone   string        `json:"international_phone_number,omitempty"`
	Website          string        `json:"website,omitempty"`
	PriceLevel       *int          `json:"price_level,omitempty"`
	OpeningHours     *openingHours `json:"opening_hours,omitempty"`
}

type openingHours struct {
	WeekdayText []string `json:"weekday_text,omitempty"`
}

// --------------------------------------------------------------------------
// Mapped shapes handed to the merge stage
// --------------------------------------------------------------------------

// Place is the per-language intermediate a nearby search yields. It is
// ephemeral: the merge stage consumes it and only canonical rows survive.
type Place struct {
	PlaceID        string
	Name           string
	Lat            float64
	Lng            float64
	HasLocation    bool
	PhotoReference string
	Rating         *float64
	ReviewCount    *int

	// Address text kept transiently for geofencing and city extraction.
	Vicinity     string
	Address      string
	CompoundCode string
}

// Details is the mapped Place Details result. Empty fields stay empty;
// the store only fills columns that are currently NULL.
type Details struct {
	Address      string
	Phone        string
	Website      string
	OpeningHours []string
	PriceLevel   *int
}
