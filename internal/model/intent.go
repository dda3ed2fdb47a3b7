package model

// Intent labels known to the response layer. The classifier's label set is decided at training time;
// labels outside this list are valid and fall through to the default templates.
const (
	IntentGreet              = "greet"
	IntentFindPlaces         = "find_places"
	IntentItinerary          = "itinerary_suggestion"
	IntentFindHidden         = "find_hidden"
	IntentLocalFood          = "local_food"
	IntentBookHotel          = "book_hotel"
	IntentFamilyFriendly     = "family_friendly"
	IntentBackpacker         = "backpacker"
	IntentCouples            = "couples"
	IntentDigitalNomad       = "digital_nomad"
	IntentBusinessTravel     = "business_travel"
	IntentAdventureProviders = "adventure_providers"

	// IntentGeneral replaces any label whose confidence is below the threshold
	IntentGeneral = "general"
)

// IntentPrediction represents the classifier's top label with its probability
type IntentPrediction struct {
	Label      string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// EntitySet represents structured fields extracted from a query.
// A nil field means the query did not mention it.
type EntitySet struct {
	City   *string `json:"city"`
	Days   *int    `json:"days"`
	Budget *int    `json:"budget"`
	Pax    *int    `json:"pax"`
}

// CityOr returns the detected city or fallback.
func (e EntitySet) CityOr(fallback string) string {
	if e.City != nil && *e.City != "" {
		return *e.City
	}
	return fallback
}

// DaysOr returns the detected trip length or fallback.
func (e EntitySet) DaysOr(fallback int) int {
	if e.Days != nil {
		return *e.Days
	}
	return fallback
}

// PaxOr returns the detected party size or fallback.
func (e EntitySet) PaxOr(fallback int) int {
	if e.Pax != nil {
		return *e.Pax
	}
	return fallback
}
