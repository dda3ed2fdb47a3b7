package model

// CityDetail is a hand-authored record for one destination
type CityDetail struct {
	Name                string          `json:"name" yaml:"name"`
	Description         string          `json:"description" yaml:"description"`
	Highlights          []string        `json:"highlights" yaml:"highlights"`
	Itinerary           []ItineraryDay  `json:"detailed_itinerary,omitempty" yaml:"detailed_itinerary"`
	LocalFood           []string        `json:"local_food" yaml:"local_food"`
	HiddenGems          []string        `json:"hidden_gems" yaml:"hidden_gems"`
	CulturalInsights    []string        `json:"cultural_insights,omitempty" yaml:"cultural_insights"`
	AdventureActivities []string        `json:"adventure_activities,omitempty" yaml:"adventure_activities"`
	Transportation      []string        `json:"transportation,omitempty" yaml:"transportation"`
	Tips                []string        `json:"tips" yaml:"tips"`
	AverageCostPerDay   string          `json:"average_cost_per_day" yaml:"average_cost_per_day"`
	Accommodation       []Accommodation `json:"accommodation_options,omitempty" yaml:"accommodation_options"`
}

// ItineraryDay is one day of a detailed itinerary, slots in order
type ItineraryDay struct {
	Label string          `json:"label" yaml:"label"`
	Slots []ItinerarySlot `json:"slots" yaml:"slots"`
}

// ItinerarySlot is a single time-of-day activity
type ItinerarySlot struct {
	Time     string `json:"time" yaml:"time"`
	Activity string `json:"activity" yaml:"activity"`
}

// Accommodation is a lodging tip for one budget level
type Accommodation struct {
	Level  string `json:"level" yaml:"level"`
	Option string `json:"option" yaml:"option"`
}

// SuggestionCategory tags the variant carried by Suggestions
type SuggestionCategory string

const (
	CategoryPlaces     SuggestionCategory = "places"
	CategoryFoods      SuggestionCategory = "foods"
	CategoryHiddenGems SuggestionCategory = "hidden_gems"
	CategoryAdvice     SuggestionCategory = "advice"
)

// Suggestions is a category-tagged list of content strings.
// Results is never nil so it always serializes as a JSON array.
type Suggestions struct {
	Category SuggestionCategory `json:"category"`
	City     *string            `json:"city"`
	Results  []string           `json:"results"`
}
