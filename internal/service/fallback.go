package service

import (
	"fmt"
	"strings"

	"travella/internal/model"
)

// Fallback caps
const (
	defaultDays     = 3
	defaultPax      = 2
	maxFallbackGems = 3
	maxFallbackFood = 4
)

const greetResponse = "Namaste! I'm your travel assistant for Nepal and I'd love to help you plan your trip. " +
	"I can put together day-by-day itineraries, point you to hidden gems most visitors miss, " +
	"recommend local food worth trying and answer your questions about getting around. " +
	"What would you like to explore first?"

// fallbackResponse renders the deterministic answer for intent. city is the
// recognized city key ("" when none) and detail its rich record, if any.
func fallbackResponse(intent string, entities model.EntitySet, city string, detail *model.CityDetail) string {
	place := "Nepal"
	if city != "" {
		place = displayName(city)
	}
	if detail != nil && detail.Name != "" {
		place = detail.Name
	}

	switch intent {
	case model.IntentItinerary:
		return itineraryFallback(place, detail, entities)
	case model.IntentFindHidden:
		return hiddenGemsFallback(place, detail)
	case model.IntentLocalFood:
		return foodFallback(place, city, detail)
	case model.IntentBookHotel:
		return hotelFallback(place, detail)
	case model.IntentGreet:
		return greetResponse
	default:
		return defaultFallback(place)
	}
}

func itineraryFallback(place string, detail *model.CityDetail, entities model.EntitySet) string {
	days := entities.DaysOr(defaultDays)
	pax := entities.PaxOr(defaultPax)

	if detail == nil {
		return fmt.Sprintf("I'd be glad to help you plan your %d-day trip to %s for %d people. "+
			"Would you like a day-by-day plan with specific attractions and activities?", days, place, pax)
	}

	var b strings.Builder
	if len(detail.Itinerary) > 0 {
		fmt.Fprintf(&b, "Great choice! Here is a %d-day plan for %s, suited to %d people.\n\n", days, place, pax)
		for i, day := range detail.Itinerary {
			if i >= days {
				break
			}
			fmt.Fprintf(&b, "Day %d - %s:\n", i+1, strings.ToUpper(day.Label))
			for _, slot := range day.Slots {
				fmt.Fprintf(&b, "• %s: %s\n", capitalize(slot.Time), slot.Activity)
			}
			b.WriteString("\n")
		}
		if len(detail.CulturalInsights) > 0 {
			fmt.Fprintf(&b, "Cultural note: %s\n\n", detail.CulturalInsights[0])
		}
		if len(detail.AdventureActivities) > 0 {
			fmt.Fprintf(&b, "Adventure option: %s\n\n", detail.AdventureActivities[0])
		}
	} else {
		fmt.Fprintf(&b, "Here is what I recommend for %d days in %s for %d people.\n\n", days, place, pax)
		for i, highlight := range detail.Highlights {
			if i >= days {
				break
			}
			fmt.Fprintf(&b, "Day %d: %s\n", i+1, highlight)
		}
		b.WriteString("\n")
	}

	if detail.AverageCostPerDay != "" {
		fmt.Fprintf(&b, "Budget: %s\n\n", detail.AverageCostPerDay)
	}
	b.WriteString("Would you like me to adjust the schedule or add specific activities?")
	return b.String()
}

func hiddenGemsFallback(place string, detail *model.CityDetail) string {
	if detail == nil || len(detail.HiddenGems) == 0 {
		return fmt.Sprintf("%s is full of hidden gems most tourists never see. "+
			"I can suggest off-the-beaten-path spots, local markets and authentic experiences. "+
			"What kind of places do you enjoy?", place)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s has some wonderful spots that most visitors miss:\n\n", place)
	for i, gem := range detail.HiddenGems {
		if i >= maxFallbackGems {
			break
		}
		fmt.Fprintf(&b, "• %s\n", gem)
	}
	b.WriteString("\nWant more detail on any of these, or other places locals love?")
	return b.String()
}

func foodFallback(place, city string, detail *model.CityDetail) string {
	if detail == nil || len(detail.LocalFood) == 0 {
		cuisine := "Nepali"
		if city != "" {
			cuisine = place
		}
		return fmt.Sprintf("You're in for a treat! %s cuisine is diverse and full of flavour. "+
			"I can suggest traditional dishes, street food spots and restaurants serving authentic local food. "+
			"What kind of food experience are you after?", cuisine)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You'll love the food in %s. Dishes locals swear by:\n\n", place)
	for i, food := range detail.LocalFood {
		if i >= maxFallbackFood {
			break
		}
		fmt.Fprintf(&b, "• %s\n", food)
	}
	b.WriteString("\nShall I recommend places to eat or tell you more about the food traditions?")
	return b.String()
}

func hotelFallback(place string, detail *model.CityDetail) string {
	if detail == nil {
		return fmt.Sprintf("I'd be happy to help you find a place to stay in %s, "+
			"from local guesthouses to comfortable hotels. What's your budget and travel style?", place)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s has good options for every budget.", place)
	if detail.AverageCostPerDay != "" {
		fmt.Fprintf(&b, " A typical day costs %s.", detail.AverageCostPerDay)
	}
	if len(detail.Accommodation) > 0 {
		b.WriteString("\n\n")
		for _, a := range detail.Accommodation {
			fmt.Fprintf(&b, "• %s: %s\n", levelName(a.Level), a.Option)
		}
		b.WriteString("\n")
	} else {
		b.WriteString(" ")
	}
	b.WriteString("What's your preferred budget range?")
	return b.String()
}

func defaultFallback(place string) string {
	return fmt.Sprintf("I'd love to help you explore %s! I can share travel advice, build an itinerary, "+
		"recommend places to visit and pass on local insights. What would you like to know?", place)
}
