package service

import (
	"travella/internal/content"
	"travella/internal/model"
)

const genericAdvice = "Tell me more about your interests."

// buildSuggestions picks the content category for intent and looks it up for city.
// It never fails: missing content is an empty list.
func buildSuggestions(snap *content.Snapshot, intent string, city *string) model.Suggestions {
	out := model.Suggestions{City: city}

	switch intent {
	case model.IntentFindPlaces, model.IntentItinerary, model.IntentFamilyFriendly, model.IntentBackpacker, model.IntentCouples:
		out.Category = model.CategoryPlaces
		out.Results = snap.List(model.CategoryPlaces, city)
	case model.IntentLocalFood:
		out.Category = model.CategoryFoods
		out.Results = snap.List(model.CategoryFoods, city)
	case model.IntentFindHidden:
		out.Category = model.CategoryHiddenGems
		out.Results = snap.List(model.CategoryHiddenGems, city)
	case model.IntentDigitalNomad, model.IntentBusinessTravel, model.IntentAdventureProviders:
		out.Category = model.CategoryAdvice
		out.Results = snap.Advice(intent)
	default:
		out.Category = model.CategoryAdvice
		out.Results = snap.Advice(model.IntentGeneral)
		if len(out.Results) == 0 {
			out.Results = []string{genericAdvice}
		}
	}

	if out.Results == nil {
		out.Results = []string{}
	}
	return out
}
