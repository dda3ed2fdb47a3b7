package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"travella/internal/content"
	"travella/internal/model"
)

// buildTravelContext renders what we know about city for the model. Rich
// records take precedence over the plain content tables.
func buildTravelContext(snap *content.Snapshot, city string) string {
	var b strings.Builder
	b.WriteString("You are a friendly and knowledgeable travel expert for Nepal. Here is what you know:\n\n")

	if d, ok := snap.Detail(city); ok && city != "" {
		writeDetail(&b, d)
	} else if city != "" {
		name := displayName(city)
		writeList(&b, name+" attractions", snap.List(model.CategoryPlaces, &city))
		writeList(&b, name+" local foods", snap.List(model.CategoryFoods, &city))
		writeList(&b, name+" hidden gems", snap.List(model.CategoryHiddenGems, &city))
	}

	b.WriteString("General Nepal travel tips:\n")
	b.WriteString("- Best time to visit: March to May and September to November\n")
	b.WriteString("- Currency: Nepalese Rupee (NPR)\n")
	b.WriteString("- Language: Nepali, with English widely spoken in tourist areas\n")
	b.WriteString("- Transportation: domestic flights, tourist buses and private vehicles\n")
	b.WriteString("- Safety: generally safe, take care in remote areas\n")
	return b.String()
}

func writeDetail(b *strings.Builder, d model.CityDetail) {
	fmt.Fprintf(b, "%s - %s\n\n", d.Name, d.Description)
	writeList(b, "Highlights", d.Highlights)

	if len(d.Itinerary) > 0 {
		b.WriteString("Day-by-day itinerary:\n")
		for i, day := range d.Itinerary {
			fmt.Fprintf(b, "Day %d (%s):\n", i+1, day.Label)
			for _, slot := range day.Slots {
				fmt.Fprintf(b, "- %s: %s\n", capitalize(slot.Time), slot.Activity)
			}
		}
		b.WriteString("\n")
	}

	writeList(b, "Local foods", d.LocalFood)
	writeList(b, "Hidden gems", d.HiddenGems)
	writeList(b, "Cultural insights", d.CulturalInsights)
	writeList(b, "Adventure activities", d.AdventureActivities)
	writeList(b, "Getting around", d.Transportation)
	writeList(b, "Tips", d.Tips)
	if d.AverageCostPerDay != "" {
		fmt.Fprintf(b, "Budget guide: %s\n\n", d.AverageCostPerDay)
	}
	if len(d.Accommodation) > 0 {
		b.WriteString("Where to stay:\n")
		for _, a := range d.Accommodation {
			fmt.Fprintf(b, "- %s: %s\n", levelName(a.Level), a.Option)
		}
		b.WriteString("\n")
	}
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(title + ":\n")
	for _, item := range items {
		b.WriteString("- " + item + "\n")
	}
	b.WriteString("\n")
}

// buildPrompt assembles the full user prompt for one query
func buildPrompt(query, intent string, entities model.EntitySet, travelContext string) string {
	ents, err := json.MarshalIndent(entities, "", "  ")
	if err != nil {
		ents = []byte("{}")
	}

	var b strings.Builder
	b.WriteString("You are a warm, enthusiastic travel assistant for Nepal who loves sharing local secrets.\n\n")
	b.WriteString("Context information:\n")
	b.WriteString(travelContext)
	fmt.Fprintf(&b, "\nUser query: %s\n", query)
	fmt.Fprintf(&b, "Detected intent: %s\n", intent)
	fmt.Fprintf(&b, "Extracted entities: %s\n\n", ents)
	b.WriteString("Guidelines:\n")
	b.WriteString("1. Use the context to give specific, actionable advice for the city if one is mentioned\n")
	b.WriteString("2. Prefer the detailed itinerary over repeating highlights\n")
	b.WriteString("3. Include practical tips, costs and local customs\n")
	b.WriteString("4. Keep it conversational, 2 to 4 paragraphs\n")
	b.WriteString("5. End with a question inviting the traveler to ask more\n\n")
	b.WriteString("Response:")
	return b.String()
}

// displayName turns a normalized city key into a title-cased name
func displayName(city string) string {
	words := strings.Fields(city)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// levelName renders an accommodation level key such as mid_range
func levelName(level string) string {
	return displayName(strings.ReplaceAll(level, "_", " "))
}
