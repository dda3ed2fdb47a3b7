package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travella/internal/model"
)

func intPtr(v int) *int { return &v }

func TestComposer_Unavailable(t *testing.T) {
	c := NewComposer(fixtureStore(), nil, time.Second, nil)
	assert.False(t, c.Available())

	out := c.Compose(context.Background(), ComposeRequest{
		Text:     "plan 2 days in kathmandu",
		Intent:   model.IntentItinerary,
		Entities: model.EntitySet{City: strPtr("kathmandu"), Days: intPtr(2)},
		City:     strPtr("kathmandu"),
	})

	assert.False(t, out.LLMAvailable)
	require.NotNil(t, out.LLMResponse)
	assert.NotEmpty(t, *out.LLMResponse)
	assert.Equal(t, model.SourceFallback, out.Source)
	assert.Equal(t, model.CategoryPlaces, out.Suggestions.Category)
}

func TestComposer_EmptyChainIsUnavailable(t *testing.T) {
	c := NewComposer(fixtureStore(), NewChainGenerator(nil), time.Second, nil)
	assert.False(t, c.Available())
}

func TestComposer_ItineraryRespectsDays(t *testing.T) {
	c := NewComposer(fixtureStore(), nil, time.Second, nil)

	out := c.Compose(context.Background(), ComposeRequest{
		Intent:   model.IntentItinerary,
		Entities: model.EntitySet{City: strPtr("kathmandu"), Days: intPtr(2)},
		City:     strPtr("kathmandu"),
	})

	require.NotNil(t, out.LLMResponse)
	text := *out.LLMResponse
	assert.Contains(t, text, "Day 1 - HERITAGE")
	assert.Contains(t, text, "Day 2 - STUPAS")
	assert.NotContains(t, text, "Day 3")
	assert.NotContains(t, text, "MARKETS")
	assert.Contains(t, text, "$30-50")
}

func TestComposer_ItineraryDefaultsToThreeDays(t *testing.T) {
	c := NewComposer(fixtureStore(), nil, time.Second, nil)

	out := c.Compose(context.Background(), ComposeRequest{
		Intent: model.IntentItinerary,
		City:   strPtr("kathmandu"),
	})

	text := *out.LLMResponse
	assert.Contains(t, text, "Day 3 - VALLEY")
	assert.NotContains(t, text, "Day 4")
	assert.Contains(t, text, "2 people")
}

func TestComposer_UnknownCity(t *testing.T) {
	c := NewComposer(fixtureStore(), nil, time.Second, nil)

	out := c.Compose(context.Background(), ComposeRequest{
		Intent: model.IntentFindPlaces,
		City:   strPtr("narnia"),
	})

	assert.Equal(t, model.CategoryPlaces, out.Suggestions.Category)
	assert.NotNil(t, out.Suggestions.Results)
	assert.Empty(t, out.Suggestions.Results)
	require.NotNil(t, out.LLMResponse)
	assert.Contains(t, *out.LLMResponse, "Nepal")
	assert.NotContains(t, strings.ToLower(*out.LLMResponse), "narnia")
}

func TestComposer_FallbackTemplates(t *testing.T) {
	c := NewComposer(fixtureStore(), nil, time.Second, nil)

	tests := []struct {
		name     string
		intent   string
		city     *string
		contains []string
		excludes []string
	}{
		{
			name:     "hidden gems capped at three",
			intent:   model.IntentFindHidden,
			city:     strPtr("kathmandu"),
			contains: []string{"Chobhar Gorge", "Kirtipur", "Pharping"},
			excludes: []string{"Sundarijal"},
		},
		{
			name:     "foods capped at four",
			intent:   model.IntentLocalFood,
			city:     strPtr("kathmandu"),
			contains: []string{"Momo", "Chatamari"},
			excludes: []string{"Sel Roti"},
		},
		{
			name:     "food without city",
			intent:   model.IntentLocalFood,
			contains: []string{"Nepali cuisine"},
		},
		{
			name:     "hotel lists accommodation",
			intent:   model.IntentBookHotel,
			city:     strPtr("kathmandu"),
			contains: []string{"Budget: Thamel guesthouses", "Mid Range: Boutique hotels in Patan"},
		},
		{
			name:     "city without rich record",
			intent:   model.IntentFindHidden,
			city:     strPtr("pokhara"),
			contains: []string{"Pokhara is full of hidden gems"},
		},
		{
			name:     "greet",
			intent:   model.IntentGreet,
			contains: []string{"Namaste"},
		},
		{
			name:     "unknown intent uses default",
			intent:   "space_travel",
			city:     strPtr("pokhara"),
			contains: []string{"explore Pokhara"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := c.Compose(context.Background(), ComposeRequest{Intent: tt.intent, City: tt.city})
			require.NotNil(t, out.LLMResponse)
			for _, s := range tt.contains {
				assert.Contains(t, *out.LLMResponse, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, *out.LLMResponse, s)
			}
		})
	}
}

func TestComposer_ProviderSuccess(t *testing.T) {
	gen := okGenerator("openai", "Kathmandu is wonderful in autumn.")
	c := NewComposer(fixtureStore(), gen, time.Second, nil)

	out := c.Compose(context.Background(), ComposeRequest{
		Text:   "what to do in kathmandu",
		Intent: model.IntentFindPlaces,
		City:   strPtr("kathmandu"),
	})

	assert.True(t, out.LLMAvailable)
	assert.Equal(t, model.SourceProvider, out.Source)
	require.NotNil(t, out.LLMResponse)
	assert.Equal(t, "Kathmandu is wonderful in autumn.", *out.LLMResponse)
	assert.Equal(t, 1, gen.Calls())
	assert.Len(t, out.Suggestions.Results, 7)
}

func TestComposer_NeverFails(t *testing.T) {
	tests := []struct {
		name string
		gen  Generator
	}{
		{name: "provider error", gen: failingGenerator("openai")},
		{name: "blank text", gen: okGenerator("openai", "   ")},
		{name: "panic", gen: panicGenerator{}},
		{name: "timeout", gen: blockingGenerator{}},
		{name: "chain of failures", gen: NewChainGenerator(nil, failingGenerator("openai"), failingGenerator("anthropic"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewComposer(fixtureStore(), tt.gen, 50*time.Millisecond, nil)

			out := c.Compose(context.Background(), ComposeRequest{
				Intent:   model.IntentItinerary,
				Entities: model.EntitySet{Days: intPtr(1)},
				City:     strPtr("kathmandu"),
			})

			assert.True(t, out.LLMAvailable, "availability reflects configuration, not provider success")
			assert.Equal(t, model.SourceFallback, out.Source)
			require.NotNil(t, out.LLMResponse)
			assert.Contains(t, *out.LLMResponse, "Day 1 - HERITAGE")
		})
	}
}

func TestComposer_CachedSource(t *testing.T) {
	gen := &stubGenerator{name: "openai", gen: Generation{Text: "from cache", Cached: true}}
	c := NewComposer(fixtureStore(), gen, time.Second, nil)

	out := c.Compose(context.Background(), ComposeRequest{Intent: model.IntentGreet})
	assert.Equal(t, model.SourceCache, out.Source)
}

func TestComposer_ComposeStream(t *testing.T) {
	t.Run("chunks from a non-streaming provider", func(t *testing.T) {
		c := NewComposer(fixtureStore(), okGenerator("openai", "Hello Nepal"), time.Second, nil)

		var chunks []string
		out := c.ComposeStream(context.Background(), ComposeRequest{Intent: model.IntentGreet}, func(chunk string) error {
			chunks = append(chunks, chunk)
			return nil
		})

		assert.Equal(t, []string{"Hello Nepal"}, chunks)
		assert.Equal(t, "Hello Nepal", *out.LLMResponse)
		assert.Equal(t, model.SourceProvider, out.Source)
	})

	t.Run("failure falls back without chunks", func(t *testing.T) {
		c := NewComposer(fixtureStore(), failingGenerator("openai"), time.Second, nil)

		called := false
		out := c.ComposeStream(context.Background(), ComposeRequest{Intent: model.IntentGreet}, func(string) error {
			called = true
			return nil
		})

		assert.False(t, called)
		assert.Equal(t, greetResponse, *out.LLMResponse)
		assert.Equal(t, model.SourceFallback, out.Source)
	})
}

func TestBuildSuggestions(t *testing.T) {
	snap := fixtureStore().Current()

	tests := []struct {
		name     string
		intent   string
		city     *string
		category model.SuggestionCategory
		want     []string
	}{
		{name: "places default city", intent: model.IntentFindPlaces, category: model.CategoryPlaces, want: snap.List(model.CategoryPlaces, nil)},
		{name: "places for couples", intent: model.IntentCouples, city: strPtr("pokhara"), category: model.CategoryPlaces, want: []string{"Phewa Lake", "Sarangkot"}},
		{name: "foods", intent: model.IntentLocalFood, category: model.CategoryFoods, want: []string{"Momo", "Dal Bhat", "Yomari"}},
		{name: "hidden gems", intent: model.IntentFindHidden, category: model.CategoryHiddenGems, want: []string{"Chobhar Gorge", "Kirtipur", "Pharping"}},
		{name: "advice", intent: model.IntentDigitalNomad, category: model.CategoryAdvice, want: []string{"Coworking spaces in Jhamsikhel"}},
		{name: "advice missing", intent: model.IntentBusinessTravel, category: model.CategoryAdvice, want: []string{}},
		{name: "general", intent: model.IntentGeneral, category: model.CategoryAdvice, want: []string{genericAdvice}},
		{name: "unknown city", intent: model.IntentBackpacker, city: strPtr("narnia"), category: model.CategoryPlaces, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildSuggestions(snap, tt.intent, tt.city)
			assert.Equal(t, tt.category, got.Category)
			assert.Equal(t, tt.want, got.Results)
			assert.Equal(t, tt.city, got.City)
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	snap := fixtureStore().Current()

	ctx := buildTravelContext(snap, "kathmandu")
	assert.Contains(t, ctx, "Kathmandu - Capital city")
	assert.Contains(t, ctx, "Day 1 (heritage):")
	assert.Contains(t, ctx, "- Morning: Explore heritage")
	assert.Contains(t, ctx, "- Mid Range: Boutique hotels in Patan")

	plain := buildTravelContext(snap, "pokhara")
	assert.Contains(t, plain, "Pokhara attractions:\n- Phewa Lake")

	prompt := buildPrompt("plan 2 days", model.IntentItinerary, model.EntitySet{Days: intPtr(2)}, ctx)
	assert.Contains(t, prompt, "User query: plan 2 days")
	assert.Contains(t, prompt, "Detected intent: itinerary_suggestion")
	assert.Contains(t, prompt, `"days": 2`)
	assert.True(t, strings.HasSuffix(prompt, "Response:"))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Kathmandu", displayName("kathmandu"))
	assert.Equal(t, "New Road", displayName("new  road"))
	assert.Equal(t, "", displayName(""))
	assert.Equal(t, "Mid Range", levelName("mid_range"))
}
