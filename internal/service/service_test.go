package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"travella/internal/classifier"
	"travella/internal/content"
	"travella/internal/model"
	"travella/internal/nlp"
)

func strPtr(s string) *string { return &s }

func fixtureDetail() model.CityDetail {
	days := []string{"heritage", "stupas", "valley", "hike", "markets"}
	d := model.CityDetail{
		Name:              "Kathmandu",
		Description:       "Capital city",
		Highlights:        []string{"Durbar Square", "Swayambhunath"},
		LocalFood:         []string{"Momo", "Dal Bhat", "Yomari", "Chatamari", "Sel Roti"},
		HiddenGems:        []string{"Chobhar Gorge", "Kirtipur", "Pharping", "Sundarijal"},
		CulturalInsights:  []string{"Walk clockwise around stupas"},
		Tips:              []string{"Carry small change"},
		AverageCostPerDay: "$30-50",
		Accommodation: []model.Accommodation{
			{Level: "budget", Option: "Thamel guesthouses"},
			{Level: "mid_range", Option: "Boutique hotels in Patan"},
		},
	}
	for _, label := range days {
		d.Itinerary = append(d.Itinerary, model.ItineraryDay{
			Label: label,
			Slots: []model.ItinerarySlot{{Time: "morning", Activity: "Explore " + label}},
		})
	}
	return d
}

func fixtureStore() *content.Store {
	g := nlp.NewGazetteer([]string{"Kathmandu", "Pokhara", "Chitwan"})
	tables := content.Tables{
		Places: map[string][]string{
			"kathmandu": {"Durbar Square", "Swayambhunath", "Boudhanath", "Pashupatinath", "Garden of Dreams", "Thamel", "Asan"},
			"pokhara":   {"Phewa Lake", "Sarangkot"},
		},
		Foods: map[string][]string{
			"kathmandu": {"Momo", "Dal Bhat", "Yomari"},
		},
		HiddenGems: map[string][]string{
			"kathmandu": {"Chobhar Gorge", "Kirtipur", "Pharping"},
		},
		Advice: map[string][]string{
			"digital_nomad": {"Coworking spaces in Jhamsikhel"},
			"general":       {"Tell me more about your interests."},
		},
		Aliases: map[string][]string{"kathmandu": {"ktm"}},
	}
	details := map[string]model.CityDetail{"kathmandu": fixtureDetail()}
	return content.NewStaticStore(content.NewSnapshot(g, tables, details, "kathmandu"))
}

const fixtureQueries = `text,intent
hello there,greet
hi namaste,greet
good morning,greet
hey hello,greet
best momo to eat,local_food
where to eat dal bhat,local_food
local food dishes,local_food
what food should i eat,local_food
plan 3 days itinerary,itinerary_suggestion
itinerary for 5 days,itinerary_suggestion
plan my trip days,itinerary_suggestion
make a day plan,itinerary_suggestion
`

// trainModel fits a small classifier. threshold pins the confidence policy so
// tests do not depend on exact probabilities.
func trainModel(t *testing.T, threshold float64) *classifier.Model {
	t.Helper()
	ds, err := classifier.LoadDataset(strings.NewReader(fixtureQueries))
	require.NoError(t, err)
	m, err := classifier.Train(ds, classifier.DefaultOptions())
	require.NoError(t, err)
	m.SetThreshold(threshold)
	return m
}

// stubGenerator returns a fixed result and counts calls
type stubGenerator struct {
	name  string
	gen   Generation
	mu    sync.Mutex
	calls int
}

func (s *stubGenerator) Name() string { return s.name }

func (s *stubGenerator) Generate(ctx context.Context, prompt string) Generation {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	g := s.gen
	g.Provider = s.name
	return g
}

func (s *stubGenerator) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func okGenerator(name, text string) *stubGenerator {
	return &stubGenerator{name: name, gen: Generation{Text: text}}
}

func failingGenerator(name string) *stubGenerator {
	return &stubGenerator{name: name, gen: Generation{Err: errors.New("provider down")}}
}

type panicGenerator struct{}

func (panicGenerator) Name() string { return "panic" }

func (panicGenerator) Generate(ctx context.Context, prompt string) Generation {
	panic("boom")
}

// blockingGenerator waits for the context to end
type blockingGenerator struct{}

func (blockingGenerator) Name() string { return "slow" }

func (blockingGenerator) Generate(ctx context.Context, prompt string) Generation {
	select {
	case <-ctx.Done():
		return Generation{Provider: "slow", Err: ctx.Err()}
	case <-time.After(5 * time.Second):
		return Generation{Provider: "slow", Text: "too late"}
	}
}

// memoryQueryLog is an in-memory QueryLogger
type memoryQueryLog struct {
	mu       sync.Mutex
	records  []model.QueryRecord
	feedback map[string]string
	logged   chan struct{}
}

func newMemoryQueryLog() *memoryQueryLog {
	return &memoryQueryLog{feedback: map[string]string{}, logged: make(chan struct{}, 16)}
}

func (m *memoryQueryLog) LogQuery(ctx context.Context, rec *model.QueryRecord) error {
	m.mu.Lock()
	m.records = append(m.records, *rec)
	m.mu.Unlock()
	m.logged <- struct{}{}
	return nil
}

func (m *memoryQueryLog) LogFeedback(ctx context.Context, queryID, intent string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.ID == queryID {
			m.feedback[queryID] = intent
			return nil
		}
	}
	return errors.New("not found")
}

func (m *memoryQueryLog) RecentQueries(ctx context.Context, limit int) ([]model.QueryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]model.QueryRecord(nil), m.records...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryQueryLog) SimilarQueries(ctx context.Context, queryID string, limit int) ([]model.QueryRecord, error) {
	return nil, nil
}

func (m *memoryQueryLog) waitLogged(t *testing.T) {
	t.Helper()
	select {
	case <-m.logged:
	case <-time.After(2 * time.Second):
		t.Fatal("query was not logged")
	}
}
