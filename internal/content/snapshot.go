package content

import (
	"sort"
	"time"

	"travella/internal/model"
	"travella/internal/nlp"
)

// Tables is the static per-city content, keyed by lowercase city name
type Tables struct {
	Places     map[string][]string `yaml:"places"`
	Foods      map[string][]string `yaml:"foods"`
	HiddenGems map[string][]string `yaml:"hidden_gems"`
	Advice     map[string][]string `yaml:"advice"`  // keyed by intent
	Aliases    map[string][]string `yaml:"aliases"` // city -> alternative spellings
}

// Snapshot is an immutable view of all content. Readers take one snapshot per
// request and never observe a partial reload.
type Snapshot struct {
	gazetteer   *nlp.Gazetteer
	places      map[string][]string
	foods       map[string][]string
	gems        map[string][]string
	advice      map[string][]string
	aliases     map[string]string
	aliasKeys   []string // longest first
	details     map[string]model.CityDetail
	known       []string
	defaultCity string
	loadedAt    time.Time
}

// NewSnapshot builds a snapshot. City keys are normalized; defaultCity is the
// key used when a lookup names no city.
func NewSnapshot(g *nlp.Gazetteer, tables Tables, details map[string]model.CityDetail, defaultCity string) *Snapshot {
	if g == nil {
		g = nlp.NewGazetteer(nil)
	}
	s := &Snapshot{
		gazetteer:   g,
		places:      normalizeKeys(tables.Places),
		foods:       normalizeKeys(tables.Foods),
		gems:        normalizeKeys(tables.HiddenGems),
		advice:      tables.Advice,
		aliases:     make(map[string]string),
		details:     make(map[string]model.CityDetail, len(details)),
		defaultCity: nlp.Normalize(defaultCity),
		loadedAt:    time.Now(),
	}
	if s.advice == nil {
		s.advice = map[string][]string{}
	}
	for city, d := range details {
		s.details[nlp.Normalize(city)] = d
	}
	for city, names := range tables.Aliases {
		for _, alias := range names {
			s.aliases[nlp.Normalize(alias)] = nlp.Normalize(city)
		}
	}

	for alias := range s.aliases {
		s.aliasKeys = append(s.aliasKeys, alias)
	}
	sort.Slice(s.aliasKeys, func(i, j int) bool {
		a, b := s.aliasKeys[i], s.aliasKeys[j]
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})

	known := make(map[string]struct{})
	for _, name := range g.Names() {
		known[name] = struct{}{}
	}
	for _, m := range []map[string][]string{s.places, s.foods, s.gems} {
		for city := range m {
			known[city] = struct{}{}
		}
	}
	for city := range s.details {
		known[city] = struct{}{}
	}
	for city := range known {
		s.known = append(s.known, city)
	}
	sort.Strings(s.known)
	return s
}

// Gazetteer returns the recognised city names
func (s *Snapshot) Gazetteer() *nlp.Gazetteer {
	return s.gazetteer
}

// DefaultCity returns the lookup key used when no city is given
func (s *Snapshot) DefaultCity() string {
	return s.defaultCity
}

// LoadedAt returns when the snapshot was built
func (s *Snapshot) LoadedAt() time.Time {
	return s.loadedAt
}

// Cities returns the number of gazetteer entries
func (s *Snapshot) Cities() int {
	return s.gazetteer.Len()
}

// Destinations returns the number of rich destination records
func (s *Snapshot) Destinations() int {
	return len(s.details)
}

// Recognized reports whether city is in the gazetteer or has a rich record
func (s *Snapshot) Recognized(city string) bool {
	if s.gazetteer.Contains(city) {
		return true
	}
	_, ok := s.details[nlp.Normalize(city)]
	return ok
}

// Detail returns the rich record for city
func (s *Snapshot) Detail(city string) (model.CityDetail, bool) {
	d, ok := s.details[nlp.Normalize(city)]
	return d, ok
}

// List returns the category content for city. A nil or blank city reads the
// default key; a named city without content yields an empty list.
// Advice is not per city; use Advice instead.
func (s *Snapshot) List(category model.SuggestionCategory, city *string) []string {
	var table map[string][]string
	switch category {
	case model.CategoryPlaces:
		table = s.places
	case model.CategoryFoods:
		table = s.foods
	case model.CategoryHiddenGems:
		table = s.gems
	default:
		return []string{}
	}

	key := s.defaultCity
	if city != nil && nlp.Normalize(*city) != "" {
		key = nlp.Normalize(*city)
	}
	return copyList(table[key])
}

// Advice returns the generic advice strings for intent, or an empty list
func (s *Snapshot) Advice(intent string) []string {
	return copyList(s.advice[intent])
}

func copyList(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func normalizeKeys(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for k, v := range in {
		out[nlp.Normalize(k)] = v
	}
	return out
}
