package content

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travella/internal/model"
	"travella/internal/nlp"
)

func strPtr(s string) *string { return &s }

func fixtureSnapshot() *Snapshot {
	g := nlp.NewGazetteer([]string{"Kathmandu", "Pokhara", "Lalitpur", "Bandipur"})
	tables := Tables{
		Places: map[string][]string{
			"Kathmandu": {"Swayambhunath", "Boudhanath"},
			"pokhara":   {"Phewa Lake"},
		},
		Foods:      map[string][]string{"kathmandu": {"Momo"}},
		HiddenGems: map[string][]string{"kathmandu": {"Chobhar Gorge"}},
		Advice:     map[string][]string{"digital_nomad": {"Coworking at Thamel area"}},
		Aliases:    map[string][]string{"kathmandu": {"ktm", "kathmandu valley"}, "lalitpur": {"patan"}},
	}
	details := map[string]model.CityDetail{
		"chitwan": {Name: "Chitwan"},
	}
	return NewSnapshot(g, tables, details, "kathmandu")
}

func TestSnapshot_List(t *testing.T) {
	s := fixtureSnapshot()

	tests := []struct {
		name     string
		category model.SuggestionCategory
		city     *string
		want     []string
	}{
		{name: "named city", category: model.CategoryPlaces, city: strPtr("pokhara"), want: []string{"Phewa Lake"}},
		{name: "case insensitive", category: model.CategoryPlaces, city: strPtr("POKHARA"), want: []string{"Phewa Lake"}},
		{name: "no city uses default", category: model.CategoryFoods, city: nil, want: []string{"Momo"}},
		{name: "blank city uses default", category: model.CategoryHiddenGems, city: strPtr("  "), want: []string{"Chobhar Gorge"}},
		{name: "unknown city is empty", category: model.CategoryPlaces, city: strPtr("narnia"), want: []string{}},
		{name: "known city without content is empty", category: model.CategoryFoods, city: strPtr("pokhara"), want: []string{}},
		{name: "advice is not a city table", category: model.CategoryAdvice, city: nil, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.List(tt.category, tt.city)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSnapshot_ListReturnsCopy(t *testing.T) {
	s := fixtureSnapshot()
	got := s.List(model.CategoryPlaces, nil)
	got[0] = "mutated"
	assert.Equal(t, "Swayambhunath", s.List(model.CategoryPlaces, nil)[0])
}

func TestSnapshot_Lookups(t *testing.T) {
	s := fixtureSnapshot()

	assert.True(t, s.Recognized("Kathmandu"))
	assert.True(t, s.Recognized("chitwan"), "rich record counts as recognized")
	assert.False(t, s.Recognized("narnia"))

	d, ok := s.Detail("CHITWAN")
	assert.True(t, ok)
	assert.Equal(t, "Chitwan", d.Name)

	assert.Equal(t, []string{"Coworking at Thamel area"}, s.Advice("digital_nomad"))
	assert.Equal(t, []string{}, s.Advice("unknown"))
	assert.Equal(t, 4, s.Cities())
	assert.Equal(t, 1, s.Destinations())
	assert.Equal(t, "kathmandu", s.DefaultCity())
}

func TestSnapshot_ResolveCity(t *testing.T) {
	s := fixtureSnapshot()

	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{input: "Pokhara", want: "pokhara", wantOK: true},
		{input: "ktm", want: "kathmandu", wantOK: true},
		{input: "Patan", want: "lalitpur", wantOK: true},
		{input: "the kathmandu valley", want: "kathmandu", wantOK: true},
		{input: "chitwan", want: "chitwan", wantOK: true},
		{input: "bandipur bazaar", want: "bandipur", wantOK: true},
		{input: "pokh", want: "pokhara", wantOK: true},
		{input: "po", wantOK: false},
		{input: "narnia", wantOK: false},
		{input: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := s.ResolveCity(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func writeFixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		GazetteerFile: "Kathmandu\nPokhara\n",
		TablesFile: `places:
  kathmandu: [Swayambhunath]
foods:
  pokhara: [Fish]
`,
		DestinationsFile: `kathmandu:
  name: Kathmandu
  highlights: [Stupas]
  detailed_itinerary:
    - label: one
      slots:
        - time: morning
          activity: walk
  average_cost_per_day: USD 40
  accommodation_options:
    - level: budget
      option: Thamel
`,
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeFixtureDir(t)

	s, err := Load(dir, "kathmandu")
	require.NoError(t, err)
	assert.Equal(t, 2, s.Cities())
	assert.Equal(t, []string{"Swayambhunath"}, s.List(model.CategoryPlaces, nil))

	d, ok := s.Detail("kathmandu")
	require.True(t, ok)
	require.Len(t, d.Itinerary, 1)
	assert.Equal(t, "walk", d.Itinerary[0].Slots[0].Activity)
	assert.Equal(t, "Thamel", d.Accommodation[0].Option)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("destinations optional", func(t *testing.T) {
		dir := writeFixtureDir(t)
		require.NoError(t, os.Remove(filepath.Join(dir, DestinationsFile)))
		s, err := Load(dir, "kathmandu")
		require.NoError(t, err)
		assert.Zero(t, s.Destinations())
	})

	t.Run("gazetteer required", func(t *testing.T) {
		dir := writeFixtureDir(t)
		require.NoError(t, os.Remove(filepath.Join(dir, GazetteerFile)))
		_, err := Load(dir, "kathmandu")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		dir := writeFixtureDir(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, TablesFile), []byte("places: [unclosed"), 0o644))
		_, err := Load(dir, "kathmandu")
		assert.Error(t, err)
	})
}

func TestLoad_ShippedData(t *testing.T) {
	s, err := Load(filepath.Join("..", "..", "data"), "kathmandu")
	require.NoError(t, err)

	assert.True(t, s.Recognized("kathmandu"))
	assert.NotEmpty(t, s.List(model.CategoryPlaces, nil))
	assert.NotEmpty(t, s.Advice(model.IntentDigitalNomad))

	d, ok := s.Detail("kathmandu")
	require.True(t, ok)
	assert.Len(t, d.Itinerary, 5)
}

func TestStore_Reload(t *testing.T) {
	dir := writeFixtureDir(t)
	store, err := NewStore(dir, "kathmandu")
	require.NoError(t, err)
	first := store.Current()
	assert.Equal(t, 2, first.Cities())

	require.NoError(t, os.WriteFile(filepath.Join(dir, GazetteerFile), []byte("Kathmandu\nPokhara\nLumbini\n"), 0o644))
	snap, err := store.Reload()
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Cities())
	assert.Same(t, snap, store.Current())
	assert.Equal(t, 2, first.Cities(), "old snapshot is untouched")

	require.NoError(t, os.Remove(filepath.Join(dir, TablesFile)))
	_, err = store.Reload()
	assert.Error(t, err)
	assert.Same(t, snap, store.Current(), "failed reload keeps current snapshot")
}

func TestStore_ConcurrentReaders(t *testing.T) {
	dir := writeFixtureDir(t)
	store, err := NewStore(dir, "kathmandu")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				snap := store.Current()
				assert.NotNil(t, snap.Gazetteer())
			}
		}()
	}
	for i := 0; i < 5; i++ {
		_, err := store.Reload()
		require.NoError(t, err)
	}
	wg.Wait()
}

func TestNewStaticStore(t *testing.T) {
	snap := fixtureSnapshot()
	store := NewStaticStore(snap)
	got, err := store.Reload()
	require.NoError(t, err)
	assert.Same(t, snap, got)
}
