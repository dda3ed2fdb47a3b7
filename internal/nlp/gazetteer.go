package nlp

import (
	"bufio"
	"fmt"
	"io"
	"sort"
)

// Gazetteer is the read-only set of recognised city names.
// Names are stored normalized and enumerate in lexicographic order.
type Gazetteer struct {
	names []string
	set   map[string]struct{}
}

// NewGazetteer builds a gazetteer from raw names, dropping blanks and duplicates.
func NewGazetteer(names []string) *Gazetteer {
	g := &Gazetteer{set: make(map[string]struct{}, len(names))}
	for _, n := range names {
		n = Normalize(n)
		if n == "" {
			continue
		}
		if _, ok := g.set[n]; ok {
			continue
		}
		g.set[n] = struct{}{}
		g.names = append(g.names, n)
	}
	sort.Strings(g.names)
	return g
}

// LoadGazetteer reads a newline-delimited list of city names.
func LoadGazetteer(r io.Reader) (*Gazetteer, error) {
	var names []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		names = append(names, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read gazetteer: %w", err)
	}
	return NewGazetteer(names), nil
}

// Contains reports whether name (in any case or punctuation) is a known city.
func (g *Gazetteer) Contains(name string) bool {
	if g == nil {
		return false
	}
	_, ok := g.set[Normalize(name)]
	return ok
}

// Names returns a copy of the city names in lexicographic order.
func (g *Gazetteer) Names() []string {
	if g == nil {
		return nil
	}
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

// Len returns the number of cities.
func (g *Gazetteer) Len() int {
	if g == nil {
		return 0
	}
	return len(g.names)
}
