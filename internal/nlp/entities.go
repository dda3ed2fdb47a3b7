package nlp

import (
	"regexp"
	"strconv"
	"strings"

	"travella/internal/model"
)

// Numbers are ASCII digits only; RE2's \d does not match other scripts.
var (
	daysPattern   = regexp.MustCompile(`(\d+)\s*(?:day|days)`)
	budgetPattern = regexp.MustCompile(`\$(\d+)|(?:budget|under)\s*\$?(\d+)`)
	paxPattern    = regexp.MustCompile(`(\d+)\s*(?:people|pax|persons|adults)`)
)

// Extractor pulls city, trip length, budget and party size out of free text.
type Extractor struct {
	gazetteer *Gazetteer
}

// NewExtractor creates an extractor bound to a gazetteer snapshot
func NewExtractor(g *Gazetteer) *Extractor {
	return &Extractor{gazetteer: g}
}

// Extract normalizes text and returns every entity it can find.
// A missing pattern leaves the field nil; extraction never fails.
func (e *Extractor) Extract(text string) model.EntitySet {
	t := Normalize(text)
	return model.EntitySet{
		City:   e.findCity(t),
		Days:   firstInt(daysPattern, t),
		Budget: firstInt(budgetPattern, t),
		Pax:    firstInt(paxPattern, t),
	}
}

// findCity returns the leftmost whole-word gazetteer match.
// At the same position the longer name wins, then the lexicographically smaller one.
func (e *Extractor) findCity(t string) *string {
	if e.gazetteer == nil || t == "" {
		return nil
	}
	padded := " " + t + " "

	best, bestPos := "", -1
	for _, name := range e.gazetteer.names {
		pos := strings.Index(padded, " "+name+" ")
		if pos < 0 {
			continue
		}
		if bestPos < 0 || pos < bestPos || (pos == bestPos && len(name) > len(best)) {
			best, bestPos = name, pos
		}
	}
	if bestPos < 0 {
		return nil
	}
	return &best
}

// firstInt returns the first non-empty capture group of the leftmost match.
// Zero, negative and overflowing values count as not mentioned.
func firstInt(re *regexp.Regexp, t string) *int {
	m := re.FindStringSubmatch(t)
	if m == nil {
		return nil
	}
	for _, group := range m[1:] {
		if group == "" {
			continue
		}
		v, err := strconv.Atoi(group)
		if err != nil || v <= 0 {
			return nil
		}
		return &v
	}
	return nil
}
