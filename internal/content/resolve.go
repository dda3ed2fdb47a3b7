package content

import (
	"strings"

	"travella/internal/nlp"
)

// ResolveCity maps a user-supplied city string onto a known city key.
// It tries an exact match, then the alias table, then containment in either
// direction (the shortest name wins, then lexicographic order).
func (s *Snapshot) ResolveCity(raw string) (string, bool) {
	term := nlp.Normalize(raw)
	if term == "" {
		return "", false
	}

	// Exact match
	for _, city := range s.known {
		if city == term {
			return city, true
		}
	}

	// Aliases
	if city, ok := s.aliases[term]; ok {
		return city, true
	}
	for _, alias := range s.aliasKeys {
		if strings.Contains(" "+term+" ", " "+alias+" ") {
			return s.aliases[alias], true
		}
	}

	// Contains match
	if len(term) < 3 {
		return "", false
	}
	best := ""
	for _, city := range s.known {
		if strings.Contains(city, term) || strings.Contains(term, city) {
			if best == "" || len(city) < len(best) {
				best = city
			}
		}
	}
	return best, best != ""
}
