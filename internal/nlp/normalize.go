package nlp

import (
	"regexp"
	"strings"
)

var (
	punctuation = regexp.MustCompile("[!?.,;:\\-()\\[\\]{}/\\\\'`~@#$%^&*_+=|<>]")
	whitespace  = regexp.MustCompile(`\s+`)
)

// Normalize lowercases text, replaces punctuation with spaces and collapses whitespace.
// It never fails and is idempotent.
func Normalize(text string) string {
	t := strings.ToLower(text)
	t = punctuation.ReplaceAllString(t, " ")
	t = whitespace.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}
