package classifier

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

// Tokens are runs of two or more word characters
var tokenPattern = regexp.MustCompile(`\b\w\w+\b`)

// Feature is one non-zero entry of a document vector
type Feature struct {
	Index int
	Value float64
}

// SparseVector holds the non-zero features of a document, ordered by index
type SparseVector []Feature

// Vectorizer turns normalized text into l2-normalized TF-IDF vectors over
// a fixed n-gram vocabulary.
type Vectorizer struct {
	vocabulary map[string]int
	terms      []string
	idf        []float64
	ngramMin   int
	ngramMax   int
}

// FitVectorizer learns the vocabulary and document frequencies of docs.
// When maxFeatures > 0 only the most frequent terms are kept, ties broken lexicographically.
func FitVectorizer(docs []string, ngramMin, ngramMax, maxFeatures int) (*Vectorizer, error) {
	if ngramMin < 1 || ngramMax < ngramMin {
		return nil, fmt.Errorf("invalid n-gram range (%d, %d)", ngramMin, ngramMax)
	}

	v := &Vectorizer{ngramMin: ngramMin, ngramMax: ngramMax}

	termFreq := make(map[string]int)
	docFreq := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, gram := range v.analyze(doc) {
			termFreq[gram]++
			if _, ok := seen[gram]; !ok {
				seen[gram] = struct{}{}
				docFreq[gram]++
			}
		}
	}

	terms := make([]string, 0, len(termFreq))
	for term := range termFreq {
		terms = append(terms, term)
	}
	if maxFeatures > 0 && len(terms) > maxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			if termFreq[terms[i]] != termFreq[terms[j]] {
				return termFreq[terms[i]] > termFreq[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:maxFeatures]
	}
	sort.Strings(terms)

	n := float64(len(docs))
	idf := make([]float64, len(terms))
	for i, term := range terms {
		idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	return newVectorizer(terms, idf, ngramMin, ngramMax), nil
}

func newVectorizer(terms []string, idf []float64, ngramMin, ngramMax int) *Vectorizer {
	vocab := make(map[string]int, len(terms))
	for i, term := range terms {
		vocab[term] = i
	}
	return &Vectorizer{
		vocabulary: vocab,
		terms:      terms,
		idf:        idf,
		ngramMin:   ngramMin,
		ngramMax:   ngramMax,
	}
}

// Transform vectorizes one normalized document. Out-of-vocabulary terms are ignored,
// so a document with no known terms yields an empty vector.
func (v *Vectorizer) Transform(doc string) SparseVector {
	counts := make(map[int]float64)
	for _, gram := range v.analyze(doc) {
		if idx, ok := v.vocabulary[gram]; ok {
			counts[idx]++
		}
	}

	vec := make(SparseVector, 0, len(counts))
	var norm float64
	for idx, c := range counts {
		w := c * v.idf[idx]
		norm += w * w
		vec = append(vec, Feature{Index: idx, Value: w})
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i].Value /= norm
		}
	}
	sort.Slice(vec, func(i, j int) bool { return vec[i].Index < vec[j].Index })
	return vec
}

// Size returns the vocabulary size
func (v *Vectorizer) Size() int {
	return len(v.terms)
}

func (v *Vectorizer) analyze(doc string) []string {
	tokens := tokenPattern.FindAllString(doc, -1)
	var grams []string
	for n := v.ngramMin; n <= v.ngramMax; n++ {
		if n == 1 {
			grams = append(grams, tokens...)
			continue
		}
		for i := 0; i+n <= len(tokens); i++ {
			grams = append(grams, strings.Join(tokens[i:i+n], " "))
		}
	}
	return grams
}
