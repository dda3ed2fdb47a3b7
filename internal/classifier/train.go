package classifier

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"travella/internal/nlp"
)

// Options configures training
type Options struct {
	NgramMin      int
	NgramMax      int
	MaxFeatures   int
	C             float64 // Inverse L2 regularization strength
	Iterations    int
	LearningRate  float64
	MinConfidence float64
}

// Training defaults. With a few dozen examples per label a C of 1 keeps every
// probability under DefaultMinConfidence, so regularization is kept weak and
// gradient descent runs long enough to converge.
const (
	DefaultC          = 30.0
	DefaultIterations = 2000
)

// DefaultOptions returns the standard training configuration
func DefaultOptions() Options {
	return Options{
		NgramMin:      1,
		NgramMax:      2,
		MaxFeatures:   3000,
		C:             DefaultC,
		Iterations:    DefaultIterations,
		LearningRate:  1.0,
		MinConfidence: DefaultMinConfidence,
	}
}

// Train fits a vectorizer and classifier on ds. Texts are normalized first.
func Train(ds Dataset, opts Options) (*Model, error) {
	if ds.Len() == 0 {
		return nil, ErrEmptyDataset
	}
	if opts.C <= 0 {
		return nil, fmt.Errorf("C must be positive, got %v", opts.C)
	}
	if opts.Iterations < 0 {
		return nil, fmt.Errorf("iterations must not be negative, got %d", opts.Iterations)
	}

	docs := make([]string, ds.Len())
	for i, text := range ds.Texts {
		docs[i] = nlp.Normalize(text)
	}

	vectorizer, err := FitVectorizer(docs, opts.NgramMin, opts.NgramMax, opts.MaxFeatures)
	if err != nil {
		return nil, err
	}

	labels := uniqueSorted(ds.Labels)
	index := make(map[string]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}

	x := make([]SparseVector, len(docs))
	y := make([]int, len(docs))
	for i, doc := range docs {
		x[i] = vectorizer.Transform(doc)
		y[i] = index[ds.Labels[i]]
	}

	threshold := opts.MinConfidence
	if threshold == 0 {
		threshold = DefaultMinConfidence
	}

	return &Model{
		labels:     labels,
		vectorizer: vectorizer,
		clf:        fitLogistic(x, y, len(labels), vectorizer.Size(), opts.C, opts.LearningRate, opts.Iterations),
		threshold:  threshold,
		trainedAt:  time.Now().UTC(),
	}, nil
}

// ClassReport holds per-label metrics
type ClassReport struct {
	Label     string  `json:"label"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// Report summarizes a held-out evaluation
type Report struct {
	Accuracy float64       `json:"accuracy"`
	Total    int           `json:"total"`
	Classes  []ClassReport `json:"classes"`
}

// Evaluate predicts every example of ds and computes accuracy and per-class metrics.
// Labels the model never predicts and that are absent from ds are omitted.
func Evaluate(m *Model, ds Dataset) (Report, error) {
	if ds.Len() == 0 {
		return Report{}, ErrEmptyDataset
	}

	truePos := make(map[string]int)
	predicted := make(map[string]int)
	support := make(map[string]int)
	correct := 0
	for i, text := range ds.Texts {
		want := ds.Labels[i]
		got := m.Predict(text).Label
		support[want]++
		predicted[got]++
		if got == want {
			truePos[want]++
			correct++
		}
	}

	all := make([]string, 0, len(support)+len(predicted))
	for l := range support {
		all = append(all, l)
	}
	for l := range predicted {
		all = append(all, l)
	}

	report := Report{
		Accuracy: float64(correct) / float64(ds.Len()),
		Total:    ds.Len(),
	}
	for _, label := range uniqueSorted(all) {
		cr := ClassReport{Label: label, Support: support[label]}
		if predicted[label] > 0 {
			cr.Precision = float64(truePos[label]) / float64(predicted[label])
		}
		if support[label] > 0 {
			cr.Recall = float64(truePos[label]) / float64(support[label])
		}
		if cr.Precision+cr.Recall > 0 {
			cr.F1 = 2 * cr.Precision * cr.Recall / (cr.Precision + cr.Recall)
		}
		report.Classes = append(report.Classes, cr)
	}
	return report, nil
}

// String renders the report as a fixed-width table
func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-24s %9s %9s %9s %9s\n", "", "precision", "recall", "f1-score", "support")
	for _, c := range r.Classes {
		fmt.Fprintf(&b, "%-24s %9.2f %9.2f %9.2f %9d\n", c.Label, c.Precision, c.Recall, c.F1, c.Support)
	}
	fmt.Fprintf(&b, "\n%-24s %9s %9s %9.2f %9d\n", "accuracy", "", "", r.Accuracy, r.Total)
	return b.String()
}

func uniqueSorted(values []string) []string {
	set := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := set[v]; ok {
			continue
		}
		set[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
