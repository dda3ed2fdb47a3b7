package classifier

import (
	"errors"
	"time"

	"travella/internal/model"
	"travella/internal/nlp"
)

// DefaultMinConfidence is the probability below which a prediction is not trusted
const DefaultMinConfidence = 0.45

var (
	// ErrEmptyDataset is returned when there is nothing to train or evaluate on
	ErrEmptyDataset = errors.New("dataset is empty")
	// ErrInvalidArtifact is returned when a persisted model fails validation
	ErrInvalidArtifact = errors.New("invalid model artifact")
)

// Model is a trained intent classifier. It is read-only after construction and
// safe for concurrent use.
type Model struct {
	labels     []string
	vectorizer *Vectorizer
	clf        *LogisticRegression
	threshold  float64
	trainedAt  time.Time
}

// Predict normalizes text and returns the most probable label with its probability.
// Ties go to the label that sorts first.
func (m *Model) Predict(text string) model.IntentPrediction {
	pred, _ := m.Classify(text)
	return pred
}

// Classify is Predict that also returns the full distribution, aligned with Labels().
func (m *Model) Classify(text string) (model.IntentPrediction, []float64) {
	probs := m.Probabilities(text)
	best := 0
	for k, p := range probs {
		if p > probs[best] {
			best = k
		}
	}
	return model.IntentPrediction{Label: m.labels[best], Confidence: clamp01(probs[best])}, probs
}

// Probabilities returns the distribution over Labels() for text
func (m *Model) Probabilities(text string) []float64 {
	return m.clf.probabilities(m.vectorizer.Transform(nlp.Normalize(text)))
}

// Labels returns the trained label set in sorted order
func (m *Model) Labels() []string {
	out := make([]string, len(m.labels))
	copy(out, m.labels)
	return out
}

// HasLabel reports whether label is in the trained set
func (m *Model) HasLabel(label string) bool {
	for _, l := range m.labels {
		if l == label {
			return true
		}
	}
	return false
}

// IsConfident reports whether confidence reaches the minimum threshold
func (m *Model) IsConfident(confidence float64) bool {
	return confidence >= m.threshold
}

// Threshold returns the minimum confidence
func (m *Model) Threshold() float64 {
	return m.threshold
}

// SetThreshold overrides the minimum confidence. Call before sharing the model.
func (m *Model) SetThreshold(t float64) {
	m.threshold = t
}

// TrainedAt returns when the model was fitted
func (m *Model) TrainedAt() time.Time {
	return m.trainedAt
}

// VocabularySize returns the number of n-gram features
func (m *Model) VocabularySize() int {
	return m.vectorizer.Size()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
