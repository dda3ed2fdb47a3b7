package classifier

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

// ArtifactVersion is the on-disk format version written by Save
const ArtifactVersion = 1

//go:embed schema.json
var artifactSchema string

var schemaLoader = gojsonschema.NewStringLoader(artifactSchema)

type artifact struct {
	Version       int         `json:"version"`
	Labels        []string    `json:"labels"`
	Vocabulary    []string    `json:"vocabulary"`
	IDF           []float64   `json:"idf"`
	Weights       [][]float64 `json:"weights"`
	Intercepts    []float64   `json:"intercepts"`
	NgramMin      int         `json:"ngram_min"`
	NgramMax      int         `json:"ngram_max"`
	MaxFeatures   int         `json:"max_features"`
	MinConfidence float64     `json:"min_confidence"`
	TrainedAt     time.Time   `json:"trained_at"`
}

// Save writes the model as JSON, creating parent directories as needed
func (m *Model) Save(path string) error {
	data, err := m.MarshalJSON()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write model: %w", err)
	}
	return nil
}

// MarshalJSON encodes the model artifact
func (m *Model) MarshalJSON() ([]byte, error) {
	a := artifact{
		Version:       ArtifactVersion,
		Labels:        m.labels,
		Vocabulary:    m.vectorizer.terms,
		IDF:           m.vectorizer.idf,
		Weights:       m.clf.weights,
		Intercepts:    m.clf.intercepts,
		NgramMin:      m.vectorizer.ngramMin,
		NgramMax:      m.vectorizer.ngramMax,
		MaxFeatures:   len(m.vectorizer.terms),
		MinConfidence: m.threshold,
		TrainedAt:     m.trainedAt,
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("failed to encode model: %w", err)
	}
	return data, nil
}

// Load reads and validates a model artifact from disk
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model: %w", err)
	}
	return Decode(data)
}

// Decode validates data against the artifact schema, checks that all dimensions
// agree and builds a Model.
func Decode(data []byte) (*Model, error) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidArtifact, strings.Join(errs, "; "))
	}

	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	if err := a.check(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}

	threshold := a.MinConfidence
	if threshold == 0 {
		threshold = DefaultMinConfidence
	}

	return &Model{
		labels:     a.Labels,
		vectorizer: newVectorizer(a.Vocabulary, a.IDF, a.NgramMin, a.NgramMax),
		clf:        &LogisticRegression{weights: a.Weights, intercepts: a.Intercepts},
		threshold:  threshold,
		trainedAt:  a.TrainedAt,
	}, nil
}

func (a *artifact) check() error {
	if a.NgramMax < a.NgramMin {
		return fmt.Errorf("ngram_max %d < ngram_min %d", a.NgramMax, a.NgramMin)
	}
	if len(a.IDF) != len(a.Vocabulary) {
		return fmt.Errorf("idf has %d entries, vocabulary %d", len(a.IDF), len(a.Vocabulary))
	}
	if len(a.Weights) != len(a.Labels) || len(a.Intercepts) != len(a.Labels) {
		return fmt.Errorf("weights/intercepts do not match %d labels", len(a.Labels))
	}
	for k, row := range a.Weights {
		if len(row) != len(a.Vocabulary) {
			return fmt.Errorf("weights row %d has %d entries, vocabulary %d", k, len(row), len(a.Vocabulary))
		}
	}
	return nil
}

// LoadOrTrain loads the artifact at modelPath. When it does not exist, a model is
// trained on the whole CSV at dataPath and saved there. trained reports which happened.
func LoadOrTrain(modelPath, dataPath string, opts Options) (m *Model, trained bool, err error) {
	m, err = Load(modelPath)
	if err == nil {
		return m, false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, false, err
	}

	ds, err := LoadDatasetFile(dataPath)
	if err != nil {
		return nil, false, err
	}
	if m, err = Train(ds, opts); err != nil {
		return nil, false, err
	}
	if err := m.Save(modelPath); err != nil {
		return m, true, err
	}
	return m, true, nil
}
