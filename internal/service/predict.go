package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"travella/internal/classifier"
	"travella/internal/content"
	"travella/internal/metrics"
	"travella/internal/model"
	"travella/internal/nlp"
)

var (
	// ErrEmptyQuery is returned for blank query text
	ErrEmptyQuery = errors.New("query text is empty")
	// ErrUnknownIntent is returned when feedback names a label the model does not know
	ErrUnknownIntent = errors.New("unknown intent")
	// ErrQueryLogDisabled is returned by query log operations when no repository is configured
	ErrQueryLogDisabled = errors.New("query log is disabled")
)

const queryLogTimeout = 5 * time.Second

// QueryLogger persists predictions and feedback
type QueryLogger interface {
	LogQuery(ctx context.Context, rec *model.QueryRecord) error
	LogFeedback(ctx context.Context, queryID, intent string) error
	RecentQueries(ctx context.Context, limit int) ([]model.QueryRecord, error)
	SimilarQueries(ctx context.Context, queryID string, limit int) ([]model.QueryRecord, error)
}

// PredictEventCallback is called for streaming prediction events
type PredictEventCallback func(event string, data any) error

// PredictService handles the query pipeline: classify, extract, compose
type PredictService struct {
	model    *classifier.Model
	store    *content.Store
	composer *Composer
	queries  QueryLogger // nil when the query log is disabled
	logger   *zap.Logger
}

// NewPredictService creates a new prediction service. queries may be nil.
func NewPredictService(
	clf *classifier.Model,
	store *content.Store,
	composer *Composer,
	queries QueryLogger,
	logger *zap.Logger,
) *PredictService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PredictService{
		model:    clf,
		store:    store,
		composer: composer,
		queries:  queries,
		logger:   logger,
	}
}

// analysis is the pure part of the pipeline for one query
type analysis struct {
	snap       *content.Snapshot
	prediction model.IntentPrediction
	probs      []float64
	entities   model.EntitySet
	intent     string
	confident  bool
	city       *string
}

func (s *PredictService) analyze(text string, knownCity *string) analysis {
	a := analysis{snap: s.store.Current()}

	// Classifier and extractor are independent
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		a.prediction, a.probs = s.model.Classify(text)
	}()
	go func() {
		defer wg.Done()
		a.entities = nlp.NewExtractor(a.snap.Gazetteer()).Extract(text)
	}()
	wg.Wait()

	a.confident = s.model.IsConfident(a.prediction.Confidence)
	a.intent = a.prediction.Label
	if !a.confident {
		a.intent = model.IntentGeneral
	}

	a.city = a.entities.City
	if a.city == nil && knownCity != nil {
		if c := nlp.Normalize(*knownCity); c != "" {
			a.city = &c
		}
	}

	metrics.PredictionsTotal.WithLabelValues(a.intent, strconv.FormatBool(a.confident)).Inc()
	return a
}

func (a analysis) composeRequest(text string) ComposeRequest {
	return ComposeRequest{
		Snapshot:   a.snap,
		Text:       text,
		Intent:     a.intent,
		Confidence: a.prediction.Confidence,
		Entities:   a.entities,
		City:       a.city,
	}
}

// Predict runs the full pipeline for text. knownCity is used when the text names no city.
func (s *PredictService) Predict(ctx context.Context, text string, knownCity *string) (*model.PredictResponse, error) {
	startTime := time.Now()
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyQuery
	}

	a := s.analyze(text, knownCity)
	comp := s.composer.Compose(ctx, a.composeRequest(text))

	resp := s.respond(text, a, comp, startTime)
	return resp, nil
}

// PredictStream runs the pipeline and streams events: prediction once the
// query is classified, then content for each generated chunk.
func (s *PredictService) PredictStream(ctx context.Context, text string, knownCity *string, callback PredictEventCallback) (*model.PredictResponse, error) {
	startTime := time.Now()
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyQuery
	}

	a := s.analyze(text, knownCity)

	if err := callback("prediction", map[string]any{
		"intent":           a.intent,
		"predicted_intent": a.prediction.Label,
		"confidence":       a.prediction.Confidence,
		"confident":        a.confident,
		"entities":         a.entities,
	}); err != nil {
		return nil, err
	}

	comp := s.composer.ComposeStream(ctx, a.composeRequest(text), func(chunk string) error {
		return callback("content", map[string]any{"content": chunk})
	})

	return s.respond(text, a, comp, startTime), nil
}

func (s *PredictService) respond(text string, a analysis, comp Composition, startTime time.Time) *model.PredictResponse {
	resp := &model.PredictResponse{
		QueryID:         uuid.NewString(),
		Intent:          a.intent,
		PredictedIntent: a.prediction.Label,
		Confidence:      a.prediction.Confidence,
		Confident:       a.confident,
		Entities:        a.entities,
		Suggestions:     comp.Suggestions,
		LLMResponse:     comp.LLMResponse,
		LLMAvailable:    comp.LLMAvailable,
		ResponseSource:  comp.Source,
		Took:            time.Since(startTime).Milliseconds(),
	}

	if s.queries != nil {
		rec := &model.QueryRecord{
			ID:              resp.QueryID,
			Text:            text,
			Normalized:      nlp.Normalize(text),
			Intent:          resp.Intent,
			PredictedIntent: resp.PredictedIntent,
			Confidence:      resp.Confidence,
			Entities:        resp.Entities,
			Scores:          pgvector.NewVector(toFloat32(a.probs)),
			ResponseSource:  resp.ResponseSource,
		}
		// Log query (non-blocking)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), queryLogTimeout)
			defer cancel()
			if err := s.queries.LogQuery(ctx, rec); err != nil {
				s.logger.Warn("failed to log query", zap.String("query_id", rec.ID), zap.Error(err))
			}
		}()
	}

	return resp
}

// Suggest returns suggestions for a structured request. The city is resolved
// against the content store; an unknown city yields an empty list.
func (s *PredictService) Suggest(intent string, city *string) model.Suggestions {
	snap := s.store.Current()
	return buildSuggestions(snap, intent, resolveCity(snap, city))
}

// Feedback records a user correction for a logged query
func (s *PredictService) Feedback(ctx context.Context, queryID, intent string) error {
	if s.queries == nil {
		return ErrQueryLogDisabled
	}
	if intent != model.IntentGeneral && !s.model.HasLabel(intent) {
		return ErrUnknownIntent
	}
	return s.queries.LogFeedback(ctx, queryID, intent)
}

// RecentQueries returns the latest logged queries
func (s *PredictService) RecentQueries(ctx context.Context, limit int) ([]model.QueryRecord, error) {
	if s.queries == nil {
		return nil, ErrQueryLogDisabled
	}
	return s.queries.RecentQueries(ctx, limit)
}

// SimilarQueries returns logged queries whose class distribution is closest to queryID's
func (s *PredictService) SimilarQueries(ctx context.Context, queryID string, limit int) ([]model.QueryRecord, error) {
	if s.queries == nil {
		return nil, ErrQueryLogDisabled
	}
	return s.queries.SimilarQueries(ctx, queryID, limit)
}

// Reload swaps in fresh content from disk
func (s *PredictService) Reload() (*model.ReloadResponse, error) {
	snap, err := s.store.Reload()
	if err != nil {
		return nil, err
	}
	s.logger.Info("content reloaded",
		zap.Int("cities", snap.Cities()),
		zap.Int("destinations", snap.Destinations()),
	)
	return &model.ReloadResponse{Cities: snap.Cities(), Destinations: snap.Destinations()}, nil
}

// Labels returns the classifier's label set
func (s *PredictService) Labels() []string {
	return s.model.Labels()
}

// resolveCity maps a caller-supplied city onto a content key. Unresolvable
// names stay as given so lookups come back empty instead of defaulting.
func resolveCity(snap *content.Snapshot, city *string) *string {
	if city == nil {
		return nil
	}
	raw := nlp.Normalize(*city)
	if raw == "" {
		return nil
	}
	if key, ok := snap.ResolveCity(raw); ok {
		return &key
	}
	return &raw
}

func toFloat32(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}
