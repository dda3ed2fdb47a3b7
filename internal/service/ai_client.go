package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"travella/internal/metrics"
)

var (
	// ErrEmptyGeneration is returned when a provider answers with blank text
	ErrEmptyGeneration = errors.New("provider returned an empty response")
	// ErrNoProvider is returned by a chain with no providers
	ErrNoProvider = errors.New("no generation provider configured")
	// ErrTruncatedStream is returned when a stream closes before the provider marked it finished
	ErrTruncatedStream = errors.New("stream ended before completion")
)

// Generation is the outcome of one generation call. Providers never panic or
// return bare errors; a failed call is a Generation with Err set.
type Generation struct {
	Text     string
	Provider string
	Cached   bool
	Err      error
}

// OK reports whether the generation produced usable text
func (g Generation) OK() bool {
	return g.Err == nil && strings.TrimSpace(g.Text) != ""
}

// Generator is the interface for text generation providers
type Generator interface {
	// Name identifies the provider in logs and metrics
	Name() string

	// Generate returns a full completion for prompt
	Generate(ctx context.Context, prompt string) Generation
}

// StreamGenerator is a Generator that can also stream partial text.
// onChunk receives each text delta; returning an error aborts the stream.
type StreamGenerator interface {
	Generator
	Stream(ctx context.Context, prompt string, onChunk func(chunk string) error) Generation
}

// finish normalizes a provider result and records metrics for it
func finish(provider string, start time.Time, text string, err error) Generation {
	metrics.GenerationDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())

	text = strings.TrimSpace(text)
	if err == nil && text == "" {
		err = ErrEmptyGeneration
	}
	if err != nil {
		metrics.GenerationsTotal.WithLabelValues(provider, "error").Inc()
		return Generation{Provider: provider, Err: err}
	}
	metrics.GenerationsTotal.WithLabelValues(provider, "ok").Inc()
	return Generation{Text: text, Provider: provider}
}
