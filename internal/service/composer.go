package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"travella/internal/content"
	"travella/internal/metrics"
	"travella/internal/model"
)

// DefaultLLMTimeout bounds a single generation call
const DefaultLLMTimeout = 20 * time.Second

// ComposeRequest carries everything the composer needs for one query
type ComposeRequest struct {
	Snapshot   *content.Snapshot // Optional; the store's current snapshot when nil
	Text       string
	Intent     string
	Confidence float64
	Entities   model.EntitySet
	City       *string // Effective city: extracted, else known to the caller
}

// Composition is the composer's answer
type Composition struct {
	Suggestions  model.Suggestions
	LLMResponse  *string
	LLMAvailable bool
	Source       string
}

// Composer chooses between live generation and the deterministic fallback.
// It never returns an error.
type Composer struct {
	store     *content.Store
	generator Generator
	timeout   time.Duration
	logger    *zap.Logger
}

// NewComposer creates a composer. A nil generator means generation is unavailable.
func NewComposer(store *content.Store, generator Generator, timeout time.Duration, logger *zap.Logger) *Composer {
	if timeout <= 0 {
		timeout = DefaultLLMTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if chain, ok := generator.(*ChainGenerator); ok && chain.Len() == 0 {
		generator = nil
	}
	return &Composer{store: store, generator: generator, timeout: timeout, logger: logger}
}

// Available reports whether a generation provider is configured
func (c *Composer) Available() bool {
	return c.generator != nil
}

// Compose assembles suggestions and a response text for req
func (c *Composer) Compose(ctx context.Context, req ComposeRequest) Composition {
	return c.compose(ctx, req, nil)
}

// ComposeStream is Compose with provider text streamed to onChunk as it arrives.
// The returned Composition is authoritative: after a mid-stream failure it carries
// the fallback text, not the partial output.
func (c *Composer) ComposeStream(ctx context.Context, req ComposeRequest, onChunk func(string) error) Composition {
	return c.compose(ctx, req, onChunk)
}

func (c *Composer) compose(ctx context.Context, req ComposeRequest, onChunk func(string) error) Composition {
	snap := req.Snapshot
	if snap == nil {
		snap = c.store.Current()
	}

	out := Composition{
		Suggestions:  buildSuggestions(snap, req.Intent, req.City),
		LLMAvailable: c.Available(),
		Source:       model.SourceFallback,
	}

	city := ""
	if req.City != nil && snap.Recognized(*req.City) {
		city = *req.City
	}

	if c.Available() {
		gen := c.generate(ctx, snap, req, city, onChunk)
		if gen.OK() {
			text := gen.Text
			out.LLMResponse = &text
			out.Source = model.SourceProvider
			if gen.Cached {
				out.Source = model.SourceCache
			}
			return out
		}
		c.logger.Warn("generation failed, using fallback",
			zap.String("provider", gen.Provider),
			zap.String("intent", req.Intent),
			zap.Error(gen.Err),
		)
		metrics.FallbacksTotal.WithLabelValues("provider_error").Inc()
	} else {
		metrics.FallbacksTotal.WithLabelValues("unavailable").Inc()
	}

	var detail *model.CityDetail
	if city != "" {
		if d, ok := snap.Detail(city); ok {
			detail = &d
		}
	}
	text := fallbackResponse(req.Intent, req.Entities, city, detail)
	out.LLMResponse = &text
	return out
}

// generate runs one bounded generation call. A panicking provider is
// reported as a failed Generation.
func (c *Composer) generate(ctx context.Context, snap *content.Snapshot, req ComposeRequest, city string, onChunk func(string) error) (gen Generation) {
	defer func() {
		if r := recover(); r != nil {
			gen = Generation{Provider: c.generator.Name(), Err: fmt.Errorf("provider panic: %v", r)}
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := buildPrompt(req.Text, req.Intent, req.Entities, buildTravelContext(snap, city))
	if onChunk != nil {
		return streamOrGenerate(ctx, c.generator, prompt, onChunk)
	}
	return c.generator.Generate(ctx, prompt)
}
