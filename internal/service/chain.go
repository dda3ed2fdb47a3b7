package service

import (
	"context"

	"go.uber.org/zap"

	"travella/internal/config"
)

// ChainGenerator tries providers in order; the first usable generation wins
type ChainGenerator struct {
	providers []Generator
	logger    *zap.Logger
}

// NewChainGenerator creates a chain over providers
func NewChainGenerator(logger *zap.Logger, providers ...Generator) *ChainGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChainGenerator{providers: providers, logger: logger}
}

// Name implements Generator
func (c *ChainGenerator) Name() string {
	return "chain"
}

// Len returns the number of providers
func (c *ChainGenerator) Len() int {
	return len(c.providers)
}

// Generate implements Generator
func (c *ChainGenerator) Generate(ctx context.Context, prompt string) Generation {
	last := Generation{Provider: c.Name(), Err: ErrNoProvider}
	for _, p := range c.providers {
		gen := p.Generate(ctx, prompt)
		if gen.OK() {
			return gen
		}
		c.logger.Warn("generation provider failed", zap.String("provider", p.Name()), zap.Error(gen.Err))
		last = gen
		if ctx.Err() != nil {
			break
		}
	}
	return last
}

// Stream implements StreamGenerator. Once a provider has emitted text the chain
// does not move on, since the caller has already seen partial output.
func (c *ChainGenerator) Stream(ctx context.Context, prompt string, onChunk func(string) error) Generation {
	last := Generation{Provider: c.Name(), Err: ErrNoProvider}
	for _, p := range c.providers {
		emitted := false
		gen := streamOrGenerate(ctx, p, prompt, func(chunk string) error {
			emitted = true
			return onChunk(chunk)
		})
		if gen.OK() {
			return gen
		}
		c.logger.Warn("generation provider failed", zap.String("provider", p.Name()), zap.Error(gen.Err))
		last = gen
		if emitted || ctx.Err() != nil {
			break
		}
	}
	return last
}

// streamOrGenerate streams when g supports it, otherwise emits the full text as one chunk
func streamOrGenerate(ctx context.Context, g Generator, prompt string, onChunk func(string) error) Generation {
	if sg, ok := g.(StreamGenerator); ok {
		return sg.Stream(ctx, prompt, onChunk)
	}
	gen := g.Generate(ctx, prompt)
	if !gen.OK() {
		return gen
	}
	if err := onChunk(gen.Text); err != nil {
		return Generation{Provider: gen.Provider, Err: err}
	}
	return gen
}

// NewGenerator builds the configured provider chain (OpenAI, then Anthropic) with
// cache outermost when non-nil. Returns nil when no provider is enabled.
func NewGenerator(cfg *config.Config, cache Cache, logger *zap.Logger) Generator {
	if logger == nil {
		logger = zap.NewNop()
	}

	var providers []Generator
	if cfg.OpenAI.Enabled {
		providers = append(providers, NewOpenAIGenerator(&cfg.OpenAI))
		logger.Info("OpenAI provider enabled",
			zap.String("api_base", cfg.OpenAI.APIBase),
			zap.String("model", cfg.OpenAI.ChatModel),
		)
	}
	if cfg.Anthropic.Enabled {
		providers = append(providers, NewAnthropicGenerator(&cfg.Anthropic))
		logger.Info("Anthropic provider enabled", zap.String("model", cfg.Anthropic.Model))
	}
	if len(providers) == 0 {
		return nil
	}

	var gen Generator = NewChainGenerator(logger, providers...)
	if cache != nil {
		gen = NewCachedGenerator(gen, cache, cfg.Redis.CacheTTL, logger)
	}
	return gen
}

var _ StreamGenerator = (*ChainGenerator)(nil)
