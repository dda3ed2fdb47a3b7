package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"travella/internal/metrics"
	"travella/internal/repository"
)

const cacheKeyPrefix = "travella:gen:"

// Cache is the key-value store behind CachedGenerator
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
}

// CachedGenerator serves repeated prompts from a cache. Cache failures are
// logged and bypassed; only usable generations are stored.
type CachedGenerator struct {
	inner  Generator
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedGenerator wraps inner with cache
func NewCachedGenerator(inner Generator, cache Cache, ttl time.Duration, logger *zap.Logger) *CachedGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedGenerator{inner: inner, cache: cache, ttl: ttl, logger: logger}
}

// Name implements Generator
func (c *CachedGenerator) Name() string {
	return c.inner.Name()
}

// Generate implements Generator
func (c *CachedGenerator) Generate(ctx context.Context, prompt string) Generation {
	key := cacheKey(prompt)
	if gen, ok := c.lookup(ctx, key); ok {
		return gen
	}

	gen := c.inner.Generate(ctx, prompt)
	c.store(ctx, key, gen)
	return gen
}

// Stream implements StreamGenerator. A cache hit is emitted as a single chunk.
func (c *CachedGenerator) Stream(ctx context.Context, prompt string, onChunk func(string) error) Generation {
	key := cacheKey(prompt)
	if gen, ok := c.lookup(ctx, key); ok {
		if err := onChunk(gen.Text); err != nil {
			return Generation{Provider: gen.Provider, Err: err}
		}
		return gen
	}

	gen := streamOrGenerate(ctx, c.inner, prompt, onChunk)
	c.store(ctx, key, gen)
	return gen
}

func (c *CachedGenerator) lookup(ctx context.Context, key string) (Generation, bool) {
	val, err := c.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, repository.ErrCacheMiss) {
			c.logger.Warn("generation cache read failed", zap.Error(err))
		}
		return Generation{}, false
	}
	if strings.TrimSpace(val) == "" {
		return Generation{}, false
	}
	metrics.GenerationsTotal.WithLabelValues(c.inner.Name(), "cache_hit").Inc()
	return Generation{Text: val, Provider: c.inner.Name(), Cached: true}, true
}

func (c *CachedGenerator) store(ctx context.Context, key string, gen Generation) {
	if !gen.OK() {
		return
	}
	// The request context may already be near its deadline
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := c.cache.Set(ctx, key, gen.Text, c.ttl); err != nil {
		c.logger.Warn("generation cache write failed", zap.Error(err))
	}
}

func cacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

var _ StreamGenerator = (*CachedGenerator)(nil)
