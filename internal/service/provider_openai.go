package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"travella/internal/config"
)

const systemPrompt = "You are a helpful travel assistant for Nepal."

// OpenAIGenerator generates text with an OpenAI-compatible chat completion API
type OpenAIGenerator struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewOpenAIGenerator creates a generator from config. APIBase may point at any
// OpenAI-compatible endpoint.
func NewOpenAIGenerator(cfg *config.OpenAIConfig) *OpenAIGenerator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.APIBase != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.APIBase, "/")
	}

	return &OpenAIGenerator{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.ChatModel,
		temperature: float32(cfg.ChatTemperature),
		maxTokens:   cfg.ChatMaxTokens,
	}
}

// Name implements Generator
func (g *OpenAIGenerator) Name() string {
	return "openai"
}

func (g *OpenAIGenerator) request(prompt string, stream bool) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
		Stream:      stream,
	}
}

// Generate implements Generator
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) Generation {
	start := time.Now()

	resp, err := g.client.CreateChatCompletion(ctx, g.request(prompt, false))
	if err != nil {
		return finish(g.Name(), start, "", fmt.Errorf("chat completion: %w", err))
	}
	if len(resp.Choices) == 0 {
		return finish(g.Name(), start, "", ErrEmptyGeneration)
	}
	return finish(g.Name(), start, resp.Choices[0].Message.Content, nil)
}

// Stream implements StreamGenerator
func (g *OpenAIGenerator) Stream(ctx context.Context, prompt string, onChunk func(string) error) Generation {
	start := time.Now()

	stream, err := g.client.CreateChatCompletionStream(ctx, g.request(prompt, true))
	if err != nil {
		return finish(g.Name(), start, "", fmt.Errorf("chat completion stream: %w", err))
	}
	defer stream.Close()

	var (
		text     strings.Builder
		finished bool
	)
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return finish(g.Name(), start, "", fmt.Errorf("failed to read stream: %w", err))
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if resp.Choices[0].FinishReason != "" {
			finished = true
		}

		delta := resp.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		text.WriteString(delta)
		if err := onChunk(delta); err != nil {
			return finish(g.Name(), start, "", fmt.Errorf("callback error: %w", err))
		}
	}

	// Recv reports a clean close the same way as [DONE]; only a finish_reason proves completion
	if !finished {
		return finish(g.Name(), start, "", ErrTruncatedStream)
	}
	return finish(g.Name(), start, text.String(), nil)
}

var _ StreamGenerator = (*OpenAIGenerator)(nil)
