package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"travella/internal/config"
)

const anthropicVersion = "2023-06-01"

// AnthropicGenerator generates text with the Anthropic Messages API
type AnthropicGenerator struct {
	config     *config.AnthropicConfig
	httpClient *http.Client
}

// NewAnthropicGenerator creates a generator from config. Request deadlines come
// from the caller's context.
func NewAnthropicGenerator(cfg *config.AnthropicConfig) *AnthropicGenerator {
	return &AnthropicGenerator{
		config:     cfg,
		httpClient: &http.Client{},
	}
}

// MessagesRequest represents a Messages API request
type MessagesRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature,omitempty"`
	System      string             `json:"system,omitempty"`
	Messages    []AnthropicMessage `json:"messages"`
	Stream      bool               `json:"stream,omitempty"`
}

// AnthropicMessage represents a single message in the conversation
type AnthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MessagesResponse represents the Messages API response
type MessagesResponse struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// anthropicEvent covers the streaming event payloads we read
type anthropicEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Name implements Generator
func (g *AnthropicGenerator) Name() string {
	return "anthropic"
}

// Generate implements Generator
func (g *AnthropicGenerator) Generate(ctx context.Context, prompt string) Generation {
	start := time.Now()

	resp, err := g.send(ctx, prompt, false)
	if err != nil {
		return finish(g.Name(), start, "", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return finish(g.Name(), start, "", fmt.Errorf("failed to read response: %w", err))
	}

	var result MessagesResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return finish(g.Name(), start, "", fmt.Errorf("failed to unmarshal response: %w", err))
	}

	var text strings.Builder
	for _, block := range result.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return finish(g.Name(), start, text.String(), nil)
}

// Stream implements StreamGenerator
func (g *AnthropicGenerator) Stream(ctx context.Context, prompt string, onChunk func(string) error) Generation {
	start := time.Now()

	resp, err := g.send(ctx, prompt, true)
	if err != nil {
		return finish(g.Name(), start, "", err)
	}
	defer resp.Body.Close()

	var text strings.Builder
	reader := bufio.NewReader(resp.Body)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				break
			}
			return finish(g.Name(), start, "", fmt.Errorf("failed to read stream: %w", err))
		}

		// Parse SSE format: "data: {...}"; event lines repeat the type and are skipped
		line = bytes.TrimSpace(line)
		if !bytes.HasPrefix(line, []byte("data:")) {
			continue
		}
		data := bytes.TrimSpace(bytes.TrimPrefix(line, []byte("data:")))

		var event anthropicEvent
		if err := json.Unmarshal(data, &event); err != nil {
			continue
		}

		switch event.Type {
		case "content_block_delta":
			if event.Delta.Type != "text_delta" || event.Delta.Text == "" {
				continue
			}
			text.WriteString(event.Delta.Text)
			if err := onChunk(event.Delta.Text); err != nil {
				return finish(g.Name(), start, "", fmt.Errorf("callback error: %w", err))
			}
		case "error":
			return finish(g.Name(), start, "", fmt.Errorf("stream error %s: %s", event.Error.Type, event.Error.Message))
		case "message_stop":
			return finish(g.Name(), start, text.String(), nil)
		}
	}

	// EOF without message_stop: the partial text is not a usable answer
	return finish(g.Name(), start, "", ErrTruncatedStream)
}

// send posts a Messages request and returns the response when the status is 200
func (g *AnthropicGenerator) send(ctx context.Context, prompt string, stream bool) (*http.Response, error) {
	req := MessagesRequest{
		Model:       g.config.Model,
		MaxTokens:   g.config.MaxTokens,
		Temperature: 0.7,
		System:      systemPrompt,
		Messages:    []AnthropicMessage{{Role: "user", Content: prompt}},
		Stream:      stream,
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/messages", strings.TrimRight(g.config.APIBase, "/"))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", g.config.APIKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)
	if stream {
		httpReq.Header.Set("Accept", "text/event-stream")
	}

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}
	return resp, nil
}

var _ StreamGenerator = (*AnthropicGenerator)(nil)
