// Package openrouter implements the model port on the OpenRouter API
// through the OpenAI-compatible client.
package openrouter

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"browsemind/internal/application/port/output"
)

var _ output.LLMPort = (*OpenRouterAdapter)(nil)

type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	Logger      output.LoggerPort
}

func DefaultConfig(apiKey, model string) Config {
	return Config{
		APIKey:  apiKey,
		Model:   model,
		BaseURL: "https://openrouter.ai/api/v1",
	}
}

type OpenRouterAdapter struct {
	client      *openai.Client
	model       string
	temperature float32
}

func NewOpenRouterAdapter(cfg Config) *OpenRouterAdapter {
	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = cfg.BaseURL

	if cfg.Logger != nil {
		config.HTTPClient = &http.Client{
			Transport: &loggingTransport{
				base:   http.DefaultTransport,
				logger: cfg.Logger,
			},
		}
	}

	return &OpenRouterAdapter{
		client:      openai.NewClientWithConfig(config),
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
	}
}

// Complete issues a single-shot completion: fixed system prompt plus one
// user message carrying the page content and the task. No internal retry.
func (a *OpenRouterAdapter) Complete(ctx context.Context, req output.CompletionRequest) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: req.SystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Page Content:\n%s\n\nTask: %s", req.PageContent, req.Task),
			},
		},
		Temperature: a.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return resp.Choices[0].Message.Content, nil
}

// loggingTransport records request/response metadata for every model call.
type loggingTransport struct {
	base   http.RoundTripper
	logger output.LoggerPort
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.logger.Debug("HTTP request", "method", req.Method, "url", req.URL.String())

	resp, err := t.base.RoundTrip(req)

	if resp != nil {
		t.logger.Debug("HTTP response", "status", resp.Status)
	} else if err != nil {
		t.logger.Warn("HTTP request failed", "error", err.Error())
	}

	return resp, err
}
