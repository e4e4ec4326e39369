package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/clientforge/ai-router/internal/config"
	"github.com/clientforge/ai-router/internal/models"
)

// AnthropicBackend invokes completions via the official Anthropic SDK.
type AnthropicBackend struct {
	client    anthropic.Client
	maxTokens int
	timeout   time.Duration
}

// NewAnthropicBackend creates an Anthropic backend. The caller must have
// verified that a key is configured.
func NewAnthropicBackend(cfg config.RemoteConfig) (*AnthropicBackend, error) {
	if cfg.AnthropicKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	client := anthropic.NewClient(option.WithAPIKey(cfg.AnthropicKey))
	return &AnthropicBackend{
		client:    client,
		maxTokens: cfg.MaxTokens,
		timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
	}, nil
}

// Name implements Invoker.
func (b *AnthropicBackend) Name() string { return "anthropic" }

// Complete implements Invoker.
func (b *AnthropicBackend) Complete(ctx context.Context, model, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	resp, err := b.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(b.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", &models.CompletionError{Model: model, Mode: models.ModeRemoteAnthropic, Err: err}
	}

	var content string
	for _, block := range resp.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}
	if content == "" {
		err := fmt.Errorf("anthropic returned no text content")
		return "", &models.CompletionError{Model: model, Mode: models.ModeRemoteAnthropic, Err: err}
	}

	return content, nil
}
