package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/clientforge/ai-router/internal/config"
	"github.com/clientforge/ai-router/internal/models"
)

// OpenAIBackend invokes completions via the official OpenAI SDK.
type OpenAIBackend struct {
	client    openai.Client
	maxTokens int
	timeout   time.Duration
}

// NewOpenAIBackend creates an OpenAI backend. The caller must have
// verified that a key is configured.
func NewOpenAIBackend(cfg config.RemoteConfig) (*OpenAIBackend, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	client := openai.NewClient(option.WithAPIKey(cfg.OpenAIKey))
	return &OpenAIBackend{
		client:    client,
		maxTokens: cfg.MaxTokens,
		timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
	}, nil
}

// Name implements Invoker.
func (b *OpenAIBackend) Name() string { return "openai" }

// Complete implements Invoker.
func (b *OpenAIBackend) Complete(ctx context.Context, model, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	resp, err := b.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxCompletionTokens: openai.Int(int64(b.maxTokens)),
	})
	if err != nil {
		return "", &models.CompletionError{Model: model, Mode: models.ModeRemoteOpenAI, Err: err}
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("openai returned no choices")
		return "", &models.CompletionError{Model: model, Mode: models.ModeRemoteOpenAI, Err: err}
	}

	return resp.Choices[0].Message.Content, nil
}
