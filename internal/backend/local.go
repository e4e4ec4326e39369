package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/clientforge/ai-router/internal/config"
	"github.com/clientforge/ai-router/internal/models"
)

// LocalBackend invokes completions against the local runtime's
// OpenAI-compatible chat API. No credentials are sent; the runtime is
// assumed to sit on a trusted interface.
type LocalBackend struct {
	baseURL   string
	maxTokens int
	client    *http.Client
	logger    *zap.Logger
}

// NewLocalBackend creates a LocalBackend for the configured runtime.
// Completion calls use the remote timeout and max_tokens settings so
// local and remote responses are bounded the same way.
func NewLocalBackend(cfg config.CatalogConfig, remote config.RemoteConfig, logger *zap.Logger) *LocalBackend {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if strings.HasSuffix(base, "/v1") {
		base = base[:len(base)-3]
	}
	return &LocalBackend{
		baseURL:   base,
		maxTokens: remote.MaxTokens,
		client: &http.Client{
			Timeout: time.Duration(remote.TimeoutSeconds) * time.Second,
		},
		logger: logger,
	}
}

// Name implements Invoker.
func (b *LocalBackend) Name() string { return "local" }

// Complete implements Invoker via POST /v1/chat/completions.
func (b *LocalBackend) Complete(ctx context.Context, model, prompt string) (string, error) {
	reqBody := map[string]any{
		"model":      model,
		"max_tokens": b.maxTokens,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", &models.CompletionError{Model: model, Mode: models.ModeLocal, Err: err}
	}

	url := fmt.Sprintf("%s/v1/chat/completions", b.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", &models.CompletionError{Model: model, Mode: models.ModeLocal, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return "", &models.CompletionError{Model: model, Mode: models.ModeLocal, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &models.CompletionError{Model: model, Mode: models.ModeLocal, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("chat API returned status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
		return "", &models.CompletionError{Model: model, Mode: models.ModeLocal, Err: err}
	}

	// Parse OpenAI-compatible response
	var chatResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", &models.CompletionError{Model: model, Mode: models.ModeLocal, Err: err}
	}
	if len(chatResp.Choices) == 0 {
		err := fmt.Errorf("empty completion response")
		return "", &models.CompletionError{Model: model, Mode: models.ModeLocal, Err: err}
	}

	b.logger.Debug("local completion finished", zap.String("model", model))
	return chatResp.Choices[0].Message.Content, nil
}

// truncate shortens s to at most n runes for log and error output.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
