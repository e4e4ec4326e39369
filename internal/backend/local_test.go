//go:build !integration && !e2e
// +build !integration,!e2e

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clientforge/ai-router/internal/config"
	"github.com/clientforge/ai-router/internal/models"
)

func newLocalTestBackend(baseURL string) *LocalBackend {
	return NewLocalBackend(
		config.CatalogConfig{BaseURL: baseURL, TimeoutSeconds: 5},
		config.RemoteConfig{MaxTokens: 256, TimeoutSeconds: 5},
		zap.NewNop(),
	)
}

func TestLocalBackend_Complete(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"the answer is 4"}}]}`))
	}))
	defer server.Close()

	backend := newLocalTestBackend(server.URL + "/v1")
	text, err := backend.Complete(context.Background(), "gemma-3-27b-it", "what is 2+2?")
	require.NoError(t, err)
	assert.Equal(t, "the answer is 4", text)

	assert.Equal(t, "gemma-3-27b-it", captured["model"])
	assert.Equal(t, float64(256), captured["max_tokens"])
}

func TestLocalBackend_CompleteServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"model not loaded"}`))
	}))
	defer server.Close()

	_, err := newLocalTestBackend(server.URL).Complete(context.Background(), "gemma-3-27b-it", "hi")
	var completion *models.CompletionError
	require.True(t, errors.As(err, &completion))
	assert.Equal(t, models.ModeLocal, completion.Mode)
	assert.Contains(t, completion.Error(), "status 503")
}

func TestLocalBackend_CompleteEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	_, err := newLocalTestBackend(server.URL).Complete(context.Background(), "gemma-3-27b-it", "hi")
	var completion *models.CompletionError
	require.True(t, errors.As(err, &completion))
	assert.Contains(t, completion.Error(), "empty completion response")
}

func TestLocalBackend_CompleteConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newLocalTestBackend(url).Complete(context.Background(), "gemma-3-27b-it", "hi")
	var completion *models.CompletionError
	require.True(t, errors.As(err, &completion))
}

func TestMockBackend(t *testing.T) {
	mock := NewMockBackend("test")
	mock.Responses["ping"] = "pong"

	text, err := mock.Complete(context.Background(), "some-model", "ping")
	require.NoError(t, err)
	assert.Equal(t, "pong", text)

	text, err = mock.Complete(context.Background(), "some-model", "unseen prompt")
	require.NoError(t, err)
	assert.Contains(t, text, "mock response from some-model")

	require.Len(t, mock.Calls, 2)
	assert.Equal(t, "ping", mock.Calls[0].Prompt)

	mock.Err = errors.New("down")
	_, err = mock.Complete(context.Background(), "some-model", "ping")
	var completion *models.CompletionError
	require.True(t, errors.As(err, &completion))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abc...", truncate("abcdef", 3))
	assert.Equal(t, "héllo", truncate("héllo", 5))
}
