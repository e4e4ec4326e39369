//go:build !integration && !e2e
// +build !integration,!e2e

package catalog

import (
	"context"
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

func newTestClient(baseURL string) *Client {
	return NewClient(config.CatalogConfig{
		BaseURL:        baseURL,
		TimeoutSeconds: 5,
	}, zap.NewNop())
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"http://localhost:1234/v1", "http://localhost:1234"},
		{"http://localhost:1234/v1/", "http://localhost:1234"},
		{"http://localhost:1234", "http://localhost:1234"},
		{"http://localhost:1234/", "http://localhost:1234"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, normalizeBaseURL(tt.input), tt.input)
	}
}

func TestClient_List(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"id":"qwen2.5-coder-32b-instruct"},{"id":"gemma-3-27b-it"},{"id":""}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL + "/v1")
	list, err := client.List(context.Background())
	require.NoError(t, err)

	// Empty ids are dropped.
	require.Len(t, list, 2)
	assert.Equal(t, "qwen2.5-coder-32b-instruct", list[0].ID)
	assert.Equal(t, "gemma-3-27b-it", list[1].ID)
}

func TestClient_ListEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	list, err := newTestClient(server.URL).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestClient_ListServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).List(context.Background())
	var unavailable *models.CatalogUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Contains(t, unavailable.Error(), "unexpected status 500")
}

func TestClient_ListConnectionRefused(t *testing.T) {
	// Grab a port that nothing listens on.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(url).List(context.Background())
	var unavailable *models.CatalogUnavailableError
	require.True(t, errors.As(err, &unavailable))
}

func TestClient_ListBadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).List(context.Background())
	var unavailable *models.CatalogUnavailableError
	require.True(t, errors.As(err, &unavailable))
}
