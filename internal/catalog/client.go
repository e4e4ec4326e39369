// Package catalog queries the local model runtime (LM Studio, Ollama, or
// any OpenAI-compatible server) for the set of currently loaded models.
package catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/clientforge/ai-router/internal/config"
	"github.com/clientforge/ai-router/internal/models"
)

// Lister returns the models the local runtime currently serves.
type Lister interface {
	List(ctx context.Context) ([]models.CatalogModel, error)
}

// Client queries the runtime's /v1/models endpoint.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates a catalog Client from catalog configuration.
func NewClient(cfg config.CatalogConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL: normalizeBaseURL(cfg.BaseURL),
		client:  &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		logger:  logger,
	}
}

// normalizeBaseURL ensures the URL doesn't end with "/" or "/v1".
func normalizeBaseURL(baseURL string) string {
	url := strings.TrimRight(baseURL, "/")
	if strings.HasSuffix(url, "/v1") {
		url = url[:len(url)-3]
	}
	return url
}

// BaseURL returns the normalized runtime base URL (without /v1).
func (c *Client) BaseURL() string {
	return c.baseURL
}

// List fetches the current model listing. The listing reflects a moment
// in time; a model present here can be unloaded before a completion call
// reaches it.
func (c *Client) List(ctx context.Context) ([]models.CatalogModel, error) {
	url := c.baseURL + "/v1/models"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &models.CatalogUnavailableError{Endpoint: url, Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &models.CatalogUnavailableError{Endpoint: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &models.CatalogUnavailableError{
			Endpoint: url,
			Err:      &statusError{code: resp.StatusCode},
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.CatalogUnavailableError{Endpoint: url, Err: err}
	}

	var data struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, &models.CatalogUnavailableError{Endpoint: url, Err: err}
	}

	list := make([]models.CatalogModel, 0, len(data.Data))
	for _, m := range data.Data {
		if m.ID == "" {
			continue
		}
		list = append(list, models.CatalogModel{ID: m.ID})
	}

	c.logger.Debug("catalog listed", zap.Int("models", len(list)))
	return list, nil
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return "unexpected status " + strconv.Itoa(e.code)
}
