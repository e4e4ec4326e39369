//go:build !integration && !e2e
// +build !integration,!e2e

package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clientforge/ai-router/internal/backend"
	"github.com/clientforge/ai-router/internal/config"
	"github.com/clientforge/ai-router/internal/models"
	"github.com/clientforge/ai-router/internal/service"
	"github.com/clientforge/ai-router/tests/testutil"
)

// staticLister serves a fixed catalog for handler tests.
type staticLister struct {
	models []models.CatalogModel
	err    error
}

func (s *staticLister) List(_ context.Context) ([]models.CatalogModel, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.models, nil
}

type routeHarness struct {
	engine *gin.Engine
	local  *backend.MockBackend
	remote *backend.MockBackend
}

func newRouteHarness(t *testing.T, remote config.RemoteConfig, catalogIDs []string) *routeHarness {
	t.Helper()

	classifier, err := service.NewClassifier(config.DefaultClassificationRules())
	require.NoError(t, err)
	policies, err := service.NewPolicyTable(config.DefaultRoutingPolicies())
	require.NoError(t, err)

	local := backend.NewMockBackend("local")
	remoteMock := backend.NewMockBackend("openai")
	backends := map[models.ExecutionMode]backend.Invoker{
		models.ModeLocal: local,
	}
	if remote.OpenAIKey != "" {
		backends[models.ModeRemoteOpenAI] = remoteMock
	}

	catalogModels := make([]models.CatalogModel, 0, len(catalogIDs))
	for _, id := range catalogIDs {
		catalogModels = append(catalogModels, models.CatalogModel{ID: id})
	}

	router := service.NewRouter(
		classifier, policies,
		service.NewSelector(remote, zap.NewNop()),
		&staticLister{models: catalogModels},
		backends, nil, zap.NewNop(),
	)

	h := NewRouteHandler(router, zap.NewNop())
	engine := testutil.NewTestRouter()
	engine.POST("/v1/route", h.Route)
	engine.POST("/v1/route/hybrid", h.RouteHybrid)
	engine.POST("/v1/classify", h.Classify)
	engine.GET("/v1/policies", h.ListPolicies)
	engine.GET("/v1/policies/:category", h.GetPolicy)

	return &routeHarness{engine: engine, local: local, remote: remoteMock}
}

func TestRouteHandler_Route(t *testing.T) {
	h := newRouteHarness(t, config.RemoteConfig{}, []string{"qwen2.5-coder-32b-instruct"})

	w := httptest.NewRecorder()
	req := testutil.MakeJSONRequest(t, http.MethodPost, "/v1/route",
		map[string]any{"prompt": "debug this stack trace"})
	h.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var result models.RouteResult
	testutil.FromJSON(t, w.Body.Bytes(), &result)
	assert.Equal(t, models.CategoryCoding, result.Category)
	assert.Equal(t, models.ModeLocal, result.Mode)
	assert.Equal(t, "qwen2.5-coder-32b-instruct", result.Model)
	assert.NotEmpty(t, result.ResponseText)
}

func TestRouteHandler_RouteMissingPrompt(t *testing.T) {
	h := newRouteHarness(t, config.RemoteConfig{}, []string{"gemma-3-27b-it"})

	w := httptest.NewRecorder()
	req := testutil.MakeJSONRequest(t, http.MethodPost, "/v1/route", map[string]any{})
	h.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "prompt is required")
}

func TestRouteHandler_RouteExplicitCategory(t *testing.T) {
	h := newRouteHarness(t, config.RemoteConfig{}, []string{"qwen2.5-coder-32b-instruct", "gemma-3-27b-it"})

	w := httptest.NewRecorder()
	req := testutil.MakeJSONRequest(t, http.MethodPost, "/v1/route",
		map[string]any{"prompt": "debug this stack trace", "category": "creative"})
	h.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var result models.RouteResult
	testutil.FromJSON(t, w.Body.Bytes(), &result)
	assert.Equal(t, models.CategoryCreative, result.Category)
	assert.Equal(t, "gemma-3-27b-it", result.Model)
}

func TestRouteHandler_RouteUnknownCategory(t *testing.T) {
	h := newRouteHarness(t, config.RemoteConfig{}, []string{"gemma-3-27b-it"})

	w := httptest.NewRecorder()
	req := testutil.MakeJSONRequest(t, http.MethodPost, "/v1/route",
		map[string]any{"prompt": "hello", "category": "legal"})
	h.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown category: legal")
	assert.Empty(t, h.local.Calls)
}

func TestRouteHandler_RouteNoModel(t *testing.T) {
	// Empty catalog, no keys: nothing can serve.
	h := newRouteHarness(t, config.RemoteConfig{}, nil)

	w := httptest.NewRecorder()
	req := testutil.MakeJSONRequest(t, http.MethodPost, "/v1/route",
		map[string]any{"prompt": "hello"})
	h.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "detail")
}

func TestRouteHandler_RouteCompletionFailure(t *testing.T) {
	h := newRouteHarness(t, config.RemoteConfig{}, []string{"gemma-3-27b-it"})
	h.local.Err = errors.New("model crashed")

	w := httptest.NewRecorder()
	req := testutil.MakeJSONRequest(t, http.MethodPost, "/v1/route",
		map[string]any{"prompt": "hello"})
	h.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadGateway, w.Code)
}

func TestRouteHandler_RouteForceLocal(t *testing.T) {
	h := newRouteHarness(t, config.RemoteConfig{OpenAIKey: "sk-test"}, nil)

	w := httptest.NewRecorder()
	req := testutil.MakeJSONRequest(t, http.MethodPost, "/v1/route",
		map[string]any{"prompt": "hello", "force_local": true})
	h.engine.ServeHTTP(w, req)

	// Remote is configured but force_local pins selection to the empty
	// local catalog.
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Empty(t, h.remote.Calls)
}

func TestRouteHandler_RouteHybrid(t *testing.T) {
	h := newRouteHarness(t, config.RemoteConfig{OpenAIKey: "sk-test"}, []string{"qwen2.5-coder-32b-instruct"})

	w := httptest.NewRecorder()
	req := testutil.MakeJSONRequest(t, http.MethodPost, "/v1/route/hybrid",
		map[string]any{"prompt": "implement a parser"})
	h.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var result models.HybridResult
	testutil.FromJSON(t, w.Body.Bytes(), &result)
	assert.Equal(t, "qwen2.5-coder-32b-instruct", result.PrimaryModel)
	assert.Equal(t, models.ValidationCompleted, result.ValidationStatus)
	assert.NotEmpty(t, result.ValidationResponse)
}

func TestRouteHandler_Classify(t *testing.T) {
	h := newRouteHarness(t, config.RemoteConfig{}, nil)

	w := httptest.NewRecorder()
	req := testutil.MakeJSONRequest(t, http.MethodPost, "/v1/classify",
		map[string]any{"prompt": "write a poem about autumn"})
	h.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Category models.TaskCategory `json:"category"`
		Reason   string              `json:"reason"`
	}
	testutil.FromJSON(t, w.Body.Bytes(), &resp)
	assert.Equal(t, models.CategoryCreative, resp.Category)
	assert.NotEmpty(t, resp.Reason)

	// Classification never touches a backend.
	assert.Empty(t, h.local.Calls)
}

func TestRouteHandler_ListPolicies(t *testing.T) {
	h := newRouteHarness(t, config.RemoteConfig{}, nil)

	w := httptest.NewRecorder()
	req := testutil.MakeJSONRequest(t, http.MethodGet, "/v1/policies", nil)
	h.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Policies []models.RoutingPolicyEntry `json:"policies"`
	}
	testutil.FromJSON(t, w.Body.Bytes(), &resp)
	assert.Len(t, resp.Policies, len(models.AllCategories()))
}

func TestRouteHandler_GetPolicy(t *testing.T) {
	h := newRouteHarness(t, config.RemoteConfig{}, nil)

	w := httptest.NewRecorder()
	req := testutil.MakeJSONRequest(t, http.MethodGet, "/v1/policies/critical", nil)
	h.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var policy models.RoutingPolicyEntry
	testutil.FromJSON(t, w.Body.Bytes(), &policy)
	assert.Equal(t, models.CategoryCritical, policy.Category)
	assert.Equal(t, models.RemotePreferred, policy.PrimaryMode)
}

func TestRouteHandler_GetPolicyUnknown(t *testing.T) {
	h := newRouteHarness(t, config.RemoteConfig{}, nil)

	w := httptest.NewRecorder()
	req := testutil.MakeJSONRequest(t, http.MethodGet, "/v1/policies/gardening", nil)
	h.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "unknown category")
}
