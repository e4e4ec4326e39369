package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/clientforge/ai-router/internal/models"
	"github.com/clientforge/ai-router/internal/service"
)

// RouteHandler handles routing and classification requests.
type RouteHandler struct {
	router *service.Router
	logger *zap.Logger
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(router *service.Router, logger *zap.Logger) *RouteHandler {
	return &RouteHandler{router: router, logger: logger}
}

// RouteRequest is the body of POST /v1/route. Category, when set, skips
// classification and routes under that category's policy directly.
type RouteRequest struct {
	Prompt     string `json:"prompt" binding:"required"`
	Category   string `json:"category"`
	ForceLocal bool   `json:"force_local"`
}

// Route classifies the prompt, selects a model, and returns the
// completion.
func (h *RouteHandler) Route(c *gin.Context) {
	var req RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "prompt is required")
		return
	}
	category, ok := parseCategoryParam(c, req.Category)
	if !ok {
		return
	}

	result, err := h.router.Route(c.Request.Context(), req.Prompt, category, req.ForceLocal)
	if err != nil {
		routeErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// HybridRequest is the body of POST /v1/route/hybrid.
type HybridRequest struct {
	Prompt   string `json:"prompt" binding:"required"`
	Category string `json:"category"`
}

// RouteHybrid answers locally and attaches a remote critique when the
// category's policy allows one.
func (h *RouteHandler) RouteHybrid(c *gin.Context) {
	var req HybridRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "prompt is required")
		return
	}
	category, ok := parseCategoryParam(c, req.Category)
	if !ok {
		return
	}

	result, err := h.router.RouteHybrid(c.Request.Context(), req.Prompt, category)
	if err != nil {
		routeErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// parseCategoryParam validates an optional category field, writing a
// 400 response for names outside the known set.
func parseCategoryParam(c *gin.Context, raw string) (models.TaskCategory, bool) {
	if raw == "" {
		return "", true
	}
	category, ok := models.ParseCategory(raw)
	if !ok {
		errorResponse(c, http.StatusBadRequest, "unknown category: "+raw)
		return "", false
	}
	return category, true
}

// ClassifyRequest is the body of POST /v1/classify.
type ClassifyRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// Classify runs classification only, without selecting or invoking a
// model.
func (h *RouteHandler) Classify(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "prompt is required")
		return
	}

	result := h.router.Classify(req.Prompt)
	c.JSON(http.StatusOK, gin.H{
		"category": result.Category,
		"reason":   result.Reason,
	})
}

// ListPolicies returns the validated policy table in declaration order.
func (h *RouteHandler) ListPolicies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"policies": h.router.Policies().Entries()})
}

// GetPolicy returns the policy for one category.
func (h *RouteHandler) GetPolicy(c *gin.Context) {
	category := models.TaskCategory(c.Param("category"))
	policy, ok := h.router.Policies().PolicyFor(category)
	if !ok {
		errorResponse(c, http.StatusNotFound, "unknown category: "+string(category))
		return
	}
	c.JSON(http.StatusOK, policy)
}
