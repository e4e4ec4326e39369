package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/clientforge/ai-router/internal/models"
	"github.com/clientforge/ai-router/internal/repository"
)

const (
	// logQueryTimeout caps the maximum execution time for log read queries.
	logQueryTimeout = 10 * time.Second
	// maxLogLimit caps the maximum number of log entries per page.
	maxLogLimit = 500
)

// LogsHandler handles decision audit log endpoints.
type LogsHandler struct {
	logRepo repository.DecisionLogRepository
	logger  *zap.Logger
}

// NewLogsHandler creates a new LogsHandler.
func NewLogsHandler(logRepo repository.DecisionLogRepository, logger *zap.Logger) *LogsHandler {
	return &LogsHandler{logRepo: logRepo, logger: logger}
}

// decisionFilterFromQuery builds a filter from common query parameters.
func decisionFilterFromQuery(c *gin.Context) repository.DecisionLogFilter {
	var filter repository.DecisionLogFilter

	if v := c.Query("category"); v != "" {
		cat := models.TaskCategory(v)
		filter.Category = &cat
	}
	if v := c.Query("mode"); v != "" {
		mode := models.ExecutionMode(v)
		filter.Mode = &mode
	}
	if v := c.Query("success"); v != "" {
		b := v == "true"
		filter.Success = &b
	}
	if v := c.Query("hybrid"); v != "" {
		b := v == "true"
		filter.Hybrid = &b
	}
	if st := c.Query("start_time"); st != "" {
		if t, err := time.Parse(time.RFC3339, st); err == nil {
			filter.StartTime = &t
		}
	}
	if et := c.Query("end_time"); et != "" {
		if t, err := time.Parse(time.RFC3339, et); err == nil {
			filter.EndTime = &t
		}
	}
	return filter
}

// GetDecisionLogs retrieves decision logs.
// GET /api/logs?limit=100&offset=0&category=...&mode=...&success=...&hybrid=...&start_time=...&end_time=...
func (h *LogsHandler) GetDecisionLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit > maxLogLimit {
		limit = maxLogLimit
	}

	// Query with timeout to prevent slow queries from blocking the pool.
	ctx, cancel := context.WithTimeout(c.Request.Context(), logQueryTimeout)
	defer cancel()

	logs, total, err := h.logRepo.List(ctx, limit, offset, decisionFilterFromQuery(c))
	if err != nil {
		h.logger.Error("failed to retrieve decision logs", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "Failed to retrieve logs")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":   logs,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// GetLogStats retrieves aggregated decision statistics.
// GET /api/logs/stats?category=...&mode=...&start_time=...&end_time=...
func (h *LogsHandler) GetLogStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), logQueryTimeout)
	defer cancel()

	stats, err := h.logRepo.GetStatistics(ctx, decisionFilterFromQuery(c))
	if err != nil {
		h.logger.Error("failed to retrieve statistics", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "Failed to retrieve statistics")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// DeleteDecisionLogs prunes audit entries older than the cutoff.
// DELETE /api/logs?before=2026-01-01T00:00:00Z
func (h *LogsHandler) DeleteDecisionLogs(c *gin.Context) {
	before := c.Query("before")
	cutoff, err := time.Parse(time.RFC3339, before)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "before must be an RFC3339 timestamp")
		return
	}

	deleted, err := h.logRepo.DeleteBefore(c.Request.Context(), cutoff)
	if err != nil {
		h.logger.Error("failed to delete decision logs", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "Failed to delete logs")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deleted": deleted,
		"message": "Logs deleted",
	})
}
