package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clientforge/ai-router/internal/catalog"
	"github.com/clientforge/ai-router/internal/version"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	monitor *catalog.Monitor
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(monitor *catalog.Monitor) *HealthHandler {
	return &HealthHandler{monitor: monitor}
}

// Health returns the service health status. The router itself is up if
// this handler answers; "degraded" means the local runtime was
// unreachable at the last probe, which still leaves remote routing.
func (h *HealthHandler) Health(c *gin.Context) {
	snapshot := h.monitor.State()

	status := "healthy"
	if snapshot.Status == catalog.RuntimeUnreachable {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  status,
		"version": version.Short(),
		"runtime": snapshot,
	})
}

// CheckNow triggers an immediate catalog probe.
func (h *HealthHandler) CheckNow(c *gin.Context) {
	h.monitor.CheckNow()
	c.JSON(http.StatusOK, gin.H{"message": "Catalog check triggered"})
}
