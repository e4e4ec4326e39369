package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clientforge/ai-router/internal/models"
)

// errorResponse sends a JSON error response with {detail: message} format.
func errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"detail": message})
}

// routeErrorResponse maps routing errors to HTTP statuses. Exhausted
// selection is 503 (nothing can serve the category right now); a failed
// completion on an already selected backend is 502.
func routeErrorResponse(c *gin.Context, err error) {
	var noModel *models.NoModelAvailableError
	if errors.As(err, &noModel) {
		errorResponse(c, http.StatusServiceUnavailable, err.Error())
		return
	}
	var completion *models.CompletionError
	if errors.As(err, &completion) {
		errorResponse(c, http.StatusBadGateway, err.Error())
		return
	}
	errorResponse(c, http.StatusInternalServerError, err.Error())
}
