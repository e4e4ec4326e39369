// Package api wires the HTTP surface of the router.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/clientforge/ai-router/internal/api/handler"
	"github.com/clientforge/ai-router/internal/api/middleware"
	"github.com/clientforge/ai-router/internal/catalog"
	"github.com/clientforge/ai-router/internal/repository"
	"github.com/clientforge/ai-router/internal/service"
)

// Server wraps the HTTP server and dependencies.
type Server struct {
	router *gin.Engine
	logger *zap.Logger
}

// ServerDeps holds all dependencies for the API server.
type ServerDeps struct {
	Router    *service.Router
	Monitor   *catalog.Monitor
	LogRepo   repository.DecisionLogRepository
	RateLimit *middleware.RateLimitConfig
	Logger    *zap.Logger
}

// NewServer creates a new API server with all routes configured.
func NewServer(deps ServerDeps) *Server {
	logger := deps.Logger

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware.
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.RateLimit(deps.RateLimit))

	// Health check (exempt from rate limiting).
	healthHandler := handler.NewHealthHandler(deps.Monitor)
	r.GET("/api/health", healthHandler.Health)
	r.POST("/api/health/check-now", healthHandler.CheckNow)

	// Routing endpoints.
	routeHandler := handler.NewRouteHandler(deps.Router, logger)
	v1 := r.Group("/v1")
	{
		v1.POST("/route", routeHandler.Route)
		v1.POST("/route/hybrid", routeHandler.RouteHybrid)
		v1.POST("/classify", routeHandler.Classify)
		v1.GET("/policies", routeHandler.ListPolicies)
		v1.GET("/policies/:category", routeHandler.GetPolicy)
	}

	// Decision audit log endpoints.
	logsHandler := handler.NewLogsHandler(deps.LogRepo, logger)
	logsGroup := r.Group("/api/logs")
	{
		logsGroup.GET("", logsHandler.GetDecisionLogs)
		logsGroup.GET("/stats", logsHandler.GetLogStats)
		logsGroup.DELETE("", logsHandler.DeleteDecisionLogs)
	}

	return &Server{
		router: r,
		logger: logger,
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run starts the HTTP server.
func (s *Server) Run(addr string) error {
	s.logger.Info("starting server", zap.String("addr", addr))
	return s.router.Run(addr)
}
