// Package mcp exposes the router over the Model Context Protocol so
// agent frontends can call it as a tool via stdio JSON-RPC.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/clientforge/ai-router/internal/models"
	"github.com/clientforge/ai-router/internal/service"
	"github.com/clientforge/ai-router/internal/version"
)

// Server wraps an MCP stdio server around the router.
type Server struct {
	router    *service.Router
	mcpServer *server.MCPServer
	logger    *zap.Logger
}

// NewServer creates an MCP server with the routing tools registered.
func NewServer(router *service.Router, logger *zap.Logger) *Server {
	s := &Server{router: router, logger: logger}

	s.mcpServer = server.NewMCPServer(
		"ai-router",
		version.Short(),
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	s.mcpServer.AddTool(routeTool(), s.handleRoute)
	s.mcpServer.AddTool(routeHybridTool(), s.handleRouteHybrid)
	s.mcpServer.AddTool(classifyTool(), s.handleClassify)
	s.mcpServer.AddTool(policyInfoTool(), s.handlePolicyInfo)

	return s
}

// ServeStdio blocks serving MCP over stdin/stdout until the client
// disconnects.
func (s *Server) ServeStdio() error {
	s.logger.Info("mcp server starting on stdio")
	return server.ServeStdio(s.mcpServer)
}

func routeTool() mcp.Tool {
	return mcp.NewTool("route",
		mcp.WithDescription("Classify a prompt, pick the best available model, and return its completion."),
		mcp.WithString("prompt",
			mcp.Required(),
			mcp.Description("The prompt to route and answer."),
		),
		mcp.WithString("category",
			mcp.Description("Explicit task category; omit to classify the prompt."),
		),
		mcp.WithBoolean("force_local",
			mcp.Description("Restrict selection to the local runtime."),
		),
	)
}

func (s *Server) handleRoute(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt, err := req.RequireString("prompt")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	category, ok := parseCategoryArg(req)
	if !ok {
		return mcp.NewToolResultError("unknown category: " + req.GetString("category", "")), nil
	}
	forceLocal := req.GetBool("force_local", false)

	result, err := s.router.Route(ctx, prompt, category, forceLocal)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(result)
}

func routeHybridTool() mcp.Tool {
	return mcp.NewTool("route_hybrid",
		mcp.WithDescription("Answer a prompt with a local model and, where policy allows, attach a remote model's critique of that answer."),
		mcp.WithString("prompt",
			mcp.Required(),
			mcp.Description("The prompt to answer locally and validate remotely."),
		),
		mcp.WithString("category",
			mcp.Description("Explicit task category; omit to classify the prompt."),
		),
	)
}

func (s *Server) handleRouteHybrid(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt, err := req.RequireString("prompt")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	category, ok := parseCategoryArg(req)
	if !ok {
		return mcp.NewToolResultError("unknown category: " + req.GetString("category", "")), nil
	}

	result, err := s.router.RouteHybrid(ctx, prompt, category)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(result)
}

func classifyTool() mcp.Tool {
	return mcp.NewTool("classify",
		mcp.WithDescription("Classify a prompt into a task category without invoking any model."),
		mcp.WithString("prompt",
			mcp.Required(),
			mcp.Description("The prompt to classify."),
		),
	)
}

func (s *Server) handleClassify(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt, err := req.RequireString("prompt")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := s.router.Classify(prompt)
	return jsonResult(map[string]any{
		"category": result.Category,
		"reason":   result.Reason,
	})
}

func policyInfoTool() mcp.Tool {
	return mcp.NewTool("policy_info",
		mcp.WithDescription("Show the routing policy for one category, or the whole table."),
		mcp.WithString("category",
			mcp.Description("Task category to look up; omit for the full table."),
		),
	)
}

func (s *Server) handlePolicyInfo(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category := req.GetString("category", "")
	if category == "" {
		return jsonResult(s.router.Policies().Entries())
	}

	policy, ok := s.router.Policies().PolicyFor(models.TaskCategory(category))
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown category: %s", category)), nil
	}
	return jsonResult(policy)
}

// parseCategoryArg reads the optional category argument. An empty value
// is valid and means classify.
func parseCategoryArg(req mcp.CallToolRequest) (models.TaskCategory, bool) {
	raw := req.GetString("category", "")
	if raw == "" {
		return "", true
	}
	return models.ParseCategory(raw)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
