// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/burndown/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ServerVersion is reported to MCP clients during initialization.
var ServerVersion = "dev"

// ClientFactory builds an issue client for one request's configuration.
type ClientFactory func(cfg *contract.Config) contract.IssueClient

// NewMCPServer initializes and configures the burndown MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.HistoryManager, newClient ClientFactory) *server.MCPServer {
	s := server.NewMCPServer(
		"Burndown Chart Server",
		ServerVersion,
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg:   baseCfg,
		mgr:       mgr,
		newClient: newClient,
	}

	// --- 1. Tool: get_burndown_series ---
	s.AddTool(mcp.NewTool("get_burndown_series",
		mcp.WithDescription("Fetch a GitHub repository's issues and compute the ideal and actual burndown for a sprint ending now."),
		mcp.WithString("repo", mcp.Description("Repository as owner/repo. Defaults to the server's configured repository.")),
		mcp.WithNumber("sprint_days", mcp.Description("Sprint length in days. Defaults to the server's configured length.")),
	), h.handleGetBurndownSeries)

	// --- 2. Tool: generate_burndown_chart ---
	s.AddTool(mcp.NewTool("generate_burndown_chart",
		mcp.WithDescription("Render the burndown chart for a GitHub repository to a PNG file and return its filename."),
		mcp.WithString("repo", mcp.Description("Repository as owner/repo.")),
		mcp.WithNumber("sprint_days", mcp.Description("Sprint length in days.")),
		mcp.WithString("output_dir", mcp.Description("Existing subdirectory of the server's output directory to write the PNG into. Absolute paths and '..' are rejected.")),
	), h.handleGenerateBurndownChart)

	return s
}

// StartMCPServer starts the burndown MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.HistoryManager, newClient ClientFactory) error {
	s := NewMCPServer(baseCfg, mgr, newClient)
	return server.ServeStdio(s)
}
