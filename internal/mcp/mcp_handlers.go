package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/huangsam/burndown/core"
	"github.com/huangsam/burndown/internal/chart"
	"github.com/huangsam/burndown/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg   *contract.Config
	mgr       contract.HistoryManager
	newClient ClientFactory
}

// requestConfig clones the base config and applies the shared tool arguments.
func (h *toolHandler) requestConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	repoArg := request.GetString("repo", "")
	sprintDays := request.GetInt("sprint_days", 0)
	if err := contract.RevalidateRequest(cfg, repoArg, sprintDays); err != nil {
		return nil, err
	}
	return cfg, nil
}

// confineOutputDir resolves a client-supplied directory under the server's
// output directory. Absolute paths and paths leaving the base are rejected.
func confineOutputDir(base, dir string) (string, error) {
	if !filepath.IsLocal(dir) {
		return "", fmt.Errorf("output_dir must be a relative path inside the server's output directory, got %q", dir)
	}
	if base == "" {
		var err error
		if base, err = chart.DefaultOutputDir(); err != nil {
			return "", err
		}
	}
	return filepath.Join(base, dir), nil
}

func (h *toolHandler) handleGetBurndownSeries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	result, err := core.BuildBurndown(core.WithSuppressHeader(ctx), cfg, h.newClient(cfg))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("burndown failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGenerateBurndownChart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if dir := request.GetString("output_dir", ""); dir != "" {
		if cfg.OutputDir, err = confineOutputDir(cfg.OutputDir, dir); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
		}
	}

	result, err := core.GenerateBurndownChart(core.WithSuppressHeader(ctx), cfg, h.newClient(cfg), h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("chart generation failed: %v", err)), nil
	}

	text := fmt.Sprintf("Burndown chart saved as '%s'", result.ChartFile)
	if cfg.OutputDir != "" {
		text += fmt.Sprintf(" in %s", filepath.Clean(cfg.OutputDir))
	}
	return mcp.NewToolResultText(text), nil
}
