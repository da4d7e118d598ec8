package cmd

import (
	"github.com/huangsam/burndown/internal/contract"
	"github.com/huangsam/burndown/internal/history"
	"github.com/huangsam/burndown/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [owner/repo]",
	Short: "Start the burndown MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents compute burndown series
and render charts. A repository given here becomes the default for tool calls.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(_ *cobra.Command, args []string) error {
		if err := readConfig(); err != nil {
			return err
		}
		if len(args) == 1 {
			input.RepoArg = args[0]
		}
		if err := contract.ProcessServerConfig(cfg, input); err != nil {
			return err
		}
		return history.InitHistory(cfg.HistoryBackend, cfg.HistoryDBConnect)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		mcp.ServerVersion = version
		return mcp.StartMCPServer(rootCtx, cfg, history.Manager, newIssueClient)
	},
}
