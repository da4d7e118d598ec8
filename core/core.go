// Package core runs the burndown pipeline: fetch, aggregate, render and save.
package core

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/burndown/internal/contract"
	"github.com/huangsam/burndown/internal/outwriter"
	"github.com/huangsam/burndown/schema"
)

// ExecuteBurndownChart generates the chart and reports where it was saved.
// It serves as the main entry point for the 'chart' command.
func ExecuteBurndownChart(ctx context.Context, cfg *contract.Config, client contract.IssueClient, mgr contract.HistoryManager) error {
	start := time.Now()
	result, err := GenerateBurndownChart(ctx, cfg, client, mgr)
	if err != nil {
		return err
	}
	fmt.Printf("Burndown chart saved as '%s'\n", result.ChartFile)

	if cfg.Detail {
		return outwriter.WriteSeriesTable(os.Stdout, result, cfg, time.Since(start))
	}
	return nil
}

// ExecuteBurndownSeries computes the series without charting and writes it
// in the configured output format.
// It serves as the main entry point for the 'series' command.
func ExecuteBurndownSeries(ctx context.Context, cfg *contract.Config, client contract.IssueClient) error {
	start := time.Now()
	// Machine-readable output on stdout must stay clean
	if cfg.Output != schema.TextOut && cfg.OutputFile == "" {
		ctx = WithSuppressHeader(ctx)
	}
	result, err := BuildBurndown(ctx, cfg, client)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteSeries(result, cfg, time.Since(start))
}
