package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/burndown/core/agg"
	"github.com/huangsam/burndown/internal/chart"
	"github.com/huangsam/burndown/internal/contract"
	"github.com/huangsam/burndown/schema"
)

// nowFunc is the clock used for the sprint window and the chart timestamp.
var nowFunc = time.Now

// BuildBurndown fetches the repository's issues and computes the burndown series.
// Any fetch or parse error aborts with no partial result.
func BuildBurndown(ctx context.Context, cfg *contract.Config, client contract.IssueClient) (*schema.BurndownResult, error) {
	if cfg.Token == "" {
		contract.LogWarn("No GitHub token configured; requests are unauthenticated and heavily rate limited", nil)
	}

	listing, err := client.ListIssues(ctx, cfg.Owner, cfg.Repo)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch issues for %s: %w", cfg.Slug(), err)
	}

	// The sprint window ends at fetch time
	now := nowFunc()
	if !shouldSuppressHeader(ctx) {
		logBurndownHeader(cfg, now)
	}
	if listing.Truncated {
		contract.LogWarn(fmt.Sprintf("Stopped after %d page(s) of issues; raise --max-pages or set it to 0 to fetch all", listing.Pages), nil)
	}

	series, err := agg.BuildSeries(listing.Issues, cfg.SprintDays, now)
	if err != nil {
		return nil, fmt.Errorf("failed to compute burndown: %w", err)
	}

	return &schema.BurndownResult{
		Owner:        cfg.Owner,
		Repo:         cfg.Repo,
		SprintDays:   cfg.SprintDays,
		GeneratedAt:  now,
		TotalIssues:  len(listing.Issues),
		ClosedIssues: agg.CountClosed(listing.Issues),
		Truncated:    listing.Truncated,
		Series:       series,
	}, nil
}

// GenerateBurndownChart runs the full pipeline and returns the result with
// ChartFile set to the saved PNG's filename. History is recorded when mgr
// holds a store; failures there are only warnings.
func GenerateBurndownChart(ctx context.Context, cfg *contract.Config, client contract.IssueClient, mgr contract.HistoryManager) (*schema.BurndownResult, error) {
	result, err := BuildBurndown(ctx, cfg, client)
	if err != nil {
		return nil, err
	}

	p, err := chart.Render(result.Series, result.Owner, result.Repo, result.GeneratedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	dir := cfg.OutputDir
	if dir == "" {
		if dir, err = chart.DefaultOutputDir(); err != nil {
			return nil, err
		}
	}
	filename, err := chart.Save(p, dir, chart.Filename(result.Owner, result.Repo, result.GeneratedAt), cfg.DPI)
	if err != nil {
		return nil, fmt.Errorf("failed to save chart: %w", err)
	}
	result.ChartFile = filename

	recordRun(mgr, result)
	return result, nil
}

// recordRun stores the run and its series without disrupting the pipeline.
func recordRun(mgr contract.HistoryManager, result *schema.BurndownResult) {
	if mgr == nil {
		return
	}
	store := mgr.GetHistoryStore()
	if store == nil {
		return
	}

	runID, err := store.BeginRun(result.Owner, result.Repo, result.SprintDays, result.GeneratedAt)
	if err != nil {
		contract.LogWarn("Run history initialization failed", err)
		return
	}
	if runID == 0 {
		return // none backend
	}
	if err := store.RecordPoints(runID, result.Series); err != nil {
		contract.LogWarn("Run history failed to record points", err)
	}
	if err := store.EndRun(runID, nowFunc(), result.TotalIssues, result.ClosedIssues, result.ChartFile); err != nil {
		contract.LogWarn("Failed to finalize run history", err)
	}
}
