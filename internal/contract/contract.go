// Package contract provides interfaces and shared utilities for the burndown CLI's internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/burndown/schema"
)

// IssueClient fetches issue records from a repository hosting API.
// This allows the pipeline to be tested without network access.
type IssueClient interface {
	// ListIssues returns open and closed issues for one repository in API order.
	ListIssues(ctx context.Context, owner, repo string) (schema.IssueListing, error)
}

// HistoryManager defines the interface for managing the run history store.
// This allows the history layer to be mocked for testing.
type HistoryManager interface {
	GetHistoryStore() HistoryStore
}

// HistoryStore defines the interface for recording chart runs and their series.
type HistoryStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(owner, repo string, sprintDays int, startTime time.Time) (int64, error)

	// RecordPoints stores every day of a burndown series for a run
	RecordPoints(runID int64, series schema.BurndownSeries) error

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, totalIssues, closedIssues int, chartFile string) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns returns every recorded run ordered by ID
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllPoints returns every recorded point ordered by run and day
	GetAllPoints() ([]schema.PointRecord, error)

	// Close closes the underlying connection
	Close() error
}
