package schema

import "time"

// RunRecord represents a row from the burndown_runs table.
type RunRecord struct {
	RunID        int64
	Owner        string
	Repo         string
	SprintDays   int32
	StartTime    time.Time
	EndTime      *time.Time
	TotalIssues  *int32
	ClosedIssues *int32
	ChartFile    *string
}

// PointRecord represents a row from the burndown_points table.
type PointRecord struct {
	RunID  int64
	Day    int32
	Date   string
	Ideal  float64
	Actual int32
}

// HistoryStatus represents the status of the history store.
type HistoryStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	Repositories  int              `json:"repositories"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}
