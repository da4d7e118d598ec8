// Package schema has models, errors and constants for all parts of burndown.
package schema

import (
	"encoding/json"
	"time"
)

// Issue is the subset of a GitHub issue that burndown cares about.
// ClosedAt stays a raw string so the aggregator can reject malformed values
// instead of the JSON decoder doing it.
type Issue struct {
	Number      int              `json:"number"`
	Title       string           `json:"title"`
	State       string           `json:"state"`
	ClosedAt    *string          `json:"closed_at"`
	PullRequest *json.RawMessage `json:"pull_request,omitempty"`
}

// IsPullRequest reports whether the issues endpoint returned a pull request.
func (i Issue) IsPullRequest() bool {
	return i.PullRequest != nil
}

// BurndownSeries holds the three aligned sequences of a burndown chart.
// All slices have length SprintDays+1.
type BurndownSeries struct {
	Dates  []string  `json:"dates"`
	Ideal  []float64 `json:"ideal"`
	Actual []int     `json:"actual"`
}

// Len returns the number of days in the series.
func (s BurndownSeries) Len() int {
	return len(s.Dates)
}

// BurndownPoint is one day of a burndown series, flattened for output.
type BurndownPoint struct {
	Day    int       `json:"day"`
	Date   string    `json:"date"`
	Ideal  float64   `json:"ideal"`
	Actual int       `json:"actual"`
	Status DayStatus `json:"status"`
}

// BurndownResult is everything produced by one fetch and aggregate pass.
type BurndownResult struct {
	Owner        string         `json:"owner"`
	Repo         string         `json:"repo"`
	SprintDays   int            `json:"sprint_days"`
	GeneratedAt  time.Time      `json:"generated_at"`
	TotalIssues  int            `json:"total_issues"`
	ClosedIssues int            `json:"closed_issues"`
	Truncated    bool           `json:"truncated"`
	Series       BurndownSeries `json:"series"`
	ChartFile    string         `json:"chart_file,omitempty"`
}

// Points flattens the series into per-day rows.
func (r *BurndownResult) Points() []BurndownPoint {
	points := make([]BurndownPoint, 0, r.Series.Len())
	for i := range r.Series.Dates {
		points = append(points, BurndownPoint{
			Day:    i,
			Date:   r.Series.Dates[i],
			Ideal:  r.Series.Ideal[i],
			Actual: r.Series.Actual[i],
			Status: ClassifyDay(r.Series.Ideal[i], r.Series.Actual[i]),
		})
	}
	return points
}

// StatusTolerance is how far actual may drift from ideal and still be on track.
const StatusTolerance = 0.5

// ClassifyDay compares remaining work against the ideal line.
func ClassifyDay(ideal float64, actual int) DayStatus {
	a := float64(actual)
	switch {
	case a < ideal-StatusTolerance:
		return AheadStatus
	case a > ideal+StatusTolerance:
		return BehindStatus
	default:
		return OnTrackStatus
	}
}

// IssueListing is the result of fetching issues, including whether the
// page cap cut the listing short.
type IssueListing struct {
	Issues    []Issue
	Pages     int
	Truncated bool
}
