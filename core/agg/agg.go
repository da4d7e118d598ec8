// Package agg has aggregation logic that turns fetched issues into burndown series.
package agg

import (
	"fmt"
	"sort"
	"time"

	"github.com/huangsam/burndown/schema"
)

// BuildSeries computes the ideal and actual burndown curves over the
// sprint window ending at now. The window holds sprintDays+1 calendar days
// and day i is now - sprintDays days + i days, in now's location.
//
// Every issue counts toward the total regardless of when it was opened.
// An issue counts as done on day i when its closed_at is at or before day i.
func BuildSeries(issues []schema.Issue, sprintDays int, now time.Time) (schema.BurndownSeries, error) {
	if sprintDays < 1 {
		return schema.BurndownSeries{}, fmt.Errorf("sprint days must be at least 1 (received %d)", sprintDays)
	}

	closed, err := parseClosedTimes(issues)
	if err != nil {
		return schema.BurndownSeries{}, err
	}
	sort.Slice(closed, func(i, j int) bool { return closed[i].Before(closed[j]) })

	total := len(issues)
	step := float64(total) / float64(sprintDays)
	start := now.AddDate(0, 0, -sprintDays)

	series := schema.BurndownSeries{
		Dates:  make([]string, sprintDays+1),
		Ideal:  make([]float64, sprintDays+1),
		Actual: make([]int, sprintDays+1),
	}
	for i := 0; i <= sprintDays; i++ {
		day := start.AddDate(0, 0, i)
		series.Dates[i] = day.Format(schema.DateLabelLayout)
		series.Ideal[i] = float64(total) - step*float64(i)
		series.Actual[i] = total - closedBy(closed, day)
	}
	return series, nil
}

// CountClosed returns how many issues carry a closed_at value.
func CountClosed(issues []schema.Issue) int {
	n := 0
	for _, issue := range issues {
		if isClosed(issue) {
			n++
		}
	}
	return n
}

// ParseClosedAt parses a GitHub closed_at timestamp in the fixed UTC layout.
// time.Parse accepts fractional seconds the layout does not name, so the
// value must also round-trip exactly.
func ParseClosedAt(value string) (time.Time, error) {
	t, err := time.Parse(schema.ClosedAtLayout, value)
	if err == nil && t.Format(schema.ClosedAtLayout) != value {
		err = fmt.Errorf("extra text after seconds in %q", value)
	}
	if err != nil {
		return time.Time{}, &schema.ParseError{Field: "closed_at", Value: value, Err: err}
	}
	return t, nil
}

// parseClosedTimes parses every closed_at up front so a malformed value
// aborts before any counting happens.
func parseClosedTimes(issues []schema.Issue) ([]time.Time, error) {
	closed := make([]time.Time, 0, len(issues))
	for _, issue := range issues {
		if !isClosed(issue) {
			continue
		}
		t, err := ParseClosedAt(*issue.ClosedAt)
		if err != nil {
			return nil, fmt.Errorf("issue #%d: %w", issue.Number, err)
		}
		closed = append(closed, t)
	}
	return closed, nil
}

// closedBy counts sorted close times that are at or before day.
func closedBy(sorted []time.Time, day time.Time) int {
	return sort.Search(len(sorted), func(j int) bool { return sorted[j].After(day) })
}

// isClosed treats a null or empty closed_at as still open.
func isClosed(issue schema.Issue) bool {
	return issue.ClosedAt != nil && *issue.ClosedAt != ""
}
