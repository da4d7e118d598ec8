package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/burndown/internal/chart"
	"github.com/huangsam/burndown/internal/contract"
	"github.com/huangsam/burndown/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

// useFixedClock pins nowFunc for the duration of a test.
func useFixedClock(t *testing.T) {
	t.Helper()
	nowFunc = func() time.Time { return fixedNow }
	t.Cleanup(func() { nowFunc = time.Now })
}

// makeIssues builds n issues, the first len(closedAt) of them closed.
func makeIssues(n int, closedAt ...string) []schema.Issue {
	issues := make([]schema.Issue, n)
	for i := range issues {
		issues[i] = schema.Issue{Number: i + 1, Title: fmt.Sprintf("issue %d", i+1), State: "open"}
		if i < len(closedAt) {
			v := closedAt[i]
			issues[i].ClosedAt = &v
			issues[i].State = "closed"
		}
	}
	return issues
}

func testConfig(t *testing.T) *contract.Config {
	return &contract.Config{
		Owner:      "octo",
		Repo:       "demo",
		Token:      "test-token",
		SprintDays: 14,
		OutputDir:  t.TempDir(),
		DPI:        72,
		Output:     schema.TextOut,
	}
}

func mockClient(listing schema.IssueListing, err error) *contract.MockIssueClient {
	client := &contract.MockIssueClient{}
	client.On("ListIssues", mock.Anything, "octo", "demo").Return(listing, err)
	return client
}

func TestBuildBurndown(t *testing.T) {
	useFixedClock(t)
	cfg := testConfig(t)
	issues := makeIssues(10, "2024-03-02T10:00:00Z", "2024-03-03T10:00:00Z", "2024-03-04T10:00:00Z")
	client := mockClient(schema.IssueListing{Issues: issues, Pages: 1}, nil)

	result, err := BuildBurndown(WithSuppressHeader(context.Background()), cfg, client)
	require.NoError(t, err)
	client.AssertExpectations(t)

	assert.Equal(t, "octo", result.Owner)
	assert.Equal(t, "demo", result.Repo)
	assert.Equal(t, 14, result.SprintDays)
	assert.Equal(t, fixedNow, result.GeneratedAt)
	assert.Equal(t, 10, result.TotalIssues)
	assert.Equal(t, 3, result.ClosedIssues)
	assert.False(t, result.Truncated)
	assert.Equal(t, 15, result.Series.Len())
	assert.Equal(t, 7, result.Series.Actual[5])
	assert.Equal(t, 10.0, result.Series.Ideal[0])
	assert.Equal(t, "2024-03-15", result.Series.Dates[14])
}

func TestBuildBurndown_Truncated(t *testing.T) {
	useFixedClock(t)
	client := mockClient(schema.IssueListing{Issues: makeIssues(2), Pages: 1, Truncated: true}, nil)

	result, err := BuildBurndown(WithSuppressHeader(context.Background()), testConfig(t), client)
	require.NoError(t, err)
	assert.True(t, result.Truncated)
}

func TestBuildBurndown_Errors(t *testing.T) {
	tests := []struct {
		name    string
		listing schema.IssueListing
		err     error
		check   func(t *testing.T, err error)
	}{
		{
			name: "not found",
			err:  &schema.HTTPError{StatusCode: 404, URL: "https://api.github.com/repos/octo/demo/issues", Message: "Not Found"},
			check: func(t *testing.T, err error) {
				var httpErr *schema.HTTPError
				require.ErrorAs(t, err, &httpErr)
				assert.Equal(t, 404, httpErr.StatusCode)
			},
		},
		{
			name: "unauthorized",
			err:  &schema.HTTPError{StatusCode: 401, URL: "https://api.github.com/repos/octo/demo/issues", Message: "Bad credentials"},
			check: func(t *testing.T, err error) {
				var httpErr *schema.HTTPError
				require.ErrorAs(t, err, &httpErr)
				assert.Contains(t, err.Error(), "Bad credentials")
			},
		},
		{
			name: "network",
			err:  &schema.NetworkError{URL: "https://api.github.com", Err: context.DeadlineExceeded},
			check: func(t *testing.T, err error) {
				var netErr *schema.NetworkError
				require.ErrorAs(t, err, &netErr)
				assert.ErrorIs(t, err, context.DeadlineExceeded)
			},
		},
		{
			name:    "malformed closed_at",
			listing: schema.IssueListing{Issues: makeIssues(3, "2024-03-02 10:00:00"), Pages: 1},
			check: func(t *testing.T, err error) {
				var parseErr *schema.ParseError
				require.ErrorAs(t, err, &parseErr)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useFixedClock(t)
			result, err := BuildBurndown(WithSuppressHeader(context.Background()), testConfig(t), mockClient(tt.listing, tt.err))
			assert.Nil(t, result)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestGenerateBurndownChart(t *testing.T) {
	useFixedClock(t)
	cfg := testConfig(t)
	issues := makeIssues(4, "2024-03-05T00:00:00Z", "2024-03-10T00:00:00Z")
	client := mockClient(schema.IssueListing{Issues: issues, Pages: 1}, nil)

	store := &contract.MockHistoryStore{}
	store.On("BeginRun", "octo", "demo", 14, fixedNow).Return(int64(7), nil)
	store.On("RecordPoints", int64(7), mock.AnythingOfType("schema.BurndownSeries")).Return(nil)
	store.On("EndRun", int64(7), fixedNow, 4, 2, "burndown_chart_octo_demo_2024-03-15_12-00-00.png").Return(nil)
	mgr := &contract.MockHistoryManager{}
	mgr.On("GetHistoryStore").Return(store)

	result, err := GenerateBurndownChart(WithSuppressHeader(context.Background()), cfg, client, mgr)
	require.NoError(t, err)
	assert.Equal(t, "burndown_chart_octo_demo_2024-03-15_12-00-00.png", result.ChartFile)

	info, err := os.Stat(filepath.Join(cfg.OutputDir, result.ChartFile))
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
	store.AssertExpectations(t)
}

func TestGenerateBurndownChart_ZeroIssues(t *testing.T) {
	useFixedClock(t)
	cfg := testConfig(t)
	client := mockClient(schema.IssueListing{Pages: 1}, nil)

	result, err := GenerateBurndownChart(WithSuppressHeader(context.Background()), cfg, client, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalIssues)
	for i := range result.Series.Ideal {
		assert.Zero(t, result.Series.Ideal[i])
		assert.Zero(t, result.Series.Actual[i])
	}
	assert.FileExists(t, filepath.Join(cfg.OutputDir, chart.Filename("octo", "demo", fixedNow)))
}

func TestGenerateBurndownChart_NoFileOnError(t *testing.T) {
	tests := []struct {
		name    string
		listing schema.IssueListing
		err     error
	}{
		{name: "http 404", err: &schema.HTTPError{StatusCode: 404, URL: "u", Message: "Not Found"}},
		{name: "http 401", err: &schema.HTTPError{StatusCode: 401, URL: "u", Message: "Bad credentials"}},
		{name: "parse error", listing: schema.IssueListing{Issues: makeIssues(2, "yesterday"), Pages: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useFixedClock(t)
			cfg := testConfig(t)
			mgr := &contract.MockHistoryManager{}

			_, err := GenerateBurndownChart(WithSuppressHeader(context.Background()), cfg, mockClient(tt.listing, tt.err), mgr)
			require.Error(t, err)

			entries, readErr := os.ReadDir(cfg.OutputDir)
			require.NoError(t, readErr)
			assert.Empty(t, entries)
			mgr.AssertNotCalled(t, "GetHistoryStore")
		})
	}
}

func TestGenerateBurndownChart_HistoryFailureIsNotFatal(t *testing.T) {
	useFixedClock(t)
	cfg := testConfig(t)
	client := mockClient(schema.IssueListing{Issues: makeIssues(1), Pages: 1}, nil)

	store := &contract.MockHistoryStore{}
	store.On("BeginRun", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(int64(0), errors.New("database is locked"))
	mgr := &contract.MockHistoryManager{}
	mgr.On("GetHistoryStore").Return(store)

	result, err := GenerateBurndownChart(WithSuppressHeader(context.Background()), cfg, client, mgr)
	require.NoError(t, err)
	assert.NotEmpty(t, result.ChartFile)
	store.AssertNotCalled(t, "RecordPoints", mock.Anything, mock.Anything)
}

func TestGenerateBurndownChart_MissingOutputDir(t *testing.T) {
	useFixedClock(t)
	cfg := testConfig(t)
	cfg.OutputDir = filepath.Join(cfg.OutputDir, "missing")
	client := mockClient(schema.IssueListing{Pages: 1}, nil)

	_, err := GenerateBurndownChart(WithSuppressHeader(context.Background()), cfg, client, nil)
	var writeErr *schema.WriteError
	require.ErrorAs(t, err, &writeErr)
}

func TestExecuteBurndownChart(t *testing.T) {
	useFixedClock(t)
	cfg := testConfig(t)
	cfg.Detail = true
	client := mockClient(schema.IssueListing{Issues: makeIssues(3, "2024-03-10T00:00:00Z"), Pages: 1}, nil)

	require.NoError(t, ExecuteBurndownChart(context.Background(), cfg, client, nil))
	assert.FileExists(t, filepath.Join(cfg.OutputDir, chart.Filename("octo", "demo", fixedNow)))
}

func TestExecuteBurndownSeries(t *testing.T) {
	useFixedClock(t)
	cfg := testConfig(t)
	cfg.Output = schema.JSONOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "series.json")
	client := mockClient(schema.IssueListing{Issues: makeIssues(2, "2024-03-14T00:00:00Z"), Pages: 1}, nil)

	require.NoError(t, ExecuteBurndownSeries(context.Background(), cfg, client))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	var decoded schema.BurndownResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 2, decoded.TotalIssues)
	assert.Equal(t, 1, decoded.ClosedIssues)
	assert.Equal(t, []int{2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 1, 1}, decoded.Series.Actual)

	// No chart is written by the series command
	entries, err := os.ReadDir(cfg.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestShouldSuppressHeader(t *testing.T) {
	assert.False(t, shouldSuppressHeader(context.Background()))
	assert.True(t, shouldSuppressHeader(WithSuppressHeader(context.Background())))
	ctx := context.WithValue(context.Background(), suppressHeaderKey, "yes")
	assert.False(t, shouldSuppressHeader(ctx))
}
