package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/burndown/internal/contract"
	"github.com/huangsam/burndown/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *schema.BurndownResult {
	return &schema.BurndownResult{
		Owner:        "octocat",
		Repo:         "hello-world",
		SprintDays:   2,
		GeneratedAt:  time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
		TotalIssues:  4,
		ClosedIssues: 3,
		Series: schema.BurndownSeries{
			Dates:  []string{"2024-03-13", "2024-03-14", "2024-03-15"},
			Ideal:  []float64{4, 2, 0},
			Actual: []int{4, 1, 1},
		},
	}
}

func TestWriteSeriesTable(t *testing.T) {
	cfg := &contract.Config{Output: schema.TextOut, UseColors: false}

	var buf bytes.Buffer
	require.NoError(t, WriteSeriesTable(&buf, sampleResult(), cfg, 150*time.Millisecond))

	output := buf.String()
	for _, want := range []string{"DAY", "DATE", "IDEAL", "ACTUAL", "STATUS", "2024-03-13", "4.00", "2.00", "0.00", "Ahead", "Behind", "On Track"} {
		assert.Contains(t, output, want)
	}
	assert.Contains(t, output, "Burndown computed in 150ms. 3 of 4 issues closed over a 2-day sprint.")
	assert.NotContains(t, output, "truncated")
}

func TestWriteSeriesTableTruncatedNoDuration(t *testing.T) {
	result := sampleResult()
	result.Truncated = true

	var buf bytes.Buffer
	require.NoError(t, WriteSeriesTable(&buf, result, &contract.Config{}, 0))
	assert.NotContains(t, buf.String(), "computed in")
	assert.Contains(t, buf.String(), "truncated by the page cap")
}

func TestWriteSeriesCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSeriesCSV(&buf, sampleResult()))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"day", "date", "ideal", "actual", "status"}, records[0])
	assert.Equal(t, []string{"0", "2024-03-13", "4.00", "4", "On Track"}, records[1])
	assert.Equal(t, []string{"1", "2024-03-14", "2.00", "1", "Ahead"}, records[2])
	assert.Equal(t, []string{"2", "2024-03-15", "0.00", "1", "Behind"}, records[3])
}

func TestPrintSeriesResultsJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "series.json")
	cfg := &contract.Config{Output: schema.JSONOut, OutputFile: path}
	require.NoError(t, PrintSeriesResults(sampleResult(), cfg, time.Second))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded schema.BurndownResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "octocat", decoded.Owner)
	assert.Equal(t, []int{4, 1, 1}, decoded.Series.Actual)
	assert.Equal(t, 3, decoded.ClosedIssues)
}

func TestPrintSeriesResultsCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "series.csv")
	cfg := &contract.Config{Output: schema.CSVOut, OutputFile: path}
	require.NoError(t, NewOutWriter().WriteSeries(sampleResult(), cfg, 0))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "day,date,ideal,actual,status\n"))
}

func TestPrintSeriesResultsParquetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "series.parquet")
	cfg := &contract.Config{Output: schema.ParquetOut, OutputFile: path}
	require.NoError(t, PrintSeriesResults(sampleResult(), cfg, 0))
	assert.FileExists(t, path)
}

func TestPrintSeriesResultsBadPath(t *testing.T) {
	cfg := &contract.Config{Output: schema.CSVOut, OutputFile: filepath.Join(t.TempDir(), "missing", "x.csv")}
	assert.Error(t, PrintSeriesResults(sampleResult(), cfg, 0))
}
