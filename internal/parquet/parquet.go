// Package parquet provides data structures and functions for exporting burndown
// series and run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/burndown/schema"
	"github.com/parquet-go/parquet-go"
)

// SeriesPoint is one day of a burndown series produced by the series command.
type SeriesPoint struct {
	Owner       string    `parquet:"owner,snappy,dict"`
	Repo        string    `parquet:"repo,snappy,dict"`
	GeneratedAt time.Time `parquet:"generated_at,snappy"`
	Day         int32     `parquet:"day,snappy"`
	Date        string    `parquet:"date,snappy"`
	Ideal       float64   `parquet:"ideal,snappy"`
	Actual      int32     `parquet:"actual,snappy"`
	Status      string    `parquet:"status,snappy,dict"`
}

// BurndownRun maps to the burndown_runs history table.
type BurndownRun struct {
	RunID      int64  `parquet:"run_id,snappy"`
	Owner      string `parquet:"owner,snappy,dict"`
	Repo       string `parquet:"repo,snappy,dict"`
	SprintDays int32  `parquet:"sprint_days,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime stays null for runs that never completed
	EndTime      *time.Time `parquet:"end_time,optional,snappy"`
	TotalIssues  *int32     `parquet:"total_issues,optional,snappy"`
	ClosedIssues *int32     `parquet:"closed_issues,optional,snappy"`
	ChartFile    *string    `parquet:"chart_file,optional,snappy"`
}

// BurndownPoint maps to the burndown_points history table.
type BurndownPoint struct {
	RunID  int64   `parquet:"run_id,snappy"`
	Day    int32   `parquet:"day,snappy"`
	Date   string  `parquet:"date,snappy"`
	Ideal  float64 `parquet:"ideal,snappy"`
	Actual int32   `parquet:"actual,snappy"`
}

// writeParquet writes rows to outputPath with a schema inferred from T's struct tags.
func writeParquet[T any](data []T, outputPath string) (err error) {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	// Close flushes the footer
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteSeriesParquet writes burndown series rows to a Parquet file.
func WriteSeriesParquet(data []SeriesPoint, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteBurndownRunsParquet writes run history rows to a Parquet file.
func WriteBurndownRunsParquet(data []BurndownRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteBurndownPointsParquet writes point history rows to a Parquet file.
func WriteBurndownPointsParquet(data []BurndownPoint, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ConvertBurndownResult flattens a result into SeriesPoint rows.
func ConvertBurndownResult(result *schema.BurndownResult) []SeriesPoint {
	points := result.Points()
	rows := make([]SeriesPoint, len(points))
	for i, p := range points {
		rows[i] = SeriesPoint{
			Owner:       result.Owner,
			Repo:        result.Repo,
			GeneratedAt: result.GeneratedAt,
			Day:         int32(p.Day),
			Date:        p.Date,
			Ideal:       p.Ideal,
			Actual:      int32(p.Actual),
			Status:      string(p.Status),
		}
	}
	return rows
}

// ConvertRunRecords converts schema.RunRecord to BurndownRun for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []BurndownRun {
	result := make([]BurndownRun, len(records))
	for i, record := range records {
		result[i] = BurndownRun{
			RunID:        record.RunID,
			Owner:        record.Owner,
			Repo:         record.Repo,
			SprintDays:   record.SprintDays,
			StartTime:    record.StartTime,
			EndTime:      record.EndTime,
			TotalIssues:  record.TotalIssues,
			ClosedIssues: record.ClosedIssues,
			ChartFile:    record.ChartFile,
		}
	}
	return result
}

// ConvertPointRecords converts schema.PointRecord to BurndownPoint for Parquet export.
func ConvertPointRecords(records []schema.PointRecord) []BurndownPoint {
	result := make([]BurndownPoint, len(records))
	for i, record := range records {
		result[i] = BurndownPoint(record)
	}
	return result
}
