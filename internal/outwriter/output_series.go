package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/huangsam/burndown/internal/contract"
	"github.com/huangsam/burndown/internal/parquet"
	"github.com/huangsam/burndown/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintSeriesResults outputs a burndown series, dispatching based on the output format configured.
func PrintSeriesResults(result *schema.BurndownResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.ParquetOut:
		if err := parquet.WriteSeriesParquet(parquet.ConvertBurndownResult(result), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote parquet burndown series to %s\n", cfg.OutputFile)
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON burndown series"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteSeriesCSV(w, result)
		}, "Wrote CSV burndown series"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteSeriesTable(w, result, cfg, duration)
		}, "Wrote burndown table"); err != nil {
			return fmt.Errorf("error writing series table output: %w", err)
		}
	}
	return nil
}

// WriteSeriesCSV writes one row per sprint day.
func WriteSeriesCSV(w io.Writer, result *schema.BurndownResult) error {
	header := []string{"day", "date", "ideal", "actual", "status"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, p := range result.Points() {
			row := []string{
				strconv.Itoa(p.Day),
				p.Date,
				fmtFloat(p.Ideal, idealPrecision),
				strconv.Itoa(p.Actual),
				string(p.Status),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteSeriesTable prints the series in a five-column table followed by a summary line.
// A zero duration omits the timing from the summary.
func WriteSeriesTable(w io.Writer, result *schema.BurndownResult, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)

	// --- 1. Define Headers ---
	table.Header([]string{"Day", "Date", "Ideal", "Actual", "Status"})

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// --- 3. Prepare Data Rows ---
	var data [][]string
	for _, p := range result.Points() {
		label := string(p.Status)
		if cfg.UseColors {
			label = contract.GetColorLabel(p.Status)
		}
		data = append(data, []string{
			strconv.Itoa(p.Day),
			p.Date,
			fmtFloat(p.Ideal, idealPrecision),
			strconv.Itoa(p.Actual),
			label,
		})
	}

	// --- 4. Render the table ---
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	summary := fmt.Sprintf("%d of %d issues closed over a %d-day sprint.", result.ClosedIssues, result.TotalIssues, result.SprintDays)
	if duration > 0 {
		summary = fmt.Sprintf("Burndown computed in %v. %s", duration, summary)
	}
	if result.Truncated {
		summary += " Listing was truncated by the page cap."
	}
	_, err := fmt.Fprintln(w, summary)
	return err
}
