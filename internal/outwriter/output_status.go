package outwriter

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/huangsam/burndown/internal/contract"
	"github.com/huangsam/burndown/schema"
	"github.com/olekukonko/tablewriter"
)

// PrintHistoryStatus outputs history store status. Only text and json are meaningful here;
// csv and parquet fall back to text.
func PrintHistoryStatus(status schema.HistoryStatus, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, status)
		}, "Wrote JSON history status")
	}
	return WriteHistoryStatusText(os.Stdout, status)
}

// WriteHistoryStatusText renders status as a key/value listing plus a table of row counts.
func WriteHistoryStatusText(w io.Writer, status schema.HistoryStatus) error {
	_, _ = fmt.Fprintln(w, "📚 Run History Status")
	_, _ = fmt.Fprintf(w, "  Backend:      %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "  Connected:    %t\n", status.Connected)
	_, _ = fmt.Fprintf(w, "  Total runs:   %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "  Repositories: %d\n", status.Repositories)
	if status.TotalRuns > 0 {
		_, _ = fmt.Fprintf(w, "  Last run:     #%d at %s\n", status.LastRunID, status.LastRunTime.Format(time.RFC3339))
		_, _ = fmt.Fprintf(w, "  Oldest run:   %s\n", status.OldestRunTime.Format(time.RFC3339))
	}
	if len(status.TableSizes) == 0 {
		return nil
	}

	names := make([]string, 0, len(status.TableSizes))
	for name := range status.TableSizes {
		names = append(names, name)
	}
	sort.Strings(names)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Table", "Rows"})
	var data [][]string
	for _, name := range names {
		data = append(data, []string{name, strconv.FormatInt(status.TableSizes[name], 10)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
