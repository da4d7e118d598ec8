package history

import (
	"errors"
	"fmt"

	"github.com/huangsam/burndown/internal/contract"
	"github.com/huangsam/burndown/internal/parquet"
)

// ExecuteHistoryExport writes every recorded run and point to Parquet files
// named after outputFile.
func ExecuteHistoryExport(mgr contract.HistoryManager, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := mgr.GetHistoryStore()
	if store == nil {
		return errors.New("run history is not enabled")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no burndown runs found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total runs: %d\n", status.TotalRuns)
	fmt.Printf("Total points: %d\n", status.TableSizes[pointsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve burndown runs: %w", err)
	}
	points, err := store.GetAllPoints()
	if err != nil {
		return fmt.Errorf("failed to retrieve burndown points: %w", err)
	}

	runsFile := outputFile + "." + runsTable + ".parquet"
	if err := parquet.WriteBurndownRunsParquet(parquet.ConvertRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write burndown runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(runs), runsFile)

	pointsFile := outputFile + "." + pointsTable + ".parquet"
	if err := parquet.WriteBurndownPointsParquet(parquet.ConvertPointRecords(points), pointsFile); err != nil {
		return fmt.Errorf("failed to write burndown points: %w", err)
	}
	fmt.Printf("Exported %d points to: %s\n", len(points), pointsFile)

	return nil
}
