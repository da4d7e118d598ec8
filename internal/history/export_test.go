package history

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/burndown/internal/contract"
	"github.com/huangsam/burndown/internal/parquet"
	"github.com/huangsam/burndown/schema"
	pq "github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteHistoryExport(t *testing.T) {
	store, err := NewHistoryStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	runID, err := store.BeginRun("octo", "demo", 2, time.Now())
	require.NoError(t, err)
	require.NoError(t, store.RecordPoints(runID, testSeries()))
	require.NoError(t, store.EndRun(runID, time.Now(), 4, 3, "chart.png"))

	mgr := &HistoryManager{store: store}
	out := filepath.Join(t.TempDir(), "export")
	require.NoError(t, ExecuteHistoryExport(mgr, out))

	runs, err := pq.ReadFile[parquet.BurndownRun](out + ".burndown_runs.parquet")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "demo", runs[0].Repo)

	points, err := pq.ReadFile[parquet.BurndownPoint](out + ".burndown_points.parquet")
	require.NoError(t, err)
	assert.Len(t, points, 3)
}

func TestExecuteHistoryExport_Errors(t *testing.T) {
	t.Run("no output file", func(t *testing.T) {
		assert.ErrorContains(t, ExecuteHistoryExport(&HistoryManager{}, ""), "--output-file")
	})

	t.Run("history disabled", func(t *testing.T) {
		assert.ErrorContains(t, ExecuteHistoryExport(&HistoryManager{}, "out"), "not enabled")
	})

	t.Run("no runs", func(t *testing.T) {
		store := &contract.MockHistoryStore{}
		store.On("GetStatus").Return(schema.HistoryStatus{Backend: "sqlite", Connected: true}, nil)
		mgr := &contract.MockHistoryManager{}
		mgr.On("GetHistoryStore").Return(store)

		assert.ErrorContains(t, ExecuteHistoryExport(mgr, "out"), "no burndown runs")
		store.AssertExpectations(t)
	})

	t.Run("status failure", func(t *testing.T) {
		store := &contract.MockHistoryStore{}
		store.On("GetStatus").Return(schema.HistoryStatus{}, errors.New("boom"))
		mgr := &contract.MockHistoryManager{}
		mgr.On("GetHistoryStore").Return(store)

		assert.ErrorContains(t, ExecuteHistoryExport(mgr, "out"), "boom")
	})
}
