package history

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/huangsam/burndown/internal/contract"
	"github.com/huangsam/burndown/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	_ "modernc.org/sqlite"             // sqlite driver
)

// Table names for run history.
const (
	runsTable   = "burndown_runs"
	pointsTable = "burndown_points"
)

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// openDB opens (but does not ping) a handle for the backend.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, string, error) {
	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetHistoryDBFilePath()
		}
		db, err := sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
		return db, "sqlite", nil
	case schema.MySQLBackend:
		mcfg, err := mysql.ParseDSN(connStr)
		if err != nil {
			return nil, "", fmt.Errorf("invalid MySQL connection string: %w", err)
		}
		// DATETIME columns scan into time.Time only with parseTime
		mcfg.ParseTime = true
		db, err := sql.Open("mysql", mcfg.FormatDSN())
		if err != nil {
			return nil, "", fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname?parseTime=true", err)
		}
		return db, "mysql", nil
	case schema.PostgreSQLBackend:
		db, err := sql.Open("pgx", connStr)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... dbname=... user=... password=...", err)
		}
		return db, "pgx", nil
	default:
		return nil, "", fmt.Errorf("unsupported backend: %s", backend)
	}
}

// NewHistoryStore creates a new HistoryStore with the specified backend
// and brings its schema up to date.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &HistoryStoreImpl{backend: backend}, nil
	}

	db, _, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w. Verify the database server is running and accessible", backend, err)
	}

	if err := migrateToLatest(db, backend, connStr); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

// disabled reports whether this store silently drops every call.
func (hs *HistoryStoreImpl) disabled() bool {
	return hs.backend == schema.NoneBackend || hs.db == nil
}

// bind rewrites ? placeholders to $n for PostgreSQL.
func (hs *HistoryStoreImpl) bind(query string) string {
	if hs.backend != schema.PostgreSQLBackend {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// BeginRun creates a new run and returns its unique ID.
func (hs *HistoryStoreImpl) BeginRun(owner, repo string, sprintDays int, startTime time.Time) (int64, error) {
	if hs.disabled() {
		return 0, nil
	}

	var runID int64
	var err error
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (owner, repo, sprint_days, start_time) VALUES ($1, $2, $3, $4) RETURNING run_id`, runsTable)
		err = hs.db.QueryRow(query, owner, repo, sprintDays, startTime).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (owner, repo, sprint_days, start_time) VALUES (?, ?, ?, ?)`, runsTable)
		var result sql.Result
		result, err = hs.db.Exec(query, owner, repo, sprintDays, formatTime(startTime, hs.backend))
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert burndown run: %w", err)
	}
	return runID, nil
}

// RecordPoints stores every day of a burndown series in one transaction.
func (hs *HistoryStoreImpl) RecordPoints(runID int64, series schema.BurndownSeries) error {
	if hs.disabled() {
		return nil
	}

	tx, err := hs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(hs.bind(fmt.Sprintf(`INSERT INTO %s (run_id, day, sprint_date, ideal, actual) VALUES (?, ?, ?, ?, ?)`, pointsTable)))
	if err != nil {
		return fmt.Errorf("failed to prepare point insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range series.Dates {
		if _, err := stmt.Exec(runID, i, series.Dates[i], series.Ideal[i], series.Actual[i]); err != nil {
			return fmt.Errorf("failed to insert point for day %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit points: %w", err)
	}
	return nil
}

// EndRun updates the run with completion data.
func (hs *HistoryStoreImpl) EndRun(runID int64, endTime time.Time, totalIssues, closedIssues int, chartFile string) error {
	if hs.disabled() {
		return nil
	}

	var chart any
	if chartFile != "" {
		chart = chartFile
	}
	query := hs.bind(fmt.Sprintf(`UPDATE %s SET end_time = ?, total_issues = ?, closed_issues = ?, chart_file = ? WHERE run_id = ?`, runsTable))
	if _, err := hs.db.Exec(query, formatTime(endTime, hs.backend), totalIssues, closedIssues, chart, runID); err != nil {
		return fmt.Errorf("failed to update burndown run: %w", err)
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if hs.disabled() {
		return status, nil
	}

	row := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runsTable))
	if err := row.Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		row = hs.db.QueryRow(fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", runsTable))
		lastID, lastTime, err := hs.scanIDAndTime(row)
		if err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		status.LastRunID = lastID
		status.LastRunTime = lastTime

		row = hs.db.QueryRow(fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id ASC LIMIT 1", runsTable))
		_, oldestTime, err := hs.scanIDAndTime(row)
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldestTime

		row = hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM (SELECT DISTINCT owner, repo FROM %s) repos", runsTable))
		if err := row.Scan(&status.Repositories); err != nil {
			return status, fmt.Errorf("failed to count repositories: %w", err)
		}
	}

	for _, table := range []string{runsTable, pointsTable} {
		var count int64
		if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	return status, nil
}

// scanIDAndTime reads a (run_id, start_time) row, handling SQLite's text timestamps.
func (hs *HistoryStoreImpl) scanIDAndTime(row *sql.Row) (int64, time.Time, error) {
	var id int64
	if hs.backend == schema.SQLiteBackend {
		var raw string
		if err := row.Scan(&id, &raw); err != nil {
			return 0, time.Time{}, err
		}
		t, err := parseTime(raw)
		return id, t, err
	}
	var t time.Time
	err := row.Scan(&id, &t)
	return id, t, err
}

// GetAllRuns retrieves all runs from the store.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if hs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, owner, repo, sprint_days, start_time, end_time, total_issues, closed_issues, chart_file FROM %s ORDER BY run_id`, runsTable)
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query burndown runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord
		switch hs.backend {
		case schema.SQLiteBackend:
			var startStr string
			var endStr *string
			if err := rows.Scan(&record.RunID, &record.Owner, &record.Repo, &record.SprintDays, &startStr, &endStr,
				&record.TotalIssues, &record.ClosedIssues, &record.ChartFile); err != nil {
				return nil, fmt.Errorf("failed to scan burndown run: %w", err)
			}
			if record.StartTime, err = parseTime(startStr); err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			if endStr != nil {
				endTime, err := parseTime(*endStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL store as native datetime
			if err := rows.Scan(&record.RunID, &record.Owner, &record.Repo, &record.SprintDays, &record.StartTime, &record.EndTime,
				&record.TotalIssues, &record.ClosedIssues, &record.ChartFile); err != nil {
				return nil, fmt.Errorf("failed to scan burndown run: %w", err)
			}
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating burndown runs: %w", err)
	}
	return results, nil
}

// GetAllPoints retrieves all points from the store.
func (hs *HistoryStoreImpl) GetAllPoints() ([]schema.PointRecord, error) {
	if hs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, day, sprint_date, ideal, actual FROM %s ORDER BY run_id, day`, pointsTable)
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query burndown points: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.PointRecord
	for rows.Next() {
		var record schema.PointRecord
		if err := rows.Scan(&record.RunID, &record.Day, &record.Date, &record.Ideal, &record.Actual); err != nil {
			return nil, fmt.Errorf("failed to scan burndown point: %w", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating burndown points: %w", err)
	}
	return results, nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return t
	}
}

// parseTime reads back a timestamp written by formatTime for SQLite.
func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
