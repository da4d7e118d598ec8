package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for run history.
	DatabaseBackend string

	// DayStatus represents how a sprint day compares to the ideal line.
	DayStatus string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default when history is enabled
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All day statuses supported.
const (
	AheadStatus   DayStatus = "Ahead"
	OnTrackStatus DayStatus = "On Track"
	BehindStatus  DayStatus = "Behind"
)

// Timestamp layouts shared by the fetcher, aggregator and persister.
const (
	ClosedAtLayout  = "2006-01-02T15:04:05Z" // GitHub closed_at
	DateLabelLayout = "2006-01-02"           // x-axis tick labels
	CreatedLayout   = "2006-01-02 15:04:05"  // chart title
	FileStampLayout = "2006-01-02_15-04-05"  // PNG filename suffix
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
