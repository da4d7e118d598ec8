package contract

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/huangsam/burndown/schema"
)

// Default values for configuration.
const (
	DefaultSprintDays = 14
	MaxSprintDays     = 365
	DefaultAPIURL     = "https://api.github.com"
	DefaultPerPage    = 100
	MaxPerPage        = 100
	DefaultMaxPages   = 1
	DefaultTimeout    = "30s"
	DefaultDPI        = 300
	MinDPI            = 72
	MaxDPI            = 1200
)

// Config holds the runtime configuration for a burndown run.
// This struct is the "final, validated" config.
type Config struct {
	Owner string
	Repo  string
	Token string // Please use env var as this is plaintext

	SprintDays   int
	APIURL       string
	PerPage      int
	MaxPages     int // 0 follows every page
	Timeout      time.Duration
	ExcludePulls bool

	OutputDir string // Empty means the executable's directory
	DPI       int

	Output     schema.OutputMode
	OutputFile string
	Detail     bool

	HistoryBackend   schema.DatabaseBackend // Empty disables run history
	HistoryDBConnect string                 // Please use env var as this is plaintext

	UseColors bool // Enable colored labels in table output
	Verbose   bool // Enable debug logging on stderr
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RepoArg string

	// --- Fields from rootCmd.PersistentFlags() ---
	Owner            string `mapstructure:"owner"`
	Repo             string `mapstructure:"repo"`
	Token            string `mapstructure:"token"`
	SprintDays       int    `mapstructure:"sprint-days"`
	APIURL           string `mapstructure:"api-url"`
	PerPage          int    `mapstructure:"per-page"`
	MaxPages         int    `mapstructure:"max-pages"`
	Timeout          string `mapstructure:"timeout"`
	ExcludePulls     bool   `mapstructure:"exclude-pulls"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Detail           bool   `mapstructure:"detail"`
	Color            string `mapstructure:"color"`
	Verbose          bool   `mapstructure:"verbose"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	OutputDir        string `mapstructure:"output-dir"`
	DPI              int    `mapstructure:"dpi"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// Slug returns the owner/repo pair.
func (c *Config) Slug() string {
	return c.Owner + "/" + c.Repo
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := resolveRepository(cfg, input); err != nil {
		return err
	}
	if err := validateFetchInputs(cfg, input); err != nil {
		return err
	}
	if err := validateOutputInputs(cfg, input); err != nil {
		return err
	}
	return ValidateHistoryConfig(cfg, input)
}

// ProcessHistoryOnly validates only the history-related inputs. It is used by
// subcommands that never talk to the API.
func ProcessHistoryOnly(cfg *Config, input *ConfigRawInput) error {
	if err := validateOutputInputs(cfg, input); err != nil {
		return err
	}
	return ValidateHistoryConfig(cfg, input)
}

// ProcessServerConfig validates everything except the repository, which a
// long-running server receives per request. A repository given up front
// becomes the default.
func ProcessServerConfig(cfg *Config, input *ConfigRawInput) error {
	if input.RepoArg != "" || input.Owner != "" || input.Repo != "" {
		if err := resolveRepository(cfg, input); err != nil {
			return err
		}
	}
	if err := validateFetchInputs(cfg, input); err != nil {
		return err
	}
	if err := validateOutputInputs(cfg, input); err != nil {
		return err
	}
	return ValidateHistoryConfig(cfg, input)
}

// RevalidateRequest applies per-request overrides to a cloned config.
// An empty repoArg or zero sprintDays keeps the value already in cfg.
func RevalidateRequest(cfg *Config, repoArg string, sprintDays int) error {
	if repoArg != "" {
		owner, repo, err := ParseRepoArg(repoArg)
		if err != nil {
			return err
		}
		cfg.Owner, cfg.Repo = owner, repo
	}
	if cfg.Owner == "" || cfg.Repo == "" {
		return fmt.Errorf("repository is required: pass owner/repo")
	}
	if sprintDays != 0 {
		if sprintDays < 1 || sprintDays > MaxSprintDays {
			return fmt.Errorf("sprint-days must be between 1 and %d (received %d)", MaxSprintDays, sprintDays)
		}
		cfg.SprintDays = sprintDays
	}
	return nil
}

// resolveRepository picks owner and repo from the positional argument or the flags.
func resolveRepository(cfg *Config, input *ConfigRawInput) error {
	owner, repo := strings.TrimSpace(input.Owner), strings.TrimSpace(input.Repo)
	if input.RepoArg != "" {
		var err error
		if owner, repo, err = ParseRepoArg(input.RepoArg); err != nil {
			return err
		}
	}
	if owner == "" || repo == "" {
		return fmt.Errorf("repository is required: pass owner/repo or set --owner and --repo")
	}
	if strings.Contains(owner, "/") || strings.Contains(repo, "/") {
		return fmt.Errorf("owner and repo must not contain '/' (received %q and %q)", owner, repo)
	}
	cfg.Owner = owner
	cfg.Repo = repo
	return nil
}

// validateFetchInputs handles everything the fetcher and aggregator depend on.
func validateFetchInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Token = strings.TrimSpace(input.Token)
	cfg.ExcludePulls = input.ExcludePulls
	cfg.Verbose = input.Verbose

	// --- 1. Sprint length ---
	if input.SprintDays < 1 || input.SprintDays > MaxSprintDays {
		return fmt.Errorf("sprint-days must be between 1 and %d (received %d)", MaxSprintDays, input.SprintDays)
	}
	cfg.SprintDays = input.SprintDays

	// --- 2. API URL ---
	apiURL := strings.TrimRight(strings.TrimSpace(input.APIURL), "/")
	parsed, err := url.Parse(apiURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("api-url must be an absolute http(s) URL (received %q)", input.APIURL)
	}
	cfg.APIURL = apiURL

	// --- 3. Paging ---
	if input.PerPage < 1 || input.PerPage > MaxPerPage {
		return fmt.Errorf("per-page must be between 1 and %d (received %d)", MaxPerPage, input.PerPage)
	}
	cfg.PerPage = input.PerPage
	if input.MaxPages < 0 {
		return fmt.Errorf("max-pages cannot be negative (received %d)", input.MaxPages)
	}
	cfg.MaxPages = input.MaxPages

	// --- 4. Timeout ---
	timeout, err := time.ParseDuration(input.Timeout)
	if err != nil {
		return fmt.Errorf("invalid timeout %q: %w", input.Timeout, err)
	}
	if timeout <= 0 {
		return fmt.Errorf("timeout must be positive (received %s)", timeout)
	}
	cfg.Timeout = timeout

	return nil
}

// validateOutputInputs handles output format, chart and color options.
func validateOutputInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.OutputDir = input.OutputDir
	cfg.Detail = input.Detail
	cfg.Verbose = input.Verbose

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	if input.DPI < MinDPI || input.DPI > MaxDPI {
		return fmt.Errorf("dpi must be between %d and %d (received %d)", MinDPI, MaxDPI, input.DPI)
	}
	cfg.DPI = input.DPI

	return nil
}

// ValidateHistoryConfig validates the run history backend configuration.
func ValidateHistoryConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(input.HistoryBackend)))
	if cfg.HistoryBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	return ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}
