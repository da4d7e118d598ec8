package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/huangsam/burndown/internal/contract"
	"github.com/huangsam/burndown/internal/github"
	"github.com/huangsam/burndown/internal/history"
	"github.com/huangsam/burndown/schema"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// envFile is read from the working directory; it never overrides set variables.
const envFile = ".env"

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:   "burndown",
	Short: "Generate sprint burndown charts from GitHub issues.",
	Long: `Burndown fetches a repository's issues from the GitHub REST API and
compares how many remain open each day against an ideal straight line.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// loadEnvFile exports .env entries that are not already in the environment.
func loadEnvFile() {
	envMap, err := godotenv.Read(envFile)
	if err != nil {
		return // missing or unreadable .env is fine
	}
	for k, v := range envMap {
		if _, exists := os.LookupEnv(k); !exists {
			_ = os.Setenv(k, v)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	loadEnvFile()

	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".burndown") // Name of config file (without extension)
		viper.SetConfigType("yaml")      // We'll use YAML format
		viper.AddConfigPath(".")         // Look in the current directory
		viper.AddConfigPath("$HOME")     // Look in the home directory
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("BURNDOWN")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// The conventional GitHub variable is accepted as a fallback
	_ = viper.BindEnv("token", "BURNDOWN_TOKEN", "GITHUB_TOKEN")

	// Set defaults in Viper
	viper.SetDefault("sprint-days", contract.DefaultSprintDays)
	viper.SetDefault("api-url", contract.DefaultAPIURL)
	viper.SetDefault("per-page", contract.DefaultPerPage)
	viper.SetDefault("max-pages", contract.DefaultMaxPages)
	viper.SetDefault("timeout", contract.DefaultTimeout)
	viper.SetDefault("dpi", contract.DefaultDPI)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("history-backend", "")
	viper.SetDefault("history-db-connect", "")
	viper.SetDefault("color", "yes")
}

// readConfig merges defaults, file, env and flags into the raw input struct.
func readConfig() error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	return nil
}

// promptForToken reads the token from the terminal when --prompt-token is set.
func promptForToken() error {
	if !viper.GetBool("prompt-token") {
		return nil
	}
	token, err := contract.PromptToken(int(os.Stdin.Fd()), os.Stderr)
	if err != nil {
		return err
	}
	input.Token = token
	return nil
}

// sharedSetup unmarshals config and runs validation for commands that fetch issues.
func sharedSetup(_ *cobra.Command, args []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := readConfig(); err != nil {
		return err
	}

	// 2. Handle positional arguments (which Viper doesn't do).
	if len(args) == 1 {
		input.RepoArg = args[0]
	}
	if err := promptForToken(); err != nil {
		return err
	}

	// 3. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	// 4. Initialize run history with validated config
	if err := history.InitHistory(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}
	return nil
}

// newIssueClient builds the GitHub client for a validated config.
func newIssueClient(c *contract.Config) contract.IssueClient {
	return github.NewClient(c, contract.NewLogger(c.Verbose))
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
