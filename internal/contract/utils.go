package contract

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/burndown/schema"
	"golang.org/x/term"
)

// Color variables for console output.
var (
	AheadColor   = color.New(color.FgGreen, color.Bold) // AheadColor marks days below the ideal line.
	OnTrackColor = color.New(color.FgCyan)              // OnTrackColor marks days near the ideal line.
	BehindColor  = color.New(color.FgRed, color.Bold)   // BehindColor marks days above the ideal line.
)

// GetColorLabel returns a colored status label for console output (table).
func GetColorLabel(status schema.DayStatus) string {
	text := string(status)
	switch status {
	case schema.AheadStatus:
		return AheadColor.Sprint(text)
	case schema.BehindStatus:
		return BehindColor.Sprint(text)
	default:
		return OnTrackColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// ParseRepoArg splits an "owner/repo" argument. A trailing ".git" and a
// leading github.com host are tolerated.
func ParseRepoArg(arg string) (string, string, error) {
	s := strings.TrimSpace(arg)
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "github.com/")
	s = strings.TrimSuffix(strings.TrimSuffix(s, "/"), ".git")
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository %q: expected owner/repo", arg)
	}
	return parts[0], parts[1], nil
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr. A nil err prints msg alone.
func LogWarn(msg string, err error) {
	if err == nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warn %s\n", msg)
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for run history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".burndown_history.db"
	}
	return filepath.Join(homeDir, ".burndown_history.db")
}

// ParseBoolString parses a string into a boolean value.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// PromptToken reads an API token from the terminal without echoing it.
func PromptToken(fd int, prompt io.Writer) (string, error) {
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("cannot prompt for token: stdin is not a terminal")
	}
	_, _ = fmt.Fprint(prompt, "GitHub token: ")
	raw, err := term.ReadPassword(fd)
	_, _ = fmt.Fprintln(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}
