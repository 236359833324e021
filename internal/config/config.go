// Package config defines the selfevo configuration model and default values.
//
// Configuration is assembled from multiple sources with a strict precedence
// chain: built-in defaults < global config file < project config file <
// explicit config file < environment < CLI flag overrides.
package config

import (
	"path/filepath"
	"time"
)

// WhitelistedVars lists every configuration variable name that may appear in
// config files. Variables not in this list are silently ignored during loading.
var WhitelistedVars = [12]string{
	"API_BASE_URL",
	"API_KEY",
	"MODEL",
	"TEMPERATURE",
	"DB_PATH",
	"SCORER",
	"MAX_RETRY",
	"TIMEOUT",
	"VERBOSE",
	"OUTPUT_FORMAT",
	"RITUAL_DAY",
	"JOURNAL_PATH",
}

// Default file locations, relative to the home directory and the working
// directory respectively.
const (
	GlobalConfigPath  = ".config/selfevo/config"
	ProjectConfigPath = ".selfevo/config"
	DefaultDBPath     = ".selfevo/interactions.db"
	DefaultJournal    = ".selfevo/patches.md"
)

// Config holds every configuration field for the selfevo CLI.
type Config struct {
	// Model endpoint.
	APIBaseURL  string
	APIKey      string
	Model       string
	Temperature float64

	// Persistence.
	DBPath      string
	JournalPath string

	// Scoring fallback: "heuristic" or "none".
	Scorer string

	// Model call policy.
	MaxRetry int
	// Timeout is the per-request timeout in seconds.
	Timeout int

	// RitualDay names the weekday of the weekly self-patch ritual.
	RitualDay string

	// Output.
	Verbose      bool
	OutputFormat string

	// CLI-only (not loaded from config files).
	ConfigFile string
}

// NewDefaultConfig returns a Config populated with all built-in default values.
func NewDefaultConfig() *Config {
	return &Config{
		APIBaseURL:   "https://api.deepseek.com/v1",
		Model:        "deepseek-chat",
		Temperature:  0.7,
		DBPath:       DefaultDBPath,
		JournalPath:  DefaultJournal,
		Scorer:       "heuristic",
		MaxRetry:     3,
		Timeout:      120,
		OutputFormat: "text",
		RitualDay:    "monday",
	}
}

// RequestTimeout returns Timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// GlobalPath returns the global config file location under home, or "" when
// home is unknown.
func GlobalPath(home string) string {
	if home == "" {
		return ""
	}
	return filepath.Join(home, GlobalConfigPath)
}
