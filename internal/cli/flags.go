// Package cli provides flag binding and validation for the selfevo CLI.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/selfevo/internal/config"
	"github.com/CodexForgeBR/selfevo/internal/schedule"
)

// Accepted values for enumerated flags.
var (
	Scorers       = []string{"heuristic", "none"}
	OutputFormats = []string{"text", "json", "yaml"}
)

// flagKeys maps flags that mirror config-file keys. Only these flags feed the
// override layer of config.LoadWithPrecedence.
var flagKeys = []struct {
	flag string
	key  string
}{
	{"api-base-url", "API_BASE_URL"},
	{"model", "MODEL"},
	{"temperature", "TEMPERATURE"},
	{"db", "DB_PATH"},
	{"journal", "JOURNAL_PATH"},
	{"scorer", "SCORER"},
	{"max-retry", "MAX_RETRY"},
	{"timeout", "TIMEOUT"},
	{"verbose", "VERBOSE"},
	{"format", "OUTPUT_FORMAT"},
	{"ritual-day", "RITUAL_DAY"},
}

// BindFlags registers the global flags as persistent flags on cmd. The flags
// write into cfg; call Overrides after parsing to feed explicitly set flags
// back through the config precedence chain, then ValidateFlags.
func BindFlags(cmd *cobra.Command, cfg *config.Config) {
	d := config.NewDefaultConfig()
	flags := cmd.PersistentFlags()

	// Model endpoint
	flags.StringVar(&cfg.APIBaseURL, "api-base-url", d.APIBaseURL, "OpenAI-compatible API base URL")
	flags.StringVar(&cfg.Model, "model", d.Model, "Chat model name")
	flags.Float64Var(&cfg.Temperature, "temperature", d.Temperature, "Sampling temperature")
	flags.IntVar(&cfg.MaxRetry, "max-retry", d.MaxRetry, "Retries per model call")
	flags.IntVar(&cfg.Timeout, "timeout", d.Timeout, "Per-request timeout in seconds")

	// Scoring & storage
	flags.StringVar(&cfg.Scorer, "scorer", d.Scorer, "Fallback scorer: heuristic or none")
	flags.StringVar(&cfg.DBPath, "db", d.DBPath, "Interaction database path")
	flags.StringVar(&cfg.JournalPath, "journal", d.JournalPath, "Markdown journal of ritual reports (empty disables)")
	flags.StringVar(&cfg.RitualDay, "ritual-day", d.RitualDay, "Weekday of the weekly self-patch ritual")

	// Output
	flags.StringVarP(&cfg.OutputFormat, "format", "o", d.OutputFormat, "Output format: text, json or yaml")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", d.Verbose, "Enable debug logging")

	flags.StringVar(&cfg.ConfigFile, "config", "", "Path to additional config file")
}

// Overrides returns the config keys for every flag set explicitly on the
// command line.
func Overrides(cmd *cobra.Command) map[string]string {
	m := make(map[string]string)
	flags := cmd.Flags()
	for _, fk := range flagKeys {
		if !flags.Changed(fk.flag) {
			continue
		}
		if f := flags.Lookup(fk.flag); f != nil {
			m[fk.key] = f.Value.String()
		}
	}
	return m
}

// ValidateFlags checks the merged configuration.
func ValidateFlags(cfg *config.Config) error {
	if cfg.ConfigFile != "" {
		if _, err := os.Stat(cfg.ConfigFile); err != nil {
			return fmt.Errorf("--config: %w", err)
		}
	}

	if !contains(Scorers, cfg.Scorer) {
		return fmt.Errorf("--scorer must be one of %s, got: %s", strings.Join(Scorers, ", "), cfg.Scorer)
	}
	if !contains(OutputFormats, cfg.OutputFormat) {
		return fmt.Errorf("--format must be one of %s, got: %s", strings.Join(OutputFormats, ", "), cfg.OutputFormat)
	}
	if _, err := schedule.ParseWeekday(cfg.RitualDay); err != nil {
		return fmt.Errorf("--ritual-day: %w", err)
	}
	if cfg.MaxRetry < 0 {
		return fmt.Errorf("--max-retry must be >= 0, got: %d", cfg.MaxRetry)
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("--timeout must be > 0, got: %d", cfg.Timeout)
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		return fmt.Errorf("--temperature must be within [0,2], got: %g", cfg.Temperature)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
