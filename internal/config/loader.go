package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// whitelistSet is a precomputed lookup table for fast whitelist membership checks.
var whitelistSet map[string]bool

func init() {
	whitelistSet = make(map[string]bool, len(WhitelistedVars))
	for _, v := range WhitelistedVars {
		whitelistSet[v] = true
	}
}

// envVars maps environment variables to config keys. When several variables
// feed one key the first non-empty one wins.
var envVars = []struct {
	env string
	key string
}{
	{"DEEPSEEK_BASE_URL", "API_BASE_URL"},
	{"DEEPSEEK_API_KEY", "API_KEY"},
	{"OPENAI_API_KEY", "API_KEY"},
	{"DEEPSEEK_MODEL", "MODEL"},
	{"SELFEVO_DB_PATH", "DB_PATH"},
}

// LoadFile parses a KEY=VALUE config file at the given path.
//
// Lines are processed according to these rules:
//   - Empty lines and lines starting with # are skipped.
//   - Lines without an = sign are skipped.
//   - Leading and trailing whitespace is trimmed from both key and value.
//   - Keys not present in WhitelistedVars are silently ignored.
func LoadFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	result := make(map[string]string)
	scanner := bufio.NewScanner(f)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if !whitelistSet[key] {
			continue
		}
		result[key] = unquote(strings.TrimSpace(value))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return result, nil
}

// unquote strips one pair of matching surrounding quotes.
func unquote(v string) string {
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1]
	}
	return v
}

// EnvOverrides collects config keys from the environment via getenv.
func EnvOverrides(getenv func(string) string) map[string]string {
	m := make(map[string]string)
	for _, e := range envVars {
		if _, set := m[e.key]; set {
			continue
		}
		if v := strings.TrimSpace(getenv(e.env)); v != "" {
			m[e.key] = v
		}
	}
	return m
}

// LoadWithPrecedence assembles a Config by merging sources in order of
// increasing priority:
//
//  1. Built-in defaults
//  2. Global config file (globalPath)
//  3. Project config file (projectPath)
//  4. Explicit config file (explicitPath)
//  5. Environment (env)
//  6. CLI overrides (cliOverrides map)
//
// Empty paths are skipped and missing global or project files are not an
// error. An explicit file must exist.
func LoadWithPrecedence(globalPath, projectPath, explicitPath string, env, cliOverrides map[string]string) (*Config, error) {
	cfg := NewDefaultConfig()

	for _, layer := range []struct {
		name string
		path string
	}{
		{"global", globalPath},
		{"project", projectPath},
	} {
		if layer.path == "" {
			continue
		}
		m, err := LoadFile(layer.path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("%s config: %w", layer.name, err)
		}
		ApplyMapToConfig(cfg, m)
	}

	if explicitPath != "" {
		m, err := LoadFile(explicitPath)
		if err != nil {
			return nil, fmt.Errorf("explicit config: %w", err)
		}
		ApplyMapToConfig(cfg, m)
		cfg.ConfigFile = explicitPath
	}

	ApplyMapToConfig(cfg, env)
	ApplyMapToConfig(cfg, cliOverrides)

	return cfg, nil
}

// ApplyMapToConfig sets fields on cfg from the key-value pairs in m.
// Unknown keys are silently ignored. Numeric fields that fail to parse keep
// their previous value.
func ApplyMapToConfig(cfg *Config, m map[string]string) {
	for key, value := range m {
		switch key {
		case "API_BASE_URL":
			cfg.APIBaseURL = value
		case "API_KEY":
			cfg.APIKey = value
		case "MODEL":
			cfg.Model = value
		case "TEMPERATURE":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				cfg.Temperature = v
			}
		case "DB_PATH":
			cfg.DBPath = value
		case "JOURNAL_PATH":
			cfg.JournalPath = value
		case "SCORER":
			cfg.Scorer = strings.ToLower(value)
		case "MAX_RETRY":
			if v, err := strconv.Atoi(value); err == nil {
				cfg.MaxRetry = v
			}
		case "TIMEOUT":
			if v, err := strconv.Atoi(value); err == nil {
				cfg.Timeout = v
			}
		case "VERBOSE":
			cfg.Verbose = parseBool(value)
		case "OUTPUT_FORMAT":
			cfg.OutputFormat = strings.ToLower(value)
		case "RITUAL_DAY":
			cfg.RitualDay = strings.ToLower(value)
		}
	}
}

// parseBool interprets common boolean representations.
// "true", "1", "yes" (case-insensitive) return true; everything else returns false.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}
