// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the variable [Load] reads the config path
// from.
const EnvironmentVariable = "LUMEN_CONFIG"

// Config is the master configuration for lumen.
type Config struct {
	// API configures the stats API client.
	API APIConfig `yaml:"api"`

	// Dashboard configures what the dashboard shows and how often it
	// refreshes.
	Dashboard DashboardConfig `yaml:"dashboard"`

	// State configures client-local persisted state.
	State StateConfig `yaml:"state"`

	// Logging configures diagnostic output.
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the stats API client.
type APIConfig struct {
	// BaseURL is the scheme and host of the analytics server. Requests
	// go to {BaseURL}/api/stats/{site}/{resource}.
	// Default: http://localhost:8000
	BaseURL string `yaml:"base_url"`

	// Token is sent as a bearer token when non-empty. Usually written
	// as ${LUMEN_TOKEN} so the secret stays in the environment.
	Token string `yaml:"token"`

	// Timeout bounds each HTTP request, as a Go duration string.
	// Default: 10s
	Timeout string `yaml:"timeout"`

	// RequestsPerSecond caps the client request rate. Zero disables
	// the limit.
	// Default: 5
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// DashboardConfig configures the dashboard view.
type DashboardConfig struct {
	// Site is the site domain whose stats are shown.
	Site string `yaml:"site"`

	// Period is the initial reporting window: realtime, day, 7d, 30d,
	// month, 6mo, 12mo.
	// Default: 30d
	Period string `yaml:"period"`

	// PollInterval is how often the realtime view refreshes, as a Go
	// duration string.
	// Default: 30s
	PollInterval string `yaml:"poll_interval"`

	// CompactWidth is the terminal width in columns at or below which
	// active filters always collapse into the dropdown.
	// Default: 100
	CompactWidth int `yaml:"compact_width"`

	// PanelRows is how many rows the Top Sources panel shows before
	// "see more".
	// Default: 9
	PanelRows int `yaml:"panel_rows"`

	// MissingBaseline decides the conversion rate of a row that has no
	// baseline counterpart: "omit" leaves the rate out, "zero" shows 0%.
	// Default: omit
	MissingBaseline string `yaml:"missing_baseline"`
}

// StateConfig configures client-local persisted state.
type StateConfig struct {
	// Path is the SQLite database holding preferences such as the
	// selected sources tab per site.
	// Default: ${XDG_STATE_HOME:-${HOME}/.local/state}/lumen/prefs.db
	Path string `yaml:"path"`
}

// LoggingConfig configures diagnostic output.
type LoggingConfig struct {
	// Level is the minimum level logged: debug, info, warn, error.
	// Default: warn
	Level string `yaml:"level"`
}

// Periods lists the reporting windows accepted by the stats API.
var Periods = []string{"realtime", "day", "7d", "30d", "month", "6mo", "12mo", "custom"}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:           "http://localhost:8000",
			Timeout:           "10s",
			RequestsPerSecond: 5,
		},
		Dashboard: DashboardConfig{
			Period:          "30d",
			PollInterval:    "30s",
			CompactWidth:    100,
			PanelRows:       9,
			MissingBaseline: "omit",
		},
		State: StateConfig{
			Path: "${XDG_STATE_HOME:-${HOME}/.local/state}/lumen/prefs.db",
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// Load reads the file named by LUMEN_CONFIG. With the variable unset it
// returns the expanded defaults.
func Load() (*Config, error) {
	path := os.Getenv(EnvironmentVariable)
	if path == "" {
		cfg := Default()
		cfg.expandVariables()
		return cfg, nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from path over the defaults. Fields the
// file leaves out keep their default values.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.expandVariables()

	return cfg, nil
}

// loadFile merges YAML from the given path into the config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in the
// state path and the API token.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.State.Path = expandVars(c.State.Path, vars)
	c.API.Token = expandVars(c.API.Token, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-((?:[^{}]|\$\{[^}]*\})*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns. A default may
// itself hold one level of ${VAR} references.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return expandVars(defaultValue, vars)
	})
}

// RequestTimeout returns the parsed API timeout. Call after Validate.
func (c *Config) RequestTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.API.Timeout)
	return timeout
}

// PollEvery returns the parsed poll interval. Call after Validate.
func (c *Config) PollEvery() time.Duration {
	interval, _ := time.ParseDuration(c.Dashboard.PollInterval)
	return interval
}

// LogLevel returns the configured slog level. Call after Validate.
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return slog.LevelWarn
	}
	return level
}

// Validate checks the configuration for errors. Every problem is
// reported, not just the first.
func (c *Config) Validate() error {
	var errs []error

	if c.API.BaseURL == "" {
		errs = append(errs, fmt.Errorf("api.base_url is required"))
	} else if parsed, err := url.Parse(c.API.BaseURL); err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		errs = append(errs, fmt.Errorf("api.base_url must be an http or https URL, got %q", c.API.BaseURL))
	}

	if timeout, err := time.ParseDuration(c.API.Timeout); err != nil || timeout <= 0 {
		errs = append(errs, fmt.Errorf("api.timeout must be a positive duration, got %q", c.API.Timeout))
	}

	if c.API.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("api.requests_per_second must not be negative, got %v", c.API.RequestsPerSecond))
	}

	if !contains(Periods, c.Dashboard.Period) {
		errs = append(errs, fmt.Errorf("dashboard.period must be one of: %v", Periods))
	}

	if interval, err := time.ParseDuration(c.Dashboard.PollInterval); err != nil || interval < time.Second {
		errs = append(errs, fmt.Errorf("dashboard.poll_interval must be a duration of at least 1s, got %q", c.Dashboard.PollInterval))
	}

	if c.Dashboard.CompactWidth < 0 {
		errs = append(errs, fmt.Errorf("dashboard.compact_width must not be negative, got %d", c.Dashboard.CompactWidth))
	}

	if c.Dashboard.PanelRows < 1 {
		errs = append(errs, fmt.Errorf("dashboard.panel_rows must be at least 1, got %d", c.Dashboard.PanelRows))
	}

	missingValues := []string{"omit", "zero"}
	if !contains(missingValues, c.Dashboard.MissingBaseline) {
		errs = append(errs, fmt.Errorf("dashboard.missing_baseline must be one of: %v", missingValues))
	}

	levels := []string{"debug", "info", "warn", "error"}
	if !contains(levels, c.Logging.Level) {
		errs = append(errs, fmt.Errorf("logging.level must be one of: %v", levels))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
