// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a YAML file and EXECDASH_ environment variables on top.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Source kinds accepted by Config.Source.
const (
	SourceSheets = "sheets"
	SourceXLSX   = "xlsx"
)

// DefaultWorksheets lists the worksheets fetched on every load cycle.
var DefaultWorksheets = []string{ //nolint:gochecknoglobals // default worksheet set
	"Project Inventory",
	"Project Risks",
	"Pipeline",
	"Team Utilization",
	"Talent Gaps",
	"Operational Gaps",
	"Executive Activity",
	"Scenario Model Inputs",
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Source selects the spreadsheet backend: sheets or xlsx.
	Source string `koanf:"source"`

	// SpreadsheetID and CredentialsFile configure the Google Sheets backend.
	SpreadsheetID   string `koanf:"spreadsheet_id"`
	CredentialsFile string `koanf:"credentials_file"`

	// XLSXPath points at a local workbook for the xlsx backend.
	XLSXPath string `koanf:"xlsx_path"`

	// WatchSource triggers a refresh whenever the local workbook changes.
	WatchSource bool `koanf:"watch_source"`

	// Worksheets names the tables fetched on each load cycle.
	Worksheets []string `koanf:"worksheets"`

	// RefreshIntervalSec schedules periodic refreshes; 0 disables them.
	RefreshIntervalSec int `koanf:"refresh_interval_sec"`

	// FetchTimeoutSec bounds each worksheet fetch attempt.
	FetchTimeoutSec int `koanf:"fetch_timeout_sec"`

	// FetchRetries is the number of attempts per worksheet.
	FetchRetries int `koanf:"fetch_retries"`

	// QueueSize bounds pending refresh requests.
	QueueSize int `koanf:"queue_size"`

	// HistorySize is the number of snapshots kept for GET /snapshots.
	HistorySize int `koanf:"history_size"`

	// LLMModel and LLMAPIKey configure the Gemini-backed assistant.
	// An empty key leaves the assistant in direct-answer-only mode.
	LLMModel  string `koanf:"llm_model"`
	LLMAPIKey string `koanf:"llm_api_key"`

	// MetricsEnabled turns Prometheus collection on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`
}

// New creates a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		Source:             SourceXLSX,
		XLSXPath:           "dashboard.xlsx",
		Worksheets:         append([]string(nil), DefaultWorksheets...),
		RefreshIntervalSec: 300,
		FetchTimeoutSec:    30,
		FetchRetries:       3,
		QueueSize:          16,
		HistorySize:        20,
		LLMModel:           "gemini-2.5-flash",
		MetricsEnabled:     true,
	}
}

// MetricsLabels identifies the workbook behind every exported metric.
func (c *Config) MetricsLabels() map[string]string {
	workbook := c.SpreadsheetID
	if c.Source == SourceXLSX {
		workbook = filepath.Base(c.XLSXPath)
	}
	return map[string]string{"source": c.Source, "workbook": workbook}
}

// RefreshInterval returns the periodic refresh interval.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSec) * time.Second
}

// FetchTimeout returns the per-attempt fetch timeout.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSec) * time.Second
}

// Validate checks field combinations.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.Source {
	case SourceSheets:
		if c.SpreadsheetID == "" {
			return fmt.Errorf("%w: spreadsheet_id is required for source %q", ErrInvalidConfig, c.Source)
		}
	case SourceXLSX:
		if c.XLSXPath == "" {
			return fmt.Errorf("%w: xlsx_path is required for source %q", ErrInvalidConfig, c.Source)
		}
	default:
		return fmt.Errorf("%w: unknown source %q", ErrInvalidConfig, c.Source)
	}
	if len(c.Worksheets) == 0 {
		return fmt.Errorf("%w: worksheets must not be empty", ErrInvalidConfig)
	}
	if c.FetchRetries < 1 {
		return fmt.Errorf("%w: fetch_retries must be >= 1", ErrInvalidConfig)
	}
	if c.QueueSize < 1 {
		return fmt.Errorf("%w: queue_size must be >= 1", ErrInvalidConfig)
	}
	if c.HistorySize < 1 {
		return fmt.Errorf("%w: history_size must be >= 1", ErrInvalidConfig)
	}
	if c.RefreshIntervalSec < 0 || c.FetchTimeoutSec < 0 {
		return fmt.Errorf("%w: intervals must not be negative", ErrInvalidConfig)
	}
	return nil
}
