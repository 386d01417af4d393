// Package types contains the wire shapes shared by the HTTP API and the CLI.
package types

import "time"

// KPIResponse is the full KPI mapping of one snapshot.
type KPIResponse struct {
	SnapshotID string         `json:"snapshot_id" yaml:"snapshot_id"`
	LoadedAt   time.Time      `json:"loaded_at" yaml:"loaded_at"`
	KPIs       map[string]any `json:"kpis" yaml:"kpis"`
}

// KPIValue is a single KPI.
type KPIValue struct {
	Name      string `json:"name" yaml:"name"`
	Value     any    `json:"value" yaml:"value"`
	Formatted string `json:"formatted,omitempty" yaml:"formatted,omitempty"`
}

// TableSummary describes one loaded worksheet.
type TableSummary struct {
	Name    string   `json:"name" yaml:"name"`
	Columns []string `json:"columns" yaml:"columns"`
	Rows    int      `json:"rows" yaml:"rows"`
}

// TableResponse carries the records of one worksheet.
type TableResponse struct {
	Name    string              `json:"name" yaml:"name"`
	Columns []string            `json:"columns" yaml:"columns"`
	Total   int                 `json:"total" yaml:"total"`
	Records []map[string]string `json:"records" yaml:"records"`
}

// AskRequest is the body of POST /ask.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse is the assistant's reply.
type AskResponse struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
	Mode     string `json:"mode" yaml:"mode"`
	HTML     string `json:"html,omitempty" yaml:"-"`
}

// DigestResponse is the daily action-item digest.
type DigestResponse struct {
	Digest string `json:"digest"`
	HTML   string `json:"html,omitempty"`
}

// ScenarioRequest is the body of POST /scenario.
type ScenarioRequest struct {
	Overrides map[string]float64 `json:"overrides"`
	Question  string             `json:"question,omitempty"`
}

// RefreshResponse acknowledges a refresh request.
type RefreshResponse struct {
	ID          string    `json:"id"`
	Trigger     string    `json:"trigger"`
	RequestedAt time.Time `json:"requested_at"`
	Status      string    `json:"status"`
}
