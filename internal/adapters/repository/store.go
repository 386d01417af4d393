// Package repository keeps the published load-cycle snapshots.
package repository

import (
	"context"
	"time"

	"github.com/okian/execdash/internal/domain/indicators"
	"github.com/okian/execdash/internal/domain/model"
)

// Snapshot is the outcome of one load cycle. A published snapshot is never
// mutated; readers share it without copying.
type Snapshot struct {
	ID       string
	LoadedAt time.Time
	Duration time.Duration
	Tables   model.TableSet
	Report   indicators.Report
	KPIs     map[string]any
	Context  string
	Missing  []string
	Failed   []string
}

// Summary describes a snapshot without its data.
type Summary struct {
	ID         string         `json:"id"`
	LoadedAt   time.Time      `json:"loaded_at"`
	DurationMs int64          `json:"duration_ms"`
	Rows       map[string]int `json:"rows"`
	Malformed  int            `json:"malformed_cells"`
	Fallbacks  []string       `json:"fallbacks"`
	Missing    []string       `json:"missing,omitempty"`
	Failed     []string       `json:"failed,omitempty"`
}

// Summarize returns the summary of s.
func (s *Snapshot) Summarize() Summary {
	rows := make(map[string]int, len(s.Tables))
	for name, t := range s.Tables {
		rows[name] = t.Len()
	}
	return Summary{
		ID:         s.ID,
		LoadedAt:   s.LoadedAt,
		DurationMs: s.Duration.Milliseconds(),
		Rows:       rows,
		Malformed:  s.Report.Diagnostics.MalformedCells(),
		Fallbacks:  s.Report.Diagnostics.Fallbacks,
		Missing:    s.Missing,
		Failed:     s.Failed,
	}
}

// Store provides access to the published snapshots.
type Store interface {
	// Publish makes s the latest snapshot, assigning an ID when empty.
	Publish(ctx context.Context, s *Snapshot) (*Snapshot, error)

	// Latest returns the most recently published snapshot.
	// Returns ErrNotFound before the first publish.
	Latest(ctx context.Context) (*Snapshot, error)

	// Get returns a retained snapshot by ID.
	Get(ctx context.Context, id string) (*Snapshot, error)

	// History returns up to n summaries, newest first.
	History(ctx context.Context, n int) ([]Summary, error)

	// Count returns the number of retained snapshots.
	Count(ctx context.Context) int
}
