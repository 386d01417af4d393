// Package source reads the dashboard worksheets from a tabular store.
//
// A Source only knows how to fetch one worksheet. The Loader wraps a Source and
// enforces the load contract: a missing worksheet becomes an empty table,
// headers are trimmed, fully blank rows are dropped and every fetch is retried
// a fixed number of times.
package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/execdash/internal/domain/model"
	"github.com/okian/execdash/pkg/logger"
	"github.com/okian/execdash/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// Default loader configuration.
const (
	DefaultAttempts    = 3
	defaultTimeout     = 30 * time.Second
	defaultRetryDelay  = 250 * time.Millisecond
	defaultConcurrency = 4
)

// Source fetches one worksheet by name.
// Implementations return an error wrapping ErrWorksheetNotFound for unknown names.
type Source interface {
	FetchTable(ctx context.Context, name string) (model.Table, error)
}

// Watcher is implemented by sources that can signal changes to their backing store.
// Watch blocks until ctx is done, calling onChange after each change.
type Watcher interface {
	Watch(ctx context.Context, onChange func()) error
}

// Result is the outcome of one Load.
type Result struct {
	Tables  model.TableSet
	Missing []string
	Failed  []string
}

// Loader fetches a set of worksheets concurrently.
type Loader struct {
	src         Source
	attempts    int
	timeout     time.Duration
	retryDelay  time.Duration
	concurrency int
	log         logger.Logger
}

// NewLoader wraps src with the load contract.
func NewLoader(src Source, opts ...Option) *Loader {
	l := &Loader{
		src:         src,
		attempts:    DefaultAttempts,
		timeout:     defaultTimeout,
		retryDelay:  defaultRetryDelay,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.log == nil {
		l.log = logger.Get().Named("source")
	}
	return l
}

type outcome struct {
	table   model.Table
	missing bool
	err     error
}

// Load fetches every named worksheet. Worksheets that are missing or could not
// be read are present in the result as empty tables and listed in Missing or
// Failed. Load returns ErrUnavailable when every worksheet failed, and the
// context error when ctx ends first.
func (l *Loader) Load(ctx context.Context, names ...string) (Result, error) {
	outcomes := make([]outcome, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, name := range names {
		g.Go(func() error {
			t, err := l.fetch(gctx, name)
			switch {
			case err == nil:
				outcomes[i] = outcome{table: t}
			case errors.Is(err, ErrWorksheetNotFound):
				outcomes[i] = outcome{table: model.Table{Name: name}, missing: true}
			case gctx.Err() != nil:
				return gctx.Err()
			default:
				outcomes[i] = outcome{table: model.Table{Name: name}, err: err}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("load worksheets: %w", err)
	}

	res := Result{Tables: make(model.TableSet, len(names))}
	for i, name := range names {
		o := outcomes[i]
		res.Tables[name] = o.table
		metrics.UpdateTableRows(name, o.table.Len())
		switch {
		case o.missing:
			res.Missing = append(res.Missing, name)
		case o.err != nil:
			res.Failed = append(res.Failed, name)
		}
	}
	if len(names) > 0 && len(res.Failed) == len(names) {
		return res, fmt.Errorf("%w: %d worksheets failed", ErrUnavailable, len(names))
	}
	return res, nil
}

// fetch reads one worksheet, retrying failures other than a missing worksheet.
func (l *Loader) fetch(ctx context.Context, name string) (model.Table, error) {
	var lastErr error
	for attempt := 1; attempt <= l.attempts; attempt++ {
		t, err := l.fetchOnce(ctx, name)
		if err == nil {
			metrics.RecordFetchAttempt(name, true)
			return model.NewTable(name, t.Columns, t.Rows()), nil
		}
		if errors.Is(err, ErrWorksheetNotFound) {
			l.log.Debug(ctx, "worksheet missing", logger.String("worksheet", name))
			return model.Table{}, err
		}
		if ctx.Err() != nil {
			return model.Table{}, ctx.Err()
		}

		metrics.RecordFetchAttempt(name, false)
		lastErr = err
		l.log.Warn(ctx, "worksheet fetch failed",
			logger.String("worksheet", name),
			logger.Int("attempt", attempt),
			logger.Int("attempts", l.attempts),
			logger.Error(err),
		)
		if attempt < l.attempts && !sleep(ctx, l.retryDelay) {
			return model.Table{}, ctx.Err()
		}
	}
	metrics.RecordErrorByComponent("source", "fetch_failed")
	return model.Table{}, fmt.Errorf("%w %q after %d attempts: %w", ErrFetch, name, l.attempts, lastErr)
}

func (l *Loader) fetchOnce(ctx context.Context, name string) (model.Table, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	return l.src.FetchTable(ctx, name)
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
