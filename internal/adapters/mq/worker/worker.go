// Package worker runs load cycles requested through the refresh queue.
//
// A single worker serializes load cycles, so at most one load is in flight and
// snapshots are published in request order.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/okian/execdash/internal/adapters/mq/queue"
	"github.com/okian/execdash/pkg/logger"
	"github.com/okian/execdash/pkg/metrics"
)

const defaultCycleTimeout = 2 * time.Minute

// ErrStopped is returned by Shutdown when the worker was already stopped.
var ErrStopped = errors.New("worker stopped")

// Refresher runs one load cycle.
type Refresher interface {
	Refresh(ctx context.Context, req queue.Request) error
}

// RefresherFunc adapts a function to Refresher.
type RefresherFunc func(ctx context.Context, req queue.Request) error

// Refresh implements Refresher.
func (f RefresherFunc) Refresh(ctx context.Context, req queue.Request) error { return f(ctx, req) }

// Queue defines how the worker receives requests.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Request
}

// RefreshWorker drains the refresh queue one request at a time.
type RefreshWorker struct {
	queue        Queue
	refresher    Refresher
	name         string
	cycleTimeout time.Duration

	shutdown chan struct{}
	done     chan struct{}
	stopped  atomic.Bool

	logger logger.Logger
}

// NewRefreshWorker creates a worker with configuration options.
func NewRefreshWorker(q Queue, r Refresher, opts ...Option) *RefreshWorker {
	w := &RefreshWorker{
		queue:        q,
		refresher:    r,
		name:         "refresh-worker",
		cycleTimeout: defaultCycleTimeout,
		shutdown:     make(chan struct{}),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run processes requests until ctx is canceled, Shutdown is called or the queue closes.
func (w *RefreshWorker) Run(ctx context.Context) {
	defer close(w.done)

	// Stop the dequeue goroutine when Run returns.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	requests := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case req, ok := <-requests:
			if !ok {
				return
			}
			if err := w.process(ctx, req); err != nil {
				w.logger.Error(ctx, "load cycle failed",
					logger.String("request", req.ID),
					logger.String("trigger", req.Trigger),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown stops the worker after the current load cycle.
func (w *RefreshWorker) Shutdown(ctx context.Context) error {
	if !w.stopped.CompareAndSwap(false, true) {
		return ErrStopped
	}
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *RefreshWorker) process(ctx context.Context, req queue.Request) error {
	ctx, cancel := context.WithTimeout(ctx, w.cycleTimeout)
	defer cancel()

	start := time.Now()
	err := w.refresher.Refresh(ctx, req)
	if err != nil {
		metrics.RecordErrorByComponent("worker", "refresh_failed")
		return fmt.Errorf("refresh %s: %w", req.ID, err)
	}
	w.logger.Debug(ctx, "load cycle done",
		logger.String("request", req.ID),
		logger.String("trigger", req.Trigger),
		logger.Duration("took", time.Since(start)),
	)
	return nil
}
