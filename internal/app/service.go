// Package service runs load cycles and implements the dependencies
// required by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/execdash/internal/adapters/mq/queue"
	"github.com/okian/execdash/internal/adapters/mq/worker"
	"github.com/okian/execdash/internal/adapters/repository"
	"github.com/okian/execdash/internal/adapters/source"
	"github.com/okian/execdash/internal/config"
	"github.com/okian/execdash/internal/domain/assistant"
	"github.com/okian/execdash/internal/domain/indicators"
	"github.com/okian/execdash/internal/domain/model"
	"github.com/okian/execdash/pkg/logger"
	"github.com/okian/execdash/pkg/metrics"
)

const (
	defaultQueueSize    = 16
	defaultHistorySize  = 20
	defaultFetchTimeout = 30 * time.Second
	defaultRetryDelay   = 500 * time.Millisecond
	shutdownTimeout     = 10 * time.Second
)

// Service loads the workbook, computes KPIs and serves the latest snapshot.
type Service struct {
	mu sync.RWMutex

	// Core components
	src       source.Source
	loader    *source.Loader
	engine    *indicators.Engine
	assistant *assistant.Assistant
	store     *repository.MemoryStore
	queue     queue.Queue
	worker    *worker.RefreshWorker

	// Configuration
	worksheets      []string
	refreshInterval time.Duration
	fetchTimeout    time.Duration
	attempts        int
	retryDelay      time.Duration
	queueSize       int
	historySize     int
	watch           bool
	generator       assistant.Generator
	now             func() time.Time

	// State
	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	closeOnce sync.Once

	logger logger.Logger
}

// New constructs a Service reading from src. The snapshot store lives until Stop.
func New(ctx context.Context, src source.Source, opts ...Option) (*Service, error) {
	if src == nil {
		return nil, ErrNoSource
	}
	s := &Service{
		src:          src,
		worksheets:   append([]string(nil), config.DefaultWorksheets...),
		fetchTimeout: defaultFetchTimeout,
		attempts:     source.DefaultAttempts,
		retryDelay:   defaultRetryDelay,
		queueSize:    defaultQueueSize,
		historySize:  defaultHistorySize,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.loader = source.NewLoader(src,
		source.WithAttempts(s.attempts),
		source.WithFetchTimeout(s.fetchTimeout),
		source.WithRetryDelay(s.retryDelay),
		source.WithLogger(s.logger.Named("source")),
	)
	s.engine = indicators.NewEngine(
		indicators.WithClock(s.now),
		indicators.WithLogger(s.logger.Named("engine")),
	)
	aopts := []assistant.Option{assistant.WithLogger(s.logger.Named("assistant"))}
	if s.generator != nil {
		aopts = append(aopts, assistant.WithGenerator(s.generator))
	}
	s.assistant = assistant.New(aopts...)
	s.store = repository.NewMemoryStore(ctx, repository.WithHistorySize(s.historySize))
	return s, nil
}

// Start launches the refresh worker, the periodic ticker and the source
// watch, then schedules the startup load.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting execdash service...")

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.worker = worker.NewRefreshWorker(s.queue, worker.RefresherFunc(s.Refresh),
		worker.WithLogger(s.logger.Named("refresh-worker")),
	)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.worker.Run(runCtx)
	}()

	if s.refreshInterval > 0 {
		s.wg.Add(1)
		go s.tick(runCtx)
	}

	if w, ok := s.src.(source.Watcher); ok && s.watch {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			err := w.Watch(runCtx, func() { s.schedule(runCtx, model.TriggerWatch) })
			if err != nil && !errors.Is(err, context.Canceled) {
				s.logger.Error(runCtx, "source watch stopped", logger.Error(err))
			}
		}()
	}

	if _, err := s.queue.Enqueue(runCtx, model.NewRefreshRequest(model.TriggerStartup)); err != nil {
		s.logger.Warn(ctx, "startup refresh not scheduled", logger.Error(err))
	}

	s.started = true
	s.logger.Info(ctx, "execdash service started",
		logger.Int("worksheets", len(s.worksheets)),
		logger.Int("queueSize", s.queueSize),
		logger.Duration("refreshInterval", s.refreshInterval),
		logger.Bool("watch", s.watch),
		logger.Bool("llm", s.assistant.HasGenerator()),
	)
	return nil
}

func (s *Service) tick(ctx context.Context) {
	defer s.wg.Done()
	t := time.NewTicker(s.refreshInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.schedule(ctx, model.TriggerInterval)
		}
	}
}

// schedule enqueues a background refresh, logging instead of failing.
func (s *Service) schedule(ctx context.Context, trigger string) {
	if _, err := s.RequestRefresh(ctx, trigger); err != nil && !errors.Is(err, queue.ErrClosed) {
		s.logger.Warn(ctx, "refresh not scheduled", logger.String("trigger", trigger), logger.Error(err))
	}
}

// Stop gracefully shuts down the service and releases the snapshot store.
func (s *Service) Stop() {
	s.mu.Lock()
	started := s.started
	s.started = false
	w, q, cancel := s.worker, s.queue, s.cancel
	s.mu.Unlock()

	ctx := context.Background()
	if started {
		s.logger.Info(ctx, "stopping execdash service...")
		sctx, scancel := context.WithTimeout(ctx, shutdownTimeout)
		if err := w.Shutdown(sctx); err != nil && !errors.Is(err, worker.ErrStopped) {
			s.logger.Warn(ctx, "refresh worker shutdown", logger.Error(err))
		}
		scancel()
		cancel()
		_ = q.Close()
		s.wg.Wait()
	}

	s.closeOnce.Do(func() { _ = s.store.Close() })
	if started {
		s.logger.Info(ctx, "execdash service stopped")
	}
}

// RequestRefresh schedules a load cycle. A pending request is reused when one
// is already waiting.
func (s *Service) RequestRefresh(ctx context.Context, trigger string) (model.RefreshRequest, error) {
	s.mu.RLock()
	q := s.queue
	s.mu.RUnlock()
	if q == nil {
		return model.RefreshRequest{}, ErrNotStarted
	}
	req, err := q.Enqueue(ctx, model.NewRefreshRequest(trigger))
	if err != nil {
		return model.RefreshRequest{}, fmt.Errorf("request refresh: %w", err)
	}
	return req, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started":         s.started,
		"worksheets":      s.worksheets,
		"queueSize":       s.queueSize,
		"historySize":     s.historySize,
		"refreshInterval": s.refreshInterval.String(),
		"llm":             s.assistant.HasGenerator(),
		"snapshots":       s.store.Count(ctx),
	}
	if s.started {
		queueLen := s.queue.Len(ctx)
		stats["queueLength"] = queueLen
		metrics.UpdateQueueSize(queueLen)
	}
	if snap, err := s.store.Latest(ctx); err == nil {
		stats["lastSnapshot"] = snap.ID
		stats["lastLoadedAt"] = snap.LoadedAt
		stats["lastLoadMs"] = snap.Duration.Milliseconds()
		stats["malformedCells"] = snap.Report.Diagnostics.MalformedCells()
	}
	return stats
}
