package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/execdash/pkg/metrics"
)

const (
	defaultHistorySize           = 20
	defaultMetricsUpdateInterval = 5 * time.Second
)

// MemoryStore is an in-memory Store with a bounded history ring.
// The latest snapshot is swapped atomically so Latest never blocks on Publish.
type MemoryStore struct {
	mu      sync.RWMutex
	history []*Snapshot // oldest first
	byID    map[string]*Snapshot

	latest atomic.Pointer[Snapshot]

	historySize           int
	metricsUpdateInterval time.Duration

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs a snapshot store with configuration options.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		byID:                  make(map[string]*Snapshot),
		historySize:           defaultHistorySize,
		metricsUpdateInterval: defaultMetricsUpdateInterval,
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	metrics.UpdateSnapshotsRetained(0)
	s.startMetricsUpdater(ctx)
	return s
}

// Close stops the background metrics updater.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

// Publish implements Store.Publish.
func (s *MemoryStore) Publish(ctx context.Context, snap *Snapshot) (*Snapshot, error) {
	if snap == nil {
		return nil, ErrNilSnapshot
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	if snap.LoadedAt.IsZero() {
		snap.LoadedAt = time.Now().UTC()
	}

	s.mu.Lock()
	if old, ok := s.byID[snap.ID]; ok {
		s.removeLocked(old)
	}
	s.history = append(s.history, snap)
	s.byID[snap.ID] = snap
	for len(s.history) > s.historySize {
		evicted := s.history[0]
		s.history[0] = nil
		s.history = s.history[1:]
		delete(s.byID, evicted.ID)
	}
	s.latest.Store(snap)
	s.mu.Unlock()

	metrics.UpdateLastLoad(snap.LoadedAt.Unix())
	return snap, nil
}

func (s *MemoryStore) removeLocked(old *Snapshot) {
	for i, h := range s.history {
		if h == old {
			s.history = append(s.history[:i], s.history[i+1:]...)
			break
		}
	}
	delete(s.byID, old.ID)
}

// Latest implements Store.Latest.
func (s *MemoryStore) Latest(_ context.Context) (*Snapshot, error) {
	snap := s.latest.Load()
	if snap == nil {
		return nil, ErrNotFound
	}
	return snap, nil
}

// Get implements Store.Get.
func (s *MemoryStore) Get(_ context.Context, id string) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.byID[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return nil, ErrNotFound
	}
	return snap, nil
}

// History implements Store.History.
func (s *MemoryStore) History(_ context.Context, n int) ([]Summary, error) {
	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Summary, 0, min(n, len(s.history)))
	for i := len(s.history) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.history[i].Summarize())
	}
	return out, nil
}

// Count implements Store.Count.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}

// startMetricsUpdater starts a background goroutine that updates repository metrics.
func (s *MemoryStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				metrics.UpdateSnapshotsRetained(s.Count(ctx))
			}
		}
	}()
}
