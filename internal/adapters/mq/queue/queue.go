// Package queue holds pending refresh requests for the refresh worker.
//
// The queue is bounded and, by default, coalescing: while a request is
// waiting, further requests are answered with the waiting one, since a single
// load cycle satisfies all of them.
package queue

import (
	"context"
	"sync"

	"github.com/okian/execdash/internal/domain/model"
	"github.com/okian/execdash/pkg/metrics"
)

const defaultQueueCapacity = 16

// Request is the payload flowing through the queue.
type Request = model.RefreshRequest

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a request and returns the request that will serve the
	// caller, which is a pending one when coalescing applies.
	// Returns ErrFull or ErrClosed when the request was not accepted.
	Enqueue(ctx context.Context, r Request) (Request, error)

	// Dequeue returns a channel that will receive requests as they become available.
	// The channel will be closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Request

	// Len returns the current number of pending requests.
	Len(ctx context.Context) int

	// Close gracefully shuts down the queue.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	requests chan Request
	capacity int
	coalesce bool

	mu      sync.Mutex
	closed  bool
	pending *Request // newest request not yet delivered
	held    *Request // taken from the buffer but not delivered
}

var _ Queue = (*InMemoryQueue)(nil)

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
		coalesce: true,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.requests = make(chan Request, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

// Enqueue adds a request to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, r Request) (Request, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		metrics.RecordQueueDropped("closed")
		metrics.RecordErrorByComponent("queue", "closed")
		return Request{}, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordQueueDropped("context_cancelled")
		return Request{}, err
	}
	metrics.RecordRefreshRequest(r.Trigger)

	if q.coalesce && q.pending != nil {
		metrics.RecordQueueDropped("coalesced")
		return *q.pending, nil
	}

	select {
	case q.requests <- r:
		q.pending = &r
		metrics.RecordQueueEnqueue()
		metrics.UpdateQueueSize(len(q.requests))
		return r, nil
	default:
		metrics.RecordQueueDropped("queue_full")
		metrics.RecordErrorByComponent("queue", "queue_full")
		return Request{}, ErrFull
	}
}

// Dequeue returns a channel that will receive requests as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Request {
	out := make(chan Request)
	go func() {
		defer close(out)
		for {
			r, ok := q.next(ctx)
			if !ok {
				return
			}
			select {
			case out <- r:
				q.taken(r)
			case <-ctx.Done():
				q.hold(r)
				return
			}
		}
	}()
	return out
}

// next returns a held request first, then waits on the buffer.
func (q *InMemoryQueue) next(ctx context.Context) (Request, bool) {
	q.mu.Lock()
	if h := q.held; h != nil {
		q.held = nil
		q.mu.Unlock()
		return *h, true
	}
	q.mu.Unlock()

	select {
	case <-ctx.Done():
		return Request{}, false
	case r, ok := <-q.requests:
		return r, ok
	}
}

// hold keeps r for the next Dequeue after its consumer went away.
func (q *InMemoryQueue) hold(r Request) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.held = &r
}

// taken clears the pending marker once r has been delivered.
func (q *InMemoryQueue) taken(r Request) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.pending != nil && q.pending.ID == r.ID {
		q.pending = nil
	}
	metrics.UpdateQueueSize(len(q.requests))
}

// Len returns the current number of pending requests.
func (q *InMemoryQueue) Len(_ context.Context) int {
	q.mu.Lock()
	size := len(q.requests)
	if q.held != nil {
		size++
	}
	q.mu.Unlock()
	metrics.UpdateQueueSize(size)
	return size
}

// Close gracefully shuts down the queue. Pending requests are still delivered.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.requests)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
