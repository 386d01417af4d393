package queue

// Option applies a configuration option to the InMemoryQueue.
type Option func(*InMemoryQueue)

// WithCapacity sets the maximum number of pending requests.
func WithCapacity(capacity int) Option {
	return func(q *InMemoryQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}

// WithCoalescing makes a request arriving while another is pending share
// the pending one instead of queuing a second load.
func WithCoalescing(enabled bool) Option {
	return func(q *InMemoryQueue) {
		q.coalesce = enabled
	}
}
