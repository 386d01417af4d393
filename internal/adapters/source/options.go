package source

import (
	"time"

	"github.com/okian/execdash/pkg/logger"
)

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithAttempts sets how many times a worksheet fetch is tried before giving up.
func WithAttempts(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.attempts = n
		}
	}
}

// WithFetchTimeout bounds each single fetch attempt.
func WithFetchTimeout(d time.Duration) Option {
	return func(l *Loader) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// WithRetryDelay sets the pause between attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(l *Loader) {
		if d >= 0 {
			l.retryDelay = d
		}
	}
}

// WithConcurrency limits how many worksheets are fetched at once.
func WithConcurrency(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// WithLogger sets the loader logger.
func WithLogger(lg logger.Logger) Option {
	return func(l *Loader) {
		if lg != nil {
			l.log = lg
		}
	}
}
