package service

import (
	"time"

	"github.com/okian/execdash/internal/domain/assistant"
	"github.com/okian/execdash/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorksheets sets the worksheets fetched on every load cycle.
func WithWorksheets(names ...string) Option {
	return func(s *Service) {
		if len(names) > 0 {
			s.worksheets = append([]string(nil), names...)
		}
	}
}

// WithRefreshInterval schedules periodic refreshes. Zero disables them.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.refreshInterval = d
		}
	}
}

// WithFetchTimeout bounds each worksheet fetch attempt.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

// WithFetchAttempts sets the number of attempts per worksheet.
func WithFetchAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.attempts = n
		}
	}
}

// WithRetryDelay sets the pause between fetch attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.retryDelay = d
		}
	}
}

// WithQueueSize sets the maximum number of pending refresh requests.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithHistorySize sets the number of retained snapshots.
func WithHistorySize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.historySize = n
		}
	}
}

// WithWatch refreshes whenever a watchable source reports a change.
func WithWatch(enabled bool) Option {
	return func(s *Service) {
		s.watch = enabled
	}
}

// WithGenerator enables free-form assistant answers and the digest.
func WithGenerator(g assistant.Generator) Option {
	return func(s *Service) {
		s.generator = g
	}
}

// WithClock overrides the clock used for "today" and snapshot timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
