package assistant

import "github.com/okian/execdash/pkg/logger"

// Option applies a configuration option to the Assistant.
type Option func(*Assistant)

// WithGenerator sets the language model used for free-form questions and the digest.
func WithGenerator(g Generator) Option {
	return func(a *Assistant) {
		a.gen = g
	}
}

// WithLogger sets the assistant logger.
func WithLogger(l logger.Logger) Option {
	return func(a *Assistant) {
		if l != nil {
			a.log = l
		}
	}
}

// WithDomain sets the business domain named in prompts, e.g. "healthcare delivery".
func WithDomain(domain string) Option {
	return func(a *Assistant) {
		if domain != "" {
			a.domain = domain
		}
	}
}
