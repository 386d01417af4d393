package service

import (
	"context"
	"fmt"

	"github.com/okian/execdash/internal/adapters/llm"
	"github.com/okian/execdash/internal/adapters/source"
	"github.com/okian/execdash/internal/adapters/source/sheets"
	"github.com/okian/execdash/internal/adapters/source/xlsx"
	"github.com/okian/execdash/internal/config"
	"github.com/okian/execdash/pkg/logger"
	"google.golang.org/api/option"
)

// NewSource builds the spreadsheet backend selected by cfg.
func NewSource(ctx context.Context, cfg *config.Config, log logger.Logger) (source.Source, error) {
	switch cfg.Source {
	case config.SourceSheets:
		var opts []option.ClientOption
		if cfg.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
		}
		return sheets.New(ctx, cfg.SpreadsheetID, opts...)
	case config.SourceXLSX:
		return xlsx.New(cfg.XLSXPath, xlsx.WithLogger(log.Named("xlsx")))
	default:
		return nil, fmt.Errorf("%w: unknown source %q", config.ErrInvalidConfig, cfg.Source)
	}
}

// FromConfig creates a service over the configured source. A Gemini
// generator is attached when an API key is configured.
func FromConfig(ctx context.Context, cfg *config.Config, log logger.Logger, extra ...Option) (*Service, error) {
	src, err := NewSource(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	opts := []Option{
		WithLogger(log),
		WithWorksheets(cfg.Worksheets...),
		WithRefreshInterval(cfg.RefreshInterval()),
		WithFetchTimeout(cfg.FetchTimeout()),
		WithFetchAttempts(cfg.FetchRetries),
		WithQueueSize(cfg.QueueSize),
		WithHistorySize(cfg.HistorySize),
		WithWatch(cfg.WatchSource),
	}
	if cfg.LLMAPIKey != "" {
		gen, err := llm.NewGemini(ctx, cfg.LLMAPIKey, cfg.LLMModel)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithGenerator(gen))
	} else {
		log.Info(ctx, "no llm_api_key configured; assistant answers direct questions only")
	}
	return New(ctx, src, append(opts, extra...)...)
}
