// Package xlsx reads dashboard worksheets from a local Excel workbook and
// watches it for changes.
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/okian/execdash/internal/adapters/source"
	"github.com/okian/execdash/internal/domain/model"
	"github.com/okian/execdash/pkg/logger"
	"github.com/xuri/excelize/v2"
)

const defaultDebounce = 500 * time.Millisecond

// ErrNoPath is returned when no workbook path is configured.
var ErrNoPath = errors.New("xlsx: workbook path is required")

// Source reads worksheets from a workbook on disk. The file is reopened on
// every fetch so edits are picked up by the next load.
type Source struct {
	path     string
	debounce time.Duration
	log      logger.Logger
}

var (
	_ source.Source  = (*Source)(nil)
	_ source.Watcher = (*Source)(nil)
)

// Option applies a configuration option to the Source.
type Option func(*Source)

// WithDebounce sets how long Watch waits for writes to settle before reporting a change.
func WithDebounce(d time.Duration) Option {
	return func(s *Source) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// WithLogger sets the source logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Source) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a workbook source for path.
func New(path string, opts ...Option) (*Source, error) {
	if path == "" {
		return nil, ErrNoPath
	}
	s := &Source{path: path, debounce: defaultDebounce}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get().Named("xlsx")
	}
	return s, nil
}

// Path returns the workbook path.
func (s *Source) Path() string { return s.path }

// FetchTable reads one worksheet; its first row is the header.
func (s *Source) FetchTable(ctx context.Context, name string) (model.Table, error) {
	if err := ctx.Err(); err != nil {
		return model.Table{}, err
	}
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return model.Table{}, fmt.Errorf("open workbook %s: %w", s.path, err)
	}
	defer func() { _ = f.Close() }()

	idx, err := f.GetSheetIndex(name)
	if err != nil || idx < 0 {
		return model.Table{}, fmt.Errorf("%w: %s", source.ErrWorksheetNotFound, name)
	}
	rows, err := f.GetRows(name)
	if err != nil {
		return model.Table{}, fmt.Errorf("read worksheet %q: %w", name, err)
	}
	if len(rows) == 0 {
		return model.Table{Name: name}, nil
	}
	return model.NewTable(name, rows[0], rows[1:]), nil
}

// Watch reports changes to the workbook until ctx is done. The parent
// directory is watched so editors that replace the file are seen too.
func (s *Source) Watch(ctx context.Context, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = w.Close() }()

	abs, err := filepath.Abs(s.path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", s.path, err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	s.log.Info(ctx, "watching workbook", logger.String("path", abs))

	timer := time.NewTimer(s.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(s.debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.Warn(ctx, "workbook watch error", logger.Error(err))
		case <-timer.C:
			if _, err := os.Stat(abs); err != nil {
				continue
			}
			onChange()
		}
	}
}
