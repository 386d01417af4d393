package source

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/execdash/internal/domain/model"
)

// Memory is an in-process Source holding whole tables. It backs tests and
// the fixture tooling.
type Memory struct {
	mu     sync.RWMutex
	tables model.TableSet
}

// NewMemory creates a Memory source seeded with tables.
func NewMemory(tables model.TableSet) *Memory {
	m := &Memory{tables: make(model.TableSet, len(tables))}
	for name, t := range tables {
		m.tables[name] = t
	}
	return m
}

// Set stores or replaces a table under its name.
func (m *Memory) Set(t model.Table) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[t.Name] = t
}

// Remove deletes the named table.
func (m *Memory) Remove(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tables, name)
}

// FetchTable implements Source.
func (m *Memory) FetchTable(ctx context.Context, name string) (model.Table, error) {
	if err := ctx.Err(); err != nil {
		return model.Table{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tables[name]
	if !ok {
		return model.Table{}, fmt.Errorf("%w: %s", ErrWorksheetNotFound, name)
	}
	return t, nil
}
