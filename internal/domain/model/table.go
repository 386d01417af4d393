// Package model contains the tabular records passed between layers.
package model

import (
	"sort"
	"strings"
)

// Record maps a column name to its raw cell text. Blank cells are "".
// Records are never mutated after a Table is built.
type Record map[string]string

// Get returns the raw cell for col and whether the column exists on the record.
func (r Record) Get(col string) (string, bool) {
	v, ok := r[col]
	return v, ok
}

// Value returns the raw cell for col or "" when absent.
func (r Record) Value(col string) string {
	return r[col]
}

// IsBlank reports whether every cell is empty after trimming.
func (r Record) IsBlank() bool {
	for _, v := range r {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Table is a named, ordered sequence of records sharing one header.
type Table struct {
	Name    string
	Columns []string
	Records []Record
}

// NewTable builds a Table from a header row and raw rows.
// Header cells are whitespace-trimmed, empty and duplicate headers are skipped,
// short rows are padded with "" and fully blank rows are dropped.
func NewTable(name string, header []string, rows [][]string) Table {
	t := Table{Name: name}

	type slot struct {
		idx int
		col string
	}
	seen := make(map[string]struct{}, len(header))
	slots := make([]slot, 0, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		slots = append(slots, slot{idx: i, col: h})
		t.Columns = append(t.Columns, h)
	}

	for _, row := range rows {
		rec := make(Record, len(slots))
		for _, s := range slots {
			if s.idx < len(row) {
				rec[s.col] = row[s.idx]
			} else {
				rec[s.col] = ""
			}
		}
		if rec.IsBlank() {
			continue
		}
		t.Records = append(t.Records, rec)
	}
	return t
}

// Len returns the number of records.
func (t Table) Len() int { return len(t.Records) }

// Empty reports whether the table has no records.
func (t Table) Empty() bool { return len(t.Records) == 0 }

// HasColumn reports whether col is part of the header.
func (t Table) HasColumn(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Column returns the raw cells of col in record order ("" where absent).
func (t Table) Column(col string) []string {
	out := make([]string, len(t.Records))
	for i, r := range t.Records {
		out[i] = r[col]
	}
	return out
}

// Rows returns the cells of every record in header order.
func (t Table) Rows() [][]string {
	out := make([][]string, len(t.Records))
	for i, r := range t.Records {
		row := make([]string, len(t.Columns))
		for j, c := range t.Columns {
			row[j] = r[c]
		}
		out[i] = row
	}
	return out
}

// TableSet holds the tables of one load cycle keyed by worksheet name.
type TableSet map[string]Table

// Get returns the named table, or an empty table carrying the name when missing.
func (s TableSet) Get(name string) Table {
	if t, ok := s[name]; ok {
		return t
	}
	return Table{Name: name}
}

// Names returns the table names in lexical order.
func (s TableSet) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
