// Package schema binds worksheet headers to typed, named columns.
//
// Header variants (case, spacing, historical typos) are resolved here so the
// indicator code never looks up raw header strings.
package schema

import (
	"strings"

	"github.com/okian/execdash/internal/domain/model"
)

// Worksheet names.
const (
	ProjectInventory  = "Project Inventory"
	ProjectRisks      = "Project Risks"
	Pipeline          = "Pipeline"
	TeamUtilization   = "Team Utilization"
	TalentGaps        = "Talent Gaps"
	OperationalGaps   = "Operational Gaps"
	ExecutiveActivity = "Executive Activity"
	ScenarioInputs    = "Scenario Model Inputs"
)

// Field names a logical column and the headers it may appear under.
type Field struct {
	Header  string
	Aliases []string
}

// Resolve returns the header of t matching the field, comparing case- and
// whitespace-insensitively. The canonical header is tried before aliases.
func (f Field) Resolve(t model.Table) (string, bool) {
	for _, want := range append([]string{f.Header}, f.Aliases...) {
		key := fold(want)
		for _, col := range t.Columns {
			if fold(col) == key {
				return col, true
			}
		}
	}
	return "", false
}

func fold(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Column is one resolved logical column: the raw cells in row order, or
// Present=false (and blank cells) when the worksheet lacks the header.
type Column struct {
	Field   Field
	Header  string
	Present bool
	Cells   []string
}

// Bind resolves f against t.
func Bind(t model.Table, f Field) Column {
	c := Column{Field: f}
	if h, ok := f.Resolve(t); ok {
		c.Header = h
		c.Present = true
		c.Cells = t.Column(h)
		return c
	}
	c.Header = f.Header
	c.Cells = make([]string, t.Len())
	return c
}

// Cell returns the trimmed cell at row i, or "" when out of range.
func (c Column) Cell(i int) string {
	if i < 0 || i >= len(c.Cells) {
		return ""
	}
	return strings.TrimSpace(c.Cells[i])
}

// Name returns the header the column was bound to, or its canonical name.
func (c Column) Name() string {
	if c.Header != "" {
		return c.Header
	}
	return c.Field.Header
}
