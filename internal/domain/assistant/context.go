package assistant

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/okian/execdash/internal/domain/model"
	"github.com/okian/execdash/internal/domain/schema"
)

// DefaultContextRows caps the dump of worksheets without their own limit.
const DefaultContextRows = 15

// ContextRows holds the per-worksheet row caps of the rendered context.
var ContextRows = map[string]int{ //nolint:gochecknoglobals // static limits
	schema.ProjectInventory: 50,
	schema.Pipeline:         50,
	schema.ProjectRisks:     30,
}

// NoContext is the placeholder sent when no worksheet has rows.
const NoContext = "No data context available."

// RowLimit returns the context row cap for a worksheet.
func RowLimit(name string) int {
	if n, ok := ContextRows[name]; ok {
		return n
	}
	return DefaultContextRows
}

// RenderContext serializes the non-empty tables as free-form LLM context.
// Tables are rendered in the given order, or by name when order is empty;
// names missing from tables are skipped.
func RenderContext(tables model.TableSet, order ...string) string {
	if len(order) == 0 {
		order = tables.Names()
	}
	parts := make([]string, 0, len(order))
	for _, name := range order {
		t, ok := tables[name]
		if !ok || t.Empty() {
			continue
		}
		parts = append(parts, renderTable(name, t, RowLimit(name)))
	}
	if len(parts) == 0 {
		return NoContext
	}
	return strings.Join(parts, "\n")
}

func renderTable(name string, t model.Table, limit int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sheet: %s\nColumns: %s\n", name, strings.Join(t.Columns, ", "))

	rows := t.Rows()
	shown := rows
	if len(rows) > limit {
		shown = rows[:limit]
	}
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(t.Columns, "\t"))
	for _, r := range shown {
		fmt.Fprintln(w, strings.Join(flatten(r), "\t"))
	}
	_ = w.Flush()
	if len(rows) > limit {
		fmt.Fprintf(&b, "... (showing top %d of %d rows)\n", limit, len(rows))
	}
	return b.String()
}

// flatten keeps multi-line cells on one row of the dump.
func flatten(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.Join(strings.Fields(c), " ")
	}
	return out
}
