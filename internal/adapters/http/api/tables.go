// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strings"

	"github.com/okian/execdash/internal/domain/types"
)

// TablesHandler serves the worksheets loaded by the latest cycle.
type TablesHandler struct {
	deps SnapshotDependencies
}

// NewTablesHandler creates a new tables handler.
func NewTablesHandler(deps SnapshotDependencies) *TablesHandler {
	return &TablesHandler{deps: deps}
}

// HandleListTables handles GET /tables requests.
func (h *TablesHandler) HandleListTables(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_tables"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	snap, err := h.deps.Latest(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	out := make([]types.TableSummary, 0, len(snap.Tables))
	for _, name := range snap.Tables.Names() {
		t := snap.Tables[name]
		out = append(out, types.TableSummary{
			Name:    name,
			Columns: nonNilColumns(t.Columns),
			Rows:    t.Len(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGetTable handles GET /tables/{name}?limit=N requests.
func (h *TablesHandler) HandleGetTable(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_table"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/tables/")
	if name == "" || strings.Contains(name, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	snap, err := h.deps.Latest(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	t, ok := snap.Tables[name]
	if !ok {
		writeFailure(w, NewKind(op, ErrNotFound))
		return
	}
	n := t.Len()
	if limit > 0 && limit < n {
		n = limit
	}
	records := make([]map[string]string, n)
	for i := range n {
		records[i] = t.Records[i]
	}
	writeJSON(w, http.StatusOK, types.TableResponse{
		Name:    name,
		Columns: nonNilColumns(t.Columns),
		Total:   t.Len(),
		Records: records,
	})
}

func nonNilColumns(cols []string) []string {
	if cols == nil {
		return []string{}
	}
	return cols
}
