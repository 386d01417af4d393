// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/execdash/internal/adapters/repository"
	"github.com/okian/execdash/internal/domain/indicators"
	"github.com/okian/execdash/internal/domain/types"
)

// SnapshotDependencies exposes the published snapshots.
type SnapshotDependencies interface {
	Latest(ctx context.Context) (*repository.Snapshot, error)
	History(ctx context.Context, n int) ([]repository.Summary, error)
}

// KPIsHandler serves the KPI mapping of the latest snapshot.
type KPIsHandler struct {
	deps SnapshotDependencies
}

// NewKPIsHandler creates a new KPI handler.
func NewKPIsHandler(deps SnapshotDependencies) *KPIsHandler {
	return &KPIsHandler{deps: deps}
}

// HandleGetKPIs handles GET /kpis requests.
// An optional comma-separated "names" query narrows the mapping.
func (h *KPIsHandler) HandleGetKPIs(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_kpis"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	snap, err := h.deps.Latest(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	kpis := snap.KPIs
	if raw := r.URL.Query().Get("names"); raw != "" {
		kpis = make(map[string]any)
		for _, name := range strings.Split(raw, ",") {
			name = strings.TrimSpace(name)
			if v, ok := snap.KPIs[name]; ok {
				kpis[name] = v
			}
		}
	}
	writeJSON(w, http.StatusOK, types.KPIResponse{
		SnapshotID: snap.ID,
		LoadedAt:   snap.LoadedAt,
		KPIs:       kpis,
	})
}

// HandleGetKPI handles GET /kpis/{name} requests.
func (h *KPIsHandler) HandleGetKPI(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_kpi"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/kpis/")
	if name == "" || strings.Contains(name, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	snap, err := h.deps.Latest(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	v, ok := snap.KPIs[name]
	if !ok {
		writeFailure(w, WrapKind(op, ErrNotFound, fmt.Errorf("unknown kpi %q", name)))
		return
	}
	writeJSON(w, http.StatusOK, types.KPIValue{
		Name:      name,
		Value:     v,
		Formatted: indicators.FormatValue(v),
	})
}
