// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/execdash/internal/domain/model"
	"github.com/okian/execdash/internal/domain/types"
)

const defaultHistoryLimit = 10

// RefreshDependencies schedules load cycles.
type RefreshDependencies interface {
	RequestRefresh(ctx context.Context, trigger string) (model.RefreshRequest, error)
}

// RefreshHandler serves manual refreshes and the load history.
type RefreshHandler struct {
	refresh   RefreshDependencies
	snapshots SnapshotDependencies
}

// refreshDeps bundles what RefreshHandler needs.
type refreshDeps interface {
	RefreshDependencies
	SnapshotDependencies
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps refreshDeps) *RefreshHandler {
	return &RefreshHandler{refresh: deps, snapshots: deps}
}

// HandleRefresh handles POST /refresh requests. The load runs asynchronously;
// a full refresh queue answers 429.
func (h *RefreshHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	const op = "api.refresh"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	req, err := h.refresh.RequestRefresh(r.Context(), model.TriggerManual)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusAccepted, types.RefreshResponse{
		ID:          req.ID,
		Trigger:     req.Trigger,
		RequestedAt: req.RequestedAt,
		Status:      "accepted",
	})
}

// HandleSnapshots handles GET /snapshots?limit=N requests.
func (h *RefreshHandler) HandleSnapshots(w http.ResponseWriter, r *http.Request) {
	const op = "api.snapshots"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	limit, err := queryInt(r, "limit", defaultHistoryLimit)
	if err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	history, err := h.snapshots.History(r.Context(), limit)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, history)
}
