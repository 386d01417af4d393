// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/execdash/internal/domain/indicators"
)

// StaffingDependencies exposes the derived staffing and pipeline views.
type StaffingDependencies interface {
	Staffing(ctx context.Context, filter indicators.StaffingFilter) ([]indicators.StaffingRow, error)
	Whales(ctx context.Context, limit int) ([]indicators.Whale, error)
}

// StaffingHandler serves project staffing and whale pursuits.
type StaffingHandler struct {
	deps StaffingDependencies
}

// NewStaffingHandler creates a new staffing handler.
func NewStaffingHandler(deps StaffingDependencies) *StaffingHandler {
	return &StaffingHandler{deps: deps}
}

// HandleStaffing handles GET /staffing?client=&resourcing= requests.
func (h *StaffingHandler) HandleStaffing(w http.ResponseWriter, r *http.Request) {
	const op = "api.staffing"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	rows, err := h.deps.Staffing(r.Context(), indicators.StaffingFilter{
		Client:     q.Get("client"),
		Resourcing: q.Get("resourcing"),
	})
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// HandleWhales handles GET /pipeline/whales?limit=N requests.
func (h *StaffingHandler) HandleWhales(w http.ResponseWriter, r *http.Request) {
	const op = "api.whales"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	limit, err := queryInt(r, "limit", indicators.DefaultWhaleLimit)
	if err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	whales, err := h.deps.Whales(r.Context(), limit)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, whales)
}
