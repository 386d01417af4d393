package api

import (
	"net/http"
)

// StatsProvider reports runtime statistics of the refresh service.
type StatsProvider interface {
	GetStats() map[string]any
}

// StatsHandler serves GET /stats.
type StatsHandler struct {
	stats StatsProvider
}

// NewStatsHandler creates a stats handler over p.
func NewStatsHandler(p StatsProvider) *StatsHandler {
	return &StatsHandler{stats: p}
}

// HandleStats writes the provider's statistics. Without a provider the
// response is 503.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	const op = "api.stats"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	if h.stats == nil {
		writeFailure(w, NewKind(op, ErrUnavailable))
		return
	}
	writeJSON(w, http.StatusOK, h.stats.GetStats())
}
