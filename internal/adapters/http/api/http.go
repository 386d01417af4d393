// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/okian/execdash/internal/adapters/mq/queue"
	"github.com/okian/execdash/internal/adapters/repository"
	"github.com/okian/execdash/internal/domain/assistant"
)

// Dependencies required by HTTP handlers. Each handler only sees the
// narrow slice of it declared next to the handler.
type Dependencies interface {
	SnapshotDependencies
	StaffingDependencies
	ScenarioDependencies
	AssistantDependencies
	RefreshDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	kpisHandler      *KPIsHandler
	tablesHandler    *TablesHandler
	staffingHandler  *StaffingHandler
	scenarioHandler  *ScenarioHandler
	assistantHandler *AssistantHandler
	refreshHandler   *RefreshHandler
	dashboardHandler *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		kpisHandler:      NewKPIsHandler(deps),
		tablesHandler:    NewTablesHandler(deps),
		staffingHandler:  NewStaffingHandler(deps),
		scenarioHandler:  NewScenarioHandler(deps),
		assistantHandler: NewAssistantHandler(deps),
		refreshHandler:   NewRefreshHandler(deps),
		dashboardHandler: newDashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/kpis", MetricsMiddleware(s.kpisHandler.HandleGetKPIs, "kpis"))
	mux.HandleFunc("/kpis/", MetricsMiddleware(s.kpisHandler.HandleGetKPI, "kpi"))
	mux.HandleFunc("/tables", MetricsMiddleware(s.tablesHandler.HandleListTables, "tables"))
	mux.HandleFunc("/tables/", MetricsMiddleware(s.tablesHandler.HandleGetTable, "table"))
	mux.HandleFunc("/staffing", MetricsMiddleware(s.staffingHandler.HandleStaffing, "staffing"))
	mux.HandleFunc("/pipeline/whales", MetricsMiddleware(s.staffingHandler.HandleWhales, "whales"))
	mux.HandleFunc("/scenario", MetricsMiddleware(s.scenarioHandler.HandleScenario, "scenario"))
	mux.HandleFunc("/ask", MetricsMiddleware(s.assistantHandler.HandleAsk, "ask"))
	mux.HandleFunc("/digest", MetricsMiddleware(s.assistantHandler.HandleDigest, "digest"))
	mux.HandleFunc("/refresh", MetricsMiddleware(s.refreshHandler.HandleRefresh, "refresh"))
	mux.HandleFunc("/snapshots", MetricsMiddleware(s.refreshHandler.HandleSnapshots, "snapshots"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure translates err into a status and code.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, assistant.ErrEmptyQuestion), errors.Is(err, repository.ErrInvalidLimit):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusServiceUnavailable, "not_ready"
	case errors.Is(err, ErrBackpressure), errors.Is(err, queue.ErrFull):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, ErrUnavailable), errors.Is(err, assistant.ErrNoGenerator), errors.Is(err, queue.ErrClosed):
		return http.StatusServiceUnavailable, "unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// queryInt reads a positive integer query parameter, returning def when absent.
func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, ErrBadRequest
	}
	return n, nil
}
