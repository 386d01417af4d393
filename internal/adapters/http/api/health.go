package api

import (
	"net/http"

	"github.com/okian/execdash/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthHandler serves the execdash metrics registry as the health check.
type HealthHandler struct {
	metrics http.Handler
}

// NewHealthHandler creates a health handler over the execdash registry.
func NewHealthHandler() *HealthHandler {
	reg := metrics.GetRegistry()
	return &HealthHandler{
		metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	}
}

// HandleHealth handles GET /healthz.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.metrics.ServeHTTP(w, r)
}
