// Package metrics provides Prometheus metrics for the execdash reporting service.
package metrics

import (
	"errors"
	"fmt"
	"math"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Load cycle metrics
	loadCycles        *prometheus.CounterVec
	loadDuration      prometheus.Histogram
	lastLoadUnix      prometheus.Gauge
	tableRows         *prometheus.GaugeVec
	fetchAttempts     *prometheus.CounterVec
	snapshotsRetained prometheus.Gauge

	// Indicator engine metrics
	parseFailures    *prometheus.CounterVec
	engineFallbacks  *prometheus.CounterVec
	engineDuration   prometheus.Histogram
	kpiValue         *prometheus.GaugeVec
	dataAvailability *prometheus.GaugeVec

	// Refresh queue metrics
	queueSize       prometheus.Gauge
	queueCapacity   prometheus.Gauge
	queueEnqueued   prometheus.Counter
	queueDropped    *prometheus.CounterVec
	refreshRequests *prometheus.CounterVec

	// Assistant metrics
	assistantAnswers *prometheus.CounterVec
	assistantLatency prometheus.Histogram

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorsByComponent *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// customRegistry keeps default Go collectors out of /healthz.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// Configure replaces the global manager with one built from opts on a fresh
// registry. Call it once at startup, before any handler reads GetRegistry.
func Configure(opts ...Option) {
	reg := prometheus.NewRegistry()
	customRegistry = reg
	globalManager = NewManager(append([]Option{WithPrometheusRegistry(reg)}, opts...)...)
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "execdash",
		subsystem:        "dashboard",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		enabled:          true,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gaugeVec(name, help string, labels ...string) *prometheus.GaugeVec {
	return promauto.With(m.registry).NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	m.loadCycles = m.counterVec("load_cycles_total", "Load cycles by outcome (ok, failed)", "outcome")
	m.loadDuration = m.histogram("load_cycle_duration_milliseconds", "Duration of a full fetch+compute load cycle", m.histogramBuckets)
	m.lastLoadUnix = m.gauge("last_load_timestamp_seconds", "Unix time of the last published snapshot")
	m.tableRows = m.gaugeVec("table_rows", "Rows per worksheet in the current snapshot", "table")
	m.fetchAttempts = m.counterVec("fetch_attempts_total", "Worksheet fetch attempts by outcome", "table", "outcome")
	m.snapshotsRetained = m.gauge("snapshots_retained", "Snapshots kept in the history ring")

	m.parseFailures = m.counterVec("normalize_parse_failures_total", "Cells that failed to parse and were defaulted", "table", "column")
	m.engineFallbacks = m.counterVec("indicators_fallbacks_total", "Indicator sections that fell back to defaults", "section")
	m.engineDuration = m.histogram("indicators_compute_duration_milliseconds", "Indicator engine compute time", m.histogramBuckets)
	m.kpiValue = m.gaugeVec("kpi_value", "Selected numeric KPIs from the current snapshot", "kpi")
	m.dataAvailability = m.gaugeVec("data_available", "1 when the worksheet had rows in the current snapshot", "table")

	m.queueSize = m.gauge("refresh_queue_size", "Pending refresh requests")
	m.queueCapacity = m.gauge("refresh_queue_capacity", "Refresh queue capacity")
	m.queueEnqueued = m.counter("refresh_queue_enqueued_total", "Refresh requests accepted by the queue")
	m.queueDropped = m.counterVec("refresh_queue_dropped_total", "Refresh requests rejected by the queue", "reason")
	m.refreshRequests = m.counterVec("refresh_requests_total", "Refresh requests by trigger", "trigger")

	m.assistantAnswers = m.counterVec("assistant_answers_total", "Assistant answers by mode (direct, llm, error)", "mode")
	m.assistantLatency = m.histogram("assistant_latency_milliseconds", "Assistant answer latency",
		[]float64{1, 5, 25, 100, 250, 500, 1000, 2500, 5000, 10000, 30000})

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint, method and status", "endpoint", "method", "status_code")
	m.httpRequestDuration = promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = m.counterVec("errors_by_component_total", "Errors by component and type", "component", "error_type")
	m.errorsByEndpoint = m.counterVec("errors_by_endpoint_total", "HTTP errors by endpoint, method and type", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "Average GC pause time",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// Load cycle metrics.

// RecordLoadCycle records the outcome and duration of a load cycle.
func RecordLoadCycle(ok bool, durationMs float64) {
	if !globalManager.enabled {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	globalManager.loadCycles.WithLabelValues(outcome).Inc()
	globalManager.loadDuration.Observe(durationMs)
}

// UpdateLastLoad sets the unix timestamp of the last published snapshot.
func UpdateLastLoad(unixSeconds int64) {
	if !globalManager.enabled {
		return
	}
	globalManager.lastLoadUnix.Set(float64(unixSeconds))
}

// UpdateTableRows sets the row count of a worksheet.
func UpdateTableRows(table string, rows int) {
	if !globalManager.enabled {
		return
	}
	globalManager.tableRows.WithLabelValues(table).Set(float64(rows))
}

// RecordFetchAttempt records a single worksheet fetch attempt.
func RecordFetchAttempt(table string, ok bool) {
	if !globalManager.enabled {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	globalManager.fetchAttempts.WithLabelValues(table, outcome).Inc()
}

// UpdateSnapshotsRetained sets the number of snapshots in the history ring.
func UpdateSnapshotsRetained(n int) {
	if !globalManager.enabled {
		return
	}
	globalManager.snapshotsRetained.Set(float64(n))
}

// Indicator engine metrics.

// RecordParseFailures adds n defaulted cells for a table column.
func RecordParseFailures(table, column string, n int) {
	if !globalManager.enabled || n <= 0 {
		return
	}
	globalManager.parseFailures.WithLabelValues(table, column).Add(float64(n))
}

// RecordEngineFallback increments the fallback counter for an indicator section.
func RecordEngineFallback(section string) {
	if !globalManager.enabled {
		return
	}
	globalManager.engineFallbacks.WithLabelValues(section).Inc()
}

// RecordEngineDuration records indicator compute time in milliseconds.
func RecordEngineDuration(durationMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.engineDuration.Observe(durationMs)
}

// UpdateKPI sets a numeric KPI gauge.
func UpdateKPI(name string, value float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.kpiValue.WithLabelValues(name).Set(value)
}

// UpdateDataAvailability records whether a worksheet had rows.
func UpdateDataAvailability(table string, available bool) {
	if !globalManager.enabled {
		return
	}
	v := 0.0
	if available {
		v = 1
	}
	globalManager.dataAvailability.WithLabelValues(table).Set(v)
}

// Refresh queue metrics.

// UpdateQueueSize sets the number of pending refresh requests.
func UpdateQueueSize(size int) {
	if !globalManager.enabled {
		return
	}
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the refresh queue capacity.
func UpdateQueueCapacity(capacity int) {
	if !globalManager.enabled {
		return
	}
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the accepted refresh counter.
func RecordQueueEnqueue() {
	if !globalManager.enabled {
		return
	}
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDropped increments the rejected refresh counter.
func RecordQueueDropped(reason string) {
	if !globalManager.enabled {
		return
	}
	globalManager.queueDropped.WithLabelValues(reason).Inc()
}

// RecordRefreshRequest counts a refresh request by trigger (manual, interval, watch, startup).
func RecordRefreshRequest(trigger string) {
	if !globalManager.enabled {
		return
	}
	globalManager.refreshRequests.WithLabelValues(trigger).Inc()
}

// Assistant metrics.

// RecordAssistantAnswer records an assistant answer by mode and latency.
func RecordAssistantAnswer(mode string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.assistantAnswers.WithLabelValues(mode).Inc()
	globalManager.assistantLatency.Observe(latencyMs)
}

// HTTP metrics.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error metrics.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System metrics.

// UpdateSystemMemoryUsage sets the heap usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// SetEnabled toggles collection on the global manager.
func SetEnabled(enabled bool) {
	globalManager.enabled = enabled
}

// ObserveKPIs exports the named numeric entries of a KPI mapping as gauges.
// Missing or non-numeric entries are reported as ErrObserveFailed; the rest are still set.
func ObserveKPIs(kpis map[string]any, names ...string) error {
	var errs []error
	for _, name := range names {
		var v float64
		switch n := kpis[name].(type) {
		case float64:
			v = n
		case int:
			v = float64(n)
		case bool:
			if n {
				v = 1
			}
		default:
			errs = append(errs, fmt.Errorf("%w: %s is %T", ErrObserveFailed, name, kpis[name]))
			continue
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		UpdateKPI(name, v)
	}
	return errors.Join(errs...)
}
