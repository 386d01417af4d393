package service

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/execdash/internal/adapters/repository"
	"github.com/okian/execdash/internal/domain/assistant"
	"github.com/okian/execdash/internal/domain/indicators"
	"github.com/okian/execdash/internal/domain/model"
	"github.com/okian/execdash/pkg/logger"
	"github.com/okian/execdash/pkg/metrics"
)

// gaugedKPIs are exported as Prometheus gauges after every load cycle.
var gaugedKPIs = []string{ //nolint:gochecknoglobals // static key list
	"total_revenue",
	"total_projects",
	"red_projects_count",
	"pipeline_coverage_ratio",
	"green_project_ratio",
	"high_severity_risk_count",
	"avg_customer_nps",
	"avg_employee_pulse_score",
	"avg_delivery_utilization_pct",
}

// Refresh runs one load cycle: fetch every worksheet, compute the KPI
// mapping and publish the snapshot. When no worksheet could be read the
// previous snapshot stays current.
func (s *Service) Refresh(ctx context.Context, req model.RefreshRequest) error {
	start := time.Now()
	res, err := s.loader.Load(ctx, s.worksheets...)
	if err != nil {
		metrics.RecordLoadCycle(false, msSince(start))
		return fmt.Errorf("refresh: %w", err)
	}

	computeStart := time.Now()
	report := s.engine.Compute(ctx, res.Tables)
	metrics.RecordEngineDuration(msSince(computeStart))
	kpis := report.KPIs.Map()

	snap, err := s.store.Publish(ctx, &repository.Snapshot{
		LoadedAt: s.now().UTC(),
		Duration: time.Since(start),
		Tables:   res.Tables,
		Report:   report,
		KPIs:     kpis,
		Context:  assistant.RenderContext(res.Tables, s.worksheets...),
		Missing:  res.Missing,
		Failed:   res.Failed,
	})
	if err != nil {
		metrics.RecordLoadCycle(false, msSince(start))
		return fmt.Errorf("refresh: publish: %w", err)
	}

	s.export(ctx, report, kpis)
	metrics.RecordLoadCycle(true, msSince(start))
	s.logger.Info(ctx, "snapshot published",
		logger.String("snapshot", snap.ID),
		logger.String("request", req.ID),
		logger.String("trigger", req.Trigger),
		logger.Int("malformed", report.Diagnostics.MalformedCells()),
		logger.Int("missing", len(res.Missing)),
		logger.Int("failed", len(res.Failed)),
		logger.Duration("took", snap.Duration),
	)
	return nil
}

// export publishes the diagnostics and headline KPIs of one cycle as metrics.
func (s *Service) export(ctx context.Context, report indicators.Report, kpis map[string]any) {
	for _, c := range report.Diagnostics.Columns {
		metrics.RecordParseFailures(c.Table, c.Column, c.Malformed)
	}
	for _, section := range report.Diagnostics.Fallbacks {
		metrics.RecordEngineFallback(section)
	}
	for name, ok := range report.KPIs.Availability {
		metrics.UpdateDataAvailability(name, ok)
	}
	if err := metrics.ObserveKPIs(kpis, gaugedKPIs...); err != nil {
		s.logger.Debug(ctx, "kpi gauges incomplete", logger.Error(err))
	}
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}
