// Package indicators derives the executive KPI set from the loaded worksheets.
//
// Compute is a pure function of its input tables, the build-time targets and
// the injected clock. Each section runs under its own guard: a panic inside a
// section resets that section to its defaults and is reported in Diagnostics,
// leaving the other sections untouched.
package indicators

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/okian/execdash/internal/domain/model"
	"github.com/okian/execdash/internal/domain/normalize"
	"github.com/okian/execdash/internal/domain/schema"
	"github.com/okian/execdash/pkg/logger"
)

// Section names used in diagnostics and logs.
const (
	SectionRevenue      = "revenue_health"
	SectionPipeline     = "pipeline"
	SectionRisk         = "risk"
	SectionSatisfaction = "satisfaction_efficiency"
	SectionExecutive    = "executive_activity"
)

// Engine computes KPI reports.
type Engine struct {
	now func() time.Time
	log logger.Logger
}

// NewEngine creates an engine with the wall clock and the global logger.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logger.Get().Named("indicators")
	}
	return e
}

// ColumnDiagnostic counts cells of one column that could not be read.
type ColumnDiagnostic struct {
	Table     string `json:"table"`
	Column    string `json:"column"`
	Kind      string `json:"kind"`
	Total     int    `json:"total"`
	Blank     int    `json:"blank"`
	Malformed int    `json:"malformed"`
}

// Diagnostics describes what the engine had to default during one Compute.
type Diagnostics struct {
	Columns   []ColumnDiagnostic `json:"columns"`
	Fallbacks []string           `json:"fallbacks"`
}

// MalformedCells sums malformed cells across columns.
func (d Diagnostics) MalformedCells() int {
	n := 0
	for _, c := range d.Columns {
		n += c.Malformed
	}
	return n
}

// Report is the result of one Compute.
type Report struct {
	KPIs        KPIs
	Diagnostics Diagnostics
}

// collector records per-column diagnostics once per table/column/kind.
type collector struct {
	seen map[string]struct{}
	cols []ColumnDiagnostic
}

func newCollector() *collector {
	return &collector{seen: map[string]struct{}{}}
}

func (c *collector) add(table string, col schema.Column, kind string, d normalize.Diagnostics) {
	if !col.Present {
		return
	}
	key := table + "\x00" + col.Header + "\x00" + kind
	if _, ok := c.seen[key]; ok {
		return
	}
	c.seen[key] = struct{}{}
	c.cols = append(c.cols, ColumnDiagnostic{
		Table:     table,
		Column:    col.Header,
		Kind:      kind,
		Total:     d.Total,
		Blank:     d.Blank,
		Malformed: d.Malformed,
	})
}

// numbers parses a column fail-open and records its diagnostics.
func (c *collector) numbers(table string, col schema.Column) []float64 {
	vals, d := normalize.Column(col.Cells)
	c.add(table, col, "number", d)
	return vals
}

// optional parses a score-like column, NaN for unreadable cells.
func (c *collector) optional(table string, col schema.Column) []float64 {
	vals, d := normalize.OptionalColumn(col.Cells)
	c.add(table, col, "number", d)
	return vals
}

func (c *collector) dates(table string, col schema.Column) ([]time.Time, []bool) {
	dates, ok, d := normalize.DateColumn(col.Cells)
	c.add(table, col, "date", d)
	return dates, ok
}

// Compute derives the full KPI report from tables.
func (e *Engine) Compute(ctx context.Context, tables model.TableSet) Report {
	k := defaultKPIs()
	diag := Diagnostics{Fallbacks: []string{}}
	col := newCollector()
	today := normalize.Day(e.now())

	projects := tables.Get(schema.ProjectInventory)
	pipeline := tables.Get(schema.Pipeline)
	risks := tables.Get(schema.ProjectRisks)
	util := tables.Get(schema.TeamUtilization)
	exec := tables.Get(schema.ExecutiveActivity)

	for _, name := range AvailabilityTables {
		k.Availability[name] = !tables.Get(name).Empty()
	}

	var counts ProjectCounts
	e.guard(ctx, SectionRevenue, &diag, func() {
		k.Revenue, counts = revenueHealth(schema.BindProjects(projects), col)
	}, func() {
		k.Revenue, counts = defaultRevenueHealth(), ProjectCounts{}
	})

	e.guard(ctx, SectionPipeline, &diag, func() {
		k.Pipeline = pipelineKPIs(schema.BindPipeline(pipeline), col)
	}, func() {
		k.Pipeline = defaultPipeline()
	})

	e.guard(ctx, SectionRisk, &diag, func() {
		k.Risk = riskKPIs(schema.BindRisks(risks), col)
	}, func() {
		k.Risk = RiskKPIs{}
	})

	e.guard(ctx, SectionSatisfaction, &diag, func() {
		k.Satisfaction = satisfaction(satisfactionInput{
			projects: schema.BindProjects(projects),
			util:     schema.BindUtilization(util),
			pipeline: schema.BindPipeline(pipeline),
			counts:   counts,
			today:    today,
		}, col)
	}, func() {
		k.Satisfaction = defaultSatisfaction()
	})

	e.guard(ctx, SectionExecutive, &diag, func() {
		k.Executive = executiveKPIs(schema.BindExecActivity(exec), col)
	}, func() {
		k.Executive = ExecutiveKPIs{}
	})

	diag.Columns = col.cols
	for _, c := range diag.Columns {
		if c.Malformed > 0 {
			e.log.Debug(ctx, "cells defaulted",
				logger.String("table", c.Table),
				logger.String("column", c.Column),
				logger.String("kind", c.Kind),
				logger.Int("malformed", c.Malformed),
			)
		}
	}
	return Report{KPIs: k, Diagnostics: diag}
}

// guard runs fn and, if it panics, runs reset and records the fallback.
func (e *Engine) guard(ctx context.Context, section string, diag *Diagnostics, fn, reset func()) {
	defer func() {
		if r := recover(); r != nil {
			reset()
			diag.Fallbacks = append(diag.Fallbacks, section)
			e.log.Warn(ctx, "indicator section fell back to defaults",
				logger.String("section", section),
				logger.String("panic", fmt.Sprint(r)),
			)
		}
	}()
	fn()
}

func orZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
