package assistant

import (
	"fmt"
	"strings"

	"github.com/okian/execdash/internal/domain/indicators"
)

// directRule answers one family of questions straight from the KPI mapping.
type directRule struct {
	match  func(q string) bool
	answer func(k map[string]any) string
}

func containsAny(q string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(q, w) {
			return true
		}
	}
	return false
}

var directRules = []directRule{ //nolint:gochecknoglobals // static rule table
	{
		match: func(q string) bool { return strings.Contains(q, "total revenue") },
		answer: func(k map[string]any) string {
			return fmt.Sprintf("Total revenue is %s.", indicators.FormatCurrency(lookup(k, "total_revenue")))
		},
	},
	{
		match: func(q string) bool {
			return strings.Contains(q, "red project") && containsAny(q, "count", "how many")
		},
		answer: func(k map[string]any) string {
			return fmt.Sprintf("There are %s red projects.", indicators.FormatNumber(lookup(k, "red_projects_count"), 0))
		},
	},
	{
		match: func(q string) bool { return strings.Contains(q, "pipeline coverage") },
		answer: func(k map[string]any) string {
			return fmt.Sprintf("Pipeline coverage is %sx of the revenue target (%s of the coverage target).",
				indicators.FormatNumber(lookup(k, "pipeline_coverage_ratio"), 2),
				indicators.FormatPercentage(lookup(k, "pipeline_coverage_vs_target_pct"), 1))
		},
	},
	{
		match: func(q string) bool {
			return strings.Contains(q, "green") && containsAny(q, "ratio", "percent", "%", "share")
		},
		answer: func(k map[string]any) string {
			ratio, _ := lookup(k, "green_project_ratio").(float64)
			return fmt.Sprintf("%s of projects are green (%s of target).",
				indicators.FormatPercentage(ratio*100, 1),
				indicators.FormatPercentage(lookup(k, "green_project_ratio_vs_target_pct"), 1))
		},
	},
	{
		match: func(q string) bool {
			return containsAny(q, "high severity", "high-severity") && strings.Contains(q, "risk")
		},
		answer: func(k map[string]any) string {
			return fmt.Sprintf("There are %s high-severity risks with a combined impact of %s.",
				indicators.FormatNumber(lookup(k, "high_severity_risk_count"), 0),
				indicators.FormatCurrency(lookup(k, "high_severity_risk_impact")))
		},
	},
	{
		match: func(q string) bool { return strings.Contains(q, "utilization") },
		answer: func(k map[string]any) string {
			return fmt.Sprintf("Average executive utilization is %s and average delivery utilization is %s.",
				indicators.FormatPercentage(lookup(k, "avg_exec_utilization_pct"), 1),
				indicators.FormatPercentage(lookup(k, "avg_delivery_utilization_pct"), 1))
		},
	},
}

// lookup returns nil for absent keys so the formatters render "N/A".
func lookup(k map[string]any, key string) any {
	if k == nil {
		return nil
	}
	return k[key]
}

// Direct answers question from the KPI mapping when it matches a known
// literal pattern. Matching is case-insensitive and the first rule wins.
func Direct(question string, kpis map[string]any) (string, bool) {
	q := strings.ToLower(strings.TrimSpace(question))
	if q == "" {
		return "", false
	}
	for _, r := range directRules {
		if r.match(q) {
			return r.answer(kpis), true
		}
	}
	return "", false
}
