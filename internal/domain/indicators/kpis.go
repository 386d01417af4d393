package indicators

import (
	"github.com/okian/execdash/internal/domain/schema"
	"github.com/okian/execdash/internal/domain/scoring"
	"github.com/okian/execdash/internal/domain/targets"
)

// ScoreSummary aggregates one score column.
type ScoreSummary struct {
	Avg      float64
	Median   float64
	Bands    map[string]int
	BandsPct map[string]float64
	Top      string
	Bottom   string
}

func emptySummary(bands scoring.Bands) ScoreSummary {
	return summarize(nil, nil, bands)
}

// labelsOf returns the cells of a label column, or nil when the column is
// absent so that top and bottom fall back to N/A.
func labelsOf(c schema.Column) []string {
	if !c.Present {
		return nil
	}
	return c.Cells
}

func summarize(labels []string, scores []float64, bands scoring.Bands) ScoreSummary {
	counts, pct := scoring.Distribution(scores, bands)
	top, bottom := scoring.TopBottom(labels, scores)
	return ScoreSummary{
		Avg:      orZero(scoring.Mean(scores)),
		Median:   orZero(scoring.Median(scores)),
		Bands:    counts,
		BandsPct: pct,
		Top:      top,
		Bottom:   bottom,
	}
}

// ProjectCounts is the status tally of the Project Inventory computed once by
// the revenue section and reused by the satisfaction section.
type ProjectCounts struct {
	Total    int
	Red      int
	Yellow   int
	Green    int
	NonGreen []int
}

// RevenueHealth holds the Revenue & Project Health section.
type RevenueHealth struct {
	TotalProjects       int
	RedCount            int
	YellowCount         int
	GreenCount          int
	RedRevenue          float64
	YellowRevenue       float64
	GreenRevenue        float64
	TotalRevenue        float64
	RevenueVsTargetPct  float64
	RevenueVsStretchPct float64
	Health              ScoreSummary
	HealthVsTargetPct   float64
	TotalScore          ScoreSummary
}

func defaultRevenueHealth() RevenueHealth {
	return RevenueHealth{
		Health:     emptySummary(targets.ProjectBands()),
		TotalScore: emptySummary(targets.ProjectBands()),
	}
}

// PipelineKPIs holds the pipeline half of the Pipeline & Risk section.
type PipelineKPIs struct {
	ActiveValue         float64
	PotentialValue      float64
	CoverageRatio       float64
	CoverageVsTargetPct float64
	Score               ScoreSummary
	ScoreVsTargetPct    float64
	TotalDeal           ScoreSummary
}

func defaultPipeline() PipelineKPIs {
	return PipelineKPIs{
		Score:     emptySummary(targets.PipelineBands()),
		TotalDeal: emptySummary(targets.PipelineBands()),
	}
}

// RiskKPIs holds the risk half of the Pipeline & Risk section.
// HighShareDefined is false when total impact is 0, where HighSharePct is reported as 0.
type RiskKPIs struct {
	TotalImpact      float64
	Count            int
	HighCount        int
	HighImpact       float64
	HighSharePct     float64
	HighShareDefined bool
}

// TierCycle is the deal cycle summary of one pursuit tier.
type TierCycle struct {
	Mean   float64
	Median float64
}

// SatisfactionKPIs holds the Satisfaction & Efficiency section.
type SatisfactionKPIs struct {
	AvgCustomerNPS         float64
	CustomerNPSVsTargetPct float64
	AvgPulse               float64
	PulseVsTargetPct       float64
	AvgExecUtilization     float64
	AvgDeliveryUtilization float64
	OverUtilizedExecs      int
	UnderUtilizedDelivery  int
	OverUtilizedDelivery   int
	AvgDealCycleDays       float64
	MedianDealCycleDays    float64
	DealCycleByTier        map[string]TierCycle
	AvgNextDealGapDays     float64
	OverdueNextDealCount   int
	OverdueNextDeal        []map[string]string
	RecentCheckins         int
	RecentCheckinsPct      float64
	OverdueCheckinCount    int
	OverdueCheckins        []map[string]string
	GreenRatio             float64
	GreenRatioVsTargetPct  float64
	NonGreen               []map[string]string
}

func defaultSatisfaction() SatisfactionKPIs {
	return SatisfactionKPIs{
		DealCycleByTier: map[string]TierCycle{},
		OverdueNextDeal: []map[string]string{},
		OverdueCheckins: []map[string]string{},
		NonGreen:        []map[string]string{},
	}
}

// ExecutiveKPIs holds the Executive Activity section.
type ExecutiveKPIs struct {
	TotalStrategicCost float64
	ActivitiesCount    int
}

// KPIs is the typed accumulator filled section by section.
type KPIs struct {
	Revenue      RevenueHealth
	Pipeline     PipelineKPIs
	Risk         RiskKPIs
	Satisfaction SatisfactionKPIs
	Executive    ExecutiveKPIs
	Availability map[string]bool
}

func defaultKPIs() KPIs {
	return KPIs{
		Revenue:      defaultRevenueHealth(),
		Pipeline:     defaultPipeline(),
		Satisfaction: defaultSatisfaction(),
		Availability: map[string]bool{},
	}
}

// AvailabilityTables lists the worksheets reported under data_availability.
var AvailabilityTables = []string{ //nolint:gochecknoglobals // static table list
	schema.ProjectInventory,
	schema.Pipeline,
	schema.ProjectRisks,
	schema.TeamUtilization,
	schema.ExecutiveActivity,
}

// Keys lists every key of the flat KPI mapping, in presentation order.
var Keys = []string{ //nolint:gochecknoglobals // static key list
	"total_projects", "red_projects_count", "yellow_projects_count", "green_projects_count",
	"red_project_revenue", "yellow_project_revenue", "green_project_revenue",
	"total_revenue", "revenue_vs_target_pct", "revenue_vs_stretch_pct",
	"avg_project_health_score", "median_project_health_score",
	"project_health_score_bands", "project_health_score_bands_pct",
	"top_project_by_health_score", "bottom_project_by_health_score", "project_health_score_vs_target_pct",
	"avg_total_project_score", "median_total_project_score",
	"total_project_score_bands", "total_project_score_bands_pct",
	"top_project_by_total_score", "bottom_project_by_total_score",
	"active_pipeline_value", "total_potential_pipeline_value",
	"pipeline_coverage_ratio", "pipeline_coverage_vs_target_pct",
	"avg_pipeline_score", "median_pipeline_score", "pipeline_score_bands", "pipeline_score_bands_pct",
	"top_pipeline_by_score", "bottom_pipeline_by_score", "pipeline_score_vs_target_pct",
	"avg_total_deal_score", "median_total_deal_score", "total_deal_score_bands", "total_deal_score_bands_pct",
	"top_pipeline_by_total_score", "bottom_pipeline_by_total_score",
	"total_risk_impact", "total_risk_count", "high_severity_risk_count", "high_severity_risk_impact",
	"high_risk_impact_as_pct_of_total", "high_risk_impact_share_defined",
	"avg_customer_nps", "customer_nps_vs_target_pct",
	"avg_employee_pulse_score", "employee_pulse_vs_target_pct",
	"avg_exec_utilization_pct", "avg_delivery_utilization_pct",
	"over_utilized_execs_count", "under_utilized_delivery_count", "over_utilized_delivery_count",
	"avg_deal_cycle_time_days", "median_deal_cycle_time_days", "deal_cycle_time_by_tier",
	"avg_next_deal_gap_days", "overdue_next_deal_discussion_count", "overdue_next_deal_projects_list",
	"recent_meaningful_checkins_count", "recent_meaningful_checkins_pct",
	"overdue_sponsor_checkin_count", "overdue_checkin_projects_list",
	"green_project_ratio", "green_project_ratio_vs_target_pct", "non_green_projects_list",
	"total_strategic_cost", "total_strategic_activities_count",
	"data_availability",
}

// Map flattens the accumulator into the KPI mapping consumed by the
// presentation layer and the assistant. Every name in Keys is present.
func (k KPIs) Map() map[string]any {
	m := make(map[string]any, len(Keys))

	r := k.Revenue
	m["total_projects"] = r.TotalProjects
	m["red_projects_count"] = r.RedCount
	m["yellow_projects_count"] = r.YellowCount
	m["green_projects_count"] = r.GreenCount
	m["red_project_revenue"] = r.RedRevenue
	m["yellow_project_revenue"] = r.YellowRevenue
	m["green_project_revenue"] = r.GreenRevenue
	m["total_revenue"] = r.TotalRevenue
	m["revenue_vs_target_pct"] = r.RevenueVsTargetPct
	m["revenue_vs_stretch_pct"] = r.RevenueVsStretchPct
	putSummary(m, "project_health_score", "project_by_health_score", r.Health)
	m["project_health_score_vs_target_pct"] = r.HealthVsTargetPct
	putSummary(m, "total_project_score", "project_by_total_score", r.TotalScore)

	p := k.Pipeline
	m["active_pipeline_value"] = p.ActiveValue
	m["total_potential_pipeline_value"] = p.PotentialValue
	m["pipeline_coverage_ratio"] = p.CoverageRatio
	m["pipeline_coverage_vs_target_pct"] = p.CoverageVsTargetPct
	putSummary(m, "pipeline_score", "pipeline_by_score", p.Score)
	m["pipeline_score_vs_target_pct"] = p.ScoreVsTargetPct
	putSummary(m, "total_deal_score", "pipeline_by_total_score", p.TotalDeal)

	rk := k.Risk
	m["total_risk_impact"] = rk.TotalImpact
	m["total_risk_count"] = rk.Count
	m["high_severity_risk_count"] = rk.HighCount
	m["high_severity_risk_impact"] = rk.HighImpact
	m["high_risk_impact_as_pct_of_total"] = rk.HighSharePct
	m["high_risk_impact_share_defined"] = rk.HighShareDefined

	s := k.Satisfaction
	m["avg_customer_nps"] = s.AvgCustomerNPS
	m["customer_nps_vs_target_pct"] = s.CustomerNPSVsTargetPct
	m["avg_employee_pulse_score"] = s.AvgPulse
	m["employee_pulse_vs_target_pct"] = s.PulseVsTargetPct
	m["avg_exec_utilization_pct"] = s.AvgExecUtilization
	m["avg_delivery_utilization_pct"] = s.AvgDeliveryUtilization
	m["over_utilized_execs_count"] = s.OverUtilizedExecs
	m["under_utilized_delivery_count"] = s.UnderUtilizedDelivery
	m["over_utilized_delivery_count"] = s.OverUtilizedDelivery
	m["avg_deal_cycle_time_days"] = s.AvgDealCycleDays
	m["median_deal_cycle_time_days"] = s.MedianDealCycleDays
	byTier := make(map[string]map[string]float64, len(s.DealCycleByTier))
	for tier, c := range s.DealCycleByTier {
		byTier[tier] = map[string]float64{"mean": c.Mean, "median": c.Median}
	}
	m["deal_cycle_time_by_tier"] = byTier
	m["avg_next_deal_gap_days"] = s.AvgNextDealGapDays
	m["overdue_next_deal_discussion_count"] = s.OverdueNextDealCount
	m["overdue_next_deal_projects_list"] = nonNil(s.OverdueNextDeal)
	m["recent_meaningful_checkins_count"] = s.RecentCheckins
	m["recent_meaningful_checkins_pct"] = s.RecentCheckinsPct
	m["overdue_sponsor_checkin_count"] = s.OverdueCheckinCount
	m["overdue_checkin_projects_list"] = nonNil(s.OverdueCheckins)
	m["green_project_ratio"] = s.GreenRatio
	m["green_project_ratio_vs_target_pct"] = s.GreenRatioVsTargetPct
	m["non_green_projects_list"] = nonNil(s.NonGreen)

	m["total_strategic_cost"] = k.Executive.TotalStrategicCost
	m["total_strategic_activities_count"] = k.Executive.ActivitiesCount

	avail := make(map[string]bool, len(AvailabilityTables))
	for _, name := range AvailabilityTables {
		avail[name] = k.Availability[name]
	}
	m["data_availability"] = avail
	return m
}

// putSummary writes avg_/median_/_bands/_bands_pct under metric and top_/bottom_ under rank.
func putSummary(m map[string]any, metric, rank string, s ScoreSummary) {
	m["avg_"+metric] = s.Avg
	m["median_"+metric] = s.Median
	m[metric+"_bands"] = s.Bands
	m[metric+"_bands_pct"] = s.BandsPct
	m["top_"+rank] = s.Top
	m["bottom_"+rank] = s.Bottom
}

func nonNil(rows []map[string]string) []map[string]string {
	if rows == nil {
		return []map[string]string{}
	}
	return rows
}
