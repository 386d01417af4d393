// Package targets holds the fiscal-year targets and score bands the indicators are measured against.
// They are fixed at build time.
package targets

import "github.com/okian/execdash/internal/domain/scoring"

// Revenue targets.
const (
	Revenue            = 15_000_000.0
	RevenueStretchGoal = 20_000_000.0
)

// Delivery and satisfaction targets.
const (
	GreenProjectRatio = 0.90
	EmployeePulse     = 8.0
	CustomerNPS       = 50.0
)

// PipelineCoverage is the wanted multiple of the revenue target held as active pipeline.
const PipelineCoverage = 3.0

// Cadence thresholds in days.
const (
	SponsorCheckinWindowDays        = 30
	NextDealDiscussionThresholdDays = 30
)

// Score targets.
const (
	ProjectHealthScore = 85.0
	PipelineScore      = 70.0
)

// Utilization thresholds in percent.
const (
	ExecOverUtilized      = 70.0
	DeliveryUnderUtilized = 70.0
	DeliveryOverUtilized  = 100.0
)

// ProjectBands classifies project health and total project scores.
func ProjectBands() scoring.Bands {
	return scoring.Bands{
		{Name: "Excellent", Low: 85, High: 100},
		{Name: "Strong", Low: 70, High: 84.99},
		{Name: "Weak", Low: 0, High: 69.99},
	}
}

// PipelineBands classifies pipeline and total deal scores.
func PipelineBands() scoring.Bands {
	return scoring.Bands{
		{Name: "Strong", Low: 70, High: 100},
		{Name: "Medium", Low: 40, High: 69.99},
		{Name: "Weak", Low: 0, High: 39.99},
	}
}
