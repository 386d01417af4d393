package indicators

import (
	"strings"

	"github.com/okian/execdash/internal/domain/schema"
	"github.com/okian/execdash/internal/domain/scoring"
	"github.com/okian/execdash/internal/domain/targets"
)

// Status is a normalized project RAG status.
type Status string

// Project statuses.
const (
	StatusRed     Status = "R"
	StatusYellow  Status = "Y"
	StatusGreen   Status = "G"
	StatusUnknown Status = ""
)

// ParseStatus reads a RAG cell: trimmed, case-insensitive, R/RED, Y/YELLOW/AMBER, G/GREEN.
func ParseStatus(raw string) Status {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "R", "RED":
		return StatusRed
	case "Y", "YELLOW", "AMBER":
		return StatusYellow
	case "G", "GREEN":
		return StatusGreen
	default:
		return StatusUnknown
	}
}

func revenueHealth(p schema.Projects, col *collector) (RevenueHealth, ProjectCounts) {
	out := defaultRevenueHealth()
	counts := ProjectCounts{Total: p.Rows}
	if p.Rows == 0 {
		return out, counts
	}

	revenue := col.numbers(schema.ProjectInventory, p.Revenue)
	for i := 0; i < p.Rows; i++ {
		out.TotalRevenue += revenue[i]
		st := ParseStatus(p.Status.Cell(i))
		switch st {
		case StatusRed:
			counts.Red++
			out.RedRevenue += revenue[i]
		case StatusYellow:
			counts.Yellow++
			out.YellowRevenue += revenue[i]
		case StatusGreen:
			counts.Green++
			out.GreenRevenue += revenue[i]
		case StatusUnknown:
		}
		if st != StatusGreen {
			counts.NonGreen = append(counts.NonGreen, i)
		}
	}

	out.TotalProjects = counts.Total
	out.RedCount = counts.Red
	out.YellowCount = counts.Yellow
	out.GreenCount = counts.Green
	out.RevenueVsTargetPct = scoring.Percent(out.TotalRevenue, targets.Revenue)
	out.RevenueVsStretchPct = scoring.Percent(out.TotalRevenue, targets.RevenueStretchGoal)

	if !p.HealthScore.Present {
		return out, counts
	}
	labels := labelsOf(p.Name)
	health := col.optional(schema.ProjectInventory, p.HealthScore)
	out.Health = summarize(labels, health, targets.ProjectBands())
	out.HealthVsTargetPct = scoring.Percent(out.Health.Avg, targets.ProjectHealthScore)

	if p.EfficiencyScore.Present {
		efficiency := col.optional(schema.ProjectInventory, p.EfficiencyScore)
		total := scoring.Composite(health, efficiency, scoring.PrimaryWeight, scoring.SecondaryWeight)
		out.TotalScore = summarize(labels, total, targets.ProjectBands())
	}
	return out, counts
}
