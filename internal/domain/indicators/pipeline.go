package indicators

import (
	"strings"

	"github.com/okian/execdash/internal/domain/schema"
	"github.com/okian/execdash/internal/domain/scoring"
	"github.com/okian/execdash/internal/domain/targets"
)

func pipelineKPIs(pv schema.PipelineView, col *collector) PipelineKPIs {
	out := defaultPipeline()
	if pv.Rows == 0 {
		return out
	}

	out.ActiveValue = scoring.Sum(col.numbers(schema.Pipeline, pv.ActiveWork))
	out.PotentialValue = scoring.Sum(col.numbers(schema.Pipeline, pv.AnnualAMO))
	out.CoverageRatio = scoring.Ratio(out.ActiveValue, targets.Revenue)
	out.CoverageVsTargetPct = scoring.Percent(out.CoverageRatio, targets.PipelineCoverage)

	if !pv.Score.Present {
		return out
	}
	labels := labelsOf(pv.Account)
	scores := col.optional(schema.Pipeline, pv.Score)
	out.Score = summarize(labels, scores, targets.PipelineBands())
	out.ScoreVsTargetPct = scoring.Percent(out.Score.Avg, targets.PipelineScore)

	if pv.RelationalScore.Present {
		relational := col.optional(schema.Pipeline, pv.RelationalScore)
		total := scoring.Composite(scores, relational, scoring.PrimaryWeight, scoring.SecondaryWeight)
		out.TotalDeal = summarize(labels, total, targets.PipelineBands())
	}
	return out
}

func riskKPIs(r schema.Risks, col *collector) RiskKPIs {
	out := RiskKPIs{Count: r.Rows}
	if r.Rows == 0 {
		return out
	}

	impact := col.numbers(schema.ProjectRisks, r.Impact)
	for i := 0; i < r.Rows; i++ {
		out.TotalImpact += impact[i]
		if strings.EqualFold(r.Severity.Cell(i), "high") {
			out.HighCount++
			out.HighImpact += impact[i]
		}
	}
	out.HighShareDefined = out.TotalImpact != 0
	out.HighSharePct = scoring.Percent(out.HighImpact, out.TotalImpact)
	return out
}
