package indicators

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/okian/execdash/internal/domain/normalize"
	"github.com/okian/execdash/internal/domain/schema"
	"github.com/okian/execdash/internal/domain/scoring"
	"github.com/okian/execdash/internal/domain/targets"
)

const dateLayout = "2006-01-02"

type satisfactionInput struct {
	projects schema.Projects
	util     schema.Utilization
	pipeline schema.PipelineView
	counts   ProjectCounts
	today    time.Time
}

func satisfaction(in satisfactionInput, col *collector) SatisfactionKPIs {
	out := defaultSatisfaction()
	customerNPS(&out, in.projects, col)
	team(&out, in.util, col)
	dealCycle(&out, in.pipeline, col)
	successorGap(&out, in.projects, in.today, col)
	checkins(&out, in.projects, in.counts, in.today, col)
	greenRatio(&out, in.projects, in.counts)
	return out
}

func customerNPS(out *SatisfactionKPIs, p schema.Projects, col *collector) {
	if p.Rows == 0 || !p.NPS.Present {
		return
	}
	nps := scoring.Mean(col.optional(schema.ProjectInventory, p.NPS))
	out.AvgCustomerNPS = orZero(nps)
	out.CustomerNPSVsTargetPct = scoring.Percent(out.AvgCustomerNPS, targets.CustomerNPS)
}

// isExecutive classifies a role by case-insensitive substring "executive".
func isExecutive(role string) bool {
	return strings.Contains(strings.ToLower(role), "executive")
}

func team(out *SatisfactionKPIs, u schema.Utilization, col *collector) {
	if u.Rows == 0 {
		return
	}
	if u.Pulse.Present {
		out.AvgPulse = orZero(scoring.Mean(col.optional(schema.TeamUtilization, u.Pulse)))
		out.PulseVsTargetPct = scoring.Percent(out.AvgPulse, targets.EmployeePulse)
	}
	if !u.Utilization.Present {
		return
	}

	// Blank and malformed utilization cells both count as 0.
	values := col.numbers(schema.TeamUtilization, u.Utilization)
	var execs, delivery []float64
	for i := 0; i < u.Rows; i++ {
		v := values[i]
		if isExecutive(u.Role.Cell(i)) {
			execs = append(execs, v)
			if v > targets.ExecOverUtilized {
				out.OverUtilizedExecs++
			}
			continue
		}
		delivery = append(delivery, v)
		if v < targets.DeliveryUnderUtilized {
			out.UnderUtilizedDelivery++
		}
		if v > targets.DeliveryOverUtilized {
			out.OverUtilizedDelivery++
		}
	}
	out.AvgExecUtilization = orZero(scoring.Mean(execs))
	out.AvgDeliveryUtilization = orZero(scoring.Mean(delivery))
}

func dealCycle(out *SatisfactionKPIs, pv schema.PipelineView, col *collector) {
	if pv.Rows == 0 || !pv.CreatedDate.Present || !pv.ClosedWonDate.Present {
		return
	}
	created, okCreated := col.dates(schema.Pipeline, pv.CreatedDate)
	won, okWon := col.dates(schema.Pipeline, pv.ClosedWonDate)

	var cycles []float64
	byTier := map[string][]float64{}
	for i := 0; i < pv.Rows; i++ {
		if !okCreated[i] || !okWon[i] {
			continue
		}
		days := normalize.DaysBetween(created[i], won[i])
		if days < 0 {
			continue
		}
		cycles = append(cycles, float64(days))
		if tier := pv.Tier.Cell(i); pv.Tier.Present && tier != "" {
			byTier[tier] = append(byTier[tier], float64(days))
		}
	}
	out.AvgDealCycleDays = orZero(scoring.Mean(cycles))
	out.MedianDealCycleDays = orZero(scoring.Median(cycles))
	for tier, days := range byTier {
		out.DealCycleByTier[tier] = TierCycle{Mean: scoring.Mean(days), Median: scoring.Median(days)}
	}
}

func successorGap(out *SatisfactionKPIs, p schema.Projects, today time.Time, col *collector) {
	if p.Rows == 0 || !p.EndDate.Present {
		return
	}
	end, okEnd := col.dates(schema.ProjectInventory, p.EndDate)
	next, okNext := col.dates(schema.ProjectInventory, p.NextOppDate)

	var gaps []float64
	for i := 0; i < p.Rows; i++ {
		if !okEnd[i] {
			continue
		}
		if okNext[i] {
			if gap := normalize.DaysBetween(end[i], next[i]); gap >= 0 {
				gaps = append(gaps, float64(gap))
			}
			continue
		}
		since := normalize.DaysBetween(end[i], today)
		if since > targets.NextDealDiscussionThresholdDays {
			out.OverdueNextDeal = append(out.OverdueNextDeal, map[string]string{
				p.Name.Name():        p.Name.Cell(i),
				p.EndDate.Name():     end[i].Format(dateLayout),
				p.NextOppDate.Name(): "",
				"Days Since End":     strconv.Itoa(since),
			})
		}
	}
	out.AvgNextDealGapDays = orZero(scoring.Mean(gaps))
	out.OverdueNextDealCount = len(out.OverdueNextDeal)
}

func checkins(out *SatisfactionKPIs, p schema.Projects, counts ProjectCounts, today time.Time, col *collector) {
	if p.Rows == 0 || !p.CheckinDate.Present {
		return
	}
	dates, ok := col.dates(schema.ProjectInventory, p.CheckinDate)
	cutoff := today.AddDate(0, 0, -targets.SponsorCheckinWindowDays)

	for i := 0; i < p.Rows; i++ {
		inWindow := ok[i] && !dates[i].Before(cutoff)
		if inWindow && p.CheckinNotes.Cell(i) != "" {
			out.RecentCheckins++
		}
		if inWindow {
			continue
		}
		last := ""
		if ok[i] {
			last = dates[i].Format(dateLayout)
		}
		out.OverdueCheckins = append(out.OverdueCheckins, map[string]string{
			p.Name.Name():         p.Name.Cell(i),
			p.CheckinDate.Name():  last,
			p.CheckinNotes.Name(): p.CheckinNotes.Cell(i),
		})
	}
	out.RecentCheckinsPct = scoring.Percent(float64(out.RecentCheckins), float64(counts.Total))
	out.OverdueCheckinCount = len(out.OverdueCheckins)
}

func greenRatio(out *SatisfactionKPIs, p schema.Projects, counts ProjectCounts) {
	if counts.Total == 0 {
		return
	}
	out.GreenRatio = scoring.Ratio(float64(counts.Green), float64(counts.Total))
	out.GreenRatioVsTargetPct = scoring.Percent(out.GreenRatio, targets.GreenProjectRatio)
	for _, i := range counts.NonGreen {
		out.NonGreen = append(out.NonGreen, map[string]string{
			p.Name.Name():      p.Name.Cell(i),
			p.Status.Name():    p.Status.Cell(i),
			p.KeyIssues.Name(): p.KeyIssues.Cell(i),
		})
	}
}

// Tiers returns the tier names of a deal cycle breakdown in lexical order.
func Tiers(byTier map[string]TierCycle) []string {
	out := make([]string, 0, len(byTier))
	for t := range byTier {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
