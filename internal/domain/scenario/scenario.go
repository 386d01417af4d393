// Package scenario models the "do nothing" versus "proposed" operating scenarios
// driven by the Scenario Model Inputs worksheet.
package scenario

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/okian/execdash/internal/domain/model"
	"github.com/okian/execdash/internal/domain/normalize"
	"github.com/okian/execdash/internal/domain/schema"
)

// Input assumption names.
const (
	VPHourlySellingValue      = "VP Hourly Selling Value"
	VPHoursWeeklyOnDelivery   = "VP Hours Weekly on Delivery"
	HeadHourlyStrategicValue  = "Head of Delivery Hourly Strategic Delivery Value"
	HeadWeeklyTacticalHours   = "Head of Delivery Weekly Tactical Delivery Hours"
	AvgProjectSize            = "Avg. Project Size"
	SalesConversionRatePct    = "Sales Conversion Rate (%)"
	TurnoverCostPerSenior     = "Avg. Cost of Turnover per Senior Employee"
	ProjectsAtRiskPct         = "% Projects at Risk"
	RevenueAtRisk             = "Revenue at Risk due to troubled projects"
	WorkWeeksPerYear          = "Work Weeks in a year"
	ChiefOfStaffSalary        = "Cost of Chief of Staff Salary"
	defaultWorkWeeks          = 50.0
	defaultChiefOfStaffSalary = 100_000.0
)

// Result categories.
const (
	LostSales                 = "Lost Sales (VP involvement)"
	StrategicLoss             = "Strategic Loss (Head of Delivery Role)"
	ProjectRecoveryCosts      = "Project Recovery Costs"
	TurnoverImpact            = "Employee Turnover Impact"
	RegainedSellingTime       = "Regained VP Selling Time"
	DeliveryCapacityRecovered = "Strategic Delivery Capacity Recovered"
	ProjectHealthImprovement  = "Project Health Improvement"
	ImprovedRetention         = "Improved Retention"
	ChiefOfStaffCost          = "Cost of Chief of Staff Salary"
	TotalNegative             = "Total Negative Impact"
	TotalPositive             = "Total Positive Impact"
)

// Categories lists every result category in calculation order.
var Categories = []string{ //nolint:gochecknoglobals // static category list
	LostSales, StrategicLoss, ProjectRecoveryCosts, TurnoverImpact,
	RegainedSellingTime, DeliveryCapacityRecovered, ProjectHealthImprovement, ImprovedRetention, ChiefOfStaffCost,
	TotalNegative, TotalPositive,
}

// Inputs maps assumption names to numeric values.
type Inputs map[string]float64

// Baseline reads the assumptions from the Scenario Model Inputs worksheet.
// Values are parsed like any other numeric cell ("$" and "%" are stripped).
// It returns false when the worksheet or its Assumption/Value columns are missing.
func Baseline(t model.Table) (Inputs, bool) {
	view := schema.BindScenarioInputs(t)
	if view.Rows == 0 || !view.Assumption.Present || !view.Value.Present {
		return Inputs{}, false
	}
	in := make(Inputs, view.Rows)
	for i := 0; i < view.Rows; i++ {
		name := view.Assumption.Cell(i)
		if name == "" {
			continue
		}
		in[name] = normalize.Parse(view.Value.Cell(i)).Value
	}
	return in, true
}

// Merge returns a copy of in with overrides applied.
func (in Inputs) Merge(overrides Inputs) Inputs {
	out := make(Inputs, len(in)+len(overrides))
	for k, v := range in {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

func (in Inputs) get(name string, def float64) float64 {
	if v, ok := in[name]; ok {
		return v
	}
	return def
}

// Results maps categories to annual dollar impact.
type Results map[string]float64

// Calculate evaluates one scenario.
func Calculate(in Inputs) Results {
	vpHourly := in.get(VPHourlySellingValue, 0)
	vpHours := in.get(VPHoursWeeklyOnDelivery, 0)
	headHourly := in.get(HeadHourlyStrategicValue, 0)
	headHours := in.get(HeadWeeklyTacticalHours, 0)
	turnover := in.get(TurnoverCostPerSenior, 0)
	atRisk := in.get(ProjectsAtRiskPct, 0) / 100
	revAtRisk := in.get(RevenueAtRisk, 0)
	weeks := in.get(WorkWeeksPerYear, defaultWorkWeeks)
	salary := in.get(ChiefOfStaffSalary, defaultChiefOfStaffSalary)

	r := Results{
		LostSales:                 -vpHours * vpHourly * weeks,
		StrategicLoss:             -headHours * headHourly * weeks,
		ProjectRecoveryCosts:      -revAtRisk * atRisk,
		TurnoverImpact:            -3 * turnover,
		RegainedSellingTime:       12 * vpHourly * weeks,
		DeliveryCapacityRecovered: 15 * headHourly * weeks,
		ProjectHealthImprovement:  0.5 * revAtRisk * atRisk,
		ImprovedRetention:         2 * turnover,
		ChiefOfStaffCost:          -salary,
	}
	r[TotalNegative] = r[LostSales] + r[StrategicLoss] + r[ProjectRecoveryCosts] + r[TurnoverImpact]
	r[TotalPositive] = r[RegainedSellingTime] + r[DeliveryCapacityRecovered] + r[ProjectHealthImprovement] +
		r[ImprovedRetention] + r[ChiefOfStaffCost]
	return r
}

// Row compares one category across both scenarios.
type Row struct {
	Category   string  `json:"category"`
	DoNothing  float64 `json:"do_nothing"`
	Proposed   float64 `json:"proposed"`
	Difference float64 `json:"difference"`
}

// Comparison is the evaluated pair of scenarios.
type Comparison struct {
	Baseline Inputs `json:"baseline"`
	Proposed Inputs `json:"proposed"`
	Rows     []Row  `json:"rows"`
}

// Compare evaluates baseline and proposed inputs and orders the rows: costs
// first, then gains, then totals, alphabetically within each group.
func Compare(baseline, proposed Inputs) Comparison {
	base, prop := Calculate(baseline), Calculate(proposed)
	rows := make([]Row, 0, len(Categories))
	for _, c := range Categories {
		rows = append(rows, Row{
			Category:   c,
			DoNothing:  base[c],
			Proposed:   prop[c],
			Difference: prop[c] - base[c],
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		gi, gj := group(rows[i].Category), group(rows[j].Category)
		if gi != gj {
			return gi < gj
		}
		return rows[i].Category < rows[j].Category
	})
	return Comparison{Baseline: baseline, Proposed: proposed, Rows: rows}
}

func group(category string) int {
	switch {
	case strings.Contains(category, "Total"):
		return 2
	case strings.Contains(category, "Recovered"),
		strings.Contains(category, "Improved"),
		strings.Contains(category, "Regained"):
		return 1
	default:
		return 0
	}
}

// Text renders the proposed inputs and the comparison table for LLM context.
func (c Comparison) Text() string {
	var b strings.Builder
	b.WriteString("Scenario Inputs:\n")
	names := make([]string, 0, len(c.Proposed))
	for k := range c.Proposed {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Fprintf(&b, "%s: %g\n", k, c.Proposed[k])
	}

	b.WriteString("\nScenario Results:\n")
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Category\tDo Nothing\tProposed\tDifference")
	for _, r := range c.Rows {
		fmt.Fprintf(w, "%s\t%.0f\t%.0f\t%.0f\n", r.Category, r.DoNothing, r.Proposed, r.Difference)
	}
	_ = w.Flush()
	return b.String()
}
