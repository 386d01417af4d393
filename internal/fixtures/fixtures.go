// Package fixtures builds sample workbooks for demos, the seed command and tests.
package fixtures

import (
	"time"

	"github.com/okian/execdash/internal/domain/model"
	"github.com/okian/execdash/internal/domain/schema"
)

const dateLayout = "2006-01-02"

// Worksheet headers written by Sample and Generate.
//
//nolint:gochecknoglobals // static headers
var (
	ProjectHeader = []string{
		"Project Name", "Client", "Status (R/Y/G)", "Revenue", "Project Health Score",
		"Delivery Efficiency Score", "eNPS", "Project End Date", "Next Opp First Discussion Date",
		"Last Sponsor Checkin Date", "Sponsor Checkin Notes", "Key Issues", "Team Resourcing",
	}
	PipelineHeader = []string{
		"Account", "Open Pipeline_Active Work", "Percieved Annual AMO", "Pipeline Score",
		"Relational Efficiency Score", "Pursuit Tier", "Horizon", "Opportunity Created Date",
		"Closed Won Date", "Win Themes",
	}
	RiskHeader        = []string{"Project", "Risk", "Impact ($)", "Severity"}
	UtilizationHeader = []string{"Employee Name", "Role", "Utilization (%)", "Latest Pulse Score", "Project Assignments"}
	TalentGapHeader   = []string{"Role", "Gap", "Priority"}
	OpsGapHeader      = []string{"Area", "Gap", "Owner"}
	ActivityHeader    = []string{"Activity", "Strategic Cost"}
	ScenarioHeader    = []string{"Assumption", "Value"}
)

// Sample returns a small fixed workbook with dates relative to today.
//
// Known values: 4 projects (1 red, 1 yellow, 2 green), total revenue
// $1,250,000, 2 high-severity risks worth $130,000, 2 Tier 1 pursuits.
func Sample(today time.Time) model.TableSet {
	d := func(days int) string { return today.AddDate(0, 0, days).Format(dateLayout) }

	return tableSet(
		model.NewTable(schema.ProjectInventory, ProjectHeader, [][]string{
			{"Apollo", "Acme", "G", "$500,000", "85", "80", "45", d(90), d(10), d(-5), "Weekly sync with sponsor", "", "Yes"},
			{"Borealis", "Globex", "Y", "$300,000", "65", "70", "30", d(60), d(-3), d(-20), "", "Scope creep", "Some Gaps"},
			{"Cygnus", "Initech", "Red", "$200,000", "40", "50", "10", d(30), d(-10), d(-40), "", "Budget overrun", "Understaffed"},
			{"Draco", "Acme", "green", "$250,000", "90", "85", "50", d(-30), "", d(-2), "Closing review", "", "Yes"},
		}),
		model.NewTable(schema.Pipeline, PipelineHeader, [][]string{
			{"Globex", "$150,000", "$2,000,000", "80", "75", "Tier 1", "H1", d(-120), d(-30), "Platform consolidation"},
			{"Umbrella", "$100,000", "$3,500,000", "70", "60", "Tier 1", "H2", d(-60), "", "Cost takeout"},
			{"Initech", "$50,000", "$400,000", "55", "50", "Tier 2", "H1", d(-90), d(-10), ""},
		}),
		model.NewTable(schema.ProjectRisks, RiskHeader, [][]string{
			{"Borealis", "Scope creep", "$50,000", "High"},
			{"Cygnus", "Key person leaving", "$80,000", "high"},
			{"Apollo", "Vendor delay", "$20,000", "Medium"},
		}),
		model.NewTable(schema.TeamUtilization, UtilizationHeader, [][]string{
			{"Dana Whitfield", "Executive Sponsor", "95%", "7", "Apollo, Borealis"},
			{"Lee Okafor", "Delivery Lead", "85%", "8", "Apollo"},
			{"Priya Raman", "Consultant", "60%", "6", "Borealis, Cygnus"},
			{"Sam Ortiz", "Consultant", "110%", "5", "Cygnus"},
		}),
		model.NewTable(schema.TalentGaps, TalentGapHeader, [][]string{
			{"Data Engineer", "No senior hire for Cygnus", "High"},
			{"Delivery Lead", "Backfill for Borealis", "Medium"},
		}),
		model.NewTable(schema.OperationalGaps, OpsGapHeader, [][]string{
			{"Forecasting", "Pipeline reviewed monthly only", "Dana Whitfield"},
		}),
		model.NewTable(schema.ExecutiveActivity, ActivityHeader, [][]string{
			{"Board preparation", "$12,000"},
			{"Client escalation", "$8,000"},
		}),
		model.NewTable(schema.ScenarioInputs, ScenarioHeader, scenarioRows()),
	)
}

func scenarioRows() [][]string {
	return [][]string{
		{"VP Hourly Selling Value", "$500"},
		{"VP Hours Weekly on Delivery", "10"},
		{"Head of Delivery Hourly Strategic Delivery Value", "$300"},
		{"Head of Delivery Weekly Tactical Delivery Hours", "15"},
		{"Avg. Project Size", "$250,000"},
		{"Sales Conversion Rate (%)", "25%"},
		{"Avg. Cost of Turnover per Senior Employee", "$150,000"},
		{"% Projects at Risk", "20%"},
		{"Revenue at Risk due to troubled projects", "$1,000,000"},
		{"Work Weeks in a year", "50"},
		{"Cost of Chief of Staff Salary", "$100,000"},
	}
}

func tableSet(tables ...model.Table) model.TableSet {
	set := make(model.TableSet, len(tables))
	for _, t := range tables {
		set[t.Name] = t
	}
	return set
}

// Order lists the worksheets in workbook order.
func Order() []string {
	return []string{
		schema.ProjectInventory,
		schema.ProjectRisks,
		schema.Pipeline,
		schema.TeamUtilization,
		schema.TalentGaps,
		schema.OperationalGaps,
		schema.ExecutiveActivity,
		schema.ScenarioInputs,
	}
}
