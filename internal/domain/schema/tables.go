package schema

import "github.com/okian/execdash/internal/domain/model"

// Project Inventory fields.
var (
	ProjectNameField     = Field{Header: "Project Name", Aliases: []string{"Project"}}
	ClientField          = Field{Header: "Client", Aliases: []string{"Customer"}}
	StatusField          = Field{Header: "Status (R/Y/G)", Aliases: []string{"Status", "RAG Status", "RAG"}}
	RevenueField         = Field{Header: "Revenue", Aliases: []string{"Revenue ($)", "Project Revenue"}}
	HealthScoreField     = Field{Header: "Project Health Score", Aliases: []string{"Health Score"}}
	EfficiencyScoreField = Field{Header: "Delivery Efficiency Score", Aliases: []string{"Efficiency Score"}}
	NPSField             = Field{Header: "eNPS", Aliases: []string{"Customer NPS", "NPS"}}
	EndDateField         = Field{Header: "Project End Date", Aliases: []string{"End Date"}}
	NextOppDateField     = Field{Header: "Next Opp First Discussion Date", Aliases: []string{"Next Opportunity First Discussion Date"}}
	CheckinDateField     = Field{Header: "Last Sponsor Checkin Date", Aliases: []string{"Last Sponsor Check-in Date"}}
	CheckinNotesField    = Field{Header: "Sponsor Checkin Notes", Aliases: []string{"Sponsor Check-in Notes"}}
	KeyIssuesField       = Field{Header: "Key Issues"}
	TeamResourcingField  = Field{Header: "Team Resourcing"}
)

// Projects is the typed view of the Project Inventory worksheet.
type Projects struct {
	Rows            int
	Name            Column
	Client          Column
	Status          Column
	Revenue         Column
	HealthScore     Column
	EfficiencyScore Column
	NPS             Column
	EndDate         Column
	NextOppDate     Column
	CheckinDate     Column
	CheckinNotes    Column
	KeyIssues       Column
	TeamResourcing  Column
}

// BindProjects binds the Project Inventory fields of t.
func BindProjects(t model.Table) Projects {
	return Projects{
		Rows:            t.Len(),
		Name:            Bind(t, ProjectNameField),
		Client:          Bind(t, ClientField),
		Status:          Bind(t, StatusField),
		Revenue:         Bind(t, RevenueField),
		HealthScore:     Bind(t, HealthScoreField),
		EfficiencyScore: Bind(t, EfficiencyScoreField),
		NPS:             Bind(t, NPSField),
		EndDate:         Bind(t, EndDateField),
		NextOppDate:     Bind(t, NextOppDateField),
		CheckinDate:     Bind(t, CheckinDateField),
		CheckinNotes:    Bind(t, CheckinNotesField),
		KeyIssues:       Bind(t, KeyIssuesField),
		TeamResourcing:  Bind(t, TeamResourcingField),
	}
}

// Pipeline fields.
var (
	AccountField         = Field{Header: "Account", Aliases: []string{"Account Name"}}
	ActiveWorkField      = Field{Header: "Open Pipeline_Active Work", Aliases: []string{"Open Pipeline Active Work", "Active Work"}}
	AnnualAMOField       = Field{Header: "Perceived Annual AMO", Aliases: []string{"Percieved Annual AMO", "Annual AMO"}}
	PipelineScoreField   = Field{Header: "Pipeline Score"}
	RelationalScoreField = Field{Header: "Relational Efficiency Score", Aliases: []string{"Relational Score"}}
	TierField            = Field{Header: "Pursuit Tier", Aliases: []string{"Tier"}}
	HorizonField         = Field{Header: "Horizon"}
	CreatedDateField     = Field{Header: "Opportunity Created Date", Aliases: []string{"Created Date"}}
	ClosedWonDateField   = Field{Header: "Closed Won Date", Aliases: []string{"Close Date"}}
)

// WhaleDetailFields are carried verbatim onto whale battle cards when present.
var WhaleDetailFields = []Field{ //nolint:gochecknoglobals // static header set
	{Header: "Deal Registered YN", Aliases: []string{"Deal Registered"}},
	{Header: "Last Touchpoint Date"},
	{Header: "Key Client Contacts"},
	{Header: "Internal Pursuit Team"},
	{Header: "Win Themes"},
	{Header: "Known Competitors"},
	{Header: "Notes"},
	{Header: "Actions"},
	{Header: "Help Needed"},
}

// PipelineView is the typed view of the Pipeline worksheet.
type PipelineView struct {
	Rows            int
	Account         Column
	ActiveWork      Column
	AnnualAMO       Column
	Score           Column
	RelationalScore Column
	Tier            Column
	Horizon         Column
	CreatedDate     Column
	ClosedWonDate   Column
	Details         []Column
}

// BindPipeline binds the Pipeline fields of t.
func BindPipeline(t model.Table) PipelineView {
	details := make([]Column, 0, len(WhaleDetailFields))
	for _, f := range WhaleDetailFields {
		if c := Bind(t, f); c.Present {
			details = append(details, c)
		}
	}
	return PipelineView{
		Rows:            t.Len(),
		Account:         Bind(t, AccountField),
		ActiveWork:      Bind(t, ActiveWorkField),
		AnnualAMO:       Bind(t, AnnualAMOField),
		Score:           Bind(t, PipelineScoreField),
		RelationalScore: Bind(t, RelationalScoreField),
		Tier:            Bind(t, TierField),
		Horizon:         Bind(t, HorizonField),
		CreatedDate:     Bind(t, CreatedDateField),
		ClosedWonDate:   Bind(t, ClosedWonDateField),
		Details:         details,
	}
}

// Project Risks fields.
var (
	ImpactField   = Field{Header: "Impact ($)", Aliases: []string{"Impact"}}
	SeverityField = Field{Header: "Severity"}
)

// Risks is the typed view of the Project Risks worksheet.
type Risks struct {
	Rows     int
	Impact   Column
	Severity Column
}

// BindRisks binds the Project Risks fields of t.
func BindRisks(t model.Table) Risks {
	return Risks{
		Rows:     t.Len(),
		Impact:   Bind(t, ImpactField),
		Severity: Bind(t, SeverityField),
	}
}

// Team Utilization fields.
var (
	EmployeeField    = Field{Header: "Employee Name", Aliases: []string{"Employee", "Name"}}
	RoleField        = Field{Header: "Role", Aliases: []string{"Title"}}
	UtilizationField = Field{Header: "Utilization (%)", Aliases: []string{"Utilization", "Utilization %"}}
	PulseField       = Field{Header: "Latest Pulse Score", Aliases: []string{"Pulse Score"}}
	AssignmentsField = Field{Header: "Project Assignments", Aliases: []string{"Assignments"}}
)

// Utilization is the typed view of the Team Utilization worksheet.
type Utilization struct {
	Rows        int
	Employee    Column
	Role        Column
	Utilization Column
	Pulse       Column
	Assignments Column
}

// BindUtilization binds the Team Utilization fields of t.
func BindUtilization(t model.Table) Utilization {
	return Utilization{
		Rows:        t.Len(),
		Employee:    Bind(t, EmployeeField),
		Role:        Bind(t, RoleField),
		Utilization: Bind(t, UtilizationField),
		Pulse:       Bind(t, PulseField),
		Assignments: Bind(t, AssignmentsField),
	}
}

// Executive Activity fields.
var (
	ActivityField      = Field{Header: "Activity", Aliases: []string{"Activity Description", "Description"}}
	StrategicCostField = Field{Header: "Strategic Cost", Aliases: []string{"Cost ($)", "Cost", "Strategic Cost ($)"}}
)

// ExecActivity is the typed view of the Executive Activity worksheet.
type ExecActivity struct {
	Rows     int
	Activity Column
	Cost     Column
}

// BindExecActivity binds the Executive Activity fields of t.
func BindExecActivity(t model.Table) ExecActivity {
	return ExecActivity{
		Rows:     t.Len(),
		Activity: Bind(t, ActivityField),
		Cost:     Bind(t, StrategicCostField),
	}
}

// Scenario Model Inputs fields.
var (
	AssumptionField = Field{Header: "Assumption", Aliases: []string{"Input"}}
	ValueField      = Field{Header: "Value"}
)

// ScenarioInputRows is the typed view of the Scenario Model Inputs worksheet.
type ScenarioInputRows struct {
	Rows       int
	Assumption Column
	Value      Column
}

// BindScenarioInputs binds the Scenario Model Inputs fields of t.
func BindScenarioInputs(t model.Table) ScenarioInputRows {
	return ScenarioInputRows{
		Rows:       t.Len(),
		Assumption: Bind(t, AssumptionField),
		Value:      Bind(t, ValueField),
	}
}
