package indicators

import (
	"strings"

	"github.com/okian/execdash/internal/domain/model"
	"github.com/okian/execdash/internal/domain/normalize"
	"github.com/okian/execdash/internal/domain/schema"
	"github.com/okian/execdash/internal/domain/scoring"
)

// Resourcing levels derived from the Team Resourcing column.
const (
	ResourcingStaffed  = "staffed"
	ResourcingGaps     = "gaps"
	ResourcingCritical = "critical"
	ResourcingUnknown  = "unknown"
)

// ClassifyResourcing maps a Team Resourcing cell to a resourcing level.
func ClassifyResourcing(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes":
		return ResourcingStaffed
	case "some gaps":
		return ResourcingGaps
	case "understaffed", "misaligned", "no core team":
		return ResourcingCritical
	default:
		return ResourcingUnknown
	}
}

// StaffingRow is the staffing picture of one active project.
type StaffingRow struct {
	Project         string   `json:"project"`
	Client          string   `json:"client"`
	Status          string   `json:"status"`
	TeamResourcing  string   `json:"team_resourcing"`
	ResourcingLevel string   `json:"resourcing_level"`
	TeamSize        int      `json:"team_size"`
	Members         []string `json:"members"`
	MembersLabel    string   `json:"members_label"`
	AvgUtilization  float64  `json:"avg_utilization_pct"`
	AvgPulse        float64  `json:"avg_pulse_score"`
	EndDate         string   `json:"end_date"`
}

// StaffingFilter narrows StaffingHealth output. Empty fields match everything.
type StaffingFilter struct {
	Client     string
	Resourcing string
}

func (f StaffingFilter) match(r StaffingRow) bool {
	if f.Client != "" && !strings.EqualFold(f.Client, r.Client) {
		return false
	}
	if f.Resourcing != "" && !strings.EqualFold(f.Resourcing, r.TeamResourcing) &&
		!strings.EqualFold(f.Resourcing, r.ResourcingLevel) {
		return false
	}
	return true
}

type staffMember struct {
	name        string
	projects    map[string]struct{}
	utilization float64
	hasUtil     bool
	pulse       float64
	hasPulse    bool
}

// StaffingHealth lists active projects (no end date, or ending today or later)
// with the staff assigned to them via the comma-separated Project Assignments column.
func (e *Engine) StaffingHealth(tables model.TableSet, filter StaffingFilter) []StaffingRow {
	p := schema.BindProjects(tables.Get(schema.ProjectInventory))
	if p.Rows == 0 {
		return []StaffingRow{}
	}
	today := normalize.Day(e.now())
	staff := bindStaff(schema.BindUtilization(tables.Get(schema.TeamUtilization)))

	rows := make([]StaffingRow, 0, p.Rows)
	for i := 0; i < p.Rows; i++ {
		end, hasEnd := normalize.Date(p.EndDate.Cell(i))
		if hasEnd && end.Before(today) {
			continue
		}
		name := p.Name.Cell(i)
		row := StaffingRow{
			Project:         name,
			Client:          p.Client.Cell(i),
			Status:          p.Status.Cell(i),
			TeamResourcing:  p.TeamResourcing.Cell(i),
			ResourcingLevel: ClassifyResourcing(p.TeamResourcing.Cell(i)),
			Members:         []string{},
			MembersLabel:    scoring.NA,
			EndDate:         scoring.NA,
		}
		if hasEnd {
			row.EndDate = end.Format(dateLayout)
		}

		var utils, pulses []float64
		for _, m := range staff {
			if _, ok := m.projects[name]; !ok {
				continue
			}
			row.Members = append(row.Members, m.name)
			if m.hasUtil {
				utils = append(utils, m.utilization)
			}
			if m.hasPulse {
				pulses = append(pulses, m.pulse)
			}
		}
		row.TeamSize = len(row.Members)
		if row.TeamSize > 0 {
			row.MembersLabel = strings.Join(row.Members, ", ")
		}
		row.AvgUtilization = orZero(scoring.Mean(utils))
		row.AvgPulse = orZero(scoring.Mean(pulses))

		if filter.match(row) {
			rows = append(rows, row)
		}
	}
	return rows
}

func bindStaff(u schema.Utilization) []staffMember {
	if u.Rows == 0 || !u.Assignments.Present || !u.Employee.Present {
		return nil
	}
	out := make([]staffMember, 0, u.Rows)
	for i := 0; i < u.Rows; i++ {
		m := staffMember{name: u.Employee.Cell(i), projects: map[string]struct{}{}}
		for _, proj := range strings.Split(u.Assignments.Cell(i), ",") {
			if proj = strings.TrimSpace(proj); proj != "" {
				m.projects[proj] = struct{}{}
			}
		}
		if raw := u.Utilization.Cell(i); raw != "" {
			m.utilization, m.hasUtil = normalize.Parse(raw).Value, true
		}
		m.pulse, m.hasPulse = normalize.Optional(u.Pulse.Cell(i))
		out = append(out, m)
	}
	return out
}
