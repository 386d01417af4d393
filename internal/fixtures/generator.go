package fixtures

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/okian/execdash/internal/domain/model"
	"github.com/okian/execdash/internal/domain/schema"
	"github.com/okian/execdash/pkg/logger"
)

// ErrInvalidConfig is returned by Generate for non-positive sizes.
var ErrInvalidConfig = errors.New("fixtures: invalid config")

// Config controls Generate.
type Config struct {
	Projects int       // rows in Project Inventory
	Pursuits int       // rows in Pipeline
	Staff    int       // rows in Team Utilization
	Seed     uint64    // same seed, same workbook
	Today    time.Time // anchor for relative dates
}

// DefaultConfig returns a mid-sized workbook configuration.
func DefaultConfig() Config {
	return Config{Projects: 24, Pursuits: 18, Staff: 30, Seed: 1, Today: time.Now()}
}

// Project health profiles.
const (
	profileHealthy = iota
	profileWatch
	profileTroubled
	profileCount
)

//nolint:gochecknoglobals // name pools
var (
	clients = []string{
		"Acme", "Globex", "Initech", "Umbrella", "Hooli", "Stark", "Wayne", "Wonka", "Tyrell", "Cyberdyne",
	}
	codenames = []string{
		"Apollo", "Borealis", "Cygnus", "Draco", "Eridanus", "Fornax", "Gemini", "Hydra", "Indus", "Lyra",
		"Mensa", "Norma", "Orion", "Pavo", "Sagitta", "Tucana", "Vela", "Volans",
	}
	firstNames = []string{"Dana", "Lee", "Priya", "Sam", "Alex", "Jordan", "Morgan", "Riley", "Casey", "Taylor"}
	lastNames  = []string{"Whitfield", "Okafor", "Raman", "Ortiz", "Nakamura", "Silva", "Novak", "Haddad", "Berg"}
	roles      = []string{"Consultant", "Senior Consultant", "Delivery Lead", "Engineer", "Executive Sponsor"}
)

// Generate builds a random but reproducible workbook.
func Generate(ctx context.Context, cfg Config) (model.TableSet, error) {
	if cfg.Projects <= 0 || cfg.Pursuits <= 0 || cfg.Staff <= 0 {
		return nil, fmt.Errorf("%w: sizes must be positive", ErrInvalidConfig)
	}
	if cfg.Today.IsZero() {
		cfg.Today = time.Now()
	}
	logger.Get().Info(ctx, "generating workbook",
		logger.Int("projects", cfg.Projects),
		logger.Int("pursuits", cfg.Pursuits),
		logger.Int("staff", cfg.Staff),
	)

	g := &generator{rng: rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)), today: cfg.Today}
	projects, risks := g.projects(cfg.Projects)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	names := make([]string, len(projects))
	for i, p := range projects {
		names[i] = p[0]
	}

	return tableSet(
		model.NewTable(schema.ProjectInventory, ProjectHeader, projects),
		model.NewTable(schema.ProjectRisks, RiskHeader, risks),
		model.NewTable(schema.Pipeline, PipelineHeader, g.pursuits(cfg.Pursuits)),
		model.NewTable(schema.TeamUtilization, UtilizationHeader, g.staff(cfg.Staff, names)),
		model.NewTable(schema.TalentGaps, TalentGapHeader, [][]string{
			{"Data Engineer", "Senior hire pending", "High"},
		}),
		model.NewTable(schema.OperationalGaps, OpsGapHeader, [][]string{
			{"Forecasting", "Pipeline reviewed monthly only", "Operations"},
		}),
		model.NewTable(schema.ExecutiveActivity, ActivityHeader, [][]string{
			{"Board preparation", money(float64(g.between(5, 20)) * 1000)},
			{"Client escalation", money(float64(g.between(2, 15)) * 1000)},
		}),
		model.NewTable(schema.ScenarioInputs, ScenarioHeader, scenarioRows()),
	), nil
}

type generator struct {
	rng   *rand.Rand
	today time.Time
}

func (g *generator) between(lo, hi int) int { return lo + g.rng.IntN(hi-lo+1) }

func (g *generator) pick(pool []string) string { return pool[g.rng.IntN(len(pool))] }

func (g *generator) date(days int) string {
	return g.today.AddDate(0, 0, days).Format(dateLayout)
}

func (g *generator) projects(n int) (rows, risks [][]string) {
	rows = make([][]string, 0, n)
	for i := range n {
		name := codenames[i%len(codenames)]
		if i >= len(codenames) {
			name += " " + strconv.Itoa(i/len(codenames)+1)
		}
		var status, resourcing, issue string
		var health int
		switch g.rng.IntN(profileCount) {
		case profileHealthy:
			status, resourcing, health = "G", "Yes", g.between(75, 98)
		case profileWatch:
			status, resourcing, health, issue = "Y", "Some Gaps", g.between(55, 75), "Scope creep"
		default:
			status, resourcing, health, issue = "R", g.pick([]string{"Understaffed", "Misaligned", "No core team"}),
				g.between(25, 55), "Budget overrun"
		}
		nextOpp := ""
		if g.rng.IntN(4) > 0 {
			nextOpp = g.date(g.between(-30, 45))
		}
		rows = append(rows, []string{
			name,
			g.pick(clients),
			status,
			money(float64(g.between(50, 900)) * 1000),
			strconv.Itoa(health),
			strconv.Itoa(g.between(40, 95)),
			strconv.Itoa(g.between(-20, 70)),
			g.date(g.between(-60, 240)),
			nextOpp,
			g.date(-g.between(0, 60)),
			"",
			issue,
			resourcing,
		})
		if issue != "" {
			severity := "Medium"
			if status == "R" {
				severity = "High"
			}
			risks = append(risks, []string{name, issue, money(float64(g.between(10, 150)) * 1000), severity})
		}
	}
	return rows, risks
}

func (g *generator) pursuits(n int) [][]string {
	rows := make([][]string, 0, n)
	for i := range n {
		created := -g.between(20, 300)
		closed := ""
		if g.rng.IntN(3) == 0 {
			closed = g.date(created + g.between(10, -created))
		}
		rows = append(rows, []string{
			clients[i%len(clients)] + " " + string(rune('A'+i/len(clients))),
			money(float64(g.between(0, 400)) * 1000),
			money(float64(g.between(100, 5000)) * 1000),
			strconv.Itoa(g.between(30, 95)),
			strconv.Itoa(g.between(30, 95)),
			"Tier " + strconv.Itoa(g.between(1, 3)),
			"H" + strconv.Itoa(g.between(1, 3)),
			g.date(created),
			closed,
			"",
		})
	}
	return rows
}

func (g *generator) staff(n int, projects []string) [][]string {
	rows := make([][]string, 0, n)
	for i := range n {
		assigned := []string{g.pick(projects)}
		if g.rng.IntN(3) == 0 {
			if p := g.pick(projects); p != assigned[0] {
				assigned = append(assigned, p)
			}
		}
		rows = append(rows, []string{
			g.pick(firstNames) + " " + lastNames[i%len(lastNames)],
			g.pick(roles),
			strconv.Itoa(g.between(40, 120)) + "%",
			strconv.Itoa(g.between(3, 10)),
			strings.Join(assigned, ", "),
		})
	}
	return rows
}

// money renders v as "$1,234,000".
func money(v float64) string {
	s := strconv.FormatInt(int64(v), 10)
	var b strings.Builder
	b.WriteByte('$')
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}
