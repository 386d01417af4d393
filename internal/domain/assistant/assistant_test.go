package assistant_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/okian/execdash/internal/domain/assistant"
	"github.com/okian/execdash/internal/domain/model"
	"github.com/okian/execdash/internal/domain/scenario"
	"github.com/okian/execdash/internal/domain/schema"
	"github.com/okian/execdash/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeGenerator struct {
	reply string
	err   error
	calls []assistant.Request
}

func (f *fakeGenerator) Generate(_ context.Context, req assistant.Request) (string, error) {
	f.calls = append(f.calls, req)
	return f.reply, f.err
}

func newAssistant(g assistant.Generator) *assistant.Assistant {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	if g == nil {
		return assistant.New()
	}
	return assistant.New(assistant.WithGenerator(g), assistant.WithDomain("healthcare delivery"))
}

func sampleKPIs() map[string]any {
	return map[string]any{
		"total_revenue":                     1_234_567.8,
		"red_projects_count":                3,
		"pipeline_coverage_ratio":           0.3,
		"pipeline_coverage_vs_target_pct":   10.0,
		"green_project_ratio":               0.75,
		"green_project_ratio_vs_target_pct": 83.33,
		"high_severity_risk_count":          2,
		"high_severity_risk_impact":         700.0,
		"avg_exec_utilization_pct":          70.0,
		"avg_delivery_utilization_pct":      80.0,
	}
}

func TestDirect(t *testing.T) {
	Convey("Given a KPI mapping", t, func() {
		kpis := sampleKPIs()

		Convey("Then revenue and red project questions are answered literally", func() {
			text, ok := assistant.Direct("What is the TOTAL REVENUE this year?", kpis)
			So(ok, ShouldBeTrue)
			So(text, ShouldEqual, "Total revenue is $1,234,568.")

			text, ok = assistant.Direct("how many red projects do we have", kpis)
			So(ok, ShouldBeTrue)
			So(text, ShouldEqual, "There are 3 red projects.")
		})

		Convey("Then the supplemented patterns are answered", func() {
			text, ok := assistant.Direct("pipeline coverage?", kpis)
			So(ok, ShouldBeTrue)
			So(text, ShouldContainSubstring, "0.30x")

			text, ok = assistant.Direct("What percent of projects are green?", kpis)
			So(ok, ShouldBeTrue)
			So(text, ShouldStartWith, "75.0% of projects are green")

			text, ok = assistant.Direct("List high severity risks", kpis)
			So(ok, ShouldBeTrue)
			So(text, ShouldContainSubstring, "$700")

			text, ok = assistant.Direct("team utilization", kpis)
			So(ok, ShouldBeTrue)
			So(text, ShouldContainSubstring, "80.0%")
		})

		Convey("Then a red project question without a count is not matched", func() {
			_, ok := assistant.Direct("which red project is worst", kpis)
			So(ok, ShouldBeFalse)
		})

		Convey("Then missing keys render as N/A", func() {
			text, ok := assistant.Direct("total revenue", map[string]any{})
			So(ok, ShouldBeTrue)
			So(text, ShouldEqual, "Total revenue is N/A.")
		})

		Convey("Then blank questions are not matched", func() {
			_, ok := assistant.Direct("   ", kpis)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestRenderContext(t *testing.T) {
	Convey("Given tables of various sizes", t, func() {
		rows := make([][]string, 0, 60)
		for i := 0; i < 60; i++ {
			rows = append(rows, []string{"P", "G"})
		}
		tables := model.TableSet{
			schema.ProjectInventory: model.NewTable(schema.ProjectInventory, []string{"Project Name", "Status"}, rows),
			schema.TalentGaps:       model.NewTable(schema.TalentGaps, []string{"Skill", "Gap"}, rows[:10]),
			schema.OperationalGaps:  model.NewTable(schema.OperationalGaps, []string{"Area"}, nil),
		}

		Convey("When rendering in load order", func() {
			out := assistant.RenderContext(tables, schema.ProjectInventory, schema.OperationalGaps, schema.TalentGaps)

			Convey("Then key sheets are capped at their own limit", func() {
				So(out, ShouldStartWith, "Sheet: Project Inventory\nColumns: Project Name, Status\n")
				So(out, ShouldContainSubstring, "... (showing top 50 of 60 rows)")
			})

			Convey("Then small tables are dumped whole and empty ones skipped", func() {
				So(out, ShouldContainSubstring, "Sheet: Talent Gaps")
				So(out, ShouldNotContainSubstring, "showing top 15")
				So(out, ShouldNotContainSubstring, "Sheet: Operational Gaps")
				So(strings.Index(out, "Sheet: Project Inventory"), ShouldBeLessThan, strings.Index(out, "Sheet: Talent Gaps"))
			})
		})

		Convey("Then the row limits follow the worksheet", func() {
			So(assistant.RowLimit(schema.Pipeline), ShouldEqual, 50)
			So(assistant.RowLimit(schema.ProjectRisks), ShouldEqual, 30)
			So(assistant.RowLimit(schema.TeamUtilization), ShouldEqual, 15)
		})

		Convey("Then an empty set renders the placeholder", func() {
			So(assistant.RenderContext(model.TableSet{}), ShouldEqual, assistant.NoContext)
		})
	})
}

func TestAsk(t *testing.T) {
	ctx := context.Background()

	Convey("Given an assistant with a generator", t, func() {
		gen := &fakeGenerator{reply: "  Two projects need attention.  "}
		a := newAssistant(gen)

		Convey("When the question has a direct answer", func() {
			ans, err := a.Ask(ctx, "total revenue", sampleKPIs(), "ctx")

			Convey("Then the model is not called", func() {
				So(err, ShouldBeNil)
				So(ans.Mode, ShouldEqual, assistant.ModeDirect)
				So(gen.calls, ShouldBeEmpty)
			})
		})

		Convey("When the question needs the model", func() {
			ans, err := a.Ask(ctx, "Which client is most at risk?", sampleKPIs(), "Sheet: Pipeline")

			Convey("Then the prompt carries the context and the question", func() {
				So(err, ShouldBeNil)
				So(ans.Mode, ShouldEqual, assistant.ModeLLM)
				So(ans.Text, ShouldEqual, "Two projects need attention.")
				So(gen.calls, ShouldHaveLength, 1)
				So(gen.calls[0].System, ShouldContainSubstring, "healthcare delivery analytics assistant")
				So(gen.calls[0].Prompt, ShouldContainSubstring, "Sheet: Pipeline\nQuestion: Which client is most at risk?")
			})
		})

		Convey("When the generator fails", func() {
			gen.err = errors.New("quota")
			_, err := a.Ask(ctx, "anything else?", nil, "")

			Convey("Then the error is wrapped", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "quota")
			})
		})

		Convey("When the question is blank", func() {
			_, err := a.Ask(ctx, " ", nil, "")
			So(errors.Is(err, assistant.ErrEmptyQuestion), ShouldBeTrue)
		})
	})

	Convey("Given an assistant without a generator", t, func() {
		a := newAssistant(nil)

		Convey("Then direct answers still work", func() {
			ans, err := a.Ask(ctx, "how many red projects", sampleKPIs(), "")
			So(err, ShouldBeNil)
			So(ans.Text, ShouldEqual, "There are 3 red projects.")
		})

		Convey("Then free-form questions report the missing model", func() {
			_, err := a.Ask(ctx, "summarize", sampleKPIs(), "")
			So(errors.Is(err, assistant.ErrNoGenerator), ShouldBeTrue)
			_, err = a.Digest(ctx, "")
			So(errors.Is(err, assistant.ErrNoGenerator), ShouldBeTrue)
			So(a.HasGenerator(), ShouldBeFalse)
		})
	})
}

func TestDigestAndScenario(t *testing.T) {
	ctx := context.Background()

	Convey("Given an assistant with a generator", t, func() {
		gen := &fakeGenerator{reply: "1. Call **Acme**\n2. Staff P2\n3. Review risks"}
		a := newAssistant(gen)

		Convey("When generating the digest", func() {
			text, err := a.Digest(ctx, "Sheet: Project Inventory")

			Convey("Then the request is bounded and asks for a numbered list", func() {
				So(err, ShouldBeNil)
				So(text, ShouldStartWith, "1. Call")
				req := gen.calls[0]
				So(req.MaxTokens, ShouldEqual, int32(300))
				So(*req.Temperature, ShouldAlmostEqual, 0.5, 1e-6)
				So(req.Prompt, ShouldContainSubstring, "top 3")
				So(req.Prompt, ShouldEndWith, "Return your answer as a numbered list.")
			})

			Convey("Then it renders as an ordered HTML list", func() {
				html, err := assistant.HTML(text)
				So(err, ShouldBeNil)
				So(html, ShouldContainSubstring, "<ol>")
				So(html, ShouldContainSubstring, "<strong>Acme</strong>")
			})
		})

		Convey("When asking about a scenario", func() {
			cmp := scenario.Compare(scenario.Inputs{}, scenario.Inputs{scenario.ChiefOfStaffSalary: 90_000})
			_, err := a.AskScenario(ctx, "Is the hire worth it?", cmp)

			Convey("Then the scenario tables are the context", func() {
				So(err, ShouldBeNil)
				So(gen.calls[0].System, ShouldContainSubstring, "tradeoffs, opportunity cost, and scenario impacts")
				So(gen.calls[0].Prompt, ShouldStartWith, "Scenario Inputs:\n")
				So(gen.calls[0].Prompt, ShouldContainSubstring, "Scenario Results:")
				So(gen.calls[0].Prompt, ShouldEndWith, "Question: Is the hire worth it?")
			})
		})
	})
}

func TestHTMLOmitsRawHTML(t *testing.T) {
	Convey("Given markdown with inline HTML", t, func() {
		html, err := assistant.HTML("hello <script>alert(1)</script>")

		Convey("Then the script tag is not emitted", func() {
			So(err, ShouldBeNil)
			So(html, ShouldNotContainSubstring, "<script>")
		})
	})
}
