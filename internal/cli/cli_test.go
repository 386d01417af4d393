package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/execdash/internal/cli"
	"github.com/okian/execdash/internal/domain/assistant"
	"github.com/okian/execdash/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
	"gopkg.in/yaml.v3"
)

// run executes kpictl with args and returns stdout.
func run(args ...string) (string, error) {
	var out, errOut bytes.Buffer
	root := cli.NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// isolate clears configuration that would leak in from the environment.
func isolate(t *testing.T) {
	t.Helper()
	for _, k := range []string{"EXECDASH_CONFIG", "EXECDASH_SOURCE", "EXECDASH_LLM_API_KEY", "EXECDASH_WORKSHEETS"} {
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}
}

func TestSeed(t *testing.T) {
	isolate(t)

	Convey("Given an output path", t, func() {
		path := filepath.Join(t.TempDir(), "demo.xlsx")

		Convey("When seeding a generated workbook", func() {
			out, err := run("seed", "--out", path, "--projects", "5", "--pursuits", "4", "--staff", "6", "--seed", "7")

			Convey("Then every worksheet is written", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "wrote 8 worksheets")
				_, statErr := os.Stat(path)
				So(statErr, ShouldBeNil)
			})

			Convey("And the workbook loads with the requested sizes", func() {
				out, err := run("tables", "--xlsx", path, "-o", "json")
				So(err, ShouldBeNil)
				var tables []types.TableSummary
				So(json.Unmarshal([]byte(out), &tables), ShouldBeNil)
				rows := map[string]int{}
				for _, tbl := range tables {
					rows[tbl.Name] = tbl.Rows
				}
				So(rows["Project Inventory"], ShouldEqual, 5)
				So(rows["Pipeline"], ShouldEqual, 4)
				So(rows["Team Utilization"], ShouldEqual, 6)
			})
		})

		Convey("When seeding with invalid sizes", func() {
			_, err := run("seed", "--out", path, "--projects", "0")

			Convey("Then the command fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestQueries(t *testing.T) {
	isolate(t)

	Convey("Given the sample workbook", t, func() {
		path := filepath.Join(t.TempDir(), "sample.xlsx")
		_, err := run("seed", "--sample", "--out", path)
		So(err, ShouldBeNil)

		Convey("When printing named KPIs as JSON", func() {
			out, err := run("kpis", "total_revenue", "red_projects_count", "--xlsx", path, "-o", "json")

			Convey("Then only those KPIs are returned", func() {
				So(err, ShouldBeNil)
				var resp types.KPIResponse
				So(json.Unmarshal([]byte(out), &resp), ShouldBeNil)
				So(resp.SnapshotID, ShouldNotBeEmpty)
				So(resp.KPIs, ShouldHaveLength, 2)
				So(resp.KPIs["total_revenue"], ShouldEqual, 1_250_000.0)
				So(resp.KPIs["red_projects_count"], ShouldEqual, 1.0)
			})
		})

		Convey("When printing KPIs as YAML", func() {
			out, err := run("kpis", "total_projects", "--xlsx", path, "-o", "yaml")

			Convey("Then the document decodes", func() {
				So(err, ShouldBeNil)
				var resp types.KPIResponse
				So(yaml.Unmarshal([]byte(out), &resp), ShouldBeNil)
				So(resp.KPIs["total_projects"], ShouldEqual, 4)
			})
		})

		Convey("When printing KPIs as text", func() {
			out, err := run("kpis", "--xlsx", path)

			Convey("Then a sorted table is printed", func() {
				So(err, ShouldBeNil)
				So(out, ShouldStartWith, "KPI")
				So(out, ShouldContainSubstring, "total_revenue")
			})
		})

		Convey("When asking for an unknown KPI", func() {
			_, err := run("kpis", "made_up", "--xlsx", path)

			Convey("Then the command fails", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "made_up")
			})
		})

		Convey("When printing one worksheet with a limit", func() {
			out, err := run("tables", "Pipeline", "--limit", "1", "--xlsx", path, "-o", "json")

			Convey("Then the total is kept and the rows are cut", func() {
				So(err, ShouldBeNil)
				var resp types.TableResponse
				So(json.Unmarshal([]byte(out), &resp), ShouldBeNil)
				So(resp.Total, ShouldEqual, 3)
				So(resp.Records, ShouldHaveLength, 1)
				So(resp.Records[0]["Account"], ShouldEqual, "Globex")
			})
		})

		Convey("When asking a KPI question", func() {
			out, err := run("ask", "What", "is", "the", "total", "revenue?", "--xlsx", path)

			Convey("Then it is answered without a language model", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "$1,250,000")
			})
		})

		Convey("When asking a free-form question without a model", func() {
			_, err := run("ask", "Which client needs attention?", "--xlsx", path)

			Convey("Then the assistant is unavailable", func() {
				So(errors.Is(err, assistant.ErrNoGenerator), ShouldBeTrue)
			})
		})

		Convey("When requesting the digest without a model", func() {
			_, err := run("digest", "--xlsx", path)

			Convey("Then the assistant is unavailable", func() {
				So(errors.Is(err, assistant.ErrNoGenerator), ShouldBeTrue)
			})
		})

		Convey("When overriding a scenario assumption", func() {
			out, err := run("scenario", "--set", "Cost of Chief of Staff Salary=150000", "--xlsx", path, "-o", "json")

			Convey("Then the proposed inputs carry the override", func() {
				So(err, ShouldBeNil)
				var resp struct {
					Baseline map[string]float64 `json:"baseline"`
					Proposed map[string]float64 `json:"proposed"`
				}
				So(json.Unmarshal([]byte(out), &resp), ShouldBeNil)
				So(resp.Baseline["Cost of Chief of Staff Salary"], ShouldEqual, 100_000.0)
				So(resp.Proposed["Cost of Chief of Staff Salary"], ShouldEqual, 150_000.0)
			})
		})

		Convey("When an override is not a number", func() {
			_, err := run("scenario", "--set", "Work Weeks in a year=lots", "--xlsx", path)

			Convey("Then the command fails before loading", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "lots")
			})
		})

		Convey("When the output format is unknown", func() {
			_, err := run("kpis", "--xlsx", path, "-o", "xml")

			Convey("Then the command fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
