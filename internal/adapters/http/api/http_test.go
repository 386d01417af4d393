package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/execdash/internal/adapters/http/api"
	"github.com/okian/execdash/internal/adapters/mq/queue"
	"github.com/okian/execdash/internal/adapters/repository"
	"github.com/okian/execdash/internal/domain/assistant"
	"github.com/okian/execdash/internal/domain/indicators"
	"github.com/okian/execdash/internal/domain/model"
	"github.com/okian/execdash/internal/domain/scenario"
	"github.com/okian/execdash/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

type mockDependencies struct {
	snap       *repository.Snapshot
	latestErr  error
	history    []repository.Summary
	refreshErr error
	askErr     error
	digest     string
	digestErr  error

	lastFilter    indicators.StaffingFilter
	lastLimit     int
	lastOverrides scenario.Inputs
	lastQuestion  string
	refreshes     int
}

func (m *mockDependencies) Latest(context.Context) (*repository.Snapshot, error) {
	if m.latestErr != nil {
		return nil, m.latestErr
	}
	return m.snap, nil
}

func (m *mockDependencies) History(_ context.Context, n int) ([]repository.Summary, error) {
	m.lastLimit = n
	if n > len(m.history) {
		return m.history, nil
	}
	return m.history[:n], nil
}

func (m *mockDependencies) Staffing(_ context.Context, f indicators.StaffingFilter) ([]indicators.StaffingRow, error) {
	m.lastFilter = f
	return []indicators.StaffingRow{{Project: "Apollo", Client: f.Client}}, nil
}

func (m *mockDependencies) Whales(_ context.Context, limit int) ([]indicators.Whale, error) {
	m.lastLimit = limit
	return []indicators.Whale{{Account: "Globex", AnnualAMO: 2_000_000, Tier: "TIER 1"}}, nil
}

func (m *mockDependencies) Scenario(_ context.Context, overrides scenario.Inputs) (scenario.Comparison, error) {
	m.lastOverrides = overrides
	base := scenario.Inputs{scenario.AvgProjectSize: 100_000}
	return scenario.Compare(base, base.Merge(overrides)), nil
}

func (m *mockDependencies) AskScenario(_ context.Context, q string, _ scenario.Comparison) (assistant.Answer, error) {
	m.lastQuestion = q
	return assistant.Answer{Question: q, Text: "It pays off.", Mode: assistant.ModeLLM}, nil
}

func (m *mockDependencies) Ask(_ context.Context, q string) (assistant.Answer, error) {
	m.lastQuestion = q
	if m.askErr != nil {
		return assistant.Answer{}, m.askErr
	}
	return assistant.Answer{Question: q, Text: "Total revenue is **$1,250,000**.", Mode: assistant.ModeDirect}, nil
}

func (m *mockDependencies) Digest(context.Context) (string, error) {
	return m.digest, m.digestErr
}

func (m *mockDependencies) RequestRefresh(_ context.Context, trigger string) (model.RefreshRequest, error) {
	if m.refreshErr != nil {
		return model.RefreshRequest{}, m.refreshErr
	}
	m.refreshes++
	return model.RefreshRequest{ID: "req-1", Trigger: trigger, RequestedAt: time.Now()}, nil
}

type mockStatsProvider struct {
	stats map[string]any
}

func (m *mockStatsProvider) GetStats() map[string]any {
	return m.stats
}

func newSnapshot() *repository.Snapshot {
	pipeline := model.NewTable("Pipeline", []string{"Account", "Tier"}, [][]string{
		{"Globex", "Tier 1"},
		{"Initech", "Tier 2"},
		{"Umbrella", "Tier 1"},
	})
	return &repository.Snapshot{
		ID:       "snap-1",
		LoadedAt: time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC),
		Tables:   model.TableSet{"Pipeline": pipeline, "Project Risks": model.NewTable("Project Risks", nil, nil)},
		KPIs: map[string]any{
			"total_revenue":           1_250_000.0,
			"total_projects":          4,
			"pipeline_coverage_ratio": 0.3,
		},
	}
}

func serve(mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var out map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return out
}

func newMux(deps *mockDependencies) *http.ServeMux {
	server := api.NewServer(deps, &mockStatsProvider{stats: map[string]any{"snapshots": 1}})
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux(&mockDependencies{snap: newSnapshot()})

		Convey("Then the health endpoint exposes metrics", func() {
			w := serve(mux, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("And the stats endpoint returns provider stats", func() {
			w := serve(mux, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"snapshots":1`)
		})

		Convey("And the dashboard page is served", func() {
			w := serve(mux, http.MethodGet, "/dashboard", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
			So(w.Body.String(), ShouldContainSubstring, `id="refresh"`)
		})

		Convey("And unknown paths are not found", func() {
			w := serve(mux, http.MethodGet, "/unknown", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("And wrong methods are not found", func() {
			So(serve(mux, http.MethodPost, "/kpis", "").Code, ShouldEqual, http.StatusNotFound)
			So(serve(mux, http.MethodGet, "/refresh", "").Code, ShouldEqual, http.StatusNotFound)
			So(serve(mux, http.MethodGet, "/ask", "").Code, ShouldEqual, http.StatusNotFound)
		})
	})

	Convey("Given a nil mux", t, func() {
		server := api.NewServer(&mockDependencies{}, &mockStatsProvider{})

		Convey("Then registration panics", func() {
			So(func() { server.Register(context.Background(), nil) }, ShouldPanic)
		})
	})

	Convey("Given a server without a stats provider", t, func() {
		mux := http.NewServeMux()
		api.NewServer(&mockDependencies{}, nil).Register(context.Background(), mux)

		Convey("Then stats are unavailable", func() {
			So(serve(mux, http.MethodGet, "/stats", "").Code, ShouldEqual, http.StatusServiceUnavailable)
		})
	})
}

func TestKPIsHandler(t *testing.T) {
	Convey("Given a published snapshot", t, func() {
		mux := newMux(&mockDependencies{snap: newSnapshot()})

		Convey("When fetching all KPIs", func() {
			w := serve(mux, http.MethodGet, "/kpis", "")

			Convey("Then the full mapping is returned with the snapshot id", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var resp types.KPIResponse
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.SnapshotID, ShouldEqual, "snap-1")
				So(resp.KPIs, ShouldHaveLength, 3)
				So(resp.KPIs["total_revenue"], ShouldEqual, 1_250_000.0)
			})
		})

		Convey("When narrowing by names", func() {
			w := serve(mux, http.MethodGet, "/kpis?names=total_projects,%20missing", "")

			Convey("Then only known names are returned", func() {
				var resp types.KPIResponse
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.KPIs, ShouldHaveLength, 1)
				So(resp.KPIs["total_projects"], ShouldEqual, 4.0)
			})
		})

		Convey("When fetching one KPI", func() {
			w := serve(mux, http.MethodGet, "/kpis/total_revenue", "")

			Convey("Then the value is returned with its display form", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var v types.KPIValue
				So(json.Unmarshal(w.Body.Bytes(), &v), ShouldBeNil)
				So(v.Name, ShouldEqual, "total_revenue")
				So(v.Formatted, ShouldEqual, indicators.FormatValue(1_250_000.0))
			})
		})

		Convey("When fetching an unknown KPI", func() {
			w := serve(mux, http.MethodGet, "/kpis/nope", "")

			Convey("Then it is not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decodeError(w)["code"], ShouldEqual, "not_found")
				So(decodeError(w)["message"], ShouldContainSubstring, "nope")
			})
		})

		Convey("When the KPI path is nested", func() {
			So(serve(mux, http.MethodGet, "/kpis/a/b", "").Code, ShouldEqual, http.StatusBadRequest)
		})
	})

	Convey("Given no snapshot yet", t, func() {
		mux := newMux(&mockDependencies{latestErr: repository.ErrNotFound})

		Convey("Then KPI reads are unavailable", func() {
			w := serve(mux, http.MethodGet, "/kpis", "")
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			So(decodeError(w)["code"], ShouldEqual, "not_ready")
		})
	})
}

func TestTablesHandler(t *testing.T) {
	Convey("Given a published snapshot", t, func() {
		mux := newMux(&mockDependencies{snap: newSnapshot()})

		Convey("When listing tables", func() {
			w := serve(mux, http.MethodGet, "/tables", "")

			Convey("Then each table is summarized in name order", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var out []types.TableSummary
				So(json.Unmarshal(w.Body.Bytes(), &out), ShouldBeNil)
				So(out, ShouldHaveLength, 2)
				So(out[0].Name, ShouldEqual, "Pipeline")
				So(out[0].Rows, ShouldEqual, 3)
				So(out[1].Columns, ShouldNotBeNil)
				So(out[1].Rows, ShouldEqual, 0)
			})
		})

		Convey("When reading a table with a limit", func() {
			w := serve(mux, http.MethodGet, "/tables/Pipeline?limit=2", "")

			Convey("Then records are truncated and the total kept", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var out types.TableResponse
				So(json.Unmarshal(w.Body.Bytes(), &out), ShouldBeNil)
				So(out.Total, ShouldEqual, 3)
				So(out.Records, ShouldHaveLength, 2)
				So(out.Records[0]["Account"], ShouldEqual, "Globex")
				So(out.Columns, ShouldResemble, []string{"Account", "Tier"})
			})
		})

		Convey("When the table name contains a space", func() {
			w := serve(mux, http.MethodGet, "/tables/Project%20Risks", "")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("When the table is unknown", func() {
			So(serve(mux, http.MethodGet, "/tables/Nope", "").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the limit is invalid", func() {
			So(serve(mux, http.MethodGet, "/tables/Pipeline?limit=-1", "").Code, ShouldEqual, http.StatusBadRequest)
			So(serve(mux, http.MethodGet, "/tables/Pipeline?limit=x", "").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestStaffingHandler(t *testing.T) {
	Convey("Given staffing dependencies", t, func() {
		deps := &mockDependencies{snap: newSnapshot()}
		mux := newMux(deps)

		Convey("When filtering staffing by client", func() {
			w := serve(mux, http.MethodGet, "/staffing?client=Acme&resourcing=critical", "")

			Convey("Then the filter reaches the service", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastFilter.Client, ShouldEqual, "Acme")
				So(deps.lastFilter.Resourcing, ShouldEqual, "critical")
				So(w.Body.String(), ShouldContainSubstring, `"project":"Apollo"`)
			})
		})

		Convey("When listing whales without a limit", func() {
			w := serve(mux, http.MethodGet, "/pipeline/whales", "")

			Convey("Then the default limit is used", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastLimit, ShouldEqual, indicators.DefaultWhaleLimit)
				So(w.Body.String(), ShouldContainSubstring, `"account":"Globex"`)
			})
		})

		Convey("When listing whales with a limit", func() {
			serve(mux, http.MethodGet, "/pipeline/whales?limit=2", "")
			So(deps.lastLimit, ShouldEqual, 2)
		})

		Convey("When the whale limit is zero", func() {
			So(serve(mux, http.MethodGet, "/pipeline/whales?limit=0", "").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestScenarioHandler(t *testing.T) {
	Convey("Given scenario dependencies", t, func() {
		deps := &mockDependencies{}
		mux := newMux(deps)

		Convey("When reading the baseline comparison", func() {
			w := serve(mux, http.MethodGet, "/scenario", "")

			Convey("Then the comparison and its text are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"comparison"`)
				So(w.Body.String(), ShouldContainSubstring, scenario.TotalPositive)
				So(w.Body.String(), ShouldNotContainSubstring, `"answer"`)
			})
		})

		Convey("When posting overrides and a question", func() {
			body := `{"overrides":{"Avg. Project Size":250000},"question":"Is it worth it?"}`
			w := serve(mux, http.MethodPost, "/scenario", body)

			Convey("Then overrides are applied and the question answered", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastOverrides[scenario.AvgProjectSize], ShouldEqual, 250_000.0)
				So(deps.lastQuestion, ShouldEqual, "Is it worth it?")
				So(w.Body.String(), ShouldContainSubstring, "It pays off.")
			})
		})

		Convey("When posting an empty body", func() {
			So(serve(mux, http.MethodPost, "/scenario", "").Code, ShouldEqual, http.StatusOK)
		})

		Convey("When posting malformed JSON", func() {
			So(serve(mux, http.MethodPost, "/scenario", "{").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestAssistantHandler(t *testing.T) {
	Convey("Given assistant dependencies", t, func() {
		deps := &mockDependencies{digest: "1. Staff **Apollo**"}
		mux := newMux(deps)

		Convey("When asking a question", func() {
			w := serve(mux, http.MethodPost, "/ask", `{"question":"What is the total revenue?"}`)

			Convey("Then the answer and its mode are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var resp types.AskResponse
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Mode, ShouldEqual, assistant.ModeDirect)
				So(resp.Answer, ShouldContainSubstring, "$1,250,000")
				So(resp.HTML, ShouldBeEmpty)
			})
		})

		Convey("When asking for HTML", func() {
			w := serve(mux, http.MethodPost, "/ask?format=html", `{"question":"revenue?"}`)

			Convey("Then the markdown is rendered", func() {
				var resp types.AskResponse
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.HTML, ShouldContainSubstring, "<strong>$1,250,000</strong>")
			})
		})

		Convey("When the question is blank", func() {
			w := serve(mux, http.MethodPost, "/ask", `{"question":"  "}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(deps.lastQuestion, ShouldBeEmpty)
		})

		Convey("When no language model is configured", func() {
			deps.askErr = assistant.ErrNoGenerator
			w := serve(mux, http.MethodPost, "/ask", `{"question":"why?"}`)
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			So(decodeError(w)["code"], ShouldEqual, "unavailable")
		})

		Convey("When reading the digest as HTML", func() {
			w := serve(mux, http.MethodGet, "/digest?format=html", "")

			Convey("Then both forms are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var resp types.DigestResponse
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Digest, ShouldEqual, "1. Staff **Apollo**")
				So(resp.HTML, ShouldContainSubstring, "<ol>")
			})
		})

		Convey("When the digest times out", func() {
			deps.digestErr = context.DeadlineExceeded
			So(serve(mux, http.MethodGet, "/digest", "").Code, ShouldEqual, http.StatusGatewayTimeout)
		})
	})
}

func TestRefreshHandler(t *testing.T) {
	Convey("Given refresh dependencies", t, func() {
		deps := &mockDependencies{history: []repository.Summary{{ID: "b"}, {ID: "a"}}}
		mux := newMux(deps)

		Convey("When requesting a refresh", func() {
			w := serve(mux, http.MethodPost, "/refresh", "")

			Convey("Then it is accepted as a manual request", func() {
				So(w.Code, ShouldEqual, http.StatusAccepted)
				var resp types.RefreshResponse
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.ID, ShouldEqual, "req-1")
				So(resp.Trigger, ShouldEqual, model.TriggerManual)
				So(resp.Status, ShouldEqual, "accepted")
				So(deps.refreshes, ShouldEqual, 1)
			})
		})

		Convey("When the refresh queue is full", func() {
			deps.refreshErr = queue.ErrFull
			w := serve(mux, http.MethodPost, "/refresh", "")
			So(w.Code, ShouldEqual, http.StatusTooManyRequests)
			So(decodeError(w)["code"], ShouldEqual, "backpressure")
		})

		Convey("When the refresh queue is closed", func() {
			deps.refreshErr = queue.ErrClosed
			So(serve(mux, http.MethodPost, "/refresh", "").Code, ShouldEqual, http.StatusServiceUnavailable)
		})

		Convey("When listing snapshots", func() {
			w := serve(mux, http.MethodGet, "/snapshots?limit=1", "")

			Convey("Then the history is limited", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var out []repository.Summary
				So(json.Unmarshal(w.Body.Bytes(), &out), ShouldBeNil)
				So(out, ShouldHaveLength, 1)
				So(out[0].ID, ShouldEqual, "b")
			})
		})

		Convey("When listing snapshots without a limit", func() {
			serve(mux, http.MethodGet, "/snapshots", "")
			So(deps.lastLimit, ShouldEqual, 10)
		})
	})
}

func TestErrorWrapping(t *testing.T) {
	Convey("Given an API error", t, func() {
		cause := errors.New("boom")
		err := api.WrapKind("api.test", api.ErrBadRequest, cause)

		Convey("Then both kind and cause match", func() {
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.test: bad request: boom")
		})

		Convey("Then Wrap keeps nil as nil", func() {
			So(api.Wrap("api.test", nil), ShouldBeNil)
		})

		Convey("Then NewKind has no cause", func() {
			So(api.NewKind("api.test", api.ErrNotFound).Error(), ShouldEqual, "api.test: not found")
		})
	})
}
