package source_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/okian/execdash/internal/adapters/source"
	"github.com/okian/execdash/internal/domain/model"
	"github.com/okian/execdash/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

// flakySource fails the first failures fetches of each worksheet.
type flakySource struct {
	mu       sync.Mutex
	inner    source.Source
	failures int
	calls    map[string]int
}

func (f *flakySource) FetchTable(ctx context.Context, name string) (model.Table, error) {
	f.mu.Lock()
	f.calls[name]++
	n := f.calls[name]
	f.mu.Unlock()
	if n <= f.failures {
		return model.Table{}, errors.New("503 backend error")
	}
	return f.inner.FetchTable(ctx, name)
}

func newLoader(src source.Source) *source.Loader {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	return source.NewLoader(src, source.WithRetryDelay(0))
}

func seeded() *source.Memory {
	return source.NewMemory(model.TableSet{
		"Pipeline": {
			Name:    "Pipeline",
			Columns: []string{" Account ", "Stage"},
			Records: []model.Record{
				{" Account ": "Acme", "Stage": "Open"},
				{" Account ": " ", "Stage": ""},
			},
		},
		"Project Risks": model.NewTable("Project Risks", []string{"Risk"}, [][]string{{"Delay"}}),
	})
}

func TestLoaderContract(t *testing.T) {
	ctx := context.Background()

	Convey("Given a source with two worksheets", t, func() {
		loader := newLoader(seeded())

		Convey("When loading them plus a missing one", func() {
			res, err := loader.Load(ctx, "Pipeline", "Project Risks", "Talent Gaps")

			Convey("Then the missing worksheet is an empty table", func() {
				So(err, ShouldBeNil)
				So(res.Missing, ShouldResemble, []string{"Talent Gaps"})
				So(res.Failed, ShouldBeEmpty)
				So(res.Tables, ShouldContainKey, "Talent Gaps")
				So(res.Tables["Talent Gaps"].Empty(), ShouldBeTrue)
			})

			Convey("Then headers are trimmed and blank rows dropped", func() {
				p := res.Tables["Pipeline"]
				So(p.Columns, ShouldResemble, []string{"Account", "Stage"})
				So(p.Len(), ShouldEqual, 1)
				So(p.Records[0].Value("Account"), ShouldEqual, "Acme")
			})
		})
	})

	Convey("Given a source that fails twice before succeeding", t, func() {
		flaky := &flakySource{inner: seeded(), failures: 2, calls: map[string]int{}}
		loader := newLoader(flaky)

		Convey("When loading", func() {
			res, err := loader.Load(ctx, "Project Risks")

			Convey("Then the third attempt succeeds", func() {
				So(err, ShouldBeNil)
				So(flaky.calls["Project Risks"], ShouldEqual, 3)
				So(res.Tables["Project Risks"].Len(), ShouldEqual, 1)
			})
		})
	})

	Convey("Given a source that never recovers", t, func() {
		flaky := &flakySource{inner: seeded(), failures: 10, calls: map[string]int{}}
		loader := newLoader(flaky)

		Convey("When loading a single worksheet", func() {
			res, err := loader.Load(ctx, "Pipeline")

			Convey("Then it is tried three times and the load is unavailable", func() {
				So(flaky.calls["Pipeline"], ShouldEqual, source.DefaultAttempts)
				So(errors.Is(err, source.ErrUnavailable), ShouldBeTrue)
				So(res.Failed, ShouldResemble, []string{"Pipeline"})
			})
		})

		Convey("When only some worksheets fail", func() {
			mixed := &flakySource{inner: seeded(), failures: 0, calls: map[string]int{}}
			partial := newLoader(sourceFunc(func(ctx context.Context, name string) (model.Table, error) {
				if name == "Pipeline" {
					return flaky.FetchTable(ctx, name)
				}
				return mixed.FetchTable(ctx, name)
			}))
			res, err := partial.Load(ctx, "Pipeline", "Project Risks")

			Convey("Then the load succeeds with the failure listed", func() {
				So(err, ShouldBeNil)
				So(res.Failed, ShouldResemble, []string{"Pipeline"})
				So(res.Tables["Pipeline"].Empty(), ShouldBeTrue)
				So(res.Tables["Project Risks"].Len(), ShouldEqual, 1)
			})
		})
	})

	Convey("Given a cancelled context", t, func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := newLoader(seeded()).Load(cctx, "Pipeline")

		Convey("Then the load reports the cancellation", func() {
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

type sourceFunc func(ctx context.Context, name string) (model.Table, error)

func (f sourceFunc) FetchTable(ctx context.Context, name string) (model.Table, error) { return f(ctx, name) }

func TestMemory(t *testing.T) {
	Convey("Given a memory source", t, func() {
		m := source.NewMemory(nil)
		m.Set(model.NewTable("Pipeline", []string{"Account"}, [][]string{{"Acme"}}))

		Convey("Then stored tables are returned and removed ones are missing", func() {
			got, err := m.FetchTable(context.Background(), "Pipeline")
			So(err, ShouldBeNil)
			So(got.Len(), ShouldEqual, 1)

			m.Remove("Pipeline")
			_, err = m.FetchTable(context.Background(), "Pipeline")
			So(errors.Is(err, source.ErrWorksheetNotFound), ShouldBeTrue)
		})
	})
}
