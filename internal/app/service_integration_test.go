package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/execdash/internal/adapters/repository"
	"github.com/okian/execdash/internal/adapters/source"
	"github.com/okian/execdash/internal/adapters/source/xlsx"
	service "github.com/okian/execdash/internal/app"
	"github.com/okian/execdash/internal/domain/model"
	"github.com/okian/execdash/internal/domain/schema"
	"github.com/okian/execdash/internal/fixtures"
	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"
)

const waitFor = 5 * time.Second

// waitSnapshot polls until the latest snapshot satisfies ok or the deadline passes.
func waitSnapshot(svc *service.Service, ok func(*repository.Snapshot) bool) *repository.Snapshot {
	deadline := time.Now().Add(waitFor)
	for time.Now().Before(deadline) {
		if snap, err := svc.Latest(context.Background()); err == nil && ok(snap) {
			return snap
		}
		time.Sleep(10 * time.Millisecond)
	}
	return nil
}

func anySnapshot(*repository.Snapshot) bool { return true }

func TestService_Lifecycle(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	Convey("Given a started service", t, func() {
		ctx := context.Background()
		mem := source.NewMemory(fixtures.Sample(today))
		svc := newService(mem, service.WithRefreshInterval(0))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("Then the startup load publishes a snapshot", func() {
			snap := waitSnapshot(svc, anySnapshot)
			So(snap, ShouldNotBeNil)
			So(snap.KPIs["total_projects"], ShouldEqual, 4)
			So(svc.GetStats()["started"], ShouldBeTrue)
		})

		Convey("Then starting twice is harmless", func() {
			So(svc.Start(ctx), ShouldBeNil)
		})

		Convey("When a manual refresh is requested after the data changes", func() {
			first := waitSnapshot(svc, anySnapshot)
			So(first, ShouldNotBeNil)
			mem.Remove(schema.Pipeline)

			req, err := svc.RequestRefresh(ctx, model.TriggerManual)
			So(err, ShouldBeNil)
			So(req.ID, ShouldNotBeEmpty)

			Convey("Then a newer snapshot reflects the change", func() {
				snap := waitSnapshot(svc, func(s *repository.Snapshot) bool { return s.ID != first.ID })
				So(snap, ShouldNotBeNil)
				So(snap.Missing, ShouldContain, schema.Pipeline)
				So(snap.KPIs["active_pipeline_value"], ShouldEqual, 0.0)
			})
		})

		Convey("When the service stops", func() {
			svc.Stop()

			Convey("Then refresh requests are refused", func() {
				_, err := svc.RequestRefresh(ctx, model.TriggerManual)
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestService_WatchWorkbook(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	Convey("Given a service watching a workbook file", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "dashboard.xlsx")
		So(xlsx.Write(path, fixtures.Sample(today), fixtures.Order()...), ShouldBeNil)

		src, err := xlsx.New(path, xlsx.WithDebounce(50*time.Millisecond))
		So(err, ShouldBeNil)
		svc := newService(src, service.WithRefreshInterval(0), service.WithWatch(true))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		first := waitSnapshot(svc, anySnapshot)
		So(first, ShouldNotBeNil)
		So(first.KPIs["total_revenue"], ShouldEqual, 1_250_000.0)

		Convey("When the workbook is rewritten", func() {
			tables := fixtures.Sample(today)
			tables[schema.ProjectInventory] = model.NewTable(schema.ProjectInventory, fixtures.ProjectHeader, [][]string{
				{"Solo", "Acme", "G", "$75,000", "90", "90", "50", "", "", "", "", "", "Yes"},
			})
			So(xlsx.Write(path, tables, fixtures.Order()...), ShouldBeNil)

			Convey("Then the change is loaded without a manual refresh", func() {
				snap := waitSnapshot(svc, func(s *repository.Snapshot) bool {
					return s.KPIs["total_revenue"] == 75_000.0
				})
				So(snap, ShouldNotBeNil)
				So(snap.KPIs["total_projects"], ShouldEqual, 1)
			})
		})
	})
}
