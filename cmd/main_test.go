package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/execdash/internal/adapters/source/xlsx"
	service "github.com/okian/execdash/internal/app"
	"github.com/okian/execdash/internal/config"
	"github.com/okian/execdash/internal/domain/model"
	"github.com/okian/execdash/internal/fixtures"
	"github.com/okian/execdash/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dashboard.xlsx")
	if err := xlsx.Write(path, fixtures.Sample(time.Now()), fixtures.Order()...); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	cfg := config.New(context.Background())
	cfg.XLSXPath = path
	cfg.RefreshIntervalSec = 0
	return cfg
}

func TestMainWiring(t *testing.T) {
	convey.Convey("Given a configuration pointing at a local workbook", t, func() {
		ctx := context.Background()
		cfg := testConfig(t)

		convey.Convey("When the service is built", func() {
			svc, err := service.FromConfig(ctx, cfg, logger.Get())
			convey.So(err, convey.ShouldBeNil)
			defer svc.Stop()

			convey.Convey("Then no language model is attached", func() {
				convey.So(svc.GetStats()["llm"], convey.ShouldBeFalse)
			})

			convey.Convey("And the mux serves every surface", func() {
				mux := newMux(ctx, svc)
				for path, want := range map[string]int{
					"/":             http.StatusOK,
					"/healthz":      http.StatusOK,
					"/api-docs":     http.StatusOK,
					"/openapi.yaml": http.StatusOK,
					"/dashboard":    http.StatusOK,
					"/kpis":         http.StatusServiceUnavailable,
				} {
					rec := httptest.NewRecorder()
					mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
					convey.So(rec.Code, convey.ShouldEqual, want)
				}
			})

			convey.Convey("And a refresh makes the KPIs available", func() {
				convey.So(svc.Refresh(ctx, model.NewRefreshRequest(model.TriggerManual)), convey.ShouldBeNil)
				rec := httptest.NewRecorder()
				newMux(ctx, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/kpis/total_revenue", nil))
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(rec.Body.String(), convey.ShouldContainSubstring, "1,250,000")
			})
		})

		convey.Convey("When the source kind is unknown", func() {
			cfg.Source = "csv"
			_, err := service.NewSource(ctx, cfg, logger.Get())

			convey.Convey("Then construction fails", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the workbook path does not exist", func() {
			cfg.XLSXPath = filepath.Join(t.TempDir(), "missing", "dashboard.xlsx")
			_, err := service.NewSource(ctx, cfg, logger.Get())

			convey.Convey("Then construction succeeds and the failure surfaces on load", func() {
				convey.So(err, convey.ShouldBeNil)
			})
		})
	})
}

func TestUpdateSystemMetrics(t *testing.T) {
	convey.Convey("Given the process metrics updater", t, func() {
		convey.Convey("Then a single update does not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})

		convey.Convey("And the loop stops with its context", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				startSystemMetricsUpdater(ctx)
				close(done)
			}()
			cancel()
			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatal("metrics updater did not stop")
			}
		})
	})
}
