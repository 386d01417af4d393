package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/okian/execdash/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInitWithOptions(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(logger.InitWithOptions(&buf, logger.FormatJSON), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging with fields", func() {
			logger.Get().Named("engine").Info(ctx, "kpis computed",
				logger.String("table", "Pipeline"),
				logger.Int("rows", 12),
				logger.Bool("fallback", false),
				logger.Duration("took", time.Millisecond),
			)

			Convey("Then the record carries the fields and component", func() {
				var rec map[string]any
				So(json.Unmarshal(buf.Bytes(), &rec), ShouldBeNil)
				So(rec["msg"], ShouldEqual, "kpis computed")
				So(rec["component"], ShouldEqual, "engine")
				So(rec["table"], ShouldEqual, "Pipeline")
				So(rec["rows"], ShouldEqual, float64(12))
				So(rec["fallback"], ShouldEqual, false)
				So(rec["source"], ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When the level is raised to error", func() {
			So(logger.SetLevelString("error"), ShouldBeNil)
			logger.Get().Warn(ctx, "dropped")
			logger.Get().Error(ctx, "kept", logger.Error(errors.New("boom")))

			Convey("Then only the error record is written", func() {
				out := buf.String()
				So(out, ShouldNotContainSubstring, "dropped")
				So(out, ShouldContainSubstring, "kept")
				So(out, ShouldContainSubstring, "boom")
			})
		})

		Convey("When With attaches fields", func() {
			logger.Get().With(logger.String("snapshot", "abc")).Info(ctx, "published")

			Convey("Then they appear on the record", func() {
				So(buf.String(), ShouldContainSubstring, `"snapshot":"abc"`)
			})
		})
	})

	Convey("Given an unknown format", t, func() {
		err := logger.InitWithOptions(&bytes.Buffer{}, "xml")

		Convey("Then initialization fails", func() {
			So(err, ShouldNotBeNil)
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given the global logger", t, func() {
		So(logger.Init(), ShouldBeNil)

		Convey("Then known levels are accepted case-insensitively", func() {
			for _, lvl := range []string{"debug", "INFO", "", "warn", "Warning", "error"} {
				So(logger.SetLevelString(lvl), ShouldBeNil)
			}
		})

		Convey("Then unknown levels are rejected", func() {
			err := logger.SetLevelString("verbose")
			So(err, ShouldNotBeNil)
			So(strings.Contains(err.Error(), "verbose"), ShouldBeTrue)
		})
	})
}
