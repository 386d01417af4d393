package types_test

import (
	"encoding/json"
	"testing"
	"time"

	types "github.com/okian/execdash/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
	"gopkg.in/yaml.v3"
)

func TestKPIResponseEncoding(t *testing.T) {
	Convey("Given a KPI response", t, func() {
		resp := types.KPIResponse{
			SnapshotID: "abc",
			LoadedAt:   time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
			KPIs:       map[string]any{"total_projects": 4},
		}

		Convey("When encoded as JSON", func() {
			b, err := json.Marshal(resp)

			Convey("Then snake_case keys are used", func() {
				So(err, ShouldBeNil)
				So(string(b), ShouldContainSubstring, `"snapshot_id":"abc"`)
				So(string(b), ShouldContainSubstring, `"loaded_at":"2025-06-15T12:00:00Z"`)
				So(string(b), ShouldContainSubstring, `"total_projects":4`)
			})
		})

		Convey("When encoded as YAML", func() {
			b, err := yaml.Marshal(resp)

			Convey("Then the same keys are used", func() {
				So(err, ShouldBeNil)
				So(string(b), ShouldContainSubstring, "snapshot_id: abc")
				So(string(b), ShouldContainSubstring, "total_projects: 4")
			})
		})
	})

	Convey("Given an assistant reply with HTML", t, func() {
		b, err := yaml.Marshal(types.AskResponse{Question: "q", Answer: "a", Mode: "llm", HTML: "<p>a</p>"})

		Convey("Then YAML output leaves the HTML out", func() {
			So(err, ShouldBeNil)
			So(string(b), ShouldNotContainSubstring, "<p>")
		})
	})
}
