package model_test

import (
	"testing"
	"time"

	model "github.com/okian/execdash/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestNewRefreshRequest(t *testing.T) {
	convey.Convey("Given two refresh requests", t, func() {
		before := time.Now().UTC()
		a := model.NewRefreshRequest(model.TriggerManual)
		b := model.NewRefreshRequest(model.TriggerInterval)

		convey.Convey("Then each has its own id, trigger and timestamp", func() {
			convey.So(a.ID, convey.ShouldNotBeEmpty)
			convey.So(a.ID, convey.ShouldNotEqual, b.ID)
			convey.So(a.Trigger, convey.ShouldEqual, model.TriggerManual)
			convey.So(b.Trigger, convey.ShouldEqual, model.TriggerInterval)
			convey.So(a.RequestedAt, convey.ShouldHappenOnOrAfter, before)
		})
	})
}
