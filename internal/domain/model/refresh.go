package model

import (
	"time"

	"github.com/google/uuid"
)

// Refresh triggers.
const (
	TriggerStartup  = "startup"
	TriggerInterval = "interval"
	TriggerManual   = "manual"
	TriggerWatch    = "watch"
)

// RefreshRequest asks for one load cycle.
type RefreshRequest struct {
	ID          string    // unique id, echoed to the caller
	Trigger     string    // what asked for the load, e.g. "manual"
	RequestedAt time.Time // when the request was made
}

// NewRefreshRequest returns a request with a fresh ID stamped now.
func NewRefreshRequest(trigger string) RefreshRequest {
	return RefreshRequest{
		ID:          uuid.NewString(),
		Trigger:     trigger,
		RequestedAt: time.Now().UTC(),
	}
}
