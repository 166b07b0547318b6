package control

import (
	"context"

	"github.com/vietddude/snapshot-recovery/internal/core/domain"
	"github.com/vietddude/snapshot-recovery/internal/recovery"
)

// Processor runs the recovery state machine for one event.
type Processor interface {
	Process(ctx context.Context, ev domain.FailureEvent) recovery.Outcome
}

// messageBody is the EventBridge envelope carried in each queue record.
type messageBody struct {
	Region string `json:"region"`
	Detail struct {
		SnapshotID string `json:"snapshot_id"`
		Source     string `json:"source"`
		Result     string `json:"result"`
	} `json:"detail"`
}
