package recovery

import (
	"time"

	"github.com/vietddude/snapshot-recovery/internal/core/domain"
)

// OutcomeKind is the terminal state of processing one failure event.
type OutcomeKind string

const (
	// OutcomeOutOfScope means the snapshot lacks the source marker. Not an error.
	OutcomeOutOfScope OutcomeKind = "out_of_scope"
	// OutcomeExhausted means the counter read zero and the operator was alerted.
	OutcomeExhausted OutcomeKind = "exhausted"
	// OutcomeRecoveryAttempted means a replacement snapshot was requested.
	OutcomeRecoveryAttempted OutcomeKind = "recovery_attempted"
	// OutcomeFailed means the message must be redelivered.
	OutcomeFailed OutcomeKind = "failed"
)

// Outcome describes what Process did with one event. Diagnostic fields that
// were not resolved hold domain.UnknownField.
type Outcome struct {
	Kind      OutcomeKind
	MessageID string

	SnapshotID string
	VolumeID   string
	Region     string

	// Counter is the counter value written to the replacement snapshot, or
	// the observed value when exhausted. -1 when not reached.
	Counter       int
	FirstAttempt  bool
	NewSnapshotID string
	Delay         time.Duration

	FailureType domain.FailureType
	Err         error
}

// Failed reports whether the message must be listed as a batch failure.
func (o Outcome) Failed() bool {
	return o.Kind == OutcomeFailed
}

// FailedMessage renders the batch failure entry for o.
func (o Outcome) FailedMessage() domain.FailedMessage {
	return domain.FailedMessage{
		ItemIdentifier: o.MessageID,
		VolumeID:       orUnknown(o.VolumeID),
		Region:         orUnknown(o.Region),
	}
}

func (o Outcome) fail(ft domain.FailureType, err error) Outcome {
	o.Kind = OutcomeFailed
	o.FailureType = ft
	o.Err = err
	return o
}

func orUnknown(s string) string {
	if s == "" {
		return domain.UnknownField
	}
	return s
}
