package domain

// FailureEvent is a single failed-snapshot notification taken off the queue.
type FailureEvent struct {
	MessageID string

	// SnapshotID and SourceVolumeID keep the "<namespace>/<id>" encoding of the event.
	SnapshotID     string
	SourceVolumeID string
	Region         string

	// Result is the EventBridge detail result ("failed", "succeeded"). Empty when absent.
	Result string
}

// EventResultFailed is the detail result of a failed createSnapshot event.
const EventResultFailed = "failed"
