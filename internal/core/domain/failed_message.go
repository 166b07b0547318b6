package domain

// UnknownField is reported for diagnostic fields that were not resolved
// before a message failed.
const UnknownField = "unknown"

// FailedMessage is a per-message entry of the batch response. The host queue
// redelivers every message listed here and deletes the rest.
type FailedMessage struct {
	ItemIdentifier string `json:"itemIdentifier"`
	VolumeID       string `json:"VolumeID"`
	Region         string `json:"Region"`
}

// BatchResponse is returned to the host queue integration.
type BatchResponse struct {
	BatchItemFailures []FailedMessage `json:"batchItemFailures"`
}

// FailureType classifies why a message could not be processed.
type FailureType string

const (
	FailureTypeMalformed FailureType = "malformed"
	FailureTypeLookup    FailureType = "lookup"
	FailureTypeCounter   FailureType = "counter"
	FailureTypeCreate    FailureType = "create"
	FailureTypeAlert     FailureType = "alert"
	FailureTypeBackoff   FailureType = "backoff"
)
