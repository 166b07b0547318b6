package aws

import (
	"errors"

	"github.com/aws/smithy-go"
)

var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

const codeSnapshotNotFound = "InvalidSnapshot.NotFound"

// ErrorCode returns the provider error code carried by err, or "" when err
// is not an API error.
func ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
