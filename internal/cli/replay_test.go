package cli

import (
	"testing"

	"github.com/google/uuid"
)

func TestParseReplayEvent_SQS(t *testing.T) {
	data := []byte(`{"Records":[{"messageId":"m-1","body":"{}","awsRegion":"eu-west-1"}]}`)

	ev, err := parseReplayEvent(data, "us-east-1")
	if err != nil {
		t.Fatalf("parseReplayEvent failed: %v", err)
	}
	if len(ev.Records) != 1 || ev.Records[0].MessageId != "m-1" {
		t.Errorf("unexpected records %+v", ev.Records)
	}
}

func TestParseReplayEvent_EventBridge(t *testing.T) {
	data := []byte(`{"region":"eu-west-1","detail":{"snapshot_id":"arn/snap-1","source":"arn/vol-1","result":"failed"}}`)

	ev, err := parseReplayEvent(data, "eu-west-1")
	if err != nil {
		t.Fatalf("parseReplayEvent failed: %v", err)
	}
	if len(ev.Records) != 1 {
		t.Fatalf("expected 1 wrapped record, got %d", len(ev.Records))
	}
	rec := ev.Records[0]
	if _, err := uuid.Parse(rec.MessageId); err != nil {
		t.Errorf("expected generated uuid message id, got %q", rec.MessageId)
	}
	if rec.Body != string(data) || rec.AWSRegion != "eu-west-1" {
		t.Errorf("unexpected record %+v", rec)
	}
}

func TestParseReplayEvent_Invalid(t *testing.T) {
	for _, data := range []string{`not json`, `{}`, `{"Records":[]}`} {
		if _, err := parseReplayEvent([]byte(data), ""); err == nil {
			t.Errorf("expected error for %s", data)
		}
	}
}

func TestParseLevel(t *testing.T) {
	if parseLevel("debug").String() != "DEBUG" || parseLevel("bogus").String() != "INFO" {
		t.Error("unexpected level mapping")
	}
}
