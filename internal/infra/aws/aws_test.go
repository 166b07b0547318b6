package aws

import (
	"context"
	"errors"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/smithy-go"
	"github.com/vietddude/snapshot-recovery/internal/core/domain"
)

// =============================================================================
// Mocks
// =============================================================================

type mockEC2 struct {
	describeOut *ec2.DescribeSnapshotsOutput
	describeErr error
	createErr   error

	lastCreate *ec2.CreateSnapshotInput
	retryerSet bool
}

func (m *mockEC2) DescribeSnapshots(
	ctx context.Context,
	params *ec2.DescribeSnapshotsInput,
	optFns ...func(*ec2.Options),
) (*ec2.DescribeSnapshotsOutput, error) {
	return m.describeOut, m.describeErr
}

func (m *mockEC2) CreateSnapshot(
	ctx context.Context,
	params *ec2.CreateSnapshotInput,
	optFns ...func(*ec2.Options),
) (*ec2.CreateSnapshotOutput, error) {
	m.lastCreate = params
	var opts ec2.Options
	for _, fn := range optFns {
		fn(&opts)
	}
	m.retryerSet = opts.Retryer != nil
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &ec2.CreateSnapshotOutput{SnapshotId: awssdk.String("snap-new")}, nil
}

type mockSNS struct {
	input *sns.PublishInput
	err   error
}

func (m *mockSNS) Publish(
	ctx context.Context,
	params *sns.PublishInput,
	optFns ...func(*sns.Options),
) (*sns.PublishOutput, error) {
	m.input = params
	return &sns.PublishOutput{MessageId: awssdk.String("m-1")}, m.err
}

// =============================================================================
// SnapshotStore Tests
// =============================================================================

func TestSnapshotStore_Tags(t *testing.T) {
	client := &mockEC2{describeOut: &ec2.DescribeSnapshotsOutput{
		Snapshots: []types.Snapshot{{
			SnapshotId: awssdk.String("snap-1"),
			Tags: []types.Tag{
				{Key: awssdk.String("EBS-Snapshot"), Value: awssdk.String("LambdaRecovery")},
				{Key: awssdk.String("Retention"), Value: awssdk.String("30")},
			},
		}},
	}}
	store := NewSnapshotStore(client, 0)

	tags, err := store.Tags(context.Background(), "snap-1")
	if err != nil {
		t.Fatalf("Tags failed: %v", err)
	}
	want := domain.TagSet{{Key: "EBS-Snapshot", Value: "LambdaRecovery"}, {Key: "Retention", Value: "30"}}
	if len(tags) != 2 || tags[0] != want[0] || tags[1] != want[1] {
		t.Errorf("expected %v, got %v", want, tags)
	}
}

func TestSnapshotStore_TagsNotFound(t *testing.T) {
	client := &mockEC2{describeErr: &smithy.GenericAPIError{
		Code:    "InvalidSnapshot.NotFound",
		Message: "The snapshot 'snap-1' does not exist.",
	}}
	store := NewSnapshotStore(client, 0)

	_, err := store.Tags(context.Background(), "snap-1")
	if !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("expected ErrSnapshotNotFound, got %v", err)
	}
	if ErrorCode(err) != "InvalidSnapshot.NotFound" {
		t.Errorf("expected error code to survive wrapping, got %q", ErrorCode(err))
	}

	client = &mockEC2{describeOut: &ec2.DescribeSnapshotsOutput{}}
	if _, err := NewSnapshotStore(client, 0).Tags(context.Background(), "snap-1"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("expected ErrSnapshotNotFound for empty result, got %v", err)
	}
}

func TestSnapshotStore_Create(t *testing.T) {
	client := &mockEC2{}
	store := NewSnapshotStore(client, 3)

	id, err := store.Create(context.Background(), "vol-1", "desc", domain.TagSet{{Key: "k", Value: "v"}})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if id != "snap-new" {
		t.Errorf("expected snap-new, got %s", id)
	}

	in := client.lastCreate
	if awssdk.ToString(in.VolumeId) != "vol-1" || awssdk.ToString(in.Description) != "desc" {
		t.Errorf("unexpected create input %+v", in)
	}
	if len(in.TagSpecifications) != 1 || in.TagSpecifications[0].ResourceType != types.ResourceTypeSnapshot {
		t.Fatalf("expected one snapshot tag specification, got %+v", in.TagSpecifications)
	}
	if tag := in.TagSpecifications[0].Tags[0]; awssdk.ToString(tag.Key) != "k" || awssdk.ToString(tag.Value) != "v" {
		t.Errorf("unexpected tag %+v", tag)
	}
	if !client.retryerSet {
		t.Error("create should use its own retryer")
	}
}

func TestSnapshotStore_CreateError(t *testing.T) {
	client := &mockEC2{createErr: &smithy.GenericAPIError{Code: "SnapshotCreationPerVolumeRateExceeded"}}
	store := NewSnapshotStore(client, 0)

	_, err := store.Create(context.Background(), "vol-1", "desc", nil)
	if ErrorCode(err) != "SnapshotCreationPerVolumeRateExceeded" {
		t.Errorf("expected rate exceeded code, got %v", err)
	}
	if client.lastCreate.TagSpecifications != nil {
		t.Error("empty tag set should not send a tag specification")
	}
}

// =============================================================================
// Notifier Tests
// =============================================================================

func TestNotifier_Publish(t *testing.T) {
	client := &mockSNS{}
	n := NewNotifier(client, "arn:aws:sns:eu-west-1:123456789012:alerts")

	if err := n.Publish(context.Background(), "subject", "body"); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if awssdk.ToString(client.input.TopicArn) != "arn:aws:sns:eu-west-1:123456789012:alerts" {
		t.Errorf("unexpected topic %v", awssdk.ToString(client.input.TopicArn))
	}
	if awssdk.ToString(client.input.Message) != "body" {
		t.Errorf("unexpected message %v", awssdk.ToString(client.input.Message))
	}
}

func TestNotifier_PublishErrors(t *testing.T) {
	if err := NewNotifier(&mockSNS{}, "").Publish(context.Background(), "s", "m"); err == nil {
		t.Error("expected error without topic")
	}

	client := &mockSNS{err: errors.New("throttled")}
	if err := NewNotifier(client, "arn").Publish(context.Background(), "s", "m"); err == nil {
		t.Error("expected publish error")
	}
}

func TestErrorCode_NonAPIError(t *testing.T) {
	if code := ErrorCode(errors.New("plain")); code != "" {
		t.Errorf("expected empty code, got %q", code)
	}
}
