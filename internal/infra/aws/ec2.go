package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/vietddude/snapshot-recovery/internal/core/domain"
)

// EC2API is the subset of the EC2 client used by SnapshotStore.
type EC2API interface {
	DescribeSnapshots(
		ctx context.Context,
		params *ec2.DescribeSnapshotsInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DescribeSnapshotsOutput, error)
	CreateSnapshot(
		ctx context.Context,
		params *ec2.CreateSnapshotInput,
		optFns ...func(*ec2.Options),
	) (*ec2.CreateSnapshotOutput, error)
}

// SnapshotStore reads snapshot tags and creates snapshots through EC2.
type SnapshotStore struct {
	client EC2API
	// createRetryer is kept apart from the client's shared retryer so that
	// throttled snapshot creation does not starve the describe calls.
	createRetryer awssdk.Retryer
}

// NewSnapshotStore creates a new EC2-backed snapshot store.
func NewSnapshotStore(client EC2API, maxAttempts int) *SnapshotStore {
	return &SnapshotStore{
		client:        client,
		createRetryer: newAdaptiveRetryer(maxAttempts),
	}
}

// Tags returns the tag set of the snapshot in provider order.
func (s *SnapshotStore) Tags(ctx context.Context, snapshotID string) (domain.TagSet, error) {
	out, err := s.client.DescribeSnapshots(ctx, &ec2.DescribeSnapshotsInput{
		SnapshotIds: []string{snapshotID},
	})
	if err != nil {
		if ErrorCode(err) == codeSnapshotNotFound {
			return nil, fmt.Errorf("%w: %s: %w", ErrSnapshotNotFound, snapshotID, err)
		}
		return nil, fmt.Errorf("describe snapshot %s: %w", snapshotID, err)
	}
	if len(out.Snapshots) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, snapshotID)
	}

	tags := make(domain.TagSet, 0, len(out.Snapshots[0].Tags))
	for _, t := range out.Snapshots[0].Tags {
		tags = append(tags, domain.Tag{
			Key:   awssdk.ToString(t.Key),
			Value: awssdk.ToString(t.Value),
		})
	}
	return tags, nil
}

// Create requests a snapshot of the volume carrying tags and returns its id.
func (s *SnapshotStore) Create(
	ctx context.Context,
	volumeID, description string,
	tags domain.TagSet,
) (string, error) {
	ec2Tags := make([]types.Tag, 0, len(tags))
	for _, t := range tags {
		ec2Tags = append(ec2Tags, types.Tag{
			Key:   awssdk.String(t.Key),
			Value: awssdk.String(t.Value),
		})
	}

	input := &ec2.CreateSnapshotInput{
		VolumeId:    awssdk.String(volumeID),
		Description: awssdk.String(description),
	}
	if len(ec2Tags) > 0 {
		input.TagSpecifications = []types.TagSpecification{{
			ResourceType: types.ResourceTypeSnapshot,
			Tags:         ec2Tags,
		}}
	}

	out, err := s.client.CreateSnapshot(ctx, input, func(o *ec2.Options) {
		if s.createRetryer != nil {
			o.Retryer = s.createRetryer
		}
	})
	if err != nil {
		return "", fmt.Errorf("create snapshot of %s: %w", volumeID, err)
	}
	return awssdk.ToString(out.SnapshotId), nil
}
