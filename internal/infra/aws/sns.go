package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSAPI is the subset of the SNS client used by Notifier.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Notifier publishes operator alerts to a single SNS topic.
type Notifier struct {
	client   SNSAPI
	topicARN string
}

// NewNotifier creates a notifier for topicARN.
func NewNotifier(client SNSAPI, topicARN string) *Notifier {
	return &Notifier{client: client, topicARN: topicARN}
}

// Publish sends message to the topic.
func (n *Notifier) Publish(ctx context.Context, subject, message string) error {
	if n.topicARN == "" {
		return fmt.Errorf("alert topic arn is not set")
	}
	_, err := n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: awssdk.String(n.topicARN),
		Subject:  awssdk.String(subject),
		Message:  awssdk.String(message),
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", n.topicARN, err)
	}
	return nil
}
