package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// Config holds AWS client settings.
type Config struct {
	Region string `yaml:"region"`
	// MaxAttempts bounds SDK-level retries of a single API call. 0 keeps the SDK default.
	MaxAttempts int `yaml:"max_attempts"`
}

// Clients bundles the service clients the processor needs.
type Clients struct {
	EC2 *ec2.Client
	SNS *sns.Client
}

// NewClients loads the default credential chain and builds service clients.
func NewClients(ctx context.Context, cfg Config) (*Clients, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.MaxAttempts > 0 {
		opts = append(opts, awsconfig.WithRetryMaxAttempts(cfg.MaxAttempts))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return &Clients{
		EC2: ec2.NewFromConfig(awsCfg),
		SNS: sns.NewFromConfig(awsCfg),
	}, nil
}

// newAdaptiveRetryer restricts attempts of API calls that recently hit throttle errors.
func newAdaptiveRetryer(maxAttempts int) awssdk.Retryer {
	return retry.NewAdaptiveMode(func(ao *retry.AdaptiveModeOptions) {
		if maxAttempts > 0 {
			ao.StandardOptions = append(ao.StandardOptions, func(so *retry.StandardOptions) {
				so.MaxAttempts = maxAttempts
			})
		}
	})
}
