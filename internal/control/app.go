package control

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vietddude/snapshot-recovery/internal/core/config"
	awsinfra "github.com/vietddude/snapshot-recovery/internal/infra/aws"
	"github.com/vietddude/snapshot-recovery/internal/metrics"
	"github.com/vietddude/snapshot-recovery/internal/recovery"
)

// NewFromConfig wires AWS clients, the processor and metrics into a Handler.
func NewFromConfig(ctx context.Context, cfg *config.AppConfig) (*Handler, error) {
	clients, err := awsinfra.NewClients(ctx, cfg.AWS)
	if err != nil {
		return nil, fmt.Errorf("failed to init aws clients: %w", err)
	}

	store := awsinfra.NewSnapshotStore(clients.EC2, cfg.AWS.MaxAttempts)
	notifier := awsinfra.NewNotifier(clients.SNS, cfg.Recovery.AlertTopicARN)
	backoff := &recovery.UniformJitter{
		Base:   cfg.Recovery.BackoffBase,
		Spread: cfg.Recovery.BackoffSpread,
	}

	processor := recovery.NewProcessor(ProcessorConfig(cfg), store, notifier, backoff)

	m := metrics.New()
	pusher := metrics.NewPusher(m, cfg.Metrics.PushgatewayURL, cfg.Metrics.Job, map[string]string{
		"function": cfg.Function.Name,
		"region":   cfg.Function.Region,
	})

	slog.Info("Recovery handler initialized",
		"source_tag", cfg.Recovery.SourceTag.Key,
		"recovery_tag", cfg.Recovery.RecoveryTag.Key,
		"initial_retries", cfg.Recovery.InitialRetries,
		"backoff_base", cfg.Recovery.BackoffBase,
		"backoff_spread", cfg.Recovery.BackoffSpread,
		"metrics_push", pusher != nil,
	)
	return NewHandler(processor, m, pusher), nil
}

// ProcessorConfig maps application config onto the processor.
func ProcessorConfig(cfg *config.AppConfig) recovery.Config {
	return recovery.Config{
		SourceTag:      cfg.Recovery.SourceTag,
		RecoveryTag:    cfg.Recovery.RecoveryTag,
		InitialRetries: cfg.Recovery.InitialRetries,
		FunctionName:   cfg.Function.Name,
		FunctionRegion: cfg.Function.Region,
	}
}
