package config

import (
	"time"

	"github.com/vietddude/snapshot-recovery/internal/core/domain"
	awsinfra "github.com/vietddude/snapshot-recovery/internal/infra/aws"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Recovery RecoveryConfig  `yaml:"recovery"`
	Function FunctionConfig  `yaml:"function"`
	AWS      awsinfra.Config `yaml:"aws"`
	Logging  LoggingConfig   `yaml:"logging"`
	Metrics  MetricsConfig   `yaml:"metrics"`
}

// RecoveryConfig holds the tag pairs and retry budget of the recovery lineage.
type RecoveryConfig struct {
	SourceTag      domain.Tag    `yaml:"source_tag"`
	RecoveryTag    domain.Tag    `yaml:"recovery_tag"`
	AlertTopicARN  string        `yaml:"alert_topic_arn"`
	InitialRetries int           `yaml:"initial_retries"`
	BackoffBase    time.Duration `yaml:"backoff_base"`
	BackoffSpread  time.Duration `yaml:"backoff_spread"`
}

// FunctionConfig identifies the deployment in alerts.
type FunctionConfig struct {
	Name   string `yaml:"name"`
	Region string `yaml:"region"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// MetricsConfig holds the optional Pushgateway target.
type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgateway_url"`
	Job            string `yaml:"job"`
}

// Environment keys. The lower-case keys are the names operators already use
// on deployed functions.
const (
	EnvSourceTagKey      = "source_tag_Key"
	EnvSourceTagValue    = "source_tag_Value"
	EnvRecoveryTagKey    = "snapshot_recovery_tag_Key"
	EnvRecoveryTagValue  = "snapshot_recovery_tag_Value"
	EnvAlertTopicARN     = "snapshot_recovery_max_retries_sns"
	EnvFunctionName      = "AWS_LAMBDA_FUNCTION_NAME"
	EnvRegion            = "AWS_REGION"
	EnvInitialRetries    = "RECOVERY_INITIAL_RETRIES"
	EnvBackoffBase       = "RECOVERY_BACKOFF_BASE"
	EnvBackoffSpread     = "RECOVERY_BACKOFF_SPREAD"
	EnvLogLevel          = "LOG_LEVEL"
	EnvLogFormat         = "LOG_FORMAT"
	EnvPushgatewayURL    = "METRICS_PUSHGATEWAY_URL"
	EnvMetricsJob        = "METRICS_JOB"
	defaultMetricsJob    = "snapshot_recovery"
	defaultBackoffBase   = 15 * time.Second
	defaultBackoffSpread = 60 * time.Second
)
