package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/vietddude/snapshot-recovery/internal/recovery"
	"gopkg.in/yaml.v2"
)

// Load starts from defaults, then applies an optional YAML file and
// environment overrides. An empty path skips the file. Explicit zero values
// are kept.
func Load(path string) (*AppConfig, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Expand environment variables in the YAML content
		expandedData := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	applyDerived(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *AppConfig) error {
	setString(&cfg.Recovery.SourceTag.Key, EnvSourceTagKey)
	setString(&cfg.Recovery.SourceTag.Value, EnvSourceTagValue)
	setString(&cfg.Recovery.RecoveryTag.Key, EnvRecoveryTagKey)
	setString(&cfg.Recovery.RecoveryTag.Value, EnvRecoveryTagValue)
	setString(&cfg.Recovery.AlertTopicARN, EnvAlertTopicARN)
	setString(&cfg.Function.Name, EnvFunctionName)
	setString(&cfg.Function.Region, EnvRegion)
	setString(&cfg.Logging.Level, EnvLogLevel)
	setString(&cfg.Logging.Format, EnvLogFormat)
	setString(&cfg.Metrics.PushgatewayURL, EnvPushgatewayURL)
	setString(&cfg.Metrics.Job, EnvMetricsJob)

	if v, ok := os.LookupEnv(EnvInitialRetries); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvInitialRetries, err)
		}
		cfg.Recovery.InitialRetries = n
	}
	if err := setDuration(&cfg.Recovery.BackoffBase, EnvBackoffBase); err != nil {
		return err
	}
	return setDuration(&cfg.Recovery.BackoffSpread, EnvBackoffSpread)
}

func defaults() AppConfig {
	return AppConfig{
		Recovery: RecoveryConfig{
			InitialRetries: recovery.DefaultInitialRetries,
			BackoffBase:    defaultBackoffBase,
			BackoffSpread:  defaultBackoffSpread,
		},
		Logging: LoggingConfig{Level: "info"},
		Metrics: MetricsConfig{Job: defaultMetricsJob},
	}
}

// applyDerived fills values that fall back to other settings.
func applyDerived(cfg *AppConfig) {
	if cfg.AWS.Region == "" {
		cfg.AWS.Region = cfg.Function.Region
	}
	if cfg.Metrics.Job == "" {
		cfg.Metrics.Job = defaultMetricsJob
	}
}

// Validate checks that the recovery lineage is fully described.
func (c *AppConfig) Validate() error {
	var errs []error
	r := c.Recovery
	if r.SourceTag.Key == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvSourceTagKey))
	}
	if r.RecoveryTag.Key == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvRecoveryTagKey))
	}
	if r.SourceTag.Key != "" && r.SourceTag == r.RecoveryTag {
		errs = append(errs, errors.New("source and recovery tags must differ"))
	}
	if r.RecoveryTag.Key == recovery.CounterKey || r.SourceTag.Key == recovery.CounterKey {
		errs = append(errs, fmt.Errorf("tag key %s is reserved for the retry counter", recovery.CounterKey))
	}
	if r.AlertTopicARN == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvAlertTopicARN))
	}
	if r.InitialRetries < 1 {
		errs = append(errs, errors.New("initial retries must be at least 1"))
	}
	if r.BackoffBase < 0 || r.BackoffSpread < 0 {
		errs = append(errs, errors.New("backoff durations must not be negative"))
	}
	return errors.Join(errs...)
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}
