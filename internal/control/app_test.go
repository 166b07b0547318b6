package control

import (
	"testing"

	"github.com/vietddude/snapshot-recovery/internal/core/config"
	"github.com/vietddude/snapshot-recovery/internal/core/domain"
	"github.com/vietddude/snapshot-recovery/internal/recovery"
)

func TestProcessorConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.AppConfig
		want recovery.Config
	}{
		{
			name: "full",
			cfg: config.AppConfig{
				Recovery: config.RecoveryConfig{
					SourceTag:      domain.Tag{Key: "EBS-Snapshot", Value: "LambdaRecovery"},
					RecoveryTag:    domain.Tag{Key: "Retention", Value: "30"},
					InitialRetries: 3,
				},
				Function: config.FunctionConfig{Name: "snapshot-recovery", Region: "eu-west-1"},
			},
			want: recovery.Config{
				SourceTag:      domain.Tag{Key: "EBS-Snapshot", Value: "LambdaRecovery"},
				RecoveryTag:    domain.Tag{Key: "Retention", Value: "30"},
				InitialRetries: 3,
				FunctionName:   "snapshot-recovery",
				FunctionRegion: "eu-west-1",
			},
		},
		{
			name: "function identity only",
			cfg: config.AppConfig{
				Function: config.FunctionConfig{Name: "fn", Region: "us-east-2"},
			},
			want: recovery.Config{FunctionName: "fn", FunctionRegion: "us-east-2"},
		},
		{
			name: "tags only",
			cfg: config.AppConfig{
				Recovery: config.RecoveryConfig{
					SourceTag:   domain.Tag{Key: "a", Value: "1"},
					RecoveryTag: domain.Tag{Key: "b", Value: "2"},
				},
			},
			want: recovery.Config{
				SourceTag:   domain.Tag{Key: "a", Value: "1"},
				RecoveryTag: domain.Tag{Key: "b", Value: "2"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProcessorConfig(&tt.cfg); got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}
