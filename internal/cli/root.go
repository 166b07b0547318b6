package cli

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/vietddude/snapshot-recovery/internal/core/config"
	"github.com/vietddude/stylelog"
)

var (
	cfgPath string
	isDebug bool
)

var rootCmd = &cobra.Command{
	Use:   "snapshot-recovery",
	Short: "EBS snapshot recovery function",
	Long: `snapshot-recovery consumes failed EBS snapshot events from SQS and recreates the
snapshot with a bounded, tag-tracked retry budget, alerting via SNS once it is spent.`,
	RunE:          runLambda,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "optional YAML config file, environment overrides it")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "enable debug logging")
	rootCmd.AddCommand(lambdaCmd, replayCmd)
}

// loadConfig reads .env (local runs only), loads configuration and sets up
// the default logger.
func loadConfig() (*config.AppConfig, error) {
	_ = godotenv.Load()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		// Fall back to default logger for config load errors
		stylelog.InitDefault()
		return nil, err
	}

	setupLogging(cfg.Logging, isDebug)
	return cfg, nil
}

func setupLogging(cfg config.LoggingConfig, debug bool) {
	slogLevel := parseLevel(cfg.Level)
	if debug {
		slogLevel = slog.LevelDebug
	}

	if cfg.Format == "json" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slogLevel})))
	} else {
		stylelog.InitDefault(&tint.Options{
			Level:      slogLevel,
			TimeFormat: time.RFC3339,
		})
	}
	slog.Debug("Logger initialized", "level", slogLevel.String(), "format", cfg.Format)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
