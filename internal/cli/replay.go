package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/vietddude/snapshot-recovery/internal/control"
)

var eventPath string

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Run one recorded SQS or EventBridge event through the handler",
	Long: `replay runs the handler once against real AWS APIs. The file holds either an SQS
event ({"Records": [...]}) or a bare EventBridge snapshot event, which is wrapped in a
single record with a generated message id. The batch response is printed as JSON.`,
	Args: cobra.NoArgs,
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().StringVar(&eventPath, "event", "", "path to the event JSON file")
	_ = replayCmd.MarkFlagRequired("event")
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(eventPath)
	if err != nil {
		return fmt.Errorf("failed to read event file: %w", err)
	}
	ev, err := parseReplayEvent(data, cfg.Function.Region)
	if err != nil {
		return err
	}

	h, err := control.NewFromConfig(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	resp, err := h.Handle(cmd.Context(), ev)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// parseReplayEvent accepts an SQS event or wraps a bare EventBridge event.
func parseReplayEvent(data []byte, region string) (events.SQSEvent, error) {
	var sqsEvent events.SQSEvent
	if err := json.Unmarshal(data, &sqsEvent); err != nil {
		return events.SQSEvent{}, fmt.Errorf("failed to parse event file: %w", err)
	}
	if len(sqsEvent.Records) > 0 {
		return sqsEvent, nil
	}

	var probe struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &probe); err != nil || len(probe.Detail) == 0 {
		return events.SQSEvent{}, fmt.Errorf("event file holds neither SQS records nor an EventBridge detail")
	}

	return events.SQSEvent{Records: []events.SQSMessage{{
		MessageId: uuid.NewString(),
		Body:      string(data),
		AWSRegion: region,
	}}}, nil
}
