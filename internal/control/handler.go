package control

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/vietddude/snapshot-recovery/internal/core/domain"
	awsinfra "github.com/vietddude/snapshot-recovery/internal/infra/aws"
	"github.com/vietddude/snapshot-recovery/internal/metrics"
	"github.com/vietddude/snapshot-recovery/internal/recovery"
)

// Handler turns a queue batch into recovery attempts and a batch response.
type Handler struct {
	processor Processor
	metrics   *metrics.Metrics
	pusher    *metrics.Pusher
	log       *slog.Logger
}

// NewHandler creates a new batch handler. pusher may be nil.
func NewHandler(processor Processor, m *metrics.Metrics, pusher *metrics.Pusher) *Handler {
	if m == nil {
		m = metrics.New()
	}
	return &Handler{
		processor: processor,
		metrics:   m,
		pusher:    pusher,
		log:       slog.Default().With("component", "handler"),
	}
}

// Handle processes the records one at a time in delivery order. A record
// held in backoff delays every record behind it. Per-message failures are
// reported in the response; the returned error is always nil so the host
// only redelivers the listed messages.
func (h *Handler) Handle(ctx context.Context, ev events.SQSEvent) (domain.BatchResponse, error) {
	start := time.Now()
	resp := domain.BatchResponse{BatchItemFailures: []domain.FailedMessage{}}

	h.log.Info("Processing batch", "records", len(ev.Records))
	for _, record := range ev.Records {
		out := h.processRecord(ctx, record)
		h.record(out)
		if out.Failed() {
			resp.BatchItemFailures = append(resp.BatchItemFailures, out.FailedMessage())
		}
	}

	h.metrics.ObserveBatch(start)
	if err := h.pusher.Push(); err != nil {
		h.log.Warn("Metrics push failed", "error", err)
	}

	h.log.Info("Batch done",
		"records", len(ev.Records),
		"failures", len(resp.BatchItemFailures),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return resp, nil
}

func (h *Handler) processRecord(ctx context.Context, record events.SQSMessage) recovery.Outcome {
	ev, err := DecodeRecord(record)
	if err != nil {
		return recovery.Outcome{
			Kind:        recovery.OutcomeFailed,
			MessageID:   record.MessageId,
			VolumeID:    domain.UnknownField,
			Region:      orUnknown(record.AWSRegion),
			Counter:     -1,
			FailureType: domain.FailureTypeMalformed,
			Err:         err,
		}
	}
	return h.processor.Process(ctx, ev)
}

// record dispatches an outcome into a log line and metrics.
func (h *Handler) record(out recovery.Outcome) {
	h.metrics.MessagesProcessed.WithLabelValues(string(out.Kind)).Inc()

	log := h.log.With(
		"message_id", out.MessageID,
		"snapshot_id", out.SnapshotID,
		"volume_id", out.VolumeID,
		"region", out.Region,
	)

	switch out.Kind {
	case recovery.OutcomeOutOfScope:
		log.Debug("Message out of scope")
	case recovery.OutcomeExhausted:
		h.metrics.RecoveryCounter.Observe(float64(out.Counter))
		log.Warn("Recovery budget exhausted, operator alerted")
	case recovery.OutcomeRecoveryAttempted:
		h.metrics.RecoveryCounter.Observe(float64(out.Counter))
		h.metrics.BackoffSeconds.Observe(out.Delay.Seconds())
		log.Info("Recovery attempted",
			"new_snapshot_id", out.NewSnapshotID,
			"counter", out.Counter,
			"first_attempt", out.FirstAttempt,
		)
	case recovery.OutcomeFailed:
		code := awsinfra.ErrorCode(out.Err)
		h.metrics.MessageFailures.WithLabelValues(string(out.FailureType), code).Inc()
		log.Error("Message failed, returning for redelivery",
			"failure_type", out.FailureType,
			"error_code", code,
			"error", out.Err,
		)
	}
}

// DecodeRecord parses the EventBridge envelope of a queue record.
func DecodeRecord(record events.SQSMessage) (domain.FailureEvent, error) {
	var body messageBody
	if err := json.Unmarshal([]byte(record.Body), &body); err != nil {
		return domain.FailureEvent{}, fmt.Errorf("failed to decode message body: %w", err)
	}
	return domain.FailureEvent{
		MessageID:      record.MessageId,
		SnapshotID:     body.Detail.SnapshotID,
		SourceVolumeID: body.Detail.Source,
		Region:         body.Region,
		Result:         body.Detail.Result,
	}, nil
}

func orUnknown(s string) string {
	if s == "" {
		return domain.UnknownField
	}
	return s
}
