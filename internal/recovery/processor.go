package recovery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vietddude/snapshot-recovery/internal/core/domain"
)

// SnapshotStore reads and creates snapshots on the cloud provider.
type SnapshotStore interface {
	// Tags returns the current tag set of the snapshot.
	Tags(ctx context.Context, snapshotID string) (domain.TagSet, error)

	// Create requests a new snapshot of the volume and returns its id.
	Create(ctx context.Context, volumeID, description string, tags domain.TagSet) (string, error)
}

// Notifier delivers the operator alert for exhausted lineages.
type Notifier interface {
	Publish(ctx context.Context, subject, message string) error
}

// SleepFunc blocks for the given duration or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Config holds the tag pairs and identity the processor works with.
type Config struct {
	SourceTag      domain.Tag
	RecoveryTag    domain.Tag
	InitialRetries int

	// FunctionName and FunctionRegion identify this deployment in alerts.
	FunctionName   string
	FunctionRegion string
}

// Processor runs the recovery state machine for one failure event at a time.
// It holds no state between events; the lineage lives in snapshot tags.
type Processor struct {
	cfg      Config
	store    SnapshotStore
	notifier Notifier
	backoff  Backoff
	sleep    SleepFunc
	log      *slog.Logger
}

// NewProcessor creates a new processor. A nil backoff uses DefaultJitter.
func NewProcessor(
	cfg Config,
	store SnapshotStore,
	notifier Notifier,
	backoff Backoff,
) *Processor {
	if cfg.InitialRetries <= 0 {
		cfg.InitialRetries = DefaultInitialRetries
	}
	if backoff == nil {
		backoff = DefaultJitter()
	}
	return &Processor{
		cfg:      cfg,
		store:    store,
		notifier: notifier,
		backoff:  backoff,
		sleep:    Sleep,
		log:      slog.Default().With("component", "recovery"),
	}
}

// Process handles one failure event. It never panics on bad input; every
// failure is reported through an OutcomeFailed outcome.
func (p *Processor) Process(ctx context.Context, ev domain.FailureEvent) Outcome {
	out := Outcome{
		MessageID:  ev.MessageID,
		SnapshotID: domain.UnknownField,
		VolumeID:   domain.UnknownField,
		Region:     orUnknown(ev.Region),
		Counter:    -1,
	}
	log := p.log.With("message_id", ev.MessageID, "region", out.Region)

	if ev.Result != "" && ev.Result != domain.EventResultFailed {
		log.Debug("Event is not a snapshot failure, skipping", "result", ev.Result)
		out.Kind = OutcomeOutOfScope
		return out
	}

	snapshotID, err := ParseID(ev.SnapshotID)
	if err != nil {
		return out.fail(domain.FailureTypeMalformed, fmt.Errorf("snapshot_id: %w", err))
	}
	out.SnapshotID = snapshotID
	log = log.With("snapshot_id", snapshotID)

	tags, err := p.store.Tags(ctx, snapshotID)
	if err != nil {
		return out.fail(domain.FailureTypeLookup, fmt.Errorf("failed to read snapshot tags: %w", err))
	}
	log.Debug("Fetched snapshot tags", "tags", tags)

	if !tags.Contains(p.cfg.SourceTag) {
		log.Info("Snapshot lacks source tag, out of scope",
			"source_tag", p.cfg.SourceTag.Key+"="+p.cfg.SourceTag.Value)
		out.Kind = OutcomeOutOfScope
		return out
	}

	volumeID, err := ParseID(ev.SourceVolumeID)
	if err != nil {
		return out.fail(domain.FailureTypeMalformed, fmt.Errorf("source: %w", err))
	}
	out.VolumeID = volumeID
	log = log.With("volume_id", volumeID)

	plan, err := NextTags(tags, p.cfg.RecoveryTag, p.cfg.InitialRetries)
	if err != nil {
		return out.fail(domain.FailureTypeCounter, err)
	}
	out.Counter = plan.Counter
	out.FirstAttempt = plan.First

	if plan.Exhausted {
		log.Warn("Max attempts reached, snapshot will not be retried")
		if err := p.alert(ctx, volumeID); err != nil {
			return out.fail(domain.FailureTypeAlert, err)
		}
		log.Info("Exhausted lineage alert published")
		out.Kind = OutcomeExhausted
		return out
	}

	if plan.First {
		if plan.StaleCounters > 0 {
			log.Warn("Replacing counter left without recovery marker", "stale_counters", plan.StaleCounters)
		}
		log.Info("First recovery attempt, seeding counter", "counter", plan.Counter)
	} else {
		log.Info("Recovery attempt failed again, counter decreased", "counter", plan.Counter)
	}

	createTags, dropped := CreatableTags(plan.Tags)
	if len(dropped) > 0 {
		log.Warn("Dropping reserved tags from replacement snapshot", "keys", dropped)
	}

	// Deliberate hold: snapshot creation is rate limited per volume.
	delay := p.backoff.GetDelay()
	out.Delay = delay
	log.Info("Waiting before snapshot creation", "delay", delay)
	if err := p.sleep(ctx, delay); err != nil {
		return out.fail(domain.FailureTypeBackoff, fmt.Errorf("backoff interrupted: %w", err))
	}

	newID, err := p.store.Create(ctx, volumeID, Description(volumeID), createTags)
	if err != nil {
		return out.fail(domain.FailureTypeCreate, fmt.Errorf("failed to create snapshot: %w", err))
	}
	out.NewSnapshotID = newID
	out.Kind = OutcomeRecoveryAttempted
	log.Info("Replacement snapshot requested", "new_snapshot_id", newID, "counter", plan.Counter)
	return out
}

func (p *Processor) alert(ctx context.Context, volumeID string) error {
	if p.notifier == nil {
		return fmt.Errorf("no alert notifier configured")
	}
	subject, message := AlertMessage(p.cfg.FunctionName, p.cfg.FunctionRegion, volumeID)
	if err := p.notifier.Publish(ctx, subject, message); err != nil {
		return fmt.Errorf("failed to publish alert: %w", err)
	}
	return nil
}

// Description is attached to every replacement snapshot.
func Description(volumeID string) string {
	return fmt.Sprintf("Snapshot for %s created by Lambda to overcome an EBS snapshot failed", volumeID)
}

// AlertMessage renders the exhausted-lineage notification.
func AlertMessage(functionName, region, volumeID string) (subject, message string) {
	subject = "EBS snapshot recovery exhausted"
	message = fmt.Sprintf(
		"Lambda Function %s(%s) was not able to make an EBS Snapshot for VolumeID %s\n Please check it.",
		orUnknown(functionName), orUnknown(region), volumeID,
	)
	return subject, message
}
