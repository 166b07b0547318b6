package recovery

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vietddude/snapshot-recovery/internal/core/domain"
)

// CounterKey is the tag key holding the remaining retry budget of a lineage.
const CounterKey = "SnapshotRecoveryCounter"

// DefaultInitialRetries seeds the counter on the first recovery attempt.
const DefaultInitialRetries = 5

// reservedTagPrefix marks provider-owned keys that cannot be set on create.
const reservedTagPrefix = "aws:"

var (
	ErrMalformedID      = errors.New("malformed resource identifier")
	ErrCounterMissing   = errors.New("recovery counter tag missing")
	ErrCounterInvalid   = errors.New("recovery counter tag is not a non-negative integer")
	ErrCounterDuplicate = errors.New("recovery counter tag is ambiguous")
)

// ParseID strips the namespace from a "<namespace>/<id>" identifier and
// returns the second path segment.
func ParseID(encoded string) (string, error) {
	parts := strings.Split(encoded, "/")
	if len(parts) < 2 || parts[1] == "" {
		return "", fmt.Errorf("%w: %q", ErrMalformedID, encoded)
	}
	return parts[1], nil
}

// Plan is the tag transition computed for one failure of a lineage.
type Plan struct {
	// Tags is the full tag set to attach to the replacement snapshot.
	Tags domain.TagSet
	// Counter is the counter value carried by Tags, or the observed value
	// when Exhausted.
	Counter int
	// First is set when the lineage had never been recovered.
	First bool
	// StaleCounters is the number of counter tags replaced on a first
	// attempt, left behind by an earlier recovery marker.
	StaleCounters int
	// Exhausted is set when the counter was observed at zero. Tags is nil.
	Exhausted bool
}

// NextTags applies the retry-counter state machine to the tags of a failed
// snapshot. The input is never mutated.
//
// Without the recovery marker the counter is seeded at initial and the marker
// appended; counters left by a previous marker value are dropped first so at
// most one counter remains. With it, the counter is decremented, or the lineage is reported
// exhausted when the counter already reads zero.
func NextTags(tags domain.TagSet, marker domain.Tag, initial int) (Plan, error) {
	counters := tags.Lookup(CounterKey)

	if !tags.Contains(marker) {
		next := make(domain.TagSet, 0, len(tags)+2)
		for _, t := range tags {
			if t.Key != CounterKey {
				next = append(next, t)
			}
		}
		next = append(next,
			domain.Tag{Key: CounterKey, Value: strconv.Itoa(initial)},
			marker,
		)
		return Plan{Tags: next, Counter: initial, First: true, StaleCounters: len(counters)}, nil
	}

	switch len(counters) {
	case 0:
		return Plan{}, ErrCounterMissing
	case 1:
	default:
		return Plan{}, fmt.Errorf("%w: %d counter tags", ErrCounterDuplicate, len(counters))
	}

	n, err := strconv.Atoi(counters[0])
	if err != nil || n < 0 {
		return Plan{}, fmt.Errorf("%w: %q", ErrCounterInvalid, counters[0])
	}
	if n == 0 {
		return Plan{Counter: 0, Exhausted: true}, nil
	}

	next := tags.Clone()
	next.Set(CounterKey, strconv.Itoa(n-1))
	return Plan{Tags: next, Counter: n - 1}, nil
}

// CreatableTags drops provider-reserved keys, which the create call rejects.
func CreatableTags(tags domain.TagSet) (domain.TagSet, []string) {
	var dropped []string
	out := make(domain.TagSet, 0, len(tags))
	for _, t := range tags {
		if strings.HasPrefix(t.Key, reservedTagPrefix) {
			dropped = append(dropped, t.Key)
			continue
		}
		out = append(out, t)
	}
	return out, dropped
}
