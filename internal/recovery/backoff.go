package recovery

import (
	"context"
	"math/rand/v2"
	"time"
)

// Backoff decides how long to hold a recovery attempt before the create call.
type Backoff interface {
	// GetDelay returns the delay for the next create call.
	GetDelay() time.Duration
}

// UniformJitter spreads create calls uniformly over [Base, Base+Spread).
// Snapshot creation is rate limited per volume, and failures of one volume
// tend to arrive together.
type UniformJitter struct {
	Base   time.Duration
	Spread time.Duration

	// randN returns a value in [0, n). Defaults to math/rand/v2.
	randN func(n int64) int64
}

// DefaultJitter returns the 15s + [0,60s) window.
func DefaultJitter() *UniformJitter {
	return &UniformJitter{
		Base:   15 * time.Second,
		Spread: 60 * time.Second,
	}
}

// GetDelay samples a delay in [Base, Base+Spread).
func (j *UniformJitter) GetDelay() time.Duration {
	if j.Spread <= 0 {
		return j.Base
	}
	randN := j.randN
	if randN == nil {
		randN = rand.Int64N
	}
	return j.Base + time.Duration(randN(int64(j.Spread)))
}

// Sleep blocks for d or until ctx is done. It is the only suspension point of
// a recovery attempt.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
