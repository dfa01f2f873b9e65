package interactions

import (
	"context"
	"time"

	"github.com/thesyncim/dnd/pkg/interactions/internal"
)

const (
	// DefaultWaitTimeout bounds how long Wait.Until polls.
	DefaultWaitTimeout = 15 * time.Second

	// DefaultPollInterval is the pause between condition checks.
	DefaultPollInterval = 200 * time.Millisecond
)

// Condition is polled by Wait.Until. It returns true once the awaited state
// is observed. An error marks a transient failure; polling continues.
type Condition func(ctx context.Context) (bool, error)

// Wait polls a Condition until it holds or Timeout elapses.
// The zero value polls every DefaultPollInterval with no grace period
// beyond the first check.
type Wait struct {
	Timeout  time.Duration
	Interval time.Duration

	clock internal.Clock
}

// NewWait creates a Wait with the given timeout and poll interval.
func NewWait(timeout, interval time.Duration) *Wait {
	return &Wait{Timeout: timeout, Interval: interval}
}

// DefaultWait polls every 200ms for up to 15s.
func DefaultWait() *Wait {
	return NewWait(DefaultWaitTimeout, DefaultPollInterval)
}

// Until evaluates cond until it returns true, the deadline passes or ctx
// is cancelled. A missed deadline yields a *TimeoutError carrying the last
// condition error.
func (w *Wait) Until(ctx context.Context, cond Condition) error {
	clock := w.clock
	if clock == nil {
		clock = internal.MonotonicClock{}
	}
	interval := w.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	deadline := clock.Now().Add(w.Timeout)
	var last error
	for {
		ok, err := cond(ctx)
		if err == nil && ok {
			return nil
		}
		if err != nil {
			last = err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if !clock.Now().Before(deadline) {
			return &TimeoutError{Timeout: w.Timeout, Last: last}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-clock.After(interval):
		}
	}
}

// Sleep pauses for d. It returns ctx.Err() if ctx is cancelled first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
