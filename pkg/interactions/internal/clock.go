// Package internal provides internal utilities for the interactions package.
package internal

import "time"

// Clock is an interface for obtaining monotonic time and waiting on it.
// This abstraction allows for deterministic testing of polling code.
type Clock interface {
	// Now returns the current time. Implementations must return
	// monotonically increasing time values.
	Now() time.Time

	// After returns a channel that delivers the clock's time once d has
	// elapsed.
	After(d time.Duration) <-chan time.Time
}

// MonotonicClock is a Clock implementation that uses the system's monotonic clock.
type MonotonicClock struct{}

// Now returns the current system time with monotonic clock reading.
func (MonotonicClock) Now() time.Time {
	return time.Now()
}

// After waits on the system timer.
func (MonotonicClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// MockClock is a Clock implementation for testing that allows manual control
// of time progression. It is not safe for concurrent use.
//
// After advances the clock by the requested duration and fires immediately,
// so a poll loop driven by a MockClock runs without real sleeping.
type MockClock struct {
	current time.Time
	waited  []time.Duration
}

// NewMockClock creates a new MockClock initialized to the given time.
// If t is zero, it initializes to a reasonable default start time.
func NewMockClock(t time.Time) *MockClock {
	if t.IsZero() {
		t = time.Unix(1000000000, 0) // 2001-09-09
	}
	return &MockClock{current: t}
}

// Now returns the mock clock's current time.
func (m *MockClock) Now() time.Time {
	return m.current
}

// After advances the clock by d and returns an already-fired channel.
func (m *MockClock) After(d time.Duration) <-chan time.Time {
	m.Advance(d)
	m.waited = append(m.waited, d)
	ch := make(chan time.Time, 1)
	ch <- m.current
	return ch
}

// Waited returns every duration passed to After, in call order.
func (m *MockClock) Waited() []time.Duration {
	return m.waited
}

// Advance moves the clock forward by the given duration.
// Panics if d is negative to maintain monotonicity.
func (m *MockClock) Advance(d time.Duration) {
	if d < 0 {
		panic("MockClock.Advance: duration must be non-negative")
	}
	m.current = m.current.Add(d)
}
