package interactions

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod/lib/proto"
)

var (
	// ErrMoveTargetOutOfBounds is matched by errors from pointer moves whose
	// target lies outside the area the page can scroll to.
	ErrMoveTargetOutOfBounds = errors.New("move target out of bounds")

	// ErrTimeout is matched by errors from waits whose deadline passed.
	ErrTimeout = errors.New("wait timed out")

	// ErrNoSuchFrame is returned when a frame index has no matching frame.
	ErrNoSuchFrame = errors.New("no such frame")

	// ErrNoElement is returned when an element has no rendered box.
	ErrNoElement = errors.New("element has no box")
)

// MoveTargetOutOfBoundsError describes a rejected pointer move.
type MoveTargetOutOfBoundsError struct {
	Target proto.Point // requested pointer position, viewport coordinates
	Bounds Rect        // reachable area at the time of the move
}

func (e *MoveTargetOutOfBoundsError) Error() string {
	return fmt.Sprintf("move target (%g, %g) is out of bounds of %v", e.Target.X, e.Target.Y, e.Bounds)
}

// Is reports ErrMoveTargetOutOfBounds as a match.
func (e *MoveTargetOutOfBoundsError) Is(target error) bool {
	return target == ErrMoveTargetOutOfBounds
}

// TimeoutError is returned by Wait.Until when the condition never held.
type TimeoutError struct {
	Timeout time.Duration
	Last    error // last error returned by the condition, if any
}

func (e *TimeoutError) Error() string {
	if e.Last != nil {
		return fmt.Sprintf("timed out after %v: %v", e.Timeout, e.Last)
	}
	return fmt.Sprintf("timed out after %v", e.Timeout)
}

// Is reports ErrTimeout as a match.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

func (e *TimeoutError) Unwrap() error {
	return e.Last
}
