package reel

import (
	"errors"
	"fmt"

	"github.com/san-kum/astarviz/internal/trace"
)

var (
	// ErrInvalidConfig indicates a render parameter outside its valid range.
	ErrInvalidConfig = errors.New("reel: invalid render config")

	// ErrNoLanes indicates that no algorithm has a trace to render.
	ErrNoLanes = errors.New("reel: no lanes to render")

	// ErrClockBackwards indicates a frame was requested for an earlier time
	// than the previous one.
	ErrClockBackwards = errors.New("reel: simulated clock cannot run backwards")

	ErrUnknownKind      = errors.New("reel: unknown event kind")
	ErrMissingPosition  = errors.New("reel: event has no position")
	ErrPositionOutside  = errors.New("reel: position outside the maze")
	ErrInvalidTimestamp = errors.New("reel: invalid timestamp")
)

// EventError identifies a malformed event by lane and by its index in the
// trace as it was supplied.
type EventError struct {
	Lane    trace.Algorithm
	Index   int
	Wrapped error
}

func (e *EventError) Error() string {
	return fmt.Sprintf("lane %s: event %d: %v", e.Lane, e.Index, e.Wrapped)
}

func (e *EventError) Unwrap() error {
	return e.Wrapped
}
