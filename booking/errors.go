package booking

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRange means a time range could not be built: bad HH:MM format
	// or start >= end.
	ErrInvalidRange = errors.New("invalid time range")

	// ErrInvalidRequest covers malformed booking input: bad date, non-positive
	// party size, party size over area capacity, missing rejection note.
	ErrInvalidRequest = errors.New("invalid booking request")

	// ErrAreaUnavailable means the common area is not ACTIVO.
	ErrAreaUnavailable = errors.New("common area is not available for reservations")

	// ErrStaleState means a concurrent transition won the race; the caller
	// should refetch and retry.
	ErrStaleState = errors.New("reservation was modified concurrently")

	// ErrNotYetOccurred guards complete: the reserved slot has not happened.
	ErrNotYetOccurred = errors.New("reservation date has not occurred yet")

	ErrNotFound     = errors.New("reservation not found")
	ErrAreaNotFound = errors.New("common area not found")
)

// SlotConflictError reports the occupied range that blocks a candidate booking.
type SlotConflictError struct {
	Conflict TimeRange
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("slot conflicts with an existing reservation from %s", e.Conflict)
}

// InvalidTransitionError reports an illegal lifecycle transition. The
// reservation is left untouched.
type InvalidTransitionError struct {
	From      string
	Attempted string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s a reservation in state %s", e.Attempted, e.From)
}
