package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation indicates malformed input (empty reply text, out-of-range rating,
	// unknown profile reference).
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates an unknown review or profile id.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState indicates a lifecycle transition attempted from a state that
	// forbids it.
	ErrInvalidState = errors.New("invalid state")
)

// ValidationError provides details about which input was malformed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
}

// Is allows errors.Is to work with ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError identifies the missing record.
type NotFoundError struct {
	Kind string // "review" or "profile"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// Is allows errors.Is to work with NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// InvalidStateError provides details about a rejected lifecycle transition.
type InvalidStateError struct {
	ReviewID string
	Status   string
	Event    string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s review %s: not allowed while status is '%s'", e.Event, e.ReviewID, e.Status)
}

// Is allows errors.Is to work with InvalidStateError.
func (e *InvalidStateError) Is(target error) bool {
	return target == ErrInvalidState
}
