package cli

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/reviewdesk/pkg/domain"
)

// CLIError wraps domain errors with user-facing messages and actionable hints.
type CLIError struct {
	Message  string
	Hint     string
	Err      error
	ExitCode int
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with a default exit code of 1.
func NewCLIError(msg, hint string, err error) *CLIError {
	return &CLIError{
		Message:  msg,
		Hint:     hint,
		Err:      err,
		ExitCode: 1,
	}
}

// MapError converts known domain errors into CLIErrors with actionable hints.
// Unmapped errors are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var stateErr *domain.InvalidStateError
	if errors.As(err, &stateErr) {
		return NewCLIError(
			stateErr.Error(),
			fmt.Sprintf("Review '%s' is '%s'; only pending reviews can be answered or ignored", stateErr.ReviewID, stateErr.Status),
			err,
		)
	}

	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		return NewCLIError(
			notFound.Error(),
			"Run 'reviewdesk reviews list' to see available ids",
			err,
		)
	}

	var valErr *domain.ValidationError
	if errors.As(err, &valErr) {
		return NewCLIError(
			valErr.Error(),
			"Fix the flagged field and retry",
			err,
		)
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return NewCLIError("not found", "Run 'reviewdesk reviews list' to see available ids", err)
	case errors.Is(err, domain.ErrValidation):
		return NewCLIError("invalid input", "Fix the flagged field and retry", err)
	case errors.Is(err, domain.ErrInvalidState):
		return NewCLIError("invalid state", "Only pending reviews can be answered or ignored", err)
	}

	return err
}
