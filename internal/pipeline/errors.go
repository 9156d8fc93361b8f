package pipeline

import (
	"errors"
	"fmt"
)

// ErrNotFound marks an unknown work item id. Transport layers map it to
// a 404-style failure.
var ErrNotFound = errors.New("work item not found")

// ErrMissingSchedule marks a scoring call without a scheduled
// timestamp. This is an integration error, not a user error.
var ErrMissingSchedule = errors.New("scheduled timestamp missing from pipeline context")

// ValidationError reports a missing intake field.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// FormatError reports an unparseable intake date or time.
type FormatError struct {
	Cause error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid scheduled date/time: %v", e.Cause)
}

func (e *FormatError) Unwrap() error { return e.Cause }
