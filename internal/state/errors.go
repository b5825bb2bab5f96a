package state

import (
	"errors"
	"fmt"
)

// ErrUpdaterPanic is wrapped by the error returned when an updater panics.
var ErrUpdaterPanic = errors.New("updater panicked")

// UpdateError reports which step of an Update call failed.
//
// Steps before Step were committed; steps after it were not run.
type UpdateError struct {
	Store string
	Step  int // zero-based
	Total int
	Err   error
}

// Error implements the error interface.
func (e *UpdateError) Error() string {
	return fmt.Sprintf("%s: update step %d of %d failed: %v", e.Store, e.Step+1, e.Total, e.Err)
}

// Unwrap enables errors.Is and errors.As on the updater's own error.
func (e *UpdateError) Unwrap() error {
	return e.Err
}
