package gesture

import (
	"errors"
	"fmt"
)

var (
	// ErrInputUnavailable means the gesture input cannot be used: camera or
	// feed missing, permission denied, or the classifier failed to load.
	ErrInputUnavailable = errors.New("gesture: input unavailable")

	// ErrClosed is returned by a source after Close.
	ErrClosed = errors.New("gesture: source closed")
)

// SourceError attributes a terminal failure to a source. It matches
// ErrInputUnavailable as well as the underlying cause.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("gesture: source %s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() []error {
	return []error{ErrInputUnavailable, e.Err}
}
