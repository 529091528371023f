package errors

import (
	"errors"
	"fmt"
)

// Custom error types for the TextTide application

// ErrSnippetNotFound is returned when no live snippet matches the given id
var ErrSnippetNotFound = errors.New("snippet not found")

// ErrEmptyText is returned when a snippet's text is empty after trimming
var ErrEmptyText = errors.New("snippet text must not be empty")

// ErrNotAuthorized is returned when the visitor fails the edit rule
// (not the creator and the snippet is not marked editable)
var ErrNotAuthorized = errors.New("snippet is not editable by this visitor")

// ErrInvalidAction is returned when a PATCH request carries an unknown action
var ErrInvalidAction = errors.New("unsupported action")

// ErrStoreFailed is returned when the persistence adapter cannot complete
// a load or save of the snapshot
type ErrStoreFailed struct {
	Op  string
	Err error
}

func (e ErrStoreFailed) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e ErrStoreFailed) Unwrap() error {
	return e.Err
}
