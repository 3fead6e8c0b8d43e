package engine

import (
	"errors"
	"fmt"
)

var (
	ErrNotInPlay         = errors.New("game is not in play")
	ErrNothingToUndo     = errors.New("nothing to undo")
	ErrNothingToRedo     = errors.New("nothing to redo")
	ErrMalformedSnapshot = errors.New("malformed snapshot")
)

// SnapshotError names the part of a snapshot that could not be restored.
type SnapshotError struct {
	Field string
	Err   error
}

func (e *SnapshotError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrMalformedSnapshot, e.Field, e.Err)
}

func (e *SnapshotError) Unwrap() []error {
	return []error{ErrMalformedSnapshot, e.Err}
}

func snapshotErrorf(field, format string, args ...any) error {
	return &SnapshotError{Field: field, Err: fmt.Errorf(format, args...)}
}
