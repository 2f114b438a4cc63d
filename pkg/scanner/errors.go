package scanner

import (
	"errors"
	"fmt"
)

// Sentinel errors for state restoration. Both are fatal for the parse
// session that hit them.
var (
	// ErrStateVersion means the buffer was written by an incompatible schema.
	ErrStateVersion = errors.New("scanner state version mismatch")

	// ErrStateCorrupt means the buffer could not be decoded or violates
	// the state invariants.
	ErrStateCorrupt = errors.New("scanner state corrupt")

	// ErrTooDeep means a context was entered beyond MaxDepth.
	ErrTooDeep = errors.New("scanner nesting too deep")
)

// StateError describes a rejected state buffer.
type StateError struct {
	Err    error
	Detail string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Detail)
}

func (e *StateError) Unwrap() error {
	return e.Err
}
