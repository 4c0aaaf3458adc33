package queue

import (
	"errors"
	"fmt"
)

// ErrPersist indicates a queue change could not be written to, or read
// from, its store. The queue keeps its previous contents.
var ErrPersist = errors.New("event queue not persisted")

// Error wraps a store failure with the queue operation that hit it.
type Error struct {
	// Op is the failing step ("get", "encode", "set", "clear").
	Op string
	// Key is the store key owned by the queue.
	Key string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("queue %s %q: %v", e.Op, e.Key, e.Err)
}

// Unwrap exposes both ErrPersist and the underlying error to errors.Is/As.
func (e *Error) Unwrap() []error {
	return []error{ErrPersist, e.Err}
}
