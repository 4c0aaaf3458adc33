package trackq

import (
	"errors"
	"fmt"
)

// Sentinel errors for tracker construction.
var (
	// ErrSiteIDRequired indicates New was called with an empty site id.
	ErrSiteIDRequired = errors.New("site ID required")

	// ErrNilQueue indicates New was called without a queue.
	ErrNilQueue = errors.New("queue cannot be nil")

	// ErrNilDefaults indicates New was called without identity defaults.
	ErrNilDefaults = errors.New("identity defaults cannot be nil")

	// ErrNilSender indicates Dispatch was called without a sender.
	ErrNilSender = errors.New("sender cannot be nil")
)

// DispatchError reports where a flush cycle stopped.
type DispatchError struct {
	// Op is the step that failed ("cancel", "peek", "send", "remove").
	Op string
	// Sent is the number of events delivered before the failure.
	Sent int
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch %s after %d sent: %v", e.Op, e.Sent, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *DispatchError) Unwrap() error {
	return e.Err
}
