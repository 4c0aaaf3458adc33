// Package queue buffers tracked events until a dispatcher confirms they
// were sent.
//
// Two interchangeable backends implement Queue: MemoryQueue keeps events in
// process memory, and DurableQueue round-trips the whole queue through a
// store.Store on every call so its contents survive a restart.
//
// Order is FIFO by enqueue call, not by event date. Removal is by event
// identity: unknown identities are ignored and removing twice is a no-op.
//
// Every operation on one queue instance runs inside a single critical
// section. WithStrictOwnership turns overlapping calls into a panic for
// hosts that require all queue access from one owner goroutine.
package queue

import (
	"log/slog"

	"github.com/randalmurphal/trackq/pkg/trackq/event"
	"github.com/randalmurphal/trackq/pkg/trackq/observability"
)

// Queue is the capability contract shared by all backends.
type Queue interface {
	// Enqueue appends events to the tail, preserving input order.
	// Either the whole batch is appended or none of it is.
	Enqueue(events []event.Event) error

	// First returns up to limit events from the head without removing them.
	// A limit of zero or less returns an empty slice.
	First(limit int) ([]event.Event, error)

	// Remove drops every queued event whose identity matches one in events.
	Remove(events []event.Event) error

	// Count returns the number of queued events.
	Count() (int, error)
}

// DefaultKey is the store key owned by a DurableQueue unless WithKey is used.
const DefaultKey = "Events"

// options holds configuration shared by the queue backends.
type options struct {
	key     string
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	strict  bool
}

func defaultOptions() options {
	return options{
		key:     DefaultKey,
		metrics: observability.NoopMetrics{},
	}
}

// Option configures a queue.
type Option func(*options)

// WithKey sets the store key a DurableQueue reads and writes.
// Default: "Events"
func WithKey(key string) Option {
	return func(o *options) {
		if key != "" {
			o.key = key
		}
	}
}

// WithLogger sets the logger for queue diagnostics. A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithStrictOwnership makes a call that overlaps another in-flight call on
// the same queue panic instead of waiting for it.
func WithStrictOwnership() Option {
	return func(o *options) {
		o.strict = true
	}
}
