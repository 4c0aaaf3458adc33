package queue

import (
	"github.com/randalmurphal/trackq/pkg/trackq/event"
)

// MemoryQueue is an in-process queue with no durability.
// Contents are lost when the process exits.
type MemoryQueue struct {
	guard  guard
	events []event.Event
}

// Compile-time interface check.
var _ Queue = (*MemoryQueue)(nil)

// NewMemoryQueue creates an empty in-memory queue.
// Only WithStrictOwnership has an effect.
func NewMemoryQueue(opts ...Option) *MemoryQueue {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &MemoryQueue{guard: guard{strict: o.strict}}
}

// Enqueue implements Queue.
func (q *MemoryQueue) Enqueue(events []event.Event) error {
	defer q.guard.enter("enqueue")()

	q.events = append(q.events, event.CloneAll(events)...)
	return nil
}

// First implements Queue.
func (q *MemoryQueue) First(limit int) ([]event.Event, error) {
	defer q.guard.enter("first")()

	return head(q.events, limit), nil
}

// Remove implements Queue.
func (q *MemoryQueue) Remove(events []event.Event) error {
	defer q.guard.enter("remove")()

	q.events, _ = without(q.events, events)
	return nil
}

// Count implements Queue.
func (q *MemoryQueue) Count() (int, error) {
	defer q.guard.enter("count")()

	return len(q.events), nil
}

// head returns deep copies of the first min(limit, len(events)) events.
func head(events []event.Event, limit int) []event.Event {
	if limit <= 0 {
		return []event.Event{}
	}
	n := min(limit, len(events))
	out := make([]event.Event, n)
	for i := range n {
		out[i] = events[i].Clone()
	}
	return out
}

// without filters out every event whose identity appears in remove.
// Returns the kept events and how many were dropped.
func without(events, remove []event.Event) ([]event.Event, int) {
	if len(remove) == 0 || len(events) == 0 {
		return events, 0
	}
	ids := event.IDSet(remove)
	kept := events[:0:0]
	for _, e := range events {
		if _, drop := ids[e.UUID]; !drop {
			kept = append(kept, e)
		}
	}
	return kept, len(events) - len(kept)
}
