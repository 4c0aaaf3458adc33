package queue

import (
	"context"
	"errors"
	"log/slog"

	"github.com/randalmurphal/trackq/pkg/trackq/event"
	"github.com/randalmurphal/trackq/pkg/trackq/observability"
	"github.com/randalmurphal/trackq/pkg/trackq/store"
)

// DurableQueue keeps the queue as one encoded blob under a single store key.
//
// Every call reads and decodes the whole blob; mutating calls re-encode and
// write it back. A blob that cannot be decoded is discarded and the queue
// starts over empty. A failed write leaves the stored blob untouched and is
// reported as an *Error wrapping ErrPersist.
//
// Only one DurableQueue should own a given store key.
type DurableQueue struct {
	guard   guard
	store   store.Store
	key     string
	logger  *slog.Logger
	metrics observability.MetricsRecorder
}

// Compile-time interface check.
var _ Queue = (*DurableQueue)(nil)

// NewDurableQueue creates a queue persisted in s.
func NewDurableQueue(s store.Store, opts ...Option) *DurableQueue {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &DurableQueue{
		guard:   guard{strict: o.strict},
		store:   s,
		key:     o.key,
		logger:  o.logger,
		metrics: o.metrics,
	}
}

// Key returns the store key owned by the queue.
func (q *DurableQueue) Key() string {
	return q.key
}

// Enqueue implements Queue.
func (q *DurableQueue) Enqueue(events []event.Event) error {
	defer q.guard.enter("enqueue")()

	if len(events) == 0 {
		return nil
	}

	stored, err := q.load()
	if err != nil {
		return err
	}

	updated := append(stored, event.CloneAll(events)...)
	if err := q.save(updated); err != nil {
		return err
	}

	q.metrics.RecordEnqueue(context.Background(), q.key, len(events))
	observability.LogEnqueue(q.logger, q.key, len(events), len(updated))
	return nil
}

// First implements Queue.
func (q *DurableQueue) First(limit int) ([]event.Event, error) {
	defer q.guard.enter("first")()

	if limit <= 0 {
		return []event.Event{}, nil
	}

	stored, err := q.load()
	if err != nil {
		return []event.Event{}, err
	}
	return head(stored, limit), nil
}

// Remove implements Queue.
func (q *DurableQueue) Remove(events []event.Event) error {
	defer q.guard.enter("remove")()

	if len(events) == 0 {
		return nil
	}

	stored, err := q.load()
	if err != nil {
		return err
	}

	kept, removed := without(stored, events)
	if removed == 0 {
		return nil
	}
	if err := q.save(kept); err != nil {
		return err
	}

	q.metrics.RecordRemove(context.Background(), q.key, removed)
	observability.LogRemove(q.logger, q.key, removed, len(kept))
	return nil
}

// Count implements Queue.
func (q *DurableQueue) Count() (int, error) {
	defer q.guard.enter("count")()

	stored, err := q.load()
	if err != nil {
		return 0, err
	}
	return len(stored), nil
}

// Reset discards every queued event.
func (q *DurableQueue) Reset() error {
	defer q.guard.enter("reset")()

	if err := q.store.Set(q.key, nil); err != nil {
		return q.fail("clear", err)
	}
	q.metrics.RecordReset(context.Background(), q.key, "explicit")
	return nil
}

// load reads and decodes the stored queue. An absent key is an empty
// queue; an undecodable blob is cleared and also reads as empty. Records
// stored without an identity are given one and the blob is rewritten.
func (q *DurableQueue) load() ([]event.Event, error) {
	data, err := q.store.Get(q.key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, q.fail("get", err)
	}

	events, minted, err := event.DecodeBatch(data)
	if err != nil {
		observability.LogQueueReset(q.logger, q.key, err)
		q.metrics.RecordReset(context.Background(), q.key, "corrupt")
		if clearErr := q.store.Set(q.key, nil); clearErr != nil {
			observability.LogStoreError(q.logger, q.key, "clear", clearErr)
			q.metrics.RecordStoreError(context.Background(), q.key, "clear")
		}
		return nil, nil
	}

	// Minted identities must be persisted or they change on every read.
	if minted > 0 {
		observability.LogQueueRepaired(q.logger, q.key, minted)
		if err := q.save(events); err != nil {
			return nil, err
		}
	}
	return events, nil
}

// save encodes and writes events. On failure the store is unchanged.
func (q *DurableQueue) save(events []event.Event) error {
	data, err := event.MarshalBatch(events)
	if err != nil {
		return q.fail("encode", err)
	}
	if err := q.store.Set(q.key, data); err != nil {
		return q.fail("set", err)
	}
	q.metrics.RecordBlobSize(context.Background(), q.key, int64(len(data)))
	return nil
}

// fail logs and records a store failure and wraps it for the caller.
func (q *DurableQueue) fail(op string, err error) error {
	observability.LogStoreError(q.logger, q.key, op, err)
	q.metrics.RecordStoreError(context.Background(), q.key, op)
	return &Error{Op: op, Key: q.key, Err: err}
}
