package trackq

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/trackq/pkg/trackq/event"
	"github.com/randalmurphal/trackq/pkg/trackq/observability"
)

// Sender delivers a batch of events to the analytics server.
//
// A nil error means the server accepted every event in the batch; they are
// then removed from the queue. On error the whole batch stays queued and is
// offered again on the next Dispatch. Servers deduplicate by event uuid.
type Sender interface {
	Send(ctx context.Context, events []event.Event) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, events []event.Event) error

// Send implements Sender.
func (f SenderFunc) Send(ctx context.Context, events []event.Event) error {
	return f(ctx, events)
}

// Dispatch drains the queue through s in batches of the configured size.
// Each batch is removed only after s accepted it. Dispatch stops at the
// first failure and returns the number of events delivered so far; the
// error is a *DispatchError.
//
// Only one Dispatch runs at a time per tracker; concurrent calls wait.
// There is no retry: call Dispatch again later.
func (t *Tracker) Dispatch(ctx context.Context, s Sender) (int, error) {
	if s == nil {
		return 0, ErrNilSender
	}

	t.dispatchMu.Lock()
	defer t.dispatchMu.Unlock()

	done := observability.TimedOperation()
	ctx, span := t.spans.StartDispatchSpan(ctx, t.siteID)

	sent, err := t.drain(ctx, s)

	t.spans.EndSpanWithError(span, err)
	durationMs := done()
	t.metrics.RecordDispatch(ctx, sent, time.Duration(durationMs*float64(time.Millisecond)), err)
	if err != nil {
		observability.LogDispatchError(t.logger, t.siteID, sent, err)
	} else {
		observability.LogDispatchComplete(t.logger, t.siteID, sent, durationMs)
	}
	return sent, err
}

func (t *Tracker) drain(ctx context.Context, s Sender) (int, error) {
	sent := 0
	for {
		if err := ctx.Err(); err != nil {
			return sent, &DispatchError{Op: "cancel", Sent: sent, Err: err}
		}

		batch, err := t.queue.First(t.batchSize)
		if err != nil {
			return sent, &DispatchError{Op: "peek", Sent: sent, Err: err}
		}
		if len(batch) == 0 {
			return sent, nil
		}

		if err := t.send(ctx, s, batch); err != nil {
			return sent, &DispatchError{Op: "send", Sent: sent, Err: err}
		}
		sent += len(batch)

		if err := t.queue.Remove(batch); err != nil {
			return sent, &DispatchError{Op: "remove", Sent: sent, Err: err}
		}
		t.spans.AddSpanEvent(ctx, "batch_sent", attribute.Int("batch_size", len(batch)))

		// A short batch means the queue was drained.
		if len(batch) < t.batchSize {
			return sent, nil
		}
	}
}

func (t *Tracker) send(ctx context.Context, s Sender, batch []event.Event) error {
	ctx, span := t.spans.StartSendSpan(ctx, len(batch))
	err := s.Send(ctx, batch)
	t.spans.EndSpanWithError(span, err)
	return err
}
