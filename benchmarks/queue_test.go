package benchmarks

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/randalmurphal/trackq/pkg/trackq"
	"github.com/randalmurphal/trackq/pkg/trackq/event"
	"github.com/randalmurphal/trackq/pkg/trackq/identity"
	"github.com/randalmurphal/trackq/pkg/trackq/queue"
	"github.com/randalmurphal/trackq/pkg/trackq/store"
)

// makeEvents builds n events resembling real page views.
func makeEvents(n int) []event.Event {
	now := time.Now()
	value := 1.5
	events := make([]event.Event, n)
	for i := range events {
		events[i] = event.New(event.Params{
			SiteID:     "7",
			Visitor:    event.Visitor{ID: "0123456789abcdef", UserID: "someone@example.com"},
			Session:    event.Session{SessionsCount: 3, LastVisit: now, FirstVisit: now},
			Date:       now,
			URL:        fmt.Sprintf("https://example.com/app/screen/%d", i),
			ActionName: []string{"screen", fmt.Sprint(i)},
			Language:   "en-US,en;q=0.9",
			EventValue: &value,
			Dimensions: []event.CustomDimension{{Index: 1, Value: "free"}, {Index: 2, Value: "beta"}},
		})
	}
	return events
}

// BenchmarkMemoryQueue_Enqueue measures appending single events in memory.
func BenchmarkMemoryQueue_Enqueue(b *testing.B) {
	q := queue.NewMemoryQueue()
	events := makeEvents(1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = q.Enqueue(events)
	}
}

// BenchmarkDurableQueue_Enqueue measures the full read-modify-write cycle
// against a queue that already holds 100 events.
func BenchmarkDurableQueue_Enqueue(b *testing.B) {
	for _, backend := range []string{"memory", "sqlite"} {
		b.Run(backend, func(b *testing.B) {
			var s store.Store = store.NewMemoryStore()
			if backend == "sqlite" {
				s = createSQLiteStore(b)
			}
			q := queue.NewDurableQueue(s)
			_ = q.Enqueue(makeEvents(100))
			one := makeEvents(1)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = q.Enqueue(one)
				b.StopTimer()
				_ = q.Remove(one)
				b.StartTimer()
			}
		})
	}
}

// BenchmarkDurableQueue_First measures peeking at a batch.
func BenchmarkDurableQueue_First(b *testing.B) {
	q := queue.NewDurableQueue(store.NewMemoryStore())
	_ = q.Enqueue(makeEvents(100))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = q.First(20)
	}
}

// BenchmarkDispatch measures draining 100 events in batches of 20.
func BenchmarkDispatch(b *testing.B) {
	s := store.NewMemoryStore()
	q := queue.NewDurableQueue(s)
	t, err := trackq.New("7", q, identity.NewDefaults(s), trackq.WithDevice(trackq.StaticDevice{Language: "en"}))
	if err != nil {
		b.Fatal(err)
	}
	sender := trackq.SenderFunc(func(context.Context, []event.Event) error { return nil })
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		_ = q.Enqueue(makeEvents(100))
		b.StartTimer()

		_, _ = t.Dispatch(ctx, sender)
	}
}
