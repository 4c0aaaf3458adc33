package trackq_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/randalmurphal/trackq/pkg/trackq"
	"github.com/randalmurphal/trackq/pkg/trackq/event"
	"github.com/randalmurphal/trackq/pkg/trackq/identity"
	"github.com/randalmurphal/trackq/pkg/trackq/observability"
	"github.com/randalmurphal/trackq/pkg/trackq/queue"
	"github.com/randalmurphal/trackq/pkg/trackq/store"
)

var testDevice = trackq.StaticDevice{
	Screen:   event.Size{Width: 375, Height: 812},
	Language: "de-DE,de;q=0.9",
}

// fixedClock returns a time source that advances one second per call.
func fixedClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	now := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}
}

type harness struct {
	tracker  *trackq.Tracker
	queue    *queue.MemoryQueue
	store    *store.MemoryStore
	defaults *identity.Defaults
}

// newHarness builds a tracker over in-memory backends.
func newHarness(t *testing.T, opts ...trackq.Option) harness {
	t.Helper()

	s := store.NewMemoryStore()
	q := queue.NewMemoryQueue()
	clock := fixedClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	d := identity.NewDefaults(s, identity.WithClock(clock))

	base := []trackq.Option{trackq.WithDevice(testDevice), trackq.WithClock(clock)}
	tr, err := trackq.New("7", q, d, append(base, opts...)...)
	require.NoError(t, err)

	return harness{tracker: tr, queue: q, store: s, defaults: d}
}

// queueEvents tracks n page views.
func queueEvents(t *testing.T, tr *trackq.Tracker, n int) {
	t.Helper()
	for range n {
		require.NoError(t, tr.TrackView("screen"))
	}
}

// stubQueue is a queue.Queue with injectable failures.
type stubQueue struct {
	queue.Queue

	enqueueErr error
	firstErr   error
	removeErr  error
}

func (q *stubQueue) Enqueue(events []event.Event) error {
	if q.enqueueErr != nil {
		return q.enqueueErr
	}
	return q.Queue.Enqueue(events)
}

func (q *stubQueue) First(limit int) ([]event.Event, error) {
	if q.firstErr != nil {
		return nil, q.firstErr
	}
	return q.Queue.First(limit)
}

func (q *stubQueue) Remove(events []event.Event) error {
	if q.removeErr != nil {
		return q.removeErr
	}
	return q.Queue.Remove(events)
}

var errOffline = errors.New("network unreachable")

// recordingSender collects delivered batches and fails on a chosen call.
type recordingSender struct {
	mu      sync.Mutex
	batches [][]event.Event
	failOn  int // 1-based call number; 0 never fails
	calls   int
}

func (s *recordingSender) Send(_ context.Context, events []event.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failOn != 0 && s.calls == s.failOn {
		return errOffline
	}
	s.batches = append(s.batches, events)
	return nil
}

func (s *recordingSender) sizes() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, len(s.batches))
	for i, b := range s.batches {
		out[i] = len(b)
	}
	return out
}

// testSpanManager records spans through an SDK tracer provider.
type testSpanManager struct {
	tracer trace.Tracer
}

func newTestSpanManager(t *testing.T) (*testSpanManager, *tracetest.InMemoryExporter) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
	})
	return &testSpanManager{tracer: tp.Tracer("trackq-test")}, exporter
}

var _ observability.SpanManager = (*testSpanManager)(nil)

func (m *testSpanManager) StartDispatchSpan(ctx context.Context, siteID string) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, "trackq.dispatch", trace.WithAttributes(attribute.String("site.id", siteID)))
}

func (m *testSpanManager) StartSendSpan(ctx context.Context, batchSize int) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, "trackq.send", trace.WithAttributes(attribute.Int("batch.size", batchSize)))
}

func (m *testSpanManager) EndSpanWithError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (m *testSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	trace.SpanFromContext(ctx).AddEvent(name, trace.WithAttributes(attrs...))
}

// barrierQueue holds every Enqueue until n callers are inside it.
type barrierQueue struct {
	queue.Queue
	arrived sync.WaitGroup
}

func newBarrierQueue(n int) *barrierQueue {
	q := &barrierQueue{Queue: queue.NewMemoryQueue()}
	q.arrived.Add(n)
	return q
}

func (q *barrierQueue) Enqueue(events []event.Event) error {
	q.arrived.Done()
	q.arrived.Wait()
	return q.Queue.Enqueue(events)
}
