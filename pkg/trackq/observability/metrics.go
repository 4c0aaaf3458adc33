package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records queue and dispatch metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordEnqueue records events appended to a queue.
	RecordEnqueue(ctx context.Context, queueKey string, count int)

	// RecordRemove records events removed from a queue.
	RecordRemove(ctx context.Context, queueKey string, count int)

	// RecordReset records a queue being cleared. Reason is "corrupt" or "explicit".
	RecordReset(ctx context.Context, queueKey string, reason string)

	// RecordStoreError records a failed store operation ("get", "set", "encode").
	RecordStoreError(ctx context.Context, queueKey string, op string)

	// RecordBlobSize records the size of a persisted queue blob.
	RecordBlobSize(ctx context.Context, queueKey string, sizeBytes int64)

	// RecordDispatch records a flush cycle.
	RecordDispatch(ctx context.Context, sent int, duration time.Duration, err error)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	enqueued        metric.Int64Counter
	removed         metric.Int64Counter
	resets          metric.Int64Counter
	storeErrors     metric.Int64Counter
	blobSize        metric.Int64Histogram
	dispatchSent    metric.Int64Counter
	dispatchLatency metric.Float64Histogram
	dispatchErrors  metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("trackq")

	enqueued, err := meter.Int64Counter("trackq.queue.enqueued",
		metric.WithDescription("Number of events appended to the queue"),
	)
	if err != nil {
		return nil, err
	}

	removed, err := meter.Int64Counter("trackq.queue.removed",
		metric.WithDescription("Number of events removed from the queue"),
	)
	if err != nil {
		return nil, err
	}

	resets, err := meter.Int64Counter("trackq.queue.resets",
		metric.WithDescription("Number of times a stored queue was cleared"),
	)
	if err != nil {
		return nil, err
	}

	storeErrors, err := meter.Int64Counter("trackq.store.errors",
		metric.WithDescription("Number of failed store operations"),
	)
	if err != nil {
		return nil, err
	}

	blobSize, err := meter.Int64Histogram("trackq.queue.blob_size_bytes",
		metric.WithDescription("Size of the persisted queue blob in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	dispatchSent, err := meter.Int64Counter("trackq.dispatch.sent",
		metric.WithDescription("Number of events confirmed sent by the dispatcher"),
	)
	if err != nil {
		return nil, err
	}

	dispatchLatency, err := meter.Float64Histogram("trackq.dispatch.latency_ms",
		metric.WithDescription("Flush cycle latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	dispatchErrors, err := meter.Int64Counter("trackq.dispatch.errors",
		metric.WithDescription("Number of flush cycles that stopped on an error"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		enqueued:        enqueued,
		removed:         removed,
		resets:          resets,
		storeErrors:     storeErrors,
		blobSize:        blobSize,
		dispatchSent:    dispatchSent,
		dispatchLatency: dispatchLatency,
		dispatchErrors:  dispatchErrors,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

func queueAttrs(queueKey string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("queue_key", queueKey))
}

// RecordEnqueue records events appended to a queue.
func (m *otelMetrics) RecordEnqueue(ctx context.Context, queueKey string, count int) {
	m.enqueued.Add(ctx, int64(count), queueAttrs(queueKey))
}

// RecordRemove records events removed from a queue.
func (m *otelMetrics) RecordRemove(ctx context.Context, queueKey string, count int) {
	m.removed.Add(ctx, int64(count), queueAttrs(queueKey))
}

// RecordReset records a queue being cleared.
func (m *otelMetrics) RecordReset(ctx context.Context, queueKey string, reason string) {
	m.resets.Add(ctx, 1, metric.WithAttributes(
		attribute.String("queue_key", queueKey),
		attribute.String("reason", reason),
	))
}

// RecordStoreError records a failed store operation.
func (m *otelMetrics) RecordStoreError(ctx context.Context, queueKey string, op string) {
	m.storeErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("queue_key", queueKey),
		attribute.String("operation", op),
	))
}

// RecordBlobSize records the size of a persisted queue blob.
func (m *otelMetrics) RecordBlobSize(ctx context.Context, queueKey string, sizeBytes int64) {
	m.blobSize.Record(ctx, sizeBytes, queueAttrs(queueKey))
}

// RecordDispatch records a flush cycle.
func (m *otelMetrics) RecordDispatch(ctx context.Context, sent int, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.Bool("success", err == nil))
	m.dispatchSent.Add(ctx, int64(sent), attrs)
	m.dispatchLatency.Record(ctx, float64(duration.Milliseconds()), attrs)
	if err != nil {
		m.dispatchErrors.Add(ctx, 1)
	}
}
