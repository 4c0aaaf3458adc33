// Package observability provides structured logging, metrics, and tracing
// for the tracker's event queue and dispatch cycle.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds tracker context to a logger.
// Returns a new logger with site_id and queue_key fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "1", "Events")
//	enriched.Info("flushing") // includes site_id, queue_key
func EnrichLogger(logger *slog.Logger, siteID, queueKey string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("site_id", siteID),
		slog.String("queue_key", queueKey),
	)
}

// LogEnqueue logs events appended to a queue.
func LogEnqueue(logger *slog.Logger, queueKey string, added, depth int) {
	if logger == nil {
		return
	}
	logger.Debug("events enqueued",
		slog.String("queue_key", queueKey),
		slog.Int("added", added),
		slog.Int("depth", depth),
	)
}

// LogRemove logs events removed from a queue.
func LogRemove(logger *slog.Logger, queueKey string, removed, remaining int) {
	if logger == nil {
		return
	}
	logger.Debug("events removed",
		slog.String("queue_key", queueKey),
		slog.Int("removed", removed),
		slog.Int("remaining", remaining),
	)
}

// LogQueueReset logs a stored queue being discarded because it could not be decoded.
func LogQueueReset(logger *slog.Logger, queueKey string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("stored event queue unreadable, discarding",
		slog.String("queue_key", queueKey),
		slog.String("error", err.Error()),
	)
}

// LogQueueRepaired logs stored events that had no identity and were given one.
func LogQueueRepaired(logger *slog.Logger, queueKey string, minted int) {
	if logger == nil {
		return
	}
	logger.Warn("stored events missing identity, assigned new ones",
		slog.String("queue_key", queueKey),
		slog.Int("minted", minted),
	)
}

// LogStoreError logs a failed store read or write. The queue keeps its
// previous contents.
func LogStoreError(logger *slog.Logger, queueKey string, op string, err error) {
	if logger == nil {
		return
	}
	logger.Error("event store operation failed",
		slog.String("queue_key", queueKey),
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

// LogDispatchComplete logs a finished flush cycle.
func LogDispatchComplete(logger *slog.Logger, siteID string, sent int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Info("dispatch completed",
		slog.String("site_id", siteID),
		slog.Int("sent", sent),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogDispatchError logs a flush cycle that stopped early. Unsent events stay queued.
func LogDispatchError(logger *slog.Logger, siteID string, sent int, err error) {
	if logger == nil {
		return
	}
	logger.Warn("dispatch stopped",
		slog.String("site_id", siteID),
		slog.Int("sent", sent),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
