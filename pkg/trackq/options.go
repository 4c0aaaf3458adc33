package trackq

import (
	"log/slog"
	"time"

	"github.com/randalmurphal/trackq/pkg/trackq/config"
	"github.com/randalmurphal/trackq/pkg/trackq/event"
	"github.com/randalmurphal/trackq/pkg/trackq/observability"
)

// DefaultBatchSize is the number of events handed to a Sender per call.
const DefaultBatchSize = 20

// trackerConfig holds configuration for a Tracker.
type trackerConfig struct {
	baseURL    string
	device     Device
	dimensions []event.CustomDimension
	logger     *slog.Logger
	metrics    observability.MetricsRecorder
	spans      observability.SpanManager
	batchSize  int
	now        func() time.Time
	resumed    bool
}

// defaultTrackerConfig returns the default tracker configuration.
func defaultTrackerConfig() trackerConfig {
	return trackerConfig{
		device:    DefaultDevice(),
		metrics:   observability.NoopMetrics{},
		spans:     observability.NoopSpanManager{},
		batchSize: DefaultBatchSize,
		now:       time.Now,
	}
}

// Option configures a Tracker.
type Option func(*trackerConfig)

// WithBaseURL sets the URL that action paths are appended to when an
// action has no explicit URL. Without it, such events carry no URL.
func WithBaseURL(rawURL string) Option {
	return func(c *trackerConfig) {
		c.baseURL = rawURL
	}
}

// WithDevice sets the source of screen size and accept-language.
// Default: DefaultDevice()
func WithDevice(d Device) Option {
	return func(c *trackerConfig) {
		if d != nil {
			c.device = d
		}
	}
}

// WithDimensions sets the dimensions attached to every event.
func WithDimensions(dims ...event.CustomDimension) Option {
	return func(c *trackerConfig) {
		c.dimensions = append(c.dimensions, dims...)
	}
}

// WithLogger sets the logger for tracker and dispatch diagnostics.
//
// Example:
//
//	t, err := trackq.New(siteID, q, defaults, trackq.WithLogger(slog.Default()))
func WithLogger(logger *slog.Logger) Option {
	return func(c *trackerConfig) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics recorder used by Dispatch.
// Default: observability.NoopMetrics{}
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(c *trackerConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithSpanManager sets the span manager used by Dispatch.
// Default: observability.NoopSpanManager{}
func WithSpanManager(s observability.SpanManager) Option {
	return func(c *trackerConfig) {
		if s != nil {
			c.spans = s
		}
	}
}

// WithBatchSize sets the maximum number of events per Send call.
// Default: 20
func WithBatchSize(n int) Option {
	return func(c *trackerConfig) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithClock sets the time source for event dates. Dispatch latency is
// always measured with the wall clock.
// Default: time.Now
func WithClock(now func() time.Time) Option {
	return func(c *trackerConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// WithResumedSession makes the tracker continue the visitor's current
// session: the first event is not flagged as a session start.
// Use for short-lived processes that track on behalf of a longer one.
func WithResumedSession() Option {
	return func(c *trackerConfig) {
		c.resumed = true
	}
}

// OptionsFromConfig maps a tracker config section onto options.
//
// Recognized keys:
//
//	base_url:   string
//	batch_size: int
//	dimensions: list of {index: int, value: string}
//
// Dimensions without a positive index are skipped.
func OptionsFromConfig(cfg config.Config) []Option {
	var opts []Option
	if base := cfg.String("base_url", ""); base != "" {
		opts = append(opts, WithBaseURL(base))
	}
	if n := cfg.Int("batch_size", 0); n > 0 {
		opts = append(opts, WithBatchSize(n))
	}

	var dims []event.CustomDimension
	for _, d := range cfg.List("dimensions") {
		index := d.Int("index", 0)
		if index <= 0 {
			continue
		}
		dims = append(dims, event.CustomDimension{Index: index, Value: d.String("value", "")})
	}
	if len(dims) > 0 {
		opts = append(opts, WithDimensions(dims...))
	}
	return opts
}
