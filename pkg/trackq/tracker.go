package trackq

import (
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/randalmurphal/trackq/pkg/trackq/event"
	"github.com/randalmurphal/trackq/pkg/trackq/identity"
	"github.com/randalmurphal/trackq/pkg/trackq/observability"
	"github.com/randalmurphal/trackq/pkg/trackq/queue"
)

// Action describes one tracked user action.
// Only Path is needed for a page view; the Event* fields make it an event.
type Action struct {
	// Path is the hierarchical action name, e.g. ["menu", "settings"].
	Path []string

	// URL overrides the URL derived from the base URL and Path.
	URL string

	// Referer is used for campaign attribution.
	Referer string

	EventCategory string
	EventAction   string
	EventName     string
	EventValue    *float64

	// Dimensions are appended after the tracker's dimensions.
	Dimensions []event.CustomDimension

	// CustomParameters are sent as-is with the event.
	CustomParameters map[string]string
}

// Tracker builds events and buffers them in a queue.
// It is safe for concurrent use.
type Tracker struct {
	siteID   string
	queue    queue.Queue
	defaults *identity.Defaults
	baseURL  *url.URL
	device   Device
	logger   *slog.Logger
	metrics  observability.MetricsRecorder
	spans    observability.SpanManager

	batchSize int
	now       func() time.Time

	mu         sync.Mutex
	dimensions []event.CustomDimension
	newSession bool

	dispatchMu sync.Mutex
}

// New creates a tracker for siteID that buffers events in q and reads
// visitor and session state from defaults.
func New(siteID string, q queue.Queue, defaults *identity.Defaults, opts ...Option) (*Tracker, error) {
	if siteID == "" {
		return nil, ErrSiteIDRequired
	}
	if q == nil {
		return nil, ErrNilQueue
	}
	if defaults == nil {
		return nil, ErrNilDefaults
	}

	cfg := defaultTrackerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	var base *url.URL
	if cfg.baseURL != "" {
		u, err := url.Parse(cfg.baseURL)
		if err != nil {
			return nil, fmt.Errorf("parse base url: %w", err)
		}
		base = u
	}

	t := &Tracker{
		siteID:     siteID,
		queue:      q,
		defaults:   defaults,
		baseURL:    base,
		device:     cfg.device,
		metrics:    cfg.metrics,
		spans:      cfg.spans,
		batchSize:  cfg.batchSize,
		now:        cfg.now,
		dimensions: slices.Clone(cfg.dimensions),
		logger:     cfg.logger,
		newSession: !cfg.resumed,
	}
	return t, nil
}

// SiteID returns the site the tracker reports to.
func (t *Tracker) SiteID() string {
	return t.siteID
}

// NewEvent builds an event for a without queueing it.
// It does not consume the pending new-session flag.
func (t *Tracker) NewEvent(a Action) (event.Event, error) {
	t.mu.Lock()
	isNew := t.newSession
	t.mu.Unlock()
	return t.buildEvent(a, isNew)
}

func (t *Tracker) buildEvent(a Action, isNew bool) (event.Event, error) {
	visitor, err := t.defaults.Visitor()
	if err != nil {
		return event.Event{}, fmt.Errorf("read visitor: %w", err)
	}
	session, err := t.defaults.Session()
	if err != nil {
		return event.Event{}, fmt.Errorf("read session: %w", err)
	}

	t.mu.Lock()
	dims := make([]event.CustomDimension, 0, len(t.dimensions)+len(a.Dimensions))
	dims = append(dims, t.dimensions...)
	t.mu.Unlock()
	dims = append(dims, a.Dimensions...)

	rawURL := a.URL
	if rawURL == "" && t.baseURL != nil {
		rawURL = t.baseURL.JoinPath(strings.Join(a.Path, "/")).String()
	}

	return event.New(event.Params{
		SiteID:           t.siteID,
		Visitor:          visitor,
		Session:          session,
		Date:             t.now(),
		URL:              rawURL,
		ActionName:       a.Path,
		Language:         t.device.AcceptLanguage(),
		IsNewSession:     isNew,
		Referer:          a.Referer,
		ScreenResolution: t.device.ScreenSize(),
		EventCategory:    a.EventCategory,
		EventAction:      a.EventAction,
		EventName:        a.EventName,
		EventValue:       a.EventValue,
		Dimensions:       dims,
		CustomParameters: a.CustomParameters,
	}), nil
}

// Track builds an event for a and enqueues it.
// Only one event per session start carries IsNewSession, even when Track
// is called concurrently.
func (t *Tracker) Track(a Action) error {
	t.mu.Lock()
	isNew := t.newSession
	t.newSession = false
	t.mu.Unlock()

	e, err := t.buildEvent(a, isNew)
	if err == nil {
		err = t.queue.Enqueue([]event.Event{e})
		if err != nil {
			err = fmt.Errorf("enqueue event: %w", err)
		}
	}
	if err != nil && isNew {
		t.mu.Lock()
		t.newSession = true
		t.mu.Unlock()
	}
	return err
}

// TrackView tracks a screen view identified by its path segments.
func (t *Tracker) TrackView(path ...string) error {
	return t.Track(Action{Path: path})
}

// TrackEvent tracks a categorized event. A nil value is omitted.
func (t *Tracker) TrackEvent(category, action, name string, value *float64) error {
	return t.Track(Action{
		EventCategory: category,
		EventAction:   action,
		EventName:     name,
		EventValue:    value,
	})
}

// StartNewSession advances the persisted session counters and flags the
// next tracked event as the start of a session.
func (t *Tracker) StartNewSession() error {
	if err := t.defaults.StartSession(); err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	t.mu.Lock()
	t.newSession = true
	t.mu.Unlock()
	return nil
}

// SetUserID sets the optional user id carried by subsequent events.
// An empty id clears it.
func (t *Tracker) SetUserID(userID string) error {
	return t.defaults.SetUserID(userID)
}

// AddDimension appends a dimension sent with every subsequent event.
func (t *Tracker) AddDimension(d event.CustomDimension) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dimensions = append(t.dimensions, d)
}

// RemoveDimension removes every tracker dimension with the given index.
func (t *Tracker) RemoveDimension(index int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dimensions = slices.DeleteFunc(t.dimensions, func(d event.CustomDimension) bool {
		return d.Index == index
	})
}

// Dimensions returns a copy of the tracker's dimensions.
func (t *Tracker) Dimensions() []event.CustomDimension {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.dimensions)
}
