// Package event defines the tracked-action record that flows through the
// offline queue, together with the visitor and session snapshots it carries.
//
// Events are immutable once created. Queue backends hand out deep copies,
// so mutating a returned Event never changes what is queued.
package event

import (
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
)

// CustomDimension is one custom dimension value attached to an event.
// The index must match a dimension configured on the analytics server;
// it is not validated here.
type CustomDimension struct {
	Index int    `json:"index"`
	Value string `json:"value"`
}

// Visitor identifies the install that produced an event.
type Visitor struct {
	// ID is generated on first start and never changed after.
	ID string `json:"id"`

	// UserID is an optional caller-supplied identifier such as an email.
	UserID string `json:"user_id,omitempty"`
}

// Session is the visit continuity snapshot taken when an event is built.
type Session struct {
	SessionsCount int       `json:"sessions_count"`
	LastVisit     time.Time `json:"last_visit"`
	FirstVisit    time.Time `json:"first_visit"`
}

// Size is a screen resolution in points.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Event is one tracked action plus the visitor/session state at creation.
type Event struct {
	SiteID  string    `json:"site_id"`
	UUID    uuid.UUID `json:"uuid"`
	Visitor Visitor   `json:"visitor"`
	Session Session   `json:"session"`

	// Date is when the action happened.
	Date time.Time `json:"date"`

	// URL is the full URL for the action; empty when unset.
	URL        string   `json:"url,omitempty"`
	ActionName []string `json:"action_name,omitempty"`

	// Language is in Accept-Language header format.
	Language     string `json:"language"`
	IsNewSession bool   `json:"is_new_session"`

	// Referer is currently only used for campaigns; empty when unset.
	Referer          string `json:"referer,omitempty"`
	ScreenResolution Size   `json:"screen_resolution"`

	EventCategory string   `json:"event_category,omitempty"`
	EventAction   string   `json:"event_action,omitempty"`
	EventName     string   `json:"event_name,omitempty"`
	EventValue    *float64 `json:"event_value,omitempty"`

	Dimensions               []CustomDimension `json:"dimensions,omitempty"`
	CustomTrackingParameters map[string]string `json:"custom_tracking_parameters,omitempty"`
}

// Params holds the inputs for New.
type Params struct {
	SiteID           string
	Visitor          Visitor
	Session          Session
	Date             time.Time
	URL              string
	ActionName       []string
	Language         string
	IsNewSession     bool
	Referer          string
	ScreenResolution Size
	EventCategory    string
	EventAction      string
	EventName        string
	EventValue       *float64
	Dimensions       []CustomDimension
	CustomParameters map[string]string
}

// New creates an event with a fresh identity.
// A zero Params.Date is replaced by the current time.
// Slices and maps are copied so later changes to p do not leak in.
func New(p Params) Event {
	date := p.Date
	if date.IsZero() {
		date = time.Now()
	}

	e := Event{
		SiteID:                   p.SiteID,
		UUID:                     uuid.New(),
		Visitor:                  p.Visitor,
		Session:                  p.Session,
		Date:                     date.UTC(),
		URL:                      p.URL,
		ActionName:               slices.Clone(p.ActionName),
		Language:                 p.Language,
		IsNewSession:             p.IsNewSession,
		Referer:                  p.Referer,
		ScreenResolution:         p.ScreenResolution,
		EventCategory:            p.EventCategory,
		EventAction:              p.EventAction,
		EventName:                p.EventName,
		Dimensions:               slices.Clone(p.Dimensions),
		CustomTrackingParameters: maps.Clone(p.CustomParameters),
	}
	if p.EventValue != nil {
		v := *p.EventValue
		e.EventValue = &v
	}
	return e
}

// ID returns the identity token used to match the event across
// enqueue, peek and remove.
func (e Event) ID() string {
	return e.UUID.String()
}

// Clone returns a deep copy of the event.
func (e Event) Clone() Event {
	c := e
	c.ActionName = slices.Clone(e.ActionName)
	c.Dimensions = slices.Clone(e.Dimensions)
	c.CustomTrackingParameters = maps.Clone(e.CustomTrackingParameters)
	if e.EventValue != nil {
		v := *e.EventValue
		c.EventValue = &v
	}
	return c
}

// CloneAll deep-copies a slice of events.
func CloneAll(events []Event) []Event {
	if events == nil {
		return nil
	}
	out := make([]Event, len(events))
	for i, e := range events {
		out[i] = e.Clone()
	}
	return out
}

// IDSet returns the identities of events as a set.
func IDSet(events []Event) map[uuid.UUID]struct{} {
	ids := make(map[uuid.UUID]struct{}, len(events))
	for _, e := range events {
		ids[e.UUID] = struct{}{}
	}
	return ids
}
