package event_test

import (
	"testing"
	"time"

	"github.com/randalmurphal/trackq/pkg/trackq/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureParams() event.Params {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	value := 4.5
	return event.Params{
		SiteID:  "site_1",
		Visitor: event.Visitor{ID: "fixture_visitor_id", UserID: "fixture_user_id"},
		Session: event.Session{SessionsCount: 3, LastVisit: now.Add(-time.Hour), FirstVisit: now.Add(-48 * time.Hour)},
		Date:    now,
		URL:     "http://fixture.example/home",
		ActionName: []string{
			"home",
		},
		Language:         "en-US",
		IsNewSession:     true,
		ScreenResolution: event.Size{Width: 390, Height: 844},
		EventCategory:    "video",
		EventAction:      "play",
		EventValue:       &value,
		Dimensions:       []event.CustomDimension{{Index: 1, Value: "a"}, {Index: 1, Value: "b"}},
		CustomParameters: map[string]string{"bw_bytes": "1024"},
	}
}

func TestNew_AssignsIdentity(t *testing.T) {
	a := event.New(fixtureParams())
	b := event.New(fixtureParams())

	assert.NotEqual(t, a.ID(), b.ID())
	assert.NotEmpty(t, a.ID())
	assert.Equal(t, a.UUID.String(), a.ID())
}

func TestNew_CopiesFields(t *testing.T) {
	p := fixtureParams()
	e := event.New(p)

	assert.Equal(t, "site_1", e.SiteID)
	assert.Equal(t, "fixture_visitor_id", e.Visitor.ID)
	assert.Equal(t, 3, e.Session.SessionsCount)
	assert.True(t, p.Date.Equal(e.Date))
	assert.Equal(t, []string{"home"}, e.ActionName)
	assert.Equal(t, "en-US", e.Language)
	assert.True(t, e.IsNewSession)
	assert.Equal(t, "video", e.EventCategory)
	assert.Empty(t, e.EventName)
	require.NotNil(t, e.EventValue)
	assert.Equal(t, 4.5, *e.EventValue)

	// Same-index dimensions are kept in order
	assert.Equal(t, []event.CustomDimension{{Index: 1, Value: "a"}, {Index: 1, Value: "b"}}, e.Dimensions)
}

func TestNew_DetachedFromParams(t *testing.T) {
	p := fixtureParams()
	e := event.New(p)

	p.ActionName[0] = "changed"
	p.Dimensions[0].Value = "changed"
	p.CustomParameters["bw_bytes"] = "changed"
	*p.EventValue = 99

	assert.Equal(t, "home", e.ActionName[0])
	assert.Equal(t, "a", e.Dimensions[0].Value)
	assert.Equal(t, "1024", e.CustomTrackingParameters["bw_bytes"])
	assert.Equal(t, 4.5, *e.EventValue)
}

func TestNew_DefaultsDate(t *testing.T) {
	p := fixtureParams()
	p.Date = time.Time{}

	before := time.Now()
	e := event.New(p)

	assert.WithinDuration(t, before, e.Date, time.Second)
}

func TestClone_Deep(t *testing.T) {
	e := event.New(fixtureParams())
	c := e.Clone()

	c.ActionName[0] = "other"
	c.Dimensions[0].Value = "other"
	c.CustomTrackingParameters["bw_bytes"] = "other"
	*c.EventValue = 1

	assert.Equal(t, e.ID(), c.ID())
	assert.Equal(t, "home", e.ActionName[0])
	assert.Equal(t, "a", e.Dimensions[0].Value)
	assert.Equal(t, "1024", e.CustomTrackingParameters["bw_bytes"])
	assert.Equal(t, 4.5, *e.EventValue)
}

func TestCloneAll_Nil(t *testing.T) {
	assert.Nil(t, event.CloneAll(nil))
}

func TestIDSet(t *testing.T) {
	a := event.New(fixtureParams())
	b := event.New(fixtureParams())

	ids := event.IDSet([]event.Event{a, b, a})

	assert.Len(t, ids, 2)
	assert.Contains(t, ids, a.UUID)
	assert.Contains(t, ids, b.UUID)
}
