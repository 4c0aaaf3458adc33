// Package identity keeps the per-install visitor id and the session
// counters that every tracked event snapshots.
//
// Values live in a store.Store under fixed keys, so they survive restarts
// and stay identical for every event until Reset clears them.
package identity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/trackq/pkg/trackq/event"
	"github.com/randalmurphal/trackq/pkg/trackq/store"
)

// Store keys owned by Defaults.
const (
	KeyClientID            = "ClientID"
	KeyVisitorUserID       = "VisitorUserID"
	KeyFirstVisit          = "FirstVisit"
	KeyCurrentVisit        = "CurrentVisit"
	KeyPreviousVisit       = "PreviousVisit"
	KeyTotalNumberOfVisits = "TotalNumberOfVisits"
)

var allKeys = []string{
	KeyClientID,
	KeyVisitorUserID,
	KeyFirstVisit,
	KeyCurrentVisit,
	KeyPreviousVisit,
	KeyTotalNumberOfVisits,
}

// visitorIDLength is the number of hex characters kept from a fresh uuid.
const visitorIDLength = 16

// NewVisitorID returns a new 16-character visitor id: a random uuid in
// upper-case hex with hyphens stripped, truncated. Ids minted by earlier
// clients use the same alphabet.
func NewVisitorID() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return id[:visitorIDLength]
}

// Defaults reads and advances the persisted visitor and session state.
type Defaults struct {
	mu    sync.Mutex
	store store.Store
	now   func() time.Time
}

// Option configures Defaults.
type Option func(*Defaults)

// WithClock sets the time source. Default: time.Now
func WithClock(now func() time.Time) Option {
	return func(d *Defaults) {
		if now != nil {
			d.now = now
		}
	}
}

// NewDefaults creates Defaults backed by s.
func NewDefaults(s store.Store, opts ...Option) *Defaults {
	d := &Defaults{store: s, now: time.Now}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Visitor returns the install's visitor, minting and persisting the id on
// first access.
func (d *Defaults) Visitor() (event.Visitor, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	id, ok, err := d.getString(KeyClientID)
	if err != nil {
		return event.Visitor{}, err
	}
	if !ok || id == "" {
		id = NewVisitorID()
		if err := d.store.Set(KeyClientID, []byte(id)); err != nil {
			return event.Visitor{}, fmt.Errorf("persist visitor id: %w", err)
		}
	}

	userID, _, err := d.getString(KeyVisitorUserID)
	if err != nil {
		return event.Visitor{}, err
	}
	return event.Visitor{ID: id, UserID: userID}, nil
}

// SetUserID persists the optional user id. An empty id clears it.
func (d *Defaults) SetUserID(userID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var value []byte
	if userID != "" {
		value = []byte(userID)
	}
	if err := d.store.Set(KeyVisitorUserID, value); err != nil {
		return fmt.Errorf("persist user id: %w", err)
	}
	return nil
}

// Session returns the current session snapshot. The first visit is
// persisted on first access and never overwritten.
func (d *Defaults) Session() (event.Session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now().UTC()

	firstVisit, ok, err := d.getTime(KeyFirstVisit)
	if err != nil {
		return event.Session{}, err
	}
	if !ok {
		firstVisit = now
		if err := d.setTime(KeyFirstVisit, firstVisit); err != nil {
			return event.Session{}, err
		}
	}

	lastVisit, ok, err := d.getTime(KeyPreviousVisit)
	if err != nil {
		return event.Session{}, err
	}
	if !ok {
		lastVisit = now
	}

	count, err := d.getInt(KeyTotalNumberOfVisits)
	if err != nil {
		return event.Session{}, err
	}

	return event.Session{
		SessionsCount: count,
		LastVisit:     lastVisit,
		FirstVisit:    firstVisit,
	}, nil
}

// StartSession records the start of a new logical session: the current
// visit becomes the previous one and the visit count advances.
func (d *Defaults) StartSession() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now().UTC()

	current, ok, err := d.getTime(KeyCurrentVisit)
	if err != nil {
		return err
	}
	if ok {
		if err := d.setTime(KeyPreviousVisit, current); err != nil {
			return err
		}
	}
	if err := d.setTime(KeyCurrentVisit, now); err != nil {
		return err
	}

	count, err := d.getInt(KeyTotalNumberOfVisits)
	if err != nil {
		return err
	}
	if err := d.store.Set(KeyTotalNumberOfVisits, []byte(strconv.Itoa(count+1))); err != nil {
		return fmt.Errorf("persist visit count: %w", err)
	}
	return nil
}

// Reset clears every persisted identity value. The next Visitor call mints
// a new id.
func (d *Defaults) Reset() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var errs []error
	for _, key := range allKeys {
		if err := d.store.Set(key, nil); err != nil {
			errs = append(errs, fmt.Errorf("clear %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

func (d *Defaults) getString(key string) (string, bool, error) {
	data, err := d.store.Get(key)
	if errors.Is(err, store.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return string(data), true, nil
}

// getTime treats an unparseable value as absent.
func (d *Defaults) getTime(key string) (time.Time, bool, error) {
	s, ok, err := d.getString(key)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	t, perr := time.Parse(time.RFC3339Nano, s)
	if perr != nil {
		return time.Time{}, false, nil
	}
	return t, true, nil
}

func (d *Defaults) setTime(key string, t time.Time) error {
	if err := d.store.Set(key, []byte(t.UTC().Format(time.RFC3339Nano))); err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}

// getInt treats an absent or unparseable value as zero.
func (d *Defaults) getInt(key string) (int, error) {
	s, ok, err := d.getString(key)
	if err != nil || !ok {
		return 0, err
	}
	n, perr := strconv.Atoi(s)
	if perr != nil {
		return 0, nil
	}
	return n, nil
}
