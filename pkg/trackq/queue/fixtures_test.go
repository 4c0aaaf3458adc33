package queue_test

import (
	"errors"
	"sync"
	"time"

	"github.com/randalmurphal/trackq/pkg/trackq/event"
	"github.com/randalmurphal/trackq/pkg/trackq/store"
)

// fixtureEvent builds a distinct event with the given action name.
func fixtureEvent(action string) event.Event {
	now := time.Now()
	return event.New(event.Params{
		SiteID:       "site_1",
		Visitor:      event.Visitor{ID: "fixture_visitor_id", UserID: "fixture_user_id"},
		Session:      event.Session{SessionsCount: 0, LastVisit: now, FirstVisit: now},
		Date:         now,
		URL:          "http://fixture.example",
		ActionName:   []string{action},
		Language:     "en-US",
		IsNewSession: true,
	})
}

// ids returns the identities of events in order.
func ids(events []event.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.ID()
	}
	return out
}

// faultyStore wraps a MemoryStore and fails reads or writes on demand.
type faultyStore struct {
	*store.MemoryStore

	mu       sync.Mutex
	failGet  bool
	failSet  bool
	setCalls int
}

var errDiskFull = errors.New("disk full")

func newFaultyStore() *faultyStore {
	return &faultyStore{MemoryStore: store.NewMemoryStore()}
}

func (f *faultyStore) Get(key string) ([]byte, error) {
	f.mu.Lock()
	fail := f.failGet
	f.mu.Unlock()
	if fail {
		return nil, errDiskFull
	}
	return f.MemoryStore.Get(key)
}

func (f *faultyStore) Set(key string, value []byte) error {
	f.mu.Lock()
	f.setCalls++
	fail := f.failSet
	f.mu.Unlock()
	if fail {
		return errDiskFull
	}
	return f.MemoryStore.Set(key, value)
}

func (f *faultyStore) setFailures(get, set bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failGet = get
	f.failSet = set
}

// blockingStore holds every Get until release is closed.
type blockingStore struct {
	*store.MemoryStore
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingStore() *blockingStore {
	return &blockingStore{
		MemoryStore: store.NewMemoryStore(),
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
	}
}

func (b *blockingStore) Get(key string) ([]byte, error) {
	b.once.Do(func() { close(b.entered) })
	<-b.release
	return b.MemoryStore.Get(key)
}
