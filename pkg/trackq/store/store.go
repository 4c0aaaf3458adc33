// Package store provides the key-value byte stores that back durable
// tracker state: the persisted event queue and the visitor/session counters.
package store

import "errors"

// Store persists opaque byte values by key.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value stored under key.
	// Returns ErrNotFound if the key has no value.
	Get(key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	// A nil value clears the key; clearing an absent key is not an error.
	Set(key string, value []byte) error

	// Close releases any resources (connections, files).
	Close() error
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates a key has no stored value.
	ErrNotFound = errors.New("key not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("store closed")
)
