package store_test

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/randalmurphal/trackq/pkg/trackq/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_Persistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "tracker.db")

	// First store instance
	store1, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)

	require.NoError(t, store1.Set("Events", []byte("persistent")))
	require.NoError(t, store1.Close())

	// Second store instance (reopening the database)
	store2, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store2.Close()

	data, err := store2.Get("Events")
	require.NoError(t, err)
	assert.Equal(t, []byte("persistent"), data)
}

func TestSQLiteStore_ClearPersists(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "tracker.db")

	store1, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store1.Set("Events", []byte("data")))
	require.NoError(t, store1.Set("Events", nil))
	require.NoError(t, store1.Close())

	store2, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store2.Close()

	_, err = store2.Get("Events")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSQLiteStore_InvalidPath(t *testing.T) {
	_, err := store.NewSQLiteStore("/nonexistent/path/db.sqlite")
	assert.Error(t, err)
}

func TestSQLiteStore_Concurrent(t *testing.T) {
	s, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	const numGoroutines = 50
	const numOps = 20

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()

			for j := 0; j < numOps; j++ {
				key := fmt.Sprintf("key-%d", (id+j)%10)
				if j%2 == 0 {
					_ = s.Set(key, []byte("data"))
				} else {
					_, _ = s.Get(key)
				}
			}
		}(i)
	}

	wg.Wait()
}

func TestSQLiteStore_LargeValue(t *testing.T) {
	s, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	// 1MB of data
	large := make([]byte, 1024*1024)
	for i := range large {
		large[i] = byte(i % 256)
	}

	require.NoError(t, s.Set("Events", large))

	loaded, err := s.Get("Events")
	require.NoError(t, err)
	assert.Equal(t, large, loaded)
}
