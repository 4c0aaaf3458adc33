package benchmarks

import (
	"path/filepath"
	"testing"

	"github.com/randalmurphal/trackq/pkg/trackq/event"
	"github.com/randalmurphal/trackq/pkg/trackq/store"
)

// BenchmarkMemoryStore_Set measures in-memory blob writes.
func BenchmarkMemoryStore_Set(b *testing.B) {
	s := store.NewMemoryStore()
	data := queueBlob(b, 100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Set("Events", data)
	}
}

// BenchmarkSQLiteStore_Set measures SQLite blob writes.
func BenchmarkSQLiteStore_Set(b *testing.B) {
	s := createSQLiteStore(b)
	data := queueBlob(b, 100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Set("Events", data)
	}
}

// BenchmarkSQLiteStore_Get measures SQLite blob reads.
func BenchmarkSQLiteStore_Get(b *testing.B) {
	s := createSQLiteStore(b)
	_ = s.Set("Events", queueBlob(b, 100))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Get("Events")
	}
}

// BenchmarkCodec_Marshal measures encoding a queue of 100 events.
func BenchmarkCodec_Marshal(b *testing.B) {
	events := makeEvents(100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = event.MarshalBatch(events)
	}
}

// BenchmarkCodec_Unmarshal measures decoding a queue of 100 events.
func BenchmarkCodec_Unmarshal(b *testing.B) {
	data := queueBlob(b, 100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = event.UnmarshalBatch(data)
	}
}

func createSQLiteStore(b *testing.B) *store.SQLiteStore {
	b.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(b.TempDir(), "bench.db"))
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { s.Close() })
	return s
}

func queueBlob(b *testing.B, n int) []byte {
	b.Helper()
	data, err := event.MarshalBatch(makeEvents(n))
	if err != nil {
		b.Fatal(err)
	}
	return data
}
