package queue

import (
	"fmt"
	"sync"
)

// guard serializes queue operations. The durable read-modify-write cycle
// is not atomic across its steps, so two interleaved calls would lose updates.
type guard struct {
	mu     sync.Mutex
	strict bool
}

// enter acquires the critical section and returns the release func.
func (g *guard) enter(op string) func() {
	if g.strict {
		if !g.mu.TryLock() {
			panic(fmt.Sprintf("queue: %s called while another queue operation is in progress", op))
		}
		return g.mu.Unlock
	}
	g.mu.Lock()
	return g.mu.Unlock
}
