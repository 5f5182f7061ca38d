package testutil

import (
	"fmt"
	"sync"
	"time"
)

// FakeTicker is a manually driven ticker for scheduler tests.
//
// Its channel is unbuffered: Tick blocks until the consumer receives the
// tick, so a test knows the tick was observed when Tick returns.
type FakeTicker struct {
	ch chan time.Time

	mu      sync.Mutex
	stopped bool
	period  time.Duration
}

// NewFakeTicker creates a ticker that only fires when Tick is called.
func NewFakeTicker(period time.Duration) *FakeTicker {
	return &FakeTicker{ch: make(chan time.Time), period: period}
}

// C returns the tick channel.
func (t *FakeTicker) C() <-chan time.Time {
	return t.ch
}

// Stop marks the ticker stopped. Pending Tick calls are not interrupted.
func (t *FakeTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

// Stopped reports whether Stop has been called.
func (t *FakeTicker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// Period returns the period the ticker was created with.
func (t *FakeTicker) Period() time.Duration {
	return t.period
}

// Tick delivers at to the consumer, giving up after timeout.
// Returns false if nobody received the tick in time.
func (t *FakeTicker) Tick(at time.Time, timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case t.ch <- at:
		return true
	case <-timer.C:
		return false
	}
}

// SequentialIDGenerator returns "<prefix>-1", "<prefix>-2", ...
//
// Thread-safety: safe for concurrent use via internal mutex.
type SequentialIDGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialIDGenerator creates a generator. An empty prefix becomes "round".
func NewSequentialIDGenerator(prefix string) *SequentialIDGenerator {
	if prefix == "" {
		prefix = "round"
	}
	return &SequentialIDGenerator{prefix: prefix}
}

// Generate returns the next identifier.
func (g *SequentialIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}
