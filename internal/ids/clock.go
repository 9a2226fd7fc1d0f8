// Package ids provides the clock, UUID minting/claiming, and external-ID
// mapping primitives shared by every store in the engine (spec §4.1).
package ids

import "time"

// Clock is a monotonic millisecond time source. The engine never calls
// time.Now() directly outside this interface so that tests can inject a
// deterministic clock.
type Clock interface {
	NowMs() int64
}

// SystemClock is the production Clock, backed by the OS wall clock (Unix
// milliseconds). It is not monotonic: a backwards wall-clock step shows
// up as a smaller NowMs value.
type SystemClock struct{}

// NowMs returns the current Unix time in milliseconds.
func (SystemClock) NowMs() int64 {
	return time.Now().UnixMilli()
}

// FixedClock is a Clock that always returns the same instant, plus a
// manual Advance method. Used by tests that need deterministic timestamps.
type FixedClock struct {
	ms int64
}

// NewFixedClock creates a FixedClock starting at ms.
func NewFixedClock(ms int64) *FixedClock {
	return &FixedClock{ms: ms}
}

// NowMs returns the current fixed time.
func (c *FixedClock) NowMs() int64 {
	return c.ms
}

// Advance moves the fixed clock forward by delta milliseconds.
func (c *FixedClock) Advance(delta int64) {
	c.ms += delta
}

// Set pins the fixed clock to an absolute millisecond value.
func (c *FixedClock) Set(ms int64) {
	c.ms = ms
}
