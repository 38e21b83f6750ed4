package engine

import "sync/atomic"

// Clock is a monotonic logical counter for stamping result rows.
//
// Every evaluated output receives a strictly increasing seq number, so
// stored runs read back in evaluation order without relying on
// wall-clock timestamps. Wall clocks are never used for ordering.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations),
// though a single evaluation stamps from one goroutine.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a new clock starting at a specific sequence
// number. Used when appending results to an existing run.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
// Each call returns a unique, increasing value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
