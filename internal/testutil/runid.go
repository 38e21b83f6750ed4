// Package testutil provides deterministic helpers for tests and the
// scenario harness.
package testutil

import (
	"fmt"
	"sync"
)

// SeqRunIDGenerator generates run IDs in a fixed sequence:
// run-0001, run-0002, and so on.
//
// This enables deterministic test execution and golden snapshot
// comparison: the same scenario evaluated with a fresh generator
// produces byte-identical run records.
//
// Unlike engine.FixedGenerator it never exhausts, and it can be Reset
// for test reuse.
//
// Thread-safety: all methods are safe for concurrent use via internal
// mutex.
type SeqRunIDGenerator struct {
	mu sync.Mutex
	n  int
}

// NewSeqRunIDGenerator creates a generator starting at run-0001.
func NewSeqRunIDGenerator() *SeqRunIDGenerator {
	return &SeqRunIDGenerator{}
}

// Generate returns the next run ID in the sequence.
func (g *SeqRunIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("run-%04d", g.n)
}

// Reset restarts the sequence. The next Generate returns run-0001.
func (g *SeqRunIDGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n = 0
}
