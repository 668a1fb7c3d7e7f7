package cell

import "sync/atomic"

// AtomicCell is a byte-sized cell slot that supports lock-free
// concurrent access. Go's atomic package has no dedicated 8-bit
// primitive, so AtomicCell widens a PackedCell into the low byte of an
// atomic.Uint32 — the same trade Go's own concurrent data structures
// make whenever a hot path wants atomics narrower than a machine word.
//
// Go's sync/atomic also has no separate Relaxed/Acquire/Release entry
// points: every operation here is sequentially consistent, which is
// strictly stronger than the algorithm requires and therefore still
// correct, just without the opportunity to shave weaker orderings off
// on architectures that would otherwise benefit.
type AtomicCell struct {
	word atomic.Uint32
}

// Store publishes v for any concurrent reader.
func (c *AtomicCell) Store(v PackedCell) {
	c.word.Store(uint32(v))
}

// Load reads the current value.
func (c *AtomicCell) Load() PackedCell {
	return PackedCell(c.word.Load())
}

// Update runs a compare-and-swap retry loop: it repeatedly loads the
// current cell, calls f to compute a replacement, and retries if
// another goroutine raced the store in between. f may close over
// outside state to record what its caller must write back to its own
// slot — callers in internal/world's push phase rely on exactly that
// side channel, Update itself doesn't interpret f's return value beyond
// storing it.
func (c *AtomicCell) Update(f func(PackedCell) PackedCell) {
	for {
		old := c.word.Load()
		next := uint32(f(PackedCell(old)))
		if c.word.CompareAndSwap(old, next) {
			return
		}
	}
}
