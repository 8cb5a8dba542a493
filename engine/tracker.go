package engine

import "sync/atomic"

// ChangeTracker is the outline dirty flag shared by physics and the renderer
// Physics marks; exactly one consumer clears via Consume, so a mark raised
// after a consume is held until the next one
// Secondary observers that must not steal the flag compare Generation instead
type ChangeTracker struct {
	dirty atomic.Bool
	gen   atomic.Uint64
}

// Mark raises the flag and bumps the generation
func (c *ChangeTracker) Mark() {
	c.gen.Add(1)
	c.dirty.Store(true)
}

// Consume returns the flag and clears it in one atomic step
func (c *ChangeTracker) Consume() bool {
	return c.dirty.Swap(false)
}

// Peek returns the flag without clearing, for diagnostics only
func (c *ChangeTracker) Peek() bool {
	return c.dirty.Load()
}

// Generation counts marks since creation
func (c *ChangeTracker) Generation() uint64 {
	return c.gen.Load()
}
