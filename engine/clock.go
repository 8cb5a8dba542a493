package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// Clock turns wall-clock readings into per-frame elapsed time
// Paused spans are never delivered; single long frames are clamped to maxDelta
type Clock struct {
	mu       sync.Mutex
	provider TimeProvider
	maxDelta time.Duration
	last     time.Time

	paused      atomic.Bool
	pauseStart  time.Time
	totalPaused time.Duration
}

// NewClock creates a clock reading from provider; maxDelta <= 0 disables clamping
func NewClock(provider TimeProvider, maxDelta time.Duration) *Clock {
	return &Clock{
		provider: provider,
		maxDelta: maxDelta,
		last:     provider.Now(),
	}
}

// Tick returns time elapsed since the previous Tick, 0 while paused
func (c *Clock) Tick() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.provider.Now()
	if c.paused.Load() {
		c.last = now
		return 0
	}

	elapsed := now.Sub(c.last)
	c.last = now
	if elapsed < 0 {
		return 0
	}
	if c.maxDelta > 0 && elapsed > c.maxDelta {
		return c.maxDelta
	}
	return elapsed
}

// Pause freezes delivery of elapsed time
func (c *Clock) Pause() {
	if c.paused.CompareAndSwap(false, true) {
		c.mu.Lock()
		c.pauseStart = c.provider.Now()
		c.mu.Unlock()
	}
}

// Resume restarts delivery from now; the paused span is dropped
func (c *Clock) Resume() {
	if c.paused.CompareAndSwap(true, false) {
		c.mu.Lock()
		now := c.provider.Now()
		c.totalPaused += now.Sub(c.pauseStart)
		c.pauseStart = time.Time{}
		c.last = now
		c.mu.Unlock()
	}
}

// Toggle flips pause state and returns true if now paused
func (c *Clock) Toggle() bool {
	if c.paused.Load() {
		c.Resume()
		return false
	}
	c.Pause()
	return true
}

// IsPaused returns current pause state
func (c *Clock) IsPaused() bool {
	return c.paused.Load()
}

// TotalPauseDuration returns cumulative paused time including any current pause
func (c *Clock) TotalPauseDuration() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.totalPaused
	if c.paused.Load() && !c.pauseStart.IsZero() {
		total += c.provider.Now().Sub(c.pauseStart)
	}
	return total
}
