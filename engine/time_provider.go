package engine

import "time"

// TimeProvider supplies wall-clock readings to the frame clock
type TimeProvider interface {
	Now() time.Time
}

// MonotonicTimeProvider reads the system clock with its monotonic component
type MonotonicTimeProvider struct{}

// NewMonotonicTimeProvider creates a real-time provider
func NewMonotonicTimeProvider() *MonotonicTimeProvider {
	return &MonotonicTimeProvider{}
}

// Now returns time.Now
func (p *MonotonicTimeProvider) Now() time.Time {
	return time.Now()
}
