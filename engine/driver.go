package engine

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/softbody/parameter"
)

// FrameSource writes external input into the simulation before substeps run
type FrameSource interface {
	PrepareFrame(sim *Simulation, elapsed time.Duration)
}

// FrameConsumer reads simulation output after substeps run
type FrameConsumer interface {
	ConsumeFrame(sim *Simulation)
}

// FrameConsumerFunc adapts a function to FrameConsumer
type FrameConsumerFunc func(sim *Simulation)

// ConsumeFrame calls f(sim)
func (f FrameConsumerFunc) ConsumeFrame(sim *Simulation) {
	f(sim)
}

// Driver is the two-rate loop: one accumulator-gated physics call and one
// render call per host frame, on one goroutine
type Driver struct {
	sim       *Simulation
	clock     *Clock
	sources   []FrameSource
	consumers []FrameConsumer

	lastOverloadLog time.Time

	statFrames *atomic.Int64
	statPaused *atomic.Bool
}

// NewDriver creates a driver over sim, timed by clock
func NewDriver(sim *Simulation, clock *Clock) *Driver {
	return &Driver{
		sim:        sim,
		clock:      clock,
		statFrames: sim.Status().Ints.Get("engine.frames"),
		statPaused: sim.Status().Bools.Get("engine.paused"),
	}
}

// AddSource registers an input source, called in registration order before physics
func (d *Driver) AddSource(src FrameSource) {
	d.sources = append(d.sources, src)
}

// AddConsumer registers an output consumer, called in registration order after physics
func (d *Driver) AddConsumer(c FrameConsumer) {
	d.consumers = append(d.consumers, c)
}

// Clock returns the frame clock
func (d *Driver) Clock() *Clock {
	return d.clock
}

// Simulation returns the driven simulation
func (d *Driver) Simulation() *Simulation {
	return d.sim
}

// Frame runs one host frame and returns the substeps executed
func (d *Driver) Frame() int {
	elapsed := d.clock.Tick()

	for _, src := range d.sources {
		src.PrepareFrame(d.sim, elapsed)
	}

	n := d.sim.Advance(elapsed)
	if d.sim.Scheduler().Overloaded() {
		now := d.clock.provider.Now()
		if now.Sub(d.lastOverloadLog) >= parameter.OverloadLogInterval {
			d.lastOverloadLog = now
			log.Printf("physics overloaded: %d substeps, %v carried", n, d.sim.Scheduler().Accumulated())
		}
	}

	for _, c := range d.consumers {
		c.ConsumeFrame(d.sim)
	}

	d.statFrames.Add(1)
	d.statPaused.Store(d.clock.IsPaused())
	return n
}

// Run calls Frame every interval until ctx is cancelled
func (d *Driver) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			d.Frame()
		}
	}
}
