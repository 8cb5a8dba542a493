package engine

import (
	"context"
	"testing"
	"time"

	"github.com/lixenwraith/softbody/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

type recordingSource struct {
	log     *[]string
	elapsed []time.Duration
}

func (r *recordingSource) PrepareFrame(sim *Simulation, elapsed time.Duration) {
	*r.log = append(*r.log, "source")
	r.elapsed = append(r.elapsed, elapsed)
	sim.Effector().Position = r2.Vec{X: 1, Y: 2}
}

func newTestDriver(t *testing.T) (*Driver, *MockTimeProvider) {
	t.Helper()
	settings := testSettings(100, 4, 0.5)
	sim := newTestSimulation(t, settings, circleSpec(8, 50))
	mock := NewMockTimeProvider(time.Unix(0, 0))
	return NewDriver(sim, NewClock(mock, 250*time.Millisecond)), mock
}

func TestDriver_FrameOrdering(t *testing.T) {
	d, mock := newTestDriver(t)

	var order []string
	src := &recordingSource{log: &order}
	d.AddSource(src)

	var dirty []bool
	d.AddConsumer(FrameConsumerFunc(func(sim *Simulation) {
		order = append(order, "consumer")
		if sim.Effector().Position != (r2.Vec{X: 1, Y: 2}) {
			t.Error("consumer ran before source wrote the effector")
		}
		dirty = append(dirty, sim.Tracker().Consume())
	}))

	mock.Advance(20 * time.Millisecond)
	if n := d.Frame(); n != 2 {
		t.Errorf("Frame() ran %d substeps, want 2", n)
	}
	mock.Advance(5 * time.Millisecond)
	if n := d.Frame(); n != 0 {
		t.Errorf("Frame() with half a step ran %d substeps, want 0", n)
	}

	want := []string{"source", "consumer", "source", "consumer"}
	if len(order) != len(want) {
		t.Fatalf("call order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("call %d = %s, want %s", i, order[i], want[i])
		}
	}
	if src.elapsed[0] != 20*time.Millisecond || src.elapsed[1] != 5*time.Millisecond {
		t.Errorf("source saw elapsed %v", src.elapsed)
	}
	// AddBody marked the outline; the first consumer takes it
	if !dirty[0] {
		t.Error("first frame did not see the construction mark")
	}
	if got := d.Simulation().Status().Ints.Get("engine.frames").Load(); got != 2 {
		t.Errorf("engine.frames = %d, want 2", got)
	}
}

func TestDriver_PausedFramesStillRender(t *testing.T) {
	d, mock := newTestDriver(t)
	*d.Simulation().Effector() = physics.Effector{Position: r2.Vec{X: 45}, Radius: 30, Strength: 1000, Active: true}

	rendered := 0
	d.AddConsumer(FrameConsumerFunc(func(*Simulation) { rendered++ }))

	d.Clock().Pause()
	for range 5 {
		mock.Advance(20 * time.Millisecond)
		if n := d.Frame(); n != 0 {
			t.Fatalf("paused Frame ran %d substeps", n)
		}
	}
	if rendered != 5 {
		t.Errorf("rendered %d paused frames, want 5", rendered)
	}
	if !d.Simulation().Status().Bools.Get("engine.paused").Load() {
		t.Error("engine.paused metric not set")
	}

	d.Clock().Resume()
	mock.Advance(10 * time.Millisecond)
	if n := d.Frame(); n != 1 {
		t.Errorf("resumed Frame ran %d substeps, want 1 (paused span dropped)", n)
	}
}

func TestDriver_StallClampedBeforeScheduler(t *testing.T) {
	d, mock := newTestDriver(t)

	mock.Advance(time.Minute)
	d.Frame()

	// 250ms clamp at 100 Hz is 25 owed, 8 run
	if got := d.Simulation().Scheduler().Accumulated(); got != 170*time.Millisecond {
		t.Errorf("carried %v after stall, want 170ms", got)
	}
}

func TestDriver_UnclampedStallRetained(t *testing.T) {
	sim := newTestSimulation(t, testSettings(100, 4, 0.5), circleSpec(8, 50))
	mock := NewMockTimeProvider(time.Unix(0, 0))
	d := NewDriver(sim, NewClock(mock, 0))

	mock.Advance(time.Second)
	if n := d.Frame(); n != 8 {
		t.Fatalf("stalled Frame ran %d substeps, want cap 8", n)
	}
	if got := sim.Scheduler().Accumulated(); got != 920*time.Millisecond {
		t.Fatalf("carried %v after stall, want 920ms", got)
	}

	total := 8
	for range 20 {
		total += d.Frame()
	}
	if total != 100 {
		t.Errorf("ran %d substeps for a 1s stall at 100 Hz, want 100", total)
	}
}

func TestDriver_RunStopsOnCancel(t *testing.T) {
	settings := testSettings(120, 4, 0.5)
	sim := newTestSimulation(t, settings, circleSpec(8, 50))
	d := NewDriver(sim, NewClock(NewMonotonicTimeProvider(), 250*time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- d.Run(ctx, 5*time.Millisecond) }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if sim.Status().Ints.Get("engine.frames").Load() == 0 {
		t.Error("Run executed no frames")
	}
}
