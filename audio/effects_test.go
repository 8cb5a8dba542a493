package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/lixenwraith/softbody/engine"
	"github.com/lixenwraith/softbody/physics"
	"github.com/lixenwraith/softbody/status"
	"gonum.org/v1/gonum/spatial/r2"
)

// TestSquishSoundLength verifies the cue ends after exactly its duration
func TestSquishSoundLength(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CueDuration = 10 * time.Millisecond
	rate := beep.SampleRate(cfg.SampleRate)
	want := rate.N(cfg.CueDuration)

	cue, err := CreateSquishSound(cfg, 0.3)
	if err != nil {
		t.Fatalf("CreateSquishSound: %v", err)
	}

	total := 0
	buf := make([][2]float64, 128)
	for {
		n, ok := cue.Stream(buf)
		for i := 0; i < n; i++ {
			if buf[i][0] < -1 || buf[i][0] > 1 {
				t.Fatalf("sample %d out of range: %f", total+i, buf[i][0])
			}
		}
		total += n
		if !ok {
			break
		}
	}
	if total != want {
		t.Errorf("streamed %d samples, want %d", total, want)
	}
}

func TestSquishSoundAboveNyquist(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseFreq = float64(cfg.SampleRate)
	if _, err := CreateSquishSound(cfg, 0); err == nil {
		t.Error("CreateSquishSound above Nyquist succeeded")
	}
}

// TestEnvelopeShape verifies the tone fades in and out
func TestEnvelopeShape(t *testing.T) {
	rate := beep.SampleRate(44100)
	d := 20 * time.Millisecond
	env := NewEnvelope(constant{}, d, 5*time.Millisecond, 5*time.Millisecond, rate)

	buf := make([][2]float64, rate.N(d))
	n, _ := env.Stream(buf)
	if n != len(buf) {
		t.Fatalf("streamed %d samples, want %d", n, len(buf))
	}

	if buf[0][0] != 0 {
		t.Errorf("first sample = %f, want 0", buf[0][0])
	}
	if mid := buf[n/2][0]; mid != 1 {
		t.Errorf("sustain sample = %f, want 1", mid)
	}
	if last := buf[n-1][0]; last > 0.01 {
		t.Errorf("last sample = %f, want near 0", last)
	}
}

// constant streams 1.0 forever
type constant struct{}

func (constant) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		samples[i] = [2]float64{1, 1}
	}
	return len(samples), true
}

func (constant) Err() error { return nil }

func TestCueMapping(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseFreq, cfg.FreqSpan, cfg.Volume = 200, 400, 0

	tests := []struct {
		deviation float64
		wantFreq  float64
		wantGain  float64
	}{
		{0, 200, 0},
		{0.1, 240, 0.4},
		{-0.1, 240, 0.4},
		{0.5, 400, 1},
		{3, 600, 1},
	}
	for _, tt := range tests {
		if got := CueFrequency(cfg, tt.deviation); math.Abs(got-tt.wantFreq) > 1e-9 {
			t.Errorf("CueFrequency(%v) = %v, want %v", tt.deviation, got, tt.wantFreq)
		}
		if got := CueGain(cfg, tt.deviation); math.Abs(got-tt.wantGain) > 1e-9 {
			t.Errorf("CueGain(%v) = %v, want %v", tt.deviation, got, tt.wantGain)
		}
	}
}

func newCueSimulation(t *testing.T) *engine.Simulation {
	t.Helper()
	sim, err := engine.NewSimulation(engine.DefaultSettings(), 16, nil)
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}
	_, err = sim.AddBody(physics.BodySpec{
		Points: 16, Radius: 50, Mass: 1, Stiffness: 1, DilationStiffness: 1, Puffiness: 1,
	}, r2.Vec{})
	if err != nil {
		t.Fatalf("AddBody: %v", err)
	}

	// Engaged but far from the body so stepping is undisturbed
	eff := sim.Effector()
	eff.Position = r2.Vec{X: 1e4, Y: 1e4}
	eff.Active = true
	return sim
}

// squash scales the first body toward its centroid at rest
func squash(sim *engine.Simulation, factor float64) {
	b := sim.Bodies()[0]
	c := b.Centroid()
	for _, idx := range b.Loop() {
		p := sim.Store().At(idx)
		p.Teleport(r2.Add(c, r2.Scale(factor, r2.Sub(p.Position, c))))
	}
}

func TestCues_PlayOnDeformation(t *testing.T) {
	sim := newCueSimulation(t)
	reg := status.NewRegistry()
	c := NewCues(DefaultConfig(), reg)

	// Undeformed body stays silent
	c.ConsumeFrame(sim)
	if got := reg.Ints.Get("audio.cues").Load(); got != 0 {
		t.Fatalf("cues at rest = %d, want 0", got)
	}

	squash(sim, 0.7)
	c.ConsumeFrame(sim)
	if got := reg.Ints.Get("audio.cues").Load(); got != 1 {
		t.Fatalf("cues after squash = %d, want 1", got)
	}
	if dev := reg.Floats.Get("audio.deviation").Get(); math.Abs(dev-0.51) > 1e-6 {
		t.Errorf("deviation = %v, want 0.51", dev)
	}

	// No simulated time passed, gap not met
	c.ConsumeFrame(sim)
	if got := reg.Ints.Get("audio.cues").Load(); got != 1 {
		t.Errorf("cues inside min gap = %d, want 1", got)
	}

	sim.Advance(100 * time.Millisecond)
	squash(sim, 0.7)
	c.ConsumeFrame(sim)
	if got := reg.Ints.Get("audio.cues").Load(); got != 2 {
		t.Errorf("cues after gap = %d, want 2", got)
	}
	if c.Pending() != 2 {
		t.Errorf("Pending() = %d, want 2", c.Pending())
	}

	// Drain the mixer without a device
	rate := beep.SampleRate(DefaultConfig().SampleRate)
	buf := make([][2]float64, rate.N(DefaultConfig().CueDuration)+1)
	c.mixer.Stream(buf)
	var peak float64
	for _, s := range buf {
		peak = math.Max(peak, math.Abs(s[0]))
	}
	if peak == 0 {
		t.Error("cue streamed only silence")
	}
	c.mixer.Stream(buf)
	if c.Pending() != 0 {
		t.Errorf("Pending() after drain = %d, want 0", c.Pending())
	}
}

func TestCues_SilentWhenDisengagedOrDisabled(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		active  bool
	}{
		{"effector released", true, false},
		{"audio disabled", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := newCueSimulation(t)
			sim.Effector().Active = tt.active
			squash(sim, 0.5)

			cfg := DefaultConfig()
			cfg.Enabled = tt.enabled
			reg := status.NewRegistry()
			c := NewCues(cfg, reg)

			if !tt.enabled {
				// Disabled cues never touch the device
				if err := c.Initialize(); err != nil {
					t.Fatalf("Initialize() on disabled cues = %v", err)
				}
			}
			c.ConsumeFrame(sim)
			if got := reg.Ints.Get("audio.cues").Load(); got != 0 {
				t.Errorf("cues = %d, want 0", got)
			}
		})
	}
}
