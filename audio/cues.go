package audio

import (
	"fmt"
	"log"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/lixenwraith/softbody/engine"
	"github.com/lixenwraith/softbody/parameter"
	"github.com/lixenwraith/softbody/status"
)

// Config shapes the squish cue
type Config struct {
	Enabled            bool
	SampleRate         int
	BaseFreq           float64
	FreqSpan           float64
	Volume             float64 // base-2 exponent at full gain
	DeviationThreshold float64
	CueDuration        time.Duration
	MinGap             time.Duration
}

// DefaultConfig returns the built-in cue shaping
func DefaultConfig() Config {
	return Config{
		Enabled:            true,
		SampleRate:         parameter.AudioSampleRate,
		BaseFreq:           parameter.SquishBaseFreq,
		FreqSpan:           parameter.SquishFreqSpan,
		Volume:             parameter.SquishVolume,
		DeviationThreshold: parameter.SquishDeviationThreshold,
		CueDuration:        parameter.SquishDuration,
		MinGap:             parameter.SquishMinGap,
	}
}

// Cues plays a short tone while the effector deforms a body
// Pitch and gain follow how far the most deformed body is from its target area
// Implements engine.FrameConsumer
type Cues struct {
	mu          sync.Mutex
	cfg         Config
	mixer       *beep.Mixer
	initialized bool // speaker owns the mixer

	sinceCue time.Duration // simulated time since the last cue

	statCues      *atomic.Int64
	statDeviation *status.AtomicFloat
}

// NewCues creates a cue player; nothing is audible until Initialize succeeds
func NewCues(cfg Config, reg *status.Registry) *Cues {
	return &Cues{
		cfg:           cfg,
		mixer:         &beep.Mixer{},
		sinceCue:      cfg.MinGap,
		statCues:      reg.Ints.Get("audio.cues"),
		statDeviation: reg.Floats.Get("audio.deviation"),
	}
}

// Initialize opens the audio device
// On failure cues stay disabled and the caller may carry on silently
func (c *Cues) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.cfg.Enabled || c.initialized {
		return nil
	}

	rate := beep.SampleRate(c.cfg.SampleRate)
	if err := speaker.Init(rate, rate.N(parameter.AudioBufferDuration)); err != nil {
		c.cfg.Enabled = false
		return fmt.Errorf("audio device: %w", err)
	}

	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

// Close stops playback and releases the device
func (c *Cues) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	c.initialized = false
}

// Enabled reports whether cues are being generated
func (c *Cues) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg.Enabled
}

// Deviation returns the largest |area ratio - 1| over bodies
func Deviation(sim *engine.Simulation) float64 {
	var worst float64
	for _, b := range sim.Bodies() {
		if d := math.Abs(b.AreaRatio() - 1); d > worst {
			worst = d
		}
	}
	return worst
}

// ConsumeFrame queues a cue when the engaged effector has deformed a body past
// the threshold and the minimum gap of simulated time has passed
func (c *Cues) ConsumeFrame(sim *engine.Simulation) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.cfg.Enabled {
		return
	}

	sched := sim.Scheduler()
	c.sinceCue += time.Duration(sched.LastSubsteps()) * sched.FixedDT()

	dev := Deviation(sim)
	c.statDeviation.Set(dev)

	if !sim.Effector().Active || dev < c.cfg.DeviationThreshold || c.sinceCue < c.cfg.MinGap {
		return
	}

	cue, err := CreateSquishSound(c.cfg, dev)
	if err != nil {
		// Pitch past Nyquist is a config error, stop trying
		log.Printf("audio cue at %.1f Hz: %v, cues disabled", CueFrequency(c.cfg, dev), err)
		c.cfg.Enabled = false
		return
	}
	c.play(cue)
	c.sinceCue = 0
	c.statCues.Add(1)
}

// play adds s to the mixer, locking the speaker when it is streaming
func (c *Cues) play(s beep.Streamer) {
	if c.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	c.mixer.Add(s)
}

// Pending returns the number of cues still sounding
func (c *Cues) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	return c.mixer.Len()
}
