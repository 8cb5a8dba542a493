package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// Envelope edges as a fraction of cue duration
const (
	attackFraction  = 0.1
	releaseFraction = 0.6
)

// envelope applies linear attack/release shaping to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	totalSamples   int
}

// NewEnvelope wraps s with attack and release ramps inside duration
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer:       s,
		attackSamples:  rate.N(attack),
		releaseSamples: rate.N(release),
		totalSamples:   rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	releaseStart := e.totalSamples - e.releaseSamples
	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		if e.position >= releaseStart && e.releaseSamples > 0 {
			vol = math.Min(vol, float64(e.totalSamples-e.position)/float64(e.releaseSamples))
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}

	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales linearly; math.Log2(0) is -Inf so zero maps to silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// CueFrequency maps relative area deviation to pitch
// Squashed bodies (ratio below 1) and inflated ones rise alike
func CueFrequency(cfg Config, deviation float64) float64 {
	return cfg.BaseFreq + cfg.FreqSpan*math.Min(math.Abs(deviation), 1)
}

// CueGain maps relative area deviation to linear gain, peaking at a quarter deviation
func CueGain(cfg Config, deviation float64) float64 {
	return math.Exp2(cfg.Volume) * math.Min(math.Abs(deviation)*4, 1)
}

// CreateSquishSound builds one enveloped tone for the given deviation
func CreateSquishSound(cfg Config, deviation float64) (beep.Streamer, error) {
	rate := beep.SampleRate(cfg.SampleRate)
	d := cfg.CueDuration

	sine, err := generators.SineTone(rate, CueFrequency(cfg, deviation))
	if err != nil {
		return nil, err
	}
	attack := time.Duration(float64(d) * attackFraction)
	release := time.Duration(float64(d) * releaseFraction)
	shaped := NewEnvelope(beep.Take(rate.N(d), sine), d, attack, release, rate)

	return newVolume(shaped, CueGain(cfg, deviation)), nil
}
