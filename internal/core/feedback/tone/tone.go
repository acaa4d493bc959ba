package tone

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// Config shapes the countdown beep cue.
type Config struct {
	SampleRate beep.SampleRate
	Frequency  float64
	Duration   time.Duration
}

func DefaultConfig() Config {
	return Config{
		SampleRate: beep.SampleRate(44100),
		Frequency:  1320,
		Duration:   60 * time.Millisecond,
	}
}

// Beep builds a finite sine streamer at the given linear volume (0..1].
// A non-positive volume yields a silent streamer of the same length.
func Beep(cfg Config, volume float64) (beep.Streamer, error) {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultConfig().SampleRate
	}
	if cfg.Duration <= 0 {
		cfg.Duration = DefaultConfig().Duration
	}
	sine, err := generators.SineTone(cfg.SampleRate, cfg.Frequency)
	if err != nil {
		return nil, err
	}
	return withVolume(beep.Take(cfg.SampleRate.N(cfg.Duration), sine), volume), nil
}

// PitchForRate raises the beep pitch as the blink rate climbs, so escalation
// is audible as well as visible.
func PitchForRate(base, rateHz, minHz, maxHz float64) float64 {
	if maxHz <= minHz {
		return base
	}
	t := (rateHz - minHz) / (maxHz - minHz)
	t = math.Max(0, math.Min(1, t))
	return base * (1 + 0.5*t)
}

// math.Log2(0) is -Inf, so zero volume is expressed as Silent.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(math.Min(vol, 1)), Silent: false}
}
