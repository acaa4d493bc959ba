package tone

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/zeusync/ricochet/internal/core/events/bus"
	"github.com/zeusync/ricochet/internal/core/feedback"
)

// Player turns beep notifications into audible cues. Cues are mixed, so
// overlapping countdowns play together at the volume the governor assigned.
type Player struct {
	mu          sync.Mutex
	cfg         Config
	mixer       *beep.Mixer
	initialized bool
}

func NewPlayer(cfg Config) *Player {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultConfig().SampleRate
	}
	return &Player{cfg: cfg, mixer: &beep.Mixer{}}
}

// Start opens the audio device and begins playing the mixer.
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		return nil
	}
	if err := speaker.Init(p.cfg.SampleRate, p.cfg.SampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Stop clears pending cues and closes the device.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.initialized = false
}

// Play queues one beep cue.
func (p *Player) Play(volume float64) error {
	s, err := Beep(p.cfg, volume)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	p.mixer.Add(s)
	return nil
}

// Pending is the number of cues still in the mixer.
func (p *Player) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	return p.mixer.Len()
}

// Handle is an EventHandler for feedback beep notifications; every other
// event is ignored.
func (p *Player) Handle(e bus.Event) error {
	ev, ok := e.Data().(feedback.Event)
	if !ok || ev.Kind != feedback.KindBeep {
		return nil
	}
	return p.Play(ev.Volume)
}
