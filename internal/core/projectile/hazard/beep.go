package hazard

import (
	"math"
	"slices"
)

// BeepGovernor caps countdown beeps across one session: a concurrent-beep
// limit, a minimum spacing between beeps and loudness attenuated by the
// square root of active beeps.
type BeepGovernor struct {
	cfg      BeepConfig
	active   []float64
	lastBeep float64
}

func NewBeepGovernor(cfg BeepConfig) *BeepGovernor {
	cfg, _ = cfg.Normalize()
	return &BeepGovernor{cfg: cfg, lastBeep: math.Inf(-1)}
}

func (g *BeepGovernor) Config() BeepConfig { return g.cfg }

// TryBeep reserves a beep slot at now and returns its volume.
func (g *BeepGovernor) TryBeep(now float64) (float64, bool) {
	g.Prune(now)
	if len(g.active) >= g.cfg.MaxConcurrent {
		return 0, false
	}
	if now-g.lastBeep < g.cfg.MinSpacing {
		return 0, false
	}
	g.active = append(g.active, now+g.cfg.Duration)
	g.lastBeep = now
	return g.cfg.BaseVolume / math.Sqrt(float64(len(g.active))), true
}

// Prune releases slots whose beep has finished.
func (g *BeepGovernor) Prune(now float64) {
	g.active = slices.DeleteFunc(g.active, func(end float64) bool { return end <= now })
}

func (g *BeepGovernor) Active() int { return len(g.active) }

func (g *BeepGovernor) Reset() {
	g.active = g.active[:0]
	g.lastBeep = math.Inf(-1)
}
