// Package hazard implements the countdown area detonation: arming, cue
// escalation, beep budgeting and the single-shot overlap damage pass.
package hazard

import (
	"math"

	"github.com/zeusync/ricochet/internal/core/systems/physics"
)

// Step is what one countdown tick asks its owner to do.
type Step struct {
	// Detonate is set once, on the tick the timer runs out.
	Detonate bool
	// Indicator is the radius to redraw; zero when not armed.
	Indicator float64
	// Blink is set when the visibility flips this tick.
	Blink   bool
	Visible bool
	// Beep is set at the start of each blink cycle.
	Beep bool
	// Rate is the current blink frequency in Hz.
	Rate float64
}

// Countdown is the per-projectile timer. It is single-shot: once triggered
// it never arms again.
type Countdown struct {
	cfg Config

	armed     bool
	triggered bool
	armedAt   float64

	visible    bool
	nextToggle float64
	blinking   bool
}

func NewCountdown(cfg Config) *Countdown {
	cfg, _ = cfg.Normalize()
	return &Countdown{cfg: cfg, visible: true}
}

func (c *Countdown) Config() Config  { return c.cfg }
func (c *Countdown) Armed() bool     { return c.armed }
func (c *Countdown) Triggered() bool { return c.triggered }
func (c *Countdown) Visible() bool   { return c.visible }

// Arm starts (or restarts) the timer at now.
func (c *Countdown) Arm(now float64) bool {
	if c.triggered {
		return false
	}
	c.armed = true
	c.armedAt = now
	c.visible = true
	c.blinking = false
	return true
}

// Remaining returns the time left, or +Inf for a contact-only countdown.
func (c *Countdown) Remaining(now float64) float64 {
	if !c.armed {
		return 0
	}
	if c.cfg.Delay <= 0 {
		return math.Inf(1)
	}
	return max(0, c.cfg.Delay-(now-c.armedAt))
}

// Trigger consumes the countdown. It returns true only for the first call
// on an armed countdown, whatever caused it.
func (c *Countdown) Trigger() bool {
	if !c.armed || c.triggered {
		return false
	}
	c.triggered = true
	c.armed = false
	return true
}

// Disarm tears the cues down without detonating.
func (c *Countdown) Disarm() {
	c.armed = false
	c.blinking = false
	c.visible = true
}

// BlinkRate interpolates the blink frequency as time runs out.
func (c *Countdown) BlinkRate(remaining float64) float64 {
	if c.cfg.BlinkThreshold <= 0 {
		return 0
	}
	progress := 1 - physics.Clamp01(remaining/c.cfg.BlinkThreshold)
	return physics.Lerp(c.cfg.BlinkMinHz, c.cfg.BlinkMaxHz, progress)
}

// Tick advances cue escalation and reports whether the timer expired.
func (c *Countdown) Tick(now float64) Step {
	if !c.armed {
		return Step{Visible: c.visible}
	}
	step := Step{Indicator: c.cfg.Radius}
	remaining := c.Remaining(now)

	if c.cfg.Delay > 0 && remaining <= 0 {
		step.Detonate = c.Trigger()
		step.Visible = c.visible
		return step
	}

	if remaining < c.cfg.BlinkThreshold {
		rate := c.BlinkRate(remaining)
		step.Rate = rate
		if !c.blinking || now >= c.nextToggle {
			c.blinking = true
			c.visible = !c.visible
			c.nextToggle = now + 0.5/rate
			step.Blink = true
			step.Beep = !c.visible
		}
	}
	step.Visible = c.visible
	return step
}
