package motion

import (
	"github.com/zeusync/ricochet/internal/core/sequence"
	"github.com/zeusync/ricochet/internal/core/systems/physics"
)

const (
	arcSlow sequence.Phase = iota + 1
	arcCurve
	arcTerminal
)

// ArcPhase exposes the active missile-arc phase for diagnostics.
func (c *Composer) ArcPhase() sequence.Phase {
	if c.mode != ModeMissileArc {
		return sequence.PhaseIdle
	}
	return c.arc.Phase()
}

// missileArc advances the scripted sequence and returns this tick's
// velocity. A phase transition observed this tick is acted on immediately.
func (c *Composer) missileArc(now float64, tick int64) physics.Vec2 {
	a := c.arcCfg
	if !c.arc.Enabled() {
		c.dir = c.lastDir
		return c.dir.Scale(c.speed)
	}

	if c.arc.In(arcSlow) {
		if !c.arc.Waited(now, a.SlowDuration) {
			c.dir, _ = c.trackTarget()
			c.speed = a.SlowSpeed
			return c.dir.Scale(a.SlowSpeed)
		}
		c.arc.Advance(arcCurve, now, tick)
	}

	if c.arc.In(arcCurve) {
		p := c.arc.Progress(now, a.CurveDuration)
		if p < 1 {
			track, ok := c.trackTarget()
			if !ok {
				c.dir = c.lastDir
				c.speed = physics.Lerp(a.SlowSpeed, a.TerminalSpeed, p)
				return c.dir.Scale(c.speed)
			}
			bulge := track.Perp().Scale(a.side() * a.BulgeRatio * physics.SineEnvelope(p))
			c.dir = track.Add(bulge).Normalized()
			if c.dir.IsZero() {
				c.dir = track
			}
			c.speed = physics.Lerp(a.SlowSpeed, a.TerminalSpeed, p)
			return c.dir.Scale(c.speed)
		}
		c.commitAim()
		c.arc.Advance(arcTerminal, now, tick)
	}

	c.speed = a.TerminalSpeed
	return c.dir.Scale(a.TerminalSpeed)
}

// commitAim fixes the terminal heading at the target's current position
// plus an optional one-time random offset.
func (c *Composer) commitAim() {
	if c.hasAim {
		return
	}
	c.hasAim = true
	if c.tracked == nil || c.body == nil {
		c.dir = c.lastDir
		return
	}
	aim := c.tracked.Position()
	if off := c.arcCfg.TerminalOffset; off > 0 && c.rng != nil {
		aim = aim.Add(physics.Vec2{X: c.rng.Range(-off, off), Y: c.rng.Range(-off, off)})
	}
	c.arcAim = aim
	if dir := aim.Sub(c.position()).Normalized(); !dir.IsZero() {
		c.dir = dir
	} else {
		c.dir = c.lastDir
	}
}

// trackTarget returns the unit vector toward the tracked target, or the
// last known direction when there is nothing to track.
func (c *Composer) trackTarget() (physics.Vec2, bool) {
	if c.tracked == nil || c.body == nil {
		return c.lastDir, false
	}
	dir := c.tracked.Position().Sub(c.position()).Normalized()
	if dir.IsZero() {
		return c.lastDir, false
	}
	return dir, true
}
