// Package motion composes one authoritative velocity per tick from the
// active primary mode, base speed easing, acceleration and stall recovery.
package motion

import (
	"math"

	"github.com/zeusync/ricochet/internal/core/random"
	"github.com/zeusync/ricochet/internal/core/sequence"
	"github.com/zeusync/ricochet/internal/core/systems/physics"
)

// Target is a tracked position provider (usually the player).
type Target interface {
	Position() physics.Vec2
}

// Composer owns the velocity of one physics body. All timing arguments are
// scaled session time.
type Composer struct {
	cfg  Config
	body physics.Body
	rng  *random.Stream

	mode    Mode
	dir     physics.Vec2
	lastDir physics.Vec2
	forward physics.Vec2

	startedAt float64
	speed     float64
	target    float64

	accelCount int
	accelMul   float64

	priorityUntil float64
	lastStallFix  float64
	override      float64

	wavePhase   float64
	spiralAngle float64
	spiralSign  float64

	arc      sequence.Machine
	arcCfg   ArcConfig
	tracked  Target
	arcAim   physics.Vec2
	hasAim   bool
	velocity physics.Vec2
}

// NewComposer builds a composer heading along direction. body, rng and the
// direction may be zero values.
func NewComposer(cfg Config, body physics.Body, direction physics.Vec2, rng *random.Stream, now float64) *Composer {
	cfg, _ = cfg.Normalize()
	dir := direction.Normalized()
	if dir.IsZero() {
		dir = physics.Vec2{Y: -1}
	}
	c := &Composer{
		cfg:          cfg,
		body:         body,
		rng:          rng,
		dir:          dir,
		lastDir:      dir,
		forward:      dir,
		startedAt:    now,
		speed:        cfg.Speed.Initial,
		target:       cfg.Speed.Initial,
		accelMul:     1,
		lastStallFix: math.Inf(-1),
		arcCfg:       cfg.Arc,
	}
	c.velocity = dir.Scale(c.speed)
	if body != nil {
		body.SetVelocity(c.velocity)
	}
	c.SetMode(cfg.Mode, now, 0)
	return c
}

func (c *Composer) Mode() Mode                  { return c.mode }
func (c *Composer) Direction() physics.Vec2     { return c.dir }
func (c *Composer) LastDirection() physics.Vec2 { return c.lastDir }
func (c *Composer) Forward() physics.Vec2       { return c.forward }
func (c *Composer) Speed() float64              { return c.speed }
func (c *Composer) TargetSpeed() float64        { return c.target }
func (c *Composer) Velocity() physics.Vec2      { return c.velocity }
func (c *Composer) AccelMultiplier() float64    { return c.accelMul }
func (c *Composer) AccelCount() int             { return c.accelCount }
func (c *Composer) Config() Config              { return c.cfg }

// SetBody swaps the physics handle; nil leaves the composer running on
// directions only.
func (c *Composer) SetBody(body physics.Body) { c.body = body }

// SetTarget sets the tracked target; nil makes tracking fall back to the
// last known direction.
func (c *Composer) SetTarget(t Target) { c.tracked = t }

// SetArc replaces the missile-arc script used by the next activation.
func (c *Composer) SetArc(a ArcConfig) { c.arcCfg = a }

func (c *Composer) Arc() ArcConfig { return c.arcCfg }

// SetMode switches the primary mode and re-bases the forward axis on the
// last nonzero velocity.
func (c *Composer) SetMode(mode Mode, now float64, tick int64) {
	if c.mode == ModeMissileArc && mode != ModeMissileArc {
		c.arc.Cancel()
	}
	c.rebase()
	c.mode = mode
	c.wavePhase = 0
	c.spiralAngle = 0

	switch mode {
	case ModeSpiral:
		c.spiralSign = 1
		if c.rng != nil {
			c.spiralSign = c.rng.Sign()
		}
	case ModeMissileArc:
		c.arc.Reset()
		c.hasAim = false
		c.arc.Start(arcSlow, now, tick)
	default:
	}
}

// InArc reports whether a missile-arc sequence is still progressing.
func (c *Composer) InArc() bool { return c.mode == ModeMissileArc && c.arc.Enabled() }

// CancelArc halts the missile-arc sequence and continues straight along the
// last direction.
func (c *Composer) CancelArc(now float64, tick int64) {
	if c.mode != ModeMissileArc {
		return
	}
	c.arc.Cancel()
	c.SetMode(ModeStraight, now, tick)
}

// Accelerate bumps the acceleration multiplier; the resulting target speed
// is capped at initial speed times the bounce count.
func (c *Composer) Accelerate() float64 {
	c.accelCount++
	c.accelMul = 1 + float64(c.accelCount)*c.cfg.Speed.AccelStep
	return c.accelMul
}

// Deflect records an externally imposed velocity change (wall, paddle,
// peer) and hands the body to physics for the priority window.
func (c *Composer) Deflect(v physics.Vec2, now float64) {
	c.priorityUntil = now + c.cfg.Speed.PhysicsPriority
	if !v.IsZero() {
		c.dir = v.Normalized()
		c.lastDir = c.dir
		c.forward = c.dir
	}
}

// Redirect imposes a new heading at the current speed, as a paddle does.
func (c *Composer) Redirect(direction physics.Vec2, now float64, tick int64) {
	dir := direction.Normalized()
	if dir.IsZero() {
		dir = c.lastDir.Scale(-1)
	}
	if c.mode == ModeMissileArc {
		c.arc.Cancel()
		c.mode = ModeStraight
	}
	speed := math.Max(c.speed, c.target)
	c.velocity = dir.Scale(speed)
	c.writeVelocity(c.velocity)
	c.Deflect(c.velocity, now)
}

// OverrideSpeed pins the speed (telegraph phases); zero clears the override.
func (c *Composer) OverrideSpeed(speed float64) {
	if speed < 0 {
		speed = 0
	}
	c.override = speed
}

// InPhysicsPriority reports whether externally imposed velocity is
// currently left untouched.
func (c *Composer) InPhysicsPriority(now float64) bool { return now < c.priorityUntil }

// BaseSpeed evaluates the eased base speed at now.
func (c *Composer) BaseSpeed(now float64) float64 {
	s := c.cfg.Speed
	if s.EaseDuration <= 0 {
		return s.Initial
	}
	t := (now - c.startedAt) / s.EaseDuration
	return physics.Lerp(s.Initial, s.Max, s.Curve.Eval(t))
}

// SpeedCap is the acceleration ceiling, or +Inf when unbounded.
func (c *Composer) SpeedCap() float64 {
	if c.cfg.Speed.MaxBounceCount <= 0 {
		return math.Inf(1)
	}
	return c.cfg.Speed.Initial * float64(c.cfg.Speed.MaxBounceCount)
}

// Update composes this tick's velocity and writes it to the body.
func (c *Composer) Update(now, dt float64, tick int64) physics.Vec2 {
	current := c.velocity
	if c.body != nil {
		current = c.body.Velocity()
	}
	if !current.IsZero() {
		c.lastDir = current.Normalized()
	}

	c.target = c.BaseSpeed(now) * c.accelMul
	if limit := c.SpeedCap(); c.target > limit {
		c.target = limit
	}
	if c.override > 0 {
		c.target = c.override
	}

	if c.InPhysicsPriority(now) {
		c.velocity = current
		if !current.IsZero() {
			c.dir = c.lastDir
			c.forward = c.dir
		}
		c.speed = current.Len()
		return current
	}

	if current.Len() < c.cfg.Speed.MinSpeed && now-c.lastStallFix >= c.cfg.Speed.StallCooldown {
		c.lastStallFix = now
		c.dir = c.lastDir
		c.speed = c.target
		c.velocity = c.lastDir.Scale(c.target)
		c.writeVelocity(c.velocity)
		return c.velocity
	}

	actual := c.speed
	if c.mode == ModeStraight {
		actual = current.Len()
	}
	c.speed = physics.Damp(actual, c.target, c.cfg.Speed.Damping, dt)

	var v physics.Vec2
	switch c.mode {
	case ModeWave:
		v = c.wave(dt)
	case ModeSpiral:
		v = c.spiral(dt)
	case ModeMissileArc:
		v = c.missileArc(now, tick)
	default:
		c.dir = c.lastDir
		v = c.dir.Scale(c.speed)
	}
	if v.IsZero() || math.IsNaN(v.X) || math.IsNaN(v.Y) {
		v = c.lastDir.Scale(math.Max(c.speed, c.cfg.Speed.Initial))
	}
	c.velocity = v
	c.writeVelocity(v)
	return v
}

func (c *Composer) wave(dt float64) physics.Vec2 {
	w := c.cfg.Wave
	c.wavePhase += 2 * math.Pi * w.Frequency * dt
	lateral := c.forward.Perp().Scale(c.target * w.AmplitudeRatio * math.Sin(c.wavePhase))
	c.dir = c.forward
	return c.forward.Scale(c.speed).Add(lateral)
}

func (c *Composer) spiral(dt float64) physics.Vec2 {
	s := c.cfg.Spiral
	omega := 2 * math.Pi / s.Period * (c.target / c.cfg.Speed.Initial)
	c.spiralAngle += c.spiralSign * omega * dt
	tangential := c.forward.Rotate(c.spiralAngle).Scale(c.target * s.RadiusRatio)
	c.dir = c.forward
	return c.forward.Scale(c.speed).Add(tangential)
}

func (c *Composer) rebase() {
	base := c.velocity
	if c.body != nil {
		base = c.body.Velocity()
	}
	if !base.IsZero() {
		c.lastDir = base.Normalized()
	}
	c.forward = c.lastDir
	c.dir = c.lastDir
}

func (c *Composer) writeVelocity(v physics.Vec2) {
	if c.body != nil {
		c.body.SetVelocity(v)
	}
}

func (c *Composer) position() physics.Vec2 {
	if c.body == nil {
		return physics.Vec2{}
	}
	return c.body.Position()
}
