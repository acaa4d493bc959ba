package projectile

import (
	"github.com/zeusync/ricochet/internal/core/projectile/hazard"
	"github.com/zeusync/ricochet/internal/core/projectile/motion"
)

const (
	maxWallAngleDeg   = 45
	minTelegraphSpeed = 0.01
)

// Range is an inclusive [Min, Max] interval for randomized delays.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

func (r Range) normalize() (Range, bool) {
	touched := false
	if r.Max < r.Min {
		r.Min, r.Max = r.Max, r.Min
		touched = true
	}
	if !(r.Min >= 0) {
		r.Min = 0
		touched = true
	}
	if !(r.Max >= r.Min) {
		r.Max = r.Min
		touched = true
	}
	return r, touched
}

// WarpConfig schedules one teleport: travel for Delay, stay inert for
// InertDuration, then reappear with a horizontal jitter.
type WarpConfig struct {
	Enabled       bool    `yaml:"enabled"`
	Delay         float64 `yaml:"delay"`
	InertDuration float64 `yaml:"inert_duration"`
	Jitter        float64 `yaml:"jitter"`
}

// WarheadConfig schedules the split into two missile-arc children.
type WarheadConfig struct {
	Enabled        bool    `yaml:"enabled"`
	SlowDuration   float64 `yaml:"slow_duration"`
	TelegraphSpeed float64 `yaml:"telegraph_speed"`
	ChildDelayA    Range   `yaml:"child_delay_a"`
	ChildDelayB    Range   `yaml:"child_delay_b"`
	// Grace keeps the inert parent alive after the later child spawned.
	Grace float64 `yaml:"grace"`
}

// Settings is everything a spawner configures on one projectile.
type Settings struct {
	Motion motion.Config `yaml:"motion"`

	BounceLimit      int     `yaml:"bounce_limit"`
	Lifetime         float64 `yaml:"lifetime"`
	OwnerGrace       float64 `yaml:"owner_grace"`
	Damage           float64 `yaml:"damage"`
	DamageMultiplier float64 `yaml:"damage_multiplier"`
	Penetration      bool    `yaml:"penetration"`
	WallMinAngleDeg  float64 `yaml:"wall_min_angle_deg"`

	DisablePeerTieBreak bool `yaml:"disable_peer_tie_break"`

	Countdown hazard.Config `yaml:"countdown"`
	Warp      WarpConfig    `yaml:"warp"`
	Warhead   WarheadConfig `yaml:"warhead"`
}

// Normalize clamps every unusable value and returns the names of the
// fields it touched.
func (s Settings) Normalize() (Settings, []string) {
	var clamped []string
	clamp := func(name string, v *float64, lo float64) {
		if !(*v >= lo) {
			*v = lo
			clamped = append(clamped, name)
		}
	}

	var touched []string
	s.Motion, touched = s.Motion.Normalize()
	clamped = append(clamped, touched...)
	s.Countdown, touched = s.Countdown.Normalize()
	clamped = append(clamped, touched...)

	clamp("lifetime", &s.Lifetime, 0)
	clamp("owner_grace", &s.OwnerGrace, 0)
	clamp("damage", &s.Damage, 0)
	if !(s.DamageMultiplier > 0) {
		s.DamageMultiplier = 1
		clamped = append(clamped, "damage_multiplier")
	}
	clamp("wall_min_angle_deg", &s.WallMinAngleDeg, 0)
	if s.WallMinAngleDeg > maxWallAngleDeg {
		s.WallMinAngleDeg = maxWallAngleDeg
		clamped = append(clamped, "wall_min_angle_deg")
	}

	clamp("warp.delay", &s.Warp.Delay, 0)
	clamp("warp.inert_duration", &s.Warp.InertDuration, 0)
	clamp("warp.jitter", &s.Warp.Jitter, 0)

	clamp("warhead.slow_duration", &s.Warhead.SlowDuration, 0)
	// Zero releases the composer speed override.
	if s.Warhead.Enabled {
		clamp("warhead.telegraph_speed", &s.Warhead.TelegraphSpeed, minTelegraphSpeed)
	} else {
		clamp("warhead.telegraph_speed", &s.Warhead.TelegraphSpeed, 0)
	}
	clamp("warhead.grace", &s.Warhead.Grace, 0)
	var ok bool
	if s.Warhead.ChildDelayA, ok = s.Warhead.ChildDelayA.normalize(); ok {
		clamped = append(clamped, "warhead.child_delay_a")
	}
	if s.Warhead.ChildDelayB, ok = s.Warhead.ChildDelayB.normalize(); ok {
		clamped = append(clamped, "warhead.child_delay_b")
	}
	return s, clamped
}

// child derives a warhead child's settings: missile-arc motion with the
// parent's arc (mirrored for the second child) and the parent's
// penetration. Children never split or warp again.
func (s Settings) child(mirrored bool) Settings {
	c := s
	c.Warhead = WarheadConfig{}
	c.Warp = WarpConfig{}
	c.Motion.Mode = motion.ModeMissileArc
	if mirrored {
		c.Motion.Arc = s.Motion.Arc.Mirrored()
	}
	return c
}
