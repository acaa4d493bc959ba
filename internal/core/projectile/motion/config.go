package motion

import (
	"fmt"
	"strings"

	"github.com/zeusync/ricochet/internal/core/systems/physics"
)

// Mode is the primary motion model driving translation.
type Mode uint8

const (
	ModeStraight Mode = iota
	ModeWave
	ModeSpiral
	ModeMissileArc
)

func (m Mode) String() string {
	switch m {
	case ModeStraight:
		return "straight"
	case ModeWave:
		return "wave"
	case ModeSpiral:
		return "spiral"
	case ModeMissileArc:
		return "missile_arc"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// ParseMode maps a preset name onto a Mode.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(name) {
	case "", "straight":
		return ModeStraight, nil
	case "wave":
		return ModeWave, nil
	case "spiral":
		return ModeSpiral, nil
	case "missile_arc", "missile-arc", "arc":
		return ModeMissileArc, nil
	default:
		return ModeStraight, fmt.Errorf("unknown motion mode %q", name)
	}
}

func (m Mode) MarshalYAML() (any, error) { return m.String(), nil }

func (m *Mode) UnmarshalYAML(unmarshal func(any) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	parsed, err := ParseMode(name)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// SpeedConfig covers base speed easing, acceleration and stall recovery.
type SpeedConfig struct {
	Initial float64 `yaml:"initial"`
	Max     float64 `yaml:"max"`
	// EaseDuration of zero keeps the base speed fixed at Initial.
	EaseDuration float64       `yaml:"ease_duration"`
	Curve        physics.Curve `yaml:"curve"`

	// Damping is the exponential rate pulling actual speed toward target
	// speed; zero snaps immediately.
	Damping float64 `yaml:"damping"`

	MinSpeed        float64 `yaml:"min_speed"`
	StallCooldown   float64 `yaml:"stall_cooldown"`
	PhysicsPriority float64 `yaml:"physics_priority"`

	AccelStep      float64 `yaml:"accel_step"`
	MaxBounceCount int     `yaml:"max_bounce_count"`
}

type WaveConfig struct {
	AmplitudeRatio float64 `yaml:"amplitude_ratio"`
	Frequency      float64 `yaml:"frequency"`
}

type SpiralConfig struct {
	RadiusRatio float64 `yaml:"radius_ratio"`
	Period      float64 `yaml:"period"`
}

// ArcConfig scripts the three missile-arc phases.
type ArcConfig struct {
	SlowDuration  float64 `yaml:"slow_duration"`
	SlowSpeed     float64 `yaml:"slow_speed"`
	CurveDuration float64 `yaml:"curve_duration"`
	BulgeRatio    float64 `yaml:"bulge_ratio"`
	// Side selects the bulge direction: +1 left of the track, -1 right.
	Side           float64 `yaml:"side"`
	TerminalSpeed  float64 `yaml:"terminal_speed"`
	TerminalOffset float64 `yaml:"terminal_offset"`
}

// Mirrored returns the configuration with the bulge on the other side.
func (a ArcConfig) Mirrored() ArcConfig {
	a.Side = -a.side()
	return a
}

func (a ArcConfig) side() float64 {
	if a.Side < 0 {
		return -1
	}
	return 1
}

type Config struct {
	Mode   Mode         `yaml:"mode"`
	Speed  SpeedConfig  `yaml:"speed"`
	Wave   WaveConfig   `yaml:"wave"`
	Spiral SpiralConfig `yaml:"spiral"`
	Arc    ArcConfig    `yaml:"arc"`
}

const (
	minSpeed         = 0.01
	minPeriod        = 0.05
	minCurveDuration = 0.01
)

// Normalize clamps unusable values to safe minimums and reports which
// fields were touched.
func (c Config) Normalize() (Config, []string) {
	var clamped []string
	clamp := func(name string, v *float64, lo float64) {
		if !(*v >= lo) {
			*v = lo
			clamped = append(clamped, name)
		}
	}

	clamp("speed.initial", &c.Speed.Initial, minSpeed)
	if c.Speed.Max < c.Speed.Initial {
		c.Speed.Max = c.Speed.Initial
		clamped = append(clamped, "speed.max")
	}
	clamp("speed.ease_duration", &c.Speed.EaseDuration, 0)
	clamp("speed.damping", &c.Speed.Damping, 0)
	clamp("speed.min_speed", &c.Speed.MinSpeed, 0)
	clamp("speed.stall_cooldown", &c.Speed.StallCooldown, 0)
	clamp("speed.physics_priority", &c.Speed.PhysicsPriority, 0)
	clamp("speed.accel_step", &c.Speed.AccelStep, 0)
	if c.Speed.MaxBounceCount < 0 {
		c.Speed.MaxBounceCount = 0
		clamped = append(clamped, "speed.max_bounce_count")
	}

	clamp("wave.amplitude_ratio", &c.Wave.AmplitudeRatio, 0)
	clamp("wave.frequency", &c.Wave.Frequency, 0)
	clamp("spiral.radius_ratio", &c.Spiral.RadiusRatio, 0)
	clamp("spiral.period", &c.Spiral.Period, minPeriod)

	clamp("arc.slow_duration", &c.Arc.SlowDuration, 0)
	clamp("arc.slow_speed", &c.Arc.SlowSpeed, minSpeed)
	clamp("arc.curve_duration", &c.Arc.CurveDuration, minCurveDuration)
	clamp("arc.bulge_ratio", &c.Arc.BulgeRatio, 0)
	clamp("arc.terminal_speed", &c.Arc.TerminalSpeed, minSpeed)
	clamp("arc.terminal_offset", &c.Arc.TerminalOffset, 0)
	c.Arc.Side = c.Arc.side()
	return c, clamped
}
