package hazard

import "github.com/zeusync/ricochet/internal/core/systems/physics"

const (
	minRadius  = 0.1
	minBlinkHz = 0.5
)

// Config describes one projectile's countdown detonation.
type Config struct {
	Enabled bool `yaml:"enabled"`
	// Delay of zero leaves only contact-triggered detonation.
	Delay  float64           `yaml:"delay"`
	Radius float64           `yaml:"radius"`
	Damage float64           `yaml:"damage"`
	Mask   physics.LayerMask `yaml:"mask"`

	BlinkThreshold float64 `yaml:"blink_threshold"`
	BlinkMinHz     float64 `yaml:"blink_min_hz"`
	BlinkMaxHz     float64 `yaml:"blink_max_hz"`
}

// Normalize clamps unusable values to safe minimums.
func (c Config) Normalize() (Config, []string) {
	var clamped []string
	clamp := func(name string, v *float64, lo float64) {
		if !(*v >= lo) {
			*v = lo
			clamped = append(clamped, name)
		}
	}
	clamp("countdown.delay", &c.Delay, 0)
	clamp("countdown.radius", &c.Radius, minRadius)
	clamp("countdown.damage", &c.Damage, 0)
	clamp("countdown.blink_threshold", &c.BlinkThreshold, 0)
	clamp("countdown.blink_min_hz", &c.BlinkMinHz, minBlinkHz)
	clamp("countdown.blink_max_hz", &c.BlinkMaxHz, c.BlinkMinHz)
	return c, clamped
}

// BeepConfig bounds concurrent countdown beeps across a session.
type BeepConfig struct {
	MaxConcurrent int     `yaml:"max_concurrent"`
	MinSpacing    float64 `yaml:"min_spacing"`
	Duration      float64 `yaml:"duration"`
	BaseVolume    float64 `yaml:"base_volume"`
}

func DefaultBeepConfig() BeepConfig {
	return BeepConfig{
		MaxConcurrent: 4,
		MinSpacing:    0.05,
		Duration:      0.06,
		BaseVolume:    1,
	}
}

func (c BeepConfig) Normalize() (BeepConfig, []string) {
	var clamped []string
	if c.MaxConcurrent < 1 {
		c.MaxConcurrent = 1
		clamped = append(clamped, "beep.max_concurrent")
	}
	if !(c.MinSpacing >= 0) {
		c.MinSpacing = 0
		clamped = append(clamped, "beep.min_spacing")
	}
	if !(c.Duration > 0) {
		c.Duration = 0.01
		clamped = append(clamped, "beep.duration")
	}
	if !(c.BaseVolume >= 0) || c.BaseVolume > 1 {
		c.BaseVolume = physics.Clamp01(c.BaseVolume)
		clamped = append(clamped, "beep.base_volume")
	}
	return c, clamped
}
