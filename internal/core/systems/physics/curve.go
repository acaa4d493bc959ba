package physics

import (
	"fmt"
	"math"
)

// Curve is a monotonic easing function mapping [0,1] onto [0,1].
type Curve uint8

const (
	CurveLinear Curve = iota
	CurveEaseIn
	CurveEaseOut
	CurveEaseInOut
)

// Eval evaluates the curve at t; t is clamped to [0,1].
func (c Curve) Eval(t float64) float64 {
	t = Clamp01(t)
	switch c {
	case CurveEaseIn:
		return t * t
	case CurveEaseOut:
		return 1 - (1-t)*(1-t)
	case CurveEaseInOut:
		return t * t * (3 - 2*t)
	default:
		return t
	}
}

func (c Curve) String() string {
	switch c {
	case CurveLinear:
		return "linear"
	case CurveEaseIn:
		return "ease_in"
	case CurveEaseOut:
		return "ease_out"
	case CurveEaseInOut:
		return "ease_in_out"
	default:
		return fmt.Sprintf("curve(%d)", uint8(c))
	}
}

// ParseCurve maps a preset name onto a Curve.
func ParseCurve(name string) (Curve, error) {
	switch name {
	case "", "linear":
		return CurveLinear, nil
	case "ease_in":
		return CurveEaseIn, nil
	case "ease_out":
		return CurveEaseOut, nil
	case "ease_in_out", "smoothstep":
		return CurveEaseInOut, nil
	default:
		return CurveLinear, fmt.Errorf("unknown curve %q", name)
	}
}

// MarshalYAML encodes the curve by name.
func (c Curve) MarshalYAML() (any, error) { return c.String(), nil }

// UnmarshalYAML decodes the curve from its name.
func (c *Curve) UnmarshalYAML(unmarshal func(any) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	parsed, err := ParseCurve(name)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// SineEnvelope is zero at both ends of [0,1] and one in the middle.
func SineEnvelope(t float64) float64 { return math.Sin(math.Pi * Clamp01(t)) }
