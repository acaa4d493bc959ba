package contact

import (
	"math"

	"github.com/zeusync/ricochet/internal/core/systems/physics"
)

// MaxClampAngle is the largest minimum angle for which both components can
// satisfy the bound at once.
const MaxClampAngle = math.Pi / 4

// ClampWallAngle keeps both velocity components at or above
// sin(minAngle) × speed while preserving speed and component signs.
// fallback supplies signs for components that are exactly zero.
func ClampWallAngle(v physics.Vec2, minAngle float64, fallback physics.Vec2) physics.Vec2 {
	speed := v.Len()
	if speed < physics.Epsilon || minAngle <= 0 {
		return v
	}
	if minAngle > MaxClampAngle {
		minAngle = MaxClampAngle
	}
	floor := math.Sin(minAngle) * speed

	out := v
	if math.Abs(out.X) < floor {
		sx := signOr(out.X, fallback.X)
		sy := signOr(out.Y, fallback.Y)
		out.X = sx * floor
		out.Y = sy * math.Sqrt(math.Max(0, speed*speed-floor*floor))
	} else if math.Abs(out.Y) < floor {
		sx := signOr(out.X, fallback.X)
		sy := signOr(out.Y, fallback.Y)
		out.Y = sy * floor
		out.X = sx * math.Sqrt(math.Max(0, speed*speed-floor*floor))
	}
	return out
}

func signOr(v, fallback float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	case fallback < 0:
		return -1
	default:
		return 1
	}
}
