package physics

// Lightweight physics abstractions shared by the projectile core.
// The physics engine itself is external; these shapes are the only
// contract the core relies on.

// Body is the physics-engine handle owned by a projectile.
// Position and velocity are authoritative on the engine side; the core
// reads them every tick and writes velocity when it takes control.
type Body interface {
	Position() Vec2
	SetPosition(Vec2)
	Velocity() Vec2
	SetVelocity(Vec2)

	// ColliderEnabled reports whether contacts are currently generated.
	ColliderEnabled() bool
	SetColliderEnabled(bool)
}

// Layer identifies a collision layer (0..31).
type Layer uint8

// LayerMask is a bit set of layers.
type LayerMask uint32

// MaskOf builds a mask from individual layers.
func MaskOf(layers ...Layer) LayerMask {
	var m LayerMask
	for _, l := range layers {
		m |= 1 << (l & 31)
	}
	return m
}

// Has reports whether the layer is part of the mask.
func (m LayerMask) Has(l Layer) bool { return m&(1<<(l&31)) != 0 }
