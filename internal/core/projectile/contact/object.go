package contact

import "github.com/zeusync/ricochet/internal/core/systems/physics"

// ObjectID is a stable identity of a collider or one of its ancestors.
type ObjectID uint64

// Object is a participant in a physical contact as reported by the physics
// engine. Capabilities are expressed by implementing the optional interfaces
// below; compound objects expose them on an ancestor reachable via Parent.
type Object interface {
	ObjectID() ObjectID
	Layer() physics.Layer
	// Parent returns the owning object, or nil at the root.
	Parent() Object
}

// Damageable accepts damage with a source position. Enemies, breakable walls,
// the player and the floor all expose this; the category decides the call.
type Damageable interface {
	TakeDamage(amount float64, source physics.Vec2)
}

// HitPart is a specialized enemy receiver (weak points, armour plates).
// It takes priority over a generic Damageable enemy during detonation.
type HitPart interface {
	TakePartHit(amount float64, source physics.Vec2)
}

// LegacyStats is the fallback enemy receiver with no positional information.
type LegacyStats interface {
	ApplyDamage(amount float64)
}

// Peer marks another projectile of the same type.
type Peer interface {
	PeerID() uint64
}

// DefaultMaxDepth bounds ancestor walks for compound objects.
const DefaultMaxDepth = 4

// Find walks obj and up to maxDepth ancestors and returns the first object
// for which match succeeds.
func Find[T any](obj Object, maxDepth int) (T, Object, bool) {
	var zero T
	for depth := 0; obj != nil && depth <= maxDepth; depth++ {
		if v, ok := obj.(T); ok {
			return v, obj, true
		}
		obj = obj.Parent()
	}
	return zero, nil, false
}

// FindLayer walks obj and its ancestors for a layer in mask.
func FindLayer(obj Object, mask physics.LayerMask, maxDepth int) (Object, bool) {
	for depth := 0; obj != nil && depth <= maxDepth; depth++ {
		if mask.Has(obj.Layer()) {
			return obj, true
		}
		obj = obj.Parent()
	}
	return nil, false
}

// Chain reports whether target is obj or one of its bounded ancestors.
func Chain(obj Object, target ObjectID, maxDepth int) bool {
	for depth := 0; obj != nil && depth <= maxDepth; depth++ {
		if obj.ObjectID() == target {
			return true
		}
		obj = obj.Parent()
	}
	return false
}
