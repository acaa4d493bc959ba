package contact

import "github.com/zeusync/ricochet/internal/core/systems/physics"

// Receiver is a resolved damage entry point.
type Receiver struct {
	Subject Object
	apply   func(amount float64, source physics.Vec2)
}

// Apply delivers damage from source.
func (r Receiver) Apply(amount float64, source physics.Vec2) {
	if r.apply != nil {
		r.apply(amount, source)
	}
}

// ResolveEnemy picks the enemy receiver by strict priority: a specialized
// hit part, then a generic damage receiver, then legacy stats.
func ResolveEnemy(obj Object, maxDepth int) (Receiver, bool) {
	if part, subject, ok := Find[HitPart](obj, maxDepth); ok {
		return Receiver{Subject: subject, apply: part.TakePartHit}, true
	}
	if r, ok := ResolveDamageable(obj, maxDepth); ok {
		return r, true
	}
	if stats, subject, ok := Find[LegacyStats](obj, maxDepth); ok {
		return Receiver{Subject: subject, apply: func(amount float64, _ physics.Vec2) { stats.ApplyDamage(amount) }}, true
	}
	return Receiver{}, false
}

// ResolveDamageable picks the first damage receiver in the ancestor chain.
func ResolveDamageable(obj Object, maxDepth int) (Receiver, bool) {
	if d, subject, ok := Find[Damageable](obj, maxDepth); ok {
		return Receiver{Subject: subject, apply: d.TakeDamage}, true
	}
	return Receiver{}, false
}
