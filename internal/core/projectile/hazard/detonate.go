package hazard

import (
	"github.com/zeusync/ricochet/internal/core/projectile/contact"
	"github.com/zeusync/ricochet/internal/core/systems/physics"
	"github.com/zeusync/ricochet/pkg/generic"
)

// OverlapQuery is the physics engine's circular overlap query.
type OverlapQuery interface {
	OverlapCircle(center physics.Vec2, radius float64, mask physics.LayerMask) []contact.Object
}

// OverlapFunc adapts a function to OverlapQuery.
type OverlapFunc func(center physics.Vec2, radius float64, mask physics.LayerMask) []contact.Object

func (f OverlapFunc) OverlapCircle(center physics.Vec2, radius float64, mask physics.LayerMask) []contact.Object {
	return f(center, radius, mask)
}

// Hit is one damaged receiver.
type Hit struct {
	Receiver contact.ObjectID
	Category contact.Category
}

// Report summarizes a detonation.
type Report struct {
	Center physics.Vec2
	Radius float64
	Hits   []Hit
}

var visitedPool = generic.NewSetPool[contact.ObjectID](16)

// Detonate runs one overlap query and damages every distinct receiver once.
// Enemies resolve by strict priority (hit part, damage receiver, legacy
// stats); walls, players and floors take the first damage receiver in
// their ancestor chain. A nil query yields an empty report.
func Detonate(query OverlapQuery, classifier *contact.Classifier, center physics.Vec2, radius, damage float64, mask physics.LayerMask) Report {
	report := Report{Center: center, Radius: radius}
	if query == nil || classifier == nil {
		return report
	}

	visited := visitedPool.Get()
	defer visitedPool.Put(visited)

	depth := classifier.MaxDepth()
	for _, obj := range query.OverlapCircle(center, radius, mask) {
		class := classifier.Classify(obj)
		var (
			receiver contact.Receiver
			ok       bool
		)
		switch class.Category {
		case contact.CategoryEnemy:
			receiver, ok = contact.ResolveEnemy(obj, depth)
		case contact.CategoryWall, contact.CategoryPlayerFloor:
			receiver, ok = contact.ResolveDamageable(obj, depth)
		default:
		}
		if !ok || !visited.Add(receiver.Subject.ObjectID()) {
			continue
		}
		receiver.Apply(damage, center)
		report.Hits = append(report.Hits, Hit{Receiver: receiver.Subject.ObjectID(), Category: class.Category})
	}
	return report
}
