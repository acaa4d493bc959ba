package projectile

import (
	"github.com/zeusync/ricochet/internal/core/systems"
	"github.com/zeusync/ricochet/internal/core/systems/physics"
)

// updateSystem advances timers, sequences and motion of every projectile.
// Projectiles spawned during the pass start on the next tick.
type updateSystem struct {
	session *Session
}

func (u *updateSystem) Name() string                           { return "projectile.update" }
func (u *updateSystem) Priority() systems.Priority             { return systems.PriorityHigh }
func (u *updateSystem) ExecutionPhase() systems.ExecutionPhase { return systems.PhaseUpdate }
func (u *updateSystem) Reset() error                           { return nil }

func (u *updateSystem) Update(deltaTime float64) error {
	now, tick := u.session.now()
	n := len(u.session.order)
	for i := 0; i < n; i++ {
		u.session.order[i].update(now, deltaTime, tick)
	}
	return nil
}

// integrateSystem moves the kinematic bodies the session owns.
type integrateSystem struct {
	session *Session
}

func (s *integrateSystem) Name() string                           { return "projectile.integrate" }
func (s *integrateSystem) Priority() systems.Priority             { return systems.PriorityNormal }
func (s *integrateSystem) ExecutionPhase() systems.ExecutionPhase { return systems.PhasePostUpdate }
func (s *integrateSystem) Reset() error                           { return nil }

func (s *integrateSystem) Update(deltaTime float64) error {
	for _, p := range s.session.order {
		if !p.integrate || p.destroying || p.inert {
			continue
		}
		if body, ok := p.body.(*physics.KinematicBody); ok {
			body.Integrate(deltaTime)
		}
	}
	return nil
}

// cleanupSystem removes destroyed projectiles in the same tick and prunes
// the session-scoped maps.
type cleanupSystem struct {
	session *Session
}

func (c *cleanupSystem) Name() string                           { return "projectile.cleanup" }
func (c *cleanupSystem) Priority() systems.Priority             { return systems.PriorityLow }
func (c *cleanupSystem) ExecutionPhase() systems.ExecutionPhase { return systems.PhaseLateUpdate }
func (c *cleanupSystem) Reset() error                           { return nil }

func (c *cleanupSystem) Update(float64) error {
	now := c.session.clock.Now()
	c.session.removeDestroyed()
	c.session.pairs.Prune(now)
	c.session.beeps.Prune(now)
	return nil
}
