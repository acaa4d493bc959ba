package projectile

import (
	"github.com/zeusync/ricochet/internal/core/feedback"
	"github.com/zeusync/ricochet/internal/core/sequence"
	"github.com/zeusync/ricochet/internal/core/systems/physics"
)

const (
	warpTravel sequence.Phase = iota + 1
	warpInert
)

// PatrolTarget is a target that also exposes the area it patrols. Warp
// aims at a random point inside it.
type PatrolTarget interface {
	Position() physics.Vec2
	PatrolArea() (lo, hi physics.Vec2)
}

func (p *Projectile) startWarp(now float64, tick int64) {
	if p.settings.Warp.Enabled {
		p.warp.Start(warpTravel, now, tick)
	}
}

func (p *Projectile) stepWarp(now float64, tick int64) {
	cfg := p.settings.Warp
	switch {
	case p.warp.In(warpTravel):
		if !p.warp.Waited(now, cfg.Delay) {
			return
		}
		p.goInert()
		p.notify(feedback.Event{Kind: feedback.KindWarpDisappear})
		p.warp.Advance(warpInert, now, tick)

	case p.warp.In(warpInert):
		if !p.warp.Waited(now, cfg.InertDuration) {
			return
		}
		pos := p.body.Position()
		if cfg.Jitter > 0 {
			pos.X += p.warpRng.Range(-cfg.Jitter, cfg.Jitter)
		}
		p.body.SetPosition(pos)
		p.wake()
		p.composer.Redirect(p.warpHeading(pos), now, tick)
		p.notify(feedback.Event{Kind: feedback.KindWarpReappear})
		p.warp.Finish()
	}
}

// CancelWarp stops a pending warp. An inert projectile is restored in place.
func (p *Projectile) CancelWarp() {
	if !p.warp.Enabled() {
		return
	}
	if p.warp.Cancel() == warpInert && !p.destroying {
		p.wake()
	}
	p.warp.Finish()
}

func (p *Projectile) warpHeading(from physics.Vec2) physics.Vec2 {
	var aim physics.Vec2
	switch t := p.target.(type) {
	case PatrolTarget:
		lo, hi := t.PatrolArea()
		aim = physics.Vec2{X: p.warpRng.Range(lo.X, hi.X), Y: p.warpRng.Range(lo.Y, hi.Y)}
	case nil:
		return p.composer.LastDirection()
	default:
		aim = t.Position()
	}
	dir := aim.Sub(from).Normalized()
	if dir.IsZero() {
		return p.composer.LastDirection()
	}
	return dir
}

// goInert parks the projectile in place with its collider off.
func (p *Projectile) goInert() {
	p.inert = true
	p.visible = false
	p.body.SetVelocity(physics.Vec2{})
	p.body.SetColliderEnabled(false)
}

func (p *Projectile) wake() {
	p.inert = false
	p.visible = !p.countdown.Armed() || p.countdown.Visible()
	p.body.SetColliderEnabled(true)
}
