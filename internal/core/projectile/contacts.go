package projectile

import (
	"github.com/zeusync/ricochet/internal/core/feedback"
	"github.com/zeusync/ricochet/internal/core/observability/log"
	"github.com/zeusync/ricochet/internal/core/projectile/contact"
	"github.com/zeusync/ricochet/internal/core/projectile/ledger"
	"github.com/zeusync/ricochet/internal/core/projectile/motion"
)

// OnContact interprets one raw physics contact. It is safe to call for
// every callback the engine produces: duplicates of one logical event are
// absorbed, and unknown objects are ignored.
func (p *Projectile) OnContact(other contact.Object) {
	if p.destroying || p.inert || other == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			p.logger.Debug("malformed contact dropped", log.Any("panic", r))
		}
	}()
	now, tick := p.session.now()
	depth := p.session.classifier.MaxDepth()

	if p.owner != nil && now-p.spawnedAt < p.settings.OwnerGrace &&
		contact.Chain(other, p.owner.ObjectID(), depth) {
		return
	}

	class := p.session.classifier.Classify(other)
	switch class.Category {
	case contact.CategoryWall:
		p.onWall(now, tick)
	case contact.CategoryPaddle:
		p.Reflect(p.body.Velocity(), 0)
	case contact.CategoryPlayerFloor:
		p.onPlayerFloor()
	case contact.CategoryPeer:
		p.onPeer(class.PeerID, now, tick)
	case contact.CategoryEnemy:
		p.onEnemy(other, now, tick)
	default:
		p.logger.Debug("contact ignored", log.String("category", class.Category.String()))
	}
}

func (p *Projectile) onWall(now float64, tick int64) {
	mode := p.composer.Mode()
	if tick != p.lastClampTick && mode != motion.ModeWave && mode != motion.ModeSpiral {
		p.lastClampTick = tick
		v := contact.ClampWallAngle(p.body.Velocity(), p.minWallAngle(), p.composer.LastDirection())
		p.body.SetVelocity(v)
	}
	p.composer.Deflect(p.body.Velocity(), now)

	if !p.reflected {
		return
	}
	res := p.ledger.RegisterBounceEvent(ledger.KindWall, tick)
	if res.Accepted {
		p.notify(feedback.Event{Kind: feedback.KindWallHit, Remaining: res.Remaining})
	}
	p.settleBounce(ledger.KindWall, res)
}

func (p *Projectile) onPlayerFloor() {
	if p.countdown.Armed() {
		p.Detonate()
		return
	}
	if p.reflected {
		return
	}
	p.notify(feedback.Event{Kind: feedback.KindUnreflectedDisappear})
	p.destroy(ReasonUnreflected)
}

func (p *Projectile) onEnemy(other contact.Object, now float64, tick int64) {
	if !p.reflected {
		return
	}
	receiver, ok := contact.ResolveEnemy(other, p.session.classifier.MaxDepth())
	if !ok {
		return
	}
	id := receiver.Subject.ObjectID()
	if last, seen := p.enemyTicks[id]; seen && last == tick {
		return
	}
	p.enemyTicks[id] = tick

	receiver.Apply(p.settings.Damage*p.damageMul, p.body.Position())
	p.notify(feedback.Event{Kind: feedback.KindEnemyHit})
	if p.Empowered() {
		p.notify(feedback.Event{Kind: feedback.KindEmpoweredHit})
	}
	if p.settings.Penetration {
		return
	}
	p.composer.Deflect(p.body.Velocity(), now)
	p.registerBounce(ledger.KindEnemy, tick)
}

// onPeer resolves a contact with another projectile of the same type.
// Both sides report the contact, so the pair cooldown lets exactly one
// callback act for the pair; repeats in the window are ignored entirely.
func (p *Projectile) onPeer(peerID uint64, now float64, tick int64) {
	other := p.session.projectiles[peerID]
	if other == nil || other == p || other.destroying {
		return
	}
	if !p.reflected && !other.reflected {
		return
	}
	if !p.session.pairs.TryAcquire(p.id, other.id, now) {
		return
	}

	if !p.settings.DisablePeerTieBreak {
		switch contact.ResolvePeers(p.peerState(), other.peerState()) {
		case contact.OutcomeDestroyBoth:
			p.destroy(ReasonTieBreak)
			other.destroy(ReasonTieBreak)
			return
		case contact.OutcomeDestroyFirst:
			p.destroy(ReasonTieBreak)
			return
		case contact.OutcomeDestroySecond:
			other.destroy(ReasonTieBreak)
			return
		default:
		}
	}

	for _, side := range [2]*Projectile{p, other} {
		if side.reflected && !side.destroying {
			side.composer.Deflect(side.body.Velocity(), now)
			side.registerBounce(ledger.KindPeer, tick)
		}
	}
}
