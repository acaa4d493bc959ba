// Package projectile hosts the enemy projectile actor and the simulation
// session that owns every piece of cross-instance state.
package projectile

import (
	"math"

	"github.com/zeusync/ricochet/internal/core/feedback"
	"github.com/zeusync/ricochet/internal/core/observability/log"
	"github.com/zeusync/ricochet/internal/core/projectile/contact"
	"github.com/zeusync/ricochet/internal/core/projectile/hazard"
	"github.com/zeusync/ricochet/internal/core/projectile/ledger"
	"github.com/zeusync/ricochet/internal/core/projectile/motion"
	"github.com/zeusync/ricochet/internal/core/random"
	"github.com/zeusync/ricochet/internal/core/sequence"
	"github.com/zeusync/ricochet/internal/core/systems/physics"
)

// Reason names the terminal condition that destroyed a projectile.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonLifetime    Reason = "lifetime"
	ReasonExhausted   Reason = "bounce_exhausted"
	ReasonExplosion   Reason = "explosion"
	ReasonKilled      Reason = "killed"
	ReasonTieBreak    Reason = "tie_break"
	ReasonUnreflected Reason = "unreflected_contact"
	ReasonSplit       Reason = "warhead_split"
)

// colliderBit keeps projectile collider ids apart from world object ids.
const colliderBit = contact.ObjectID(1) << 63

// Projectile is one enemy projectile. It is driven by its Session on the
// simulation thread and must not be shared across goroutines.
type Projectile struct {
	id       uint64
	parentID uint64
	session  *Session
	settings Settings

	body      physics.Body
	integrate bool
	collider  *Collider
	owner     contact.Object
	target    motion.Target
	sink      feedback.Sink
	logger    log.Log

	composer  *motion.Composer
	ledger    *ledger.Ledger
	countdown *hazard.Countdown

	warpRng    *random.Stream
	warheadRng *random.Stream

	spawnedAt float64
	damageMul float64
	reflected bool
	inert     bool
	visible   bool

	destroying bool
	reason     Reason

	lastClampTick int64
	enemyTicks    map[contact.ObjectID]int64

	warp    sequence.Machine
	warhead warheadState
}

func (p *Projectile) ID() uint64 { return p.id }

// ParentID is the splitting parent of a warhead child, or zero.
func (p *Projectile) ParentID() uint64                  { return p.parentID }
func (p *Projectile) Settings() Settings                { return p.settings }
func (p *Projectile) Body() physics.Body                { return p.body }
func (p *Projectile) Collider() *Collider               { return p.collider }
func (p *Projectile) Composer() *motion.Composer        { return p.composer }
func (p *Projectile) Countdown() *hazard.Countdown      { return p.countdown }
func (p *Projectile) Position() physics.Vec2            { return p.body.Position() }
func (p *Projectile) Velocity() physics.Vec2            { return p.body.Velocity() }
func (p *Projectile) Reflected() bool                   { return p.reflected }
func (p *Projectile) Empowered() bool                   { return p.damageMul > 1 }
func (p *Projectile) DamageMultiplier() float64         { return p.damageMul }
func (p *Projectile) Inert() bool                       { return p.inert }
func (p *Projectile) Visible() bool                     { return p.visible }
func (p *Projectile) BeingDestroyed() bool              { return p.destroying }
func (p *Projectile) DestroyReason() Reason             { return p.reason }
func (p *Projectile) RemainingBounces() int             { return p.ledger.Remaining() }
func (p *Projectile) WarpActive() bool                  { return p.warp.Enabled() }
func (p *Projectile) WarpDone() bool                    { return p.warp.Done() }
func (p *Projectile) WarheadActive() bool               { return p.warhead.seq.Enabled() }
func (p *Projectile) WarheadChildren() (uint64, uint64) { return p.warhead.childA, p.warhead.childB }

// Reflect deflects the projectile along direction, as a paddle does. A
// positive damageMultiplier replaces the current one; above 1 the
// projectile is empowered. The deflection that first reflects the
// projectile opens its budget; later paddle hits consume it.
func (p *Projectile) Reflect(direction physics.Vec2, damageMultiplier float64) bool {
	if p.destroying || p.inert {
		return false
	}
	now, tick := p.session.now()
	first := !p.reflected
	p.reflected = true
	if damageMultiplier > 0 {
		p.damageMul = damageMultiplier
	}
	p.composer.Redirect(direction, now, tick)
	if first {
		p.notify(feedback.Event{Kind: feedback.KindPaddleReflect})
		return true
	}
	res := p.ledger.RegisterBounceEvent(ledger.KindPaddle, tick)
	if res.Accepted {
		p.notify(feedback.Event{Kind: feedback.KindPaddleReflect, Remaining: res.Remaining})
	}
	p.settleBounce(ledger.KindPaddle, res)
	return true
}

// Accelerate raises the acceleration multiplier and returns it.
func (p *Projectile) Accelerate() float64 {
	if p.destroying {
		return p.composer.AccelMultiplier()
	}
	return p.composer.Accelerate()
}

// Kill destroys the projectile directly. It returns false when another
// terminal condition already won.
func (p *Projectile) Kill() bool { return p.destroy(ReasonKilled) }

// SetMode switches the primary motion mode.
func (p *Projectile) SetMode(mode motion.Mode) {
	if p.destroying {
		return
	}
	now, tick := p.session.now()
	p.composer.SetMode(mode, now, tick)
}

// SetTarget replaces the tracked target for missile-arc, warp and children.
func (p *Projectile) SetTarget(t motion.Target) {
	p.target = t
	p.composer.SetTarget(t)
}

// ArmCountdown (re)arms the countdown hazard.
func (p *Projectile) ArmCountdown() bool {
	if p.destroying {
		return false
	}
	now, _ := p.session.now()
	return p.countdown.Arm(now)
}

// Detonate force-triggers an armed countdown. Repeated or concurrent
// triggers detonate once.
func (p *Projectile) Detonate() bool {
	if p.destroying || !p.countdown.Trigger() {
		return false
	}
	p.explode()
	return true
}

func (p *Projectile) update(now, dt float64, tick int64) {
	if p.destroying {
		return
	}
	if life := p.settings.Lifetime; life > 0 && now-p.spawnedAt >= life {
		p.notify(feedback.Event{Kind: feedback.KindLifetimeExpired})
		p.destroy(ReasonLifetime)
		return
	}

	p.stepCountdown(now)
	if p.destroying {
		return
	}
	p.stepWarp(now, tick)
	if p.destroying {
		return
	}
	p.stepWarhead(now, tick)
	if p.destroying || p.inert {
		return
	}
	p.composer.Update(now, dt, tick)
}

func (p *Projectile) stepCountdown(now float64) {
	if !p.countdown.Armed() {
		return
	}
	step := p.countdown.Tick(now)
	if step.Detonate {
		p.explode()
		return
	}
	// An inert projectile stays hidden; wake picks the blink state back up.
	if p.inert {
		return
	}
	if step.Indicator > 0 {
		p.notify(feedback.Event{Kind: feedback.KindIndicator, Radius: step.Indicator})
	}
	if step.Blink {
		p.visible = step.Visible
		p.notify(feedback.Event{Kind: feedback.KindBlink, Visible: step.Visible})
	}
	if step.Beep {
		if volume, ok := p.session.beeps.TryBeep(now); ok {
			p.notify(feedback.Event{Kind: feedback.KindBeep, Volume: volume})
		}
	}
}

// explode runs the single overlap pass; the countdown must already be
// triggered.
func (p *Projectile) explode() {
	cfg := p.countdown.Config()
	report := hazard.Detonate(p.session.overlap, p.session.classifier, p.body.Position(),
		cfg.Radius, cfg.Damage*p.damageMul, cfg.Mask)
	p.notify(feedback.Event{Kind: feedback.KindExplosion, Radius: cfg.Radius, Hits: len(report.Hits)})
	p.destroy(ReasonExplosion)
}

func (p *Projectile) registerBounce(kind ledger.Kind, tick int64) ledger.Result {
	res := p.ledger.RegisterBounceEvent(kind, tick)
	p.settleBounce(kind, res)
	return res
}

// settleBounce logs a counted bounce and runs the exhaustion transition.
func (p *Projectile) settleBounce(kind ledger.Kind, res ledger.Result) {
	if res.Counted {
		p.logger.Debug("bounce registered",
			log.String("kind", kind.String()),
			log.Int("remaining", res.Remaining),
		)
	}
	if res.Exhausted {
		p.notify(feedback.Event{Kind: feedback.KindBounceExhausted})
		p.destroy(ReasonExhausted)
	}
}

// destroy sets the terminal latch. Only the first terminal condition wins;
// every in-flight sequence is cancelled and cues are torn down.
func (p *Projectile) destroy(reason Reason) bool {
	if p.destroying {
		return false
	}
	p.destroying = true
	p.reason = reason
	p.ledger.Close()

	if p.countdown.Armed() || p.countdown.Triggered() {
		p.countdown.Disarm()
		p.notify(feedback.Event{Kind: feedback.KindIndicatorCleared})
	}
	p.warp.Cancel()
	p.warhead.seq.Cancel()
	now, tick := p.session.now()
	p.composer.CancelArc(now, tick)
	p.body.SetColliderEnabled(false)

	p.notify(feedback.Event{Kind: feedback.KindDestroyed, Reason: string(reason)})
	p.logger.Debug("projectile destroyed", log.String("reason", string(reason)))
	return true
}

func (p *Projectile) notify(e feedback.Event) {
	e.ProjectileID = p.id
	e.Position = p.body.Position()
	if e.Remaining == 0 {
		e.Remaining = p.ledger.Remaining()
	}
	p.sink.Notify(e)
}

func (p *Projectile) peerState() contact.PeerState {
	return contact.PeerState{Reflected: p.reflected, Empowered: p.Empowered()}
}

func (p *Projectile) minWallAngle() float64 {
	return p.settings.WallMinAngleDeg * math.Pi / 180
}

// Collider is the projectile as seen by the contact classifier: a root
// object that identifies itself as a peer.
type Collider struct {
	p     *Projectile
	layer physics.Layer
}

var (
	_ contact.Object = (*Collider)(nil)
	_ contact.Peer   = (*Collider)(nil)
)

func (c *Collider) ObjectID() contact.ObjectID { return colliderBit | contact.ObjectID(c.p.id) }
func (c *Collider) Layer() physics.Layer       { return c.layer }
func (c *Collider) Parent() contact.Object     { return nil }
func (c *Collider) PeerID() uint64             { return c.p.id }
func (c *Collider) Projectile() *Projectile    { return c.p }
