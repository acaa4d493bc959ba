package sandbox

import (
	"errors"
	"math"
	"math/bits"

	"github.com/zeusync/ricochet/internal/core/projectile"
	"github.com/zeusync/ricochet/internal/core/projectile/contact"
	"github.com/zeusync/ricochet/internal/core/systems/physics"
)

var ErrNoLayer = errors.New("no free collision layer")

// Arena is a rectangular playfield: walls left, right and top, the enemy
// in the middle of the top edge and the paddle patrolling the bottom edge.
type Arena struct {
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	PaddleWidth float64 `yaml:"paddle_width"`
	PaddleSpeed float64 `yaml:"paddle_speed"`
	EnemyWidth  float64 `yaml:"enemy_width"`
	// PeerRadius is the distance under which two projectiles touch.
	PeerRadius float64 `yaml:"peer_radius"`
	// ChargeEvery makes every n-th paddle hit an empowered one; zero never.
	ChargeEvery int     `yaml:"charge_every"`
	Charge      float64 `yaml:"charge"`
}

func DefaultArena() Arena {
	return Arena{
		Width:       16,
		Height:      12,
		PaddleWidth: 3,
		PaddleSpeed: 12,
		EnemyWidth:  4,
		PeerRadius:  0.3,
		ChargeEvery: 4,
		Charge:      2,
	}
}

type object struct {
	id    contact.ObjectID
	layer physics.Layer
}

func (o *object) ObjectID() contact.ObjectID { return o.id }
func (o *object) Layer() physics.Layer       { return o.layer }
func (o *object) Parent() contact.Object     { return nil }

type enemy struct {
	object
	pos    physics.Vec2
	damage float64
	hits   int
}

func (e *enemy) TakeDamage(amount float64, _ physics.Vec2) {
	e.damage += amount
	e.hits++
}

// paddle is both a contact object and the projectiles' tracked target.
type paddle struct {
	object
	x, lo, hi float64
	hits      int
}

func (p *paddle) Position() physics.Vec2 { return physics.Vec2{X: p.x} }

func (p *paddle) PatrolArea() (physics.Vec2, physics.Vec2) {
	return physics.Vec2{X: p.lo}, physics.Vec2{X: p.hi}
}

type layers struct {
	wall, paddle, floor, enemy physics.Layer
}

// resolveLayers picks one concrete layer per category from the session masks.
func resolveLayers(cfg projectile.Config) (layers, error) {
	var l layers
	for _, pick := range []struct {
		mask physics.LayerMask
		dst  *physics.Layer
	}{
		{cfg.Masks.Wall, &l.wall},
		{cfg.Masks.Paddle, &l.paddle},
		{cfg.Masks.PlayerFloor, &l.floor},
	} {
		if pick.mask == 0 {
			return l, ErrNoLayer
		}
		*pick.dst = physics.Layer(bits.TrailingZeros32(uint32(pick.mask)))
	}

	used := cfg.Masks.Wall | cfg.Masks.Paddle | cfg.Masks.PlayerFloor | physics.MaskOf(cfg.ProjectileLayer)
	// Layer 0 is the engine default and never hosts the enemy.
	free := ^uint32(used) &^ 1
	if free == 0 {
		return l, ErrNoLayer
	}
	l.enemy = physics.Layer(bits.TrailingZeros32(free))
	return l, nil
}

type arena struct {
	cfg    Arena
	walls  [3]object
	floor  object
	enemy  enemy
	paddle paddle
}

func newArena(cfg Arena, l layers) *arena {
	half := cfg.Width / 2
	a := &arena{
		cfg:   cfg,
		walls: [3]object{{id: 1, layer: l.wall}, {id: 2, layer: l.wall}, {id: 3, layer: l.wall}},
		floor: object{id: 4, layer: l.floor},
		enemy: enemy{object: object{id: 5, layer: l.enemy}, pos: physics.Vec2{Y: cfg.Height}},
		paddle: paddle{
			object: object{id: 6, layer: l.paddle},
			lo:     -half + cfg.PaddleWidth/2,
			hi:     half - cfg.PaddleWidth/2,
		},
	}
	return a
}

func (a *arena) spawnPoint() physics.Vec2 {
	return physics.Vec2{Y: a.cfg.Height - 1}
}

// overlap answers detonation queries against the arena's fixed objects.
func (a *arena) overlap(center physics.Vec2, radius float64, mask physics.LayerMask) []contact.Object {
	var hits []contact.Object
	half := a.cfg.Width / 2
	add := func(o contact.Object, dist float64) {
		if dist <= radius && mask.Has(o.Layer()) {
			hits = append(hits, o)
		}
	}
	add(&a.walls[0], center.X+half)
	add(&a.walls[1], half-center.X)
	add(&a.walls[2], a.cfg.Height-center.Y)
	add(&a.floor, center.Y)
	add(&a.enemy, math.Max(0, center.Distance(a.enemy.pos)-a.cfg.EnemyWidth/2))
	return hits
}

// movePaddle steers the paddle toward the lowest descending projectile.
func (a *arena) movePaddle(live []*projectile.Projectile, dt float64) {
	target, best := a.paddle.x, math.Inf(1)
	for _, p := range live {
		pos, vel := p.Position(), p.Velocity()
		if vel.Y < 0 && pos.Y < best && !p.BeingDestroyed() && !p.Inert() {
			target, best = pos.X, pos.Y
		}
	}
	step := a.cfg.PaddleSpeed * dt
	a.paddle.x += math.Max(-step, math.Min(step, target-a.paddle.x))
	a.paddle.x = math.Max(a.paddle.lo, math.Min(a.paddle.hi, a.paddle.x))
}

// resolve reports every boundary and peer contact of this tick to the
// session, reflecting bodies the way a physics engine would beforehand.
func (a *arena) resolve(s *projectile.Session, dt float64) {
	live := s.Projectiles()
	a.movePaddle(live, dt)
	half := a.cfg.Width / 2

	for _, p := range live {
		if p.BeingDestroyed() || p.Inert() {
			continue
		}
		body := p.Body()
		pos, vel := body.Position(), body.Velocity()

		switch {
		case pos.X < -half && vel.X < 0:
			body.SetVelocity(physics.Vec2{X: -vel.X, Y: vel.Y})
			_ = s.Contact(p.ID(), &a.walls[0])
		case pos.X > half && vel.X > 0:
			body.SetVelocity(physics.Vec2{X: -vel.X, Y: vel.Y})
			_ = s.Contact(p.ID(), &a.walls[1])
		}

		switch {
		case pos.Y > a.cfg.Height && vel.Y > 0:
			body.SetVelocity(physics.Vec2{X: body.Velocity().X, Y: -vel.Y})
			if math.Abs(pos.X-a.enemy.pos.X) <= a.cfg.EnemyWidth/2 {
				_ = s.Contact(p.ID(), &a.enemy)
			} else {
				_ = s.Contact(p.ID(), &a.walls[2])
			}
		case pos.Y < 0 && vel.Y < 0:
			a.bottom(s, p)
		}
	}

	for i, p := range live {
		for _, q := range live[i+1:] {
			if p.BeingDestroyed() || q.BeingDestroyed() || p.Inert() || q.Inert() {
				continue
			}
			if p.Position().Distance(q.Position()) <= a.cfg.PeerRadius {
				_ = s.Contact(p.ID(), q.Collider())
				_ = s.Contact(q.ID(), p.Collider())
			}
		}
	}
}

func (a *arena) bottom(s *projectile.Session, p *projectile.Projectile) {
	body := p.Body()
	pos, vel := body.Position(), body.Velocity()
	offset := pos.X - a.paddle.x
	if math.Abs(offset) > a.cfg.PaddleWidth/2 {
		_ = s.Contact(p.ID(), &a.floor)
		if !p.BeingDestroyed() {
			p.Kill()
		}
		return
	}

	// Off-center hits leave at a steeper side angle.
	dir := physics.Vec2{X: offset / (a.cfg.PaddleWidth / 2) * 0.6, Y: 1}.Normalized()
	body.SetVelocity(dir.Scale(vel.Len()))
	a.paddle.hits++
	if a.cfg.ChargeEvery > 0 && a.paddle.hits%a.cfg.ChargeEvery == 0 {
		p.Reflect(dir, a.cfg.Charge)
		return
	}
	_ = s.Contact(p.ID(), &a.paddle)
}
