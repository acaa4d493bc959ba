package projectile

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeusync/ricochet/internal/core/feedback"
	"github.com/zeusync/ricochet/internal/core/projectile/contact"
	"github.com/zeusync/ricochet/internal/core/projectile/hazard"
	"github.com/zeusync/ricochet/internal/core/projectile/motion"
	"github.com/zeusync/ricochet/internal/core/systems/physics"
)

// dt is exactly representable so accumulated time lands on round values.
const dt = 1.0 / 64

const (
	layerDefault physics.Layer = iota
	layerWall
	layerPaddle
	layerPlayer
	layerFloor
	layerEnemy
	layerProjectile
)

type stubObject struct {
	id     contact.ObjectID
	layer  physics.Layer
	parent contact.Object
}

func (o *stubObject) ObjectID() contact.ObjectID { return o.id }
func (o *stubObject) Layer() physics.Layer       { return o.layer }
func (o *stubObject) Parent() contact.Object {
	if o.parent == nil {
		return nil
	}
	return o.parent
}

type stubReceiver struct {
	stubObject
	hits   int
	damage float64
}

func (r *stubReceiver) TakeDamage(amount float64, _ physics.Vec2) {
	r.hits++
	r.damage += amount
}

func newReceiver(id contact.ObjectID, layer physics.Layer) *stubReceiver {
	return &stubReceiver{stubObject: stubObject{id: id, layer: layer}}
}

type stubTarget struct {
	pos    physics.Vec2
	lo, hi physics.Vec2
}

func (t *stubTarget) Position() physics.Vec2                   { return t.pos }
func (t *stubTarget) PatrolArea() (physics.Vec2, physics.Vec2) { return t.lo, t.hi }

type fixture struct {
	t       *testing.T
	session *Session
	rec     *feedback.Recorder
	overlap []contact.Object
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Seed = 1
	cfg.ProjectileLayer = layerProjectile
	cfg.Masks = contact.Masks{
		Wall:        physics.MaskOf(layerWall),
		Paddle:      physics.MaskOf(layerPaddle),
		PlayerFloor: physics.MaskOf(layerPlayer, layerFloor),
	}
	return cfg
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{t: t, rec: &feedback.Recorder{}}
	query := hazard.OverlapFunc(func(physics.Vec2, float64, physics.LayerMask) []contact.Object {
		return f.overlap
	})
	opts = append([]Option{WithSink(f.rec), WithOverlap(query)}, opts...)
	f.session = NewSession(testConfig(), opts...)
	return f
}

func straightSettings() Settings {
	return Settings{
		Motion: motion.Config{
			Speed: motion.SpeedConfig{
				Initial:         10,
				Max:             10,
				MinSpeed:        0.5,
				StallCooldown:   0.2,
				PhysicsPriority: 0.05,
			},
		},
		BounceLimit:     3,
		Damage:          1,
		WallMinAngleDeg: 10,
	}
}

func (f *fixture) spawn(s Settings, pos, dir physics.Vec2) *Projectile {
	f.t.Helper()
	p, err := f.session.Spawn(Spawn{Settings: s, Position: pos, Direction: dir})
	require.NoError(f.t, err)
	return p
}

// spawnWithBody hands the projectile an externally owned body, as a real
// physics engine would.
func (f *fixture) spawnWithBody(s Settings, dir physics.Vec2) (*Projectile, *physics.KinematicBody) {
	f.t.Helper()
	body := physics.NewKinematicBody(physics.Vec2{}, physics.Vec2{})
	p, err := f.session.Spawn(Spawn{Settings: s, Body: body, Direction: dir})
	require.NoError(f.t, err)
	return p, body
}

func (f *fixture) step(n int) {
	f.t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(f.t, f.session.Step(dt))
	}
}

// stepUntil steps while scaled time is before at.
func (f *fixture) stepUntil(at float64) {
	f.t.Helper()
	for f.session.Now() < at {
		require.NoError(f.t, f.session.Step(dt))
	}
}

func (f *fixture) alive(p *Projectile) bool {
	_, ok := f.session.Get(p.ID())
	return ok
}

func (f *fixture) remainingSeq(id uint64, kind feedback.Kind) []int {
	var out []int
	for _, e := range f.rec.Events {
		if e.ProjectileID == id && e.Kind == kind {
			out = append(out, e.Remaining)
		}
	}
	return out
}
