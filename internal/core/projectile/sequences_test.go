package projectile

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/ricochet/internal/core/feedback"
	"github.com/zeusync/ricochet/internal/core/projectile/motion"
	"github.com/zeusync/ricochet/internal/core/systems/physics"
)

func warpSettings() Settings {
	s := straightSettings()
	s.Warp = WarpConfig{Enabled: true, Delay: 0.5, InertDuration: 0.25, Jitter: 1}
	return s
}

func patrolTarget() *stubTarget {
	return &stubTarget{
		pos: physics.Vec2{Y: 20},
		lo:  physics.Vec2{X: -5, Y: 20},
		hi:  physics.Vec2{X: 5, Y: 22},
	}
}

func TestWarp(t *testing.T) {
	f := newFixture(t)
	p, err := f.session.Spawn(Spawn{Settings: warpSettings(), Direction: physics.Vec2{Y: -1}, Target: patrolTarget()})
	require.NoError(t, err)

	f.stepUntil(0.5)
	require.True(t, p.Inert())
	assert.False(t, p.Visible())
	assert.False(t, p.Body().ColliderEnabled())
	assert.True(t, p.Velocity().IsZero())
	assert.Equal(t, 1, f.rec.CountFor(p.ID(), feedback.KindWarpDisappear))
	parked := p.Position()

	p.OnContact(&stubObject{id: 1, layer: layerWall})
	assert.Zero(t, f.rec.CountFor(p.ID(), feedback.KindWallHit))

	f.step(8)
	assert.Equal(t, parked, p.Position(), "inert projectile stays in place")

	f.stepUntil(0.75)
	require.False(t, p.Inert())
	assert.True(t, p.Visible())
	assert.True(t, p.Body().ColliderEnabled())
	assert.Equal(t, 1, f.rec.CountFor(p.ID(), feedback.KindWarpReappear))
	assert.True(t, p.WarpDone())

	reappear, ok := f.rec.Last(feedback.KindWarpReappear)
	require.True(t, ok)
	assert.LessOrEqual(t, math.Abs(reappear.Position.X-parked.X), 1.0)
	assert.Equal(t, parked.Y, reappear.Position.Y)
	assert.Greater(t, p.Velocity().Y, 0.0, "heads toward the patrol area")

	f.stepUntil(3)
	assert.Equal(t, 1, f.rec.CountFor(p.ID(), feedback.KindWarpDisappear), "warp runs once")
}

func TestCountdownBlinkStaysHiddenWhileInert(t *testing.T) {
	f := newFixture(t)
	s := countdownSettings(2)
	s.Countdown.BlinkThreshold = 1.9
	s.Warp = WarpConfig{Enabled: true, Delay: 0.5, InertDuration: 1, Jitter: 1}
	p := f.spawn(s, physics.Vec2{}, physics.Vec2{Y: -1})

	f.stepUntil(0.5)
	require.True(t, p.Inert())
	require.True(t, p.countdown.Armed())
	blinks := f.rec.CountFor(p.ID(), feedback.KindBlink)
	require.Positive(t, blinks, "blinking starts before the warp")

	for p.Inert() {
		assert.False(t, p.Visible())
		f.step(1)
	}
	assert.Equal(t, blinks, f.rec.CountFor(p.ID(), feedback.KindBlink), "no blink cues while inert")
	assert.Equal(t, p.countdown.Visible(), p.Visible(), "wake resumes the blink state")

	f.stepUntil(1.9)
	assert.Greater(t, f.rec.CountFor(p.ID(), feedback.KindBlink), blinks)
}

func TestWarpIsDeterministicPerSeed(t *testing.T) {
	run := func() physics.Vec2 {
		f := newFixture(t)
		_, err := f.session.Spawn(Spawn{Settings: warpSettings(), Direction: physics.Vec2{Y: -1}, Target: patrolTarget()})
		require.NoError(t, err)
		f.stepUntil(0.75)
		e, ok := f.rec.Last(feedback.KindWarpReappear)
		require.True(t, ok)
		return e.Position
	}
	assert.Equal(t, run(), run())
}

func TestCancelWarpRestoresInertProjectile(t *testing.T) {
	f := newFixture(t)
	p := f.spawn(warpSettings(), physics.Vec2{}, physics.Vec2{Y: -1})
	f.stepUntil(0.6)
	require.True(t, p.Inert())

	p.CancelWarp()
	assert.False(t, p.Inert())
	assert.True(t, p.Body().ColliderEnabled())
	assert.False(t, p.WarpActive())

	f.stepUntil(1.5)
	assert.Zero(t, f.rec.CountFor(p.ID(), feedback.KindWarpReappear))
	assert.InDelta(t, 10, p.Velocity().Len(), 1e-9, "resumes normal velocity")
}

func TestDestroyPreemptsWarp(t *testing.T) {
	f := newFixture(t)
	p := f.spawn(warpSettings(), physics.Vec2{}, physics.Vec2{Y: -1})
	f.stepUntil(0.6)
	p.Kill()
	f.stepUntil(1)
	assert.Zero(t, f.rec.CountFor(p.ID(), feedback.KindWarpReappear))
	assert.False(t, p.Body().ColliderEnabled())
}

func warheadSettings() Settings {
	s := straightSettings()
	s.Penetration = true
	s.Motion.Arc = motion.ArcConfig{
		SlowDuration:  0.2,
		SlowSpeed:     3,
		CurveDuration: 0.5,
		BulgeRatio:    0.8,
		Side:          1,
		TerminalSpeed: 18,
	}
	s.Warhead = WarheadConfig{
		Enabled:        true,
		SlowDuration:   1.5,
		TelegraphSpeed: 2,
		ChildDelayA:    Range{Min: 0, Max: 0.2},
		ChildDelayB:    Range{Min: 0.1, Max: 0.3},
		Grace:          0.1,
	}
	return s
}

func TestMultiWarheadSplit(t *testing.T) {
	f := newFixture(t)
	p, err := f.session.Spawn(Spawn{Settings: warheadSettings(), Direction: physics.Vec2{Y: -1}, Target: patrolTarget()})
	require.NoError(t, err)
	assert.Equal(t, 1, f.rec.CountFor(p.ID(), feedback.KindWarheadTelegraph))

	f.step(1)
	assert.InDelta(t, 2, p.Velocity().Len(), 1e-9, "telegraph speed override")

	f.stepUntil(1.5 - dt)
	require.False(t, p.Inert())
	f.step(1)
	require.True(t, p.Inert(), "parent parks at the end of the slow phase")
	assert.False(t, p.BeingDestroyed())
	assert.Equal(t, 1, f.rec.CountFor(p.ID(), feedback.KindWarheadSplit))

	w := p.warhead
	assert.GreaterOrEqual(t, w.delayA, 0.0)
	assert.LessOrEqual(t, w.delayA, 0.2)
	assert.GreaterOrEqual(t, w.delayB, 0.1)
	assert.LessOrEqual(t, w.delayB, 0.3)
	deadline := 1.5 + math.Max(w.delayA, w.delayB) + 0.1

	removedAt := -1.0
	for f.session.Now() < 2.5 {
		f.step(1)
		if f.session.Now() >= 1.8 && f.session.Now() < 1.8+dt {
			a, b := p.WarheadChildren()
			assert.NotZero(t, a)
			assert.NotZero(t, b)
		}
		if removedAt < 0 && !f.alive(p) {
			removedAt = f.session.Now()
		}
	}
	require.Positive(t, removedAt)
	assert.GreaterOrEqual(t, removedAt, deadline)
	assert.Less(t, removedAt, deadline+2*dt)
	assert.Equal(t, ReasonSplit, p.DestroyReason())

	a, b := p.WarheadChildren()
	childA, okA := f.session.Get(a)
	childB, okB := f.session.Get(b)
	require.True(t, okA)
	require.True(t, okB)
	assert.Equal(t, p.ID(), childA.ParentID())
	assert.Equal(t, motion.ModeMissileArc, childA.Settings().Motion.Mode)
	assert.Equal(t, 1.0, childA.Settings().Motion.Arc.Side)
	assert.Equal(t, -1.0, childB.Settings().Motion.Arc.Side, "second child mirrors the arc")
	assert.True(t, childA.Settings().Penetration)
	assert.True(t, childB.Settings().Penetration)
	assert.False(t, childA.Settings().Warhead.Enabled)

	spawnIdx := func(id uint64) int {
		return slices.IndexFunc(f.rec.Events, func(e feedback.Event) bool {
			return e.Kind == feedback.KindSpawn && e.ProjectileID == id
		})
	}
	destroyedIdx := slices.IndexFunc(f.rec.Events, func(e feedback.Event) bool {
		return e.Kind == feedback.KindDestroyed && e.ProjectileID == p.ID()
	})
	assert.Less(t, spawnIdx(a), destroyedIdx)
	assert.Less(t, spawnIdx(b), destroyedIdx)
}

func TestCancelWarheadBeforeSplit(t *testing.T) {
	f := newFixture(t)
	p := f.spawn(warheadSettings(), physics.Vec2{}, physics.Vec2{Y: -1})
	f.stepUntil(1)

	p.CancelWarhead()
	assert.False(t, p.WarheadActive())
	f.stepUntil(2.5)
	assert.False(t, p.Inert())
	assert.False(t, p.BeingDestroyed())
	assert.Equal(t, 1, f.session.Len())
	assert.InDelta(t, 10, p.Velocity().Len(), 1e-9, "override released")
}

func TestDestroyPreemptsWarhead(t *testing.T) {
	f := newFixture(t)
	p := f.spawn(warheadSettings(), physics.Vec2{}, physics.Vec2{Y: -1})
	f.stepUntil(1.5)
	require.True(t, p.Inert())

	p.Kill()
	f.stepUntil(2.5)
	assert.Zero(t, f.session.Len())
	assert.Equal(t, ReasonKilled, p.DestroyReason())
}
