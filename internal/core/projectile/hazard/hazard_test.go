package hazard

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/ricochet/internal/core/projectile/contact"
	"github.com/zeusync/ricochet/internal/core/systems/physics"
)

const (
	layerWall physics.Layer = iota + 1
	layerPlayer
	layerEnemy
)

type object struct {
	id     contact.ObjectID
	layer  physics.Layer
	parent contact.Object
}

func (o *object) ObjectID() contact.ObjectID { return o.id }
func (o *object) Layer() physics.Layer       { return o.layer }
func (o *object) Parent() contact.Object {
	if o.parent == nil {
		return nil
	}
	return o.parent
}

type damageable struct {
	object
	hits   int
	amount float64
	source physics.Vec2
}

func (d *damageable) TakeDamage(amount float64, source physics.Vec2) {
	d.hits++
	d.amount += amount
	d.source = source
}

type hitPart struct {
	damageable
	partHits int
}

func (h *hitPart) TakePartHit(float64, physics.Vec2) { h.partHits++ }

type legacy struct {
	object
	applied int
}

func (l *legacy) ApplyDamage(float64) { l.applied++ }

func classifier() *contact.Classifier {
	return contact.NewClassifier(contact.Masks{
		Wall:        physics.MaskOf(layerWall),
		PlayerFloor: physics.MaskOf(layerPlayer),
	}, contact.DefaultMaxDepth)
}

func fixedOverlap(objs ...contact.Object) OverlapFunc {
	return func(physics.Vec2, float64, physics.LayerMask) []contact.Object { return objs }
}

func countdownConfig() Config {
	return Config{
		Enabled:        true,
		Delay:          2,
		Radius:         3,
		Damage:         10,
		BlinkThreshold: 1,
		BlinkMinHz:     2,
		BlinkMaxHz:     10,
	}
}

func TestConfig_NormalizeClampsRadius(t *testing.T) {
	cfg, clamped := Config{Radius: 0, BlinkMinHz: 4, BlinkMaxHz: 1}.Normalize()
	assert.Equal(t, minRadius, cfg.Radius)
	assert.Equal(t, 4.0, cfg.BlinkMaxHz)
	assert.Contains(t, clamped, "countdown.radius")
	assert.Contains(t, clamped, "countdown.blink_max_hz")
}

func TestCountdown_DetonatesOnceAtDelay(t *testing.T) {
	c := NewCountdown(countdownConfig())
	require.True(t, c.Arm(0))

	detonations := 0
	var detonatedAt float64
	for tick := 1; tick <= 150; tick++ {
		now := float64(tick) * 0.02
		step := c.Tick(now)
		if step.Detonate {
			detonations++
			detonatedAt = now
		}
	}
	assert.Equal(t, 1, detonations)
	assert.InDelta(t, 2.0, detonatedAt, 0.021)
	assert.True(t, c.Triggered())
	assert.False(t, c.Arm(5), "single shot")
}

func TestCountdown_TriggerIsIdempotent(t *testing.T) {
	c := NewCountdown(countdownConfig())
	assert.False(t, c.Trigger(), "unarmed countdown cannot trigger")

	c.Arm(0)
	assert.True(t, c.Trigger())
	assert.False(t, c.Trigger())
	assert.False(t, c.Tick(3).Detonate)
}

func TestCountdown_IndicatorEveryTick(t *testing.T) {
	c := NewCountdown(countdownConfig())
	assert.Zero(t, c.Tick(0.1).Indicator)

	c.Arm(0)
	for tick := 1; tick < 50; tick++ {
		assert.Equal(t, 3.0, c.Tick(float64(tick)*0.02).Indicator)
	}
}

func TestCountdown_BlinkEscalates(t *testing.T) {
	c := NewCountdown(countdownConfig())
	c.Arm(0)

	assert.InDelta(t, 2, c.BlinkRate(1), 1e-9)
	assert.InDelta(t, 6, c.BlinkRate(0.5), 1e-9)
	assert.InDelta(t, 10, c.BlinkRate(0), 1e-9)

	var beepsEarly, beepsLate int
	for tick := 1; tick < 100; tick++ {
		now := float64(tick) * 0.02
		step := c.Tick(now)
		if now < 1 {
			assert.False(t, step.Blink, "no blinking above the threshold")
			continue
		}
		if step.Beep {
			assert.False(t, step.Visible, "beep is synchronized with the blink cycle")
			if now < 1.5 {
				beepsEarly++
			} else {
				beepsLate++
			}
		}
	}
	assert.Greater(t, beepsLate, beepsEarly)
}

func TestCountdown_ContactOnly(t *testing.T) {
	cfg := countdownConfig()
	cfg.Delay = 0
	c := NewCountdown(cfg)
	c.Arm(0)
	assert.True(t, math.IsInf(c.Remaining(100), 1))
	assert.False(t, c.Tick(100).Detonate)
	assert.True(t, c.Trigger())
}

func TestCountdown_Disarm(t *testing.T) {
	c := NewCountdown(countdownConfig())
	c.Arm(0)
	c.Tick(1.5)
	c.Disarm()
	assert.False(t, c.Armed())
	assert.True(t, c.Visible())
	assert.Zero(t, c.Tick(1.6).Indicator)
}

func TestBeepGovernor(t *testing.T) {
	g := NewBeepGovernor(BeepConfig{MaxConcurrent: 2, MinSpacing: 0.05, Duration: 0.2, BaseVolume: 1})

	v1, ok := g.TryBeep(0)
	require.True(t, ok)
	assert.InDelta(t, 1, v1, 1e-9)

	_, ok = g.TryBeep(0.01)
	assert.False(t, ok, "minimum spacing")

	v2, ok := g.TryBeep(0.06)
	require.True(t, ok)
	assert.InDelta(t, 1/math.Sqrt2, v2, 1e-9)

	_, ok = g.TryBeep(0.15)
	assert.False(t, ok, "concurrency cap")

	_, ok = g.TryBeep(0.21)
	assert.True(t, ok, "first beep expired")
	assert.Equal(t, 2, g.Active())

	g.Prune(10)
	assert.Zero(t, g.Active())
	g.Reset()
	_, ok = g.TryBeep(0)
	assert.True(t, ok)
}

func TestDetonate_EnemyPriority(t *testing.T) {
	root := &damageable{object: object{id: 1, layer: layerEnemy}}
	part := &hitPart{damageable: damageable{object: object{id: 2, layer: layerEnemy, parent: root}}}
	old := &legacy{object: object{id: 3, layer: layerEnemy}}

	report := Detonate(fixedOverlap(part, old), classifier(), physics.Vec2{}, 3, 10, 0)

	assert.Equal(t, 1, part.partHits)
	assert.Zero(t, part.hits, "hit part wins over the generic receiver")
	assert.Zero(t, root.hits)
	assert.Equal(t, 1, old.applied)
	assert.Len(t, report.Hits, 2)
}

func TestDetonate_VisitedSetDamagesOnce(t *testing.T) {
	enemy := &damageable{object: object{id: 1, layer: layerEnemy}}
	limbA := &object{id: 2, layer: layerEnemy, parent: enemy}
	limbB := &object{id: 3, layer: layerEnemy, parent: enemy}
	player := &damageable{object: object{id: 4, layer: layerPlayer}}
	playerCollider := &object{id: 5, layer: layerPlayer, parent: player}

	center := physics.Vec2{X: 1, Y: 2}
	report := Detonate(fixedOverlap(limbA, limbB, enemy, player, playerCollider), classifier(), center, 3, 10, 0)

	assert.Equal(t, 1, enemy.hits)
	assert.Equal(t, 1, player.hits)
	assert.Equal(t, center, player.source)
	assert.Len(t, report.Hits, 2)
}

func TestDetonate_WallWithoutReceiverIsSkipped(t *testing.T) {
	wall := &object{id: 1, layer: layerWall}
	breakable := &damageable{object: object{id: 2, layer: layerWall}}

	report := Detonate(fixedOverlap(wall, breakable), classifier(), physics.Vec2{}, 3, 5, 0)
	require.Len(t, report.Hits, 1)
	assert.Equal(t, contact.CategoryWall, report.Hits[0].Category)
	assert.InDelta(t, 5, breakable.amount, 1e-9)
}

func TestDetonate_NoHits(t *testing.T) {
	report := Detonate(fixedOverlap(), classifier(), physics.Vec2{}, 3, 5, 0)
	assert.Empty(t, report.Hits)
	assert.Empty(t, Detonate(nil, classifier(), physics.Vec2{}, 3, 5, 0).Hits)
}
