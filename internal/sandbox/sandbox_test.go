package sandbox

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/ricochet/internal/core/config"
	"github.com/zeusync/ricochet/internal/core/events/bus"
	"github.com/zeusync/ricochet/internal/core/projectile"
	"github.com/zeusync/ricochet/internal/core/projectile/contact"
	"github.com/zeusync/ricochet/internal/core/systems/physics"
)

const presets = `
session:
  seed: 11
  projectile_layer: 6
  masks: {wall: 0x02, paddle: 0x04, player_floor: 0x18}
projectiles:
  basic:
    motion:
      speed: {initial: 6, max: 6, damping: 8, min_speed: 0.5, stall_cooldown: 0.25, physics_priority: 0.05}
    bounce_limit: 4
    damage: 1
  bomb:
    motion:
      speed: {initial: 4, max: 4, damping: 8, min_speed: 0.5, stall_cooldown: 0.25, physics_priority: 0.05}
    bounce_limit: 3
    damage: 1
    countdown: {enabled: true, delay: 2, radius: 3, damage: 2, mask: 0x3a}
`

func loadPresets(t *testing.T) *config.Presets {
	t.Helper()
	p, err := config.Load(strings.NewReader(presets))
	require.NoError(t, err)
	return p
}

func TestResolveLayers(t *testing.T) {
	cfg := projectile.DefaultConfig()
	cfg.ProjectileLayer = 0
	cfg.Masks = contact.Masks{
		Wall:        physics.MaskOf(1),
		Paddle:      physics.MaskOf(2),
		PlayerFloor: physics.MaskOf(3, 4),
	}
	l, err := resolveLayers(cfg)
	require.NoError(t, err)
	assert.Equal(t, layers{wall: 1, paddle: 2, floor: 3, enemy: 5}, l)

	cfg.Masks.Paddle = 0
	_, err = resolveLayers(cfg)
	assert.ErrorIs(t, err, ErrNoLayer)
}

func TestRunIsDeterministicPerSeed(t *testing.T) {
	r := NewRunner(loadPresets(t), nil, nil)
	cfg := DefaultConfig()
	cfg.Preset = "basic"
	cfg.Sessions = 3
	cfg.Parallel = 2
	cfg.Duration = 8

	first, err := r.Run(context.Background(), cfg)
	require.NoError(t, err)
	second, err := r.Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, first, 3)

	for i := range first {
		assert.Equal(t, uint64(11+i), first[i].Seed)
		assert.Equal(t, int64(8*64), first[i].Ticks)
		assert.Equal(t, 6, first[i].Spawned)
		assert.Equal(t, first[i].Spawned, first[i].Events["spawn"])

		assert.NotEqual(t, first[i].SessionID, second[i].SessionID)
		first[i].SessionID, second[i].SessionID = uuid.Nil, uuid.Nil
		assert.Equal(t, first[i], second[i])
	}
}

func TestRunCountdownPresetDetonates(t *testing.T) {
	r := NewRunner(loadPresets(t), nil, nil)
	cfg := DefaultConfig()
	cfg.Preset = "bomb"
	cfg.Duration = 6

	res, err := r.Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Positive(t, res[0].Events["explosion"])
	assert.Positive(t, res[0].Events["indicator"])
}

func TestRunPublishesOnBus(t *testing.T) {
	b := bus.New()
	var mu sync.Mutex
	sources := map[string]int{}
	_, err := b.Subscribe(bus.Wildcard, func(e bus.Event) error {
		mu.Lock()
		sources[e.Source()]++
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)

	r := NewRunner(loadPresets(t), b, nil)
	cfg := DefaultConfig()
	cfg.Preset = "basic"
	cfg.Sessions = 2
	cfg.Duration = 2

	res, err := r.Run(context.Background(), cfg)
	require.NoError(t, err)
	for _, result := range res {
		total := 0
		for _, n := range result.Events {
			total += n
		}
		assert.Equal(t, total, sources[result.SessionID.String()])
	}
}

func TestRunUnknownPreset(t *testing.T) {
	r := NewRunner(loadPresets(t), nil, nil)
	cfg := DefaultConfig()
	cfg.Preset = "missing"
	_, err := r.Run(context.Background(), cfg)
	assert.ErrorIs(t, err, config.ErrPresetNotFound)
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRunner(loadPresets(t), nil, nil)
	cfg := DefaultConfig()
	cfg.Preset = "basic"
	_, err := r.Run(ctx, cfg)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestArenaOverlap(t *testing.T) {
	a := newArena(DefaultArena(), layers{wall: 1, paddle: 2, floor: 3, enemy: 5})
	all := physics.MaskOf(1, 2, 3, 5)

	hits := a.overlap(physics.Vec2{X: 0, Y: 11}, 1.5, all)
	require.Len(t, hits, 2)
	assert.Equal(t, contact.ObjectID(3), hits[0].ObjectID())
	assert.Equal(t, contact.ObjectID(5), hits[1].ObjectID())

	assert.Empty(t, a.overlap(physics.Vec2{X: 0, Y: 6}, 1, all))
	assert.Empty(t, a.overlap(physics.Vec2{X: 0, Y: 11}, 1.5, physics.MaskOf(3)))
}
