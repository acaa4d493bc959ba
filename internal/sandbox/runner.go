// Package sandbox drives projectile sessions in a simple headless arena so
// presets can be exercised end to end without a game engine.
package sandbox

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/zeusync/ricochet/internal/core/config"
	"github.com/zeusync/ricochet/internal/core/events/bus"
	"github.com/zeusync/ricochet/internal/core/feedback"
	"github.com/zeusync/ricochet/internal/core/observability/log"
	"github.com/zeusync/ricochet/internal/core/projectile"
	"github.com/zeusync/ricochet/internal/core/projectile/hazard"
	"github.com/zeusync/ricochet/internal/core/random"
	"github.com/zeusync/ricochet/internal/core/systems/physics"
	"github.com/zeusync/ricochet/pkg/concurrent"
)

// Config describes one sandbox run.
type Config struct {
	Preset   string `yaml:"preset"`
	Sessions int    `yaml:"sessions"`
	// Parallel bounds the sessions simulated at once; zero means all.
	Parallel int `yaml:"parallel"`
	// Duration is simulated seconds per session.
	Duration      float64 `yaml:"duration"`
	TickRate      int     `yaml:"tick_rate"`
	SpawnInterval float64 `yaml:"spawn_interval"`
	Arena         Arena   `yaml:"arena"`
}

func DefaultConfig() Config {
	return Config{
		Sessions:      1,
		Duration:      30,
		TickRate:      64,
		SpawnInterval: 1.5,
		Arena:         DefaultArena(),
	}
}

// Result summarizes one finished session.
type Result struct {
	SessionID   uuid.UUID
	Seed        uint64
	Ticks       int64
	Spawned     int
	Alive       int
	EnemyHits   int
	EnemyDamage float64
	PaddleHits  int
	Events      map[string]int
}

type Runner struct {
	presets *config.Presets
	bus     bus.EventBus
	logger  log.Log
}

// NewRunner builds a runner over presets. A non-nil bus receives every
// session's feedback with the session id as event source.
func NewRunner(presets *config.Presets, b bus.EventBus, logger log.Log) *Runner {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Runner{presets: presets, bus: b, logger: logger}
}

// Run simulates cfg.Sessions independent sessions, at most cfg.Parallel
// at once, and returns their results in session order.
func (r *Runner) Run(ctx context.Context, cfg Config) ([]Result, error) {
	settings, err := r.presets.Projectile(cfg.Preset)
	if err != nil {
		return nil, err
	}
	def := DefaultConfig()
	if cfg.Sessions <= 0 {
		cfg.Sessions = def.Sessions
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = def.TickRate
	}
	if !(cfg.SpawnInterval > 0) {
		cfg.SpawnInterval = def.SpawnInterval
	}
	if cfg.Arena.Width <= 0 || cfg.Arena.Height <= 0 {
		cfg.Arena = def.Arena
	}

	indexes := make([]int, cfg.Sessions)
	for i := range indexes {
		indexes[i] = i
	}
	return concurrent.Map(ctx, indexes, cfg.Parallel, func(ctx context.Context, i int) (Result, error) {
		return r.runSession(ctx, i, settings, cfg)
	})
}

func (r *Runner) runSession(ctx context.Context, index int, settings projectile.Settings, cfg Config) (Result, error) {
	sessionCfg := r.presets.Session.Config
	if sessionCfg.Seed != 0 {
		sessionCfg.Seed += uint64(index)
	}
	l, err := resolveLayers(sessionCfg)
	if err != nil {
		return Result{}, err
	}
	a := newArena(cfg.Arena, l)

	id := uuid.New()
	events := make(map[string]int)
	sinks := feedback.Multi{feedback.SinkFunc(func(e feedback.Event) { events[e.Kind.String()]++ })}
	if r.bus != nil {
		sinks = append(sinks, feedback.NewBusSink(r.bus, id.String(), r.logger))
	}

	s := projectile.NewSession(sessionCfg,
		projectile.WithID(id),
		projectile.WithSink(sinks),
		projectile.WithLogger(r.logger),
		projectile.WithOverlap(hazard.OverlapFunc(a.overlap)),
	)
	defer s.Close()

	aim := random.NewStream(s.Seed(), uint64(index), "sandbox.aim")
	dt := 1 / float64(cfg.TickRate)
	ticks := int(math.Ceil(cfg.Duration * float64(cfg.TickRate)))
	nextSpawn, spawned := 0.0, 0

	for i := 0; i < ticks; i++ {
		if i%int(cfg.TickRate) == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
		}
		if s.Now() >= nextSpawn {
			nextSpawn += cfg.SpawnInterval
			_, err := s.Spawn(projectile.Spawn{
				Settings:  settings,
				Position:  a.spawnPoint(),
				Direction: physics.Vec2{X: aim.Range(-0.5, 0.5), Y: -1},
				Owner:     &a.enemy,
				Target:    &a.paddle,
			})
			if err != nil {
				return Result{}, fmt.Errorf("session %d: %w", index, err)
			}
			spawned++
		}
		if err := s.Step(dt); err != nil {
			return Result{}, fmt.Errorf("session %d: %w", index, err)
		}
		a.resolve(s, dt)
	}

	r.logger.Info("Sandbox session finished",
		log.String("session", id.String()),
		log.Int("spawned", spawned),
		log.Int("alive", s.Len()),
		log.Int("enemy_hits", a.enemy.hits),
	)
	return Result{
		SessionID:   id,
		Seed:        s.Seed(),
		Ticks:       s.Tick(),
		Spawned:     spawned,
		Alive:       s.Len(),
		EnemyHits:   a.enemy.hits,
		EnemyDamage: a.enemy.damage,
		PaddleHits:  a.paddle.hits,
		Events:      events,
	}, nil
}
