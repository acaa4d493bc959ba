package projectile

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/zeusync/ricochet/internal/core/clock"
	"github.com/zeusync/ricochet/internal/core/feedback"
	"github.com/zeusync/ricochet/internal/core/observability/log"
	"github.com/zeusync/ricochet/internal/core/projectile/contact"
	"github.com/zeusync/ricochet/internal/core/projectile/hazard"
	"github.com/zeusync/ricochet/internal/core/projectile/ledger"
	"github.com/zeusync/ricochet/internal/core/projectile/motion"
	"github.com/zeusync/ricochet/internal/core/random"
	"github.com/zeusync/ricochet/internal/core/systems"
	"github.com/zeusync/ricochet/internal/core/systems/physics"
)

// Config holds the session-scoped settings shared by every projectile.
type Config struct {
	// Seed of zero derives one from the session id.
	Seed             uint64            `yaml:"seed"`
	PairCooldown     float64           `yaml:"pair_cooldown"`
	MaxAncestorDepth int               `yaml:"max_ancestor_depth"`
	ProjectileLayer  physics.Layer     `yaml:"projectile_layer"`
	Masks            contact.Masks     `yaml:"masks"`
	Beep             hazard.BeepConfig `yaml:"beep"`
}

func DefaultConfig() Config {
	return Config{
		PairCooldown:     0.1,
		MaxAncestorDepth: contact.DefaultMaxDepth,
		Beep:             hazard.DefaultBeepConfig(),
	}
}

func (c Config) Normalize() (Config, []string) {
	var clamped []string
	if !(c.PairCooldown >= 0) {
		c.PairCooldown = 0
		clamped = append(clamped, "session.pair_cooldown")
	}
	if c.MaxAncestorDepth < 0 {
		c.MaxAncestorDepth = 0
		clamped = append(clamped, "session.max_ancestor_depth")
	}
	if c.ProjectileLayer > 31 {
		c.ProjectileLayer = 31
		clamped = append(clamped, "session.projectile_layer")
	}
	var touched []string
	c.Beep, touched = c.Beep.Normalize()
	return c, append(clamped, touched...)
}

// Option customizes a Session.
type Option func(*Session)

// WithSink sets the default feedback handle for spawned projectiles.
func WithSink(sink feedback.Sink) Option {
	return func(s *Session) { s.sink = feedback.OrNop(sink) }
}

func WithLogger(logger log.Log) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithOverlap sets the physics overlap query used by detonations.
func WithOverlap(q hazard.OverlapQuery) Option {
	return func(s *Session) { s.overlap = q }
}

// WithTimeScale sets the shared time-scale authority.
func WithTimeScale(p clock.ScaleProvider) Option {
	return func(s *Session) { s.clock.SetProvider(p) }
}

func WithID(id uuid.UUID) Option {
	return func(s *Session) { s.id = id }
}

// Spawn is a spawner's request for one projectile.
type Spawn struct {
	Settings Settings
	// Body is the physics handle; nil gives the projectile a kinematic body
	// at Position that the session integrates itself.
	Body      physics.Body
	Position  physics.Vec2
	Direction physics.Vec2
	// Owner is ignored as a contact for Settings.OwnerGrace seconds.
	Owner  contact.Object
	Target motion.Target
	// Sink overrides the session feedback handle.
	Sink feedback.Sink

	parent uint64
}

// Session is one simulation session. Pair cooldowns, beep budgeting and
// the projectile registry live here and are cleared by Reset. A Session is
// driven from a single goroutine.
type Session struct {
	id     uuid.UUID
	cfg    Config
	seed   uint64
	closed bool

	clock      *clock.Clock
	scheduler  *systems.Scheduler
	classifier *contact.Classifier
	pairs      *contact.PairCooldowns
	beeps      *hazard.BeepGovernor

	sink    feedback.Sink
	logger  log.Log
	overlap hazard.OverlapQuery

	nextID      uint64
	projectiles map[uint64]*Projectile
	order       []*Projectile
}

func NewSession(cfg Config, opts ...Option) *Session {
	cfg, clamped := cfg.Normalize()
	s := &Session{
		id:          uuid.New(),
		cfg:         cfg,
		clock:       clock.New(nil),
		scheduler:   systems.NewScheduler(),
		classifier:  contact.NewClassifier(cfg.Masks, cfg.MaxAncestorDepth),
		pairs:       contact.NewPairCooldowns(cfg.PairCooldown),
		beeps:       hazard.NewBeepGovernor(cfg.Beep),
		sink:        feedback.Nop{},
		logger:      log.NewNop(),
		projectiles: make(map[uint64]*Projectile),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.seed = cfg.Seed
	if s.seed == 0 {
		s.seed = random.Derive(0, 0, s.id.String())
	}
	s.logger = s.logger.With(log.String("session", s.id.String()))
	for _, field := range clamped {
		s.logger.Warn("session setting clamped", log.String("field", field))
	}

	for _, sys := range []systems.System{
		&updateSystem{session: s},
		&integrateSystem{session: s},
		&cleanupSystem{session: s},
	} {
		// names are fixed and unique
		_ = s.scheduler.Register(sys)
	}
	return s
}

func (s *Session) ID() uuid.UUID                   { return s.id }
func (s *Session) Config() Config                  { return s.cfg }
func (s *Session) Seed() uint64                    { return s.seed }
func (s *Session) Clock() *clock.Clock             { return s.clock }
func (s *Session) Now() float64                    { return s.clock.Now() }
func (s *Session) Tick() int64                     { return s.clock.Tick() }
func (s *Session) Classifier() *contact.Classifier { return s.classifier }
func (s *Session) Beeps() *hazard.BeepGovernor     { return s.beeps }
func (s *Session) Pairs() *contact.PairCooldowns   { return s.pairs }
func (s *Session) Len() int                        { return len(s.order) }
func (s *Session) Closed() bool                    { return s.closed }
func (s *Session) ExecutionOrder() []string        { return s.scheduler.ExecutionOrder() }

func (s *Session) now() (float64, int64) { return s.clock.Now(), s.clock.Tick() }

// Get returns a live (not yet removed) projectile.
func (s *Session) Get(id uint64) (*Projectile, bool) {
	p, ok := s.projectiles[id]
	return p, ok
}

// Projectiles returns the live projectiles in spawn order.
func (s *Session) Projectiles() []*Projectile { return slices.Clone(s.order) }

// Spawn creates a projectile with normalized settings. Clamped settings are
// logged, never rejected.
func (s *Session) Spawn(req Spawn) (*Projectile, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	settings, clamped := req.Settings.Normalize()
	now, tick := s.now()

	s.nextID++
	id := s.nextID
	logger := s.logger.With(log.Uint64("projectile", id))
	for _, field := range clamped {
		logger.Warn("projectile setting clamped", log.String("field", field))
	}

	body, integrate := req.Body, false
	if body == nil {
		body, integrate = physics.NewKinematicBody(req.Position, physics.Vec2{}), true
	}
	body.SetColliderEnabled(true)

	p := &Projectile{
		id:            id,
		parentID:      req.parent,
		session:       s,
		settings:      settings,
		body:          body,
		integrate:     integrate,
		owner:         req.Owner,
		target:        req.Target,
		sink:          feedback.OrNop(req.Sink),
		logger:        logger,
		ledger:        ledger.New(settings.BounceLimit),
		countdown:     hazard.NewCountdown(settings.Countdown),
		warpRng:       random.NewStream(s.seed, id, "warp"),
		warheadRng:    random.NewStream(s.seed, id, "warhead"),
		spawnedAt:     now,
		damageMul:     settings.DamageMultiplier,
		visible:       true,
		lastClampTick: -1,
		enemyTicks:    make(map[contact.ObjectID]int64),
	}
	if req.Sink == nil {
		p.sink = s.sink
	}
	p.collider = &Collider{p: p, layer: s.cfg.ProjectileLayer}
	p.composer = motion.NewComposer(settings.Motion, body, req.Direction, random.NewStream(s.seed, id, "motion"), now)
	if req.Target != nil {
		p.composer.SetTarget(req.Target)
	}

	s.projectiles[id] = p
	s.order = append(s.order, p)
	p.notify(feedback.Event{Kind: feedback.KindSpawn})

	if settings.Countdown.Enabled {
		p.countdown.Arm(now)
	}
	p.startWarp(now, tick)
	p.startWarhead(now, tick)

	logger.Debug("projectile spawned",
		log.String("mode", settings.Motion.Mode.String()),
		log.Int("bounce_limit", settings.BounceLimit),
		log.Uint64("parent", req.parent),
	)
	return p, nil
}

// Contact routes a physics contact to projectile id.
func (s *Session) Contact(id uint64, other contact.Object) error {
	if s.closed {
		return ErrSessionClosed
	}
	p, ok := s.projectiles[id]
	if !ok {
		return fmt.Errorf("contact for %d: %w", id, ErrUnknownProjectile)
	}
	p.OnContact(other)
	return nil
}

// Kill destroys projectile id.
func (s *Session) Kill(id uint64) error {
	p, ok := s.projectiles[id]
	if !ok {
		return fmt.Errorf("kill %d: %w", id, ErrUnknownProjectile)
	}
	p.Kill()
	return nil
}

// Step advances the session by one tick of unscaled dt.
func (s *Session) Step(dt float64) error {
	if s.closed {
		return ErrSessionClosed
	}
	return s.scheduler.Update(s.clock.Advance(dt))
}

// Reset clears every session-scoped structure and restarts the clock.
func (s *Session) Reset() error {
	clear(s.projectiles)
	s.order = s.order[:0]
	s.nextID = 0
	s.pairs.Reset()
	s.beeps.Reset()
	s.clock.Reset()
	return s.scheduler.Reset()
}

// Close rejects further spawns and steps.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.logger.Debug("session closed", log.Int("live", len(s.order)))
}

func (s *Session) removeDestroyed() int {
	before := len(s.order)
	s.order = slices.DeleteFunc(s.order, func(p *Projectile) bool {
		if !p.destroying {
			return false
		}
		delete(s.projectiles, p.id)
		return true
	})
	return before - len(s.order)
}
