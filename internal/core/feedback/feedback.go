package feedback

import (
	"fmt"

	"github.com/zeusync/ricochet/internal/core/systems/physics"
)

// Kind identifies a one-way semantic notification.
type Kind uint8

const (
	KindSpawn Kind = iota
	KindPaddleReflect
	KindWallHit
	KindEnemyHit
	KindEmpoweredHit
	KindBounceExhausted
	KindExplosion
	KindUnreflectedDisappear
	KindWarpDisappear
	KindWarpReappear
	KindIndicator
	KindIndicatorCleared
	KindBlink
	KindBeep
	KindWarheadTelegraph
	KindWarheadSplit
	KindLifetimeExpired
	KindDestroyed
)

var kindNames = [...]string{
	KindSpawn:                "spawn",
	KindPaddleReflect:        "paddle_reflect",
	KindWallHit:              "wall_hit",
	KindEnemyHit:             "enemy_hit",
	KindEmpoweredHit:         "empowered_hit",
	KindBounceExhausted:      "bounce_exhausted",
	KindExplosion:            "explosion",
	KindUnreflectedDisappear: "unreflected_disappear",
	KindWarpDisappear:        "warp_disappear",
	KindWarpReappear:         "warp_reappear",
	KindIndicator:            "indicator",
	KindIndicatorCleared:     "indicator_cleared",
	KindBlink:                "blink",
	KindBeep:                 "beep",
	KindWarheadTelegraph:     "warhead_telegraph",
	KindWarheadSplit:         "warhead_split",
	KindLifetimeExpired:      "lifetime_expired",
	KindDestroyed:            "destroyed",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind maps a kind name back onto its Kind.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown feedback kind %q", name)
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Event carries a world position and minimal context. Unused fields stay zero.
type Event struct {
	Kind         Kind         `json:"kind"`
	ProjectileID uint64       `json:"projectile_id"`
	Position     physics.Vec2 `json:"position"`

	Radius    float64 `json:"radius,omitempty"`
	Volume    float64 `json:"volume,omitempty"`
	Remaining int     `json:"remaining,omitempty"`
	Visible   bool    `json:"visible,omitempty"`
	Reason    string  `json:"reason,omitempty"`
	Hits      int     `json:"hits,omitempty"`
}

// Sink receives notifications. Implementations must not feed anything back
// into the simulation.
type Sink interface {
	Notify(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

func (f SinkFunc) Notify(e Event) { f(e) }

// Nop discards every notification; used when no feedback handle is supplied.
type Nop struct{}

func (Nop) Notify(Event) {}

// Multi fans a notification out to several sinks in order.
type Multi []Sink

func (m Multi) Notify(e Event) {
	for _, s := range m {
		if s != nil {
			s.Notify(e)
		}
	}
}

// OrNop returns s, or Nop when s is nil.
func OrNop(s Sink) Sink {
	if s == nil {
		return Nop{}
	}
	return s
}
