package contact

import (
	"fmt"

	"github.com/zeusync/ricochet/internal/core/systems/physics"
)

// Category is the single interpretation given to a raw contact.
type Category uint8

const (
	CategoryUnknown Category = iota
	CategoryWall
	CategoryPaddle
	CategoryPlayerFloor
	CategoryPeer
	CategoryEnemy
)

func (c Category) String() string {
	switch c {
	case CategoryWall:
		return "wall"
	case CategoryPaddle:
		return "paddle"
	case CategoryPlayerFloor:
		return "player_floor"
	case CategoryPeer:
		return "peer"
	case CategoryEnemy:
		return "enemy"
	case CategoryUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("category(%d)", uint8(c))
	}
}

// Masks configures layer-based categories.
type Masks struct {
	Wall        physics.LayerMask `yaml:"wall"`
	Paddle      physics.LayerMask `yaml:"paddle"`
	PlayerFloor physics.LayerMask `yaml:"player_floor"`
}

// Classification is the outcome of Classify. Subject is the object in the
// ancestor chain that carries the matched layer or capability.
type Classification struct {
	Category Category
	Subject  Object
	PeerID   uint64
}

// Classifier maps raw contacts onto categories. It never panics; nil or
// malformed contacts classify as CategoryUnknown.
type Classifier struct {
	masks    Masks
	maxDepth int
}

func NewClassifier(masks Masks, maxDepth int) *Classifier {
	if maxDepth < 0 {
		maxDepth = 0
	}
	return &Classifier{masks: masks, maxDepth: maxDepth}
}

func (c *Classifier) MaxDepth() int { return c.maxDepth }

// Classify checks wall, paddle, player/floor layers first, then peer and
// enemy capabilities, each over the bounded ancestor chain.
func (c *Classifier) Classify(obj Object) (res Classification) {
	defer func() {
		if recover() != nil {
			res = Classification{Category: CategoryUnknown}
		}
	}()
	if obj == nil {
		return Classification{Category: CategoryUnknown}
	}
	if subject, ok := FindLayer(obj, c.masks.Wall, c.maxDepth); ok {
		return Classification{Category: CategoryWall, Subject: subject}
	}
	if subject, ok := FindLayer(obj, c.masks.Paddle, c.maxDepth); ok {
		return Classification{Category: CategoryPaddle, Subject: subject}
	}
	if subject, ok := FindLayer(obj, c.masks.PlayerFloor, c.maxDepth); ok {
		return Classification{Category: CategoryPlayerFloor, Subject: subject}
	}
	if peer, subject, ok := Find[Peer](obj, c.maxDepth); ok {
		return Classification{Category: CategoryPeer, Subject: subject, PeerID: peer.PeerID()}
	}
	if subject, ok := c.enemySubject(obj); ok {
		return Classification{Category: CategoryEnemy, Subject: subject}
	}
	return Classification{Category: CategoryUnknown}
}

func (c *Classifier) enemySubject(obj Object) (Object, bool) {
	if _, subject, ok := Find[HitPart](obj, c.maxDepth); ok {
		return subject, true
	}
	if _, subject, ok := Find[Damageable](obj, c.maxDepth); ok {
		return subject, true
	}
	if _, subject, ok := Find[LegacyStats](obj, c.maxDepth); ok {
		return subject, true
	}
	return nil, false
}
