package feedback

import (
	"github.com/zeusync/ricochet/internal/core/events/bus"
	"github.com/zeusync/ricochet/internal/core/observability/log"
)

// BusSink publishes notifications on an event bus, typed by Kind name.
// Handler errors are logged and dropped so they can never reach the simulation.
type BusSink struct {
	bus    bus.EventBus
	source string
	logger log.Log
}

func NewBusSink(b bus.EventBus, source string, logger log.Log) *BusSink {
	if logger == nil {
		logger = log.NewNop()
	}
	return &BusSink{bus: b, source: source, logger: logger}
}

func (s *BusSink) Notify(e Event) {
	if err := s.bus.Publish(bus.NewEvent(e.Kind.String(), s.source, e)); err != nil {
		s.logger.Debug("feedback subscriber failed",
			log.String("kind", e.Kind.String()),
			log.Uint64("projectile", e.ProjectileID),
			log.Error(err),
		)
	}
}
