package projectile

import (
	"math"

	"github.com/zeusync/ricochet/internal/core/feedback"
	"github.com/zeusync/ricochet/internal/core/observability/log"
	"github.com/zeusync/ricochet/internal/core/sequence"
)

const (
	warheadTelegraph sequence.Phase = iota + 1
	warheadSplit
)

type warheadState struct {
	seq            sequence.Machine
	delayA, delayB float64
	childA, childB uint64
}

func (p *Projectile) startWarhead(now float64, tick int64) {
	cfg := p.settings.Warhead
	if !cfg.Enabled {
		return
	}
	if p.warhead.seq.Start(warheadTelegraph, now, tick) {
		p.composer.OverrideSpeed(cfg.TelegraphSpeed)
		p.notify(feedback.Event{Kind: feedback.KindWarheadTelegraph})
	}
}

// stepWarhead telegraphs, parks the parent, spawns both children at their
// own delays and finally consumes the parent once both are live.
func (p *Projectile) stepWarhead(now float64, tick int64) {
	cfg := p.settings.Warhead
	w := &p.warhead
	switch {
	case w.seq.In(warheadTelegraph):
		if !w.seq.Waited(now, cfg.SlowDuration) {
			return
		}
		p.composer.OverrideSpeed(0)
		p.goInert()
		w.delayA = p.warheadRng.Range(cfg.ChildDelayA.Min, cfg.ChildDelayA.Max)
		w.delayB = p.warheadRng.Range(cfg.ChildDelayB.Min, cfg.ChildDelayB.Max)
		p.notify(feedback.Event{Kind: feedback.KindWarheadSplit})
		w.seq.Advance(warheadSplit, now, tick)
		p.spawnDueChildren(now)

	case w.seq.In(warheadSplit):
		p.spawnDueChildren(now)
		if w.childA == 0 || w.childB == 0 {
			return
		}
		if !w.seq.Waited(now, math.Max(w.delayA, w.delayB)+cfg.Grace) || !w.seq.Settled(tick) {
			return
		}
		w.seq.Finish()
		p.destroy(ReasonSplit)
	}
}

func (p *Projectile) spawnDueChildren(now float64) {
	w := &p.warhead
	elapsed := w.seq.Elapsed(now)
	if w.childA == 0 && elapsed >= w.delayA {
		w.childA = p.spawnChild(false)
	}
	if w.childB == 0 && elapsed >= w.delayB {
		w.childB = p.spawnChild(true)
	}
}

func (p *Projectile) spawnChild(mirrored bool) uint64 {
	child, err := p.session.Spawn(Spawn{
		Settings:  p.settings.child(mirrored),
		Position:  p.body.Position(),
		Direction: p.composer.LastDirection(),
		Owner:     p.owner,
		Target:    p.target,
		Sink:      p.sink,
		parent:    p.id,
	})
	if err != nil {
		p.logger.Warn("warhead child not spawned", log.Error(err))
		return 0
	}
	return child.ID()
}

// CancelWarhead stops a pending split. A parked parent with no children is
// restored; once a child exists the parent is consumed.
func (p *Projectile) CancelWarhead() {
	w := &p.warhead
	if !w.seq.Enabled() {
		return
	}
	phase := w.seq.Cancel()
	w.seq.Finish()
	p.composer.OverrideSpeed(0)
	if phase != warheadSplit || p.destroying {
		return
	}
	if w.childA == 0 && w.childB == 0 {
		p.wake()
		return
	}
	p.destroy(ReasonSplit)
}
