package contact

// PairKey is an unordered pair of projectile ids.
type PairKey struct{ A, B uint64 }

// MakePairKey orders the ids so (a,b) and (b,a) share one key.
func MakePairKey(a, b uint64) PairKey {
	if a > b {
		a, b = b, a
	}
	return PairKey{A: a, B: b}
}

// PairCooldowns coalesces repeated contacts between the same two projectiles.
// It is session-scoped and must be pruned every tick.
type PairCooldowns struct {
	window  float64
	entries map[PairKey]float64
}

func NewPairCooldowns(window float64) *PairCooldowns {
	if window < 0 {
		window = 0
	}
	return &PairCooldowns{window: window, entries: make(map[PairKey]float64)}
}

// TryAcquire returns true when the pair is eligible at now, and starts a new
// cooldown window for it.
func (p *PairCooldowns) TryAcquire(a, b uint64, now float64) bool {
	key := MakePairKey(a, b)
	if next, ok := p.entries[key]; ok && now < next {
		return false
	}
	p.entries[key] = now + p.window
	return true
}

// Prune drops entries whose window has passed.
func (p *PairCooldowns) Prune(now float64) int {
	removed := 0
	for key, next := range p.entries {
		if now >= next {
			delete(p.entries, key)
			removed++
		}
	}
	return removed
}

func (p *PairCooldowns) Len() int        { return len(p.entries) }
func (p *PairCooldowns) Window() float64 { return p.window }

func (p *PairCooldowns) Reset() { clear(p.entries) }
