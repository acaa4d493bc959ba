// Package ledger is the single authority over a projectile's remaining
// deflection budget.
package ledger

import "fmt"

// Unlimited is the remaining-count sentinel of a disabled ledger.
const Unlimited = -1

// Kind is the logical event a bounce is attributed to.
type Kind uint8

const (
	KindPaddle Kind = iota
	KindEnemy
	KindWall
	KindPeer
	kindCount
)

func (k Kind) String() string {
	switch k {
	case KindPaddle:
		return "paddle"
	case KindEnemy:
		return "enemy"
	case KindWall:
		return "wall"
	case KindPeer:
		return "peer"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Result describes what one RegisterBounceEvent call did.
type Result struct {
	// Accepted is false when the call was a duplicate or the ledger is closed.
	Accepted bool
	// Counted is true when the call decremented the ledger.
	Counted bool
	// Exhausted is true only on the call that reached zero.
	Exhausted bool
	Remaining int
}

// Ledger counts remaining bounces. Repeated callbacks for one logical event
// land on the same tick, so a per-kind last-tick marker absorbs them.
type Ledger struct {
	remaining int
	lastTick  [kindCount]int64
	closed    bool
}

// New returns a configured ledger.
func New(limit int) *Ledger {
	l := &Ledger{}
	l.Configure(limit)
	return l
}

// Configure sets the remaining count; limit <= 0 disables the ledger.
func (l *Ledger) Configure(limit int) {
	if limit <= 0 {
		l.remaining = Unlimited
	} else {
		l.remaining = limit
	}
	for i := range l.lastTick {
		l.lastTick[i] = -1
	}
	l.closed = false
}

// RegisterBounceEvent decrements at most once per tick per kind.
// It is a no-op on a closed, exhausted or unlimited ledger.
func (l *Ledger) RegisterBounceEvent(kind Kind, tick int64) Result {
	res := Result{Remaining: l.remaining}
	if l.closed || kind >= kindCount {
		return res
	}
	if l.lastTick[kind] == tick {
		return res
	}
	l.lastTick[kind] = tick
	res.Accepted = true
	if l.remaining == Unlimited || l.remaining == 0 {
		return res
	}
	l.remaining--
	res.Counted = true
	res.Remaining = l.remaining
	res.Exhausted = l.remaining == 0
	return res
}

// Close freezes the ledger; used once the projectile is being destroyed.
func (l *Ledger) Close() { l.closed = true }

func (l *Ledger) Closed() bool    { return l.closed }
func (l *Ledger) Remaining() int  { return l.remaining }
func (l *Ledger) Unlimited() bool { return l.remaining == Unlimited }
func (l *Ledger) Exhausted() bool { return l.remaining == 0 }
