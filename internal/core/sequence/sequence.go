package sequence

// Phase names one step of a cooperative sequence. Zero is always "idle".
type Phase uint8

const PhaseIdle Phase = 0

// Machine tracks the active phase of a cooperative multi-tick behaviour.
// Waits are expressed as elapsed scaled time since the phase entry
// timestamp; "wait one tick" is expressed with Settled.
type Machine struct {
	phase     Phase
	enteredAt float64
	enteredOn int64
	enabled   bool
	done      bool
}

// Start enables the machine and enters the first phase. It is a no-op once
// the sequence has completed or while it is already running.
func (m *Machine) Start(first Phase, now float64, tick int64) bool {
	if m.done || m.enabled {
		return false
	}
	m.enabled = true
	m.enter(first, now, tick)
	return true
}

// Advance moves to the next phase; ignored when the machine is not enabled.
func (m *Machine) Advance(next Phase, now float64, tick int64) {
	if !m.enabled {
		return
	}
	m.enter(next, now, tick)
}

// Finish marks the sequence complete; it cannot be started again.
func (m *Machine) Finish() {
	m.enabled = false
	m.done = true
	m.phase = PhaseIdle
}

// Cancel halts progression immediately. Callers are responsible for undoing
// any physical or visual state the active phase applied.
// It returns the phase that was active when cancelled.
func (m *Machine) Cancel() Phase {
	prev := m.phase
	m.enabled = false
	m.phase = PhaseIdle
	return prev
}

func (m *Machine) enter(p Phase, now float64, tick int64) {
	m.phase = p
	m.enteredAt = now
	m.enteredOn = tick
}

// Phase returns the active phase, PhaseIdle when disabled.
func (m *Machine) Phase() Phase { return m.phase }

func (m *Machine) Enabled() bool { return m.enabled }
func (m *Machine) Done() bool    { return m.done }

// In reports whether p is the active phase of an enabled machine.
func (m *Machine) In(p Phase) bool { return m.enabled && m.phase == p }

// Elapsed returns scaled seconds since the active phase began.
func (m *Machine) Elapsed(now float64) float64 { return now - m.enteredAt }

// EnteredAt returns the scaled timestamp of the active phase entry.
func (m *Machine) EnteredAt() float64 { return m.enteredAt }

// Waited reports whether at least d scaled seconds passed in the active phase.
func (m *Machine) Waited(now, d float64) bool { return m.Elapsed(now) >= d }

// Progress returns elapsed/d clamped to [0,1]; a non-positive d is complete.
func (m *Machine) Progress(now, d float64) float64 {
	if d <= 0 {
		return 1
	}
	p := m.Elapsed(now) / d
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Settled reports whether at least one tick passed since the phase began.
func (m *Machine) Settled(tick int64) bool { return tick > m.enteredOn }

// Reset returns the machine to its zero state, allowing a fresh Start.
func (m *Machine) Reset() { *m = Machine{} }
