package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	phaseA Phase = iota + 1
	phaseB
)

func TestMachineLifecycle(t *testing.T) {
	var m Machine
	assert.Equal(t, PhaseIdle, m.Phase())
	assert.True(t, m.Start(phaseA, 1.0, 10))
	assert.False(t, m.Start(phaseA, 1.0, 10), "re-entry while running")
	assert.True(t, m.In(phaseA))
	assert.False(t, m.Settled(10))
	assert.True(t, m.Settled(11))

	assert.False(t, m.Waited(1.4, 0.5))
	assert.True(t, m.Waited(1.5, 0.5))
	assert.InDelta(t, 0.5, m.Progress(1.25, 0.5), 1e-9)

	m.Advance(phaseB, 1.5, 12)
	assert.True(t, m.In(phaseB))
	assert.Equal(t, 1.5, m.EnteredAt())

	m.Finish()
	assert.True(t, m.Done())
	assert.False(t, m.Enabled())
	assert.False(t, m.Start(phaseA, 2, 13), "done guard")
}

func TestMachineCancelHaltsProgression(t *testing.T) {
	var m Machine
	m.Start(phaseA, 0, 0)
	assert.Equal(t, phaseA, m.Cancel())
	m.Advance(phaseB, 1, 1)
	assert.Equal(t, PhaseIdle, m.Phase())
	assert.False(t, m.Enabled())
	assert.False(t, m.Done())
	assert.True(t, m.Start(phaseA, 2, 2), "cancelled sequences may be restarted")
}

func TestProgressBounds(t *testing.T) {
	var m Machine
	m.Start(phaseA, 5, 0)
	assert.Equal(t, 1.0, m.Progress(5, 0))
	assert.Equal(t, 0.0, m.Progress(4, 1))
	assert.Equal(t, 1.0, m.Progress(9, 1))
}
