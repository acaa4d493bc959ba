package systems

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// System represents a per-tick game logic processor.
type System interface {
	Name() string
	Priority() Priority
	ExecutionPhase() ExecutionPhase

	// Update runs one tick with the scaled delta time in seconds.
	Update(deltaTime float64) error
	Reset() error
}

// Priority defines execution order inside a phase; higher runs first.
type Priority uint16

const (
	PriorityLowest  Priority = 200
	PriorityLow     Priority = 500
	PriorityNormal  Priority = 600
	PriorityHigh    Priority = 1000
	PriorityHighest Priority = 1300
)

// ExecutionPhase defines when a system runs within a tick.
type ExecutionPhase uint8

const (
	PhasePreUpdate ExecutionPhase = iota
	PhaseUpdate
	PhasePostUpdate
	PhaseLateUpdate
)

// Metrics provides runtime metrics for a system.
type Metrics struct {
	ExecutionCount     uint64
	TotalExecutionTime time.Duration
	MaxExecutionTime   time.Duration
	ErrorCount         uint64
	LastError          error
}

type entry struct {
	system  System
	order   int
	metrics Metrics
}

// Scheduler runs registered systems ordered by phase, then priority,
// then registration order.
type Scheduler struct {
	entries []*entry
	byName  map[string]*entry
	sorted  bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{byName: make(map[string]*entry)}
}

// Register adds a system; names must be unique.
func (s *Scheduler) Register(sys System) error {
	if sys == nil {
		return errors.New("nil system")
	}
	if _, exists := s.byName[sys.Name()]; exists {
		return fmt.Errorf("system %q already registered", sys.Name())
	}
	e := &entry{system: sys, order: len(s.entries)}
	s.entries = append(s.entries, e)
	s.byName[sys.Name()] = e
	s.sorted = false
	return nil
}

// Update runs every system once. Errors do not stop later systems; they are
// joined and returned.
func (s *Scheduler) Update(deltaTime float64) error {
	s.sort()
	var all error
	for _, e := range s.entries {
		start := time.Now()
		err := e.system.Update(deltaTime)
		elapsed := time.Since(start)

		e.metrics.ExecutionCount++
		e.metrics.TotalExecutionTime += elapsed
		if elapsed > e.metrics.MaxExecutionTime {
			e.metrics.MaxExecutionTime = elapsed
		}
		if err != nil {
			e.metrics.ErrorCount++
			e.metrics.LastError = err
			all = errors.Join(all, fmt.Errorf("%s: %w", e.system.Name(), err))
		}
	}
	return all
}

// Reset resets every system in execution order.
func (s *Scheduler) Reset() error {
	s.sort()
	var all error
	for _, e := range s.entries {
		if err := e.system.Reset(); err != nil {
			all = errors.Join(all, fmt.Errorf("%s: %w", e.system.Name(), err))
		}
		e.metrics = Metrics{}
	}
	return all
}

// ExecutionOrder lists system names in the order they run.
func (s *Scheduler) ExecutionOrder() []string {
	s.sort()
	names := make([]string, len(s.entries))
	for i, e := range s.entries {
		names[i] = e.system.Name()
	}
	return names
}

// GetMetrics returns the metrics of a named system.
func (s *Scheduler) GetMetrics(name string) (Metrics, bool) {
	e, ok := s.byName[name]
	if !ok {
		return Metrics{}, false
	}
	return e.metrics, true
}

func (s *Scheduler) sort() {
	if s.sorted {
		return
	}
	sort.SliceStable(s.entries, func(i, j int) bool {
		a, b := s.entries[i], s.entries[j]
		if a.system.ExecutionPhase() != b.system.ExecutionPhase() {
			return a.system.ExecutionPhase() < b.system.ExecutionPhase()
		}
		if a.system.Priority() != b.system.Priority() {
			return a.system.Priority() > b.system.Priority()
		}
		return a.order < b.order
	})
	s.sorted = true
}
