package generic

import "sync"

// Pool is a typed sync.Pool. An optional reset hook runs on every Put so
// values come back clean.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(T)
}

func NewPool[T any](generate func() T) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any {
				return generate()
			},
		},
	}
}

func NewHotPool[T any](generate func() T, hotSize int) *Pool[T] {
	p := NewPool[T](generate)
	for i := 0; i < hotSize; i++ {
		p.pool.Put(generate())
	}
	return p
}

// NewResetPool returns a pool that calls reset before a value is reused.
func NewResetPool[T any](generate func() T, reset func(T)) *Pool[T] {
	p := NewPool[T](generate)
	p.reset = reset
	return p
}

func (p *Pool[T]) Get() T {
	return p.pool.Get().(T)
}

func (p *Pool[T]) Put(value T) {
	if p.reset != nil {
		p.reset(value)
	}
	p.pool.Put(value)
}

// Set is a reusable identity set.
type Set[K comparable] map[K]struct{}

// NewSetPool pools sets and clears them on return.
func NewSetPool[K comparable](capacity int) *Pool[Set[K]] {
	return NewResetPool(
		func() Set[K] { return make(Set[K], capacity) },
		func(s Set[K]) { clear(s) },
	)
}

// Add inserts k and reports whether it was absent.
func (s Set[K]) Add(k K) bool {
	if _, ok := s[k]; ok {
		return false
	}
	s[k] = struct{}{}
	return true
}

func (s Set[K]) Has(k K) bool {
	_, ok := s[k]
	return ok
}
