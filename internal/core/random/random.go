package random

import (
	"encoding/binary"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
)

// Derive hashes a root seed, an entity id and a purpose label into a new seed.
// Streams derived this way are independent of creation order, so replaying a
// session with the same root seed reproduces every randomized choice.
func Derive(root uint64, id uint64, purpose string) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], root)
	binary.LittleEndian.PutUint64(buf[8:], id)
	d := xxhash.New()
	_, _ = d.Write(buf[:])
	_, _ = d.WriteString(purpose)
	return d.Sum64()
}

// Stream is a small deterministic random source.
type Stream struct {
	r *rand.Rand
}

// NewStream builds the stream for one entity and purpose.
func NewStream(root uint64, id uint64, purpose string) *Stream {
	seed := Derive(root, id, purpose)
	return &Stream{r: rand.New(rand.NewPCG(seed, xxhash.Sum64String(purpose)))}
}

// Float64 returns a value in [0,1).
func (s *Stream) Float64() float64 { return s.r.Float64() }

// Range returns a value in [lo,hi]; swapped bounds are tolerated.
func (s *Stream) Range(lo, hi float64) float64 {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + (hi-lo)*s.r.Float64()
}

// Sign returns -1 or +1 with equal probability.
func (s *Stream) Sign() float64 {
	if s.r.IntN(2) == 0 {
		return -1
	}
	return 1
}
