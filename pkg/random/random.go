// Package random abstracts the entropy source used by the scoring and
// simulation engines so that tests can substitute fixed sequences.
package random

import (
	"math/rand/v2"
	"sync"
)

// Source provides uniform random values. Implementations must be safe for
// use from a single goroutine; each run owns its own Source.
type Source interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// IntN returns a uniform value in [0, n). Panics if n <= 0.
	IntN(n int) int
}

// entropy is the production source backed by math/rand/v2.
type entropy struct {
	mu sync.Mutex
	r  *rand.Rand
}

// New returns a production Source seeded from the runtime.
func New() Source {
	return &entropy{r: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeeded returns a Source with a fixed seed, useful for reproducible runs.
func NewSeeded(seed uint64) Source {
	return &entropy{r: rand.New(rand.NewPCG(seed, seed))}
}

func (e *entropy) Float64() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.r.Float64()
}

func (e *entropy) IntN(n int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.r.IntN(n)
}

// Sequence replays a fixed series of values in [0, 1), wrapping around when
// exhausted. IntN scales the next value into [0, n).
type Sequence struct {
	mu     sync.Mutex
	values []float64
	pos    int
}

// NewSequence creates a Sequence from the given values. An empty sequence
// always yields zero.
func NewSequence(values ...float64) *Sequence {
	return &Sequence{values: values}
}

func (s *Sequence) next() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return v
}

func (s *Sequence) Float64() float64 {
	return s.next()
}

func (s *Sequence) IntN(n int) int {
	if n <= 0 {
		panic("random: IntN with non-positive n")
	}
	return int(s.next() * float64(n))
}
