package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequenceReplaysAndWraps(t *testing.T) {
	s := NewSequence(0.1, 0.5, 0.9)

	assert.Equal(t, 0.1, s.Float64())
	assert.Equal(t, 0.5, s.Float64())
	assert.Equal(t, 0.9, s.Float64())
	assert.Equal(t, 0.1, s.Float64(), "sequence wraps around")
}

func TestSequenceIntNScales(t *testing.T) {
	s := NewSequence(0.0, 0.5, 0.999)

	assert.Equal(t, 0, s.IntN(10))
	assert.Equal(t, 5, s.IntN(10))
	assert.Equal(t, 9, s.IntN(10))
}

func TestEmptySequenceYieldsZero(t *testing.T) {
	s := NewSequence()

	assert.Equal(t, 0.0, s.Float64())
	assert.Equal(t, 0, s.IntN(100))
}

func TestSeededSourceIsReproducible(t *testing.T) {
	a := NewSeeded(42)
	b := NewSeeded(42)

	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
		assert.Equal(t, a.IntN(1000), b.IntN(1000))
	}
}

func TestEntropyBounds(t *testing.T) {
	src := New()
	for i := 0; i < 100; i++ {
		v := src.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)

		n := src.IntN(8)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 8)
	}
}
