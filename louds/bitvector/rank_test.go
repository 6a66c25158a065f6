package bitvector

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRankBasic(t *testing.T) {
	bv := NewOwning(128)
	for _, p := range []int{0, 1, 63, 64, 127} {
		bv.Set(p)
	}
	rv := NewRankVector(bv)

	assert.Equal(t, 0, rv.Rank(0))
	assert.Equal(t, 1, rv.Rank(1))
	assert.Equal(t, 2, rv.Rank(2))
	assert.Equal(t, 3, rv.Rank(64))
	assert.Equal(t, 4, rv.Rank(65))
	assert.Equal(t, 5, rv.Rank(128))
}

func TestRankAgainstNaivePopcount(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	numBits := 4000 // spans multiple 512-bit blocks
	bv := NewOwning(numBits)

	for i := 0; i < numBits; i++ {
		if rng.Intn(3) == 0 {
			bv.Set(i)
		}
	}

	rv := NewRankVector(bv)

	cumulative := 0
	for i := 0; i <= numBits; i++ {
		assert.Equal(t, cumulative, rv.Rank(i), "rank mismatch at %d", i)
		if i < numBits && bv.ReadBit(i) {
			cumulative++
		}
	}
}
