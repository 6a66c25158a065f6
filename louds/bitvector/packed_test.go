package bitvector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func bitsOf(positions ...int) *PackedBitVector {
	bv := NewOwning(128)
	for _, p := range positions {
		bv.Set(p)
	}
	return bv
}

func TestReadBit(t *testing.T) {
	bv := bitsOf(0, 63, 64, 127)

	assert.True(t, bv.ReadBit(0))
	assert.True(t, bv.ReadBit(63))
	assert.True(t, bv.ReadBit(64))
	assert.True(t, bv.ReadBit(127))
	assert.False(t, bv.ReadBit(1))
	assert.False(t, bv.ReadBit(65))
}

func TestDistanceToNextSetBit(t *testing.T) {
	bv := bitsOf(2, 5, 64, 127)

	assert.Equal(t, 3, bv.DistanceToNextSetBit(2))   // next set bit after 2 is 5
	assert.Equal(t, 1, bv.DistanceToNextSetBit(4))   // next set bit after 4 is 5
	assert.Equal(t, 59, bv.DistanceToNextSetBit(5))  // next is 64
	assert.Equal(t, 63, bv.DistanceToNextSetBit(64)) // next is 127

	bv2 := bitsOf(0)
	assert.Equal(t, 128, bv2.DistanceToNextSetBit(0)) // no more set bits
}

func TestDistanceToPrevSetBit(t *testing.T) {
	bv := bitsOf(2, 5, 64, 127)

	assert.Equal(t, 3, bv.DistanceToPrevSetBit(5)) // prev set bit before 5 is 2
	assert.Equal(t, 1, bv.DistanceToPrevSetBit(3))
	assert.Equal(t, 59, bv.DistanceToPrevSetBit(64)) // prev is 5
	assert.Equal(t, 63, bv.DistanceToPrevSetBit(127))

	assert.Equal(t, 3, bv.DistanceToPrevSetBit(2)) // no set bit before position 2
}
