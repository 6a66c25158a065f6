package bitvector

import (
	"math/bits"

	"github.com/suRF-dev/gosurf/bitops"
)

// RankBlockSize is the number of bits per rank look-up-table block. It is a
// format constant (part of the serialized layout), not a tunable.
const RankBlockSize = 512

// RankVector augments a PackedBitVector with a block prefix-sum table,
// giving Rank(pos) in constant time: lut[pos/RankBlockSize] plus a popcount
// over the partial block.
type RankVector struct {
	*PackedBitVector
	blockSize int
	lut       []uint32
}

// NewRankVector builds a RankVector owning both the bit words and the LUT.
func NewRankVector(bv *PackedBitVector) *RankVector {
	rv := &RankVector{PackedBitVector: bv, blockSize: RankBlockSize}
	rv.buildLut()
	return rv
}

// ViewRankVector wraps a borrowed bit vector and a borrowed, already
// populated LUT, used when deserializing.
func ViewRankVector(bv *PackedBitVector, lut []uint32) *RankVector {
	return &RankVector{PackedBitVector: bv, blockSize: RankBlockSize, lut: lut}
}

func (rv *RankVector) buildLut() {
	wordsPerBlock := rv.blockSize / 64
	numBlocks := rv.NumBits() / rv.blockSize
	if rv.NumBits()%rv.blockSize != 0 {
		numBlocks++
	}

	rv.lut = make([]uint32, numBlocks)

	words := rv.Words()
	cumulative := uint32(0)
	for block := 0; block < numBlocks; block++ {
		rv.lut[block] = cumulative

		start := block * wordsPerBlock
		end := start + wordsPerBlock
		if end > len(words) {
			end = len(words)
		}
		for _, w := range words[start:end] {
			cumulative += uint32(bits.OnesCount64(w))
		}
	}
}

// Rank returns the number of set bits in [0, pos), i.e. an exclusive,
// 0-based popcount prefix. pos may equal NumBits(), in which case Rank
// returns the vector's total popcount.
//
// Starting from the nearest LUT block (clamped, since pos == NumBits() can
// land one block past the last populated entry when NumBits() is an exact
// multiple of the block size) and summing whole words up to pos, with a
// masked partial word for any remaining bits.
func (rv *RankVector) Rank(pos int) int {
	if len(rv.lut) == 0 {
		return 0
	}
	blockID := pos / rv.blockSize
	if blockID >= len(rv.lut) {
		blockID = len(rv.lut) - 1
	}

	base := int(rv.lut[blockID])
	wordsPerBlock := rv.blockSize / 64
	words := rv.Words()

	wordIdx := blockID * wordsPerBlock
	bitsCounted := blockID * rv.blockSize

	for bitsCounted+64 <= pos && wordIdx < len(words) {
		base += bits.OnesCount64(words[wordIdx])
		bitsCounted += 64
		wordIdx++
	}

	if bitsCounted < pos && wordIdx < len(words) {
		tailBits := pos - bitsCounted
		tailWord := words[wordIdx] & bitops.LeadingOnesMask(tailBits)
		base += bits.OnesCount64(tailWord)
	}

	return base
}

// LUT exposes the per-block prefix sums for serialization.
func (rv *RankVector) LUT() []uint32 {
	return rv.lut
}

// BlockSize exposes the configured rank block size (always RankBlockSize
// for vectors this package builds, but kept explicit for deserialized ones
// to cross-check against a corrupt header).
func (rv *RankVector) BlockSize() int {
	return rv.blockSize
}
