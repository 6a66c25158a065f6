// Package bitvector implements the three succinct bit-vector layers a SuRF
// filter is built from: a packed bit array (PackedBitVector), a
// constant-time rank index over it (RankVector), and a constant-time select
// index over it (SelectVector). All three follow the MSB-first bit
// convention used throughout the format: within a 64-bit word, bit 0 is the
// word's high bit, so `mask = 0x8000000000000000 >> offset` addresses bit
// `offset`.
//
// Every type here can be built two ways: Owning (allocates and fills its own
// word slice, used by the builder) or viewing a caller-supplied byte region
// (used when a Filter is deserialized from a shared, possibly memory-mapped,
// buffer). The View* constructors never copy; NewOwning allocates fresh
// words, and FromWords takes over the given slice without copying it.
package bitvector

import (
	"fmt"
	"math/bits"

	"github.com/suRF-dev/gosurf/bitops"
)

// PackedBitVector stores numBits bits across ceil(numBits/64) 64-bit words.
//
// Unlike the teacher's bitmap.Bitmap, a PackedBitVector never grows once
// built: callers either build it directly from a known-size word slice
// (owning) or a borrowed one (viewing). The builder counts a vector's bits
// first, then allocates it with NewOwning and fills it with Set.
type PackedBitVector struct {
	words   []uint64
	numBits int
	// owning is false when words was borrowed from a larger serialized
	// buffer.
	owning bool
}

// NewOwning allocates a fresh, zeroed PackedBitVector able to hold numBits
// bits.
func NewOwning(numBits int) *PackedBitVector {
	return &PackedBitVector{
		words:   make([]uint64, wordCount(numBits)),
		numBits: numBits,
		owning:  true,
	}
}

// FromWords wraps an already-populated word slice as an owning
// PackedBitVector, without copying it.
func FromWords(words []uint64, numBits int) *PackedBitVector {
	return &PackedBitVector{words: words, numBits: numBits, owning: true}
}

// View wraps a borrowed word slice (e.g. a slice into a deserialized byte
// buffer) without taking ownership of it.
func View(words []uint64, numBits int) *PackedBitVector {
	return &PackedBitVector{words: words, numBits: numBits, owning: false}
}

func wordCount(numBits int) int {
	n := numBits / 64
	if numBits%64 != 0 {
		n++
	}
	return n
}

// NumBits returns the logical length of the vector, in bits.
func (bv *PackedBitVector) NumBits() int {
	return bv.numBits
}

// Words exposes the backing word slice, MSB-first, for serialization.
func (bv *PackedBitVector) Words() []uint64 {
	return bv.words
}

// Owning reports whether this vector owns its backing storage (built mode)
// as opposed to borrowing it from a deserialized buffer.
func (bv *PackedBitVector) Owning() bool {
	return bv.owning
}

// Set sets bit pos to 1. pos must already be within NumBits(); the
// PackedBitVector does not grow.
func (bv *PackedBitVector) Set(pos int) {
	idx, offset := pos/64, pos%64
	bv.words[idx] |= bitops.SingleOneMask(offset)
}

// ReadBit reads the bit at pos.
func (bv *PackedBitVector) ReadBit(pos int) bool {
	idx, offset := pos/64, pos%64
	return bv.words[idx]&bitops.SingleOneMask(offset) != 0
}

// DistanceToNextSetBit scans forward from pos+1 for the next set bit,
// returning its distance from pos. If no set bit exists at or after pos+1,
// it returns NumBits()-pos.
//
// Implemented as "shift the partial word left by the offset, then count
// leading zeros" so that within a word the scan is a single CLZ rather than
// a bit-by-bit loop; only the word boundary crossing needs a loop. The
// absolute bit index of the match is reconstructed from (word, offset) and
// compared against pos directly, so there is no running accumulator to get
// off by one.
func (bv *PackedBitVector) DistanceToNextSetBit(pos int) int {
	next := pos + 1
	if next >= bv.numBits {
		return bv.numBits - pos
	}

	wordIdx := next / 64
	offset := next % 64

	word := bv.words[wordIdx] << offset
	if word != 0 {
		found := next + bits.LeadingZeros64(word)
		return found - pos
	}

	for wordIdx++; wordIdx < len(bv.words); wordIdx++ {
		if bv.words[wordIdx] != 0 {
			found := wordIdx*64 + bits.LeadingZeros64(bv.words[wordIdx])
			return found - pos
		}
	}

	return bv.numBits - pos
}

// DistanceToPrevSetBit scans backward from pos-1 for the previous set bit,
// returning its distance from pos. If no set bit exists at or before pos-1,
// it returns pos+1 (i.e. "one past the start").
//
// Positions are numbered MSB-first, so "backward" (towards position 0) means
// towards the high-order bits of a word. Masking to the leading (offset+1)
// bits and then finding the lowest-order surviving set bit (TrailingZeros64)
// gives the highest surviving MSB-first position, i.e. the candidate
// closest to offset.
func (bv *PackedBitVector) DistanceToPrevSetBit(pos int) int {
	prev := pos - 1
	if prev < 0 {
		return pos + 1
	}

	wordIdx := prev / 64
	offset := prev % 64

	masked := bv.words[wordIdx] & bitops.LeadingOnesMask(offset+1)
	if masked != 0 {
		msbPos := 63 - bits.TrailingZeros64(masked)
		found := wordIdx*64 + msbPos
		return pos - found
	}

	for wordIdx--; wordIdx >= 0; wordIdx-- {
		if bv.words[wordIdx] != 0 {
			msbPos := 63 - bits.TrailingZeros64(bv.words[wordIdx])
			found := wordIdx*64 + msbPos
			return pos - found
		}
	}

	return pos + 1
}

// String renders the vector as grouped binary digits, in the same format as
// the teacher's bitmap.Bitmap.String, for debugging.
func (bv *PackedBitVector) String() string {
	out := ""
	for i, w := range bv.words {
		out += fmt.Sprintf("%06d |", i*64)
		s := fmt.Sprintf("%064b", w)
		for j := 0; j < 64; j += 8 {
			out += " " + s[j:j+8]
		}
		out += "\n"
	}
	return out
}
