package bitvector

import (
	"math/bits"

	"github.com/suRF-dev/gosurf/bitops"
)

// SelectSampleInterval is the default sampling interval for the select
// look-up table. It is a format constant, not a tunable.
const SelectSampleInterval = 64

// SelectVector augments a PackedBitVector with a sampled select table: for
// sample interval S, sel[0] holds the position of the first set bit and,
// for i >= 1, sel[i] holds the position of the (i*S)-th set bit.
// Select(rank) then starts from the nearest sample and scans forward.
type SelectVector struct {
	*PackedBitVector
	sampleInterval int
	numOnes        int
	sel            []uint32
}

// NewSelectVector builds a SelectVector owning both the bits and the LUT.
func NewSelectVector(bv *PackedBitVector) *SelectVector {
	sv := &SelectVector{PackedBitVector: bv, sampleInterval: SelectSampleInterval}
	sv.buildLut()
	return sv
}

// ViewSelectVector wraps a borrowed bit vector and a borrowed, already
// populated LUT plus set-bit count, used when deserializing.
func ViewSelectVector(bv *PackedBitVector, sampleInterval, numOnes int, sel []uint32) *SelectVector {
	return &SelectVector{PackedBitVector: bv, sampleInterval: sampleInterval, numOnes: numOnes, sel: sel}
}

func (sv *SelectVector) buildLut() {
	words := sv.Words()

	samples := []uint32{0} // slot 0 holds the first set bit's position (0 if none)
	for wordIdx, w := range words {
		if w != 0 {
			samples[0] = uint32(wordIdx*64 + bits.LeadingZeros64(w))
			break
		}
	}
	nextSample := sv.sampleInterval
	cumulative := 0

	for wordIdx, w := range words {
		onesInWord := bits.OnesCount64(w)
		for nextSample <= cumulative+onesInWord {
			rankWithinWord := nextSample - cumulative
			pos := wordIdx*64 + bitops.Select64(w, rankWithinWord)
			samples = append(samples, uint32(pos))
			nextSample += sv.sampleInterval
		}
		cumulative += onesInWord
	}

	sv.numOnes = cumulative
	sv.sel = samples
}

// NumOnes returns the total number of set bits.
func (sv *SelectVector) NumOnes() int {
	return sv.numOnes
}

// SampleInterval exposes the configured sampling interval.
func (sv *SelectVector) SampleInterval() int {
	return sv.sampleInterval
}

// LUT exposes the sample table for serialization.
func (sv *SelectVector) LUT() []uint32 {
	return sv.sel
}

// Select returns the 0-based position of the rank-th set bit (rank is
// 1-based). rank must be in [1, NumOnes()].
func (sv *SelectVector) Select(rank int) int {
	bucket := rank / sv.sampleInterval
	residual := rank % sv.sampleInterval
	if bucket == 0 {
		residual--
	}

	pos := int(sv.sel[bucket])
	if residual == 0 {
		return pos
	}

	words := sv.Words()
	wordIdx := pos / 64
	offset := pos % 64

	// Exclude the sampled bit itself from the forward scan.
	if offset == 63 {
		wordIdx++
		offset = 0
	} else {
		offset++
	}

	word := (words[wordIdx] << offset) >> offset
	onesInWord := bits.OnesCount64(word)
	for onesInWord < residual {
		wordIdx++
		word = words[wordIdx]
		residual -= onesInWord
		onesInWord = bits.OnesCount64(word)
	}

	return wordIdx*64 + bitops.Select64(word, residual)
}
