package suffix

import "github.com/suRF-dev/gosurf/louds/bitvector"

// Builder accumulates suffix values one slot at a time during the trie
// build and packs them into a Store once the final slot count is known.
type Builder struct {
	typ     Type
	hashLen int
	realLen int
	values  []uint64
}

// NewBuilder starts a suffix builder for the given type and component
// widths. hashLen/realLen follow the same rules as Options: hashLen is used
// by Hash and Mixed, realLen by Real and Mixed, and the unused one(s) must
// be zero.
func NewBuilder(typ Type, hashLen, realLen int) *Builder {
	return &Builder{typ: typ, hashLen: hashLen, realLen: realLen}
}

// Append records the suffix value for the next slot, in build order. The
// returned index is the slot's position, to be used later at query time by
// the dense/sparse rank formulas.
func (b *Builder) Append(value uint64) int {
	idx := len(b.values)
	b.values = append(b.values, value)
	return idx
}

// Len returns the number of slots appended so far.
func (b *Builder) Len() int {
	return len(b.values)
}

// Build packs all appended values into a Store.
func (b *Builder) Build() *Store {
	width := b.hashLen + b.realLen
	if width == 0 || len(b.values) == 0 {
		return New(b.typ, b.hashLen, b.realLen, bitvector.NewOwning(0), len(b.values))
	}

	bits := bitvector.NewOwning(width * len(b.values))
	for idx, v := range b.values {
		writeBits(bits, idx*width, width, v)
	}

	return New(b.typ, b.hashLen, b.realLen, bits, len(b.values))
}

// writeBits writes the low `width` bits of v into bits starting at bitPos,
// MSB-first, possibly straddling a word boundary.
func writeBits(bits *bitvector.PackedBitVector, bitPos, width int, v uint64) {
	for i := 0; i < width; i++ {
		bitValue := (v >> (width - 1 - i)) & 1
		if bitValue != 0 {
			bits.Set(bitPos + i)
		}
	}
}
