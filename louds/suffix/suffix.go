// Package suffix implements SuffixStore: the packed per-key suffix bits
// which let a SuRF filter trade extra bytes for a lower false-positive rate,
// without needing to store full keys.
package suffix

import (
	"fmt"

	"github.com/suRF-dev/gosurf/bitops"
	"github.com/suRF-dev/gosurf/louds/bitvector"
	"github.com/suRF-dev/gosurf/louds/hash"
)

// Type enumerates the four suffix flavours a Store can hold.
type Type int

const (
	// None stores no suffix bits at all; every key sharing a trie path
	// is indistinguishable, which maximizes the false-positive rate.
	None Type = iota
	// Hash stores the low bits of a hash of the whole key.
	Hash
	// Real stores the next literal key bytes following the trie-decided
	// prefix.
	Real
	// Mixed stores both: hash bits in the high-order position of the
	// suffix, real bits in the low-order position.
	Mixed
)

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case Hash:
		return "hash"
	case Real:
		return "real"
	case Mixed:
		return "mixed"
	default:
		return "unknown"
	}
}

// MaxLenBits is the maximum total suffix width, in bits, this store can
// pack per slot (a single machine word).
const MaxLenBits = 64

// Store holds one fixed-width suffix slot per terminal trie edge (and, for
// the dense tier, per prefix-key node).
type Store struct {
	typ     Type
	hashLen int // bits
	realLen int // bits
	bits    *bitvector.PackedBitVector
	count   int
}

// Len returns the total width, in bits, of a single suffix slot.
func (s *Store) Len() int {
	return s.hashLen + s.realLen
}

// Type returns the suffix flavour this store holds.
func (s *Store) Type() Type {
	return s.typ
}

// Count returns the number of suffix slots.
func (s *Store) Count() int {
	return s.count
}

// Bits exposes the backing packed bit vector for serialization.
func (s *Store) Bits() *bitvector.PackedBitVector {
	return s.bits
}

// HashLen and RealLen expose the two component widths, needed to
// reconstruct a Builder from a deserialized header.
func (s *Store) HashLen() int { return s.hashLen }
func (s *Store) RealLen() int { return s.realLen }

// New wraps an already-populated packed bit vector as a Store. Used both by
// the builder (owning) and by deserialization (viewing).
func New(typ Type, hashLen, realLen int, bits *bitvector.PackedBitVector, count int) *Store {
	return &Store{typ: typ, hashLen: hashLen, realLen: realLen, bits: bits, count: count}
}

// Read extracts the idx-th suffix slot's bits, right-aligned in the
// returned uint64.
func (s *Store) Read(idx int) uint64 {
	length := s.Len()
	if length == 0 {
		return 0
	}

	bitPos := idx * length
	wordIdx := bitPos / 64
	offset := bitPos % 64

	words := s.bits.Words()
	hi := words[wordIdx] << offset

	if offset+length <= 64 {
		return hi >> (64 - length)
	}

	// Slot straddles a word boundary: combine the high bits already
	// shifted out of this word with the leading bits of the next one.
	remaining := offset + length - 64
	lo := words[wordIdx+1] >> (64 - remaining)
	return (hi >> (64 - length)) | lo
}

// ConstructFromKey computes the suffix bits a query for key would produce
// at the given trie level (the number of trie-consumed bytes).
func (s *Store) ConstructFromKey(key []byte, level int) uint64 {
	switch s.typ {
	case Hash:
		return constructHash(key, s.hashLen)
	case Real:
		return constructReal(key, level, s.realLen)
	case Mixed:
		h := constructHash(key, s.hashLen)
		r := constructReal(key, level, s.realLen)
		return (h << s.realLen) | r
	default:
		return 0
	}
}

// Construct computes the suffix bits a key would produce at the given trie
// level for the given type and component widths, without needing a built
// Store. The builder uses this directly so construction and query always
// agree on the exact same bit-packing.
func Construct(typ Type, key []byte, level, hashLen, realLen int) uint64 {
	switch typ {
	case Hash:
		return constructHash(key, hashLen)
	case Real:
		return constructReal(key, level, realLen)
	case Mixed:
		h := constructHash(key, hashLen)
		r := constructReal(key, level, realLen)
		return (h << realLen) | r
	default:
		return 0
	}
}

func constructHash(key []byte, length int) uint64 {
	if length == 0 {
		return 0
	}
	h := uint64(hash.Suffix(key))
	return h & bitops.TrailingOnesMask(length)
}

// constructReal takes the `length`-bit window of key starting at byte
// level, left-aligned within the byte stream and zero-padded on the right
// if the key runs out before length bits are available.
func constructReal(key []byte, level, length int) uint64 {
	if length == 0 {
		return 0
	}

	var suffix uint64
	numCompleteBytes := length / 8
	for i := 0; i < numCompleteBytes; i++ {
		suffix <<= 8
		if level+i < len(key) {
			suffix |= uint64(key[level+i])
		}
	}

	remainderBits := length % 8
	if remainderBits > 0 {
		suffix <<= remainderBits
		var b byte
		if level+numCompleteBytes < len(key) {
			b = key[level+numCompleteBytes]
		}
		suffix |= uint64(b) >> (8 - remainderBits)
	}

	return suffix
}

// CheckEquality reports whether the stored suffix at idx is consistent with
// key being queried at level (the number of trie-consumed bytes).
func (s *Store) CheckEquality(idx int, key []byte, level int) bool {
	if s.typ == None {
		return true
	}

	stored := s.Read(idx)

	if s.typ == Real {
		if stored == 0 {
			// Sentinel: no suffix info was stored for this key,
			// either because it was exactly as long as the trie
			// path, or because kReal padding collapsed to zero.
			return true
		}
	}

	return stored == s.ConstructFromKey(key, level)
}

// Compare lexicographically compares the stored suffix at idx against the
// suffix key would produce at level. Only valid for Real and Mixed stores.
func (s *Store) Compare(idx int, key []byte, level int) int {
	if s.typ != Real && s.typ != Mixed {
		panic(fmt.Sprintf("suffix.Compare: not valid for type %s", s.typ))
	}

	stored := s.Read(idx)
	if s.typ == Real && stored == 0 {
		return -1
	}

	query := s.ConstructFromKey(key, level)
	switch {
	case stored < query:
		return -1
	case stored == query:
		return 0
	default:
		return 1
	}
}
