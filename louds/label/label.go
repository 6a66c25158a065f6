// Package label implements the sparse tier's label array: the concatenated
// per-node label bytes of LOUDS-sparse, with a length-dispatched search.
package label

import (
	"github.com/suRF-dev/gosurf/louds"
)

const (
	linearSearchCutoff = 3
	binarySearchCutoff = 12
)

// Array is a contiguous byte buffer holding every sparse-tier label, level
// by level, node by node, in the order the builder emitted them.
type Array struct {
	bytes []byte
}

// New wraps an owned label byte slice.
func New(bytes []byte) *Array {
	return &Array{bytes: bytes}
}

// NumBytes returns the number of stored label bytes.
func (a *Array) NumBytes() int {
	return len(a.bytes)
}

// Bytes exposes the backing slice for serialization.
func (a *Array) Bytes() []byte {
	return a.bytes
}

// Read returns the label byte at pos.
func (a *Array) Read(pos int) byte {
	return a.bytes[pos]
}

// Search looks for target within [start, start+length). Unless target is
// itself Terminator, a leading Terminator byte is skipped first (it never
// matches a real key byte). It dispatches to a linear, binary, or 8-byte-wide
// SWAR-style equality scan depending on the run length, mirroring the
// reference implementation's length thresholds.
//
// Returns (true, index) on a hit, or (false, 0) otherwise.
func (a *Array) Search(target byte, start, length int) (bool, int) {
	if target == louds.Terminator {
		if length > 0 && a.bytes[start] == louds.Terminator {
			return true, start
		}
		return false, 0
	}

	start, length = a.skipLeadingTerminator(start, length)

	switch {
	case length < linearSearchCutoff:
		return a.linearSearch(target, start, length)
	case length < binarySearchCutoff:
		return a.binarySearch(target, start, length)
	default:
		return a.wideSearch(target, start, length)
	}
}

// SearchGreaterThan finds the smallest label strictly greater than target
// within [start, start+length). Returns (true, index) if one exists.
func (a *Array) SearchGreaterThan(target byte, start, length int) (bool, int) {
	start, length = a.skipLeadingTerminator(start, length)

	if length < linearSearchCutoff {
		return a.linearSearchGreaterThan(target, start, length)
	}
	return a.binarySearchGreaterThan(target, start, length)
}

// SearchGreaterThanOrEqual finds the smallest label >= target within
// [start, start+length), used by the cursor to seek a lower bound without
// a separate exact-match probe.
func (a *Array) SearchGreaterThanOrEqual(target byte, start, length int) (bool, int) {
	if found, pos := a.Search(target, start, length); found {
		return true, pos
	}
	return a.SearchGreaterThan(target, start, length)
}

// SearchLessThan finds the largest label strictly less than target within
// [start, start+length). A leading Terminator, if present, always
// qualifies (it sorts before every real byte).
func (a *Array) SearchLessThan(target byte, start, length int) (bool, int) {
	if length == 0 {
		return false, 0
	}
	hasTerminator := a.bytes[start] == louds.Terminator
	realStart, realLength := a.skipLeadingTerminator(start, length)

	i := realLength - 1
	for ; i >= 0; i-- {
		if a.bytes[realStart+i] < target {
			return true, realStart + i
		}
	}
	if hasTerminator {
		return true, start
	}
	return false, 0
}

// SearchLessThanOrEqual finds the largest label <= target within
// [start, start+length).
func (a *Array) SearchLessThanOrEqual(target byte, start, length int) (bool, int) {
	if found, pos := a.Search(target, start, length); found {
		return true, pos
	}
	return a.SearchLessThan(target, start, length)
}

func (a *Array) skipLeadingTerminator(start, length int) (int, int) {
	if length > 1 && a.bytes[start] == louds.Terminator {
		return start + 1, length - 1
	}
	return start, length
}

func (a *Array) linearSearch(target byte, start, length int) (bool, int) {
	for i := 0; i < length; i++ {
		if a.bytes[start+i] == target {
			return true, start + i
		}
	}
	return false, 0
}

func (a *Array) binarySearch(target byte, start, length int) (bool, int) {
	l, r := start, start+length
	for l < r {
		m := (l + r) / 2
		switch {
		case target < a.bytes[m]:
			r = m
		case target == a.bytes[m]:
			return true, m
		default:
			l = m + 1
		}
	}
	return false, 0
}

// wideSearch compares 8 label bytes at a time using a branchless SWAR
// equality trick in place of the reference implementation's 16-byte SSE2
// scan: XOR the target byte (broadcast across all 8 lanes) with the word,
// then classic "has a zero byte" bit-twiddling identifies any matching lane.
// Go has no portable 128-bit SIMD without cgo/assembly, so this is the
// fallback the design notes call out explicitly.
func (a *Array) wideSearch(target byte, start, length int) (bool, int) {
	broadcast := uint64(target) * 0x0101010101010101

	i := 0
	for ; i+8 <= length; i += 8 {
		var word uint64
		for j := 0; j < 8; j++ {
			word |= uint64(a.bytes[start+i+j]) << (8 * (7 - j))
		}

		xored := word ^ broadcast
		if lane, ok := firstZeroLane(xored); ok {
			return true, start + i + lane
		}
	}

	for ; i < length; i++ {
		if a.bytes[start+i] == target {
			return true, start + i
		}
	}

	return false, 0
}

// firstZeroLane reports whether any of the 8 big-endian byte lanes of w is
// zero, and if so, the index (0 = most significant byte) of the first one.
func firstZeroLane(w uint64) (int, bool) {
	// Classic haszero(w): (w - 0x0101...) & ~w & 0x8080...
	hasZero := (w - 0x0101010101010101) & ^w & 0x8080808080808080
	if hasZero == 0 {
		return 0, false
	}

	for lane := 0; lane < 8; lane++ {
		shift := 8 * (7 - lane)
		if (w>>shift)&0xFF == 0 {
			return lane, true
		}
	}
	return 0, false
}

func (a *Array) linearSearchGreaterThan(target byte, start, length int) (bool, int) {
	for i := 0; i < length; i++ {
		if a.bytes[start+i] > target {
			return true, start + i
		}
	}
	return false, 0
}

func (a *Array) binarySearchGreaterThan(target byte, start, length int) (bool, int) {
	l, r := start, start+length
	for l < r {
		m := (l + r) / 2
		switch {
		case target < a.bytes[m]:
			r = m
		case target == a.bytes[m]:
			if m < start+length-1 {
				return true, m + 1
			}
			return false, 0
		default:
			l = m + 1
		}
	}

	if l < start+length {
		return true, l
	}
	return false, 0
}
