package filter

import (
	"github.com/suRF-dev/gosurf/louds"
	"github.com/suRF-dev/gosurf/louds/bitvector"
	"github.com/suRF-dev/gosurf/louds/dense"
	"github.com/suRF-dev/gosurf/louds/suffix"
)

type frameTier int

const (
	frameDense frameTier = iota
	frameSparse
)

// prefixSentinel marks a frame whose node was entered, and immediately
// completed, via a prefix-key flag rather than a byte label.
const prefixSentinel = -1

// frame is one level of the cursor's path from the root.
type frame struct {
	tier frameTier
	node int
	// pos is the absolute bit/label position of the edge taken to
	// complete this frame, or prefixSentinel if the dense node's own
	// prefix-key flag completed it instead. A sparse frame completed by
	// its node's leading Terminator label keeps that label's position,
	// but adds no byte to keyPath.
	pos int
}

// Iter is a bidirectional cursor over a Filter's keys, in lexicographic
// order. The zero value, as returned by Filter.Iterator, is not positioned:
// Key returns ErrInvalidIterator and Next/Prev return false until
// MoveToGreaterOrEqual or MoveToLessOrEqual positions it.
type Iter struct {
	f       *Filter
	frames  []frame
	keyPath []byte
	valid   bool

	// couldBeFalsePositive backs IsFalsePositive. It is cleared when the
	// iterator is repositioned, and no operation sets it.
	couldBeFalsePositive bool
}

// Valid reports whether the iterator is positioned on an entry.
func (it *Iter) Valid() bool {
	return it.valid
}

// Key returns the (possibly suffix-truncated) key at the iterator's current
// position. Returns ErrInvalidIterator if the iterator is not positioned.
func (it *Iter) Key() ([]byte, error) {
	if !it.valid {
		return nil, ErrInvalidIterator
	}
	return append([]byte(nil), it.keyPath...), nil
}

// IsFalsePositive returns the iterator's false-positive flag. No seek or
// step operation sets that flag, so the result is always false; it does not
// tell whether Key() is an actual stored key.
func (it *Iter) IsFalsePositive() bool {
	return it.couldBeFalsePositive
}

// currentSuffixPos returns the suffix-store slot index for the iterator's
// current position, and whether one applies (a mid-path dense frame whose
// edge still has a child carries no suffix of its own).
func (it *Iter) currentSuffixPos() (int, bool) {
	if !it.valid || len(it.frames) == 0 {
		return 0, false
	}
	top := it.frames[len(it.frames)-1]

	if top.tier == frameDense {
		if top.pos == prefixSentinel {
			return it.f.dense.SuffixPosForPrefixKey(top.node), true
		}
		if it.f.dense.ChildBitmap().ReadBit(top.pos) {
			return 0, false
		}
		return it.f.dense.SuffixPosForTerminal(top.node, top.pos), true
	}

	if top.pos == prefixSentinel {
		return 0, false
	}
	return it.f.sparse.SuffixPosForLabel(top.pos), true
}

func (it *Iter) currentSuffixStore() *suffix.Store {
	if len(it.frames) > 0 && it.frames[len(it.frames)-1].tier == frameSparse {
		return it.f.sparse.Suffixes()
	}
	return it.f.dense.Suffixes()
}

// GetSuffix returns the raw suffix bits stored at the iterator's current
// position, and whether a suffix applies there at all.
func (it *Iter) GetSuffix() (uint64, bool) {
	pos, ok := it.currentSuffixPos()
	if !ok {
		return 0, false
	}
	store := it.currentSuffixStore()
	if store.Type() == suffix.None {
		return 0, false
	}
	return store.Read(pos), true
}

// KeyWithSuffix returns the current key with any stored real-suffix bytes
// appended, reconstructing more of the original key than Key alone when
// Options.SuffixType stores real bits.
func (it *Iter) KeyWithSuffix() ([]byte, error) {
	base, err := it.Key()
	if err != nil {
		return nil, err
	}

	raw, ok := it.GetSuffix()
	if !ok {
		return base, nil
	}

	store := it.currentSuffixStore()
	realLen := store.RealLen()
	if realLen == 0 {
		return base, nil
	}

	real := raw & ((uint64(1) << uint(realLen)) - 1)
	numBytes := (realLen + 7) / 8
	shifted := real << uint(numBytes*8-realLen)

	suffixBytes := make([]byte, numBytes)
	for i := 0; i < numBytes; i++ {
		suffixBytes[i] = byte(shifted >> uint(8*(numBytes-1-i)))
	}
	return append(base, suffixBytes...), nil
}

func (it *Iter) reset() {
	it.frames = it.frames[:0]
	it.keyPath = it.keyPath[:0]
	it.valid = false
	it.couldBeFalsePositive = false
}

// MoveToGreaterOrEqual positions the iterator at the smallest stored key
// that is greater than (or, if inclusive, equal to) key. Returns false if
// no such key exists.
func (it *Iter) MoveToGreaterOrEqual(key []byte, inclusive bool) bool {
	it.reset()

	ok := it.seekDense(key, 0, 0)
	if ok && !inclusive && bytesEqualPath(it.keyPath, key) {
		return it.Next()
	}
	return ok
}

// seekDense walks down from dense node `node` at depth `depth`, following
// key, switching to the sparse tier at the cutoff boundary. It leaves the
// iterator positioned at the smallest key >= key reachable from this point,
// or returns false if every candidate in this subtree is < key.
func (it *Iter) seekDense(key []byte, depth, node int) bool {
	if depth == it.f.dense.Height() {
		return it.seekSparse(key, depth, node)
	}

	if depth == len(key) {
		// key ends exactly here: the node's own prefix-key flag (if any)
		// is the smallest match; otherwise the leftmost descendant wins.
		if it.f.dense.PrefixKeyBits().ReadBit(node) {
			it.frames = append(it.frames, frame{tier: frameDense, node: node, pos: prefixSentinel})
			it.valid = true
			return true
		}
		return it.descendLeftmostFrom(frameDense, node)
	}

	target := key[depth]
	base := node * dense.NodeFanout
	ok, offset := nextSetBitInRange(it.f.dense.LabelBitmap(), base, dense.NodeFanout, int(target))
	if !ok {
		return false
	}
	pos := base + offset

	it.frames = append(it.frames, frame{tier: frameDense, node: node, pos: pos})
	it.keyPath = append(it.keyPath, byte(offset))

	if byte(offset) != target {
		// Overshot: no exact edge for `target`, so the smallest match in
		// this subtree is the leftmost key under this larger edge.
		if it.f.dense.ChildBitmap().ReadBit(pos) {
			child := it.f.dense.ChildBitmap().Rank(pos+1) - 1
			if len(it.frames) == it.f.dense.Height() {
				return it.descendLeftmostFrom(frameSparse, child)
			}
			return it.descendLeftmostFrom(frameDense, child)
		}
		it.valid = true
		return true
	}

	if !it.f.dense.ChildBitmap().ReadBit(pos) {
		it.valid = true
		return true
	}

	child := it.f.dense.ChildBitmap().Rank(pos+1) - 1
	if it.seekDense(key, depth+1, child) {
		return true
	}

	// Exact child subtree had nothing >= key; fall back to the next
	// sibling edge at this node, if any.
	it.frames = it.frames[:len(it.frames)-1]
	it.keyPath = it.keyPath[:len(it.keyPath)-1]
	return it.advanceToNextSiblingDense(node, pos)
}

func (it *Iter) advanceToNextSiblingDense(node, pos int) bool {
	base := node * dense.NodeFanout
	ok, offset := nextSetBitInRange(it.f.dense.LabelBitmap(), base, dense.NodeFanout, pos-base+1)
	if !ok {
		return false
	}
	newPos := base + offset
	it.frames = append(it.frames, frame{tier: frameDense, node: node, pos: newPos})
	it.keyPath = append(it.keyPath, byte(offset))

	if !it.f.dense.ChildBitmap().ReadBit(newPos) {
		it.valid = true
		return true
	}
	child := it.f.dense.ChildBitmap().Rank(newPos+1) - 1
	if len(it.frames) == it.f.dense.Height() {
		return it.descendLeftmostFrom(frameSparse, child)
	}
	return it.descendLeftmostFrom(frameDense, child)
}

func (it *Iter) seekSparse(key []byte, depth, node int) bool {
	start, length := it.f.sparse.NodeBounds(node)
	if length == 0 {
		return false
	}

	if depth == len(key) {
		found, pos := it.f.sparse.Labels().Search(louds.Terminator, start, length)
		if found {
			it.frames = append(it.frames, frame{tier: frameSparse, node: node, pos: pos})
			it.valid = true
			return true
		}
		return it.descendLeftmostFrom(frameSparse, node)
	}

	target := key[depth]
	found, pos := it.f.sparse.Labels().SearchGreaterThanOrEqual(target, start, length)
	if !found {
		return false
	}

	lbl := it.f.sparse.Labels().Read(pos)
	it.frames = append(it.frames, frame{tier: frameSparse, node: node, pos: pos})

	if lbl != target {
		it.keyPath = append(it.keyPath, lbl)
		if it.f.sparse.ChildBitmap().ReadBit(pos) {
			return it.descendLeftmostFrom(frameSparse, it.f.sparse.ChildNode(pos))
		}
		it.valid = true
		return true
	}

	it.keyPath = append(it.keyPath, lbl)

	if !it.f.sparse.ChildBitmap().ReadBit(pos) {
		it.valid = true
		return true
	}

	if it.seekSparse(key, depth+1, it.f.sparse.ChildNode(pos)) {
		return true
	}

	it.frames = it.frames[:len(it.frames)-1]
	it.keyPath = it.keyPath[:len(it.keyPath)-1]
	return it.advanceToNextSiblingSparse(node, start, length, pos)
}

func (it *Iter) advanceToNextSiblingSparse(node, start, length, pos int) bool {
	if pos+1 >= start+length {
		return false
	}
	newPos := pos + 1
	lbl := it.f.sparse.Labels().Read(newPos)
	it.frames = append(it.frames, frame{tier: frameSparse, node: node, pos: newPos})
	it.keyPath = append(it.keyPath, lbl)

	if !it.f.sparse.ChildBitmap().ReadBit(newPos) {
		it.valid = true
		return true
	}
	return it.descendLeftmostFrom(frameSparse, it.f.sparse.ChildNode(newPos))
}

// descendLeftmostFrom descends greedily taking the smallest available
// completion (prefix-key flag or Terminator first, else the smallest
// label), landing the iterator on the smallest key in the subtree rooted
// at (tier, node).
func (it *Iter) descendLeftmostFrom(tier frameTier, node int) bool {
	for {
		if tier == frameDense {
			if it.f.dense.PrefixKeyBits().ReadBit(node) {
				it.frames = append(it.frames, frame{tier: frameDense, node: node, pos: prefixSentinel})
				it.valid = true
				return true
			}

			base := node * dense.NodeFanout
			ok, offset := nextSetBitInRange(it.f.dense.LabelBitmap(), base, dense.NodeFanout, 0)
			if !ok {
				return false
			}
			pos := base + offset
			it.frames = append(it.frames, frame{tier: frameDense, node: node, pos: pos})
			it.keyPath = append(it.keyPath, byte(offset))

			if !it.f.dense.ChildBitmap().ReadBit(pos) {
				it.valid = true
				return true
			}
			child := it.f.dense.ChildBitmap().Rank(pos+1) - 1
			if len(it.frames) == it.f.dense.Height() {
				tier, node = frameSparse, child
			} else {
				node = child
			}
			continue
		}

		start, length := it.f.sparse.NodeBounds(node)
		if length == 0 {
			return false
		}
		pos := start
		lbl := it.f.sparse.Labels().Read(pos)
		it.frames = append(it.frames, frame{tier: frameSparse, node: node, pos: pos})

		if lbl == louds.Terminator {
			it.valid = true
			return true
		}

		it.keyPath = append(it.keyPath, lbl)
		if !it.f.sparse.ChildBitmap().ReadBit(pos) {
			it.valid = true
			return true
		}
		node = it.f.sparse.ChildNode(pos)
	}
}

// Next advances the iterator to the next key in lexicographic order.
func (it *Iter) Next() bool {
	if !it.valid {
		return false
	}

	for len(it.frames) > 0 {
		top := it.frames[len(it.frames)-1]
		it.frames = it.frames[:len(it.frames)-1]

		if top.pos != prefixSentinel && (top.tier == frameDense || it.f.sparse.Labels().Read(top.pos) != louds.Terminator) {
			it.keyPath = it.keyPath[:len(it.keyPath)-1]
		}

		if top.tier == frameDense {
			base := top.node * dense.NodeFanout
			startOffset := 0
			if top.pos != prefixSentinel {
				startOffset = (top.pos - base) + 1
			}
			if ok, offset := nextSetBitInRange(it.f.dense.LabelBitmap(), base, dense.NodeFanout, startOffset); ok {
				pos := base + offset
				it.frames = append(it.frames, frame{tier: frameDense, node: top.node, pos: pos})
				it.keyPath = append(it.keyPath, byte(offset))
				if !it.f.dense.ChildBitmap().ReadBit(pos) {
					it.valid = true
					return true
				}
				child := it.f.dense.ChildBitmap().Rank(pos+1) - 1
				if len(it.frames) == it.f.dense.Height() {
					it.valid = it.descendLeftmostFrom(frameSparse, child)
				} else {
					it.valid = it.descendLeftmostFrom(frameDense, child)
				}
				if it.valid {
					return true
				}
				continue
			}
			// Node exhausted (and, if reached via the prefix flag, there
			// was nothing left to try); climb further.
			continue
		}

		start, length := it.f.sparse.NodeBounds(top.node)
		next := start
		if top.pos != prefixSentinel {
			next = top.pos + 1
		}
		if next < start+length {
			lbl := it.f.sparse.Labels().Read(next)
			it.frames = append(it.frames, frame{tier: frameSparse, node: top.node, pos: next})
			it.keyPath = append(it.keyPath, lbl)
			if !it.f.sparse.ChildBitmap().ReadBit(next) {
				it.valid = true
				return true
			}
			it.valid = it.descendLeftmostFrom(frameSparse, it.f.sparse.ChildNode(next))
			if it.valid {
				return true
			}
			continue
		}
		continue
	}

	it.valid = false
	return false
}

// bytesEqualPath reports whether the iterator's accumulated key path
// matches key exactly (used to implement exclusive-lower-bound seeks).
func bytesEqualPath(path, key []byte) bool {
	if len(path) != len(key) {
		return false
	}
	for i := range path {
		if path[i] != key[i] {
			return false
		}
	}
	return true
}

// nextSetBitInRange finds the smallest set bit at an offset >= minOffset
// within [base, base+width) of bv, returning (true, offset) or (false, 0).
func nextSetBitInRange(bv *bitvector.RankVector, base, width, minOffset int) (bool, int) {
	if minOffset >= width {
		return false, 0
	}
	probe := base + minOffset
	if bv.ReadBit(probe) {
		return true, minOffset
	}
	d := bv.DistanceToNextSetBit(probe)
	offset := minOffset + d
	if offset >= width {
		return false, 0
	}
	return true, offset
}

// prevSetBitInRange finds the largest set bit at an offset <= maxOffset
// within [base, base+width) of bv, returning (true, offset) or (false, 0).
func prevSetBitInRange(bv *bitvector.RankVector, base, width, maxOffset int) (bool, int) {
	if maxOffset < 0 {
		return false, 0
	}
	if maxOffset >= width {
		maxOffset = width - 1
	}
	probe := base + maxOffset
	if bv.ReadBit(probe) {
		return true, maxOffset
	}
	d := bv.DistanceToPrevSetBit(probe)
	offset := maxOffset - d
	if offset < 0 {
		return false, 0
	}
	return true, offset
}

// MoveToLessOrEqual positions the iterator at the largest stored key that
// is less than (or, if inclusive, equal to) key. Returns false if no such
// key exists.
func (it *Iter) MoveToLessOrEqual(key []byte, inclusive bool) bool {
	it.reset()

	ok := it.seekDenseLE(key, 0, 0)
	if ok && !inclusive && bytesEqualPath(it.keyPath, key) {
		return it.Prev()
	}
	return ok
}

func (it *Iter) seekDenseLE(key []byte, depth, node int) bool {
	if depth == it.f.dense.Height() {
		return it.seekSparseLE(key, depth, node)
	}

	if depth == len(key) {
		if it.f.dense.PrefixKeyBits().ReadBit(node) {
			it.frames = append(it.frames, frame{tier: frameDense, node: node, pos: prefixSentinel})
			it.valid = true
			return true
		}
		return false
	}

	target := key[depth]
	base := node * dense.NodeFanout
	if ok, offset := prevSetBitInRange(it.f.dense.LabelBitmap(), base, dense.NodeFanout, int(target)); ok {
		pos := base + offset
		it.frames = append(it.frames, frame{tier: frameDense, node: node, pos: pos})
		it.keyPath = append(it.keyPath, byte(offset))

		if byte(offset) == target {
			if !it.f.dense.ChildBitmap().ReadBit(pos) {
				it.valid = true
				return true
			}
			child := it.f.dense.ChildBitmap().Rank(pos+1) - 1
			var ok2 bool
			if len(it.frames) == it.f.dense.Height() {
				ok2 = it.seekSparseLE(key, depth+1, child)
			} else {
				ok2 = it.seekDenseLE(key, depth+1, child)
			}
			if ok2 {
				return true
			}
			it.frames = it.frames[:len(it.frames)-1]
			it.keyPath = it.keyPath[:len(it.keyPath)-1]
			return it.fallbackPrevSiblingDenseLE(node, pos)
		}

		// offset < target: every key under this edge is already < key; the
		// largest completion reachable (rightmost descent) is our answer.
		if it.f.dense.ChildBitmap().ReadBit(pos) {
			child := it.f.dense.ChildBitmap().Rank(pos+1) - 1
			if len(it.frames) == it.f.dense.Height() {
				return it.descendRightmostFrom(frameSparse, child)
			}
			return it.descendRightmostFrom(frameDense, child)
		}
		it.valid = true
		return true
	}

	if it.f.dense.PrefixKeyBits().ReadBit(node) {
		it.frames = append(it.frames, frame{tier: frameDense, node: node, pos: prefixSentinel})
		it.valid = true
		return true
	}
	return false
}

func (it *Iter) fallbackPrevSiblingDenseLE(node, pos int) bool {
	base := node * dense.NodeFanout
	if ok, offset := prevSetBitInRange(it.f.dense.LabelBitmap(), base, dense.NodeFanout, pos-base-1); ok {
		newPos := base + offset
		it.frames = append(it.frames, frame{tier: frameDense, node: node, pos: newPos})
		it.keyPath = append(it.keyPath, byte(offset))
		if it.f.dense.ChildBitmap().ReadBit(newPos) {
			child := it.f.dense.ChildBitmap().Rank(newPos+1) - 1
			if len(it.frames) == it.f.dense.Height() {
				return it.descendRightmostFrom(frameSparse, child)
			}
			return it.descendRightmostFrom(frameDense, child)
		}
		it.valid = true
		return true
	}
	if it.f.dense.PrefixKeyBits().ReadBit(node) {
		it.frames = append(it.frames, frame{tier: frameDense, node: node, pos: prefixSentinel})
		it.valid = true
		return true
	}
	return false
}

func (it *Iter) seekSparseLE(key []byte, depth, node int) bool {
	start, length := it.f.sparse.NodeBounds(node)
	if length == 0 {
		return false
	}

	if depth == len(key) {
		if it.f.sparse.Labels().Read(start) == louds.Terminator {
			it.frames = append(it.frames, frame{tier: frameSparse, node: node, pos: start})
			it.valid = true
			return true
		}
		return false
	}

	target := key[depth]
	found, pos := it.f.sparse.Labels().SearchLessThanOrEqual(target, start, length)
	if !found {
		return false
	}
	lbl := it.f.sparse.Labels().Read(pos)
	it.frames = append(it.frames, frame{tier: frameSparse, node: node, pos: pos})

	if lbl == louds.Terminator {
		it.valid = true
		return true
	}

	it.keyPath = append(it.keyPath, lbl)

	if lbl == target {
		if !it.f.sparse.ChildBitmap().ReadBit(pos) {
			it.valid = true
			return true
		}
		if it.seekSparseLE(key, depth+1, it.f.sparse.ChildNode(pos)) {
			return true
		}
		it.frames = it.frames[:len(it.frames)-1]
		it.keyPath = it.keyPath[:len(it.keyPath)-1]
		return it.fallbackPrevSiblingSparseLE(node, start, pos)
	}

	if it.f.sparse.ChildBitmap().ReadBit(pos) {
		return it.descendRightmostFrom(frameSparse, it.f.sparse.ChildNode(pos))
	}
	it.valid = true
	return true
}

func (it *Iter) fallbackPrevSiblingSparseLE(node, start, pos int) bool {
	if pos-1 < start {
		return false
	}
	newPos := pos - 1
	lbl := it.f.sparse.Labels().Read(newPos)
	it.frames = append(it.frames, frame{tier: frameSparse, node: node, pos: newPos})
	if lbl == louds.Terminator {
		it.valid = true
		return true
	}
	it.keyPath = append(it.keyPath, lbl)
	if it.f.sparse.ChildBitmap().ReadBit(newPos) {
		return it.descendRightmostFrom(frameSparse, it.f.sparse.ChildNode(newPos))
	}
	it.valid = true
	return true
}

// descendRightmostFrom descends greedily taking the largest available
// label, falling back to a node's own prefix-key flag only if it has no
// labels at all, landing the iterator on the largest key in the subtree
// rooted at (tier, node).
func (it *Iter) descendRightmostFrom(tier frameTier, node int) bool {
	for {
		if tier == frameDense {
			base := node * dense.NodeFanout
			if ok, offset := prevSetBitInRange(it.f.dense.LabelBitmap(), base, dense.NodeFanout, dense.NodeFanout-1); ok {
				pos := base + offset
				it.frames = append(it.frames, frame{tier: frameDense, node: node, pos: pos})
				it.keyPath = append(it.keyPath, byte(offset))
				if !it.f.dense.ChildBitmap().ReadBit(pos) {
					it.valid = true
					return true
				}
				child := it.f.dense.ChildBitmap().Rank(pos+1) - 1
				if len(it.frames) == it.f.dense.Height() {
					tier, node = frameSparse, child
				} else {
					node = child
				}
				continue
			}
			if it.f.dense.PrefixKeyBits().ReadBit(node) {
				it.frames = append(it.frames, frame{tier: frameDense, node: node, pos: prefixSentinel})
				it.valid = true
				return true
			}
			return false
		}

		start, length := it.f.sparse.NodeBounds(node)
		if length == 0 {
			return false
		}
		pos := start + length - 1
		lbl := it.f.sparse.Labels().Read(pos)
		it.frames = append(it.frames, frame{tier: frameSparse, node: node, pos: pos})
		if lbl == louds.Terminator {
			it.valid = true
			return true
		}
		it.keyPath = append(it.keyPath, lbl)
		if !it.f.sparse.ChildBitmap().ReadBit(pos) {
			it.valid = true
			return true
		}
		node = it.f.sparse.ChildNode(pos)
	}
}

// Prev moves the iterator to the previous key in lexicographic order.
func (it *Iter) Prev() bool {
	if !it.valid {
		return false
	}

	for len(it.frames) > 0 {
		top := it.frames[len(it.frames)-1]
		it.frames = it.frames[:len(it.frames)-1]
		if top.pos != prefixSentinel && (top.tier == frameDense || it.f.sparse.Labels().Read(top.pos) != louds.Terminator) {
			it.keyPath = it.keyPath[:len(it.keyPath)-1]
		}

		if top.tier == frameDense {
			base := top.node * dense.NodeFanout
			maxOffset := -1
			if top.pos != prefixSentinel {
				maxOffset = (top.pos - base) - 1
			}
			if ok, offset := prevSetBitInRange(it.f.dense.LabelBitmap(), base, dense.NodeFanout, maxOffset); ok {
				pos := base + offset
				it.frames = append(it.frames, frame{tier: frameDense, node: top.node, pos: pos})
				it.keyPath = append(it.keyPath, byte(offset))
				if !it.f.dense.ChildBitmap().ReadBit(pos) {
					it.valid = true
					return true
				}
				child := it.f.dense.ChildBitmap().Rank(pos+1) - 1
				if len(it.frames) == it.f.dense.Height() {
					it.valid = it.descendRightmostFrom(frameSparse, child)
				} else {
					it.valid = it.descendRightmostFrom(frameDense, child)
				}
				if it.valid {
					return true
				}
				continue
			}
			if top.pos != prefixSentinel && it.f.dense.PrefixKeyBits().ReadBit(top.node) {
				it.frames = append(it.frames, frame{tier: frameDense, node: top.node, pos: prefixSentinel})
				it.valid = true
				return true
			}
			continue
		}

		start, _ := it.f.sparse.NodeBounds(top.node)
		if top.pos-1 >= start {
			newPos := top.pos - 1
			lbl := it.f.sparse.Labels().Read(newPos)
			it.frames = append(it.frames, frame{tier: frameSparse, node: top.node, pos: newPos})
			if lbl == louds.Terminator {
				it.valid = true
				return true
			}
			it.keyPath = append(it.keyPath, lbl)
			if !it.f.sparse.ChildBitmap().ReadBit(newPos) {
				it.valid = true
				return true
			}
			it.valid = it.descendRightmostFrom(frameSparse, it.f.sparse.ChildNode(newPos))
			if it.valid {
				return true
			}
			continue
		}
		continue
	}

	it.valid = false
	return false
}
