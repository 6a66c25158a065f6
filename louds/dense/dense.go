// Package dense implements the upper, fixed 256-way tier of a SuRF trie:
// LoudsDense. Every node occupies a 256-bit slice of two concatenated
// bitmaps (which labels exist, which of those have a child) plus one bit in
// a separate per-node vector marking whether the path ending at the node is
// itself a stored key.
package dense

import (
	"github.com/suRF-dev/gosurf/louds/bitvector"
	"github.com/suRF-dev/gosurf/louds/suffix"
)

// NodeFanout is the fixed branching factor of a dense node: one slot per
// possible label byte.
const NodeFanout = 256

// Dense is the query-side representation of the trie's dense tier, built
// from a Builder's emitted per-level vectors.
type Dense struct {
	labelBitmap   *bitvector.RankVector
	childBitmap   *bitvector.RankVector
	prefixKeyBits *bitvector.RankVector
	suffixes      *suffix.Store
	height        int
}

// New wraps the four component vectors (built or deserialized) as a Dense
// tier spanning `height` trie levels.
func New(labelBitmap, childBitmap, prefixKeyBits *bitvector.RankVector, suffixes *suffix.Store, height int) *Dense {
	return &Dense{
		labelBitmap:   labelBitmap,
		childBitmap:   childBitmap,
		prefixKeyBits: prefixKeyBits,
		suffixes:      suffixes,
		height:        height,
	}
}

// Height returns the number of dense levels (the cutoff depth).
func (d *Dense) Height() int {
	return d.height
}

// NodeCount returns the number of dense-tier nodes.
func (d *Dense) NodeCount() int {
	return d.prefixKeyBits.NumBits()
}

// LabelBitmap, ChildBitmap, PrefixKeyBits and Suffixes expose the component
// vectors, used by serialization and by the Filter's iterator.
func (d *Dense) LabelBitmap() *bitvector.RankVector   { return d.labelBitmap }
func (d *Dense) ChildBitmap() *bitvector.RankVector   { return d.childBitmap }
func (d *Dense) PrefixKeyBits() *bitvector.RankVector { return d.prefixKeyBits }
func (d *Dense) Suffixes() *suffix.Store              { return d.suffixes }

// suffixPosForTerminal returns the suffix slot index for a terminal
// (non-child) label found at bitmap position pos within node n.
//
// Slots are inserted, during the build, node by node, in the order: this
// node's own prefix-key slot (if any), then its terminal labels in bitmap
// order. That insertion order is exactly mirrored here: the count of
// terminal labels strictly before pos across the whole dense tier already
// includes every earlier node's contribution (rank is a global prefix
// count), and the count of prefix-key slots up to and including node n
// accounts for node n's own slot, since it precedes n's own labels.
func (d *Dense) suffixPosForTerminal(n, pos int) int {
	terminalsBefore := d.labelBitmap.Rank(pos) - d.childBitmap.Rank(pos)
	prefixSlotsThroughN := d.prefixKeyBits.Rank(n + 1)
	return terminalsBefore + prefixSlotsThroughN
}

// suffixPosForPrefixKey returns the suffix slot index for node n's own
// prefix-key slot (the path ending at n is itself a stored key).
func (d *Dense) suffixPosForPrefixKey(n int) int {
	terminalsBefore := d.labelBitmap.Rank(n*NodeFanout) - d.childBitmap.Rank(n*NodeFanout)
	prefixSlotsBeforeN := d.prefixKeyBits.Rank(n)
	return terminalsBefore + prefixSlotsBeforeN
}

// SuffixPosForTerminal exposes suffixPosForTerminal for the cursor package.
func (d *Dense) SuffixPosForTerminal(n, pos int) int { return d.suffixPosForTerminal(n, pos) }

// SuffixPosForPrefixKey exposes suffixPosForPrefixKey for the cursor package.
func (d *Dense) SuffixPosForPrefixKey(n int) int { return d.suffixPosForPrefixKey(n) }

// LookupKey walks the dense levels of key starting at the root.
//
// Three outcomes are possible:
//   - the key's presence is fully resolved within the dense tier: found is
//     the (possibly false-positive) answer, continueSparse is false.
//   - the key's path runs past the last dense level while still
//     descending: continueSparse is true and sparseNode is the sparse-tier
//     local node number to resume the walk from.
//   - the key's path hits an absent label: found is false, continueSparse
//     is false.
func (d *Dense) LookupKey(key []byte) (found bool, continueSparse bool, sparseNode int) {
	node := 0

	for level := 0; level < d.height; level++ {
		if level == len(key) {
			if d.prefixKeyBits.ReadBit(node) {
				suffixPos := d.suffixPosForPrefixKey(node)
				return d.suffixes.CheckEquality(suffixPos, key, level), false, 0
			}
			return false, false, 0
		}

		pos := node*NodeFanout + int(key[level])
		if !d.labelBitmap.ReadBit(pos) {
			return false, false, 0
		}

		if !d.childBitmap.ReadBit(pos) {
			suffixPos := d.suffixPosForTerminal(node, pos)
			return d.suffixes.CheckEquality(suffixPos, key, level+1), false, 0
		}

		node = d.childBitmap.Rank(pos + 1)
	}

	return false, true, node - d.NodeCount()
}
