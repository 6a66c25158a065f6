// Package sparse implements the lower tier of a SuRF trie: LoudsSparse.
// Nodes are variable-fanout here, so labels are stored as a packed byte
// array delimited by a LOUDS bit vector (one set bit per node, marking the
// position of its first label) rather than the dense tier's fixed 256-wide
// slabs.
package sparse

import (
	"github.com/suRF-dev/gosurf/louds"
	"github.com/suRF-dev/gosurf/louds/bitvector"
	"github.com/suRF-dev/gosurf/louds/label"
	"github.com/suRF-dev/gosurf/louds/suffix"
)

// Sparse is the query-side representation of the trie's sparse tier.
type Sparse struct {
	labels      *label.Array
	childBitmap *bitvector.RankVector
	loudsBits   *bitvector.SelectVector
	suffixes    *suffix.Store

	// childCountDense is the number of sparse-tier nodes reached directly
	// by a dense-tier crossing edge (entry points handed off by Dense).
	// Those nodes are numbered [0, childCountDense) by construction and
	// never appear as the rank of a set bit in childBitmap, since their
	// creating edge lives in the dense tier's own child bitmap instead.
	// Every sparse-to-sparse descent must shift past that reservation.
	childCountDense int

	// nodeNumberBase is the first sparse node number a sparse-tier child
	// edge's own rank may claim. It equals childCountDense, except when
	// there is no dense tier at all (childCountDense == 0): then node 0
	// is the trie root itself, reached directly by the caller rather
	// than through any child bit, so the first sparse-originated child
	// edge must claim node 1, not 0.
	nodeNumberBase int
}

// New wraps the component vectors (built or deserialized) as a Sparse tier.
// childCountDense is the number of sparse-local node slots already claimed
// by dense-to-sparse entry points (0 if the whole trie is sparse-only).
func New(labels *label.Array, childBitmap *bitvector.RankVector, loudsBits *bitvector.SelectVector, suffixes *suffix.Store, childCountDense int) *Sparse {
	nodeNumberBase := childCountDense
	if childCountDense == 0 {
		nodeNumberBase = 1
	}
	return &Sparse{
		labels:          labels,
		childBitmap:     childBitmap,
		loudsBits:       loudsBits,
		suffixes:        suffixes,
		childCountDense: childCountDense,
		nodeNumberBase:  nodeNumberBase,
	}
}

// ChildCountDense exposes the dense-to-sparse entry count, needed by
// serialization.
func (s *Sparse) ChildCountDense() int { return s.childCountDense }

// NodeCount returns the number of sparse-tier nodes: one per set LOUDS bit.
func (s *Sparse) NodeCount() int {
	return s.loudsBits.NumOnes()
}

// Labels, ChildBitmap, LoudsBits and Suffixes expose the component vectors,
// needed by serialization and by the Filter's cursor.
func (s *Sparse) Labels() *label.Array             { return s.labels }
func (s *Sparse) ChildBitmap() *bitvector.RankVector { return s.childBitmap }
func (s *Sparse) LoudsBits() *bitvector.SelectVector { return s.loudsBits }
func (s *Sparse) Suffixes() *suffix.Store            { return s.suffixes }

// firstLabelPosition returns the label-array index of node n's first label.
func (s *Sparse) firstLabelPosition(n int) int {
	return s.loudsBits.Select(n + 1)
}

// nodeBounds returns the [start, start+length) label-array range for node n.
func (s *Sparse) nodeBounds(n int) (int, int) {
	start := s.firstLabelPosition(n)
	var end int
	if n+1 < s.NodeCount() {
		end = s.firstLabelPosition(n + 1)
	} else {
		end = s.labels.NumBytes()
	}
	return start, end - start
}

// suffixPosForLabel returns the suffix slot index for a terminal (non-child)
// label at label-array position pos: the count of earlier labels in the
// whole sparse tier that were not themselves children.
func (s *Sparse) suffixPosForLabel(pos int) int {
	return pos - s.childBitmap.Rank(pos+1)
}

// childNode returns the sparse-local node number reached through the child
// edge at label-array position pos. The rank is computed purely within
// this tier's own child bitmap, so it must be shifted past the node
// numbers already claimed by dense-to-sparse entry points, or past the
// implicit root when there is no dense tier.
func (s *Sparse) childNode(pos int) int {
	return s.childBitmap.Rank(pos+1) - 1 + s.nodeNumberBase
}

// LookupKey resumes a key lookup already known to have consumed `level`
// bytes of key and to be sitting at sparse-local node `node` (either the
// trie root, if the whole trie is sparse-only, or the node handed off by
// the dense tier).
func (s *Sparse) LookupKey(key []byte, level, node int) bool {
	for {
		start, length := s.nodeBounds(node)

		if level == len(key) {
			found, pos := s.labels.Search(louds.Terminator, start, length)
			if !found {
				return false
			}
			return s.suffixes.CheckEquality(s.suffixPosForLabel(pos), key, level)
		}

		found, pos := s.labels.Search(key[level], start, length)
		if !found {
			return false
		}

		if s.childBitmap.ReadBit(pos) {
			node = s.childNode(pos)
			level++
			continue
		}

		return s.suffixes.CheckEquality(s.suffixPosForLabel(pos), key, level+1)
	}
}

// NodeBounds exposes nodeBounds for the cursor package.
func (s *Sparse) NodeBounds(n int) (int, int) { return s.nodeBounds(n) }

// ChildNode exposes childNode for the cursor package.
func (s *Sparse) ChildNode(pos int) int { return s.childNode(pos) }

// SuffixPosForLabel exposes suffixPosForLabel for the cursor package.
func (s *Sparse) SuffixPosForLabel(pos int) int { return s.suffixPosForLabel(pos) }
