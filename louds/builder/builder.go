// Package builder streams a sorted, deduplicated key sequence once into a
// level-by-level trie representation, then makes a second pass over that
// in-memory representation to pick the dense/sparse cutoff level and
// materialize both tiers' vectors. This mirrors the reference
// implementation's determineCutoffLevel/buildDense split: the first pass is
// the single streaming scan over the input, the second re-scans the
// already-built per-level data rather than re-deriving anything from keys.
package builder

import (
	"bytes"
	"errors"
	"log"

	"golang.org/x/exp/slices"

	"github.com/suRF-dev/gosurf/louds"
	"github.com/suRF-dev/gosurf/louds/bitvector"
	"github.com/suRF-dev/gosurf/louds/dense"
	"github.com/suRF-dev/gosurf/louds/label"
	"github.com/suRF-dev/gosurf/louds/sparse"
	"github.com/suRF-dev/gosurf/louds/suffix"
)

// ErrEmptyInput is returned when Build is called with no keys.
var ErrEmptyInput = errors.New("builder: empty key set")

// DefaultSparseDenseRatio is the cutoff heuristic's default weighting,
// matching the reference implementation's default.
const DefaultSparseDenseRatio = 64

// Options configures a single Build call.
type Options struct {
	// IncludeDense, if false, forces a sparse-only trie (cutoff level 0).
	IncludeDense bool
	// SparseDenseRatio weights the cutoff heuristic; higher favors sparse.
	// A ratio of 0 forces an all-dense trie. Ignored if !IncludeDense.
	SparseDenseRatio int
	// SuffixType, HashLenBits and RealLenBits configure the suffix stores
	// built for both tiers.
	SuffixType suffix.Type
	HashLenBits int
	RealLenBits int
}

// Result holds the fully materialized two-tier trie plus the metadata the
// Filter façade and its serializer need.
type Result struct {
	Dense          *dense.Dense
	Sparse         *sparse.Sparse
	Height         int // total trie depth (dense + sparse levels)
	CutoffLevel    int // first sparse-tier level; 0 if IncludeDense is false
}

// node is one trie node discovered during the streaming pass, tagged with
// its depth. Nodes are appended in strict level order, which is also the
// order the LOUDS numbering of both tiers relies on.
type node struct {
	level        int
	isPrefixKey  bool
	prefixKey    louds.Key // representative key ending exactly at this node
	labels       []byte    // ascending; a leading Terminator marks isPrefixKey
	hasChild     []bool    // parallel to labels
	terminalKeys []louds.Key // parallel to labels; set where hasChild is false
}

// keyRef pairs a key's truncated form (which decides trie shape: grouping
// by edge byte, and where a key's path ends) with its original, untruncated
// form (which is what suffix bits must be drawn from, per the reference
// builder's insertSuffix(key, level): suffixes read the real trailing bytes
// of the original key, not of the shape-deciding truncated prefix).
type keyRef struct {
	trunc louds.Key
	orig  louds.Key
}

type task struct {
	keys        []keyRef
	isPrefixKey bool
	prefixKey   louds.Key // original, untruncated key
}

// Build runs both passes and returns the finished tiers.
func Build(keys []louds.Key, opts Options) (*Result, error) {
	if len(keys) == 0 {
		return nil, ErrEmptyInput
	}

	sorted := append([]louds.Key(nil), keys...)
	slices.SortFunc(sorted, func(a, b louds.Key) int { return bytes.Compare(a, b) })
	sorted = dedup(sorted)

	// truncated decides the trie's shape (how deep each key's path needs to
	// go before it is already distinguishable from its neighbors); sorted
	// itself is kept alongside so suffix extraction still sees each key's
	// real, untruncated trailing bytes.
	truncated := louds.Truncate(sorted)

	nodes, height := streamNodes(sorted, truncated)

	suffixWidth := opts.HashLenBits + opts.RealLenBits
	cutoff := 0
	if opts.IncludeDense {
		cutoff = determineCutoffLevel(nodes, height, opts.SparseDenseRatio, suffixWidth)
	}

	log.Printf("builder: %d nodes across %d levels, cutoff level %d", len(nodes), height, cutoff)

	d := buildDense(nodes, cutoff, opts)
	s := buildSparse(nodes, cutoff, opts)

	return &Result{Dense: d, Sparse: s, Height: height, CutoffLevel: cutoff}, nil
}

func dedup(sorted []louds.Key) []louds.Key {
	out := sorted[:0:0]
	for i, k := range sorted {
		if i == 0 || !bytesEqual(k, sorted[i-1]) {
			out = append(out, k)
		}
	}
	return out
}

func bytesEqual(a, b louds.Key) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// streamNodes performs the single streaming BFS pass, emitting nodes in
// strict level order. orig and trunc are parallel, sorted slices: trunc
// (each key cut to its minimal cross-neighbor-distinguishing prefix) drives
// the grouping-by-edge-byte and end-of-path decisions that shape the trie;
// orig supplies the actual bytes stored as each node's prefixKey/
// terminalKeys, so suffix extraction downstream still sees a key's true
// trailing bytes rather than the truncated ones that shaped the trie.
// It returns the node list and the trie's height (the number of levels
// holding nodes, which is the longest truncated key length, and at least 1
// for the root).
func streamNodes(orig, trunc []louds.Key) ([]*node, int) {
	refs := make([]keyRef, len(orig))
	for i := range orig {
		refs[i] = keyRef{trunc: trunc[i], orig: orig[i]}
	}

	root := task{keys: refs}

	// An empty-string key, if present, sorts first and terminates at the
	// root itself rather than being consumed by the per-byte loop below.
	if len(root.keys) > 0 && len(root.keys[0].trunc) == 0 {
		root.isPrefixKey = true
		root.prefixKey = root.keys[0].orig
		root.keys = root.keys[1:]
	}

	var nodes []*node
	tasks := []task{root}
	depth := 0
	height := 0

	for len(tasks) > 0 {
		var next []task

		for _, t := range tasks {
			n := &node{level: depth, isPrefixKey: t.isPrefixKey, prefixKey: t.prefixKey}

			// The terminator pseudo-label, when present, is always the
			// *first* label of the node: it represents "no further byte",
			// which sorts before every real byte regardless of its
			// numeric value (Terminator is 0xFF only because that value
			// can never collide with a real key byte, not because it
			// should sort last).
			if n.isPrefixKey {
				n.labels = append(n.labels, louds.Terminator)
				n.hasChild = append(n.hasChild, false)
				n.terminalKeys = append(n.terminalKeys, n.prefixKey)
			}

			i := 0
			for i < len(t.keys) {
				edge := t.keys[i].trunc[depth]
				j := i
				for j < len(t.keys) && t.keys[j].trunc[depth] == edge {
					j++
				}
				group := t.keys[i:j]

				var childKeys []keyRef
				var endingKey louds.Key
				hasEndingKey := false
				for _, k := range group {
					if depth == len(k.trunc)-1 {
						endingKey = k.orig
						hasEndingKey = true
					} else {
						childKeys = append(childKeys, k)
					}
				}

				n.labels = append(n.labels, edge)

				if len(childKeys) == 0 {
					n.hasChild = append(n.hasChild, false)
					n.terminalKeys = append(n.terminalKeys, endingKey)
				} else {
					n.hasChild = append(n.hasChild, true)
					n.terminalKeys = append(n.terminalKeys, nil)
					next = append(next, task{keys: childKeys, isPrefixKey: hasEndingKey, prefixKey: endingKey})
				}

				i = j
			}

			nodes = append(nodes, n)
			if depth+1 > height {
				height = depth + 1
			}
		}

		tasks = next
		depth++
	}

	return nodes, height
}

// levelStats accumulates the byte-cost inputs for the cutoff heuristic.
type levelStats struct {
	nodeCount   int
	totalLabels int // label bytes, including pseudo Terminator entries
	slotCount   int // suffix slots: count of !hasChild label entries
}

func determineCutoffLevel(nodes []*node, height, ratio, suffixWidthBits int) int {
	stats := make([]levelStats, height)
	for _, n := range nodes {
		s := &stats[n.level]
		s.nodeCount++
		s.totalLabels += len(n.labels)
		for _, hc := range n.hasChild {
			if !hc {
				s.slotCount++
			}
		}
	}

	suffixBytesPerSlot := (suffixWidthBits + 7) / 8

	denseBytesAt := make([]int, height+1) // denseBytesAt[l] = cost of levels [0, l)
	for l := 0; l < height; l++ {
		s := stats[l]
		denseBytesAt[l+1] = denseBytesAt[l] + 64*s.nodeCount + byteCeil(s.nodeCount) + s.slotCount*suffixBytesPerSlot
	}

	sparseBytesFrom := make([]int, height+1) // sparseBytesFrom[l] = cost of levels [l, height)
	for l := height - 1; l >= 0; l-- {
		s := stats[l]
		sparseBytesFrom[l] = sparseBytesFrom[l+1] + s.totalLabels + byteCeil(2*s.totalLabels) + s.slotCount*suffixBytesPerSlot
	}

	if ratio == 0 {
		return height
	}

	cutoff := 0
	for l := height; l >= 0; l-- {
		if denseBytesAt[l]*ratio <= sparseBytesFrom[l] {
			cutoff = l
			break
		}
	}
	return cutoff
}

func byteCeil(bits int) int {
	return (bits + 7) / 8
}

func suffixValue(opts Options, key louds.Key, level int) uint64 {
	return suffix.Construct(opts.SuffixType, key, level, opts.HashLenBits, opts.RealLenBits)
}

func buildDense(nodes []*node, cutoff int, opts Options) *dense.Dense {
	var denseNodes []*node
	for _, n := range nodes {
		if n.level < cutoff {
			denseNodes = append(denseNodes, n)
		}
	}

	labelBits := bitvector.NewOwning(len(denseNodes) * dense.NodeFanout)
	childBits := bitvector.NewOwning(len(denseNodes) * dense.NodeFanout)
	prefixBits := bitvector.NewOwning(len(denseNodes))
	suffixBuilder := suffix.NewBuilder(opts.SuffixType, opts.HashLenBits, opts.RealLenBits)

	for nodeIdx, n := range denseNodes {
		if n.isPrefixKey {
			prefixBits.Set(nodeIdx)
			suffixBuilder.Append(suffixValue(opts, n.prefixKey, n.level))
		}

		for li, lbl := range n.labels {
			if lbl == louds.Terminator {
				continue // already accounted for via the prefix-key bit above
			}
			pos := nodeIdx*dense.NodeFanout + int(lbl)
			labelBits.Set(pos)
			if n.hasChild[li] {
				childBits.Set(pos)
			} else {
				suffixBuilder.Append(suffixValue(opts, n.terminalKeys[li], n.level+1))
			}
		}
	}

	return dense.New(
		bitvector.NewRankVector(labelBits),
		bitvector.NewRankVector(childBits),
		bitvector.NewRankVector(prefixBits),
		suffixBuilder.Build(),
		cutoff,
	)
}

func buildSparse(nodes []*node, cutoff int, opts Options) *sparse.Sparse {
	var sparseNodes []*node
	for _, n := range nodes {
		if n.level >= cutoff {
			sparseNodes = append(sparseNodes, n)
		}
	}

	childCountDense := 0
	for _, n := range nodes {
		if n.level == cutoff-1 {
			for _, hc := range n.hasChild {
				if hc {
					childCountDense++
				}
			}
		}
	}
	if cutoff == 0 {
		childCountDense = 0
	}

	var labels []byte
	totalLabels := 0
	for _, n := range sparseNodes {
		totalLabels += len(n.labels)
	}

	childBits := bitvector.NewOwning(totalLabels)
	loudsBits := bitvector.NewOwning(totalLabels)
	suffixBuilder := suffix.NewBuilder(opts.SuffixType, opts.HashLenBits, opts.RealLenBits)

	pos := 0
	for _, n := range sparseNodes {
		loudsBits.Set(pos)

		for li, lbl := range n.labels {
			labels = append(labels, lbl)
			if n.hasChild[li] {
				childBits.Set(pos)
			} else if lbl == louds.Terminator {
				suffixBuilder.Append(suffixValue(opts, n.prefixKey, n.level))
			} else {
				suffixBuilder.Append(suffixValue(opts, n.terminalKeys[li], n.level+1))
			}
			pos++
		}
	}

	return sparse.New(
		label.New(labels),
		bitvector.NewRankVector(childBits),
		bitvector.NewSelectVector(loudsBits),
		suffixBuilder.Build(),
		childCountDense,
	)
}
