// Package filter implements a SuRF (Succinct Range Filter): a static,
// approximate range-membership structure over a sorted set of byte-string
// keys. It answers point and range queries without storing the full keys,
// trading a small, tunable false-positive rate for a memory footprint far
// below a plain sorted-key index.
package filter

import (
	"bytes"

	"golang.org/x/exp/slices"

	"github.com/suRF-dev/gosurf/louds"
	"github.com/suRF-dev/gosurf/louds/builder"
	"github.com/suRF-dev/gosurf/louds/dense"
	"github.com/suRF-dev/gosurf/louds/sparse"
)

// Filter is a built, immutable SuRF index.
type Filter struct {
	dense       *dense.Dense
	sparse      *sparse.Sparse
	height      int
	cutoffLevel int
}

// New builds a Filter over rawKeys. Keys need not be pre-sorted unless
// Options.DetectUnsorted is set, in which case an unsorted input is
// rejected with ErrUnsorted rather than silently re-ordered.
func New(rawKeys [][]byte, opts Options) (*Filter, error) {
	if len(rawKeys) == 0 {
		return nil, ErrEmptyInput
	}

	opts.setDefaults()

	if int(*opts.HashLenBits)+int(*opts.RealLenBits) > 64 {
		return nil, ErrSuffixLengthOutOfRange
	}

	keys := make([]louds.Key, len(rawKeys))
	for i, k := range rawKeys {
		keys[i] = louds.Key(k)
	}

	if opts.DetectUnsorted {
		for i := 1; i < len(keys); i++ {
			if keys[i].Less(keys[i-1]) {
				return nil, ErrUnsorted
			}
		}
	}

	sorted := append([]louds.Key(nil), keys...)
	slices.SortFunc(sorted, func(a, b louds.Key) int { return bytes.Compare(a, b) })

	// Truncation to each key's minimal cross-neighbor-distinguishing prefix
	// happens inside builder.Build, which needs the untruncated keys
	// alongside it: the trie shape is decided by the truncated form, but
	// suffix bits must still be drawn from the real trailing bytes of the
	// original key.
	result, err := builder.Build(sorted, builder.Options{
		IncludeDense:     *opts.IncludeDense,
		SparseDenseRatio: int(*opts.SparseDenseRatio),
		SuffixType:       *opts.SuffixType,
		HashLenBits:      int(*opts.HashLenBits),
		RealLenBits:      int(*opts.RealLenBits),
	})
	if err != nil {
		return nil, err
	}

	return &Filter{
		dense:       result.Dense,
		sparse:      result.Sparse,
		height:      result.Height,
		cutoffLevel: result.CutoffLevel,
	}, nil
}

// Height returns the trie's total depth (dense levels plus sparse levels).
// For a Filter returned by Deserialize, the sparse tier counts as a single
// level, so Height is the dense height plus one.
func (f *Filter) Height() int {
	return f.height
}

// CutoffLevel returns the first sparse-tier level (0 if the trie has no
// dense tier at all).
func (f *Filter) CutoffLevel() int {
	return f.cutoffLevel
}

// Contains reports whether key is (possibly, subject to the configured
// suffix false-positive rate) a member of the stored key set.
func (f *Filter) Contains(key []byte) bool {
	found, continueSparse, sparseNode := f.dense.LookupKey(key)
	if continueSparse {
		return f.sparse.LookupKey(key, f.dense.Height(), sparseNode)
	}
	return found
}

// RangeOverlaps reports whether any stored key falls within [lo, hi] (with
// either bound optionally exclusive). As with Contains, a positive answer
// may be a false positive; a negative answer never is.
func (f *Filter) RangeOverlaps(lo []byte, loInclusive bool, hi []byte, hiInclusive bool) bool {
	it := f.Iterator()
	if !it.MoveToGreaterOrEqual(lo, loInclusive) {
		return false
	}

	matched, err := it.Key()
	if err != nil {
		return false
	}

	if hi == nil {
		return true
	}

	cmp := bytes.Compare(matched, hi)
	if hiInclusive {
		return cmp <= 0
	}
	return cmp < 0
}

// ApproximateCount returns the number of stored keys within [lo, hi],
// inclusive of both boundaries. The count is exact except that the two
// boundary keys themselves may be false positives, so the true count can
// be overestimated by up to two.
func (f *Filter) ApproximateCount(lo, hi []byte) int {
	it := f.Iterator()
	if !it.MoveToGreaterOrEqual(lo, true) {
		return 0
	}

	count := 0
	for it.Valid() {
		key, err := it.Key()
		if err != nil {
			break
		}
		if bytes.Compare(key, hi) > 0 {
			break
		}
		count++
		if !it.Next() {
			break
		}
	}
	return count
}

// Iterator returns a new cursor over the filter's keys, initially
// unpositioned.
func (f *Filter) Iterator() *Iter {
	return &Iter{f: f}
}

// MemoryUsage returns the approximate in-memory size, in bytes, of the
// filter's backing vectors (bit words, rank/select look-up tables, label
// bytes and packed suffix bits). It excludes Go's own slice/struct
// overhead and is meant for relative comparisons across configurations,
// not as an exact allocator accounting.
func (f *Filter) MemoryUsage() int {
	total := 0

	total += len(f.dense.LabelBitmap().Words()) * 8
	total += len(f.dense.LabelBitmap().LUT()) * 4
	total += len(f.dense.ChildBitmap().Words()) * 8
	total += len(f.dense.ChildBitmap().LUT()) * 4
	total += len(f.dense.PrefixKeyBits().Words()) * 8
	total += len(f.dense.PrefixKeyBits().LUT()) * 4
	total += len(f.dense.Suffixes().Bits().Words()) * 8

	total += len(f.sparse.Labels().Bytes())
	total += len(f.sparse.ChildBitmap().Words()) * 8
	total += len(f.sparse.ChildBitmap().LUT()) * 4
	total += len(f.sparse.LoudsBits().Words()) * 8
	total += len(f.sparse.LoudsBits().LUT()) * 4
	total += len(f.sparse.Suffixes().Bits().Words()) * 8

	return total
}
