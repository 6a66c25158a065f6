package filter

import "github.com/suRF-dev/gosurf/louds/suffix"

// Options configures a Filter built by New. Pointer fields left nil pick up
// the documented default, following the same pattern as the teacher's
// SURFOptions: a plain value type cannot distinguish "not set" from "set to
// the zero value", and these defaults are not zero.
type Options struct {
	// IncludeDense selects whether the builder may use a dense upper tier
	// at all. If false, the whole trie is built sparse-only. Default true.
	IncludeDense *bool

	// SparseDenseRatio weights the cutoff heuristic; higher favors sparse.
	// 0 forces an all-dense trie (only meaningful if IncludeDense is
	// true). Default 64.
	SparseDenseRatio *uint

	// SuffixType selects which suffix flavour to store per key. Default
	// suffix.Real with RealLenBits' default width.
	SuffixType *suffix.Type

	// HashLenBits is the hash-suffix width in bits, used by suffix.Hash
	// and suffix.Mixed. Default 0.
	HashLenBits *uint

	// RealLenBits is the real-suffix width in bits, used by suffix.Real
	// and suffix.Mixed. Default 8.
	RealLenBits *uint

	// DetectUnsorted, if true, makes New verify the input is sorted and
	// return ErrUnsorted instead of silently re-sorting. Default false:
	// production builds trust the caller and New sorts internally.
	DetectUnsorted bool
}

func (o *Options) setDefaults() {
	if o.IncludeDense == nil {
		v := true
		o.IncludeDense = &v
	}
	if o.SparseDenseRatio == nil {
		v := uint(64)
		o.SparseDenseRatio = &v
	}
	if o.SuffixType == nil {
		v := suffix.Real
		o.SuffixType = &v
	}
	if o.HashLenBits == nil {
		v := uint(0)
		o.HashLenBits = &v
	}
	if o.RealLenBits == nil {
		v := uint(8)
		o.RealLenBits = &v
	}
}
