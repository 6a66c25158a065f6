package filter

import "errors"

// ErrEmptyInput is returned by New when called with zero keys.
var ErrEmptyInput = errors.New("filter: empty key set")

// ErrUnsorted is returned by New, under Options.DetectUnsorted, when the
// input keys are not in non-decreasing lexicographic order.
var ErrUnsorted = errors.New("filter: keys not sorted")

// ErrSuffixLengthOutOfRange is returned by New when HashLenBits+RealLenBits
// exceeds 64, the width of a single suffix slot.
var ErrSuffixLengthOutOfRange = errors.New("filter: suffix length exceeds 64 bits")

// ErrCorruptSerialized is returned by Deserialize when the blob's header
// fields are inconsistent with its length.
var ErrCorruptSerialized = errors.New("filter: corrupt serialized data")

// ErrInvalidIterator is returned by Iter.Key and Iter.KeyWithSuffix when the
// iterator is not currently positioned on a valid entry.
var ErrInvalidIterator = errors.New("filter: operation on invalid iterator")
