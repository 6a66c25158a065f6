package filter

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wordKeys = [][]byte{
	[]byte("f"),
	[]byte("far"),
	[]byte("fas"),
	[]byte("fast"),
	[]byte("fat"),
	[]byte("s"),
	[]byte("top"),
	[]byte("toy"),
	[]byte("trie"),
	[]byte("trip"),
	[]byte("try"),
}

func buildWordFilter(t *testing.T) *Filter {
	t.Helper()
	f, err := New(wordKeys, Options{})
	require.NoError(t, err)
	return f
}

func TestNewRejectsEmptyInput(t *testing.T) {
	_, err := New(nil, Options{})
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestNewRejectsOversizedSuffix(t *testing.T) {
	hash := uint(40)
	real := uint(40)
	_, err := New(wordKeys, Options{HashLenBits: &hash, RealLenBits: &real})
	assert.ErrorIs(t, err, ErrSuffixLengthOutOfRange)
}

func TestNewDetectsUnsorted(t *testing.T) {
	_, err := New([][]byte{[]byte("b"), []byte("a")}, Options{DetectUnsorted: true})
	assert.ErrorIs(t, err, ErrUnsorted)
}

func TestContainsAllStoredKeys(t *testing.T) {
	f := buildWordFilter(t)
	for _, k := range wordKeys {
		assert.True(t, f.Contains(k), "expected contains(%q)", k)
	}
}

func TestContainsRejectsClearNonMembers(t *testing.T) {
	f := buildWordFilter(t)
	// These diverge from every stored key's trie path entirely (no input
	// key starts with these prefixes), so a false positive is impossible.
	for _, probe := range [][]byte{[]byte("zzz"), []byte("abc"), []byte("q")} {
		assert.False(t, f.Contains(probe))
	}
}

// TestSuffixUsesUntruncatedKeyTail guards against computing suffix bits from
// a key already cut down to its minimal trie-distinguishing prefix: "axxx"
// and "zzzz" diverge at their very first byte, so both get truncated to a
// single byte for the trie itself, but the kReal suffix must still be drawn
// from each key's real, untruncated tail.
func TestSuffixUsesUntruncatedKeyTail(t *testing.T) {
	includeDense := false
	f, err := New([][]byte{[]byte("axxx"), []byte("zzzz")}, Options{IncludeDense: &includeDense})
	require.NoError(t, err)

	assert.True(t, f.Contains([]byte("axxx")))
	assert.False(t, f.Contains([]byte("ayyy")))
}

func TestContainsAllDenseConfiguration(t *testing.T) {
	includeDense := true
	ratio := uint(0)
	f, err := New(wordKeys, Options{IncludeDense: &includeDense, SparseDenseRatio: &ratio})
	require.NoError(t, err)
	assert.Equal(t, f.Height(), f.CutoffLevel())

	for _, k := range wordKeys {
		assert.True(t, f.Contains(k))
	}
}

func TestContainsSparseOnlyConfiguration(t *testing.T) {
	includeDense := false
	f, err := New(wordKeys, Options{IncludeDense: &includeDense})
	require.NoError(t, err)
	assert.Equal(t, 0, f.CutoffLevel())

	for _, k := range wordKeys {
		assert.True(t, f.Contains(k))
	}
}

func TestRangeOverlapsMatchesContainsOnExactBounds(t *testing.T) {
	f := buildWordFilter(t)
	for _, k := range wordKeys {
		assert.Equal(t, f.Contains(k), f.RangeOverlaps(k, true, k, true))
	}
}

func TestRangeOverlapsFindsKeysInsideRange(t *testing.T) {
	f := buildWordFilter(t)
	assert.True(t, f.RangeOverlaps([]byte("fa"), true, []byte("fz"), true))
	assert.True(t, f.RangeOverlaps([]byte("toz"), true, []byte("trz"), true))
}

func TestRangeOverlapsEmptyRangeIsFalse(t *testing.T) {
	f := buildWordFilter(t)
	assert.False(t, f.RangeOverlaps([]byte("u"), true, []byte("z"), true))
}

func TestIteratorForwardOrderMatchesSortedKeys(t *testing.T) {
	f := buildWordFilter(t)

	sorted := append([][]byte(nil), wordKeys...)
	sort.Slice(sorted, func(i, j int) bool { return string(sorted[i]) < string(sorted[j]) })

	it := f.Iterator()
	require.True(t, it.MoveToGreaterOrEqual([]byte{}, true))

	var seen [][]byte
	for {
		key, err := it.Key()
		require.NoError(t, err)
		seen = append(seen, append([]byte(nil), key...))
		if !it.Next() {
			break
		}
	}

	require.Len(t, seen, len(sorted))
	for i := range sorted {
		assert.Equal(t, string(sorted[i]), string(seen[i]))
	}
}

func TestIteratorMoveToGreaterOrEqualExclusive(t *testing.T) {
	f := buildWordFilter(t)
	it := f.Iterator()
	require.True(t, it.MoveToGreaterOrEqual([]byte("fas"), false))
	key, err := it.Key()
	require.NoError(t, err)
	assert.NotEqual(t, "fas", string(key))
}

func TestIteratorPrevUndoesNext(t *testing.T) {
	f := buildWordFilter(t)
	it := f.Iterator()
	require.True(t, it.MoveToGreaterOrEqual([]byte("fas"), true))
	start, err := it.Key()
	require.NoError(t, err)

	require.True(t, it.Next())
	require.True(t, it.Prev())

	back, err := it.Key()
	require.NoError(t, err)
	assert.Equal(t, string(start), string(back))
}

func TestIteratorKeyOnUnpositionedReturnsError(t *testing.T) {
	f := buildWordFilter(t)
	it := f.Iterator()
	_, err := it.Key()
	assert.ErrorIs(t, err, ErrInvalidIterator)
}

func TestSerializeRoundTrip(t *testing.T) {
	f := buildWordFilter(t)
	blob := f.Serialize()

	restored, err := Deserialize(blob)
	require.NoError(t, err)

	for _, k := range wordKeys {
		assert.True(t, restored.Contains(k))
	}
	assert.False(t, restored.Contains([]byte("zzz")))
	assert.True(t, restored.RangeOverlaps([]byte("fa"), true, []byte("fz"), true))
}

func TestDeserializeRejectsTruncatedBlob(t *testing.T) {
	f := buildWordFilter(t)
	blob := f.Serialize()

	_, err := Deserialize(blob[:len(blob)/2])
	assert.ErrorIs(t, err, ErrCorruptSerialized)
}

func TestApproximateCountAtLeastKeysInRange(t *testing.T) {
	f := buildWordFilter(t)
	count := f.ApproximateCount([]byte("fa"), []byte("fz"))
	assert.GreaterOrEqual(t, count, 4) // far, fas, fast, fat
}
