package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suRF-dev/gosurf/louds"
)

func keys(ss ...string) []louds.Key {
	out := make([]louds.Key, len(ss))
	for i, s := range ss {
		out[i] = louds.Key(s)
	}
	return out
}

func TestBuildRejectsEmptyInput(t *testing.T) {
	_, err := Build(nil, Options{})
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestBuildSparseOnlyWhenDenseDisabled(t *testing.T) {
	result, err := Build(keys("far", "fas", "fast", "fat"), Options{IncludeDense: false, RealLenBits: 8})
	require.NoError(t, err)

	assert.Equal(t, 0, result.CutoffLevel)
	assert.Equal(t, 0, result.Dense.NodeCount())
	assert.Equal(t, 0, result.Sparse.ChildCountDense())
}

func TestBuildAllDenseWhenRatioZero(t *testing.T) {
	result, err := Build(keys("far", "fas", "fast", "fat"), Options{IncludeDense: true, SparseDenseRatio: 0, RealLenBits: 8})
	require.NoError(t, err)

	assert.Equal(t, result.Height, result.CutoffLevel)
}

func TestDedupRemovesExactDuplicates(t *testing.T) {
	result, err := Build(keys("a", "a", "b"), Options{IncludeDense: true, SparseDenseRatio: DefaultSparseDenseRatio, RealLenBits: 8})
	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestStreamNodesHandlesEmptyStringKey(t *testing.T) {
	sorted := keys("", "a", "ab")
	nodes, height := streamNodes(sorted, louds.Truncate(sorted))

	require.NotEmpty(t, nodes)
	assert.True(t, nodes[0].isPrefixKey)
	assert.Equal(t, louds.Terminator, nodes[0].labels[0])
	assert.Equal(t, 2, height)
}

func TestStreamNodesLevelsAreMonotonic(t *testing.T) {
	sorted := keys("far", "fas", "fast", "fat", "top")
	nodes, _ := streamNodes(sorted, louds.Truncate(sorted))

	last := -1
	for _, n := range nodes {
		if n.level < last {
			t.Fatalf("nodes out of level order: saw level %d after %d", n.level, last)
		}
		last = n.level
	}
}

func TestDetermineCutoffLevelWithinTrieHeight(t *testing.T) {
	// A single root node with 25 leaf labels: whichever level the
	// heuristic picks must lie within [0, height].
	var ss []string
	for c := byte('a'); c < byte('z'); c++ {
		ss = append(ss, string([]byte{c}))
	}
	sorted := keysFromStrings(ss)
	nodes, height := streamNodes(sorted, louds.Truncate(sorted))
	cutoff := determineCutoffLevel(nodes, height, 16, 8)
	assert.GreaterOrEqual(t, cutoff, 0)
	assert.LessOrEqual(t, cutoff, height)
}

func keysFromStrings(ss []string) []louds.Key {
	out := make([]louds.Key, len(ss))
	for i, s := range ss {
		out[i] = louds.Key(s)
	}
	return out
}
