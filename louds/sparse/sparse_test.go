package sparse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/suRF-dev/gosurf/louds"
	"github.com/suRF-dev/gosurf/louds/bitvector"
	"github.com/suRF-dev/gosurf/louds/label"
	"github.com/suRF-dev/gosurf/louds/suffix"
)

// buildTinySparse builds a two-node sparse trie by hand:
//
//	node 0: labels [a, b], 'a' has a child (node 1), 'b' is a leaf
//	node 1: labels [TERMINATOR, c] (node 1's own path is itself a stored
//	        key, and it also has a 'c' child edge)
func buildTinySparse(t *testing.T) *Sparse {
	t.Helper()

	labels := label.New([]byte{'a', 'b', louds.Terminator, 'c'})

	childBits := bitvector.NewOwning(4)
	childBits.Set(0) // 'a' has a child

	loudsBits := bitvector.NewOwning(4)
	loudsBits.Set(0) // node 0 starts at position 0
	loudsBits.Set(2) // node 1 starts at position 2

	sb := suffix.NewBuilder(suffix.None, 0, 0)
	sb.Append(0) // 'b' (leaf)
	sb.Append(0) // TERMINATOR (node 1's own prefix key)
	sb.Append(0) // 'c' (leaf)

	return New(
		labels,
		bitvector.NewRankVector(childBits),
		bitvector.NewSelectVector(loudsBits),
		sb.Build(),
		0,
	)
}

func TestSparseLookupKeyLeaf(t *testing.T) {
	s := buildTinySparse(t)
	assert.True(t, s.LookupKey([]byte("b"), 0, 0))
}

func TestSparseLookupKeyDescendsThenFindsLeaf(t *testing.T) {
	s := buildTinySparse(t)
	assert.True(t, s.LookupKey([]byte("ac"), 0, 0))
}

func TestSparseLookupKeyPrefixIsStoredKey(t *testing.T) {
	s := buildTinySparse(t)
	assert.True(t, s.LookupKey([]byte("a"), 0, 0))
}

func TestSparseLookupKeyMissingLabelFails(t *testing.T) {
	s := buildTinySparse(t)
	assert.False(t, s.LookupKey([]byte("z"), 0, 0))
	assert.False(t, s.LookupKey([]byte("ad"), 0, 0))
}

func TestSparseNodeBounds(t *testing.T) {
	s := buildTinySparse(t)
	start, length := s.NodeBounds(0)
	assert.Equal(t, 0, start)
	assert.Equal(t, 2, length)

	start, length = s.NodeBounds(1)
	assert.Equal(t, 2, start)
	assert.Equal(t, 2, length)
}

func TestSparseChildNodeOffsetsByChildCountDense(t *testing.T) {
	labels := label.New([]byte{'a'})
	childBits := bitvector.NewOwning(1)
	childBits.Set(0)
	loudsBits := bitvector.NewOwning(1)
	loudsBits.Set(0)
	sb := suffix.NewBuilder(suffix.None, 0, 0)

	s := New(labels, bitvector.NewRankVector(childBits), bitvector.NewSelectVector(loudsBits), sb.Build(), 5)
	assert.Equal(t, 5, s.ChildNode(0))
}
