package dense

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suRF-dev/gosurf/louds/bitvector"
	"github.com/suRF-dev/gosurf/louds/suffix"
)

// buildTinyDense constructs a one-node, all-dense trie by hand: root has
// two children, 'a' (a leaf with no suffix bits) and 'b' (also a leaf),
// plus its own prefix-key flag unset.
func buildTinyDense(t *testing.T) *Dense {
	t.Helper()

	labelBits := bitvector.NewOwning(NodeFanout)
	childBits := bitvector.NewOwning(NodeFanout)
	prefixBits := bitvector.NewOwning(1)

	labelBits.Set(int('a'))
	labelBits.Set(int('b'))

	sb := suffix.NewBuilder(suffix.None, 0, 0)
	sb.Append(0)
	sb.Append(0)

	return New(
		bitvector.NewRankVector(labelBits),
		bitvector.NewRankVector(childBits),
		bitvector.NewRankVector(prefixBits),
		sb.Build(),
		1,
	)
}

func TestLookupKeyFindsLeafLabels(t *testing.T) {
	d := buildTinyDense(t)

	found, continueSparse, _ := d.LookupKey([]byte("a"))
	assert.True(t, found)
	assert.False(t, continueSparse)

	found, continueSparse, _ = d.LookupKey([]byte("b"))
	assert.True(t, found)
	assert.False(t, continueSparse)
}

func TestLookupKeyMissingLabelFails(t *testing.T) {
	d := buildTinyDense(t)

	found, continueSparse, _ := d.LookupKey([]byte("c"))
	assert.False(t, found)
	assert.False(t, continueSparse)
}

func TestLookupKeyEmptyKeyUsesPrefixBit(t *testing.T) {
	d := buildTinyDense(t)

	found, _, _ := d.LookupKey([]byte{})
	assert.False(t, found) // root's prefix-key bit was never set

	labelBits := bitvector.NewOwning(NodeFanout)
	childBits := bitvector.NewOwning(NodeFanout)
	prefixBits := bitvector.NewOwning(1)
	prefixBits.Set(0)
	sb := suffix.NewBuilder(suffix.None, 0, 0)
	sb.Append(0)
	d2 := New(
		bitvector.NewRankVector(labelBits),
		bitvector.NewRankVector(childBits),
		bitvector.NewRankVector(prefixBits),
		sb.Build(),
		1,
	)
	found2, _, _ := d2.LookupKey([]byte{})
	assert.True(t, found2)
}

func TestLookupKeyDescendsToChild(t *testing.T) {
	// Two-level dense trie: root's 'a' edge has a child, node 1 has leaf 'b'.
	labelBits := bitvector.NewOwning(2 * NodeFanout)
	childBits := bitvector.NewOwning(2 * NodeFanout)
	prefixBits := bitvector.NewOwning(2)

	labelBits.Set(int('a'))
	childBits.Set(int('a'))
	labelBits.Set(NodeFanout + int('b'))

	sb := suffix.NewBuilder(suffix.None, 0, 0)
	sb.Append(0)

	d := New(
		bitvector.NewRankVector(labelBits),
		bitvector.NewRankVector(childBits),
		bitvector.NewRankVector(prefixBits),
		sb.Build(),
		2,
	)

	found, continueSparse, _ := d.LookupKey([]byte("ab"))
	require.False(t, continueSparse)
	assert.True(t, found)

	found, _, _ = d.LookupKey([]byte("az"))
	assert.False(t, found)
}
