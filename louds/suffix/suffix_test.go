package suffix

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRealSuffixRoundTrip(t *testing.T) {
	b := NewBuilder(Real, 0, 16)

	key := []byte("fasten")
	level := 3 // "fas" consumed by the trie, "ten" remains
	val := constructReal(key, level, 16)
	b.Append(val)

	store := b.Build()
	assert.True(t, store.CheckEquality(0, key, level))
	assert.False(t, store.CheckEquality(0, []byte("fasting"), level))
}

func TestRealSuffixSentinelMatchesAnyKey(t *testing.T) {
	b := NewBuilder(Real, 0, 8)
	b.Append(0) // sentinel: nothing stored for this slot
	store := b.Build()

	assert.True(t, store.CheckEquality(0, []byte("whatever"), 0))
}

func TestHashSuffix(t *testing.T) {
	b := NewBuilder(Hash, 8, 0)
	key := []byte("toy")
	b.Append(constructHash(key, 8))
	store := b.Build()

	assert.True(t, store.CheckEquality(0, key, 2))

	// A different key almost never hashes to the same low byte; this is
	// deterministic given the fixed seed, so pick a key verified to
	// differ.
	assert.False(t, store.CheckEquality(0, []byte("toyz"), 2))
}

func TestMixedSuffixPacksHashHighRealLow(t *testing.T) {
	b := NewBuilder(Mixed, 4, 4)
	key := []byte("trying")
	level := 3
	h := constructHash(key, 4)
	r := constructReal(key, level, 4)
	b.Append((h << 4) | r)
	store := b.Build()

	assert.True(t, store.CheckEquality(0, key, level))
	assert.Equal(t, 0, store.Compare(0, key, level))
}

func TestCompareOrdering(t *testing.T) {
	b := NewBuilder(Real, 0, 8)
	b.Append(constructReal([]byte{0x05}, 0, 8))
	store := b.Build()

	assert.Equal(t, 0, store.Compare(0, []byte{0x05}, 0))
	assert.Equal(t, -1, store.Compare(0, []byte{0x06}, 0))
	assert.Equal(t, 1, store.Compare(0, []byte{0x04}, 0))
}

func TestNoneSuffixAlwaysEqual(t *testing.T) {
	b := NewBuilder(None, 0, 0)
	b.Append(0)
	store := b.Build()

	assert.True(t, store.CheckEquality(0, []byte("anything"), 0))
}
