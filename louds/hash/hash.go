// Package hash provides the fixed, non-cryptographic hash function used to
// derive kHash and kMixed suffix bits from a key.
//
// It is a direct port of LevelDB's Hash() (itself a Murmur-like mixer),
// which is the function the SuRF paper's reference implementation uses to
// seed suffix hashes.
package hash

import "github.com/suRF-dev/gosurf/louds"

const (
	m uint32 = 0xc6a4a793
	r uint32 = 24
)

// LevelDB hashes data with the given seed, 4 bytes at a time, folding the
// trailing 1-3 bytes in at the end.
func LevelDB(data []byte, seed uint32) uint32 {
	h := seed ^ (uint32(len(data)) * m)

	i := 0
	for ; i+4 <= len(data); i += 4 {
		w := uint32(data[i]) | uint32(data[i+1])<<8 | uint32(data[i+2])<<16 | uint32(data[i+3])<<24
		h += w
		h *= m
		h ^= h >> 16
	}

	switch len(data) - i {
	case 3:
		h += uint32(data[i+2]) << 16
		fallthrough
	case 2:
		h += uint32(data[i+1]) << 8
		fallthrough
	case 1:
		h += uint32(data[i])
		h *= m
		h ^= h >> r
	}

	return h
}

// Suffix hashes key with the fixed SuRF seed.
func Suffix(key []byte) uint32 {
	return LevelDB(key, louds.HashSeed)
}
