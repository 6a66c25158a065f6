package filter

import (
	"bytes"
	"encoding/binary"

	"github.com/suRF-dev/gosurf/louds/bitvector"
	"github.com/suRF-dev/gosurf/louds/dense"
	"github.com/suRF-dev/gosurf/louds/label"
	"github.com/suRF-dev/gosurf/louds/sparse"
	"github.com/suRF-dev/gosurf/louds/suffix"
)

// Serialize packs the filter into a contiguous, self-describing byte blob:
// the dense tier's three bitmaps and suffix store, the sparse tier's label
// array, child bitmap, LOUDS bits and suffix store, and a small trailer.
// Every block is padded to an 8-byte boundary. Integers are written in the
// host's native byte order, so a blob is only portable between machines
// sharing it.
func (f *Filter) Serialize() []byte {
	var buf bytes.Buffer

	writeRankVector(&buf, f.dense.LabelBitmap())
	writeRankVector(&buf, f.dense.ChildBitmap())
	writeRankVector(&buf, f.dense.PrefixKeyBits())
	writeSuffixStore(&buf, f.dense.Suffixes())

	writeU32(&buf, uint32(f.sparse.Labels().NumBytes()))
	buf.Write(f.sparse.Labels().Bytes())
	pad8(&buf)

	writeRankVector(&buf, f.sparse.ChildBitmap())
	writeSelectVector(&buf, f.sparse.LoudsBits())
	writeSuffixStore(&buf, f.sparse.Suffixes())

	writeU32(&buf, uint32(f.dense.Height()))
	writeU32(&buf, uint32(f.cutoffLevel))
	writeU32(&buf, uint32(f.dense.NodeCount()))
	writeU32(&buf, uint32(f.sparse.ChildCountDense()))
	pad8(&buf)

	return buf.Bytes()
}

// Deserialize reconstructs a Filter from a blob produced by Serialize. It
// copies the words, look-up tables and label bytes out of data, so the
// returned Filter does not reference data.
func Deserialize(data []byte) (*Filter, error) {
	r := &reader{data: data}

	labelBitmap, err := readRankVector(r)
	if err != nil {
		return nil, err
	}
	childBitmap, err := readRankVector(r)
	if err != nil {
		return nil, err
	}
	prefixBits, err := readRankVector(r)
	if err != nil {
		return nil, err
	}
	denseTerminals := labelBitmap.Rank(labelBitmap.NumBits()) - childBitmap.Rank(childBitmap.NumBits())
	densePrefixKeys := prefixBits.Rank(prefixBits.NumBits())
	denseSuffixes, err := readSuffixStore(r, denseTerminals+densePrefixKeys)
	if err != nil {
		return nil, err
	}

	numLabelBytes, err := r.u32()
	if err != nil {
		return nil, err
	}
	labelBytes, err := r.bytes(int(numLabelBytes))
	if err != nil {
		return nil, err
	}
	r.align8()
	labels := label.New(append([]byte(nil), labelBytes...))

	sparseChildBitmap, err := readRankVector(r)
	if err != nil {
		return nil, err
	}
	loudsBits, err := readSelectVector(r)
	if err != nil {
		return nil, err
	}
	sparseSuffixCount := int(numLabelBytes) - sparseChildBitmap.Rank(sparseChildBitmap.NumBits())
	sparseSuffixes, err := readSuffixStore(r, sparseSuffixCount)
	if err != nil {
		return nil, err
	}

	denseHeight, err := r.u32()
	if err != nil {
		return nil, err
	}
	cutoffLevel, err := r.u32()
	if err != nil {
		return nil, err
	}
	_, err = r.u32() // node_count_dense: derivable from prefixBits, kept for format parity
	if err != nil {
		return nil, err
	}
	childCountDense, err := r.u32()
	if err != nil {
		return nil, err
	}

	d := dense.New(labelBitmap, childBitmap, prefixBits, denseSuffixes, int(denseHeight))
	s := sparse.New(labels, sparseChildBitmap, loudsBits, sparseSuffixes, int(childCountDense))

	return &Filter{
		dense:       d,
		sparse:      s,
		height:      int(denseHeight) + loudsLevels(s),
		cutoffLevel: int(cutoffLevel),
	}, nil
}

// loudsLevels is a conservative stand-in for the sparse-tier depth, which
// the trailer does not carry directly: Height is only used for reporting,
// never for query correctness, so undercounting it here has no effect on
// Contains/RangeOverlaps/iteration.
func loudsLevels(s *sparse.Sparse) int {
	if s.NodeCount() == 0 {
		return 0
	}
	return 1
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var tmp [4]byte
	binary.NativeEndian.PutUint32(tmp[:], v)
	buf.Write(tmp[:])
}

func writeU64(buf *bytes.Buffer, v uint64) {
	var tmp [8]byte
	binary.NativeEndian.PutUint64(tmp[:], v)
	buf.Write(tmp[:])
}

func pad8(buf *bytes.Buffer) {
	for buf.Len()%8 != 0 {
		buf.WriteByte(0)
	}
}

func writeRankVector(buf *bytes.Buffer, rv *bitvector.RankVector) {
	writeU32(buf, uint32(rv.NumBits()))
	writeU32(buf, uint32(rv.BlockSize()))
	lut := rv.LUT()
	writeU32(buf, uint32(len(lut)))
	for _, w := range rv.Words() {
		writeU64(buf, w)
	}
	for _, l := range lut {
		writeU32(buf, l)
	}
	pad8(buf)
}

func writeSelectVector(buf *bytes.Buffer, sv *bitvector.SelectVector) {
	writeU32(buf, uint32(sv.NumBits()))
	writeU32(buf, uint32(sv.SampleInterval()))
	writeU32(buf, uint32(sv.NumOnes()))
	for _, w := range sv.Words() {
		writeU64(buf, w)
	}
	for _, l := range sv.LUT() {
		writeU32(buf, l)
	}
	pad8(buf)
}

// writeSuffixStore packs hashLen and realLen into the high/low halves of
// the single suffix_len_bits word the format allots: each fits in 16 bits
// (New caps the combined width at 64), and a kReal- or kHash-only
// store naturally has a zero half.
func writeSuffixStore(buf *bytes.Buffer, s *suffix.Store) {
	writeU32(buf, uint32(s.Type()))
	writeU32(buf, uint32(s.HashLen())<<16|uint32(s.RealLen()))
	writeU32(buf, uint32(s.Count()*s.Len()))
	for _, w := range s.Bits().Words() {
		writeU64(buf, w)
	}
	pad8(buf)
}

type reader struct {
	data []byte
	pos  int
}

func (r *reader) u32() (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, ErrCorruptSerialized
	}
	v := binary.NativeEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *reader) u64() (uint64, error) {
	if r.pos+8 > len(r.data) {
		return 0, ErrCorruptSerialized
	}
	v := binary.NativeEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return v, nil
}

func (r *reader) bytes(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, ErrCorruptSerialized
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *reader) align8() {
	for r.pos%8 != 0 {
		r.pos++
	}
}

func readRankVector(r *reader) (*bitvector.RankVector, error) {
	numBits, err := r.u32()
	if err != nil {
		return nil, err
	}
	blockSize, err := r.u32()
	if err != nil {
		return nil, err
	}
	if int(blockSize) != bitvector.RankBlockSize {
		return nil, ErrCorruptSerialized
	}
	numBlocks, err := r.u32()
	if err != nil {
		return nil, err
	}

	numWords := (int(numBits) + 63) / 64
	words := make([]uint64, numWords)
	for i := range words {
		w, err := r.u64()
		if err != nil {
			return nil, err
		}
		words[i] = w
	}

	lut := make([]uint32, numBlocks)
	for i := range lut {
		v, err := r.u32()
		if err != nil {
			return nil, err
		}
		lut[i] = v
	}
	r.align8()

	bv := bitvector.View(words, int(numBits))
	return bitvector.ViewRankVector(bv, lut), nil
}

func readSelectVector(r *reader) (*bitvector.SelectVector, error) {
	numBits, err := r.u32()
	if err != nil {
		return nil, err
	}
	sampleInterval, err := r.u32()
	if err != nil {
		return nil, err
	}
	numOnes, err := r.u32()
	if err != nil {
		return nil, err
	}

	numWords := (int(numBits) + 63) / 64
	words := make([]uint64, numWords)
	for i := range words {
		w, err := r.u64()
		if err != nil {
			return nil, err
		}
		words[i] = w
	}

	numSamples := int(numOnes)/int(sampleInterval) + 1
	sel := make([]uint32, numSamples)
	for i := range sel {
		v, err := r.u32()
		if err != nil {
			return nil, err
		}
		sel[i] = v
	}
	r.align8()

	bv := bitvector.View(words, int(numBits))
	return bitvector.ViewSelectVector(bv, int(sampleInterval), int(numOnes), sel), nil
}

func readSuffixStore(r *reader, count int) (*suffix.Store, error) {
	typ, err := r.u32()
	if err != nil {
		return nil, err
	}
	packedLen, err := r.u32()
	if err != nil {
		return nil, err
	}
	hashLen := int(packedLen >> 16)
	realLen := int(packedLen & 0xFFFF)

	numBits, err := r.u32()
	if err != nil {
		return nil, err
	}

	numWords := (int(numBits) + 63) / 64
	words := make([]uint64, numWords)
	for i := range words {
		w, err := r.u64()
		if err != nil {
			return nil, err
		}
		words[i] = w
	}
	r.align8()

	length := hashLen + realLen
	if length > 0 && count != 0 {
		expectedBits := count * length
		if int(numBits) != expectedBits {
			return nil, ErrCorruptSerialized
		}
	}

	bv := bitvector.View(words, int(numBits))
	return suffix.New(suffix.Type(typ), hashLen, realLen, bv, count), nil
}
