package cellstore

import (
	"encoding/binary"
	"sync"

	"github.com/bsm/polyhash/geohash"
	"github.com/golang/snappy"
)

// Trailing block byte.
const (
	blockNoCompression     = 0
	blockSnappyCompression = 1
)

// blockInfo is an entry of the block index.
type blockInfo struct {
	MaxKey geohash.Key // maximum key in the block
	Offset int64       // block offset position
}

// blockBuilder accumulates the entries of a single block. Keys restart at
// every section and are delta-encoded within.
//
//	entry:   uvarint(key delta) uvarint(len(value)) value
//	trailer: uint32(section offset)... uint32(num sections)
type blockBuilder struct {
	sectionSize int

	buf     []byte
	snp     []byte
	scratch [2 * binary.MaxVarintLen64]byte

	sections []int
	entries  int
	lastKey  geohash.Key
}

// Fits returns true if an entry of n bytes fits without exceeding limit.
// An empty block accepts any entry.
func (b *blockBuilder) Fits(n, limit int) bool {
	return len(b.buf) == 0 || len(b.buf)+n+len(b.scratch) <= limit
}

// Empty returns true if no entries were added since the last reset.
func (b *blockBuilder) Empty() bool { return b.entries == 0 }

// Add appends an entry. Keys must be added in ascending order.
func (b *blockBuilder) Add(key geohash.Key, value []byte) {
	delta := key - b.lastKey
	if b.entries%b.sectionSize == 0 {
		b.sections = append(b.sections, len(b.buf))
		delta = key
	}

	n := binary.PutUvarint(b.scratch[:], uint64(delta))
	n += binary.PutUvarint(b.scratch[n:], uint64(len(value)))
	b.buf = append(b.buf, b.scratch[:n]...)
	b.buf = append(b.buf, value...)

	b.entries++
	b.lastKey = key
}

// Finish appends the section trailer and returns the encoded block. The
// result is valid until the next call to Reset.
func (b *blockBuilder) Finish(c Compression) []byte {
	for _, off := range b.sections {
		b.buf = binary.LittleEndian.AppendUint32(b.buf, uint32(off))
	}
	b.buf = binary.LittleEndian.AppendUint32(b.buf, uint32(len(b.sections)))

	if c == SnappyCompression {
		b.snp = snappy.Encode(b.snp[:cap(b.snp)], b.buf)
		if len(b.snp) < len(b.buf)-len(b.buf)/8 {
			return append(b.snp, blockSnappyCompression)
		}
	}
	return append(b.buf, blockNoCompression)
}

// Reset clears the builder for the next block.
func (b *blockBuilder) Reset() {
	b.buf = b.buf[:0]
	b.sections = b.sections[:0]
	b.entries = 0
	b.lastKey = 0
}

// decodeBlock decompresses a raw block and parses its section trailer.
// Returned slices are pooled and must be released by the caller.
func decodeBlock(raw []byte) (entries []byte, sections []int, err error) {
	if len(raw) == 0 {
		return nil, nil, errInvalidCompression
	}

	var plain []byte
	switch last := len(raw) - 1; raw[last] {
	case blockNoCompression:
		plain = raw[:last]
	case blockSnappyCompression:
		defer releaseBuffer(raw)

		sz, err := snappy.DecodedLen(raw[:last])
		if err != nil {
			return nil, nil, err
		}
		if plain, err = snappy.Decode(fetchBuffer(sz), raw[:last]); err != nil {
			return nil, nil, err
		}
	default:
		releaseBuffer(raw)
		return nil, nil, errInvalidCompression
	}

	eos := len(plain) - 4
	num := int(binary.LittleEndian.Uint32(plain[eos:]))
	sos := eos - 4*num

	sections = fetchIntSlice(num)
	for n := 0; n < num; n++ {
		sections = append(sections, int(binary.LittleEndian.Uint32(plain[sos+4*n:])))
	}
	return plain[:sos], sections, nil
}

// --------------------------------------------------------------------

var bufPool, intSlicePool sync.Pool

func fetchBuffer(sz int) []byte {
	if v := bufPool.Get(); v != nil {
		if p := v.([]byte); sz <= cap(p) {
			return p[:sz]
		}
	}
	return make([]byte, sz)
}

func releaseBuffer(p []byte) {
	if cap(p) != 0 {
		bufPool.Put(p)
	}
}

func fetchIntSlice(cp int) []int {
	if v := intSlicePool.Get(); v != nil {
		if p := v.([]int); cp <= cap(p) {
			return p[:0]
		}
	}
	return make([]int, 0, cp)
}

func releaseIntSlice(p []int) {
	if cap(p) != 0 {
		intSlicePool.Put(p[:0])
	}
}
