package cellstore

import (
	"bytes"
	"encoding/binary"
	"io"
	"sort"

	"github.com/bsm/polyhash/geohash"
)

// Reader represents a cellstore reader
type Reader struct {
	r io.ReaderAt

	index       []blockInfo
	indexOffset int64
	stats       Stats
}

// NewReader opens a reader.
func NewReader(r io.ReaderAt, size int64) (*Reader, error) {
	footerOffset := size - footerLen
	if footerOffset < 0 {
		return nil, errBadMagic
	}

	footer := make([]byte, footerLen)
	if _, err := r.ReadAt(footer, footerOffset); err != nil {
		return nil, err
	}
	if !bytes.Equal(footer[16:], magic) {
		return nil, errBadMagic
	}

	indexOffset := int64(binary.LittleEndian.Uint64(footer[0:]))
	statsOffset := int64(binary.LittleEndian.Uint64(footer[8:]))
	if indexOffset < 0 || indexOffset > statsOffset || statsOffset > footerOffset {
		return nil, errBadMagic
	}

	// index and stats are read in one go
	meta := make([]byte, footerOffset-indexOffset)
	if _, err := r.ReadAt(meta, indexOffset); err != nil {
		return nil, err
	}

	index, err := parseIndex(meta[:statsOffset-indexOffset])
	if err != nil {
		return nil, err
	}
	stats, err := parseStats(meta[statsOffset-indexOffset:])
	if err != nil {
		return nil, err
	}

	return &Reader{
		r:           r,
		index:       index,
		indexOffset: indexOffset,
		stats:       stats,
	}, nil
}

func parseIndex(p []byte) ([]blockInfo, error) {
	var index []blockInfo
	var info blockInfo
	for len(p) != 0 {
		u1, n1 := binary.Uvarint(p)
		if n1 <= 0 {
			return nil, errBadMagic
		}
		u2, n2 := binary.Uvarint(p[n1:])
		if n2 <= 0 {
			return nil, errBadMagic
		}
		p = p[n1+n2:]

		info.MaxKey += geohash.Key(u1)
		info.Offset += int64(u2)
		index = append(index, info)
	}
	return index, nil
}

func parseStats(p []byte) (Stats, error) {
	var stats Stats
	for prec := geohash.MinPrecision; prec <= geohash.MaxPrecision; prec++ {
		u, n := binary.Uvarint(p)
		if n <= 0 {
			return stats, errCorruptStats
		}
		p = p[n:]
		stats.Cells[prec] = int(u)
	}
	if len(p) != 0 {
		return stats, errCorruptStats
	}
	return stats, nil
}

// Stats returns the number of stored cells per precision.
func (r *Reader) Stats() Stats { return r.stats }

// NumBlocks returns the number of stored blocks.
func (r *Reader) NumBlocks() int {
	return len(r.index)
}

// FindBlock returns the block which may contain h.
func (r *Reader) FindBlock(h geohash.Hash) (*Iterator, error) {
	if !h.IsValid() {
		return nil, errInvalidHash
	}

	blockNum := r.searchBlock(h.Key())
	if blockNum >= len(r.index) {
		return &Iterator{parent: r}, nil
	}
	return r.readBlock(blockNum)
}

// Get returns the value stored for h. It returns nil if h is not stored.
func (r *Reader) Get(h geohash.Hash) ([]byte, error) {
	it, err := r.FindBlock(h)
	if err != nil {
		return nil, err
	}
	defer it.Release()

	if it.Seek(h) && it.Key() == h.Key() {
		return append([]byte(nil), it.Value()...), nil
	}
	return nil, it.Err()
}

// Lookup returns all entries whose cells contain the point, across all
// precisions, coarsest first.
func (r *Reader) Lookup(lat, lng float64) ([]Entry, error) {
	finest, err := geohash.Encode(lat, lng, geohash.MaxPrecision)
	if err != nil {
		return nil, err
	}

	var res []Entry
	for n := geohash.MinPrecision; n <= geohash.MaxPrecision; n++ {
		if !r.stats.Has(n) {
			continue
		}
		h := finest[:n]

		val, err := r.Get(h)
		if err != nil {
			return nil, err
		}
		if val != nil {
			res = append(res, Entry{Hash: h, Value: val})
		}
	}
	return res, nil
}

func (r *Reader) searchBlock(key geohash.Key) int {
	return sort.Search(len(r.index), func(i int) bool {
		return r.index[i].MaxKey >= key
	})
}

func (r *Reader) readBlock(blockNum int) (*Iterator, error) {
	min := r.index[blockNum].Offset
	max := r.indexOffset
	if next := blockNum + 1; next < len(r.index) {
		max = r.index[next].Offset
	}

	raw := fetchBuffer(int(max - min))
	if _, err := r.r.ReadAt(raw, min); err != nil {
		releaseBuffer(raw)
		return nil, err
	}

	buf, sections, err := decodeBlock(raw)
	if err != nil {
		return nil, err
	}

	return &Iterator{
		parent:     r,
		blockNum:   blockNum,
		sectionNum: -1,
		sections:   sections,
		buf:        buf,
	}, nil
}
