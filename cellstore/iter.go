package cellstore

import (
	"encoding/binary"
	"sort"

	"github.com/bsm/polyhash/geohash"
)

// Iterator is a block iterator returned by the Reader
type Iterator struct {
	parent     *Reader
	blockNum   int
	sectionNum int   // section of the current entry, -1 before the first
	sections   []int // section offsets within buf

	buf []byte // decoded entries of the block
	pos int    // read position in buf

	key   geohash.Key
	value []byte
	err   error
}

// Next advances the cursor to the next entry
func (i *Iterator) Next() bool {
	if i.err != nil || i.pos >= len(i.buf) {
		return false
	}

	if next := i.sectionNum + 1; next < len(i.sections) && i.sections[next] == i.pos {
		i.sectionNum = next
		i.key = 0
	}

	delta, value, pos, ok := readEntry(i.buf, i.pos)
	if !ok {
		return false
	}

	i.key += geohash.Key(delta)
	i.value = value
	i.pos = pos
	return true
}

// readEntry decodes the entry at pos and returns the key delta, the value
// and the position of the following entry.
func readEntry(buf []byte, pos int) (delta uint64, value []byte, next int, ok bool) {
	delta, n := binary.Uvarint(buf[pos:])
	if n <= 0 {
		return 0, nil, pos, false
	}
	pos += n

	if pos >= len(buf) {
		return 0, nil, pos, false
	}
	size, n := binary.Uvarint(buf[pos:])
	if n <= 0 {
		return 0, nil, pos, false
	}
	pos += n

	end := pos + int(size)
	if end > len(buf) {
		return 0, nil, pos, false
	}
	return delta, buf[pos:end], end, true
}

// SeekSection positions the cursor at the start of the last section
// with a first key <= h.
func (i *Iterator) SeekSection(h geohash.Hash) bool {
	if len(i.sections) == 0 {
		return false
	}

	key := h.Key()
	num := sort.Search(len(i.sections), func(n int) bool {
		first, _ := binary.Uvarint(i.buf[i.sections[n]:])
		return geohash.Key(first) > key
	})
	if num > 0 {
		num--
	}
	return i.advanceSection(num)
}

// Seek advances the cursor to the first entry >= h.
func (i *Iterator) Seek(h geohash.Hash) bool {
	if !i.SeekSection(h) {
		return false
	}

	key := h.Key()
	for i.Next() {
		if i.key >= key {
			return true
		}
	}
	return false
}

// NextBlock jumps to the next block, returns true if successful.
func (i *Iterator) NextBlock() bool {
	return i.advanceBlock(i.blockNum + 1)
}

// PrevBlock jumps to the previous block, returns true if successful.
func (i *Iterator) PrevBlock() bool {
	return i.advanceBlock(i.blockNum - 1)
}

func (i *Iterator) advanceBlock(blockNum int) bool {
	if i.err != nil || i.parent == nil || blockNum < 0 || blockNum >= len(i.parent.index) {
		return false
	}

	next, err := i.parent.readBlock(blockNum)
	if err != nil {
		i.err = err
		return false
	}

	i.Release()
	*i = *next
	return true
}

// advanceSection moves the read position to the start of section num.
func (i *Iterator) advanceSection(num int) bool {
	if num < 0 || num >= len(i.sections) {
		return false
	}

	i.sectionNum = num - 1
	i.pos = i.sections[num]
	i.key = 0
	return true
}

// Key returns the key of the current entry.
func (i *Iterator) Key() geohash.Key { return i.key }

// Hash returns the hash of the current entry.
func (i *Iterator) Hash() geohash.Hash {
	h, _ := i.key.Hash()
	return h
}

// Value returns the value of the current entry. Please note that values
// are temporary buffers and must be copied if used beyond the next Next() or
// Release() function call.
func (i *Iterator) Value() []byte { return i.value }

// Err returns iterator errors
func (i *Iterator) Err() error { return i.err }

// Release releases the iterator. It must not be used once this method is called.
func (i *Iterator) Release() {
	releaseBuffer(i.buf)
	releaseIntSlice(i.sections)
	i.buf, i.sections = nil, nil
}
