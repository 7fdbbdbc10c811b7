package cellstore

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/bsm/polyhash/geohash"
)

// Writer writes an immutable cell store. The layout is:
//
//	block...  blocks of entries, see blockBuilder
//	index     uvarint(max key delta) uvarint(offset delta) per block
//	stats     uvarint(number of cells) per precision 1..12
//	footer    uint64(index offset) uint64(stats offset) magic
type Writer struct {
	w      io.Writer
	o      Options
	offset int64
	closed bool

	block   blockBuilder
	maxKey  geohash.Key
	index   []blockInfo
	stats   Stats
	scratch []byte
}

// NewWriter wraps a writer and returns a cellstore Writer
func NewWriter(w io.Writer, o *Options) *Writer {
	oo := o.norm()
	return &Writer{
		w:       w,
		o:       oo,
		block:   blockBuilder{sectionSize: oo.SectionSize},
		scratch: make([]byte, 0, 2*binary.MaxVarintLen64),
	}
}

// Append appends a cell to the store. Cells must be appended in
// ascending order, a parent before its children.
func (w *Writer) Append(h geohash.Hash, data []byte) error {
	if w.closed {
		return errClosed
	}
	if !h.IsValid() {
		return errInvalidHash
	}

	key := h.Key()
	if key <= w.maxKey {
		return fmt.Errorf("cellstore: attempted an out-of-order append, %s must be > %s", h, w.maxKey)
	}

	if !w.block.Fits(len(data), w.o.BlockSize) {
		if err := w.flush(); err != nil {
			return err
		}
	}

	w.block.Add(key, data)
	w.maxKey = key
	w.stats.Cells[len(h)]++
	return nil
}

// Stats returns the number of cells appended so far, per precision.
func (w *Writer) Stats() Stats { return w.stats }

// Close flushes pending entries and writes the index, the stats and the
// footer. It does not close the underlying writer.
func (w *Writer) Close() error {
	if w.closed {
		return errClosed
	}
	if err := w.flush(); err != nil {
		return err
	}

	indexOffset := w.offset
	if err := w.writeIndex(); err != nil {
		return err
	}

	statsOffset := w.offset
	if err := w.writeStats(); err != nil {
		return err
	}

	if err := w.writeFooter(indexOffset, statsOffset); err != nil {
		return err
	}
	w.closed = true
	return nil
}

func (w *Writer) writeIndex() error {
	var prev blockInfo
	for _, info := range w.index {
		p := binary.AppendUvarint(w.scratch[:0], uint64(info.MaxKey-prev.MaxKey))
		p = binary.AppendUvarint(p, uint64(info.Offset-prev.Offset))
		if err := w.write(p); err != nil {
			return err
		}
		prev = info
	}
	return nil
}

func (w *Writer) writeStats() error {
	for p := geohash.MinPrecision; p <= geohash.MaxPrecision; p++ {
		if err := w.write(binary.AppendUvarint(w.scratch[:0], uint64(w.stats.Cells[p]))); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeFooter(indexOffset, statsOffset int64) error {
	p := binary.LittleEndian.AppendUint64(w.scratch[:0], uint64(indexOffset))
	p = binary.LittleEndian.AppendUint64(p, uint64(statsOffset))
	p = append(p, magic...)
	return w.write(p)
}

func (w *Writer) write(p []byte) error {
	n, err := w.w.Write(p)
	w.offset += int64(n)
	return err
}

func (w *Writer) flush() error {
	if w.block.Empty() {
		return nil
	}

	w.index = append(w.index, blockInfo{MaxKey: w.maxKey, Offset: w.offset})
	err := w.write(w.block.Finish(w.o.Compression))
	w.block.Reset()
	return err
}
