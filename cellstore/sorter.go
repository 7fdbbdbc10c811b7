package cellstore

import (
	"encoding/binary"
	"io"

	"github.com/bsm/extsort"
	"github.com/bsm/polyhash/geohash"
)

// SorterOptions configure a Sorter.
type SorterOptions struct {
	// Directory for spill files. Default: os.TempDir()
	TempDir string
}

// MergeFunc combines all values appended for a single cell.
type MergeFunc func(values [][]byte) []byte

// Sorter accepts cells in arbitrary order and replays them in key order.
// Records beyond the in-memory buffer are spilled to disk.
type Sorter struct {
	x   *extsort.Sorter
	rec []byte
	n   int
}

// NewSorter inits a sorter.
func NewSorter(o *SorterOptions) *Sorter {
	var dir string
	if o != nil {
		dir = o.TempDir
	}
	return &Sorter{x: extsort.New(&extsort.Options{WorkDir: dir})}
}

// Len returns the number of appended records.
func (s *Sorter) Len() int { return s.n }

// Append adds a value for h. The same cell may be appended many times.
func (s *Sorter) Append(h geohash.Hash, data []byte) error {
	if !h.IsValid() {
		return errInvalidHash
	}

	s.rec = binary.BigEndian.AppendUint64(s.rec[:0], uint64(h.Key()))
	s.rec = append(s.rec, data...)
	if err := s.x.Append(s.rec); err != nil {
		return err
	}
	s.n++
	return nil
}

// Sort finalises the input and returns an iterator over grouped entries.
// No further records can be appended.
func (s *Sorter) Sort() (*SorterIterator, error) {
	it, err := s.x.Sort()
	if err != nil {
		return nil, err
	}
	return &SorterIterator{it: it}, nil
}

// Flush sorts all records and appends one entry per cell to w, combining
// the values of each cell with merge.
func (s *Sorter) Flush(w *Writer, merge MergeFunc) error {
	iter, err := s.Sort()
	if err != nil {
		return err
	}
	defer iter.Close()

	for {
		h, vals, err := iter.NextEntry()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}

		if err := w.Append(h, merge(vals)); err != nil {
			return err
		}
	}
}

// Close removes spill files.
func (s *Sorter) Close() error { return s.x.Close() }

// --------------------------------------------------------------------

// SorterIterator replays sorted records, grouped by cell.
type SorterIterator struct {
	it     *extsort.Iterator
	values [][]byte

	// one record of the following cell is read ahead
	headKey geohash.Key
	head    []byte
}

// NextEntry returns the next cell with all values appended for it, ordered
// by their bytes. The returned slice is reused by subsequent calls. It
// returns io.EOF once all entries are consumed.
func (i *SorterIterator) NextEntry() (geohash.Hash, [][]byte, error) {
	i.values = i.values[:0]

	key := i.headKey
	if key != 0 {
		i.values = append(i.values, i.head)
		i.headKey, i.head = 0, nil
	}

	for i.it.Next() {
		rec := i.it.Data()
		next := geohash.Key(binary.BigEndian.Uint64(rec))
		val := append([]byte(nil), rec[8:]...)

		if key != 0 && next != key {
			i.headKey, i.head = next, val
			break
		}
		key = next
		i.values = append(i.values, val)
	}
	if err := i.it.Err(); err != nil {
		return "", nil, err
	}
	if key == 0 {
		return "", nil, io.EOF
	}

	h, err := key.Hash()
	if err != nil {
		return "", nil, err
	}
	return h, i.values, nil
}

// Close releases the iterator.
func (i *SorterIterator) Close() error { return i.it.Close() }
