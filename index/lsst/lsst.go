// Package lsst implements an index store on top of leveldb table files.
package lsst

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/bsm/polyhash/index"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/table"
)

var errOutOfOrder = errors.New("lsst: keys must be put in ascending order")

// DefaultOptions are used when nil options are passed. Point lookups probe
// every precision and mostly miss, tables are therefore written with a
// bloom filter. Readers must use the same filter.
func DefaultOptions() *opt.Options {
	return &opt.Options{
		Compression: opt.SnappyCompression,
		Filter:      filter.NewBloomFilter(10),
	}
}

func norm(o *opt.Options) *opt.Options {
	if o == nil {
		return DefaultOptions()
	}
	return o
}

// --------------------------------------------------------------------

type reader struct {
	tr   *table.Reader
	file io.Closer
}

// OpenFile opens a table file for reading.
func OpenFile(fname string, o *opt.Options) (index.StoreReader, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	// Release closes io.Closer readers, the file is closed by Close.
	tr, err := table.NewReader(io.NewSectionReader(f, 0, fi.Size()), fi.Size(), storage.FileDesc{Type: storage.TypeTable}, nil, nil, norm(o))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &reader{tr: tr, file: f}, nil
}

// Open opens a table for reading.
func Open(ra io.ReaderAt, size int64, o *opt.Options) (index.StoreReader, error) {
	tr, err := table.NewReader(ra, size, storage.FileDesc{Type: storage.TypeTable}, nil, nil, norm(o))
	if err != nil {
		return nil, err
	}
	return &reader{tr: tr}, nil
}

// Get implements index.StoreReader.
func (r *reader) Get(key []byte) ([]byte, error) {
	val, err := r.tr.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, nil
	}
	return val, err
}

// Close implements index.StoreReader.
func (r *reader) Close() error {
	r.tr.Release()
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// --------------------------------------------------------------------

type writer struct {
	tw      *table.Writer
	file    io.Closer
	lastKey []byte
}

// CreateFile creates a table file. Keys must be put in ascending order.
func CreateFile(fname string, o *opt.Options) (index.StoreWriter, error) {
	f, err := os.Create(fname)
	if err != nil {
		return nil, err
	}
	return &writer{tw: table.NewWriter(f, norm(o), nil, 0), file: f}, nil
}

// Create creates a table on top of w. Keys must be put in ascending order.
func Create(w io.Writer, o *opt.Options) (index.StoreWriter, error) {
	return &writer{tw: table.NewWriter(w, norm(o), nil, 0)}, nil
}

// Put implements index.StoreWriter.
func (w *writer) Put(key, value []byte) error {
	if w.lastKey != nil && bytes.Compare(key, w.lastKey) <= 0 {
		return errOutOfOrder
	}
	w.lastKey = append(w.lastKey[:0], key...)
	return w.tw.Append(key, value)
}

// Close writes the table index and closes the file.
func (w *writer) Close() error {
	err := w.tw.Close()
	if w.file != nil {
		if e := w.file.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
