package index

import (
	"encoding/binary"

	"github.com/bsm/polyhash/geohash"
)

// Entry is a stored hash with its value.
type Entry struct {
	Hash  geohash.Hash
	Value []byte
}

// HashWriter is implemented by all writers that accept hash-keyed values.
type HashWriter interface {
	// Put stores a value under the hash.
	Put(h geohash.Hash, value []byte) error
	// Close implements the io.Closer interface
	Close() error
}

// Reader represents a reader on top of key-value stores
type Reader struct{ store StoreReader }

// NewReader opens a new reader
func NewReader(store StoreReader) *Reader { return &Reader{store: store} }

// Get retrieves data stored by hash
func (r *Reader) Get(h geohash.Hash) ([]byte, error) {
	if !h.IsValid() {
		return nil, errInvalidHash
	}
	return r.store.Get(storeKey(h))
}

// Lookup returns all entries whose cells contain the point, coarsest first.
func (r *Reader) Lookup(lat, lng float64) ([]Entry, error) {
	finest, err := geohash.Encode(lat, lng, geohash.MaxPrecision)
	if err != nil {
		return nil, err
	}

	var res []Entry
	for n := geohash.MinPrecision; n <= geohash.MaxPrecision; n++ {
		h := finest[:n]

		val, err := r.store.Get(storeKey(h))
		if err != nil {
			return nil, err
		}
		if val != nil {
			res = append(res, Entry{Hash: h, Value: val})
		}
	}
	return res, nil
}

// Close closes the underlying store.
func (r *Reader) Close() error { return r.store.Close() }

// --------------------------------------------------------------------

// Writer instances wrap key-value stores
type Writer struct{ store StoreWriter }

// NewWriter opens a new writer
func NewWriter(store StoreWriter) *Writer { return &Writer{store: store} }

// Put appends a new record. Sorted stores require hashes to be put in
// lexicographic order.
func (w *Writer) Put(h geohash.Hash, value []byte) error {
	if !h.IsValid() {
		return errInvalidHash
	}
	return w.store.Put(storeKey(h), value)
}

// Close closes the underlying store.
func (w *Writer) Close() error { return w.store.Close() }

// --------------------------------------------------------------------

// storeKey returns the 8-byte big-endian key of a hash, keys sort in the
// same order as the hashes.
func storeKey(h geohash.Hash) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(h.Key()))
	return key
}
