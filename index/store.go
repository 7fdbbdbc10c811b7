package index

import (
	"encoding/binary"
	"errors"
	"sort"
	"sync"

	"github.com/bsm/polyhash/geohash"
)

var (
	errInvalidHash = errors.New("index: invalid hash")
	errInvalidKey  = errors.New("index: invalid store key")
)

// StoreReader is a key-value store to read hash records from. Keys are
// produced by the Reader.
type StoreReader interface {
	// Get returns the value stored under key, or nil if there is none.
	Get(key []byte) (value []byte, err error)
	// Close implements the io.Closer interface
	Close() error
}

// StoreWriter is a key-value store to write hash records to. Keys are
// produced by the Writer in the order records are put.
type StoreWriter interface {
	// Put stores value under key.
	Put(key, value []byte) error
	// Close implements the io.Closer interface
	Close() error
}

// InMemStore is a StoreReader and StoreWriter backed by a map, for tests
// and small indexes.
type InMemStore struct {
	records map[geohash.Key][]byte
	mu      sync.RWMutex
}

// NewInMemStore inits an InMemStore
func NewInMemStore() *InMemStore {
	return &InMemStore{records: make(map[geohash.Key][]byte)}
}

// Len returns the number of stored records.
func (m *InMemStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.records)
}

// Hashes returns the stored hashes.
func (m *InMemStore) Hashes() geohash.Set {
	m.mu.RLock()
	keys := make([]geohash.Key, 0, len(m.records))
	for k := range m.records {
		keys = append(keys, k)
	}
	m.mu.RUnlock()

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	set := make(geohash.Set, 0, len(keys))
	for _, k := range keys {
		if h, err := k.Hash(); err == nil {
			set = append(set, h)
		}
	}
	return set
}

// Get implements StoreReader.
func (m *InMemStore) Get(key []byte) ([]byte, error) {
	k, err := parseStoreKey(key)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.records[k], nil
}

// Put implements StoreWriter. Values are copied.
func (m *InMemStore) Put(key, value []byte) error {
	k, err := parseStoreKey(key)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.records[k] = append([]byte(nil), value...)
	m.mu.Unlock()
	return nil
}

// Close implements StoreReader and StoreWriter.
func (*InMemStore) Close() error { return nil }

func parseStoreKey(key []byte) (geohash.Key, error) {
	if len(key) != 8 {
		return 0, errInvalidKey
	}
	return geohash.Key(binary.BigEndian.Uint64(key)), nil
}
