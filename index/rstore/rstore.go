// Package rstore implements an index store on top of redis
package rstore

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/polyhash/index"
	"github.com/redis/go-redis/v9"
)

// Options configure the store.
type Options struct {
	// A key prefix. Default: "polyhash:".
	Prefix string

	// The expiration of written keys. Default: 0 (no expiration).
	TTL time.Duration

	// The number of writes to buffer in a pipeline. Default: 1000.
	BatchSize int

	// The timeout of individual requests. Default: 5s.
	Timeout time.Duration
}

func (o *Options) norm() *Options {
	var oo Options
	if o != nil {
		oo = *o
	}

	if oo.Prefix == "" {
		oo.Prefix = "polyhash:"
	}
	if oo.BatchSize < 1 {
		oo.BatchSize = 1000
	}
	if oo.Timeout <= 0 {
		oo.Timeout = 5 * time.Second
	}
	return &oo
}

// Store implements index.StoreReader and index.StoreWriter.
type Store struct {
	client  redis.UniversalClient
	o       Options
	pipe    redis.Pipeliner
	pending int
	owned   bool
}

var (
	_ index.StoreReader = (*Store)(nil)
	_ index.StoreWriter = (*Store)(nil)
)

// New wraps a client. The client is not closed with the store.
func New(client redis.UniversalClient, o *Options) *Store {
	return &Store{client: client, o: *o.norm()}
}

// Open connects to a redis URL, i.e. redis://localhost:6379/0.
func Open(url string, o *Options) (*Store, error) {
	ro, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	s := New(redis.NewClient(ro), o)
	s.owned = true
	return s, nil
}

// Get implements index.StoreReader.
func (s *Store) Get(key []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.o.Timeout)
	defer cancel()

	val, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

// Put implements index.StoreWriter. Writes are buffered and sent in batches.
func (s *Store) Put(key, value []byte) error {
	if s.pipe == nil {
		s.pipe = s.client.Pipeline()
	}

	s.pipe.Set(context.Background(), s.key(key), value, s.o.TTL)
	if s.pending++; s.pending >= s.o.BatchSize {
		return s.Flush()
	}
	return nil
}

// Flush sends all buffered writes.
func (s *Store) Flush() error {
	if s.pipe == nil || s.pending == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.o.Timeout)
	defer cancel()

	_, err := s.pipe.Exec(ctx)
	s.pending = 0
	return err
}

// Close flushes pending writes.
func (s *Store) Close() error {
	err := s.Flush()
	if s.owned {
		if e := s.client.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

func (s *Store) key(key []byte) string {
	return s.o.Prefix + string(key)
}
