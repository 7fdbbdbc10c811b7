package cellstore

import (
	"errors"

	"github.com/bsm/polyhash/geohash"
)

// Byte sizes.
const (
	KiB = 1024
	MiB = 1024 * KiB
)

// Writer defaults.
const (
	DefaultBlockSize   = 16 * KiB
	DefaultSectionSize = 16
)

// footer: index offset, stats offset, magic
const footerLen = 24

var magic = []byte{0x70, 0x68, 0x63, 0x73, 0x01, 0x9e, 0x2b, 0xd4}

var (
	errClosed             = errors.New("cellstore: writer is closed")
	errBadMagic           = errors.New("cellstore: not a cell store")
	errInvalidCompression = errors.New("cellstore: unknown block compression")
	errInvalidHash        = errors.New("cellstore: invalid hash")
	errCorruptStats       = errors.New("cellstore: corrupt precision stats")
)

// Compression selects how blocks are compressed.
type Compression byte

// Supported compression algorithms.
const (
	NoCompression Compression = iota + 1
	SnappyCompression
)

func (c Compression) String() string {
	switch c {
	case NoCompression:
		return "none"
	case SnappyCompression:
		return "snappy"
	}
	return "unknown"
}

// Options configure the Writer. Zero values are replaced by defaults.
type Options struct {
	// Target size of a block, at least 1KiB. Default: DefaultBlockSize.
	BlockSize int

	// Entries per section, each section starts with a full key.
	// Default: DefaultSectionSize.
	SectionSize int

	// Default: SnappyCompression.
	Compression Compression
}

func (o *Options) norm() Options {
	oo := Options{
		BlockSize:   DefaultBlockSize,
		SectionSize: DefaultSectionSize,
		Compression: SnappyCompression,
	}
	if o == nil {
		return oo
	}

	if o.BlockSize >= KiB {
		oo.BlockSize = o.BlockSize
	}
	if o.SectionSize > 0 {
		oo.SectionSize = o.SectionSize
	}
	if o.Compression == NoCompression {
		oo.Compression = NoCompression
	}
	return oo
}

// --------------------------------------------------------------------

// Entry is a stored cell with its value.
type Entry struct {
	Hash  geohash.Hash
	Value []byte
}

// Stats holds the number of stored cells per precision.
type Stats struct {
	Cells [geohash.MaxPrecision + 1]int
}

// Total returns the total number of stored cells.
func (s Stats) Total() int {
	n := 0
	for _, c := range s.Cells {
		n += c
	}
	return n
}

// Has returns true if cells of the given precision are stored.
func (s Stats) Has(precision int) bool {
	return precision >= geohash.MinPrecision && precision <= geohash.MaxPrecision && s.Cells[precision] != 0
}

// Precisions returns the coarsest and the finest stored precision, or
// zeros if the store is empty.
func (s Stats) Precisions() (min, max int) {
	for p := geohash.MinPrecision; p <= geohash.MaxPrecision; p++ {
		if s.Cells[p] == 0 {
			continue
		}
		if min == 0 {
			min = p
		}
		max = p
	}
	return
}
