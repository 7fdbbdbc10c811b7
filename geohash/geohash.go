// Package geohash implements the standard base-32 geohash grid: encoding of
// points into cells, decoding of cells into boxes and the structural
// parent/child/neighbor relations between cells.
package geohash

import (
	"errors"
	"fmt"
	"math"
)

// Precision limits.
const (
	MinPrecision = 1
	MaxPrecision = 12
)

const alphabet = "0123456789bcdefghjkmnpqrstuvwxyz"

var (
	ErrInvalidHash      = errors.New("geohash: invalid hash")
	ErrInvalidPrecision = errors.New("geohash: invalid precision")
	ErrOutOfRange       = errors.New("geohash: coordinates out of range")
	ErrNoParent         = errors.New("geohash: no parent")
	ErrNoChildren       = errors.New("geohash: no children")
)

var symbols [256]int8

func init() {
	for i := range symbols {
		symbols[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		symbols[alphabet[i]] = int8(i)
	}
}

// Hash is a geohash cell identifier.
type Hash string

// Validate returns an error if the hash contains symbols outside of the
// alphabet or if its precision is out of bounds.
func (h Hash) Validate() error {
	if n := len(h); n < MinPrecision || n > MaxPrecision {
		return fmt.Errorf("%w: %q has precision %d, must be within [%d,%d]", ErrInvalidHash, string(h), n, MinPrecision, MaxPrecision)
	}
	for i := 0; i < len(h); i++ {
		if symbols[h[i]] < 0 {
			return fmt.Errorf("%w: %q contains invalid symbol %q", ErrInvalidHash, string(h), h[i])
		}
	}
	return nil
}

// IsValid returns true if the hash is valid.
func (h Hash) IsValid() bool { return h.Validate() == nil }

// Symbol returns the alphabet index of the i-th symbol, or -1 if the
// symbol is not part of the alphabet.
func (h Hash) Symbol(i int) int { return int(symbols[h[i]]) }

// Precision returns the precision (length) of the hash.
func (h Hash) Precision() int { return len(h) }

// Parent returns the parent cell.
func (h Hash) Parent() (Hash, error) {
	if err := h.Validate(); err != nil {
		return "", err
	}
	if len(h) == MinPrecision {
		return "", fmt.Errorf("%w: %q is at precision %d", ErrNoParent, string(h), MinPrecision)
	}
	return h[:len(h)-1], nil
}

// Children returns the 32 children of the cell, in alphabet order.
func (h Hash) Children() ([]Hash, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	if len(h) == MaxPrecision {
		return nil, fmt.Errorf("%w: %q is at precision %d", ErrNoChildren, string(h), MaxPrecision)
	}

	children := make([]Hash, 0, len(alphabet))
	for i := 0; i < len(alphabet); i++ {
		children = append(children, h+Hash(alphabet[i]))
	}
	return children, nil
}

// Roots returns the 32 cells of precision 1, in alphabet order.
func Roots() []Hash {
	res := make([]Hash, 0, len(alphabet))
	for i := 0; i < len(alphabet); i++ {
		res = append(res, Hash(alphabet[i]))
	}
	return res
}

// Contains returns true if o is equal to h or a descendant of h.
func (h Hash) Contains(o Hash) bool {
	return len(o) >= len(h) && o[:len(h)] == h
}

// Encode returns the cell of the given precision containing the point.
// Points on a boundary between two cells resolve to the upper cell.
func Encode(lat, lng float64, precision int) (Hash, error) {
	if precision < MinPrecision || precision > MaxPrecision {
		return "", fmt.Errorf("%w: %d, must be within [%d,%d]", ErrInvalidPrecision, precision, MinPrecision, MaxPrecision)
	}
	if !(lat >= -90 && lat <= 90) || !(lng >= -180 && lng <= 180) {
		return "", fmt.Errorf("%w: (%v, %v)", ErrOutOfRange, lat, lng)
	}

	latLo, latHi := -90.0, 90.0
	lngLo, lngHi := -180.0, 180.0
	even := true

	buf := make([]byte, precision)
	for i := range buf {
		var idx byte
		for b := 0; b < 5; b++ {
			idx <<= 1
			if even {
				if mid := (lngLo + lngHi) / 2; lng >= mid {
					idx |= 1
					lngLo = mid
				} else {
					lngHi = mid
				}
			} else {
				if mid := (latLo + latHi) / 2; lat >= mid {
					idx |= 1
					latLo = mid
				} else {
					latHi = mid
				}
			}
			even = !even
		}
		buf[i] = alphabet[idx]
	}
	return Hash(buf), nil
}

// MustEncode is like Encode but panics on errors.
func MustEncode(lat, lng float64, precision int) Hash {
	h, err := Encode(lat, lng, precision)
	if err != nil {
		panic(err)
	}
	return h
}

// --------------------------------------------------------------------

// bits returns the number of latitude and longitude bits for a precision.
func bits(precision int) (latBits, lngBits uint) {
	n := uint(precision) * 5
	return n / 2, n - n/2
}

// indices de-interleaves the hash into its integer grid coordinates.
func (h Hash) indices() (lat, lng uint64) {
	even := true
	for i := 0; i < len(h); i++ {
		idx := symbols[h[i]]
		for b := 4; b >= 0; b-- {
			bit := uint64(idx>>uint(b)) & 1
			if even {
				lng = lng<<1 | bit
			} else {
				lat = lat<<1 | bit
			}
			even = !even
		}
	}
	return
}

// fromIndices interleaves integer grid coordinates into a hash.
func fromIndices(lat, lng uint64, precision int) Hash {
	latBits, lngBits := bits(precision)
	even := true

	buf := make([]byte, precision)
	for i := range buf {
		var idx byte
		for b := 0; b < 5; b++ {
			idx <<= 1
			if even {
				lngBits--
				idx |= byte(lng>>lngBits) & 1
			} else {
				latBits--
				idx |= byte(lat>>latBits) & 1
			}
			even = !even
		}
		buf[i] = alphabet[idx]
	}
	return Hash(buf)
}

// Decode decodes the hash into a cell.
func Decode(h Hash) (Cell, error) {
	if err := h.Validate(); err != nil {
		return Cell{}, err
	}

	lat, lng := h.indices()
	latBits, lngBits := bits(len(h))
	latStep := 180 / math.Ldexp(1, int(latBits))
	lngStep := 360 / math.Ldexp(1, int(lngBits))

	c := Cell{Hash: h}
	c.Lat.Lo = -90 + float64(lat)*latStep
	c.Lat.Hi = c.Lat.Lo + latStep
	c.Lng.Lo = -180 + float64(lng)*lngStep
	c.Lng.Hi = c.Lng.Lo + lngStep
	return c, nil
}

// MustDecode is like Decode but panics on errors.
func MustDecode(h Hash) Cell {
	c, err := Decode(h)
	if err != nil {
		panic(err)
	}
	return c
}
