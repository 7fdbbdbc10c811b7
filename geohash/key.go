package geohash

import "fmt"

// Key is an order-preserving numeric representation of a hash. Symbols are
// packed left-aligned into the upper 60 bits, the precision occupies the
// lower 4 bits. Comparing keys is equivalent to comparing hashes.
type Key uint64

// Key returns the numeric key of a valid hash. Invalid hashes return 0.
func (h Hash) Key() Key {
	if !h.IsValid() {
		return 0
	}

	var v uint64
	for i := 0; i < len(h); i++ {
		v = v<<5 | uint64(symbols[h[i]])
	}
	v <<= uint(MaxPrecision-len(h)) * 5
	return Key(v<<4 | uint64(len(h)))
}

// IsValid returns true if the key holds a valid precision.
func (k Key) IsValid() bool {
	n := int(k & 0xf)
	return n >= MinPrecision && n <= MaxPrecision
}

// Precision returns the precision encoded in the key.
func (k Key) Precision() int { return int(k & 0xf) }

// Hash converts the key back into a hash.
func (k Key) Hash() (Hash, error) {
	if !k.IsValid() {
		return "", fmt.Errorf("%w: key %d has invalid precision", ErrInvalidHash, uint64(k))
	}

	n := k.Precision()
	buf := make([]byte, n)
	v := uint64(k) >> 4
	for i := 0; i < n; i++ {
		buf[i] = alphabet[(v>>uint((MaxPrecision-1-i)*5))&0x1f]
	}
	return Hash(buf), nil
}

// String implements fmt.Stringer.
func (k Key) String() string {
	h, err := k.Hash()
	if err != nil {
		return fmt.Sprintf("Key(%d)", uint64(k))
	}
	return string(h)
}
