package cellstore

import (
	"sort"
	"sync"

	"github.com/bsm/polyhash/geohash"
	"github.com/golang/geo/r2"
)

// Nearby returns an iterator over up to limit entries of the blocks around
// the point, closest cell centre first.
func (r *Reader) Nearby(lat, lng float64, limit int) (*NearbyIterator, error) {
	origin, err := geohash.Encode(lat, lng, geohash.MaxPrecision)
	if err != nil {
		return nil, err
	}
	if limit < 1 || len(r.index) == 0 {
		return &NearbyIterator{pos: -1}, nil
	}

	blockNum := r.searchBlock(origin.Key())
	if blockNum >= len(r.index) {
		blockNum = len(r.index) - 1
	}

	pt := r2.Point{X: lng, Y: lat}
	entries := fetchNearbySlice(limit)
	for num := blockNum - 1; num <= blockNum+1; num++ {
		if num < 0 || num >= len(r.index) {
			continue
		}

		it, err := r.readBlock(num)
		if err != nil {
			releaseNearbySlice(entries)
			return nil, err
		}
		for it.Next() {
			entries = append(entries, nearbyEntry{
				key:      it.Key(),
				value:    append([]byte(nil), it.Value()...),
				distance: distanceTo(pt, it.Key()),
			})
		}
		err = it.Err()
		it.Release()

		if err != nil {
			releaseNearbySlice(entries)
			return nil, err
		}
	}

	entries.SortByDistance()
	return &NearbyIterator{entries: entries.Limit(limit), pos: -1}, nil
}

// NearbyIterator iterates across entries nearby.
type NearbyIterator struct {
	entries nearbySlice
	pos     int
}

// Next advances the cursor to the next entry
func (i *NearbyIterator) Next() bool {
	if i.pos+1 < len(i.entries) {
		i.pos++
		return true
	}
	return false
}

// Key returns the key at the current cursor position.
func (i *NearbyIterator) Key() geohash.Key {
	if e := i.current(); e != nil {
		return e.key
	}
	return 0
}

// Hash returns the hash at the current cursor position.
func (i *NearbyIterator) Hash() geohash.Hash {
	h, _ := i.Key().Hash()
	return h
}

// Value returns the value at the current cursor position.
func (i *NearbyIterator) Value() []byte {
	if e := i.current(); e != nil {
		return e.value
	}
	return nil
}

// Distance returns the planar distance in degrees between the point and the
// centre of the current cell.
func (i *NearbyIterator) Distance() float64 {
	if e := i.current(); e != nil {
		return e.distance
	}
	return 0
}

// Err returns any errors from the iteration.
func (i *NearbyIterator) Err() error {
	return nil
}

// Release releases the iterator.
func (i *NearbyIterator) Release() {
	releaseNearbySlice(i.entries)
	i.entries = nil
}

func (i *NearbyIterator) current() *nearbyEntry {
	if i.pos < 0 || i.pos >= len(i.entries) {
		return nil
	}
	return &i.entries[i.pos]
}

func distanceTo(pt r2.Point, key geohash.Key) float64 {
	h, err := key.Hash()
	if err != nil {
		return 0
	}
	c := geohash.MustDecode(h)
	lat, lng := c.Center()
	return pt.Sub(r2.Point{X: lng, Y: lat}).Norm()
}

// --------------------------------------------------------------------

type nearbyEntry struct {
	key      geohash.Key
	value    []byte
	distance float64
}

type nearbySlice []nearbyEntry

func (s nearbySlice) SortByDistance() {
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].distance == s[j].distance {
			return s[i].key < s[j].key
		}
		return s[i].distance < s[j].distance
	})
}

func (s nearbySlice) Limit(limit int) nearbySlice {
	if limit < len(s) {
		s = s[:limit]
	}
	return s
}

// --------------------------------------------------------------------

var nearbySlicePool sync.Pool

func fetchNearbySlice(minCap int) nearbySlice {
	if v := nearbySlicePool.Get(); v != nil {
		if p := v.(nearbySlice); minCap <= cap(p) {
			return p[:0]
		}
	}
	return make(nearbySlice, 0, minCap)
}

func releaseNearbySlice(p nearbySlice) {
	if cap(p) != 0 {
		nearbySlicePool.Put(p[:0])
	}
}
