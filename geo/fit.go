package geo

import (
	"fmt"

	"github.com/bsm/polyhash/geohash"
	"github.com/paulmach/orb"
)

// Fit returns a mixed-precision set approximating the surface covered by
// the geometry, with the smallest cells being maxPrecision. Cells fully
// contained by the geometry are returned at the coarsest possible precision.
func Fit(g orb.Geometry, maxPrecision int) (geohash.Set, error) {
	var acc []geohash.Hash
	err := FitDo(g, maxPrecision, func(h geohash.Hash) bool {
		acc = append(acc, h)
		return true
	})
	if err != nil {
		return nil, err
	}
	if len(acc) == 0 {
		return nil, fmt.Errorf("%w: no cells up to precision %d", ErrEmptyCoverage, maxPrecision)
	}
	return geohash.NewSet(acc...), nil
}

// FitDo iterates over the cells fitting the geometry, with the smallest
// cell being maxPrecision. Return false in the iterator to stop the loop.
func FitDo(g orb.Geometry, maxPrecision int, fn func(geohash.Hash) bool) error {
	if maxPrecision < geohash.MinPrecision || maxPrecision > geohash.MaxPrecision {
		return fmt.Errorf("%w: %d, must be within [%d,%d]", geohash.ErrInvalidPrecision, maxPrecision, geohash.MinPrecision, geohash.MaxPrecision)
	}

	mp, err := Normalize(g)
	if err != nil {
		return err
	}
	if !mp.Bound().Intersects(World) {
		return fmt.Errorf("%w: bound %v", geohash.ErrOutOfRange, mp.Bound())
	}

	s := shape(mp)
	for _, h := range geohash.Roots() {
		if nxt := fitDo(s, h, maxPrecision, fn); !nxt {
			break
		}
	}
	return nil
}

func fitDo(s shape, h geohash.Hash, maxPrecision int, fn func(geohash.Hash) bool) bool {
	b := CellBound(geohash.MustDecode(h))

	if s.contains(b) {
		return fn(h)
	} else if s.intersects(b) {
		if len(h) == maxPrecision {
			return fn(h)
		}

		children, _ := h.Children()
		for _, child := range children {
			if !fitDo(s, child, maxPrecision, fn) {
				return false
			}
		}
	}
	return true
}
