// Package geo covers polygons with geohash cells and reconstructs
// geometries from cell sets.
package geo

import (
	"errors"
	"fmt"

	"github.com/bsm/polyhash/geohash"
	"github.com/paulmach/orb"
)

var (
	ErrEmptyCoverage    = errors.New("geo: empty coverage")
	ErrEmptySet         = errors.New("geo: empty cell set")
	ErrUnsupportedShape = errors.New("geo: unsupported geometry")
)

// World is the bound of the representable coordinate range.
var World = orb.Bound{Min: orb.Point{-180, -90}, Max: orb.Point{180, 90}}

// CellBound returns the bound of a decoded cell.
func CellBound(c geohash.Cell) orb.Bound {
	return orb.Bound{
		Min: orb.Point{c.Lng.Lo, c.Lat.Lo},
		Max: orb.Point{c.Lng.Hi, c.Lat.Hi},
	}
}

// CellPolygon returns the polygon of a cell.
func CellPolygon(h geohash.Hash) (orb.Polygon, error) {
	c, err := geohash.Decode(h)
	if err != nil {
		return nil, err
	}
	return CellBound(c).ToPolygon(), nil
}

// Normalize converts supported geometries into a multi-polygon. Rings are
// closed and degenerate rings are dropped.
func Normalize(g orb.Geometry) (orb.MultiPolygon, error) {
	var mp orb.MultiPolygon
	switch v := g.(type) {
	case orb.Polygon:
		mp = orb.MultiPolygon{v}
	case orb.MultiPolygon:
		mp = v
	case orb.Bound:
		mp = orb.MultiPolygon{v.ToPolygon()}
	case orb.Ring:
		mp = orb.MultiPolygon{{v}}
	case nil:
		return nil, fmt.Errorf("%w: nil", ErrUnsupportedShape)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedShape, g.GeoJSONType())
	}

	res := make(orb.MultiPolygon, 0, len(mp))
	for _, poly := range mp {
		if p := normalizePolygon(poly); len(p) != 0 {
			res = append(res, p)
		}
	}
	return res, nil
}

func normalizePolygon(poly orb.Polygon) orb.Polygon {
	res := make(orb.Polygon, 0, len(poly))
	for i, ring := range poly {
		ring = closeRing(ring)
		if len(ring) < 4 {
			if i == 0 {
				return nil
			}
			continue
		}
		res = append(res, ring)
	}
	return res
}

func closeRing(ring orb.Ring) orb.Ring {
	if n := len(ring); n != 0 && !ring.Closed() {
		closed := make(orb.Ring, n, n+1)
		copy(closed, ring)
		return append(closed, ring[0])
	}
	return ring
}
