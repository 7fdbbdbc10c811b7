package geo

import (
	"github.com/bsm/polyhash/geohash"
	"github.com/ctessum/geom"
	"github.com/paulmach/orb"
)

// Union decodes every cell of the set and returns the union of their boxes.
// The result may contain seams along cell boundaries.
func Union(set geohash.Set) (geom.Polygon, error) {
	if len(set) == 0 {
		return nil, ErrEmptySet
	}

	polys := make([]geom.Polygon, 0, len(set))
	for _, h := range set {
		c, err := geohash.Decode(h)
		if err != nil {
			return nil, err
		}
		polys = append(polys, cellToGeom(c))
	}
	return unionAll(polys), nil
}

// ToGeometry returns the union of the set as an orb multi-polygon.
func ToGeometry(set geohash.Set) (orb.MultiPolygon, error) {
	poly, err := Union(set)
	if err != nil {
		return nil, err
	}
	return ToMultiPolygon(poly), nil
}

// sets are sorted, so neighbouring slice elements are spatially close.
func unionAll(polys []geom.Polygon) geom.Polygon {
	switch len(polys) {
	case 0:
		return nil
	case 1:
		return polys[0]
	}

	mid := len(polys) / 2
	return unionAll(polys[:mid]).Union(unionAll(polys[mid:]))
}

func cellToGeom(c geohash.Cell) geom.Polygon {
	return geom.Polygon{{
		{X: c.Lng.Lo, Y: c.Lat.Lo},
		{X: c.Lng.Hi, Y: c.Lat.Lo},
		{X: c.Lng.Hi, Y: c.Lat.Hi},
		{X: c.Lng.Lo, Y: c.Lat.Hi},
		{X: c.Lng.Lo, Y: c.Lat.Lo},
	}}
}

// --------------------------------------------------------------------

// ToMultiPolygon converts a polygon with nested rings into an orb
// multi-polygon. Rings at an even nesting depth become outer rings,
// rings at an odd depth become holes of their innermost outer ring.
func ToMultiPolygon(poly geom.Polygon) orb.MultiPolygon {
	depths := make([]int, len(poly))
	parents := make([]int, len(poly))
	for i := range poly {
		parents[i] = -1
		for j := range poly {
			if i != j && ringWithin(poly[i], poly[j]) {
				depths[i]++
			}
		}
	}

	for i := range poly {
		if depths[i]%2 == 0 {
			continue
		}
		for j := range poly {
			if depths[j] == depths[i]-1 && ringWithin(poly[i], poly[j]) {
				parents[i] = j
				break
			}
		}
	}

	var res orb.MultiPolygon
	index := make(map[int]int, len(poly))
	for i, ring := range poly {
		if depths[i]%2 == 0 {
			index[i] = len(res)
			res = append(res, orb.Polygon{toOrbRing(ring)})
		}
	}
	for i, ring := range poly {
		if depths[i]%2 == 1 && parents[i] >= 0 {
			n := index[parents[i]]
			res[n] = append(res[n], toOrbRing(ring))
		}
	}
	return res
}

// ringWithin returns true if the first vertex of ring a, which is not on
// the edge of b, is inside of b.
func ringWithin(a, b []geom.Point) bool {
	outer := geom.Polygon{b}
	for _, pt := range a {
		switch pt.Within(outer) {
		case geom.Inside:
			return true
		case geom.Outside:
			return false
		}
	}
	return false
}

func toOrbRing(ring []geom.Point) orb.Ring {
	res := make(orb.Ring, 0, len(ring)+1)
	for _, pt := range ring {
		res = append(res, orb.Point{pt.X, pt.Y})
	}
	if len(res) != 0 && res[0] != res[len(res)-1] {
		res = append(res, res[0])
	}
	return res
}
