package geo

import (
	"errors"
	"fmt"

	"github.com/bsm/polyhash/geohash"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Cover returns the cells of the given precision covering the geometry.
// With inner set, only cells fully contained by the geometry are returned,
// otherwise every cell intersecting (or touching) the geometry is included.
//
// Supported geometries are orb.Polygon, orb.MultiPolygon, orb.Bound and
// orb.Ring. Multi-polygons are covered part-by-part.
func Cover(g orb.Geometry, precision int, inner bool) (geohash.Set, error) {
	if precision < geohash.MinPrecision || precision > geohash.MaxPrecision {
		return nil, fmt.Errorf("%w: %d, must be within [%d,%d]", geohash.ErrInvalidPrecision, precision, geohash.MinPrecision, geohash.MaxPrecision)
	}

	mp, err := Normalize(g)
	if err != nil {
		return nil, err
	}

	var acc geohash.Set
	for _, poly := range mp {
		part, err := coverPolygon(poly, precision, inner)
		if errors.Is(err, ErrEmptyCoverage) {
			continue
		} else if err != nil {
			return nil, err
		}
		acc = acc.Union(part)
	}

	if len(acc) == 0 {
		return nil, fmt.Errorf("%w: no cells at precision %d", ErrEmptyCoverage, precision)
	}
	return acc, nil
}

func coverPolygon(poly orb.Polygon, precision int, inner bool) (geohash.Set, error) {
	if !poly.Bound().Intersects(World) {
		return nil, fmt.Errorf("%w: bound %v", geohash.ErrOutOfRange, poly.Bound())
	}

	seed, ok := seedCell(poly, precision)
	if !ok {
		return nil, ErrEmptyCoverage
	}

	visited := map[geohash.Hash]struct{}{seed: {}}
	queue := []geohash.Hash{seed}

	var res []geohash.Hash
	for len(queue) != 0 {
		h := queue[0]
		queue = queue[1:]

		b := CellBound(geohash.MustDecode(h))
		if !Intersects(poly, b) {
			continue
		}
		if !inner || Contains(poly, b) {
			res = append(res, h)
		}

		nn, _ := h.Neighbors()
		for _, n := range nn {
			if _, ok := visited[n]; !ok {
				visited[n] = struct{}{}
				queue = append(queue, n)
			}
		}
	}

	if len(res) == 0 {
		return nil, ErrEmptyCoverage
	}
	return geohash.NewSet(res...), nil
}

// seedCell returns the first cell to flood-fill from. It prefers the cell
// containing the centroid and falls back on the cells of the vertices.
func seedCell(poly orb.Polygon, precision int) (geohash.Hash, bool) {
	centroid, area := planar.CentroidArea(poly)
	if area <= 0 {
		return "", false
	}

	if h, err := geohash.Encode(centroid[1], centroid[0], precision); err == nil {
		if Intersects(poly, CellBound(geohash.MustDecode(h))) {
			return h, true
		}
	}

	for _, pt := range poly[0] {
		if h, err := geohash.Encode(pt[1], pt[0], precision); err == nil {
			return h, true
		}
	}
	return "", false
}
