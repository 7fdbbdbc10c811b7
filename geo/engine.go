package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"
	"github.com/paulmach/orb/planar"
)

// Relative area tolerances, applied to the area of the tested bound.
const (
	overlapTolerance  = 1e-9
	containsTolerance = 1e-12
)

// OverlapArea returns the planar area of the intersection between
// the polygon and the bound.
func OverlapArea(p orb.Polygon, b orb.Bound) float64 {
	if !p.Bound().Intersects(b) {
		return 0
	}

	clipped := clip.Polygon(b, p.Clone())
	if len(clipped) == 0 {
		return 0
	}
	return planar.Area(clipped)
}

// Intersects returns true if the polygon and the bound share at least one
// point. Touching boundaries count as intersections.
func Intersects(p orb.Polygon, b orb.Bound) bool {
	if !p.Bound().Intersects(b) {
		return false
	}
	if OverlapArea(p, b) > boundArea(b)*overlapTolerance {
		return true
	}

	for _, ring := range p {
		if len(clip.LineString(b, orb.LineString(ring))) != 0 {
			return true
		}
	}
	return false
}

// Contains returns true if the bound is fully within the polygon.
func Contains(p orb.Polygon, b orb.Bound) bool {
	pb := p.Bound()
	if !pb.Contains(b.Min) || !pb.Contains(b.Max) {
		return false
	}

	area := boundArea(b)
	return area > 0 && OverlapArea(p, b) >= area*(1-containsTolerance)
}

func boundArea(b orb.Bound) float64 {
	return (b.Max[0] - b.Min[0]) * (b.Max[1] - b.Min[1])
}

// --------------------------------------------------------------------

// shape is a multi-polygon with cell predicates.
type shape orb.MultiPolygon

func (s shape) intersects(b orb.Bound) bool {
	for _, p := range s {
		if Intersects(p, b) {
			return true
		}
	}
	return false
}

func (s shape) contains(b orb.Bound) bool {
	for _, p := range s {
		if Contains(p, b) {
			return true
		}
	}
	return false
}
