package geohash

import (
	"math"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// EarthRadiusKm is the mean earth radius.
const EarthRadiusKm = 6371.0088

// Cell is a decoded geohash box. Intervals are closed.
type Cell struct {
	Hash Hash
	Lat  r1.Interval
	Lng  r1.Interval
}

// Precision returns the cell precision.
func (c Cell) Precision() int { return len(c.Hash) }

// Center returns the center of the cell.
func (c Cell) Center() (lat, lng float64) {
	return c.Lat.Center(), c.Lng.Center()
}

// Rect returns the cell as a planar rectangle with X=longitude and Y=latitude.
func (c Cell) Rect() r2.Rect {
	return r2.Rect{X: c.Lng, Y: c.Lat}
}

// ContainsPoint returns true if the point is within the (closed) cell.
func (c Cell) ContainsPoint(lat, lng float64) bool {
	return c.Lat.Contains(lat) && c.Lng.Contains(lng)
}

// Area returns the planar area of the cell in square degrees.
func (c Cell) Area() float64 {
	return c.Lat.Length() * c.Lng.Length()
}

// LatLngRect returns the cell as a spherical lat/lng rectangle.
func (c Cell) LatLngRect() s2.Rect {
	return s2.Rect{
		Lat: r1.Interval{Lo: c.Lat.Lo * math.Pi / 180, Hi: c.Lat.Hi * math.Pi / 180},
		Lng: s1.IntervalFromEndpoints(c.Lng.Lo*math.Pi/180, c.Lng.Hi*math.Pi/180),
	}
}

// GeodesicArea returns an estimate of the cell's surface area in km².
func (c Cell) GeodesicArea() float64 {
	return c.LatLngRect().Area() * EarthRadiusKm * EarthRadiusKm
}

// Size returns the latitude and longitude spans of cells at the given precision.
func Size(precision int) (latSpan, lngSpan float64) {
	latBits, lngBits := bits(precision)
	return 180 / math.Ldexp(1, int(latBits)), 360 / math.Ldexp(1, int(lngBits))
}

// CellArea returns the planar area of a cell at the given precision, in square degrees.
func CellArea(precision int) float64 {
	latSpan, lngSpan := Size(precision)
	return latSpan * lngSpan
}
