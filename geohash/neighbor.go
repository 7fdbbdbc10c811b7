package geohash

import "fmt"

// Direction is a compass direction.
type Direction uint8

// Directions, clockwise.
const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
)

var directionNames = [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// String implements fmt.Stringer.
func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// steps returns the latitude and longitude grid steps.
func (d Direction) steps() (dlat, dlng int64) {
	switch d {
	case North:
		return 1, 0
	case NorthEast:
		return 1, 1
	case East:
		return 0, 1
	case SouthEast:
		return -1, 1
	case South:
		return -1, 0
	case SouthWest:
		return -1, -1
	case West:
		return 0, -1
	case NorthWest:
		return 1, -1
	}
	return 0, 0
}

// Neighbor returns the adjacent cell in the given direction. Longitude wraps
// around the antimeridian, latitude clamps to the polar row.
func (h Hash) Neighbor(d Direction) (Hash, error) {
	if err := h.Validate(); err != nil {
		return "", err
	}
	if d > NorthWest {
		return "", fmt.Errorf("geohash: invalid direction %d", uint8(d))
	}
	return h.neighbor(d), nil
}

// Neighbors returns all 8 adjacent cells, indexed by Direction.
func (h Hash) Neighbors() ([8]Hash, error) {
	var res [8]Hash
	if err := h.Validate(); err != nil {
		return res, err
	}
	for d := North; d <= NorthWest; d++ {
		res[d] = h.neighbor(d)
	}
	return res, nil
}

func (h Hash) neighbor(d Direction) Hash {
	lat, lng := h.indices()
	latBits, lngBits := bits(len(h))
	latMax := int64(1)<<latBits - 1
	lngMask := uint64(1)<<lngBits - 1

	dlat, dlng := d.steps()
	nlat := int64(lat) + dlat
	if nlat < 0 {
		nlat = 0
	} else if nlat > latMax {
		nlat = latMax
	}
	nlng := uint64(int64(lng)+dlng) & lngMask
	return fromIndices(uint64(nlat), nlng, len(h))
}
