package geohash

import "sort"

// Set is a sorted, duplicate-free collection of hashes, possibly of mixed
// precision. Sets are values; operations never modify their receiver.
type Set []Hash

// NewSet creates a set from the given hashes.
func NewSet(hashes ...Hash) Set {
	s := make(Set, len(hashes))
	copy(s, hashes)
	return s.normalize()
}

// ParseSet creates a set from strings, validating each member.
func ParseSet(strs ...string) (Set, error) {
	s := make(Set, 0, len(strs))
	for _, str := range strs {
		h := Hash(str)
		if err := h.Validate(); err != nil {
			return nil, err
		}
		s = append(s, h)
	}
	return s.normalize(), nil
}

func (s Set) normalize() Set {
	if len(s) < 2 {
		return s
	}

	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
	n := 1
	for i := 1; i < len(s); i++ {
		if s[i] != s[n-1] {
			s[n] = s[i]
			n++
		}
	}
	return s[:n]
}

// Len returns the number of members.
func (s Set) Len() int { return len(s) }

// Contains returns true if h is a member of the set.
func (s Set) Contains(h Hash) bool {
	i := sort.Search(len(s), func(i int) bool { return s[i] >= h })
	return i < len(s) && s[i] == h
}

// Covers returns true if h or one of its ancestors is a member of the set.
func (s Set) Covers(h Hash) bool {
	for n := 1; n <= len(h); n++ {
		if s.Contains(h[:n]) {
			return true
		}
	}
	return false
}

// Union returns a new set with the members of both sets.
func (s Set) Union(o Set) Set {
	res := make(Set, 0, len(s)+len(o))
	i, j := 0, 0
	for i < len(s) && j < len(o) {
		switch {
		case s[i] < o[j]:
			res = append(res, s[i])
			i++
		case s[i] > o[j]:
			res = append(res, o[j])
			j++
		default:
			res = append(res, s[i])
			i++
			j++
		}
	}
	res = append(res, s[i:]...)
	res = append(res, o[j:]...)
	return res
}

// Area returns the summed planar area of all members in square degrees.
// Members are assumed not to overlap.
func (s Set) Area() float64 {
	var sum float64
	for _, h := range s {
		sum += CellArea(len(h))
	}
	return sum
}

// GeodesicArea returns the summed surface area estimate of all members in km².
func (s Set) GeodesicArea() float64 {
	var sum float64
	for _, h := range s {
		if c, err := Decode(h); err == nil {
			sum += c.GeodesicArea()
		}
	}
	return sum
}

// Precisions returns the minimum and maximum precisions of the members.
func (s Set) Precisions() (min, max int) {
	for i, h := range s {
		if n := len(h); i == 0 || n < min {
			min = n
		}
		if n := len(h); n > max {
			max = n
		}
	}
	return
}

// Strings returns the members as strings.
func (s Set) Strings() []string {
	res := make([]string, len(s))
	for i, h := range s {
		res[i] = string(h)
	}
	return res
}
