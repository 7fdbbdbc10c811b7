// Package osmx assembles boundary polygons from OpenStreetMap XML relations.
package osmx

import (
	"errors"
	"math"

	osm "github.com/glaslos/go-osm"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

var (
	errInvalidChain = errors.New("osmx: cannot build ring from an invalid way")
	errOpenChain    = errors.New("osmx: cannot build ring from an open way")
)

// role is the member role of a way within a boundary relation.
type role uint8

const (
	roleNone role = iota
	roleOuter
	roleInner
)

func parseRole(s string) role {
	switch s {
	case "outer":
		return roleOuter
	case "inner":
		return roleInner
	}
	return roleNone
}

// joint describes how two chains are attached to each other.
type joint uint8

const (
	noJoint    joint = iota
	tailToHead       // a b c + c d e
	headToTail       // c d e + a b c
	headToHead       // c b a + c d e
	tailToTail       // a b c + e d c
)

// --------------------------------------------------------------------

// chain is a sequence of nodes, open or closed.
type chain struct {
	role  role
	nodes []*osm.Node
}

func (c *chain) head() *osm.Node { return c.nodes[0] }
func (c *chain) tail() *osm.Node { return c.nodes[len(c.nodes)-1] }

func (c *chain) valid() bool  { return c.role != roleNone && len(c.nodes) > 1 }
func (c *chain) closed() bool { return c.head().ID == c.tail().ID }

// touching returns the joint at which c and o share an end node.
func (c *chain) touching(o *chain) joint {
	if c.role != o.role {
		return noJoint
	}

	switch {
	case c.tail().ID == o.head().ID:
		return tailToHead
	case c.head().ID == o.tail().ID:
		return headToTail
	case c.head().ID == o.head().ID:
		return headToHead
	case c.tail().ID == o.tail().ID:
		return tailToTail
	}
	return noJoint
}

// nearest returns the joint with the shortest planar gap (in degrees)
// between the ends of c and o.
func (c *chain) nearest(o *chain) (float64, joint) {
	gap, j := math.Inf(1), noJoint
	if c.role != o.role {
		return gap, j
	}

	pairs := [...]struct {
		a, b *osm.Node
		j    joint
	}{
		{c.tail(), o.head(), tailToHead},
		{c.head(), o.tail(), headToTail},
		{c.head(), o.head(), headToHead},
		{c.tail(), o.tail(), tailToTail},
	}
	for _, p := range pairs {
		if d := planar.Distance(nodePoint(p.a), nodePoint(p.b)); d < gap {
			gap, j = d, p.j
		}
	}
	return gap, j
}

// attach appends o to c at joint j. If shared is set, the end node common
// to both chains is kept only once. o must not be used afterwards.
func (c *chain) attach(o *chain, j joint, shared bool) {
	skip := 0
	if shared {
		skip = 1
	}

	switch j {
	case tailToHead:
		c.nodes = append(c.nodes, o.nodes[skip:]...)
	case headToTail:
		joined := make([]*osm.Node, 0, len(o.nodes)+len(c.nodes)-skip)
		joined = append(joined, o.nodes...)
		c.nodes = append(joined, c.nodes[skip:]...)
	case headToHead:
		reverseNodes(c.nodes)
		c.nodes = append(c.nodes, o.nodes[skip:]...)
	case tailToTail:
		reverseNodes(o.nodes)
		c.nodes = append(c.nodes, o.nodes[skip:]...)
	}
}

// ring converts a closed chain into a ring. Outer rings are wound
// counter-clockwise, inner rings clockwise.
func (c *chain) ring() (orb.Ring, error) {
	if !c.valid() {
		return nil, errInvalidChain
	}
	if !c.closed() {
		return nil, errOpenChain
	}

	ring := make(orb.Ring, len(c.nodes))
	for i, nd := range c.nodes {
		ring[i] = nodePoint(nd)
	}

	want := orb.CCW
	if c.role == roleInner {
		want = orb.CW
	}
	if ring.Orientation() != want {
		ring.Reverse()
	}
	return ring, nil
}

func nodePoint(nd *osm.Node) orb.Point { return orb.Point{nd.Lng, nd.Lat} }

func reverseNodes(nodes []*osm.Node) {
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
}

// --------------------------------------------------------------------

type chains []*chain

// assemble joins chains into closed loops, in place. Chains sharing end
// nodes are joined first, remaining open chains are then stitched to their
// nearest open neighbour and finally closed.
func (s chains) assemble() chains {
	for i, c := range s {
		if c == nil {
			continue
		}
		for s.absorbTouching(c, i+1) {
		}
	}
	s = s.compact()

	for i, c := range s {
		if c == nil || c.closed() {
			continue
		}
		for s.absorbNearest(c, i+1) {
		}
	}
	s = s.compact()

	for _, c := range s {
		if !c.closed() {
			c.nodes = append(c.nodes, c.head())
		}
	}
	return s
}

// absorbTouching attaches every chain after off that shares an end node
// with c. It reports whether any chain was attached.
func (s chains) absorbTouching(c *chain, off int) bool {
	found := false
	for i := off; i < len(s); i++ {
		if s[i] == nil {
			continue
		}
		if j := c.touching(s[i]); j != noJoint {
			c.attach(s[i], j, true)
			s[i] = nil
			found = true
		}
	}
	return found
}

// absorbNearest attaches the open chain after off that is closest to c.
// It reports whether a chain was attached.
func (s chains) absorbNearest(c *chain, off int) bool {
	pos, gap, best := -1, math.Inf(1), noJoint
	for i := off; i < len(s); i++ {
		if s[i] == nil || s[i].closed() {
			continue
		}
		if d, j := c.nearest(s[i]); d < gap {
			pos, gap, best = i, d, j
		}
	}
	if pos < 0 {
		return false
	}

	c.attach(s[pos], best, false)
	s[pos] = nil
	return true
}

func (s chains) compact() chains {
	out := s[:0]
	for _, c := range s {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}
