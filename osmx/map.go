package osmx

import (
	"errors"
	"fmt"
	"io"

	osm "github.com/glaslos/go-osm"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Tag keys used by boundary relations.
const (
	TagName   = "name"
	TagAlpha2 = "ISO3166-1:alpha2"
	TagAlpha3 = "ISO3166-1:alpha3"
)

// Map is a decoded OSM document with its primary relation, the first
// relation that has way members.
type Map struct {
	*osm.Map
	rel osm.Relation

	nodes map[int64]int
	ways  map[int64]int
}

// Decode decodes OSM XML data.
func Decode(r io.Reader) (*Map, error) {
	parent, err := osm.Decode(r)
	if err != nil {
		return nil, err
	}
	return WrapMap(parent)
}

// WrapMap wraps a decoded document and indexes its nodes and ways.
func WrapMap(parent *osm.Map) (*Map, error) {
	if len(parent.Relations) == 0 {
		return nil, errors.New("osmx: map contains no relations")
	}

	rel, ok := primaryRelation(parent.Relations)
	if !ok {
		return nil, errors.New("osmx: map contains no valid relations")
	}

	m := &Map{
		Map:   parent,
		rel:   rel,
		nodes: make(map[int64]int, len(parent.Nodes)),
		ways:  make(map[int64]int, len(parent.Ways)),
	}
	for i, nd := range parent.Nodes {
		m.nodes[nd.ID] = i
	}
	for i, w := range parent.Ways {
		m.ways[w.ID] = i
	}
	return m, nil
}

func primaryRelation(rels []osm.Relation) (osm.Relation, bool) {
	for _, rel := range rels {
		for _, mem := range rel.Members {
			if mem.Type == "way" {
				return rel, true
			}
		}
	}
	return osm.Relation{}, false
}

// Tag returns a tag value of the primary relation.
func (m *Map) Tag(key string) string {
	for _, tag := range m.rel.Tags {
		if tag.Key == key {
			return tag.Value
		}
	}
	return ""
}

// Name returns the name of the primary relation.
func (m *Map) Name() string { return m.Tag(TagName) }

// CountryAlpha2 returns the ISO3166-1 alpha2 code.
func (m *Map) CountryAlpha2() string { return m.Tag(TagAlpha2) }

// CountryAlpha3 returns the ISO3166-1 alpha3 code.
func (m *Map) CountryAlpha3() string { return m.Tag(TagAlpha3) }

// Rel returns the primary relation.
func (m *Map) Rel() *osm.Relation { return &m.rel }

// FindNode returns a node by ID.
func (m *Map) FindNode(id int64) (*osm.Node, error) {
	if pos, ok := m.nodes[id]; ok {
		return &m.Nodes[pos], nil
	}
	return nil, fmt.Errorf("osmx: node #%d not found", id)
}

// FindWay returns a way by ID. Ways without nodes are treated as missing.
func (m *Map) FindWay(id int64) (*osm.Way, error) {
	if pos, ok := m.ways[id]; ok && len(m.Ways[pos].Nds) != 0 {
		return &m.Ways[pos], nil
	}
	return nil, fmt.Errorf("osmx: way #%d not found", id)
}

// MultiPolygon assembles the outer and inner ways of the primary relation
// into a multi-polygon. Open ways are stitched together by their nearest
// ends. Each inner ring is added to the first outer ring that contains it.
func (m *Map) MultiPolygon() (orb.MultiPolygon, error) {
	members, err := m.chains()
	if err != nil {
		return nil, err
	}

	var mp orb.MultiPolygon
	var holes []orb.Ring
	for _, c := range members.assemble() {
		ring, err := c.ring()
		if err != nil {
			return nil, err
		}

		switch c.role {
		case roleOuter:
			mp = append(mp, orb.Polygon{ring})
		case roleInner:
			holes = append(holes, ring)
		}
	}
	if len(mp) == 0 {
		return nil, errors.New("osmx: relation contains no outer ways")
	}

	for _, hole := range holes {
		if i := containing(mp, hole); i > -1 {
			mp[i] = append(mp[i], hole)
		}
	}
	return mp, nil
}

func containing(mp orb.MultiPolygon, hole orb.Ring) int {
	for i, poly := range mp {
		if planar.RingContains(poly[0], hole[0]) {
			return i
		}
	}
	return -1
}

// chains resolves the way members of the primary relation. Members with
// roles other than outer or inner are ignored.
func (m *Map) chains() (chains, error) {
	var res chains
	for _, mem := range m.rel.Members {
		if mem.Type != "way" {
			continue
		}

		way, err := m.FindWay(mem.Ref)
		if err != nil {
			return nil, err
		}

		c := &chain{role: parseRole(mem.Role), nodes: make([]*osm.Node, len(way.Nds))}
		for i, nd := range way.Nds {
			if c.nodes[i], err = m.FindNode(nd.ID); err != nil {
				return nil, err
			}
		}
		if c.valid() {
			res = append(res, c)
		}
	}
	return res, nil
}
