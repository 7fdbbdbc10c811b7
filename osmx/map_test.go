package osmx

import (
	"strings"

	. "github.com/bsm/ginkgo/v2"
	. "github.com/bsm/gomega"
	osm "github.com/glaslos/go-osm"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

const coloradoXML = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
  <node id="1" lat="41" lon="-109"/>
  <node id="2" lat="41" lon="-102"/>
  <node id="3" lat="37" lon="-102"/>
  <node id="4" lat="37" lon="-109"/>
  <node id="5" lat="40" lon="-107"/>
  <node id="6" lat="40" lon="-104"/>
  <node id="7" lat="38" lon="-104"/>
  <node id="8" lat="38" lon="-107"/>
  <way id="11">
    <nd ref="3"/>
    <nd ref="4"/>
    <nd ref="1"/>
  </way>
  <way id="10">
    <nd ref="1"/>
    <nd ref="2"/>
    <nd ref="3"/>
  </way>
  <way id="12">
    <nd ref="5"/>
    <nd ref="6"/>
    <nd ref="7"/>
    <nd ref="8"/>
    <nd ref="5"/>
  </way>
  <relation id="100">
    <member type="node" ref="1" role="label"/>
    <member type="way" ref="10" role="outer"/>
    <member type="way" ref="11" role="outer"/>
    <member type="way" ref="12" role="inner"/>
    <tag k="name" v="Colorado"/>
    <tag k="ISO3166-1:alpha2" v="XC"/>
    <tag k="ISO3166-1:alpha3" v="XCO"/>
  </relation>
</osm>`

var _ = Describe("Map", func() {
	var subject *Map

	It("should require at least one relation to wrap", func() {
		_, err := WrapMap(new(osm.Map))
		Expect(err).To(MatchError(`osmx: map contains no relations`))
	})

	It("should require a relation with ways", func() {
		_, err := WrapMap(&osm.Map{
			Relations: []osm.Relation{
				{Members: []osm.Member{{Type: "notway"}}},
				{Members: []osm.Member{{Type: "alsonotway"}}},
			},
		})
		Expect(err).To(MatchError(`osmx: map contains no valid relations`))
	})

	It("should wrap the relation with way members", func() {
		var err error
		subject, err = WrapMap(&osm.Map{
			Relations: []osm.Relation{
				{Members: []osm.Member{{Type: "notway"}}},
				{Members: []osm.Member{{Type: "way"}}},
			},
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(subject.Rel()).To(Equal(&osm.Relation{
			Members: []osm.Member{{Type: "way"}},
		}))
	})

	It("should retrieve tag", func() {
		subject = &Map{
			rel: osm.Relation{
				Tags: []osm.Tag{
					{Key: "ISO3166-1:alpha2", Value: "GB"},
				},
			},
		}
		Expect(subject.Tag("ISO3166-1:alpha2")).To(Equal("GB"))
		Expect(subject.Tag("notfound")).To(Equal(""))
		Expect(subject.CountryAlpha2()).To(Equal("GB"))
		Expect(subject.CountryAlpha3()).To(Equal(""))
	})

	Describe("decoded", func() {
		BeforeEach(func() {
			var err error
			subject, err = Decode(strings.NewReader(coloradoXML))
			Expect(err).NotTo(HaveOccurred())
		})

		It("should decode", func() {
			Expect(subject.Name()).To(Equal("Colorado"))
			Expect(subject.CountryAlpha2()).To(Equal("XC"))
			Expect(subject.CountryAlpha3()).To(Equal("XCO"))

			node, err := subject.FindNode(3)
			Expect(err).NotTo(HaveOccurred())
			Expect(node.Lat).To(Equal(37.0))
			Expect(node.Lng).To(Equal(-102.0))

			_, err = subject.FindNode(99)
			Expect(err).To(MatchError(`osmx: node #99 not found`))

			way, err := subject.FindWay(12)
			Expect(err).NotTo(HaveOccurred())
			Expect(way.Nds).To(HaveLen(5))

			_, err = subject.FindWay(99)
			Expect(err).To(MatchError(`osmx: way #99 not found`))
		})

		It("should assemble multi-polygons", func() {
			mp, err := subject.MultiPolygon()
			Expect(err).NotTo(HaveOccurred())
			Expect(mp).To(HaveLen(1))
			Expect(mp[0]).To(HaveLen(2))
			Expect(mp[0][0].Orientation()).To(Equal(orb.CCW))
			Expect(mp[0][1].Orientation()).To(Equal(orb.CW))
			Expect(mp.Bound()).To(Equal(orb.Bound{Min: orb.Point{-109, 37}, Max: orb.Point{-102, 41}}))
			Expect(planar.Area(mp)).To(BeNumerically("~", 22, 1e-9))
		})

		It("should fail on missing ways", func() {
			subject.rel.Members = append(subject.rel.Members, osm.Member{Type: "way", Ref: 99, Role: "outer"})
			_, err := subject.MultiPolygon()
			Expect(err).To(MatchError(`osmx: way #99 not found`))
		})

		It("should require outer ways", func() {
			subject.rel.Members = []osm.Member{{Type: "way", Ref: 12, Role: "inner"}}
			_, err := subject.MultiPolygon()
			Expect(err).To(MatchError(`osmx: relation contains no outer ways`))
		})
	})
})
