package geo_test

import (
	. "github.com/bsm/ginkgo/v2"
	. "github.com/bsm/gomega"
	"github.com/bsm/polyhash/geo"
	"github.com/bsm/polyhash/geohash"
	"github.com/paulmach/orb"
)

var _ = Describe("Cover", func() {
	It("should cover inner cells", func() {
		cells, err := geo.Cover(box("u4pru"), 6, true)
		Expect(err).NotTo(HaveOccurred())

		children, _ := geohash.Hash("u4pru").Children()
		Expect(cells).To(Equal(geohash.NewSet(children...)))
	})

	It("should cover touching cells", func() {
		cells, err := geo.Cover(box("u4pru"), 6, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(cells).To(HaveLen(60))
		Expect(cells.Contains("u4pru6")).To(BeTrue())
		Expect(cells.Contains("u4prv0")).To(BeTrue())
		Expect(cells.Contains("u4prv2")).To(BeFalse())
	})

	It("should only include intersecting/contained cells", func() {
		outer, err := geo.Cover(triangle, 6, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(len(outer)).To(BeNumerically(">", 100))
		for _, h := range outer {
			Expect(geo.Intersects(triangle, bound(h))).To(BeTrue(), "%s", h)
		}

		inner, err := geo.Cover(triangle, 6, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(len(inner)).To(BeNumerically(">", 10))
		Expect(len(inner)).To(BeNumerically("<", len(outer)))
		for _, h := range inner {
			Expect(geo.Contains(triangle, bound(h))).To(BeTrue(), "%s", h)
			Expect(outer.Contains(h)).To(BeTrue(), "%s", h)
		}
	})

	It("should cover every intersecting cell", func() {
		cells, err := geo.Cover(colorado, 3, false)
		Expect(err).NotTo(HaveOccurred())

		for _, parent := range []geohash.Hash{"9w", "9x", "9q", "9r", "9t", "9v", "9y", "9z"} {
			children, _ := parent.Children()
			for _, h := range children {
				Expect(cells.Contains(h)).To(Equal(geo.Intersects(colorado, bound(h))), "%s", h)
			}
		}
	})

	It("should cover multi-polygons part by part", func() {
		cells, err := geo.Cover(orb.MultiPolygon{box("u4pru"), box("ezs42")}, 6, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(cells).To(HaveLen(64))
		Expect(cells.Contains("ezs42b")).To(BeTrue())
		Expect(cells.Contains("u4prub")).To(BeTrue())
	})

	It("should support bounds", func() {
		cells, err := geo.Cover(bound("u4pru"), 6, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(cells).To(HaveLen(32))
	})

	It("should fail on empty coverage", func() {
		_, err := geo.Cover(orb.Polygon{{{0, 0}, {1, 1}, {2, 2}, {0, 0}}}, 6, false)
		Expect(err).To(MatchError(geo.ErrEmptyCoverage))

		tiny := orb.Polygon{{{10.40, 57.64}, {10.4001, 57.64}, {10.4001, 57.6401}, {10.40, 57.64}}}
		_, err = geo.Cover(tiny, 5, true)
		Expect(err).To(MatchError(geo.ErrEmptyCoverage))

		cells, err := geo.Cover(tiny, 5, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(cells).To(Equal(geohash.Set{"u4pru"}))
	})

	It("should fail when out of range", func() {
		_, err := geo.Cover(orb.Polygon{{{200, 0}, {210, 0}, {210, 10}, {200, 10}, {200, 0}}}, 4, false)
		Expect(err).To(MatchError(geohash.ErrOutOfRange))
	})

	It("should clip to the representable range", func() {
		cells, err := geo.Cover(orb.Polygon{{{168.75, 78.75}, {190, 78.75}, {190, 95}, {168.75, 95}, {168.75, 78.75}}}, 2, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(cells).To(HaveLen(2))
		for _, h := range cells {
			c := geohash.MustDecode(h)
			Expect(c.Lng.Lo).To(Equal(168.75))
			Expect(c.Lat.Lo).To(BeNumerically(">=", 78.75))
		}
	})

	It("should validate precision", func() {
		_, err := geo.Cover(colorado, 0, false)
		Expect(err).To(MatchError(geohash.ErrInvalidPrecision))
		_, err = geo.Cover(colorado, 13, false)
		Expect(err).To(MatchError(geohash.ErrInvalidPrecision))
	})
})

var _ = Describe("Fit", func() {
	It("should fit cells", func() {
		Expect(geo.Fit(box("u4pru"), 8)).To(Equal(geohash.Set{"u4pru"}))
		Expect(geo.Fit(box("u4pru6"), 5)).To(Equal(geohash.Set{"u4pru"}))
	})

	It("should cover the same area as Cover", func() {
		fitted, err := geo.Fit(triangle, 6)
		Expect(err).NotTo(HaveOccurred())

		covered, err := geo.Cover(triangle, 6, false)
		Expect(err).NotTo(HaveOccurred())

		Expect(len(fitted)).To(BeNumerically("<", len(covered)))
		Expect(fitted.Area()).To(BeNumerically("~", covered.Area(), covered.Area()*1e-9))

		min, max := fitted.Precisions()
		Expect(min).To(BeNumerically("<", 6))
		Expect(max).To(Equal(6))
	})

	It("should stop iterating", func() {
		var n int
		Expect(geo.FitDo(colorado, 6, func(geohash.Hash) bool {
			n++
			return n < 3
		})).To(Succeed())
		Expect(n).To(Equal(3))
	})

	It("should validate inputs", func() {
		_, err := geo.Fit(colorado, 13)
		Expect(err).To(MatchError(geohash.ErrInvalidPrecision))
		_, err = geo.Fit(orb.Polygon{{{200, 0}, {210, 0}, {210, 10}, {200, 10}, {200, 0}}}, 4)
		Expect(err).To(MatchError(geohash.ErrOutOfRange))
	})
})
