package geo_test

import (
	. "github.com/bsm/ginkgo/v2"
	. "github.com/bsm/gomega"
	"github.com/bsm/polyhash/geo"
	"github.com/paulmach/orb"
)

var _ = Describe("Engine", func() {
	var subject orb.Polygon

	BeforeEach(func() {
		subject = box("u4pru")
	})

	It("should calculate overlaps", func() {
		Expect(geo.OverlapArea(subject, bound("u4pru"))).To(BeNumerically("~", cellArea(5), 1e-12))
		Expect(geo.OverlapArea(subject, bound("u4pruy"))).To(BeNumerically("~", cellArea(6), 1e-12))
		Expect(geo.OverlapArea(subject, bound("u4prv"))).To(BeZero())
		Expect(geo.OverlapArea(subject, bound("ezs42"))).To(BeZero())
	})

	It("should not modify the polygon", func() {
		clone := subject.Clone()
		_ = geo.OverlapArea(subject, bound("u4pruy"))
		Expect(subject).To(Equal(clone))
	})

	DescribeTable("should check intersections",
		func(h string, intersects, contains bool) {
			Expect(geo.Intersects(subject, bound(hash(h)))).To(Equal(intersects))
			Expect(geo.Contains(subject, bound(hash(h)))).To(Equal(contains))
		},

		Entry("same", "u4pru", true, true),
		Entry("child", "u4pruy", true, true),
		Entry("parent", "u4pr", true, false),
		Entry("adjacent", "u4prv", true, false),
		Entry("corner", "u4prt", true, false),
		Entry("remote", "ezs42", false, false),
		Entry("nearby", "u4prw", false, false),
	)

	It("should respect holes", func() {
		outer := bound("u4pr").ToRing()
		hole := bound("u4pru").ToRing()
		hole.Reverse()
		poly := orb.Polygon{outer, hole}

		Expect(geo.Intersects(poly, bound("u4pru6"))).To(BeFalse())
		Expect(geo.Contains(poly, bound("u4pru6"))).To(BeFalse())
		Expect(geo.Intersects(poly, bound("u4pruy"))).To(BeTrue())
		Expect(geo.Intersects(poly, bound("u4pru"))).To(BeTrue())
		Expect(geo.Contains(poly, bound("u4pru"))).To(BeFalse())
		Expect(geo.Contains(poly, bound("u4prv"))).To(BeTrue())
	})

	It("should reject boxes crossing a shallow notch", func() {
		b := bound("u4pru6")
		w, h := b.Max[0]-b.Min[0], b.Max[1]-b.Min[1]
		mid, depth := b.Min[0]+w/2, h*1e-7

		// a rectangle around b with a notch cutting depth into the top of b
		notched := orb.Polygon{orb.Ring{
			{b.Min[0] - 2*w, b.Min[1] - h},
			{b.Max[0] + 2*w, b.Min[1] - h},
			{b.Max[0] + 2*w, b.Max[1] + h},
			{mid + w/4, b.Max[1] + h},
			{mid + w/4, b.Max[1] - depth},
			{mid - w/4, b.Max[1] - depth},
			{mid - w/4, b.Max[1] + h},
			{b.Min[0] - 2*w, b.Max[1] + h},
			{b.Min[0] - 2*w, b.Min[1] - h},
		}}
		Expect(geo.Intersects(notched, b)).To(BeTrue())
		Expect(geo.Contains(notched, b)).To(BeFalse())
		Expect(geo.Contains(notched, bound("u4pru4"))).To(BeTrue())
	})
})
