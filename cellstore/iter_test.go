package cellstore

import (
	"github.com/bsm/ginkgo/v2"
	. "github.com/bsm/gomega"
	"github.com/bsm/polyhash/geohash"
)

var _ = ginkgo.Describe("Iterator", func() {
	var subject *Iterator
	var reader *Reader
	var entries []geohash.Hash

	ginkgo.BeforeEach(func() {
		reader = seedReader()

		var err error
		subject, err = reader.FindBlock("u4pru6")
		Expect(err).NotTo(HaveOccurred())

		entries = entries[:0]
		for subject.Next() {
			entries = append(entries, subject.Hash())
		}
		Expect(subject.Err()).NotTo(HaveOccurred())
		Expect(subject.advanceSection(0)).To(BeTrue())
	})

	ginkgo.AfterEach(func() {
		subject.Release()
	})

	ginkgo.It("should have info", func() {
		Expect(len(entries)).To(BeNumerically(">", 8))
		Expect(entries).To(ContainElement(geohash.Hash("u4pru6")))
		Expect(subject.sections).To(HaveLen((len(entries) + 3) / 4))
		Expect(subject.blockNum).To(BeNumerically(">", 0))
		Expect(subject.sectionNum).To(Equal(-1))

		Expect(subject.Next()).To(BeTrue())
		Expect(subject.Hash()).To(Equal(entries[0]))
		Expect(subject.Key()).To(Equal(entries[0].Key()))
		Expect(subject.Value()).To(Equal(seedValue(entries[0])))
		Expect(subject.sectionNum).To(Equal(0))
	})

	ginkgo.It("should iterate blocks", func() {
		Expect(subject.NextBlock()).To(BeTrue())
		Expect(subject.Next()).To(BeTrue())
		Expect(subject.Key()).To(BeNumerically(">", entries[len(entries)-1].Key()))

		Expect(subject.PrevBlock()).To(BeTrue())
		Expect(subject.Next()).To(BeTrue())
		Expect(subject.Hash()).To(Equal(entries[0]))

		for subject.PrevBlock() {
		}
		Expect(subject.Err()).NotTo(HaveOccurred())
		Expect(subject.blockNum).To(Equal(0))
		Expect(subject.Next()).To(BeTrue())
		Expect(subject.Hash()).To(Equal(geohash.Hash("u4pr00")))
	})

	ginkgo.It("should prevent block moves when the beginning/end is reached", func() {
		it1, err := reader.FindBlock("u4pr")
		Expect(err).NotTo(HaveOccurred())
		defer it1.Release()

		Expect(it1.Next()).To(BeTrue())
		Expect(it1.Hash()).To(Equal(geohash.Hash("u4pr00")))
		Expect(it1.PrevBlock()).To(BeFalse())

		it2, err := reader.FindBlock("u4przz")
		Expect(err).NotTo(HaveOccurred())
		defer it2.Release()

		Expect(it2.Next()).To(BeTrue())
		Expect(it2.NextBlock()).To(BeFalse())
	})

	ginkgo.It("should advance sections", func() {
		for n := range subject.sections {
			Expect(subject.advanceSection(n)).To(BeTrue())
			Expect(subject.Next()).To(BeTrue())
			Expect(subject.Hash()).To(Equal(entries[4*n]))
			Expect(subject.sectionNum).To(Equal(n))
		}
		Expect(subject.advanceSection(len(subject.sections))).To(BeFalse())
		Expect(subject.advanceSection(-1)).To(BeFalse())
	})

	ginkgo.It("should seek sections", func() {
		Expect(subject.SeekSection(entries[0])).To(BeTrue())
		Expect(subject.Next()).To(BeTrue())
		Expect(subject.sectionNum).To(Equal(0))
		Expect(subject.Hash()).To(Equal(entries[0]))

		Expect(subject.SeekSection(entries[3])).To(BeTrue())
		Expect(subject.Next()).To(BeTrue())
		Expect(subject.sectionNum).To(Equal(0))
		Expect(subject.Hash()).To(Equal(entries[0]))

		Expect(subject.SeekSection(entries[5])).To(BeTrue())
		Expect(subject.Next()).To(BeTrue())
		Expect(subject.sectionNum).To(Equal(1))
		Expect(subject.Hash()).To(Equal(entries[4]))

		Expect(subject.SeekSection(entries[4])).To(BeTrue())
		Expect(subject.Next()).To(BeTrue())
		Expect(subject.sectionNum).To(Equal(1))
		Expect(subject.Hash()).To(Equal(entries[4]))

		Expect(subject.SeekSection("u4pr")).To(BeTrue())
		Expect(subject.Next()).To(BeTrue())
		Expect(subject.sectionNum).To(Equal(0))
		Expect(subject.Hash()).To(Equal(entries[0]))
	})

	ginkgo.It("should seek entries", func() {
		Expect(subject.Seek(entries[0])).To(BeTrue())
		Expect(subject.Hash()).To(Equal(entries[0]))

		Expect(subject.Seek(entries[6])).To(BeTrue())
		Expect(subject.sectionNum).To(Equal(1))
		Expect(subject.Hash()).To(Equal(entries[6]))

		Expect(subject.Seek(entries[6] + "b")).To(BeTrue())
		Expect(subject.Hash()).To(Equal(entries[7]))

		Expect(subject.Seek(entries[3] + "0")).To(BeTrue())
		Expect(subject.sectionNum).To(Equal(1))
		Expect(subject.Hash()).To(Equal(entries[4]))

		Expect(subject.Seek("u4pr")).To(BeTrue())
		Expect(subject.Hash()).To(Equal(entries[0]))

		Expect(subject.Seek(entries[len(entries)-1] + "0")).To(BeFalse())
	})
})
