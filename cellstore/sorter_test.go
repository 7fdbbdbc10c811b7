package cellstore

import (
	"bytes"
	"io"

	"github.com/bsm/ginkgo/v2"
	. "github.com/bsm/gomega"
	"github.com/bsm/polyhash/geohash"
)

var _ = ginkgo.Describe("Sorter", func() {
	var subject *Sorter

	ginkgo.BeforeEach(func() {
		subject = NewSorter(nil)
	})

	ginkgo.AfterEach(func() {
		_ = subject.Close()
	})

	ginkgo.It("should close", func() {
		Expect(subject.Close()).To(Succeed())
	})

	ginkgo.It("should reject invalid hashes", func() {
		Expect(subject.Append("u4pra", []byte("data1"))).To(MatchError(errInvalidHash))
	})

	ginkgo.It("should append/sort/iterate", func() {
		Expect(subject.Append("u4pru", []byte("data1"))).To(Succeed())
		Expect(subject.Append("u4prv", []byte("data2"))).To(Succeed())
		Expect(subject.Append("u4pru", []byte("data3"))).To(Succeed())
		Expect(subject.Append("u4pr", []byte("data4"))).To(Succeed())
		Expect(subject.Append("u4pru0", []byte("data5"))).To(Succeed())
		Expect(subject.Append("u4pru", []byte("data6"))).To(Succeed())

		Expect(subject.Len()).To(Equal(6))

		iter, err := subject.Sort()
		Expect(err).NotTo(HaveOccurred())
		defer iter.Close()

		h, data, err := iter.NextEntry()
		Expect(err).NotTo(HaveOccurred())
		Expect(h).To(Equal(geohash.Hash("u4pr")))
		Expect(data).To(Equal([][]byte{[]byte("data4")}))

		h, data, err = iter.NextEntry()
		Expect(err).NotTo(HaveOccurred())
		Expect(h).To(Equal(geohash.Hash("u4pru")))
		Expect(data).To(Equal([][]byte{[]byte("data1"), []byte("data3"), []byte("data6")}))

		h, data, err = iter.NextEntry()
		Expect(err).NotTo(HaveOccurred())
		Expect(h).To(Equal(geohash.Hash("u4pru0")))
		Expect(data).To(Equal([][]byte{[]byte("data5")}))

		h, data, err = iter.NextEntry()
		Expect(err).NotTo(HaveOccurred())
		Expect(h).To(Equal(geohash.Hash("u4prv")))
		Expect(data).To(Equal([][]byte{[]byte("data2")}))

		_, _, err = iter.NextEntry()
		Expect(err).To(Equal(io.EOF))
	})

	ginkgo.It("should flush into writers", func() {
		Expect(subject.Append("u4pru", []byte("b"))).To(Succeed())
		Expect(subject.Append("u4pr", []byte("c"))).To(Succeed())
		Expect(subject.Append("u4pru", []byte("a"))).To(Succeed())

		buf := new(bytes.Buffer)
		w := NewWriter(buf, nil)
		Expect(subject.Flush(w, func(vals [][]byte) []byte {
			return bytes.Join(vals, []byte(","))
		})).To(Succeed())
		Expect(w.Close()).To(Succeed())

		r, err := NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Get("u4pr")).To(Equal([]byte("c")))
		Expect(r.Get("u4pru")).To(Equal([]byte("a,b")))
	})
})
