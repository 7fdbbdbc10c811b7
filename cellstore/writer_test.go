package cellstore

import (
	"bytes"
	"math/rand"

	"github.com/bsm/ginkgo/v2"
	. "github.com/bsm/gomega"
	"github.com/bsm/polyhash/geohash"
)

var _ = ginkgo.Describe("Writer", func() {
	var buf *bytes.Buffer
	var subject *Writer

	ginkgo.BeforeEach(func() {
		buf = new(bytes.Buffer)
		subject = NewWriter(buf, nil)
	})

	ginkgo.AfterEach(func() {
		_ = subject.Close()
	})

	ginkgo.It("should write empty", func() {
		Expect(subject.Close()).To(Succeed())
		Expect(buf.Len()).To(Equal(footerLen + geohash.MaxPrecision))
		Expect(subject.Close()).To(MatchError(errClosed))
	})

	ginkgo.It("should prevent out-of-order writes", func() {
		Expect(subject.Append("u4pru", []byte("testdata"))).To(Succeed())
		Expect(subject.Append("u4pru", []byte("testdata"))).To(MatchError(`cellstore: attempted an out-of-order append, u4pru must be > u4pru`))
		Expect(subject.Append("u4prt", []byte("testdata"))).To(MatchError(`cellstore: attempted an out-of-order append, u4prt must be > u4pru`))
		Expect(subject.Append("u4pr", []byte("testdata"))).To(MatchError(`cellstore: attempted an out-of-order append, u4pr must be > u4pru`))
		Expect(subject.Append("u4pru0", []byte("testdata"))).To(Succeed())
		Expect(subject.Append("u4prv", []byte("testdata"))).To(Succeed())
	})

	ginkgo.It("should prevent invalid writes", func() {
		Expect(subject.Append("", []byte("testdata"))).To(MatchError(errInvalidHash))
		Expect(subject.Append("u4pra", []byte("testdata"))).To(MatchError(errInvalidHash))
	})

	ginkgo.It("should write (non-compressable)", func() {
		rnd := rand.New(rand.NewSource(1))
		val := make([]byte, 128)

		for _, h := range seedHashes("u4", 5) {
			_, err := rnd.Read(val)
			Expect(err).NotTo(HaveOccurred())
			Expect(subject.Append(h, val)).To(Succeed())
		}
		Expect(subject.Close()).To(Succeed())
		Expect(len(subject.index)).To(BeNumerically(">", 200))
		Expect(buf.Len()).To(BeNumerically(">", 32768*128))
		Expect(buf.Bytes()[buf.Len()-8:]).To(Equal(magic))
	})

	ginkgo.It("should write (well-compressable)", func() {
		val := bytes.Repeat([]byte("testdata"), 16)
		for _, h := range seedHashes("u4", 5) {
			Expect(subject.Append(h, val)).To(Succeed())
		}
		Expect(subject.Close()).To(Succeed())
		Expect(len(subject.index)).To(BeNumerically(">", 200))
		Expect(buf.Len()).To(BeNumerically("<", 32768*128/4))
		Expect(buf.Bytes()[buf.Len()-8:]).To(Equal(magic))
	})

	ginkgo.It("should store mixed precisions", func() {
		for _, h := range []geohash.Hash{"u4", "u4pr", "u4pr0", "u4pr00", "u4pr01", "u4prz"} {
			Expect(subject.Append(h, seedValue(h))).To(Succeed())
		}
		Expect(subject.Close()).To(Succeed())
		Expect(subject.index).To(HaveLen(1))
		Expect(subject.index[0].MaxKey).To(Equal(geohash.Hash("u4prz").Key()))

		stats := subject.Stats()
		Expect(stats.Total()).To(Equal(6))
		Expect(stats.Cells[2]).To(Equal(1))
		Expect(stats.Cells[5]).To(Equal(2))
		Expect(stats.Cells[6]).To(Equal(2))
		min, max := stats.Precisions()
		Expect(min).To(Equal(2))
		Expect(max).To(Equal(6))
	})
})
