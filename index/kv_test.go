package index

import (
	"bytes"

	"github.com/bsm/ginkgo/v2"
	. "github.com/bsm/gomega"
	"github.com/bsm/polyhash/geohash"
)

var _ = ginkgo.Describe("Reader/Writer", func() {
	var subject *Reader
	var store *InMemStore

	ginkgo.BeforeEach(func() {
		store = NewInMemStore()

		w := NewWriter(store)
		Expect(w.Put("u4", []byte("DATA1"))).To(Succeed())
		Expect(w.Put("u4pru", []byte("DATA2"))).To(Succeed())
		Expect(w.Put("u4pruydqqvj", []byte("DATA3"))).To(Succeed())
		Expect(w.Put("ezs42", []byte("DATA4"))).To(Succeed())

		subject = NewReader(store)
	})

	ginkgo.AfterEach(func() {
		Expect(subject.Close()).To(Succeed())
	})

	ginkgo.It("should write", func() {
		Expect(store.Len()).To(Equal(4))
		Expect(store.Get(storeKey("u4"))).To(Equal([]byte("DATA1")))
		Expect(storeKey("u4")).To(Equal([]byte{0xd1, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x02}))
	})

	ginkgo.It("should encode order-preserving keys", func() {
		Expect(bytes.Compare(storeKey("u4"), storeKey("u40"))).To(Equal(-1))
		Expect(bytes.Compare(storeKey("u40"), storeKey("u41"))).To(Equal(-1))
		Expect(bytes.Compare(storeKey("ezs42"), storeKey("u4"))).To(Equal(-1))
	})

	ginkgo.It("should query", func() {
		Expect(subject.Get("u4pru")).To(Equal([]byte("DATA2")))
		Expect(subject.Get("u4prv")).To(BeNil())

		_, err := subject.Get("u4pra")
		Expect(err).To(MatchError(errInvalidHash))
	})

	ginkgo.It("should lookup points", func() {
		Expect(subject.Lookup(57.64911, 10.40744)).To(Equal([]Entry{
			{Hash: "u4", Value: []byte("DATA1")},
			{Hash: "u4pru", Value: []byte("DATA2")},
			{Hash: "u4pruydqqvj", Value: []byte("DATA3")},
		}))
		Expect(subject.Lookup(42.605, -5.603)).To(Equal([]Entry{
			{Hash: "ezs42", Value: []byte("DATA4")},
		}))
		Expect(subject.Lookup(-33.9, 18.4)).To(BeEmpty())

		_, err := subject.Lookup(0, 181)
		Expect(err).To(MatchError(geohash.ErrOutOfRange))
	})

	ginkgo.It("should reject invalid writes", func() {
		Expect(NewWriter(store).Put("", []byte("x"))).To(MatchError(errInvalidHash))
	})
})
