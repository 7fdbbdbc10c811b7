package index

import (
	"github.com/bsm/ginkgo/v2"
	. "github.com/bsm/gomega"
	"github.com/bsm/polyhash/geohash"
)

var _ = ginkgo.Describe("InMemStore", func() {
	var subject *InMemStore

	ginkgo.BeforeEach(func() {
		subject = NewInMemStore()
	})

	ginkgo.AfterEach(func() {
		Expect(subject.Close()).To(Succeed())
	})

	ginkgo.It("should write/read", func() {
		value := []byte("x")
		Expect(subject.Put(storeKey("u4pru"), value)).To(Succeed())
		Expect(subject.Put(storeKey("u4"), value)).To(Succeed())
		Expect(subject.Put(storeKey("u4pru"), []byte("y"))).To(Succeed())
		value[0] = 'z'

		Expect(subject.Get(storeKey("u4pru"))).To(Equal([]byte("y")))
		Expect(subject.Get(storeKey("u4"))).To(Equal([]byte("x")))
		Expect(subject.Get(storeKey("u4prv"))).To(BeNil())
		Expect(subject.Len()).To(Equal(2))
		Expect(subject.Hashes()).To(Equal(geohash.Set{"u4", "u4pru"}))
	})

	ginkgo.It("should reject invalid keys", func() {
		Expect(subject.Put([]byte("k1"), []byte("x"))).To(MatchError(errInvalidKey))

		_, err := subject.Get([]byte("k1"))
		Expect(err).To(MatchError(errInvalidKey))
	})
})
