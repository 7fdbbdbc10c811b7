package table_test

import (
	"bytes"
	"context"

	. "github.com/bsm/ginkgo/v2"
	. "github.com/bsm/gomega"
	"github.com/bsm/polyhash/cellstore"
	"github.com/bsm/polyhash/index"
	"github.com/bsm/polyhash/table"
)

var _ = Describe("Sinks", func() {
	var subject *table.Table

	BeforeEach(func() {
		var err error
		subject, err = seedTable().CreateHashList(context.Background(), table.HashListColumn, 6, true, nil)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should write indices", func() {
		store := index.NewInMemStore()
		w := index.NewWriter(store)
		Expect(table.WriteIndex(w, subject, table.HashListColumn)).To(Succeed())
		Expect(w.Close()).To(Succeed())
		Expect(store.Len()).To(Equal(32))

		r := index.NewReader(store)
		Expect(r.Get("u4pru0")).To(Equal([]byte("a\nb")))
		Expect(r.Get("u4pru1")).To(Equal([]byte("a")))
		Expect(r.Get("u4prv0")).To(BeNil())
	})

	It("should write cell stores", func() {
		buf := new(bytes.Buffer)
		w := cellstore.NewWriter(buf, nil)
		Expect(table.WriteCellStore(w, subject, table.HashListColumn, nil)).To(Succeed())
		Expect(w.Close()).To(Succeed())

		r, err := cellstore.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Get("u4pru0")).To(Equal([]byte("a\nb")))
		Expect(r.Get("u4pruz")).To(Equal([]byte("a")))

		lat, lng := 57.64911, 10.40744
		entries, err := r.Lookup(lat, lng)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(Equal([]cellstore.Entry{
			{Hash: "u4pruy", Value: []byte("a")},
		}))
	})
})
