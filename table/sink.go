package table

import (
	"bytes"
	"sort"

	"github.com/bsm/polyhash/cellstore"
	"github.com/bsm/polyhash/geohash"
	"github.com/bsm/polyhash/index"
)

var newline = []byte{'\n'}

// WriteIndex writes one record per cell of column into w, in hash order.
// Values are the newline-joined IDs of the rows containing the cell.
func WriteIndex(w index.HashWriter, t *Table, column string) error {
	ids := make(map[geohash.Hash][][]byte)
	for i := range t.Rows {
		row := &t.Rows[i]
		for _, h := range row.Columns[column] {
			ids[h] = append(ids[h], []byte(row.ID))
		}
	}

	hashes := make([]geohash.Hash, 0, len(ids))
	for h := range ids {
		hashes = append(hashes, h)
	}
	sort.Slice(hashes, func(i, j int) bool { return hashes[i] < hashes[j] })

	for _, h := range hashes {
		if err := w.Put(h, bytes.Join(ids[h], newline)); err != nil {
			return err
		}
	}
	return nil
}

// WriteCellStore writes one entry per cell of column into w. Cells are
// presorted externally, values are the newline-joined IDs of the rows
// containing the cell.
func WriteCellStore(w *cellstore.Writer, t *Table, column string, o *cellstore.SorterOptions) error {
	sorter := cellstore.NewSorter(o)
	defer sorter.Close()

	for i := range t.Rows {
		row := &t.Rows[i]
		for _, h := range row.Columns[column] {
			if err := sorter.Append(h, []byte(row.ID)); err != nil {
				return err
			}
		}
	}

	return sorter.Flush(w, joinLines)
}

func joinLines(vals [][]byte) []byte { return bytes.Join(vals, newline) }
