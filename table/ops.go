package table

import (
	"context"

	"github.com/bsm/polyhash/geo"
	"github.com/bsm/polyhash/geohash"
	"github.com/bsm/polyhash/optimize"
	"github.com/paulmach/orb"
)

// CreateHashList covers the geometry of every row with cells of the given
// precision and returns a new table with the sets stored in column.
func (t *Table) CreateHashList(ctx context.Context, column string, precision int, inner bool, opt *Options) (*Table, error) {
	o := opt.norm()
	res := t.clone()

	err := res.each(ctx, o, func(_ int, row *Row) error {
		set, err := geo.Cover(row.Geometry, precision, inner)
		if err != nil {
			return err
		}
		*row = row.with(column, set)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// DefaultOptimizeOptions allow merges across all precisions within
// DefaultPercentageError.
func DefaultOptimizeOptions() *optimize.Options {
	return &optimize.Options{
		MinPrecision:    geohash.MinPrecision,
		MaxPrecision:    geohash.MaxPrecision,
		PercentageError: DefaultPercentageError,
	}
}

// Optimize optimizes the sets in the src column and returns a new table with
// the results stored in dst. When InputPrecision is not set, it is derived
// from each row's cells. Nil params default to DefaultOptimizeOptions.
func (t *Table) Optimize(ctx context.Context, src, dst string, params *optimize.Options, opt *Options) (*Table, error) {
	o := opt.norm()
	if params == nil {
		params = DefaultOptimizeOptions()
	}
	res := t.clone()

	err := res.each(ctx, o, func(_ int, row *Row) error {
		base := row.Columns[src]
		if len(base) == 0 {
			*row = row.with(dst, geohash.Set{})
			return nil
		}

		set, err := optimize.Optimize(base, params)
		if err != nil {
			return err
		}
		*row = row.with(dst, set)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Geometries reconstructs one geometry per row from the sets in column.
// Rows skipped due to errors yield nil geometries.
func (t *Table) Geometries(ctx context.Context, column string, opt *Options) ([]orb.MultiPolygon, error) {
	o := opt.norm()
	res := make([]orb.MultiPolygon, len(t.Rows))

	err := t.each(ctx, o, func(i int, row *Row) error {
		mp, err := geo.ToGeometry(row.Columns[column])
		if err != nil {
			return err
		}
		res[i] = mp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Summary summarizes the cell counts of two columns.
func Summary(t *Table, initial, final string) optimize.Summary {
	return optimize.Summarize(t.Count(initial), t.Count(final))
}

func (t *Table) clone() *Table {
	rows := make([]Row, len(t.Rows))
	copy(rows, t.Rows)
	return &Table{Rows: rows}
}

// Cells returns the union of all sets in a column.
func (t *Table) Cells(column string) geohash.Set {
	var acc geohash.Set
	for i := range t.Rows {
		acc = acc.Union(t.Rows[i].Columns[column])
	}
	return acc
}
