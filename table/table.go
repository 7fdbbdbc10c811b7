// Package table applies cover, optimize and reconstruct operations to
// collections of rows, in parallel.
package table

import (
	"context"
	"fmt"
	"runtime"

	"github.com/bsm/polyhash/geohash"
	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Default column names.
const (
	HashListColumn  = "geohash_list"
	OptimizedColumn = "optimized_geohash_list"
)

// DefaultPercentageError is the error budget of DefaultOptimizeOptions.
const DefaultPercentageError = 10.0

// Row is a single geometry with its attributes and computed hash lists.
type Row struct {
	ID         string
	Geometry   orb.Geometry
	Properties map[string]interface{}
	Columns    map[string]geohash.Set
}

// Column returns the set stored under the column name.
func (r *Row) Column(name string) geohash.Set {
	return r.Columns[name]
}

func (r Row) with(name string, set geohash.Set) Row {
	cols := make(map[string]geohash.Set, len(r.Columns)+1)
	for k, v := range r.Columns {
		cols[k] = v
	}
	cols[name] = set
	r.Columns = cols
	return r
}

// Table is a collection of rows.
type Table struct {
	Rows []Row
}

// New creates a table from rows.
func New(rows ...Row) *Table {
	return &Table{Rows: rows}
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Count returns the total number of cells in a column.
func (t *Table) Count(column string) int {
	n := 0
	for i := range t.Rows {
		n += len(t.Rows[i].Columns[column])
	}
	return n
}

// --------------------------------------------------------------------

// Options configure batch processing.
type Options struct {
	// The maximum number of rows to process in parallel. Default: runtime.NumCPU().
	Concurrency int

	// Skip rows that fail to process instead of aborting. Skipped rows
	// are logged and left without a value. Default: false.
	SkipErrors bool

	// A custom logger. Default: logrus.StandardLogger().
	Logger logrus.FieldLogger
}

func (o *Options) norm() *Options {
	var oo Options
	if o != nil {
		oo = *o
	}

	if oo.Concurrency < 1 {
		oo.Concurrency = runtime.NumCPU()
	}
	if oo.Logger == nil {
		oo.Logger = logrus.StandardLogger()
	}
	return &oo
}

// RowError is returned when a row fails to process.
type RowError struct {
	Index int
	ID    string
	Err   error
}

// Error implements the error interface.
func (e *RowError) Error() string {
	return fmt.Sprintf("table: row #%d (%s): %s", e.Index, e.ID, e.Err.Error())
}

// Unwrap returns the underlying error.
func (e *RowError) Unwrap() error { return e.Err }

// each calls fn for every row in parallel.
func (t *Table) each(ctx context.Context, o *Options, fn func(int, *Row) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.Concurrency)

	for i := range t.Rows {
		if gctx.Err() != nil {
			break
		}

		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			row := &t.Rows[i]
			if err := fn(i, row); err != nil {
				if o.SkipErrors {
					o.Logger.WithError(err).WithFields(logrus.Fields{"index": i, "row": row.ID}).Warn("skipping row")
					return nil
				}
				return &RowError{Index: i, ID: row.ID, Err: err}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
