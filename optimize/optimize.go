// Package optimize reduces geohash cell sets by replacing groups of sibling
// cells with their parents while keeping the added area within a budget.
package optimize

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/bsm/polyhash/geohash"
)

var (
	ErrInvalidBounds      = errors.New("optimize: invalid precision bounds")
	ErrInvalidErrorBudget = errors.New("optimize: invalid error budget")
)

// budgetTolerance absorbs rounding when the budget is spent exactly.
const budgetTolerance = 1e-9

// Options configure the optimizer.
type Options struct {
	// The precision of the input cells. Default: precision of the first cell.
	InputPrecision int

	// The coarsest precision allowed in the result. Must be within [1,12].
	MinPrecision int

	// The finest precision allowed in the result. Must be within [MinPrecision,12].
	MaxPrecision int

	// The percentage of the input area (0-100) that partial merges may add.
	// Zero restricts the optimizer to lossless merges.
	PercentageError float64

	// Merge all remaining cells up to MinPrecision, regardless of the budget.
	ForceUpscale bool
}

func (o *Options) norm(base geohash.Set) *Options {
	var oo Options
	if o != nil {
		oo = *o
	}

	if oo.InputPrecision == 0 && len(base) != 0 {
		oo.InputPrecision = len(base[0])
	}
	return &oo
}

func (o *Options) validate() error {
	if o.MinPrecision < geohash.MinPrecision || o.MinPrecision > geohash.MaxPrecision {
		return fmt.Errorf("%w: min precision %d must be within [%d,%d]", ErrInvalidBounds, o.MinPrecision, geohash.MinPrecision, geohash.MaxPrecision)
	}
	if o.MaxPrecision < geohash.MinPrecision || o.MaxPrecision > geohash.MaxPrecision {
		return fmt.Errorf("%w: max precision %d must be within [%d,%d]", ErrInvalidBounds, o.MaxPrecision, geohash.MinPrecision, geohash.MaxPrecision)
	}
	if o.MinPrecision > o.MaxPrecision {
		return fmt.Errorf("%w: min precision %d > max precision %d", ErrInvalidBounds, o.MinPrecision, o.MaxPrecision)
	}
	if o.InputPrecision < o.MinPrecision || o.InputPrecision > geohash.MaxPrecision {
		return fmt.Errorf("%w: input precision %d must be within [%d,%d]", ErrInvalidBounds, o.InputPrecision, o.MinPrecision, geohash.MaxPrecision)
	}
	if math.IsNaN(o.PercentageError) || o.PercentageError < 0 || o.PercentageError > 100 {
		return fmt.Errorf("%w: %v must be within [0,100]", ErrInvalidErrorBudget, o.PercentageError)
	}
	return nil
}

// Optimize returns a reduced, mixed-precision version of the base set.
//
// Starting at the input precision, cells are grouped by their parents.
// Complete groups of 32 siblings are always replaced by their parent.
// Partial groups are replaced, smallest added area first, as long as the
// area added across all passes stays within PercentageError percent of
// the base set's area. Passes continue with the next coarser precision
// until MinPrecision is reached or a pass makes no merge.
//
// Cells finer than MaxPrecision are always merged, the added area counts
// towards the budget. The result never contains cells finer than the
// input precision.
func Optimize(base geohash.Set, opt *Options) (geohash.Set, error) {
	o := opt.norm(base)
	if err := o.validate(); err != nil {
		return nil, err
	}
	if len(base) == 0 {
		return geohash.Set{}, nil
	}

	t := newTrie(len(base) * o.InputPrecision)
	for _, h := range base {
		if err := h.Validate(); err != nil {
			return nil, err
		}
		if len(h) != o.InputPrecision {
			return nil, fmt.Errorf("%w: %q does not match input precision %d", geohash.ErrInvalidHash, string(h), o.InputPrecision)
		}
		t.Insert(h)
	}

	budget := o.PercentageError / 100 * t.Covered()
	limit := budget + budget*budgetTolerance
	var spent float64

	for level := o.InputPrecision; level > o.MinPrecision; level-- {
		forced := level > o.MaxPrecision
		merged := 0

		var partial []int32
		for _, pos := range t.Level(level - 1) {
			if !t.Candidate(pos) {
				continue
			}
			direct := t.Direct(pos)

			if forced {
				spent += t.Collapse(pos)
				merged++
			} else if direct == 32 {
				t.Collapse(pos)
				merged++
			} else if direct != 0 && t.nodes[pos].count > 1 {
				partial = append(partial, pos)
			}
		}

		sort.Slice(partial, func(i, j int) bool {
			gi, gj := t.Gap(partial[i]), t.Gap(partial[j])
			if gi == gj {
				return t.Hash(partial[i]) < t.Hash(partial[j])
			}
			return gi < gj
		})
		for _, pos := range partial {
			gap := t.Gap(pos)
			if spent+gap > limit {
				break
			}
			spent += t.Collapse(pos)
			merged++
		}

		if merged == 0 && level-1 <= o.MaxPrecision {
			break
		}
	}

	if o.ForceUpscale {
		for _, pos := range t.Level(o.MinPrecision) {
			if t.Candidate(pos) {
				t.Collapse(pos)
			}
		}
	}
	return t.Members(), nil
}
