package optimize

import "fmt"

// Summary reports the effect of an optimization.
type Summary struct {
	Initial int // number of cells before
	Final   int // number of cells after
}

// Summarize creates a summary from initial and final cell counts.
func Summarize(initial, final int) Summary {
	return Summary{Initial: initial, Final: final}
}

// Reduction returns the percentage by which the number of cells was reduced.
func (s Summary) Reduction() float64 {
	if s.Initial == 0 {
		return 0
	}
	return 100 * (1 - float64(s.Final)/float64(s.Initial))
}

// String implements fmt.Stringer.
func (s Summary) String() string {
	return fmt.Sprintf("initial=%d final=%d reduction=%.2f%%", s.Initial, s.Final, s.Reduction())
}
