package signal

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/interp"
)

// Linear is the piecewise linear interpolant of samples on a strictly
// monotonic grid. Outside the grid it returns the nearest end value, like
// numpy.interp.
type Linear struct {
	pl     interp.PiecewiseLinear
	lo, hi float64
}

// NewLinear fits xs, ys. The grid may be ascending or descending.
func NewLinear(xs, ys []float64) (*Linear, error) {
	if len(xs) != len(ys) || len(xs) < 2 {
		return nil, errors.Wrapf(ErrLength, "%d grid points, %d values", len(xs), len(ys))
	}
	ascending, err := Monotonic(xs)
	if err != nil {
		return nil, err
	}
	if !ascending {
		xs, ys = reversed(xs), reversed(ys)
	}

	l := &Linear{lo: xs[0], hi: xs[len(xs)-1]}
	if err := l.pl.Fit(xs, ys); err != nil {
		return nil, errors.Wrap(err, "fit interpolant")
	}
	return l, nil
}

// At evaluates the interpolant at x.
func (l *Linear) At(x float64) float64 {
	return l.pl.Predict(x)
}

// Eval evaluates the interpolant at every x into dst, allocating it when nil.
func (l *Linear) Eval(dst, x []float64) []float64 {
	if dst == nil {
		dst = make([]float64, len(x))
	}
	for i, v := range x {
		dst[i] = l.pl.Predict(v)
	}
	return dst
}

// Contains reports whether x lies within the support of the grid.
func (l *Linear) Contains(x float64) bool {
	return x >= l.lo && x <= l.hi
}

// Monotonic checks that grid is strictly monotonic and reports whether it is
// ascending.
func Monotonic(grid []float64) (ascending bool, err error) {
	if len(grid) < 2 {
		return true, errors.Wrapf(ErrLength, "grid has %d points", len(grid))
	}
	ascending = grid[1] > grid[0]
	for i := 1; i < len(grid); i++ {
		if (ascending && grid[i] <= grid[i-1]) || (!ascending && grid[i] >= grid[i-1]) {
			return ascending, errors.Wrapf(ErrNotMonotonic, "at index %d", i)
		}
	}
	return ascending, nil
}

func reversed(x []float64) []float64 {
	res := make([]float64, len(x))
	for i, v := range x {
		res[len(x)-1-i] = v
	}
	return res
}
