package mlgw

import (
	"github.com/LorenzoPiccari/MLGW/signal"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Align moves the amplitude peak of every row of amp to the sample of grid
// closest to t = 0 and zeroes the phase either there (atMerger) or at the
// first sample, before adding phi0. The peak is at t = 0 exactly only when
// grid has that sample. An empty grid stands for the reduced grid of the
// model. Rows are aligned independently; aligning twice is the same as
// aligning once.
func (g *Generator) Align(amp, ph *mat.Dense, grid []float64, atMerger bool, phi0 float64) (*mat.Dense, *mat.Dense, error) {
	if len(grid) == 0 {
		grid = g.times
	}
	n, d := amp.Dims()
	if pn, pd := ph.Dims(); pn != n || pd != d || d != len(grid) {
		return nil, nil, errors.Wrapf(ErrShapeMismatch, "amplitude %dx%d, phase %dx%d, grid %d", n, d, pn, pd, len(grid))
	}

	newAmp := mat.NewDense(n, d, nil)
	newPh := mat.NewDense(n, d, nil)
	for i := 0; i < n; i++ {
		a, p, err := signal.Align(amp.RawRowView(i), ph.RawRowView(i), grid, atMerger, phi0)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "row %d", i)
		}
		newAmp.SetRow(i, a)
		newPh.SetRow(i, p)
	}
	return newAmp, newPh, nil
}
