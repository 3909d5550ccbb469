package signal

import (
	"math"

	"github.com/pkg/errors"
)

// Align shifts a waveform along grid so that its amplitude peak sits at the
// grid sample closest to t = 0, resampling amplitude and phase by linear
// interpolation. The phase is then set to zero at that sample (atMerger) or
// at the first sample, and phi0 is added.
//
// The peak lands on t = 0 only when grid has that sample. Otherwise it lands
// on the nearest sample, not between samples, so that aligning an aligned
// waveform leaves it unchanged. When several samples share the peak
// amplitude the one closest to t = 0 is the merger.
func Align(amp, ph, grid []float64, atMerger bool, phi0 float64) (newAmp, newPh []float64, err error) {
	if len(amp) != len(grid) || len(ph) != len(grid) {
		return nil, nil, errors.Wrapf(ErrLength, "%d amplitude, %d phase samples on a grid of %d", len(amp), len(ph), len(grid))
	}
	if _, err := Monotonic(grid); err != nil {
		return nil, nil, err
	}

	zero := closestToZero(grid)
	merger := Merger(amp, grid)
	shift := grid[merger] - grid[zero]

	newAmp = append([]float64(nil), amp...)
	newPh = append([]float64(nil), ph...)
	if shift != 0 {
		shifted := make([]float64, len(grid))
		for i, t := range grid {
			shifted[i] = t - shift
		}
		ampInterp, err := NewLinear(shifted, amp)
		if err != nil {
			return nil, nil, err
		}
		phInterp, err := NewLinear(shifted, ph)
		if err != nil {
			return nil, nil, err
		}
		ampInterp.Eval(newAmp, grid)
		phInterp.Eval(newPh, grid)
	}

	ref := 0
	if atMerger {
		ref = zero
	}
	offset := newPh[ref]
	for i := range newPh {
		newPh[i] = newPh[i] - offset + phi0
	}
	return newAmp, newPh, nil
}

// Merger returns the index of the amplitude peak. Ties are broken in favour
// of the sample closest to t = 0.
func Merger(amp, grid []float64) int {
	best := 0
	for i := 1; i < len(amp); i++ {
		switch {
		case amp[i] > amp[best]:
			best = i
		case amp[i] == amp[best] && math.Abs(grid[i]) < math.Abs(grid[best]):
			best = i
		}
	}
	return best
}

func closestToZero(grid []float64) int {
	best := 0
	for i, t := range grid {
		if math.Abs(t) < math.Abs(grid[best]) {
			best = i
		}
	}
	return best
}
