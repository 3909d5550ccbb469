// Package signal holds the per-waveform numerics of the generator: linear
// interpolation onto arbitrary grids, merger alignment and the recombination
// of the (2,2) mode into the plus and cross polarizations.
package signal

import (
	"math"

	"github.com/pkg/errors"
)

var (
	// ErrLength is returned when paired slices differ in length or are too
	// short to interpolate.
	ErrLength = errors.New("signal: length mismatch")
	// ErrNotMonotonic is returned for grids that are not strictly monotonic.
	ErrNotMonotonic = errors.New("signal: grid is not strictly monotonic")
)

// Mode22 is the complex (2,2) mode sampled on a grid, h22 = A exp(i phase).
type Mode22 struct {
	Amplitude []float64
	Phase     []float64
}

// At returns h22 at sample i.
func (w Mode22) At(i int) complex128 {
	s, c := math.Sincos(w.Phase[i])
	return complex(w.Amplitude[i]*c, w.Amplitude[i]*s)
}

// AmplitudePhase converts polarizations back to the amplitude |h+ + i hx| and
// the unwrapped phase of h+ + i hx.
func AmplitudePhase(hp, hc []float64) (amp, ph []float64, err error) {
	if len(hp) != len(hc) {
		return nil, nil, errors.Wrapf(ErrLength, "%d plus, %d cross samples", len(hp), len(hc))
	}
	amp = make([]float64, len(hp))
	ph = make([]float64, len(hp))
	for i := range hp {
		amp[i] = math.Hypot(hp[i], hc[i])
		ph[i] = math.Atan2(hc[i], hp[i])
	}
	Unwrap(ph)
	return amp, ph, nil
}

// Unwrap removes 2 pi jumps between consecutive samples of phase in place.
func Unwrap(phase []float64) {
	if len(phase) == 0 {
		return
	}
	var offset float64
	prev := phase[0]
	for i := 1; i < len(phase); i++ {
		raw := phase[i]
		if d := raw - prev; d > math.Pi || d < -math.Pi {
			offset -= 2 * math.Pi * math.Round(d/(2*math.Pi))
		}
		prev = raw
		phase[i] = raw + offset
	}
}
