package signal

import (
	"math"
	"math/cmplx"

	"github.com/pkg/errors"
)

// harmonicNorm is sqrt(5 / (64 pi)), the normalisation of the l=2, |m|=2
// spin -2 weighted spherical harmonics.
var harmonicNorm = math.Sqrt(5 / (64 * math.Pi))

// SpinWeightedY2 returns the spin -2 weighted spherical harmonic of degree 2
// and order m, for m = 2 or m = -2, at inclination iota and azimuth phi.
func SpinWeightedY2(iota, phi float64, m int) complex128 {
	cosI := math.Cos(iota)
	switch m {
	case 2:
		return complex(harmonicNorm*(1+cosI)*(1+cosI), 0) * cmplx.Exp(complex(0, 2*phi))
	case -2:
		return complex(harmonicNorm*(1-cosI)*(1-cosI), 0) * cmplx.Exp(complex(0, -2*phi))
	default:
		panic("signal: only m = 2 and m = -2 are supported")
	}
}

// Polarizations recombines the (2,2) mode with amplitude amp and phase ph
// into the plus and cross polarizations seen at inclination iota and
// reference phase phi0:
//
//	h+ = 2 c (1 + cos^2 iota) A cos(phase + 2 phi0)
//	hx = 4 c cos iota A sin(phase + 2 phi0)
//
// with c = sqrt(5 / (64 pi)). hp and hc are allocated when nil.
func Polarizations(hp, hc, amp, ph []float64, iota, phi0 float64) ([]float64, []float64) {
	if len(amp) != len(ph) {
		panic(ErrLength)
	}
	if hp == nil {
		hp = make([]float64, len(amp))
	}
	if hc == nil {
		hc = make([]float64, len(amp))
	}
	cosI := math.Cos(iota)
	plus := 2 * harmonicNorm * (1 + cosI*cosI)
	cross := 4 * harmonicNorm * cosI
	for i, a := range amp {
		s, c := math.Sincos(ph[i] + 2*phi0)
		hp[i] = plus * a * c
		hc[i] = cross * a * s
	}
	return hp, hc
}

// PolarizationsComplex evaluates h = h22 Y(2,2) + conj(h22) Y(2,-2) directly
// and returns h+ = Re h and hx = Im h. It is the slow reference for
// Polarizations.
func PolarizationsComplex(amp, ph []float64, iota, phi0 float64) (hp, hc []float64) {
	if len(amp) != len(ph) {
		panic(ErrLength)
	}
	yPlus := SpinWeightedY2(iota, phi0, 2)
	yMinus := SpinWeightedY2(iota, phi0, -2)
	mode := Mode22{Amplitude: amp, Phase: ph}

	hp = make([]float64, len(amp))
	hc = make([]float64, len(amp))
	for i := range amp {
		h22 := mode.At(i)
		h := h22*yPlus + cmplx.Conj(h22)*yMinus
		hp[i], hc[i] = real(h), imag(h)
	}
	return hp, hc
}

// Inclined returns the amplitude |h+ + i hx| and the unwrapped phase of the
// strain radiated by the (2,2) mode amp, ph towards inclination iota. Both
// are normalised so that face-on they equal amp and ph. The returned phase
// is put on the same 2 pi branch as ph at the first sample.
func Inclined(amp, ph []float64, iota float64) (newAmp, newPh []float64, err error) {
	if len(amp) != len(ph) {
		return nil, nil, errors.Wrapf(ErrLength, "%d amplitude, %d phase samples", len(amp), len(ph))
	}
	if len(amp) == 0 {
		return nil, nil, nil
	}

	// a unit mode keeps the phase defined where the amplitude vanishes
	unit := make([]float64, len(amp))
	for i := range unit {
		unit[i] = 1
	}
	hp, hc := Polarizations(nil, nil, unit, ph, iota, 0)
	newAmp, newPh, err = AmplitudePhase(hp, hc)
	if err != nil {
		return nil, nil, err
	}

	norm := 4 * harmonicNorm
	for i, a := range amp {
		newAmp[i] *= a / norm
	}
	branch := 2 * math.Pi * math.Round((ph[0]-newPh[0])/(2*math.Pi))
	for i := range newPh {
		newPh[i] += branch
	}
	return newAmp, newPh, nil
}
