package signal

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linspace(start, stop float64, n int) []float64 {
	res := make([]float64, n)
	for i := range res {
		res[i] = start + (stop-start)*float64(i)/float64(n-1)
	}
	return res
}

func TestPolarizationsMatchComplex(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	n := 64
	amp := make([]float64, n)
	ph := make([]float64, n)
	for i := range amp {
		amp[i] = rnd.Float64() * 1e-21
		ph[i] = rnd.Float64() * 200
	}

	for _, incl := range linspace(0, math.Pi, 41) {
		for _, phi0 := range linspace(0, 2*math.Pi, 41) {
			hp, hc := Polarizations(nil, nil, amp, ph, incl, phi0)
			hpRef, hcRef := PolarizationsComplex(amp, ph, incl, phi0)
			for i := range amp {
				tol := 1e-10 * 4 * harmonicNorm * amp[i]
				if math.Abs(hp[i]-hpRef[i]) > tol || math.Abs(hc[i]-hcRef[i]) > tol {
					t.Fatalf("inclination %g phi0 %g sample %d: closed form (%g, %g), direct (%g, %g)",
						incl, phi0, i, hp[i], hc[i], hpRef[i], hcRef[i])
				}
			}
		}
	}
}

func TestPolarizationsFaceOn(t *testing.T) {
	amp := []float64{1, 2, 3}
	ph := []float64{0, math.Pi / 2, math.Pi}
	hp, hc := Polarizations(nil, nil, amp, ph, 0, 0)
	c := 4 * harmonicNorm
	assert.InDeltaSlice(t, []float64{c, 0, -3 * c}, hp, 1e-12)
	assert.InDeltaSlice(t, []float64{0, 2 * c, 0}, hc, 1e-12)

	// edge-on: no cross polarization
	_, hc = Polarizations(nil, nil, amp, ph, math.Pi/2, 0.4)
	assert.InDeltaSlice(t, []float64{0, 0, 0}, hc, 1e-12)

	assert.Panics(t, func() { Polarizations(nil, nil, amp, ph[:2], 0, 0) })
}

func TestSpinWeightedY2(t *testing.T) {
	y := SpinWeightedY2(0, 0, 2)
	assert.InDelta(t, 4*harmonicNorm, real(y), 1e-15)
	assert.InDelta(t, 0, imag(y), 1e-15)
	assert.InDelta(t, 0, math.Abs(real(SpinWeightedY2(0, 1, -2))), 1e-15)

	// Y(2,-2)(pi - iota, -phi) mirrors Y(2,2)(iota, phi)
	a := SpinWeightedY2(0.7, 0.3, 2)
	b := SpinWeightedY2(math.Pi-0.7, -0.3, -2)
	assert.InDelta(t, real(a), real(b), 1e-15)
	assert.InDelta(t, imag(a), imag(b), 1e-15)

	assert.Panics(t, func() { SpinWeightedY2(0, 0, 1) })
}

func TestInclined(t *testing.T) {
	amp := linspace(0, 2, 200)
	ph := linspace(0.3, 30, 200)

	faceOn, faceOnPh, err := Inclined(amp, ph, 0)
	require.NoError(t, err)
	assert.InDeltaSlice(t, amp, faceOn, 1e-12)
	assert.InDeltaSlice(t, ph, faceOnPh, 1e-9)

	incl := 1.4
	cosI := math.Cos(incl)
	newAmp, newPh, err := Inclined(amp, ph, incl)
	require.NoError(t, err)
	assert.Equal(t, 0., newAmp[0])
	assert.InDelta(t, ph[0], newPh[0], math.Pi/2)
	for i := range amp {
		s, c := math.Sincos(ph[i])
		wantP := amp[i] * (1 + cosI*cosI) / 2 * c
		wantC := amp[i] * cosI * s
		gotS, gotC := math.Sincos(newPh[i])
		assert.InDelta(t, wantP, newAmp[i]*gotC, 1e-12, "sample %d", i)
		assert.InDelta(t, wantC, newAmp[i]*gotS, 1e-12, "sample %d", i)
		if i > 0 {
			assert.Less(t, math.Abs(newPh[i]-newPh[i-1]), math.Pi)
		}
	}

	_, _, err = Inclined(amp, ph[1:], incl)
	assert.ErrorIs(t, err, ErrLength)
}

func TestLinear(t *testing.T) {
	l, err := NewLinear([]float64{0, 1, 2}, []float64{0, 10, 30})
	require.NoError(t, err)
	assert.Equal(t, 5., l.At(0.5))
	assert.Equal(t, 20., l.At(1.5))
	// clamped outside the grid
	assert.Equal(t, 0., l.At(-4))
	assert.Equal(t, 30., l.At(7))
	assert.True(t, l.Contains(2))
	assert.False(t, l.Contains(2.01))
	assert.True(t, l.Contains(0))
	assert.False(t, l.Contains(-0.01))

	assert.Equal(t, []float64{0, 5, 30}, l.Eval(nil, []float64{-1, 0.5, 3}))
}

func TestLinearDescending(t *testing.T) {
	l, err := NewLinear([]float64{2, 1, 0}, []float64{30, 10, 0})
	require.NoError(t, err)
	assert.Equal(t, 5., l.At(0.5))
	assert.Equal(t, 30., l.At(3))
	assert.True(t, l.Contains(2))
	assert.True(t, l.Contains(0))
	assert.False(t, l.Contains(2.5))
}

func TestLinearErrors(t *testing.T) {
	_, err := NewLinear([]float64{0, 1}, []float64{0})
	assert.ErrorIs(t, err, ErrLength)
	_, err = NewLinear([]float64{0}, []float64{0})
	assert.ErrorIs(t, err, ErrLength)
	_, err = NewLinear([]float64{0, 1, 1}, []float64{0, 1, 2})
	assert.ErrorIs(t, err, ErrNotMonotonic)
	_, err = NewLinear([]float64{0, 2, 1}, []float64{0, 1, 2})
	assert.ErrorIs(t, err, ErrNotMonotonic)
}

func TestUnwrap(t *testing.T) {
	phase := linspace(0, 40, 500)
	wrapped := make([]float64, len(phase))
	for i, p := range phase {
		wrapped[i] = math.Atan2(math.Sin(p), math.Cos(p))
	}
	Unwrap(wrapped)
	assert.InDeltaSlice(t, phase, wrapped, 1e-9)

	// decreasing phase
	for i, p := range phase {
		wrapped[i] = math.Atan2(math.Sin(-p), math.Cos(-p))
	}
	Unwrap(wrapped)
	for i, p := range phase {
		assert.InDelta(t, -p, wrapped[i], 1e-9)
	}

	Unwrap(nil)
}

func TestAmplitudePhase(t *testing.T) {
	grid := linspace(0, 10, 200)
	hp := make([]float64, len(grid))
	hc := make([]float64, len(grid))
	for i, x := range grid {
		hp[i] = (1 + x) * math.Cos(3*x)
		hc[i] = (1 + x) * math.Sin(3*x)
	}
	amp, ph, err := AmplitudePhase(hp, hc)
	require.NoError(t, err)
	for i, x := range grid {
		assert.InDelta(t, 1+x, amp[i], 1e-12)
		assert.InDelta(t, 3*x, ph[i], 1e-9)
	}

	_, _, err = AmplitudePhase(hp, hc[1:])
	assert.ErrorIs(t, err, ErrLength)
}

func peaked(grid []float64, at float64) (amp, ph []float64) {
	amp = make([]float64, len(grid))
	ph = make([]float64, len(grid))
	for i, x := range grid {
		amp[i] = math.Exp(-(x - at) * (x - at))
		ph[i] = 2*x + 1
	}
	return amp, ph
}

func TestAlignMovesPeakToZero(t *testing.T) {
	grid := linspace(-10, 5, 31) // step 0.5, grid[20] == 0
	require.Equal(t, 0., grid[20])
	amp, ph := peaked(grid, -3)

	newAmp, newPh, err := Align(amp, ph, grid, true, 0.3)
	require.NoError(t, err)
	assert.Equal(t, 20, Merger(newAmp, grid))
	assert.Equal(t, 1., newAmp[20])
	assert.InDelta(t, 0.3, newPh[20], 1e-12)
	// the phase keeps its slope
	assert.InDelta(t, 1.3, newPh[21], 1e-12)
	// inputs untouched
	assert.Equal(t, 1., amp[14])

	_, newPh, err = Align(amp, ph, grid, false, 0.3)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, newPh[0], 1e-12)
}

func TestAlignWithoutZeroSample(t *testing.T) {
	grid := linspace(-10.25, 4.75, 31) // grid[20] == -0.25 is the sample closest to zero
	amp, ph := peaked(grid, grid[8])

	newAmp, newPh, err := Align(amp, ph, grid, true, 0)
	require.NoError(t, err)
	assert.Equal(t, 20, Merger(newAmp, grid))
	assert.InDelta(t, 1, newAmp[20], 1e-12)
	assert.InDelta(t, 0, newPh[20], 1e-12)
}

func TestAlignIdempotent(t *testing.T) {
	grids := map[string][]float64{
		"uniform": linspace(-10, 5, 31),
		"nonuniform": func() []float64 {
			g := linspace(-1, 1, 80)
			for i, x := range g {
				g[i] = 8 * x * math.Abs(x)
			}
			return g
		}(),
		"descending": linspace(5, -10, 31),
	}
	for name, grid := range grids {
		t.Run(name, func(t *testing.T) {
			amp, ph := peaked(grid, -2.2)
			for _, atMerger := range []bool{true, false} {
				a1, p1, err := Align(amp, ph, grid, atMerger, 0.7)
				require.NoError(t, err)
				a2, p2, err := Align(a1, p1, grid, atMerger, 0.7)
				require.NoError(t, err)
				assert.Equal(t, a1, a2)
				assert.InDeltaSlice(t, p1, p2, 1e-12)
			}
		})
	}
}

func TestAlignErrors(t *testing.T) {
	grid := []float64{0, 1, 2}
	_, _, err := Align([]float64{1, 2}, []float64{1, 2, 3}, grid, true, 0)
	assert.ErrorIs(t, err, ErrLength)
	_, _, err = Align([]float64{1, 2, 3}, []float64{1, 2, 3}, []float64{0, 2, 1}, true, 0)
	assert.ErrorIs(t, err, ErrNotMonotonic)
}

func TestModeAt(t *testing.T) {
	m := Mode22{Amplitude: []float64{2}, Phase: []float64{math.Pi / 2}}
	h := m.At(0)
	assert.InDelta(t, 0, real(h), 1e-15)
	assert.InDelta(t, 2, imag(h), 1e-15)
}
