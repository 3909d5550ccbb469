package mlgw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParamsWidths(t *testing.T) {
	tests := []struct {
		row  []float64
		want Params
	}{
		{[]float64{2, 0.1, 0.2}, ReducedParams{Q: 2, S1z: 0.1, S2z: 0.2}},
		{[]float64{30, 10, 0.1, 0.2}, AlignedParams{M1: 30, M2: 10, S1z: 0.1, S2z: 0.2, Distance: 1, Columns: 4}},
		{[]float64{30, 10, 0.1, 0.2, 5}, AlignedParams{M1: 30, M2: 10, S1z: 0.1, S2z: 0.2, Distance: 5, Columns: 5}},
		{[]float64{30, 10, 0.1, 0.2, 5, 1}, AlignedParams{M1: 30, M2: 10, S1z: 0.1, S2z: 0.2, Distance: 5, Inclination: 1, Columns: 6}},
		{[]float64{30, 10, 0.1, 0.2, 5, 1, 2}, AlignedParams{M1: 30, M2: 10, S1z: 0.1, S2z: 0.2, Distance: 5, Inclination: 1, RefPhase: 2, Columns: 7}},
		{
			[]float64{30, 10, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
			FullParams{M1: 30, M2: 10, S1: [3]float64{1, 2, 3}, S2: [3]float64{4, 5, 6}, Distance: 7, Inclination: 8, RefPhase: 9,
				LongAscNodes: 10, Eccentricity: 11, MeanPerAno: 12},
		},
	}
	for _, tt := range tests {
		p, err := ParseParams(tt.row)
		require.NoError(t, err)
		assert.Equal(t, tt.want, p)
		assert.Equal(t, len(tt.row), p.Width())
	}
}

func TestParseParamsErrors(t *testing.T) {
	for _, n := range []int{0, 1, 2} {
		_, err := ParseParams(make([]float64, n))
		assert.ErrorIs(t, err, ErrTooFewParams, "width %d", n)
	}
	for _, n := range []int{8, 9, 13, 15} {
		_, err := ParseParams(make([]float64, n))
		assert.ErrorIs(t, err, ErrUnsupportedWidth, "width %d", n)
	}
}

func TestStandardize(t *testing.T) {
	tests := []struct {
		name    string
		p       Params
		theta   Theta
		ext     Extrinsic
		dropped bool
	}{
		{"reduced", ReducedParams{Q: 3, S1z: 0.1, S2z: 0.2}, Theta{3, 0.1, 0.2}, Extrinsic{Distance: 1}, false},
		{"reduced swap", ReducedParams{Q: 0.25, S1z: 0.1, S2z: 0.2}, Theta{4, 0.2, 0.1}, Extrinsic{Distance: 1}, false},
		{"aligned", AlignedParams{M1: 30, M2: 10, S1z: 0.1, S2z: 0.2, Distance: 1, Columns: 4}, Theta{3, 0.1, 0.2}, Extrinsic{TotalMass: 40, Distance: 1}, false},
		{"aligned swap", AlignedParams{M1: 10, M2: 30, S1z: 0.1, S2z: 0.2, Distance: 7, Inclination: 1, RefPhase: 2}, Theta{3, 0.2, 0.1}, Extrinsic{40, 7, 1, 2}, false},
		{"aligned ignores extra fields", AlignedParams{M1: 10, M2: 10, Distance: 7, Inclination: 1, RefPhase: 2, Columns: 5}, Theta{1, 0, 0}, Extrinsic{TotalMass: 20, Distance: 7}, false},
		{"full", FullParams{M1: 20, M2: 10, S1: [3]float64{0, 0, 0.5}, S2: [3]float64{0, 0, -0.5}, Distance: 3, Inclination: 0.2, RefPhase: 0.1}, Theta{2, 0.5, -0.5}, Extrinsic{30, 3, 0.2, 0.1}, false},
		{"full in-plane", FullParams{M1: 10, M2: 20, S1: [3]float64{0.1, 0, 0.5}, S2: [3]float64{0, 0, -0.5}, Distance: 3}, Theta{2, -0.5, 0.5}, Extrinsic{TotalMass: 30, Distance: 3}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			theta, ext, dropped := tt.p.Standardize()
			assert.Equal(t, tt.theta, theta)
			assert.Equal(t, tt.ext, ext)
			assert.Equal(t, tt.dropped, dropped)
			assert.GreaterOrEqual(t, theta.Q, 1.)
		})
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validate(Theta{Q: 1}, Extrinsic{TotalMass: 20, Distance: 1}))
	assert.ErrorIs(t, validate(Theta{Q: -2}, Extrinsic{TotalMass: 20, Distance: 1}), ErrInvalidParams)
	assert.ErrorIs(t, validate(Theta{Q: 2}, Extrinsic{TotalMass: 20, Distance: -1}), ErrInvalidParams)
	assert.ErrorIs(t, validate(Theta{Q: 2}, Extrinsic{TotalMass: -20, Distance: 1}), ErrInvalidParams)
}

func TestPhaseReferenceString(t *testing.T) {
	assert.Equal(t, "merger", PhaseAtMerger.String())
	assert.Equal(t, "start", PhaseAtStart.String())
	assert.Equal(t, "model", PhaseAsModelled.String())
	assert.Equal(t, "unknown", PhaseReference(9).String())
}
