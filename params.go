package mlgw

import (
	"math"

	"github.com/pkg/errors"
)

// Theta holds the standardized parameters the regressors are trained on:
// mass ratio Q >= 1 and the spins aligned with the orbital angular momentum
// of the heavier (S1) and lighter (S2) body.
type Theta struct {
	Q, S1, S2 float64
}

// Slice returns theta as (q, s1, s2).
func (t Theta) Slice() []float64 {
	return []float64{t.Q, t.S1, t.S2}
}

// Extrinsic holds the parameters that only rescale or project the waveform.
// A zero TotalMass stands for the reference total mass of the model.
type Extrinsic struct {
	TotalMass   float64 // solar masses
	Distance    float64 // Mpc
	Inclination float64 // rad
	RefPhase    float64 // rad
}

func defaultExtrinsic() Extrinsic {
	return Extrinsic{Distance: 1}
}

// Params is a parameter row of one of the supported layouts.
type Params interface {
	// Width is the number of columns of the layout.
	Width() int
	// Standardize maps the parameters to Theta and Extrinsic. The flag
	// reports whether nonzero in-plane spin components were dropped.
	Standardize() (Theta, Extrinsic, bool)
}

// ReducedParams are given directly as (q, s1z, s2z) and are generated at the
// reference total mass, 1 Mpc, face-on.
type ReducedParams struct {
	Q, S1z, S2z float64
}

// AlignedParams are the layouts of width 4 to 7:
//
//	m1, m2, s1z, s2z [, distance [, inclination [, ref phase]]]
//
// Columns is the width of the layout; fields beyond it are ignored in
// favour of their defaults. A zero Columns means all seven are set.
type AlignedParams struct {
	M1, M2      float64
	S1z, S2z    float64
	Distance    float64
	Inclination float64
	RefPhase    float64
	Columns     int
}

// FullParams is the 14 column layout:
//
//	m1, m2, s1x, s1y, s1z, s2x, s2y, s2z, distance, inclination, ref phase,
//	longitude of ascending nodes, eccentricity, mean periastron anomaly
//
// Only the aligned spin components are modelled; the last three columns are
// accepted and ignored.
type FullParams struct {
	M1, M2       float64
	S1, S2       [3]float64
	Distance     float64
	Inclination  float64
	RefPhase     float64
	LongAscNodes float64
	Eccentricity float64
	MeanPerAno   float64
}

var (
	_ Params = ReducedParams{}
	_ Params = AlignedParams{}
	_ Params = FullParams{}
)

// ParseParams interprets a parameter row according to its width.
func ParseParams(row []float64) (Params, error) {
	switch n := len(row); {
	case n < 3:
		return nil, errors.Wrapf(ErrTooFewParams, "got %d columns", n)
	case n == 3:
		return ReducedParams{Q: row[0], S1z: row[1], S2z: row[2]}, nil
	case n >= 4 && n <= 7:
		p := AlignedParams{M1: row[0], M2: row[1], S1z: row[2], S2z: row[3], Distance: 1, Columns: n}
		if n > 4 {
			p.Distance = row[4]
		}
		if n > 5 {
			p.Inclination = row[5]
		}
		if n > 6 {
			p.RefPhase = row[6]
		}
		return p, nil
	case n == 14:
		return FullParams{
			M1: row[0], M2: row[1],
			S1:           [3]float64{row[2], row[3], row[4]},
			S2:           [3]float64{row[5], row[6], row[7]},
			Distance:     row[8],
			Inclination:  row[9],
			RefPhase:     row[10],
			LongAscNodes: row[11],
			Eccentricity: row[12],
			MeanPerAno:   row[13],
		}, nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedWidth, "got %d columns", n)
	}
}

// standardMassRatio returns q >= 1, swapping the spins when the lighter body
// was given first.
func standardMassRatio(q, s1, s2 float64) Theta {
	if q < 1 {
		return Theta{Q: 1 / q, S1: s2, S2: s1}
	}
	return Theta{Q: q, S1: s1, S2: s2}
}

func (p ReducedParams) Width() int { return 3 }

func (p ReducedParams) Standardize() (Theta, Extrinsic, bool) {
	return standardMassRatio(p.Q, p.S1z, p.S2z), defaultExtrinsic(), false
}

func (p AlignedParams) Width() int {
	if p.Columns < 4 || p.Columns > 7 {
		return 7
	}
	return p.Columns
}

func (p AlignedParams) Standardize() (Theta, Extrinsic, bool) {
	ext := defaultExtrinsic()
	ext.TotalMass = p.M1 + p.M2
	w := p.Width()
	if w > 4 {
		ext.Distance = p.Distance
	}
	if w > 5 {
		ext.Inclination = p.Inclination
	}
	if w > 6 {
		ext.RefPhase = p.RefPhase
	}
	return standardMassRatio(p.M1/p.M2, p.S1z, p.S2z), ext, false
}

func (p FullParams) Width() int { return 14 }

func (p FullParams) Standardize() (Theta, Extrinsic, bool) {
	ext := Extrinsic{
		TotalMass:   p.M1 + p.M2,
		Distance:    p.Distance,
		Inclination: p.Inclination,
		RefPhase:    p.RefPhase,
	}
	dropped := p.S1[0] != 0 || p.S1[1] != 0 || p.S2[0] != 0 || p.S2[1] != 0
	return standardMassRatio(p.M1/p.M2, p.S1[2], p.S2[2]), ext, dropped
}

// validate rejects parameters the model cannot be evaluated at.
func validate(theta Theta, ext Extrinsic) error {
	for _, v := range []float64{theta.Q, theta.S1, theta.S2, ext.TotalMass, ext.Distance, ext.Inclination, ext.RefPhase} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Wrap(ErrInvalidParams, "parameters are not finite")
		}
	}
	if theta.Q <= 0 {
		return errors.Wrapf(ErrInvalidParams, "mass ratio %g", theta.Q)
	}
	if ext.TotalMass < 0 {
		return errors.Wrapf(ErrInvalidParams, "total mass %g", ext.TotalMass)
	}
	if ext.Distance <= 0 {
		return errors.Wrapf(ErrInvalidParams, "distance %g", ext.Distance)
	}
	return nil
}
