// Package mlgw generates the gravitational waves emitted by binary black
// holes with aligned spins from a surrogate model trained on time-domain
// waveforms.
//
// The amplitude and the phase of the (2,2) mode are each represented by a
// PCA basis; the PCA coefficients are predicted from the standardized
// parameters (q, s1, s2) by one mixture of experts per component. The
// reconstructed waveform lives on the reduced time grid of the model and is
// rescaled to the physical masses, distance and orientation of the source.
package mlgw

import (
	"github.com/LorenzoPiccari/MLGW/features"
	"github.com/LorenzoPiccari/MLGW/moe"
	"github.com/LorenzoPiccari/MLGW/reconstruct"
	"github.com/LorenzoPiccari/MLGW/signal"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Quantity is the model of either the amplitude or the phase: a PCA and
// one regressor for each of its leading components. Components without a
// regressor are predicted as zero.
type Quantity struct {
	PCA      *reconstruct.PCA
	Features features.Spec
	Models   []moe.Model
}

func (q Quantity) validate(name string, gridLen int) error {
	if q.PCA == nil {
		return errors.Wrapf(ErrMissingArtifact, "%s PCA", name)
	}
	d, k := q.PCA.Dims()
	if d != gridLen {
		return errors.Wrapf(ErrShapeMismatch, "%s PCA has dimension %d, time grid has %d points", name, d, gridLen)
	}
	if len(q.Models) > k {
		return errors.Wrapf(ErrComponentGap, "%d %s regressors for %d PCA components", len(q.Models), name, k)
	}
	for i, m := range q.Models {
		if m.Features() != q.Features.Dim() {
			return errors.Wrapf(ErrShapeMismatch, "%s regressor %d takes %d features, feature spec gives %d",
				name, i, m.Features(), q.Features.Dim())
		}
	}
	return nil
}

// coefficients predicts the (N by K) PCA coefficients at the (N by 3)
// standardized parameters.
func (q Quantity) coefficients(thetas mat.Matrix) *mat.Dense {
	n, _ := thetas.Dims()
	_, k := q.PCA.Dims()
	res := mat.NewDense(n, k, nil)
	if len(q.Models) == 0 {
		return res
	}
	augmented := q.Features.AugmentBatch(thetas)
	for comp, m := range q.Models {
		res.SetCol(comp, m.Predict(augmented).RawVector().Data)
	}
	return res
}

// Generator evaluates a surrogate model. It is immutable and safe for
// concurrent use.
type Generator struct {
	times []float64
	amp   Quantity
	ph    Quantity
	opts  Options
}

// New assembles a Generator from in-memory models. times is the reduced
// time grid, in s/M_sun, both PCA models are defined on.
func New(amp, ph Quantity, times []float64, opts ...Option) (*Generator, error) {
	if _, err := signal.Monotonic(times); err != nil {
		return nil, errors.Wrap(ErrNotMonotonic, err.Error())
	}
	if err := amp.validate("amplitude", len(times)); err != nil {
		return nil, err
	}
	if err := ph.validate("phase", len(times)); err != nil {
		return nil, err
	}

	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	g := &Generator{
		times: append([]float64(nil), times...),
		amp:   amp,
		ph:    ph,
		opts:  options,
	}
	g.logMissingRegressors("amplitude", amp)
	g.logMissingRegressors("phase", ph)
	return g, nil
}

func (g *Generator) logMissingRegressors(name string, q Quantity) {
	if _, k := q.PCA.Dims(); len(q.Models) < k {
		g.opts.Logger.WithField("action", "load").
			WithField("quantity", name).
			Infof("%d of %d %s components have a regressor, the others are zero", len(q.Models), k, name)
	}
}

// Times returns a copy of the reduced time grid of the model.
func (g *Generator) Times() []float64 {
	return append([]float64(nil), g.times...)
}

// Options returns the options the generator runs with.
func (g *Generator) Options() Options {
	return g.opts
}

// AmpPCA returns the PCA of the amplitude.
func (g *Generator) AmpPCA() *reconstruct.PCA { return g.amp.PCA }

// PhasePCA returns the PCA of the phase.
func (g *Generator) PhasePCA() *reconstruct.PCA { return g.ph.PCA }

// AmpModels returns the amplitude regressors, one per PCA component.
func (g *Generator) AmpModels() []moe.Model {
	return append([]moe.Model(nil), g.amp.Models...)
}

// PhaseModels returns the phase regressors, one per PCA component.
func (g *Generator) PhaseModels() []moe.Model {
	return append([]moe.Model(nil), g.ph.Models...)
}

// AmpFeatures returns the feature specification of the amplitude regressors.
func (g *Generator) AmpFeatures() features.Spec { return g.amp.Features }

// PhaseFeatures returns the feature specification of the phase regressors.
func (g *Generator) PhaseFeatures() features.Spec { return g.ph.Features }

func thetaMatrix(thetas []Theta) *mat.Dense {
	res := mat.NewDense(len(thetas), 3, nil)
	for i, t := range thetas {
		res.SetRow(i, t.Slice())
	}
	return res
}

// ReducedCoefficients predicts the PCA coefficients of amplitude and phase
// for each standardized parameter vector. An empty thetas is an
// ErrTooFewParams.
func (g *Generator) ReducedCoefficients(thetas []Theta) (amp, ph *mat.Dense, err error) {
	if len(thetas) == 0 {
		return nil, nil, errors.Wrap(ErrTooFewParams, "no parameter vectors")
	}
	x := thetaMatrix(thetas)
	return g.amp.coefficients(x), g.ph.coefficients(x), nil
}

// RawWaveform returns amplitude and phase on the reduced time grid, as
// reconstructed by the model: reference total mass, 1 Mpc, face-on, no
// phase shift.
func (g *Generator) RawWaveform(thetas []Theta) (amp, ph *mat.Dense, err error) {
	ampCoeff, phCoeff, err := g.ReducedCoefficients(thetas)
	if err != nil {
		return nil, nil, err
	}
	return g.amp.PCA.Reconstruct(ampCoeff), g.ph.PCA.Reconstruct(phCoeff), nil
}
