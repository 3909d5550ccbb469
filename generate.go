package mlgw

import (
	"github.com/LorenzoPiccari/MLGW/signal"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Mode selects the output of Generate.
type Mode int

const (
	// ModePolarizations returns h+ and hx.
	ModePolarizations Mode = iota
	// ModeAmpPhase returns the amplitude |h+ + i hx| and the unwrapped phase
	// of the strain. Face-on they are those of the (2,2) mode.
	ModeAmpPhase
)

// Request describes the grid and the output of a generation.
type Request struct {
	// Grid is the time grid to evaluate the waves at. When empty the grid of
	// the model is used, in reduced units.
	Grid []float64
	// ReducedGrid states Grid is in reduced time (s/M_sun) rather than in
	// seconds.
	ReducedGrid bool
	Mode        Mode
}

// Generate evaluates the model at every parameter row. Rows may have 3, 4,
// 5, 6, 7 or 14 columns, see ParseParams, and may mix widths.
//
// The two returned (N by len(grid)) matrices are h+ and hx, or amplitude and
// phase, according to req.Mode.
func (g *Generator) Generate(rows [][]float64, req Request) (*mat.Dense, *mat.Dense, error) {
	params := make([]Params, len(rows))
	for i, row := range rows {
		p, err := ParseParams(row)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "row %d", i)
		}
		params[i] = p
	}
	return g.GenerateParams(params, req)
}

// GenerateParams is Generate for already parsed parameters.
func (g *Generator) GenerateParams(params []Params, req Request) (*mat.Dense, *mat.Dense, error) {
	if len(params) == 0 {
		return nil, nil, errors.Wrap(ErrTooFewParams, "no parameter rows")
	}
	thetas := make([]Theta, len(params))
	exts := make([]Extrinsic, len(params))
	dropped := 0
	for i, p := range params {
		theta, ext, inPlane := p.Standardize()
		if ext.TotalMass == 0 {
			ext.TotalMass = g.opts.ReferenceTotalMass
		}
		if err := validate(theta, ext); err != nil {
			return nil, nil, errors.Wrapf(err, "row %d", i)
		}
		if inPlane {
			dropped++
		}
		thetas[i], exts[i] = theta, ext
	}
	if dropped > 0 {
		g.opts.Logger.WithField("action", "standardize").
			WithField("rows", dropped).
			Warn("nonzero in-plane spin components given: only the aligned components are modelled, the others are ignored")
	}

	grid, reduced := req.Grid, req.ReducedGrid
	if len(grid) == 0 {
		g.opts.Logger.WithField("action", "generate").
			Info("no grid given, the reduced grid of the model is used")
		grid, reduced = g.times, true
	}

	rawAmp, rawPh, err := g.RawWaveform(thetas)
	if err != nil {
		return nil, nil, err
	}
	first := mat.NewDense(len(params), len(grid), nil)
	second := mat.NewDense(len(params), len(grid), nil)
	outside, outsideRows := 0, 0
	for i := range params {
		amp := first.RawRowView(i)
		ph := second.RawRowView(i)
		n, err := g.rescale(amp, ph, rawAmp.RawRowView(i), rawPh.RawRowView(i), grid, reduced, exts[i])
		if err != nil {
			return nil, nil, errors.Wrapf(err, "row %d", i)
		}
		if n > 0 {
			outside += n
			outsideRows++
		}

		switch req.Mode {
		case ModeAmpPhase:
			if exts[i].Inclination != 0 {
				a, p, err := signal.Inclined(amp, ph, exts[i].Inclination)
				if err != nil {
					return nil, nil, errors.Wrapf(err, "row %d", i)
				}
				copy(amp, a)
				copy(ph, p)
			}
			floats.AddConst(exts[i].RefPhase, ph)
		case ModePolarizations:
			hp, hc := signal.Polarizations(nil, nil, amp, ph, exts[i].Inclination, exts[i].RefPhase)
			copy(amp, hp)
			copy(ph, hc)
		default:
			return nil, nil, errors.Errorf("mlgw: unknown output mode %d", req.Mode)
		}
	}
	if outside > 0 {
		g.opts.Logger.WithField("action", "generate").
			WithField("samples", outside).
			WithField("rows", outsideRows).
			WithField("model_start", floats.Min(g.times)).
			WithField("model_end", floats.Max(g.times)).
			Warn("time grid given is too long for the model: the amplitude is set to zero outside the model grid")
	}
	return first, second, nil
}

// rescale maps a raw waveform on the model grid to the physical source and
// evaluates it on grid. It returns the number of grid samples outside the
// model grid, where the amplitude is zero.
func (g *Generator) rescale(amp, ph, rawAmp, rawPh, grid []float64, reduced bool, ext Extrinsic) (int, error) {
	ampInterp, err := signal.NewLinear(g.times, rawAmp)
	if err != nil {
		return 0, err
	}
	phInterp, err := signal.NewLinear(g.times, rawPh)
	if err != nil {
		return 0, err
	}

	var phRef float64
	switch g.opts.PhaseReference {
	case PhaseAtMerger:
		phRef = rawPh[signal.Merger(rawAmp, g.times)]
	case PhaseAtStart:
		phRef = rawPh[0]
	}

	scale := ext.TotalMass / g.opts.ReferenceTotalMass * g.opts.AmplitudeUnit / ext.Distance
	outside := 0
	for j, t := range grid {
		if !reduced {
			t /= ext.TotalMass
		}
		ph[j] = phInterp.At(t) - phRef
		if !ampInterp.Contains(t) {
			amp[j] = 0
			outside++
			continue
		}
		amp[j] = ampInterp.At(t) * scale
	}
	return outside, nil
}

// Call generates a single waveform on a physical time grid, in seconds,
// from the full set of source parameters.
func (g *Generator) Call(grid []float64, p FullParams, mode Mode) ([]float64, []float64, error) {
	first, second, err := g.GenerateParams([]Params{p}, Request{Grid: grid, Mode: mode})
	if err != nil {
		return nil, nil, err
	}
	return first.RawRowView(0), second.RawRowView(0), nil
}
