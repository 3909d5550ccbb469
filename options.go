package mlgw

import "github.com/sirupsen/logrus"

const (
	// DefaultReferenceTotalMass is the total mass, in solar masses, the
	// amplitude of the model is trained at.
	DefaultReferenceTotalMass = 20.
	// DefaultAmplitudeUnit scales model amplitudes to strain at 1 Mpc.
	DefaultAmplitudeUnit = 1e-21
)

// PhaseReference selects where the generated phase is set to zero.
type PhaseReference int

const (
	// PhaseAtMerger zeroes the phase at the amplitude peak of the model.
	PhaseAtMerger PhaseReference = iota
	// PhaseAtStart zeroes the phase at the first sample of the model grid.
	PhaseAtStart
	// PhaseAsModelled keeps the phase as reconstructed by the model.
	PhaseAsModelled
)

func (p PhaseReference) String() string {
	switch p {
	case PhaseAtMerger:
		return "merger"
	case PhaseAtStart:
		return "start"
	case PhaseAsModelled:
		return "model"
	}
	return "unknown"
}

// Options configures a Generator.
type Options struct {
	// Logger receives warnings about extrapolation and dropped spin
	// components.
	Logger logrus.FieldLogger

	// PhaseReference is the sample the phase is zeroed at.
	PhaseReference PhaseReference

	// ReferenceTotalMass is the total mass of the model waveforms. Inputs
	// given as (q, s1, s2) are generated at this mass.
	ReferenceTotalMass float64

	// AmplitudeUnit multiplies the model amplitude.
	AmplitudeUnit float64
}

// Option modifies Options.
type Option func(*Options)

// DefaultOptions returns Options with the standard logger, the phase zeroed
// at merger, a reference total mass of 20 solar masses and amplitudes in
// units of 1e-21.
func DefaultOptions() Options {
	return Options{
		Logger:             logrus.StandardLogger(),
		PhaseReference:     PhaseAtMerger,
		ReferenceTotalMass: DefaultReferenceTotalMass,
		AmplitudeUnit:      DefaultAmplitudeUnit,
	}
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// WithPhaseReference sets where the phase is zeroed.
func WithPhaseReference(ref PhaseReference) Option {
	return func(o *Options) {
		o.PhaseReference = ref
	}
}

// WithReferenceTotalMass overrides the reference total mass. Non-positive
// values are ignored.
func WithReferenceTotalMass(mass float64) Option {
	return func(o *Options) {
		if mass > 0 {
			o.ReferenceTotalMass = mass
		}
	}
}

// WithAmplitudeUnit overrides the amplitude unit. Non-positive values are
// ignored.
func WithAmplitudeUnit(unit float64) Option {
	return func(o *Options) {
		if unit > 0 {
			o.AmplitudeUnit = unit
		}
	}
}
