package mlgw

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ManifestFile is the optional description of a model folder.
const ManifestFile = "manifest.yaml"

// Manifest declares the content of a model folder. Zero values mean "not
// declared": component counts are then discovered from the files present and
// the reference mass and amplitude unit keep their defaults.
type Manifest struct {
	AmplitudeComponents int     `yaml:"amplitude_components"`
	PhaseComponents     int     `yaml:"phase_components"`
	ReferenceTotalMass  float64 `yaml:"reference_total_mass"`
	AmplitudeUnit       float64 `yaml:"amplitude_unit"`
}

// ReadManifest parses a manifest file.
func ReadManifest(filename string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(filename)
	if err != nil {
		return m, err
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, errors.Wrapf(err, "parse %s", filename)
	}
	if m.AmplitudeComponents < 0 || m.PhaseComponents < 0 {
		return m, errors.Wrapf(ErrComponentGap, "%s declares a negative component count", filename)
	}
	if m.ReferenceTotalMass < 0 || m.AmplitudeUnit < 0 {
		return m, errors.Errorf("%s declares a negative reference mass or amplitude unit", filename)
	}
	return m, nil
}

// Write stores the manifest as YAML.
func (m Manifest) Write(filename string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0o644)
}

func (m Manifest) options() []Option {
	return []Option{
		WithReferenceTotalMass(m.ReferenceTotalMass),
		WithAmplitudeUnit(m.AmplitudeUnit),
	}
}
