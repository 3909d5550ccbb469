package mlgw

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/LorenzoPiccari/MLGW/features"
	"github.com/LorenzoPiccari/MLGW/gonumExtensions"
	"github.com/LorenzoPiccari/MLGW/moe"
	"github.com/LorenzoPiccari/MLGW/reconstruct"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// TimesFile holds the reduced time grid of a model folder.
const TimesFile = "times"

var regressorFile = regexp.MustCompile(`^(amp|ph)_(exp|gat)_(\d+)$`)

// Load reads a model folder:
//
//	amp_PCA_model, ph_PCA_model   PCA of amplitude and phase
//	amp_feat, ph_feat             feature specifications
//	amp_exp_<k>, amp_gat_<k>      experts and gate of amplitude component k
//	ph_exp_<k>, ph_gat_<k>        experts and gate of phase component k
//	times                         reduced time grid
//	manifest.yaml                 optional, see Manifest
//
// Values declared in the manifest take precedence over the defaults but not
// over opts. Amplitude and phase are read concurrently.
func Load(folder string, opts ...Option) (*Generator, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, errors.Wrapf(ErrMissingArtifact, "model folder %s: %v", folder, err)
	}
	present := make(map[string]bool, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			present[e.Name()] = true
		}
	}

	var manifest Manifest
	if present[ManifestFile] {
		if manifest, err = ReadManifest(filepath.Join(folder, ManifestFile)); err != nil {
			return nil, err
		}
	}

	if !present[TimesFile] {
		return nil, errors.Wrapf(ErrMissingArtifact, "no %s in %s", TimesFile, folder)
	}
	timesMatrix, err := gonumExtensions.ReadDenseFile(filepath.Join(folder, TimesFile))
	if err != nil {
		return nil, err
	}
	r, c := timesMatrix.Dims()
	if r != 1 && c != 1 {
		return nil, errors.Wrapf(ErrShapeMismatch, "%s is a %dx%d matrix", TimesFile, r, c)
	}
	times := gonumExtensions.Flatten(timesMatrix)

	var amp, ph Quantity
	var eg errgroup.Group
	eg.Go(func() (err error) {
		amp, err = loadQuantity(folder, "amp", present, manifest.AmplitudeComponents)
		return err
	})
	eg.Go(func() (err error) {
		ph, err = loadQuantity(folder, "ph", present, manifest.PhaseComponents)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return New(amp, ph, times, append(manifest.options(), opts...)...)
}

func loadQuantity(folder, prefix string, present map[string]bool, declared int) (Quantity, error) {
	var q Quantity
	for _, name := range []string{prefix + "_PCA_model", prefix + "_feat"} {
		if !present[name] {
			return q, errors.Wrapf(ErrMissingArtifact, "no %s in %s", name, folder)
		}
	}

	pca, err := reconstruct.Load(filepath.Join(folder, prefix+"_PCA_model"))
	if err != nil {
		return q, err
	}
	spec, err := features.ParseFile(filepath.Join(folder, prefix+"_feat"))
	if err != nil {
		return q, err
	}

	count, err := componentCount(prefix, present, declared)
	if err != nil {
		return q, errors.Wrap(err, folder)
	}
	models := make([]moe.Model, count)
	for k := range models {
		suffix := strconv.Itoa(k)
		models[k], err = moe.Load(
			filepath.Join(folder, prefix+"_exp_"+suffix),
			filepath.Join(folder, prefix+"_gat_"+suffix))
		if err != nil {
			return q, err
		}
	}

	return Quantity{PCA: pca, Features: spec, Models: models}, nil
}

// componentCount returns the number of regressors of a quantity. Regressors
// are numbered from zero; a missing expert or gate file ends the sequence
// and any file numbered past it is an error. A positive declared count must
// match the files present.
func componentCount(prefix string, present map[string]bool, declared int) (int, error) {
	count := 0
	for present[prefix+"_exp_"+strconv.Itoa(count)] && present[prefix+"_gat_"+strconv.Itoa(count)] {
		count++
	}

	for name := range present {
		m := regressorFile.FindStringSubmatch(name)
		if m == nil || m[1] != prefix {
			continue
		}
		if k, _ := strconv.Atoi(m[3]); k >= count {
			return 0, errors.Wrapf(ErrComponentGap, "%s found but %s regressors stop at %d", name, prefix, count)
		}
	}

	if declared > 0 && declared != count {
		return 0, errors.Wrapf(ErrComponentGap, "manifest declares %d %s regressors, found %d", declared, prefix, count)
	}
	return count, nil
}
