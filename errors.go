package mlgw

import "github.com/pkg/errors"

var (
	// ErrMissingArtifact is returned when a required file is absent from the
	// model folder.
	ErrMissingArtifact = errors.New("mlgw: missing model artifact")

	// ErrComponentGap is returned when the regressors of a quantity are not
	// numbered consecutively from zero, or disagree with the manifest.
	ErrComponentGap = errors.New("mlgw: regressor components are not consecutive")

	// ErrShapeMismatch is returned when artifacts disagree on dimensions.
	ErrShapeMismatch = errors.New("mlgw: artifact shapes do not match")

	// ErrTooFewParams is returned for parameter rows with fewer than three
	// columns.
	ErrTooFewParams = errors.New("mlgw: too few parameters given")

	// ErrUnsupportedWidth is returned for parameter rows whose width is none
	// of 3, 4, 5, 6, 7 or 14.
	ErrUnsupportedWidth = errors.New("mlgw: unsupported number of parameters")

	// ErrNotMonotonic is returned when the time grid of the model is not
	// strictly monotonic.
	ErrNotMonotonic = errors.New("mlgw: time grid is not strictly monotonic")

	// ErrInvalidParams is returned for non-physical parameters such as
	// non-positive masses or distances.
	ErrInvalidParams = errors.New("mlgw: invalid parameters")
)
