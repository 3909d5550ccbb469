// Package reconstruct holds the linear dimensionality reduction used to
// represent amplitude and phase curves with a handful of coefficients.
package reconstruct

import (
	"math"

	"github.com/LorenzoPiccari/MLGW/gonumExtensions"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// OrthonormalityTolerance is the largest deviation of basis^T basis from the
// identity accepted by NewPCA.
const OrthonormalityTolerance = 1e-6

var (
	// ErrShape is returned when mean and basis disagree or K > D.
	ErrShape = errors.New("reconstruct: shape mismatch")
	// ErrNotOrthonormal is returned for a basis whose columns are not orthonormal.
	ErrNotOrthonormal = errors.New("reconstruct: basis is not orthonormal")
	// ErrNotFinite is returned when mean or basis hold NaN or Inf.
	ErrNotFinite = errors.New("reconstruct: model is not finite")
)

// PCA maps samples of length D to K coefficients and back. It is given by a
// mean vector and an orthonormal (D by K) basis:
//
//	Reduce(x)      = (x - mean) basis
//	Reconstruct(c) = mean + c basis^T
//
// With K = D the two are inverse to each other; with K < D reconstruction
// drops the truncated components.
type PCA struct {
	mean  mat.VecDense
	basis mat.Dense
}

// NewPCA validates and copies mean and basis.
func NewPCA(mean []float64, basis mat.Matrix) (*PCA, error) {
	d, k := basis.Dims()
	if len(mean) != d {
		return nil, errors.Wrapf(ErrShape, "mean has %d entries, basis has %d rows", len(mean), d)
	}
	if k > d {
		return nil, errors.Wrapf(ErrShape, "%d components for dimension %d", k, d)
	}
	if gonumExtensions.NANORINF(basis) || gonumExtensions.NANORINF(mat.NewVecDense(d, mean)) {
		return nil, ErrNotFinite
	}
	if !gonumExtensions.IsOrthonormal(basis, OrthonormalityTolerance) {
		return nil, ErrNotOrthonormal
	}

	var p PCA
	p.mean.CloneFromVec(mat.NewVecDense(d, append([]float64(nil), mean...)))
	p.basis.CloneFrom(basis)
	return &p, nil
}

// Load reads a PCA stored as a (D by K+1) text matrix whose first column is
// the mean and whose remaining columns are the basis.
func Load(filename string) (*PCA, error) {
	m, err := gonumExtensions.ReadDenseFile(filename)
	if err != nil {
		return nil, err
	}
	d, c := m.Dims()
	if c < 2 {
		return nil, errors.Wrapf(ErrShape, "%s has no basis columns", filename)
	}
	mean := mat.Col(nil, 0, m)
	p, err := NewPCA(mean, m.Slice(0, d, 1, c))
	if err != nil {
		return nil, errors.Wrap(err, filename)
	}
	return p, nil
}

// Save writes the PCA in the format read by Load.
func (p *PCA) Save(filename string) error {
	d, k := p.Dims()
	m := mat.NewDense(d, k+1, nil)
	m.SetCol(0, p.mean.RawVector().Data)
	m.Slice(0, d, 1, k+1).(*mat.Dense).Copy(&p.basis)
	return gonumExtensions.WriteDenseFile(filename, m)
}

// Dims returns the sample length D and the number of components K.
func (p *PCA) Dims() (d, k int) {
	return p.basis.Dims()
}

// Mean returns a copy of the mean vector.
func (p *PCA) Mean() []float64 {
	return mat.Col(nil, 0, &p.mean)
}

// Basis returns a copy of the (D by K) basis.
func (p *PCA) Basis() *mat.Dense {
	return mat.DenseCopyOf(&p.basis)
}

// Reduce projects an (N by D) batch of samples onto the basis.
func (p *PCA) Reduce(samples mat.Matrix) *mat.Dense {
	n, c := samples.Dims()
	d, _ := p.Dims()
	if c != d {
		panic(mat.ErrShape)
	}
	// centered = samples - mean
	centered := mat.DenseCopyOf(samples)
	meanData := p.mean.RawVector().Data
	for row := 0; row < n; row++ {
		floats.Sub(centered.RawRowView(row), meanData)
	}
	var res mat.Dense
	res.Mul(centered, &p.basis)
	return &res
}

// Reconstruct maps an (N by K) batch of coefficients back to samples.
func (p *PCA) Reconstruct(coefficients mat.Matrix) *mat.Dense {
	n, c := coefficients.Dims()
	_, k := p.Dims()
	if c != k {
		panic(mat.ErrShape)
	}
	var res mat.Dense
	res.Mul(coefficients, p.basis.T())
	meanData := p.mean.RawVector().Data
	for row := 0; row < n; row++ {
		floats.Add(res.RawRowView(row), meanData)
	}
	return &res
}

// Fit computes the PCA of an (N by D) dataset keeping the k components with
// the largest variance. Each basis vector is signed so that its largest
// entry in absolute value is positive.
func Fit(data mat.Matrix, k int) (*PCA, error) {
	n, d := data.Dims()
	if k < 1 || k > d {
		return nil, errors.Wrapf(ErrShape, "cannot keep %d components of dimension %d", k, d)
	}
	if n < 2 {
		return nil, errors.Wrapf(ErrShape, "need at least two samples, got %d", n)
	}

	// Column means
	mean := make([]float64, d)
	col := make([]float64, n)
	for j := range mean {
		mat.Col(col, j, data)
		mean[j] = stat.Mean(col, nil)
	}

	// Covariance and its eigen decomposition; eigenvalues come out ascending
	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, data, nil)
	var eig mat.EigenSym
	if ok := eig.Factorize(&cov, true); !ok {
		return nil, errors.New("reconstruct: eigen decomposition failed")
	}
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	basis := mat.NewDense(d, k, nil)
	v := make([]float64, d)
	for comp := 0; comp < k; comp++ {
		mat.Col(v, d-1-comp, &vectors)
		if idx := floats.MaxIdx(absolute(v)); v[idx] < 0 {
			floats.Scale(-1, v)
		}
		basis.SetCol(comp, v)
	}
	return NewPCA(mean, basis)
}

func absolute(v []float64) []float64 {
	res := make([]float64, len(v))
	for i, x := range v {
		res[i] = math.Abs(x)
	}
	return res
}
