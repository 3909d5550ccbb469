// Package moe evaluates Mixture of Experts regressors: a softmax gate weighs
// a bank of linear experts, both acting on the same augmented features.
//
//	predict(x) = sum_j gate_j(x) expert_j(x)
//
// Only forward evaluation is implemented; the weights come from an external
// fit and are immutable once loaded.
package moe

import (
	"github.com/LorenzoPiccari/MLGW/gonumExtensions"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrShape is returned when weight matrices don't agree with each other
	// or with the features they are evaluated on.
	ErrShape = errors.New("moe: shape mismatch")
	// ErrNotFinite is returned for weights holding NaN or Inf.
	ErrNotFinite = errors.New("moe: weights are not finite")
)

// Model is a Mixture of Experts regressor for one reduced coefficient.
type Model struct {
	experts Experts
	gate    Gate
}

// New combines experts and gate into a model.
func New(experts Experts, gate Gate) (Model, error) {
	if experts.Features() != gate.Features() {
		return Model{}, errors.Wrapf(ErrShape, "experts use %d features, gate uses %d", experts.Features(), gate.Features())
	}
	if experts.Len() != gate.Len() {
		return Model{}, errors.Wrapf(ErrShape, "%d experts, gate weighs %d", experts.Len(), gate.Len())
	}
	return Model{experts: experts, gate: gate}, nil
}

// NewFromWeights builds a model straight from the expert and gate matrices.
func NewFromWeights(expertWeights, gateWeights mat.Matrix) (Model, error) {
	experts, err := NewExperts(expertWeights)
	if err != nil {
		return Model{}, err
	}
	gate, err := NewGate(gateWeights, experts.Len())
	if err != nil {
		return Model{}, err
	}
	return New(experts, gate)
}

// Load reads a model from an expert weights file and a gate weights file.
func Load(expertFile, gateFile string) (Model, error) {
	w, err := gonumExtensions.ReadDenseFile(expertFile)
	if err != nil {
		return Model{}, err
	}
	v, err := gonumExtensions.ReadDenseFile(gateFile)
	if err != nil {
		return Model{}, err
	}
	m, err := NewFromWeights(w, v)
	if err != nil {
		return Model{}, errors.Wrapf(err, "%s, %s", expertFile, gateFile)
	}
	return m, nil
}

// Features is the number of features the model expects.
func (m Model) Features() int {
	return m.experts.Features()
}

// Experts is the number of experts in the mixture.
func (m Model) Experts() int {
	return m.experts.Len()
}

// GateWeights returns the (N by Experts) mixture weights for a batch of
// features.
func (m Model) GateWeights(x mat.Matrix) *mat.Dense {
	return m.gate.Predict(m.biased(x))
}

// Predict evaluates the model on an (N by Features) batch and returns the N
// predictions.
func (m Model) Predict(x mat.Matrix) *mat.VecDense {
	biased := m.biased(x)
	gates := m.gate.Predict(biased)
	outputs := m.experts.Predict(biased)

	n, _ := biased.Dims()
	res := mat.NewVecDense(n, nil)
	for row := 0; row < n; row++ {
		res.SetVec(row, floats.Dot(gates.RawRowView(row), outputs.RawRowView(row)))
	}
	return res
}

// PredictOne evaluates the model on a single feature vector.
func (m Model) PredictOne(x []float64) float64 {
	return m.Predict(mat.NewDense(1, len(x), x)).AtVec(0)
}

func (m Model) biased(x mat.Matrix) *mat.Dense {
	if _, c := x.Dims(); c != m.Features() {
		panic(errors.Wrapf(ErrShape, "got %d features, model expects %d", c, m.Features()))
	}
	return gonumExtensions.AppendOnes(x)
}
