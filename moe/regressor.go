package moe

import (
	"math"

	"github.com/LorenzoPiccari/MLGW/gonumExtensions"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Experts is a bank of linear experts sharing the same features.
//
// W has one row per feature plus a trailing bias row, and one column per
// expert:
//
//	expert_j(x) = [x, 1] W[:, j]
type Experts struct {
	w mat.Dense
}

// NewExperts validates the weight matrix and returns the experts.
func NewExperts(w mat.Matrix) (Experts, error) {
	r, c := w.Dims()
	if r < 2 || c < 1 {
		return Experts{}, errors.Wrapf(ErrShape, "expert weights are %dx%d", r, c)
	}
	if gonumExtensions.NANORINF(w) {
		return Experts{}, errors.Wrap(ErrNotFinite, "expert weights")
	}
	var e Experts
	e.w.CloneFrom(w)
	return e, nil
}

// Features is the number of input features, bias excluded.
func (e Experts) Features() int {
	r, _ := e.w.Dims()
	return r - 1
}

// Len is the number of experts.
func (e Experts) Len() int {
	_, c := e.w.Dims()
	return c
}

// Predict evaluates every expert on a batch of bias-extended features
// (N by Features+1) and returns the (N by Len) outputs.
func (e Experts) Predict(biased mat.Matrix) *mat.Dense {
	var res mat.Dense
	res.Mul(biased, &e.w)
	return &res
}

// Gate is a softmax regression producing one non-negative weight per expert;
// the weights of a sample sum to one.
//
// V has one row per feature plus a trailing bias row. It may hold one column
// per expert, or one column less, in which case the last expert has an
// implicit all-zero column.
type Gate struct {
	v        mat.Dense
	implicit bool
}

// NewGate validates the gating weights for the given number of experts.
func NewGate(v mat.Matrix, experts int) (Gate, error) {
	r, c := v.Dims()
	if r < 2 {
		return Gate{}, errors.Wrapf(ErrShape, "gate weights are %dx%d", r, c)
	}
	if c != experts && c != experts-1 {
		return Gate{}, errors.Wrapf(ErrShape, "gate has %d columns for %d experts", c, experts)
	}
	if gonumExtensions.NANORINF(v) {
		return Gate{}, errors.Wrap(ErrNotFinite, "gate weights")
	}
	g := Gate{implicit: c == experts-1}
	g.v.CloneFrom(v)
	return g, nil
}

// Features is the number of input features, bias excluded.
func (g Gate) Features() int {
	r, _ := g.v.Dims()
	return r - 1
}

// Len is the number of experts the gate weighs.
func (g Gate) Len() int {
	_, c := g.v.Dims()
	if g.implicit {
		return c + 1
	}
	return c
}

// Predict returns the (N by Len) gate weights for a batch of bias-extended
// features.
func (g Gate) Predict(biased mat.Matrix) *mat.Dense {
	n, _ := biased.Dims()
	var logits mat.Dense
	logits.Mul(biased, &g.v)
	res := mat.NewDense(n, g.Len(), nil)
	for row := 0; row < n; row++ {
		dst := res.RawRowView(row)
		// The implicit last logit stays zero
		copy(dst, logits.RawRowView(row))
		softmax(dst)
	}
	return res
}

// softmax normalises x in place. The maximum is subtracted first so large
// logits don't overflow.
func softmax(x []float64) {
	top := floats.Max(x)
	var sum float64
	for i, v := range x {
		x[i] = math.Exp(v - top)
		sum += x[i]
	}
	floats.Scale(1/sum, x)
}
