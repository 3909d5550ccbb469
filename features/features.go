// Package features expands the standardized parameters (q, s1, s2) into the
// polynomial feature vectors the regressors were fit on.
//
// A feature specification is read line by line. Each line is either a legacy
// monomial token made of variable indices (0 = q, 1 = s1, 2 = s2), for
// instance
//
//	00
//	012
//
// or a polynomial block naming a subset of variables and a maximum order
//
//	q,s1,s2 : 3
//
// which expands to every monomial of degree 1..order over the subset. The
// augmented vector always starts with q, s1, s2 followed by the expansion of
// every line in file order. The enumeration order must match the one used
// when the regressor weights were fit; nothing at inference time can detect a
// mismatch beyond the width check.
package features

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// NumVariables is the width of a standardized parameter vector.
const NumVariables = 3

// Variables are the names accepted in polynomial blocks, in index order.
var Variables = [NumVariables]string{"q", "s1", "s2"}

// ErrSyntax is returned for lines that are neither a monomial token nor a
// polynomial block.
var ErrSyntax = errors.New("features: invalid feature line")

// Spec is an immutable feature specification.
type Spec struct {
	lines     []string
	monomials [][]int
}

// NewSpec builds a specification from its lines.
func NewSpec(lines ...string) (Spec, error) {
	var spec Spec
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		monomials, err := parseLine(line)
		if err != nil {
			return Spec{}, err
		}
		spec.lines = append(spec.lines, line)
		spec.monomials = append(spec.monomials, monomials...)
	}
	return spec, nil
}

// Parse reads a newline separated specification.
func Parse(r io.Reader) (Spec, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return Spec{}, errors.Wrap(err, "read feature spec")
	}
	return NewSpec(lines...)
}

// ParseFile reads the specification stored in filename.
func ParseFile(filename string) (Spec, error) {
	f, err := os.Open(filename)
	if err != nil {
		return Spec{}, err
	}
	defer f.Close()

	spec, err := Parse(f)
	if err != nil {
		return Spec{}, errors.Wrapf(err, "parse %s", filename)
	}
	return spec, nil
}

// Lines returns the specification lines as read, without comments.
func (s Spec) Lines() []string {
	return append([]string(nil), s.lines...)
}

// Monomials returns the variable indices of every extra feature in
// enumeration order.
func (s Spec) Monomials() [][]int {
	res := make([][]int, len(s.monomials))
	for i, m := range s.monomials {
		res[i] = append([]int(nil), m...)
	}
	return res
}

// Dim is the width of an augmented feature vector.
func (s Spec) Dim() int {
	return NumVariables + len(s.monomials)
}

// Augment returns the augmented feature vector of a single standardized
// parameter vector. It panics if theta doesn't have NumVariables elements.
func (s Spec) Augment(theta []float64) []float64 {
	if len(theta) != NumVariables {
		panic(errors.Errorf("features: expected %d parameters, got %d", NumVariables, len(theta)))
	}
	res := make([]float64, s.Dim())
	s.augmentInto(res, theta)
	return res
}

// AugmentBatch augments every row of an (N by 3) matrix and returns the
// (N by Dim) result.
func (s Spec) AugmentBatch(thetas mat.Matrix) *mat.Dense {
	n, c := thetas.Dims()
	if c != NumVariables {
		panic(mat.ErrShape)
	}
	res := mat.NewDense(n, s.Dim(), nil)
	theta := make([]float64, NumVariables)
	for row := 0; row < n; row++ {
		mat.Row(theta, row, thetas)
		s.augmentInto(res.RawRowView(row), theta)
	}
	return res
}

func (s Spec) augmentInto(dst, theta []float64) {
	copy(dst, theta)
	for i, monomial := range s.monomials {
		value := 1.
		for _, variable := range monomial {
			value *= theta[variable]
		}
		dst[NumVariables+i] = value
	}
}

// parseLine expands a single specification line into monomials.
func parseLine(line string) ([][]int, error) {
	if isToken(line) {
		monomial := make([]int, len(line))
		for i, c := range line {
			monomial[i] = int(c - '0')
		}
		return [][]int{monomial}, nil
	}

	// Polynomial block "vars : order"
	parts := strings.Split(line, ":")
	if len(parts) != 2 {
		return nil, errors.Wrapf(ErrSyntax, "%q", line)
	}
	order, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || order < 1 {
		return nil, errors.Wrapf(ErrSyntax, "%q: order must be a positive integer", line)
	}
	var subset []int
	for _, name := range strings.Split(parts[0], ",") {
		variable, err := variableIndex(strings.TrimSpace(name))
		if err != nil {
			return nil, errors.Wrapf(err, "%q", line)
		}
		subset = append(subset, variable)
	}

	var res [][]int
	for degree := 1; degree <= order; degree++ {
		res = append(res, combinationsWithReplacement(subset, degree)...)
	}
	return res, nil
}

func isToken(line string) bool {
	for _, c := range line {
		if c < '0' || c >= '0'+NumVariables {
			return false
		}
	}
	return true
}

func variableIndex(name string) (int, error) {
	for i, v := range Variables {
		if name == v || name == strconv.Itoa(i) {
			return i, nil
		}
	}
	return 0, errors.Wrapf(ErrSyntax, "unknown variable %q", name)
}

// combinationsWithReplacement enumerates the multisets of size degree drawn
// from subset, in lexicographic order of subset positions.
func combinationsWithReplacement(subset []int, degree int) [][]int {
	var (
		res     [][]int
		current = make([]int, degree)
		recurse func(pos, start int)
	)
	recurse = func(pos, start int) {
		if pos == degree {
			monomial := make([]int, degree)
			for i, idx := range current {
				monomial[i] = subset[idx]
			}
			res = append(res, monomial)
			return
		}
		for idx := start; idx < len(subset); idx++ {
			current[pos] = idx
			recurse(pos+1, idx)
		}
	}
	recurse(0, 0)
	return res
}
