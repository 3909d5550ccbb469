package gonumExtensions

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Full returns a (m by n) matrix filled with value
func Full(m, n int, value float64) *mat.Dense {
	data := make([]float64, m*n)
	for index := range data {
		data[index] = value
	}
	return mat.NewDense(m, n, data)
}

// Eye returns a (m by n) dense matrix with ones on the k-th diagonal. k = 0 is
// the main diagonal, k > 0 is above and k < 0 below it.
func Eye(m, n, k int) *mat.Dense {
	res := mat.NewDense(m, n, nil)
	for row := 0; row < m; row++ {
		col := row + k
		if col >= 0 && col < n {
			res.Set(row, col, 1)
		}
	}
	return res
}

// NANORINF checks if there are any NAN or INF in matrix
func NANORINF(matrix mat.Matrix) bool {
	m, n := matrix.Dims()
	for row := 0; row < m; row++ {
		for col := 0; col < n; col++ {
			if math.IsNaN(matrix.At(row, col)) || math.IsInf(matrix.At(row, col), 0) {
				return true
			}
		}
	}
	return false
}

// IsOrthonormal reports whether the columns of matrix are mutually orthonormal,
// i.e. whether matrix^T matrix equals the identity within tol.
func IsOrthonormal(matrix mat.Matrix, tol float64) bool {
	_, n := matrix.Dims()
	var gram mat.Dense
	gram.Mul(matrix.T(), matrix)
	return mat.EqualApprox(&gram, Eye(n, n, 0), tol)
}

// AppendOnes returns a copy of matrix with an extra trailing column of ones.
func AppendOnes(matrix mat.Matrix) *mat.Dense {
	m, n := matrix.Dims()
	res := mat.NewDense(m, n+1, nil)
	res.Slice(0, m, 0, n).(*mat.Dense).Copy(matrix)
	for row := 0; row < m; row++ {
		res.Set(row, n, 1)
	}
	return res
}

// Flatten returns the elements of a row or column matrix as a slice. It panics
// if matrix is neither.
func Flatten(matrix mat.Matrix) []float64 {
	m, n := matrix.Dims()
	if m != 1 && n != 1 {
		panic(mat.ErrShape)
	}
	res := make([]float64, 0, m*n)
	for row := 0; row < m; row++ {
		for col := 0; col < n; col++ {
			res = append(res, matrix.At(row, col))
		}
	}
	return res
}
