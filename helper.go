package armakalman

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// Identity returns an identity matrix of the provided size.
func Identity(n int) mat.Symmetric {
	vals := make([]float64, n*n)
	for j := 0; j < n*n; j++ {
		if j%(n+1) == 0 {
			vals[j] = 1
		}
	}
	return mat.NewSymDense(n, vals)
}

// AsSymDense attempts to return a SymDense from the provided Dense.
func AsSymDense(m *mat.Dense) (*mat.SymDense, error) {
	r, c := m.Dims()
	if r != c {
		return nil, errors.New("matrix must be square")
	}
	mT := m.T()
	vals := make([]float64, r*c)
	idx := 0
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if mT.At(i, j) != m.At(i, j) {
				return nil, errors.New("matrix is not symmetric")
			}
			vals[idx] = m.At(i, j)
			idx++
		}
	}

	return mat.NewSymDense(r, vals), nil
}

// vec stacks the columns of m into a single column vector.
func vec(m mat.Matrix) *mat.VecDense {
	r, c := m.Dims()
	v := mat.NewVecDense(r*c, nil)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			v.SetVec(j*r+i, m.At(i, j))
		}
	}
	return v
}
