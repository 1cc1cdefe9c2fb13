package armakalman

import "gonum.org/v1/gonum/mat"

// StationaryCovariance solves the discrete Lyapunov equation
// P = T·P·Tᵗ + Q for the stationary state covariance, assuming all AR
// characteristic roots lie outside the unit circle. The solve forms
// I − T⊗T and inverts it against the vectorized Q.
//
// If the system is singular or ill-conditioned (non-stationary trial
// parameters), the returned matrix is filled with 1.0 in every entry
// instead of an error being raised. The recursion then still runs to
// completion and the degenerate likelihood is left for the caller's
// optimizer to penalize.
func StationaryCovariance(T, Q *mat.Dense) *mat.Dense {
	r, _ := T.Dims()

	var kronT mat.Dense
	kronT.Kronecker(T, T)
	var idKronT mat.Dense
	idKronT.Sub(Identity(r*r), &kronT)

	vecQ := vec(Q)
	P := mat.NewDense(r, r, nil)

	var inv mat.Dense
	if err := inv.Inverse(&idKronT); err != nil {
		sentinelFill(P, 1.0)
		return P
	}

	var vecP mat.VecDense
	vecP.MulVec(&inv, vecQ)
	for j := 0; j < r; j++ {
		for i := 0; i < r; i++ {
			P.Set(i, j, vecP.AtVec(j*r+i))
		}
	}
	return P
}

// sentinelFill sets every entry of m to v.
func sentinelFill(m *mat.Dense, v float64) {
	rows, cols := m.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.Set(i, j, v)
		}
	}
}
