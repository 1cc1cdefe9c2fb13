package armakalman

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// packedZeroTol is the fixed threshold of algorithm AS 154: regressor
// entries at or below it are structurally zero, and a running diagonal
// below it stops the update early. Not configurable.
const packedZeroTol = 1e-12

// InitialStateCovariance computes the stationary covariance of the ARMA
// state vector without forming or inverting an r²×r² system, following
// algorithm AS 154. It operates on the np = r(r+1)/2 unique entries of the
// symmetric covariance and returns them packed column-wise lower
// triangular: entry (i, j), j ≤ i, lives at offset j·r − j(j−1)/2 + (i−j),
// the same layout the V workspace is built in.
//
// It serves as an inversion-free cross-check of StationaryCovariance and
// remains usable when r is large.
func InitialStateCovariance(phi, theta []float64) ([]float64, error) {
	p := len(phi)
	q := len(theta)
	if p == 0 && q == 0 {
		return []float64{1.0}, nil
	}
	r := p
	if q+1 > r {
		r = q + 1
	}
	np := r * (r + 1) / 2
	nrbar := np * (np - 1) / 2
	if fault := validateStructure(p, q, r, np, nrbar); fault != 0 {
		return nil, &FaultError{Code: fault}
	}

	// V is R·Rᵗ in packed form: the moving-average vector itself, extended
	// with all pairwise products V[i]·V[j] for j ≥ 1, i ≥ j.
	V := make([]float64, np)
	V[0] = 1.0
	for i := 1; i < r; i++ {
		if i <= q {
			V[i] = theta[i-1]
		}
	}
	index := r
	for j := 1; j < r; j++ {
		vj := V[j]
		for i := j; i < r; i++ {
			V[index] = V[i] * vj
			index++
		}
	}

	P := make([]float64, np)

	if p == 0 {
		// Pure moving-average: unpack V directly, accumulating the shifted
		// tail entries into each off-diagonal position.
		indexn := np
		index = np
		for i := 0; i < r; i++ {
			for j := 0; j <= i; j++ {
				index--
				P[index] = V[index]
				if j != 0 {
					indexn--
					P[index] += P[indexn]
				}
			}
		}
		return P, nil
	}

	// One linear constraint per unique covariance entry, encoding
	// P = T·P·Tᵗ + Q, folded into a running triangular factorization
	// without materializing the np×np system.
	ls := newTriangularLS(np, nrbar)
	xnext := make([]float64, np)
	index = 0
	index1 := -1
	npr := np - r
	npr1 := npr + 1
	indexj := npr
	index2 := npr - 1

	for j := 0; j < r; j++ {
		phij := 0.0
		if j < p {
			phij = phi[j]
		}
		xnext[indexj] = 0.0
		indexj++
		indexi := npr1 + j
		for i := j; i < r; i++ {
			ynext := V[index]
			index++
			phii := 0.0
			if i < p {
				phii = phi[i]
			}
			if j != r-1 {
				xnext[indexj] = -phii
				if i != r-1 {
					xnext[indexi] -= phij
					index1++
					xnext[index1] = -1.0
				}
			}
			xnext[npr] = -phii * phij
			index2++
			if index2 >= np {
				index2 = 0
			}
			xnext[index2] += 1.0
			ls.include(1.0, xnext, ynext)
			xnext[index2] = 0.0
			if i != r-1 {
				xnext[indexi] = 0.0
				indexi++
				xnext[index1] = 0.0
			}
		}
	}

	ls.solve(P)

	// Reassemble: the last r solved values become the leading r entries and
	// the remaining npr entries shift to the tail.
	lead := make([]float64, r)
	index = npr - 1
	for i := 0; i < r; i++ {
		index++
		lead[i] = P[index]
	}
	index = np - 1
	index1 = npr - 1
	for i := 0; i < npr; i++ {
		P[index] = P[index1]
		index--
		index1--
	}
	copy(P, lead)
	return P, nil
}

// validateStructure checks the defining relations between the model orders
// and the packed storage sizes. A non-zero return is a caller bug.
func validateStructure(p, q, r, np, nrbar int) int {
	if p < 0 {
		return 1
	}
	if q < 0 {
		return 2
	}
	if p < 0 && q < 0 {
		return 3
	}
	if p == 0 && q == 0 {
		return 4
	}
	rWant := p
	if q+1 > rWant {
		rWant = q + 1
	}
	if r != rWant {
		return 5
	}
	if np != r*(r+1)/2 {
		return 6
	}
	if nrbar != np*(np-1)/2 {
		return 7
	}
	return 0
}

// triangularLS carries the state of the sequential orthogonalization: the
// running diagonal d, the packed super-diagonal rows rbar and the
// transformed right-hand side thetab. xrow is scratch for the row being
// folded in.
type triangularLS struct {
	np     int
	d      []float64
	rbar   []float64
	thetab []float64
	xrow   []float64
}

func newTriangularLS(np, nrbar int) *triangularLS {
	return &triangularLS{
		np:     np,
		d:      make([]float64, np),
		rbar:   make([]float64, nrbar),
		thetab: make([]float64, np),
		xrow:   make([]float64, np),
	}
}

// include folds one weighted constraint row into the factorization
// (AS 154 "inclu2"). Each call costs O(np).
func (t *triangularLS) include(weight float64, xnext []float64, ynext float64) {
	copy(t.xrow, xnext)
	y := ynext
	wt := weight
	if wt <= 0 {
		return
	}
	ithisr := 0
	for i := 0; i < t.np; i++ {
		if math.Abs(t.xrow[i]) <= packedZeroTol {
			// Structurally zero regressor: skip the row update and advance
			// past this triangular row.
			ithisr += t.np - i - 1
			continue
		}
		xi := t.xrow[i]
		di := t.d[i]
		dpi := di + wt*xi*xi
		t.d[i] = dpi
		cbar := di / dpi
		sbar := wt * xi / dpi
		wt = cbar * wt
		if i != t.np-1 {
			for k := i + 1; k < t.np; k++ {
				xk := t.xrow[k]
				rbthis := t.rbar[ithisr]
				t.xrow[k] = xk - xi*rbthis
				t.rbar[ithisr] = cbar*rbthis + sbar*xk
				ithisr++
			}
		}
		xk := y
		y = xk - xi*t.thetab[i]
		t.thetab[i] = cbar*t.thetab[i] + sbar*xk
		if math.Abs(di) < packedZeroTol {
			return
		}
	}
}

// solve back-substitutes the upper-triangular system held in rbar and thetab
// in reverse index order, writing the solution into beta (AS 154 "regres").
func (t *triangularLS) solve(beta []float64) {
	ithisr := len(t.rbar) - 1
	im := t.np - 1
	for i := 0; i < t.np; i++ {
		bi := t.thetab[im]
		if im != t.np-1 {
			jm := t.np - 1
			for j := 0; j < i; j++ {
				bi -= t.rbar[ithisr] * beta[jm]
				ithisr--
				jm--
			}
		}
		beta[im] = bi
		im--
	}
}

// UnpackCovariance expands a packed lower-triangular covariance, as returned
// by InitialStateCovariance, into the full symmetric r×r matrix.
func UnpackCovariance(packed []float64, r int) (*mat.SymDense, error) {
	if np := r * (r + 1) / 2; len(packed) != np {
		return nil, fmt.Errorf("armakalman: packed covariance has %d entries, want %d for r=%d", len(packed), np, r)
	}
	m := mat.NewSymDense(r, nil)
	index := 0
	for j := 0; j < r; j++ {
		for i := j; i < r; i++ {
			m.SetSym(i, j, packed[index])
			index++
		}
	}
	return m, nil
}
