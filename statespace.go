package armakalman

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// StateSpace is the state-space representation of an ARMA(p, q) model for a
// differenced observation sequence. The state dimension is r = max(p, q+1);
// the transition matrix is in companion form (AR coefficients down the first
// column, ones on the superdiagonal) and the state disturbance covariance is
// the rank-one outer product of the moving-average vector.
type StateSpace struct {
	y     []float64
	phi   []float64
	theta []float64
	r     int
	T     *mat.Dense
	R     *mat.VecDense
	Q     *mat.Dense
}

// NewStateSpace builds the state-space form for the given differenced series
// and AR/MA coefficients. The inputs are copied; a StateSpace is immutable
// once built.
func NewStateSpace(y, phi, theta []float64) *StateSpace {
	p := len(phi)
	q := len(theta)
	r := p
	if q+1 > r {
		r = q + 1
	}

	T := mat.NewDense(r, r, nil)
	for i := 0; i < p; i++ {
		T.Set(i, 0, phi[i])
	}
	for i := 0; i < r-1; i++ {
		T.Set(i, i+1, 1)
	}

	R := mat.NewVecDense(r, nil)
	R.SetVec(0, 1)
	for i := 1; i <= q; i++ {
		R.SetVec(i, theta[i-1])
	}

	Q := mat.NewDense(r, r, nil)
	Q.Outer(1, R, R)

	ss := &StateSpace{
		y:     append([]float64(nil), y...),
		phi:   append([]float64(nil), phi...),
		theta: append([]float64(nil), theta...),
		r:     r,
		T:     T,
		R:     R,
		Q:     Q,
	}
	return ss
}

// Dim returns the state dimension r = max(p, q+1).
func (ss *StateSpace) Dim() int { return ss.r }

// Series returns the differenced observation sequence. Callers must not
// modify the returned slice.
func (ss *StateSpace) Series() []float64 { return ss.y }

// TransitionMatrix returns the r×r companion-form transition matrix.
func (ss *StateSpace) TransitionMatrix() *mat.Dense { return ss.T }

// MovingAverageVector returns the length-r vector with a leading one
// followed by the MA coefficients.
func (ss *StateSpace) MovingAverageVector() *mat.VecDense { return ss.R }

// DisturbanceCovariance returns Q = R·Rᵗ.
func (ss *StateSpace) DisturbanceCovariance() *mat.Dense { return ss.Q }

// ARCoefficients returns the AR coefficient vector phi.
func (ss *StateSpace) ARCoefficients() []float64 { return ss.phi }

// MACoefficients returns the MA coefficient vector theta.
func (ss *StateSpace) MACoefficients() []float64 { return ss.theta }

func (ss *StateSpace) String() string {
	return fmt.Sprintf("StateSpace{r=%d\nT=%v\nR=%v\n}", ss.r,
		mat.Formatted(ss.T, mat.Prefix("  ")), mat.Formatted(ss.R, mat.Prefix("  ")))
}
