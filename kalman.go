package armakalman

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ArmaFilter runs the Kalman recursion of an ARMA state-space model and
// exposes the per-step prediction errors and prediction error variances, the
// ingredients of the exact Gaussian likelihood. The observation operator is
// the unit vector selecting the first state coordinate and is never
// materialized: the predicted observation is predictedState[0] and the gain
// column is the first column of the predicted covariance.
//
// The full recursion runs once during construction; afterwards the filter is
// read-only. An instance shares no mutable state with any other, so
// independent instances (one per trial parameter vector) may run
// concurrently without synchronization.
//
// The recursion performs no validity check on the prediction error
// variances. If f_t ≤ 0 for some pathological parameter vector, the division
// produces a non-finite value that silently propagates through all
// subsequent steps; callers must treat any non-finite output as an implicit
// rejection of that parameter vector.
type ArmaFilter struct {
	y                       []float64
	r                       int
	transition              *mat.Dense
	stateDisturbance        *mat.Dense
	predictedState          *mat.VecDense
	filteredState           *mat.VecDense
	predictedCovariance     *mat.Dense
	filteredCovariance      *mat.Dense
	predictionError         []float64
	predictionErrorVariance []float64
}

// NewArmaFilter builds a filter for the given state-space model and runs the
// full recursion. The initial predicted covariance is the stationary
// covariance from StationaryCovariance (the all-ones sentinel when the trial
// parameters are non-stationary).
func NewArmaFilter(ss *StateSpace) (*ArmaFilter, error) {
	if len(ss.Series()) == 0 {
		return nil, errors.New("armakalman: observation sequence is empty")
	}
	T := ss.TransitionMatrix()
	Q := ss.DisturbanceCovariance()
	if err := checkMatDims(T, Q, "T", "Q", rowsAndcols); err != nil {
		return nil, err
	}
	if err := checkMatDims(T, ss.MovingAverageVector(), "T", "R", rows2rows); err != nil {
		return nil, err
	}

	r := ss.Dim()
	n := len(ss.Series())
	kf := &ArmaFilter{
		y:                       ss.Series(),
		r:                       r,
		transition:              T,
		stateDisturbance:        Q,
		predictedState:          mat.NewVecDense(r, nil),
		filteredState:           mat.NewVecDense(r, nil),
		predictedCovariance:     StationaryCovariance(T, Q),
		filteredCovariance:      mat.NewDense(r, r, nil),
		predictionError:         make([]float64, n),
		predictionErrorVariance: make([]float64, n),
	}
	kf.filter()
	return kf, nil
}

// filter runs the full recursion. Step t depends on step t-1's filtered
// state and covariance, so the pass is strictly sequential.
func (kf *ArmaFilter) filter() {
	r := kf.r
	firstColumn := mat.NewVecDense(r, mat.Col(nil, 0, kf.predictedCovariance))

	// t = 0: the predicted state is identically zero, so e_0 = y_0, and the
	// prediction error variance is the top-left stationary covariance entry.
	kf.predictionError[0] = kf.y[0]
	kf.predictionErrorVariance[0] = kf.predictedCovariance.At(0, 0)
	kf.updateFiltered(firstColumn, kf.predictionError[0], kf.predictionErrorVariance[0])

	transitionT := kf.transition.T()
	var covTransition, transitionCov mat.Dense
	for t := 1; t < len(kf.y); t++ {
		// Predicted state mean and covariance.
		kf.predictedState.MulVec(kf.transition, kf.filteredState)
		transitionCov.Mul(kf.transition, kf.filteredCovariance)
		covTransition.Mul(&transitionCov, transitionT)
		kf.predictedCovariance.Add(&covTransition, kf.stateDisturbance)

		kf.predictionError[t] = kf.y[t] - kf.predictedState.AtVec(0)
		mat.Col(firstColumn.RawVector().Data, 0, kf.predictedCovariance)
		kf.predictionErrorVariance[t] = kf.predictedCovariance.At(0, 0)

		kf.updateFiltered(firstColumn, kf.predictionError[t], kf.predictionErrorVariance[t])
	}
}

// updateFiltered applies the measurement update using the first covariance
// column as the gain direction: no f validity check, divisions by a
// non-positive f propagate non-finite values.
func (kf *ArmaFilter) updateFiltered(firstColumn *mat.VecDense, e, f float64) {
	var gain mat.VecDense
	gain.ScaleVec(e/f, firstColumn)
	kf.filteredState.AddVec(kf.predictedState, &gain)

	var adjustment mat.Dense
	adjustment.Outer(1/f, firstColumn, firstColumn)
	kf.filteredCovariance.Sub(kf.predictedCovariance, &adjustment)
}

// PredictionErrors returns the ordered one-step-ahead prediction errors
// e_t, t = 0..n-1. The returned slice is a copy.
func (kf *ArmaFilter) PredictionErrors() []float64 {
	return append([]float64(nil), kf.predictionError...)
}

// PredictionErrorVariances returns the ordered prediction error variances
// f_t, t = 0..n-1. The returned slice is a copy.
func (kf *ArmaFilter) PredictionErrorVariances() []float64 {
	return append([]float64(nil), kf.predictionErrorVariance...)
}

// FilteredState returns the filtered state vector after the final step.
func (kf *ArmaFilter) FilteredState() *mat.VecDense {
	out := mat.NewVecDense(kf.r, nil)
	out.CopyVec(kf.filteredState)
	return out
}

// FilteredCovariance returns the filtered state covariance after the final
// step.
func (kf *ArmaFilter) FilteredCovariance() *mat.Dense {
	return mat.DenseCopyOf(kf.filteredCovariance)
}

func (kf *ArmaFilter) String() string {
	return fmt.Sprintf("ArmaFilter{r=%d n=%d\nT=%v\nQ=%v\n}", kf.r, len(kf.y),
		mat.Formatted(kf.transition, mat.Prefix("  ")),
		mat.Formatted(kf.stateDisturbance, mat.Prefix("  ")))
}
