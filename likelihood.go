package armakalman

import (
	"fmt"
	"math"
)

// LogLikelihood evaluates the exact Gaussian log-likelihood
// −½·(n·log 2π + Σ log f_t + Σ e_t²/f_t) from the prediction error and
// prediction error variance sequences of a filter pass. Non-finite or
// non-positive variances flow through to a non-finite result; callers treat
// that as a rejection of the underlying parameter vector.
func LogLikelihood(e, f []float64) float64 {
	if len(e) != len(f) {
		panic(fmt.Errorf("armakalman: %d prediction errors but %d variances", len(e), len(f)))
	}
	n := float64(len(e))
	sumLog := 0.0
	ssq := 0.0
	for t := range e {
		sumLog += math.Log(f[t])
		ssq += e[t] * e[t] / f[t]
	}
	return -0.5 * (n*math.Log(2*math.Pi) + sumLog + ssq)
}

// LogLikelihood evaluates the Gaussian log-likelihood of the filter's own
// prediction error sequences.
func (kf *ArmaFilter) LogLikelihood() float64 {
	return LogLikelihood(kf.predictionError, kf.predictionErrorVariance)
}
