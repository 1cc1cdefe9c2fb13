package armakalman

import (
	"errors"
	"math"
	"sync"
)

// Candidate is one trial ARMA parameter vector.
type Candidate struct {
	Phi   []float64
	Theta []float64
}

// BatchResult pairs a candidate with the Gaussian log-likelihood of its
// filter pass. A non-finite LogLik marks the candidate as rejected.
type BatchResult struct {
	Candidate Candidate
	LogLik    float64
}

// EvaluateBatch evaluates every candidate parameter vector against the same
// differenced series, one filter instance per candidate. Filter instances
// share no mutable state, so the candidates run concurrently; results keep
// the input order. A single pass costs O(n·r²) and an outer search typically
// submits many candidates, which is the intended usage pattern.
func EvaluateBatch(y []float64, candidates []Candidate) ([]BatchResult, error) {
	if len(y) == 0 {
		return nil, errors.New("armakalman: observation sequence is empty")
	}
	results := make([]BatchResult, len(candidates))
	var wg sync.WaitGroup
	for c, cand := range candidates {
		wg.Add(1)
		go func(c int, cand Candidate) {
			defer wg.Done()
			kf, err := NewArmaFilter(NewStateSpace(y, cand.Phi, cand.Theta))
			if err != nil {
				results[c] = BatchResult{cand, math.NaN()}
				return
			}
			results[c] = BatchResult{cand, kf.LogLikelihood()}
		}(c, cand)
	}
	wg.Wait()
	return results, nil
}

// Best returns the result with the highest finite log-likelihood. The second
// return is false when every candidate was rejected (non-finite).
func Best(results []BatchResult) (BatchResult, bool) {
	best := BatchResult{LogLik: math.Inf(-1)}
	found := false
	for _, res := range results {
		if math.IsNaN(res.LogLik) || math.IsInf(res.LogLik, 0) {
			continue
		}
		if !found || res.LogLik > best.LogLik {
			best = res
			found = true
		}
	}
	return best, found
}
