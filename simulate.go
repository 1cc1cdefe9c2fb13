package armakalman

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// ArmaSim generates synthetic ARMA(p, q) sample paths driven by Gaussian
// innovations. Paths are deterministic for a given seed.
type ArmaSim struct {
	phi   []float64
	theta []float64
	innov distuv.Normal
}

// NewArmaSim creates a simulator for the given coefficients and innovation
// standard deviation.
func NewArmaSim(phi, theta []float64, sigma float64, seed uint64) *ArmaSim {
	if sigma <= 0 {
		panic("innovation standard deviation must be positive")
	}
	return &ArmaSim{
		phi:   append([]float64(nil), phi...),
		theta: append([]float64(nil), theta...),
		innov: distuv.Normal{Mu: 0, Sigma: sigma, Src: rand.NewPCG(seed, seed)},
	}
}

// Generate returns a length-n sample path. A burn-in stretch is generated
// and discarded first so the returned path is approximately stationary.
func (s *ArmaSim) Generate(n int) []float64 {
	burn := 100 + len(s.phi) + len(s.theta)
	total := n + burn
	eps := make([]float64, total)
	for t := range eps {
		eps[t] = s.innov.Rand()
	}
	y := make([]float64, total)
	for t := 0; t < total; t++ {
		v := eps[t]
		for i, ph := range s.phi {
			if t-i-1 >= 0 {
				v += ph * y[t-i-1]
			}
		}
		for j, th := range s.theta {
			if t-j-1 >= 0 {
				v += th * eps[t-j-1]
			}
		}
		y[t] = v
	}
	return y[burn:]
}
