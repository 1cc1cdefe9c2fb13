package armakalman

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestInitialStateCovarianceWhiteNoise(t *testing.T) {
	P, err := InitialStateCovariance(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(P) != 1 || P[0] != 1.0 {
		t.Fatalf("white noise covariance = %v, want [1.0]", P)
	}
}

func TestInitialStateCovarianceAR1(t *testing.T) {
	phi := 0.5
	P, err := InitialStateCovariance([]float64{phi}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(P) != 1 {
		t.Fatalf("AR(1) covariance has %d entries, want 1", len(P))
	}
	if want := 1 / (1 - phi*phi); math.Abs(P[0]-want) > 1e-12 {
		t.Fatalf("AR(1) covariance = %f, want %f", P[0], want)
	}
}

// For a pure MA model, the stationary covariance is the accumulated outer
// product of the moving-average vector: P(i,j) = Σ_k R[i+k]·R[j+k].
func TestInitialStateCovariancePureMA(t *testing.T) {
	for _, theta := range [][]float64{
		{0.3},
		{0.3, -0.2},
		{0.4, 0.25, -0.1},
	} {
		P, err := InitialStateCovariance(nil, theta)
		if err != nil {
			t.Fatal(err)
		}
		r := len(theta) + 1
		R := append([]float64{1}, theta...)
		full, err := UnpackCovariance(P, r)
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < r; i++ {
			for j := 0; j < r; j++ {
				want := 0.0
				for k := 0; i+k < r && j+k < r; k++ {
					want += R[i+k] * R[j+k]
				}
				if math.Abs(full.At(i, j)-want) > 1e-12 {
					t.Fatalf("theta=%v: P(%d,%d)=%f, want %f", theta, i, j, full.At(i, j), want)
				}
			}
		}
	}
}

// The packed layout is column-wise lower triangular, so for r=3 the entry
// (1,1) follows the whole first column. A row-wise reading would swap it
// with (2,0).
func TestInitialStateCovariancePackedOrder(t *testing.T) {
	a, b := 0.3, -0.2
	P, err := InitialStateCovariance(nil, []float64{a, b})
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{1 + a*a + b*b, a + a*b, b, a*a + b*b, a * b, b * b}
	if len(P) != len(want) {
		t.Fatalf("packed covariance has %d entries, want %d", len(P), len(want))
	}
	for k := range want {
		if math.Abs(P[k]-want[k]) > 1e-12 {
			t.Fatalf("packed[%d] = %f, want %f", k, P[k], want[k])
		}
	}
}

// packLowerTriangular packs a full matrix into the column-wise lower
// triangular layout used by InitialStateCovariance.
func packLowerTriangular(full *mat.Dense, r int) []float64 {
	packed := make([]float64, r*(r+1)/2)
	index := 0
	for j := 0; j < r; j++ {
		for i := j; i < r; i++ {
			packed[index] = full.At(i, j)
			index++
		}
	}
	return packed
}

func TestInitialStateCovarianceMatchesLyapunov(t *testing.T) {
	cases := []struct {
		phi, theta []float64
	}{
		{[]float64{0.5}, nil},
		{nil, []float64{0.3}},
		{nil, []float64{0.3, -0.2}},
		{[]float64{0.5}, []float64{0.4}},
		{[]float64{0.5}, []float64{0.3, -0.2}},
		{[]float64{0.5, -0.3}, []float64{0.4}},
		{[]float64{0.2, 0.1, -0.15}, []float64{0.4, 0.25}},
		{[]float64{0.2, 0.1, -0.15}, []float64{0.4, 0.25, -0.1}},
		{[]float64{0.3, -0.2, 0.1, -0.05}, []float64{0.4}},
	}
	for _, c := range cases {
		packed, err := InitialStateCovariance(c.phi, c.theta)
		if err != nil {
			t.Fatal(err)
		}
		ss := NewStateSpace([]float64{0}, c.phi, c.theta)
		direct := StationaryCovariance(ss.TransitionMatrix(), ss.DisturbanceCovariance())
		want := packLowerTriangular(direct, ss.Dim())
		if !floats.EqualApprox(packed, want, 1e-8) {
			t.Fatalf("phi=%v theta=%v:\npacked  %v\nwant %v", c.phi, c.theta, packed, want)
		}
	}
}

func TestUnpackCovarianceSizeMismatch(t *testing.T) {
	if _, err := UnpackCovariance([]float64{1, 2}, 2); err == nil {
		t.Fatal("unpacking 2 entries as a 2x2 covariance did not fail")
	}
}

func TestValidateStructureFaults(t *testing.T) {
	cases := []struct {
		p, q, r, np, nrbar int
		fault              int
	}{
		{-1, 1, 2, 3, 3, 1},
		{1, -1, 1, 1, 0, 2},
		{0, 0, 1, 1, 0, 4},
		{1, 1, 3, 6, 15, 5},
		{1, 1, 2, 4, 3, 6},
		{1, 1, 2, 3, 4, 7},
		{1, 1, 2, 3, 3, 0},
	}
	for _, c := range cases {
		if fault := validateStructure(c.p, c.q, c.r, c.np, c.nrbar); fault != c.fault {
			t.Fatalf("validate(%d,%d,%d,%d,%d) = %d, want %d", c.p, c.q, c.r, c.np, c.nrbar, fault, c.fault)
		}
	}
}

func TestFaultErrorMessage(t *testing.T) {
	err := error(&FaultError{Code: 5})
	var fe *FaultError
	if !errors.As(err, &fe) || fe.Code != 5 {
		t.Fatal("FaultError does not unwrap with its code")
	}
	if err.Error() == "" {
		t.Fatal("FaultError message is empty")
	}
}
