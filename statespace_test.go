package armakalman

import (
	"math"
	"testing"
)

func TestStateSpaceDimensions(t *testing.T) {
	cases := []struct {
		p, q, r int
	}{
		{0, 0, 1},
		{1, 0, 1},
		{0, 1, 2},
		{2, 2, 3},
		{3, 1, 3},
	}
	for _, c := range cases {
		ss := NewStateSpace([]float64{1, 2, 3}, make([]float64, c.p), make([]float64, c.q))
		if ss.Dim() != c.r {
			t.Fatalf("p=%d q=%d: r=%d, want %d", c.p, c.q, ss.Dim(), c.r)
		}
	}
}

func TestStateSpaceCompanionForm(t *testing.T) {
	phi := []float64{0.5, -0.3}
	theta := []float64{0.4, 0.2}
	ss := NewStateSpace([]float64{1, 2, 3}, phi, theta)
	if ss.Dim() != 3 {
		t.Fatalf("r=%d, want 3", ss.Dim())
	}
	T := ss.TransitionMatrix()
	wantT := [][]float64{
		{0.5, 1, 0},
		{-0.3, 0, 1},
		{0, 0, 0},
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if T.At(i, j) != wantT[i][j] {
				t.Fatalf("T(%d,%d)=%f, want %f", i, j, T.At(i, j), wantT[i][j])
			}
		}
	}
	R := ss.MovingAverageVector()
	wantR := []float64{1, 0.4, 0.2}
	for i := 0; i < 3; i++ {
		if R.AtVec(i) != wantR[i] {
			t.Fatalf("R(%d)=%f, want %f", i, R.AtVec(i), wantR[i])
		}
	}
	Q := ss.DisturbanceCovariance()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if want := wantR[i] * wantR[j]; math.Abs(Q.At(i, j)-want) > 1e-15 {
				t.Fatalf("Q(%d,%d)=%f, want %f", i, j, Q.At(i, j), want)
			}
		}
	}
}

func TestStateSpaceCopiesInputs(t *testing.T) {
	y := []float64{1, 2, 3}
	phi := []float64{0.5}
	ss := NewStateSpace(y, phi, nil)
	y[0] = 42
	phi[0] = 42
	if ss.Series()[0] != 1 {
		t.Fatal("mutating the input series leaked into the state space")
	}
	if ss.ARCoefficients()[0] != 0.5 {
		t.Fatal("mutating the input coefficients leaked into the state space")
	}
}
