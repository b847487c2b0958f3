package forecast

import (
	"math"
	"testing"
)

func TestPolynomialRecoversQuadratic(t *testing.T) {
	n := 25
	closes := make([]float64, n)
	for i := range closes {
		x := float64(i)
		closes[i] = 2 + 0.5*x + 0.1*x*x
	}

	fit, err := fitPolynomial(closes, 5)
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	for i, m := range fit.mean {
		x := float64(n + i)
		want := 2 + 0.5*x + 0.1*x*x
		if !almostEqual(m, want, 1e-6) {
			t.Errorf("step %d: %v, want %v", i, m, want)
		}
	}
	if fit.name != NamePolynomial {
		t.Errorf("name %q, want %q", fit.name, NamePolynomial)
	}
}

func TestPolynomialConstantSeriesStaysFlat(t *testing.T) {
	fit, err := fitPolynomial(constantCloses(20, 50), 10)
	if err != nil {
		t.Fatalf("constant input must fit, got: %v", err)
	}
	for i, m := range fit.mean {
		if !almostEqual(m, 50, 1e-6) {
			t.Errorf("step %d: %v, want 50", i, m)
		}
	}
	if fit.sigma != 0 {
		t.Errorf("sigma %v, want 0 for constant input", fit.sigma)
	}
}

func TestSolve3x3Singular(t *testing.T) {
	// Two identical rows make the system singular.
	_, err := solve3x3([3][4]float64{
		{1, 2, 3, 4},
		{1, 2, 3, 4},
		{2, 4, 7, 9},
	})
	if err == nil {
		t.Error("expected singular-system error")
	}
}

func TestSolve3x3KnownSolution(t *testing.T) {
	// x=1, y=-2, z=3.
	got, err := solve3x3([3][4]float64{
		{2, 1, 1, 3},
		{1, 3, 2, 1},
		{1, 0, 0, 1},
	})
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	want := [3]float64{1, -2, 3}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("x[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
