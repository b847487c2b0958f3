package forecast

import (
	"testing"
)

func TestExpSmoothingAnchorsToLastClose(t *testing.T) {
	closes := wavyCloses(40, 75, 0.3, 4)
	last := closes[len(closes)-1]

	fit, err := fitExpSmoothing(closes, 15)
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	for i, m := range fit.mean {
		if !almostEqual(m, last, 1e-9) {
			t.Errorf("step %d: mean %v drifted from last close %v", i, m, last)
		}
	}
}

func TestExpSmoothingRecurrence(t *testing.T) {
	closes := linearCloses(20, 10, 1)
	last := closes[len(closes)-1]

	fit, err := fitExpSmoothing(closes, 5)
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	if fit.mean[0] != last {
		t.Fatalf("first step must equal last close, got %v", fit.mean[0])
	}
	for i := 1; i < len(fit.mean); i++ {
		want := smoothingAlpha*fit.mean[i-1] + (1-smoothingAlpha)*last
		if fit.mean[i] != want {
			t.Errorf("step %d: %v, want recurrence value %v", i, fit.mean[i], want)
		}
	}
}

func TestExpSmoothingBandWidens(t *testing.T) {
	closes := wavyCloses(40, 75, 0.3, 4)

	fit, err := fitExpSmoothing(closes, 10)
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}

	lower, upper := predictionBand(fit.mean, fit.sigma, fit.grow)
	prev := upper[0] - lower[0]
	for i := 1; i < len(fit.mean); i++ {
		width := upper[i] - lower[i]
		if width <= prev {
			t.Errorf("step %d: width %v did not widen from %v", i, width, prev)
		}
		prev = width
	}
}
