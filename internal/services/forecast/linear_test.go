package forecast

import (
	"testing"

	"PriceCast/internal/domain/models"
)

func TestLinearFitRecoversSlope(t *testing.T) {
	// 60 closes climbing steadily from 100 to 130: slope 30/59 per day.
	closes := linearCloses(60, 100, 30.0/59.0)

	fit, err := fitLinear(closes, 10)
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	if len(fit.mean) != 10 {
		t.Fatalf("expected 10 steps, got %d", len(fit.mean))
	}

	wantSlope := 30.0 / 59.0
	for i := 1; i < len(fit.mean); i++ {
		step := fit.mean[i] - fit.mean[i-1]
		if !almostEqual(step, wantSlope, 1e-6) {
			t.Errorf("step %d: day-over-day change %v, want %v", i, step, wantSlope)
		}
	}

	// First forecast continues the line one position past the history.
	want := 100 + wantSlope*60
	if !almostEqual(fit.mean[0], want, 1e-6) {
		t.Errorf("first forecast %v, want %v", fit.mean[0], want)
	}
}

func TestLinearBandWidthIsConstant(t *testing.T) {
	engine := NewEngine(nil)
	series := makeSeries(wavyCloses(60, 100, 0.5, 3))

	res := engine.Forecast(models.ForecastRequest{Series: series, HorizonDays: 10, Strategy: models.StrategyLinear})
	if !res.Success {
		t.Fatalf("unexpected failure: %s", res.Error)
	}
	if res.StrategyUsed != NameLinear {
		t.Errorf("expected %q, got %q", NameLinear, res.StrategyUsed)
	}

	width0 := res.UpperBound[0] - res.LowerBound[0]
	if width0 <= 0 {
		t.Fatalf("expected positive band width, got %v", width0)
	}
	for i := range res.ForecastMean {
		width := res.UpperBound[i] - res.LowerBound[i]
		if !almostEqual(width, width0, 1e-9) {
			t.Errorf("step %d: band width %v differs from step 0 width %v", i, width, width0)
		}
	}
}

func TestLinearSigmaIsResidualStdDev(t *testing.T) {
	// A perfect line leaves no residuals, so the band collapses onto the mean.
	closes := linearCloses(30, 50, 2)

	fit, err := fitLinear(closes, 5)
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	if !almostEqual(fit.sigma, 0, 1e-9) {
		t.Errorf("sigma %v, want ~0 for noiseless line", fit.sigma)
	}
}

func BenchmarkLinearFit(b *testing.B) {
	closes := wavyCloses(500, 100, 0.3, 2)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := fitLinear(closes, 30); err != nil {
			b.Fatal(err)
		}
	}
}
