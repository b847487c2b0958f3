package usecase

import (
	"context"
	"testing"

	"PriceCast/internal/domain/models"
	"PriceCast/internal/services/forecast"
)

func TestBatchForecastFansOut(t *testing.T) {
	store := &symbolBarStore{bars: map[string][]models.DailyBar{
		"AAPL": testBars("AAPL", 40),
		"MSFT": testBars("MSFT", 40),
	}}
	f := &fakeForecaster{res: successResult(forecast.NameLinear)}
	fc := NewForecastUseCase(store, nil, nil, f, nil, nil, nil, ForecastSettings{})
	uc := NewBatchForecastUseCase(fc)

	res, err := uc.Forecast(context.Background(), BatchForecastParams{
		Symbols: []string{" aapl", "AAPL", "msft", "GOOG"},
	})
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}

	if len(res.Results) != 2 {
		t.Fatalf("Results = %v", res.Results)
	}
	for _, sym := range []string{"AAPL", "MSFT"} {
		if r, ok := res.Results[sym]; !ok || !r.Success {
			t.Errorf("missing or failed result for %s", sym)
		}
	}
	// GOOG has no stored history; it lands in Errors without sinking the
	// batch.
	if len(res.Errors) != 1 || res.Errors["GOOG"] == "" {
		t.Errorf("Errors = %v", res.Errors)
	}
	// " aapl" and "AAPL" are the same request after normalization.
	if f.calls != 2 {
		t.Errorf("engine ran %d times, want 2", f.calls)
	}
}

func TestBatchForecastAllFailures(t *testing.T) {
	fc := NewForecastUseCase(&fakeBarStore{}, nil, nil, &fakeForecaster{}, nil, nil, nil, ForecastSettings{})
	uc := NewBatchForecastUseCase(fc)

	res, err := uc.Forecast(context.Background(), BatchForecastParams{Symbols: []string{"AAPL", "MSFT"}})
	if err != nil {
		t.Fatalf("per-symbol failures must not fail the batch: %v", err)
	}
	if len(res.Results) != 0 || len(res.Errors) != 2 {
		t.Errorf("Results = %v, Errors = %v", res.Results, res.Errors)
	}
}

func TestBatchForecastRequiresSymbols(t *testing.T) {
	fc := NewForecastUseCase(&fakeBarStore{}, nil, nil, &fakeForecaster{}, nil, nil, nil, ForecastSettings{})
	uc := NewBatchForecastUseCase(fc)

	if _, err := uc.Forecast(context.Background(), BatchForecastParams{}); err == nil {
		t.Fatal("expected error for empty symbols")
	}
}
