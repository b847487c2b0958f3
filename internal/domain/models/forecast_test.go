package models

import (
	"errors"
	"testing"
	"time"
)

func TestParseStrategy(t *testing.T) {
	cases := []struct {
		in   string
		want Strategy
	}{
		{"", StrategyLinear},
		{"LINEAR", StrategyLinear},
		{"AUTOREGRESSIVE", StrategyAutoRegressive},
		{"EXP_SMOOTHING", StrategyExpSmoothing},
	}
	for _, c := range cases {
		got, err := ParseStrategy(c.in)
		if err != nil {
			t.Errorf("ParseStrategy(%q): unexpected error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseStrategy(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseStrategyUnknown(t *testing.T) {
	for _, in := range []string{"linear", "ARIMA", "LINEAR ", "garbage"} {
		_, err := ParseStrategy(in)
		if err == nil {
			t.Errorf("ParseStrategy(%q): expected error", in)
			continue
		}
		if !errors.Is(err, ErrUnknownStrategy) {
			t.Errorf("ParseStrategy(%q): error %v should wrap ErrUnknownStrategy", in, err)
		}
	}
}

func TestStrategyStringRoundTrip(t *testing.T) {
	for _, s := range []Strategy{StrategyLinear, StrategyAutoRegressive, StrategyExpSmoothing} {
		parsed, err := ParseStrategy(s.String())
		if err != nil {
			t.Errorf("%v: round trip failed: %v", s, err)
			continue
		}
		if parsed != s {
			t.Errorf("round trip %v -> %q -> %v", s, s.String(), parsed)
		}
	}
}

func TestStrategiesListsAllTokens(t *testing.T) {
	got := Strategies()
	want := []string{"LINEAR", "AUTOREGRESSIVE", "EXP_SMOOTHING"}
	if len(got) != len(want) {
		t.Fatalf("got %d strategies, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Strategies()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFailedForecast(t *testing.T) {
	r := FailedForecast("history too short")
	if r.Success {
		t.Error("failed forecast must not report success")
	}
	if r.Error != "history too short" {
		t.Errorf("Error = %q", r.Error)
	}
	if r.ForecastMean != nil || r.ForecastDates != nil {
		t.Error("failed forecast must not carry projections")
	}
}

func TestNewForecastResponseFormatsDates(t *testing.T) {
	r := ForecastResult{
		Success:      true,
		StrategyUsed: "Linear Regression",
		ForecastDates: []time.Time{
			day(2025, 2, 3),
			day(2025, 2, 4),
		},
		ForecastMean:      []float64{101, 102},
		LowerBound:        []float64{99, 100},
		UpperBound:        []float64{103, 104},
		LastObservedPrice: 100,
	}

	resp := NewForecastResponse("AAPL", r, true)
	if resp.Symbol != "AAPL" || !resp.Cached || !resp.Success {
		t.Errorf("header fields wrong: %+v", resp)
	}
	if len(resp.ForecastDates) != 2 || resp.ForecastDates[0] != "2025-02-03" {
		t.Errorf("ForecastDates = %v", resp.ForecastDates)
	}
	if resp.LastObservedPrice != 100 {
		t.Errorf("LastObservedPrice = %v", resp.LastObservedPrice)
	}
}

func TestNewForecastResponseFailure(t *testing.T) {
	resp := NewForecastResponse("AAPL", FailedForecast("nope"), false)
	if resp.Success || resp.Cached {
		t.Errorf("failure response wrong: %+v", resp)
	}
	if resp.Error != "nope" {
		t.Errorf("Error = %q", resp.Error)
	}
	if resp.ForecastDates != nil {
		t.Errorf("ForecastDates should stay empty, got %v", resp.ForecastDates)
	}
}

func TestNewHistoryResponse(t *testing.T) {
	bars := []DailyBar{
		{Symbol: "MSFT", Date: day(2025, 1, 6), Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10},
		{Symbol: "MSFT", Date: day(2025, 1, 7), Open: 1.5, High: 3, Low: 1, Close: 2.5, Volume: 20},
	}
	stats := SeriesStats{
		Symbol:    "MSFT",
		Points:    2,
		FirstDate: day(2025, 1, 6),
		LastDate:  day(2025, 1, 7),
		LastClose: 2.5,
	}

	resp := NewHistoryResponse("MSFT", day(2025, 1, 1), day(2025, 1, 31), bars, stats)
	if resp.From != "2025-01-01" || resp.To != "2025-01-31" {
		t.Errorf("window = %q..%q", resp.From, resp.To)
	}
	if resp.Count != 2 || len(resp.Bars) != 2 {
		t.Fatalf("Count = %d, len(Bars) = %d", resp.Count, len(resp.Bars))
	}
	if resp.Bars[1].Date != "2025-01-07" || resp.Bars[1].Close != 2.5 {
		t.Errorf("second bar = %+v", resp.Bars[1])
	}
	if resp.Stats == nil {
		t.Fatal("stats should be attached when points > 0")
	}
	if resp.Stats.LastDate != "2025-01-07" || resp.Stats.Points != 2 {
		t.Errorf("stats = %+v", resp.Stats)
	}
}

func TestNewHistoryResponseOmitsEmptyStats(t *testing.T) {
	resp := NewHistoryResponse("MSFT", day(2025, 1, 1), day(2025, 1, 31), nil, SeriesStats{})
	if resp.Stats != nil {
		t.Errorf("empty stats should be omitted, got %+v", resp.Stats)
	}
	if resp.Count != 0 || len(resp.Bars) != 0 {
		t.Errorf("empty history should have no bars: %+v", resp)
	}
}
