package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"PriceCast/internal/domain/models"
	svccache "PriceCast/internal/service/cache"
	"PriceCast/internal/services/forecast"
)

func newTestForecastUseCase(store *fakeBarStore, f *fakeForecaster, settings ForecastSettings) *ForecastUseCase {
	return NewForecastUseCase(store, nil, nil, f, svccache.NewTTLCache(), nil, nil, settings)
}

func TestForecastSymbolRequired(t *testing.T) {
	uc := newTestForecastUseCase(&fakeBarStore{}, &fakeForecaster{}, ForecastSettings{})

	for _, sym := range []string{"", "   "} {
		_, _, err := uc.Forecast(context.Background(), ForecastParams{Symbol: sym})
		if err == nil {
			t.Errorf("symbol %q: expected error", sym)
		}
	}
}

func TestForecastRejectsUnknownStrategy(t *testing.T) {
	f := &fakeForecaster{res: successResult(forecast.NameLinear)}
	store := &fakeBarStore{latest: testBars("AAPL", 40)}
	uc := newTestForecastUseCase(store, f, ForecastSettings{})

	_, _, err := uc.Forecast(context.Background(), ForecastParams{Symbol: "AAPL", Strategy: "WAVELET"})
	if !errors.Is(err, models.ErrUnknownStrategy) {
		t.Fatalf("err = %v, want ErrUnknownStrategy", err)
	}
	if f.calls != 0 {
		t.Error("engine must not run for a bad request")
	}
}

func TestForecastAppliesDefaults(t *testing.T) {
	f := &fakeForecaster{res: successResult(forecast.NameLinear)}
	store := &fakeBarStore{latest: testBars("AAPL", 40)}
	uc := newTestForecastUseCase(store, f, ForecastSettings{})

	res, cached, err := uc.Forecast(context.Background(), ForecastParams{Symbol: "  aapl "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cached || !res.Success {
		t.Errorf("cached=%v success=%v", cached, res.Success)
	}
	if store.lastSymbol != "AAPL" {
		t.Errorf("store queried with %q, want normalized AAPL", store.lastSymbol)
	}
	if store.lastN != 365 {
		t.Errorf("history lookback = %d, want default 365", store.lastN)
	}
	if f.last.HorizonDays != 30 {
		t.Errorf("horizon = %d, want default 30", f.last.HorizonDays)
	}
	if f.last.Strategy != models.StrategyLinear {
		t.Errorf("strategy = %v, want default LINEAR", f.last.Strategy)
	}
	if f.last.Series.Len() != 40 {
		t.Errorf("series length = %d, want 40", f.last.Series.Len())
	}
}

func TestForecastCapsHorizonAtMax(t *testing.T) {
	f := &fakeForecaster{res: successResult(forecast.NameLinear)}
	store := &fakeBarStore{latest: testBars("AAPL", 60)}
	uc := newTestForecastUseCase(store, f, ForecastSettings{MaxHorizon: 45})

	_, _, err := uc.Forecast(context.Background(), ForecastParams{Symbol: "AAPL", HorizonDays: 90})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.last.HorizonDays != 45 {
		t.Errorf("horizon = %d, want capped 45", f.last.HorizonDays)
	}
}

func TestForecastCapsHorizonAtHistoryLength(t *testing.T) {
	f := &fakeForecaster{res: successResult(forecast.NameLinear)}
	store := &fakeBarStore{latest: testBars("AAPL", 12)}
	uc := newTestForecastUseCase(store, f, ForecastSettings{})

	_, _, err := uc.Forecast(context.Background(), ForecastParams{Symbol: "AAPL", HorizonDays: 30})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.last.HorizonDays != 12 {
		t.Errorf("horizon = %d, want capped to the 12 observed points", f.last.HorizonDays)
	}
}

func TestForecastMemoizesByContent(t *testing.T) {
	f := &fakeForecaster{res: successResult(forecast.NameLinear)}
	store := &fakeBarStore{latest: testBars("AAPL", 40)}
	uc := newTestForecastUseCase(store, f, ForecastSettings{})
	params := ForecastParams{Symbol: "AAPL", HorizonDays: 10}

	first, cached, err := uc.Forecast(context.Background(), params)
	if err != nil || cached {
		t.Fatalf("first call: cached=%v err=%v", cached, err)
	}

	second, cached, err := uc.Forecast(context.Background(), params)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if !cached {
		t.Fatal("second identical call should hit the memo")
	}
	if f.calls != 1 {
		t.Errorf("engine ran %d times, want 1", f.calls)
	}
	if second.StrategyUsed != first.StrategyUsed {
		t.Errorf("StrategyUsed = %q, want %q", second.StrategyUsed, first.StrategyUsed)
	}
	if len(second.ForecastMean) != 1 || second.ForecastMean[0] != first.ForecastMean[0] {
		t.Errorf("ForecastMean = %v, want %v", second.ForecastMean, first.ForecastMean)
	}
	if !second.ForecastDates[0].Equal(first.ForecastDates[0]) {
		t.Errorf("ForecastDates = %v, want %v", second.ForecastDates, first.ForecastDates)
	}
}

func TestForecastMemoKeyTracksSeriesContent(t *testing.T) {
	f := &fakeForecaster{res: successResult(forecast.NameLinear)}
	store := &fakeBarStore{latest: testBars("AAPL", 20)}
	uc := newTestForecastUseCase(store, f, ForecastSettings{})
	params := ForecastParams{Symbol: "AAPL", HorizonDays: 10}

	if _, _, err := uc.Forecast(context.Background(), params); err != nil {
		t.Fatalf("first call: %v", err)
	}

	// A new bar arrives: same symbol and horizon, but the series content
	// changed, so the stale memo must not be served.
	store.latest = testBars("AAPL", 21)
	_, cached, err := uc.Forecast(context.Background(), params)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if cached {
		t.Error("memo hit despite changed series content")
	}
	if f.calls != 2 {
		t.Errorf("engine ran %d times, want 2", f.calls)
	}
}

func TestForecastFallsBackToHistoryAPI(t *testing.T) {
	store := &fakeBarStore{} // nothing stored locally
	fallback := &fakeBarStore{latest: testBars("AAPL", 15)}
	writer := &fakeBarWriter{}
	f := &fakeForecaster{res: successResult(forecast.NameLinear)}
	uc := NewForecastUseCase(store, fallback, writer, f, svccache.NewTTLCache(), nil, nil, ForecastSettings{})

	res, _, err := uc.Forecast(context.Background(), ForecastParams{Symbol: "AAPL"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Success {
		t.Errorf("result = %+v", res)
	}
	if fallback.latestCalls != 1 {
		t.Errorf("fallback called %d times, want 1", fallback.latestCalls)
	}
	if writer.calls != 1 || len(writer.stored) != 15 {
		t.Errorf("backfill got %d calls with %d bars, want 1 call with 15", writer.calls, len(writer.stored))
	}
}

func TestForecastStoreErrorUsesFallback(t *testing.T) {
	store := &fakeBarStore{latestErr: errors.New("clickhouse down")}
	fallback := &fakeBarStore{latest: testBars("AAPL", 15)}
	f := &fakeForecaster{res: successResult(forecast.NameLinear)}
	uc := NewForecastUseCase(store, fallback, nil, f, svccache.NewTTLCache(), nil, nil, ForecastSettings{})

	res, _, err := uc.Forecast(context.Background(), ForecastParams{Symbol: "AAPL"})
	if err != nil {
		t.Fatalf("store outage should fall through to the history api: %v", err)
	}
	if !res.Success {
		t.Errorf("result = %+v", res)
	}
}

func TestForecastStoreErrorWithoutFallback(t *testing.T) {
	storeErr := errors.New("clickhouse down")
	store := &fakeBarStore{latestErr: storeErr}
	uc := newTestForecastUseCase(store, &fakeForecaster{}, ForecastSettings{})

	_, _, err := uc.Forecast(context.Background(), ForecastParams{Symbol: "AAPL"})
	if !errors.Is(err, storeErr) {
		t.Errorf("err = %v, want wrapped store error", err)
	}
}

func TestForecastFallbackError(t *testing.T) {
	apiErr := errors.New("history api 503")
	store := &fakeBarStore{}
	fallback := &fakeBarStore{latestErr: apiErr}
	uc := NewForecastUseCase(store, fallback, nil, &fakeForecaster{}, nil, nil, nil, ForecastSettings{})

	_, _, err := uc.Forecast(context.Background(), ForecastParams{Symbol: "AAPL"})
	if !errors.Is(err, apiErr) {
		t.Errorf("err = %v, want wrapped api error", err)
	}
}

func TestForecastBackfillErrorIsNotFatal(t *testing.T) {
	store := &fakeBarStore{}
	fallback := &fakeBarStore{latest: testBars("AAPL", 15)}
	writer := &fakeBarWriter{err: errors.New("insert failed")}
	f := &fakeForecaster{res: successResult(forecast.NameLinear)}
	uc := NewForecastUseCase(store, fallback, writer, f, svccache.NewTTLCache(), nil, nil, ForecastSettings{})

	res, _, err := uc.Forecast(context.Background(), ForecastParams{Symbol: "AAPL"})
	if err != nil || !res.Success {
		t.Errorf("backfill failure must not fail the forecast: res=%+v err=%v", res, err)
	}
}

func TestForecastNoHistory(t *testing.T) {
	uc := newTestForecastUseCase(&fakeBarStore{}, &fakeForecaster{}, ForecastSettings{})

	_, _, err := uc.Forecast(context.Background(), ForecastParams{Symbol: "AAPL"})
	if !errors.Is(err, models.ErrNoHistory) {
		t.Errorf("err = %v, want ErrNoHistory", err)
	}
}

func TestForecastRejectsCorruptBars(t *testing.T) {
	bars := testBars("AAPL", 15)
	bars[3].Date = bars[2].Date // duplicate date
	store := &fakeBarStore{latest: bars}
	uc := newTestForecastUseCase(store, &fakeForecaster{}, ForecastSettings{})

	_, _, err := uc.Forecast(context.Background(), ForecastParams{Symbol: "AAPL"})
	if err == nil || !strings.Contains(err.Error(), "build series") {
		t.Errorf("err = %v, want a series build error", err)
	}
}

func TestForecastFailedFitNotMemoizedNotPublished(t *testing.T) {
	f := &fakeForecaster{res: models.FailedForecast("insufficient data")}
	store := &fakeBarStore{latest: testBars("AAPL", 40)}
	sink := &fakeSink{}
	uc := NewForecastUseCase(store, nil, nil, f, svccache.NewTTLCache(), sink, nil, ForecastSettings{})
	params := ForecastParams{Symbol: "AAPL"}

	res, cached, err := uc.Forecast(context.Background(), params)
	if err != nil {
		t.Fatalf("model failures travel inside the result, not as errors: %v", err)
	}
	if res.Success || cached {
		t.Errorf("res.Success=%v cached=%v", res.Success, cached)
	}
	if len(sink.symbols) != 0 {
		t.Error("failed fits must not be published")
	}

	// Not memoized either: the engine runs again on the next call.
	if _, _, err := uc.Forecast(context.Background(), params); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if f.calls != 2 {
		t.Errorf("engine ran %d times, want 2", f.calls)
	}
}

func TestForecastPublishesToSink(t *testing.T) {
	f := &fakeForecaster{res: successResult(forecast.NameSmoothing)}
	store := &fakeBarStore{latest: testBars("TSLA", 40)}
	sink := &fakeSink{}
	uc := NewForecastUseCase(store, nil, nil, f, nil, sink, nil, ForecastSettings{})

	_, _, err := uc.Forecast(context.Background(), ForecastParams{Symbol: "tsla"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.symbols) != 1 || sink.symbols[0] != "TSLA" {
		t.Fatalf("sink symbols = %v", sink.symbols)
	}
	if sink.results[0].StrategyUsed != forecast.NameSmoothing {
		t.Errorf("published StrategyUsed = %q", sink.results[0].StrategyUsed)
	}
}

func TestForecastSinkErrorIsNotFatal(t *testing.T) {
	f := &fakeForecaster{res: successResult(forecast.NameLinear)}
	store := &fakeBarStore{latest: testBars("AAPL", 40)}
	sink := &fakeSink{err: errors.New("kafka unreachable")}
	uc := NewForecastUseCase(store, nil, nil, f, nil, sink, nil, ForecastSettings{})

	res, _, err := uc.Forecast(context.Background(), ForecastParams{Symbol: "AAPL"})
	if err != nil || !res.Success {
		t.Errorf("publish failure must not fail the forecast: res=%+v err=%v", res, err)
	}
}

func TestForecastCacheKeyShape(t *testing.T) {
	bars := testBars("AAPL", 20)
	series, err := models.SeriesFromBars(bars)
	if err != nil {
		t.Fatalf("build series: %v", err)
	}

	a := forecastCacheKey("AAPL", series, 10, models.StrategyLinear)
	if !strings.HasPrefix(a, "forecast:") {
		t.Errorf("key %q should carry the forecast: prefix", a)
	}
	if b := forecastCacheKey("AAPL", series, 10, models.StrategyLinear); b != a {
		t.Error("identical inputs must produce identical keys")
	}
	if b := forecastCacheKey("AAPL", series, 11, models.StrategyLinear); b == a {
		t.Error("horizon must be part of the key")
	}
	if b := forecastCacheKey("AAPL", series, 10, models.StrategyExpSmoothing); b == a {
		t.Error("strategy must be part of the key")
	}
	if b := forecastCacheKey("MSFT", series, 10, models.StrategyLinear); b == a {
		t.Error("symbol must be part of the key")
	}
}

func TestForecastUseCaseDefaultSettings(t *testing.T) {
	uc := newTestForecastUseCase(&fakeBarStore{}, &fakeForecaster{}, ForecastSettings{DefaultHorizon: 60})
	if uc.settings.MaxHorizon != 60 {
		t.Errorf("MaxHorizon = %d, should rise to the default horizon", uc.settings.MaxHorizon)
	}
	if uc.settings.CacheTTL != 5*time.Minute {
		t.Errorf("CacheTTL = %v, want 5m default", uc.settings.CacheTTL)
	}
	if uc.settings.HistoryDays != 365 {
		t.Errorf("HistoryDays = %d, want 365 default", uc.settings.HistoryDays)
	}
}
