package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"PriceCast/internal/domain/models"
)

// Shared fakes for the usecase tests. Each records its calls so tests can
// assert on what reached it; everything is mutex-guarded because several
// usecases fan work out to goroutines.

var barStart = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

// testBars builds n consecutive daily bars with closes 100, 101, ...
func testBars(symbol string, n int) []models.DailyBar {
	bars := make([]models.DailyBar, n)
	for i := range bars {
		c := 100 + float64(i)
		bars[i] = models.DailyBar{
			Symbol: symbol,
			Date:   barStart.AddDate(0, 0, i),
			Open:   c - 0.5,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

func successResult(strategyUsed string) models.ForecastResult {
	return models.ForecastResult{
		Success:           true,
		StrategyUsed:      strategyUsed,
		ForecastDates:     []time.Time{time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)},
		ForecastMean:      []float64{101.5},
		LowerBound:        []float64{99},
		UpperBound:        []float64{104},
		LastObservedPrice: 100,
	}
}

type fakeBarStore struct {
	mu        sync.Mutex
	latest    []models.DailyBar
	latestErr error
	daily     []models.DailyBar
	dailyErr  error

	latestCalls int
	dailyCalls  int
	lastSymbol  string
	lastN       int
	lastFrom    time.Time
	lastTo      time.Time
}

func (s *fakeBarStore) GetDailyBars(_ context.Context, symbol string, from, to time.Time) ([]models.DailyBar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dailyCalls++
	s.lastSymbol = symbol
	s.lastFrom, s.lastTo = from, to
	return s.daily, s.dailyErr
}

func (s *fakeBarStore) GetLatestNBars(_ context.Context, symbol string, n int) ([]models.DailyBar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latestCalls++
	s.lastSymbol = symbol
	s.lastN = n
	return s.latest, s.latestErr
}

// symbolBarStore serves distinct bars per symbol for batch fan-out tests.
type symbolBarStore struct {
	mu   sync.Mutex
	bars map[string][]models.DailyBar
}

func (s *symbolBarStore) GetDailyBars(_ context.Context, symbol string, _, _ time.Time) ([]models.DailyBar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bars[symbol], nil
}

func (s *symbolBarStore) GetLatestNBars(_ context.Context, symbol string, _ int) ([]models.DailyBar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bars[symbol], nil
}

type fakeBarWriter struct {
	mu     sync.Mutex
	stored []models.DailyBar
	calls  int
	err    error
}

func (w *fakeBarWriter) StoreDailyBars(_ context.Context, bars []models.DailyBar) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls++
	w.stored = append(w.stored, bars...)
	return w.err
}

type fakeForecaster struct {
	mu    sync.Mutex
	calls int
	last  models.ForecastRequest
	res   models.ForecastResult
}

func (f *fakeForecaster) Forecast(req models.ForecastRequest) models.ForecastResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = req
	return f.res
}

type fakeSink struct {
	mu      sync.Mutex
	symbols []string
	results []models.ForecastResult
	err     error
}

func (s *fakeSink) PublishForecast(_ context.Context, symbol string, res models.ForecastResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.symbols = append(s.symbols, symbol)
	s.results = append(s.results, res)
	return s.err
}

func (s *fakeSink) Close() error { return nil }

type fakeAnalyzer struct{}

func (fakeAnalyzer) Stats(symbol string, series models.HistoricalSeries) models.SeriesStats {
	return models.SeriesStats{
		Symbol:    symbol,
		Points:    series.Len(),
		FirstDate: series.At(0).Date,
		LastDate:  series.LastDate(),
		LastClose: series.LastClose(),
	}
}

type fakePublisher struct {
	mu      sync.Mutex
	err     error
	quotes  []models.Quote
	batches int
	closed  bool
}

func (p *fakePublisher) Publish(_ context.Context, q *models.Quote) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.quotes = append(p.quotes, *q)
	return nil
}

func (p *fakePublisher) PublishBatch(_ context.Context, quotes []*models.Quote) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.batches++
	for _, q := range quotes {
		p.quotes = append(p.quotes, *q)
	}
	return nil
}

func (p *fakePublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.quotes)
}

type fakeStorage struct {
	mu     sync.Mutex
	err    error
	quotes []models.Quote
	closed bool
}

func (s *fakeStorage) Init(context.Context) error { return nil }

func (s *fakeStorage) Store(_ context.Context, q *models.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.quotes = append(s.quotes, *q)
	return nil
}

func (s *fakeStorage) StoreBatch(_ context.Context, quotes []*models.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	for _, q := range quotes {
		s.quotes = append(s.quotes, *q)
	}
	return nil
}

func (s *fakeStorage) Query(context.Context, string, time.Time, time.Time, int) ([]*models.Quote, error) {
	return nil, nil
}

func (s *fakeStorage) Health(context.Context) error { return nil }

func (s *fakeStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

type fakeMetrics struct {
	mu      sync.Mutex
	errors  map[string]int
	sent    map[string]int
	latency map[string]int
	prices  map[string]float64
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		errors:  make(map[string]int),
		sent:    make(map[string]int),
		latency: make(map[string]int),
		prices:  make(map[string]float64),
	}
}

func (m *fakeMetrics) RecordMessageSent(backend, symbol string) {
	m.mu.Lock()
	m.sent[backend+"/"+symbol]++
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordError(kind string) {
	m.mu.Lock()
	m.errors[kind]++
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordLastPrice(symbol string, price float64) {
	m.mu.Lock()
	m.prices[symbol] = price
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordLatency(op string, seconds float64) {
	m.mu.Lock()
	m.latency[op]++
	m.mu.Unlock()
}

func (m *fakeMetrics) errCount(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errors[kind]
}

func (m *fakeMetrics) sentCount(backend, symbol string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[backend+"/"+symbol]
}

func (m *fakeMetrics) lastPrice(symbol string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prices[symbol]
}

type fakeStream struct {
	mu         sync.Mutex
	qCh        chan *models.Quote
	errCh      chan error
	connected  bool
	connectErr error
	connects   int
	subscribes int
	reconnects int
	closes     int
}

func newFakeStream() *fakeStream {
	return &fakeStream{
		qCh:   make(chan *models.Quote, 8),
		errCh: make(chan error, 8),
	}
}

func (s *fakeStream) Connect(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.connectErr != nil {
		return s.connectErr
	}
	s.connected = true
	s.connects++
	return nil
}

func (s *fakeStream) Subscribe(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribes++
	return nil
}

func (s *fakeStream) Read(context.Context) (<-chan *models.Quote, <-chan error) {
	return s.qCh, s.errCh
}

func (s *fakeStream) Reconnect(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reconnects++
	return nil
}

func (s *fakeStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
	s.closes++
	return nil
}

func (s *fakeStream) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

func (s *fakeStream) reconnectCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reconnects
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
