package middleware

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"PriceCast/internal/domain/models"
)

type fakeProc struct {
	mu  sync.Mutex
	err error
	got []models.Quote
}

func (f *fakeProc) Process(_ context.Context, q *models.Quote) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, *q)
	return f.err
}

func (f *fakeProc) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.got)
}

func (f *fakeProc) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

type fakeMetrics struct {
	mu      sync.Mutex
	errors  map[string]int
	latency map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{errors: make(map[string]int), latency: make(map[string]int)}
}

func (m *fakeMetrics) RecordMessageSent(backend, symbol string) {}

func (m *fakeMetrics) RecordLastPrice(symbol string, price float64) {}

func (m *fakeMetrics) RecordError(kind string) {
	m.mu.Lock()
	m.errors[kind]++
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

func testQuote(symbol string) *models.Quote {
	return &models.Quote{Symbol: symbol, Timestamp: time.Now().Unix(), Price: 100, Volume: 10}
}

func TestPipelineForwardsValidQuote(t *testing.T) {
	proc := &fakeProc{}
	m := newFakeMetrics()
	p := NewQuotePipeline(proc, m)

	if err := p.Process(context.Background(), testQuote("AAPL")); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if proc.count() != 1 {
		t.Errorf("downstream got %d quotes, want 1", proc.count())
	}
	if m.latency["pipeline_process"] != 1 {
		t.Error("successful processing should record latency")
	}
}

func TestPipelineRejectsInvalidQuotes(t *testing.T) {
	proc := &fakeProc{}
	m := newFakeMetrics()
	p := NewQuotePipeline(proc, m)

	bad := []*models.Quote{
		nil,
		{Symbol: "", Timestamp: 1, Price: 1, Volume: 1},
		{Symbol: "AAPL", Timestamp: 0, Price: 1, Volume: 1},
		{Symbol: "AAPL", Timestamp: 1, Price: -1, Volume: 1},
		{Symbol: "AAPL", Timestamp: 1, Price: 1, Volume: -1},
	}
	for i, q := range bad {
		if err := p.Process(context.Background(), q); err == nil {
			t.Errorf("quote %d: expected a validation error", i)
		}
	}
	if proc.count() != 0 {
		t.Errorf("invalid quotes reached downstream: %d", proc.count())
	}
	if m.errCount("pipeline_validate") != len(bad) {
		t.Errorf("pipeline_validate = %d, want %d", m.errCount("pipeline_validate"), len(bad))
	}
}

func TestPipelineThrottlesPerSymbol(t *testing.T) {
	proc := &fakeProc{}
	m := newFakeMetrics()
	p := NewQuotePipeline(proc, m, WithMaxRPS(1))

	if err := p.Process(context.Background(), testQuote("AAPL")); err != nil {
		t.Fatalf("first quote: %v", err)
	}
	// Second AAPL print inside the window is dropped without an error.
	if err := p.Process(context.Background(), testQuote("AAPL")); err != nil {
		t.Fatalf("throttled quote should drop silently: %v", err)
	}
	// Other symbols keep their own budget.
	if err := p.Process(context.Background(), testQuote("MSFT")); err != nil {
		t.Fatalf("other symbol: %v", err)
	}

	if proc.count() != 2 {
		t.Errorf("downstream got %d quotes, want 2", proc.count())
	}
	if m.errCount("pipeline_throttle") != 1 {
		t.Errorf("pipeline_throttle = %d, want 1", m.errCount("pipeline_throttle"))
	}
}

func TestPipelineTransform(t *testing.T) {
	proc := &fakeProc{}
	m := newFakeMetrics()
	p := NewQuotePipeline(proc, m, WithTransform(func(q *models.Quote) *models.Quote {
		out := *q
		out.Symbol = strings.ToUpper(out.Symbol)
		return &out
	}))

	if err := p.Process(context.Background(), testQuote("aapl")); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if proc.count() != 1 || proc.got[0].Symbol != "AAPL" {
		t.Errorf("downstream got %+v", proc.got)
	}
}

func TestPipelineTransformOutputIsValidated(t *testing.T) {
	proc := &fakeProc{}
	m := newFakeMetrics()
	p := NewQuotePipeline(proc, m, WithTransform(func(q *models.Quote) *models.Quote {
		return &models.Quote{} // broken transform
	}))

	if err := p.Process(context.Background(), testQuote("AAPL")); err == nil {
		t.Fatal("invalid transform output should be rejected")
	}
	if proc.count() != 0 {
		t.Error("invalid transform output reached downstream")
	}
	if m.errCount("pipeline_transform_invalid") != 1 {
		t.Errorf("pipeline_transform_invalid = %d, want 1", m.errCount("pipeline_transform_invalid"))
	}
}

func TestPipelineBuffersOnDownstreamError(t *testing.T) {
	proc := &fakeProc{err: errors.New("kafka down")}
	m := newFakeMetrics()
	p := NewQuotePipeline(proc, m, WithBufferSize(1))

	err := p.Process(context.Background(), testQuote("AAPL"))
	if err == nil {
		t.Fatal("downstream failure should surface as an error")
	}
	if len(p.bufCh) != 1 {
		t.Fatalf("buffer depth = %d, want 1", len(p.bufCh))
	}

	// The buffer holds one quote, so the next failure is dropped. A second
	// symbol sidesteps the per-symbol throttle.
	if err := p.Process(context.Background(), testQuote("MSFT")); err == nil {
		t.Fatal("second downstream failure should surface as an error")
	}
	if m.errCount("pipeline_buffer_full") != 1 {
		t.Errorf("pipeline_buffer_full = %d, want 1", m.errCount("pipeline_buffer_full"))
	}
}

func TestPipelineFlushesBufferedQuotes(t *testing.T) {
	proc := &fakeProc{err: errors.New("kafka down")}
	m := newFakeMetrics()
	p := NewQuotePipeline(proc, m)

	if err := p.Process(context.Background(), testQuote("AAPL")); err == nil {
		t.Fatal("downstream failure should surface as an error")
	}

	// Downstream recovers; the flush loop should drain the buffer.
	proc.setErr(nil)
	p.Start(context.Background())
	defer p.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for proc.count() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("buffered quote never flushed, downstream saw %d quotes", proc.count())
		}
		time.Sleep(10 * time.Millisecond)
	}
}
