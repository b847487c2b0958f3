package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"PriceCast/internal/domain/models"
)

func TestGetHistoryExplicitWindow(t *testing.T) {
	store := &fakeBarStore{daily: testBars("MSFT", 5)}
	uc := NewHistoryUseCase(store, nil, nil)

	res, err := uc.GetHistory(context.Background(), GetHistoryParams{
		Symbol: " msft ",
		From:   time.Date(2025, 1, 6, 15, 30, 0, 0, time.UTC),
		To:     time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.lastSymbol != "MSFT" {
		t.Errorf("store queried with %q, want normalized MSFT", store.lastSymbol)
	}
	// Intraday timestamps are aligned down to day boundaries.
	wantFrom := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	wantTo := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	if !store.lastFrom.Equal(wantFrom) || !store.lastTo.Equal(wantTo) {
		t.Errorf("window = %v..%v, want %v..%v", store.lastFrom, store.lastTo, wantFrom, wantTo)
	}
	if res.Count != 5 || len(res.Bars) != 5 {
		t.Errorf("Count = %d, len(Bars) = %d", res.Count, len(res.Bars))
	}
	if !res.From.Equal(wantFrom) || !res.To.Equal(wantTo) {
		t.Errorf("result window = %v..%v", res.From, res.To)
	}
}

func TestGetHistoryWindowReversed(t *testing.T) {
	uc := NewHistoryUseCase(&fakeBarStore{}, nil, nil)

	_, err := uc.GetHistory(context.Background(), GetHistoryParams{
		Symbol: "MSFT",
		From:   time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		To:     time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
	})
	if err == nil || !strings.Contains(err.Error(), "after") {
		t.Errorf("err = %v, want a reversed-window error", err)
	}
}

func TestGetHistoryDefaultLookback(t *testing.T) {
	// Unset and too-short values fall back to the 180-day default;
	// oversized requests clamp to ten years.
	cases := []struct {
		days     int
		wantDays int
	}{
		{0, 180},
		{1, 180},
		{30, 30},
		{5000, 3650},
	}
	for _, c := range cases {
		store := &fakeBarStore{daily: testBars("MSFT", 5)}
		uc := NewHistoryUseCase(store, nil, nil)

		if _, err := uc.GetHistory(context.Background(), GetHistoryParams{Symbol: "MSFT", Days: c.days}); err != nil {
			t.Fatalf("days=%d: %v", c.days, err)
		}
		got := store.lastTo.Sub(store.lastFrom)
		want := time.Duration(c.wantDays) * 24 * time.Hour
		if got != want {
			t.Errorf("days=%d: window %v, want %v", c.days, got, want)
		}
		if time.Since(store.lastTo) > time.Minute {
			t.Errorf("days=%d: window should end now, got %v", c.days, store.lastTo)
		}
	}
}

func TestGetHistoryPartialWindowFallsBackToDays(t *testing.T) {
	store := &fakeBarStore{daily: testBars("MSFT", 5)}
	uc := NewHistoryUseCase(store, nil, nil)

	// Only From is set, so the Days window applies.
	_, err := uc.GetHistory(context.Background(), GetHistoryParams{
		Symbol: "MSFT",
		Days:   30,
		From:   time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := store.lastTo.Sub(store.lastFrom); got != 30*24*time.Hour {
		t.Errorf("window = %v, want 720h", got)
	}
}

func TestGetHistorySymbolRequired(t *testing.T) {
	uc := NewHistoryUseCase(&fakeBarStore{}, nil, nil)
	if _, err := uc.GetHistory(context.Background(), GetHistoryParams{Symbol: "  "}); err == nil {
		t.Error("expected error for blank symbol")
	}
}

func TestGetHistoryStoreError(t *testing.T) {
	storeErr := errors.New("clickhouse down")
	uc := NewHistoryUseCase(&fakeBarStore{dailyErr: storeErr}, nil, nil)

	_, err := uc.GetHistory(context.Background(), GetHistoryParams{Symbol: "MSFT"})
	if !errors.Is(err, storeErr) {
		t.Errorf("err = %v, want wrapped store error", err)
	}
}

func TestGetHistoryFallback(t *testing.T) {
	store := &fakeBarStore{}
	fallback := &fakeBarStore{daily: testBars("MSFT", 7)}
	uc := NewHistoryUseCase(store, fallback, nil)

	res, err := uc.GetHistory(context.Background(), GetHistoryParams{Symbol: "MSFT"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Count != 7 {
		t.Errorf("Count = %d, want 7 from the fallback", res.Count)
	}
	if fallback.dailyCalls != 1 {
		t.Errorf("fallback called %d times, want 1", fallback.dailyCalls)
	}
}

func TestGetHistoryNoHistory(t *testing.T) {
	uc := NewHistoryUseCase(&fakeBarStore{}, &fakeBarStore{}, nil)

	_, err := uc.GetHistory(context.Background(), GetHistoryParams{Symbol: "MSFT"})
	if !errors.Is(err, models.ErrNoHistory) {
		t.Errorf("err = %v, want ErrNoHistory", err)
	}
}

func TestGetHistoryAttachesStats(t *testing.T) {
	store := &fakeBarStore{daily: testBars("MSFT", 9)}
	uc := NewHistoryUseCase(store, nil, fakeAnalyzer{})

	res, err := uc.GetHistory(context.Background(), GetHistoryParams{Symbol: "MSFT"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Stats.Points != 9 {
		t.Errorf("Stats.Points = %d, want 9", res.Stats.Points)
	}
	if res.Stats.Symbol != "MSFT" {
		t.Errorf("Stats.Symbol = %q", res.Stats.Symbol)
	}
	if res.Stats.LastClose != 108 {
		t.Errorf("Stats.LastClose = %v, want 108", res.Stats.LastClose)
	}
}
