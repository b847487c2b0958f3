package usecase

import (
	"context"
	"fmt"
	"time"

	"PriceCast/internal/domain/models"
	domrepo "PriceCast/internal/domain/repository"
	domsvc "PriceCast/internal/domain/service"
	"PriceCast/pkg/util"
)

const maxHistoryDays = 3650

// HistoryUseCase retrieves stored daily bars plus summary statistics.
type HistoryUseCase struct {
	bars     domrepo.BarStore
	fallback domrepo.BarStore
	analyzer domsvc.SeriesAnalyzer
}

func NewHistoryUseCase(bars domrepo.BarStore, fallback domrepo.BarStore, analyzer domsvc.SeriesAnalyzer) *HistoryUseCase {
	return &HistoryUseCase{bars: bars, fallback: fallback, analyzer: analyzer}
}

type GetHistoryParams struct {
	Symbol string
	Days   int
	// From/To select an explicit window when both are set; Days applies
	// otherwise.
	From time.Time
	To   time.Time
}

type GetHistoryResult struct {
	Symbol string
	From   time.Time
	To     time.Time
	Count  int
	Bars   []models.DailyBar
	Stats  models.SeriesStats
}

func (uc *HistoryUseCase) GetHistory(ctx context.Context, p GetHistoryParams) (*GetHistoryResult, error) {
	symbol := util.NormalizeSymbol(p.Symbol)
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	var from, to time.Time
	if !p.From.IsZero() && !p.To.IsZero() {
		from, to = util.AlignToDays(p.From, p.To)
		if to.Before(from) {
			return nil, fmt.Errorf("from %s is after to %s", from.Format(time.DateOnly), to.Format(time.DateOnly))
		}
	} else {
		days := domrepo.ClampLimit(p.Days, maxHistoryDays)
		if days < 2 {
			days = 180
		}
		from, to = domrepo.LookbackRange(time.Now().UTC(), days)
	}

	bars, err := uc.bars.GetDailyBars(ctx, symbol, from, to)
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	if len(bars) == 0 && uc.fallback != nil {
		bars, err = uc.fallback.GetDailyBars(ctx, symbol, from, to)
		if err != nil {
			return nil, fmt.Errorf("get history: %w", err)
		}
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w for %s", models.ErrNoHistory, symbol)
	}

	res := &GetHistoryResult{
		Symbol: symbol,
		From:   from,
		To:     to,
		Count:  len(bars),
		Bars:   bars,
	}
	if uc.analyzer != nil {
		if series, serr := models.SeriesFromBars(bars); serr == nil {
			res.Stats = uc.analyzer.Stats(symbol, series)
		}
	}
	return res, nil
}
