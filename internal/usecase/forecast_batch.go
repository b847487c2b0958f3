package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"PriceCast/internal/domain/models"
	"PriceCast/pkg/util"
)

// BatchForecastUseCase fans one forecast request out over several symbols.
type BatchForecastUseCase struct {
	fc      *ForecastUseCase
	timeout time.Duration
	workers int
}

func NewBatchForecastUseCase(fc *ForecastUseCase) *BatchForecastUseCase {
	return &BatchForecastUseCase{fc: fc, timeout: 15 * time.Second, workers: 8}
}

type BatchForecastParams struct {
	Symbols     []string
	HorizonDays int
	Strategy    string
}

type BatchForecastResult struct {
	Timestamp time.Time
	Results   map[string]models.ForecastResult
	Errors    map[string]string
}

// Forecast runs the per-symbol usecase concurrently. Per-symbol failures
// land in Errors; one bad symbol never sinks the batch.
func (uc *BatchForecastUseCase) Forecast(ctx context.Context, p BatchForecastParams) (*BatchForecastResult, error) {
	if len(p.Symbols) == 0 {
		return nil, fmt.Errorf("symbols required")
	}

	// Overall timeout
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	seen := map[string]bool{}
	symbols := make([]string, 0, len(p.Symbols))
	for _, s := range p.Symbols {
		s = util.NormalizeSymbol(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		symbols = append(symbols, s)
	}

	type item struct {
		symbol string
		res    models.ForecastResult
		err    error
	}
	ch := make(chan item, len(symbols))
	sem := make(chan struct{}, uc.workers)
	var wg sync.WaitGroup

	for _, sym := range symbols {
		wg.Add(1)
		go func(sym string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			res, _, err := uc.fc.Forecast(ctx, ForecastParams{
				Symbol:      sym,
				HorizonDays: p.HorizonDays,
				Strategy:    p.Strategy,
			})
			ch <- item{sym, res, err}
		}(sym)
	}

	go func() { wg.Wait(); close(ch) }()

	out := &BatchForecastResult{
		Timestamp: time.Now(),
		Results:   map[string]models.ForecastResult{},
		Errors:    map[string]string{},
	}
	for it := range ch {
		if it.err != nil {
			out.Errors[it.symbol] = it.err.Error()
			continue
		}
		out.Results[it.symbol] = it.res
	}

	if len(out.Errors) == 0 {
		out.Errors = nil
	}
	return out, nil
}
