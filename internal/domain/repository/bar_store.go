package repository

import (
	"context"
	"time"

	"PriceCast/internal/domain/models"
)

// BarStore provides read-only access to end-of-day bars for forecasting.
type BarStore interface {
	GetDailyBars(ctx context.Context, symbol string, from, to time.Time) ([]models.DailyBar, error)
	GetLatestNBars(ctx context.Context, symbol string, n int) ([]models.DailyBar, error)
}

// BarWriter persists end-of-day bars. The local store implements it so
// bars fetched from the remote history API can be backfilled.
type BarWriter interface {
	StoreDailyBars(ctx context.Context, bars []models.DailyBar) error
}
