package service

import (
	"PriceCast/internal/domain/models"
)

// PriceForecaster projects a future price path with an uncertainty band.
// Implementations are pure, synchronous and deterministic: identical
// requests yield identical results, and nothing escapes the boundary as an
// error or a panic. Failures come back as a ForecastResult with
// Success=false. No context parameter: there is no I/O to cancel.
type PriceForecaster interface {
	Forecast(req models.ForecastRequest) models.ForecastResult
}

// SeriesAnalyzer computes summary statistics over a historical series.
type SeriesAnalyzer interface {
	Stats(symbol string, series models.HistoricalSeries) models.SeriesStats
}
