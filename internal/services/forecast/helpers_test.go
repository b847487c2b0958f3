package forecast

import (
	"math"
	"time"

	"PriceCast/internal/domain/models"
)

// Common test data and helpers for the forecast package.

// testStart is a Monday so business-day expectations are easy to read.
var testStart = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

// makeSeries builds a series with one close per consecutive calendar day.
func makeSeries(closes []float64) models.HistoricalSeries {
	points := make([]models.PricePoint, len(closes))
	for i, c := range closes {
		points[i] = models.PricePoint{
			Date:  testStart.AddDate(0, 0, i),
			Close: c,
		}
	}
	s, err := models.NewHistoricalSeries(points)
	if err != nil {
		panic(err)
	}
	return s
}

// linearCloses generates y = intercept + slope*i for i in 0..n-1.
func linearCloses(n int, intercept, slope float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = intercept + slope*float64(i)
	}
	return out
}

func constantCloses(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// wavyCloses generates a deterministic trend-plus-oscillation series, noisy
// enough to give the fits a nonzero sigma without any randomness.
func wavyCloses(n int, base, slope, amplitude float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = base + slope*float64(i) + amplitude*math.Sin(float64(i)*0.7)
	}
	return out
}

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
