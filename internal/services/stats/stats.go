package stats

import (
	"math"

	"PriceCast/internal/domain/models"
	domsvc "PriceCast/internal/domain/service"
)

// TradingDaysPerYear is the usual equity-market convention.
const TradingDaysPerYear = 252

// Analyzer computes summary statistics over daily close series.
type Analyzer struct{}

var _ domsvc.SeriesAnalyzer = (*Analyzer)(nil)

func NewAnalyzer() *Analyzer { return &Analyzer{} }

// Stats summarizes a series for the history endpoint.
func (a *Analyzer) Stats(symbol string, series models.HistoricalSeries) models.SeriesStats {
	closes := series.Closes()

	st := models.SeriesStats{
		Symbol:    symbol,
		Points:    series.Len(),
		FirstDate: series.At(0).Date,
		LastDate:  series.LastDate(),
		LastClose: series.LastClose(),
		MinClose:  closes[0],
		MaxClose:  closes[0],
	}

	var sum, sum2 float64
	for _, c := range closes {
		sum += c
		sum2 += c * c
		if c < st.MinClose {
			st.MinClose = c
		}
		if c > st.MaxClose {
			st.MaxClose = c
		}
	}

	n := float64(len(closes))
	st.MeanClose = sum / n
	variance := sum2/n - st.MeanClose*st.MeanClose
	if variance < 0 {
		variance = 0
	}
	st.StdDev = math.Sqrt(variance)

	if first := closes[0]; first != 0 {
		st.TotalReturn = series.LastClose()/first - 1
	}

	return st
}

// ComputeLogReturns computes log returns r_t = ln(C_t / C_{t-1}).
// It returns a slice of length len(closes)-1, or nil if insufficient data.
func ComputeLogReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		prev := closes[i-1]
		cur := closes[i]
		if prev <= 0 || cur <= 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, math.Log(cur/prev))
	}
	return out
}

// RealizedVolatility computes annualized realized volatility over the last
// `window` daily log returns.
func RealizedVolatility(logReturns []float64, window int) float64 {
	if window <= 1 || len(logReturns) < window {
		return 0
	}
	sum := 0.0
	sum2 := 0.0
	for i := len(logReturns) - window; i < len(logReturns); i++ {
		r := logReturns[i]
		sum += r
		sum2 += r * r
	}
	n := float64(window)
	mean := sum / n
	variance := (sum2 - n*mean*mean) / (n - 1)
	if variance < 0 {
		variance = 0
	}
	// annualize
	return math.Sqrt(variance * TradingDaysPerYear)
}
