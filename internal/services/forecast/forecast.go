// Package forecast projects stock closing prices over a business-day
// horizon. Models fit on integer positions 0..n-1 of the input closes;
// calendar dates are attached afterwards and never enter the numerics.
package forecast

import "math"

// Display names reported in ForecastResult.StrategyUsed. They name the model
// that actually produced the numbers, which for the autoregressive path may
// be the polynomial fallback. Exported so callers can tell a degraded fit
// from a healthy one.
const (
	NameLinear         = "Linear Regression"
	NameAutoRegressive = "AutoRegressive(3)"
	NamePolynomial     = "Polynomial Trend"
	NameSmoothing      = "Exponential Smoothing"
)

const minDataPoints = 10

// growthFunc scales the confidence band at forecast step i (0-based).
type growthFunc func(step int) float64

func flatGrowth(int) float64 { return 1 }

// wideningGrowth returns sqrt(step+1) damped by scale, so uncertainty grows
// with distance from the last observation.
func wideningGrowth(scale float64) growthFunc {
	return func(step int) float64 {
		return math.Sqrt(float64(step+1)) * scale
	}
}

// fitResult is the uniform model output: a mean path over the horizon, the
// sigma feeding the confidence band, the band growth profile, and the
// display name of the model that produced it.
type fitResult struct {
	mean  []float64
	sigma float64
	grow  growthFunc
	name  string
}

// fitFunc is the uniform model contract shared by every strategy.
type fitFunc func(closes []float64, horizon int) (fitResult, error)

func seriesMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// seriesStdDev is the population standard deviation.
func seriesStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mu := seriesMean(values)
	var sum2 float64
	for _, v := range values {
		d := v - mu
		sum2 += d * d
	}
	return math.Sqrt(sum2 / float64(len(values)))
}
