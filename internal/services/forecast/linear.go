package forecast

import (
	"fmt"
	"math"
)

// fitLinear fits an ordinary least squares line over positions 0..n-1 and
// extrapolates it to positions n..n+horizon-1. Sigma is the standard
// deviation of the in-sample residuals, so the band width is the same at
// every step.
func fitLinear(closes []float64, horizon int) (fitResult, error) {
	n := len(closes)

	var sumX, sumY, sumXY, sumX2 float64
	for i, y := range closes {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}

	fn := float64(n)
	den := fn*sumX2 - sumX*sumX
	if den == 0 {
		return fitResult{}, fmt.Errorf("degenerate positions: zero variance in x")
	}

	slope := (fn*sumXY - sumX*sumY) / den
	intercept := (sumY - slope*sumX) / fn

	var sumRes2 float64
	for i, y := range closes {
		r := y - (intercept + slope*float64(i))
		sumRes2 += r * r
	}
	sigma := math.Sqrt(sumRes2 / fn)

	mean := make([]float64, horizon)
	for i := range mean {
		mean[i] = intercept + slope*float64(n+i)
	}

	return fitResult{mean: mean, sigma: sigma, grow: flatGrowth, name: NameLinear}, nil
}
