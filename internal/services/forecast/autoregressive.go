package forecast

import (
	"fmt"
	"math"
)

const arOrder = 3

// fitAutoRegressive fits an AR(3) model via the Yule-Walker equations and
// rolls it forward one step at a time, feeding each forecast back in for the
// next. Sigma is the standard deviation of the whole history; the band
// widens with sqrt(step+1), damped by 0.5.
//
// Any numerical trouble (constant input, a singular recursion, coefficients
// blowing up) comes back as an error so the caller can degrade to the
// polynomial trend.
func fitAutoRegressive(closes []float64, horizon int) (fitResult, error) {
	n := len(closes)
	if n < arOrder+2 {
		return fitResult{}, fmt.Errorf("need at least %d points for AR(%d), got %d", arOrder+2, arOrder, n)
	}

	mu := seriesMean(closes)
	centered := make([]float64, n)
	for i, v := range closes {
		centered[i] = v - mu
	}

	acf, err := autocorrelation(centered, arOrder)
	if err != nil {
		return fitResult{}, err
	}

	phi, err := levinsonDurbin(acf, arOrder)
	if err != nil {
		return fitResult{}, err
	}
	for _, c := range phi {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fitResult{}, fmt.Errorf("autoregressive coefficients did not converge")
		}
	}

	// Recursive multi-step forecast on the centered scale.
	recent := append([]float64(nil), centered...)
	mean := make([]float64, horizon)
	for h := 0; h < horizon; h++ {
		var next float64
		for j := 0; j < arOrder; j++ {
			next += phi[j] * recent[len(recent)-1-j]
		}
		if math.IsNaN(next) || math.IsInf(next, 0) {
			return fitResult{}, fmt.Errorf("autoregressive forecast diverged at step %d", h)
		}
		recent = append(recent, next)
		mean[h] = next + mu
	}

	sigma := seriesStdDev(closes)
	return fitResult{mean: mean, sigma: sigma, grow: wideningGrowth(0.5), name: NameAutoRegressive}, nil
}

// autocorrelation computes the ACF of a centered series up to lag k.
// A zero-variance series has no autocorrelation structure to fit.
func autocorrelation(centered []float64, k int) ([]float64, error) {
	n := len(centered)

	var variance float64
	for _, v := range centered {
		variance += v * v
	}
	if variance == 0 {
		return nil, fmt.Errorf("constant input: series has zero variance")
	}

	acf := make([]float64, k)
	for lag := 1; lag <= k; lag++ {
		var cov float64
		for t := lag; t < n; t++ {
			cov += centered[t] * centered[t-lag]
		}
		acf[lag-1] = cov / variance
	}
	return acf, nil
}

// levinsonDurbin solves the Yule-Walker equations for AR coefficients.
func levinsonDurbin(acf []float64, p int) ([]float64, error) {
	if len(acf) < p {
		return nil, fmt.Errorf("need %d autocorrelations, got %d", p, len(acf))
	}

	phi := make([]float64, p)
	prev := make([]float64, p)

	phi[0] = acf[0]
	v := 1 - acf[0]*acf[0]
	copy(prev, phi)

	for k := 2; k <= p; k++ {
		if v <= 0 {
			return nil, fmt.Errorf("singular system in yule-walker recursion at order %d", k)
		}

		num := acf[k-1]
		for j := 1; j < k; j++ {
			num -= prev[j-1] * acf[k-1-j]
		}

		lambda := num / v
		phi[k-1] = lambda
		for j := 0; j < k-1; j++ {
			phi[j] = prev[j] - lambda*prev[k-2-j]
		}

		v *= 1 - lambda*lambda
		copy(prev, phi)
	}

	return phi, nil
}
