package forecast

// smoothingAlpha matches the single-parameter smoother this replaces.
const smoothingAlpha = 0.3

// fitExpSmoothing projects a path anchored to the last observed close:
//
//	forecast[0] = last
//	forecast[i] = alpha*forecast[i-1] + (1-alpha)*last
//
// The recurrence is kept exactly in this form rather than rewritten as
// textbook exponential smoothing: downstream consumers rely on the mean path
// converging to the last close while the band still widens with
// sqrt(step+1), damped by 0.4.
func fitExpSmoothing(closes []float64, horizon int) (fitResult, error) {
	last := closes[len(closes)-1]

	mean := make([]float64, horizon)
	for i := range mean {
		if i == 0 {
			mean[i] = last
			continue
		}
		mean[i] = smoothingAlpha*mean[i-1] + (1-smoothingAlpha)*last
	}

	sigma := seriesStdDev(closes)
	return fitResult{mean: mean, sigma: sigma, grow: wideningGrowth(0.4), name: NameSmoothing}, nil
}
