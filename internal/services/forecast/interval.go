package forecast

// zScore maps a confidence level to its normal quantile.
func zScore(confidence float64) float64 {
	switch confidence {
	case 0.99:
		return 2.576
	case 0.95:
		return 1.96
	case 0.90:
		return 1.645
	default:
		return 1.96
	}
}

// bandConfidence is fixed for every strategy.
const bandConfidence = 0.95

// predictionBand builds the lower and upper bounds around a mean path:
// band(i) = z * sigma * grow(i). Bounds are never clipped, so a wide band
// over a low price legitimately produces negative lower bounds.
func predictionBand(mean []float64, sigma float64, grow growthFunc) (lower, upper []float64) {
	z := zScore(bandConfidence)
	lower = make([]float64, len(mean))
	upper = make([]float64, len(mean))
	for i, m := range mean {
		width := z * sigma * grow(i)
		if width < 0 {
			width = -width
		}
		lower[i] = m - width
		upper[i] = m + width
	}
	return lower, upper
}
