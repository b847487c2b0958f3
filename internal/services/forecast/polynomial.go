package forecast

import (
	"fmt"
	"math"
)

// fitPolynomial is the degradation target for the autoregressive strategy:
// a least-squares quadratic over positions 0..n-1, extrapolated over the
// horizon with a flat band of 1.96 * std(history). Unlike the AR fit it
// cannot fail on constant input (the normal equations stay nonsingular for
// n >= 3 distinct positions), which is exactly why it is the fallback.
func fitPolynomial(closes []float64, horizon int) (fitResult, error) {
	n := len(closes)
	if n < 3 {
		return fitResult{}, fmt.Errorf("need at least 3 points for a quadratic fit, got %d", n)
	}

	// Normal equations for y = a0 + a1*x + a2*x^2.
	var s0, s1, s2, s3, s4 float64
	var t0, t1, t2 float64
	for i, y := range closes {
		x := float64(i)
		x2 := x * x
		s0++
		s1 += x
		s2 += x2
		s3 += x2 * x
		s4 += x2 * x2
		t0 += y
		t1 += x * y
		t2 += x2 * y
	}

	coeffs, err := solve3x3([3][4]float64{
		{s0, s1, s2, t0},
		{s1, s2, s3, t1},
		{s2, s3, s4, t2},
	})
	if err != nil {
		return fitResult{}, err
	}

	mean := make([]float64, horizon)
	for i := range mean {
		x := float64(n + i)
		mean[i] = coeffs[0] + coeffs[1]*x + coeffs[2]*x*x
	}

	sigma := seriesStdDev(closes)
	return fitResult{mean: mean, sigma: sigma, grow: flatGrowth, name: NamePolynomial}, nil
}

// solve3x3 runs Gaussian elimination with partial pivoting on an augmented
// 3x4 system.
func solve3x3(m [3][4]float64) ([3]float64, error) {
	var out [3]float64

	for col := 0; col < 3; col++ {
		// Pivot on the largest magnitude entry in this column.
		pivot := col
		for row := col + 1; row < 3; row++ {
			if math.Abs(m[row][col]) > math.Abs(m[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(m[pivot][col]) < 1e-12 {
			return out, fmt.Errorf("singular system in quadratic fit")
		}
		m[col], m[pivot] = m[pivot], m[col]

		for row := col + 1; row < 3; row++ {
			f := m[row][col] / m[col][col]
			for k := col; k < 4; k++ {
				m[row][k] -= f * m[col][k]
			}
		}
	}

	for row := 2; row >= 0; row-- {
		v := m[row][3]
		for k := row + 1; k < 3; k++ {
			v -= m[row][k] * out[k]
		}
		out[row] = v / m[row][row]
	}

	return out, nil
}
