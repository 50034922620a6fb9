package typist

import "math"

// Correlation computes the Pearson correlation coefficient between two
// equal-length series. The boolean result reports whether the coefficient
// is defined: it is false when the series are empty or their lengths
// differ.
//
// When both series are constant the usual formula degenerates to 0/0. Two
// constant series with the same mean are treated as perfectly correlated
// and yield 1; every other degenerate pairing yields 0.
func Correlation(x, y []float64) (float64, bool) {
	if len(x) == 0 || len(x) != len(y) {
		return 0, false
	}

	n := float64(len(x))
	var meanX, meanY float64
	for i := range x {
		meanX += x[i]
		meanY += y[i]
	}
	meanX /= n
	meanY /= n

	var cov, varX, varY float64
	for i := range x {
		dx := x[i] - meanX
		dy := y[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	denom := math.Sqrt(varX * varY)
	if denom < almostZero {
		if varX < almostZero && varY < almostZero && math.Abs(meanX-meanY) < almostZero {
			return 1, true
		}
		return 0, true
	}
	return cov / denom, true
}
