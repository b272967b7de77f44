// Package perf reduces a daily-return series into summary statistics:
// mean, sample volatility, and an annualized risk-adjusted ratio.
package perf

import "math"

// DefaultAnnualization is the trading-day count used to annualize the
// risk-adjusted ratio.
const DefaultAnnualization = 252

// Mean returns the arithmetic mean of xs, NaN for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// SampleStdDev returns the sample standard deviation of xs (n-1 divisor),
// NaN when fewer than two observations exist.
func SampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return math.NaN()
	}
	mean := Mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

// SharpeRatio annualizes mean/vol by sqrt(annualization). A zero or
// undefined volatility yields NaN, never an infinity or a panic.
func SharpeRatio(mean, vol, annualization float64) float64 {
	if math.IsNaN(vol) || vol <= 0 {
		return math.NaN()
	}
	return mean / vol * math.Sqrt(annualization)
}
