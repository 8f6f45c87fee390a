// Package stats provides the scalar statistics kernel shared by the
// simulation, portfolio, and stress packages. All functions are pure and
// allocation-light; callers pre-sort where documented.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean. Empty input returns 0.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// Median returns the 50th percentile of values. The input is copied and
// sorted internally.
func Median(values []float64) float64 {
	return Percentile(SortedCopy(values), 0.50)
}

// PopStdDev calculates population standard deviation (n denominator).
// Fewer than 2 samples return 0.
func PopStdDev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	mean := stat.Mean(values, nil)
	sumSq := 0.0
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(n))
}

// SampleStdDev calculates sample standard deviation (n-1 denominator).
// Fewer than 2 samples return 0.
func SampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return stat.StdDev(values, nil)
}

// SortedCopy returns a sorted copy of values.
func SortedCopy(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	sort.Float64s(out)
	return out
}

// Percentile uses linear interpolation between the two nearest ranks.
// sorted must be pre-sorted ASC. p is a fraction (0.05 = 5th percentile).
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// ValueAtRisk returns the loss magnitude at the given confidence level over
// a slice of period returns: abs of the (1-confidence) percentile. The
// result is reported as a non-negative number even when the tail percentile
// is a gain.
func ValueAtRisk(returns []float64, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	sorted := SortedCopy(returns)
	return math.Abs(Percentile(sorted, 1-confidence))
}

// ConditionalValueAtRisk returns the expected loss magnitude beyond the VaR
// threshold: abs of the mean of returns at or below the (1-confidence)
// percentile. Falls back to VaR when the tail is empty.
func ConditionalValueAtRisk(returns []float64, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	sorted := SortedCopy(returns)
	threshold := Percentile(sorted, 1-confidence)

	sum := 0.0
	count := 0
	for _, r := range sorted {
		if r <= threshold {
			sum += r
			count++
		}
	}
	if count == 0 {
		return math.Abs(threshold)
	}
	return math.Abs(sum / float64(count))
}

// SharpeRatio calculates (return - riskFree) / risk. Zero risk returns 0.
func SharpeRatio(expectedReturn, risk, riskFree float64) float64 {
	if risk == 0 {
		return 0
	}
	return (expectedReturn - riskFree) / risk
}

// MaxDrawdown calculates the worst peak-to-trough decline of a value series
// as a positive fraction of the peak. Peaks at or below zero contribute no
// drawdown. Empty input returns 0.
func MaxDrawdown(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	peak := values[0]
	maxDD := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak <= 0 {
			continue
		}
		dd := (peak - v) / peak
		if dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// CalmarRatio calculates annualized return over max drawdown. Zero drawdown
// returns 0.
func CalmarRatio(annualizedReturn, maxDrawdown float64) float64 {
	if maxDrawdown == 0 {
		return 0
	}
	return annualizedReturn / maxDrawdown
}

// AnnualizedReturn converts a total return over a holding period of
// `years` into a compound annual rate. Non-positive years or a total loss
// beyond -100% returns 0.
func AnnualizedReturn(totalReturn, years float64) float64 {
	if years <= 0 || totalReturn <= -1 {
		return 0
	}
	return math.Pow(1+totalReturn, 1/years) - 1
}
