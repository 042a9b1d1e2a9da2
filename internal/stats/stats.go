// Package stats provides missing-safe arithmetic and NaN-filtering
// aggregates. NaN is the missing value everywhere in the pipeline; every
// reduction here drops NaN inputs before delegating to gonum, and every
// ratio helper yields NaN instead of Inf. Silent propagation is the policy:
// a bad row degrades one output value, never the run.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Missing returns the missing-value marker.
func Missing() float64 { return math.NaN() }

// IsMissing reports whether x is the missing-value marker.
func IsMissing(x float64) bool { return math.IsNaN(x) }

// SafeDiv divides num by den, returning NaN when the denominator is zero or
// either operand is missing.
func SafeDiv(num, den float64) float64 {
	if den == 0 || math.IsNaN(num) || math.IsNaN(den) {
		return math.NaN()
	}
	return num / den
}

// SafeRatio is SafeDiv with an additional guard: a non-positive denominator
// yields NaN. Growth-rate style ratios use this to avoid sign artifacts.
func SafeRatio(num, den float64) float64 {
	if den <= 0 {
		return math.NaN()
	}
	return SafeDiv(num, den)
}

// SafeLog returns the natural log, NaN for non-positive or missing inputs.
func SafeLog(x float64) float64 {
	if x <= 0 || math.IsNaN(x) {
		return math.NaN()
	}
	return math.Log(x)
}

func dropMissing(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}

// Sum returns the sum of the non-missing values, 0 when none remain.
func Sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		if !math.IsNaN(x) {
			s += x
		}
	}
	return s
}

// Mean returns the unweighted mean of the non-missing values, NaN when none
// remain.
func Mean(xs []float64) float64 {
	v := dropMissing(xs)
	if len(v) == 0 {
		return math.NaN()
	}
	return stat.Mean(v, nil)
}

// WeightedMean returns the weighted mean over pairs where both the value and
// the weight are present. NaN when no usable pair remains.
func WeightedMean(xs, ws []float64) float64 {
	var v, w []float64
	for i, x := range xs {
		if math.IsNaN(x) || math.IsNaN(ws[i]) {
			continue
		}
		v = append(v, x)
		w = append(w, ws[i])
	}
	if len(v) == 0 {
		return math.NaN()
	}
	return stat.Mean(v, w)
}

// Median returns the interpolated median of the non-missing values (mean of
// the two middle order statistics for even counts), NaN when none remain.
func Median(xs []float64) float64 {
	v := dropMissing(xs)
	if len(v) == 0 {
		return math.NaN()
	}
	sort.Float64s(v)
	n := len(v)
	if n%2 == 1 {
		return v[n/2]
	}
	return (v[n/2-1] + v[n/2]) / 2
}

// StdDev returns the sample standard deviation (divisor n-1) of the
// non-missing values, NaN when fewer than two remain.
func StdDev(xs []float64) float64 {
	v := dropMissing(xs)
	if len(v) < 2 {
		return math.NaN()
	}
	return stat.StdDev(v, nil)
}

// ZScores returns (x - mean) / stddev for each input, using the sample
// standard deviation over the non-missing values. Missing inputs stay
// missing.
func ZScores(xs []float64) []float64 {
	m := Mean(xs)
	sd := StdDev(xs)
	out := make([]float64, len(xs))
	for i, x := range xs {
		if math.IsNaN(x) {
			out[i] = math.NaN()
			continue
		}
		out[i] = SafeDiv(x-m, sd)
	}
	return out
}
