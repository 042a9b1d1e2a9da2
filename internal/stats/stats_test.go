package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeDiv(t *testing.T) {
	tests := []struct {
		name string
		num  float64
		den  float64
		want float64
	}{
		{"plain", 10, 4, 2.5},
		{"zero denominator", 10, 0, math.NaN()},
		{"missing numerator", math.NaN(), 4, math.NaN()},
		{"missing denominator", 10, math.NaN(), math.NaN()},
		{"negative denominator", 10, -2, -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SafeDiv(tt.num, tt.den)
			if math.IsNaN(tt.want) {
				assert.True(t, math.IsNaN(got))
				return
			}
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestSafeRatio_NonPositiveDenominator(t *testing.T) {
	assert.True(t, math.IsNaN(SafeRatio(10, 0)))
	assert.True(t, math.IsNaN(SafeRatio(10, -2)))
	assert.InDelta(t, 2.5, SafeRatio(10, 4), 1e-12)
}

func TestSafeLog(t *testing.T) {
	assert.True(t, math.IsNaN(SafeLog(0)))
	assert.True(t, math.IsNaN(SafeLog(-1)))
	assert.True(t, math.IsNaN(SafeLog(math.NaN())))
	assert.InDelta(t, 0, SafeLog(1), 1e-12)
}

func TestAggregatesDropMissing(t *testing.T) {
	xs := []float64{1, math.NaN(), 3, 5, math.NaN()}

	assert.InDelta(t, 9, Sum(xs), 1e-12)
	assert.InDelta(t, 3, Mean(xs), 1e-12)
	assert.InDelta(t, 3, Median(xs), 1e-12)
	assert.InDelta(t, 2, StdDev(xs), 1e-12)
}

func TestAggregatesEmpty(t *testing.T) {
	var none []float64
	all := []float64{math.NaN(), math.NaN()}

	assert.Zero(t, Sum(none))
	assert.True(t, math.IsNaN(Mean(all)))
	assert.True(t, math.IsNaN(Median(all)))
	assert.True(t, math.IsNaN(StdDev([]float64{1})))
}

func TestMedianEvenCount(t *testing.T) {
	assert.InDelta(t, 2.5, Median([]float64{4, 1, 3, 2}), 1e-12)
}

func TestWeightedMean(t *testing.T) {
	xs := []float64{10, 20, math.NaN()}
	ws := []float64{1, 3, 100}
	assert.InDelta(t, 17.5, WeightedMean(xs, ws), 1e-12)

	assert.True(t, math.IsNaN(WeightedMean([]float64{math.NaN()}, []float64{1})))
}

func TestZScores(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	zs := ZScores(xs)
	require.Len(t, zs, 5)

	// Re-standardizing must land on mean 0, sample std-dev 1.
	assert.InDelta(t, 0, Mean(zs), 1e-12)
	assert.InDelta(t, 1, StdDev(zs), 1e-12)
}

func TestZScoresPreserveMissing(t *testing.T) {
	zs := ZScores([]float64{1, math.NaN(), 3})
	require.Len(t, zs, 3)
	assert.True(t, math.IsNaN(zs[1]))
	assert.False(t, math.IsNaN(zs[0]))
}
