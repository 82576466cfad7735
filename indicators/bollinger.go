// Package indicators computes rolling statistics over daily price series.
package indicators

import (
	"math"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"

	"stock-predictor/models"
)

const (
	// Window is the number of trailing observations in every rolling statistic
	Window = 20

	// BandWidth is the number of standard deviations between the SMA and each band
	BandWidth = 2.0
)

// Analyze computes the 20-day SMA and Bollinger Bands for a series.
// Positions without a full gap-free window are dropped, so a clean series of
// n >= 20 points yields n-19 records and a shorter one yields none. Incomplete
// points contribute to their neighbours' windows but are not emitted.
// Every numeric field of the result is rounded to two decimal places.
func Analyze(series models.PriceSeries) []models.AnalyzedPoint {
	closes := series.Closes()
	sma := RollingMean(closes, Window)
	stdDev := RollingStdDev(closes, Window)

	points := make([]models.AnalyzedPoint, 0, max(0, len(series)-Window+1))
	for i, p := range series {
		upper := sma[i] + BandWidth*stdDev[i]
		lower := sma[i] - BandWidth*stdDev[i]

		if p.Incomplete || !allFinite(p.Close, sma[i], stdDev[i], upper, lower) {
			continue
		}

		points = append(points, models.AnalyzedPoint{
			Date:  p.Date,
			Close: Round2(p.Close),
			SMA:   Round2(sma[i]),
			Upper: Round2(upper),
			Lower: Round2(lower),
		})
	}
	return points
}

// RollingMean returns the trailing arithmetic mean over window observations.
// The first window-1 positions, and any window containing NaN, are NaN.
func RollingMean(values []float64, window int) []float64 {
	return rolling(values, window, stats.Mean)
}

// RollingStdDev returns the trailing sample (n-1) standard deviation over
// window observations, with the same undefined positions as RollingMean.
func RollingStdDev(values []float64, window int) []float64 {
	return rolling(values, window, stats.StandardDeviationSample)
}

func rolling(values []float64, window int, fn func(stats.Float64Data) (float64, error)) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}
	if window <= 0 {
		return out
	}

	for i := window - 1; i < len(values); i++ {
		w := values[i-window+1 : i+1]
		if hasNaN(w) {
			continue
		}
		v, err := fn(w)
		if err != nil {
			continue
		}
		out[i] = v
	}
	return out
}

// Round2 rounds to two decimal places by scaling the binary value by 100 and
// rounding half-to-even, the way numpy's round does. 1.015 is stored just
// below the tie, so it becomes 1.01.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v * 100).RoundBank(0).Div(hundred).InexactFloat64()
}

var hundred = decimal.NewFromInt(100)

func hasNaN(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

func allFinite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
