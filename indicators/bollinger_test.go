package indicators

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-predictor/models"
)

// makeSeries builds consecutive weekday points starting on Monday 2024-01-01
func makeSeries(closes ...float64) models.PriceSeries {
	series := make(models.PriceSeries, 0, len(closes))
	d := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	for _, c := range closes {
		for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			d = d.AddDate(0, 0, 1)
		}
		series = append(series, models.PricePoint{Date: d, Close: c})
		d = d.AddDate(0, 0, 1)
	}
	return series
}

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func ramp(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i + 1)
	}
	return out
}

func TestAnalyze_Length(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want int
	}{
		{"empty", 0, 0},
		{"one point", 1, 0},
		{"nineteen points", 19, 0},
		{"exactly one window", 20, 1},
		{"typical half year", 124, 105},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Analyze(makeSeries(ramp(tt.n)...))
			assert.Len(t, got, tt.want)
		})
	}
}

func TestAnalyze_ConstantPrice(t *testing.T) {
	series := makeSeries(constant(25, 100.0)...)

	got := Analyze(series)

	require.Len(t, got, 6)
	for i, p := range got {
		assert.Equal(t, 100.0, p.Close, "close at %d", i)
		assert.Equal(t, 100.0, p.SMA, "sma at %d", i)
		assert.Equal(t, 100.0, p.Upper, "upper at %d", i)
		assert.Equal(t, 100.0, p.Lower, "lower at %d", i)
		assert.Equal(t, series[i+19].Date, p.Date, "date at %d", i)
	}
}

func TestAnalyze_KnownValues(t *testing.T) {
	// closes 1..20: mean 10.5, sample variance 665/19 = 35
	got := Analyze(makeSeries(ramp(20)...))

	require.Len(t, got, 1)
	p := got[0]
	assert.Equal(t, 20.0, p.Close)
	assert.Equal(t, 10.5, p.SMA)
	assert.Equal(t, Round2(10.5+2*math.Sqrt(35)), p.Upper)
	assert.Equal(t, Round2(10.5-2*math.Sqrt(35)), p.Lower)
	assert.Equal(t, 22.33, p.Upper)
	assert.Equal(t, -1.33, p.Lower)
}

func TestAnalyze_BandOrdering(t *testing.T) {
	closes := make([]float64, 120)
	for i := range closes {
		closes[i] = 150 + 12*math.Sin(float64(i)/5) + float64(i%7)*0.37
	}

	for _, p := range Analyze(makeSeries(closes...)) {
		assert.GreaterOrEqual(t, p.Upper, p.SMA)
		assert.GreaterOrEqual(t, p.SMA, p.Lower)
	}
}

func TestAnalyze_TwoDecimalPlaces(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 87.123456 + float64(i)*0.318713
	}

	for _, p := range Analyze(makeSeries(closes...)) {
		for _, v := range []float64{p.Close, p.SMA, p.Upper, p.Lower} {
			scaled := v * 100
			assert.InDelta(t, math.Round(scaled), scaled, 1e-6, "value %v has more than 2 decimals", v)
		}
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	closes := make([]float64, 50)
	for i := range closes {
		closes[i] = 40 + math.Cos(float64(i))*3
	}
	series := makeSeries(closes...)

	first := Analyze(series)
	second := Analyze(series)

	assert.Equal(t, first, second)
}

func TestAnalyze_Gaps(t *testing.T) {
	closes := ramp(30)
	closes[24] = math.NaN()

	got := Analyze(makeSeries(closes...))

	// windows ending at 19..23 precede the gap; every later window contains it
	require.Len(t, got, 5)
	assert.Equal(t, 24.0, got[len(got)-1].Close)
}

func TestAnalyze_GapRecovers(t *testing.T) {
	closes := ramp(45)
	closes[2] = math.NaN()

	got := Analyze(makeSeries(closes...))

	// the first window clear of index 2 ends at index 22
	require.Len(t, got, 45-22)
	assert.Equal(t, 23.0, got[0].Close)
}

func TestAnalyze_IncompleteDayNotEmitted(t *testing.T) {
	series := makeSeries(ramp(30)...)
	full := Analyze(series)
	require.Len(t, full, 11)

	series[24].Incomplete = true
	got := Analyze(series)

	// index 24 is skipped; its close still shapes the windows around it
	require.Len(t, got, 10)
	want := append(append([]models.AnalyzedPoint{}, full[:5]...), full[6:]...)
	assert.Equal(t, want, got)
}

func TestRollingMean(t *testing.T) {
	got := RollingMean([]float64{1, 2, 3, 4, 5}, 3)

	require.Len(t, got, 5)
	assert.True(t, math.IsNaN(got[0]))
	assert.True(t, math.IsNaN(got[1]))
	assert.Equal(t, []float64{2, 3, 4}, got[2:])
}

func TestRollingStdDev(t *testing.T) {
	got := RollingStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}, 8)

	require.Len(t, got, 8)
	for i := 0; i < 7; i++ {
		assert.True(t, math.IsNaN(got[i]), "position %d should be undefined", i)
	}
	// sample variance of the set is 32/7
	assert.InDelta(t, math.Sqrt(32.0/7.0), got[7], 1e-12)
}

func TestRolling_InvalidWindow(t *testing.T) {
	for _, v := range RollingMean([]float64{1, 2, 3}, 0) {
		assert.True(t, math.IsNaN(v))
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{100, 100},
		{1.234, 1.23},
		{1.236, 1.24},
		{2.675, 2.68},
		{2.665, 2.66},
		{-1.335, -1.34},
		{0.125, 0.12},
		{1.015, 1.01},
		{0.545, 0.55},
		{0.575, 0.57},
		{1.225, 1.23},
		{123.445, 123.44},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Round2(tt.in), "Round2(%v)", tt.in)
	}
}

func TestRound2_MatchesScaledRoundToEven(t *testing.T) {
	for cents := 0; cents < 100000; cents++ {
		v := float64(cents)/100 + 0.005
		want := math.RoundToEven(v*100) / 100
		if got := Round2(v); got != want {
			t.Fatalf("Round2(%v) = %v, want %v", v, got, want)
		}
	}
}
