package models

import (
	"math"
	"sort"
	"time"
)

// DateLayout is the calendar date format used on the wire
const DateLayout = "2006-01-02"

// PricePoint is one trading day's close. A NaN close marks a gap the
// provider reported without a price. Incomplete marks a day whose close is
// known but whose other OHLC fields are missing; its close still counts in
// rolling windows, but the day itself is never reported.
type PricePoint struct {
	Date       time.Time `json:"date"`
	Close      float64   `json:"close"`
	Incomplete bool      `json:"incomplete,omitempty"`
}

// IsGap reports whether the point is missing its close
func (p PricePoint) IsGap() bool {
	return math.IsNaN(p.Close)
}

// PriceSeries is a chronologically ascending run of daily closes
type PriceSeries []PricePoint

// Closes returns the close column in series order
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, p := range s {
		closes[i] = p.Close
	}
	return closes
}

// Normalize returns a copy sorted by date with one point per calendar day.
// When a day appears more than once the later entry wins.
func (s PriceSeries) Normalize() PriceSeries {
	if len(s) == 0 {
		return PriceSeries{}
	}

	sorted := make(PriceSeries, len(s))
	copy(sorted, s)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	out := make(PriceSeries, 0, len(sorted))
	for _, p := range sorted {
		if n := len(out); n > 0 && sameDay(out[n-1].Date, p.Date) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}

func sameDay(a, b time.Time) bool {
	return a.Format(DateLayout) == b.Format(DateLayout)
}
