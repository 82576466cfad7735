package models

import (
	"encoding/json"
	"time"
)

// AnalyzedPoint is one trading day with its 20-day SMA and Bollinger Bands.
// All numeric fields are rounded to two decimal places.
type AnalyzedPoint struct {
	Date  time.Time `json:"-"`
	Close float64   `json:"close"`
	SMA   float64   `json:"sma"`
	Upper float64   `json:"upper"`
	Lower float64   `json:"lower"`
}

// MarshalJSON renders the date as YYYY-MM-DD
func (p AnalyzedPoint) MarshalJSON() ([]byte, error) {
	type alias AnalyzedPoint
	return json.Marshal(struct {
		Date string `json:"date"`
		alias
	}{
		Date:  p.Date.Format(DateLayout),
		alias: alias(p),
	})
}

// Prediction is the successful result of analysing one ticker
type Prediction struct {
	Ticker string          `json:"ticker"`
	Points []AnalyzedPoint `json:"data"`
}

// UnmarshalJSON parses the YYYY-MM-DD date written by MarshalJSON
func (p *AnalyzedPoint) UnmarshalJSON(data []byte) error {
	type alias AnalyzedPoint
	aux := struct {
		Date string `json:"date"`
		*alias
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	date, err := time.Parse(DateLayout, aux.Date)
	if err != nil {
		return err
	}
	p.Date = date
	return nil
}
