package mocks

import "time"

// DailyClose is one trading day served by the mock market data endpoints.
type DailyClose struct {
	Date  time.Time
	Close float64
}

// GenerateCloses returns n weekday closes ending on or before end. Prices
// start at base and move by step each day.
func GenerateCloses(end time.Time, n int, base, step float64) []DailyClose {
	day := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	out := make([]DailyClose, 0, n)
	for len(out) < n {
		if wd := day.Weekday(); wd != time.Saturday && wd != time.Sunday {
			out = append(out, DailyClose{Date: day})
		}
		day = day.AddDate(0, 0, -1)
	}

	// Oldest first
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	for i := range out {
		out[i].Close = base + float64(i)*step
	}
	return out
}

// YahooChartResponse mirrors the subset of /v8/finance/chart the service reads.
type YahooChartResponse struct {
	Chart YahooChart `json:"chart"`
}

type YahooChart struct {
	Result []YahooChartResult `json:"result"`
	Error  *YahooChartError   `json:"error"`
}

type YahooChartResult struct {
	Meta       YahooChartMeta       `json:"meta"`
	Timestamp  []int64              `json:"timestamp"`
	Indicators YahooChartIndicators `json:"indicators"`
}

type YahooChartMeta struct {
	Symbol               string `json:"symbol"`
	Currency             string `json:"currency"`
	ExchangeTimezoneName string `json:"exchangeTimezoneName"`
}

type YahooChartIndicators struct {
	Quote    []YahooQuote    `json:"quote"`
	AdjClose []YahooAdjClose `json:"adjclose"`
}

type YahooQuote struct {
	Close []*float64 `json:"close"`
}

type YahooAdjClose struct {
	AdjClose []*float64 `json:"adjclose"`
}

type YahooChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// AlphaVantageDailyResponse mirrors TIME_SERIES_DAILY.
type AlphaVantageDailyResponse struct {
	MetaData   map[string]string            `json:"Meta Data,omitempty"`
	TimeSeries map[string]map[string]string `json:"Time Series (Daily),omitempty"`
	Note       string                       `json:"Note,omitempty"`
	Error      string                       `json:"Error Message,omitempty"`
}
