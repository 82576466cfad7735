package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"stock-predictor/models"
	"stock-predictor/observability"
)

// AlphaVantageService handles communication with Alpha Vantage API
type AlphaVantageService struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// NewAlphaVantageService creates a new AlphaVantageService instance
func NewAlphaVantageService(apiKey, baseURL string) *AlphaVantageService {
	return &AlphaVantageService{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/") + "/query",
	}
}

// Name returns the provider name
func (s *AlphaVantageService) Name() string { return "alphavantage" }

// dailySeriesResponse is the TIME_SERIES_DAILY payload. Error conditions are
// reported in-band with HTTP 200.
type dailySeriesResponse struct {
	Note         string                       `json:"Note"`
	Information  string                       `json:"Information"`
	ErrorMessage string                       `json:"Error Message"`
	TimeSeries   map[string]map[string]string `json:"Time Series (Daily)"`
}

// GetDailyHistory returns daily closes between start and end inclusive
func (s *AlphaVantageService) GetDailyHistory(ctx context.Context, symbol string, start, end time.Time) (models.PriceSeries, error) {
	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest(s.Name(), opDailyHistory)
	timer := metrics.NewTimer()
	defer timer.ObserveExternalAPI(s.Name(), opDailyHistory)

	params := url.Values{}
	params.Set("function", "TIME_SERIES_DAILY")
	params.Set("symbol", symbol)
	params.Set("outputsize", "full")
	params.Set("apikey", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		metrics.RecordExternalAPIError(s.Name(), opDailyHistory, "request")
		return nil, fmt.Errorf("failed to fetch daily series: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordExternalAPIError(s.Name(), opDailyHistory, "read")
		return nil, fmt.Errorf("failed to read daily series: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		metrics.RecordExternalAPIError(s.Name(), opDailyHistory, "status")
		return nil, fmt.Errorf("alphavantage: status %d", resp.StatusCode)
	}

	var data dailySeriesResponse
	if err := json.Unmarshal(body, &data); err != nil {
		metrics.RecordExternalAPIError(s.Name(), opDailyHistory, "decode")
		return nil, fmt.Errorf("failed to decode daily series: %w", err)
	}

	switch {
	case data.Note != "":
		metrics.RecordExternalAPIError(s.Name(), opDailyHistory, "rate_limit")
		return nil, fmt.Errorf("API limit: %s", data.Note)
	case data.Information != "":
		metrics.RecordExternalAPIError(s.Name(), opDailyHistory, "rate_limit")
		return nil, fmt.Errorf("API limit: %s", data.Information)
	case data.ErrorMessage != "":
		// invalid symbols are reported this way
		metrics.RecordExternalAPIError(s.Name(), opDailyHistory, "not_found")
		return nil, fmt.Errorf("alphavantage %s: %s: %w", symbol, data.ErrorMessage, ErrNoData)
	}

	series := data.series(start, end)
	if len(series) == 0 {
		return nil, fmt.Errorf("alphavantage %s: %w", symbol, ErrNoData)
	}
	return series, nil
}

// series keeps dates inside [start, end]; an unparseable close becomes a gap
func (d *dailySeriesResponse) series(start, end time.Time) models.PriceSeries {
	from := start.Format(models.DateLayout)
	to := end.Format(models.DateLayout)

	series := make(models.PriceSeries, 0, len(d.TimeSeries))
	for ds, day := range d.TimeSeries {
		if ds < from || ds > to {
			continue
		}
		date, err := time.Parse(models.DateLayout, ds)
		if err != nil {
			continue
		}
		series = append(series, models.PricePoint{Date: date, Close: parseClose(day["4. close"])})
	}
	return series.Normalize()
}

func parseClose(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
