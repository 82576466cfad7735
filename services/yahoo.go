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

// YahooService reads daily history from the Yahoo Finance chart API
type YahooService struct {
	baseURL    string
	httpClient *http.Client
	symbolMap  map[string]string
}

// NewYahooService creates a Yahoo chart client. proxyURL is optional.
func NewYahooService(baseURL, proxyURL string) *YahooService {
	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooService{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		symbolMap: map[string]string{
			"SPX":   "^GSPC",
			"SP500": "^GSPC",
		},
	}
}

// Name returns the provider name
func (s *YahooService) Name() string { return "yahoo" }

func (s *YahooService) yahooSymbol(symbol string) string {
	if mapped, ok := s.symbolMap[strings.ToUpper(symbol)]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure of /v8/finance/chart
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol               string `json:"symbol"`
				ExchangeTimezoneName string `json:"exchangeTimezoneName"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open  []*float64 `json:"open"`
					High  []*float64 `json:"high"`
					Low   []*float64 `json:"low"`
					Close []*float64 `json:"close"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// GetDailyHistory returns adjusted daily closes between start and end
func (s *YahooService) GetDailyHistory(ctx context.Context, symbol string, start, end time.Time) (models.PriceSeries, error) {
	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest(s.Name(), opDailyHistory)
	timer := metrics.NewTimer()
	defer timer.ObserveExternalAPI(s.Name(), opDailyHistory)

	params := url.Values{}
	params.Set("period1", strconv.FormatInt(start.Unix(), 10))
	params.Set("period2", strconv.FormatInt(end.Unix(), 10))
	params.Set("interval", "1d")
	params.Set("includeAdjustedClose", "true")
	params.Set("events", "div,splits")

	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", s.baseURL, url.PathEscape(s.yahooSymbol(symbol)), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("yahoo request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		metrics.RecordExternalAPIError(s.Name(), opDailyHistory, "request")
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordExternalAPIError(s.Name(), opDailyHistory, "read")
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}

	var chart yahooChart
	decodeErr := json.Unmarshal(body, &chart)

	// Unknown symbols come back as 404 with a chart error payload
	if decodeErr == nil && chart.Chart.Error != nil {
		if resp.StatusCode == http.StatusNotFound || strings.EqualFold(chart.Chart.Error.Code, "Not Found") {
			metrics.RecordExternalAPIError(s.Name(), opDailyHistory, "not_found")
			return nil, fmt.Errorf("yahoo %s: %s: %w", symbol, chart.Chart.Error.Description, ErrNoData)
		}
		metrics.RecordExternalAPIError(s.Name(), opDailyHistory, "api")
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if resp.StatusCode != http.StatusOK {
		metrics.RecordExternalAPIError(s.Name(), opDailyHistory, "status")
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, truncate(string(body), 256))
	}
	if decodeErr != nil {
		metrics.RecordExternalAPIError(s.Name(), opDailyHistory, "decode")
		return nil, fmt.Errorf("yahoo decode: %w", decodeErr)
	}

	series, err := chart.series()
	if err != nil {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, err)
	}
	return series, nil
}

// series converts the first chart result into a normalized price series
func (c *yahooChart) series() (models.PriceSeries, error) {
	if len(c.Chart.Result) == 0 {
		return nil, ErrNoData
	}
	result := c.Chart.Result[0]
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return nil, ErrNoData
	}

	loc := time.UTC
	if tz := result.Meta.ExchangeTimezoneName; tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}

	quote := result.Indicators.Quote[0]
	var adj []*float64
	if len(result.Indicators.AdjClose) > 0 {
		adj = result.Indicators.AdjClose[0].AdjClose
	}

	series := make(models.PriceSeries, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		open, high, low, cls := at(quote.Open, i), at(quote.High, i), at(quote.Low, i), at(quote.Close, i)
		if open == nil && high == nil && low == nil && cls == nil {
			continue // null bar
		}

		price := math.NaN()
		if cls != nil {
			price = *cls
			if a := at(adj, i); a != nil {
				price = *a
			}
		}

		local := time.Unix(ts, 0).In(loc)
		series = append(series, models.PricePoint{
			Date:       time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC),
			Close:      price,
			Incomplete: cls != nil && (open == nil || high == nil || low == nil),
		})
	}

	if len(series) == 0 {
		return nil, ErrNoData
	}
	return series.Normalize(), nil
}

func at(values []*float64, i int) *float64 {
	if i < len(values) {
		return values[i]
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
