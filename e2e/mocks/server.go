// Package mocks provides HTTP mock servers for the market data APIs used in E2E tests.
package mocks

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MockServer serves Yahoo chart and Alpha Vantage daily series from a
// configurable set of symbols.
type MockServer struct {
	mu     sync.RWMutex
	server *httptest.Server

	// Response configurations, keyed by upper-case symbol
	series map[string][]DailyClose

	// Error injection
	upstreamStatus   int
	alphaVantageNote string

	// Request tracking for assertions
	requestLog []RequestLog
}

// RequestLog records incoming requests for test assertions.
type RequestLog struct {
	Method string
	Path   string
	Query  string
}

// NewMockServer creates a new mock server with default responses.
func NewMockServer() *MockServer {
	m := &MockServer{
		series:     make(map[string][]DailyClose),
		requestLog: make([]RequestLog, 0),
	}
	m.setDefaults()
	m.server = httptest.NewServer(m)
	return m
}

func (m *MockServer) setDefaults() {
	today := time.Now().UTC()
	m.series["AAPL"] = GenerateCloses(today.AddDate(0, 0, -1), 120, 150, 0.5)
	m.series["NFLX"] = GenerateCloses(today.AddDate(0, 0, -1), 120, 400, -0.25)
}

// URL returns the mock server's base URL.
func (m *MockServer) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockServer) Close() {
	m.server.Close()
}

// ServeHTTP implements http.Handler to route requests to appropriate mock handlers.
func (m *MockServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.requestLog = append(m.requestLog, RequestLog{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
	})
	status := m.upstreamStatus
	m.mu.Unlock()

	if status != 0 {
		http.Error(w, http.StatusText(status), status)
		return
	}

	path := r.URL.Path

	switch {
	case strings.HasPrefix(path, "/v8/finance/chart/"):
		m.handleYahooChart(w, r, strings.TrimPrefix(path, "/v8/finance/chart/"))
	case path == "/query" && r.URL.Query().Get("function") == "TIME_SERIES_DAILY":
		m.handleAlphaVantageDaily(w, r)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

// GetRequestLog returns all logged requests for assertions.
func (m *MockServer) GetRequestLog() []RequestLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]RequestLog{}, m.requestLog...)
}

// ClearRequestLog clears the request log.
func (m *MockServer) ClearRequestLog() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestLog = make([]RequestLog, 0)
}

// SetSeries configures the closes served for symbol.
func (m *MockServer) SetSeries(symbol string, closes []DailyClose) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.series[strings.ToUpper(symbol)] = closes
}

// Series returns the closes configured for symbol.
func (m *MockServer) Series(symbol string) []DailyClose {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]DailyClose{}, m.series[strings.ToUpper(symbol)]...)
}

// SetUpstreamStatus makes every endpoint fail with status. Zero restores
// normal responses.
func (m *MockServer) SetUpstreamStatus(status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upstreamStatus = status
}

// SetAlphaVantageNote makes Alpha Vantage answer with a rate limit note.
func (m *MockServer) SetAlphaVantageNote(note string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alphaVantageNote = note
}

func (m *MockServer) handleYahooChart(w http.ResponseWriter, r *http.Request, symbol string) {
	closes, ok := m.lookup(symbol)
	if !ok {
		writeJSON(w, http.StatusNotFound, YahooChartResponse{Chart: YahooChart{
			Error: &YahooChartError{Code: "Not Found", Description: "No data found, symbol may be delisted"},
		}})
		return
	}

	from, _ := strconv.ParseInt(r.URL.Query().Get("period1"), 10, 64)
	to, _ := strconv.ParseInt(r.URL.Query().Get("period2"), 10, 64)

	result := YahooChartResult{
		Meta: YahooChartMeta{
			Symbol:               strings.ToUpper(symbol),
			Currency:             "USD",
			ExchangeTimezoneName: "America/New_York",
		},
		Indicators: YahooChartIndicators{
			Quote:    []YahooQuote{{}},
			AdjClose: []YahooAdjClose{{}},
		},
	}
	for _, c := range closes {
		// Bars are stamped at the 09:30 New York open
		ts := c.Date.Add(13*time.Hour + 30*time.Minute).Unix()
		if (from != 0 && ts < from) || (to != 0 && ts > to) {
			continue
		}
		price := c.Close
		result.Timestamp = append(result.Timestamp, ts)
		result.Indicators.Quote[0].Close = append(result.Indicators.Quote[0].Close, &price)
		result.Indicators.AdjClose[0].AdjClose = append(result.Indicators.AdjClose[0].AdjClose, &price)
	}

	writeJSON(w, http.StatusOK, YahooChartResponse{Chart: YahooChart{Result: []YahooChartResult{result}}})
}

func (m *MockServer) handleAlphaVantageDaily(w http.ResponseWriter, r *http.Request) {
	m.mu.RLock()
	note := m.alphaVantageNote
	m.mu.RUnlock()

	if note != "" {
		writeJSON(w, http.StatusOK, AlphaVantageDailyResponse{Note: note})
		return
	}

	symbol := r.URL.Query().Get("symbol")
	closes, ok := m.lookup(symbol)
	if !ok {
		writeJSON(w, http.StatusOK, AlphaVantageDailyResponse{
			Error: "Invalid API call. Please retry or visit the documentation for TIME_SERIES_DAILY.",
		})
		return
	}

	resp := AlphaVantageDailyResponse{
		MetaData: map[string]string{
			"1. Information": "Daily Prices (open, high, low, close) and Volumes",
			"2. Symbol":      strings.ToUpper(symbol),
		},
		TimeSeries: make(map[string]map[string]string, len(closes)),
	}
	for _, c := range closes {
		resp.TimeSeries[c.Date.Format("2006-01-02")] = map[string]string{
			"4. close": fmt.Sprintf("%.4f", c.Close),
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (m *MockServer) lookup(symbol string) ([]DailyClose, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	closes, ok := m.series[strings.ToUpper(symbol)]
	return closes, ok
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
