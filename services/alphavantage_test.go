package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"stock-predictor/models"
)

func TestNewAlphaVantageService(t *testing.T) {
	service := NewAlphaVantageService("test-api-key", "https://www.alphavantage.co")
	if service == nil {
		t.Fatal("NewAlphaVantageService should not return nil")
	}
	if service.apiKey != "test-api-key" {
		t.Errorf("apiKey = %v, want 'test-api-key'", service.apiKey)
	}
	if service.httpClient == nil {
		t.Error("httpClient should not be nil")
	}
	if service.baseURL != "https://www.alphavantage.co/query" {
		t.Errorf("baseURL = %v, want 'https://www.alphavantage.co/query'", service.baseURL)
	}
}

func newAlphaVantageTestServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/query" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		query := r.URL.Query()
		if query.Get("function") != "TIME_SERIES_DAILY" {
			t.Errorf("function = %s, want TIME_SERIES_DAILY", query.Get("function"))
		}
		if query.Get("apikey") != "test-key" {
			t.Error("missing or wrong API key")
		}
		if query.Get("outputsize") != "full" {
			t.Errorf("outputsize = %s, want full", query.Get("outputsize"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	}))
}

func TestAlphaVantageService_GetDailyHistory(t *testing.T) {
	server := newAlphaVantageTestServer(t, `{
		"Meta Data": {"2. Symbol": "IBM"},
		"Time Series (Daily)": {
			"2024-01-05": {"1. open": "160.00", "4. close": "159.16"},
			"2024-01-03": {"1. open": "161.00", "4. close": "160.10"},
			"2024-01-04": {"1. open": "160.50", "4. close": "n/a"},
			"2023-06-01": {"1. open": "130.00", "4. close": "129.50"}
		}
	}`)
	defer server.Close()

	service := NewAlphaVantageService("test-key", server.URL)
	start := time.Date(2023, 7, 9, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	series, err := service.GetDailyHistory(context.Background(), "IBM", start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(series) != 3 {
		t.Fatalf("expected 3 points inside the range, got %d", len(series))
	}
	if got := series[0].Date.Format(models.DateLayout); got != "2024-01-03" {
		t.Errorf("series should be ascending, first date %s", got)
	}
	if series[0].Close != 160.10 {
		t.Errorf("expected close 160.10, got %v", series[0].Close)
	}
	if !series[1].IsGap() {
		t.Errorf("expected unparseable close to be a gap, got %v", series[1].Close)
	}
	if got := series[2].Date.Format(models.DateLayout); got != "2024-01-05" {
		t.Errorf("end date should be inclusive, last date %s", got)
	}
}

func TestAlphaVantageService_RateLimit(t *testing.T) {
	server := newAlphaVantageTestServer(t, `{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`)
	defer server.Close()

	service := NewAlphaVantageService("test-key", server.URL)
	_, err := service.GetDailyHistory(context.Background(), "IBM", time.Now().AddDate(0, 0, -180), time.Now())

	if err == nil || !strings.Contains(err.Error(), "API limit") {
		t.Errorf("expected API limit error, got %v", err)
	}
	if errors.Is(err, ErrNoData) {
		t.Error("rate limiting must not be reported as missing data")
	}
}

func TestAlphaVantageService_InvalidSymbol(t *testing.T) {
	server := newAlphaVantageTestServer(t, `{"Error Message": "Invalid API call. Please retry or visit the documentation for TIME_SERIES_DAILY."}`)
	defer server.Close()

	service := NewAlphaVantageService("test-key", server.URL)
	_, err := service.GetDailyHistory(context.Background(), "BOGUS", time.Now().AddDate(0, 0, -180), time.Now())

	if !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestAlphaVantageService_NothingInRange(t *testing.T) {
	server := newAlphaVantageTestServer(t, `{"Time Series (Daily)": {"2001-01-02": {"4. close": "10.00"}}}`)
	defer server.Close()

	service := NewAlphaVantageService("test-key", server.URL)
	_, err := service.GetDailyHistory(context.Background(), "IBM", time.Now().AddDate(0, 0, -180), time.Now())

	if !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestParseClose(t *testing.T) {
	if got := parseClose(" 101.25 "); got != 101.25 {
		t.Errorf("parseClose = %v, want 101.25", got)
	}
	p := models.PricePoint{Close: parseClose("")}
	if !p.IsGap() {
		t.Error("empty close should parse as a gap")
	}
}
