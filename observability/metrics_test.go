package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	if m == nil {
		t.Fatal("NewMetrics returned nil")
	}

	if m.PredictionRequestsTotal == nil {
		t.Error("PredictionRequestsTotal is nil")
	}
	if m.PredictionDuration == nil {
		t.Error("PredictionDuration is nil")
	}
	if m.PredictionErrorsTotal == nil {
		t.Error("PredictionErrorsTotal is nil")
	}
	if m.PredictionPoints == nil {
		t.Error("PredictionPoints is nil")
	}
	if m.ExternalAPIRequestsTotal == nil {
		t.Error("ExternalAPIRequestsTotal is nil")
	}
	if m.ExternalAPIErrorsTotal == nil {
		t.Error("ExternalAPIErrorsTotal is nil")
	}
	if m.ExternalAPIDuration == nil {
		t.Error("ExternalAPIDuration is nil")
	}
	if m.HTTPRequestsTotal == nil {
		t.Error("HTTPRequestsTotal is nil")
	}
	if m.HTTPRequestDuration == nil {
		t.Error("HTTPRequestDuration is nil")
	}
	if m.CircuitBreakerState == nil {
		t.Error("CircuitBreakerState is nil")
	}
	if m.CircuitBreakerTrips == nil {
		t.Error("CircuitBreakerTrips is nil")
	}
}

func TestRecordPredictionRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordPredictionRequest("yahoo")
	m.RecordPredictionRequest("yahoo")
	m.RecordPredictionRequest("alpaca")

	yahooCount := testutil.ToFloat64(m.PredictionRequestsTotal.WithLabelValues("yahoo"))
	if yahooCount != 2 {
		t.Errorf("Expected yahoo count to be 2, got %f", yahooCount)
	}

	alpacaCount := testutil.ToFloat64(m.PredictionRequestsTotal.WithLabelValues("alpaca"))
	if alpacaCount != 1 {
		t.Errorf("Expected alpaca count to be 1, got %f", alpacaCount)
	}
}

func TestRecordPredictionError(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordPredictionError("yahoo", "no_data")
	m.RecordPredictionError("yahoo", "no_data")
	m.RecordPredictionError("yahoo", "fetch_failed")

	noData := testutil.ToFloat64(m.PredictionErrorsTotal.WithLabelValues("yahoo", "no_data"))
	if noData != 2 {
		t.Errorf("Expected no_data count to be 2, got %f", noData)
	}

	fetchFailed := testutil.ToFloat64(m.PredictionErrorsTotal.WithLabelValues("yahoo", "fetch_failed"))
	if fetchFailed != 1 {
		t.Errorf("Expected fetch_failed count to be 1, got %f", fetchFailed)
	}
}

func TestRecordPredictionPoints(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordPredictionPoints(105)
	m.RecordPredictionPoints(6)

	if n := testutil.CollectAndCount(m.PredictionPoints); n != 1 {
		t.Errorf("Expected one points histogram, got %d", n)
	}
}

func TestRecordPredictionDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordPredictionDuration("yahoo", "success", 300*time.Millisecond)
	m.RecordPredictionDuration("yahoo", "error", 20*time.Millisecond)

	if n := testutil.CollectAndCount(m.PredictionDuration); n != 2 {
		t.Errorf("Expected 2 duration series, got %d", n)
	}
}

func TestRecordExternalAPIRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordExternalAPIRequest("yahoo", "get_daily_history")
	m.RecordExternalAPIRequest("yahoo", "get_daily_history")
	m.RecordExternalAPIRequest("polygon", "get_daily_history")

	yahoo := testutil.ToFloat64(m.ExternalAPIRequestsTotal.WithLabelValues("yahoo", "get_daily_history"))
	if yahoo != 2 {
		t.Errorf("Expected yahoo request count to be 2, got %f", yahoo)
	}

	polygon := testutil.ToFloat64(m.ExternalAPIRequestsTotal.WithLabelValues("polygon", "get_daily_history"))
	if polygon != 1 {
		t.Errorf("Expected polygon request count to be 1, got %f", polygon)
	}
}

func TestRecordExternalAPIError(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordExternalAPIError("alphavantage", "get_daily_history", "rate_limit")
	m.RecordExternalAPIError("yahoo", "get_daily_history", "status")

	rateLimit := testutil.ToFloat64(m.ExternalAPIErrorsTotal.WithLabelValues("alphavantage", "get_daily_history", "rate_limit"))
	if rateLimit != 1 {
		t.Errorf("Expected rate_limit count to be 1, got %f", rateLimit)
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordHTTPRequest("GET", "/api/health", "200", 10*time.Millisecond, 256)
	m.RecordHTTPRequest("GET", "/api/predict/{ticker}", "200", 2*time.Second, 4096)
	m.RecordHTTPRequest("GET", "/api/predict/{ticker}", "500", 50*time.Millisecond, 64)

	healthOK := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/health", "200"))
	if healthOK != 1 {
		t.Errorf("Expected GET /api/health 200 count to be 1, got %f", healthOK)
	}

	predictError := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/predict/{ticker}", "500"))
	if predictError != 1 {
		t.Errorf("Expected GET /api/predict/{ticker} 500 count to be 1, got %f", predictError)
	}
}

func TestCircuitBreakerMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.SetCircuitBreakerState("yahoo", 0)  // closed
	m.SetCircuitBreakerState("alpaca", 2) // open

	yahooState := testutil.ToFloat64(m.CircuitBreakerState.WithLabelValues("yahoo"))
	if yahooState != 0 {
		t.Errorf("Expected yahoo state to be 0 (closed), got %f", yahooState)
	}

	alpacaState := testutil.ToFloat64(m.CircuitBreakerState.WithLabelValues("alpaca"))
	if alpacaState != 2 {
		t.Errorf("Expected alpaca state to be 2 (open), got %f", alpacaState)
	}

	m.RecordCircuitBreakerTrip("yahoo")
	m.RecordCircuitBreakerTrip("yahoo")

	yahooTrips := testutil.ToFloat64(m.CircuitBreakerTrips.WithLabelValues("yahoo"))
	if yahooTrips != 2 {
		t.Errorf("Expected yahoo trips to be 2, got %f", yahooTrips)
	}
}

func TestTimer(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	timer := m.NewTimer()
	if timer == nil {
		t.Fatal("NewTimer returned nil")
	}

	time.Sleep(10 * time.Millisecond)

	duration := timer.Duration()
	if duration < 10*time.Millisecond {
		t.Errorf("Expected duration to be at least 10ms, got %v", duration)
	}

	timer.ObservePrediction("yahoo", "success")

	timer2 := m.NewTimer()
	time.Sleep(5 * time.Millisecond)
	timer2.ObserveExternalAPI("yahoo", "get_daily_history")

	if n := testutil.CollectAndCount(m.ExternalAPIDuration); n != 1 {
		t.Errorf("Expected 1 external API duration series, got %d", n)
	}
}

func TestGetMetrics_Singleton(t *testing.T) {
	original := globalMetrics
	defer func() { globalMetrics = original }()

	reg := prometheus.NewRegistry()
	SetMetrics(NewMetrics(reg))

	m1 := GetMetrics()
	if m1 == nil {
		t.Fatal("GetMetrics returned nil")
	}

	m2 := GetMetrics()
	if m1 != m2 {
		t.Error("GetMetrics should return the same instance")
	}
}
