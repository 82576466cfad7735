// Package e2e provides end-to-end testing infrastructure for stock-predictor.
package e2e

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stock-predictor/config"
	"stock-predictor/e2e/mocks"
	"stock-predictor/internal/api"
	"stock-predictor/internal/app"
	"stock-predictor/services"
)

// TestHarness runs the real router, app and provider stack against a mock
// market data server.
type TestHarness struct {
	t          *testing.T
	ctx        context.Context
	cancel     context.CancelFunc
	mockServer *mocks.MockServer
	breakers   *services.CircuitBreakerRegistry
	app        *app.App
	router     http.Handler
	config     *config.Config
}

// NewTestHarness creates a new test harness. provider selects the market
// data source, see config.ProviderYahoo and config.ProviderAlphaVantage.
func NewTestHarness(t *testing.T, provider string) *TestHarness {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)

	h := &TestHarness{
		t:      t,
		ctx:    ctx,
		cancel: cancel,
	}
	h.mockServer = mocks.NewMockServer()
	h.config = h.createTestConfig(provider)

	return h
}

// Setup initializes all test dependencies.
func (h *TestHarness) Setup() error {
	if err := h.config.Validate(); err != nil {
		return err
	}

	provider, err := services.NewProvider(h.config)
	if err != nil {
		return err
	}

	h.breakers = services.NewCircuitBreakerRegistry(services.BreakerConfigFrom(h.config.Breaker))
	h.app = app.New(services.NewBreakerProvider(provider, h.breakers))

	handler := api.NewHandler(h.app)
	h.router = api.NewRouter(handler, h.config)

	return nil
}

// Teardown cleans up all test resources.
func (h *TestHarness) Teardown() {
	if h.cancel != nil {
		h.cancel()
	}
	if h.mockServer != nil {
		h.mockServer.Close()
	}
}

// Context returns the test context.
func (h *TestHarness) Context() context.Context {
	return h.ctx
}

// MockServer returns the mock server for configuring responses.
func (h *TestHarness) MockServer() *mocks.MockServer {
	return h.mockServer
}

// App returns the application instance.
func (h *TestHarness) App() *app.App {
	return h.app
}

// Router returns the HTTP router for making requests.
func (h *TestHarness) Router() http.Handler {
	return h.router
}

// Config returns the test configuration.
func (h *TestHarness) Config() *config.Config {
	return h.config
}

// Breakers returns the circuit breaker registry guarding the provider.
func (h *TestHarness) Breakers() *services.CircuitBreakerRegistry {
	return h.breakers
}

// DoRequest performs a GET request against the router and returns the response.
func (h *TestHarness) DoRequest(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil).WithContext(h.ctx)
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func (h *TestHarness) createTestConfig(provider string) *config.Config {
	mockURL := h.mockServer.URL()

	cfg := config.NewTestConfig()
	cfg.MarketData.Provider = provider
	cfg.MarketData.YahooBaseURL = mockURL
	cfg.AlphaVantage.BaseURL = mockURL
	cfg.AlphaVantage.APIKey = "e2e-test-key"

	return cfg
}
