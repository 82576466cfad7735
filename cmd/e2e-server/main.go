// Package main provides a standalone HTTP server for browser tests. It runs
// the same routes and handlers as the main server against a mock market
// data upstream, so no API keys or network access are needed.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock-predictor/config"
	"stock-predictor/e2e/mocks"
	"stock-predictor/internal/api"
	"stock-predictor/internal/app"
	"stock-predictor/observability"
	"stock-predictor/services"
)

func main() {
	// Initialize logger in development mode for tests
	observability.InitLogger(false)
	observability.InitMetrics()

	port := os.Getenv("E2E_SERVER_PORT")
	if port == "" {
		port = "9090"
	}

	upstream := mocks.NewMockServer()
	defer upstream.Close()
	observability.Info("mock market data started", "url", upstream.URL())

	cfg := config.NewTestConfig()
	cfg.MarketData.Provider = config.ProviderYahoo
	cfg.MarketData.YahooBaseURL = upstream.URL()

	provider, err := services.NewProvider(cfg)
	if err != nil {
		observability.Fatal("failed to initialize market data provider", "error", err)
	}
	breakers := services.NewCircuitBreakerRegistry(services.BreakerConfigFrom(cfg.Breaker))
	application := app.New(services.NewBreakerProvider(provider, breakers))

	handler := api.NewHandler(application)
	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		observability.Info("starting E2E test server", "port", port, "url", fmt.Sprintf("http://localhost:%s", port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			observability.Fatal("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	observability.Info("shutting down E2E test server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		observability.Fatal("server forced to shutdown", "error", err)
	}
	observability.Info("E2E test server stopped")
}
