package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"stock-predictor/config"
	"stock-predictor/internal/api"
	"stock-predictor/internal/app"
	"stock-predictor/observability"
	"stock-predictor/services"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	observability.InitLoggerWithLevel(cfg.Log.Production(), observability.ParseLevel(cfg.Log.Level))
	observability.InitMetrics()

	provider, err := services.NewProvider(cfg)
	if err != nil {
		observability.Fatal("failed to initialize market data provider", "error", err)
	}
	breakers := services.NewCircuitBreakerRegistry(services.BreakerConfigFrom(cfg.Breaker))
	application := app.New(services.NewBreakerProvider(provider, breakers))

	handler := api.NewHandler(application)
	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.RequestTimeoutSeconds+5) * time.Second,
	}

	go func() {
		observability.Info("starting server", "addr", server.Addr, "provider", provider.Name())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			observability.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	observability.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		observability.Fatal("server forced to shutdown", "error", err)
	}
	observability.Info("server stopped")
}
