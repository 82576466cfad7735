package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"stock-predictor/indicators"
	"stock-predictor/models"
	"stock-predictor/observability"
	"stock-predictor/services"

	"github.com/google/uuid"
)

// LookbackDays is the calendar-day history fetched for every prediction
const LookbackDays = 180

// Failure sentinels, classified with errors.Is
var (
	ErrNoData           = errors.New("no price data for ticker")
	ErrInsufficientData = errors.New("not enough price history for a full window")
	ErrFetchFailed      = errors.New("price history fetch failed")
)

// Failure reasons used in logs and metrics
const (
	ReasonNoData           = "no_data"
	ReasonInsufficientData = "insufficient_data"
	ReasonFetchFailed      = "fetch_failed"
)

// PredictError describes why a prediction produced no result
type PredictError struct {
	Ticker string
	Reason string
	Err    error
}

func (e *PredictError) Error() string {
	return fmt.Sprintf("predict %s: %s: %v", e.Ticker, e.Reason, e.Err)
}

func (e *PredictError) Unwrap() error { return e.Err }

// breakerStatuser is implemented by providers wrapped in a circuit breaker
type breakerStatuser interface {
	Status() map[string]services.CircuitBreakerStatus
}

// App ties the market data provider to the series analyzer
type App struct {
	provider services.MarketDataProvider
	now      func() time.Time
}

// New creates a new App backed by provider
func New(provider services.MarketDataProvider) *App {
	return &App{
		provider: provider,
		now:      time.Now,
	}
}

// ProviderName returns the configured market data provider
func (a *App) ProviderName() string {
	if a.provider == nil {
		return ""
	}
	return a.provider.Name()
}

// BreakerStatus returns circuit breaker state, empty when the provider is unguarded
func (a *App) BreakerStatus() map[string]services.CircuitBreakerStatus {
	if bs, ok := a.provider.(breakerStatuser); ok {
		return bs.Status()
	}
	return map[string]services.CircuitBreakerStatus{}
}

// Predict fetches the trailing history for ticker and computes its SMA and
// Bollinger Bands. Any failure is returned as a *PredictError.
func (a *App) Predict(ctx context.Context, ticker string) (*models.Prediction, error) {
	if a.provider == nil {
		return nil, &PredictError{Ticker: ticker, Reason: ReasonFetchFailed, Err: fmt.Errorf("%w: market data provider not initialized", ErrFetchFailed)}
	}

	provider := a.provider.Name()
	metrics := observability.GetMetrics()
	metrics.RecordPredictionRequest(provider)
	timer := metrics.NewTimer()

	log := observability.WithSymbol(ticker).With(
		"provider", provider,
		"run_id", uuid.New().String(),
	)
	if id := observability.RequestIDFromContext(ctx); id != "" {
		log = log.With("request_id", id)
	}

	fail := func(reason string, err error) (*models.Prediction, error) {
		metrics.RecordPredictionError(provider, reason)
		timer.ObservePrediction(provider, "error")
		log.Warn("prediction failed",
			"reason", reason,
			"error", err,
			"duration_ms", timer.Duration().Milliseconds())
		return nil, &PredictError{Ticker: ticker, Reason: reason, Err: err}
	}

	end := a.now()
	start := end.AddDate(0, 0, -LookbackDays)

	log.Info("fetching price history",
		"start", start.Format(models.DateLayout),
		"end", end.Format(models.DateLayout))

	series, err := a.provider.GetDailyHistory(ctx, ticker, start, end)
	switch {
	case services.IsNoData(err):
		return fail(ReasonNoData, fmt.Errorf("%w: %w", ErrNoData, err))
	case err != nil:
		return fail(ReasonFetchFailed, fmt.Errorf("%w: %w", ErrFetchFailed, err))
	case len(series) == 0:
		return fail(ReasonNoData, ErrNoData)
	}

	log.Info("fetched price history", "rows", len(series))

	points := indicators.Analyze(series)
	if len(points) == 0 {
		return fail(ReasonInsufficientData, fmt.Errorf("%w: %d rows", ErrInsufficientData, len(series)))
	}

	metrics.RecordPredictionPoints(len(points))
	timer.ObservePrediction(provider, "success")
	log.Info("prediction computed",
		"points", len(points),
		"duration_ms", timer.Duration().Milliseconds())

	return &models.Prediction{
		Ticker: strings.ToUpper(ticker),
		Points: points,
	}, nil
}
