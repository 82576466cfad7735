package services

import (
	"context"
	"errors"
	"time"

	"stock-predictor/models"
)

// ErrNoData is returned when a provider has no price history for a symbol
// in the requested range. Unknown tickers surface as ErrNoData.
var ErrNoData = errors.New("no price data")

// IsNoData reports whether err means the provider had nothing for the symbol
func IsNoData(err error) bool {
	return errors.Is(err, ErrNoData)
}

// Operation label used for provider metrics
const opDailyHistory = "get_daily_history"

// MarketDataProvider fetches daily closing prices.
// Implementations return a normalized series (ascending, one point per day)
// where a trading day with a missing close carries a NaN close.
type MarketDataProvider interface {
	GetDailyHistory(ctx context.Context, symbol string, start, end time.Time) (models.PriceSeries, error)
	Name() string
}

// Compile-time interface verification
var _ MarketDataProvider = (*YahooService)(nil)
var _ MarketDataProvider = (*AlpacaService)(nil)
var _ MarketDataProvider = (*AlphaVantageService)(nil)
var _ MarketDataProvider = (*PolygonService)(nil)
var _ MarketDataProvider = (*BreakerProvider)(nil)
