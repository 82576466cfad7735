package services

import (
	"context"
	"fmt"
	"time"

	"stock-predictor/models"
	"stock-predictor/observability"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

// AlpacaService reads daily bars from the Alpaca market data API
type AlpacaService struct {
	dataClient *marketdata.Client
	loc        *time.Location
}

// NewAlpacaService creates a new AlpacaService instance
func NewAlpacaService(apiKey, apiSecret, dataURL string) *AlpacaService {
	dataClient := marketdata.NewClient(marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
		BaseURL:   dataURL,
	})

	return &AlpacaService{
		dataClient: dataClient,
		loc:        marketLocation(),
	}
}

// Name returns the provider name
func (s *AlpacaService) Name() string { return "alpaca" }

// GetDailyHistory returns split and dividend adjusted daily closes
func (s *AlpacaService) GetDailyHistory(ctx context.Context, symbol string, start, end time.Time) (models.PriceSeries, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest(s.Name(), opDailyHistory)
	timer := metrics.NewTimer()
	defer timer.ObserveExternalAPI(s.Name(), opDailyHistory)

	bars, err := s.dataClient.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame:  marketdata.OneDay,
		Adjustment: marketdata.All,
		Start:      start,
		End:        end,
	})
	if err != nil {
		metrics.RecordExternalAPIError(s.Name(), opDailyHistory, "request")
		return nil, fmt.Errorf("failed to get bars for %s: %w", symbol, err)
	}

	series := barsToSeries(bars, s.loc)
	if len(series) == 0 {
		return nil, fmt.Errorf("alpaca %s: %w", symbol, ErrNoData)
	}
	return series, nil
}

// barsToSeries keys each bar by its trading date in loc
func barsToSeries(bars []marketdata.Bar, loc *time.Location) models.PriceSeries {
	series := make(models.PriceSeries, 0, len(bars))
	for _, bar := range bars {
		series = append(series, models.PricePoint{
			Date:  tradingDate(bar.Timestamp, loc),
			Close: bar.Close,
		})
	}
	return series.Normalize()
}

// marketLocation is the US equity exchange timezone, UTC when tzdata is missing
func marketLocation() *time.Location {
	if loc, err := time.LoadLocation("America/New_York"); err == nil {
		return loc
	}
	return time.UTC
}

func tradingDate(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}
