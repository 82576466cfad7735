package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	polygonrest "github.com/polygon-io/client-go/rest"
	rmodels "github.com/polygon-io/client-go/rest/models"

	"stock-predictor/models"
	"stock-predictor/observability"
)

// PolygonService reads daily aggregates from the Polygon REST API
type PolygonService struct {
	rest *polygonrest.Client
	loc  *time.Location
}

// NewPolygonService creates a Polygon client using httpClient, or a default
// client with a 30s timeout when nil
func NewPolygonService(apiKey string, httpClient *http.Client) *PolygonService {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &PolygonService{
		rest: polygonrest.NewWithClient(apiKey, httpClient),
		loc:  marketLocation(),
	}
}

// Name returns the provider name
func (s *PolygonService) Name() string { return "polygon" }

// GetDailyHistory returns adjusted daily closes between start and end
func (s *PolygonService) GetDailyHistory(ctx context.Context, symbol string, start, end time.Time) (models.PriceSeries, error) {
	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest(s.Name(), opDailyHistory)
	timer := metrics.NewTimer()
	defer timer.ObserveExternalAPI(s.Name(), opDailyHistory)

	params := &rmodels.ListAggsParams{
		Ticker:     strings.ToUpper(symbol),
		Timespan:   rmodels.Day,
		Multiplier: 1,
		From:       rmodels.Millis(start),
		To:         rmodels.Millis(end),
	}
	lim := 5000
	asc := rmodels.Asc
	adj := true
	params.Limit = &lim
	params.Order = &asc
	params.Adjusted = &adj

	series := make(models.PriceSeries, 0, 128)
	iter := s.rest.ListAggs(ctx, params)
	for iter.Next() {
		series = append(series, aggToPoint(iter.Item(), s.loc))
	}
	if err := iter.Err(); err != nil {
		metrics.RecordExternalAPIError(s.Name(), opDailyHistory, "request")
		return nil, fmt.Errorf("polygon aggs for %s: %w", symbol, err)
	}

	if len(series) == 0 {
		return nil, fmt.Errorf("polygon %s: %w", symbol, ErrNoData)
	}
	return series.Normalize(), nil
}

func aggToPoint(a rmodels.Agg, loc *time.Location) models.PricePoint {
	return models.PricePoint{
		Date:  tradingDate(time.Time(a.Timestamp), loc),
		Close: a.Close,
	}
}
