package services

import (
	"fmt"
	"time"

	"stock-predictor/config"
)

// NewProvider builds the market data provider selected in cfg
func NewProvider(cfg *config.Config) (MarketDataProvider, error) {
	switch cfg.MarketData.Provider {
	case config.ProviderYahoo, "":
		return NewYahooService(cfg.MarketData.YahooBaseURL, cfg.MarketData.Proxy), nil
	case config.ProviderAlpaca:
		if !cfg.HasAlpaca() {
			return nil, fmt.Errorf("alpaca provider requires API key and secret")
		}
		return NewAlpacaService(cfg.Alpaca.APIKey, cfg.Alpaca.APISecret, cfg.Alpaca.DataURL), nil
	case config.ProviderAlphaVantage:
		if !cfg.HasAlphaVantage() {
			return nil, fmt.Errorf("alphavantage provider requires an API key")
		}
		return NewAlphaVantageService(cfg.AlphaVantage.APIKey, cfg.AlphaVantage.BaseURL), nil
	case config.ProviderPolygon:
		if !cfg.HasPolygon() {
			return nil, fmt.Errorf("polygon provider requires an API key")
		}
		return NewPolygonService(cfg.Polygon.APIKey, nil), nil
	default:
		return nil, fmt.Errorf("unknown market data provider %q", cfg.MarketData.Provider)
	}
}

// BreakerConfigFrom converts configured breaker settings
func BreakerConfigFrom(cfg config.BreakerConfig) CircuitBreakerConfig {
	c := DefaultCircuitBreakerConfig
	if cfg.MaxRequests > 0 {
		c.MaxRequests = uint32(cfg.MaxRequests)
	}
	if cfg.IntervalSeconds > 0 {
		c.Interval = time.Duration(cfg.IntervalSeconds) * time.Second
	}
	if cfg.TimeoutSeconds > 0 {
		c.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return c
}
