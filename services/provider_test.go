package services

import (
	"testing"

	"stock-predictor/config"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*config.Config)
		wantName string
		wantErr  bool
	}{
		{"default yahoo", func(c *config.Config) {}, "yahoo", false},
		{"alpaca", func(c *config.Config) {
			c.MarketData.Provider = config.ProviderAlpaca
			c.Alpaca.APIKey = "k"
			c.Alpaca.APISecret = "s"
		}, "alpaca", false},
		{"alpaca missing secret", func(c *config.Config) {
			c.MarketData.Provider = config.ProviderAlpaca
			c.Alpaca.APIKey = "k"
		}, "", true},
		{"alphavantage", func(c *config.Config) {
			c.MarketData.Provider = config.ProviderAlphaVantage
			c.AlphaVantage.APIKey = "k"
		}, "alphavantage", false},
		{"polygon", func(c *config.Config) {
			c.MarketData.Provider = config.ProviderPolygon
			c.Polygon.APIKey = "k"
		}, "polygon", false},
		{"polygon missing key", func(c *config.Config) {
			c.MarketData.Provider = config.ProviderPolygon
		}, "", true},
		{"unknown", func(c *config.Config) {
			c.MarketData.Provider = "bloomberg"
		}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewTestConfig()
			tt.mutate(cfg)

			p, err := NewProvider(cfg)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Name() != tt.wantName {
				t.Errorf("Name() = %s, want %s", p.Name(), tt.wantName)
			}
		})
	}
}
