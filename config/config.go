package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Supported market data providers
const (
	ProviderYahoo        = "yahoo"
	ProviderAlpaca       = "alpaca"
	ProviderAlphaVantage = "alphavantage"
	ProviderPolygon      = "polygon"
)

// Config holds all application configuration
type Config struct {
	// HTTP server configuration
	HTTP HTTPConfig `yaml:"http"`

	// Logging configuration
	Log LogConfig `yaml:"log"`

	// Market data source selection
	MarketData MarketDataConfig `yaml:"market_data"`

	// External service configurations
	Alpaca       AlpacaConfig       `yaml:"alpaca"`
	AlphaVantage AlphaVantageConfig `yaml:"alpha_vantage"`
	Polygon      PolygonConfig      `yaml:"polygon"`

	// Circuit breaker configuration
	Breaker BreakerConfig `yaml:"breaker"`
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	Host                   string `yaml:"host"`
	Port                   int    `yaml:"port"`
	CORSAllowedOrigins     string `yaml:"cors_allowed_origins"`
	RequestTimeoutSeconds  int    `yaml:"request_timeout_seconds"`
	ShutdownTimeoutSeconds int    `yaml:"shutdown_timeout_seconds"`
}

// Addr returns the listen address
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// LogConfig holds logging configuration
type LogConfig struct {
	Format string `yaml:"format"` // json or text
	Level  string `yaml:"level"`
}

// Production reports whether logs should be emitted as JSON
func (l LogConfig) Production() bool {
	return strings.EqualFold(l.Format, "json")
}

// MarketDataConfig selects and configures the price history source
type MarketDataConfig struct {
	Provider     string `yaml:"provider"`
	Proxy        string `yaml:"proxy"`
	YahooBaseURL string `yaml:"yahoo_base_url"`
}

// AlpacaConfig holds Alpaca market data API configuration
type AlpacaConfig struct {
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	DataURL   string `yaml:"data_url"`
}

// AlphaVantageConfig holds Alpha Vantage API configuration
type AlphaVantageConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// PolygonConfig holds Polygon API configuration
type PolygonConfig struct {
	APIKey string `yaml:"api_key"`
}

// BreakerConfig holds circuit breaker settings for the market data provider
type BreakerConfig struct {
	MaxRequests     int `yaml:"max_requests"`
	IntervalSeconds int `yaml:"interval_seconds"`
	TimeoutSeconds  int `yaml:"timeout_seconds"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Host:                   "",
			Port:                   5001,
			CORSAllowedOrigins:     "*",
			RequestTimeoutSeconds:  60,
			ShutdownTimeoutSeconds: 10,
		},
		Log: LogConfig{
			Format: "text",
			Level:  "info",
		},
		MarketData: MarketDataConfig{
			Provider:     ProviderYahoo,
			YahooBaseURL: "https://query1.finance.yahoo.com",
		},
		Alpaca: AlpacaConfig{
			DataURL: "https://data.alpaca.markets",
		},
		AlphaVantage: AlphaVantageConfig{
			BaseURL: "https://www.alphavantage.co",
		},
		Breaker: BreakerConfig{
			MaxRequests:     3,
			IntervalSeconds: 60,
			TimeoutSeconds:  30,
		},
	}
}

// Load loads configuration from the optional CONFIG_PATH YAML file and
// environment variables, with the environment taking precedence
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.HTTP.Host = getEnvString("HTTP_HOST", c.HTTP.Host)
	c.HTTP.Port = getEnvInt("HTTP_PORT", c.HTTP.Port)
	c.HTTP.CORSAllowedOrigins = getEnvString("CORS_ALLOWED_ORIGINS", c.HTTP.CORSAllowedOrigins)
	c.HTTP.RequestTimeoutSeconds = getEnvInt("REQUEST_TIMEOUT_SECONDS", c.HTTP.RequestTimeoutSeconds)
	c.HTTP.ShutdownTimeoutSeconds = getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", c.HTTP.ShutdownTimeoutSeconds)

	c.Log.Format = getEnvString("LOG_FORMAT", c.Log.Format)
	c.Log.Level = getEnvString("LOG_LEVEL", c.Log.Level)

	c.MarketData.Provider = strings.ToLower(getEnvString("MARKET_DATA_PROVIDER", c.MarketData.Provider))
	c.MarketData.Proxy = getEnvString("HTTPS_PROXY", c.MarketData.Proxy)
	c.MarketData.YahooBaseURL = getEnvString("YAHOO_BASE_URL", c.MarketData.YahooBaseURL)

	c.Alpaca.APIKey = getEnvString("ALPACA_API_KEY", c.Alpaca.APIKey)
	c.Alpaca.APISecret = getEnvString("ALPACA_API_SECRET", c.Alpaca.APISecret)
	c.Alpaca.DataURL = getEnvString("ALPACA_DATA_URL", c.Alpaca.DataURL)

	c.AlphaVantage.APIKey = getEnvString("ALPHA_VANTAGE_API_KEY", c.AlphaVantage.APIKey)
	c.AlphaVantage.BaseURL = getEnvString("ALPHA_VANTAGE_BASE_URL", c.AlphaVantage.BaseURL)

	c.Polygon.APIKey = getEnvString("POLYGON_API_KEY", c.Polygon.APIKey)

	c.Breaker.MaxRequests = getEnvInt("BREAKER_MAX_REQUESTS", c.Breaker.MaxRequests)
	c.Breaker.IntervalSeconds = getEnvInt("BREAKER_INTERVAL_SECONDS", c.Breaker.IntervalSeconds)
	c.Breaker.TimeoutSeconds = getEnvInt("BREAKER_TIMEOUT_SECONDS", c.Breaker.TimeoutSeconds)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.HTTP.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT_SECONDS must be positive, got %d", c.HTTP.RequestTimeoutSeconds)
	}
	if c.HTTP.ShutdownTimeoutSeconds <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT_SECONDS must be positive, got %d", c.HTTP.ShutdownTimeoutSeconds)
	}

	switch c.MarketData.Provider {
	case ProviderYahoo:
		if c.MarketData.YahooBaseURL == "" {
			return fmt.Errorf("YAHOO_BASE_URL must not be empty")
		}
	case ProviderAlpaca:
		if !c.HasAlpaca() {
			return fmt.Errorf("MARKET_DATA_PROVIDER=alpaca requires ALPACA_API_KEY and ALPACA_API_SECRET")
		}
	case ProviderAlphaVantage:
		if !c.HasAlphaVantage() {
			return fmt.Errorf("MARKET_DATA_PROVIDER=alphavantage requires ALPHA_VANTAGE_API_KEY")
		}
	case ProviderPolygon:
		if !c.HasPolygon() {
			return fmt.Errorf("MARKET_DATA_PROVIDER=polygon requires POLYGON_API_KEY")
		}
	default:
		return fmt.Errorf("unknown MARKET_DATA_PROVIDER %q (want yahoo, alpaca, alphavantage or polygon)", c.MarketData.Provider)
	}

	if c.Breaker.MaxRequests <= 0 {
		return fmt.Errorf("BREAKER_MAX_REQUESTS must be positive, got %d", c.Breaker.MaxRequests)
	}

	return nil
}

// HasAlpaca returns true if Alpaca configuration is available
func (c *Config) HasAlpaca() bool {
	return c.Alpaca.APIKey != "" && c.Alpaca.APISecret != ""
}

// HasAlphaVantage returns true if Alpha Vantage configuration is available
func (c *Config) HasAlphaVantage() bool {
	return c.AlphaVantage.APIKey != ""
}

// HasPolygon returns true if Polygon configuration is available
func (c *Config) HasPolygon() bool {
	return c.Polygon.APIKey != ""
}

func getEnvString(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

// NewTestConfig creates a Config with default values for testing
func NewTestConfig() *Config {
	cfg := Default()
	cfg.Breaker.TimeoutSeconds = 1
	return cfg
}
