// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Chain     ChainConfig     `mapstructure:"chain"`
	Venues    VenuesConfig    `mapstructure:"venues"`
	Scanner   ScannerConfig   `mapstructure:"scanner"`
	Risk      RiskConfig      `mapstructure:"risk"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// ChainConfig holds EVM node configuration.
type ChainConfig struct {
	WebSocketURL   string        `mapstructure:"websocket_url"`
	HTTPURL        string        `mapstructure:"http_url"`
	ChainID        uint64        `mapstructure:"chain_id"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	InitialBackoff time.Duration `mapstructure:"initial_backoff"`
	MaxBackoff     time.Duration `mapstructure:"max_backoff"`
}

// RouterVenueConfig names an on-chain quote contract: a V2-style router or a
// V3 quoter.
type RouterVenueConfig struct {
	Name    string `mapstructure:"name"`
	Address string `mapstructure:"address"`
}

// AddressHex returns the contract address as common.Address.
func (c *RouterVenueConfig) AddressHex() common.Address {
	return common.HexToAddress(c.Address)
}

// VenuesConfig holds quote venue configuration.
type VenuesConfig struct {
	Routers      []RouterVenueConfig `mapstructure:"routers"`
	Quoters      []RouterVenueConfig `mapstructure:"quoters"`
	OneInchURL   string              `mapstructure:"oneinch_url"`
	OneInchKey   string              `mapstructure:"oneinch_key"`
	QuoteTimeout time.Duration       `mapstructure:"quote_timeout"`
	QuoteTTL     time.Duration       `mapstructure:"quote_ttl"`
}

// ScannerConfig holds scan loop configuration.
type ScannerConfig struct {
	Pairs            []string      `mapstructure:"pairs"`
	TradeAmounts     []float64     `mapstructure:"trade_amounts"`
	ScanInterval     time.Duration `mapstructure:"scan_interval"`
	AdaptiveInterval bool          `mapstructure:"adaptive_interval"`
	MinProfitPct     float64       `mapstructure:"min_profit_pct"`
	MinProfitUSD     float64       `mapstructure:"min_profit_usd"`
	MinTradeUSD      float64       `mapstructure:"min_trade_usd"`
	MaxTradeUSD      float64       `mapstructure:"max_trade_usd"`
	PairCooldown     time.Duration `mapstructure:"pair_cooldown"`
	FlashloanGas     uint64        `mapstructure:"flashloan_gas"`
	TUIMode          bool          `mapstructure:"-"` // Set at runtime, not from config file
}

// TradeAmountsDecimal returns trade amounts as decimal.Decimal slice.
func (c *ScannerConfig) TradeAmountsDecimal() []decimal.Decimal {
	result := make([]decimal.Decimal, len(c.TradeAmounts))
	for i, s := range c.TradeAmounts {
		result[i] = decimal.NewFromFloat(s)
	}
	return result
}

// MinProfitPctDecimal returns min profit percentage as decimal.Decimal.
func (c *ScannerConfig) MinProfitPctDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.MinProfitPct)
}

// MinProfitUSDDecimal returns min profit USD as decimal.Decimal.
func (c *ScannerConfig) MinProfitUSDDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.MinProfitUSD)
}

// RiskConfig holds risk management limits.
type RiskConfig struct {
	MaxPositionUSD         float64       `mapstructure:"max_position_usd"`
	DailyVolumeLimitUSD    float64       `mapstructure:"daily_volume_limit_usd"`
	MaxConsecutiveFailures int           `mapstructure:"max_consecutive_failures"`
	CircuitCooldown        time.Duration `mapstructure:"circuit_cooldown"`
	MinTradeInterval       time.Duration `mapstructure:"min_trade_interval"`
	MaxSlippagePct         float64       `mapstructure:"max_slippage_pct"`
	MaxGasCostRatio        float64       `mapstructure:"max_gas_cost_ratio"`
	GasPriceCeilingGwei    float64       `mapstructure:"gas_price_ceiling_gwei"`
}

// MaxPositionUSDDecimal returns the position limit as decimal.Decimal.
func (c *RiskConfig) MaxPositionUSDDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.MaxPositionUSD)
}

// DailyVolumeLimitUSDDecimal returns the daily limit as decimal.Decimal.
func (c *RiskConfig) DailyVolumeLimitUSDDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.DailyVolumeLimitUSD)
}

// MaxSlippagePctDecimal returns the slippage limit as decimal.Decimal.
func (c *RiskConfig) MaxSlippagePctDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.MaxSlippagePct)
}

// MaxGasCostRatioDecimal returns the gas-to-profit ceiling as decimal.Decimal.
func (c *RiskConfig) MaxGasCostRatioDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.MaxGasCostRatio)
}

// GasPriceCeilingGweiDecimal returns the gas price ceiling as decimal.Decimal.
func (c *RiskConfig) GasPriceCeilingGweiDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.GasPriceCeilingGwei)
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("FLS")
	v.AutomaticEnv()

	// Bind env vars to config keys
	bindEnvVars(v)

	// Set defaults
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "FLS_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "FLS_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "FLS_LOG_LEVEL", "LOG_LEVEL")

	// Chain
	v.BindEnv("chain.websocket_url", "FLS_CHAIN_WS_URL", "WEB3_WS_URL")
	v.BindEnv("chain.http_url", "FLS_CHAIN_HTTP_URL", "WEB3_PROVIDER_URL")
	v.BindEnv("chain.chain_id", "FLS_CHAIN_ID", "CHAIN_ID")

	// Venues
	v.BindEnv("venues.oneinch_url", "FLS_ONEINCH_URL", "ONEINCH_URL")
	v.BindEnv("venues.oneinch_key", "FLS_ONEINCH_KEY", "ONEINCH_API_KEY")

	// Scanner
	v.BindEnv("scanner.pairs", "FLS_PAIRS")
	v.BindEnv("scanner.min_profit_pct", "FLS_MIN_PROFIT_PCT", "MIN_PROFIT_THRESHOLD")
	v.BindEnv("scanner.min_profit_usd", "FLS_MIN_PROFIT_USD")
	v.BindEnv("scanner.scan_interval", "FLS_SCAN_INTERVAL")

	// Risk
	v.BindEnv("risk.max_position_usd", "FLS_MAX_POSITION_USD", "MAX_FLASHLOAN_AMOUNT")
	v.BindEnv("risk.daily_volume_limit_usd", "FLS_DAILY_VOLUME_LIMIT", "DAILY_VOLUME_LIMIT")
	v.BindEnv("risk.gas_price_ceiling_gwei", "FLS_GAS_PRICE_CEILING", "GAS_PRICE_LIMIT")

	// Telemetry
	v.BindEnv("telemetry.enabled", "FLS_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "FLS_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "FLS_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "flashloan-scanner")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Chain defaults (Polygon PoS)
	v.SetDefault("chain.http_url", "https://polygon-rpc.com")
	v.SetDefault("chain.chain_id", 137)
	v.SetDefault("chain.max_reconnects", 0) // infinite
	v.SetDefault("chain.initial_backoff", "1s")
	v.SetDefault("chain.max_backoff", "30s")

	// Venue defaults: the most liquid Polygon V2-style routers, the Uniswap
	// V3 quoter, plus 1inch.
	v.SetDefault("venues.routers", []map[string]any{
		{"name": "quickswap", "address": "0xa5E0829CaCEd8fFDD4De3c43696c57F7D7A678ff"},
		{"name": "sushiswap", "address": "0x1b02dA8Cb0d097eB8D57A175b88c7D8b47997506"},
	})
	v.SetDefault("venues.quoters", []map[string]any{
		{"name": "uniswap-v3", "address": "0x61fFE014bA17989E743c5F6cB21bF9697530B21e"},
	})
	v.SetDefault("venues.oneinch_url", "https://api.1inch.dev/swap/v6.0/137")
	v.SetDefault("venues.quote_timeout", "5s")
	v.SetDefault("venues.quote_ttl", "10s")

	// Scanner defaults
	v.SetDefault("scanner.pairs", []string{"WMATIC-USDC", "WETH-USDC", "WBTC-USDC"})
	v.SetDefault("scanner.trade_amounts", []float64{100, 500, 1000, 5000})
	v.SetDefault("scanner.scan_interval", "10s")
	v.SetDefault("scanner.adaptive_interval", true)
	v.SetDefault("scanner.min_profit_pct", 0.2)
	v.SetDefault("scanner.min_profit_usd", 5)
	v.SetDefault("scanner.min_trade_usd", 10)
	v.SetDefault("scanner.max_trade_usd", 50000)
	v.SetDefault("scanner.pair_cooldown", "60s")
	v.SetDefault("scanner.flashloan_gas", 450000)

	// Risk defaults
	v.SetDefault("risk.max_position_usd", 50000)
	v.SetDefault("risk.daily_volume_limit_usd", 100000)
	v.SetDefault("risk.max_consecutive_failures", 5)
	v.SetDefault("risk.circuit_cooldown", "30m")
	v.SetDefault("risk.min_trade_interval", "10s")
	v.SetDefault("risk.max_slippage_pct", 2)
	v.SetDefault("risk.max_gas_cost_ratio", 0.5)
	v.SetDefault("risk.gas_price_ceiling_gwei", 100)

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "flashloan-scanner")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Chain.HTTPURL == "" {
		return fmt.Errorf("chain.http_url is required")
	}
	if len(c.Venues.Routers) == 0 {
		return fmt.Errorf("venues.routers cannot be empty")
	}
	for _, r := range c.Venues.Routers {
		if r.Name == "" {
			return fmt.Errorf("venue router name cannot be empty")
		}
		if !common.IsHexAddress(r.Address) {
			return fmt.Errorf("invalid router address for %s: %s", r.Name, r.Address)
		}
	}
	for _, q := range c.Venues.Quoters {
		if q.Name == "" {
			return fmt.Errorf("venue quoter name cannot be empty")
		}
		if !common.IsHexAddress(q.Address) {
			return fmt.Errorf("invalid quoter address for %s: %s", q.Name, q.Address)
		}
	}
	if len(c.Scanner.Pairs) == 0 {
		return fmt.Errorf("scanner.pairs cannot be empty")
	}
	if c.Scanner.MinProfitPct < 0 {
		return fmt.Errorf("scanner.min_profit_pct cannot be negative")
	}
	if c.Scanner.MaxTradeUSD <= c.Scanner.MinTradeUSD {
		return fmt.Errorf("scanner.max_trade_usd must exceed scanner.min_trade_usd")
	}
	if c.Risk.MaxPositionUSD <= 0 {
		return fmt.Errorf("risk.max_position_usd must be positive")
	}
	if c.Risk.DailyVolumeLimitUSD <= 0 {
		return fmt.Errorf("risk.daily_volume_limit_usd must be positive")
	}
	if c.Risk.MaxSlippagePct < 0 || c.Risk.MaxSlippagePct > 100 {
		return fmt.Errorf("risk.max_slippage_pct must be between 0 and 100")
	}
	if c.Risk.MaxGasCostRatio <= 0 || c.Risk.MaxGasCostRatio > 1 {
		return fmt.Errorf("risk.max_gas_cost_ratio must be in (0, 1]")
	}
	return nil
}
