package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Chain.ChainID != 137 {
		t.Errorf("chain_id = %d, want 137", cfg.Chain.ChainID)
	}
	if len(cfg.Venues.Routers) == 0 {
		t.Error("expected default routers")
	}
	if len(cfg.Venues.Quoters) == 0 {
		t.Error("expected the default V3 quoter venue")
	}
	if cfg.Scanner.ScanInterval != 10*time.Second {
		t.Errorf("scan_interval = %s, want 10s", cfg.Scanner.ScanInterval)
	}
	if cfg.Risk.CircuitCooldown != 30*time.Minute {
		t.Errorf("circuit_cooldown = %s, want 30m", cfg.Risk.CircuitCooldown)
	}
	if cfg.Risk.MaxConsecutiveFailures != 5 {
		t.Errorf("max_consecutive_failures = %d, want 5", cfg.Risk.MaxConsecutiveFailures)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults_ok", func(c *Config) {}, false},
		{"missing_rpc", func(c *Config) { c.Chain.HTTPURL = "" }, true},
		{"no_routers", func(c *Config) { c.Venues.Routers = nil }, true},
		{"bad_router_address", func(c *Config) { c.Venues.Routers[0].Address = "not-hex" }, true},
		{"bad_quoter_address", func(c *Config) { c.Venues.Quoters[0].Address = "not-hex" }, true},
		{"no_quoters_ok", func(c *Config) { c.Venues.Quoters = nil }, false},
		{"no_pairs", func(c *Config) { c.Scanner.Pairs = nil }, true},
		{"inverted_amount_band", func(c *Config) { c.Scanner.MaxTradeUSD = c.Scanner.MinTradeUSD }, true},
		{"zero_position_limit", func(c *Config) { c.Risk.MaxPositionUSD = 0 }, true},
		{"gas_ratio_above_one", func(c *Config) { c.Risk.MaxGasCostRatio = 1.5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
