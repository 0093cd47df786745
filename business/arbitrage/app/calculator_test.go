package app

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fd1az/flashloan-scanner/business/arbitrage/domain"
	pricingDomain "github.com/fd1az/flashloan-scanner/business/pricing/domain"
)

func gasUSD(s string) *domain.GasCost {
	return &domain.GasCost{USD: decimal.RequireFromString(s)}
}

func TestCalculate_RoundTripProfit(t *testing.T) {
	// Borrow 1000, sell at 1.02, buy back at 1.00: 20 gross on a 1000 trade.
	tests := []struct {
		name           string
		buyPrice       string
		sellPrice      string
		tradeSize      string
		tradeValueUSD  string
		quoteUnitUSD   string
		gasUSD         string
		wantGross      string
		wantNet        string
		wantNetPct     string
		wantProfitable bool
	}{
		{
			name:           "profitable two percent spread",
			buyPrice:       "1.00",
			sellPrice:      "1.02",
			tradeSize:      "1000",
			tradeValueUSD:  "1000",
			quoteUnitUSD:   "1",
			gasUSD:         "2",
			wantGross:      "20",
			wantNet:        "18",
			wantNetPct:     "1.8",
			wantProfitable: true,
		},
		{
			name:           "gas eats the spread",
			buyPrice:       "1.00",
			sellPrice:      "1.02",
			tradeSize:      "1000",
			tradeValueUSD:  "1000",
			quoteUnitUSD:   "1",
			gasUSD:         "25",
			wantGross:      "20",
			wantNet:        "-5",
			wantNetPct:     "-0.5",
			wantProfitable: false,
		},
		{
			name:           "no spread means gas-deep loss",
			buyPrice:       "1.00",
			sellPrice:      "1.00",
			tradeSize:      "1000",
			tradeValueUSD:  "1000",
			quoteUnitUSD:   "1",
			gasUSD:         "2",
			wantGross:      "0",
			wantNet:        "-2",
			wantNetPct:     "-0.2",
			wantProfitable: false,
		},
		{
			name:           "non-dollar quote token",
			buyPrice:       "0.50",
			sellPrice:      "0.51",
			tradeSize:      "1000",
			tradeValueUSD:  "2000",
			quoteUnitUSD:   "4",
			gasUSD:         "5",
			wantGross:      "40",
			wantNet:        "35",
			wantNetPct:     "1.75",
			wantProfitable: true,
		},
	}

	calc := NewProfitCalculator(
		decimal.RequireFromString("0.5"),
		decimal.RequireFromString("10"),
	)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buy := decimal.RequireFromString(tt.buyPrice)
			sell := decimal.RequireFromString(tt.sellPrice)
			spread := pricingDomain.Spread{
				BuyPrice:  buy,
				SellPrice: sell,
				Absolute:  sell.Sub(buy),
			}

			result := calc.Calculate(
				spread,
				decimal.RequireFromString(tt.tradeSize),
				decimal.RequireFromString(tt.tradeValueUSD),
				decimal.RequireFromString(tt.quoteUnitUSD),
				gasUSD(tt.gasUSD),
			)

			if !result.GrossProfit.Equal(decimal.RequireFromString(tt.wantGross)) {
				t.Errorf("gross = %s, want %s", result.GrossProfit, tt.wantGross)
			}
			if !result.NetProfit.Equal(decimal.RequireFromString(tt.wantNet)) {
				t.Errorf("net = %s, want %s", result.NetProfit, tt.wantNet)
			}
			if !result.NetProfitPct.Equal(decimal.RequireFromString(tt.wantNetPct)) {
				t.Errorf("net pct = %s, want %s", result.NetProfitPct, tt.wantNetPct)
			}
			if result.IsProfitable != tt.wantProfitable {
				t.Errorf("profitable = %v, want %v", result.IsProfitable, tt.wantProfitable)
			}
		})
	}
}

func TestCalculate_ThresholdAdjustableAtRuntime(t *testing.T) {
	calc := NewProfitCalculator(
		decimal.RequireFromString("0.5"),
		decimal.RequireFromString("10"),
	)

	spread := pricingDomain.Spread{Absolute: decimal.RequireFromString("0.012")}
	size := decimal.RequireFromString("1000")
	value := decimal.RequireFromString("1000")
	unit := decimal.NewFromInt(1)

	// 12 gross - 2 gas = 10 net = 1.0% clears both thresholds.
	if !calc.Calculate(spread, size, value, unit, gasUSD("2")).IsProfitable {
		t.Fatal("expected profitable at 0.5% threshold")
	}

	calc.SetMinProfitPct(decimal.RequireFromString("2.0"))
	if calc.Calculate(spread, size, value, unit, gasUSD("2")).IsProfitable {
		t.Error("1.0% must not clear a 2.0% threshold")
	}
	if !calc.MinProfitPct().Equal(decimal.RequireFromString("2.0")) {
		t.Errorf("threshold = %s, want 2.0", calc.MinProfitPct())
	}
}

func TestCalculate_ZeroTradeValue(t *testing.T) {
	calc := NewProfitCalculator(decimal.Zero, decimal.Zero)

	spread := pricingDomain.Spread{Absolute: decimal.RequireFromString("0.01")}
	result := calc.Calculate(spread, decimal.Zero, decimal.Zero, decimal.NewFromInt(1), gasUSD("0"))

	if !result.NetProfitPct.IsZero() {
		t.Errorf("pct with zero trade value = %s, want 0", result.NetProfitPct)
	}
}
