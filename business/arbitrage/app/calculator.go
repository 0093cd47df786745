package app

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/fd1az/flashloan-scanner/business/arbitrage/domain"
	pricingDomain "github.com/fd1az/flashloan-scanner/business/pricing/domain"
)

// ProfitCalculator computes flashloan round-trip profitability. Thresholds
// are adjustable at runtime; the scanner exposes a setter.
type ProfitCalculator struct {
	mu           sync.RWMutex
	minProfitPct decimal.Decimal
	minProfitUSD decimal.Decimal
}

// NewProfitCalculator creates a ProfitCalculator with thresholds.
func NewProfitCalculator(minProfitPct, minProfitUSD decimal.Decimal) *ProfitCalculator {
	return &ProfitCalculator{
		minProfitPct: minProfitPct,
		minProfitUSD: minProfitUSD,
	}
}

// SetMinProfitPct replaces the percentage threshold.
func (c *ProfitCalculator) SetMinProfitPct(pct decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.minProfitPct = pct
}

// MinProfitPct returns the current percentage threshold.
func (c *ProfitCalculator) MinProfitPct() decimal.Decimal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.minProfitPct
}

// Calculate computes the profit of selling tradeSize base tokens into the
// spread and buying them back. Both quotes share the same input size, so the
// gross profit in quote tokens is the rate difference times the size;
// quoteUnitUSD converts it to USD.
func (c *ProfitCalculator) Calculate(
	spread pricingDomain.Spread,
	tradeSize decimal.Decimal,
	tradeValueUSD decimal.Decimal,
	quoteUnitUSD decimal.Decimal,
	gasCost *domain.GasCost,
) *domain.ProfitResult {
	grossProfit := spread.Absolute.Mul(tradeSize).Mul(quoteUnitUSD)

	netProfit := grossProfit.Sub(gasCost.USD)

	netProfitPct := decimal.Zero
	if tradeValueUSD.IsPositive() {
		netProfitPct = netProfit.Div(tradeValueUSD).Mul(decimal.NewFromInt(100))
	}

	c.mu.RLock()
	isProfitable := netProfitPct.GreaterThanOrEqual(c.minProfitPct) &&
		netProfit.GreaterThanOrEqual(c.minProfitUSD)
	c.mu.RUnlock()

	return &domain.ProfitResult{
		GrossProfit:  grossProfit,
		GasCost:      gasCost.USD,
		NetProfit:    netProfit,
		NetProfitPct: netProfitPct,
		IsProfitable: isProfitable,
	}
}
