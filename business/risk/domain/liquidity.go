package domain

import (
	"github.com/shopspring/decimal"

	"github.com/fd1az/flashloan-scanner/internal/asset"
)

// Rough daily on-chain liquidity estimates per token, in USD. These gate how
// much of a token a single trade may move; precise pool depth comes from the
// quotes themselves.
var liquidityEstimates = map[string]int64{
	"USDC":   50_000_000,
	"USDT":   30_000_000,
	"DAI":    20_000_000,
	"WMATIC": 25_000_000,
	"WETH":   40_000_000,
	"WBTC":   15_000_000,
	"LINK":   8_000_000,
	"AAVE":   5_000_000,
}

// defaultLiquidityUSD is assumed for tokens without an estimate.
const defaultLiquidityUSD = 1_000_000

// Trade size as a share of estimated liquidity.
var (
	liquidityBlockShare = decimal.NewFromFloat(0.01)  // >1% of pool depth
	liquidityWarnShare  = decimal.NewFromFloat(0.005) // >0.5%
)

// LiquidityUSD returns the estimated liquidity for a token.
func LiquidityUSD(a *asset.Asset) decimal.Decimal {
	if est, ok := liquidityEstimates[a.Symbol()]; ok {
		return decimal.NewFromInt(est)
	}
	return decimal.NewFromInt(defaultLiquidityUSD)
}

// CheckLiquidity classifies a trade against the token's estimated depth.
// Returns (blocked, warned).
func CheckLiquidity(a *asset.Asset, tradeValueUSD decimal.Decimal) (bool, bool) {
	depth := LiquidityUSD(a)
	share := tradeValueUSD.Div(depth)
	if share.GreaterThan(liquidityBlockShare) {
		return true, false
	}
	if share.GreaterThan(liquidityWarnShare) {
		return false, true
	}
	return false, false
}

// EstimateSlippagePct approximates price impact as the trade's share of
// estimated liquidity, in percent.
func EstimateSlippagePct(a *asset.Asset, tradeValueUSD decimal.Decimal) decimal.Decimal {
	depth := LiquidityUSD(a)
	if !depth.IsPositive() {
		return decimal.NewFromInt(100)
	}
	return tradeValueUSD.Div(depth).Mul(decimal.NewFromInt(100))
}
