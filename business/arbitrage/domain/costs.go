// Package domain contains the core domain types for the arbitrage context.
package domain

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// GasCost represents the total gas cost of a flashloan round trip: borrow,
// two swaps, repay.
type GasCost struct {
	GasLimit uint64
	GasPrice *big.Int // in wei
	TotalWei *big.Int // gasLimit * gasPrice
	Native   decimal.Decimal // cost in the chain's native coin
	USD      decimal.Decimal // converted at the current native coin price
}

// NewGasCost creates a GasCost from gas parameters and the native coin's USD
// price.
func NewGasCost(gasLimit uint64, gasPriceWei *big.Int, nativePriceUSD decimal.Decimal) *GasCost {
	totalWei := new(big.Int).Mul(gasPriceWei, new(big.Int).SetUint64(gasLimit))

	// 1 native coin = 10^18 wei
	native := decimal.NewFromBigInt(totalWei, -18)

	return &GasCost{
		GasLimit: gasLimit,
		GasPrice: new(big.Int).Set(gasPriceWei),
		TotalWei: totalWei,
		Native:   native,
		USD:      native.Mul(nativePriceUSD),
	}
}

// ProfitResult contains the calculated profit for an opportunity. All values
// are USD.
type ProfitResult struct {
	GrossProfit  decimal.Decimal
	GasCost      decimal.Decimal
	NetProfit    decimal.Decimal // negative when gas exceeds the spread
	NetProfitPct decimal.Decimal // relative to trade value (e.g. 1.8 for 1.8%)
	IsProfitable bool
}
