// Package domain contains the core domain types for the blockchain context.
package domain

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// GasPrice represents a sampled gas price.
type GasPrice struct {
	Wei       *big.Int
	Timestamp time.Time
}

// NewGasPrice creates a GasPrice from wei.
func NewGasPrice(wei *big.Int) *GasPrice {
	return &GasPrice{
		Wei:       new(big.Int).Set(wei),
		Timestamp: time.Now(),
	}
}

// Gwei returns the price in gwei.
func (p *GasPrice) Gwei() float64 {
	gwei := new(big.Float).SetInt(p.Wei)
	gwei.Quo(gwei, big.NewFloat(1e9))
	f, _ := gwei.Float64()
	return f
}

// GweiDecimal returns the price in gwei as a decimal.
func (p *GasPrice) GweiDecimal() decimal.Decimal {
	return decimal.NewFromBigInt(p.Wei, -9)
}

// GasEstimate represents the estimated cost of a transaction.
type GasEstimate struct {
	GasLimit uint64
	GasPrice *GasPrice
}

// NewGasEstimate creates a GasEstimate from a gas limit and price.
func NewGasEstimate(gasLimit uint64, gasPrice *GasPrice) *GasEstimate {
	return &GasEstimate{
		GasLimit: gasLimit,
		GasPrice: gasPrice,
	}
}

// TotalWei returns the total cost in wei.
func (e *GasEstimate) TotalWei() *big.Int {
	return new(big.Int).Mul(e.GasPrice.Wei, new(big.Int).SetUint64(e.GasLimit))
}

// TotalGwei returns the total cost in gwei.
func (e *GasEstimate) TotalGwei() float64 {
	return e.GasPrice.Gwei() * float64(e.GasLimit)
}

// CostNative returns the total cost in the chain's native coin.
func (e *GasEstimate) CostNative() decimal.Decimal {
	return decimal.NewFromBigInt(e.TotalWei(), -18)
}

// CostUSD converts the total cost to USD given the native coin's USD price.
func (e *GasEstimate) CostUSD(nativeUSD decimal.Decimal) decimal.Decimal {
	return e.CostNative().Mul(nativeUSD)
}
