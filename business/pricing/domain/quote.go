package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fd1az/flashloan-scanner/internal/asset"
)

// Quote is one venue's answer to "how much tokenOut do I get for amountIn
// tokenIn". Quotes are immutable snapshots; staleness is judged by Timestamp.
type Quote struct {
	Venue       string
	TokenIn     *asset.Asset
	TokenOut    *asset.Asset
	AmountIn    asset.Amount
	AmountOut   asset.Amount
	Price       asset.Price // Effective price (AmountOut/AmountIn, decimal-aware)
	GasEstimate uint64
	Timestamp   time.Time
}

// NewQuote creates a Quote, deriving the effective price from the amounts.
func NewQuote(venue string, tokenIn, tokenOut *asset.Asset, amountIn, amountOut asset.Amount, gasEstimate uint64) Quote {
	rate := decimal.Zero
	if !amountIn.IsZero() {
		rate = amountOut.ToDecimal().Div(amountIn.ToDecimal())
	}

	return Quote{
		Venue:       venue,
		TokenIn:     tokenIn,
		TokenOut:    tokenOut,
		AmountIn:    amountIn,
		AmountOut:   amountOut,
		Price:       asset.NewPriceNow(tokenIn, tokenOut, rate),
		GasEstimate: gasEstimate,
		Timestamp:   time.Now(),
	}
}

// Rate returns the effective tokenOut-per-tokenIn price.
func (q Quote) Rate() decimal.Decimal {
	return q.Price.Rate()
}

// Validate rejects quotes whose amounts or effective price are implausible.
// Stable-to-stable pairs must quote near the peg; everything else just has to
// clear the global sanity bounds.
func (q Quote) Validate() error {
	if !q.AmountIn.IsPositive() {
		return fmt.Errorf("quote from %s: non-positive input amount", q.Venue)
	}
	if !q.AmountOut.IsPositive() {
		return fmt.Errorf("quote from %s: non-positive output amount", q.Venue)
	}
	if err := asset.ValidatePriceRatio(q.Rate(), q.TokenIn, q.TokenOut); err != nil {
		return fmt.Errorf("quote from %s: %w", q.Venue, err)
	}
	return nil
}

// Age returns how old the quote is.
func (q Quote) Age() time.Duration {
	return time.Since(q.Timestamp)
}

// IsStale reports whether the quote is older than maxAge.
func (q Quote) IsStale(maxAge time.Duration) bool {
	return q.Age() > maxAge
}
