package app

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fd1az/flashloan-scanner/internal/apperror"
	"github.com/fd1az/flashloan-scanner/internal/asset"
)

// USDConverter values token amounts in USD by quoting them against USDC on
// the registered venues. Stablecoins convert 1:1; everything else gets the
// best venue's executable price, so the value reflects real depth for the
// amount instead of a mid price.
type USDConverter struct {
	quotes *QuoteService
	usdc   *asset.Asset
	native *asset.Asset // wrapped native used to price gas, e.g. WMATIC
}

// NewUSDConverter creates a converter quoting against usdc, using wrapped
// for the chain's native coin.
func NewUSDConverter(quotes *QuoteService, usdc, wrapped *asset.Asset) *USDConverter {
	return &USDConverter{
		quotes: quotes,
		usdc:   usdc,
		native: wrapped,
	}
}

// ToUSD returns the USD value of amount.
func (c *USDConverter) ToUSD(ctx context.Context, amount asset.Amount) (decimal.Decimal, error) {
	if amount.IsZero() {
		return decimal.Zero, nil
	}

	a := amount.Asset()
	if a.IsStable() || a.Equals(c.usdc) {
		return amount.ToDecimal(), nil
	}

	target := a
	if a.IsNative() {
		target = c.native
	}

	quotes, err := c.quotes.collect(ctx, target, c.usdc, asset.NewAmount(target, amount.Raw()))
	if err != nil {
		return decimal.Zero, fmt.Errorf("value %s in USD: %w", a.Symbol(), err)
	}

	best := quotes[0]
	for _, q := range quotes[1:] {
		if gt, _ := q.AmountOut.GreaterThan(best.AmountOut); gt {
			best = q
		}
	}

	return best.AmountOut.ToDecimal(), nil
}

// UnitUSD returns the USD price of one token.
func (c *USDConverter) UnitUSD(ctx context.Context, a *asset.Asset) (decimal.Decimal, error) {
	if a.IsStable() || a.Equals(c.usdc) {
		return decimal.NewFromInt(1), nil
	}

	one, err := asset.ParseString(a, "1")
	if err != nil {
		return decimal.Zero, err
	}
	return c.ToUSD(ctx, one)
}

// NativeUSD returns the USD price of one native coin.
func (c *USDConverter) NativeUSD(ctx context.Context) (decimal.Decimal, error) {
	one, err := asset.ParseString(c.native, "1")
	if err != nil {
		return decimal.Zero, err
	}

	price, err := c.ToUSD(ctx, one)
	if err != nil {
		return decimal.Zero, err
	}
	if price.Sign() <= 0 {
		return decimal.Zero, apperror.New(apperror.CodeInvalidQuote,
			apperror.WithContext(fmt.Sprintf("non-positive %s price", c.native.Symbol())))
	}

	return price, nil
}
