package asset

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// DefaultDecimals is assumed for tokens missing from the registry. This is a
// documented approximation: most ERC20s use 18, and a wrong guess surfaces as
// a rejected price ratio rather than a silent mispricing.
const DefaultDecimals uint8 = 18

// Validation errors for price ratios.
var (
	ErrNonPositiveRatio = errors.New("asset: price ratio must be positive")
	ErrRatioOutOfBounds = errors.New("asset: price ratio outside sane bounds")
	ErrStableRatioDrift = errors.New("asset: stablecoin pair ratio outside peg band")
)

// Accepted price-ratio bands. Stable-to-stable pairs must sit near the peg;
// everything else only has to clear the sanity bounds.
var (
	genericRatioMin = decimal.New(1, -6) // 1e-6
	genericRatioMax = decimal.New(1, 6)  // 1e6
	stableRatioMin  = decimal.RequireFromString("0.95")
	stableRatioMax  = decimal.RequireFromString("1.05")
)

// Normalize converts a raw smallest-unit amount to its human-scale decimal
// value. Non-positive raw values normalize to zero.
func Normalize(raw *big.Int, decimals uint8) decimal.Decimal {
	if raw == nil || raw.Sign() <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(raw, -int32(decimals))
}

// Denormalize converts a human-scale decimal value back to a raw
// smallest-unit integer, truncating any sub-unit fraction.
func Denormalize(d decimal.Decimal, decimals uint8) *big.Int {
	if d.Sign() <= 0 {
		return big.NewInt(0)
	}
	return d.Shift(int32(decimals)).Truncate(0).BigInt()
}

// PriceRatio computes output-per-input as a decimal, accounting for the two
// tokens' differing decimal scales. Returns zero when amountIn is not
// positive.
func PriceRatio(amountIn, amountOut *big.Int, decimalsIn, decimalsOut uint8) decimal.Decimal {
	in := Normalize(amountIn, decimalsIn)
	if in.IsZero() {
		return decimal.Zero
	}
	out := Normalize(amountOut, decimalsOut)
	return out.Div(in)
}

// ValidatePriceRatio checks that a quoted ratio is plausible for the pair.
// Stable-to-stable pairs must lie in [0.95, 1.05]; all other pairs in
// [1e-6, 1e6]. A ratio of zero or less is always rejected.
func ValidatePriceRatio(ratio decimal.Decimal, tokenIn, tokenOut *Asset) error {
	if ratio.Sign() <= 0 {
		return ErrNonPositiveRatio
	}

	if tokenIn != nil && tokenOut != nil && tokenIn.IsStable() && tokenOut.IsStable() {
		if ratio.LessThan(stableRatioMin) || ratio.GreaterThan(stableRatioMax) {
			return fmt.Errorf("%w: %s/%s = %s",
				ErrStableRatioDrift, tokenIn.Symbol(), tokenOut.Symbol(), ratio.String())
		}
		return nil
	}

	if ratio.LessThan(genericRatioMin) || ratio.GreaterThan(genericRatioMax) {
		return fmt.Errorf("%w: %s", ErrRatioOutOfBounds, ratio.String())
	}

	return nil
}

// DecimalsFor looks up a token's decimals in the registry, falling back to
// DefaultDecimals for unknown tokens. The second return reports whether the
// token was found so callers can log the fallback.
func (r *Registry) DecimalsFor(id AssetID) (uint8, bool) {
	if a, ok := r.Get(id); ok {
		return a.Decimals(), true
	}
	return DefaultDecimals, false
}
