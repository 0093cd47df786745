package domain

import "github.com/shopspring/decimal"

// Spread represents the price difference between two venues quoting the same
// pair and size.
type Spread struct {
	BuyVenue  string // venue with the lower price (where you would buy)
	SellVenue string // venue with the higher price (where you would sell)
	BuyPrice  decimal.Decimal
	SellPrice decimal.Decimal
	Absolute  decimal.Decimal // SellPrice - BuyPrice
	Percent   decimal.Decimal // Absolute / BuyPrice * 100
}

// CalculateSpread computes the spread between two venue quotes. The venue
// with the higher effective price becomes the sell side.
func CalculateSpread(a, b Quote) Spread {
	aPrice, bPrice := a.Rate(), b.Rate()

	buy, sell := a, b
	buyPrice, sellPrice := aPrice, bPrice
	if aPrice.GreaterThan(bPrice) {
		buy, sell = b, a
		buyPrice, sellPrice = bPrice, aPrice
	}

	absolute := sellPrice.Sub(buyPrice)
	percent := decimal.Zero
	if !buyPrice.IsZero() {
		percent = absolute.Div(buyPrice).Mul(decimal.NewFromInt(100))
	}

	return Spread{
		BuyVenue:  buy.Venue,
		SellVenue: sell.Venue,
		BuyPrice:  buyPrice,
		SellPrice: sellPrice,
		Absolute:  absolute,
		Percent:   percent,
	}
}

// Profitable reports whether the spread clears the given percentage
// threshold.
func (s Spread) Profitable(thresholdPct decimal.Decimal) bool {
	return s.Percent.GreaterThan(thresholdPct)
}
