package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	pricingDomain "github.com/fd1az/flashloan-scanner/business/pricing/domain"
	"github.com/fd1az/flashloan-scanner/internal/asset"
)

// Opportunity represents a detected flashloan arbitrage: borrow Pair.Base,
// sell it on SellVenue, buy it back cheaper on BuyVenue, repay.
type Opportunity struct {
	ID          string
	DetectedAt  time.Time
	BlockNumber uint64

	Pair     pricingDomain.Pair
	AmountIn asset.Amount // first-leg size in Pair.Base

	SellVenue string // venue quoting the higher price for Base
	BuyVenue  string // venue quoting the lower price
	Spread    pricingDomain.Spread

	SellQuote pricingDomain.Quote
	BuyQuote  pricingDomain.Quote

	TradeValueUSD decimal.Decimal
	GasCost       *GasCost
	Profit        *ProfitResult
}

// Key identifies the opportunity for dedup purposes. Two detections of the
// same pair, size and venue pairing within a cooldown window are the same
// opportunity.
func (o *Opportunity) Key() string {
	return fmt.Sprintf("%s|%s|%s|%s|%s",
		o.Pair.Base.Symbol(),
		o.Pair.Quote.Symbol(),
		o.AmountIn.Raw().String(),
		o.SellVenue,
		o.BuyVenue,
	)
}

// IsProfitable returns true if this opportunity has positive net profit
// above the configured thresholds.
func (o *Opportunity) IsProfitable() bool {
	return o.Profit != nil && o.Profit.IsProfitable
}

// GasShare returns what fraction of the gross profit gas consumes. Returns
// 1 when there is no gross profit to consume.
func (o *Opportunity) GasShare() decimal.Decimal {
	if o.Profit == nil || !o.Profit.GrossProfit.IsPositive() {
		return decimal.NewFromInt(1)
	}
	return o.Profit.GasCost.Div(o.Profit.GrossProfit)
}
