package domain

import (
	"testing"

	"github.com/shopspring/decimal"

	pricingDomain "github.com/fd1az/flashloan-scanner/business/pricing/domain"
	"github.com/fd1az/flashloan-scanner/internal/asset"
)

func testOpportunity(t *testing.T, sellVenue, buyVenue string) *Opportunity {
	t.Helper()
	amountIn, err := asset.ParseString(asset.WMATIC, "1000")
	if err != nil {
		t.Fatal(err)
	}
	return &Opportunity{
		Pair:      pricingDomain.NewPair(asset.WMATIC, asset.USDC),
		AmountIn:  amountIn,
		SellVenue: sellVenue,
		BuyVenue:  buyVenue,
	}
}

func TestOpportunityKey(t *testing.T) {
	a := testOpportunity(t, "sushiswap", "quickswap")
	b := testOpportunity(t, "sushiswap", "quickswap")

	if a.Key() != b.Key() {
		t.Errorf("identical opportunities should share a key: %q vs %q", a.Key(), b.Key())
	}

	// Reversing the route is a different opportunity.
	c := testOpportunity(t, "quickswap", "sushiswap")
	if a.Key() == c.Key() {
		t.Errorf("reversed route should produce a different key: %q", a.Key())
	}

	// A different size is a different opportunity.
	d := testOpportunity(t, "sushiswap", "quickswap")
	amountIn, err := asset.ParseString(asset.WMATIC, "5000")
	if err != nil {
		t.Fatal(err)
	}
	d.AmountIn = amountIn
	if a.Key() == d.Key() {
		t.Errorf("different size should produce a different key: %q", a.Key())
	}
}

func TestOpportunityGasShare(t *testing.T) {
	opp := testOpportunity(t, "sushiswap", "quickswap")

	// No profit computed yet: gas notionally consumes everything.
	if !opp.GasShare().Equal(decimal.NewFromInt(1)) {
		t.Errorf("gas share without profit = %s, want 1", opp.GasShare())
	}

	opp.Profit = &ProfitResult{
		GrossProfit: decimal.RequireFromString("20"),
		GasCost:     decimal.RequireFromString("5"),
	}
	if !opp.GasShare().Equal(decimal.RequireFromString("0.25")) {
		t.Errorf("gas share = %s, want 0.25", opp.GasShare())
	}

	// Zero gross profit cannot be divided into.
	opp.Profit = &ProfitResult{
		GrossProfit: decimal.Zero,
		GasCost:     decimal.RequireFromString("5"),
	}
	if !opp.GasShare().Equal(decimal.NewFromInt(1)) {
		t.Errorf("gas share with zero gross = %s, want 1", opp.GasShare())
	}
}

func TestOpportunityIsProfitable(t *testing.T) {
	opp := testOpportunity(t, "sushiswap", "quickswap")

	if opp.IsProfitable() {
		t.Error("opportunity without a profit result must not be profitable")
	}

	opp.Profit = &ProfitResult{IsProfitable: true}
	if !opp.IsProfitable() {
		t.Error("expected profitable")
	}
}
