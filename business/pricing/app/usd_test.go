package app

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	pricingDomain "github.com/fd1az/flashloan-scanner/business/pricing/domain"
	"github.com/fd1az/flashloan-scanner/internal/asset"
)

// priceVenue quotes a fixed rate at any size.
type priceVenue struct {
	name string
	rate string
}

func (v *priceVenue) Name() string { return v.name }

func (v *priceVenue) GetQuote(ctx context.Context, tokenIn, tokenOut *asset.Asset, amountIn asset.Amount) (*pricingDomain.Quote, error) {
	out := amountIn.ToDecimal().Mul(decimal.RequireFromString(v.rate))
	amountOut, err := asset.ParseDecimal(tokenOut, out)
	if err != nil {
		return nil, err
	}
	q := pricingDomain.NewQuote(v.name, tokenIn, tokenOut, amountIn, amountOut, 150_000)
	return &q, nil
}

func testConverter(t *testing.T, venues ...VenueQuoter) *USDConverter {
	t.Helper()
	svc, err := NewQuoteService(venues, DefaultQuoteServiceConfig(), testLogger())
	if err != nil {
		t.Fatal(err)
	}
	return NewUSDConverter(svc, asset.USDC, asset.WMATIC)
}

func TestToUSD_StablecoinIsFaceValue(t *testing.T) {
	c := testConverter(t, &priceVenue{name: "quickswap", rate: "0.52"})

	amount, err := asset.ParseString(asset.USDC, "1234.56")
	if err != nil {
		t.Fatal(err)
	}

	got, err := c.ToUSD(context.Background(), amount)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(decimal.RequireFromString("1234.56")) {
		t.Errorf("usd = %s, want face value", got)
	}
}

func TestToUSD_TokenUsesBestVenue(t *testing.T) {
	c := testConverter(t,
		&priceVenue{name: "quickswap", rate: "0.52"},
		&priceVenue{name: "sushiswap", rate: "0.53"},
	)

	amount, err := asset.ParseString(asset.WMATIC, "1000")
	if err != nil {
		t.Fatal(err)
	}

	got, err := c.ToUSD(context.Background(), amount)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(decimal.RequireFromString("530")) {
		t.Errorf("usd = %s, want the best venue's 530", got)
	}
}

func TestToUSD_ZeroAmount(t *testing.T) {
	c := testConverter(t, &priceVenue{name: "quickswap", rate: "0.52"})

	got, err := c.ToUSD(context.Background(), asset.NewAmountFromInt64(asset.WMATIC, 0))
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsZero() {
		t.Errorf("usd of zero = %s, want 0", got)
	}
}

func TestUnitUSD(t *testing.T) {
	c := testConverter(t, &priceVenue{name: "quickswap", rate: "0.52"})
	ctx := context.Background()

	stable, err := c.UnitUSD(ctx, asset.USDC)
	if err != nil {
		t.Fatal(err)
	}
	if !stable.Equal(decimal.NewFromInt(1)) {
		t.Errorf("stablecoin unit = %s, want 1", stable)
	}

	token, err := c.UnitUSD(ctx, asset.WMATIC)
	if err != nil {
		t.Fatal(err)
	}
	if !token.Equal(decimal.RequireFromString("0.52")) {
		t.Errorf("token unit = %s, want 0.52", token)
	}
}

func TestNativeUSD(t *testing.T) {
	c := testConverter(t, &priceVenue{name: "quickswap", rate: "0.52"})

	got, err := c.NativeUSD(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(decimal.RequireFromString("0.52")) {
		t.Errorf("native usd = %s, want 0.52", got)
	}
}

func TestNativeUSD_RejectsZeroPrice(t *testing.T) {
	c := testConverter(t, &priceVenue{name: "broken", rate: "0"})

	if _, err := c.NativeUSD(context.Background()); err == nil {
		t.Error("expected error for a zero native price")
	}
}
