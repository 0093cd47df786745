package domain_test

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fd1az/flashloan-scanner/business/pricing/domain"
	"github.com/fd1az/flashloan-scanner/internal/asset"
)

func usdcAmount(t *testing.T, s string) asset.Amount {
	t.Helper()
	a, err := asset.ParseString(asset.USDC, s)
	if err != nil {
		t.Fatalf("parse %s USDC: %v", s, err)
	}
	return a
}

func wmaticAmount(t *testing.T, s string) asset.Amount {
	t.Helper()
	a, err := asset.ParseString(asset.WMATIC, s)
	if err != nil {
		t.Fatalf("parse %s WMATIC: %v", s, err)
	}
	return a
}

func TestNewQuote_EffectivePrice(t *testing.T) {
	// 1000 WMATIC -> 520 USDC, so 0.52 USDC per WMATIC.
	q := domain.NewQuote("quickswap", asset.WMATIC, asset.USDC,
		wmaticAmount(t, "1000"), usdcAmount(t, "520"), 150_000)

	want := decimal.RequireFromString("0.52")
	if !q.Rate().Equal(want) {
		t.Errorf("rate = %s, want %s", q.Rate(), want)
	}
}

func TestQuote_Validate(t *testing.T) {
	tests := []struct {
		name    string
		quote   domain.Quote
		wantErr bool
	}{
		{
			name: "sane_quote",
			quote: domain.NewQuote("quickswap", asset.WMATIC, asset.USDC,
				wmaticAmount(t, "1000"), usdcAmount(t, "520"), 150_000),
			wantErr: false,
		},
		{
			name: "zero_output",
			quote: domain.NewQuote("quickswap", asset.WMATIC, asset.USDC,
				wmaticAmount(t, "1000"), asset.Zero(asset.USDC), 150_000),
			wantErr: true,
		},
		{
			name: "zero_input",
			quote: domain.NewQuote("quickswap", asset.WMATIC, asset.USDC,
				asset.Zero(asset.WMATIC), usdcAmount(t, "520"), 150_000),
			wantErr: true,
		},
		{
			name: "depegged_stable_pair",
			quote: domain.NewQuote("sushiswap", asset.USDC, asset.USDT,
				usdcAmount(t, "1000"), mustAmount(t, asset.USDT, "1200"), 150_000),
			wantErr: true,
		},
		{
			name: "stable_pair_at_peg",
			quote: domain.NewQuote("sushiswap", asset.USDC, asset.USDT,
				usdcAmount(t, "1000"), mustAmount(t, asset.USDT, "999.4"), 150_000),
			wantErr: false,
		},
		{
			name: "absurd_ratio",
			quote: domain.NewQuote("quickswap", asset.WMATIC, asset.USDC,
				asset.NewAmount(asset.WMATIC, big.NewInt(1)), usdcAmount(t, "5000000"), 150_000),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.quote.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func mustAmount(t *testing.T, a *asset.Asset, s string) asset.Amount {
	t.Helper()
	amt, err := asset.ParseString(a, s)
	if err != nil {
		t.Fatalf("parse %s %s: %v", s, a.Symbol(), err)
	}
	return amt
}

func TestCalculateSpread(t *testing.T) {
	size := wmaticAmount(t, "1000")
	cheap := domain.NewQuote("quickswap", asset.WMATIC, asset.USDC, size, usdcAmount(t, "520"), 150_000)
	rich := domain.NewQuote("sushiswap", asset.WMATIC, asset.USDC, size, usdcAmount(t, "530.4"), 150_000)

	spread := domain.CalculateSpread(cheap, rich)

	if spread.BuyVenue != "quickswap" || spread.SellVenue != "sushiswap" {
		t.Errorf("direction = buy %s / sell %s, want buy quickswap / sell sushiswap",
			spread.BuyVenue, spread.SellVenue)
	}

	wantPct := decimal.RequireFromString("2")
	if !spread.Percent.Equal(wantPct) {
		t.Errorf("percent = %s, want %s", spread.Percent, wantPct)
	}

	if !spread.Profitable(decimal.RequireFromString("0.5")) {
		t.Error("2% spread should clear a 0.5% threshold")
	}
	if spread.Profitable(decimal.RequireFromString("2")) {
		t.Error("threshold is exclusive, 2% spread must not clear a 2% threshold")
	}
}

func TestCalculateSpread_OrderIndependent(t *testing.T) {
	size := wmaticAmount(t, "1000")
	a := domain.NewQuote("quickswap", asset.WMATIC, asset.USDC, size, usdcAmount(t, "520"), 150_000)
	b := domain.NewQuote("sushiswap", asset.WMATIC, asset.USDC, size, usdcAmount(t, "530.4"), 150_000)

	s1 := domain.CalculateSpread(a, b)
	s2 := domain.CalculateSpread(b, a)

	if s1.BuyVenue != s2.BuyVenue || !s1.Percent.Equal(s2.Percent) {
		t.Errorf("spread depends on argument order: %+v vs %+v", s1, s2)
	}
}

func TestParsePair(t *testing.T) {
	r := asset.DefaultRegistry()

	pair, err := domain.ParsePair("WMATIC-USDC", asset.ChainIDPolygon, r)
	if err != nil {
		t.Fatalf("ParsePair failed: %v", err)
	}
	if pair.String() != "WMATIC-USDC" {
		t.Errorf("pair = %s, want WMATIC-USDC", pair)
	}

	if _, err := domain.ParsePair("WMATIC", asset.ChainIDPolygon, r); err == nil {
		t.Error("expected error for malformed symbol")
	}
	if _, err := domain.ParsePair("FOO-USDC", asset.ChainIDPolygon, r); err == nil {
		t.Error("expected error for unknown asset")
	}
}
