package app

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fd1az/flashloan-scanner/business/arbitrage/domain"
	pricingDomain "github.com/fd1az/flashloan-scanner/business/pricing/domain"
	"github.com/fd1az/flashloan-scanner/internal/asset"
	"github.com/fd1az/flashloan-scanner/internal/logger"
)

func testLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.LevelError, "test", nil)
}

func testRanker(t *testing.T) *Ranker {
	t.Helper()
	return NewRanker(RankerConfig{
		MinTradeUSD:  decimal.RequireFromString("100"),
		MaxTradeUSD:  decimal.RequireFromString("10000"),
		PairCooldown: time.Minute,
	}, testLogger())
}

func rankerOpp(t *testing.T, size, valueUSD, netUSD, netPct, grossUSD, gasUSDCost string) *domain.Opportunity {
	t.Helper()
	amountIn, err := asset.ParseString(asset.WMATIC, size)
	if err != nil {
		t.Fatal(err)
	}
	return &domain.Opportunity{
		Pair:          pricingDomain.NewPair(asset.WMATIC, asset.USDC),
		AmountIn:      amountIn,
		SellVenue:     "sushiswap",
		BuyVenue:      "quickswap",
		TradeValueUSD: decimal.RequireFromString(valueUSD),
		Profit: &domain.ProfitResult{
			GrossProfit:  decimal.RequireFromString(grossUSD),
			GasCost:      decimal.RequireFromString(gasUSDCost),
			NetProfit:    decimal.RequireFromString(netUSD),
			NetProfitPct: decimal.RequireFromString(netPct),
			IsProfitable: true,
		},
	}
}

func TestSelect_DropsUnprofitable(t *testing.T) {
	r := testRanker(t)

	opp := rankerOpp(t, "1000", "520", "10", "1.9", "12", "2")
	opp.Profit.IsProfitable = false

	if kept := r.Select(context.Background(), []*domain.Opportunity{opp}); len(kept) != 0 {
		t.Errorf("unprofitable opportunity survived, kept %d", len(kept))
	}
}

func TestSelect_EnforcesTradeBand(t *testing.T) {
	r := testRanker(t)

	tooSmall := rankerOpp(t, "100", "50", "10", "20", "12", "2")
	tooLarge := rankerOpp(t, "50000", "26000", "100", "0.4", "120", "20")
	inBand := rankerOpp(t, "1000", "520", "10", "1.9", "12", "2")

	kept := r.Select(context.Background(), []*domain.Opportunity{tooSmall, tooLarge, inBand})
	if len(kept) != 1 {
		t.Fatalf("kept %d opportunities, want 1", len(kept))
	}
	if !kept[0].TradeValueUSD.Equal(decimal.RequireFromString("520")) {
		t.Errorf("wrong opportunity survived: value %s", kept[0].TradeValueUSD)
	}
}

func TestSelect_CooldownSuppressesRepeats(t *testing.T) {
	r := testRanker(t)
	ctx := context.Background()

	first := rankerOpp(t, "1000", "520", "10", "1.9", "12", "2")
	if kept := r.Select(ctx, []*domain.Opportunity{first}); len(kept) != 1 {
		t.Fatalf("first sighting should pass, kept %d", len(kept))
	}

	repeat := rankerOpp(t, "1000", "520", "11", "2.0", "13", "2")
	if kept := r.Select(ctx, []*domain.Opportunity{repeat}); len(kept) != 0 {
		t.Errorf("same key inside cooldown should be suppressed, kept %d", len(kept))
	}

	// A different size has a different key and is not a repeat.
	other := rankerOpp(t, "2000", "1040", "20", "1.9", "24", "4")
	if kept := r.Select(ctx, []*domain.Opportunity{other}); len(kept) != 1 {
		t.Errorf("different size should pass, kept %d", len(kept))
	}
}

func TestSelect_OrdersByScore(t *testing.T) {
	r := testRanker(t)

	small := rankerOpp(t, "1000", "520", "6", "1.1", "8", "2")
	big := rankerOpp(t, "5000", "2600", "52", "2.0", "60", "8")

	kept := r.Select(context.Background(), []*domain.Opportunity{small, big})
	if len(kept) != 2 {
		t.Fatalf("kept %d opportunities, want 2", len(kept))
	}
	if !kept[0].Profit.NetProfit.Equal(decimal.RequireFromString("52")) {
		t.Errorf("best opportunity should rank first, got net %s", kept[0].Profit.NetProfit)
	}
}

func TestScore_GasSharePenalty(t *testing.T) {
	r := testRanker(t)

	// Same net numbers, but one pays most of the gross to gas.
	cheap := rankerOpp(t, "1000", "520", "10", "1.9", "40", "2")
	expensive := rankerOpp(t, "2000", "1040", "10", "1.9", "40", "30")

	if !r.Score(cheap).GreaterThan(r.Score(expensive)) {
		t.Errorf("gas-heavy opportunity should score lower: %s vs %s",
			r.Score(cheap), r.Score(expensive))
	}
}

func TestScore_HotPairBonus(t *testing.T) {
	r := testRanker(t)
	ctx := context.Background()

	base := r.Score(rankerOpp(t, "1000", "520", "10", "1.9", "40", "2"))

	// Fire the pair enough times to mark it hot. Sizes differ so the
	// cooldown does not swallow them.
	sizes := []string{"100", "200", "300", "400", "500"}
	for _, size := range sizes {
		value := decimal.RequireFromString(size).Mul(decimal.RequireFromString("0.52"))
		opp := rankerOpp(t, size, value.String(), "10", "1.9", "40", "2")
		opp.TradeValueUSD = decimal.RequireFromString("520")
		r.Select(ctx, []*domain.Opportunity{opp})
	}

	hot := r.Score(rankerOpp(t, "1000", "520", "10", "1.9", "40", "2"))
	if !hot.GreaterThan(base) {
		t.Errorf("recurring pair should earn a bonus: %s vs %s", hot, base)
	}
}
