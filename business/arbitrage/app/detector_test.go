package app

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	blockchainApp "github.com/fd1az/flashloan-scanner/business/blockchain/app"
	blockchainDomain "github.com/fd1az/flashloan-scanner/business/blockchain/domain"
	pricingApp "github.com/fd1az/flashloan-scanner/business/pricing/app"
	pricingDomain "github.com/fd1az/flashloan-scanner/business/pricing/domain"
	"github.com/fd1az/flashloan-scanner/internal/asset"
)

// rateVenue quotes a fixed tokenOut-per-tokenIn rate at any size.
type rateVenue struct {
	name string
	rate string
}

func (v *rateVenue) Name() string { return v.name }

func (v *rateVenue) GetQuote(ctx context.Context, tokenIn, tokenOut *asset.Asset, amountIn asset.Amount) (*pricingDomain.Quote, error) {
	out := amountIn.ToDecimal().Mul(decimal.RequireFromString(v.rate))
	amountOut, err := asset.ParseDecimal(tokenOut, out)
	if err != nil {
		return nil, err
	}
	q := pricingDomain.NewQuote(v.name, tokenIn, tokenOut, amountIn, amountOut, 150_000)
	return &q, nil
}

type stubSubscriber struct{}

func (s *stubSubscriber) Subscribe(ctx context.Context) (<-chan *blockchainDomain.Block, error) {
	ch := make(chan *blockchainDomain.Block)
	close(ch)
	return ch, nil
}

func (s *stubSubscriber) LatestBlock(ctx context.Context) (*blockchainDomain.Block, error) {
	return &blockchainDomain.Block{Number: 52_000_000, Timestamp: time.Now()}, nil
}

func (s *stubSubscriber) State() blockchainDomain.ConnectionState {
	return blockchainDomain.StateConnected
}

type stubGasOracle struct {
	gwei int64
}

func (s *stubGasOracle) GetGasPrice(ctx context.Context) (*blockchainDomain.GasPrice, error) {
	wei := new(big.Int).Mul(big.NewInt(s.gwei), big.NewInt(1_000_000_000))
	return blockchainDomain.NewGasPrice(wei), nil
}

func (s *stubGasOracle) EstimateGas(ctx context.Context, data []byte, to string) (uint64, error) {
	return 450_000, nil
}

func testDetector(t *testing.T, venues ...pricingApp.VenueQuoter) *Detector {
	t.Helper()

	quotes, err := pricingApp.NewQuoteService(venues, pricingApp.DefaultQuoteServiceConfig(), testLogger())
	if err != nil {
		t.Fatal(err)
	}

	usd := pricingApp.NewUSDConverter(quotes, asset.USDC, asset.WMATIC)
	blockchain := blockchainApp.NewBlockchainService(&stubSubscriber{}, &stubGasOracle{gwei: 30})

	calc := NewProfitCalculator(
		decimal.RequireFromString("0.5"),
		decimal.RequireFromString("5"),
	)

	detector, err := NewDetector(quotes, usd, blockchain, calc,
		DetectorConfig{FlashloanGas: 300_000}, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	return detector
}

func detectorPair() pricingDomain.Pair {
	return pricingDomain.NewPair(asset.WMATIC, asset.USDC)
}

func detectorAmount(t *testing.T, s string) asset.Amount {
	t.Helper()
	a, err := asset.ParseString(asset.WMATIC, s)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestDetect_FindsCrossVenueSpread(t *testing.T) {
	// Sushiswap pays 2% more per WMATIC than quickswap.
	d := testDetector(t,
		&rateVenue{name: "quickswap", rate: "0.52"},
		&rateVenue{name: "sushiswap", rate: "0.5304"},
	)

	result, err := d.Detect(context.Background(), detectorPair(), detectorAmount(t, "1000"), 52_000_000)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}

	if len(result.Quotes) != 2 {
		t.Fatalf("got %d quotes, want 2", len(result.Quotes))
	}
	if len(result.Opportunities) != 1 {
		t.Fatalf("got %d opportunities, want 1", len(result.Opportunities))
	}

	opp := result.Opportunities[0]
	if opp.SellVenue != "sushiswap" || opp.BuyVenue != "quickswap" {
		t.Errorf("route = sell %s buy %s, want sell sushiswap buy quickswap",
			opp.SellVenue, opp.BuyVenue)
	}
	if opp.BlockNumber != 52_000_000 {
		t.Errorf("block = %d, want 52000000", opp.BlockNumber)
	}

	// 0.0104 spread on 1000 WMATIC is $10.40 gross; polygon gas is cents.
	if !opp.Profit.GrossProfit.Equal(decimal.RequireFromString("10.4")) {
		t.Errorf("gross = %s, want 10.4", opp.Profit.GrossProfit)
	}
	if !opp.IsProfitable() {
		t.Errorf("expected profitable, net = %s", opp.Profit.NetProfit)
	}
	if opp.GasCost.GasLimit != 600_000 {
		t.Errorf("gas limit = %d, want swaps plus flashloan overhead", opp.GasCost.GasLimit)
	}
}

func TestDetect_SingleVenueCannotArbitrage(t *testing.T) {
	d := testDetector(t, &rateVenue{name: "quickswap", rate: "0.52"})

	result, err := d.Detect(context.Background(), detectorPair(), detectorAmount(t, "1000"), 1)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(result.Opportunities) != 0 {
		t.Errorf("one venue produced %d opportunities", len(result.Opportunities))
	}
}

func TestDetect_EqualPricesNoSpread(t *testing.T) {
	d := testDetector(t,
		&rateVenue{name: "quickswap", rate: "0.52"},
		&rateVenue{name: "sushiswap", rate: "0.52"},
	)

	result, err := d.Detect(context.Background(), detectorPair(), detectorAmount(t, "1000"), 1)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(result.Opportunities) != 0 {
		t.Errorf("flat market produced %d opportunities", len(result.Opportunities))
	}
}
