package app

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/fd1az/flashloan-scanner/business/pricing/domain"
	"github.com/fd1az/flashloan-scanner/internal/asset"
	"github.com/fd1az/flashloan-scanner/internal/logger"
)

type fakeVenue struct {
	name  string
	out   string // human units of tokenOut; "" means error
	err   error
	calls int
}

func (f *fakeVenue) Name() string { return f.name }

func (f *fakeVenue) GetQuote(ctx context.Context, tokenIn, tokenOut *asset.Asset, amountIn asset.Amount) (*domain.Quote, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	amountOut, err := asset.ParseString(tokenOut, f.out)
	if err != nil {
		return nil, err
	}
	q := domain.NewQuote(f.name, tokenIn, tokenOut, amountIn, amountOut, 150_000)
	return &q, nil
}

func testLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.LevelError, "test", nil)
}

func testPair() domain.Pair {
	return domain.NewPair(asset.WMATIC, asset.USDC)
}

func wmatic(t *testing.T, s string) asset.Amount {
	t.Helper()
	a, err := asset.ParseString(asset.WMATIC, s)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestCollectQuotes_FanOut(t *testing.T) {
	venues := []VenueQuoter{
		&fakeVenue{name: "quickswap", out: "520"},
		&fakeVenue{name: "sushiswap", out: "525"},
		&fakeVenue{name: "oneinch", out: "523"},
	}

	svc, err := NewQuoteService(venues, DefaultQuoteServiceConfig(), testLogger())
	if err != nil {
		t.Fatal(err)
	}

	quotes, err := svc.CollectQuotes(context.Background(), testPair(), wmatic(t, "1000"))
	if err != nil {
		t.Fatalf("CollectQuotes failed: %v", err)
	}
	if len(quotes) != 3 {
		t.Errorf("got %d quotes, want 3", len(quotes))
	}
}

func TestCollectQuotes_VenueErrorsAreSkipped(t *testing.T) {
	venues := []VenueQuoter{
		&fakeVenue{name: "quickswap", out: "520"},
		&fakeVenue{name: "sushiswap", err: errors.New("rpc timeout")},
	}

	svc, err := NewQuoteService(venues, DefaultQuoteServiceConfig(), testLogger())
	if err != nil {
		t.Fatal(err)
	}

	quotes, err := svc.CollectQuotes(context.Background(), testPair(), wmatic(t, "1000"))
	if err != nil {
		t.Fatalf("one healthy venue should be enough: %v", err)
	}
	if len(quotes) != 1 || quotes[0].Venue != "quickswap" {
		t.Errorf("got %+v, want single quickswap quote", quotes)
	}
}

func TestCollectQuotes_AllVenuesFail(t *testing.T) {
	venues := []VenueQuoter{
		&fakeVenue{name: "quickswap", err: errors.New("rpc timeout")},
		&fakeVenue{name: "sushiswap", err: errors.New("rpc timeout")},
	}

	svc, err := NewQuoteService(venues, DefaultQuoteServiceConfig(), testLogger())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.CollectQuotes(context.Background(), testPair(), wmatic(t, "1000")); err == nil {
		t.Error("expected error when no venue answers")
	}
}

func TestCollectQuotes_InvalidQuoteRejected(t *testing.T) {
	venues := []VenueQuoter{
		&fakeVenue{name: "quickswap", out: "520"},
		// 1000 WMATIC -> 0.0001 USDC is below the sanity bounds.
		&fakeVenue{name: "broken", out: "0.0001"},
	}

	svc, err := NewQuoteService(venues, DefaultQuoteServiceConfig(), testLogger())
	if err != nil {
		t.Fatal(err)
	}

	quotes, err := svc.CollectQuotes(context.Background(), testPair(), wmatic(t, "1000"))
	if err != nil {
		t.Fatal(err)
	}
	if len(quotes) != 1 || quotes[0].Venue != "quickswap" {
		t.Errorf("implausible quote should be dropped, got %+v", quotes)
	}
}

func TestCollectQuotes_CachesPerVenueAndSize(t *testing.T) {
	venue := &fakeVenue{name: "quickswap", out: "520"}

	svc, err := NewQuoteService([]VenueQuoter{venue}, QuoteServiceConfig{
		Timeout:  time.Second,
		CacheTTL: time.Minute,
	}, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	pair := testPair()

	if _, err := svc.CollectQuotes(ctx, pair, wmatic(t, "1000")); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CollectQuotes(ctx, pair, wmatic(t, "1000")); err != nil {
		t.Fatal(err)
	}
	if venue.calls != 1 {
		t.Errorf("same size should hit cache, venue called %d times", venue.calls)
	}

	// A different size is a different quote.
	if _, err := svc.CollectQuotes(ctx, pair, wmatic(t, "5000")); err != nil {
		t.Fatal(err)
	}
	if venue.calls != 2 {
		t.Errorf("new size should miss cache, venue called %d times", venue.calls)
	}
}

func TestNewQuoteService_RequiresVenues(t *testing.T) {
	if _, err := NewQuoteService(nil, DefaultQuoteServiceConfig(), testLogger()); err == nil {
		t.Error("expected error for empty venue list")
	}
}
