package oneinch

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fd1az/flashloan-scanner/internal/asset"
	"github.com/fd1az/flashloan-scanner/internal/logger"
)

func testLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.LevelError, "test", nil)
}

func wmatic(t *testing.T, s string) asset.Amount {
	t.Helper()
	a, err := asset.ParseString(asset.WMATIC, s)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestGetQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/quote" {
			t.Errorf("path = %s, want /quote", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("src") == "" || q.Get("dst") == "" || q.Get("amount") != "1000000000000000000000" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		// 520 USDC for 1000 WMATIC.
		w.Write([]byte(`{"dstAmount":"520000000","gas":210000}`))
	}))
	defer srv.Close()

	venue, err := NewVenue(Config{BaseURL: srv.URL}, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	quote, err := venue.GetQuote(context.Background(), asset.WMATIC, asset.USDC, wmatic(t, "1000"))
	if err != nil {
		t.Fatalf("GetQuote failed: %v", err)
	}

	if quote.Venue != VenueName {
		t.Errorf("venue = %s, want %s", quote.Venue, VenueName)
	}
	if quote.AmountOut.Raw().String() != "520000000" {
		t.Errorf("amount out = %s, want 520000000", quote.AmountOut.Raw())
	}
	if quote.GasEstimate != 210000 {
		t.Errorf("gas = %d, want 210000", quote.GasEstimate)
	}
}

func TestGetQuote_BadAmount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"dstAmount":"not-a-number"}`))
	}))
	defer srv.Close()

	venue, err := NewVenue(Config{BaseURL: srv.URL}, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := venue.GetQuote(context.Background(), asset.WMATIC, asset.USDC, wmatic(t, "1000")); err == nil {
		t.Error("expected error for unparseable amount")
	}
}

func TestGetQuote_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer srv.Close()

	venue, err := NewVenue(Config{BaseURL: srv.URL}, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := venue.GetQuote(context.Background(), asset.WMATIC, asset.USDC, wmatic(t, "1000")); err == nil {
		t.Error("expected error for 429 response")
	}
}

func TestNewVenue_RequiresBaseURL(t *testing.T) {
	if _, err := NewVenue(Config{}, testLogger()); err == nil {
		t.Error("expected error for missing base url")
	}
}
