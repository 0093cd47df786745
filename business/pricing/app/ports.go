// Package app contains application services and port definitions for the pricing context.
package app

import (
	"context"

	"github.com/fd1az/flashloan-scanner/business/pricing/domain"
	"github.com/fd1az/flashloan-scanner/internal/asset"
)

// VenueQuoter is the interface every quote source implements, whether it is
// an on-chain router, an on-chain quoter contract, or an HTTP aggregator.
type VenueQuoter interface {
	// Name returns the venue identifier (e.g., "quickswap").
	Name() string

	// GetQuote returns the venue's output amount for swapping amountIn of
	// tokenIn into tokenOut.
	GetQuote(ctx context.Context, tokenIn, tokenOut *asset.Asset, amountIn asset.Amount) (*domain.Quote, error)
}
