// Package domain contains the core domain types for the pricing context.
package domain

import (
	"fmt"
	"strings"

	"github.com/fd1az/flashloan-scanner/internal/asset"
)

// Pair represents a trading pair using typed assets.
type Pair struct {
	Base  *asset.Asset // e.g., WMATIC
	Quote *asset.Asset // e.g., USDC
}

// NewPair creates a new trading pair.
func NewPair(base, quote *asset.Asset) Pair {
	if base == nil || quote == nil {
		panic("pricing: nil asset in pair")
	}
	return Pair{Base: base, Quote: quote}
}

// ParsePair resolves a "BASE-QUOTE" symbol string against the registry.
func ParsePair(symbol string, chainID uint64, registry *asset.Registry) (Pair, error) {
	parts := strings.Split(symbol, "-")
	if len(parts) != 2 {
		return Pair{}, fmt.Errorf("invalid pair symbol %q, want BASE-QUOTE", symbol)
	}

	base, ok := registry.GetBySymbolAndChain(parts[0], chainID)
	if !ok {
		return Pair{}, fmt.Errorf("unknown base asset %q on chain %d", parts[0], chainID)
	}
	quote, ok := registry.GetBySymbolAndChain(parts[1], chainID)
	if !ok {
		return Pair{}, fmt.Errorf("unknown quote asset %q on chain %d", parts[1], chainID)
	}

	return Pair{Base: base, Quote: quote}, nil
}

// String returns the pair symbol (e.g., "WMATIC-USDC").
func (p Pair) String() string {
	return p.Base.Symbol() + "-" + p.Quote.Symbol()
}

// Invert returns the inverted pair (e.g., WMATIC-USDC -> USDC-WMATIC).
func (p Pair) Invert() Pair {
	return Pair{Base: p.Quote, Quote: p.Base}
}
