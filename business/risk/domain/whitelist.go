package domain

import "github.com/fd1az/flashloan-scanner/internal/asset"

// Whitelist is the set of token symbols the engine allows trading.
type Whitelist map[string]struct{}

// NewWhitelist builds a whitelist from symbols.
func NewWhitelist(symbols ...string) Whitelist {
	w := make(Whitelist, len(symbols))
	for _, s := range symbols {
		w[s] = struct{}{}
	}
	return w
}

// DefaultWhitelist covers the established Polygon tokens the scanner is
// configured for out of the box.
func DefaultWhitelist() Whitelist {
	return NewWhitelist("USDC", "USDT", "DAI", "WMATIC", "WETH", "WBTC", "LINK", "AAVE")
}

// Allows reports whether the token may be traded.
func (w Whitelist) Allows(a *asset.Asset) bool {
	_, ok := w[a.Symbol()]
	return ok
}
