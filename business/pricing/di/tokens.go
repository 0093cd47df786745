// Package di contains dependency injection tokens for the pricing context.
package di

import (
	"github.com/fd1az/flashloan-scanner/business/pricing/app"
	"github.com/fd1az/flashloan-scanner/internal/di"
)

// Public service tokens - exposed to other modules
var (
	QuoteService = di.NewToken[*app.QuoteService]("pricing.QuoteService")
	USDConverter = di.NewToken[*app.USDConverter]("pricing.USDConverter")
)

// Private dependency tokens - internal to pricing module
var (
	Venues = di.NewToken[[]app.VenueQuoter]("pricing:venues")
)

// Helper functions for type-safe access
func GetQuoteService(c di.ServiceRegistry) *app.QuoteService {
	return di.GetToken(c, QuoteService)
}

func GetVenues(c di.ServiceRegistry) []app.VenueQuoter {
	return di.GetToken(c, Venues)
}

func GetUSDConverter(c di.ServiceRegistry) *app.USDConverter {
	return di.GetToken(c, USDConverter)
}
