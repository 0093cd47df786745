// Package pricing implements the pricing bounded context for multi-venue
// quote aggregation.
package pricing

import (
	"context"

	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/fd1az/flashloan-scanner/business/pricing/app"
	pricingDI "github.com/fd1az/flashloan-scanner/business/pricing/di"
	"github.com/fd1az/flashloan-scanner/business/pricing/infra/onchain"
	"github.com/fd1az/flashloan-scanner/business/pricing/infra/oneinch"
	"github.com/fd1az/flashloan-scanner/internal/asset"
	"github.com/fd1az/flashloan-scanner/internal/config"
	"github.com/fd1az/flashloan-scanner/internal/di"
	"github.com/fd1az/flashloan-scanner/internal/logger"
	"github.com/fd1az/flashloan-scanner/internal/monolith"
)

// Module implements the pricing bounded context.
type Module struct{}

// RegisterServices registers all pricing services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register venue quoters (private - internal dependency)
	di.RegisterToken(c, pricingDI.Venues, func(sr di.ServiceRegistry) []app.VenueQuoter {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		ethClient := sr.Get("ethClient").(*ethclient.Client)

		var venues []app.VenueQuoter

		for _, router := range cfg.Venues.Routers {
			venue, err := onchain.NewRouterVenue(router.Name, ethClient, router.AddressHex(), log)
			if err != nil {
				panic("failed to create router venue " + router.Name + ": " + err.Error())
			}
			venues = append(venues, venue)
		}

		for _, quoter := range cfg.Venues.Quoters {
			venue, err := onchain.NewUniV3Venue(quoter.Name, ethClient, quoter.AddressHex(), log)
			if err != nil {
				panic("failed to create quoter venue " + quoter.Name + ": " + err.Error())
			}
			venues = append(venues, venue)
		}

		if cfg.Venues.OneInchURL != "" && cfg.Venues.OneInchKey != "" {
			venue, err := oneinch.NewVenue(oneinch.Config{
				BaseURL: cfg.Venues.OneInchURL,
				APIKey:  cfg.Venues.OneInchKey,
				Timeout: cfg.Venues.QuoteTimeout,
			}, log)
			if err != nil {
				panic("failed to create oneinch venue: " + err.Error())
			}
			venues = append(venues, venue)
		}

		return venues
	})

	// Register QuoteService (public - exposed to other modules)
	di.RegisterToken(c, pricingDI.QuoteService, func(sr di.ServiceRegistry) *app.QuoteService {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		svcCfg := app.DefaultQuoteServiceConfig()
		if cfg.Venues.QuoteTimeout > 0 {
			svcCfg.Timeout = cfg.Venues.QuoteTimeout
		}
		if cfg.Venues.QuoteTTL > 0 {
			svcCfg.CacheTTL = cfg.Venues.QuoteTTL
		}

		svc, err := app.NewQuoteService(pricingDI.GetVenues(sr), svcCfg, log)
		if err != nil {
			panic("failed to create quote service: " + err.Error())
		}
		return svc
	})

	// Register USDConverter (public - exposed to other modules)
	di.RegisterToken(c, pricingDI.USDConverter, func(sr di.ServiceRegistry) *app.USDConverter {
		cfg := sr.Get("config").(*config.Config)
		registry := sr.Get("assetRegistry").(*asset.Registry)

		usdc, ok := registry.GetBySymbolAndChain("USDC", cfg.Chain.ChainID)
		if !ok {
			panic("USDC not registered for chain")
		}
		wrapped, ok := registry.GetBySymbolAndChain("WMATIC", cfg.Chain.ChainID)
		if !ok {
			panic("wrapped native token not registered for chain")
		}

		return app.NewUSDConverter(pricingDI.GetQuoteService(sr), usdc, wrapped)
	})

	return nil
}

// Startup initializes the pricing module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	svc := pricingDI.GetQuoteService(mono.Services())
	log.Info(ctx, "pricing module started", "venues", svc.Venues())

	return nil
}
