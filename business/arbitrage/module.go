// Package arbitrage implements the arbitrage bounded context: detection,
// ranking and execution of cross-venue opportunities.
package arbitrage

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fd1az/flashloan-scanner/business/arbitrage/app"
	arbDI "github.com/fd1az/flashloan-scanner/business/arbitrage/di"
	"github.com/fd1az/flashloan-scanner/business/arbitrage/infra"
	blockchainDI "github.com/fd1az/flashloan-scanner/business/blockchain/di"
	pricingDI "github.com/fd1az/flashloan-scanner/business/pricing/di"
	pricingDomain "github.com/fd1az/flashloan-scanner/business/pricing/domain"
	riskDI "github.com/fd1az/flashloan-scanner/business/risk/di"
	"github.com/fd1az/flashloan-scanner/internal/asset"
	"github.com/fd1az/flashloan-scanner/internal/config"
	"github.com/fd1az/flashloan-scanner/internal/di"
	"github.com/fd1az/flashloan-scanner/internal/logger"
	"github.com/fd1az/flashloan-scanner/internal/monolith"
)

// Module implements the arbitrage bounded context.
type Module struct{}

// RegisterServices registers all arbitrage services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register ProfitCalculator (private - internal dependency)
	di.RegisterToken(c, arbDI.Calculator, func(sr di.ServiceRegistry) *app.ProfitCalculator {
		cfg := sr.Get("config").(*config.Config)
		return app.NewProfitCalculator(
			cfg.Scanner.MinProfitPctDecimal(),
			cfg.Scanner.MinProfitUSDDecimal(),
		)
	})

	// Register Detector (private)
	di.RegisterToken(c, arbDI.Detector, func(sr di.ServiceRegistry) *app.Detector {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		detector, err := app.NewDetector(
			pricingDI.GetQuoteService(sr),
			pricingDI.GetUSDConverter(sr),
			blockchainDI.GetBlockchainService(sr),
			arbDI.GetCalculator(sr),
			app.DetectorConfig{FlashloanGas: cfg.Scanner.FlashloanGas},
			log,
		)
		if err != nil {
			panic("failed to create detector: " + err.Error())
		}
		return detector
	})

	// Register Ranker (private)
	di.RegisterToken(c, arbDI.Ranker, func(sr di.ServiceRegistry) *app.Ranker {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		return app.NewRanker(app.RankerConfig{
			MinTradeUSD:  decimal.NewFromFloat(cfg.Scanner.MinTradeUSD),
			MaxTradeUSD:  decimal.NewFromFloat(cfg.Scanner.MaxTradeUSD),
			PairCooldown: cfg.Scanner.PairCooldown,
		}, log)
	})

	// Register Executor (private). Paper trading only for now; a live
	// flashloan executor would slot in here behind the same port.
	di.RegisterToken(c, arbDI.Executor, func(sr di.ServiceRegistry) app.Executor {
		log := sr.Get("logger").(logger.LoggerInterface)
		return infra.NewPaperExecutor(log)
	})

	// Register Reporter (private). TUI when running the dashboard, console
	// output otherwise.
	di.RegisterToken(c, arbDI.Reporter, func(sr di.ServiceRegistry) app.Reporter {
		cfg := sr.Get("config").(*config.Config)

		if cfg.Scanner.TUIMode {
			return infra.NewTUIReporter(
				blockchainDI.GetBlockchainService(sr),
				riskDI.GetEngine(sr),
			)
		}
		return infra.NewConsoleReporter()
	})

	// Register Scanner (public - exposed to other modules)
	di.RegisterToken(c, arbDI.Scanner, func(sr di.ServiceRegistry) *app.Scanner {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		registry := sr.Get("assetRegistry").(*asset.Registry)

		pairs := make([]pricingDomain.Pair, 0, len(cfg.Scanner.Pairs))
		for _, symbol := range cfg.Scanner.Pairs {
			pair, err := pricingDomain.ParsePair(symbol, cfg.Chain.ChainID, registry)
			if err != nil {
				panic("invalid pair " + symbol + ": " + err.Error())
			}
			pairs = append(pairs, pair)
		}

		scanner, err := app.NewScanner(
			arbDI.GetDetector(sr),
			arbDI.GetRanker(sr),
			riskDI.GetEngine(sr),
			arbDI.GetExecutor(sr),
			arbDI.GetReporter(sr),
			blockchainDI.GetBlockchainService(sr),
			app.ScannerConfig{
				Pairs:        pairs,
				TradeAmounts: cfg.Scanner.TradeAmountsDecimal(),
				ScanInterval: cfg.Scanner.ScanInterval,
				Adaptive:     cfg.Scanner.AdaptiveInterval,
			},
			log,
		)
		if err != nil {
			panic("failed to create scanner: " + err.Error())
		}
		return scanner
	})

	return nil
}

// Startup initializes the arbitrage module. The scan loop itself is started
// by main so it can be wired into the TUI lifecycle.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()
	cfg := mono.Config()

	log.Info(ctx, "arbitrage module started",
		"pairs", cfg.Scanner.Pairs,
		"executor", arbDI.GetExecutor(mono.Services()).Name(),
		"scan_interval", cfg.Scanner.ScanInterval.String())

	return nil
}
