// Package risk implements the risk bounded context gating trade execution.
package risk

import (
	"context"

	arbApp "github.com/fd1az/flashloan-scanner/business/arbitrage/app"
	blockchainDI "github.com/fd1az/flashloan-scanner/business/blockchain/di"
	"github.com/fd1az/flashloan-scanner/business/risk/app"
	riskDI "github.com/fd1az/flashloan-scanner/business/risk/di"
	"github.com/fd1az/flashloan-scanner/business/risk/domain"
	"github.com/fd1az/flashloan-scanner/internal/config"
	"github.com/fd1az/flashloan-scanner/internal/di"
	"github.com/fd1az/flashloan-scanner/internal/logger"
	"github.com/fd1az/flashloan-scanner/internal/monolith"
)

// The engine is the gate the scanner consults before executing.
var _ arbApp.RiskAssessor = (*app.Engine)(nil)

// Module implements the risk bounded context.
type Module struct{}

// RegisterServices registers all risk services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, riskDI.Engine, func(sr di.ServiceRegistry) *app.Engine {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		blockchain := blockchainDI.GetBlockchainService(sr)

		limits := domain.Limits{
			MaxPositionUSD:         cfg.Risk.MaxPositionUSDDecimal(),
			DailyVolumeLimitUSD:    cfg.Risk.DailyVolumeLimitUSDDecimal(),
			MinProfitUSD:           cfg.Scanner.MinProfitUSDDecimal(),
			MaxSlippagePct:         cfg.Risk.MaxSlippagePctDecimal(),
			MaxGasCostRatio:        cfg.Risk.MaxGasCostRatioDecimal(),
			GasPriceCeilingGwei:    cfg.Risk.GasPriceCeilingGweiDecimal(),
			MinTradeInterval:       cfg.Risk.MinTradeInterval,
			MaxConsecutiveFailures: cfg.Risk.MaxConsecutiveFailures,
			CircuitCooldown:        cfg.Risk.CircuitCooldown,
		}

		engine, err := app.NewEngine(limits, domain.DefaultWhitelist(), blockchain, log)
		if err != nil {
			panic("failed to create risk engine: " + err.Error())
		}
		return engine
	})

	return nil
}

// Startup initializes the risk module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	engine := riskDI.GetEngine(mono.Services())
	status := engine.Status()

	log.Info(ctx, "risk module started",
		"daily_volume_limit_usd", status.DailyVolumeLimitUSD.StringFixed(0))

	return nil
}
