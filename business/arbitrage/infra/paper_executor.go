// Package infra contains infrastructure adapters for the arbitrage context.
package infra

import (
	"context"
	"time"

	"github.com/fd1az/flashloan-scanner/business/arbitrage/app"
	"github.com/fd1az/flashloan-scanner/business/arbitrage/domain"
	"github.com/fd1az/flashloan-scanner/internal/logger"
)

// Ensure PaperExecutor implements Executor.
var _ app.Executor = (*PaperExecutor)(nil)

// PaperExecutor simulates execution. It books the opportunity's expected net
// profit as realized, which keeps the risk engine's daily volume and failure
// tracking exercised without touching the chain.
type PaperExecutor struct {
	logger logger.LoggerInterface
}

// NewPaperExecutor creates a PaperExecutor.
func NewPaperExecutor(log logger.LoggerInterface) *PaperExecutor {
	return &PaperExecutor{logger: log}
}

// Name returns the strategy identifier.
func (e *PaperExecutor) Name() string {
	return "paper"
}

// Execute records the trade as if it had settled at the quoted prices.
func (e *PaperExecutor) Execute(ctx context.Context, opp *domain.Opportunity) (*domain.ExecutionResult, error) {
	start := time.Now()

	e.logger.Info(ctx, "paper trade executed",
		"pair", opp.Pair.String(),
		"sell", opp.SellVenue,
		"buy", opp.BuyVenue,
		"size", opp.AmountIn.String(),
		"net_usd", opp.Profit.NetProfit.StringFixed(2),
	)

	return &domain.ExecutionResult{
		Opportunity: opp,
		Success:     true,
		ProfitUSD:   opp.Profit.NetProfit,
		ExecutedAt:  start,
		Duration:    time.Since(start),
	}, nil
}
