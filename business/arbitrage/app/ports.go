// Package app contains application services and port definitions for the arbitrage context.
package app

import (
	"context"

	"github.com/fd1az/flashloan-scanner/business/arbitrage/domain"
	pricingDomain "github.com/fd1az/flashloan-scanner/business/pricing/domain"
	riskDomain "github.com/fd1az/flashloan-scanner/business/risk/domain"
)

// Reporter defines the interface for surfacing opportunities and scanner
// progress. Implementations must not block; the scan loop calls them inline.
type Reporter interface {
	// Start initializes the reporter.
	Start(ctx context.Context) error

	// Report sends a ranked arbitrage opportunity to be displayed/logged.
	Report(opp *domain.Opportunity)

	// UpdateQuotes publishes the latest per-venue quotes for display.
	UpdateQuotes(quotes []pricingDomain.Quote)

	// UpdateStatus publishes the scanner's cycle statistics.
	UpdateStatus(status domain.ScanStatus)

	// UpdateConnectionStatus reflects the chain connection state.
	UpdateConnectionStatus(name string, connected bool)

	// Stop gracefully shuts down the reporter.
	Stop() error
}

// Executor carries out an approved opportunity.
type Executor interface {
	// Name identifies the execution strategy (e.g. "paper").
	Name() string

	// Execute attempts the trade and reports the outcome. A failed trade is
	// a result with Success=false, not an error; errors mean the executor
	// itself broke.
	Execute(ctx context.Context, opp *domain.Opportunity) (*domain.ExecutionResult, error)
}

// RiskAssessor is the gate between detection and execution.
type RiskAssessor interface {
	// Assess judges a single opportunity against the current risk state.
	Assess(ctx context.Context, opp *domain.Opportunity) *riskDomain.Assessment

	// RecordOutcome feeds an execution result back into the risk state.
	RecordOutcome(ctx context.Context, result *domain.ExecutionResult)
}
