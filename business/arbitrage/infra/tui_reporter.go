package infra

import (
	"context"
	"time"

	"github.com/fd1az/flashloan-scanner/business/arbitrage/app"
	"github.com/fd1az/flashloan-scanner/business/arbitrage/domain"
	blockchainApp "github.com/fd1az/flashloan-scanner/business/blockchain/app"
	pricingDomain "github.com/fd1az/flashloan-scanner/business/pricing/domain"
	riskDomain "github.com/fd1az/flashloan-scanner/business/risk/domain"
	"github.com/fd1az/flashloan-scanner/pkg/ui"
)

// RiskStatusProvider exposes the risk engine state the dashboard polls.
type RiskStatusProvider interface {
	Status() riskDomain.Status
}

// refreshInterval is how often the background loop polls chain and risk state.
const refreshInterval = 2 * time.Second

// TUIReporter streams scanner events into the Bubble Tea dashboard.
type TUIReporter struct {
	blockchain *blockchainApp.BlockchainService
	risk       RiskStatusProvider

	cancel context.CancelFunc
	done   chan struct{}
}

var _ app.Reporter = (*TUIReporter)(nil)

// NewTUIReporter creates a reporter that renders to the TUI.
func NewTUIReporter(blockchain *blockchainApp.BlockchainService, risk RiskStatusProvider) *TUIReporter {
	return &TUIReporter{
		blockchain: blockchain,
		risk:       risk,
	}
}

// Start launches the background refresh loop for block, gas and risk state.
func (t *TUIReporter) Start(ctx context.Context) error {
	ctx, t.cancel = context.WithCancel(ctx)
	t.done = make(chan struct{})

	go t.refreshLoop(ctx)
	return nil
}

func (t *TUIReporter) refreshLoop(ctx context.Context) {
	defer close(t.done)

	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.refresh(ctx)
		}
	}
}

func (t *TUIReporter) refresh(ctx context.Context) {
	if block, err := t.blockchain.LatestBlock(ctx); err == nil {
		ui.Send(ui.BlockMsg{Number: block.Number})
	}
	if price, err := t.blockchain.GetGasPrice(ctx); err == nil {
		ui.Send(ui.GasPriceMsg{GweiPrice: price.Gwei()})
	}
	if t.risk != nil {
		ui.Send(ui.RiskStatusMsg{Status: t.risk.Status()})
	}
}

// Report sends a ranked opportunity to the dashboard.
func (t *TUIReporter) Report(opp *domain.Opportunity) {
	ui.Send(ui.OpportunityMsg{Opportunity: opp})
}

// UpdateQuotes publishes the latest per-venue quotes.
func (t *TUIReporter) UpdateQuotes(quotes []pricingDomain.Quote) {
	if len(quotes) == 0 {
		return
	}
	ui.Send(ui.QuotesMsg{Quotes: quotes})
}

// UpdateStatus publishes the scanner's cycle statistics.
func (t *TUIReporter) UpdateStatus(status domain.ScanStatus) {
	ui.Send(ui.StatusMsg{Status: status})
}

// UpdateConnectionStatus reflects the chain connection state.
func (t *TUIReporter) UpdateConnectionStatus(name string, connected bool) {
	ui.Send(ui.ConnectionStatusMsg{Name: name, Connected: connected})
}

// Stop halts the refresh loop and waits for it to drain.
func (t *TUIReporter) Stop() error {
	if t.cancel != nil {
		t.cancel()
	}
	if t.done != nil {
		select {
		case <-t.done:
		case <-time.After(time.Second):
		}
	}
	return nil
}
