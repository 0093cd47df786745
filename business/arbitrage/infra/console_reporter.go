package infra

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fd1az/flashloan-scanner/business/arbitrage/app"
	"github.com/fd1az/flashloan-scanner/business/arbitrage/domain"
	pricingDomain "github.com/fd1az/flashloan-scanner/business/pricing/domain"
)

// Ensure ConsoleReporter implements Reporter.
var _ app.Reporter = (*ConsoleReporter)(nil)

// ConsoleReporter implements Reporter for CLI output.
type ConsoleReporter struct {
	out io.Writer

	mu   sync.Mutex
	conn map[string]bool
}

// NewConsoleReporter creates a new ConsoleReporter.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{
		out:  os.Stdout,
		conn: make(map[string]bool),
	}
}

// Start initializes the console reporter.
func (r *ConsoleReporter) Start(ctx context.Context) error {
	fmt.Fprintln(r.out, "Flashloan Scanner Started")
	fmt.Fprintln(r.out, "=========================")
	return nil
}

// Report outputs an arbitrage opportunity to the console.
func (r *ConsoleReporter) Report(opp *domain.Opportunity) {
	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "================================================================================")
	fmt.Fprintln(r.out, "ARBITRAGE OPPORTUNITY DETECTED")
	fmt.Fprintln(r.out, "================================================================================")
	fmt.Fprintf(r.out, "Block:          #%d\n", opp.BlockNumber)
	fmt.Fprintf(r.out, "Timestamp:      %s\n", opp.DetectedAt.Format(time.RFC3339))
	fmt.Fprintf(r.out, "Pair:           %s\n", opp.Pair.String())
	fmt.Fprintf(r.out, "Route:          sell on %s, buy back on %s\n", opp.SellVenue, opp.BuyVenue)
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	fmt.Fprintln(r.out, "PRICES")
	fmt.Fprintf(r.out, "  Sell (%s):  %s\n", opp.SellVenue, opp.Spread.SellPrice.StringFixed(6))
	fmt.Fprintf(r.out, "  Buy  (%s):  %s\n", opp.BuyVenue, opp.Spread.BuyPrice.StringFixed(6))
	fmt.Fprintf(r.out, "  Spread:       %s%%\n", opp.Spread.Percent.StringFixed(4))
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	fmt.Fprintln(r.out, "TRADE DETAILS")
	fmt.Fprintf(r.out, "  Size:           %s ($%s)\n", opp.AmountIn.String(), opp.TradeValueUSD.StringFixed(2))
	if opp.GasCost != nil {
		fmt.Fprintf(r.out, "  Gas Cost:       %s native ($%s)\n", opp.GasCost.Native.StringFixed(6), opp.GasCost.USD.StringFixed(2))
	}
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	fmt.Fprintln(r.out, "PROFIT")
	if opp.Profit != nil {
		fmt.Fprintf(r.out, "  Gross:          $%s\n", opp.Profit.GrossProfit.StringFixed(2))
		fmt.Fprintf(r.out, "  Net:            $%s (%s%%)\n", opp.Profit.NetProfit.StringFixed(2), opp.Profit.NetProfitPct.StringFixed(2))
	}
	fmt.Fprintln(r.out, "================================================================================")
}

// UpdateQuotes is a no-op for the console; it only prints opportunities.
func (r *ConsoleReporter) UpdateQuotes(quotes []pricingDomain.Quote) {
}

// UpdateStatus is a no-op for the console.
func (r *ConsoleReporter) UpdateStatus(status domain.ScanStatus) {
}

// UpdateConnectionStatus outputs connection status changes. Repeated updates
// with the same state are silent.
func (r *ConsoleReporter) UpdateConnectionStatus(name string, connected bool) {
	r.mu.Lock()
	prev, seen := r.conn[name]
	r.conn[name] = connected
	r.mu.Unlock()
	if seen && prev == connected {
		return
	}

	status := "disconnected"
	if connected {
		status = "connected"
	}
	fmt.Fprintf(r.out, "[%s] %s: %s\n", time.Now().Format("15:04:05"), name, status)
}

// Stop gracefully shuts down the console reporter.
func (r *ConsoleReporter) Stop() error {
	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "Flashloan Scanner Stopped")
	return nil
}
