package ui

import (
	arbDomain "github.com/fd1az/flashloan-scanner/business/arbitrage/domain"
	pricingDomain "github.com/fd1az/flashloan-scanner/business/pricing/domain"
	riskDomain "github.com/fd1az/flashloan-scanner/business/risk/domain"
)

// Message types for TUI updates

// OpportunityMsg is sent when a ranked arbitrage opportunity is reported.
type OpportunityMsg struct {
	Opportunity *arbDomain.Opportunity
}

// QuotesMsg carries the latest per-venue quotes for one pair and size.
type QuotesMsg struct {
	Quotes []pricingDomain.Quote
}

// StatusMsg carries the scanner's cycle statistics.
type StatusMsg struct {
	Status arbDomain.ScanStatus
}

// RiskStatusMsg carries the risk engine's state snapshot.
type RiskStatusMsg struct {
	Status riskDomain.Status
}

// ConnectionStatusMsg is sent when connection status changes.
type ConnectionStatusMsg struct {
	Name      string
	Connected bool
}

// BlockMsg is sent when a new block is observed.
type BlockMsg struct {
	Number uint64
}

// GasPriceMsg is sent when gas price is updated.
type GasPriceMsg struct {
	GweiPrice float64
}

// ErrorMsg is sent when an error occurs.
type ErrorMsg struct {
	Error error
}

// TickMsg is sent periodically for UI updates.
type TickMsg struct{}

// StartModulesMsg signals that modules should start loading.
type StartModulesMsg struct{}

// LogMsg is sent to display a log message in the UI.
type LogMsg struct {
	Level   string // "info", "warn", "error"
	Message string
}

// StartupMsg is sent during application startup to show progress.
type StartupMsg struct {
	Step    string // Current step name
	Status  string // "connecting", "connected", "failed"
	Message string // Optional message
}
