package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExecutionResult is the outcome of attempting to execute an opportunity.
type ExecutionResult struct {
	Opportunity *Opportunity
	Success     bool
	TxHash      string
	ProfitUSD   decimal.Decimal // realized profit, zero on failure
	Error       string
	ExecutedAt  time.Time
	Duration    time.Duration
}

// ScanStatus is a snapshot of the scanner's progress, published to reporters
// after every cycle.
type ScanStatus struct {
	Cycles            uint64
	Opportunities     uint64
	Executed          uint64
	Interval          time.Duration
	LastCycleAt       time.Time
	LastCycleDuration time.Duration
}
