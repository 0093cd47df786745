package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Limits holds the hard and soft boundaries the engine enforces.
type Limits struct {
	MaxPositionUSD      decimal.Decimal
	DailyVolumeLimitUSD decimal.Decimal
	MinProfitUSD        decimal.Decimal
	MaxSlippagePct      decimal.Decimal
	MaxGasCostRatio     decimal.Decimal // gas / gross profit
	GasPriceCeilingGwei decimal.Decimal

	MinTradeInterval       time.Duration
	MaxConsecutiveFailures int
	CircuitCooldown        time.Duration
}

// Validate rejects limit sets that would make the engine approve everything
// or nothing.
func (l Limits) Validate() error {
	if !l.MaxPositionUSD.IsPositive() {
		return errNonPositive("max position")
	}
	if !l.DailyVolumeLimitUSD.IsPositive() {
		return errNonPositive("daily volume limit")
	}
	if l.MaxConsecutiveFailures <= 0 {
		return errNonPositive("max consecutive failures")
	}
	if l.CircuitCooldown <= 0 {
		return errNonPositive("circuit cooldown")
	}
	return nil
}

type limitsError string

func (e limitsError) Error() string { return string(e) }

func errNonPositive(field string) error {
	return limitsError("risk: " + field + " must be positive")
}
