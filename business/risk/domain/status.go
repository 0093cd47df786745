package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is a snapshot of the risk engine's state machine.
type Status struct {
	TradingPaused       bool
	PauseReason         string
	CircuitOpen         bool
	CircuitOpenedAt     time.Time
	ConsecutiveFailures int
	DailyVolumeUSD      decimal.Decimal
	DailyVolumeLimitUSD decimal.Decimal
	TradesToday         int
	LastTradeAt         time.Time
}

// PerformanceMetrics summarizes the engine's decision and trade history.
type PerformanceMetrics struct {
	TotalAssessments     uint64
	Approved             uint64
	Blocked              uint64
	TotalTrades          uint64
	SuccessfulTrades     uint64
	FailedTrades         uint64
	SuccessRate          float64
	AvgRiskScoreLastHour float64
	TotalProfitUSD       decimal.Decimal
}
