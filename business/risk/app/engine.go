// Package app contains the risk engine for the risk context.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	arbDomain "github.com/fd1az/flashloan-scanner/business/arbitrage/domain"
	blockchainApp "github.com/fd1az/flashloan-scanner/business/blockchain/app"
	"github.com/fd1az/flashloan-scanner/business/risk/domain"
	"github.com/fd1az/flashloan-scanner/internal/logger"
)

const (
	tracerName = "risk"
	meterName  = "risk"
)

// History bounds. Both lists trim to half when they hit the cap.
const (
	assessmentHistoryCap  = 100
	assessmentHistoryTrim = 50
	tradeHistoryCap       = 1000
	tradeHistoryTrim      = 500
)

// Soft-threshold fractions for the warning tier of each check.
var (
	positionWarnShare = decimal.RequireFromString("0.8")
	volumeWarnShare   = decimal.RequireFromString("0.8")
	profitWarnFactor  = decimal.RequireFromString("1.5")
	slippageWarnShare = decimal.RequireFromString("0.7")
	gasRatioWarnShare = decimal.RequireFromString("0.7")
)

type assessmentRecord struct {
	At    time.Time
	Safe  bool
	Score float64
}

type tradeRecord struct {
	At        time.Time
	Success   bool
	ProfitUSD decimal.Decimal
	VolumeUSD decimal.Decimal
}

type engineMetrics struct {
	assessments  metric.Int64Counter
	trades       metric.Int64Counter
	circuitOpens metric.Int64Counter
}

// Engine is the risk state machine gating execution. Every opportunity runs
// through an ordered list of checks; hard violations block it outright,
// soft ones accumulate into a score that blocks past a threshold. The engine
// itself failing blocks the trade too.
type Engine struct {
	limits     domain.Limits
	whitelist  domain.Whitelist
	blockchain *blockchainApp.BlockchainService
	logger     logger.LoggerInterface

	tracer  trace.Tracer
	metrics *engineMetrics

	// clock is swappable in tests.
	clock func() time.Time

	mu                  sync.Mutex
	paused              bool
	pauseReason         string
	circuitOpen         bool
	circuitOpenedAt     time.Time
	consecutiveFailures int
	day                 time.Time
	dailyVolumeUSD      decimal.Decimal
	tradesToday         int
	lastTradeAt         time.Time

	assessments []assessmentRecord
	trades      []tradeRecord

	totalAssessments uint64
	approved         uint64
	blocked          uint64
	totalTrades      uint64
	successes        uint64
	failures         uint64
	totalProfitUSD   decimal.Decimal
}

// NewEngine creates a risk Engine.
func NewEngine(
	limits domain.Limits,
	whitelist domain.Whitelist,
	blockchain *blockchainApp.BlockchainService,
	log logger.LoggerInterface,
) (*Engine, error) {
	if err := limits.Validate(); err != nil {
		return nil, err
	}
	if len(whitelist) == 0 {
		return nil, fmt.Errorf("risk: empty token whitelist")
	}

	e := &Engine{
		limits:     limits,
		whitelist:  whitelist,
		blockchain: blockchain,
		logger:     log,
		tracer:     otel.Tracer(tracerName),
		clock:      time.Now,
	}

	meter := otel.Meter(meterName)
	var err error

	e.metrics = &engineMetrics{}
	e.metrics.assessments, err = meter.Int64Counter(
		"risk_assessments_total",
		metric.WithDescription("Risk assessments by verdict"),
	)
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}
	e.metrics.trades, err = meter.Int64Counter(
		"risk_trades_recorded_total",
		metric.WithDescription("Execution results recorded"),
	)
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}
	e.metrics.circuitOpens, err = meter.Int64Counter(
		"risk_circuit_opens_total",
		metric.WithDescription("Times the failure circuit breaker opened"),
	)
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	return e, nil
}

// Assess judges one opportunity. It never panics outward: an internal
// failure yields a blocked assessment, not an approval.
func (e *Engine) Assess(ctx context.Context, opp *arbDomain.Opportunity) (a *domain.Assessment) {
	ctx, span := e.tracer.Start(ctx, "risk.assess",
		trace.WithAttributes(attribute.String("pair", opp.Pair.String())))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error(ctx, "risk assessment panicked", "panic", fmt.Sprint(r))
			a = domain.FailClosed(fmt.Sprintf("assessment error: %v", r))
		}
		e.metrics.assessments.Add(ctx, 1,
			metric.WithAttributes(attribute.Bool("safe", a.Safe)))
	}()

	// Network probes happen outside the state lock.
	health := e.blockchain.NetworkHealth(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock()
	e.rollDayLocked(now)

	var blockers, warnings []string
	score := 0.0

	// 1. Emergency pause.
	if e.paused {
		blockers = append(blockers, fmt.Sprintf("trading paused: %s", e.pauseReason))
		score += domain.ScorePaused
	}

	// 2. Failure circuit breaker, with lazy cooldown reset.
	if e.circuitOpen {
		if now.Sub(e.circuitOpenedAt) >= e.limits.CircuitCooldown {
			e.circuitOpen = false
			e.consecutiveFailures = 0
			e.logger.Info(ctx, "circuit breaker cooldown elapsed, trading resumes")
		} else {
			blockers = append(blockers, "circuit breaker open after repeated failures")
			score += domain.ScoreCircuitOpen
		}
	}

	// 3. Minimum spacing since the last successful trade.
	if !e.lastTradeAt.IsZero() && now.Sub(e.lastTradeAt) < e.limits.MinTradeInterval {
		warnings = append(warnings, "trading faster than the minimum interval")
		score += domain.ScoreTradeInterval
	}

	tradeValue := opp.TradeValueUSD

	// 4. Position size.
	if tradeValue.GreaterThan(e.limits.MaxPositionUSD) {
		blockers = append(blockers, fmt.Sprintf(
			"position $%s exceeds max $%s",
			tradeValue.StringFixed(2), e.limits.MaxPositionUSD.StringFixed(2)))
		score += domain.ScorePositionBlock
	} else if tradeValue.GreaterThanOrEqual(e.limits.MaxPositionUSD.Mul(positionWarnShare)) {
		warnings = append(warnings, "position near the maximum")
		score += domain.ScorePositionWarn
	}

	// 5. Daily volume.
	projected := e.dailyVolumeUSD.Add(tradeValue)
	if projected.GreaterThan(e.limits.DailyVolumeLimitUSD) {
		blockers = append(blockers, fmt.Sprintf(
			"daily volume $%s would exceed limit $%s",
			projected.StringFixed(2), e.limits.DailyVolumeLimitUSD.StringFixed(2)))
		score += domain.ScoreVolumeBlock
	} else if projected.GreaterThanOrEqual(e.limits.DailyVolumeLimitUSD.Mul(volumeWarnShare)) {
		warnings = append(warnings, "daily volume near the limit")
		score += domain.ScoreVolumeWarn
	}

	// 6. Profit margin.
	net := opp.Profit.NetProfit
	if net.LessThan(e.limits.MinProfitUSD) {
		blockers = append(blockers, fmt.Sprintf(
			"net profit $%s below minimum $%s",
			net.StringFixed(2), e.limits.MinProfitUSD.StringFixed(2)))
		score += domain.ScoreProfitBlock
	} else if net.LessThan(e.limits.MinProfitUSD.Mul(profitWarnFactor)) {
		warnings = append(warnings, "thin profit margin")
		score += domain.ScoreProfitWarn
	}

	// 7. Estimated slippage.
	slippage := domain.EstimateSlippagePct(opp.Pair.Base, tradeValue)
	if slippage.GreaterThan(e.limits.MaxSlippagePct) {
		blockers = append(blockers, fmt.Sprintf(
			"estimated slippage %s%% above max %s%%",
			slippage.StringFixed(2), e.limits.MaxSlippagePct.StringFixed(2)))
		score += domain.ScoreSlippageBlock
	} else if slippage.GreaterThan(e.limits.MaxSlippagePct.Mul(slippageWarnShare)) {
		warnings = append(warnings, "slippage near the maximum")
		score += domain.ScoreSlippageWarn
	}

	// 8. Gas economics: cost share of the gross profit, and the absolute
	// gas price ceiling.
	gasGwei := decimal.NewFromBigInt(opp.GasCost.GasPrice, -9)
	gasShare := opp.GasShare()
	switch {
	case gasShare.GreaterThan(e.limits.MaxGasCostRatio):
		blockers = append(blockers, fmt.Sprintf(
			"gas consumes %s%% of gross profit",
			gasShare.Mul(decimal.NewFromInt(100)).StringFixed(1)))
		score += domain.ScoreGasRatioBlock
	case gasGwei.GreaterThan(e.limits.GasPriceCeilingGwei):
		blockers = append(blockers, fmt.Sprintf(
			"gas price %s gwei above ceiling %s",
			gasGwei.StringFixed(1), e.limits.GasPriceCeilingGwei.StringFixed(1)))
		score += domain.ScoreGasRatioBlock
	case gasShare.GreaterThan(e.limits.MaxGasCostRatio.Mul(gasRatioWarnShare)):
		warnings = append(warnings, "gas cost near the acceptable ratio")
		score += domain.ScoreGasRatioWarn
	}

	// 9. Network health, warning only: a slow or congested chain makes the
	// quotes less trustworthy but is not by itself a reason to block.
	if !health.Healthy() {
		warnings = append(warnings, fmt.Sprintf(
			"degraded network health %.2f", health.Score))
		score += domain.ScoreNetworkWarn
	}

	// 10. Token whitelist.
	if !e.whitelist.Allows(opp.Pair.Base) || !e.whitelist.Allows(opp.Pair.Quote) {
		blockers = append(blockers, fmt.Sprintf(
			"pair %s contains a non-whitelisted token", opp.Pair.String()))
		score += domain.ScoreWhitelistBlock
	}

	// 11. Liquidity depth.
	liqBlocked, liqWarned := domain.CheckLiquidity(opp.Pair.Base, tradeValue)
	if liqBlocked {
		blockers = append(blockers, fmt.Sprintf(
			"trade too large for %s liquidity", opp.Pair.Base.Symbol()))
		score += domain.ScoreLiquidityBlock
	} else if liqWarned {
		warnings = append(warnings, "trade is a large share of available liquidity")
		score += domain.ScoreLiquidityWarn
	}

	a = domain.NewAssessment(score, blockers, warnings)

	e.totalAssessments++
	if a.Safe {
		e.approved++
	} else {
		e.blocked++
	}
	e.assessments = append(e.assessments, assessmentRecord{At: now, Safe: a.Safe, Score: a.Score})
	if len(e.assessments) >= assessmentHistoryCap {
		e.assessments = append(e.assessments[:0], e.assessments[len(e.assessments)-assessmentHistoryTrim:]...)
	}

	return a
}

// RecordOutcome feeds an execution result back into the state machine.
// Enough consecutive failures trip the circuit breaker.
func (e *Engine) RecordOutcome(ctx context.Context, result *arbDomain.ExecutionResult) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock()
	e.rollDayLocked(now)

	e.totalTrades++

	record := tradeRecord{At: now, Success: result.Success, ProfitUSD: result.ProfitUSD}

	if result.Success {
		e.lastTradeAt = now
		e.successes++
		e.consecutiveFailures = 0
		e.totalProfitUSD = e.totalProfitUSD.Add(result.ProfitUSD)
		if result.Opportunity != nil {
			record.VolumeUSD = result.Opportunity.TradeValueUSD
			e.dailyVolumeUSD = e.dailyVolumeUSD.Add(result.Opportunity.TradeValueUSD)
		}
		e.tradesToday++
	} else {
		e.failures++
		e.consecutiveFailures++
		if e.consecutiveFailures >= e.limits.MaxConsecutiveFailures && !e.circuitOpen {
			e.circuitOpen = true
			e.circuitOpenedAt = now
			e.metrics.circuitOpens.Add(ctx, 1)
			e.logger.Error(ctx, "circuit breaker opened",
				"consecutive_failures", e.consecutiveFailures,
				"cooldown", e.limits.CircuitCooldown.String(),
			)
		}
	}

	e.trades = append(e.trades, record)
	if len(e.trades) >= tradeHistoryCap {
		e.trades = append(e.trades[:0], e.trades[len(e.trades)-tradeHistoryTrim:]...)
	}

	e.metrics.trades.Add(ctx, 1,
		metric.WithAttributes(attribute.Bool("success", result.Success)))
}

// EmergencyStop halts all trading until ResumeTrading is called.
func (e *Engine) EmergencyStop(ctx context.Context, reason string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.paused = true
	e.pauseReason = reason
	e.logger.Error(ctx, "emergency stop", "reason", reason)
}

// ResumeTrading lifts an emergency stop and resets the failure streak.
func (e *Engine) ResumeTrading(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.paused = false
	e.pauseReason = ""
	e.circuitOpen = false
	e.consecutiveFailures = 0
	e.logger.Info(ctx, "trading resumed")
}

// Status returns a snapshot of the engine's state.
func (e *Engine) Status() domain.Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.rollDayLocked(e.clock())

	return domain.Status{
		TradingPaused:       e.paused,
		PauseReason:         e.pauseReason,
		CircuitOpen:         e.circuitOpen,
		CircuitOpenedAt:     e.circuitOpenedAt,
		ConsecutiveFailures: e.consecutiveFailures,
		DailyVolumeUSD:      e.dailyVolumeUSD,
		DailyVolumeLimitUSD: e.limits.DailyVolumeLimitUSD,
		TradesToday:         e.tradesToday,
		LastTradeAt:         e.lastTradeAt,
	}
}

// PerformanceMetrics summarizes decision and trade counters.
func (e *Engine) PerformanceMetrics() domain.PerformanceMetrics {
	e.mu.Lock()
	defer e.mu.Unlock()

	successRate := 0.0
	if e.totalTrades > 0 {
		successRate = float64(e.successes) / float64(e.totalTrades)
	}

	cutoff := e.clock().Add(-time.Hour)
	scoreSum := 0.0
	scored := 0
	for _, r := range e.assessments {
		if r.At.Before(cutoff) {
			continue
		}
		scoreSum += r.Score
		scored++
	}
	avgScore := 0.0
	if scored > 0 {
		avgScore = scoreSum / float64(scored)
	}

	return domain.PerformanceMetrics{
		TotalAssessments:     e.totalAssessments,
		Approved:             e.approved,
		Blocked:              e.blocked,
		TotalTrades:          e.totalTrades,
		SuccessfulTrades:     e.successes,
		FailedTrades:         e.failures,
		SuccessRate:          successRate,
		AvgRiskScoreLastHour: avgScore,
		TotalProfitUSD:       e.totalProfitUSD,
	}
}

// rollDayLocked resets the daily counters when the local calendar day changes.
func (e *Engine) rollDayLocked(now time.Time) {
	if !e.day.IsZero() && e.day.Year() == now.Year() && e.day.YearDay() == now.YearDay() {
		return
	}
	e.day = now
	e.dailyVolumeUSD = decimal.Zero
	e.tradesToday = 0
}
