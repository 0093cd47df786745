package app

import (
	"context"
	"io"
	"math/big"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	arbDomain "github.com/fd1az/flashloan-scanner/business/arbitrage/domain"
	blockchainApp "github.com/fd1az/flashloan-scanner/business/blockchain/app"
	blockchainDomain "github.com/fd1az/flashloan-scanner/business/blockchain/domain"
	pricingDomain "github.com/fd1az/flashloan-scanner/business/pricing/domain"
	"github.com/fd1az/flashloan-scanner/business/risk/domain"
	"github.com/fd1az/flashloan-scanner/internal/asset"
	"github.com/fd1az/flashloan-scanner/internal/logger"
)

type fakeSubscriber struct{}

func (f *fakeSubscriber) Subscribe(ctx context.Context) (<-chan *blockchainDomain.Block, error) {
	ch := make(chan *blockchainDomain.Block)
	close(ch)
	return ch, nil
}

func (f *fakeSubscriber) LatestBlock(ctx context.Context) (*blockchainDomain.Block, error) {
	return &blockchainDomain.Block{Number: 100, Timestamp: time.Now()}, nil
}

func (f *fakeSubscriber) State() blockchainDomain.ConnectionState {
	return blockchainDomain.StateConnected
}

type fakeGasOracle struct{}

func (f *fakeGasOracle) GetGasPrice(ctx context.Context) (*blockchainDomain.GasPrice, error) {
	return blockchainDomain.NewGasPrice(big.NewInt(30_000_000_000)), nil
}

func (f *fakeGasOracle) EstimateGas(ctx context.Context, data []byte, to string) (uint64, error) {
	return 450_000, nil
}

func testLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.LevelError, "test", nil)
}

func testLimits() domain.Limits {
	return domain.Limits{
		MaxPositionUSD:         decimal.RequireFromString("10000"),
		DailyVolumeLimitUSD:    decimal.RequireFromString("100000"),
		MinProfitUSD:           decimal.RequireFromString("10"),
		MaxSlippagePct:         decimal.RequireFromString("0.5"),
		MaxGasCostRatio:        decimal.RequireFromString("0.3"),
		GasPriceCeilingGwei:    decimal.RequireFromString("200"),
		MinTradeInterval:       time.Second,
		MaxConsecutiveFailures: 3,
		CircuitCooldown:        30 * time.Minute,
	}
}

func testEngine(t *testing.T, limits domain.Limits, whitelist domain.Whitelist) *Engine {
	t.Helper()
	blockchain := blockchainApp.NewBlockchainService(&fakeSubscriber{}, &fakeGasOracle{})
	e, err := NewEngine(limits, whitelist, blockchain, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func testOpp(t *testing.T, valueUSD string) *arbDomain.Opportunity {
	t.Helper()
	amountIn, err := asset.ParseString(asset.WMATIC, "1000")
	if err != nil {
		t.Fatal(err)
	}
	return &arbDomain.Opportunity{
		Pair:          pricingDomain.NewPair(asset.WMATIC, asset.USDC),
		AmountIn:      amountIn,
		SellVenue:     "sushiswap",
		BuyVenue:      "quickswap",
		TradeValueUSD: decimal.RequireFromString(valueUSD),
		GasCost: &arbDomain.GasCost{
			GasLimit: 600_000,
			GasPrice: big.NewInt(30_000_000_000),
		},
		Profit: &arbDomain.ProfitResult{
			GrossProfit:  decimal.RequireFromString("50"),
			GasCost:      decimal.RequireFromString("2"),
			NetProfit:    decimal.RequireFromString("48"),
			NetProfitPct: decimal.RequireFromString("4.8"),
			IsProfitable: true,
		},
	}
}

func failedResult(opp *arbDomain.Opportunity) *arbDomain.ExecutionResult {
	return &arbDomain.ExecutionResult{Opportunity: opp, Success: false, Error: "reverted"}
}

func successResult(opp *arbDomain.Opportunity, profit string) *arbDomain.ExecutionResult {
	return &arbDomain.ExecutionResult{
		Opportunity: opp,
		Success:     true,
		ProfitUSD:   decimal.RequireFromString(profit),
	}
}

func TestAssess_ApprovesCleanOpportunity(t *testing.T) {
	e := testEngine(t, testLimits(), domain.DefaultWhitelist())

	a := e.Assess(context.Background(), testOpp(t, "1000"))
	if !a.Safe {
		t.Fatalf("clean opportunity blocked: blockers=%v warnings=%v", a.Blockers, a.Warnings)
	}
	if a.Score != 0 {
		t.Errorf("score = %v, want 0", a.Score)
	}
	if a.Confidence != 1 {
		t.Errorf("confidence = %v, want 1", a.Confidence)
	}
}

func TestAssess_BlocksOversizePosition(t *testing.T) {
	e := testEngine(t, testLimits(), domain.DefaultWhitelist())

	a := e.Assess(context.Background(), testOpp(t, "20000"))
	if a.Safe {
		t.Fatal("oversize position approved")
	}
	if len(a.Blockers) == 0 {
		t.Fatal("expected a position blocker")
	}
}

func TestAssess_BlocksNonWhitelistedToken(t *testing.T) {
	e := testEngine(t, testLimits(), domain.NewWhitelist("USDC", "USDT"))

	a := e.Assess(context.Background(), testOpp(t, "1000"))
	if a.Safe {
		t.Fatal("non-whitelisted base token approved")
	}
}

func TestAssess_ThinProfitBlocked(t *testing.T) {
	e := testEngine(t, testLimits(), domain.DefaultWhitelist())

	opp := testOpp(t, "1000")
	opp.Profit.NetProfit = decimal.RequireFromString("4")

	a := e.Assess(context.Background(), opp)
	if a.Safe {
		t.Fatal("profit below the minimum approved")
	}
}

func TestAssess_GasCeilingBlocked(t *testing.T) {
	e := testEngine(t, testLimits(), domain.DefaultWhitelist())

	opp := testOpp(t, "1000")
	opp.GasCost.GasPrice = big.NewInt(500_000_000_000) // 500 gwei

	a := e.Assess(context.Background(), opp)
	if a.Safe {
		t.Fatal("gas price above the ceiling approved")
	}
}

func TestAssess_FailsClosedOnPanic(t *testing.T) {
	e := testEngine(t, testLimits(), domain.DefaultWhitelist())

	opp := testOpp(t, "1000")
	opp.Profit = nil // Assess dereferences the profit result

	a := e.Assess(context.Background(), opp)
	if a.Safe {
		t.Fatal("engine failure must not approve a trade")
	}
	if a.Score != domain.MaxScore || a.Confidence != 0 {
		t.Errorf("fail-closed assessment = score %v confidence %v", a.Score, a.Confidence)
	}
	if len(a.Blockers) != 1 {
		t.Fatalf("blockers = %v, want one assessment error", a.Blockers)
	}
}

func TestAssess_WarningsAloneCanBlock(t *testing.T) {
	limits := testLimits()
	limits.MaxPositionUSD = decimal.RequireFromString("1000")
	limits.DailyVolumeLimitUSD = decimal.RequireFromString("10000")
	limits.MinTradeInterval = time.Hour
	e := testEngine(t, limits, domain.DefaultWhitelist())

	ctx := context.Background()

	// A recent trade pushes daily volume near the limit and arms the
	// trade-interval warning.
	e.RecordOutcome(ctx, successResult(testOpp(t, "7500"), "48"))

	opp := testOpp(t, "900")
	opp.Profit.NetProfit = decimal.RequireFromString("12") // thin margin

	a := e.Assess(ctx, opp)
	if len(a.Blockers) != 0 {
		t.Fatalf("expected warnings only, got blockers %v", a.Blockers)
	}
	if a.Safe {
		t.Errorf("accumulated warnings score %v should block", a.Score)
	}
	if len(a.Warnings) < 3 {
		t.Errorf("warnings = %v, want several", a.Warnings)
	}
}

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	e := testEngine(t, testLimits(), domain.DefaultWhitelist())
	ctx := context.Background()
	opp := testOpp(t, "1000")

	e.RecordOutcome(ctx, failedResult(opp))
	e.RecordOutcome(ctx, failedResult(opp))
	if e.Status().CircuitOpen {
		t.Fatal("circuit opened before the failure limit")
	}

	e.RecordOutcome(ctx, failedResult(opp))
	if !e.Status().CircuitOpen {
		t.Fatal("circuit should open at the failure limit")
	}

	a := e.Assess(ctx, opp)
	if a.Safe {
		t.Error("open circuit approved a trade")
	}
}

func TestCircuitBreaker_SuccessResetsStreak(t *testing.T) {
	e := testEngine(t, testLimits(), domain.DefaultWhitelist())
	ctx := context.Background()
	opp := testOpp(t, "1000")

	e.RecordOutcome(ctx, failedResult(opp))
	e.RecordOutcome(ctx, failedResult(opp))
	e.RecordOutcome(ctx, successResult(opp, "48"))
	e.RecordOutcome(ctx, failedResult(opp))
	e.RecordOutcome(ctx, failedResult(opp))

	if e.Status().CircuitOpen {
		t.Error("a success in between should reset the failure streak")
	}
}

func TestCircuitBreaker_CooldownReopensLazily(t *testing.T) {
	e := testEngine(t, testLimits(), domain.DefaultWhitelist())
	ctx := context.Background()
	opp := testOpp(t, "1000")

	now := time.Now()
	e.clock = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		e.RecordOutcome(ctx, failedResult(opp))
	}
	if a := e.Assess(ctx, opp); a.Safe {
		t.Fatal("open circuit approved a trade")
	}

	// Cooldown elapses; the next assessment resets the breaker.
	now = now.Add(31 * time.Minute)

	a := e.Assess(ctx, opp)
	if !a.Safe {
		t.Fatalf("expected approval after cooldown: blockers=%v", a.Blockers)
	}
	if e.Status().CircuitOpen {
		t.Error("circuit should be closed after cooldown")
	}
}

func TestDailyVolume_LimitAndRollover(t *testing.T) {
	limits := testLimits()
	limits.DailyVolumeLimitUSD = decimal.RequireFromString("5000")
	e := testEngine(t, limits, domain.DefaultWhitelist())
	ctx := context.Background()

	now := time.Now().Truncate(24 * time.Hour).Add(6 * time.Hour)
	e.clock = func() time.Time { return now }

	e.RecordOutcome(ctx, successResult(testOpp(t, "3000"), "48"))
	if got := e.Status().DailyVolumeUSD; !got.Equal(decimal.RequireFromString("3000")) {
		t.Fatalf("daily volume = %s, want 3000", got)
	}

	// Another 3000 would cross the 5000 limit.
	now = now.Add(time.Minute)
	if a := e.Assess(ctx, testOpp(t, "3000")); a.Safe {
		t.Error("trade beyond the daily volume limit approved")
	}

	// Next day the counter resets.
	now = now.Add(24 * time.Hour)
	if a := e.Assess(ctx, testOpp(t, "3000")); !a.Safe {
		t.Errorf("volume should reset at the day boundary: blockers=%v", a.Blockers)
	}
	if got := e.Status().DailyVolumeUSD; !got.IsZero() {
		t.Errorf("daily volume after rollover = %s, want 0", got)
	}
}

func TestDailyVolume_RollsAtLocalMidnight(t *testing.T) {
	e := testEngine(t, testLimits(), domain.DefaultWhitelist())
	ctx := context.Background()

	loc := time.FixedZone("UTC-8", -8*3600)
	now := time.Date(2026, 8, 27, 23, 30, 0, 0, loc)
	e.clock = func() time.Time { return now }

	e.RecordOutcome(ctx, successResult(testOpp(t, "3000"), "48"))
	if got := e.Status().DailyVolumeUSD; !got.Equal(decimal.RequireFromString("3000")) {
		t.Fatalf("daily volume = %s, want 3000", got)
	}

	// An hour later it is a new calendar day locally even though the UTC
	// date has not changed yet.
	now = now.Add(time.Hour)
	if got := e.Status().DailyVolumeUSD; !got.IsZero() {
		t.Errorf("daily volume after local midnight = %s, want 0", got)
	}
}

func TestRecordOutcome_FailureLeavesTradeIntervalUnarmed(t *testing.T) {
	limits := testLimits()
	limits.MinTradeInterval = time.Hour
	e := testEngine(t, limits, domain.DefaultWhitelist())
	ctx := context.Background()
	opp := testOpp(t, "1000")

	e.RecordOutcome(ctx, failedResult(opp))

	a := e.Assess(ctx, opp)
	if !a.Safe || a.Score != 0 {
		t.Fatalf("failed trade armed the interval check: score=%v warnings=%v", a.Score, a.Warnings)
	}
	if !e.Status().LastTradeAt.IsZero() {
		t.Error("last trade time should only move on success")
	}

	e.RecordOutcome(ctx, successResult(opp, "48"))

	a = e.Assess(ctx, opp)
	if a.Score != domain.ScoreTradeInterval {
		t.Errorf("score = %v, want the interval warning %v", a.Score, domain.ScoreTradeInterval)
	}
}

func TestEmergencyStop_PausesAndResumes(t *testing.T) {
	e := testEngine(t, testLimits(), domain.DefaultWhitelist())
	ctx := context.Background()
	opp := testOpp(t, "1000")

	e.EmergencyStop(ctx, "manual halt")

	a := e.Assess(ctx, opp)
	if a.Safe {
		t.Fatal("paused engine approved a trade")
	}
	status := e.Status()
	if !status.TradingPaused || status.PauseReason != "manual halt" {
		t.Errorf("status = %+v, want paused with reason", status)
	}

	e.ResumeTrading(ctx)
	if a := e.Assess(ctx, opp); !a.Safe {
		t.Errorf("resumed engine should approve: blockers=%v", a.Blockers)
	}
}

func TestPerformanceMetrics_Counters(t *testing.T) {
	e := testEngine(t, testLimits(), domain.DefaultWhitelist())
	ctx := context.Background()
	opp := testOpp(t, "1000")

	e.Assess(ctx, opp)                 // approved
	e.Assess(ctx, testOpp(t, "20000")) // blocked

	e.RecordOutcome(ctx, successResult(opp, "48"))
	e.RecordOutcome(ctx, failedResult(opp))

	m := e.PerformanceMetrics()
	if m.TotalAssessments != 2 || m.Approved != 1 || m.Blocked != 1 {
		t.Errorf("assessments = %+v", m)
	}
	if m.TotalTrades != 2 || m.SuccessfulTrades != 1 || m.FailedTrades != 1 {
		t.Errorf("trades = %+v", m)
	}
	if m.SuccessRate != 0.5 {
		t.Errorf("success rate = %v, want 0.5", m.SuccessRate)
	}
	if m.AvgRiskScoreLastHour != 25 {
		t.Errorf("avg risk score = %v, want 25 across scores 0 and 50", m.AvgRiskScoreLastHour)
	}
	if !m.TotalProfitUSD.Equal(decimal.RequireFromString("48")) {
		t.Errorf("total profit = %s, want 48", m.TotalProfitUSD)
	}
}

func TestPerformanceMetrics_AvgScoreWindowIsOneHour(t *testing.T) {
	e := testEngine(t, testLimits(), domain.DefaultWhitelist())
	ctx := context.Background()

	now := time.Now()
	e.clock = func() time.Time { return now }

	e.Assess(ctx, testOpp(t, "20000")) // blocked, score 50

	now = now.Add(2 * time.Hour)
	e.Assess(ctx, testOpp(t, "1000")) // clean, score 0

	m := e.PerformanceMetrics()
	if m.AvgRiskScoreLastHour != 0 {
		t.Errorf("avg risk score = %v, want the stale blocked assessment excluded", m.AvgRiskScoreLastHour)
	}
}

func TestRecordOutcome_TracksVolumeOnlyOnSuccess(t *testing.T) {
	e := testEngine(t, testLimits(), domain.DefaultWhitelist())
	ctx := context.Background()

	e.RecordOutcome(ctx, failedResult(testOpp(t, "3000")))
	if got := e.Status().DailyVolumeUSD; !got.IsZero() {
		t.Errorf("failed trade counted toward volume: %s", got)
	}

	e.RecordOutcome(ctx, successResult(testOpp(t, "3000"), "48"))
	if got := e.Status().DailyVolumeUSD; !got.Equal(decimal.RequireFromString("3000")) {
		t.Errorf("daily volume = %s, want 3000", got)
	}
}

func TestNewEngine_RejectsBadConfig(t *testing.T) {
	blockchain := blockchainApp.NewBlockchainService(&fakeSubscriber{}, &fakeGasOracle{})

	bad := testLimits()
	bad.MaxPositionUSD = decimal.Zero
	if _, err := NewEngine(bad, domain.DefaultWhitelist(), blockchain, testLogger()); err == nil {
		t.Error("expected error for non-positive position limit")
	}

	if _, err := NewEngine(testLimits(), domain.Whitelist{}, blockchain, testLogger()); err == nil {
		t.Error("expected error for empty whitelist")
	}
}
