package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fd1az/flashloan-scanner/business/arbitrage/domain"
	blockchainApp "github.com/fd1az/flashloan-scanner/business/blockchain/app"
	pricingDomain "github.com/fd1az/flashloan-scanner/business/pricing/domain"
	riskDomain "github.com/fd1az/flashloan-scanner/business/risk/domain"
)

type recordingReporter struct {
	mu       sync.Mutex
	started  bool
	stopped  bool
	reported []*domain.Opportunity
	statuses []domain.ScanStatus
}

func (r *recordingReporter) Start(ctx context.Context) error { r.started = true; return nil }
func (r *recordingReporter) Stop() error                     { r.stopped = true; return nil }

func (r *recordingReporter) Report(opp *domain.Opportunity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reported = append(r.reported, opp)
}

func (r *recordingReporter) UpdateQuotes(quotes []pricingDomain.Quote) {}

func (r *recordingReporter) UpdateStatus(status domain.ScanStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, status)
}

func (r *recordingReporter) UpdateConnectionStatus(name string, connected bool) {}

type recordingExecutor struct {
	mu       sync.Mutex
	executed []*domain.Opportunity
}

func (e *recordingExecutor) Name() string { return "recording" }

func (e *recordingExecutor) Execute(ctx context.Context, opp *domain.Opportunity) (*domain.ExecutionResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.executed = append(e.executed, opp)
	return &domain.ExecutionResult{
		Opportunity: opp,
		Success:     true,
		ProfitUSD:   opp.Profit.NetProfit,
		ExecutedAt:  time.Now(),
	}, nil
}

type stubAssessor struct {
	mu       sync.Mutex
	safe     bool
	outcomes []*domain.ExecutionResult
}

func (s *stubAssessor) Assess(ctx context.Context, opp *domain.Opportunity) *riskDomain.Assessment {
	if s.safe {
		return riskDomain.NewAssessment(0, nil, nil)
	}
	return riskDomain.NewAssessment(100, []string{"blocked by test"}, nil)
}

func (s *stubAssessor) RecordOutcome(ctx context.Context, result *domain.ExecutionResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes = append(s.outcomes, result)
}

func testScanner(t *testing.T, detector *Detector, assessor RiskAssessor, executor Executor, reporter Reporter) *Scanner {
	t.Helper()

	blockchain := blockchainApp.NewBlockchainService(&stubSubscriber{}, &stubGasOracle{gwei: 30})
	ranker := NewRanker(RankerConfig{
		MinTradeUSD:  decimal.RequireFromString("100"),
		MaxTradeUSD:  decimal.RequireFromString("100000"),
		PairCooldown: time.Minute,
	}, testLogger())

	s, err := NewScanner(detector, ranker, assessor, executor, reporter, blockchain, ScannerConfig{
		Pairs:        []pricingDomain.Pair{detectorPair()},
		TradeAmounts: []decimal.Decimal{decimal.RequireFromString("1000")},
		ScanInterval: 5 * time.Second,
		Adaptive:     true,
	}, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRunCycle_ExecutesApprovedOpportunity(t *testing.T) {
	detector := testDetector(t,
		&rateVenue{name: "quickswap", rate: "0.52"},
		&rateVenue{name: "sushiswap", rate: "0.5304"},
	)
	reporter := &recordingReporter{}
	executor := &recordingExecutor{}
	assessor := &stubAssessor{safe: true}

	s := testScanner(t, detector, assessor, executor, reporter)

	found := s.runCycle(context.Background())
	if found != 1 {
		t.Fatalf("found = %d, want 1", found)
	}
	if len(reporter.reported) != 1 {
		t.Errorf("reported %d opportunities, want 1", len(reporter.reported))
	}
	if len(executor.executed) != 1 {
		t.Errorf("executed %d opportunities, want 1", len(executor.executed))
	}
	if len(assessor.outcomes) != 1 || !assessor.outcomes[0].Success {
		t.Errorf("outcomes = %+v, want one success", assessor.outcomes)
	}

	status := s.Status()
	if status.Cycles != 1 || status.Opportunities != 1 || status.Executed != 1 {
		t.Errorf("status = %+v", status)
	}
}

func TestRunCycle_RiskBlockSkipsExecution(t *testing.T) {
	detector := testDetector(t,
		&rateVenue{name: "quickswap", rate: "0.52"},
		&rateVenue{name: "sushiswap", rate: "0.5304"},
	)
	reporter := &recordingReporter{}
	executor := &recordingExecutor{}
	assessor := &stubAssessor{safe: false}

	s := testScanner(t, detector, assessor, executor, reporter)

	s.runCycle(context.Background())
	if len(reporter.reported) != 1 {
		t.Errorf("blocked opportunities should still be reported, got %d", len(reporter.reported))
	}
	if len(executor.executed) != 0 {
		t.Errorf("blocked opportunity executed %d times", len(executor.executed))
	}
	if len(assessor.outcomes) != 0 {
		t.Errorf("no outcome should be recorded for a blocked trade, got %d", len(assessor.outcomes))
	}
}

func TestRunCycle_QuietMarket(t *testing.T) {
	detector := testDetector(t,
		&rateVenue{name: "quickswap", rate: "0.52"},
		&rateVenue{name: "sushiswap", rate: "0.52"},
	)
	reporter := &recordingReporter{}
	executor := &recordingExecutor{}
	assessor := &stubAssessor{safe: true}

	s := testScanner(t, detector, assessor, executor, reporter)

	if found := s.runCycle(context.Background()); found != 0 {
		t.Errorf("flat market found %d opportunities", found)
	}
	if len(executor.executed) != 0 {
		t.Errorf("executed %d opportunities in a flat market", len(executor.executed))
	}
}

func currentInterval(s *Scanner) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

func TestAdjustInterval(t *testing.T) {
	detector := testDetector(t, &rateVenue{name: "quickswap", rate: "0.52"})
	s := testScanner(t, detector, &stubAssessor{safe: true}, &recordingExecutor{}, &recordingReporter{})

	// Finds speed the loop up, down to the floor.
	s.adjustInterval(1)
	if got := currentInterval(s); got != 2500*time.Millisecond {
		t.Errorf("interval = %s, want 2.5s", got)
	}
	s.adjustInterval(1)
	if got := currentInterval(s); got != minScanInterval {
		t.Errorf("interval = %s, want the floor %s", got, minScanInterval)
	}

	// Quiet cycles slow it down, up to the cap.
	for i := 0; i < 10; i++ {
		s.adjustInterval(0)
	}
	if got := currentInterval(s); got != maxScanInterval {
		t.Errorf("interval = %s, want the cap %s", got, maxScanInterval)
	}

	// Disabling adaptation snaps back to the configured interval.
	s.SetAdaptiveScanning(false)
	if got := currentInterval(s); got != 5*time.Second {
		t.Errorf("interval = %s, want the configured 5s", got)
	}
}
