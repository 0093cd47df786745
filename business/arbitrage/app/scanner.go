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

	"github.com/fd1az/flashloan-scanner/business/arbitrage/domain"
	blockchainApp "github.com/fd1az/flashloan-scanner/business/blockchain/app"
	blockchainDomain "github.com/fd1az/flashloan-scanner/business/blockchain/domain"
	pricingDomain "github.com/fd1az/flashloan-scanner/business/pricing/domain"
	"github.com/fd1az/flashloan-scanner/internal/asset"
	"github.com/fd1az/flashloan-scanner/internal/logger"
)

// Adaptive interval bounds. Busy markets get scanned faster, quiet ones
// slower, never outside these.
const (
	minScanInterval = 2 * time.Second
	maxScanInterval = 30 * time.Second
)

// ScannerConfig holds scan loop settings.
type ScannerConfig struct {
	Pairs        []pricingDomain.Pair
	TradeAmounts []decimal.Decimal // sizes in Pair.Base units
	ScanInterval time.Duration
	Adaptive     bool
}

type scannerMetrics struct {
	cycles        metric.Int64Counter
	executed      metric.Int64Counter
	blocked       metric.Int64Counter
	cycleDuration metric.Float64Histogram
}

// Scanner drives the detect -> rank -> assess -> execute pipeline on a
// timer. A failed cycle is logged and the loop continues; only context
// cancellation stops it.
type Scanner struct {
	detector   *Detector
	ranker     *Ranker
	risk       RiskAssessor
	executor   Executor
	reporter   Reporter
	blockchain *blockchainApp.BlockchainService
	config     ScannerConfig
	logger     logger.LoggerInterface

	metrics *scannerMetrics

	mu       sync.Mutex
	interval time.Duration
	adaptive bool
	status   domain.ScanStatus
}

// NewScanner creates a Scanner.
func NewScanner(
	detector *Detector,
	ranker *Ranker,
	risk RiskAssessor,
	executor Executor,
	reporter Reporter,
	blockchain *blockchainApp.BlockchainService,
	config ScannerConfig,
	log logger.LoggerInterface,
) (*Scanner, error) {
	if len(config.Pairs) == 0 {
		return nil, fmt.Errorf("arbitrage: at least one pair required")
	}
	if len(config.TradeAmounts) == 0 {
		return nil, fmt.Errorf("arbitrage: at least one trade amount required")
	}
	if config.ScanInterval <= 0 {
		return nil, fmt.Errorf("arbitrage: scan interval must be positive")
	}

	s := &Scanner{
		detector:   detector,
		ranker:     ranker,
		risk:       risk,
		executor:   executor,
		reporter:   reporter,
		blockchain: blockchain,
		config:     config,
		logger:     log,
		interval:   config.ScanInterval,
		adaptive:   config.Adaptive,
	}

	meter := otel.Meter(meterName)
	var err error

	s.metrics = &scannerMetrics{}
	s.metrics.cycles, err = meter.Int64Counter(
		"scan_cycles_total",
		metric.WithDescription("Completed scan cycles"),
	)
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}
	s.metrics.executed, err = meter.Int64Counter(
		"opportunities_executed_total",
		metric.WithDescription("Opportunities passed to the executor"),
	)
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}
	s.metrics.blocked, err = meter.Int64Counter(
		"opportunities_blocked_total",
		metric.WithDescription("Opportunities rejected by risk assessment"),
	)
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}
	s.metrics.cycleDuration, err = meter.Float64Histogram(
		"scan_cycle_duration_ms",
		metric.WithDescription("Duration of a full scan cycle"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	return s, nil
}

// Start launches the scan loop. It returns after starting the reporter; the
// loop runs until ctx is cancelled.
func (s *Scanner) Start(ctx context.Context) error {
	if err := s.reporter.Start(ctx); err != nil {
		return fmt.Errorf("start reporter: %w", err)
	}

	s.logger.Info(ctx, "scanner starting",
		"pairs", len(s.config.Pairs),
		"trade_amounts", len(s.config.TradeAmounts),
		"interval", s.config.ScanInterval.String(),
		"executor", s.executor.Name(),
	)

	go s.run(ctx)
	return nil
}

// Stop shuts the reporter down. The loop itself stops with its context.
func (s *Scanner) Stop() error {
	return s.reporter.Stop()
}

// SetMinProfitThreshold adjusts the profitability threshold at runtime.
func (s *Scanner) SetMinProfitThreshold(pct decimal.Decimal) {
	s.detector.calculator.SetMinProfitPct(pct)
}

// SetAdaptiveScanning toggles interval adaptation.
func (s *Scanner) SetAdaptiveScanning(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adaptive = enabled
	if !enabled {
		s.interval = s.config.ScanInterval
	}
}

// Status returns a snapshot of the scanner's progress.
func (s *Scanner) Status() domain.ScanStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Scanner) run(ctx context.Context) {
	for {
		found := s.runCycle(ctx)
		s.adjustInterval(found)

		s.mu.Lock()
		wait := s.interval
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "scanner stopping", "reason", ctx.Err())
			return
		case <-time.After(wait):
		}
	}
}

// runCycle scans every pair at every trade size and pushes ranked, approved
// opportunities to the executor. Returns how many opportunities survived
// ranking.
func (s *Scanner) runCycle(ctx context.Context) (found int) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(ctx, "scan cycle panicked", "panic", fmt.Sprint(r))
		}
	}()

	start := time.Now()

	var blockNumber uint64
	if block, err := s.blockchain.LatestBlock(ctx); err == nil {
		blockNumber = block.Number
	} else {
		s.logger.Warn(ctx, "latest block unavailable", "error", err)
	}

	connected := s.blockchain.ConnectionState() == blockchainDomain.StateConnected
	s.reporter.UpdateConnectionStatus("chain", connected)

	var detected []*domain.Opportunity
	for _, pair := range s.config.Pairs {
		for _, size := range s.config.TradeAmounts {
			amountIn, err := asset.ParseDecimal(pair.Base, size)
			if err != nil {
				s.logger.Warn(ctx, "invalid trade amount",
					"pair", pair.String(), "amount", size.String(), "error", err)
				continue
			}

			result, err := s.detector.Detect(ctx, pair, amountIn, blockNumber)
			if err != nil {
				s.logger.Warn(ctx, "detection failed",
					"pair", pair.String(), "error", err)
				continue
			}

			s.reporter.UpdateQuotes(result.Quotes)
			detected = append(detected, result.Opportunities...)
		}
	}

	ranked := s.ranker.Select(ctx, detected)
	for _, opp := range ranked {
		s.reporter.Report(opp)

		assessment := s.risk.Assess(ctx, opp)
		if !assessment.Safe {
			s.metrics.blocked.Add(ctx, 1)
			s.logger.Warn(ctx, "opportunity blocked",
				"pair", opp.Pair.String(),
				"score", assessment.Score,
				"blockers", assessment.Blockers,
			)
			continue
		}

		s.execute(ctx, opp)
	}

	duration := time.Since(start)
	s.metrics.cycles.Add(ctx, 1)
	s.metrics.cycleDuration.Record(ctx, float64(duration.Milliseconds()))

	s.mu.Lock()
	s.status.Cycles++
	s.status.Opportunities += uint64(len(ranked))
	s.status.Interval = s.interval
	s.status.LastCycleAt = start
	s.status.LastCycleDuration = duration
	status := s.status
	s.mu.Unlock()

	s.reporter.UpdateStatus(status)

	return len(ranked)
}

func (s *Scanner) execute(ctx context.Context, opp *domain.Opportunity) {
	result, err := s.executor.Execute(ctx, opp)
	if err != nil {
		s.logger.Error(ctx, "executor failed",
			"pair", opp.Pair.String(), "error", err)
		result = &domain.ExecutionResult{
			Opportunity: opp,
			Success:     false,
			Error:       err.Error(),
			ExecutedAt:  time.Now(),
		}
	}

	s.metrics.executed.Add(ctx, 1,
		metric.WithAttributes(attribute.Bool("success", result.Success)))

	s.mu.Lock()
	s.status.Executed++
	s.mu.Unlock()

	s.risk.RecordOutcome(ctx, result)
}

// adjustInterval speeds the loop up when opportunities are flowing and
// slows it down when the market is quiet.
func (s *Scanner) adjustInterval(found int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.adaptive {
		return
	}

	if found > 0 {
		s.interval = s.interval / 2
		if s.interval < minScanInterval {
			s.interval = minScanInterval
		}
		return
	}

	s.interval = s.interval * 3 / 2
	if s.interval > maxScanInterval {
		s.interval = maxScanInterval
	}
}
