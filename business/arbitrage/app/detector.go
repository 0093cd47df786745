package app

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/flashloan-scanner/business/arbitrage/domain"
	blockchainApp "github.com/fd1az/flashloan-scanner/business/blockchain/app"
	pricingApp "github.com/fd1az/flashloan-scanner/business/pricing/app"
	pricingDomain "github.com/fd1az/flashloan-scanner/business/pricing/domain"
	"github.com/fd1az/flashloan-scanner/internal/asset"
	"github.com/fd1az/flashloan-scanner/internal/logger"
)

const (
	tracerName = "arbitrage"
	meterName  = "arbitrage"
)

// DetectorConfig holds detection settings.
type DetectorConfig struct {
	// FlashloanGas is the gas overhead of the flashloan borrow and repay on
	// top of the two swaps.
	FlashloanGas uint64
}

// DetectionResult is one pair's scan output: the raw quotes plus every
// venue pairing with a positive spread.
type DetectionResult struct {
	Quotes        []pricingDomain.Quote
	Opportunities []*domain.Opportunity
}

type detectorMetrics struct {
	spreadsChecked metric.Int64Counter
	oppsDetected   metric.Int64Counter
}

// Detector finds arbitrage between venues by comparing their quotes for the
// same pair and size. Every venue pairing with a price gap becomes a
// candidate opportunity; profitability is judged against gas converted to
// USD at the current native coin price.
type Detector struct {
	quotes     *pricingApp.QuoteService
	usd        *pricingApp.USDConverter
	blockchain *blockchainApp.BlockchainService
	calculator *ProfitCalculator
	config     DetectorConfig
	logger     logger.LoggerInterface

	tracer  trace.Tracer
	metrics *detectorMetrics
}

// NewDetector creates a Detector.
func NewDetector(
	quotes *pricingApp.QuoteService,
	usd *pricingApp.USDConverter,
	blockchain *blockchainApp.BlockchainService,
	calculator *ProfitCalculator,
	config DetectorConfig,
	log logger.LoggerInterface,
) (*Detector, error) {
	d := &Detector{
		quotes:     quotes,
		usd:        usd,
		blockchain: blockchain,
		calculator: calculator,
		config:     config,
		logger:     log,
		tracer:     otel.Tracer(tracerName),
	}

	meter := otel.Meter(meterName)
	var err error

	d.metrics = &detectorMetrics{}
	d.metrics.spreadsChecked, err = meter.Int64Counter(
		"spreads_checked_total",
		metric.WithDescription("Venue pairings compared for a price gap"),
	)
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}
	d.metrics.oppsDetected, err = meter.Int64Counter(
		"opportunities_detected_total",
		metric.WithDescription("Opportunities with a positive spread"),
	)
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	return d, nil
}

// Detect scans one pair at one trade size. It needs at least two venues to
// answer; a single quote cannot arbitrage against itself.
func (d *Detector) Detect(ctx context.Context, pair pricingDomain.Pair, amountIn asset.Amount, blockNumber uint64) (*DetectionResult, error) {
	ctx, span := d.tracer.Start(ctx, "arbitrage.detect",
		trace.WithAttributes(
			attribute.String("pair", pair.String()),
			attribute.String("amount_in", amountIn.String()),
		),
	)
	defer span.End()

	quotes, err := d.quotes.CollectQuotes(ctx, pair, amountIn)
	if err != nil {
		return nil, fmt.Errorf("collect quotes for %s: %w", pair.String(), err)
	}

	result := &DetectionResult{Quotes: quotes}
	if len(quotes) < 2 {
		d.logger.Debug(ctx, "not enough venues to compare",
			"pair", pair.String(), "venues", len(quotes))
		return result, nil
	}

	gasPrice, err := d.blockchain.GetGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("gas price: %w", err)
	}

	nativeUSD, err := d.usd.NativeUSD(ctx)
	if err != nil {
		return nil, fmt.Errorf("native coin price: %w", err)
	}

	tradeValueUSD, err := d.usd.ToUSD(ctx, amountIn)
	if err != nil {
		return nil, fmt.Errorf("trade value: %w", err)
	}

	quoteUnitUSD, err := d.usd.UnitUSD(ctx, pair.Quote)
	if err != nil {
		return nil, fmt.Errorf("quote token price: %w", err)
	}

	byVenue := make(map[string]pricingDomain.Quote, len(quotes))
	for _, q := range quotes {
		byVenue[q.Venue] = q
	}

	now := time.Now()
	for i := 0; i < len(quotes); i++ {
		for j := i + 1; j < len(quotes); j++ {
			d.metrics.spreadsChecked.Add(ctx, 1)

			spread := pricingDomain.CalculateSpread(quotes[i], quotes[j])
			if !spread.Absolute.IsPositive() {
				continue
			}

			sellQuote := byVenue[spread.SellVenue]
			buyQuote := byVenue[spread.BuyVenue]

			gasLimit := sellQuote.GasEstimate + buyQuote.GasEstimate + d.config.FlashloanGas
			gasCost := domain.NewGasCost(gasLimit, gasPrice.Wei, nativeUSD)

			profit := d.calculator.Calculate(spread, amountIn.ToDecimal(), tradeValueUSD, quoteUnitUSD, gasCost)

			opp := &domain.Opportunity{
				DetectedAt:    now,
				BlockNumber:   blockNumber,
				Pair:          pair,
				AmountIn:      amountIn,
				SellVenue:     spread.SellVenue,
				BuyVenue:      spread.BuyVenue,
				Spread:        spread,
				SellQuote:     sellQuote,
				BuyQuote:      buyQuote,
				TradeValueUSD: tradeValueUSD,
				GasCost:       gasCost,
				Profit:        profit,
			}
			opp.ID = fmt.Sprintf("%s@%d", opp.Key(), now.UnixNano())

			d.metrics.oppsDetected.Add(ctx, 1,
				metric.WithAttributes(attribute.String("pair", pair.String())))

			if profit.IsProfitable {
				d.logger.Info(ctx, "arbitrage opportunity",
					"pair", pair.String(),
					"sell", spread.SellVenue,
					"buy", spread.BuyVenue,
					"spread_pct", spread.Percent.StringFixed(4),
					"net_usd", profit.NetProfit.StringFixed(2),
				)
			}

			result.Opportunities = append(result.Opportunities, opp)
		}
	}

	return result, nil
}
