package onchain

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/flashloan-scanner/business/pricing/app"
	"github.com/fd1az/flashloan-scanner/business/pricing/domain"
	"github.com/fd1az/flashloan-scanner/internal/apperror"
	"github.com/fd1az/flashloan-scanner/internal/asset"
	"github.com/fd1az/flashloan-scanner/internal/circuitbreaker"
	"github.com/fd1az/flashloan-scanner/internal/logger"
)

// Ensure UniV3Venue implements VenueQuoter.
var _ app.VenueQuoter = (*UniV3Venue)(nil)

// UniV3Venue quotes through the Uniswap V3 QuoterV2 contract, probing all
// fee tiers and keeping the best output.
type UniV3Venue struct {
	name   string
	client *ethclient.Client
	quoter common.Address

	quoterABI abi.ABI
	feeTiers  []int
	logger    logger.LoggerInterface
	cb        *circuitbreaker.CircuitBreaker[[]byte]

	tracer  trace.Tracer
	metrics *venueMetrics
}

// NewUniV3Venue creates a quote venue over the QuoterV2 contract.
func NewUniV3Venue(name string, client *ethclient.Client, quoter common.Address, log logger.LoggerInterface) (*UniV3Venue, error) {
	parsedABI, err := abi.JSON(strings.NewReader(QuoterV2ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse quoter ABI: %w", err)
	}

	metrics, err := newVenueMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}

	v := &UniV3Venue{
		name:      name,
		client:    client,
		quoter:    quoter,
		quoterABI: parsedABI,
		feeTiers:  []int{FeeTier005, FeeTier030, FeeTier100},
		logger:    log,
		tracer:    otel.Tracer(tracerName),
		metrics:   metrics,
	}

	cbCfg := circuitbreaker.DefaultConfig(name + "-quoter")
	v.cb = circuitbreaker.New[[]byte](cbCfg)

	return v, nil
}

// Name returns the venue identifier.
func (v *UniV3Venue) Name() string {
	return v.name
}

// GetQuote probes each fee tier and returns the best (highest output) quote.
func (v *UniV3Venue) GetQuote(ctx context.Context, tokenIn, tokenOut *asset.Asset, amountIn asset.Amount) (*domain.Quote, error) {
	ctx, span := v.tracer.Start(ctx, "onchain.univ3_quote",
		trace.WithAttributes(
			attribute.String("venue", v.name),
			attribute.String("token_in", tokenIn.Symbol()),
			attribute.String("token_out", tokenOut.Symbol()),
			attribute.String("amount_in", amountIn.Raw().String()),
		),
	)
	defer span.End()

	start := time.Now()
	v.metrics.quotesTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("venue", v.name)))

	var best *QuoteResult
	for _, feeTier := range v.feeTiers {
		result, err := v.quoteFeeTier(ctx, tokenIn.Address(), tokenOut.Address(), amountIn.Raw(), feeTier)
		if err != nil {
			span.AddEvent("fee_tier_failed",
				trace.WithAttributes(
					attribute.Int("fee_tier", feeTier),
					attribute.String("error", err.Error()),
				),
			)
			continue
		}

		if best == nil || result.AmountOut.Cmp(best.AmountOut) > 0 {
			best = result
		}
	}

	v.metrics.quoteLatency.Record(ctx, float64(time.Since(start).Milliseconds()),
		metric.WithAttributes(attribute.String("venue", v.name)))

	if best == nil {
		v.metrics.quoteErrors.Add(ctx, 1,
			metric.WithAttributes(attribute.String("venue", v.name)))
		span.SetStatus(codes.Error, "no valid quote")
		return nil, apperror.New(apperror.CodeVenueQuoteFailed,
			apperror.WithContext("no pool found for token pair"))
	}

	amountOut := asset.NewAmount(tokenOut, best.AmountOut)
	quote := domain.NewQuote(v.name, tokenIn, tokenOut, amountIn, amountOut, best.GasEstimate.Uint64())

	span.SetAttributes(attribute.String("amount_out", amountOut.Raw().String()))
	span.SetStatus(codes.Ok, "quote received")

	return &quote, nil
}

// quoteFeeTier calls QuoterV2.quoteExactInputSingle for a single fee tier.
func (v *UniV3Venue) quoteFeeTier(ctx context.Context, tokenIn, tokenOut common.Address, amountIn *big.Int, feeTier int) (*QuoteResult, error) {
	callData, err := v.quoterABI.Pack("quoteExactInputSingle", QuoteExactInputSingleParams{
		TokenIn:           tokenIn,
		TokenOut:          tokenOut,
		AmountIn:          amountIn,
		Fee:               big.NewInt(int64(feeTier)),
		SqrtPriceLimitX96: big.NewInt(0), // No price limit
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode call: %w", err)
	}

	result, err := v.cb.Execute(func() ([]byte, error) {
		return v.client.CallContract(ctx, ethereum.CallMsg{
			To:   &v.quoter,
			Data: callData,
		}, nil)
	})
	if err != nil {
		return nil, apperror.New(apperror.CodeContractCallFailed,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("quoter call failed for fee tier %d", feeTier)))
	}

	outputs, err := v.quoterABI.Unpack("quoteExactInputSingle", result)
	if err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}
	if len(outputs) < 4 {
		return nil, fmt.Errorf("unexpected output length: %d", len(outputs))
	}

	return &QuoteResult{
		AmountOut:               outputs[0].(*big.Int),
		SqrtPriceX96After:       outputs[1].(*big.Int),
		InitializedTicksCrossed: outputs[2].(uint32),
		GasEstimate:             outputs[3].(*big.Int),
	}, nil
}
