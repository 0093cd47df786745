// Package onchain implements VenueQuoter adapters that read prices straight
// from DEX contracts over an RPC node.
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

const (
	tracerName = "onchain"
	meterName  = "onchain"
)

// swapGasV2 is the gas a single V2-style swap typically burns. Routers do
// not report gas, so quotes carry this constant.
const swapGasV2 = 150_000

// Ensure RouterVenue implements VenueQuoter.
var _ app.VenueQuoter = (*RouterVenue)(nil)

// venueMetrics holds OTEL metric instruments shared by the onchain venues.
type venueMetrics struct {
	quotesTotal  metric.Int64Counter
	quoteLatency metric.Float64Histogram
	quoteErrors  metric.Int64Counter
}

func newVenueMetrics() (*venueMetrics, error) {
	meter := otel.Meter(meterName)
	m := &venueMetrics{}
	var err error

	m.quotesTotal, err = meter.Int64Counter(
		"onchain_quotes_total",
		metric.WithDescription("Total on-chain quote requests"),
	)
	if err != nil {
		return nil, err
	}

	m.quoteLatency, err = meter.Float64Histogram(
		"onchain_quote_latency_ms",
		metric.WithDescription("On-chain quote latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	m.quoteErrors, err = meter.Int64Counter(
		"onchain_quote_errors_total",
		metric.WithDescription("Total on-chain quote errors"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RouterVenue quotes through a Uniswap V2-style router's getAmountsOut.
type RouterVenue struct {
	name   string
	client *ethclient.Client
	router common.Address

	routerABI abi.ABI
	logger    logger.LoggerInterface
	cb        *circuitbreaker.CircuitBreaker[[]byte]

	tracer  trace.Tracer
	metrics *venueMetrics
}

// NewRouterVenue creates a quote venue over a V2-style router contract.
func NewRouterVenue(name string, client *ethclient.Client, router common.Address, log logger.LoggerInterface) (*RouterVenue, error) {
	parsedABI, err := abi.JSON(strings.NewReader(RouterV2ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse router ABI: %w", err)
	}

	metrics, err := newVenueMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}

	v := &RouterVenue{
		name:      name,
		client:    client,
		router:    router,
		routerABI: parsedABI,
		logger:    log,
		tracer:    otel.Tracer(tracerName),
		metrics:   metrics,
	}

	cbCfg := circuitbreaker.DefaultConfig(name + "-router")
	v.cb = circuitbreaker.New[[]byte](cbCfg)

	return v, nil
}

// Name returns the venue identifier.
func (v *RouterVenue) Name() string {
	return v.name
}

// GetQuote calls getAmountsOut on the router for a direct two-hop path.
func (v *RouterVenue) GetQuote(ctx context.Context, tokenIn, tokenOut *asset.Asset, amountIn asset.Amount) (*domain.Quote, error) {
	ctx, span := v.tracer.Start(ctx, "onchain.router_quote",
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

	path := []common.Address{tokenIn.Address(), tokenOut.Address()}
	callData, err := v.routerABI.Pack("getAmountsOut", amountIn.Raw(), path)
	if err != nil {
		return nil, fmt.Errorf("failed to encode call: %w", err)
	}

	result, err := v.cb.Execute(func() ([]byte, error) {
		return v.client.CallContract(ctx, ethereum.CallMsg{
			To:   &v.router,
			Data: callData,
		}, nil)
	})

	v.metrics.quoteLatency.Record(ctx, float64(time.Since(start).Milliseconds()),
		metric.WithAttributes(attribute.String("venue", v.name)))

	if err != nil {
		v.metrics.quoteErrors.Add(ctx, 1,
			metric.WithAttributes(attribute.String("venue", v.name)))
		span.RecordError(err)
		span.SetStatus(codes.Error, "call failed")
		return nil, apperror.New(apperror.CodeContractCallFailed,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("%s getAmountsOut failed", v.name)))
	}

	outputs, err := v.routerABI.Unpack("getAmountsOut", result)
	if err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}
	if len(outputs) < 1 {
		return nil, fmt.Errorf("unexpected output length: %d", len(outputs))
	}

	amounts, ok := outputs[0].([]*big.Int)
	if !ok || len(amounts) != len(path) {
		v.metrics.quoteErrors.Add(ctx, 1,
			metric.WithAttributes(attribute.String("venue", v.name)))
		span.SetStatus(codes.Error, "malformed amounts")
		return nil, apperror.New(apperror.CodeInvalidQuote,
			apperror.WithContext(fmt.Sprintf("%s returned malformed amounts", v.name)))
	}

	amountOut := asset.NewAmount(tokenOut, amounts[len(amounts)-1])
	quote := domain.NewQuote(v.name, tokenIn, tokenOut, amountIn, amountOut, swapGasV2)

	span.SetAttributes(attribute.String("amount_out", amountOut.Raw().String()))
	span.SetStatus(codes.Ok, "quote received")

	v.logger.Debug(ctx, "router quote",
		"venue", v.name,
		"token_in", tokenIn.Symbol(),
		"token_out", tokenOut.Symbol(),
		"amount_in", amountIn.String(),
		"amount_out", amountOut.String(),
	)

	return &quote, nil
}
