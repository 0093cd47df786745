package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/fd1az/flashloan-scanner/business/pricing/domain"
	"github.com/fd1az/flashloan-scanner/internal/apperror"
	"github.com/fd1az/flashloan-scanner/internal/asset"
	"github.com/fd1az/flashloan-scanner/internal/cache"
	"github.com/fd1az/flashloan-scanner/internal/logger"
)

const (
	tracerName = "pricing"
	meterName  = "pricing"
)

// quoteKey identifies a cached quote: same venue, pair and size.
type quoteKey struct {
	venue    string
	tokenIn  asset.AssetID
	tokenOut asset.AssetID
	amountIn string
}

// QuoteServiceConfig holds quote collection settings.
type QuoteServiceConfig struct {
	// Timeout bounds one collection cycle across all venues.
	Timeout time.Duration

	// CacheTTL is how long a fetched quote stays valid.
	CacheTTL time.Duration
}

// DefaultQuoteServiceConfig returns sensible defaults.
func DefaultQuoteServiceConfig() QuoteServiceConfig {
	return QuoteServiceConfig{
		Timeout:  5 * time.Second,
		CacheTTL: 10 * time.Second,
	}
}

// quoteMetrics holds OTEL metric instruments.
type quoteMetrics struct {
	quotesCollected metric.Int64Counter
	venueErrors     metric.Int64Counter
	invalidQuotes   metric.Int64Counter
	cacheHits       metric.Int64Counter
	collectLatency  metric.Float64Histogram
}

// QuoteService fans a quote request out to every registered venue in
// parallel and returns the validated answers. A venue that errors, times out
// or returns an implausible price is skipped, never fatal; the cycle only
// fails when no venue answers at all.
type QuoteService struct {
	venues []VenueQuoter
	config QuoteServiceConfig
	logger logger.LoggerInterface

	cache *cache.Cache[quoteKey, domain.Quote]

	tracer  trace.Tracer
	metrics *quoteMetrics
}

// NewQuoteService creates a QuoteService over the given venues.
func NewQuoteService(venues []VenueQuoter, cfg QuoteServiceConfig, log logger.LoggerInterface) (*QuoteService, error) {
	if len(venues) == 0 {
		return nil, fmt.Errorf("pricing: at least one venue required")
	}

	s := &QuoteService{
		venues: venues,
		config: cfg,
		logger: log,
		cache:  cache.New[quoteKey, domain.Quote](cfg.CacheTTL),
		tracer: otel.Tracer(tracerName),
	}

	if err := s.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	return s, nil
}

func (s *QuoteService) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	s.metrics = &quoteMetrics{}

	s.metrics.quotesCollected, err = meter.Int64Counter(
		"quotes_collected_total",
		metric.WithDescription("Valid quotes collected per venue"),
	)
	if err != nil {
		return err
	}

	s.metrics.venueErrors, err = meter.Int64Counter(
		"venue_quote_errors_total",
		metric.WithDescription("Quote fetch errors per venue"),
	)
	if err != nil {
		return err
	}

	s.metrics.invalidQuotes, err = meter.Int64Counter(
		"invalid_quotes_total",
		metric.WithDescription("Quotes rejected by validation"),
	)
	if err != nil {
		return err
	}

	s.metrics.cacheHits, err = meter.Int64Counter(
		"quote_cache_hits_total",
		metric.WithDescription("Quote cache hits"),
	)
	if err != nil {
		return err
	}

	s.metrics.collectLatency, err = meter.Float64Histogram(
		"quote_collect_latency_ms",
		metric.WithDescription("Latency of a full quote collection cycle"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Venues returns the names of the registered venues.
func (s *QuoteService) Venues() []string {
	names := make([]string, len(s.venues))
	for i, v := range s.venues {
		names[i] = v.Name()
	}
	return names
}

// CollectQuotes fetches quotes for swapping amountIn of pair.Base into
// pair.Quote from every venue concurrently.
func (s *QuoteService) CollectQuotes(ctx context.Context, pair domain.Pair, amountIn asset.Amount) ([]domain.Quote, error) {
	return s.collect(ctx, pair.Base, pair.Quote, amountIn)
}

func (s *QuoteService) collect(ctx context.Context, tokenIn, tokenOut *asset.Asset, amountIn asset.Amount) ([]domain.Quote, error) {
	ctx, span := s.tracer.Start(ctx, "pricing.collect_quotes",
		trace.WithAttributes(
			attribute.String("token_in", tokenIn.Symbol()),
			attribute.String("token_out", tokenOut.Symbol()),
			attribute.String("amount_in", amountIn.String()),
			attribute.Int("venues", len(s.venues)),
		),
	)
	defer span.End()

	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	var (
		mu     sync.Mutex
		quotes []domain.Quote
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, venue := range s.venues {
		g.Go(func() error {
			quote, ok := s.quoteFromVenue(gctx, venue, tokenIn, tokenOut, amountIn)
			if !ok {
				// Venue failures are logged and counted, never fatal.
				return nil
			}

			mu.Lock()
			quotes = append(quotes, quote)
			mu.Unlock()
			return nil
		})
	}

	g.Wait() //nolint:errcheck // goroutines never return errors

	s.metrics.collectLatency.Record(ctx, float64(time.Since(start).Milliseconds()))

	if len(quotes) == 0 {
		span.SetStatus(codes.Error, "no venue answered")
		return nil, apperror.New(apperror.CodeVenueQuoteFailed,
			apperror.WithContext(fmt.Sprintf("no quotes for %s -> %s", tokenIn.Symbol(), tokenOut.Symbol())))
	}

	span.SetAttributes(attribute.Int("quotes", len(quotes)))
	span.SetStatus(codes.Ok, "collected")

	return quotes, nil
}

// quoteFromVenue fetches one venue's quote, serving from cache when fresh.
func (s *QuoteService) quoteFromVenue(ctx context.Context, venue VenueQuoter, tokenIn, tokenOut *asset.Asset, amountIn asset.Amount) (domain.Quote, bool) {
	key := quoteKey{
		venue:    venue.Name(),
		tokenIn:  tokenIn.ID(),
		tokenOut: tokenOut.ID(),
		amountIn: amountIn.Raw().String(),
	}

	if cached, found := s.cache.Get(ctx, key); found {
		s.metrics.cacheHits.Add(ctx, 1,
			metric.WithAttributes(attribute.String("venue", venue.Name())))
		return cached, true
	}

	fetchedAt := time.Now()
	quote, err := venue.GetQuote(ctx, tokenIn, tokenOut, amountIn)
	if err != nil {
		s.metrics.venueErrors.Add(ctx, 1,
			metric.WithAttributes(attribute.String("venue", venue.Name())))
		s.logger.Warn(ctx, "venue quote failed",
			"venue", venue.Name(),
			"pair", tokenIn.Symbol()+"-"+tokenOut.Symbol(),
			"error", err)
		return domain.Quote{}, false
	}

	if err := quote.Validate(); err != nil {
		s.metrics.invalidQuotes.Add(ctx, 1,
			metric.WithAttributes(attribute.String("venue", venue.Name())))
		s.logger.Warn(ctx, "quote rejected",
			"venue", venue.Name(),
			"rate", quote.Rate().String(),
			"error", err)
		return domain.Quote{}, false
	}

	s.metrics.quotesCollected.Add(ctx, 1,
		metric.WithAttributes(attribute.String("venue", venue.Name())))

	s.cache.SetAt(ctx, key, *quote, fetchedAt)

	return *quote, true
}
