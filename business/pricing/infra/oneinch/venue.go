// Package oneinch implements VenueQuoter over the 1inch aggregation API.
package oneinch

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/fd1az/flashloan-scanner/business/pricing/app"
	"github.com/fd1az/flashloan-scanner/business/pricing/domain"
	"github.com/fd1az/flashloan-scanner/internal/apperror"
	"github.com/fd1az/flashloan-scanner/internal/asset"
	"github.com/fd1az/flashloan-scanner/internal/httpclient"
	"github.com/fd1az/flashloan-scanner/internal/logger"
	"github.com/fd1az/flashloan-scanner/internal/ratelimit"
)

// VenueName identifies the aggregator in quotes and metrics.
const VenueName = "oneinch"

// defaultRPM is the free-tier request budget.
const defaultRPM = 60

// Ensure Venue implements VenueQuoter.
var _ app.VenueQuoter = (*Venue)(nil)

// Config holds 1inch API settings.
type Config struct {
	// BaseURL is the chain-scoped API root,
	// e.g. https://api.1inch.dev/swap/v6.0/137.
	BaseURL string

	// APIKey authenticates against the API. Empty means free tier.
	APIKey string

	// RequestsPerMinute caps outbound calls. Zero uses the free-tier budget.
	RequestsPerMinute int

	// Timeout bounds a single quote request.
	Timeout time.Duration
}

// quoteResponse is the wire shape of GET /quote.
type quoteResponse struct {
	DstAmount string `json:"dstAmount"`
	Gas       int64  `json:"gas"`
}

// Venue quotes through the 1inch aggregation API. The aggregator routes
// across many pools, so its quote approximates the best executable price.
type Venue struct {
	client  httpclient.Client
	limiter *ratelimit.Limiter
	logger  logger.LoggerInterface
}

// NewVenue creates a 1inch quote venue.
func NewVenue(cfg Config, log logger.LoggerInterface) (*Venue, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("oneinch: base url required")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	headers := map[string]string{"Accept": "application/json"}
	if cfg.APIKey != "" {
		headers["Authorization"] = "Bearer " + cfg.APIKey
	}

	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName(VenueName),
		httpclient.WithBaseURL(cfg.BaseURL),
		httpclient.WithHeaders(headers),
		httpclient.WithRequestTimeout(timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("oneinch: create http client: %w", err)
	}

	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = defaultRPM
	}

	return &Venue{
		client:  client,
		limiter: ratelimit.New(rpm),
		logger:  log,
	}, nil
}

// Name returns the venue identifier.
func (v *Venue) Name() string {
	return VenueName
}

// GetQuote fetches the aggregator's best output for the swap.
func (v *Venue) GetQuote(ctx context.Context, tokenIn, tokenOut *asset.Asset, amountIn asset.Amount) (*domain.Quote, error) {
	if err := v.limiter.Wait(ctx); err != nil {
		return nil, apperror.New(apperror.CodeVenueRateLimited,
			apperror.WithCause(err),
			apperror.WithContext("oneinch rate limit wait aborted"))
	}

	var result quoteResponse
	resp, err := v.client.NewRequestWithOptions(
		httpclient.WithResponseErrorHandler(handleAPIError),
	).
		SetQueryParams(map[string]string{
			"src":        tokenIn.Address().Hex(),
			"dst":        tokenOut.Address().Hex(),
			"amount":     amountIn.Raw().String(),
			"includeGas": "true",
		}).
		SetResult(&result).
		Get(ctx, "/quote")
	if err != nil {
		return nil, apperror.New(apperror.CodeVenueQuoteFailed,
			apperror.WithCause(err),
			apperror.WithContext("oneinch quote request failed"))
	}

	if resp.IsError() {
		return nil, apperror.New(apperror.CodeVenueQuoteFailed,
			apperror.WithContext(fmt.Sprintf("oneinch returned status %d", resp.StatusCode)))
	}

	rawOut, ok := new(big.Int).SetString(result.DstAmount, 10)
	if !ok || rawOut.Sign() <= 0 {
		return nil, apperror.New(apperror.CodeInvalidQuote,
			apperror.WithContext(fmt.Sprintf("oneinch returned bad amount %q", result.DstAmount)))
	}

	gas := uint64(0)
	if result.Gas > 0 {
		gas = uint64(result.Gas)
	}

	amountOut := asset.NewAmount(tokenOut, rawOut)
	quote := domain.NewQuote(VenueName, tokenIn, tokenOut, amountIn, amountOut, gas)

	v.logger.Debug(ctx, "oneinch quote",
		"token_in", tokenIn.Symbol(),
		"token_out", tokenOut.Symbol(),
		"amount_in", amountIn.String(),
		"amount_out", amountOut.String(),
	)

	return &quote, nil
}

// handleAPIError maps 1inch error payloads to typed errors.
func handleAPIError(statusCode int, body []byte) error {
	if statusCode < 400 {
		return nil
	}
	if statusCode == 429 {
		return apperror.New(apperror.CodeVenueRateLimited,
			apperror.WithContext("oneinch rate limit exceeded"))
	}
	return apperror.New(apperror.CodeVenueQuoteFailed,
		apperror.WithContext(fmt.Sprintf("oneinch error status %d: %s", statusCode, truncate(body, 200))))
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
