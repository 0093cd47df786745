package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	// General validation
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	// External service errors
	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Scanner-specific error codes
const (
	// Blockchain/RPC errors
	CodeRPCConnectionFailed Code = "RPC_CONNECTION_FAILED"
	CodeRPCSubscribeFailed  Code = "RPC_SUBSCRIBE_FAILED"
	CodeRPCError            Code = "RPC_ERROR"
	CodeBlockNotFound       Code = "BLOCK_NOT_FOUND"
	CodeGasEstimationFailed Code = "GAS_ESTIMATION_FAILED"

	// Venue (DEX router / aggregator) errors
	CodeVenueQuoteFailed   Code = "VENUE_QUOTE_FAILED"
	CodeVenueUnavailable   Code = "VENUE_UNAVAILABLE"
	CodeVenueRateLimited   Code = "VENUE_RATE_LIMITED"
	CodeInvalidQuote       Code = "INVALID_QUOTE"
	CodeContractCallFailed Code = "CONTRACT_CALL_FAILED"
	CodeTokenNotSupported  Code = "TOKEN_NOT_SUPPORTED"

	// Arbitrage detection errors
	CodePriceCalculationFailed Code = "PRICE_CALCULATION_FAILED"
	CodeSpreadCalculationError Code = "SPREAD_CALCULATION_ERROR"
	CodeInsufficientLiquidity  Code = "INSUFFICIENT_LIQUIDITY"
	CodeInvalidTradeSize       Code = "INVALID_TRADE_SIZE"

	// Risk management errors
	CodeRiskBlocked       Code = "RISK_BLOCKED"
	CodeTradingPaused     Code = "TRADING_PAUSED"
	CodePositionTooLarge  Code = "POSITION_TOO_LARGE"
	CodeDailyLimitReached Code = "DAILY_LIMIT_REACHED"

	// Cache errors
	CodeCacheMiss    Code = "CACHE_MISS"
	CodeCacheExpired Code = "CACHE_EXPIRED"

	// Circuit breaker errors
	CodeCircuitOpen     Code = "CIRCUIT_OPEN"
	CodeCircuitHalfOpen Code = "CIRCUIT_HALF_OPEN"
)
