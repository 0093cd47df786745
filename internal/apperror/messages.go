package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// General validation
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeInvalidState:    "Invalid state for this operation",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	// Configuration
	CodeConfigurationError: "Configuration error",

	// External service errors
	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	// System errors
	CodeInternalError: "Internal server error",
	CodeUnknownError:  "An unknown error occurred",

	// Blockchain/RPC errors
	CodeRPCConnectionFailed: "Failed to connect to RPC node",
	CodeRPCSubscribeFailed:  "Failed to subscribe to chain events",
	CodeRPCError:            "RPC call failed",
	CodeBlockNotFound:       "Block not found",
	CodeGasEstimationFailed: "Gas estimation failed",

	// Venue errors
	CodeVenueQuoteFailed:   "Failed to get venue quote",
	CodeVenueUnavailable:   "Venue temporarily unavailable",
	CodeVenueRateLimited:   "Venue rate limit exceeded",
	CodeInvalidQuote:       "Invalid quote data",
	CodeContractCallFailed: "Smart contract call failed",
	CodeTokenNotSupported:  "Token not supported by venue",

	// Arbitrage detection errors
	CodePriceCalculationFailed: "Price calculation failed",
	CodeSpreadCalculationError: "Spread calculation error",
	CodeInsufficientLiquidity:  "Insufficient liquidity for trade size",
	CodeInvalidTradeSize:       "Invalid trade size",

	// Risk management errors
	CodeRiskBlocked:       "Trade blocked by risk checks",
	CodeTradingPaused:     "Trading is paused",
	CodePositionTooLarge:  "Position size exceeds limit",
	CodeDailyLimitReached: "Daily volume limit reached",

	// Cache errors
	CodeCacheMiss:    "Cache miss",
	CodeCacheExpired: "Cache entry expired",

	// Circuit breaker errors
	CodeCircuitOpen:     "Circuit breaker is open",
	CodeCircuitHalfOpen: "Circuit breaker is half-open",
}
