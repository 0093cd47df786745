package domain

import "time"

// Health score penalties. Scores start at 1.0 and degrade as the chain view
// goes stale or gas turns expensive.
const (
	staleBlockAge    = 15 * time.Second
	veryStaleAge     = 30 * time.Second
	elevatedGasGwei  = 50.0
	congestedGasGwei = 100.0
)

// NetworkHealth is a point-in-time view of chain conditions.
type NetworkHealth struct {
	Score     float64 // 0.0 (unusable) to 1.0 (healthy)
	BlockAge  time.Duration
	GasGwei   float64
	LastBlock uint64
	SampledAt time.Time
}

// Healthy reports whether conditions are good enough to trade on.
func (h NetworkHealth) Healthy() bool {
	return h.Score >= 0.5
}

// ScoreNetworkHealth computes a health score from block staleness and the
// current gas price.
func ScoreNetworkHealth(blockAge time.Duration, gasGwei float64) float64 {
	score := 1.0

	switch {
	case blockAge > veryStaleAge:
		score -= 0.3
	case blockAge > staleBlockAge:
		score -= 0.1
	}

	switch {
	case gasGwei > congestedGasGwei:
		score -= 0.3
	case gasGwei > elevatedGasGwei:
		score -= 0.15
	}

	if score < 0 {
		score = 0
	}
	return score
}
