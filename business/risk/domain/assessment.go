// Package domain contains the core domain types for the risk context.
package domain

import (
	"time"
)

// Score weights for individual checks. Blockers push the score past the
// unsafe threshold on their own; warnings only add up.
const (
	ScorePaused          = 100.0
	ScoreCircuitOpen     = 100.0
	ScoreTradeInterval   = 20.0
	ScorePositionBlock   = 50.0
	ScorePositionWarn    = 15.0
	ScoreVolumeBlock     = 50.0
	ScoreVolumeWarn      = 10.0
	ScoreProfitBlock     = 30.0
	ScoreProfitWarn      = 10.0
	ScoreSlippageBlock   = 40.0
	ScoreSlippageWarn    = 15.0
	ScoreGasRatioBlock   = 35.0
	ScoreGasRatioWarn    = 12.0
	ScoreNetworkWarn     = 10.0
	ScoreWhitelistBlock  = 50.0
	ScoreLiquidityBlock  = 30.0
	ScoreLiquidityWarn   = 10.0

	// UnsafeScore is the threshold above which an opportunity is rejected
	// even without a hard blocker.
	UnsafeScore = 50.0

	// MaxScore caps the accumulated risk score.
	MaxScore = 100.0
)

// Assessment is the verdict on a single opportunity. An opportunity is safe
// only when no check raised a blocker and the accumulated score stays below
// UnsafeScore.
type Assessment struct {
	Safe       bool
	Score      float64
	Confidence float64 // 1 - Score/100
	Blockers   []string
	Warnings   []string
	AssessedAt time.Time
}

// NewAssessment finalizes an assessment from accumulated findings.
func NewAssessment(score float64, blockers, warnings []string) *Assessment {
	if score > MaxScore {
		score = MaxScore
	}
	return &Assessment{
		Safe:       len(blockers) == 0 && score < UnsafeScore,
		Score:      score,
		Confidence: 1 - score/MaxScore,
		Blockers:   blockers,
		Warnings:   warnings,
		AssessedAt: time.Now(),
	}
}

// FailClosed is the assessment returned when the engine itself fails. A
// broken risk engine must never approve a trade.
func FailClosed(reason string) *Assessment {
	return &Assessment{
		Safe:       false,
		Score:      MaxScore,
		Confidence: 0,
		Blockers:   []string{reason},
		AssessedAt: time.Now(),
	}
}
