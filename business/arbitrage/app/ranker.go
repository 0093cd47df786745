package app

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fd1az/flashloan-scanner/business/arbitrage/domain"
	"github.com/fd1az/flashloan-scanner/internal/logger"
)

// Scoring constants. The score favors high-percentage, high-dollar
// opportunities, penalizes ones where gas eats most of the edge and gives a
// small boost to pairs that keep showing up.
var (
	netUSDWeight    = decimal.RequireFromString("0.1")
	gasSharePenalty = decimal.RequireFromString("1.0")
	hotPairBonus    = decimal.RequireFromString("0.5")
	gasShareLimit   = decimal.RequireFromString("0.5")
)

// hotPairHits is how often a pair must fire before it earns the bonus.
const hotPairHits = 5

// seenLimit bounds the dedup map; old entries are pruned past it.
const seenLimit = 1000

// RankerConfig holds filtering boundaries.
type RankerConfig struct {
	// MinTradeUSD and MaxTradeUSD bound the trade value band.
	MinTradeUSD decimal.Decimal
	MaxTradeUSD decimal.Decimal

	// PairCooldown suppresses repeats of the same opportunity key.
	PairCooldown time.Duration
}

// Ranker filters detected opportunities down to executable ones and orders
// them best-first.
type Ranker struct {
	config RankerConfig
	logger logger.LoggerInterface

	mu       sync.Mutex
	lastSeen map[string]time.Time
	pairHits map[string]int
}

// NewRanker creates a Ranker.
func NewRanker(config RankerConfig, log logger.LoggerInterface) *Ranker {
	return &Ranker{
		config:   config,
		logger:   log,
		lastSeen: make(map[string]time.Time),
		pairHits: make(map[string]int),
	}
}

// Select filters and ranks opportunities. Unprofitable ones, trades outside
// the value band and repeats inside the cooldown window are dropped; the
// survivors come back ordered by descending score.
func (r *Ranker) Select(ctx context.Context, opps []*domain.Opportunity) []*domain.Opportunity {
	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	var kept []*domain.Opportunity
	for _, opp := range opps {
		if !opp.IsProfitable() {
			continue
		}

		if opp.TradeValueUSD.LessThan(r.config.MinTradeUSD) ||
			opp.TradeValueUSD.GreaterThan(r.config.MaxTradeUSD) {
			r.logger.Debug(ctx, "opportunity outside trade band",
				"pair", opp.Pair.String(),
				"value_usd", opp.TradeValueUSD.StringFixed(2))
			continue
		}

		key := opp.Key()
		if seen, ok := r.lastSeen[key]; ok && now.Sub(seen) < r.config.PairCooldown {
			continue
		}
		r.lastSeen[key] = now
		r.pairHits[opp.Pair.String()]++

		kept = append(kept, opp)
	}

	r.pruneLocked(now)

	sort.SliceStable(kept, func(i, j int) bool {
		return r.scoreLocked(kept[i]).GreaterThan(r.scoreLocked(kept[j]))
	})

	return kept
}

// Score returns the ranking score of an opportunity.
func (r *Ranker) Score(opp *domain.Opportunity) decimal.Decimal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scoreLocked(opp)
}

func (r *Ranker) scoreLocked(opp *domain.Opportunity) decimal.Decimal {
	score := opp.Profit.NetProfitPct.Add(opp.Profit.NetProfit.Mul(netUSDWeight))

	if opp.GasShare().GreaterThan(gasShareLimit) {
		score = score.Sub(gasSharePenalty)
	}

	if r.pairHits[opp.Pair.String()] >= hotPairHits {
		score = score.Add(hotPairBonus)
	}

	return score
}

func (r *Ranker) pruneLocked(now time.Time) {
	if len(r.lastSeen) <= seenLimit {
		return
	}
	for key, seen := range r.lastSeen {
		if now.Sub(seen) >= r.config.PairCooldown {
			delete(r.lastSeen, key)
		}
	}
}
