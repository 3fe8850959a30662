// Package scoring ranks items with a weighted multi-factor model and a
// strategy-specific multiplier.
package scoring

import (
	"sort"

	"github.com/rs/zerolog/log"

	"TradeScout/internal/model"
)

// demandFactor maps demand tiers to factor values.
var demandFactor = [...]float64{
	model.DemandNone:     0.0,
	model.DemandLow:      0.2,
	model.DemandMedium:   0.5,
	model.DemandHigh:     0.8,
	model.DemandVeryHigh: 1.0,
}

// Factors is the per-item factor breakdown behind a composite score.
type Factors struct {
	ROI        float64 `json:"roi"`
	Demand     float64 `json:"demand"`
	Volume     float64 `json:"volume"`
	Volatility float64 `json:"volatility"`
	Engagement float64 `json:"engagement"`
	Trait      float64 `json:"trait"`
	Composite  float64 `json:"composite"`
	Multiplier float64 `json:"multiplier"`
}

// Engine scores and ranks items under a fixed weight set and strategy mode.
type Engine struct {
	weights model.ScoringWeights
	mode    model.StrategyMode
}

// NewEngine builds an engine. Invalid weights should be rejected at config
// load time; the engine takes them as given.
func NewEngine(weights model.ScoringWeights, mode model.StrategyMode) *Engine {
	return &Engine{weights: weights, mode: mode}
}

// Mode reports the engine's strategy mode.
func (e *Engine) Mode() model.StrategyMode { return e.mode }

// Score computes the composite score for one item and writes the derived
// ROI, volatility, engagement and trait fields back onto it.
func (e *Engine) Score(item *model.Item) Factors {
	f := Factors{
		ROI:        roiFactor(item),
		Demand:     demandFactor[item.Demand],
		Volume:     volumeFactor(item),
		Volatility: volatilityFactor(item),
		Engagement: engagementFactor(item),
		Trait:      traitFactor(item),
	}

	item.ROI = f.ROI
	item.Volatility = f.Volatility
	if item.EngagementScore == 0 {
		item.EngagementScore = f.Engagement
	}
	if item.TraitScore == 0 {
		item.TraitScore = f.Trait
	}

	base := f.ROI*e.weights.ROI +
		f.Demand*e.weights.Demand +
		f.Volume*e.weights.Volume +
		f.Volatility*e.weights.Volatility +
		f.Engagement*e.weights.Engagement +
		f.Trait*e.weights.Trait

	f.Multiplier = e.strategyMultiplier(item)
	f.Composite = clamp01(base * f.Multiplier)
	item.MomentumScore = f.Composite
	return f
}

// Rank scores every item and returns a new slice sorted by composite score
// descending. Ties keep input order.
func (e *Engine) Rank(items []*model.Item) []*model.Item {
	ranked := make([]*model.Item, len(items))
	copy(ranked, items)
	for _, item := range ranked {
		e.Score(item)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MomentumScore > ranked[j].MomentumScore
	})
	log.Debug().Int("items", len(ranked)).Str("mode", string(e.mode)).Msg("ranking done")
	return ranked
}

// TopPicks returns the n best-scoring items.
func (e *Engine) TopPicks(items []*model.Item, n int) []*model.Item {
	ranked := e.Rank(items)
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// roiFactor normalizes projected upside: 50% upside saturates the factor.
func roiFactor(item *model.Item) float64 {
	if item.Value <= 0 || item.Projected <= item.Value {
		return 0
	}
	upsidePct := float64(item.Projected-item.Value) / float64(item.Value) * 100
	return clamp01(upsidePct / 50.0)
}

func volumeFactor(item *model.Item) float64 {
	return clamp01(float64(item.Volume) / 1000.0)
}

// volatilityFactor measures the value/RAP gap. Without a RAP reading the
// item is treated as moderately volatile.
func volatilityFactor(item *model.Item) float64 {
	if item.RAP <= 0 {
		return 0.5
	}
	diff := item.Value - item.RAP
	if diff < 0 {
		diff = -diff
	}
	return clamp01(float64(diff) / float64(item.RAP))
}

// engagementFactor prefers a score set by the engagement analyzer and falls
// back to a flag-based estimate.
func engagementFactor(item *model.Item) float64 {
	if item.EngagementScore > 0 {
		return item.EngagementScore
	}
	score := 0.0
	if item.Premium {
		score += 0.3
	}
	if item.Hyped {
		score += 0.4
	}
	if item.Rare {
		score += 0.3
	}
	return clamp01(score)
}

// traitFactor prefers a score set by the trait analyzer and falls back to a
// category estimate.
func traitFactor(item *model.Item) float64 {
	if item.TraitScore > 0 {
		return item.TraitScore
	}
	score := 0.0
	switch item.Category {
	case "hats", "faces", "accessories", "limiteds":
		score += 0.4
	}
	if item.Rare {
		score += 0.3
	}
	if item.Premium {
		score += 0.3
	}
	return clamp01(score)
}

func (e *Engine) strategyMultiplier(item *model.Item) float64 {
	switch e.mode {
	case model.StrategySniper:
		if item.Value < item.RAP {
			return 1.2
		}
		return 0.8
	case model.StrategyAggressive:
		if item.Hyped && item.Volume > 100 {
			return 1.3
		}
		return 0.9
	case model.StrategyConservative:
		if item.Demand >= model.DemandHigh && !item.Hyped {
			return 1.1
		}
		return 0.9
	case model.StrategyMomentum:
		if item.Projected > item.Value {
			return 1.2
		}
		return 0.8
	}
	return 1.0
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
