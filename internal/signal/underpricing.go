package signal

import (
	"sort"

	"github.com/rs/zerolog/log"

	"TradeScout/internal/model"
)

const (
	undervaluedThreshold   = 0.6
	arbitrageThreshold     = 0.7
	maxArbitragePairs      = 20
	valueTrapThreshold     = 0.7
	sleepingGiantThreshold = 0.6
)

// UndervaluationScore rates how far an item trades below its fair value,
// weighted by upside, demand and liquidity. Result in [0,1].
func UndervaluationScore(item *model.Item) float64 {
	score := 0.0

	if item.RAP > 0 && item.Value > 0 {
		ratio := float64(item.Value) / float64(item.RAP)
		if ratio < 0.9 {
			undervaluation := (0.9 - ratio) / 0.9
			score += clamp(undervaluation*2, 0, 0.4)
		}
		if ratio < 0.8 {
			score += 0.2
		}
	}

	// Projected upside.
	if item.Value > 0 && item.Projected > item.Value {
		projectionRatio := float64(item.Projected) / float64(item.Value)
		if projectionRatio > 1.1 {
			score += clamp((projectionRatio-1.0)*2, 0, 0.3)
		}
	}

	score += tierWeight(demandWeight, item.Demand) * 0.2

	// Liquidity floor.
	if item.Volume > 50 {
		score += clamp01(float64(item.Volume)/500.0) * 0.1
	}

	return clamp01(score)
}

// ArbitragePair is an unordered item pair with arbitrage potential.
type ArbitragePair struct {
	A, B  *model.Item
	Score float64
}

// arbitrageScore rates the spread potential between two similarly valued
// items with diverging demand or volume.
func arbitrageScore(a, b *model.Item) float64 {
	score := 0.0

	if a.Value > 0 && b.Value > 0 {
		valueRatio := float64(a.Value) / float64(b.Value)
		if valueRatio >= 0.8 && valueRatio <= 1.2 {
			score += 0.3
			demandDiff := int(a.Demand) - int(b.Demand)
			if demandDiff < 0 {
				demandDiff = -demandDiff
			}
			if demandDiff >= 2 {
				score += 0.3
			}
			volumeDiff := a.Volume - b.Volume
			if volumeDiff < 0 {
				volumeDiff = -volumeDiff
			}
			if volumeDiff > 200 {
				score += 0.2
			}
		}
	}

	if a.RAP > 0 && b.RAP > 0 {
		rapRatio := float64(a.RAP) / float64(b.RAP)
		if rapRatio >= 0.7 && rapRatio <= 1.3 {
			score += 0.2
		}
	}

	return clamp01(score)
}

// FindUndervalued returns items clearing the undervaluation threshold,
// highest first, with the score written back onto each item.
func FindUndervalued(items []*model.Item) []*model.Item {
	var out []*model.Item
	for _, item := range items {
		score := UndervaluationScore(item)
		if score > undervaluedThreshold {
			item.MomentumScore = score
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].MomentumScore > out[j].MomentumScore })
	log.Debug().Int("items", len(items)).Int("undervalued", len(out)).Msg("undervaluation scan done")
	return out
}

// FindArbitragePairs scans all unordered pairs and returns those scoring
// above the arbitrage threshold, capped to the top 20 by score.
func FindArbitragePairs(items []*model.Item) []ArbitragePair {
	var pairs []ArbitragePair

	sorted := make([]*model.Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Value < sorted[j].Value })

	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[i].ID == sorted[j].ID {
				continue
			}
			score := arbitrageScore(sorted[i], sorted[j])
			if score > arbitrageThreshold {
				pairs = append(pairs, ArbitragePair{A: sorted[i], B: sorted[j], Score: score})
			}
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Score > pairs[j].Score })
	if len(pairs) > maxArbitragePairs {
		pairs = pairs[:maxArbitragePairs]
	}
	return pairs
}

// ValueTrapScore rates the odds that an apparently cheap item stays cheap:
// weak demand, no liquidity, falling projection and no catalyst.
func ValueTrapScore(item *model.Item) float64 {
	score := 0.0
	if item.Demand <= model.DemandLow && item.Value < item.RAP {
		score += 0.4
	}
	if item.Volume < 20 {
		score += 0.3
	}
	if item.Projected < item.Value {
		score += 0.3
	}
	if !item.Hyped && !item.Rare {
		score += 0.2
	}
	return clamp01(score)
}

// SleepingGiantScore rates overlooked items with unusual upside: strong
// demand on thin volume, rarity, big projections, no hype yet.
func SleepingGiantScore(item *model.Item) float64 {
	score := 0.0
	if highDemand(item.Demand) && item.Volume < 100 {
		score += 0.4
	}
	if (item.Rare || item.Premium) && item.Volume < 200 {
		score += 0.3
	}
	if float64(item.Projected) > float64(item.Value)*1.2 {
		score += 0.3
	}
	if !item.Hyped {
		score += 0.2
	}
	if float64(item.Value) < float64(item.RAP)*0.95 {
		score += 0.2
	}
	return clamp01(score)
}

// FindValueTraps returns probable value traps, worst first.
func FindValueTraps(items []*model.Item) []*model.Item {
	return filterByScore(items, ValueTrapScore, valueTrapThreshold)
}

// FindSleepingGiants returns overlooked high-potential items, best first.
func FindSleepingGiants(items []*model.Item) []*model.Item {
	return filterByScore(items, SleepingGiantScore, sleepingGiantThreshold)
}

func filterByScore(items []*model.Item, score func(*model.Item) float64, threshold float64) []*model.Item {
	var out []*model.Item
	scores := make(map[int64]float64, len(items))
	for _, item := range items {
		s := score(item)
		if s > threshold {
			scores[item.ID] = s
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return scores[out[i].ID] > scores[out[j].ID] })
	return out
}
