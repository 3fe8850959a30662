package signal

import (
	"sort"

	"github.com/rs/zerolog/log"

	"TradeScout/internal/model"
)

const (
	momentumThreshold = 0.6
	trendingThreshold = 0.7
	reversalThreshold = 0.6
	momentumLookback  = 7 // history points considered for the momentum term
)

// MomentumScore computes an item's momentum score in [0,1] from projected
// upside, volume, demand, hype and an optional historical term.
func MomentumScore(item *model.Item, history []model.HistoryPoint) float64 {
	score := 0.0

	// Price momentum: projected vs current.
	if item.Value > 0 && item.Projected > item.Value {
		priceMomentum := float64(item.Projected-item.Value) / float64(item.Value)
		score += clamp(priceMomentum*2, 0, 0.4)
	}

	// Volume momentum.
	if item.Volume > 200 {
		score += clamp01(float64(item.Volume)/1000.0) * 0.2
	}

	// Demand momentum.
	score += tierWeight(demandWeight, item.Demand) * 0.2

	// Hype momentum.
	if item.Hyped {
		score += 0.2
	}

	if len(history) > 0 {
		score += historicalMomentum(history) * 0.2
	}

	return clamp01(score)
}

// historicalMomentum averages the positive day-over-day fractional price
// changes across the most recent points.
func historicalMomentum(history []model.HistoryPoint) float64 {
	if len(history) < 2 {
		return 0
	}
	recent := history
	if len(recent) > momentumLookback {
		recent = recent[len(recent)-momentumLookback:]
	}

	var sum float64
	var positive int
	for i := 1; i < len(recent); i++ {
		prev := recent[i-1].Value
		if prev <= 0 {
			continue
		}
		change := float64(recent[i].Value-prev) / float64(prev)
		if change > 0 {
			sum += change
			positive++
		}
	}
	if positive == 0 {
		return 0
	}
	return clamp01(sum / float64(positive))
}

// TrendingScore rates how actively an item is trading right now.
func TrendingScore(item *model.Item) float64 {
	score := 0.0
	switch {
	case item.Volume > 500:
		score += 0.3
	case item.Volume > 200:
		score += 0.2
	}
	if highDemand(item.Demand) {
		score += 0.3
	}
	if item.Hyped {
		score += 0.4
	}
	if item.Premium {
		score += 0.1
	}
	if item.Rare {
		score += 0.1
	}
	return clamp01(score)
}

// ReversalScore rates the odds of a bounce-back for items trading below
// their recent average price.
func ReversalScore(item *model.Item, history []model.HistoryPoint) float64 {
	score := 0.0

	if item.RAP > 0 && item.Value < item.RAP {
		undervaluation := float64(item.RAP-item.Value) / float64(item.RAP)
		score += clamp(undervaluation, 0, 0.3)
		if highDemand(item.Demand) {
			score += 0.3
		}
	}
	if item.Volume > 300 {
		score += 0.2
	}
	if len(history) > 0 {
		score += historicalRecovery(history) * 0.2
	}
	return clamp01(score)
}

// historicalRecovery looks for a V-shaped pattern: how far the latest price
// has recovered from the recent low.
func historicalRecovery(history []model.HistoryPoint) float64 {
	if len(history) < 5 {
		return 0
	}
	recent := history[len(history)-5:]
	low := recent[0].Value
	for _, p := range recent {
		if p.Value < low {
			low = p.Value
		}
	}
	current := recent[len(recent)-1].Value
	if low <= 0 || current <= low {
		return 0
	}
	return clamp01(float64(current-low) / float64(low))
}

// DetectMomentum returns the items whose momentum score clears the
// threshold, highest first, with the score written back onto each item.
func DetectMomentum(items []*model.Item, history map[int64][]model.HistoryPoint) []*model.Item {
	var out []*model.Item
	for _, item := range items {
		score := MomentumScore(item, history[item.ID])
		if score > momentumThreshold {
			item.MomentumScore = score
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].MomentumScore > out[j].MomentumScore })
	log.Debug().Int("items", len(items)).Int("momentum", len(out)).Msg("momentum detection done")
	return out
}

// DetectTrending returns items clearing the trending threshold, highest first.
func DetectTrending(items []*model.Item) []*model.Item {
	var out []*model.Item
	scores := make(map[int64]float64, len(items))
	for _, item := range items {
		score := TrendingScore(item)
		if score > trendingThreshold {
			scores[item.ID] = score
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return scores[out[i].ID] > scores[out[j].ID] })
	return out
}

// DetectReversals returns items showing reversal signals, highest first.
func DetectReversals(items []*model.Item, history map[int64][]model.HistoryPoint) []*model.Item {
	var out []*model.Item
	scores := make(map[int64]float64, len(items))
	for _, item := range items {
		score := ReversalScore(item, history[item.ID])
		if score > reversalThreshold {
			scores[item.ID] = score
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return scores[out[i].ID] > scores[out[j].ID] })
	return out
}
