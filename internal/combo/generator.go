// Package combo assembles randomized trade combinations and grades them for
// gain, confidence and risk.
package combo

import (
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"TradeScout/internal/model"
)

const (
	minItemValue        = 100  // items below this never enter a combo
	minComboValue       = 1000 // minimum total offered value
	confidenceThreshold = 0.7
	maxComboItems       = 4
	attemptsPerCombo    = 10 // attempt budget multiplier, caps the search
)

// demandScores mirrors the demand tier factor table used by scoring.
var demandScores = [...]float64{
	model.DemandNone:     0.0,
	model.DemandLow:      0.2,
	model.DemandMedium:   0.5,
	model.DemandHigh:     0.8,
	model.DemandVeryHigh: 1.0,
}

// Generator builds trade combos from a scanned item set. The random source
// is owned by the generator so runs are reproducible under a fixed seed.
// A Generator is not safe for concurrent use.
type Generator struct {
	rng      *rand.Rand
	strategy model.StrategyMode
}

// NewGenerator seeds a generator. Use a fixed seed for reproducible output.
func NewGenerator(seed int64, strategy model.StrategyMode) *Generator {
	return &Generator{
		rng:      rand.New(rand.NewSource(seed)),
		strategy: strategy,
	}
}

// Generate produces up to limit validated combos, best projected gain first.
// The search stops after limit*attemptsPerCombo tries, so sparse item sets
// terminate instead of spinning.
func (g *Generator) Generate(items []*model.Item, limit int) []model.TradeCombo {
	if limit <= 0 {
		return nil
	}

	eligible := make([]*model.Item, 0, len(items))
	for _, item := range items {
		if item.Value >= minItemValue {
			eligible = append(eligible, item)
		}
	}
	if len(eligible) < 2 {
		log.Debug().Int("eligible", len(eligible)).Msg("too few items for combos")
		return nil
	}

	var combos []model.TradeCombo
	maxAttempts := limit * attemptsPerCombo
	for attempts := 0; len(combos) < limit && attempts < maxAttempts; attempts++ {
		c, ok := g.single(eligible)
		if !ok || !validate(c) {
			continue
		}
		combos = append(combos, c)
	}

	sort.SliceStable(combos, func(i, j int) bool {
		return combos[i].ProjectedGain > combos[j].ProjectedGain
	})
	log.Debug().Int("combos", len(combos)).Int("eligible", len(eligible)).Msg("combo generation done")
	return combos
}

// Best generates twice the requested count, filters by gain and confidence
// floors, and returns the top limit.
func (g *Generator) Best(items []*model.Item, limit, minGain int, minConfidence float64) []model.TradeCombo {
	combos := g.Generate(items, limit*2)
	filtered := combos[:0:0]
	for _, c := range combos {
		if c.ProjectedGain >= minGain && c.Confidence >= minConfidence {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered
}

func (g *Generator) single(eligible []*model.Item) (model.TradeCombo, bool) {
	maxSide := min(maxComboItems, len(eligible)/2)
	if maxSide < 1 {
		return model.TradeCombo{}, false
	}
	offeredCount := 1 + g.rng.Intn(maxSide)
	requestedCount := 1 + g.rng.Intn(maxSide)

	offered := g.sample(eligible, offeredCount)
	remaining := exclude(eligible, offered)
	if len(remaining) < requestedCount {
		return model.TradeCombo{}, false
	}
	requested := g.sample(remaining, requestedCount)

	totalOffered := totalValue(offered)
	totalRequested := totalValue(requested)
	gain := totalRequested - totalOffered

	all := append(append([]*model.Item{}, offered...), requested...)
	c := model.TradeCombo{
		ID:                  uuid.NewString(),
		ItemsOffered:        offered,
		ItemsRequested:      requested,
		ProjectedGain:       gain,
		Confidence:          confidence(offered, requested),
		RiskLevel:           riskLevel(all, totalOffered, gain),
		StrategyUsed:        g.strategy,
		Created:             time.Now(),
		TotalValueOffered:   totalOffered,
		TotalValueRequested: totalRequested,
		VolumeScore:         volumeScore(all),
		DemandScore:         demandScore(all),
	}
	if totalOffered > 0 {
		c.ROIPercentage = float64(gain) / float64(totalOffered) * 100
	}
	return c, true
}

// sample returns n distinct items via a partial Fisher-Yates shuffle.
func (g *Generator) sample(items []*model.Item, n int) []*model.Item {
	pool := make([]*model.Item, len(items))
	copy(pool, items)
	for i := 0; i < n; i++ {
		j := i + g.rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}

func exclude(items, picked []*model.Item) []*model.Item {
	taken := make(map[int64]bool, len(picked))
	for _, item := range picked {
		taken[item.ID] = true
	}
	out := make([]*model.Item, 0, len(items)-len(picked))
	for _, item := range items {
		if !taken[item.ID] {
			out = append(out, item)
		}
	}
	return out
}

func validate(c model.TradeCombo) bool {
	if c.TotalValueOffered < minComboValue {
		return false
	}
	if c.ProjectedGain <= 0 {
		return false
	}
	if c.Confidence < confidenceThreshold {
		return false
	}
	return len(c.ItemsOffered) > 0 && len(c.ItemsRequested) > 0
}

func confidence(offered, requested []*model.Item) float64 {
	conf := 0.5

	all := append(append([]*model.Item{}, offered...), requested...)
	var volumeSum int
	for _, item := range all {
		volumeSum += item.Volume
	}
	avgVolume := float64(volumeSum) / float64(len(all))
	switch {
	case avgVolume > 500:
		conf += 0.2
	case avgVolume > 100:
		conf += 0.1
	}

	// Demand on the requested side drives whether the trade will close.
	highDemand := 0
	for _, item := range requested {
		if item.Demand >= model.DemandHigh {
			highDemand++
		}
	}
	if len(requested) > 0 {
		conf += float64(highDemand) / float64(len(requested)) * 0.2
	}

	totalOffered := totalValue(offered)
	if totalOffered > 0 {
		// 1.1-1.5x is the sweet spot: worth doing, still plausible.
		ratio := float64(totalValue(requested)) / float64(totalOffered)
		if ratio >= 1.1 && ratio <= 1.5 {
			conf += 0.1
		}
	}

	for _, item := range requested {
		if item.Rare {
			conf += 0.1
			break
		}
	}

	if conf > 1 {
		conf = 1
	}
	return conf
}

func riskLevel(all []*model.Item, totalOffered, gain int) model.RiskLevel {
	if totalOffered == 0 {
		return model.RiskMedium
	}
	gainPct := float64(gain) / float64(totalOffered) * 100

	score := 0.5
	switch {
	case gainPct > 30:
		score += 0.3
	case gainPct > 20:
		score += 0.2
	case gainPct > 10:
		score += 0.1
	}
	for _, item := range all {
		if item.Volatility > 0.7 {
			score += 0.1
		}
		if item.Volume < 50 {
			score += 0.05
		}
	}

	switch {
	case score < 0.3:
		return model.RiskLow
	case score < 0.6:
		return model.RiskMedium
	case score < 0.8:
		return model.RiskHigh
	}
	return model.RiskVeryHigh
}

func volumeScore(items []*model.Item) float64 {
	if len(items) == 0 {
		return 0
	}
	var sum int
	for _, item := range items {
		sum += item.Volume
	}
	avg := float64(sum) / float64(len(items)) / 1000.0
	if avg > 1 {
		avg = 1
	}
	return avg
}

func demandScore(items []*model.Item) float64 {
	if len(items) == 0 {
		return 0
	}
	var sum float64
	for _, item := range items {
		sum += demandScores[item.Demand]
	}
	return sum / float64(len(items))
}

func totalValue(items []*model.Item) int {
	var sum int
	for _, item := range items {
		sum += item.Value
	}
	return sum
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
