package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TradeScout/internal/model"
)

func sampleItem() *model.Item {
	return &model.Item{
		ID:        1,
		Name:      "Classic Fedora",
		Category:  "hats",
		RAP:       1200,
		Value:     1000,
		Demand:    model.DemandHigh,
		Volume:    600,
		Projected: 1300,
		Hyped:     true,
	}
}

func TestScore_FactorBreakdown(t *testing.T) {
	e := NewEngine(model.DefaultWeights(), model.StrategySniper)
	item := sampleItem()

	f := e.Score(item)

	// 30% upside over a 50% saturation point.
	assert.InDelta(t, 0.6, f.ROI, 1e-9)
	assert.InDelta(t, 0.8, f.Demand, 1e-9)
	assert.InDelta(t, 0.6, f.Volume, 1e-9)
	assert.InDelta(t, 200.0/1200.0, f.Volatility, 1e-9)

	// No analyzer scores attached: hyped-only fallback.
	assert.InDelta(t, 0.4, f.Engagement, 1e-9)
	// Category fallback: hats.
	assert.InDelta(t, 0.4, f.Trait, 1e-9)

	// Value below RAP triggers the sniper bonus.
	assert.InDelta(t, 1.2, f.Multiplier, 1e-9)
	// 0.6*0.30 + 0.8*0.20 + 0.6*0.15 + (200/1200)*0.10 + 0.4*0.15 + 0.4*0.10, times 1.2.
	assert.InDelta(t, 0.656, f.Composite, 1e-6)
}

func TestScore_WritesBackDerivedFields(t *testing.T) {
	e := NewEngine(model.DefaultWeights(), model.StrategySniper)
	item := sampleItem()

	f := e.Score(item)

	assert.Equal(t, f.ROI, item.ROI)
	assert.Equal(t, f.Volatility, item.Volatility)
	assert.Equal(t, f.Engagement, item.EngagementScore)
	assert.Equal(t, f.Trait, item.TraitScore)
	assert.Equal(t, f.Composite, item.MomentumScore)
}

func TestScore_PrefersAnalyzerScores(t *testing.T) {
	e := NewEngine(model.DefaultWeights(), model.StrategySniper)
	item := sampleItem()
	item.EngagementScore = 0.9
	item.TraitScore = 0.75

	f := e.Score(item)

	assert.InDelta(t, 0.9, f.Engagement, 1e-9)
	assert.InDelta(t, 0.75, f.Trait, 1e-9)
	// Attached scores survive.
	assert.InDelta(t, 0.9, item.EngagementScore, 1e-9)
	assert.InDelta(t, 0.75, item.TraitScore, 1e-9)
}

func TestScore_NoRAPDefaultsVolatility(t *testing.T) {
	e := NewEngine(model.DefaultWeights(), model.StrategyMomentum)
	item := &model.Item{Value: 500, Projected: 500}

	f := e.Score(item)
	assert.InDelta(t, 0.5, f.Volatility, 1e-9)
	assert.Zero(t, f.ROI)
}

func TestStrategyMultipliers(t *testing.T) {
	tests := []struct {
		name string
		mode model.StrategyMode
		item *model.Item
		want float64
	}{
		{"sniper below rap", model.StrategySniper, &model.Item{Value: 900, RAP: 1000}, 1.2},
		{"sniper above rap", model.StrategySniper, &model.Item{Value: 1100, RAP: 1000}, 0.8},
		{"aggressive hyped liquid", model.StrategyAggressive, &model.Item{Hyped: true, Volume: 200}, 1.3},
		{"aggressive quiet", model.StrategyAggressive, &model.Item{Volume: 200}, 0.9},
		{"conservative steady demand", model.StrategyConservative, &model.Item{Demand: model.DemandHigh}, 1.1},
		{"conservative hyped excluded", model.StrategyConservative, &model.Item{Demand: model.DemandHigh, Hyped: true}, 0.9},
		{"momentum rising", model.StrategyMomentum, &model.Item{Value: 1000, Projected: 1100}, 1.2},
		{"momentum flat", model.StrategyMomentum, &model.Item{Value: 1000, Projected: 1000}, 0.8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(model.DefaultWeights(), tt.mode)
			assert.InDelta(t, tt.want, e.strategyMultiplier(tt.item), 1e-9)
		})
	}
}

func TestRank_OrdersByCompositeDescending(t *testing.T) {
	e := NewEngine(model.DefaultWeights(), model.StrategySniper)
	strong := sampleItem()
	weak := &model.Item{ID: 2, Name: "Dusty Gear", Category: "gear", Value: 300, RAP: 250, Demand: model.DemandNone, Volume: 5, Projected: 280}

	ranked := e.Rank([]*model.Item{weak, strong})
	require.Len(t, ranked, 2)
	assert.Equal(t, int64(1), ranked[0].ID)
	assert.GreaterOrEqual(t, ranked[0].MomentumScore, ranked[1].MomentumScore)
}

func TestRank_StableAndIdempotent(t *testing.T) {
	e := NewEngine(model.DefaultWeights(), model.StrategySniper)

	// Two identical items tie on every factor; a third scores lower.
	twinA := sampleItem()
	twinB := sampleItem()
	twinB.ID = 2
	weak := &model.Item{ID: 3, Name: "Dusty Gear", Category: "gear", Value: 300, RAP: 250, Demand: model.DemandNone, Volume: 5, Projected: 280}
	items := []*model.Item{twinA, weak, twinB}

	first := e.Rank(items)
	require.Len(t, first, 3)
	firstIDs := make([]int64, len(first))
	firstScores := make([]float64, len(first))
	for i, item := range first {
		firstIDs[i] = item.ID
		firstScores[i] = item.MomentumScore
	}

	// Tied twins keep their input order.
	assert.Equal(t, []int64{1, 2, 3}, firstIDs)

	second := e.Rank(first)
	for i, item := range second {
		assert.Equal(t, firstIDs[i], item.ID)
		assert.Equal(t, firstScores[i], item.MomentumScore)
	}
}

func TestTopPicks_Truncates(t *testing.T) {
	e := NewEngine(model.DefaultWeights(), model.StrategySniper)
	items := []*model.Item{sampleItem(), sampleItem(), sampleItem()}
	picks := e.TopPicks(items, 2)
	assert.Len(t, picks, 2)
}
