package signal

import (
	"testing"

	"TradeScout/internal/model"
)

func TestUndervaluationScore_MildDiscount(t *testing.T) {
	item := &model.Item{Value: 800, RAP: 1000, Projected: 800, Demand: model.DemandMedium}
	// discount (0.9-0.8)/0.9*2 + demand 0.3*0.2
	almostEqual(t, (0.9-0.8)/0.9*2+0.06, UndervaluationScore(item))
}

func TestUndervaluationScore_DeepDiscountSaturates(t *testing.T) {
	item := &model.Item{Value: 600, RAP: 1000, Projected: 900, Demand: model.DemandVeryHigh, Volume: 500}
	almostEqual(t, 1.0, UndervaluationScore(item))
}

func TestFindUndervalued_WritesScoreAndSorts(t *testing.T) {
	deep := &model.Item{ID: 1, Value: 600, RAP: 1000, Projected: 900, Demand: model.DemandVeryHigh, Volume: 500}
	fair := &model.Item{ID: 2, Value: 1000, RAP: 1000, Projected: 1000}

	out := FindUndervalued([]*model.Item{fair, deep})
	if len(out) != 1 {
		t.Fatalf("expected 1 undervalued item, got %d", len(out))
	}
	if out[0].ID != 1 || out[0].MomentumScore == 0 {
		t.Fatalf("expected item 1 with score written back, got %d (%.2f)", out[0].ID, out[0].MomentumScore)
	}
}

func TestArbitrageScore_SimilarValueDivergingDemand(t *testing.T) {
	a := &model.Item{ID: 1, Value: 1000, RAP: 1000, Demand: model.DemandVeryHigh, Volume: 600}
	b := &model.Item{ID: 2, Value: 1100, RAP: 1050, Demand: model.DemandNone, Volume: 100}
	// value band 0.3 + demand gap 0.3 + volume gap 0.2 + rap band 0.2
	almostEqual(t, 1.0, arbitrageScore(a, b))
}

func TestFindArbitragePairs(t *testing.T) {
	a := &model.Item{ID: 1, Value: 1000, RAP: 1000, Demand: model.DemandVeryHigh, Volume: 600}
	b := &model.Item{ID: 2, Value: 1100, RAP: 1050, Demand: model.DemandNone, Volume: 100}
	far := &model.Item{ID: 3, Value: 50000, RAP: 50000, Demand: model.DemandNone, Volume: 100}

	pairs := FindArbitragePairs([]*model.Item{far, a, b})
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
	ids := map[int64]bool{pairs[0].A.ID: true, pairs[0].B.ID: true}
	if !ids[1] || !ids[2] {
		t.Fatalf("expected pair of items 1 and 2, got %d/%d", pairs[0].A.ID, pairs[0].B.ID)
	}
}

func TestValueTrapScore(t *testing.T) {
	trap := &model.Item{Value: 500, RAP: 1000, Projected: 400, Demand: model.DemandLow, Volume: 10}
	if got := ValueTrapScore(trap); got != 1.0 {
		t.Fatalf("expected saturated trap score, got %.2f", got)
	}

	healthy := &model.Item{Value: 1000, RAP: 900, Projected: 1200, Demand: model.DemandHigh, Volume: 400, Hyped: true}
	if got := ValueTrapScore(healthy); got > 0.3 {
		t.Fatalf("healthy item should not look like a trap, got %.2f", got)
	}
}

func TestSleepingGiantScore(t *testing.T) {
	giant := &model.Item{Value: 900, RAP: 1000, Projected: 1200, Demand: model.DemandHigh, Volume: 50, Rare: true}
	if got := SleepingGiantScore(giant); got != 1.0 {
		t.Fatalf("expected saturated giant score, got %.2f", got)
	}
}

func TestFindValueTrapsAndGiants_SortAndFilter(t *testing.T) {
	trap := &model.Item{ID: 1, Value: 500, RAP: 1000, Projected: 400, Demand: model.DemandLow, Volume: 10}
	giant := &model.Item{ID: 2, Value: 900, RAP: 1000, Projected: 1200, Demand: model.DemandHigh, Volume: 50, Rare: true}

	traps := FindValueTraps([]*model.Item{giant, trap})
	if len(traps) != 1 || traps[0].ID != 1 {
		t.Fatalf("expected only the trap, got %v", traps)
	}
	giants := FindSleepingGiants([]*model.Item{trap, giant})
	if len(giants) != 1 || giants[0].ID != 2 {
		t.Fatalf("expected only the giant, got %v", giants)
	}
}
