package signal

import (
	"testing"

	"TradeScout/internal/model"
)

func TestTraitScore_DesirableHat(t *testing.T) {
	item := &model.Item{
		Name:      "Vintage Rare Cap",
		Category:  "hats",
		Value:     12000,
		Demand:    model.DemandHigh,
		Volume:    200,
		Available: 100,
		Rare:      true,
		Premium:   true,
	}
	// category 0.8*0.3 + keywords (0.3+0.4 capped later at 0.8)*0.2
	// + rarity saturated 1.0*0.3 + consistency (0.48+0.2)*0.2
	almostEqual(t, 0.24+0.7*0.2+0.3+0.68*0.2, TraitScore(item))
}

func TestCategoryScore_ExactPartialAndDefault(t *testing.T) {
	almostEqual(t, 0.9, categoryScore(&model.Item{Category: "Limiteds"}))
	almostEqual(t, 0.8*0.8, categoryScore(&model.Item{Category: "summer hats"}))
	almostEqual(t, 0.3, categoryScore(&model.Item{Category: "gear"}))
}

func TestKeywordScore_Capped(t *testing.T) {
	item := &model.Item{Name: "Exclusive Limited Rare Premium Collector"}
	// 0.4+0.3+0.4+0.3+0.3 capped at 0.8
	almostEqual(t, 0.8, keywordScore(item))
}

func TestRarityScore_ScarcityBonus(t *testing.T) {
	scarce := &model.Item{Available: 100, Value: 2000}
	plentiful := &model.Item{Available: 1000, Value: 2000}
	if rarityScore(scarce) <= rarityScore(plentiful) {
		t.Fatal("scarcer item should score higher")
	}
}

func TestSimilarity_NearTwins(t *testing.T) {
	a := &model.Item{ID: 1, Name: "Red Baseball Cap", Category: "hats", Value: 1000, Demand: model.DemandHigh, Rare: true}
	b := &model.Item{ID: 2, Name: "Blue Baseball Cap", Category: "hats", Value: 950, Demand: model.DemandHigh, Rare: true}
	got := Similarity(a, b)
	// category 0.3 + value band 0.2 + demand 0.2 + rare 0.1 + premium 0.1 + names 2/4*0.1
	almostEqual(t, 0.95, got)
}

func TestFindSimilar_ExcludesTargetAndLimits(t *testing.T) {
	target := &model.Item{ID: 1, Name: "Baseball Cap", Category: "hats", Value: 1000, Demand: model.DemandHigh}
	twin := &model.Item{ID: 2, Name: "Baseball Cap", Category: "hats", Value: 1000, Demand: model.DemandHigh}
	other := &model.Item{ID: 3, Name: "Laser Sword", Category: "gear", Value: 50, Demand: model.DemandNone, Rare: true}

	out := FindSimilar(target, []*model.Item{target, twin, other}, 5)
	if len(out) != 1 || out[0].ID != 2 {
		t.Fatalf("expected only the twin, got %v", out)
	}
}

func TestAnalyzeTraits_WritesScores(t *testing.T) {
	items := []*model.Item{
		{Name: "Vintage Hat", Category: "hats", Demand: model.DemandHigh, Volume: 100},
		{Name: "Gear", Category: "gear"},
	}
	AnalyzeTraits(items)
	for _, item := range items {
		if item.TraitScore <= 0 {
			t.Fatalf("expected a positive trait score for %q", item.Name)
		}
	}
}
