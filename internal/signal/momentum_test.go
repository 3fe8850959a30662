package signal

import (
	"math"
	"testing"
	"time"

	"TradeScout/internal/model"
)

func almostEqual(t *testing.T, want, got float64) {
	t.Helper()
	if math.Abs(want-got) > 1e-9 {
		t.Fatalf("want %.6f, got %.6f", want, got)
	}
}

func TestMomentumScore_NoHistory(t *testing.T) {
	item := &model.Item{
		Value:     1000,
		Projected: 1300,
		Volume:    600,
		Demand:    model.DemandHigh,
		Hyped:     true,
	}
	// price 0.4 (capped) + volume 0.12 + demand 0.1 + hype 0.2
	almostEqual(t, 0.82, MomentumScore(item, nil))
}

func TestMomentumScore_FlatItemScoresZero(t *testing.T) {
	item := &model.Item{Value: 1000, Projected: 1000, Volume: 50}
	almostEqual(t, 0, MomentumScore(item, nil))
}

func TestHistoricalMomentum_RisingSeries(t *testing.T) {
	history := make([]model.HistoryPoint, 5)
	for i := range history {
		history[i] = model.HistoryPoint{
			Date:  time.Now().AddDate(0, 0, i-5),
			Value: 1000 + i*100, // +10%, +9.1%, +8.3%, +7.7%
		}
	}
	got := historicalMomentum(history)
	if got <= 0 || got > 0.2 {
		t.Fatalf("expected a small positive momentum, got %.4f", got)
	}
}

func TestHistoricalMomentum_FallingSeriesScoresZero(t *testing.T) {
	history := []model.HistoryPoint{
		{Value: 1000}, {Value: 950}, {Value: 900},
	}
	almostEqual(t, 0, historicalMomentum(history))
}

func TestTrendingScore_Saturates(t *testing.T) {
	item := &model.Item{Volume: 600, Demand: model.DemandVeryHigh, Hyped: true}
	almostEqual(t, 1.0, TrendingScore(item))
}

func TestReversalScore_UndervaluedHighDemand(t *testing.T) {
	item := &model.Item{Value: 800, RAP: 1000, Demand: model.DemandHigh, Volume: 400}
	// undervaluation 0.2 + demand 0.3 + volume 0.2
	almostEqual(t, 0.7, ReversalScore(item, nil))
}

func TestHistoricalRecovery_VShape(t *testing.T) {
	history := []model.HistoryPoint{
		{Value: 100}, {Value: 80}, {Value: 60}, {Value: 70}, {Value: 90},
	}
	almostEqual(t, 0.5, historicalRecovery(history))
}

func TestDetectMomentum_FiltersAndWritesBack(t *testing.T) {
	hot := &model.Item{ID: 1, Value: 1000, Projected: 1300, Volume: 600, Demand: model.DemandHigh, Hyped: true}
	cold := &model.Item{ID: 2, Value: 1000, Projected: 1000, Volume: 10}

	out := DetectMomentum([]*model.Item{cold, hot}, nil)
	if len(out) != 1 {
		t.Fatalf("expected 1 momentum item, got %d", len(out))
	}
	if out[0].ID != 1 {
		t.Fatalf("expected item 1, got %d", out[0].ID)
	}
	almostEqual(t, 0.82, out[0].MomentumScore)
	if cold.MomentumScore != 0 {
		t.Fatalf("cold item score should stay zero, got %.4f", cold.MomentumScore)
	}
}

func TestDetectTrending_SortsDescending(t *testing.T) {
	a := &model.Item{ID: 1, Volume: 600, Demand: model.DemandHigh, Hyped: true}    // 1.0
	b := &model.Item{ID: 2, Volume: 600, Demand: model.DemandHigh, Premium: true}  // 0.7
	c := &model.Item{ID: 3, Volume: 100}                                           // 0

	out := DetectTrending([]*model.Item{b, c, a})
	if len(out) != 1 {
		t.Fatalf("expected only the saturated item above 0.7, got %d", len(out))
	}
	if out[0].ID != 1 {
		t.Fatalf("expected item 1 first, got %d", out[0].ID)
	}
}
