package signal

import (
	"strings"
	"testing"
	"time"

	"TradeScout/internal/model"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestForecastWindows_DecemberHolidayWindow(t *testing.T) {
	now := time.Date(2025, time.December, 15, 12, 0, 0, 0, time.UTC)
	f := NewForecasterAt(fixedClock(now))

	item := &model.Item{ID: 7, Value: 1000, Projected: 1300, Demand: model.DemandLow, Volume: 10}
	windows := f.ForecastWindows([]*model.Item{item}, nil)

	var holiday *model.ForecastWindow
	for i := range windows {
		if strings.Contains(windows[i].Reasoning, "Holiday season") {
			holiday = &windows[i]
			break
		}
	}
	if holiday == nil {
		t.Fatal("expected a holiday window in December")
	}
	if !holiday.Start.Equal(now.AddDate(0, 0, 30)) || !holiday.End.Equal(now.AddDate(0, 0, 60)) {
		t.Fatalf("unexpected window bounds: %v - %v", holiday.Start, holiday.End)
	}
	almostEqual(t, 0.6, holiday.Confidence)
	if holiday.ExpectedGain != int(300*1.3) {
		t.Fatalf("expected gain 390, got %d", holiday.ExpectedGain)
	}
	if len(holiday.AffectedItems) != 1 || holiday.AffectedItems[0] != 7 {
		t.Fatalf("expected item 7 affected, got %v", holiday.AffectedItems)
	}
}

func TestForecastWindows_SummerWindow(t *testing.T) {
	now := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	f := NewForecasterAt(fixedClock(now))

	item := &model.Item{ID: 1, Value: 1000, Projected: 1200, Demand: model.DemandLow}
	windows := f.ForecastWindows([]*model.Item{item}, nil)

	found := false
	for _, w := range windows {
		if strings.Contains(w.Reasoning, "Summer") {
			found = true
			almostEqual(t, 0.5, w.Confidence)
		}
	}
	if !found {
		t.Fatal("expected a summer window in July")
	}
}

func TestForecastWindows_ShortTermRisingStrongDemand(t *testing.T) {
	now := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	f := NewForecasterAt(fixedClock(now))

	item := &model.Item{ID: 1, Value: 1000, Projected: 1300, Demand: model.DemandHigh}
	windows := f.ForecastWindows([]*model.Item{item}, nil)

	if len(windows) != 1 {
		t.Fatalf("expected exactly the short-term window, got %d", len(windows))
	}
	w := windows[0]
	almostEqual(t, 0.8, w.Confidence)
	if w.ExpectedGain != 300 {
		t.Fatalf("expected gain 300, got %d", w.ExpectedGain)
	}
	if !w.End.Equal(now.AddDate(0, 0, 3)) {
		t.Fatalf("expected a 3-day window, got end %v", w.End)
	}
}

func TestForecastWindows_QuietItemHasNone(t *testing.T) {
	now := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	f := NewForecasterAt(fixedClock(now))

	item := &model.Item{ID: 1, Value: 1000, RAP: 1000, Projected: 950, Demand: model.DemandLow, Volume: 100}
	if windows := f.ForecastWindows([]*model.Item{item}, nil); len(windows) != 0 {
		t.Fatalf("expected no windows, got %d", len(windows))
	}
}

func TestForecastWindows_WeeklyPattern(t *testing.T) {
	now := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	f := NewForecasterAt(fixedClock(now))

	// Two full ISO weeks, each rising 10% on healthy volume.
	var history []model.HistoryPoint
	start := time.Date(2026, time.February, 9, 0, 0, 0, 0, time.UTC) // a Monday
	for day := 0; day < 14; day++ {
		weekday := day % 7
		history = append(history, model.HistoryPoint{
			Date:   start.AddDate(0, 0, day),
			Value:  1000 + weekday*17, // ~10% gain across each week
			Volume: 200,
		})
	}

	item := &model.Item{ID: 5, Value: 1000, RAP: 1000, Projected: 1000, Demand: model.DemandMedium}
	windows := f.ForecastWindows([]*model.Item{item}, map[int64][]model.HistoryPoint{5: history})

	count := 0
	for _, w := range windows {
		if strings.Contains(w.Reasoning, "Weekly pattern") {
			count++
			if w.ExpectedGain <= 0 {
				t.Fatalf("expected positive gain, got %d", w.ExpectedGain)
			}
			if w.Confidence <= 0 || w.Confidence > 0.8 {
				t.Fatalf("confidence out of range: %.2f", w.Confidence)
			}
		}
	}
	if count != 2 {
		t.Fatalf("expected 2 weekly pattern windows, got %d", count)
	}
}

func TestForecastWindows_SortedByGainDescending(t *testing.T) {
	now := time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)
	f := NewForecasterAt(fixedClock(now))

	items := []*model.Item{
		{ID: 1, Value: 1000, Projected: 1200, Demand: model.DemandVeryHigh},
		{ID: 2, Value: 1000, Projected: 2000, Demand: model.DemandVeryHigh},
	}
	windows := f.ForecastWindows(items, nil)
	if len(windows) < 2 {
		t.Fatalf("expected several windows, got %d", len(windows))
	}
	for i := 1; i < len(windows); i++ {
		if windows[i-1].ExpectedGain < windows[i].ExpectedGain {
			t.Fatalf("windows not sorted at index %d", i)
		}
	}
}
