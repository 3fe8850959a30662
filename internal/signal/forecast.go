package signal

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"TradeScout/internal/model"
)

// Forecaster derives qualitative market conditions per item and emits
// forecast windows. The clock is injectable so seasonal logic is testable.
type Forecaster struct {
	now func() time.Time
}

// NewForecaster returns a forecaster on the wall clock.
func NewForecaster() *Forecaster {
	return &Forecaster{now: time.Now}
}

// NewForecasterAt returns a forecaster with a fixed clock.
func NewForecasterAt(now func() time.Time) *Forecaster {
	return &Forecaster{now: now}
}

// conditions is the qualitative read of one item's market state.
type conditions struct {
	valueTrend     string // rising, falling, stable
	volumeTrend    string // high, low, stable
	demandStrength string // weak, medium, strong, very_strong
	volatility     string // high, medium, low
	sentiment      string // bullish, bearish, neutral
}

func analyzeConditions(item *model.Item) conditions {
	c := conditions{
		valueTrend:     "stable",
		volumeTrend:    "stable",
		demandStrength: "medium",
		volatility:     "medium",
		sentiment:      "neutral",
	}

	if float64(item.Projected) > float64(item.Value)*1.1 {
		c.valueTrend = "rising"
	} else if float64(item.Projected) < float64(item.Value)*0.9 {
		c.valueTrend = "falling"
	}

	if item.Volume > 500 {
		c.volumeTrend = "high"
	} else if item.Volume < 50 {
		c.volumeTrend = "low"
	}

	switch item.Demand {
	case model.DemandNone, model.DemandLow:
		c.demandStrength = "weak"
	case model.DemandMedium:
		c.demandStrength = "medium"
	case model.DemandHigh:
		c.demandStrength = "strong"
	case model.DemandVeryHigh:
		c.demandStrength = "very_strong"
	}

	if item.Volatility > 0.7 {
		c.volatility = "high"
	} else if item.Volatility < 0.3 {
		c.volatility = "low"
	}

	if item.Hyped {
		c.sentiment = "bullish"
	} else if float64(item.Value) < float64(item.RAP)*0.8 {
		c.sentiment = "bearish"
	}

	return c
}

// ForecastWindows forecasts trade windows for all items and returns them
// merged, sorted by expected gain descending.
func (f *Forecaster) ForecastWindows(items []*model.Item, history map[int64][]model.HistoryPoint) []model.ForecastWindow {
	var windows []model.ForecastWindow
	for _, item := range items {
		c := analyzeConditions(item)
		windows = append(windows, f.shortTermWindows(item, c)...)
		windows = append(windows, f.mediumTermWindows(item, c, history[item.ID])...)
		windows = append(windows, f.longTermWindows(item, c)...)
	}
	sort.SliceStable(windows, func(i, j int) bool { return windows[i].ExpectedGain > windows[j].ExpectedGain })
	log.Debug().Int("items", len(items)).Int("windows", len(windows)).Msg("forecast done")
	return windows
}

func (f *Forecaster) shortTermWindows(item *model.Item, c conditions) []model.ForecastWindow {
	var windows []model.ForecastWindow
	now := f.now()

	if c.valueTrend == "rising" && (c.demandStrength == "strong" || c.demandStrength == "very_strong") {
		windows = append(windows, model.ForecastWindow{
			Start:         now,
			End:           now.AddDate(0, 0, 3),
			Confidence:    0.8,
			ExpectedGain:  item.Projected - item.Value,
			Reasoning:     "Strong demand with rising value trend",
			AffectedItems: []int64{item.ID},
		})
	}

	if c.volumeTrend == "high" && item.Volume > 300 {
		windows = append(windows, model.ForecastWindow{
			Start:         now,
			End:           now.AddDate(0, 0, 5),
			Confidence:    0.7,
			ExpectedGain:  int(float64(item.Projected-item.Value) * 0.8),
			Reasoning:     "High volume indicates active trading",
			AffectedItems: []int64{item.ID},
		})
	}

	return windows
}

func (f *Forecaster) mediumTermWindows(item *model.Item, c conditions, history []model.HistoryPoint) []model.ForecastWindow {
	var windows []model.ForecastWindow
	now := f.now()

	windows = append(windows, f.weeklyPatternWindows(item, history)...)

	if c.demandStrength == "very_strong" {
		windows = append(windows, model.ForecastWindow{
			Start:         now.AddDate(0, 0, 7),
			End:           now.AddDate(0, 0, 21),
			Confidence:    0.6,
			ExpectedGain:  int(float64(item.Projected-item.Value) * 1.2),
			Reasoning:     "Strong demand cycle expected to continue",
			AffectedItems: []int64{item.ID},
		})
	}

	return windows
}

// weeklyPatternWindows groups history by ISO week and projects weeks that
// gained more than 5% on meaningful volume forward one week. Requires at
// least 14 history points.
func (f *Forecaster) weeklyPatternWindows(item *model.Item, history []model.HistoryPoint) []model.ForecastWindow {
	if len(history) < 14 {
		return nil
	}
	now := f.now()

	type week struct {
		points []model.HistoryPoint
	}
	weeks := make(map[string]*week)
	for _, p := range history {
		year, isoWeek := p.Date.ISOWeek()
		key := fmt.Sprintf("%d-%02d", year, isoWeek)
		if weeks[key] == nil {
			weeks[key] = &week{}
		}
		weeks[key].points = append(weeks[key].points, p)
	}

	var windows []model.ForecastWindow
	for _, w := range weeks {
		if len(w.points) < 3 {
			continue
		}
		first, last := w.points[0].Value, w.points[len(w.points)-1].Value
		if first <= 0 {
			continue
		}
		var valueSum, volumeSum int
		for _, p := range w.points {
			valueSum += p.Value
			volumeSum += p.Volume
		}
		avgValue := float64(valueSum) / float64(len(w.points))
		avgVolume := float64(volumeSum) / float64(len(w.points))
		change := float64(last-first) / float64(first)

		if change > 0.05 && avgVolume > 100 {
			confidence := change * 2
			if confidence < 0 {
				confidence = -confidence
			}
			windows = append(windows, model.ForecastWindow{
				Start:         now.AddDate(0, 0, 7),
				End:           now.AddDate(0, 0, 14),
				Confidence:    clamp(confidence, 0, 0.8),
				ExpectedGain:  int(avgValue * change),
				Reasoning:     fmt.Sprintf("Weekly pattern: %.1f%% average gain", change*100),
				AffectedItems: []int64{item.ID},
			})
		}
	}
	return windows
}

func (f *Forecaster) longTermWindows(item *model.Item, c conditions) []model.ForecastWindow {
	var windows []model.ForecastWindow
	now := f.now()

	switch now.Month() {
	case time.November, time.December:
		windows = append(windows, model.ForecastWindow{
			Start:         now.AddDate(0, 0, 30),
			End:           now.AddDate(0, 0, 60),
			Confidence:    0.6,
			ExpectedGain:  int(float64(item.Projected-item.Value) * 1.3),
			Reasoning:     "Holiday season typically increases demand",
			AffectedItems: []int64{item.ID},
		})
	case time.June, time.July, time.August:
		windows = append(windows, model.ForecastWindow{
			Start:         now.AddDate(0, 0, 45),
			End:           now.AddDate(0, 0, 90),
			Confidence:    0.5,
			ExpectedGain:  int(float64(item.Projected-item.Value) * 1.1),
			Reasoning:     "Summer break increases trading activity",
			AffectedItems: []int64{item.ID},
		})
	}

	if c.sentiment == "bullish" && item.Rare {
		windows = append(windows, model.ForecastWindow{
			Start:         now.AddDate(0, 0, 30),
			End:           now.AddDate(0, 0, 90),
			Confidence:    0.5,
			ExpectedGain:  int(float64(item.Projected-item.Value) * 1.5),
			Reasoning:     "Rare item in bullish market cycle",
			AffectedItems: []int64{item.ID},
		})
	}

	return windows
}
