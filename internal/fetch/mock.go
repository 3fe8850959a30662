package fetch

import (
	"context"
	"fmt"
	"time"

	"TradeScout/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Items   []*model.Item
	History map[int64][]model.HistoryPoint
}

// NewMockFetcher pre-generates count deterministic items.
func NewMockFetcher(count int) *MockFetcher {
	return &MockFetcher{Items: GenerateMockItems(count)}
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchItems(_ context.Context, limit int) ([]*model.Item, error) {
	if m.Items != nil {
		if limit < len(m.Items) {
			return m.Items[:limit], nil
		}
		return m.Items, nil
	}
	return GenerateMockItems(limit), nil
}

func (m *MockFetcher) FetchHistory(_ context.Context, itemID int64, days int) ([]model.HistoryPoint, error) {
	if m.History != nil {
		return m.History[itemID], nil
	}
	return generateMockHistory(days), nil
}

// GenerateMockItems produces a deterministic spread of items covering all
// demand tiers, value bands and flags.
func GenerateMockItems(count int) []*model.Item {
	items := make([]*model.Item, count)
	now := time.Now()
	for i := 0; i < count; i++ {
		value := 200 + i*137
		items[i] = &model.Item{
			ID:        int64(i + 1),
			Name:      fmt.Sprintf("Mock Item %d", i+1),
			Category:  []string{"hats", "faces", "accessories", "gear"}[i%4],
			RAP:       value + (i%7-3)*40,
			Value:     value,
			Demand:    model.DemandTier(i % 5),
			Volume:    (i * 53) % 1200,
			Available: 10 + (i*17)%800,
			Premium:   i%5 == 0,
			Hyped:     i%7 == 0,
			Rare:      i%11 == 0,
			Projected: value + (i%9-3)*60,
			Created:   now,
			Updated:   now,
		}
	}
	return items
}

func generateMockHistory(days int) []model.HistoryPoint {
	points := make([]model.HistoryPoint, days)
	base := 1000
	for i := 0; i < days; i++ {
		v := base + (i%5-2)*25 + i*3
		points[i] = model.HistoryPoint{
			Date:   time.Now().AddDate(0, 0, -(days - i)),
			Value:  v,
			RAP:    v - 20,
			Volume: 100 + (i*31)%400,
		}
	}
	return points
}
