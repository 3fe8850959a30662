package fetch

import (
	"context"

	"TradeScout/internal/model"
)

// Fetcher defines the interface for fetching item data. Implementations
// must tolerate empty or partial results without failing the pipeline.
type Fetcher interface {
	FetchItems(ctx context.Context, limit int) ([]*model.Item, error)
	FetchHistory(ctx context.Context, itemID int64, days int) ([]model.HistoryPoint, error)
	Name() string
}
