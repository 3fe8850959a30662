package model

import "time"

// MarketMetrics summarizes one scan's view of the whole market.
type MarketMetrics struct {
	TotalItems       int       `json:"total_items"`
	TotalValue       int       `json:"total_value"`
	AverageRAP       float64   `json:"average_rap"`
	MarketVolatility float64   `json:"market_volatility"`
	TopGainers       []*Item   `json:"top_gainers"`
	TopLosers        []*Item   `json:"top_losers"`
	TrendingItems    []*Item   `json:"trending_items"`
	RiskIndex        float64   `json:"risk_index"`
	Timestamp        time.Time `json:"timestamp"`
}

// ScanResult is the output of one full pipeline run.
type ScanResult struct {
	ItemsScanned int            `json:"items_scanned"`
	ItemsFound   int            `json:"items_found"`
	Duration     time.Duration  `json:"scan_duration"`
	Timestamp    time.Time      `json:"timestamp"`
	TopPicks     []*Item        `json:"top_picks"`
	BestCombos   []*TradeCombo  `json:"best_combos"`
	Metrics      *MarketMetrics `json:"market_metrics"`
	AlertsSent   int            `json:"alerts_sent"`
	Errors       []string       `json:"errors,omitempty"`
}
