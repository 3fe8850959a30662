// Package scanner orchestrates the full market scan pipeline: fetch,
// analyze, score, combine, alert, record.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"TradeScout/internal/cache"
	"TradeScout/internal/combo"
	"TradeScout/internal/config"
	"TradeScout/internal/fetch"
	"TradeScout/internal/model"
	"TradeScout/internal/recorder"
	"TradeScout/internal/scoring"
	"TradeScout/internal/signal"
)

var (
	// ErrScanInProgress is returned when a scan is requested while one runs.
	ErrScanInProgress = errors.New("scan already in progress")
	// ErrNoData is returned by accessors before the first scan completes.
	ErrNoData = errors.New("no scan data available")
	// ErrNotFound is returned when a requested item is unknown.
	ErrNotFound = errors.New("item not found")
)

const (
	itemsCacheKey    = "items"
	lastScanCacheKey = "last_scan"
	topPickCount     = 10
	historyDepth     = 20 // items that get a history fetch per scan
	historyDays      = 30
	alertRetries     = 3
)

// Alerter is the notification surface the scanner needs.
type Alerter interface {
	ShouldAlert(combo model.TradeCombo) bool
	SendTradeAlertWithRetry(ctx context.Context, combo model.TradeCombo, maxRetries int) error
	SendScanSummary(ctx context.Context, result *model.ScanResult) error
}

// Scanner is a scan session. All mutable state lives here; results from the
// last completed scan are retained for the HTTP surface. Safe for concurrent
// use, but only one scan runs at a time.
type Scanner struct {
	cfg        *config.Config
	fetcher    fetch.Fetcher
	store      *cache.Store
	rec        recorder.Recorder
	alerter    Alerter
	engine     *scoring.Engine
	generator  *combo.Generator
	forecaster *signal.Forecaster

	mu         sync.Mutex
	inProgress bool
	startedAt  time.Time
	lastResult *model.ScanResult
	lastItems  []*model.Item
	forecasts  []model.ForecastWindow
}

// New wires a scanner from its collaborators. The combo generator is seeded
// from the clock; use SetSeed for reproducible runs.
func New(cfg *config.Config, fetcher fetch.Fetcher, store *cache.Store, rec recorder.Recorder, alerter Alerter) *Scanner {
	s := &Scanner{
		cfg:        cfg,
		fetcher:    fetcher,
		store:      store,
		rec:        rec,
		alerter:    alerter,
		engine:     scoring.NewEngine(cfg.Scoring.Weights, cfg.StrategyMode()),
		generator:  combo.NewGenerator(time.Now().UnixNano(), cfg.StrategyMode()),
		forecaster: signal.NewForecaster(),
		startedAt:  time.Now(),
	}
	s.restoreLastScan()
	return s
}

// SetSeed replaces the combo generator with one seeded deterministically.
func (s *Scanner) SetSeed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generator = combo.NewGenerator(seed, s.cfg.StrategyMode())
}

// restoreLastScan rehydrates the previous result from cache so the HTTP
// surface has data across restarts.
func (s *Scanner) restoreLastScan() {
	if s.store == nil {
		return
	}
	var result model.ScanResult
	ok, err := s.store.Load(lastScanCacheKey, &result)
	if err != nil {
		log.Warn().Err(err).Msg("could not restore last scan from cache")
		return
	}
	if ok {
		s.lastResult = &result
		s.lastItems = result.TopPicks
		log.Info().Time("scanned_at", result.Timestamp).Msg("restored last scan from cache")
	}
}

// RunScan executes the full pipeline once. Collaborator failures degrade the
// result and are collected in its Errors field; only a failed item fetch with
// no cached fallback aborts the scan.
func (s *Scanner) RunScan(ctx context.Context) (*model.ScanResult, error) {
	s.mu.Lock()
	if s.inProgress {
		s.mu.Unlock()
		return nil, ErrScanInProgress
	}
	s.inProgress = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.inProgress = false
		s.mu.Unlock()
	}()

	// Snapshot the configurable collaborators so a concurrent UpdateScoring
	// or SetSeed cannot swap them mid-scan.
	s.mu.Lock()
	engine := s.engine
	generator := s.generator
	s.mu.Unlock()

	start := time.Now()
	result := &model.ScanResult{Timestamp: start}
	log.Info().Str("source", s.fetcher.Name()).Msg("starting market scan")

	items, err := s.loadItems(ctx)
	if err != nil {
		return nil, err
	}
	result.ItemsScanned = len(items)

	history := s.loadHistory(ctx, items, result)

	// Intelligence passes write their scores onto the items.
	signal.AnalyzeTraits(items)
	signal.AnalyzeEngagement(items)
	momentum := signal.DetectMomentum(items, history)

	ranked := engine.Rank(items)
	result.ItemsFound = len(momentum)
	if len(ranked) > topPickCount {
		result.TopPicks = ranked[:topPickCount]
	} else {
		result.TopPicks = ranked
	}

	combos := generator.Best(ranked, s.cfg.Scan.ComboCount, s.cfg.Scan.MinGain, s.cfg.Scan.MinConfidence)
	result.BestCombos = make([]*model.TradeCombo, len(combos))
	for i := range combos {
		result.BestCombos[i] = &combos[i]
	}

	result.AlertsSent = s.sendAlerts(ctx, combos, result)
	result.Metrics = buildMetrics(ranked, momentum, start)
	forecasts := s.forecaster.ForecastWindows(result.TopPicks, history)
	result.Duration = time.Since(start)

	s.persist(result, combos)

	if s.alerter != nil {
		if err := s.alerter.SendScanSummary(ctx, result); err != nil {
			log.Warn().Err(err).Msg("scan summary notification failed")
			result.Errors = append(result.Errors, fmt.Sprintf("summary: %v", err))
		}
	}

	// Publish only after the result is fully assembled; readers may JSON-encode
	// it the moment it lands.
	s.mu.Lock()
	s.lastResult = result
	s.lastItems = ranked
	s.forecasts = forecasts
	s.mu.Unlock()

	log.Info().
		Int("items", result.ItemsScanned).
		Int("combos", len(combos)).
		Int("alerts", result.AlertsSent).
		Dur("duration", result.Duration).
		Msg("market scan completed")
	return result, nil
}

// loadItems serves items from cache when fresh, falling back to the fetcher.
func (s *Scanner) loadItems(ctx context.Context) ([]*model.Item, error) {
	if s.store != nil {
		var cached []*model.Item
		ok, err := s.store.Load(itemsCacheKey, &cached)
		if err != nil {
			log.Warn().Err(err).Msg("item cache read failed")
		}
		if ok && len(cached) > 0 {
			log.Debug().Int("items", len(cached)).Msg("items served from cache")
			return cached, nil
		}
	}

	items, err := s.fetcher.FetchItems(ctx, s.cfg.DataSource.FetchLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch items: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("fetch items: %w", ErrNoData)
	}
	if s.store != nil {
		if err := s.store.Save(itemsCacheKey, items, true); err != nil {
			log.Warn().Err(err).Msg("item cache write failed")
		}
	}
	return items, nil
}

// loadHistory fetches price history for the highest-value items. Failures
// degrade to an empty history for that item.
func (s *Scanner) loadHistory(ctx context.Context, items []*model.Item, result *model.ScanResult) map[int64][]model.HistoryPoint {
	history := make(map[int64][]model.HistoryPoint)
	targets := topByValue(items, historyDepth)
	for _, item := range targets {
		points, err := s.fetcher.FetchHistory(ctx, item.ID, historyDays)
		if err != nil {
			log.Warn().Err(err).Int64("item", item.ID).Msg("history fetch failed")
			result.Errors = append(result.Errors, fmt.Sprintf("history %d: %v", item.ID, err))
			continue
		}
		history[item.ID] = points
	}
	return history
}

func (s *Scanner) sendAlerts(ctx context.Context, combos []model.TradeCombo, result *model.ScanResult) int {
	if s.alerter == nil {
		return 0
	}
	sent := 0
	for _, c := range combos {
		if !s.alerter.ShouldAlert(c) {
			continue
		}
		if err := s.alerter.SendTradeAlertWithRetry(ctx, c, alertRetries); err != nil {
			log.Warn().Err(err).Str("combo", c.ID).Msg("trade alert failed")
			result.Errors = append(result.Errors, fmt.Sprintf("alert %s: %v", c.ID, err))
			continue
		}
		sent++
	}
	return sent
}

func (s *Scanner) persist(result *model.ScanResult, combos []model.TradeCombo) {
	if s.rec != nil {
		if err := s.rec.RecordScan(result); err != nil {
			log.Warn().Err(err).Msg("scan record failed")
			result.Errors = append(result.Errors, fmt.Sprintf("record scan: %v", err))
		}
		if err := s.rec.RecordCombos(combos); err != nil {
			log.Warn().Err(err).Msg("combo record failed")
			result.Errors = append(result.Errors, fmt.Sprintf("record combos: %v", err))
		}
	}
	if s.store != nil {
		if err := s.store.Save(lastScanCacheKey, result, true); err != nil {
			log.Warn().Err(err).Msg("last scan cache write failed")
		}
	}
}

// buildMetrics summarizes the ranked item set. The risk index blends average
// volatility with how thin demand is across the market.
func buildMetrics(ranked, momentum []*model.Item, ts time.Time) *model.MarketMetrics {
	m := &model.MarketMetrics{
		TotalItems: len(ranked),
		Timestamp:  ts,
	}
	if len(ranked) == 0 {
		m.RiskIndex = 0.5
		return m
	}

	var rapSum, volatilitySum, demandSum float64
	for _, item := range ranked {
		m.TotalValue += item.Value
		rapSum += float64(item.RAP)
		volatilitySum += item.Volatility
		demandSum += demandScore(item.Demand)
	}
	n := float64(len(ranked))
	m.AverageRAP = rapSum / n
	m.MarketVolatility = volatilitySum / n

	m.TopGainers = head(ranked, 5)
	m.TopLosers = tail(ranked, 5)
	m.TrendingItems = head(momentum, 5)

	avgDemand := demandSum / n
	m.RiskIndex = clamp01(0.6*m.MarketVolatility + 0.4*(1.0-avgDemand))
	return m
}

// LastResult returns the most recent completed scan.
func (s *Scanner) LastResult() (*model.ScanResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastResult == nil {
		return nil, ErrNoData
	}
	return s.lastResult, nil
}

// TopPicks returns the n best-ranked items from the last scan.
func (s *Scanner) TopPicks(n int) ([]*model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.lastItems) == 0 {
		return nil, ErrNoData
	}
	items := s.lastItems
	if len(items) > n {
		items = items[:n]
	}
	return items, nil
}

// BestCombos returns the n best combos from the last scan.
func (s *Scanner) BestCombos(n int) ([]*model.TradeCombo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastResult == nil {
		return nil, ErrNoData
	}
	combos := s.lastResult.BestCombos
	if len(combos) > n {
		combos = combos[:n]
	}
	return combos, nil
}

// ForecastCalendar returns the n best forecast windows from the last scan.
func (s *Scanner) ForecastCalendar(n int) ([]model.ForecastWindow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastResult == nil {
		return nil, ErrNoData
	}
	windows := s.forecasts
	if len(windows) > n {
		windows = windows[:n]
	}
	return windows, nil
}

// RiskIndex returns the last scan's risk index and market volatility.
func (s *Scanner) RiskIndex() (riskIndex, volatility float64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastResult == nil || s.lastResult.Metrics == nil {
		return 0, 0, ErrNoData
	}
	return s.lastResult.Metrics.RiskIndex, s.lastResult.Metrics.MarketVolatility, nil
}

// ItemTimeline returns the price history for one scanned item.
func (s *Scanner) ItemTimeline(ctx context.Context, itemID int64, days int) ([]model.HistoryPoint, error) {
	s.mu.Lock()
	known := false
	for _, item := range s.lastItems {
		if item.ID == itemID {
			known = true
			break
		}
	}
	s.mu.Unlock()
	if !known {
		return nil, fmt.Errorf("item %d: %w", itemID, ErrNotFound)
	}
	points, err := s.fetcher.FetchHistory(ctx, itemID, days)
	if err != nil {
		return nil, fmt.Errorf("timeline %d: %w", itemID, err)
	}
	return points, nil
}

// CurrentScoring returns the active scoring weights and strategy mode.
func (s *Scanner) CurrentScoring() (model.ScoringWeights, model.StrategyMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Scoring.Weights, s.cfg.StrategyMode()
}

// UpdateScoring swaps the scoring weights and strategy mode for future scans.
func (s *Scanner) UpdateScoring(weights model.ScoringWeights, mode model.StrategyMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Scoring.Weights = weights
	s.cfg.Scoring.StrategyMode = string(mode)
	s.engine = scoring.NewEngine(weights, mode)
	s.generator = combo.NewGenerator(time.Now().UnixNano(), mode)
	log.Info().Str("mode", string(mode)).Msg("scoring configuration updated")
}

// InProgress reports whether a scan is currently running.
func (s *Scanner) InProgress() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inProgress
}

// Uptime reports how long this session has been alive.
func (s *Scanner) Uptime() time.Duration {
	return time.Since(s.startedAt)
}

// ItemCount reports how many items the last scan retained.
func (s *Scanner) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lastItems)
}

func demandScore(d model.DemandTier) float64 {
	switch d {
	case model.DemandLow:
		return 0.2
	case model.DemandMedium:
		return 0.5
	case model.DemandHigh:
		return 0.8
	case model.DemandVeryHigh:
		return 1.0
	}
	return 0
}

func topByValue(items []*model.Item, n int) []*model.Item {
	sorted := make([]*model.Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Value > sorted[j].Value })
	return head(sorted, n)
}

func head(items []*model.Item, n int) []*model.Item {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func tail(items []*model.Item, n int) []*model.Item {
	if len(items) > n {
		return items[len(items)-n:]
	}
	return items
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
