package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"TradeScout/internal/model"
)

// RolimonsFetcher implements Fetcher against a Rolimons-style REST API.
// A single token-bucket limiter throttles all outbound calls to one request
// per configured delay; there are no per-endpoint limits.
type RolimonsFetcher struct {
	BaseURL string
	Client  *http.Client
	limiter *rate.Limiter
}

// NewRolimonsFetcher creates a fetcher with optional proxy support.
// delay is the minimum interval between outbound requests, in seconds.
func NewRolimonsFetcher(baseURL, proxyURL string, delay float64) *RolimonsFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if delay <= 0 {
		delay = 1.0
	}
	return &RolimonsFetcher{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		limiter: rate.NewLimiter(rate.Every(time.Duration(delay*float64(time.Second))), 1),
	}
}

func (f *RolimonsFetcher) Name() string { return "rolimons" }

// rawItem is the expected JSON shape from the items endpoint.
type rawItem struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	RAP       int    `json:"rap"`
	Value     int    `json:"value"`
	Demand    string `json:"demand"`
	Volume    int    `json:"volume"`
	Available int    `json:"available"`
	Premium   bool   `json:"premium"`
	Projected int    `json:"projected"`
	Hyped     bool   `json:"hyped"`
	Rare      bool   `json:"rare"`
	Category  string `json:"category"`
}

// FetchItems fetches up to limit items. Unparseable entries are skipped,
// never fatal: a partial batch is a valid batch.
func (f *RolimonsFetcher) FetchItems(ctx context.Context, limit int) ([]*model.Item, error) {
	endpoint := fmt.Sprintf("%s/items?category=limiteds&limit=%d", f.BaseURL, limit)

	var payload struct {
		Items []rawItem `json:"items"`
	}
	if err := f.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("fetch items: %w", err)
	}

	now := time.Now()
	items := make([]*model.Item, 0, len(payload.Items))
	for _, ri := range payload.Items {
		if ri.ID == 0 {
			continue
		}
		items = append(items, &model.Item{
			ID:        ri.ID,
			Name:      ri.Name,
			Category:  ri.Category,
			RAP:       ri.RAP,
			Value:     ri.Value,
			Demand:    model.ParseDemandTier(ri.Demand),
			Volume:    ri.Volume,
			Available: ri.Available,
			Premium:   ri.Premium,
			Hyped:     ri.Hyped,
			Rare:      ri.Rare,
			Projected: ri.Projected,
			Created:   now,
			Updated:   now,
		})
	}
	log.Debug().Int("requested", limit).Int("parsed", len(items)).Msg("fetched items")
	return items, nil
}

// FetchHistory fetches an item's daily history, oldest first.
func (f *RolimonsFetcher) FetchHistory(ctx context.Context, itemID int64, days int) ([]model.HistoryPoint, error) {
	endpoint := fmt.Sprintf("%s/items/%d/history?days=%d", f.BaseURL, itemID, days)

	var payload struct {
		History []struct {
			Date   string `json:"date"`
			Value  int    `json:"value"`
			RAP    int    `json:"rap"`
			Volume int    `json:"volume"`
		} `json:"history"`
	}
	if err := f.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("fetch history for %d: %w", itemID, err)
	}

	points := make([]model.HistoryPoint, 0, len(payload.History))
	for _, h := range payload.History {
		t, err := time.Parse(time.RFC3339, h.Date)
		if err != nil {
			continue
		}
		points = append(points, model.HistoryPoint{
			Date:   t,
			Value:  h.Value,
			RAP:    h.RAP,
			Volume: h.Volume,
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points, nil
}

func (f *RolimonsFetcher) getJSON(ctx context.Context, endpoint string, dest any) error {
	if err := f.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
