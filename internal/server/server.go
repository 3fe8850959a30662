// Package server exposes the scan session over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"TradeScout/internal/cache"
	"TradeScout/internal/model"
	"TradeScout/internal/scanner"
)

const noDataMessage = "No scan data available. Run a scan first."

// Server serves the JSON API around a scan session.
type Server struct {
	scan   *scanner.Scanner
	store  *cache.Store
	http   *http.Server
	router *mux.Router
}

// New builds the server and its routes.
func New(addr string, scan *scanner.Scanner, store *cache.Store) *Server {
	s := &Server{scan: scan, store: store}

	r := mux.NewRouter()
	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/scan", s.handleScan).Methods(http.MethodGet)
	r.HandleFunc("/top-picks", s.handleTopPicks).Methods(http.MethodGet)
	r.HandleFunc("/combos", s.handleCombos).Methods(http.MethodGet)
	r.HandleFunc("/timeline/{item_id:[0-9]+}", s.handleTimeline).Methods(http.MethodGet)
	r.HandleFunc("/calendar", s.handleCalendar).Methods(http.MethodGet)
	r.HandleFunc("/risk-index", s.handleRiskIndex).Methods(http.MethodGet)
	r.HandleFunc("/cache-info", s.handleCacheInfo).Methods(http.MethodGet)
	r.HandleFunc("/config", s.handleConfig).Methods(http.MethodPost)

	s.router = r
	s.http = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe blocks serving HTTP until Shutdown or failure.
func (s *Server) ListenAndServe() error {
	log.Info().Str("addr", s.http.Addr).Msg("http server listening")
	return s.http.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "TradeScout",
		"status":  "running",
		"endpoints": []string{
			"/status", "/scan", "/top-picks", "/combos",
			"/timeline/{item_id}", "/calendar", "/risk-index", "/cache-info",
		},
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":        "running",
		"uptime":        s.scan.Uptime().Round(time.Second).String(),
		"scan_active":   s.scan.InProgress(),
		"cached_items":  s.scan.ItemCount(),
		"timestamp":     time.Now().Format(time.RFC3339),
		"alerts_sent":   0,
		"last_scan":     nil,
		"scan_duration": nil,
	}
	if result, err := s.scan.LastResult(); err == nil {
		resp["last_scan"] = result.Timestamp.Format(time.RFC3339)
		resp["scan_duration"] = result.Duration.Round(time.Millisecond).String()
		resp["alerts_sent"] = result.AlertsSent
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleScan kicks off a scan in the background. A second request while one
// is running gets a 429.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if s.scan.InProgress() {
		writeJSON(w, http.StatusTooManyRequests, map[string]any{
			"error": scanner.ErrScanInProgress.Error(),
		})
		return
	}
	go func() {
		if _, err := s.scan.RunScan(context.Background()); err != nil && !errors.Is(err, scanner.ErrScanInProgress) {
			log.Error().Err(err).Msg("background scan failed")
		}
	}()
	writeJSON(w, http.StatusAccepted, map[string]any{
		"message":   "Scan started",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleTopPicks(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)
	picks, err := s.scan.TopPicks(limit)
	if errors.Is(err, scanner.ErrNoData) {
		writeJSON(w, http.StatusOK, map[string]any{
			"top_picks": []*model.Item{},
			"message":   noDataMessage,
			"timestamp": time.Now().Format(time.RFC3339),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"top_picks": picks,
		"count":     len(picks),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleCombos(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 5)
	combos, err := s.scan.BestCombos(limit)
	if errors.Is(err, scanner.ErrNoData) {
		writeJSON(w, http.StatusOK, map[string]any{
			"combos":    []*model.TradeCombo{},
			"message":   noDataMessage,
			"timestamp": time.Now().Format(time.RFC3339),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"combos":    combos,
		"count":     len(combos),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(mux.Vars(r)["item_id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid item id"})
		return
	}
	days := queryInt(r, "days", 30)

	points, err := s.scan.ItemTimeline(r.Context(), itemID, days)
	if errors.Is(err, scanner.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": err.Error()})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"item_id":  itemID,
		"days":     days,
		"timeline": points,
	})
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	windows, err := s.scan.ForecastCalendar(10)
	if errors.Is(err, scanner.ErrNoData) {
		writeJSON(w, http.StatusOK, map[string]any{
			"forecast_windows": []model.ForecastWindow{},
			"message":          noDataMessage,
			"timestamp":        time.Now().Format(time.RFC3339),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"forecast_windows": windows,
		"timestamp":        time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleRiskIndex(w http.ResponseWriter, r *http.Request) {
	riskIndex, volatility, err := s.scan.RiskIndex()
	if errors.Is(err, scanner.ErrNoData) {
		writeJSON(w, http.StatusOK, map[string]any{
			"risk_index": 0.5,
			"volatility": 0.3,
			"message":    noDataMessage,
			"timestamp":  time.Now().Format(time.RFC3339),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"risk_index": riskIndex,
		"volatility": volatility,
		"timestamp":  time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleCacheInfo(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusOK, cache.Info{})
		return
	}
	writeJSON(w, http.StatusOK, s.store.CacheInfo())
}

// configUpdate is the accepted POST /config body. Absent fields are left
// unchanged.
type configUpdate struct {
	ScoringWeights *model.ScoringWeights `json:"scoring_weights"`
	StrategyMode   *string               `json:"strategy_mode"`
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	var update configUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid JSON body"})
		return
	}

	weights, mode := s.scan.CurrentScoring()
	if update.ScoringWeights != nil {
		weights = *update.ScoringWeights
	}
	if update.StrategyMode != nil {
		parsed, err := model.ParseStrategyMode(*update.StrategyMode)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
			return
		}
		mode = parsed
	}

	s.scan.UpdateScoring(weights, mode)
	writeJSON(w, http.StatusOK, map[string]any{"message": "Configuration updated successfully"})
}

func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("response encode failed")
	}
}
