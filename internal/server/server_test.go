package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TradeScout/internal/cache"
	"TradeScout/internal/config"
	"TradeScout/internal/fetch"
	"TradeScout/internal/recorder"
	"TradeScout/internal/scanner"
)

func newTestServer(t *testing.T) (*Server, *scanner.Scanner) {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	store, err := cache.New(t.TempDir(), time.Hour)
	require.NoError(t, err)

	scan := scanner.New(cfg, fetch.NewMockFetcher(100), store, recorder.NewNoopRecorder(), nil)
	scan.SetSeed(42)
	return New(":0", scan, store), scan
}

func doRequest(t *testing.T, srv *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	return rr, payload
}

func TestRoot(t *testing.T) {
	srv, _ := newTestServer(t)
	rr, payload := doRequest(t, srv, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "TradeScout", payload["service"])
}

func TestStatus_BeforeScan(t *testing.T) {
	srv, _ := newTestServer(t)
	rr, payload := doRequest(t, srv, http.MethodGet, "/status", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "running", payload["status"])
	assert.Equal(t, false, payload["scan_active"])
	assert.Nil(t, payload["last_scan"])
}

func TestTopPicks_NoDataMessage(t *testing.T) {
	srv, _ := newTestServer(t)
	rr, payload := doRequest(t, srv, http.MethodGet, "/top-picks", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, noDataMessage, payload["message"])
}

func TestRiskIndex_DefaultBeforeScan(t *testing.T) {
	srv, _ := newTestServer(t)
	rr, payload := doRequest(t, srv, http.MethodGet, "/risk-index", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 0.5, payload["risk_index"])
	assert.Equal(t, noDataMessage, payload["message"])
}

func TestScan_Accepted(t *testing.T) {
	srv, _ := newTestServer(t)
	rr, payload := doRequest(t, srv, http.MethodGet, "/scan", "")
	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, "Scan started", payload["message"])
}

func TestEndpoints_AfterScan(t *testing.T) {
	srv, scan := newTestServer(t)
	_, err := scan.RunScan(context.Background())
	require.NoError(t, err)

	rr, payload := doRequest(t, srv, http.MethodGet, "/top-picks?limit=3", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	picks, ok := payload["top_picks"].([]any)
	require.True(t, ok)
	assert.Len(t, picks, 3)

	rr, payload = doRequest(t, srv, http.MethodGet, "/combos", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	_, hasMessage := payload["message"]
	assert.False(t, hasMessage)

	rr, payload = doRequest(t, srv, http.MethodGet, "/risk-index", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	_, hasMessage = payload["message"]
	assert.False(t, hasMessage)

	rr, _ = doRequest(t, srv, http.MethodGet, "/calendar", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr, payload = doRequest(t, srv, http.MethodGet, "/timeline/1?days=10", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, float64(1), payload["item_id"])

	rr, _ = doRequest(t, srv, http.MethodGet, "/timeline/99999", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCacheInfo(t *testing.T) {
	srv, _ := newTestServer(t)
	rr, _ := doRequest(t, srv, http.MethodGet, "/cache-info", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestConfigUpdate(t *testing.T) {
	srv, scan := newTestServer(t)

	rr, _ := doRequest(t, srv, http.MethodPost, "/config", `{"strategy_mode":"momentum"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	_, mode := scan.CurrentScoring()
	assert.Equal(t, "momentum", string(mode))

	rr, payload := doRequest(t, srv, http.MethodPost, "/config", `{"strategy_mode":"yolo"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, payload["error"], "invalid strategy mode")

	rr, _ = doRequest(t, srv, http.MethodPost, "/config", `not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
