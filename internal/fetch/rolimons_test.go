package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TradeScout/internal/model"
)

func TestFetchItems_ParsesAndSkipsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.String(), "limit=10")
		fmt.Fprint(w, `{"items":[
			{"id":123,"name":"Classic Fedora","rap":1200,"value":1000,"demand":"high","volume":600,"projected":1300,"hyped":true,"category":"hats"},
			{"id":0,"name":"broken"},
			{"id":456,"name":"Plain Gear","demand":"not_a_tier","value":300}
		]}`)
	}))
	defer srv.Close()

	f := NewRolimonsFetcher(srv.URL, "", 0.01)
	items, err := f.FetchItems(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, int64(123), items[0].ID)
	assert.Equal(t, model.DemandHigh, items[0].Demand)
	assert.True(t, items[0].Hyped)

	// Unknown demand strings degrade, they don't abort the batch.
	assert.Equal(t, model.DemandNone, items[1].Demand)
}

func TestFetchHistory_SortsAscending(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"history":[
			{"date":"2026-03-03T00:00:00Z","value":1100,"rap":1080,"volume":210},
			{"date":"2026-03-01T00:00:00Z","value":1000,"rap":990,"volume":200},
			{"date":"not-a-date","value":999}
		]}`)
	}))
	defer srv.Close()

	f := NewRolimonsFetcher(srv.URL, "", 0.01)
	points, err := f.FetchHistory(context.Background(), 123, 30)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.True(t, points[0].Date.Before(points[1].Date))
	assert.Equal(t, 1000, points[0].Value)
}

func TestGetJSON_ErrorStatusIncludesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	f := NewRolimonsFetcher(srv.URL, "", 0.01)
	_, err := f.FetchItems(context.Background(), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "upstream down")
}

func TestMockFetcher_Deterministic(t *testing.T) {
	a := NewMockFetcher(50)
	b := NewMockFetcher(50)

	itemsA, err := a.FetchItems(context.Background(), 50)
	require.NoError(t, err)
	itemsB, err := b.FetchItems(context.Background(), 50)
	require.NoError(t, err)

	require.Len(t, itemsA, 50)
	for i := range itemsA {
		assert.Equal(t, itemsA[i].ID, itemsB[i].ID)
		assert.Equal(t, itemsA[i].Value, itemsB[i].Value)
		assert.Equal(t, itemsA[i].Demand, itemsB[i].Demand)
	}
}
