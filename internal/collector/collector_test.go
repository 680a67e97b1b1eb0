package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MetalCharts/internal/model"
	"MetalCharts/internal/normalize"
)

var instruments = []model.Instrument{
	{Code: "LME-TIN", Label: "LME TIN", Color: "#2196F3"},
	{Code: "TIN", Label: "TIN", Color: "#FFA500"},
}

func fixedNow() time.Time { return time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC) }

func TestMockFetcher_CollectDecodesEverything(t *testing.T) {
	c := NewCollector(&MockFetcher{Instruments: instruments, Days: 10, Horizon: 5, Now: fixedNow})
	snap, err := c.Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, uint64(1), snap.Seq)
	assert.Len(t, snap.Raw, 3)

	ns := normalize.NewNormalizer(instruments).Normalize(snap.Prices)
	assert.Len(t, ns.Dates, 10)
	assert.Len(t, ns.Series["LME-TIN"], 10)
	assert.Len(t, ns.Series["TIN"], 10)
	assert.Equal(t, "2024-03-10", model.DateKey(ns.Dates[9]))

	require.NotNil(t, snap.Historical)
	assert.Len(t, snap.Historical.Points, 10)
	require.NotNil(t, snap.Forecast)
	assert.Len(t, snap.Forecast.Points, 5)
	assert.True(t, snap.Forecast.LastActualPrice.Valid)
	assert.Equal(t, "2024-03-11", model.DateKey(snap.Forecast.Points[0].Date))
}

func TestCollect_PartialFailureKeepsOtherParts(t *testing.T) {
	f := &MockFetcher{
		Instruments: instruments,
		Now:         fixedNow,
		Errors:      map[Kind]error{KindForecast: errors.New("boom")},
		Payloads:    map[Kind][]byte{KindHistorical: []byte(`{"historical": "nope"}`)},
	}
	snap, err := NewCollector(f).Collect(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, snap.Prices)
	assert.Nil(t, snap.Historical)
	assert.Nil(t, snap.Forecast)
	assert.Len(t, snap.Raw, 1)
}

func TestCollect_AllFailuresWrapUpstream(t *testing.T) {
	boom := errors.New("down")
	f := &MockFetcher{Errors: map[Kind]error{KindPrices: boom, KindForecast: boom, KindHistorical: boom}}
	_, err := NewCollector(f).Collect(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrUpstreamFetch)
	assert.ErrorIs(t, err, boom)
}

func TestApply_LastIssuedWins(t *testing.T) {
	c := NewCollector(&MockFetcher{Instruments: instruments, Now: fixedNow})
	older, err := c.Collect(context.Background())
	require.NoError(t, err)
	newer, err := c.Collect(context.Background())
	require.NoError(t, err)

	var applied []uint64
	record := func(s *Snapshot) { applied = append(applied, s.Seq) }

	require.NoError(t, c.Apply(newer, record))
	err = c.Apply(older, record)
	assert.ErrorIs(t, err, ErrStale)
	assert.Equal(t, []uint64{2}, applied)
}

func TestDecode_SkipsBrokenPayloads(t *testing.T) {
	snap := Decode(map[Kind][]byte{
		KindPrices:   []byte(`{"TIN": {"2024-01-01": {"USDTIN": 100}}}`),
		KindForecast: []byte(`not json`),
	})
	assert.NotNil(t, snap.Prices)
	assert.Nil(t, snap.Forecast)
	assert.Len(t, snap.Raw, 1)
}

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/prices":
			assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"data": {"TIN": {"2024-01-01": {"TIN": "31,000.5"}}}}`))
		default:
			http.Error(w, "nope", http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL+"/", "secret", "", time.Second, map[Kind]string{
		KindPrices:   "/prices",
		KindForecast: "/forecast",
	})

	body, err := f.Fetch(context.Background(), KindPrices)
	require.NoError(t, err)
	assert.Contains(t, string(body), "31,000.5")

	_, err = f.Fetch(context.Background(), KindForecast)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrUpstreamFetch)
	assert.Contains(t, err.Error(), "status 500")

	_, err = f.Fetch(context.Background(), KindHistorical)
	assert.ErrorIs(t, err, model.ErrUpstreamFetch)

	snap, err := NewCollector(f).Collect(context.Background())
	require.NoError(t, err)
	ns := normalize.NewNormalizer(instruments).Normalize(snap.Prices)
	require.Len(t, ns.Series["TIN"], 1)
	assert.Equal(t, 31000.5, ns.Series["TIN"][0].Value)
}

func TestHTTPFetcher_ContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL, "", "", 5*time.Second, map[Kind]string{KindPrices: "/"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.Fetch(ctx, KindPrices)
	assert.ErrorIs(t, err, model.ErrUpstreamFetch)
}
