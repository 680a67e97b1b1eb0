package scheduler

import (
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MetalCharts/internal/chart"
	"MetalCharts/internal/collector"
	"MetalCharts/internal/model"
	"MetalCharts/internal/recorder"
)

var instruments = []model.Instrument{
	{Code: "LME-TIN", Label: "LME TIN", Color: "#2196F3"},
	{Code: "TIN", Label: "TIN", Color: "#FFA500"},
}

func newDashboard() *chart.Dashboard {
	return chart.NewDashboard(chart.Config{Instruments: instruments, ForecastInstrument: "TIN", Seed: 1}, nil)
}

func mockFetcher() *collector.MockFetcher {
	return &collector.MockFetcher{
		Instruments: instruments,
		Days:        12,
		Horizon:     6,
		Now:         func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) },
	}
}

func TestRefreshNow_UpdatesViewsAndWritesCharts(t *testing.T) {
	dir := t.TempDir()
	dash := newDashboard()
	s := NewScheduler(context.Background(), collector.NewCollector(mockFetcher()), dash, nil, dir)

	require.NoError(t, s.RefreshNow())

	dash.Do(func(c *chart.CandleView, f *chart.ForecastView) {
		assert.Len(t, c.Series().Dates, 12)
		assert.Len(t, c.Candles()["TIN"], 12)
		assert.Len(t, f.Timeline().Points, 18)
	})

	for _, kind := range []string{chart.KindCandles, chart.KindForecast} {
		fh, err := os.Open(filepath.Join(dir, kind+".png"))
		require.NoError(t, err, kind)
		_, err = png.Decode(fh)
		fh.Close()
		assert.NoError(t, err, kind)
	}
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temp files left behind")
}

func TestRefreshNow_FailureKeepsPreviousData(t *testing.T) {
	f := mockFetcher()
	dash := newDashboard()
	s := NewScheduler(context.Background(), collector.NewCollector(f), dash, nil, "")
	require.NoError(t, s.RefreshNow())

	boom := errors.New("offline")
	f.Errors = map[collector.Kind]error{collector.KindPrices: boom, collector.KindForecast: boom, collector.KindHistorical: boom}
	err := s.RefreshNow()
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrUpstreamFetch)

	dash.Do(func(c *chart.CandleView, _ *chart.ForecastView) {
		assert.False(t, c.Empty())
	})
}

func TestWarmStart_RestoresFromRecorder(t *testing.T) {
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "charts.db"))
	require.NoError(t, err)
	defer rec.Close()

	first := NewScheduler(context.Background(), collector.NewCollector(mockFetcher()), newDashboard(), rec, "")
	require.NoError(t, first.RefreshNow())

	dash := newDashboard()
	boom := errors.New("offline")
	offline := &collector.MockFetcher{Errors: map[collector.Kind]error{collector.KindPrices: boom}}
	second := NewScheduler(context.Background(), collector.NewCollector(offline), dash, rec, "")
	require.NoError(t, second.WarmStart())

	dash.Do(func(c *chart.CandleView, f *chart.ForecastView) {
		assert.Len(t, c.Series().Dates, 12)
		assert.Len(t, f.Timeline().Points, 18)
	})

	n, err := rec.RefreshCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRefreshNow_UnchangedPayloadsKeepViewState(t *testing.T) {
	f := mockFetcher()
	dash := newDashboard()
	s := NewScheduler(context.Background(), collector.NewCollector(f), dash, nil, "")
	require.NoError(t, s.RefreshNow())

	dash.Do(func(c *chart.CandleView, fv *chart.ForecastView) {
		require.True(t, c.ToggleFilter("TIN"))
		require.True(t, fv.ToggleFilter(string(model.SeriesPredicted)))
	})
	require.NoError(t, s.RefreshNow())
	dash.Do(func(c *chart.CandleView, fv *chart.ForecastView) {
		assert.Equal(t, "TIN", c.State().ActiveFilter)
		assert.Equal(t, string(model.SeriesPredicted), fv.State().ActiveFilter)
	})

	f.BasePrice = 25000
	require.NoError(t, s.RefreshNow())
	dash.Do(func(c *chart.CandleView, fv *chart.ForecastView) {
		assert.Equal(t, model.FilterAll, c.State().ActiveFilter)
		assert.Equal(t, model.FilterAll, fv.State().ActiveFilter)
	})
}

func TestWarmStart_AfterRestartSeesNewerRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts.db")

	rec, err := recorder.NewSQLiteRecorder(path)
	require.NoError(t, err)
	first := NewScheduler(context.Background(), collector.NewCollector(mockFetcher()), newDashboard(), rec, "")
	for i := 0; i < 3; i++ {
		require.NoError(t, first.RefreshNow())
	}
	require.NoError(t, rec.Close())

	rec, err = recorder.NewSQLiteRecorder(path)
	require.NoError(t, err)
	f := mockFetcher()
	f.Days = 5
	second := NewScheduler(context.Background(), collector.NewCollector(f), newDashboard(), rec, "")
	require.NoError(t, second.RefreshNow())
	require.NoError(t, rec.Close())

	rec, err = recorder.NewSQLiteRecorder(path)
	require.NoError(t, err)
	defer rec.Close()
	dash := newDashboard()
	third := NewScheduler(context.Background(), collector.NewCollector(mockFetcher()), dash, rec, "")
	require.NoError(t, third.WarmStart())
	dash.Do(func(c *chart.CandleView, _ *chart.ForecastView) {
		assert.Len(t, c.Series().Dates, 5)
	})
}

func TestNextRefreshAndCountdown(t *testing.T) {
	s := NewScheduler(context.Background(), collector.NewCollector(mockFetcher()), newDashboard(), nil, "")
	assert.True(t, s.NextRefresh().IsZero())
	assert.Equal(t, "0:00", s.Countdown(time.Now()))

	require.NoError(t, s.RegisterRefresh("@every 1h"))
	s.Start()
	defer s.Stop()

	next := s.NextRefresh()
	require.False(t, next.IsZero())
	assert.Equal(t, "5:00", s.Countdown(next.Add(-5*time.Minute)))
}

func TestRegisterRefresh_BadSpec(t *testing.T) {
	s := NewScheduler(context.Background(), collector.NewCollector(mockFetcher()), newDashboard(), nil, "")
	assert.Error(t, s.RegisterRefresh("not a cron"))
}
