package chart

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MetalCharts/internal/model"
	"MetalCharts/internal/normalize"
	"MetalCharts/internal/notifier"
	"MetalCharts/internal/render"
)

func testConfig() Config {
	return Config{
		Instruments: []model.Instrument{
			{Code: "TIN", Label: "TIN", Color: "#FFA500"},
			{Code: "LME-TIN", Label: "LME TIN", Color: "#2196F3"},
		},
		Width:              800,
		Height:             350,
		ForecastHeight:     300,
		Seed:               42,
		ForecastInstrument: "TIN",
	}
}

func prices(t *testing.T, payload string) normalize.RawPrices {
	t.Helper()
	raw, err := normalize.DecodePrices(strings.NewReader(payload))
	require.NoError(t, err)
	return raw
}

const tinPrices = `{"data": {"TIN": {"2024-01-01": {"USDTIN": 100}, "2024-01-02": {"USDTIN": 105}}}}`

func TestCandleView_RenderAndHover(t *testing.T) {
	var hovered []*model.Target
	v := NewCandleView(testConfig(), notifier.Funcs{Hover: func(t *model.Target) { hovered = append(hovered, t) }})
	v.SetPrices(prices(t, tinPrices))

	require.Len(t, v.Candles()["TIN"], 2)
	assert.Equal(t, 105.0, v.Candles()["TIN"][1].Close)

	g := v.Render(render.NewRecorder(800, 350))
	require.Equal(t, 2, g.Count(render.HitCandle))

	var box render.Hit
	for _, h := range g.Hits {
		if h.Kind == render.HitCandle {
			box = h
			break
		}
	}
	require.True(t, v.PointerMove(box.Center.X, box.Center.Y))
	require.Len(t, hovered, 1)
	assert.Equal(t, "TIN", hovered[0].Candle.Instrument)
}

func TestCandleView_DeterministicAcrossRepaints(t *testing.T) {
	v := NewCandleView(testConfig(), nil)
	v.SetPrices(prices(t, tinPrices))
	first := append([]model.Candle(nil), v.Candles()["TIN"]...)

	v.ToggleFilter("TIN")
	v.Render(render.NewRecorder(800, 350))
	assert.Equal(t, first, v.Candles()["TIN"])

	other := NewCandleView(testConfig(), nil)
	other.SetPrices(prices(t, tinPrices))
	assert.Equal(t, first, other.Candles()["TIN"])
}

func TestCandleView_DataChangeResetsState(t *testing.T) {
	v := NewCandleView(testConfig(), nil)
	v.SetPrices(prices(t, tinPrices))
	v.ToggleFilter("TIN")
	require.Equal(t, "TIN", v.State().ActiveFilter)

	v.SetPrices(prices(t, tinPrices))
	assert.Equal(t, model.DefaultViewState(), v.State())
}

func TestCandleView_NilPayloadShowsEmpty(t *testing.T) {
	v := NewCandleView(testConfig(), nil)
	assert.ErrorIs(t, v.SetPrices(nil), model.ErrEmptySeries)
	assert.True(t, v.Empty())

	rec := render.NewRecorder(800, 350)
	g := v.Render(rec)
	assert.True(t, g.Empty)
	assert.Contains(t, rec.Texts(), render.NoCandleData)
}

func TestCandleView_CloseIgnoresInput(t *testing.T) {
	v := NewCandleView(testConfig(), nil)
	v.SetPrices(prices(t, tinPrices))
	g := v.Render(render.NewRecorder(800, 350))
	v.Close()

	legend, ok := g.Legend("TIN")
	require.True(t, ok)
	assert.False(t, v.Click(legend.Box.X+1, legend.Box.Y+1))
	assert.Equal(t, model.FilterAll, v.State().ActiveFilter)
}

func TestCandleView_Trends(t *testing.T) {
	v := NewCandleView(testConfig(), nil)
	require.NoError(t, v.SetPrices(prices(t, tinPrices)))
	trends := v.Trends()
	require.Len(t, trends, 1)
	assert.Equal(t, "+5.00%", trends[0].Change)
}

func TestForecastView_MergeAndSelect(t *testing.T) {
	hist, err := normalize.DecodeHistorical(strings.NewReader(`[
		{"date": "2024-01-01", "historical_price": 100},
		{"date": "2024-01-02", "historical_price": 110}
	]`))
	require.NoError(t, err)
	fc, err := normalize.DecodeForecast(strings.NewReader(`{
		"predictions": [{"date": "2024-01-03", "predicted_price": 99}],
		"method": "ai_enhanced_deterministic"
	}`))
	require.NoError(t, err)

	var selected []*model.Target
	v := NewForecastView(testConfig(), notifier.Funcs{Select: func(t *model.Target) { selected = append(selected, t) }})
	require.NoError(t, v.SetSeries(hist, fc))

	tl := v.Timeline()
	require.Len(t, tl.Points, 3)
	assert.Equal(t, "-10.00%", tl.Points[2].Change)
	assert.Contains(t, v.MethodCaption(), "AI-enhanced")

	g := v.Render(render.NewRecorder(800, 300))
	require.Equal(t, 3, g.Count(render.HitPoint))
	last := g.Hits[2]
	require.Equal(t, render.HitPoint, last.Kind)

	require.True(t, v.Click(last.Center.X, last.Center.Y))
	require.Len(t, selected, 1)
	assert.Equal(t, model.SeriesPredicted, selected[0].Point.Type)
	assert.Contains(t, v.SelectionDetails(), "Confidence: High")
}

func TestForecastView_NoSeriesIsEmpty(t *testing.T) {
	v := NewForecastView(testConfig(), nil)
	assert.ErrorIs(t, v.SetSeries(nil, nil), model.ErrEmptySeries)
	assert.True(t, v.Empty())
	assert.True(t, v.Render(render.NewRecorder(800, 300)).Empty)
}

func TestForecastView_FilterBySeriesType(t *testing.T) {
	fc, err := normalize.DecodeForecast(strings.NewReader(`[{"date": "2024-01-03", "predicted_price": 99}]`))
	require.NoError(t, err)
	v := NewForecastView(testConfig(), nil)
	v.SetSeries(nil, fc)

	assert.True(t, v.ToggleFilter(string(model.SeriesHistorical)))
	g := v.Render(render.NewRecorder(800, 300))
	assert.True(t, g.Empty)
	assert.True(t, v.ToggleFilter(string(model.SeriesHistorical)))
	assert.Equal(t, model.FilterAll, v.State().ActiveFilter)
}

func TestDashboard_ViewLookupAndPNG(t *testing.T) {
	d := NewDashboard(testConfig(), nil)
	d.Do(func(c *CandleView, _ *ForecastView) { c.SetPrices(prices(t, tinPrices)) })

	var buf bytes.Buffer
	ok := d.View(KindCandles, func(v View) { require.NoError(t, v.RenderPNG(&buf)) })
	require.True(t, ok)
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 350, img.Bounds().Dy())

	assert.False(t, d.View("pie", func(View) {}))

	d.Close()
	d.Close()
	d.View(KindForecast, func(v View) { assert.False(t, v.ToggleFilter("predicted")) })
}
