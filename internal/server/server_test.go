package server

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MetalCharts/internal/chart"
	"MetalCharts/internal/model"
	"MetalCharts/internal/normalize"
	"MetalCharts/internal/render"
)

var instruments = []model.Instrument{
	{Code: "TIN", Label: "TIN", Color: "#FFA500"},
	{Code: "LME-TIN", Label: "LME TIN", Color: "#2196F3"},
}

type fixedClock time.Time

func (c fixedClock) NextRefresh() time.Time { return time.Time(c) }

func newTestServer(t *testing.T) (*Server, *chart.Dashboard) {
	t.Helper()
	dash := chart.NewDashboard(chart.Config{Instruments: instruments, ForecastInstrument: "TIN"}, nil)
	raw, err := normalize.DecodePrices(strings.NewReader(`{"TIN": {
		"2024-01-01": {"USDTIN": 100}, "2024-01-02": {"USDTIN": 105}, "2024-01-03": {"USDTIN": 103}
	}}`))
	require.NoError(t, err)
	dash.Do(func(c *chart.CandleView, _ *chart.ForecastView) { c.SetPrices(raw) })
	return New("127.0.0.1:0", dash, instruments, fixedClock(time.Now().Add(3*time.Minute))), dash
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s.Routes(), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "ok", got.Status)
	assert.NotNil(t, got.NextRefresh)
	assert.Regexp(t, `^[23]:\d\d$`, got.Countdown)
}

func TestChartPNG(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Routes()

	for _, kind := range []string{chart.KindCandles, chart.KindForecast} {
		rec := do(t, h, http.MethodGet, "/charts/"+kind+".png", "")
		require.Equal(t, http.StatusOK, rec.Code, kind)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		_, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
		assert.NoError(t, err, kind)
	}

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/charts/pie.png", "").Code)
}

func candleCenter(t *testing.T, dash *chart.Dashboard) (float64, float64) {
	t.Helper()
	var x, y float64
	dash.View(chart.KindCandles, func(v chart.View) {
		g := v.Render(render.NewRecorder(800, 350))
		for _, h := range g.Hits {
			if h.Kind == render.HitCandle {
				x, y = h.Center.X, h.Center.Y
				return
			}
		}
		t.Fatal("no candle rendered")
	})
	return x, y
}

func TestPointerHoverAndClick(t *testing.T) {
	s, dash := newTestServer(t)
	h := s.Routes()
	x, y := candleCenter(t, dash)

	body, _ := json.Marshal(pointerRequest{X: x, Y: y, Action: "move"})
	rec := do(t, h, http.MethodPost, "/charts/candles/pointer", string(body))
	require.Equal(t, http.StatusOK, rec.Code)

	var got stateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.Changed)
	require.NotNil(t, got.Hover)
	require.NotNil(t, got.Hover.Candle)
	assert.Equal(t, "TIN", got.Hover.Candle.Instrument)
	assert.Equal(t, "TIN - Jan 1", got.Tooltip[0])

	body, _ = json.Marshal(pointerRequest{X: x, Y: y, Action: "click"})
	rec = do(t, h, http.MethodPost, "/charts/candles/pointer", string(body))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotNil(t, got.Selected)

	rec = do(t, h, http.MethodPost, "/charts/candles/pointer", `{"action":"leave"}`)
	got = stateResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Nil(t, got.Hover)
}

func TestPointerRejectsBadInput(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Routes()
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/charts/candles/pointer", `{"action":"drag"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/charts/candles/pointer", `nope`).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPost, "/charts/pie/pointer", `{"action":"move"}`).Code)
}

func TestFilterToggle(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Routes()

	var got stateResponse
	rec := do(t, h, http.MethodPost, "/charts/candles/filter", `{"key":"TIN"}`)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "TIN", got.Filter)

	rec = do(t, h, http.MethodPost, "/charts/candles/filter", `{"key":"TIN"}`)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, model.FilterAll, got.Filter)

	rec = do(t, h, http.MethodGet, "/charts/candles/state", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestTrending(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Routes()

	rec := do(t, h, http.MethodGet, "/trending", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var trends []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &trends))
	require.Len(t, trends, 1)
	assert.Equal(t, "TIN", trends[0]["instrument"])
	assert.Equal(t, "+3.00%", trends[0]["change"])

	rec = do(t, h, http.MethodGet, "/trending/TIN.png", "")
	require.Equal(t, http.StatusOK, rec.Code)
	_, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	assert.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/trending/GOLD.png", "").Code)
}
