package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"MetalCharts/internal/model"
)

// MockFetcher generates plausible payloads for development and testing.
// Fixed entries in Payloads are returned as-is.
type MockFetcher struct {
	Instruments []model.Instrument
	BasePrice   float64
	Days        int
	Horizon     int
	Payloads    map[Kind][]byte
	Errors      map[Kind]error
	Now         func() time.Time
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) Fetch(_ context.Context, kind Kind) ([]byte, error) {
	if err, ok := m.Errors[kind]; ok && err != nil {
		return nil, fmt.Errorf("fetch %s: %w: %w", kind, model.ErrUpstreamFetch, err)
	}
	if body, ok := m.Payloads[kind]; ok {
		return body, nil
	}
	switch kind {
	case KindPrices:
		return json.Marshal(map[string]any{"data": m.prices()})
	case KindHistorical:
		return json.Marshal(map[string]any{"historical": m.historical()})
	case KindForecast:
		return json.Marshal(m.forecast())
	}
	return nil, fmt.Errorf("fetch %s: unknown payload: %w", kind, model.ErrUpstreamFetch)
}

func (m *MockFetcher) today() time.Time {
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	y, mo, d := now().UTC().Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

func (m *MockFetcher) days() int {
	if m.Days <= 0 {
		return 30
	}
	return m.Days
}

func (m *MockFetcher) base() float64 {
	if m.BasePrice <= 0 {
		return 31000
	}
	return m.BasePrice
}

// price is a smooth deterministic walk so repeated fetches agree.
func (m *MockFetcher) price(series, day int) float64 {
	p := m.base() * (1 + float64(series)*0.01)
	return math.Round(p*(1+0.02*math.Sin(float64(day)/4+float64(series))+float64(day)*0.0005)*100) / 100
}

func (m *MockFetcher) prices() map[string]map[string]map[string]float64 {
	out := make(map[string]map[string]map[string]float64, len(m.Instruments))
	start := m.today().AddDate(0, 0, -m.days()+1)
	for si, inst := range m.Instruments {
		byDate := make(map[string]map[string]float64, m.days())
		for i := 0; i < m.days(); i++ {
			key := inst.Code
			if si%2 == 0 {
				key = "USD" + inst.Code
			}
			byDate[model.DateKey(start.AddDate(0, 0, i))] = map[string]float64{key: m.price(si, i)}
		}
		out[inst.Code] = byDate
	}
	return out
}

type mockEntry struct {
	Date            string  `json:"date"`
	HistoricalPrice float64 `json:"historical_price,omitempty"`
	PredictedPrice  float64 `json:"predicted_price,omitempty"`
}

func (m *MockFetcher) historical() []mockEntry {
	start := m.today().AddDate(0, 0, -m.days()+1)
	out := make([]mockEntry, m.days())
	for i := range out {
		out[i] = mockEntry{Date: model.DateKey(start.AddDate(0, 0, i)), HistoricalPrice: m.price(0, i)}
	}
	return out
}

func (m *MockFetcher) forecast() map[string]any {
	horizon := m.Horizon
	if horizon <= 0 {
		horizon = 30
	}
	last := m.price(0, m.days()-1)
	preds := make([]mockEntry, horizon)
	for i := range preds {
		preds[i] = mockEntry{
			Date:           model.DateKey(m.today().AddDate(0, 0, i+1)),
			PredictedPrice: m.price(0, m.days()+i),
		}
	}
	return map[string]any{
		"predictions":     preds,
		"lastActualPrice": fmt.Sprintf("%.2f", last),
		"method":          "statistical",
	}
}
