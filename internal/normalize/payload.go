package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"MetalCharts/internal/model"
)

// Price is a payload number that may be encoded as a JSON number or a
// numeric string. Unparseable input decodes to NaN so that a single bad
// entry never fails the whole payload.
type Price float64

func (p *Price) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*p = Price(math.NaN())
		return nil
	}
	s = strings.Trim(s, `"`)
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*p = Price(math.NaN())
		return nil
	}
	*p = Price(v)
	return nil
}

// usable reports whether the value is a positive finite number.
func usable(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// RawPrices maps instrument code -> ISO date -> key ("USD"+code or code) -> value.
type RawPrices map[string]map[string]map[string]Price

// ForecastPayload is a decoded forecast series.
type ForecastPayload struct {
	Points          []model.PricePoint
	LastActualPrice model.Value
	Method          string
}

// HistoricalPayload is a decoded series of actual prices.
type HistoricalPayload struct {
	Points []model.PricePoint
}

// unwrap strips up to three levels of {"data": ...} envelopes.
func unwrap(raw json.RawMessage) json.RawMessage {
	for i := 0; i < 3; i++ {
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return raw
		}
		var env map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return raw
		}
		inner, ok := env["data"]
		if !ok {
			return raw
		}
		raw = inner
	}
	return raw
}

func readAll(r io.Reader) (json.RawMessage, error) {
	if r == nil {
		return nil, fmt.Errorf("nil reader: %w", model.ErrMalformedPayload)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("empty body: %w", model.ErrMalformedPayload)
	}
	return unwrap(data), nil
}

// DecodePrices decodes a raw price-series payload, bare or wrapped in
// one or more "data" envelopes.
func DecodePrices(r io.Reader) (RawPrices, error) {
	body, err := readAll(r)
	if err != nil {
		return nil, err
	}
	var raw RawPrices
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode prices: %v: %w", err, model.ErrMalformedPayload)
	}
	return raw, nil
}

type seriesEntry struct {
	Date            string `json:"date"`
	PredictedPrice  *Price `json:"predicted_price"`
	HistoricalPrice *Price `json:"historical_price"`
	Price           *Price `json:"price"`
}

func (e seriesEntry) value(primary *Price) (float64, bool) {
	for _, p := range []*Price{primary, e.Price} {
		if p != nil && usable(float64(*p)) {
			return float64(*p), true
		}
	}
	return 0, false
}

// decodeEntries accepts either a bare list or an object carrying the list
// under one of the given keys.
func decodeEntries(body json.RawMessage, keys ...string) ([]seriesEntry, map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []seriesEntry
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, nil, err
		}
		return list, nil, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, nil, err
	}
	for _, k := range keys {
		if v, ok := obj[k]; ok {
			var list []seriesEntry
			if err := json.Unmarshal(v, &list); err != nil {
				return nil, nil, err
			}
			return list, obj, nil
		}
	}
	return nil, obj, nil
}

func toPoints(entries []seriesEntry, pick func(seriesEntry) *Price) []model.PricePoint {
	pts := make([]model.PricePoint, 0, len(entries))
	for _, e := range entries {
		d, err := model.ParseDate(strings.TrimSpace(e.Date))
		if err != nil {
			continue
		}
		v, ok := e.value(pick(e))
		if !ok {
			continue
		}
		pts = append(pts, model.PricePoint{Date: d, Value: v})
	}
	return pts
}

// DecodeForecast decodes a forecast payload: a list of
// {date, predicted_price} entries, optionally inside an object that also
// carries lastActualPrice and method.
func DecodeForecast(r io.Reader) (*ForecastPayload, error) {
	body, err := readAll(r)
	if err != nil {
		return nil, err
	}
	entries, obj, err := decodeEntries(body, "predictions", "forecast")
	if err != nil {
		return nil, fmt.Errorf("decode forecast: %v: %w", err, model.ErrMalformedPayload)
	}
	fp := &ForecastPayload{Points: toPoints(entries, func(e seriesEntry) *Price { return e.PredictedPrice })}
	if raw, ok := obj["lastActualPrice"]; ok {
		var p Price
		if err := p.UnmarshalJSON(raw); err == nil && usable(float64(p)) {
			fp.LastActualPrice = model.Some(float64(p))
		}
	}
	if raw, ok := obj["method"]; ok {
		_ = json.Unmarshal(raw, &fp.Method)
	}
	return fp, nil
}

// DecodeHistorical decodes a list of {date, historical_price} entries.
func DecodeHistorical(r io.Reader) (*HistoricalPayload, error) {
	body, err := readAll(r)
	if err != nil {
		return nil, err
	}
	entries, _, err := decodeEntries(body, "historical", "prices")
	if err != nil {
		return nil, fmt.Errorf("decode historical: %v: %w", err, model.ErrMalformedPayload)
	}
	return &HistoricalPayload{Points: toPoints(entries, func(e seriesEntry) *Price { return e.HistoricalPrice })}, nil
}
