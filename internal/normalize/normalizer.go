// Package normalize turns heterogeneous raw price payloads into uniform,
// date-ordered series per instrument.
package normalize

import (
	"fmt"
	"log"
	"sort"
	"time"

	"MetalCharts/internal/model"
)

// Normalizer maps raw payloads onto the configured instrument set.
type Normalizer struct {
	instruments []model.Instrument
}

// NewNormalizer creates a Normalizer tracking the given instruments in order.
func NewNormalizer(instruments []model.Instrument) *Normalizer {
	cp := make([]model.Instrument, len(instruments))
	copy(cp, instruments)
	return &Normalizer{instruments: cp}
}

// Instruments returns the tracked instruments in configured order.
func (n *Normalizer) Instruments() []model.Instrument {
	cp := make([]model.Instrument, len(n.instruments))
	copy(cp, n.instruments)
	return cp
}

// Normalize builds the per-instrument series and the shared date axis.
// A nil payload yields an empty series. Dates where neither the
// "USD"+code key nor the bare code key holds a usable value are skipped
// for that instrument but still contribute to the date axis.
func (n *Normalizer) Normalize(raw RawPrices) *model.NormalizedSeries {
	out := &model.NormalizedSeries{
		Instruments: n.Instruments(),
		Series:      make(map[string][]model.PricePoint, len(n.instruments)),
	}
	axis := make(map[string]struct{})

	for _, inst := range n.instruments {
		byDate := raw[inst.Code]
		keys := make([]string, 0, len(byDate))
		for k := range byDate {
			if _, err := model.ParseDate(k); err != nil {
				log.Printf("[WARN] %s: skipping unparseable date %q", inst.Code, k)
				continue
			}
			keys = append(keys, k)
			axis[k] = struct{}{}
		}
		// ISO dates sort chronologically as strings.
		sort.Strings(keys)

		pts := make([]model.PricePoint, 0, len(keys))
		for _, k := range keys {
			v, ok := lookup(byDate[k], inst.Code)
			if !ok {
				log.Printf("[WARN] %s: skipping %s: %v", inst.Code, k,
					fmt.Errorf("no usable value under %q or %q: %w", "USD"+inst.Code, inst.Code, model.ErrMalformedPayload))
				continue
			}
			d, _ := model.ParseDate(k)
			pts = append(pts, model.PricePoint{Date: d, Value: v})
		}
		out.Series[inst.Code] = pts
	}

	keys := make([]string, 0, len(axis))
	for k := range axis {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out.Dates = make([]time.Time, 0, len(keys))
	for _, k := range keys {
		d, _ := model.ParseDate(k)
		out.Dates = append(out.Dates, d)
	}
	return out
}

func lookup(entry map[string]Price, code string) (float64, bool) {
	if entry == nil {
		return 0, false
	}
	if v, ok := entry["USD"+code]; ok && usable(float64(v)) {
		return float64(v), true
	}
	if v, ok := entry[code]; ok && usable(float64(v)) {
		return float64(v), true
	}
	return 0, false
}
