package calculator

import "MetalCharts/internal/model"

// Trend summarizes an instrument's movement across its whole series.
type Trend struct {
	Instrument string             `json:"instrument"`
	First      float64            `json:"first"`
	Latest     float64            `json:"latest"`
	ChangePct  float64            `json:"change_pct"`
	Change     string             `json:"change"`
	Up         bool               `json:"up"`
	Sparkline  []model.PricePoint `json:"-"`
}

// TrendOf compares the latest value with the first one. It needs at least
// two points.
func TrendOf(instrument string, pts []model.PricePoint) (Trend, bool) {
	if len(pts) < 2 {
		return Trend{Instrument: instrument}, false
	}
	first, latest := pts[0].Value, pts[len(pts)-1].Value
	pct := PercentChange(first, latest)
	sp := make([]model.PricePoint, len(pts))
	copy(sp, pts)
	return Trend{
		Instrument: instrument,
		First:      first,
		Latest:     latest,
		ChangePct:  pct,
		Change:     FormatChange(pct),
		Up:         pct >= 0,
		Sparkline:  sp,
	}, true
}

// Trends computes a trend per instrument in the given order, skipping
// instruments with fewer than two points.
func Trends(ns *model.NormalizedSeries) []Trend {
	if ns == nil {
		return nil
	}
	var out []Trend
	for _, inst := range ns.Instruments {
		if tr, ok := TrendOf(inst.Code, ns.Series[inst.Code]); ok {
			out = append(out, tr)
		}
	}
	return out
}
