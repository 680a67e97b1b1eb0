package render

import (
	"math"
	"time"

	"MetalCharts/internal/calculator"
	"MetalCharts/internal/layout"
	"MetalCharts/internal/model"
)

// NoCandleData is shown when no visible instrument has candles.
const NoCandleData = "No data available for the selected metals"

// CandleInput is the synthesized data of one candle chart.
type CandleInput struct {
	Instruments []model.Instrument // fixed drawing and legend order
	Dates       []time.Time
	Candles     map[string][]model.Candle
}

// Candles paints a multi-instrument candle chart and returns its geometry.
// Instruments outside the active filter are left out of the value range.
func (r *Renderer) Candles(s Surface, in CandleInput, view model.ViewState) *Geometry {
	var visible []model.Instrument
	var values calculator.Range
	for _, inst := range in.Instruments {
		cs := in.Candles[inst.Code]
		if len(cs) == 0 || !view.Shows(inst.Code) {
			continue
		}
		visible = append(visible, inst)
		for _, c := range cs {
			values.Add(c.High)
			values.Add(c.Low)
		}
	}

	w, h := s.Size()
	l := r.layoutFor(s, in.Dates, values)
	g := &Geometry{Width: w, Height: h, Layout: l, Empty: len(visible) == 0}

	r.background(s)
	if g.Empty {
		r.empty(s, NoCandleData)
	} else {
		r.grid(s, l)
		r.candleSeries(s, g, in, visible, view)
	}

	entries := make([]legendEntry, 0, len(in.Instruments))
	for _, inst := range in.Instruments {
		entries = append(entries, legendEntry{
			Key:     inst.Code,
			Label:   inst.Label,
			Color:   mustColor(inst.Color, r.Theme.LegendText),
			Enabled: len(in.Candles[inst.Code]) > 0,
		})
	}
	r.legend(s, g, entries, view.ActiveFilter)

	labels := make(map[string]string, len(in.Instruments))
	for _, inst := range in.Instruments {
		labels[inst.Code] = inst.Label
	}
	r.tooltip(s, g, view.Hovered, labels)
	return g
}

func (r *Renderer) candleSeries(s Surface, g *Geometry, in CandleInput, visible []model.Instrument, view model.ViewState) {
	l := g.Layout
	index := make(map[string]int, len(in.Dates))
	for i, d := range in.Dates {
		index[model.DateKey(d)] = i
	}

	cw := math.Max(l.Plot.W/float64(max(len(in.Dates), 1)*4), 1)
	k := float64(len(visible))
	for vi, inst := range visible {
		col := mustColor(inst.Color, r.Theme.LegendText)
		offset := (float64(vi) - (k-1)/2) * cw * 1.5
		for _, c := range in.Candles[inst.Code] {
			di, ok := index[model.DateKey(c.Date)]
			if !ok {
				continue
			}
			x := l.X(di) + offset
			yHigh, yLow := l.Y(c.High), l.Y(c.Low)
			yOpen, yClose := l.Y(c.Open), l.Y(c.Close)

			s.Line(layout.Point{X: x, Y: yHigh}, layout.Point{X: x, Y: yLow}, Stroke{Color: col, Width: 1})

			body := layout.Rect{
				X: x - cw/2,
				Y: math.Min(yOpen, yClose),
				W: cw,
				H: math.Max(math.Abs(yOpen-yClose), 1),
			}
			fill := r.Theme.Down
			if c.IsUp() {
				fill = r.Theme.Up
			}
			s.FillRect(body, fill)
			s.StrokeRect(body, col, 1)

			cc := c
			hit := Hit{
				Kind:   HitCandle,
				Box:    layout.Rect{X: x - cw/2, Y: yHigh, W: cw, H: math.Max(yLow-yHigh, 1)},
				Candle: &cc,
			}
			hit.Center = hit.Box.Center()
			if sameTarget(view.Hovered, hit) || sameTarget(view.Selected, hit) {
				s.StrokeRect(hit.Box.Inset(-2), r.Theme.Highlight, 2)
			}
			g.Hits = append(g.Hits, hit)
		}
	}
}
