package render

import (
	"MetalCharts/internal/layout"
	"MetalCharts/internal/model"
)

// HitKind classifies an interactive region.
type HitKind int

const (
	HitCandle HitKind = iota + 1
	HitPoint
	HitLegend
	HitReset
)

// Hit is one interactive region drawn during the last render pass.
type Hit struct {
	Kind   HitKind
	Box    layout.Rect  // candle, legend entry and reset regions
	Center layout.Point // series point centre
	Filter string       // legend key
	Candle *model.Candle
	Point  *model.TimelinePoint
}

// Target returns the chart element behind the hit, if any.
func (h Hit) Target() *model.Target {
	switch {
	case h.Candle != nil:
		return &model.Target{Candle: h.Candle}
	case h.Point != nil:
		return &model.Target{Point: h.Point}
	}
	return nil
}

// Geometry is the authoritative table of what the last render drew.
type Geometry struct {
	Width  float64
	Height float64
	Empty  bool
	Layout *layout.Layout
	Hits   []Hit
}

// Count returns the number of hits of kind k.
func (g *Geometry) Count(k HitKind) int {
	if g == nil {
		return 0
	}
	n := 0
	for _, h := range g.Hits {
		if h.Kind == k {
			n++
		}
	}
	return n
}

// Legend returns the legend hit with the given filter key.
func (g *Geometry) Legend(filter string) (Hit, bool) {
	if g == nil {
		return Hit{}, false
	}
	for _, h := range g.Hits {
		if h.Kind == HitLegend && h.Filter == filter {
			return h, true
		}
	}
	return Hit{}, false
}
