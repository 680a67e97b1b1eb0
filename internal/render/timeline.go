package render

import (
	"image/color"

	"MetalCharts/internal/calculator"
	"MetalCharts/internal/layout"
	"MetalCharts/internal/model"
	"MetalCharts/internal/timeline"
)

const (
	// NoTimelineData is shown when neither series has a visible value.
	NoTimelineData = "No data available"

	PointRadius = 5
	ringRadius  = 7
	lineWidth   = 2
)

var predictedDash = []float64{6, 4}

// Timeline paints the merged historical and predicted series. Filter keys
// are the series types. Values are never joined across an absence.
func (r *Renderer) Timeline(s Surface, tl *model.Timeline, view model.ViewState) *Geometry {
	if tl == nil {
		tl = &model.Timeline{}
	}
	showHist := view.Shows(string(model.SeriesHistorical))
	showPred := view.Shows(string(model.SeriesPredicted))

	var values calculator.Range
	addAll := func(vs []model.Value) {
		for _, v := range vs {
			if v.Valid {
				values.Add(v.V)
			}
		}
	}
	if showHist {
		addAll(tl.Historical)
	}
	if showPred {
		addAll(tl.Predicted)
	}

	w, h := s.Size()
	l := r.layoutFor(s, tl.Dates, values)
	g := &Geometry{Width: w, Height: h, Layout: l, Empty: !values.OK}

	r.background(s)
	if g.Empty {
		r.empty(s, NoTimelineData)
	} else {
		r.grid(s, l)
		if showHist {
			r.series(s, l, tl.Historical, r.Theme.Historical, nil)
		}
		if showPred {
			r.series(s, l, tl.Predicted, r.Theme.Predicted, predictedDash)
		}
		r.points(s, g, tl, view, showHist, showPred)
	}

	r.legend(s, g, []legendEntry{
		{Key: string(model.SeriesHistorical), Label: "Historical", Color: r.Theme.Historical, Enabled: anyValid(tl.Historical)},
		{Key: string(model.SeriesPredicted), Label: "Predicted", Color: r.Theme.Predicted, Enabled: anyValid(tl.Predicted)},
	}, view.ActiveFilter)
	r.tooltip(s, g, view.Hovered, nil)
	return g
}

// series strokes and fills every run of consecutive present values.
func (r *Renderer) series(s Surface, l *layout.Layout, vs []model.Value, col color.RGBA, dash []float64) {
	var run []layout.Point
	flush := func() {
		if len(run) >= 2 {
			area := make([]layout.Point, 0, len(run)+2)
			area = append(area, run...)
			area = append(area,
				layout.Point{X: run[len(run)-1].X, Y: l.Plot.Bottom()},
				layout.Point{X: run[0].X, Y: l.Plot.Bottom()})
			s.FillPolygon(area, withAlpha(col, r.Theme.AreaAlpha))
			s.Polyline(run, Stroke{Color: col, Width: lineWidth, Dash: dash})
		}
		run = nil
	}
	for i, v := range vs {
		if !v.Valid {
			flush()
			continue
		}
		run = append(run, layout.Point{X: l.X(i), Y: l.Y(v.V)})
	}
	flush()
}

func (r *Renderer) points(s Surface, g *Geometry, tl *model.Timeline, view model.ViewState, showHist, showPred bool) {
	l := g.Layout
	for i := range tl.Points {
		p := tl.Points[i]
		col := r.Theme.Historical
		switch p.Type {
		case model.SeriesHistorical:
			if !showHist {
				continue
			}
		case model.SeriesPredicted:
			if !showPred {
				continue
			}
			col = mustColor(timeline.BandFor(p.Confidence).Color, r.Theme.Predicted)
		}
		hit := Hit{
			Kind:   HitPoint,
			Center: layout.Point{X: l.X(p.DateIndex), Y: l.Y(p.Value)},
			Point:  &p,
		}
		hit.Box = layout.Rect{X: hit.Center.X - PointRadius, Y: hit.Center.Y - PointRadius, W: 2 * PointRadius, H: 2 * PointRadius}
		if sameTarget(view.Hovered, hit) || sameTarget(view.Selected, hit) {
			s.FillCircle(hit.Center, ringRadius, r.Theme.Highlight)
		}
		s.FillCircle(hit.Center, PointRadius, col)
		g.Hits = append(g.Hits, hit)
	}
}

func anyValid(vs []model.Value) bool {
	for _, v := range vs {
		if v.Valid {
			return true
		}
	}
	return false
}
