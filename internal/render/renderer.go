package render

import (
	"time"

	"MetalCharts/internal/calculator"
	"MetalCharts/internal/layout"
	"MetalCharts/internal/model"
)

const (
	fontSize      = 12
	axisFontSize  = 10
	emptyFontSize = 16
	gridWidth     = 0.5
	dateLabelGap  = 14
)

var gridDash = []float64{3, 3}

// Renderer paints charts with a fixed theme and layout options.
type Renderer struct {
	Theme   Theme
	Options layout.Options
}

// NewRenderer returns a Renderer using DefaultTheme.
func NewRenderer(opts layout.Options) *Renderer {
	return &Renderer{Theme: DefaultTheme, Options: opts}
}

func (r *Renderer) layoutFor(s Surface, dates []time.Time, values calculator.Range) *layout.Layout {
	opts := r.Options
	opts.Width, opts.Height = s.Size()
	return layout.Compute(opts, dates, values)
}

func (r *Renderer) background(s Surface) {
	w, h := s.Size()
	s.FillRect(layout.Rect{W: w, H: h}, r.Theme.Background)
}

// grid paints dashed horizontal and vertical gridlines with their labels.
func (r *Renderer) grid(s Surface, l *layout.Layout) {
	st := Stroke{Color: r.Theme.Grid, Width: gridWidth, Dash: gridDash}
	for _, g := range l.HGrid {
		s.Line(layout.Point{X: l.Plot.X, Y: g.Y}, layout.Point{X: l.Plot.Right(), Y: g.Y}, st)
		s.Text(layout.Point{X: l.Plot.X - 10, Y: g.Y + 4}, g.Label,
			TextStyle{Color: r.Theme.AxisText, Size: fontSize, Align: AlignRight})
	}
	for _, t := range l.VGrid {
		s.Line(layout.Point{X: t.X, Y: l.Plot.Y}, layout.Point{X: t.X, Y: l.Plot.Bottom()}, st)
		s.Text(layout.Point{X: t.X, Y: l.Plot.Bottom() + dateLabelGap}, t.Label,
			TextStyle{Color: r.Theme.AxisText, Size: axisFontSize, Align: AlignCenter})
	}
}

func (r *Renderer) empty(s Surface, msg string) {
	w, h := s.Size()
	s.Text(layout.Point{X: w / 2, Y: h / 2}, msg,
		TextStyle{Color: r.Theme.EmptyText, Size: emptyFontSize, Align: AlignCenter})
}

// sameTarget reports whether hit h draws the element t refers to.
func sameTarget(t *model.Target, h Hit) bool {
	switch {
	case t == nil:
		return false
	case t.Candle != nil && h.Candle != nil:
		return t.Candle.Instrument == h.Candle.Instrument && t.Candle.Date.Equal(h.Candle.Date)
	case t.Point != nil && h.Point != nil:
		return t.Point.Type == h.Point.Type && t.Point.Date.Equal(h.Point.Date)
	}
	return false
}
