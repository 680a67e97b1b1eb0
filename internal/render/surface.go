// Package render paints charts onto a Surface and returns the geometry
// that was drawn, for hit-testing.
//
// Rendering is a pure function of its inputs: the renderers hold no state
// and can be re-run on every repaint.
package render

import (
	"image/color"

	"MetalCharts/internal/layout"
)

// Align is the horizontal anchor of a text run.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Stroke describes a stroked line. A non-empty Dash alternates on/off lengths.
type Stroke struct {
	Color color.Color
	Width float64
	Dash  []float64
}

// TextStyle describes a text run. Y positions passed to Text are baselines.
type TextStyle struct {
	Color color.Color
	Size  float64
	Bold  bool
	Align Align
}

// Surface is the raw drawing target.
type Surface interface {
	Size() (w, h float64)
	FillRect(r layout.Rect, c color.Color)
	StrokeRect(r layout.Rect, c color.Color, width float64)
	Line(a, b layout.Point, s Stroke)
	Polyline(pts []layout.Point, s Stroke)
	FillPolygon(pts []layout.Point, c color.Color)
	FillCircle(center layout.Point, radius float64, c color.Color)
	Text(at layout.Point, text string, st TextStyle)
	MeasureText(text string, st TextStyle) float64
}
