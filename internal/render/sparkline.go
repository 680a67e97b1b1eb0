package render

import (
	"image/color"

	"MetalCharts/internal/layout"
)

const (
	sparkPad    = 2
	sparkDotRad = 2
)

// Sparkline paints a bare trend line across the whole surface with dots on
// the first, middle and last values. A flat series is drawn at the bottom.
func (r *Renderer) Sparkline(s Surface, values []float64, c color.Color) []layout.Point {
	w, h := s.Size()
	if len(values) == 0 {
		return nil
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo, hi = min(lo, v), max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	innerW, innerH := w-2*sparkPad, h-2*sparkPad
	pts := make([]layout.Point, len(values))
	for i, v := range values {
		x := sparkPad + innerW/2
		if len(values) > 1 {
			x = sparkPad + float64(i)/float64(len(values)-1)*innerW
		}
		pts[i] = layout.Point{X: x, Y: sparkPad + innerH - (v-lo)/span*innerH}
	}

	s.Polyline(pts, Stroke{Color: c, Width: 1.5})
	for _, i := range []int{0, len(pts) / 2, len(pts) - 1} {
		s.FillCircle(pts[i], sparkDotRad, c)
	}
	return pts
}
