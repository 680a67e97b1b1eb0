package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"MetalCharts/internal/layout"
)

const circleSegments = 24

// Raster is a Surface backed by an RGBA image. Paths are filled with an
// anti-aliasing rasterizer and text uses the fixed 7x13 bitmap face.
type Raster struct {
	img  *image.RGBA
	z    *vector.Rasterizer
	face font.Face
}

// NewRaster returns a transparent raster surface of w by h pixels.
func NewRaster(w, h int) *Raster {
	z := vector.NewRasterizer(w, h)
	z.DrawOp = draw.Over
	return &Raster{
		img:  image.NewRGBA(image.Rect(0, 0, w, h)),
		z:    z,
		face: basicfont.Face7x13,
	}
}

// Image returns the painted image.
func (r *Raster) Image() *image.RGBA { return r.img }

func (r *Raster) Size() (float64, float64) {
	b := r.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

// EncodePNG writes the painted image as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, r.img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func (r *Raster) fill(pts []layout.Point, c color.Color) {
	if len(pts) < 3 {
		return
	}
	b := r.img.Bounds()
	r.z.Reset(b.Dx(), b.Dy())
	r.z.DrawOp = draw.Over
	r.z.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		r.z.LineTo(float32(p.X), float32(p.Y))
	}
	r.z.ClosePath()
	r.z.Draw(r.img, b, image.NewUniform(c), image.Point{})
}

func (r *Raster) FillRect(rect layout.Rect, c color.Color) {
	r.fill([]layout.Point{
		{X: rect.X, Y: rect.Y},
		{X: rect.Right(), Y: rect.Y},
		{X: rect.Right(), Y: rect.Bottom()},
		{X: rect.X, Y: rect.Bottom()},
	}, c)
}

func (r *Raster) StrokeRect(rect layout.Rect, c color.Color, width float64) {
	st := Stroke{Color: c, Width: width}
	tl := layout.Point{X: rect.X, Y: rect.Y}
	tr := layout.Point{X: rect.Right(), Y: rect.Y}
	br := layout.Point{X: rect.Right(), Y: rect.Bottom()}
	bl := layout.Point{X: rect.X, Y: rect.Bottom()}
	r.Polyline([]layout.Point{tl, tr, br, bl, tl}, st)
}

func (r *Raster) Line(a, b layout.Point, s Stroke) {
	for _, seg := range dashSegments(a, b, s.Dash) {
		r.segment(seg[0], seg[1], s)
	}
}

// Polyline strokes consecutive segments. The dash pattern restarts on each segment.
func (r *Raster) Polyline(pts []layout.Point, s Stroke) {
	for i := 1; i < len(pts); i++ {
		r.Line(pts[i-1], pts[i], s)
	}
}

// segment fills the quad covering a solid line of the stroke width.
func (r *Raster) segment(a, b layout.Point, s Stroke) {
	dx, dy := b.X-a.X, b.Y-a.Y
	n := math.Hypot(dx, dy)
	if n == 0 {
		return
	}
	w := math.Max(s.Width, 1) / 2
	nx, ny := -dy/n*w, dx/n*w
	r.fill([]layout.Point{
		{X: a.X + nx, Y: a.Y + ny},
		{X: b.X + nx, Y: b.Y + ny},
		{X: b.X - nx, Y: b.Y - ny},
		{X: a.X - nx, Y: a.Y - ny},
	}, s.Color)
}

func (r *Raster) FillPolygon(pts []layout.Point, c color.Color) { r.fill(pts, c) }

func (r *Raster) FillCircle(center layout.Point, radius float64, c color.Color) {
	pts := make([]layout.Point, circleSegments)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / circleSegments
		pts[i] = layout.Point{X: center.X + radius*math.Cos(a), Y: center.Y + radius*math.Sin(a)}
	}
	r.fill(pts, c)
}

func (r *Raster) Text(at layout.Point, text string, st TextStyle) {
	x := at.X
	switch st.Align {
	case AlignCenter:
		x -= r.MeasureText(text, st) / 2
	case AlignRight:
		x -= r.MeasureText(text, st)
	}
	d := &font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(st.Color),
		Face: r.face,
		Dot:  fixed.P(int(math.Round(x)), int(math.Round(at.Y))),
	}
	d.DrawString(text)
	if st.Bold {
		d.Dot = fixed.P(int(math.Round(x))+1, int(math.Round(at.Y)))
		d.DrawString(text)
	}
}

func (r *Raster) MeasureText(text string, st TextStyle) float64 {
	w := float64(font.MeasureString(r.face, text).Round())
	if st.Bold {
		w++
	}
	return w
}

// dashSegments splits a..b into the "on" pieces of an on/off pattern.
// An empty or non-positive pattern yields the whole segment.
func dashSegments(a, b layout.Point, dash []float64) [][2]layout.Point {
	total := math.Hypot(b.X-a.X, b.Y-a.Y)
	var period float64
	for _, d := range dash {
		if d < 0 {
			period = 0
			break
		}
		period += d
	}
	if len(dash) == 0 || period <= 0 || total == 0 {
		return [][2]layout.Point{{a, b}}
	}

	at := func(t float64) layout.Point {
		return layout.Point{X: a.X + (b.X-a.X)*t/total, Y: a.Y + (b.Y-a.Y)*t/total}
	}
	var out [][2]layout.Point
	pos, i := 0.0, 0
	for pos < total {
		end := math.Min(pos+dash[i%len(dash)], total)
		if i%2 == 0 && end > pos {
			out = append(out, [2]layout.Point{at(pos), at(end)})
		}
		pos = end
		i++
	}
	return out
}
