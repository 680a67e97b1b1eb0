package render

import (
	"image/color"
	"unicode/utf8"

	"MetalCharts/internal/layout"
)

// Op names a recorded drawing command.
type Op string

const (
	OpFillRect    Op = "fill_rect"
	OpStrokeRect  Op = "stroke_rect"
	OpLine        Op = "line"
	OpPolyline    Op = "polyline"
	OpFillPolygon Op = "fill_polygon"
	OpFillCircle  Op = "fill_circle"
	OpText        Op = "text"
)

// Command is one recorded drawing call.
type Command struct {
	Op     Op
	Rect   layout.Rect
	Points []layout.Point
	Radius float64
	Color  color.Color
	Stroke Stroke
	Width  float64
	Text   string
	Style  TextStyle
}

// Recorder is a Surface that records drawing calls instead of painting.
// Text is measured at a fixed advance per rune.
type Recorder struct {
	W, H     float64
	Advance  float64
	Commands []Command
}

// NewRecorder returns a Recorder of the given size using 7px glyphs.
func NewRecorder(w, h float64) *Recorder {
	return &Recorder{W: w, H: h, Advance: 7}
}

func (r *Recorder) Size() (float64, float64) { return r.W, r.H }

func (r *Recorder) FillRect(rect layout.Rect, c color.Color) {
	r.Commands = append(r.Commands, Command{Op: OpFillRect, Rect: rect, Color: c})
}

func (r *Recorder) StrokeRect(rect layout.Rect, c color.Color, width float64) {
	r.Commands = append(r.Commands, Command{Op: OpStrokeRect, Rect: rect, Color: c, Width: width})
}

func (r *Recorder) Line(a, b layout.Point, s Stroke) {
	r.Commands = append(r.Commands, Command{Op: OpLine, Points: []layout.Point{a, b}, Stroke: s, Color: s.Color})
}

func (r *Recorder) Polyline(pts []layout.Point, s Stroke) {
	cp := append([]layout.Point(nil), pts...)
	r.Commands = append(r.Commands, Command{Op: OpPolyline, Points: cp, Stroke: s, Color: s.Color})
}

func (r *Recorder) FillPolygon(pts []layout.Point, c color.Color) {
	cp := append([]layout.Point(nil), pts...)
	r.Commands = append(r.Commands, Command{Op: OpFillPolygon, Points: cp, Color: c})
}

func (r *Recorder) FillCircle(center layout.Point, radius float64, c color.Color) {
	r.Commands = append(r.Commands, Command{Op: OpFillCircle, Points: []layout.Point{center}, Radius: radius, Color: c})
}

func (r *Recorder) Text(at layout.Point, text string, st TextStyle) {
	r.Commands = append(r.Commands, Command{Op: OpText, Points: []layout.Point{at}, Text: text, Style: st, Color: st.Color})
}

func (r *Recorder) MeasureText(text string, _ TextStyle) float64 {
	return float64(utf8.RuneCountInString(text)) * r.Advance
}

// Select returns the recorded commands matching keep.
func (r *Recorder) Select(keep func(Command) bool) []Command {
	var out []Command
	for _, c := range r.Commands {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// Texts returns every recorded text run in drawing order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, c := range r.Commands {
		if c.Op == OpText {
			out = append(out, c.Text)
		}
	}
	return out
}

// Reset drops all recorded commands.
func (r *Recorder) Reset() { r.Commands = r.Commands[:0] }
