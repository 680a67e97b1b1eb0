// Package layout maps dates and prices onto drawing-surface coordinates.
package layout

import (
	"math"
	"time"

	"MetalCharts/internal/calculator"
)

const (
	// RangePadding widens the value range on each side.
	RangePadding = 0.05
	// DefaultMinRangeWidth is the smallest value span a chart is drawn with.
	DefaultMinRangeWidth = 1.0
	// DefaultGridDivisions is the number of horizontal grid intervals.
	DefaultGridDivisions = 5
	// DefaultMaxDateLabels bounds the number of x-axis labels.
	DefaultMaxDateLabels = 10
)

// Margins reserve room around the plot for labels and the legend.
type Margins struct {
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
	Left   float64 `yaml:"left"`
}

// DefaultMargins matches the dashboard's candle chart.
var DefaultMargins = Margins{Top: 20, Right: 40, Bottom: 50, Left: 60}

// Options configures Compute. Zero fields take defaults.
type Options struct {
	Width         float64
	Height        float64
	Margins       Margins
	MinRangeWidth float64
	GridDivisions int
	MaxDateLabels int
}

func (o Options) withDefaults() Options {
	if o.Margins == (Margins{}) {
		o.Margins = DefaultMargins
	}
	if o.MinRangeWidth <= 0 {
		o.MinRangeWidth = DefaultMinRangeWidth
	}
	if o.GridDivisions <= 0 {
		o.GridDivisions = DefaultGridDivisions
	}
	if o.MaxDateLabels <= 0 {
		o.MaxDateLabels = DefaultMaxDateLabels
	}
	return o
}

// GridLine is one horizontal gridline with its value label.
type GridLine struct {
	Y     float64
	Value float64
	Label string
}

// DateTick is one vertical gridline with its date label.
type DateTick struct {
	Index int
	X     float64
	Label string
}

// Layout is the computed mapping for one render pass.
type Layout struct {
	Width     float64
	Height    float64
	Plot      Rect
	Min       float64
	Max       float64
	DateCount int
	Stride    int
	HGrid     []GridLine
	VGrid     []DateTick
	// Empty is set when no visible value exists.
	Empty bool
	// Degenerate is set when the range had to be clamped to the minimum width.
	Degenerate bool
}

// Compute derives the layout for the given date axis and visible value range.
func Compute(opts Options, dates []time.Time, values calculator.Range) *Layout {
	opts = opts.withDefaults()
	m := opts.Margins
	l := &Layout{
		Width:     opts.Width,
		Height:    opts.Height,
		DateCount: len(dates),
		Plot: Rect{
			X: m.Left,
			Y: m.Top,
			W: math.Max(opts.Width-m.Left-m.Right, 1),
			H: math.Max(opts.Height-m.Top-m.Bottom, 1),
		},
	}

	if !values.OK {
		l.Empty = true
		l.Min, l.Max = 0, opts.MinRangeWidth
	} else {
		pad := values.Span() * RangePadding
		l.Min, l.Max = values.Min-pad, values.Max+pad
		if l.Max-l.Min < opts.MinRangeWidth {
			mid := (l.Min + l.Max) / 2
			l.Min, l.Max = mid-opts.MinRangeWidth/2, mid+opts.MinRangeWidth/2
			l.Degenerate = true
		}
	}

	for i := 0; i <= opts.GridDivisions; i++ {
		frac := float64(i) / float64(opts.GridDivisions)
		v := l.Min + frac*(l.Max-l.Min)
		l.HGrid = append(l.HGrid, GridLine{
			Y:     l.Plot.Bottom() - frac*l.Plot.H,
			Value: v,
			Label: AxisPriceLabel(v, l.Max-l.Min),
		})
	}

	if n := len(dates); n > 0 {
		l.Stride = int(math.Ceil(float64(n) / float64(opts.MaxDateLabels)))
		for i := 0; i < n; i += l.Stride {
			l.VGrid = append(l.VGrid, DateTick{Index: i, X: l.X(i), Label: ShortDate(dates[i])})
		}
	}
	return l
}

// X maps a date index to a horizontal coordinate. A single date sits in
// the middle of the plot.
func (l *Layout) X(index int) float64 {
	if l.DateCount <= 1 {
		return l.Plot.X + l.Plot.W/2
	}
	return l.Plot.X + float64(index)/float64(l.DateCount-1)*l.Plot.W
}

// Y maps a value to a vertical coordinate.
func (l *Layout) Y(v float64) float64 {
	return l.Plot.Bottom() - (v-l.Min)/(l.Max-l.Min)*l.Plot.H
}

// Slot is the horizontal room available to one date.
func (l *Layout) Slot() float64 {
	if l.DateCount <= 1 {
		return l.Plot.W
	}
	return l.Plot.W / float64(l.DateCount)
}
