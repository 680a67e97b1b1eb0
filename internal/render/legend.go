package render

import (
	"image/color"

	"MetalCharts/internal/layout"
	"MetalCharts/internal/model"
	"MetalCharts/internal/notifier"
)

const (
	legendSwatch = 12
	legendGap    = 18
	legendPad    = 20
	legendBottom = 18
	resetWidth   = 60
	resetHeight  = 20
	tooltipLine  = 16
	tooltipPad   = 8
	tooltipShift = 12
)

type legendEntry struct {
	Key     string
	Label   string
	Color   color.RGBA
	Enabled bool
}

// legend paints one entry per series followed by "All", and a Reset
// button while a filter is active. Entries without data draw muted and
// register no hit region.
func (r *Renderer) legend(s Surface, g *Geometry, entries []legendEntry, active string) {
	w, h := s.Size()
	filtered := active != "" && active != model.FilterAll
	y := h - legendBottom
	x := r.margins().Left

	entries = append(entries, legendEntry{Key: model.FilterAll, Label: "All", Color: r.Theme.LegendText, Enabled: true})
	for _, e := range entries {
		isActive := e.Key == active || (e.Key == model.FilterAll && !filtered)
		st := TextStyle{Color: r.Theme.LegendText, Size: fontSize, Bold: e.Key == model.FilterAll && !filtered}
		if !e.Enabled || (filtered && !isActive) {
			st.Color = r.Theme.LegendMuted
		}
		s.FillRect(layout.Rect{X: x, Y: y, W: legendSwatch, H: legendSwatch}, e.Color)
		s.Text(layout.Point{X: x + legendGap, Y: y + 10}, e.Label, st)

		labelW := s.MeasureText(e.Label, st)
		itemW := legendGap + labelW + legendPad
		if isActive && filtered {
			s.StrokeRect(layout.Rect{X: x - 2, Y: y - 4, W: labelW + 24, H: 20}, r.Theme.Highlight, 1)
		}
		if e.Enabled {
			g.Hits = append(g.Hits, Hit{
				Kind:   HitLegend,
				Box:    layout.Rect{X: x, Y: y - 5, W: itemW, H: 20},
				Filter: e.Key,
			})
		}
		x += itemW
	}

	if filtered {
		box := layout.Rect{X: w - r.margins().Right - resetWidth, Y: y - 4, W: resetWidth, H: resetHeight}
		s.FillRect(box, r.Theme.ResetFill)
		s.Text(layout.Point{X: box.X + resetWidth/2, Y: y + 10}, "Reset",
			TextStyle{Color: r.Theme.ResetText, Size: fontSize, Align: AlignCenter})
		g.Hits = append(g.Hits, Hit{Kind: HitReset, Box: box})
	}
}

// tooltip paints the hover box next to the hovered element.
func (r *Renderer) tooltip(s Surface, g *Geometry, hovered *model.Target, labels map[string]string) {
	lines := notifier.TargetTooltip(hovered, labels)
	if len(lines) == 0 {
		return
	}
	var anchor layout.Point
	found := false
	for _, h := range g.Hits {
		if sameTarget(hovered, h) {
			anchor, found = h.Center, true
			break
		}
	}
	if !found {
		return
	}

	var boxW float64
	for i, line := range lines {
		st := TextStyle{Size: fontSize, Bold: i == 0}
		boxW = max(boxW, s.MeasureText(line, st))
	}
	boxW += 2 * tooltipPad
	boxH := float64(len(lines))*tooltipLine + tooltipPad

	box := layout.Rect{X: anchor.X + tooltipShift, Y: anchor.Y + tooltipShift, W: boxW, H: boxH}
	if box.Right() > g.Width {
		box.X = anchor.X - tooltipShift - boxW
	}
	if box.Bottom() > g.Height {
		box.Y = anchor.Y - tooltipShift - boxH
	}
	box.X, box.Y = max(box.X, 0), max(box.Y, 0)

	s.FillRect(box, r.Theme.TooltipFill)
	for i, line := range lines {
		st := TextStyle{Color: r.Theme.TooltipText, Size: fontSize}
		if i == 0 {
			st.Color, st.Bold = r.Theme.LegendText, true
		}
		s.Text(layout.Point{X: box.X + tooltipPad, Y: box.Y + tooltipPad + float64(i+1)*tooltipLine - 4}, line, st)
	}
}

func (r *Renderer) margins() layout.Margins {
	if r.Options.Margins == (layout.Margins{}) {
		return layout.DefaultMargins
	}
	return r.Options.Margins
}
