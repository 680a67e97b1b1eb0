// Package interact hit-tests pointer input against the last rendered
// geometry and owns the chart's ViewState.
package interact

import (
	"math"

	"MetalCharts/internal/model"
	"MetalCharts/internal/notifier"
	"MetalCharts/internal/render"
)

// DefaultHitRadius is how close the pointer must be to a series point.
const DefaultHitRadius = 8

// Controller mutates ViewState in response to pointer input. It is not
// safe for concurrent use; the host serialises events.
type Controller struct {
	HitRadius float64

	state    model.ViewState
	geom     *render.Geometry
	listener notifier.Listener
	detached bool
}

// NewController returns a controller in the default view state.
func NewController(l notifier.Listener) *Controller {
	if l == nil {
		l = notifier.Nop{}
	}
	return &Controller{
		HitRadius: DefaultHitRadius,
		state:     model.DefaultViewState(),
		listener:  l,
	}
}

// State returns the current view state.
func (c *Controller) State() model.ViewState { return c.state }

// Geometry returns the bound geometry table, or nil before the first paint.
func (c *Controller) Geometry() *render.Geometry { return c.geom }

// Bind replaces the geometry table with the one produced by the latest
// render pass. Binding the same table again has no effect.
func (c *Controller) Bind(g *render.Geometry) {
	if c.detached {
		return
	}
	c.geom = g
}

// Detach drops the geometry and ignores all further input.
func (c *Controller) Detach() {
	c.detached = true
	c.geom = nil
}

// Detached reports whether Detach was called.
func (c *Controller) Detached() bool { return c.detached }

// Reset restores the default view state after a data change. The old
// geometry is dropped since it describes data that no longer exists.
func (c *Controller) Reset() {
	hovered, selected := c.state.Hovered, c.state.Selected
	c.state = model.DefaultViewState()
	c.geom = nil
	if hovered != nil {
		c.listener.OnHover(nil)
	}
	if selected != nil {
		c.listener.OnSelect(nil)
	}
}

// PointerMove updates the hover target. It reports whether the view changed.
func (c *Controller) PointerMove(x, y float64) bool {
	if c.detached {
		return false
	}
	var next *model.Target
	if h, ok := HitTest(c.geom, x, y, c.HitRadius); ok {
		next = h.Target()
	}
	return c.setHovered(next)
}

// PointerLeave clears the hover target.
func (c *Controller) PointerLeave() bool {
	if c.detached {
		return false
	}
	return c.setHovered(nil)
}

// Click handles legend entries, the reset button and chart elements, in
// that order. A click on empty space clears the selection.
func (c *Controller) Click(x, y float64) bool {
	if c.detached || c.geom == nil {
		return false
	}
	for _, h := range c.geom.Hits {
		if !h.Box.Contains(x, y) {
			continue
		}
		switch h.Kind {
		case render.HitLegend:
			return c.ToggleFilter(h.Filter)
		case render.HitReset:
			return c.setFilter(model.FilterAll)
		}
	}

	var next *model.Target
	if h, ok := HitTest(c.geom, x, y, c.HitRadius); ok {
		next = h.Target()
	}
	if next == nil && c.state.Selected == nil {
		return false
	}
	c.state.Selected = next
	c.listener.OnSelect(next)
	return true
}

// ToggleFilter activates key, or returns to "all" when key is already
// active. Hover is cleared because the geometry changes with the filter.
func (c *Controller) ToggleFilter(key string) bool {
	if c.detached {
		return false
	}
	if key == "" || key == c.state.ActiveFilter {
		key = model.FilterAll
	}
	return c.setFilter(key)
}

func (c *Controller) setFilter(key string) bool {
	if key == c.state.ActiveFilter {
		return false
	}
	c.state.ActiveFilter = key
	c.setHovered(nil)
	c.listener.OnFilter(key)
	return true
}

func (c *Controller) setHovered(t *model.Target) bool {
	if sameTarget(c.state.Hovered, t) {
		return false
	}
	c.state.Hovered = t
	c.listener.OnHover(t)
	return true
}

// HitTest finds the chart element under (x, y): a candle whose box
// contains the pointer, else the nearest series point within radius.
// Legend and reset regions are not elements.
func HitTest(g *render.Geometry, x, y, radius float64) (render.Hit, bool) {
	if g == nil {
		return render.Hit{}, false
	}
	var best render.Hit
	bestDist := math.Inf(1)
	found := false
	for _, h := range g.Hits {
		var d float64
		switch h.Kind {
		case render.HitCandle:
			if !h.Box.Contains(x, y) {
				continue
			}
			d = math.Hypot(h.Center.X-x, h.Center.Y-y)
		case render.HitPoint:
			d = math.Hypot(h.Center.X-x, h.Center.Y-y)
			if d > radius {
				continue
			}
		default:
			continue
		}
		if d < bestDist {
			best, bestDist, found = h, d, true
		}
	}
	return best, found
}

func sameTarget(a, b *model.Target) bool {
	switch {
	case a == nil || b == nil:
		return a == b
	case a.Candle != nil && b.Candle != nil:
		return a.Candle.Instrument == b.Candle.Instrument && a.Candle.Date.Equal(b.Candle.Date)
	case a.Point != nil && b.Point != nil:
		return a.Point.Type == b.Point.Type && a.Point.Date.Equal(b.Point.Date)
	}
	return false
}
