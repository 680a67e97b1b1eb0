// Package chart wires normalisation, synthesis, merging, layout, rendering
// and interaction into the two dashboard chart views.
package chart

import (
	"io"

	"MetalCharts/internal/interact"
	"MetalCharts/internal/layout"
	"MetalCharts/internal/model"
	"MetalCharts/internal/notifier"
	"MetalCharts/internal/render"
)

const (
	DefaultWidth          = 800
	DefaultHeight         = 350
	DefaultForecastHeight = 300
)

// Config holds what the views need from the host configuration.
type Config struct {
	Instruments        []model.Instrument
	Width              int
	Height             int
	ForecastHeight     int
	Margins            layout.Margins
	MinRangeWidth      float64
	HitRadius          float64
	Seed               uint64
	ForecastInstrument string
}

func (c Config) layoutOptions() layout.Options {
	return layout.Options{Margins: c.Margins, MinRangeWidth: c.MinRangeWidth}
}

// View is the surface both chart kinds expose to the host.
type View interface {
	Render(s render.Surface) *render.Geometry
	RenderPNG(w io.Writer) error
	Size() (w, h int)
	PointerMove(x, y float64) bool
	PointerLeave() bool
	Click(x, y float64) bool
	ToggleFilter(key string) bool
	State() model.ViewState
	Close()
}

// interaction holds the state every view shares. Its pointer methods are
// promoted onto the views.
type interaction struct {
	renderer *render.Renderer
	ctl      *interact.Controller
	width    int
	height   int
	paint    func(render.Surface, model.ViewState) *render.Geometry
}

func newInteraction(cfg Config, l notifier.Listener, width, height int) interaction {
	ctl := interact.NewController(l)
	if cfg.HitRadius > 0 {
		ctl.HitRadius = cfg.HitRadius
	}
	return interaction{
		renderer: render.NewRenderer(cfg.layoutOptions()),
		ctl:      ctl,
		width:    width,
		height:   height,
	}
}

// Render paints the current data and view state onto s and binds the
// resulting geometry for hit-testing.
func (v *interaction) Render(s render.Surface) *render.Geometry {
	g := v.paint(s, v.ctl.State())
	v.ctl.Bind(g)
	return g
}

// RenderPNG paints onto a raster of the configured size and encodes it.
func (v *interaction) RenderPNG(w io.Writer) error {
	r := render.NewRaster(v.width, v.height)
	v.Render(r)
	return r.EncodePNG(w)
}

// Size returns the configured surface size in pixels.
func (v *interaction) Size() (int, int) { return v.width, v.height }

func (v *interaction) PointerMove(x, y float64) bool { return v.ctl.PointerMove(x, y) }
func (v *interaction) PointerLeave() bool            { return v.ctl.PointerLeave() }
func (v *interaction) Click(x, y float64) bool       { return v.ctl.Click(x, y) }
func (v *interaction) ToggleFilter(key string) bool  { return v.ctl.ToggleFilter(key) }
func (v *interaction) State() model.ViewState        { return v.ctl.State() }

// Close detaches interaction. Later pointer events are ignored.
func (v *interaction) Close() { v.ctl.Detach() }

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
