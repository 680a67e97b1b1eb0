package chart

import (
	"fmt"
	"log"

	"MetalCharts/internal/model"
	"MetalCharts/internal/normalize"
	"MetalCharts/internal/notifier"
	"MetalCharts/internal/render"
	"MetalCharts/internal/timeline"
)

// ForecastView renders historical actuals and forecasts on one timeline.
// Its filter keys are the series types.
type ForecastView struct {
	interaction

	instrument string
	timeline   *model.Timeline
}

// NewForecastView returns an empty forecast view.
func NewForecastView(cfg Config, l notifier.Listener) *ForecastView {
	v := &ForecastView{
		interaction: newInteraction(cfg, l, orDefault(cfg.Width, DefaultWidth), orDefault(cfg.ForecastHeight, DefaultForecastHeight)),
		instrument:  cfg.ForecastInstrument,
		timeline:    &model.Timeline{Instrument: cfg.ForecastInstrument},
	}
	v.paint = v.draw
	return v
}

// SetSeries replaces both series and resets the view state. Either payload
// may be nil. The returned error wraps model.ErrEmptySeries when neither
// series has a point; the view is updated either way.
func (v *ForecastView) SetSeries(hist *normalize.HistoricalPayload, fc *normalize.ForecastPayload) error {
	in := timeline.Input{Instrument: v.instrument}
	if hist != nil {
		in.Historical = hist.Points
	}
	if fc != nil {
		in.Predicted = fc.Points
		in.LastActual = fc.LastActualPrice
		in.Method = fc.Method
	}
	if hist == nil && fc == nil {
		log.Printf("[WARN] Forecast view: no series payload, showing empty state")
	}
	v.timeline = timeline.Merge(in)
	v.ctl.Reset()
	if v.timeline.Empty() {
		return fmt.Errorf("forecast view %s: %w", v.instrument, model.ErrEmptySeries)
	}
	log.Printf("[INFO] Forecast view: %d historical, %d predicted points", len(in.Historical), len(in.Predicted))
	return nil
}

// Timeline returns the merged timeline of the current data.
func (v *ForecastView) Timeline() *model.Timeline { return v.timeline }

// Empty reports whether neither series has points.
func (v *ForecastView) Empty() bool { return v.timeline.Empty() }

// MethodCaption describes how the current forecast was produced.
func (v *ForecastView) MethodCaption() string { return notifier.MethodCaption(v.timeline.Method) }

// SelectionDetails formats the selected point, or "" when nothing is selected.
func (v *ForecastView) SelectionDetails() string {
	sel := v.State().Selected
	if sel == nil || sel.Point == nil {
		return ""
	}
	return notifier.SelectionDetails(*sel.Point)
}

func (v *ForecastView) draw(s render.Surface, state model.ViewState) *render.Geometry {
	return v.renderer.Timeline(s, v.timeline, state)
}
