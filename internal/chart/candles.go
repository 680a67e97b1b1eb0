package chart

import (
	"fmt"
	"log"

	"MetalCharts/internal/calculator"
	"MetalCharts/internal/model"
	"MetalCharts/internal/normalize"
	"MetalCharts/internal/notifier"
	"MetalCharts/internal/render"
	"MetalCharts/internal/synth"
)

// CandleView renders synthesized candles for the configured instruments.
type CandleView struct {
	interaction

	normalizer *normalize.Normalizer
	synth      *synth.Synthesizer
	series     *model.NormalizedSeries
	candles    map[string][]model.Candle
}

// NewCandleView returns an empty candle view.
func NewCandleView(cfg Config, l notifier.Listener) *CandleView {
	v := &CandleView{
		interaction: newInteraction(cfg, l, orDefault(cfg.Width, DefaultWidth), orDefault(cfg.Height, DefaultHeight)),
		normalizer:  normalize.NewNormalizer(cfg.Instruments),
		synth:       synth.New(cfg.Seed),
		series:      &model.NormalizedSeries{Instruments: cfg.Instruments},
		candles:     map[string][]model.Candle{},
	}
	v.paint = v.draw
	return v
}

// SetPrices replaces the price data and resets the view state. A nil
// payload, as left by a failed fetch, shows the empty state. The returned
// error wraps model.ErrEmptySeries when no instrument has a usable point;
// the view is updated either way.
func (v *CandleView) SetPrices(raw normalize.RawPrices) error {
	if raw == nil {
		log.Printf("[WARN] Candle view: no price payload, showing empty state")
	}
	v.series = v.normalizer.Normalize(raw)
	v.candles = v.synth.All(v.series)
	v.ctl.Reset()
	if v.series.Empty() {
		return fmt.Errorf("candle view: %d instruments: %w", len(v.series.Instruments), model.ErrEmptySeries)
	}
	log.Printf("[INFO] Candle view: %d dates across %d instruments", len(v.series.Dates), len(v.candles))
	return nil
}

// Series returns the normalized input of the current data.
func (v *CandleView) Series() *model.NormalizedSeries { return v.series }

// Candles returns the synthesized candles by instrument code.
func (v *CandleView) Candles() map[string][]model.Candle { return v.candles }

// Empty reports whether no instrument has data.
func (v *CandleView) Empty() bool { return v.series.Empty() }

// Trends summarises every instrument with at least two points.
func (v *CandleView) Trends() []calculator.Trend { return calculator.Trends(v.series) }

func (v *CandleView) draw(s render.Surface, state model.ViewState) *render.Geometry {
	return v.renderer.Candles(s, render.CandleInput{
		Instruments: v.normalizer.Instruments(),
		Dates:       v.series.Dates,
		Candles:     v.candles,
	}, state)
}
