// Package synth derives visually plausible OHLC candles from a series of
// single daily prices.
//
// Each candle's close is the observed price. Open, high and low are drawn
// from a trend continuation/reversal model: with probability 0.8 the
// previous candle's direction continues, otherwise it reverses. High and
// low always bracket max(open, close) and min(open, close).
//
// Draws are seeded per (seed, instrument, date), so repainting the same
// data reproduces the same candles.
package synth

import (
	"hash/fnv"
	"math"
	"math/rand/v2"
	"time"

	"MetalCharts/internal/model"
)

// ContinuationProbability is the chance that a candle keeps the previous
// candle's direction.
const ContinuationProbability = 0.8

// Source yields uniform draws in [0, 1).
type Source interface {
	Float64() float64
}

// SourceFunc returns the random source used for one candle.
type SourceFunc func(instrument string, date time.Time) Source

// Synthesizer produces candles from normalized price series.
type Synthesizer struct {
	source SourceFunc
}

// New returns a Synthesizer whose draws are derived from seed.
func New(seed uint64) *Synthesizer {
	return &Synthesizer{source: SeededSource(seed)}
}

// NewWithSource returns a Synthesizer using a caller-provided source.
func NewWithSource(fn SourceFunc) *Synthesizer {
	return &Synthesizer{source: fn}
}

// SeededSource returns a PCG source keyed by instrument and date.
func SeededSource(seed uint64) SourceFunc {
	return func(instrument string, date time.Time) Source {
		h := fnv.New64a()
		h.Write([]byte(instrument))
		h.Write([]byte{'|'})
		h.Write([]byte(model.DateKey(date)))
		return rand.New(rand.NewPCG(seed, h.Sum64()))
	}
}

// All synthesizes candles for every instrument in ns.
func (s *Synthesizer) All(ns *model.NormalizedSeries) map[string][]model.Candle {
	out := make(map[string][]model.Candle)
	if ns == nil {
		return out
	}
	for code, pts := range ns.Series {
		out[code] = s.Candles(code, pts)
	}
	return out
}

// Candles synthesizes one candle per point, in the order given. Points
// must be in ascending date order.
func (s *Synthesizer) Candles(instrument string, pts []model.PricePoint) []model.Candle {
	if len(pts) == 0 {
		return nil
	}
	out := make([]model.Candle, 0, len(pts))
	for i, p := range pts {
		r := s.source(instrument, p.Date)
		var c model.Candle
		if i == 0 {
			c = first(p.Value, r)
		} else {
			c = next(out[i-1], p.Value, r)
		}
		c.Instrument = instrument
		c.Date = p.Date
		out = append(out, c)
	}
	return out
}

func first(value float64, r Source) model.Candle {
	open := value * (1 - 0.01 + 0.02*r.Float64())
	return bracket(open, value, 0.005*r.Float64(), 0.005*r.Float64())
}

func next(prev model.Candle, value float64, r Source) model.Candle {
	prevUp := prev.Close >= prev.Open
	continues := r.Float64() < ContinuationProbability

	switch {
	case continues && prevUp:
		open := prev.Close * (0.997 + 0.003*r.Float64())
		return bracket(open, value, 0.005*r.Float64(), 0.003*r.Float64())
	case continues:
		open := prev.Close * (1.003 - 0.003*r.Float64())
		return bracket(open, value, 0.003*r.Float64(), 0.005*r.Float64())
	case prevUp:
		// up -> down: open pushed above the prior close
		open := prev.Close * (1 + 0.002*r.Float64())
		return bracket(open, value, 0.004*r.Float64(), 0.002*r.Float64())
	default:
		// down -> up: open pushed below the prior close
		open := prev.Close * (1 - 0.002*r.Float64())
		return bracket(open, value, 0.002*r.Float64(), 0.004*r.Float64())
	}
}

// bracket builds a candle whose high/low widen the open/close span by the
// given fractions. The span is never shrunk.
func bracket(open, close, up, down float64) model.Candle {
	return model.Candle{
		Open:  open,
		Close: close,
		High:  math.Max(open, close) * (1 + up),
		Low:   math.Min(open, close) * (1 - down),
	}
}
