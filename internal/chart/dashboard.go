package chart

import (
	"sync"

	"MetalCharts/internal/notifier"
)

const (
	KindCandles  = "candles"
	KindForecast = "forecast"
)

// Dashboard owns both views. Every access goes through Do so refreshes
// and pointer events never interleave.
type Dashboard struct {
	mu       sync.Mutex
	candles  *CandleView
	forecast *ForecastView
	closed   bool
}

// NewDashboard builds both views. Selection and filter changes are logged
// per view; l additionally receives events from both and may be nil.
func NewDashboard(cfg Config, l notifier.Listener) *Dashboard {
	return &Dashboard{
		candles:  NewCandleView(cfg, listenerFor(KindCandles, l)),
		forecast: NewForecastView(cfg, listenerFor(KindForecast, l)),
	}
}

func listenerFor(kind string, l notifier.Listener) notifier.Listener {
	m := notifier.Multi{notifier.LogListener{Chart: kind}}
	if l != nil {
		m = append(m, l)
	}
	return m
}

// Do runs fn with exclusive access to the views.
func (d *Dashboard) Do(fn func(c *CandleView, f *ForecastView)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(d.candles, d.forecast)
}

// View runs fn with exclusive access to the view of the given kind. It
// reports false for an unknown kind.
func (d *Dashboard) View(kind string, fn func(View)) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch kind {
	case KindCandles:
		fn(d.candles)
	case KindForecast:
		fn(d.forecast)
	default:
		return false
	}
	return true
}

// Close detaches both views. It is safe to call more than once.
func (d *Dashboard) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	d.candles.Close()
	d.forecast.Close()
}
