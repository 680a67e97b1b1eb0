// Package notifier formats chart content for people and delivers
// interaction events to the surrounding UI.
package notifier

import (
	"log"

	"MetalCharts/internal/layout"
	"MetalCharts/internal/model"
)

// Listener receives interaction events. A nil target clears.
type Listener interface {
	OnHover(t *model.Target)
	OnSelect(t *model.Target)
	OnFilter(filter string)
}

// Funcs adapts plain functions to Listener. Nil fields are skipped.
type Funcs struct {
	Hover  func(*model.Target)
	Select func(*model.Target)
	Filter func(string)
}

func (f Funcs) OnHover(t *model.Target) {
	if f.Hover != nil {
		f.Hover(t)
	}
}

func (f Funcs) OnSelect(t *model.Target) {
	if f.Select != nil {
		f.Select(t)
	}
}

func (f Funcs) OnFilter(filter string) {
	if f.Filter != nil {
		f.Filter(filter)
	}
}

// Nop discards every event.
type Nop struct{}

func (Nop) OnHover(*model.Target)  {}
func (Nop) OnSelect(*model.Target) {}
func (Nop) OnFilter(string)        {}

// LogListener logs selection and filter changes. Hover is too chatty to log.
type LogListener struct {
	Chart string
}

func (l LogListener) OnHover(*model.Target) {}

func (l LogListener) OnSelect(t *model.Target) {
	if t == nil {
		log.Printf("[INFO] %s: selection cleared", l.Chart)
		return
	}
	log.Printf("[INFO] %s: selected %s", l.Chart, describe(t))
}

func (l LogListener) OnFilter(filter string) {
	log.Printf("[INFO] %s: filter set to %s", l.Chart, filter)
}

// Multi fans events out to several listeners in order.
type Multi []Listener

func (m Multi) OnHover(t *model.Target) {
	for _, l := range m {
		l.OnHover(t)
	}
}

func (m Multi) OnSelect(t *model.Target) {
	for _, l := range m {
		l.OnSelect(t)
	}
}

func (m Multi) OnFilter(filter string) {
	for _, l := range m {
		l.OnFilter(filter)
	}
}

func describe(t *model.Target) string {
	switch {
	case t.Candle != nil:
		return t.Candle.Instrument + " candle " + model.DateKey(t.Candle.Date) + " close " + layout.FormatPrice(t.Candle.Close)
	case t.Point != nil:
		return string(t.Point.Type) + " point " + model.DateKey(t.Point.Date) + " " + layout.FormatPriceCents(t.Point.Value) + " (" + t.Point.Change + ")"
	}
	return "nothing"
}
