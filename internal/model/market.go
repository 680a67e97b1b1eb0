package model

import "time"

// DateLayout is the ISO calendar-date layout used by every payload.
const DateLayout = "2006-01-02"

// Instrument is one tracked commodity with its stable display attributes.
type Instrument struct {
	Code  string `yaml:"code" json:"code"`
	Label string `yaml:"label" json:"label"`
	Color string `yaml:"color" json:"color"` // "#RRGGBB"
}

// PricePoint is one observed or predicted price for one instrument on one day.
type PricePoint struct {
	Date  time.Time
	Value float64
}

// Candle is a synthesized OHLC unit. Close always equals the observed value.
type Candle struct {
	Instrument string    `json:"instrument"`
	Date       time.Time `json:"date"`
	Open       float64   `json:"open"`
	High       float64   `json:"high"`
	Low        float64   `json:"low"`
	Close      float64   `json:"close"`
}

// IsUp reports whether the candle closed at or above its open.
func (c Candle) IsUp() bool { return c.Close >= c.Open }

// NormalizedSeries is the uniform output of the normalizer.
type NormalizedSeries struct {
	Instruments []Instrument
	Dates       []time.Time             // union of all dates, ascending
	Series      map[string][]PricePoint // instrument code -> ascending points
}

// Empty reports whether no instrument has a usable point.
func (n *NormalizedSeries) Empty() bool {
	if n == nil {
		return true
	}
	for _, pts := range n.Series {
		if len(pts) > 0 {
			return false
		}
	}
	return true
}

// DateIndex returns the position of d on the date axis, or -1.
func (n *NormalizedSeries) DateIndex(d time.Time) int {
	key := DateKey(d)
	for i, x := range n.Dates {
		if DateKey(x) == key {
			return i
		}
	}
	return -1
}

// DateKey formats d as an ISO date.
func DateKey(d time.Time) string { return d.Format(DateLayout) }

// ParseDate parses an ISO date into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
