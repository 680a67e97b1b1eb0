package calculator

import (
	"math"
)

// Range tracks the minimum and maximum of the values added to it.
type Range struct {
	Min float64
	Max float64
	OK  bool // false until a finite value has been added
}

// Add widens the range to include v. Non-finite values are ignored.
func (r *Range) Add(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	if !r.OK {
		r.Min, r.Max, r.OK = v, v, true
		return
	}
	if v < r.Min {
		r.Min = v
	}
	if v > r.Max {
		r.Max = v
	}
}

// Span returns Max-Min, or 0 for an empty range.
func (r Range) Span() float64 {
	if !r.OK {
		return 0
	}
	return r.Max - r.Min
}

// RangeOf returns the range of the given values.
func RangeOf(values ...float64) Range {
	var r Range
	for _, v := range values {
		r.Add(v)
	}
	return r
}

// Position returns where v sits within the range (0.0~1.0). A flat range
// reports the midpoint.
func (r Range) Position(v float64) float64 {
	if !r.OK || r.Max == r.Min {
		return 0.5
	}
	pos := (v - r.Min) / (r.Max - r.Min)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos
}
