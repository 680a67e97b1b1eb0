package model

import (
	"encoding/json"
	"time"
)

// SeriesType tags a timeline point with its source series.
type SeriesType string

const (
	SeriesHistorical SeriesType = "historical"
	SeriesPredicted  SeriesType = "predicted"
)

// Confidence is the ordered forecast reliability category.
type Confidence string

const (
	ConfidenceNone     Confidence = ""
	ConfidenceVeryHigh Confidence = "very high"
	ConfidenceHigh     Confidence = "high"
	ConfidenceMedium   Confidence = "medium"
	ConfidenceLow      Confidence = "low"
	ConfidenceVeryLow  Confidence = "very low"
)

// Value is a number that may be absent.
type Value struct {
	V     float64
	Valid bool
}

// Some wraps a present value.
func Some(v float64) Value { return Value{V: v, Valid: true} }

// MarshalJSON encodes an absent value as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.V)
}

// TimelinePoint is one source point placed on the merged date axis.
// HistoricalValue and PredictedValue are both populated only when the two
// source series share this date.
type TimelinePoint struct {
	Date            time.Time  `json:"date"`
	DateIndex       int        `json:"date_index"`
	Type            SeriesType `json:"type"`
	Value           float64    `json:"value"`
	HistoricalValue Value      `json:"historical_value"`
	PredictedValue  Value      `json:"predicted_value"`
	ChangePct       float64    `json:"change_pct"`
	Change          string     `json:"change"` // "+1.23%", "-0.50%", "0.00%"
	Confidence      Confidence `json:"confidence,omitempty"`
	Explanation     string     `json:"explanation,omitempty"`
	Horizon         int        `json:"horizon"` // 0-based forecast index, -1 for historical points
	WeeklyInsight   string     `json:"weekly_insight,omitempty"`
}

// Timeline is the merged, chronologically sorted view of two series.
type Timeline struct {
	Instrument string
	Dates      []time.Time     // unique, ascending
	Points     []TimelinePoint // sorted by date; historical before predicted on ties
	Historical []Value         // aligned to Dates
	Predicted  []Value         // aligned to Dates
	Method     string
}

// Empty reports whether the timeline holds no points.
func (t *Timeline) Empty() bool { return t == nil || len(t.Points) == 0 }
