// Package timeline merges historical actuals and forecasts into one
// chronologically ordered timeline.
package timeline

import (
	"fmt"
	"math"
	"sort"
	"time"

	"MetalCharts/internal/calculator"
	"MetalCharts/internal/model"
)

// Input is the pair of series to merge. Either series may be empty.
type Input struct {
	Instrument string
	Historical []model.PricePoint
	Predicted  []model.PricePoint
	// LastActual overrides the baseline of the first forecast point.
	LastActual model.Value
	Method     string
}

// Merge tags, derives and sorts both series into one timeline. Sorting
// uses the date only; a date present in both series yields two points that
// share one date index. Absent values are never filled in.
func Merge(in Input) *model.Timeline {
	hist := sortedCopy(in.Historical)
	pred := sortedCopy(in.Predicted)

	points := make([]model.TimelinePoint, 0, len(hist)+len(pred))

	for i, p := range hist {
		tp := model.TimelinePoint{
			Date:            p.Date,
			Type:            model.SeriesHistorical,
			Value:           p.Value,
			HistoricalValue: model.Some(p.Value),
			Change:          calculator.NoChange,
			Horizon:         -1,
		}
		if i > 0 {
			tp.ChangePct = calculator.PercentChange(hist[i-1].Value, p.Value)
			tp.Change = calculator.FormatChange(tp.ChangePct)
		}
		points = append(points, tp)
	}

	base := baseline(in.LastActual, hist, pred)
	for i, p := range pred {
		conf := ConfidenceAt(i)
		tp := model.TimelinePoint{
			Date:           p.Date,
			Type:           model.SeriesPredicted,
			Value:          p.Value,
			PredictedValue: model.Some(p.Value),
			Change:         calculator.NoChange,
			Confidence:     conf,
			Explanation:    BandFor(conf).Explanation,
			Horizon:        i,
			WeeklyInsight:  weeklyInsight(i, pred, base),
		}
		prev := base
		if i > 0 {
			prev = model.Some(pred[i-1].Value)
		}
		if prev.Valid {
			tp.ChangePct = calculator.PercentChange(prev.V, p.Value)
			tp.Change = calculator.FormatChange(tp.ChangePct)
		}
		points = append(points, tp)
	}

	// stable: historical points stay ahead of predicted ones on a shared date
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	tl := &model.Timeline{Instrument: in.Instrument, Method: in.Method, Points: points}
	index := make(map[string]int)
	for _, p := range points {
		key := model.DateKey(p.Date)
		if _, ok := index[key]; !ok {
			index[key] = len(tl.Dates)
			tl.Dates = append(tl.Dates, p.Date)
		}
	}

	tl.Historical = make([]model.Value, len(tl.Dates))
	tl.Predicted = make([]model.Value, len(tl.Dates))
	for i := range points {
		idx := index[model.DateKey(points[i].Date)]
		points[i].DateIndex = idx
		if points[i].Type == model.SeriesHistorical {
			tl.Historical[idx] = model.Some(points[i].Value)
		} else {
			tl.Predicted[idx] = model.Some(points[i].Value)
		}
	}
	// colliding dates expose both values on both points
	for i := range points {
		idx := points[i].DateIndex
		if tl.Historical[idx].Valid && tl.Predicted[idx].Valid {
			points[i].HistoricalValue = tl.Historical[idx]
			points[i].PredictedValue = tl.Predicted[idx]
		}
	}
	return tl
}

func sortedCopy(pts []model.PricePoint) []model.PricePoint {
	out := make([]model.PricePoint, len(pts))
	copy(out, pts)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// baseline picks the value the first forecast point is compared against:
// the explicit last actual price, else the latest historical point dated
// on or before the first forecast date.
func baseline(lastActual model.Value, hist, pred []model.PricePoint) model.Value {
	if lastActual.Valid {
		return lastActual
	}
	if len(pred) == 0 {
		return model.Value{}
	}
	start := pred[0].Date
	for i := len(hist) - 1; i >= 0; i-- {
		if !hist[i].Date.After(start) {
			return model.Some(hist[i].Value)
		}
	}
	return model.Value{}
}

// weeklyInsight describes the expected move across the forecast week that
// contains horizon index i. Weeks are consecutive groups of seven points.
func weeklyInsight(i int, pred []model.PricePoint, base model.Value) string {
	week := i / 7
	start := week * 7
	end := start + 6
	if end >= len(pred) {
		end = len(pred) - 1
	}
	from := base
	if start > 0 {
		from = model.Some(pred[start-1].Value)
	}
	if !from.Valid {
		from = model.Some(pred[start].Value)
	}
	pct := calculator.PercentChange(from.V, pred[end].Value)
	switch {
	case math.Abs(pct) < 0.05:
		return fmt.Sprintf("Week %d outlook: prices expected to hold steady through %s", week+1, shortDate(pred[end].Date))
	case pct > 0:
		return fmt.Sprintf("Week %d outlook: prices expected to rise %.2f%% by %s", week+1, pct, shortDate(pred[end].Date))
	default:
		return fmt.Sprintf("Week %d outlook: prices expected to fall %.2f%% by %s", week+1, -pct, shortDate(pred[end].Date))
	}
}

func shortDate(d time.Time) string { return d.Format("Jan 2") }
