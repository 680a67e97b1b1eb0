package notifier

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"MetalCharts/internal/layout"
	"MetalCharts/internal/model"
)

// ExplanationLimit bounds the explanation shown inside a tooltip.
const ExplanationLimit = 100

// CandleTooltip formats the hover lines of a candle. The first line is the title.
func CandleTooltip(c model.Candle, label string) []string {
	if label == "" {
		label = c.Instrument
	}
	return []string{
		fmt.Sprintf("%s - %s", label, layout.ShortDate(c.Date)),
		"Open: " + layout.FormatPrice(c.Open),
		"High: " + layout.FormatPrice(c.High),
		"Low: " + layout.FormatPrice(c.Low),
		"Close: " + layout.FormatPrice(c.Close),
	}
}

// PointTooltip formats the hover lines of a timeline point.
func PointTooltip(p model.TimelinePoint) []string {
	lines := []string{
		model.DateKey(p.Date),
		"Price: " + layout.FormatPriceCents(p.Value),
		"Change: " + p.Change,
	}
	if p.Type == model.SeriesPredicted {
		lines = append(lines, "Confidence: "+Capitalize(string(p.Confidence)))
		if p.Explanation != "" {
			lines = append(lines, "Explanation: "+Truncate(p.Explanation, ExplanationLimit))
		}
	} else {
		lines = append(lines, "Actual price")
	}
	return lines
}

// TargetTooltip dispatches on the populated field of t.
func TargetTooltip(t *model.Target, labels map[string]string) []string {
	switch {
	case t == nil:
		return nil
	case t.Candle != nil:
		return CandleTooltip(*t.Candle, labels[t.Candle.Instrument])
	case t.Point != nil:
		return PointTooltip(*t.Point)
	}
	return nil
}

// SelectionDetails formats the detail panel of a selected point.
func SelectionDetails(p model.TimelinePoint) string {
	var b strings.Builder
	b.WriteString(p.Date.Format("Mon Jan 02 2006"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Price: %s\n", layout.FormatPriceCents(p.Value)))
	arrow := "↑"
	if p.ChangePct < 0 {
		arrow = "↓"
	}
	b.WriteString(fmt.Sprintf("Change: %s %s\n", arrow, p.Change))
	if p.Type == model.SeriesPredicted {
		b.WriteString(fmt.Sprintf("Confidence: %s\n", Capitalize(string(p.Confidence))))
		if p.Explanation != "" {
			b.WriteString(fmt.Sprintf("Explanation: %s\n", p.Explanation))
		}
		if p.WeeklyInsight != "" {
			b.WriteString(fmt.Sprintf("Weekly Trend: %s\n", p.WeeklyInsight))
		}
	}
	return b.String()
}

// MethodCaption describes how a forecast was produced.
func MethodCaption(method string) string {
	if method == "ai_enhanced_deterministic" {
		return "AI-enhanced prediction based on historical and market data"
	}
	return "Statistical prediction based on market trends and seasonal patterns"
}

// FormatCountdown renders the time until the next refresh as m:ss.
func FormatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Truncate shortens s to n runes, appending "..." when cut.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "..."
}
