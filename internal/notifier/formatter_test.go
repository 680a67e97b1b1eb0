package notifier

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MetalCharts/internal/model"
)

var jan5 = time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

func TestCandleTooltip(t *testing.T) {
	lines := CandleTooltip(model.Candle{Instrument: "TIN", Date: jan5, Open: 31000.4, High: 31500, Low: 30900, Close: 31249.6}, "")
	assert.Equal(t, []string{
		"TIN - Jan 5",
		"Open: $31,000",
		"High: $31,500",
		"Low: $30,900",
		"Close: $31,250",
	}, lines)
}

func TestPointTooltip_Predicted(t *testing.T) {
	p := model.TimelinePoint{
		Date:        jan5,
		Type:        model.SeriesPredicted,
		Value:       31000,
		Change:      "+1.50%",
		Confidence:  model.ConfidenceVeryLow,
		Explanation: strings.Repeat("x", 150),
	}
	lines := PointTooltip(p)
	require.Len(t, lines, 5)
	assert.Equal(t, "2024-01-05", lines[0])
	assert.Equal(t, "Change: +1.50%", lines[2])
	assert.Equal(t, "Confidence: Very low", lines[3])
	assert.Equal(t, "Explanation: "+strings.Repeat("x", 100)+"...", lines[4])
}

func TestPointTooltip_Historical(t *testing.T) {
	lines := PointTooltip(model.TimelinePoint{Date: jan5, Type: model.SeriesHistorical, Value: 5, Change: "0.00%"})
	assert.Equal(t, "Actual price", lines[len(lines)-1])
}

func TestTargetTooltip(t *testing.T) {
	assert.Nil(t, TargetTooltip(nil, nil))
	lines := TargetTooltip(&model.Target{Candle: &model.Candle{Instrument: "TIN3M", Date: jan5}}, map[string]string{"TIN3M": "TIN 3M"})
	assert.Equal(t, "TIN 3M - Jan 5", lines[0])
}

func TestSelectionDetails(t *testing.T) {
	out := SelectionDetails(model.TimelinePoint{
		Date: jan5, Type: model.SeriesPredicted, Value: 100, ChangePct: -2, Change: "-2.00%",
		Confidence: model.ConfidenceMedium, WeeklyInsight: "Week 2 outlook: prices expected to fall 1.00% by Jan 14",
	})
	assert.Contains(t, out, "Fri Jan 05 2024")
	assert.Contains(t, out, "Change: ↓ -2.00%")
	assert.Contains(t, out, "Confidence: Medium")
	assert.Contains(t, out, "Weekly Trend: Week 2 outlook")
}

func TestFormatCountdown(t *testing.T) {
	assert.Equal(t, "5:00", FormatCountdown(5*time.Minute))
	assert.Equal(t, "0:09", FormatCountdown(9*time.Second))
	assert.Equal(t, "0:00", FormatCountdown(-time.Second))
}

func TestMethodCaption(t *testing.T) {
	assert.Contains(t, MethodCaption("ai_enhanced_deterministic"), "AI-enhanced")
	assert.Contains(t, MethodCaption(""), "Statistical")
}

func TestMulti(t *testing.T) {
	var got []string
	m := Multi{Nop{}, Funcs{Filter: func(f string) { got = append(got, f) }}, Funcs{}}
	m.OnFilter("TIN")
	m.OnHover(nil)
	m.OnSelect(nil)
	assert.Equal(t, []string{"TIN"}, got)
}
