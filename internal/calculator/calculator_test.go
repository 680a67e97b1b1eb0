package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MetalCharts/internal/model"
)

func TestPercentChange(t *testing.T) {
	assert.InDelta(t, 10.0, PercentChange(100, 110), 1e-9)
	assert.InDelta(t, -10.0, PercentChange(110, 99), 1e-9)
	assert.Equal(t, 0.0, PercentChange(0, 50))
}

func TestFormatChange(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{0, "+0.00%"},
		{math.Copysign(0, -1), "+0.00%"},
		{1.234, "+1.23%"},
		{-0.5, "-0.50%"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatChange(tt.pct))
	}
}

func TestPercentChange_ZeroBase(t *testing.T) {
	assert.Equal(t, 0.0, PercentChange(0, 10))
}

func TestRange(t *testing.T) {
	r := RangeOf(5, 3, math.NaN(), 9, math.Inf(1))
	require.True(t, r.OK)
	assert.Equal(t, 3.0, r.Min)
	assert.Equal(t, 9.0, r.Max)
	assert.Equal(t, 6.0, r.Span())
	assert.Equal(t, 0.5, r.Position(6))
	assert.Equal(t, 1.0, r.Position(100))

	var empty Range
	assert.False(t, empty.OK)
	assert.Equal(t, 0.0, empty.Span())
	assert.Equal(t, 0.5, RangeOf(4, 4).Position(4))
}

func TestTrendOf(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	pts := []model.PricePoint{
		{Date: base, Value: 200},
		{Date: base.AddDate(0, 0, 1), Value: 210},
		{Date: base.AddDate(0, 0, 2), Value: 190},
	}
	tr, ok := TrendOf("TIN", pts)
	require.True(t, ok)
	assert.InDelta(t, -5.0, tr.ChangePct, 1e-9)
	assert.Equal(t, "-5.00%", tr.Change)
	assert.False(t, tr.Up)
	assert.Len(t, tr.Sparkline, 3)

	_, ok = TrendOf("TIN", pts[:1])
	assert.False(t, ok)
}
