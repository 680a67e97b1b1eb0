package layout

import (
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatPrice renders a whole-dollar price with thousands separators.
func FormatPrice(v float64) string {
	return "$" + humanize.Comma(int64(math.Round(v)))
}

// FormatPriceCents renders a price with at most two decimals, trailing
// zeros trimmed, and thousands separators.
func FormatPriceCents(v float64) string {
	return "$" + humanize.CommafWithDigits(v, 2)
}

// AxisPriceLabel picks whole dollars unless the visible span is too narrow
// to tell gridlines apart.
func AxisPriceLabel(v, span float64) string {
	if span < 10 {
		return FormatPriceCents(v)
	}
	return FormatPrice(v)
}

// ShortDate renders a date label such as "Jan 2".
func ShortDate(d time.Time) string { return d.Format("Jan 2") }
