package timeline

import "MetalCharts/internal/model"

// Band describes one confidence category.
type Band struct {
	Confidence  model.Confidence
	Color       string // "#RRGGBB"
	Explanation string
}

// Bands lists every confidence category, most reliable first.
var Bands = []Band{
	{model.ConfidenceVeryHigh, "#2ECAEA", "Forecast sits right next to the latest actual price and has accumulated almost no uncertainty."},
	{model.ConfidenceHigh, "#2ECAEA", "Near-term forecast close to the latest actual price; market conditions are unlikely to shift materially this soon."},
	{model.ConfidenceMedium, "#F1B44C", "Mid-range forecast; accumulated market volatility widens the likely price range."},
	{model.ConfidenceLow, "#F6915E", "Longer-range forecast; shifts in supply and demand can move the price well away from this estimate."},
	{model.ConfidenceVeryLow, "#F96E57", "Far-horizon forecast; read it as a directional indication rather than a price target."},
}

// BandFor returns the band of c, falling back to high.
func BandFor(c model.Confidence) Band {
	for _, b := range Bands {
		if b.Confidence == c {
			return b
		}
	}
	return Bands[1]
}

// ConfidenceAt assigns the confidence of the forecast point at the given
// 0-based horizon index. Confidence degrades with distance from the last
// actual price.
func ConfidenceAt(horizon int) model.Confidence {
	switch {
	case horizon <= 7:
		return model.ConfidenceHigh
	case horizon <= 15:
		return model.ConfidenceMedium
	case horizon <= 20:
		return model.ConfidenceLow
	default:
		return model.ConfidenceVeryLow
	}
}
