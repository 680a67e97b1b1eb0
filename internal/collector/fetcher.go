package collector

import "context"

// Kind names one upstream payload.
type Kind string

const (
	KindPrices     Kind = "prices"
	KindForecast   Kind = "forecast"
	KindHistorical Kind = "historical"
)

// Kinds lists every payload a refresh fetches, in fetch order.
var Kinds = []Kind{KindPrices, KindHistorical, KindForecast}

// Fetcher defines the interface for fetching raw chart payloads.
type Fetcher interface {
	Fetch(ctx context.Context, kind Kind) ([]byte, error)
	Name() string
}
