package recorder

import (
	"time"

	"MetalCharts/internal/model"
)

// Payload is the raw body of one upstream payload as last fetched.
type Payload struct {
	Kind      string // "prices", "historical" or "forecast"
	Seq       uint64
	FetchedAt time.Time
	Body      []byte
}

// RefreshEvent records the outcome of one refresh run.
type RefreshEvent struct {
	Seq        uint64
	Source     string
	Dates      int
	Historical int
	Predicted  int
	Duration   time.Duration
	Err        string
}

// Recorder persists the last known data for warm starts and keeps a
// refresh history for analysis.
type Recorder interface {
	RecordPayload(p *Payload) error
	LatestPayloads() (map[string][]byte, error)
	RecordPrices(ns *model.NormalizedSeries) error
	RecordRefresh(evt *RefreshEvent) error
	Close() error
}
