package collector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"MetalCharts/internal/model"
	"MetalCharts/internal/normalize"
)

// ErrStale is returned for a fetch that completed after a later-issued one
// had already been applied.
var ErrStale = errors.New("stale fetch discarded")

// Snapshot is one decoded refresh. A nil part failed to fetch or decode
// and should leave the previous data in place.
type Snapshot struct {
	Seq        uint64
	FetchedAt  time.Time
	Prices     normalize.RawPrices
	Historical *normalize.HistoricalPayload
	Forecast   *normalize.ForecastPayload
	Raw        map[Kind][]byte
}

// Collector orchestrates payload fetching and decoding. Results are
// applied in issuance order: a refresh that finishes after a newer one has
// been applied is discarded.
type Collector struct {
	Fetcher Fetcher

	mu      sync.Mutex
	issued  uint64
	applied uint64
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher}
}

// Issue reserves the next sequence number.
func (c *Collector) Issue() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issued++
	return c.issued
}

// Apply runs fn with snap unless a later-issued snapshot was applied
// first, in which case it returns ErrStale. Applies never interleave.
func (c *Collector) Apply(snap *Snapshot, fn func(*Snapshot)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if snap.Seq < c.applied {
		return fmt.Errorf("apply #%d after #%d: %w", snap.Seq, c.applied, ErrStale)
	}
	c.applied = snap.Seq
	fn(snap)
	return nil
}

// Collect fetches and decodes every payload. It fails only when no part
// could be fetched. The result carries its issuance sequence for Apply.
func (c *Collector) Collect(ctx context.Context) (*Snapshot, error) {
	seq := c.Issue()
	snap := &Snapshot{Seq: seq, Raw: make(map[Kind][]byte, len(Kinds))}

	var errs []error
	for _, kind := range Kinds {
		body, err := c.Fetcher.Fetch(ctx, kind)
		if err != nil {
			log.Printf("[WARN] %s fetch of %s failed: %v", c.Fetcher.Name(), kind, err)
			errs = append(errs, err)
			continue
		}
		if err := snap.decode(kind, body); err != nil {
			log.Printf("[WARN] Decode %s failed: %v", kind, err)
			errs = append(errs, err)
			continue
		}
		snap.Raw[kind] = body
	}
	if len(snap.Raw) == 0 {
		return nil, fmt.Errorf("collect #%d: %w", seq, errors.Join(errs...))
	}
	snap.FetchedAt = time.Now()
	return snap, nil
}

func (s *Snapshot) decode(kind Kind, body []byte) error {
	var err error
	switch kind {
	case KindPrices:
		s.Prices, err = normalize.DecodePrices(bytes.NewReader(body))
	case KindHistorical:
		s.Historical, err = normalize.DecodeHistorical(bytes.NewReader(body))
	case KindForecast:
		s.Forecast, err = normalize.DecodeForecast(bytes.NewReader(body))
	default:
		err = fmt.Errorf("unknown payload %q: %w", kind, model.ErrMalformedPayload)
	}
	return err
}

// Decode rebuilds a snapshot from stored raw payloads, skipping any that
// no longer decode.
func Decode(raw map[Kind][]byte) *Snapshot {
	snap := &Snapshot{Raw: make(map[Kind][]byte, len(raw))}
	for kind, body := range raw {
		if err := snap.decode(kind, body); err != nil {
			log.Printf("[WARN] Stored %s payload skipped: %v", kind, err)
			continue
		}
		snap.Raw[kind] = body
	}
	return snap
}
