package scheduler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"MetalCharts/internal/chart"
	"MetalCharts/internal/collector"
	"MetalCharts/internal/normalize"
	"MetalCharts/internal/notifier"
	"MetalCharts/internal/recorder"
)

// Scheduler drives the periodic refresh of the dashboard charts.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Dashboard *chart.Dashboard
	Recorder  recorder.Recorder
	OutputDir string
	Ctx       context.Context

	entry      cron.EntryID
	historical *normalize.HistoricalPayload
	forecast   *normalize.ForecastPayload
	applied    map[collector.Kind][]byte
}

// NewScheduler creates a new Scheduler. An empty outputDir disables PNG output.
func NewScheduler(ctx context.Context, col *collector.Collector, dash *chart.Dashboard, rec recorder.Recorder, outputDir string) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Dashboard: dash,
		Recorder:  rec,
		OutputDir: outputDir,
		Ctx:       ctx,
		applied:   make(map[collector.Kind][]byte),
	}
}

// RegisterRefresh registers the refresh task on the given cron spec.
func (s *Scheduler) RegisterRefresh(spec string) error {
	id, err := s.Cron.AddFunc(spec, s.refreshTask)
	if err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	s.entry = id
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// NextRefresh returns when the refresh task runs next, or the zero time
// before Start.
func (s *Scheduler) NextRefresh() time.Time {
	if s.entry == 0 {
		return time.Time{}
	}
	return s.Cron.Entry(s.entry).Next
}

// Countdown formats the time until the next refresh as m:ss.
func (s *Scheduler) Countdown(now time.Time) string {
	next := s.NextRefresh()
	if next.IsZero() {
		return notifier.FormatCountdown(0)
	}
	return notifier.FormatCountdown(next.Sub(now))
}

// WarmStart loads the last stored payloads into the views so the charts
// are not empty until the first refresh completes.
func (s *Scheduler) WarmStart() error {
	stored, err := s.Recorder.LatestPayloads()
	if err != nil {
		return fmt.Errorf("load stored payloads: %w", err)
	}
	if len(stored) == 0 {
		log.Println("[INFO] warm start: nothing stored")
		return nil
	}
	raw := make(map[collector.Kind][]byte, len(stored))
	for kind, body := range stored {
		raw[collector.Kind(kind)] = body
	}
	snap := collector.Decode(raw)
	if err := s.Collector.Apply(snap, s.apply); err != nil {
		return fmt.Errorf("warm start: %w", err)
	}
	log.Printf("[INFO] warm start: restored %d payloads", len(snap.Raw))
	return nil
}

// RefreshNow runs the refresh task immediately (for manual trigger / startup).
func (s *Scheduler) RefreshNow() error {
	start := time.Now()
	evt := &recorder.RefreshEvent{Source: s.Collector.Fetcher.Name()}
	defer func() {
		evt.Duration = time.Since(start)
		if err := s.Recorder.RecordRefresh(evt); err != nil {
			log.Printf("[ERROR] record refresh: %v", err)
		}
	}()

	snap, err := s.Collector.Collect(s.Ctx)
	if err != nil {
		evt.Err = err.Error()
		return fmt.Errorf("collect: %w", err)
	}
	evt.Seq = snap.Seq
	if snap.Prices == nil || snap.Forecast == nil || snap.Historical == nil {
		log.Printf("[WARN] refresh #%d is partial, keeping previous data for missing parts", snap.Seq)
	}

	if err := s.Collector.Apply(snap, s.apply); err != nil {
		evt.Err = err.Error()
		if errors.Is(err, collector.ErrStale) {
			log.Printf("[WARN] %v", err)
			return nil
		}
		return err
	}
	for kind, body := range snap.Raw {
		if err := s.Recorder.RecordPayload(&recorder.Payload{
			Kind: string(kind), Seq: snap.Seq, FetchedAt: snap.FetchedAt, Body: body,
		}); err != nil {
			log.Printf("[ERROR] record %s payload: %v", kind, err)
		}
	}

	s.Dashboard.Do(func(c *chart.CandleView, f *chart.ForecastView) {
		evt.Dates = len(c.Series().Dates)
		tl := f.Timeline()
		for _, v := range tl.Historical {
			if v.Valid {
				evt.Historical++
			}
		}
		for _, v := range tl.Predicted {
			if v.Valid {
				evt.Predicted++
			}
		}
		if err := s.Recorder.RecordPrices(c.Series()); err != nil {
			log.Printf("[ERROR] record prices: %v", err)
		}
	})
	return nil
}

func (s *Scheduler) refreshTask() {
	log.Println("[INFO] running refresh task")
	if err := s.RefreshNow(); err != nil {
		log.Printf("[ERROR] refresh: %v", err)
	}
}

// apply pushes the decoded parts of snap into the views. Missing parts keep
// their previous data, and a view whose payloads are byte-identical to the
// last applied ones keeps its filter and selection.
func (s *Scheduler) apply(snap *collector.Snapshot) {
	pricesChanged := snap.Prices != nil && s.changed(snap, collector.KindPrices)
	seriesChanged := false
	if snap.Historical != nil && s.changed(snap, collector.KindHistorical) {
		s.historical, seriesChanged = snap.Historical, true
	}
	if snap.Forecast != nil && s.changed(snap, collector.KindForecast) {
		s.forecast, seriesChanged = snap.Forecast, true
	}
	if !pricesChanged && !seriesChanged {
		log.Printf("[INFO] refresh #%d: payloads unchanged", snap.Seq)
		return
	}

	s.Dashboard.Do(func(c *chart.CandleView, f *chart.ForecastView) {
		if pricesChanged {
			if err := c.SetPrices(snap.Prices); err != nil {
				log.Printf("[WARN] %v", err)
			}
		}
		if seriesChanged {
			if err := f.SetSeries(s.historical, s.forecast); err != nil {
				log.Printf("[WARN] %v", err)
			}
		}
	})
	if err := s.WriteCharts(); err != nil {
		log.Printf("[ERROR] write charts: %v", err)
	}
}

// changed reports whether the raw body of kind differs from the last
// applied one, and remembers it when it does.
func (s *Scheduler) changed(snap *collector.Snapshot, kind collector.Kind) bool {
	body := snap.Raw[kind]
	if prev, ok := s.applied[kind]; ok && bytes.Equal(prev, body) {
		return false
	}
	s.applied[kind] = body
	return true
}

// WriteCharts renders every view to <OutputDir>/<kind>.png.
func (s *Scheduler) WriteCharts() error {
	if s.OutputDir == "" {
		return nil
	}
	if err := os.MkdirAll(s.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for _, kind := range []string{chart.KindCandles, chart.KindForecast} {
		if err := s.writeChart(kind); err != nil {
			return err
		}
	}
	return nil
}

// writeChart renders into a temp file and renames it into place.
func (s *Scheduler) writeChart(kind string) error {
	path := filepath.Join(s.OutputDir, kind+".png")
	tmp, err := os.CreateTemp(s.OutputDir, kind+"-*.png")
	if err != nil {
		return fmt.Errorf("create %s: %w", kind, err)
	}
	defer os.Remove(tmp.Name())

	var renderErr error
	s.Dashboard.View(kind, func(v chart.View) { renderErr = v.RenderPNG(tmp) })
	if cerr := tmp.Close(); renderErr == nil {
		renderErr = cerr
	}
	if renderErr != nil {
		return fmt.Errorf("render %s: %w", kind, renderErr)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", kind, err)
	}
	return nil
}
