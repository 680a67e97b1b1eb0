package recorder

import "MetalCharts/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordPayload(_ *Payload) error               { return nil }
func (n *NoopRecorder) LatestPayloads() (map[string][]byte, error)   { return nil, nil }
func (n *NoopRecorder) RecordPrices(_ *model.NormalizedSeries) error { return nil }
func (n *NoopRecorder) RecordRefresh(_ *RefreshEvent) error          { return nil }
func (n *NoopRecorder) Close() error                                 { return nil }
