package recorder

import "TradeScout/internal/model"

// NoopRecorder discards everything. Used when no database path is configured.
type NoopRecorder struct{}

// NewNoopRecorder returns a recorder that drops all records.
func NewNoopRecorder() NoopRecorder { return NoopRecorder{} }

func (NoopRecorder) RecordScan(*model.ScanResult) error    { return nil }
func (NoopRecorder) RecordCombos([]model.TradeCombo) error { return nil }
func (NoopRecorder) Close() error                          { return nil }
