// Package recorder persists scan history for later analysis.
package recorder

import "TradeScout/internal/model"

// Recorder persists scan results and the combos they produced.
type Recorder interface {
	RecordScan(result *model.ScanResult) error
	RecordCombos(combos []model.TradeCombo) error
	Close() error
}
