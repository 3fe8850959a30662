// Package signal holds the per-item signal modules: momentum, underpricing,
// trait desirability, social engagement, and calendar forecasting. Each
// module is a stateless function of one item (optionally plus historical
// data) and writes at most one score field; the scoring engine reads them
// all afterwards.
package signal

import "TradeScout/internal/model"

// demandWeight is the tier weighting used by the momentum, underpricing
// and engagement modules.
var demandWeight = [...]float64{
	model.DemandNone:     0.0,
	model.DemandLow:      0.1,
	model.DemandMedium:   0.3,
	model.DemandHigh:     0.5,
	model.DemandVeryHigh: 0.7,
}

// demandStrength is the steeper tier weighting used by trait demand
// consistency analysis.
var demandStrength = [...]float64{
	model.DemandNone:     0.0,
	model.DemandLow:      0.2,
	model.DemandMedium:   0.5,
	model.DemandHigh:     0.8,
	model.DemandVeryHigh: 1.0,
}

func tierWeight(table [5]float64, d model.DemandTier) float64 {
	if d < model.DemandNone || d > model.DemandVeryHigh {
		return 0
	}
	return table[d]
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func highDemand(d model.DemandTier) bool {
	return d >= model.DemandHigh
}
