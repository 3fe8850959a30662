package model

import "fmt"

// StrategyMode selects the multiplicative adjustment applied after
// weighted-sum scoring.
type StrategyMode string

const (
	StrategySniper       StrategyMode = "sniper"
	StrategyAggressive   StrategyMode = "aggressive"
	StrategyConservative StrategyMode = "conservative"
	StrategyMomentum     StrategyMode = "momentum"
)

// ParseStrategyMode validates a mode string. Invalid modes are rejected
// eagerly, before any scan runs.
func ParseStrategyMode(s string) (StrategyMode, error) {
	switch StrategyMode(s) {
	case StrategySniper, StrategyAggressive, StrategyConservative, StrategyMomentum:
		return StrategyMode(s), nil
	}
	return "", fmt.Errorf("invalid strategy mode %q (want sniper, aggressive, conservative or momentum)", s)
}

// ScoringWeights holds the six factor weights. They should sum to ~1.0;
// normalization is the caller's responsibility and is not enforced.
type ScoringWeights struct {
	ROI        float64 `yaml:"roi" json:"roi"`
	Demand     float64 `yaml:"demand" json:"demand"`
	Volume     float64 `yaml:"volume" json:"volume"`
	Volatility float64 `yaml:"volatility" json:"volatility"`
	Engagement float64 `yaml:"engagement" json:"engagement"`
	Trait      float64 `yaml:"trait" json:"trait"`
}

// DefaultWeights returns the stock weight profile.
func DefaultWeights() ScoringWeights {
	return ScoringWeights{
		ROI:        0.30,
		Demand:     0.20,
		Volume:     0.15,
		Volatility: 0.10,
		Engagement: 0.15,
		Trait:      0.10,
	}
}
