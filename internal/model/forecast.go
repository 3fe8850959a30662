package model

import "time"

// ForecastWindow is a predicted interval of favorable trading conditions.
// Windows are generated fresh per forecast call and never persisted.
type ForecastWindow struct {
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	Confidence    float64   `json:"confidence"`
	ExpectedGain  int       `json:"expected_gain"`
	Reasoning     string    `json:"reasoning"`
	AffectedItems []int64   `json:"affected_items"`
}
