package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// DemandTier classifies buyer interest in an item. Tiers are totally
// ordered; comparisons must use the numeric order, never the string form.
type DemandTier int

const (
	DemandNone DemandTier = iota
	DemandLow
	DemandMedium
	DemandHigh
	DemandVeryHigh
)

var demandNames = [...]string{"none", "low", "medium", "high", "very_high"}

func (d DemandTier) String() string {
	if d < DemandNone || d > DemandVeryHigh {
		return "none"
	}
	return demandNames[d]
}

// ParseDemandTier maps a demand string to its tier. Unknown strings map to
// DemandNone rather than failing: malformed source data degrades, it does
// not abort a batch.
func ParseDemandTier(s string) DemandTier {
	for i, name := range demandNames {
		if name == s {
			return DemandTier(i)
		}
	}
	return DemandNone
}

func (d DemandTier) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *DemandTier) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("demand tier: %w", err)
	}
	*d = ParseDemandTier(s)
	return nil
}

// Item is a single tradable listing. The top block mirrors what the data
// source reports; the score fields are overwritten on every scan.
type Item struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Category  string     `json:"category"`
	RAP       int        `json:"rap"`
	Value     int        `json:"value"`
	Demand    DemandTier `json:"demand"`
	Volume    int        `json:"volume"`
	Available int        `json:"available"`
	Premium   bool       `json:"premium"`
	Hyped     bool       `json:"hyped"`
	Rare      bool       `json:"rare"`
	Projected int        `json:"projected"`
	Created   time.Time  `json:"created,omitempty"`
	Updated   time.Time  `json:"updated,omitempty"`

	// Computed per scan.
	ROI             float64 `json:"roi"`
	Volatility      float64 `json:"volatility"`
	EngagementScore float64 `json:"engagement_score"`
	TraitScore      float64 `json:"trait_score"`
	MomentumScore   float64 `json:"momentum_score"`
}

// HistoryPoint is one day of an item's price history.
type HistoryPoint struct {
	Date   time.Time `json:"date"`
	Value  int       `json:"value"`
	RAP    int       `json:"rap"`
	Volume int       `json:"volume"`
}
