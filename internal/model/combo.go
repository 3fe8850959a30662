package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// RiskLevel buckets a combo's risk score. Levels are totally ordered.
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
	RiskVeryHigh
)

var riskNames = [...]string{"Low", "Medium", "High", "Very High"}

func (r RiskLevel) String() string {
	if r < RiskLow || r > RiskVeryHigh {
		return "Medium"
	}
	return riskNames[r]
}

func (r RiskLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *RiskLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("risk level: %w", err)
	}
	for i, name := range riskNames {
		if name == s {
			*r = RiskLevel(i)
			return nil
		}
	}
	*r = RiskMedium
	return nil
}

// TradeCombo is a proposed exchange of one item set for another. A combo is
// immutable once validated and returned by the generator.
type TradeCombo struct {
	ID             string       `json:"id"`
	ItemsOffered   []*Item      `json:"items_offered"`
	ItemsRequested []*Item      `json:"items_requested"`
	ProjectedGain  int          `json:"projected_gain"`
	Confidence     float64      `json:"confidence"`
	RiskLevel      RiskLevel    `json:"risk_level"`
	StrategyUsed   StrategyMode `json:"strategy_used"`
	Created        time.Time    `json:"created"`

	TotalValueOffered   int     `json:"total_value_offered"`
	TotalValueRequested int     `json:"total_value_requested"`
	ROIPercentage       float64 `json:"roi_percentage"`
	VolumeScore         float64 `json:"volume_score"`
	DemandScore         float64 `json:"demand_score"`
}
