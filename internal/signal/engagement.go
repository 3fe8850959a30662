package signal

import (
	"sort"
	"strings"

	"TradeScout/internal/model"
)

var (
	positiveKeywords = []string{"amazing", "awesome", "best", "love", "great", "perfect", "wow", "incredible", "beautiful", "stunning"}
	negativeKeywords = []string{"bad", "terrible", "awful", "hate", "worst", "ugly", "disappointing", "boring", "overrated", "trash"}
	viralKeywords    = []string{"viral", "trending", "popular", "hot", "fire", "lit", "buzz", "hype", "craze", "fad"}
)

// platformWeights apportions an estimated reach across outlets.
var platformWeights = map[string]float64{
	"discord": 0.4,
	"twitter": 0.3,
	"reddit":  0.2,
	"youtube": 0.1,
}

const viralThreshold = 0.5

// EngagementScore computes the social engagement score in [0,1] from hype,
// demand, volume, rarity and name sentiment.
func EngagementScore(item *model.Item) float64 {
	score := 0.0
	if item.Hyped {
		score += 0.3
	}
	score += tierWeight(demandWeight, item.Demand) * 0.2
	switch {
	case item.Volume > 500:
		score += 0.2
	case item.Volume > 200:
		score += 0.1
	}
	if item.Rare {
		score += 0.2
	}
	if item.Premium {
		score += 0.1
	}
	score += NameSentiment(item.Name) * 0.1
	return clamp01(score)
}

// NameSentiment scores an item name against fixed keyword lists,
// clamped to [-1,1].
func NameSentiment(name string) float64 {
	lower := strings.ToLower(name)
	score := 0.0
	for _, kw := range positiveKeywords {
		if strings.Contains(lower, kw) {
			score += 0.1
		}
	}
	for _, kw := range negativeKeywords {
		if strings.Contains(lower, kw) {
			score -= 0.1
		}
	}
	for _, kw := range viralKeywords {
		if strings.Contains(lower, kw) {
			score += 0.15
		}
	}
	return clamp(score, -1, 1)
}

// SocialTrendingScore rates current social traction from volume tiers,
// hype, demand and name appeal.
func SocialTrendingScore(item *model.Item) float64 {
	score := 0.0
	switch {
	case item.Volume > 800:
		score += 0.4
	case item.Volume > 400:
		score += 0.3
	case item.Volume > 200:
		score += 0.2
	}
	if item.Hyped {
		score += 0.3
	}
	if highDemand(item.Demand) {
		score += 0.2
	}
	if s := NameSentiment(item.Name); s > 0 {
		score += s * 0.1
	}
	return clamp01(score)
}

// ViralPrediction estimates an item's viral potential and reach.
type ViralPrediction struct {
	Item       *model.Item
	Score      float64
	Confidence float64
	Reasoning  string
	Reach      map[string]int
}

// ViralScore rates how likely an item is to go viral.
func ViralScore(item *model.Item) float64 {
	score := 0.0
	switch {
	case item.EngagementScore > 0.7:
		score += 0.3
	case item.EngagementScore > 0.5:
		score += 0.2
	}
	switch {
	case item.Volume > 600:
		score += 0.3
	case item.Volume > 300:
		score += 0.2
	}
	if item.Hyped {
		score += 0.2
	}
	if item.Rare {
		score += 0.2
	}
	if s := NameSentiment(item.Name); s > 0 {
		score += s * 0.1
	}
	return clamp01(score)
}

func viralConfidence(item *model.Item) float64 {
	confidence := 0.5
	switch {
	case item.Volume > 500:
		confidence += 0.2
	case item.Volume > 200:
		confidence += 0.1
	}
	if highDemand(item.Demand) {
		confidence += 0.2
	}
	if item.Hyped {
		confidence += 0.1
	}
	return clamp01(confidence)
}

func viralReasoning(item *model.Item) string {
	var reasons []string
	if item.Hyped {
		reasons = append(reasons, "Currently hyped")
	}
	if item.Volume > 500 {
		reasons = append(reasons, "High trading volume")
	}
	if item.Rare {
		reasons = append(reasons, "Rare item status")
	}
	if highDemand(item.Demand) {
		reasons = append(reasons, "Strong demand")
	}
	if NameSentiment(item.Name) > 0.2 {
		reasons = append(reasons, "Positive name sentiment")
	}
	if len(reasons) == 0 {
		return "Moderate viral potential"
	}
	return strings.Join(reasons, "; ")
}

// estimateReach apportions a base reach across the fixed platform weights,
// boosted for rare and hyped items.
func estimateReach(item *model.Item, viralScore float64) map[string]int {
	baseReach := viralScore * 10000
	boost := 1.0
	if item.Rare {
		boost *= 1.5
	}
	if item.Hyped {
		boost *= 1.3
	}
	reach := make(map[string]int, len(platformWeights))
	for platform, w := range platformWeights {
		reach[platform] = int(baseReach * w * boost)
	}
	return reach
}

// AnalyzeEngagement writes the engagement score onto every item.
func AnalyzeEngagement(items []*model.Item) {
	for _, item := range items {
		item.EngagementScore = EngagementScore(item)
	}
}

// PredictViral returns viral predictions for items above the threshold,
// highest score first.
func PredictViral(items []*model.Item) []ViralPrediction {
	var out []ViralPrediction
	for _, item := range items {
		score := ViralScore(item)
		if score > viralThreshold {
			out = append(out, ViralPrediction{
				Item:       item,
				Score:      score,
				Confidence: viralConfidence(item),
				Reasoning:  viralReasoning(item),
				Reach:      estimateReach(item, score),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}
