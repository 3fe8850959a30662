package signal

import (
	"sort"
	"strings"

	"TradeScout/internal/model"
)

// valuableCategories maps categories known to hold value to a base weight.
var valuableCategories = map[string]float64{
	"hats":         0.8,
	"faces":        0.7,
	"accessories":  0.6,
	"limiteds":     0.9,
	"collectibles": 0.7,
	"rare":         0.8,
	"premium":      0.6,
}

// trendingKeywords maps name keywords to a desirability bonus.
var trendingKeywords = map[string]float64{
	"vintage":   0.3,
	"classic":   0.2,
	"retro":     0.2,
	"exclusive": 0.4,
	"limited":   0.3,
	"rare":      0.4,
	"premium":   0.3,
	"collector": 0.3,
	"special":   0.2,
	"unique":    0.3,
}

const similarityThreshold = 0.5

// TraitScore computes the composite trait desirability score in [0,1]:
// category fit, keyword appeal, rarity and demand consistency.
func TraitScore(item *model.Item) float64 {
	score := categoryScore(item)*0.3 +
		keywordScore(item)*0.2 +
		rarityScore(item)*0.3 +
		demandConsistencyScore(item)*0.2
	return clamp01(score)
}

func categoryScore(item *model.Item) float64 {
	category := strings.ToLower(item.Category)
	if w, ok := valuableCategories[category]; ok {
		return w
	}
	// Partial matches score at 80% of the table weight.
	for cat, w := range valuableCategories {
		if strings.Contains(category, cat) || strings.Contains(cat, category) {
			return w * 0.8
		}
	}
	return 0.3
}

func keywordScore(item *model.Item) float64 {
	name := strings.ToLower(item.Name)
	score := 0.0
	for kw, w := range trendingKeywords {
		if strings.Contains(name, kw) {
			score += w
		}
	}
	return clamp(score, 0, 0.8)
}

func rarityScore(item *model.Item) float64 {
	score := 0.0
	if item.Rare {
		score += 0.4
	}
	if item.Premium {
		score += 0.3
	}
	// Scarcity bonus: the fewer available, the rarer.
	if item.Available > 0 {
		availabilityRatio := clamp01(float64(item.Available) / 1000.0)
		score += (1.0 - availabilityRatio) * 0.3
	}
	switch {
	case item.Value > 10000:
		score += 0.2
	case item.Value > 5000:
		score += 0.1
	}
	return clamp01(score)
}

func demandConsistencyScore(item *model.Item) float64 {
	score := tierWeight(demandStrength, item.Demand) * 0.6
	// Moderate volume is the sweet spot; very high volume hints at churn.
	if item.Volume >= 50 && item.Volume <= 500 {
		score += 0.2
	} else if item.Volume > 500 {
		score += 0.1
	}
	if item.Hyped {
		score += 0.2
	}
	return clamp01(score)
}

// Similarity rates how alike two items are: category, value band, demand,
// rarity flags and name-token overlap. Result in [0,1].
func Similarity(a, b *model.Item) float64 {
	score := 0.0
	if strings.EqualFold(a.Category, b.Category) {
		score += 0.3
	}
	if a.Value > 0 && b.Value > 0 {
		lo, hi := a.Value, b.Value
		if lo > hi {
			lo, hi = hi, lo
		}
		if float64(lo)/float64(hi) > 0.8 {
			score += 0.2
		}
	}
	if a.Demand == b.Demand {
		score += 0.2
	}
	if a.Rare == b.Rare {
		score += 0.1
	}
	if a.Premium == b.Premium {
		score += 0.1
	}
	score += nameSimilarity(a.Name, b.Name) * 0.1
	return clamp01(score)
}

// nameSimilarity is the Jaccard index of the lowercased name tokens.
func nameSimilarity(a, b string) float64 {
	wordsA := tokenSet(a)
	wordsB := tokenSet(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}
	intersection := 0
	for w := range wordsA {
		if wordsB[w] {
			intersection++
		}
	}
	union := len(wordsA) + len(wordsB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = true
	}
	return set
}

// AnalyzeTraits writes the trait score onto every item.
func AnalyzeTraits(items []*model.Item) {
	for _, item := range items {
		item.TraitScore = TraitScore(item)
	}
}

// FindSimilar returns up to limit items most similar to target, above the
// similarity threshold, most similar first.
func FindSimilar(target *model.Item, all []*model.Item, limit int) []*model.Item {
	var out []*model.Item
	scores := make(map[int64]float64)
	for _, item := range all {
		if item.ID == target.ID {
			continue
		}
		s := Similarity(target, item)
		if s > similarityThreshold {
			scores[item.ID] = s
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return scores[out[i].ID] > scores[out[j].ID] })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
