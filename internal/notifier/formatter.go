package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"TradeScout/internal/model"
)

const footerText = "TradeScout"

// TradeEmbed renders a combo into a rich embed.
func TradeEmbed(combo model.TradeCombo) Embed {
	now := time.Now()
	desc := fmt.Sprintf("**%s**\n\n%s **Strategy**: %s\n%s **Risk**: %s\n📈 **Forecast**: %s",
		comboDescription(combo),
		strategyEmoji(combo.StrategyUsed), title(string(combo.StrategyUsed)),
		riskEmoji(combo.RiskLevel), combo.RiskLevel,
		title(strings.ReplaceAll(forecastLabel(combo.Confidence), "_", " ")))

	return Embed{
		Title:       "🎯 Trade Opportunity Detected!",
		Description: desc,
		URL:         comboLink(combo),
		Color:       confidenceColor(combo.Confidence),
		Fields: []EmbedField{
			{Name: "💰 Projected Gain", Value: fmt.Sprintf("**%s** Robux", humanize.Comma(int64(combo.ProjectedGain))), Inline: true},
			{Name: "🎯 Confidence", Value: fmt.Sprintf("**%.1f%%**", combo.Confidence*100), Inline: true},
			{Name: "⏰ Detected", Value: fmt.Sprintf("<t:%d:R>", now.Unix()), Inline: true},
		},
		Footer:    &EmbedFooter{Text: footerText},
		Timestamp: now.Format(time.RFC3339),
	}
}

// SummaryEmbed renders a finished scan's headline numbers.
func SummaryEmbed(result *model.ScanResult) Embed {
	fields := []EmbedField{
		{Name: "🔍 Items Scanned", Value: humanize.Comma(int64(result.ItemsScanned)), Inline: true},
		{Name: "⭐ Opportunities", Value: humanize.Comma(int64(result.ItemsFound)), Inline: true},
		{Name: "⏱️ Duration", Value: result.Duration.Round(time.Millisecond).String(), Inline: true},
	}
	if result.Metrics != nil {
		fields = append(fields,
			EmbedField{Name: "💎 Total Value", Value: humanize.Comma(int64(result.Metrics.TotalValue)), Inline: true},
			EmbedField{Name: "⚠️ Risk Index", Value: fmt.Sprintf("%.2f", result.Metrics.RiskIndex), Inline: true},
		)
	}
	return Embed{
		Title:       "📊 Market Summary",
		Description: "Latest market analysis and opportunities",
		Color:       alertColor("info"),
		Fields:      fields,
		Footer:      &EmbedFooter{Text: footerText},
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}

// SystemEmbed renders a system notice.
func SystemEmbed(message, alertType string) Embed {
	return Embed{
		Title:       "🔧 System Alert",
		Description: message,
		Color:       alertColor(alertType),
		Footer:      &EmbedFooter{Text: footerText},
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}

// comboDescription renders "A + B → C + D".
func comboDescription(combo model.TradeCombo) string {
	return fmt.Sprintf("%s → %s", joinNames(combo.ItemsOffered), joinNames(combo.ItemsRequested))
}

func joinNames(items []*model.Item) string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return strings.Join(names, " + ")
}

// comboLink points at the first requested item's listing.
func comboLink(combo model.TradeCombo) string {
	if len(combo.ItemsRequested) > 0 {
		return fmt.Sprintf("https://www.rolimons.com/item/%d", combo.ItemsRequested[0].ID)
	}
	return "https://www.rolimons.com"
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func forecastLabel(confidence float64) string {
	switch {
	case confidence > 0.95:
		return "very_strong"
	case confidence > 0.9:
		return "strong"
	case confidence > 0.8:
		return "moderate"
	}
	return "weak"
}

func alertColor(alertType string) int {
	switch alertType {
	case "info":
		return 0x0099FF
	case "success":
		return 0x00FF00
	case "warning":
		return 0xFFFF00
	case "error":
		return 0xFF0000
	}
	return 0x0099FF
}

func confidenceColor(confidence float64) int {
	switch {
	case confidence > 0.95:
		return 0x00FF00
	case confidence > 0.9:
		return 0xFFFF00
	case confidence > 0.8:
		return 0xFFA500
	}
	return 0xFF0000
}

func riskEmoji(level model.RiskLevel) string {
	switch level {
	case model.RiskLow:
		return "🟢"
	case model.RiskMedium:
		return "🟡"
	case model.RiskHigh:
		return "🟠"
	case model.RiskVeryHigh:
		return "🔴"
	}
	return "⚪"
}

func strategyEmoji(mode model.StrategyMode) string {
	switch mode {
	case model.StrategySniper:
		return "🎯"
	case model.StrategyAggressive:
		return "⚡"
	case model.StrategyConservative:
		return "🛡️"
	case model.StrategyMomentum:
		return "📈"
	}
	return "🎲"
}
