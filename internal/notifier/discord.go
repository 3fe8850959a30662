// Package notifier delivers trade alerts and system notices over a Discord
// webhook.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"TradeScout/internal/model"
)

// DiscordNotifier posts webhook embeds. Alerts below the gain or confidence
// thresholds, or graded Very High risk, are suppressed.
type DiscordNotifier struct {
	WebhookURL          string
	RoleID              string
	AlertThreshold      int
	ConfidenceThreshold float64
	Client              *http.Client
}

// NewDiscordNotifier creates a notifier with optional proxy support.
func NewDiscordNotifier(webhookURL, roleID, proxyURL string, alertThreshold int, confidenceThreshold float64) *DiscordNotifier {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &DiscordNotifier{
		WebhookURL:          webhookURL,
		RoleID:              roleID,
		AlertThreshold:      alertThreshold,
		ConfidenceThreshold: confidenceThreshold,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

// webhookPayload is the Discord webhook body.
type webhookPayload struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds"`
}

// Embed is a Discord rich embed.
type Embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	URL         string       `json:"url,omitempty"`
	Color       int          `json:"color"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type EmbedFooter struct {
	Text string `json:"text"`
}

// ShouldAlert reports whether a combo clears the alert gate.
func (d *DiscordNotifier) ShouldAlert(combo model.TradeCombo) bool {
	if combo.ProjectedGain < d.AlertThreshold {
		return false
	}
	if combo.Confidence < d.ConfidenceThreshold {
		return false
	}
	// Very High risk trades are never worth pinging people for.
	return combo.RiskLevel != model.RiskVeryHigh
}

// SendTradeAlert posts a combo alert, mentioning the configured role.
func (d *DiscordNotifier) SendTradeAlert(ctx context.Context, combo model.TradeCombo) error {
	payload := webhookPayload{Embeds: []Embed{TradeEmbed(combo)}}
	if d.RoleID != "" {
		payload.Content = fmt.Sprintf("<@&%s> New trade opportunity!", d.RoleID)
	}
	return d.send(ctx, payload)
}

// SendSystemAlert posts a plain system notice. alertType selects the color:
// info, success, warning or error.
func (d *DiscordNotifier) SendSystemAlert(ctx context.Context, message, alertType string) error {
	return d.send(ctx, webhookPayload{Embeds: []Embed{SystemEmbed(message, alertType)}})
}

// SendScanSummary posts the headline numbers of a finished scan.
func (d *DiscordNotifier) SendScanSummary(ctx context.Context, result *model.ScanResult) error {
	return d.send(ctx, webhookPayload{Embeds: []Embed{SummaryEmbed(result)}})
}

func (d *DiscordNotifier) send(ctx context.Context, payload webhookPayload) error {
	if d.WebhookURL == "" {
		log.Warn().Msg("no discord webhook URL configured")
		return nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("discord webhook error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// SendTradeAlertWithRetry posts a combo alert with exponential backoff.
func (d *DiscordNotifier) SendTradeAlertWithRetry(ctx context.Context, combo model.TradeCombo, maxRetries int) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if err := d.SendTradeAlert(ctx, combo); err != nil {
			lastErr = err
			backoff := time.Duration(1<<uint(i)) * time.Second
			log.Warn().Err(err).Int("attempt", i+1).Int("max", maxRetries+1).Dur("backoff", backoff).Msg("discord send failed, retrying")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				continue
			}
		}
		return nil
	}
	return fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, lastErr)
}
