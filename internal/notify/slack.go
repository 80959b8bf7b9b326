package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/djvirus9/secops-dashboard/internal/config"
)

var severityEmoji = map[string]string{
	"critical": ":rotating_light:",
	"high":     ":warning:",
	"medium":   ":large_yellow_circle:",
	"low":      ":large_blue_circle:",
	"info":     ":information_source:",
}

var severityColor = map[string]string{
	"critical": "#dc2626",
	"high":     "#ea580c",
	"medium":   "#ca8a04",
	"low":      "#2563eb",
	"info":     "#6b7280",
}

// Slack posts finding events to a Slack incoming webhook as Block Kit
// messages with a severity-colored attachment.
type Slack struct {
	webhookURL string
	client     *http.Client
}

func NewSlack(cfg config.SlackConfig, client *http.Client) *Slack {
	return &Slack{webhookURL: cfg.WebhookURL, client: client}
}

func (s *Slack) Name() string { return "slack" }

func (s *Slack) Notify(ctx context.Context, ev Event) error {
	body, err := json.Marshal(s.payload(ev))
	if err != nil {
		return fmt.Errorf("failed to encode slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post slack webhook: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("slack webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func (s *Slack) payload(ev Event) map[string]any {
	sev := strings.ToLower(ev.Severity)
	emoji, ok := severityEmoji[sev]
	if !ok {
		emoji = ":question:"
	}
	color, ok := severityColor[sev]
	if !ok {
		color = "#6b7280"
	}

	action := "New finding detected"
	if !ev.IsNew {
		action = fmt.Sprintf("Seen again (#%d)", ev.Occurrences)
	}

	blocks := []map[string]any{
		{
			"type": "header",
			"text": map[string]any{
				"type":  "plain_text",
				"text":  fmt.Sprintf("%s %s: %s", emoji, action, strings.ToUpper(ev.Severity)),
				"emoji": true,
			},
		},
		{
			"type": "section",
			"fields": []map[string]any{
				{"type": "mrkdwn", "text": "*Title:*\n" + ev.Title},
				{"type": "mrkdwn", "text": "*Asset:*\n" + ev.Asset},
				{"type": "mrkdwn", "text": "*Tool:*\n" + ev.Tool},
				{"type": "mrkdwn", "text": fmt.Sprintf("*Risk Score:*\n%d", ev.RiskScore)},
			},
		},
		{
			"type": "context",
			"elements": []map[string]any{
				{"type": "mrkdwn", "text": fmt.Sprintf("Finding ID: `%s`", ev.FindingID)},
			},
		},
	}

	return map[string]any{
		"text": fmt.Sprintf("%s %s: %s on %s", emoji, strings.ToUpper(ev.Severity), ev.Title, ev.Asset),
		"attachments": []map[string]any{
			{"color": color, "blocks": blocks},
		},
	}
}
