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

// Jira creates one Jira Cloud issue per new finding via the v3 REST API.
// Repeat sightings are deliberately skipped so a flapping finding does not
// flood the project with duplicate issues.
type Jira struct {
	cfg    config.JiraConfig
	client *http.Client
}

func NewJira(cfg config.JiraConfig, client *http.Client) *Jira {
	return &Jira{cfg: cfg, client: client}
}

func (j *Jira) Name() string { return "jira" }

func (j *Jira) Notify(ctx context.Context, ev Event) error {
	if !ev.IsNew {
		return nil
	}

	body, err := json.Marshal(j.payload(ev))
	if err != nil {
		return fmt.Errorf("failed to encode jira payload: %w", err)
	}

	url := strings.TrimRight(j.cfg.BaseURL, "/") + "/rest/api/3/issue"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build jira request: %w", err)
	}
	req.SetBasicAuth(j.cfg.Email, j.cfg.APIToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := j.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post jira issue: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("jira returned status %d", resp.StatusCode)
	}
	return nil
}

func (j *Jira) payload(ev Event) map[string]any {
	sev := strings.ToUpper(ev.Severity)
	description := ev.Description
	if description == "" {
		description = "No additional description provided."
	}

	// Jira wiki markup table, rendered by the v3 API when description is a
	// plain string.
	issueDescription := fmt.Sprintf(`
h2. Security Finding Details

||Field||Value||
|Finding ID|%s|
|Tool|%s|
|Asset|%s|
|Severity|%s|
|Risk Score|%d|

h3. Description
%s

----
_This issue was automatically created by the SecOps Dashboard._
`, ev.FindingID, ev.Tool, ev.Asset, sev, ev.RiskScore, description)

	return map[string]any{
		"fields": map[string]any{
			"project":     map[string]any{"key": j.cfg.ProjectKey},
			"summary":     fmt.Sprintf("[%s] %s - %s", sev, ev.Title, ev.Asset),
			"description": issueDescription,
			"issuetype":   map[string]any{"name": "Bug"},
			"labels":      []string{"security", "secops-dashboard", strings.ToLower(ev.Severity)},
		},
	}
}
