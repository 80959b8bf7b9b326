package notify

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/djvirus9/secops-dashboard/internal/config"
)

func testEvent() Event {
	return Event{
		FindingID:   "f-1",
		Title:       "SQL injection in login form",
		Severity:    "critical",
		Asset:       "api.example.com",
		Tool:        "zap",
		RiskScore:   195,
		IsNew:       true,
		Occurrences: 1,
	}
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
	return payload
}

func TestSlackNotifyNewFinding(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		got = decodeBody(t, r)
	}))
	defer srv.Close()

	s := NewSlack(config.SlackConfig{WebhookURL: srv.URL}, srv.Client())
	require.NoError(t, s.Notify(context.Background(), testEvent()))

	assert.Equal(t, ":rotating_light: CRITICAL: SQL injection in login form on api.example.com", got["text"])

	attachments := got["attachments"].([]any)
	require.Len(t, attachments, 1)
	attachment := attachments[0].(map[string]any)
	assert.Equal(t, "#dc2626", attachment["color"])

	blocks := attachment["blocks"].([]any)
	require.Len(t, blocks, 3)
	header := blocks[0].(map[string]any)["text"].(map[string]any)
	assert.Equal(t, ":rotating_light: New finding detected: CRITICAL", header["text"])
	ctxBlock := blocks[2].(map[string]any)["elements"].([]any)[0].(map[string]any)
	assert.Equal(t, "Finding ID: `f-1`", ctxBlock["text"])
}

func TestSlackNotifyRepeatSighting(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = decodeBody(t, r)
	}))
	defer srv.Close()

	ev := testEvent()
	ev.IsNew = false
	ev.Occurrences = 7
	ev.Severity = "weird"

	s := NewSlack(config.SlackConfig{WebhookURL: srv.URL}, srv.Client())
	require.NoError(t, s.Notify(context.Background(), ev))

	attachment := got["attachments"].([]any)[0].(map[string]any)
	assert.Equal(t, "#6b7280", attachment["color"], "unknown severity falls back to gray")
	header := attachment["blocks"].([]any)[0].(map[string]any)["text"].(map[string]any)
	assert.Equal(t, ":question: Seen again (#7): WEIRD", header["text"])
}

func TestSlackNotifyErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no_service", http.StatusNotFound)
	}))
	defer srv.Close()

	s := NewSlack(config.SlackConfig{WebhookURL: srv.URL}, srv.Client())
	err := s.Notify(context.Background(), testEvent())
	assert.ErrorContains(t, err, "status 404")
}

func TestJiraNotifyCreatesIssue(t *testing.T) {
	var got map[string]any
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/3/issue", r.URL.Path)
		auth = r.Header.Get("Authorization")
		got = decodeBody(t, r)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	j := NewJira(config.JiraConfig{
		BaseURL:    srv.URL,
		Email:      "sec@example.com",
		APIToken:   "token123",
		ProjectKey: "SEC",
	}, srv.Client())
	require.NoError(t, j.Notify(context.Background(), testEvent()))

	want := "Basic " + base64.StdEncoding.EncodeToString([]byte("sec@example.com:token123"))
	assert.Equal(t, want, auth)

	fields := got["fields"].(map[string]any)
	assert.Equal(t, "[CRITICAL] SQL injection in login form - api.example.com", fields["summary"])
	assert.Equal(t, map[string]any{"key": "SEC"}, fields["project"])
	assert.Equal(t, map[string]any{"name": "Bug"}, fields["issuetype"])
	assert.Equal(t, []any{"security", "secops-dashboard", "critical"}, fields["labels"])
	assert.Contains(t, fields["description"], "|Finding ID|f-1|")
	assert.Contains(t, fields["description"], "No additional description provided.")
}

func TestJiraNotifySkipsRepeatSightings(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	j := NewJira(config.JiraConfig{
		BaseURL: srv.URL, Email: "a@b.c", APIToken: "t", ProjectKey: "SEC",
	}, srv.Client())

	ev := testEvent()
	ev.IsNew = false
	require.NoError(t, j.Notify(context.Background(), ev))
	assert.False(t, called, "repeat sightings must not open duplicate issues")
}

func TestDispatcherSkipsUnconfiguredChannels(t *testing.T) {
	d := NewDispatcher(config.NotifyConfig{Timeout: time.Second}, zap.NewNop())
	assert.False(t, d.Enabled())
	// Dispatch on an empty dispatcher is a no-op, not a panic.
	d.Dispatch(context.Background(), testEvent())
}

func TestDispatcherSwallowsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := NewDispatcher(config.NotifyConfig{
		Timeout: time.Second,
		Slack:   config.SlackConfig{WebhookURL: srv.URL},
	}, zap.NewNop())
	require.True(t, d.Enabled())
	d.Dispatch(context.Background(), testEvent())
}
